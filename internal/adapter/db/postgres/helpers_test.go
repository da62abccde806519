package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"social-network-service/internal/domain/user"
)

var baseTime = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Discard,
	})
	require.NoError(t, err)

	// Every :memory: connection is a separate database
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(Models()...))

	return db
}

func seedUser(t *testing.T, db *gorm.DB, username string, staff bool) int64 {
	model := UserSchema{
		Username:   username,
		FirstName:  username + "-first",
		Email:      username + "@example.com",
		IsStaff:    staff,
		DateJoined: baseTime,
	}
	require.NoError(t, db.Create(&model).Error)
	return model.ID
}

func seedPost(t *testing.T, db *gorm.DB, authorID int64, title, text string, createdAt time.Time) int64 {
	model := PostSchema{
		UserID:    authorID,
		Title:     title,
		Text:      text,
		CreatedAt: createdAt.UTC(),
		CreatedBy: authorID,
	}
	require.NoError(t, db.Create(&model).Error)
	return model.ID
}

func seedSubscription(t *testing.T, db *gorm.DB, followerID, followeeID int64, createdAt time.Time) int64 {
	model := SubscriptionSchema{
		FollowerID: followerID,
		FolloweeID: followeeID,
		CreatedAt:  createdAt.UTC(),
	}
	require.NoError(t, db.Create(&model).Error)
	return model.ID
}

func usernames(users []user.User) []string {
	names := make([]string, len(users))
	for i, u := range users {
		names[i] = u.Username
	}
	return names
}

func ctx() context.Context {
	return context.Background()
}
