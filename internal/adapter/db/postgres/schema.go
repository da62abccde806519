package postgres

import (
	"time"

	"social-network-service/internal/domain/interest"
	"social-network-service/internal/domain/post"
	"social-network-service/internal/domain/subscription"
	"social-network-service/internal/domain/user"
)

// UserSchema represents the database schema for the users table.
type UserSchema struct {
	ID         int64  `gorm:"primaryKey;autoIncrement"`
	Username   string `gorm:"size:150;not null;unique"`
	FirstName  string `gorm:"size:150;not null;default:''"`
	LastName   string `gorm:"size:150;not null;default:''"`
	Email      string `gorm:"size:254;not null;default:''"`
	Biography  string `gorm:"not null;default:''"`
	BirthDate  *time.Time
	CountryID  *int64
	CityID     *int64
	IsStaff    bool      `gorm:"not null;default:false"`
	DateJoined time.Time `gorm:"not null"`
}

// TableName specifies the table name for the UserSchema model.
func (UserSchema) TableName() string {
	return "users"
}

func (m UserSchema) toDomain() user.User {
	return user.User{
		ID:         m.ID,
		Username:   m.Username,
		FirstName:  m.FirstName,
		LastName:   m.LastName,
		Email:      m.Email,
		Biography:  m.Biography,
		BirthDate:  m.BirthDate,
		CountryID:  m.CountryID,
		CityID:     m.CityID,
		IsStaff:    m.IsStaff,
		DateJoined: m.DateJoined,
	}
}

// PostSchema represents the database schema for the posts table.
type PostSchema struct {
	ID         int64     `gorm:"primaryKey;autoIncrement"`
	UserID     int64     `gorm:"not null;index:idx_posts_user_created,priority:1"`
	Title      string    `gorm:"size:100;not null"`
	Text       string    `gorm:"size:1000;not null"`
	CreatedAt  time.Time `gorm:"not null;index:idx_posts_user_created,priority:2"`
	CreatedBy  int64     `gorm:"not null"`
	ModifiedAt *time.Time
	ModifiedBy *int64
}

// TableName specifies the table name for the PostSchema model.
func (PostSchema) TableName() string {
	return "posts"
}

func (m PostSchema) toDomain() post.Post {
	return post.Post{
		ID:         m.ID,
		UserID:     m.UserID,
		Title:      m.Title,
		Text:       m.Text,
		CreatedAt:  m.CreatedAt.UTC(),
		CreatedBy:  m.CreatedBy,
		ModifiedAt: m.ModifiedAt,
		ModifiedBy: m.ModifiedBy,
	}
}

// SubscriptionSchema represents the database schema for the subscriptions table.
// The composite unique index is the last line of defence against duplicate edges.
type SubscriptionSchema struct {
	ID         int64     `gorm:"primaryKey;autoIncrement"`
	FollowerID int64     `gorm:"not null;uniqueIndex:idx_subscriptions_pair,priority:1"`
	FolloweeID int64     `gorm:"not null;uniqueIndex:idx_subscriptions_pair,priority:2;index"`
	CreatedAt  time.Time `gorm:"not null"`
}

// TableName specifies the table name for the SubscriptionSchema model.
func (SubscriptionSchema) TableName() string {
	return "subscriptions"
}

func (m SubscriptionSchema) toDomain() subscription.Subscription {
	return subscription.Subscription{
		ID:         m.ID,
		FollowerID: m.FollowerID,
		FolloweeID: m.FolloweeID,
		CreatedAt:  m.CreatedAt.UTC(),
	}
}

// InterestSchema represents the database schema for the interests table.
type InterestSchema struct {
	ID   int64  `gorm:"primaryKey;autoIncrement"`
	Name string `gorm:"size:100;not null;unique"`
}

// TableName specifies the table name for the InterestSchema model.
func (InterestSchema) TableName() string {
	return "interests"
}

func (m InterestSchema) toDomain() interest.Interest {
	return interest.Interest{ID: m.ID, Name: m.Name}
}

// UserInterestSchema links users to interests.
type UserInterestSchema struct {
	ID         int64 `gorm:"primaryKey;autoIncrement"`
	UserID     int64 `gorm:"not null;uniqueIndex:idx_user_interests_pair,priority:1"`
	InterestID int64 `gorm:"not null;uniqueIndex:idx_user_interests_pair,priority:2"`
}

// TableName specifies the table name for the UserInterestSchema model.
func (UserInterestSchema) TableName() string {
	return "user_interests"
}

// Models lists every schema, in dependency order, for AutoMigrate in tests and tooling.
func Models() []any {
	return []any{
		&UserSchema{},
		&InterestSchema{},
		&UserInterestSchema{},
		&PostSchema{},
		&SubscriptionSchema{},
	}
}
