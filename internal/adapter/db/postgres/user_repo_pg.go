package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"social-network-service/internal/domain/user"
)

// UserRepoPG implements the user directory on top of GORM.
type UserRepoPG struct {
	db  *gorm.DB    // GORM database connection
	log *zap.Logger // Structured logger for database operations
}

// NewUserRepoPG creates a new instance of UserRepoPG.
func NewUserRepoPG(db *gorm.DB, log *zap.Logger) *UserRepoPG {
	return &UserRepoPG{db: db, log: log}
}

// Create inserts a new user into the database.
func (r *UserRepoPG) Create(ctx context.Context, u *user.User) (int64, error) {
	if u == nil {
		return 0, errors.New("user cannot be nil")
	}

	joined := u.DateJoined
	if joined.IsZero() {
		joined = time.Now()
	}

	model := UserSchema{
		Username:   u.Username,
		FirstName:  u.FirstName,
		LastName:   u.LastName,
		Email:      u.Email,
		Biography:  u.Biography,
		BirthDate:  u.BirthDate,
		CountryID:  u.CountryID,
		CityID:     u.CityID,
		IsStaff:    u.IsStaff,
		DateJoined: joined.UTC(),
	}

	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		r.log.Error("failed to create user in db", zap.Error(err), zap.String("username", u.Username))
		return 0, fmt.Errorf("failed to create user: %w", err)
	}

	r.log.Info("user created in db", zap.Int64("id", model.ID))
	return model.ID, nil
}

// GetByID retrieves a user by id. A missing user yields an error wrapping user.ErrNotFound.
func (r *UserRepoPG) GetByID(ctx context.Context, id int64) (*user.User, error) {
	var model UserSchema
	if err := r.db.WithContext(ctx).First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			r.log.Debug("user not found", zap.Int64("id", id))
			return nil, fmt.Errorf("%w: id=%d", user.ErrNotFound, id)
		}
		r.log.Error("failed to get user from db", zap.Error(err), zap.Int64("id", id))
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	u := model.toDomain()
	return &u, nil
}

// GetByIDs retrieves every user whose id is in ids, ordered by id. Unknown ids are skipped.
func (r *UserRepoPG) GetByIDs(ctx context.Context, ids []int64) ([]user.User, error) {
	if len(ids) == 0 {
		return []user.User{}, nil
	}

	var models []UserSchema
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Order("id ASC").Find(&models).Error; err != nil {
		r.log.Error("failed to get users by ids", zap.Error(err), zap.Int("count", len(ids)))
		return nil, fmt.Errorf("failed to get users: %w", err)
	}

	return toUsers(models), nil
}

// ListNonStaff returns all non-staff users except excludeID, ordered by id.
func (r *UserRepoPG) ListNonStaff(ctx context.Context, excludeID int64) ([]user.User, error) {
	var models []UserSchema
	err := r.db.WithContext(ctx).
		Where("is_staff = ? AND id <> ?", false, excludeID).
		Order("id ASC").
		Find(&models).Error
	if err != nil {
		r.log.Error("failed to list users", zap.Error(err), zap.Int64("exclude_id", excludeID))
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	return toUsers(models), nil
}

type userStatsRow struct {
	UserSchema
	PostsCount       int64
	SubscribersCount int64
}

// TopByPosts returns up to n users with their post and subscriber counts,
// ordered by post count descending and then by id.
func (r *UserRepoPG) TopByPosts(ctx context.Context, n int, excludeStaff bool) ([]user.Stats, error) {
	q := r.db.WithContext(ctx).
		Table("users AS u").
		Select(`u.*,
			(SELECT COUNT(*) FROM posts p WHERE p.user_id = u.id) AS posts_count,
			(SELECT COUNT(*) FROM subscriptions s WHERE s.followee_id = u.id) AS subscribers_count`)
	if excludeStaff {
		q = q.Where("u.is_staff = ?", false)
	}

	var rows []userStatsRow
	if err := q.Order("posts_count DESC, u.id ASC").Limit(n).Scan(&rows).Error; err != nil {
		r.log.Error("failed to rank users", zap.Error(err), zap.Int("n", n))
		return nil, fmt.Errorf("failed to rank users: %w", err)
	}

	stats := make([]user.Stats, len(rows))
	for i, row := range rows {
		stats[i] = user.Stats{
			User:             row.UserSchema.toDomain(),
			PostsCount:       row.PostsCount,
			SubscribersCount: row.SubscribersCount,
		}
	}

	return stats, nil
}

func toUsers(models []UserSchema) []user.User {
	users := make([]user.User, len(models))
	for i, model := range models {
		users[i] = model.toDomain()
	}
	return users
}
