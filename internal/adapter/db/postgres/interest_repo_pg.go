package postgres

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"social-network-service/internal/domain/interest"
)

// InterestRepoPG reads user interests.
type InterestRepoPG struct {
	db  *gorm.DB
	log *zap.Logger
}

// NewInterestRepoPG creates a new instance of InterestRepoPG.
func NewInterestRepoPG(db *gorm.DB, log *zap.Logger) *InterestRepoPG {
	return &InterestRepoPG{db: db, log: log}
}

// ListByUser returns the interests declared by a user, ordered by name.
func (r *InterestRepoPG) ListByUser(ctx context.Context, userID int64) ([]interest.Interest, error) {
	var models []InterestSchema
	err := r.db.WithContext(ctx).
		Joins("JOIN user_interests ui ON ui.interest_id = interests.id").
		Where("ui.user_id = ?", userID).
		Order("interests.name ASC").
		Find(&models).Error
	if err != nil {
		r.log.Error("failed to list interests", zap.Error(err), zap.Int64("user_id", userID))
		return nil, fmt.Errorf("failed to list interests: %w", err)
	}

	interests := make([]interest.Interest, len(models))
	for i, m := range models {
		interests[i] = m.toDomain()
	}
	return interests, nil
}
