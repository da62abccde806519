package postgres

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"social-network-service/internal/domain/post"
	"social-network-service/pkg/security"
)

// PostRepoPG implements the post store on top of GORM.
type PostRepoPG struct {
	db  *gorm.DB
	log *zap.Logger
}

// NewPostRepoPG creates a new instance of PostRepoPG.
func NewPostRepoPG(db *gorm.DB, log *zap.Logger) *PostRepoPG {
	return &PostRepoPG{db: db, log: log}
}

// Create inserts a post and returns its id.
func (r *PostRepoPG) Create(ctx context.Context, p *post.Post) (int64, error) {
	if p == nil {
		return 0, errors.New("post cannot be nil")
	}

	model := PostSchema{
		UserID:     p.UserID,
		Title:      p.Title,
		Text:       p.Text,
		CreatedAt:  p.CreatedAt.UTC(),
		CreatedBy:  p.CreatedBy,
		ModifiedAt: p.ModifiedAt,
		ModifiedBy: p.ModifiedBy,
	}

	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		r.log.Error("failed to create post in db", zap.Error(err), zap.Int64("user_id", p.UserID))
		return 0, fmt.Errorf("failed to create post: %w", err)
	}

	return model.ID, nil
}

// Update applies u to the post it names when that post belongs to u.AuthorID
// and returns the stored result. Other authors' posts read as post.ErrNotFound.
func (r *PostRepoPG) Update(ctx context.Context, u post.Update) (*post.Post, error) {
	changes := map[string]any{
		"modified_at": u.ModifiedAt.UTC(),
		"modified_by": u.ModifiedBy,
	}
	if u.Title != nil {
		changes["title"] = *u.Title
	}
	if u.Text != nil {
		changes["text"] = *u.Text
	}

	var model PostSchema
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&PostSchema{}).Where("id = ? AND user_id = ?", u.ID, u.AuthorID).Updates(changes)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return post.ErrNotFound
		}
		return tx.First(&model, u.ID).Error
	})
	if err != nil {
		if errors.Is(err, post.ErrNotFound) {
			r.log.Debug("post not found for update", zap.Int64("id", u.ID), zap.Int64("author_id", u.AuthorID))
			return nil, fmt.Errorf("%w: id=%d", post.ErrNotFound, u.ID)
		}
		r.log.Error("failed to update post", zap.Error(err), zap.Int64("id", u.ID))
		return nil, fmt.Errorf("failed to update post: %w", err)
	}

	p := model.toDomain()
	return &p, nil
}

// List returns the posts of the filter's authors matching its criteria,
// newest first with ties broken by id descending. No authors means no posts.
func (r *PostRepoPG) List(ctx context.Context, filter post.Filter) ([]post.Post, error) {
	if len(filter.AuthorIDs) == 0 {
		return []post.Post{}, nil
	}

	q := r.db.WithContext(ctx).Model(&PostSchema{}).Where("posts.user_id IN ?", filter.AuthorIDs)
	q = applyCriteria(q, filter.Criteria)

	var models []PostSchema
	if err := q.Order("posts.created_at DESC, posts.id DESC").Find(&models).Error; err != nil {
		r.log.Error("failed to list posts", zap.Error(err), zap.Int("authors", len(filter.AuthorIDs)))
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}

	return toPosts(models), nil
}

// LatestByAuthor returns the limit most recent posts of one author.
func (r *PostRepoPG) LatestByAuthor(ctx context.Context, authorID int64, limit int) ([]post.Post, error) {
	var models []PostSchema
	err := r.db.WithContext(ctx).
		Where("user_id = ?", authorID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&models).Error
	if err != nil {
		r.log.Error("failed to get latest posts", zap.Error(err), zap.Int64("user_id", authorID))
		return nil, fmt.Errorf("failed to get latest posts: %w", err)
	}

	return toPosts(models), nil
}

// CountByAuthor returns how many posts the author has written.
func (r *PostRepoPG) CountByAuthor(ctx context.Context, authorID int64) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&PostSchema{}).Where("user_id = ?", authorID).Count(&count).Error; err != nil {
		r.log.Error("failed to count posts", zap.Error(err), zap.Int64("user_id", authorID))
		return 0, fmt.Errorf("failed to count posts: %w", err)
	}
	return count, nil
}

// applyCriteria adds the content and date predicates on the posts table.
// Substring filters are case-insensitive and treat LIKE wildcards literally.
func applyCriteria(q *gorm.DB, c post.Criteria) *gorm.DB {
	if c.Title != "" {
		q = q.Where(`LOWER(posts.title) LIKE ? ESCAPE '\'`, security.ContainsPattern(c.Title))
	}
	if c.Text != "" {
		q = q.Where(`LOWER(posts.text) LIKE ? ESCAPE '\'`, security.ContainsPattern(c.Text))
	}
	if c.From != nil {
		q = q.Where("posts.created_at >= ?", c.From.UTC())
	}
	if c.To != nil {
		q = q.Where("posts.created_at <= ?", c.To.UTC())
	}
	return q
}

func toPosts(models []PostSchema) []post.Post {
	posts := make([]post.Post, len(models))
	for i, model := range models {
		posts[i] = model.toDomain()
	}
	return posts
}
