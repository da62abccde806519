// Package post lets users write, edit and list their own posts.
package post

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	domain "social-network-service/internal/domain/post"
	"social-network-service/internal/usecase/query"
	pkgerrors "social-network-service/pkg/errors"
	"social-network-service/pkg/logger"
)

// Repository defines the post store operations this usecase needs.
type Repository interface {
	Create(ctx context.Context, p *domain.Post) (int64, error)
	Update(ctx context.Context, u domain.Update) (*domain.Post, error)
	List(ctx context.Context, filter domain.Filter) ([]domain.Post, error)
}

// CreatePostRequest represents the payload for writing a post.
type CreatePostRequest struct {
	AuthorID int64  `validate:"gt=0"`
	Title    string `validate:"required,max=100"`
	Text     string `validate:"required,max=1000"`
}

// UpdatePostRequest represents an edit; nil fields keep their value.
type UpdatePostRequest struct {
	ID       int64   `validate:"gt=0"`
	EditorID int64   `validate:"gt=0"`
	Title    *string `validate:"omitempty,min=1,max=100"`
	Text     *string `validate:"omitempty,min=1,max=1000"`
}

// Usecase implements post operations.
type Usecase struct {
	repo     Repository
	log      *zap.Logger
	validate *validator.Validate
	now      func() time.Time
}

// New creates a new post usecase.
func New(repo Repository, log *zap.Logger) *Usecase {
	return &Usecase{repo: repo, log: log, validate: validator.New(), now: time.Now}
}

// CreatePost stores a new post authored by in.AuthorID.
func (uc *Usecase) CreatePost(ctx context.Context, in CreatePostRequest) (*domain.Post, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.Text = strings.TrimSpace(in.Text)

	if err := uc.validate.Struct(in); err != nil {
		logger.WithContext(ctx, uc.log).Warn("validate failed", zap.Error(err))
		return nil, pkgerrors.FromValidator(err)
	}

	p := domain.Post{
		UserID:    in.AuthorID,
		Title:     in.Title,
		Text:      in.Text,
		CreatedAt: uc.now().UTC(),
		CreatedBy: in.AuthorID,
	}

	id, err := uc.repo.Create(ctx, &p)
	if err != nil {
		return nil, fmt.Errorf("failed to create post: %w", err)
	}
	p.ID = id

	return &p, nil
}

// UpdatePost edits a post of in.EditorID and stamps the modification.
// Posts of other users are reported as not found.
func (uc *Usecase) UpdatePost(ctx context.Context, in UpdatePostRequest) (*domain.Post, error) {
	in.Title = trimmed(in.Title)
	in.Text = trimmed(in.Text)

	if err := uc.validate.Struct(in); err != nil {
		logger.WithContext(ctx, uc.log).Warn("validate failed", zap.Error(err))
		return nil, pkgerrors.FromValidator(err)
	}
	if in.Title == nil && in.Text == nil {
		return nil, pkgerrors.NewValidationError("title", "title or text is required")
	}

	p, err := uc.repo.Update(ctx, domain.Update{
		ID:         in.ID,
		AuthorID:   in.EditorID,
		Title:      in.Title,
		Text:       in.Text,
		ModifiedAt: uc.now().UTC(),
		ModifiedBy: in.EditorID,
	})
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, pkgerrors.NewNotFoundError("post", fmt.Sprintf("post %d not found", in.ID))
		}
		return nil, fmt.Errorf("failed to update post: %w", err)
	}

	return p, nil
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	return &v
}

// ListOwnPosts returns the author's posts filtered like the feed, newest first.
func (uc *Usecase) ListOwnPosts(ctx context.Context, authorID int64, params query.Params) ([]domain.Post, error) {
	params.Usernames = nil

	parsed, err := query.Parse(params, 0)
	if err != nil {
		return nil, err
	}

	posts, err := uc.repo.List(ctx, domain.Filter{AuthorIDs: []int64{authorID}, Criteria: parsed.Criteria})
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}

	return posts, nil
}
