package handler

import (
	"context"
	"net/http"

	domain "social-network-service/internal/domain/post"
	"social-network-service/internal/usecase/post"
	"social-network-service/internal/usecase/query"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// PostService is the post usecase as seen by the handler
type PostService interface {
	CreatePost(ctx context.Context, in post.CreatePostRequest) (*domain.Post, error)
	UpdatePost(ctx context.Context, in post.UpdatePostRequest) (*domain.Post, error)
	ListOwnPosts(ctx context.Context, authorID int64, params query.Params) ([]domain.Post, error)
}

// CreatePostRequest represents the HTTP request body for creating a post
type CreatePostRequest struct {
	Title string `json:"title" binding:"required"`
	Text  string `json:"text" binding:"required"`
}

// UpdatePostRequest is the body of PUT /posts/:id; omitted fields are kept
type UpdatePostRequest struct {
	Title *string `json:"title"`
	Text  *string `json:"text"`
}

// PostHandler handles HTTP requests for the caller's posts
type PostHandler struct {
	posts PostService
	log   *zap.Logger
}

// NewPostHandler creates a new PostHandler instance
func NewPostHandler(posts PostService, log *zap.Logger) *PostHandler {
	return &PostHandler{
		posts: posts,
		log:   log,
	}
}

// CreatePost handles POST /posts
func (h *PostHandler) CreatePost(c *gin.Context) {
	authorID, ok := callerID(c, h.log)
	if !ok {
		return
	}

	var req CreatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Warn("Invalid create post request", zap.Error(err))
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: err.Error(),
		})
		return
	}

	p, err := h.posts.CreatePost(c.Request.Context(), post.CreatePostRequest{
		AuthorID: authorID,
		Title:    req.Title,
		Text:     req.Text,
	})
	if err != nil {
		handleError(c, h.log, err)
		return
	}

	c.JSON(http.StatusCreated, toPostResponse(*p))
}

// UpdatePost handles PUT /posts/:id
func (h *PostHandler) UpdatePost(c *gin.Context) {
	editorID, ok := callerID(c, h.log)
	if !ok {
		return
	}
	postID, ok := idParam(c, h.log, "id")
	if !ok {
		return
	}

	var req UpdatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Warn("Invalid update post request", zap.Error(err))
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: err.Error(),
		})
		return
	}

	p, err := h.posts.UpdatePost(c.Request.Context(), post.UpdatePostRequest{
		ID:       postID,
		EditorID: editorID,
		Title:    req.Title,
		Text:     req.Text,
	})
	if err != nil {
		handleError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, toPostResponse(*p))
}

// ListPosts handles GET /posts; accepts the title, text and date filters
func (h *PostHandler) ListPosts(c *gin.Context) {
	authorID, ok := callerID(c, h.log)
	if !ok {
		return
	}

	posts, err := h.posts.ListOwnPosts(c.Request.Context(), authorID, queryParams(c))
	if err != nil {
		handleError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, toPostResponses(posts))
}
