package post

import (
	"errors"
	"time"
)

// ErrNotFound is returned when a post does not exist or is not owned by the editor.
var ErrNotFound = errors.New("post not found")

// Post is a timestamped text entry authored by a user.
type Post struct {
	ID         int64
	UserID     int64
	Title      string
	Text       string
	CreatedAt  time.Time
	CreatedBy  int64
	ModifiedAt *time.Time
	ModifiedBy *int64
}

// Criteria narrows posts by content and creation time.
// Title and Text are case-insensitive substrings; From and To are inclusive bounds.
type Criteria struct {
	Title string
	Text  string
	From  *time.Time
	To    *time.Time
}

// IsZero reports whether the criteria filter nothing.
func (c Criteria) IsZero() bool {
	return c.Title == "" && c.Text == "" && c.From == nil && c.To == nil
}

// Filter selects posts written by any of AuthorIDs that match Criteria.
type Filter struct {
	AuthorIDs []int64
	Criteria
}

// Update carries an edit to an existing post. Nil fields are left unchanged.
type Update struct {
	ID         int64
	AuthorID   int64
	Title      *string
	Text       *string
	ModifiedAt time.Time
	ModifiedBy int64
}
