package query

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "social-network-service/pkg/errors"
)

func TestParse_Empty(t *testing.T) {
	parsed, err := Parse(Params{}, 10)
	require.NoError(t, err)
	assert.Nil(t, parsed.Usernames)
	assert.True(t, parsed.Criteria.IsZero())
}

func TestParse_Usernames(t *testing.T) {
	parsed, err := Parse(Params{Usernames: []string{"bob", "carol,dave", "bob", " "}}, 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"bob", "carol", "dave"}, parsed.Usernames)
}

func TestParse_UsernamesOverLimitRejected(t *testing.T) {
	names := make([]string, 11)
	for i := range names {
		names[i] = "user" + string(rune('a'+i))
	}

	_, err := Parse(Params{Usernames: names}, 10)
	require.Error(t, err)

	var filterErr *pkgerrors.InvalidFilterError
	require.ErrorAs(t, err, &filterErr)
	assert.Equal(t, "username", filterErr.Param)
	assert.Contains(t, err.Error(), "at most 10")

	_, err = Parse(Params{Usernames: names[:10]}, 10)
	assert.NoError(t, err)
}

func TestParse_InvalidUsername(t *testing.T) {
	_, err := Parse(Params{Usernames: []string{"bad name!"}}, 10)
	var filterErr *pkgerrors.InvalidFilterError
	assert.ErrorAs(t, err, &filterErr)
}

func TestParse_Text(t *testing.T) {
	parsed, err := Parse(Params{Title: "  Go ", Text: "rust"}, 10)
	require.NoError(t, err)
	assert.Equal(t, "Go", parsed.Criteria.Title)
	assert.Equal(t, "rust", parsed.Criteria.Text)

	_, err = Parse(Params{Title: strings.Repeat("x", 101)}, 10)
	var filterErr *pkgerrors.InvalidFilterError
	require.ErrorAs(t, err, &filterErr)
	assert.Equal(t, "title", filterErr.Param)
}

func TestParse_Dates(t *testing.T) {
	tests := []struct {
		name     string
		params   Params
		wantFrom *time.Time
		wantTo   *time.Time
		wantErr  string
	}{
		{
			name:     "date only start",
			params:   Params{StartDate: "2024-01-10"},
			wantFrom: ptr(time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)),
		},
		{
			name:   "date only end covers the whole day",
			params: Params{EndDate: "2024-01-10"},
			wantTo: ptr(time.Date(2024, 1, 10, 23, 59, 59, 999999999, time.UTC)),
		},
		{
			name:     "rfc3339 normalized to utc",
			params:   Params{StartDate: "2024-01-10T12:00:00+02:00"},
			wantFrom: ptr(time.Date(2024, 1, 10, 10, 0, 0, 0, time.UTC)),
		},
		{
			name:     "same day range",
			params:   Params{StartDate: "2024-01-10", EndDate: "2024-01-10"},
			wantFrom: ptr(time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)),
			wantTo:   ptr(time.Date(2024, 1, 10, 23, 59, 59, 999999999, time.UTC)),
		},
		{
			name:    "malformed start",
			params:  Params{StartDate: "10/01/2024"},
			wantErr: "start_date",
		},
		{
			name:    "malformed end",
			params:  Params{EndDate: "yesterday"},
			wantErr: "end_date",
		},
		{
			name:    "inverted range",
			params:  Params{StartDate: "2024-02-01", EndDate: "2024-01-01"},
			wantErr: "must not be after",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parsed, err := Parse(tt.params, 10)
			if tt.wantErr != "" {
				var filterErr *pkgerrors.InvalidFilterError
				require.ErrorAs(t, err, &filterErr)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}

			require.NoError(t, err)
			assertTime(t, tt.wantFrom, parsed.Criteria.From)
			assertTime(t, tt.wantTo, parsed.Criteria.To)
		})
	}
}

func ptr(t time.Time) *time.Time {
	return &t
}

func assertTime(t *testing.T, want, got *time.Time) {
	t.Helper()
	if want == nil {
		assert.Nil(t, got)
		return
	}
	require.NotNil(t, got)
	assert.True(t, want.Equal(*got), "want %s, got %s", want, got)
}
