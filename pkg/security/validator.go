package security

import (
	"errors"
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	// MaxFilterLength defines the maximum allowed length for free-text filters
	MaxFilterLength = 100

	// MaxUsernameLength matches the users.username column size
	MaxUsernameLength = 150
)

var usernamePattern = regexp.MustCompile(`^[\w.@+-]+$`)

// ValidateFilterText checks a free-text post filter (title or text substring).
// Free text is matched with bound parameters only, so content is not restricted beyond length.
func ValidateFilterText(text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", nil
	}

	if utf8.RuneCountInString(text) > MaxFilterLength {
		return "", errors.New("filter text too long")
	}

	return text, nil
}

// ValidateUsername checks a username used as a filter value.
func ValidateUsername(username string) (string, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return "", errors.New("username is empty")
	}

	if utf8.RuneCountInString(username) > MaxUsernameLength {
		return "", errors.New("username too long")
	}

	if !usernamePattern.MatchString(username) {
		return "", errors.New("username contains invalid characters")
	}

	return username, nil
}

// SanitizeSearchString prepares a query string for LIKE operations using '\' as the escape character
func SanitizeSearchString(query string) string {
	if query == "" {
		return ""
	}

	// Escape the escape character first, then wildcards
	query = strings.ReplaceAll(query, `\`, `\\`)
	query = strings.ReplaceAll(query, "%", `\%`)
	query = strings.ReplaceAll(query, "_", `\_`)

	return query
}

// ContainsPattern builds a lower-cased, escaped LIKE pattern matching any value containing query.
func ContainsPattern(query string) string {
	return "%" + SanitizeSearchString(strings.ToLower(query)) + "%"
}
