// Package query turns raw listing parameters into validated post criteria.
package query

import (
	"fmt"
	"strings"
	"time"

	"social-network-service/internal/domain/post"
	pkgerrors "social-network-service/pkg/errors"
	"social-network-service/pkg/security"
)

// DateLayout is the date-only format accepted for start_date and end_date.
const DateLayout = "2006-01-02"

// Params are the raw filter values of a listing request.
type Params struct {
	Usernames []string
	Title     string
	Text      string
	StartDate string
	EndDate   string
}

// Parsed is the validated form of Params.
type Parsed struct {
	Usernames []string
	Criteria  post.Criteria
}

// Parse validates params. More than maxUsernames distinct usernames is rejected,
// never truncated; maxUsernames <= 0 disables the username filter check.
// A date-only end date covers that whole day.
func Parse(p Params, maxUsernames int) (Parsed, error) {
	var out Parsed

	usernames, err := parseUsernames(p.Usernames, maxUsernames)
	if err != nil {
		return Parsed{}, err
	}
	out.Usernames = usernames

	if out.Criteria.Title, err = security.ValidateFilterText(p.Title); err != nil {
		return Parsed{}, pkgerrors.NewInvalidFilterError("title", err.Error())
	}
	if out.Criteria.Text, err = security.ValidateFilterText(p.Text); err != nil {
		return Parsed{}, pkgerrors.NewInvalidFilterError("text", err.Error())
	}

	if out.Criteria.From, err = parseDate("start_date", p.StartDate, false); err != nil {
		return Parsed{}, err
	}
	if out.Criteria.To, err = parseDate("end_date", p.EndDate, true); err != nil {
		return Parsed{}, err
	}

	if out.Criteria.From != nil && out.Criteria.To != nil && out.Criteria.From.After(*out.Criteria.To) {
		return Parsed{}, pkgerrors.NewInvalidFilterError("start_date", "must not be after end_date")
	}

	return out, nil
}

func parseUsernames(raw []string, limit int) ([]string, error) {
	seen := make(map[string]struct{}, len(raw))
	usernames := make([]string, 0, len(raw))

	for _, value := range raw {
		// username=a,b is accepted alongside repeated username params
		for _, part := range strings.Split(value, ",") {
			if strings.TrimSpace(part) == "" {
				continue
			}
			name, err := security.ValidateUsername(part)
			if err != nil {
				return nil, pkgerrors.NewInvalidFilterError("username", err.Error())
			}
			if _, ok := seen[name]; ok {
				continue
			}
			seen[name] = struct{}{}
			usernames = append(usernames, name)
		}
	}

	if limit > 0 && len(usernames) > limit {
		return nil, pkgerrors.NewInvalidFilterError("username",
			fmt.Sprintf("at most %d usernames are allowed, got %d", limit, len(usernames)))
	}

	if len(usernames) == 0 {
		return nil, nil
	}
	return usernames, nil
}

func parseDate(param, value string, endOfDay bool) (*time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}

	if t, err := time.Parse(DateLayout, value); err == nil {
		if endOfDay {
			t = t.Add(24*time.Hour - time.Nanosecond)
		}
		return &t, nil
	}

	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return nil, pkgerrors.NewInvalidFilterError(param, "must be YYYY-MM-DD or RFC3339")
	}

	t = t.UTC()
	return &t, nil
}
