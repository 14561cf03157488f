package domain

import (
	"strings"
	"time"

	desk_errors "socialdesk/pkg/errors"
)

type field struct {
	name  string
	value string
}

func required(name, value string) field {
	return field{name: name, value: value}
}

// missing returns a ValidationError naming every blank field, or nil.
func missing(fields ...field) error {
	var names []string
	for _, f := range fields {
		if strings.TrimSpace(f.value) == "" {
			names = append(names, f.name)
		}
	}
	if len(names) > 0 {
		return desk_errors.MissingFields(names)
	}
	return nil
}

// ParseDate accepts a calendar date or an RFC 3339 timestamp.
func ParseDate(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse("2006-01-02", value); err == nil {
		return t.UTC(), true
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t.UTC(), true
	}
	return time.Time{}, false
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
