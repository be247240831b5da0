// Package validate holds the field validation shared by all resource
// handlers. Failures are reported as *ValidationError so handlers can map
// them to a 400 with the offending field named.
package validate

import (
	"fmt"
	"net/mail"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

// ValidationError names the field that failed and why.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// FieldValue pairs a field name with its submitted value for Required checks.
type FieldValue struct {
	Name  string
	Value string
}

// Required returns an error naming the first field that is empty after
// trimming.
func Required(fields ...FieldValue) error {
	for _, f := range fields {
		if strings.TrimSpace(f.Value) == "" {
			return &ValidationError{Field: f.Name, Reason: "is required"}
		}
	}
	return nil
}

// Email checks structural validity of an address. The domain must contain a
// dot so bare hostnames are rejected.
func Email(field, value string) error {
	addr, err := mail.ParseAddress(value)
	if err != nil || addr.Address != value {
		return &ValidationError{Field: field, Reason: "must be a valid email address"}
	}
	at := strings.LastIndex(value, "@")
	if at < 0 || !strings.Contains(value[at+1:], ".") {
		return &ValidationError{Field: field, Reason: "must be a valid email address"}
	}
	return nil
}

// Date accepts only real calendar dates in YYYY-MM-DD form. The round trip
// through time.Parse rejects both malformed strings and overflow dates such
// as 2024-02-30, which time.Parse would otherwise normalize.
func Date(field, value string) error {
	t, err := time.Parse(dateLayout, value)
	if err != nil || t.Format(dateLayout) != value {
		return &ValidationError{Field: field, Reason: "must be a valid date in YYYY-MM-DD format"}
	}
	return nil
}

// MinLength rejects values shorter than n characters.
func MinLength(field, value string, n int) error {
	if len(value) < n {
		return &ValidationError{Field: field, Reason: fmt.Sprintf("must be at least %d characters", n)}
	}
	return nil
}

// Allowed returns value if it is in the allowed set, otherwise fallback.
// Unknown values fall back silently rather than erroring, which keeps list
// endpoints tolerant of stale client parameters.
func Allowed(value, fallback string, allowed ...string) string {
	for _, a := range allowed {
		if value == a {
			return value
		}
	}
	return fallback
}

// Order normalizes a sort direction to asc or desc, falling back otherwise.
func Order(value, fallback string) string {
	switch strings.ToLower(value) {
	case "asc":
		return "asc"
	case "desc":
		return "desc"
	}
	return fallback
}
