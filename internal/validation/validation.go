package validation

import (
	"fmt"
	"math"
	"net/url"
	"regexp"
	"strings"
	"time"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// MaxMilesPerProof caps a single submission; anything larger is a typo
const MaxMilesPerProof = 500

// ValidationError represents a validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateEmail checks if an email address is valid
func ValidateEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return ValidationError{Field: "email", Message: "email is required"}
	}
	if !emailRegex.MatchString(email) {
		return ValidationError{Field: "email", Message: "invalid email format"}
	}
	return nil
}

// ValidateRecipients checks every address in a recipient list
func ValidateRecipients(recipients []string) error {
	if len(recipients) == 0 {
		return ValidationError{Field: "to", Message: "at least one recipient is required"}
	}
	for _, r := range recipients {
		if err := ValidateEmail(r); err != nil {
			return ValidationError{Field: "to", Message: fmt.Sprintf("invalid recipient %q", r)}
		}
	}
	return nil
}

// ValidateName checks if a name is valid
func ValidateName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ValidationError{Field: "name", Message: "name is required"}
	}
	if len(name) < 2 {
		return ValidationError{Field: "name", Message: "name must be at least 2 characters"}
	}
	if len(name) > 100 {
		return ValidationError{Field: "name", Message: "name must be at most 100 characters"}
	}
	return nil
}

// ValidateMiles checks a submitted distance
func ValidateMiles(miles float64) error {
	if math.IsNaN(miles) || math.IsInf(miles, 0) {
		return ValidationError{Field: "miles", Message: "miles must be a finite number"}
	}
	if miles < 0 {
		return ValidationError{Field: "miles", Message: "miles cannot be negative"}
	}
	if miles > MaxMilesPerProof {
		return ValidationError{Field: "miles", Message: fmt.Sprintf("miles cannot exceed %d", MaxMilesPerProof)}
	}
	return nil
}

// ValidateWeek checks that a challenge period is well formed
func ValidateWeek(start, end time.Time) error {
	if start.IsZero() || end.IsZero() {
		return ValidationError{Field: "week", Message: "week_start and week_end are required"}
	}
	if end.Before(start) {
		return ValidationError{Field: "week", Message: "week_end must not be before week_start"}
	}
	return nil
}

// ValidateImageURL accepts an empty value or an absolute http(s) URL
func ValidateImageURL(raw string) error {
	if raw == "" {
		return nil
	}
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return ValidationError{Field: "image_url", Message: "image_url must be an http or https URL"}
	}
	return nil
}
