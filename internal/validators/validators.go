// Package validators checks user input. Every failure wraps
// errors.ErrValidation so prompts can ask again.
package validators

import (
	"fmt"
	"strings"
	"unicode/utf8"

	werrors "github.com/PolarWolf314/wrench/internal/errors"
	"github.com/PolarWolf314/wrench/internal/models"
)

// MaxFieldLength is the longest name or username the server accepts.
const MaxFieldLength = 64

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", werrors.ErrValidation, fmt.Sprintf(format, args...))
}

// ValidateNonEmpty rejects an empty value.
func ValidateNonEmpty(value string) (string, error) {
	if value == "" {
		return "", invalid("This field is mandatory.")
	}
	return value, nil
}

// ValidateHTTPURL requires an http:// or https:// URL.
func ValidateHTTPURL(value string) (string, error) {
	if !strings.HasPrefix(value, "http://") && !strings.HasPrefix(value, "https://") {
		return "", invalid("The value must be a valid HTTP URL.")
	}
	return value, nil
}

// ValidateRecipients resolves a comma separated list of usernames and group
// names. An empty value yields no recipients.
func ValidateRecipients(value string, byName map[string]models.Recipient) ([]models.Recipient, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}

	var recipients []models.Recipient
	for _, name := range strings.Split(value, ",") {
		name = strings.TrimSpace(name)
		r, ok := byName[name]
		if !ok {
			return nil, invalid("Recipient %s is invalid.", name)
		}
		recipients = append(recipients, r)
	}
	return recipients, nil
}

// ValidateNewResource checks a resource about to be created: the length
// limits of ValidateResource and a non-empty secret.
func ValidateNewResource(r models.Resource) error {
	if err := ValidateResource(r); err != nil {
		return err
	}
	if r.Secret == "" {
		return invalid("Field password is mandatory.")
	}
	return nil
}

// ValidateResource checks the length limits of a resource.
func ValidateResource(r models.Resource) error {
	fields := []struct {
		name  string
		value string
	}{
		{"name", r.Name},
		{"username", r.Username},
	}

	for _, f := range fields {
		if utf8.RuneCountInString(f.value) > MaxFieldLength {
			return invalid("Length of field %s exceeds max length of %d characters", f.name, MaxFieldLength)
		}
	}
	return nil
}
