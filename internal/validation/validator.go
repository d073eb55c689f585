package validation

import (
	"net/url"
	"strconv"
	"strings"

	"wikiquiz/internal/domain"
)

const maxURLLength = 2048

// Validator provides request validation functionality
type Validator struct{}

// NewValidator creates a new validator instance
func NewValidator() *Validator {
	return &Validator{}
}

// ValidateArticleURL accepts absolute http(s) URLs with a host.
func (v *Validator) ValidateArticleURL(rawURL string) domain.ValidationErrors {
	var errors domain.ValidationErrors

	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return append(errors, domain.NewMissingFieldError("url"))
	}
	if len(rawURL) > maxURLLength {
		return append(errors, domain.NewInvalidFormatError("url", len(rawURL), "must be at most 2048 characters"))
	}

	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Host == "" || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		errors = append(errors, domain.NewInvalidFormatError("url", rawURL, "must be an absolute http or https URL"))
	}
	return errors
}

// ValidateQuizID parses a positive integer quiz identifier.
func (v *Validator) ValidateQuizID(raw string) (int64, domain.ValidationErrors) {
	if strings.TrimSpace(raw) == "" {
		return 0, domain.ValidationErrors{domain.NewMissingFieldError("id")}
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, domain.ValidationErrors{domain.NewInvalidFormatError("id", raw, "must be an integer")}
	}
	if id <= 0 {
		return 0, domain.ValidationErrors{domain.NewInvalidFormatError("id", raw, "must be a positive integer")}
	}
	return id, nil
}
