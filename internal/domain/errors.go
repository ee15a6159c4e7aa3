package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrCaptchaDetected is returned when the PNCP platform serves a CAPTCHA challenge.
	// It is fatal for the current run and must never be retried.
	ErrCaptchaDetected = errors.New("CAPTCHA challenge detected")

	// ErrItemURLParse is returned when a search-result item URL does not have the
	// expected /compras/{cnpj}/{ano}/{seq} shape
	ErrItemURLParse = errors.New("cannot parse item URL")

	// ErrNoKeywords is returned when no valid keyword survives parsing
	ErrNoKeywords = errors.New("no valid keywords")

	// ErrJobNotFound is returned when a job ID is not present in the registry
	ErrJobNotFound = errors.New("job not found")
)

// APIError represents a non-retryable PNCP API failure.
// Body carries an excerpt of the response body for diagnostics.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("PNCP API error: status %d, body: %s", e.StatusCode, e.Body)
}
