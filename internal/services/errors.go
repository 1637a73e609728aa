package services

import (
	"errors"
	"fmt"
)

var (
	// ErrResumeUnreadable means the uploaded file could not be turned into text.
	ErrResumeUnreadable = errors.New("could not read résumé")
	// ErrMalformedModelOutput means the model answered but the payload broke the output contract.
	ErrMalformedModelOutput = errors.New("model output does not match the expected schema")
	// ErrModelCallFailed covers transport, auth and quota failures from the LLM provider.
	ErrModelCallFailed = errors.New("model call failed")
	ErrJobNotFound     = errors.New("job description not found")
	// ErrEvaluationFailed is returned when an interview answer could not be scored.
	ErrEvaluationFailed = errors.New("answer evaluation failed")

	ErrUnauthorized       = errors.New("authentication required")
	ErrForbidden          = errors.New("insufficient permissions")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidInput       = errors.New("invalid input")
)

// ExtractionError describes why a résumé could not be read.
type ExtractionError struct {
	Format string
	Reason string
	Cause  error
}

func (e *ExtractionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s extraction: %s: %v", ErrResumeUnreadable, e.Format, e.Reason, e.Cause)
	}
	return fmt.Sprintf("%s: %s extraction: %s", ErrResumeUnreadable, e.Format, e.Reason)
}

func (e *ExtractionError) Is(target error) bool {
	return target == ErrResumeUnreadable
}

func (e *ExtractionError) Unwrap() error {
	return e.Cause
}

// wrapModelErr tags errors from an LLMClient with ErrModelCallFailed.
func wrapModelErr(err error) error {
	if errors.Is(err, ErrModelCallFailed) {
		return err
	}
	return fmt.Errorf("%w: %v", ErrModelCallFailed, err)
}
