package errs

import "fmt"

type ErrorMessage struct {
	Message string
}

func (e *ErrorMessage) Error() string { return e.Message }

type AuthError struct {
	ErrorMessage
}

type NotFoundError struct {
	ErrorMessage
}

type AlreadyExistsError struct {
	ErrorMessage
}

type ValidationError struct {
	ErrorMessage
}

// DatabaseError wraps a failed Firestore call.
type DatabaseError struct {
	ErrorMessage
	Operation string
	Err       error
}

func (e *DatabaseError) Unwrap() error { return e.Err }

// ExternalServiceError is returned for upstream failures outside the AI chain
// (Secret Manager, Cloud Storage).
type ExternalServiceError struct {
	ErrorMessage
	Service   string
	Transient bool
	Err       error
}

func (e *ExternalServiceError) Unwrap() error { return e.Err }

// ProviderUnconfiguredError means no AI provider has a credential.
type ProviderUnconfiguredError struct {
	ErrorMessage
}

// GenerationFailedError is returned once every provider and model has been tried.
// Kind is the classification of the last failure.
type GenerationFailedError struct {
	ErrorMessage
	Attempts int
	Kind     string
	Err      error
}

func (e *GenerationFailedError) Unwrap() error { return e.Err }

// MalformedOutputError means model output held no decodable JSON.
type MalformedOutputError struct {
	ErrorMessage
	Raw string
}

func NewAuthError(message string) *AuthError {
	return &AuthError{
		ErrorMessage: ErrorMessage{Message: message},
	}
}

func NewNotFoundError(message string) *NotFoundError {
	return &NotFoundError{
		ErrorMessage: ErrorMessage{Message: message},
	}
}

func NewAlreadyExistsError(message string) *AlreadyExistsError {
	return &AlreadyExistsError{
		ErrorMessage: ErrorMessage{Message: message},
	}
}

func NewValidationError(message string) *ValidationError {
	return &ValidationError{
		ErrorMessage: ErrorMessage{Message: message},
	}
}

func NewDatabaseError(operation, message string, err error) *DatabaseError {
	return &DatabaseError{
		ErrorMessage: ErrorMessage{Message: fmt.Sprintf("%s: %v", message, err)},
		Operation:    operation,
		Err:          err,
	}
}

func NewExternalServiceError(service string, transient bool, err error) *ExternalServiceError {
	return &ExternalServiceError{
		ErrorMessage: ErrorMessage{Message: fmt.Sprintf("%s: %v", service, err)},
		Service:      service,
		Transient:    transient,
		Err:          err,
	}
}

func NewProviderUnconfiguredError() *ProviderUnconfiguredError {
	return &ProviderUnconfiguredError{
		ErrorMessage: ErrorMessage{Message: "no AI provider is configured: set GEMINI_API_KEY or VERTEX_PROJECT"},
	}
}

func NewGenerationFailedError(attempts int, kind string, err error) *GenerationFailedError {
	return &GenerationFailedError{
		ErrorMessage: ErrorMessage{Message: fmt.Sprintf("generation failed after %d attempts: %v", attempts, err)},
		Attempts:     attempts,
		Kind:         kind,
		Err:          err,
	}
}

func NewMalformedOutputError(raw string) *MalformedOutputError {
	return &MalformedOutputError{
		ErrorMessage: ErrorMessage{Message: "model output did not contain valid JSON"},
		Raw:          raw,
	}
}
