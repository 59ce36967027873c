package domain

import "fmt"

// DomainError represents a domain-specific error
type DomainError struct {
	Code    string
	Message string
	Err     error
}

// Error implements the error interface
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError creates a new DomainError
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Err:     nil,
	}
}

// NewDomainErrorWithCause creates a new DomainError with an underlying cause
func NewDomainErrorWithCause(code, message string, err error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Common domain error codes
const (
	ErrCodeValidation     = "VALIDATION_ERROR"
	ErrCodeNotFound       = "NOT_FOUND"
	ErrCodeConfiguration  = "CONFIGURATION_ERROR"
	ErrCodeAuthentication = "AUTHENTICATION_ERROR"
	ErrCodeRateLimited    = "RATE_LIMITED"
	ErrCodeInternalError  = "INTERNAL_ERROR"
)

// Validation errors
var (
	ErrEmptyDocument  = NewDomainError(ErrCodeValidation, "document has no pages")
	ErrMissingVideoID = NewDomainError(ErrCodeValidation, "video link has no resolvable video ID")
)

// Not found errors
var (
	ErrDocumentNotFound  = NewDomainError(ErrCodeNotFound, "document not found")
	ErrVideoLinkNotFound = NewDomainError(ErrCodeNotFound, "video link not found")
)

// Configuration and auth errors
var (
	ErrMissingCredentials = NewDomainError(ErrCodeConfiguration, "video API credentials not configured")
	ErrTokenAcquisition   = NewDomainError(ErrCodeAuthentication, "failed to obtain access token")
)
