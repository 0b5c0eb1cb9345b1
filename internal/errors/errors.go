package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Common error types shared by the ArCash client and the reference backend
var (
	// Session errors
	ErrNotLoggedIn    = errors.New("not logged in")
	ErrSessionEnded   = errors.New("session ended")
	ErrForbiddenRole  = errors.New("insufficient role")
	ErrRefreshFailed  = errors.New("token refresh failed")
	ErrInvalidRequest = errors.New("invalid request")

	// Token errors
	ErrInvalidToken        = errors.New("invalid token")
	ErrTokenExpired        = errors.New("token expired")
	ErrTokenRevoked        = errors.New("token revoked")
	ErrInvalidRefreshToken = errors.New("invalid refresh token")
	ErrRefreshTokenExpired = errors.New("refresh token expired")

	// Status-derived errors
	ErrBadRequest   = errors.New("bad request")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrRateLimited  = errors.New("rate limited")
	ErrServer       = errors.New("server error")
	ErrUnexpected   = errors.New("unexpected response")
)

// StatusAccessTokenExpired is the non-standard status the backend uses to signal
// an expired access token.
const StatusAccessTokenExpired = 498

// APIError is a non-2xx response from the backend.
type APIError struct {
	StatusCode int
	Method     string
	Path       string
	Message    string
	kind       error
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s %s: %d %s: %s", e.Method, e.Path, e.StatusCode, e.kind, e.Message)
	}
	return fmt.Sprintf("%s %s: %d %s", e.Method, e.Path, e.StatusCode, e.kind)
}

func (e *APIError) Unwrap() error {
	return e.kind
}

// NewAPIError categorises a response status.
func NewAPIError(statusCode int, method, path, message string) *APIError {
	return &APIError{
		StatusCode: statusCode,
		Method:     method,
		Path:       path,
		Message:    message,
		kind:       KindForStatus(statusCode),
	}
}

// KindForStatus maps an HTTP status to its sentinel error.
func KindForStatus(statusCode int) error {
	switch {
	case statusCode == http.StatusBadRequest:
		return ErrBadRequest
	case statusCode == http.StatusUnauthorized:
		return ErrUnauthorized
	case statusCode == http.StatusForbidden:
		return ErrForbidden
	case statusCode == http.StatusNotFound:
		return ErrNotFound
	case statusCode == http.StatusConflict:
		return ErrConflict
	case statusCode == http.StatusTooManyRequests:
		return ErrRateLimited
	case statusCode == StatusAccessTokenExpired:
		return ErrTokenExpired
	case statusCode >= 500:
		return ErrServer
	case statusCode >= 400:
		return ErrBadRequest
	default:
		return ErrUnexpected
	}
}

// UserMessage renders an error as a short message suitable for an end user.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var apiErr *APIError
	detail := ""
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		detail = ": " + apiErr.Message
	}
	switch {
	case errors.Is(err, ErrSessionEnded):
		return "Your session has ended. Please log in again."
	case errors.Is(err, ErrNotLoggedIn):
		return "You are not logged in. Run 'arcash login' first."
	case errors.Is(err, ErrForbiddenRole), errors.Is(err, ErrForbidden):
		return "You do not have permission to do that."
	case errors.Is(err, ErrRateLimited):
		return "Too many requests. Please wait a moment and try again."
	case errors.Is(err, ErrConflict):
		return "The request conflicts with existing data" + detail
	case errors.Is(err, ErrNotFound):
		return "Not found" + detail
	case errors.Is(err, ErrBadRequest):
		return "The request was rejected" + detail
	case errors.Is(err, ErrUnauthorized):
		return "Invalid credentials" + detail
	case errors.Is(err, ErrServer):
		return "The server failed to process the request. Please try again later."
	default:
		return err.Error()
	}
}

// Wrapf wraps an error with context using fmt.Errorf
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}

// Is reports whether any error in err's chain matches target
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// New is errors.New, re-exported so callers only import this package.
func New(text string) error {
	return errors.New(text)
}
