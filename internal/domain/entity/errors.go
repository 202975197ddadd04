package entity

import (
	"errors"
	"fmt"
	"net/http"
)

// Validation sentinels. They are wrapped in *ValidationError and matched with errors.Is.
var (
	ErrMissingAnchor   = errors.New("select a position first")
	ErrMissingInput    = errors.New("select a certificate and a file first")
	ErrMissingFile     = errors.New("select a file first")
	ErrUnsupportedFile = errors.New("unsupported file type")
	ErrFileTooLarge    = errors.New("file is too large")
	ErrNoSession       = errors.New("not signed in")
	ErrInvalidState    = errors.New("action not available in the current view")
	ErrActionInFlight  = errors.New("action already in progress")
	ErrNotConfirmed    = errors.New("action was not confirmed")
	ErrViewChanged     = errors.New("the view was closed before the action completed")
)

// Render sentinels
var (
	ErrDocumentLoad   = errors.New("document could not be loaded")
	ErrPageOutOfRange = errors.New("page out of range")
)

// TransportError means the remote service could not be reached or did not answer in time
type TransportError struct {
	Op      string
	Timeout bool
	Err     error
}

func (e *TransportError) Error() string {
	if e.Timeout {
		return fmt.Sprintf("%s: request timed out", e.Op)
	}
	return fmt.Sprintf("%s: service unreachable: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// ServerError is a non-2xx answer from the remote service
type ServerError struct {
	StatusCode int
	Message    string
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("server rejected request (status %d): %s", e.StatusCode, e.Message)
}

// AuthError is a missing, rejected or expired credential
type AuthError struct {
	StatusCode int
	Message    string
}

func (e *AuthError) Error() string {
	return "authentication required: " + e.Message
}

// ValidationError is a client-side precondition failure. It never reaches the network.
type ValidationError struct {
	Field string
	Err   error
}

func NewValidationError(field string, err error) *ValidationError {
	return &ValidationError{Field: field, Err: err}
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Err.Error()
	}
	return fmt.Sprintf("%s: %v", e.Field, e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// RenderError is a PDF that failed to parse or a page that failed to render
type RenderError struct {
	Page int
	Err  error
}

func (e *RenderError) Error() string {
	if e.Page > 0 {
		return fmt.Sprintf("render page %d: %v", e.Page, e.Err)
	}
	return fmt.Sprintf("render: %v", e.Err)
}

func (e *RenderError) Unwrap() error { return e.Err }

// SigningFailedError wraps a transport or server failure of the sign call
type SigningFailedError struct {
	Message string
	Err     error
}

func (e *SigningFailedError) Error() string {
	return "signing failed: " + e.Message
}

func (e *SigningFailedError) Unwrap() error { return e.Err }

// NoticeKind classifies a failure for display
type NoticeKind string

const (
	NoticeTransport  NoticeKind = "transport"
	NoticeServer     NoticeKind = "server"
	NoticeAuth       NoticeKind = "auth"
	NoticeValidation NoticeKind = "validation"
	NoticeRender     NoticeKind = "render"
	NoticeConflict   NoticeKind = "conflict"
	NoticeInternal   NoticeKind = "internal"
	NoticeInfo       NoticeKind = "info"
)

// Classify normalizes any error into a displayable kind and message
func Classify(err error) (NoticeKind, string) {
	var (
		transportErr  *TransportError
		serverErr     *ServerError
		authErr       *AuthError
		validationErr *ValidationError
		renderErr     *RenderError
	)

	switch {
	case err == nil:
		return NoticeInfo, ""
	case errors.Is(err, ErrActionInFlight), errors.Is(err, ErrInvalidState), errors.Is(err, ErrViewChanged):
		return NoticeConflict, rootMessage(err)
	case errors.As(err, &validationErr):
		return NoticeValidation, validationErr.Err.Error()
	case errors.As(err, &authErr):
		return NoticeAuth, authErr.Message
	case errors.As(err, &transportErr):
		if transportErr.Timeout {
			return NoticeTransport, "The signing service did not respond in time"
		}
		return NoticeTransport, "Unable to reach the signing service"
	case errors.As(err, &serverErr):
		return NoticeServer, serverErr.Message
	case errors.As(err, &renderErr):
		return NoticeRender, renderErr.Error()
	default:
		return NoticeInternal, err.Error()
	}
}

// HTTPStatus maps an error onto the status code the gateway answers with
func HTTPStatus(err error) int {
	kind, _ := Classify(err)
	switch kind {
	case NoticeValidation:
		return http.StatusBadRequest
	case NoticeAuth:
		return http.StatusUnauthorized
	case NoticeConflict:
		return http.StatusConflict
	case NoticeRender:
		return http.StatusUnprocessableEntity
	case NoticeTransport, NoticeServer:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func rootMessage(err error) string {
	for {
		next := errors.Unwrap(err)
		if next == nil {
			return err.Error()
		}
		err = next
	}
}
