// Package errors classifies folio failures so the CLI can pick an exit code
// and the preview server an HTTP status without matching on message text.
package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorCategory says which part of folio failed.
type ErrorCategory string

const (
	CategoryConfig     ErrorCategory = "config"
	CategoryValidation ErrorCategory = "validation"
	CategoryContent    ErrorCategory = "content"
	CategoryRender     ErrorCategory = "render"
	CategoryFileSystem ErrorCategory = "filesystem"
	CategoryRuntime    ErrorCategory = "runtime"
	CategoryInternal   ErrorCategory = "internal"
)

// ErrorSeverity is how loudly a failure is reported.
type ErrorSeverity string

const (
	SeverityFatal   ErrorSeverity = "fatal"
	SeverityError   ErrorSeverity = "error"
	SeverityWarning ErrorSeverity = "warning"
)

// FolioError is a categorized error with optional cause and key/value context.
type FolioError struct {
	Category ErrorCategory  `json:"category"`
	Severity ErrorSeverity  `json:"severity"`
	Message  string         `json:"message"`
	Cause    error          `json:"cause,omitempty"`
	Context  map[string]any `json:"context,omitempty"`
}

func (e *FolioError) Error() string {
	msg := fmt.Sprintf("%s (%s): %s", e.Category, e.Severity, e.Message)
	if e.Cause == nil {
		return msg
	}
	return msg + ": " + e.Cause.Error()
}

func (e *FolioError) Unwrap() error { return e.Cause }

// WithContext records key=value on e and returns e for chaining.
func (e *FolioError) WithContext(key string, value any) *FolioError {
	if e.Context == nil {
		e.Context = map[string]any{}
	}
	e.Context[key] = value
	return e
}

// New returns a FolioError without a cause.
func New(category ErrorCategory, severity ErrorSeverity, message string) *FolioError {
	return Wrap(nil, category, severity, message)
}

// Wrap returns a FolioError around cause.
func Wrap(cause error, category ErrorCategory, severity ErrorSeverity, message string) *FolioError {
	return &FolioError{Category: category, Severity: severity, Message: message, Cause: cause}
}

// As finds the outermost FolioError in err's chain.
func As(err error) (*FolioError, bool) {
	var fe *FolioError
	if stderrors.As(err, &fe) {
		return fe, true
	}
	return nil, false
}

// IsCategory reports whether err's outermost FolioError has category.
func IsCategory(err error, category ErrorCategory) bool {
	fe, ok := As(err)
	return ok && fe.Category == category
}
