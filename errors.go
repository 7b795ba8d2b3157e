package vskema

import (
	"errors"
	"fmt"
	"strings"
)

// Error codes (exported consts for IDE completion and type safety by convention)
const (
	CodeRequired      = "REQUIRED"
	CodeInvalidType   = "INVALID_TYPE"
	CodeUnknownKey    = "UNKNOWN_KEY"
	CodeMinLength     = "MIN_LENGTH"
	CodeMaxLength     = "MAX_LENGTH"
	CodeLength        = "INVALID_LENGTH"
	CodeInvalidEmail  = "INVALID_EMAIL"
	CodeInvalidURL    = "INVALID_URL"
	CodeInvalidUUID   = "INVALID_UUID"
	CodeInvalidPhone  = "INVALID_PHONE"
	CodeInvalidIP     = "INVALID_IP"
	CodeAlphanumeric  = "NOT_ALPHANUMERIC"
	CodePattern       = "PATTERN_MISMATCH"
	CodeStartsWith    = "INVALID_PREFIX"
	CodeEndsWith      = "INVALID_SUFFIX"
	CodeIncludes      = "MISSING_SUBSTRING"
	CodeMinValue      = "MIN_VALUE"
	CodeMaxValue      = "MAX_VALUE"
	CodeNotInteger    = "NOT_INTEGER"
	CodeNotPositive   = "NOT_POSITIVE"
	CodeNotNegative   = "NOT_NEGATIVE"
	CodeNotMultipleOf = "NOT_MULTIPLE_OF"
	CodeMinDate       = "MIN_DATE"
	CodeMaxDate       = "MAX_DATE"
	CodeMinItems      = "MIN_ITEMS"
	CodeMaxItems      = "MAX_ITEMS"
	CodeDuplicate     = "DUPLICATE_ITEMS"
	CodeInvalidEnum   = "INVALID_ENUM"
	CodeNotEqual      = "NOT_EQUAL"
	CodeFieldCompare  = "FIELD_COMPARISON"
	CodeCustom        = "CUSTOM_VALIDATION"
	// Async infrastructure (timeout, returned error, recovered panic) and
	// async rules that reported an invalid value.
	CodeAsyncError  = "ASYNC_VALIDATION_ERROR"
	CodeAsyncFailed = "ASYNC_VALIDATION_FAILED"
)

var (
	// ErrSuperseded is returned to a debounced call displaced by a newer call
	// for the same key.
	ErrSuperseded = errors.New("vskema: superseded by a newer call")
	// ErrNilSchema is returned when a nil schema is decoded or validated.
	ErrNilSchema = errors.New("vskema: nil schema")
	// ErrUnsupportedFormat is returned for unknown interchange formats.
	ErrUnsupportedFormat = errors.New("vskema: unsupported format")
)

// ValidationError represents a single validation entry.
type ValidationError struct {
	Field        string   `json:"field" yaml:"field"`                 // Dotted/bracket path, e.g. items[2].sku.
	PathSegments []any    `json:"path" yaml:"path"`                   // Field split into string keys and int indexes.
	Code         string   `json:"code" yaml:"code"`                   // One of the codes listed above or a custom one.
	Message      string   `json:"message" yaml:"message"`             // Human readable message.
	Severity     Severity `json:"severity" yaml:"severity"`           // hard or soft.
	Received     any      `json:"received,omitempty" yaml:"received"` // Offending value (best-effort).
	Expected     any      `json:"expected,omitempty" yaml:"expected"` // Constraint that was violated.
}

// Error renders "code at field: message".
func (e ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("%s at %s: %s", e.Code, e.Field, e.Message)
}

// ValidationErrors is a collection of validation errors that implements error.
type ValidationErrors []ValidationError

// Error summarizes the first few errors.
func (ve ValidationErrors) Error() string {
	if len(ve) == 0 {
		return ""
	}
	const maxShown = 3
	b := &strings.Builder{}
	n := len(ve)
	lim := n
	if lim > maxShown {
		lim = maxShown
	}
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		it := ve[i]
		fmt.Fprintf(b, "%s at %s", it.Code, it.Field)
	}
	if n > lim {
		fmt.Fprintf(b, "; ... (total %d)", n)
	}
	return b.String()
}

// Has reports whether any error targets field.
func (ve ValidationErrors) Has(field string) bool {
	for _, e := range ve {
		if e.Field == field {
			return true
		}
	}
	return false
}

// Get returns the errors reported for field in order.
func (ve ValidationErrors) Get(field string) []ValidationError {
	var out []ValidationError
	for _, e := range ve {
		if e.Field == field {
			out = append(out, e)
		}
	}
	return out
}

// Codes lists the codes in order, mostly useful in tests and logs.
func (ve ValidationErrors) Codes() []string {
	out := make([]string, 0, len(ve))
	for _, e := range ve {
		out = append(out, e.Code)
	}
	return out
}

// AsValidationErrors extracts ValidationErrors from an error using errors.As internally.
func AsValidationErrors(err error) (ValidationErrors, bool) {
	if err == nil {
		return nil, false
	}
	var ve ValidationErrors
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}

// AssertionError is returned by AssertValid when data has hard errors. The
// full hard-error list stays attached for programmatic inspection.
type AssertionError struct {
	HardErrors ValidationErrors
}

func (e *AssertionError) Error() string {
	return "vskema: validation failed: " + e.HardErrors.Error()
}

// Unwrap exposes the hard errors to errors.As.
func (e *AssertionError) Unwrap() error { return e.HardErrors }

// NewError builds a ValidationError at path, deriving PathSegments.
func NewError(path, code, msg string, sev Severity) ValidationError {
	return ValidationError{
		Field:        path,
		PathSegments: ParsePath(path),
		Code:         code,
		Message:      msg,
		Severity:     sev,
	}
}
