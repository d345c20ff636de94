package domain

import "fmt"

// DomainError is a structured error carrying a stable code, a human
// message, and an optional wrapped cause.
type DomainError struct {
	Code    string
	Message string
	Err     error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError builds a DomainError.
func NewDomainError(code, message string, err error) *DomainError {
	return &DomainError{Code: code, Message: message, Err: err}
}

// Error codes for the transform pipeline. CycleDroppedEdge and
// Nonuniform are not returned as errors in normal operation — they are
// logged as warnings (see internal/diagnostics) — but keep codes here
// so callers that want to treat them as hard failures can wrap them.
const (
	ErrCodeUnknownFormat         = "UNKNOWN_FORMAT"
	ErrCodeIO                    = "IO_ERROR"
	ErrCodeParse                 = "PARSE_ERROR"
	ErrCodeLabelParse            = "LABEL_PARSE_ERROR"
	ErrCodeCycleDroppedEdge      = "CYCLE_DROPPED_EDGE"
	ErrCodeNonuniform            = "NONUNIFORM"
	ErrCodeInternalNondeterm     = "INTERNAL_NONDETERMINISM"
	ErrCodeInvalidState          = "INVALID_STATE"
	ErrCodeInvariantViolated     = "INVARIANT_VIOLATED"
	ErrCodeRateNotApplicable     = "RATE_NOT_APPLICABLE"
)
