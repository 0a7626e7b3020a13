package core

// ErrorCategory classifies the type of error for better debugging and reporting
type ErrorCategory int

const (
	ErrCategoryNone       ErrorCategory = iota // No error
	ErrCategoryParse                           // Snapshot markup could not be parsed; recapture
	ErrCategoryLookup                          // Key absent from a config store
	ErrCategoryFormat                          // Backing data file is malformed
	ErrCategoryAssertion                       // Element not found or not visible
	ErrCategoryTimeout                         // Wait timed out
	ErrCategoryConnection                      // Automation server unreachable or session lost
)

// String returns the string representation of ErrorCategory
func (c ErrorCategory) String() string {
	switch c {
	case ErrCategoryNone:
		return "none"
	case ErrCategoryParse:
		return "parse"
	case ErrCategoryLookup:
		return "lookup"
	case ErrCategoryFormat:
		return "format"
	case ErrCategoryAssertion:
		return "assertion"
	case ErrCategoryTimeout:
		return "timeout"
	case ErrCategoryConnection:
		return "connection"
	default:
		return "unknown"
	}
}

// IsFatal returns true if retrying the same input cannot succeed.
func (c ErrorCategory) IsFatal() bool {
	switch c {
	case ErrCategoryParse, ErrCategoryLookup, ErrCategoryFormat:
		return true
	default:
		return false
	}
}
