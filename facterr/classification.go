package facterr

import "errors"

// Class categorizes errors by who has to act on them.
type Class string

const (
	// ClassEnvironment indicates the host differs from what the fact needs.
	// These errors are recovered locally and surface as Unavailable.
	ClassEnvironment Class = "environment"

	// ClassConfiguration indicates a defect in how facts were registered or requested.
	ClassConfiguration Class = "configuration"
)

// ClassForCode returns the class for a given error code.
func ClassForCode(code string) Class {
	switch code {
	case ErrCodeUnknownFact:
		return ClassConfiguration
	case ErrCodeMissingFile, ErrCodeCommandFailed, ErrCodeNoMatch, ErrCodeNotConfined:
		return ClassEnvironment
	default:
		// panics and uncategorized failures still must not abort the run
		return ClassEnvironment
	}
}

// Recoverable reports whether err should degrade to an Unavailable value
// rather than propagate to the caller. A nil error is recoverable.
func Recoverable(err error) bool {
	if err == nil {
		return true
	}
	if errors.Is(err, ErrUnknownFact) {
		return false
	}
	code := CodeOf(err)
	if code == "" {
		return true
	}
	return ClassForCode(code) == ClassEnvironment
}
