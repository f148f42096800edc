// Package facterr provides structured error types for fact computations.
//
// # Overview
//
// Fact computations fail for ordinary environmental reasons: a file is missing,
// a command is not installed, its output does not match the expected pattern, or
// the fact does not apply to the host at all. All of these degrade to an
// Unavailable value at the registry boundary. The Error type carries enough
// context to log why a fact was unavailable without ever surfacing the
// distinction to the collector.
//
// # Error Codes
//
//   - ErrCodeMissingFile: a file or directory the fact reads does not exist
//   - ErrCodeCommandFailed: an external command could not be run
//   - ErrCodeNoMatch: command or file output did not match the expected pattern
//   - ErrCodeNotConfined: the host does not satisfy the fact's confinement
//   - ErrCodeUnknownFact: a fact name that is not registered was resolved
//   - ErrCodeComputeFailed: a computation panicked or failed for another reason
//
// # Usage
//
//	err := facterr.New("puppet_server_version", "parse", facterr.ErrCodeNoMatch,
//	    "no line starts with the version prefix").
//	    WithDetails(map[string]any{"output": out})
//
//	if facterr.Recoverable(err) {
//	    // degrade to Unavailable
//	}
//
// Only ErrCodeUnknownFact is classified as ClassConfiguration; it indicates a
// defect in registration rather than a difference between hosts.
package facterr
