// Package errors provides structured, coded errors for the hard-failure
// paths of the engine: malformed content, storage faults, and bad
// service requests.
//
// Rule-level denials inside the simulation are boolean/nil returns, not
// errors; this package is for failures a caller must surface.
package errors

import "errors"

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Content errors — fatal to the load that raised them.
	CodeContentDuplicateID      Code = "CONTENT_DUPLICATE_ID"
	CodeContentInvalidCardType  Code = "CONTENT_INVALID_CARD_TYPE"
	CodeContentInvalidAttribute Code = "CONTENT_INVALID_ATTRIBUTE"
	CodeContentMissingEntry     Code = "CONTENT_MISSING_ENTRY_STAGE"
	CodeContentDanglingBranch   Code = "CONTENT_DANGLING_BRANCH"
	CodeContentMalformed        Code = "CONTENT_MALFORMED"

	// Game service errors.
	CodeGameNotFound      Code = "GAME_NOT_FOUND"
	CodeGameOver          Code = "GAME_OVER"
	CodeUnknownDifficulty Code = "UNKNOWN_DIFFICULTY"
	CodeInvalidRequest    Code = "INVALID_REQUEST"

	// Storage errors.
	CodeNotFound       Code = "NOT_FOUND"
	CodeStorageFailure Code = "STORAGE_FAILURE"
)

// Error is a coded domain error with optional metadata.
type Error struct {
	Code     Code
	Message  string
	Metadata map[string]string
}

// New creates a coded error.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// WithMeta returns a copy of the error carrying one metadata pair.
func (e *Error) WithMeta(key, value string) *Error {
	meta := make(map[string]string, len(e.Metadata)+1)
	for k, v := range e.Metadata {
		meta[k] = v
	}
	meta[key] = value
	return &Error{Code: e.Code, Message: e.Message, Metadata: meta}
}

func (e *Error) Error() string {
	return string(e.Code) + ": " + e.Message
}

// GetCode extracts the error code from any error, CodeUnknown when the
// error is not a domain error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeUnknown
}

// IsCode checks whether the error has the specified code.
func IsCode(err error, code Code) bool {
	return GetCode(err) == code
}
