package value

import (
	"errors"
	"fmt"
)

// Error is returned by member access and by the extension engine.
type Error struct {
	// Code identifies the error category.
	Code ErrorCode

	// Member is the member (or extension property) involved, if any.
	Member string

	// Message is a human-readable description.
	Message string
}

// ErrorCode categorizes value errors.
type ErrorCode string

const (
	// ErrCodeUnknownMember indicates the member table has no such name.
	ErrCodeUnknownMember ErrorCode = "UNKNOWN_MEMBER"

	// ErrCodeNotCallable indicates a call on a computed or non-function member.
	ErrCodeNotCallable ErrorCode = "NOT_CALLABLE"

	// ErrCodeBadArgument indicates an argument of the wrong type.
	ErrCodeBadArgument ErrorCode = "BAD_ARGUMENT"

	// ErrCodeBadPath indicates a set path that cannot be assigned.
	ErrCodeBadPath ErrorCode = "BAD_PATH"

	// ErrCodeInvalidName indicates an empty member name.
	ErrCodeInvalidName ErrorCode = "INVALID_NAME"

	// ErrCodeReservedName indicates an attempt to install a reserved member.
	ErrCodeReservedName ErrorCode = "RESERVED_NAME"

	// ErrCodeInvalidOption indicates conflicting or malformed addon options.
	ErrCodeInvalidOption ErrorCode = "INVALID_OPTION"

	// ErrCodeInvalidExtension indicates a malformed extension property.
	ErrCodeInvalidExtension ErrorCode = "INVALID_EXTENSION"
)

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Member != "" {
		return fmt.Sprintf("%s: %s (member=%s)", e.Code, e.Message, e.Member)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func newError(code ErrorCode, member, format string, args ...any) *Error {
	return &Error{Code: code, Member: member, Message: fmt.Sprintf(format, args...)}
}

// Code returns the ErrorCode carried by err, or "" if err is not an *Error.
// Uses errors.As to handle wrapped errors.
func Code(err error) ErrorCode {
	var ve *Error
	if errors.As(err, &ve) {
		return ve.Code
	}
	return ""
}

// IsUnknownMember returns true if err reports a missing member.
func IsUnknownMember(err error) bool {
	return Code(err) == ErrCodeUnknownMember
}

// IsNotCallable returns true if err reports a call on a non-callable member.
func IsNotCallable(err error) bool {
	return Code(err) == ErrCodeNotCallable
}
