package apperr

import "fmt"

// Code classifies an application error.
type Code string

const (
	// CodeInput covers invalid user input: malformed links, missing pending
	// link, unsupported language codes.
	CodeInput Code = "INPUT_ERROR"

	// CodeExtraction covers media-fetch collaborator failures.
	CodeExtraction Code = "EXTRACTION_ERROR"

	// CodeDelivery covers failures of both upload paths.
	CodeDelivery Code = "DELIVERY_ERROR"

	// CodeUnauthorized covers non-admins invoking admin actions.
	CodeUnauthorized Code = "UNAUTHORIZED"

	// CodePersistence covers store write failures. Never process-fatal;
	// in-memory state may diverge from disk until the next successful write.
	CodePersistence Code = "PERSISTENCE_ERROR"

	// CodeTelegramAPI covers failed calls to the chat platform.
	CodeTelegramAPI Code = "TELEGRAM_API_ERROR"
)

// Error is a coded application error.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a coded error.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Newf creates a coded error with formatting.
func Newf(code Code, format string, args ...interface{}) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a code and message to an existing error.
func Wrap(err error, code Code, message string) *Error {
	return &Error{Code: code, Message: message, Cause: err}
}

// Is reports whether err is an application error with the given code.
func Is(err error, code Code) bool {
	appErr, ok := As(err)
	return ok && appErr.Code == code
}

// As extracts an application error from err's chain.
func As(err error) (*Error, bool) {
	for err != nil {
		if appErr, ok := err.(*Error); ok {
			return appErr, true
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return nil, false
		}
		err = u.Unwrap()
	}
	return nil, false
}
