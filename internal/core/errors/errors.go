package errors

import (
	"errors"
	"fmt"
)

type ErrorCode string

const (
	CodeDuplicateLibrary ErrorCode = "DUPLICATE_LIBRARY"
	CodeNoMatch          ErrorCode = "NO_MATCH"
	CodeUnknownLibrary   ErrorCode = "UNKNOWN_LIBRARY"
	CodeUnknownUnit      ErrorCode = "UNKNOWN_UNIT"
	CodeDuplicateBinding ErrorCode = "DUPLICATE_BINDING"
	CodeWriteFailed      ErrorCode = "WRITE_FAILED"
	CodeValidationError  ErrorCode = "VALIDATION_ERROR"
	CodeInternal         ErrorCode = "INTERNAL_ERROR"
)

type DomainError struct {
	Code    ErrorCode
	Message string
	Err     error
	Context map[string]interface{}
}

const (
	CtxLibrary = "library"
	CtxPattern = "pattern"
	CtxUnit    = "unit"
	CtxGeneric = "generic"
	CtxPath    = "path"
)

func (e *DomainError) WithContext(key string, value interface{}) *DomainError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

func (e *DomainError) Error() string {
	msg := fmt.Sprintf("[%s] %s", e.Code, e.Message)
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	if len(e.Context) > 0 {
		msg += fmt.Sprintf(" %v", e.Context)
	}
	return msg
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

func New(code ErrorCode, msg string) error {
	return &DomainError{Code: code, Message: msg}
}

func Newf(code ErrorCode, format string, args ...interface{}) error {
	return &DomainError{Code: code, Message: fmt.Sprintf(format, args...)}
}

func Wrap(err error, code ErrorCode, msg string) error {
	return &DomainError{Code: code, Message: msg, Err: err}
}

func IsCode(err error, code ErrorCode) bool {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code == code
	}
	return false
}
