package xlsheet

import (
	"errors"
	"fmt"
)

// Caller errors. They are reported before any engine call is issued.
var (
	ErrInvalidColumnName = errors.New("invalid column name")
	ErrInvalidReference  = errors.New("invalid cell reference")
	ErrRowOutOfRange     = errors.New("row out of range")
	ErrColumnOutOfRange  = errors.New("column out of range")
	ErrInvertedRange     = errors.New("range start is after range end")
	ErrNilValue          = errors.New("nil value")
	ErrNilChart          = errors.New("nil chart")
	ErrInvalidTable      = errors.New("invalid table definition")
	ErrInvalidURL        = errors.New("url must be absolute")
	ErrNulByte           = errors.New("text contains a NUL byte")
)

// ValidationError reports a caller error for one worksheet operation.
type ValidationError struct {
	Op  string // facade operation, e.g. "WriteValue"
	Ref string // cell or range the operation addressed, may be empty
	Err error
}

func (e *ValidationError) Error() string {
	if e.Ref == "" {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.Ref, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

func invalid(op, ref string, err error) *ValidationError {
	return &ValidationError{Op: op, Ref: ref, Err: err}
}

// ErrorCode is the status an engine reports for a rejected call.
// Zero means success; every other value names one failure reason.
type ErrorCode int

const (
	CodeSuccess ErrorCode = iota
	CodeMemoryError
	CodeStringTooLong
	CodeRowColOutOfRange
	CodeParameterInvalid
	CodeSheetNotFound
	CodeNameInvalid
	CodeFeatureUnsupported
	CodeUnknown
)

var codeText = map[ErrorCode]string{
	CodeSuccess:            "no error",
	CodeMemoryError:        "memory error, failed to allocate",
	CodeStringTooLong:      "string exceeds the maximum cell length",
	CodeRowColOutOfRange:   "worksheet row or column index out of range",
	CodeParameterInvalid:   "parameter value is invalid",
	CodeSheetNotFound:      "worksheet does not exist",
	CodeNameInvalid:        "name is invalid or already in use",
	CodeFeatureUnsupported: "feature is not supported by the engine",
	CodeUnknown:            "unknown engine error",
}

// String returns the human-readable text for the code.
func (c ErrorCode) String() string {
	if s, ok := codeText[c]; ok {
		return s
	}
	return fmt.Sprintf("error code %d", int(c))
}

// EngineError is how an Engine reports a failed primitive.
type EngineError struct {
	Code ErrorCode
	Err  error // underlying engine error, may be nil
}

func (e *EngineError) Error() string {
	if e.Err == nil {
		return e.Code.String()
	}
	return fmt.Sprintf("%s: %v", e.Code, e.Err)
}

func (e *EngineError) Unwrap() error {
	return e.Err
}

// WriteError is returned by the facade when the engine rejects the
// coordinate, value or format combination of a call.
type WriteError struct {
	Op      string
	Ref     string
	Code    ErrorCode
	Message string
	Err     error
}

func (e *WriteError) Error() string {
	if e.Ref == "" {
		return fmt.Sprintf("%s: engine error %d: %s", e.Op, int(e.Code), e.Message)
	}
	return fmt.Sprintf("%s %s: engine error %d: %s", e.Op, e.Ref, int(e.Code), e.Message)
}

func (e *WriteError) Unwrap() error {
	return e.Err
}

// newWriteError classifies an engine error. Errors that are not an
// *EngineError are reported as CodeUnknown.
func newWriteError(op, ref string, err error) *WriteError {
	we := &WriteError{Op: op, Ref: ref, Code: CodeUnknown, Err: err}
	var ee *EngineError
	if errors.As(err, &ee) {
		we.Code = ee.Code
	}
	we.Message = we.Code.String()
	if ee == nil || ee.Err != nil {
		we.Message = fmt.Sprintf("%s (%v)", we.Message, unwrapEngine(err))
	}
	return we
}

func unwrapEngine(err error) error {
	var ee *EngineError
	if errors.As(err, &ee) && ee.Err != nil {
		return ee.Err
	}
	return err
}
