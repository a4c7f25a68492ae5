package aaudio

import (
	"errors"
	"fmt"
)

// Result is a native AAudio result code. Zero is success, errors are small negative numbers.
// A Result implements error the same way syscall.Errno does, so callers can write
// errors.Is(err, aaudio.AAUDIO_ERROR_DISCONNECTED).
type Result int32

const (
	AAUDIO_OK                     Result = 0
	AAUDIO_ERROR_BASE             Result = -900
	AAUDIO_ERROR_DISCONNECTED     Result = -899
	AAUDIO_ERROR_ILLEGAL_ARGUMENT Result = -898
	AAUDIO_ERROR_INTERNAL         Result = -896
	AAUDIO_ERROR_INVALID_STATE    Result = -895
	AAUDIO_ERROR_INVALID_HANDLE   Result = -892
	AAUDIO_ERROR_UNIMPLEMENTED    Result = -890
	AAUDIO_ERROR_UNAVAILABLE      Result = -889
	AAUDIO_ERROR_NO_FREE_HANDLES  Result = -888
	AAUDIO_ERROR_NO_MEMORY        Result = -887
	AAUDIO_ERROR_NULL             Result = -886
	AAUDIO_ERROR_TIMEOUT          Result = -885
	AAUDIO_ERROR_WOULD_BLOCK      Result = -884
	AAUDIO_ERROR_INVALID_FORMAT   Result = -883
	AAUDIO_ERROR_OUT_OF_RANGE     Result = -882
	AAUDIO_ERROR_NO_SERVICE       Result = -881
	AAUDIO_ERROR_INVALID_RATE     Result = -880
)

// ResultNames provides human-readable names for result codes.
var ResultNames = map[Result]string{
	AAUDIO_OK:                     "OK",
	AAUDIO_ERROR_BASE:             "ERROR_BASE",
	AAUDIO_ERROR_DISCONNECTED:     "ERROR_DISCONNECTED",
	AAUDIO_ERROR_ILLEGAL_ARGUMENT: "ERROR_ILLEGAL_ARGUMENT",
	AAUDIO_ERROR_INTERNAL:         "ERROR_INTERNAL",
	AAUDIO_ERROR_INVALID_STATE:    "ERROR_INVALID_STATE",
	AAUDIO_ERROR_INVALID_HANDLE:   "ERROR_INVALID_HANDLE",
	AAUDIO_ERROR_UNIMPLEMENTED:    "ERROR_UNIMPLEMENTED",
	AAUDIO_ERROR_UNAVAILABLE:      "ERROR_UNAVAILABLE",
	AAUDIO_ERROR_NO_FREE_HANDLES:  "ERROR_NO_FREE_HANDLES",
	AAUDIO_ERROR_NO_MEMORY:        "ERROR_NO_MEMORY",
	AAUDIO_ERROR_NULL:             "ERROR_NULL",
	AAUDIO_ERROR_TIMEOUT:          "ERROR_TIMEOUT",
	AAUDIO_ERROR_WOULD_BLOCK:      "ERROR_WOULD_BLOCK",
	AAUDIO_ERROR_INVALID_FORMAT:   "ERROR_INVALID_FORMAT",
	AAUDIO_ERROR_OUT_OF_RANGE:     "ERROR_OUT_OF_RANGE",
	AAUDIO_ERROR_NO_SERVICE:       "ERROR_NO_SERVICE",
	AAUDIO_ERROR_INVALID_RATE:     "ERROR_INVALID_RATE",
}

func (r Result) Error() string {
	return "aaudio: " + r.String()
}

// Temporary reports whether retrying the operation may succeed.
func (r Result) Temporary() bool {
	return r == AAUDIO_ERROR_WOULD_BLOCK || r == AAUDIO_ERROR_TIMEOUT || r == AAUDIO_ERROR_UNAVAILABLE
}

// Timeout reports whether the result is a timeout.
func (r Result) Timeout() bool {
	return r == AAUDIO_ERROR_TIMEOUT
}

// Normalize maps a raw native code to a known Result.
// Codes the binding does not know about are treated as AAUDIO_ERROR_INTERNAL.
func Normalize(code int32) Result {
	r := Result(code)
	if _, ok := ResultNames[r]; ok {
		return r
	}

	return AAUDIO_ERROR_INTERNAL
}

var (
	// ErrUnknownEnumValue is matched by every *UnknownValueError.
	ErrUnknownEnumValue = errors.New("unknown enum value")
	// ErrSymbolNotFound is returned when the loaded library lacks an optional entry point.
	ErrSymbolNotFound = fmt.Errorf("symbol not found: %w", AAUDIO_ERROR_UNIMPLEMENTED)
	ErrBuilderOpened  = errors.New("stream builder already opened a stream")
	ErrBuilderClosed  = errors.New("stream builder is closed")
	ErrStreamClosed   = errors.New("stream is closed")
	ErrLibraryClosed  = errors.New("library is closed")
)

// Error describes a failed native call.
type Error struct {
	Op   string // The native entry point, e.g. "AAudioStream_requestStart".
	Code Result // Normalized result code.
	Raw  int32  // The code exactly as returned by the native library.
}

func (e *Error) Error() string {
	if int32(e.Code) != e.Raw {
		return fmt.Sprintf("%s failed: %s (raw %d)", e.Op, e.Code, e.Raw)
	}

	return fmt.Sprintf("%s failed: %s (%d)", e.Op, e.Code, e.Raw)
}

func (e *Error) Unwrap() error {
	return e.Code
}

// checkResult returns nil for AAUDIO_OK and an *Error for anything else.
func checkResult(op string, code int32) error {
	if code == int32(AAUDIO_OK) {
		return nil
	}

	return &Error{Op: op, Code: Normalize(code), Raw: code}
}

// checkCount turns a negative count returned by a query or I/O entry point into an error.
func checkCount(op string, v int32) (int32, error) {
	if v < 0 {
		return 0, &Error{Op: op, Code: Normalize(v), Raw: v}
	}

	return v, nil
}

// UnknownValueError is returned by the FromValue lookups for integers that name no member.
type UnknownValueError struct {
	Kind  string
	Value int64
}

func (e *UnknownValueError) Error() string {
	return fmt.Sprintf("unknown %s value %d", e.Kind, e.Value)
}

func (e *UnknownValueError) Is(target error) bool {
	return target == ErrUnknownEnumValue
}
