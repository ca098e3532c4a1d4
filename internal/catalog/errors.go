package catalog

import (
	"errors"
	"fmt"

	cueerrors "cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"
)

// Error code constants, shared with the CLI output envelope.
const (
	ErrCodeGeneric     = "E001" // Generic/unknown error
	ErrCodeScanError   = "E002" // Directory scan error
	ErrCodeNoFiles     = "E003" // No CUE files found
	ErrCodeLoadFailed  = "E004" // CUE load failed
	ErrCodeNotFound    = "E005" // Path not found
	ErrCodeBuildFailed = "E006" // CUE build or schema unification failed

	ErrCodeMissingField  = "E101" // Required field absent
	ErrCodeInvalidValue  = "E102" // Field has the wrong kind or format
	ErrCodeInvalidCycle  = "E201" // cycle_days < 1
	ErrCodeInvalidLife   = "E202" // designed_lifespan_years <= 0
	ErrCodeInvalidWindow = "E203" // warning_days < 0
	ErrCodeUnknownAsset  = "E204" // sensor references an undeclared asset
	ErrCodeEmptyFleet    = "E205" // no assets or sensors declared
)

// LoadError is a failure to read or build a fleet directory.
type LoadError struct {
	Code    string
	Message string
	Pos     token.Pos // CUE position if available
}

func (e *LoadError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// CompileError is a failure to convert a CUE value into a record.
type CompileError struct {
	Field   string
	Message string
	Pos     token.Pos
}

func (e *CompileError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d: %s: %s", e.Pos.Filename(), e.Pos.Line(), e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationError is a semantic problem in an otherwise well-formed fleet.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	return fmt.Sprintf("[%s] %s: %s", e.Code, e.Field, e.Message)
}

// Code returns the catalog code of err, or ErrCodeGeneric.
func Code(err error) string {
	var le *LoadError
	if errors.As(err, &le) {
		return le.Code
	}
	var ve ValidationError
	if errors.As(err, &ve) {
		return ve.Code
	}
	var ce *CompileError
	if errors.As(err, &ce) {
		return ErrCodeInvalidValue
	}
	return ErrCodeGeneric
}

// fromCUE converts a CUE error into a LoadError carrying the first
// reported position.
func fromCUE(code string, err error) *LoadError {
	le := &LoadError{Code: code, Message: cueerrors.Details(err, nil)}
	for _, e := range cueerrors.Errors(err) {
		if pos := e.Position(); pos.IsValid() {
			le.Pos = pos
			break
		}
	}
	return le
}
