package domain

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	// ErrSchemaMismatch is matched by every *SchemaMismatchError.
	ErrSchemaMismatch = errors.New("schema mismatch")
	// ErrSourceRead is matched by every *SourceReadError.
	ErrSourceRead = errors.New("source read error")
)

// SchemaMismatchError reports required columns absent from an input table.
type SchemaMismatchError struct {
	Source  string
	Missing []string
}

func (e *SchemaMismatchError) Error() string {
	return fmt.Sprintf("не хватает колонок в источнике %q: %s", e.Source, strings.Join(e.Missing, ", "))
}

func (e *SchemaMismatchError) Is(target error) bool { return target == ErrSchemaMismatch }

// SourceReadError wraps a failure to read an input file.
type SourceReadError struct {
	Path string
	Err  error
}

func (e *SourceReadError) Error() string {
	return fmt.Sprintf("ошибка при чтении файла %s: %v", e.Path, e.Err)
}

func (e *SourceReadError) Unwrap() error { return e.Err }

func (e *SourceReadError) Is(target error) bool { return target == ErrSourceRead }

// ErrorCode maps an error to the code of its descriptor.
func ErrorCode(err error) int {
	switch {
	case errors.Is(err, ErrSchemaMismatch), errors.Is(err, ErrSourceRead), errors.Is(err, ErrInvalidUpload):
		return http.StatusBadRequest
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// ErrInvalidUpload marks a rejected upload, e.g. a wrong file extension.
var ErrInvalidUpload = errors.New("invalid upload")

// ErrNotFound is returned for download links that do not name an existing report.
var ErrNotFound = errors.New("file not found")
