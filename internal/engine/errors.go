package engine

import "errors"

// Sentinel errors for engine operations.
var (
	ErrIndexNotFound      = errors.New("engine: index not found")
	ErrIndexExists        = errors.New("engine: index already exists")
	ErrDocumentMissing    = errors.New("engine: document missing")
	ErrUnsupportedQuery   = errors.New("engine: unsupported query")
	ErrUnsupportedMapping = errors.New("engine: unsupported mapping")
)

// Op constants name engine operations for error context. Both drivers use
// the same names so manager-level errors read identically across engines.
const (
	OpIndexDoc    = "index-document"
	OpGetDoc      = "get-document"
	OpDeleteDoc   = "delete-document"
	OpSearch      = "search"
	OpCount       = "count"
	OpCreateIndex = "create-index"
	OpDeleteIndex = "delete-index"
)

// Error wraps an underlying error with the operation name for diagnostics.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string { return e.Op + ": " + e.Err.Error() }
func (e *Error) Unwrap() error { return e.Err }
