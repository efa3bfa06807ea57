package docdex

import "github.com/docdex-io/docdex/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrNotFound         = domain.ErrNotFound
	ErrUnavailable      = domain.ErrUnavailable
	ErrIdentityConflict = domain.ErrIdentityConflict
	ErrUnknownKind      = domain.ErrUnknownKind
)

// UnavailableError carries the attempt count behind ErrUnavailable.
// Match with errors.As to read it.
type UnavailableError = domain.UnavailableError

// IdentityConflictError names the identity behind ErrIdentityConflict.
type IdentityConflictError = domain.IdentityConflictError
