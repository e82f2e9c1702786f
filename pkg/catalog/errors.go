package catalog

import "github.com/Abraxas-365/ensamble/pkg/errx"

var catalogErrors = errx.NewRegistry("CATALOG")

var (
	errEntityNotFound   = catalogErrors.Register("ENTITY_NOT_FOUND", errx.TypeNotFound, 404, "Entity not found")
	errUserNotFound     = catalogErrors.Register("USER_NOT_FOUND", errx.TypeNotFound, 404, "User not found")
	errRatingNotFound   = catalogErrors.Register("RATING_NOT_FOUND", errx.TypeNotFound, 404, "Rating not found")
	errStoreUnavailable = catalogErrors.Register("STORE_UNAVAILABLE", errx.TypeExternal, 502, "Backing store unavailable")
)

// ErrEntityNotFound reports an unknown entity id.
func ErrEntityNotFound() *errx.Error { return catalogErrors.New(errEntityNotFound) }

// ErrUserNotFound reports an unknown user id.
func ErrUserNotFound() *errx.Error { return catalogErrors.New(errUserNotFound) }

// ErrRatingNotFound reports a rating miss; backends synthesize and cache on
// this error.
func ErrRatingNotFound() *errx.Error { return catalogErrors.New(errRatingNotFound) }

// ErrStoreUnavailable wraps a backing-store failure.
func ErrStoreUnavailable(cause error) *errx.Error {
	return catalogErrors.NewWithCause(errStoreUnavailable, cause)
}
