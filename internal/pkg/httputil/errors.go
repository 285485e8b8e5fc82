package httputil

import (
	"errors"
	"net/http"

	"github.com/ignite/phishsim/internal/domain"
	"github.com/ignite/phishsim/internal/pkg/validation"
)

// FromError maps a store or service error onto the matching status code.
// Anything unrecognised is logged and reported as a generic 500.
func FromError(w http.ResponseWriter, err error) {
	if verrs, ok := validation.As(err); ok {
		ValidationFailed(w, verrs)
		return
	}
	var denied *domain.AccessDeniedError
	switch {
	case errors.As(err, &denied) && len(denied.Refs) > 0:
		JSON(w, http.StatusForbidden, ErrorResponse{Error: "Access denied", Details: denied.Refs})
	case errors.Is(err, domain.ErrNotFound):
		NotFound(w, "Not found")
	case errors.Is(err, domain.ErrAccessDenied):
		Forbidden(w, "Access denied")
	case errors.Is(err, domain.ErrInUse):
		Conflict(w, "Resource is referenced by a campaign")
	case errors.Is(err, domain.ErrDuplicate):
		Conflict(w, "Resource already exists")
	case errors.Is(err, domain.ErrInvalidState):
		Conflict(w, err.Error())
	default:
		InternalError(w, err)
	}
}
