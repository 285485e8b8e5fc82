package api

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/ignite/phishsim/internal/auth"
	"github.com/ignite/phishsim/internal/domain"
	"github.com/ignite/phishsim/internal/pkg/httputil"
	"github.com/ignite/phishsim/internal/pkg/validation"
	"github.com/ignite/phishsim/internal/repository"
	"github.com/ignite/phishsim/internal/service/campaign"
	"github.com/ignite/phishsim/internal/service/dashboard"
	"github.com/ignite/phishsim/internal/service/importer"
	"github.com/ignite/phishsim/internal/service/render"
)

// Handlers contains all HTTP handlers
type Handlers struct {
	store     repository.Store
	campaigns *campaign.Service
	importer  *importer.Service
	dashboard *dashboard.Service
	render    *render.Engine
}

// NewHandlers wires the services over one store. maxUploadBytes bounds CSV
// imports; zero uses the importer default.
func NewHandlers(store repository.Store, maxUploadBytes int64) *Handlers {
	return &Handlers{
		store:     store,
		campaigns: campaign.NewService(store),
		importer:  importer.NewService(store, maxUploadBytes),
		dashboard: dashboard.NewService(store),
		render:    render.New(),
	}
}

// caller returns the signed-in user. RequireAuth guarantees it is present.
func caller(r *http.Request) *domain.User {
	u, _ := auth.UserFromContext(r.Context())
	return u
}

// pathID parses the {id} URL parameter, writing a 404 when it is not a
// positive integer.
func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		httputil.NotFound(w, "Not found")
		return 0, false
	}
	return id, true
}

// decodeValid decodes the body into dst and runs struct validation.
func decodeValid(w http.ResponseWriter, r *http.Request, dst any) bool {
	if !httputil.Decode(w, r, dst) {
		return false
	}
	if err := validation.Struct(dst); err != nil {
		httputil.FromError(w, err)
		return false
	}
	return true
}

// loadOwned fetches the row named by {id} and checks it belongs to the
// caller's organization.
func loadOwned[T any](w http.ResponseWriter, r *http.Request, get func(context.Context, int64) (*T, error), orgOf func(*T) int64) (*T, bool) {
	id, ok := pathID(w, r)
	if !ok {
		return nil, false
	}
	v, err := get(r.Context(), id)
	if err != nil {
		httputil.FromError(w, err)
		return nil, false
	}
	if orgOf(v) != caller(r).OrganizationID {
		httputil.Forbidden(w, "Access denied")
		return nil, false
	}
	return v, true
}

func (h *Handlers) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.store.ListUsers(r.Context(), caller(r).OrganizationID)
	if err != nil {
		httputil.FromError(w, err)
		return
	}
	httputil.OK(w, users)
}
