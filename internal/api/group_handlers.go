package api

import (
	"net/http"

	"github.com/ignite/phishsim/internal/domain"
	"github.com/ignite/phishsim/internal/pkg/httputil"
	"github.com/ignite/phishsim/internal/pkg/logger"
)

func groupOrg(g *domain.Group) int64   { return g.OrganizationID }
func targetOrg(t *domain.Target) int64 { return t.OrganizationID }

// ListGroups returns the caller's groups with their target counts.
func (h *Handlers) ListGroups(w http.ResponseWriter, r *http.Request) {
	groups, err := h.store.ListGroups(r.Context(), caller(r).OrganizationID)
	if err != nil {
		httputil.FromError(w, err)
		return
	}
	httputil.OK(w, groups)
}

func (h *Handlers) CreateGroup(w http.ResponseWriter, r *http.Request) {
	var in domain.InsertGroup
	if !decodeValid(w, r, &in) {
		return
	}
	g, err := h.store.CreateGroup(r.Context(), caller(r).OrganizationID, in)
	if err != nil {
		httputil.FromError(w, err)
		return
	}
	httputil.Created(w, g)
}

func (h *Handlers) GetGroup(w http.ResponseWriter, r *http.Request) {
	g, ok := loadOwned(w, r, h.store.GetGroup, groupOrg)
	if !ok {
		return
	}
	httputil.OK(w, g)
}

func (h *Handlers) UpdateGroup(w http.ResponseWriter, r *http.Request) {
	g, ok := loadOwned(w, r, h.store.GetGroup, groupOrg)
	if !ok {
		return
	}
	var u domain.GroupUpdate
	if !decodeValid(w, r, &u) {
		return
	}
	updated, err := h.store.UpdateGroup(r.Context(), g.ID, u)
	if err != nil {
		httputil.FromError(w, err)
		return
	}
	httputil.OK(w, updated)
}

func (h *Handlers) DeleteGroup(w http.ResponseWriter, r *http.Request) {
	g, ok := loadOwned(w, r, h.store.GetGroup, groupOrg)
	if !ok {
		return
	}
	if err := h.store.DeleteGroup(r.Context(), g.ID); err != nil {
		httputil.FromError(w, err)
		return
	}
	httputil.NoContent(w)
}

func (h *Handlers) ListTargets(w http.ResponseWriter, r *http.Request) {
	g, ok := loadOwned(w, r, h.store.GetGroup, groupOrg)
	if !ok {
		return
	}
	targets, err := h.store.ListTargets(r.Context(), g.OrganizationID, g.ID)
	if err != nil {
		httputil.FromError(w, err)
		return
	}
	httputil.OK(w, targets)
}

func (h *Handlers) CreateTarget(w http.ResponseWriter, r *http.Request) {
	g, ok := loadOwned(w, r, h.store.GetGroup, groupOrg)
	if !ok {
		return
	}
	var in domain.InsertTarget
	if !decodeValid(w, r, &in) {
		return
	}
	t, err := h.store.CreateTarget(r.Context(), g.OrganizationID, g.ID, in)
	if err != nil {
		httputil.FromError(w, err)
		return
	}
	httputil.Created(w, t)
}

func (h *Handlers) UpdateTarget(w http.ResponseWriter, r *http.Request) {
	t, ok := loadOwned(w, r, h.store.GetTarget, targetOrg)
	if !ok {
		return
	}
	var u domain.TargetUpdate
	if !decodeValid(w, r, &u) {
		return
	}
	updated, err := h.store.UpdateTarget(r.Context(), t.ID, u)
	if err != nil {
		httputil.FromError(w, err)
		return
	}
	httputil.OK(w, updated)
}

func (h *Handlers) DeleteTarget(w http.ResponseWriter, r *http.Request) {
	t, ok := loadOwned(w, r, h.store.GetTarget, targetOrg)
	if !ok {
		return
	}
	if err := h.store.DeleteTarget(r.Context(), t.ID); err != nil {
		httputil.FromError(w, err)
		return
	}
	httputil.NoContent(w)
}

// ImportTargets reads the multipart field "file" as CSV and creates one
// target per valid row. Row failures are reported in the 200 body.
func (h *Handlers) ImportTargets(w http.ResponseWriter, r *http.Request) {
	g, ok := loadOwned(w, r, h.store.GetGroup, groupOrg)
	if !ok {
		return
	}

	// Leave headroom for the multipart envelope around the file.
	r.Body = http.MaxBytesReader(w, r.Body, h.importer.MaxBytes()+1<<20)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		httputil.BadRequest(w, "file required")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		httputil.BadRequest(w, "file required")
		return
	}
	defer file.Close()

	res, err := h.importer.ImportReader(r.Context(), g.OrganizationID, g.ID, file)
	if err != nil {
		httputil.FromError(w, err)
		return
	}
	logger.Info("targets imported", "group_id", g.ID, "filename", header.Filename, "imported", res.Imported, "failed", res.Failed)
	httputil.OK(w, res)
}
