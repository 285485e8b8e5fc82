package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/ignite/phishsim/internal/domain"
	"github.com/ignite/phishsim/internal/pkg/httputil"
)

func smtpOrg(p *domain.SmtpProfile) int64       { return p.OrganizationID }
func templateOrg(t *domain.EmailTemplate) int64 { return t.OrganizationID }
func pageOrg(p *domain.LandingPage) int64       { return p.OrganizationID }

// SMTP profiles

func (h *Handlers) ListSmtpProfiles(w http.ResponseWriter, r *http.Request) {
	profiles, err := h.store.ListSmtpProfiles(r.Context(), caller(r).OrganizationID)
	if err != nil {
		httputil.FromError(w, err)
		return
	}
	httputil.OK(w, profiles)
}

func (h *Handlers) CreateSmtpProfile(w http.ResponseWriter, r *http.Request) {
	var in domain.InsertSmtpProfile
	if !decodeValid(w, r, &in) {
		return
	}
	p, err := h.store.CreateSmtpProfile(r.Context(), caller(r).OrganizationID, in)
	if err != nil {
		httputil.FromError(w, err)
		return
	}
	httputil.Created(w, p)
}

func (h *Handlers) GetSmtpProfile(w http.ResponseWriter, r *http.Request) {
	p, ok := loadOwned(w, r, h.store.GetSmtpProfile, smtpOrg)
	if !ok {
		return
	}
	httputil.OK(w, p)
}

func (h *Handlers) UpdateSmtpProfile(w http.ResponseWriter, r *http.Request) {
	p, ok := loadOwned(w, r, h.store.GetSmtpProfile, smtpOrg)
	if !ok {
		return
	}
	var u domain.SmtpProfileUpdate
	if !decodeValid(w, r, &u) {
		return
	}
	updated, err := h.store.UpdateSmtpProfile(r.Context(), p.ID, u)
	if err != nil {
		httputil.FromError(w, err)
		return
	}
	httputil.OK(w, updated)
}

func (h *Handlers) DeleteSmtpProfile(w http.ResponseWriter, r *http.Request) {
	p, ok := loadOwned(w, r, h.store.GetSmtpProfile, smtpOrg)
	if !ok {
		return
	}
	if err := h.store.DeleteSmtpProfile(r.Context(), p.ID); err != nil {
		httputil.FromError(w, err)
		return
	}
	httputil.NoContent(w)
}

// Email templates

func (h *Handlers) ListEmailTemplates(w http.ResponseWriter, r *http.Request) {
	templates, err := h.store.ListEmailTemplates(r.Context(), caller(r).OrganizationID)
	if err != nil {
		httputil.FromError(w, err)
		return
	}
	httputil.OK(w, templates)
}

func (h *Handlers) CreateEmailTemplate(w http.ResponseWriter, r *http.Request) {
	var in domain.InsertEmailTemplate
	if !decodeValid(w, r, &in) {
		return
	}
	if err := h.render.CheckEmailTemplate(in); err != nil {
		httputil.FromError(w, err)
		return
	}
	u := caller(r)
	t, err := h.store.CreateEmailTemplate(r.Context(), u.OrganizationID, u.ID, in)
	if err != nil {
		httputil.FromError(w, err)
		return
	}
	httputil.Created(w, t)
}

func (h *Handlers) GetEmailTemplate(w http.ResponseWriter, r *http.Request) {
	t, ok := loadOwned(w, r, h.store.GetEmailTemplate, templateOrg)
	if !ok {
		return
	}
	httputil.OK(w, t)
}

func (h *Handlers) UpdateEmailTemplate(w http.ResponseWriter, r *http.Request) {
	t, ok := loadOwned(w, r, h.store.GetEmailTemplate, templateOrg)
	if !ok {
		return
	}
	var u domain.EmailTemplateUpdate
	if !decodeValid(w, r, &u) {
		return
	}
	if err := h.render.CheckEmailTemplateUpdate(u); err != nil {
		httputil.FromError(w, err)
		return
	}
	updated, err := h.store.UpdateEmailTemplate(r.Context(), t.ID, u)
	if err != nil {
		httputil.FromError(w, err)
		return
	}
	httputil.OK(w, updated)
}

func (h *Handlers) DeleteEmailTemplate(w http.ResponseWriter, r *http.Request) {
	t, ok := loadOwned(w, r, h.store.GetEmailTemplate, templateOrg)
	if !ok {
		return
	}
	if err := h.store.DeleteEmailTemplate(r.Context(), t.ID); err != nil {
		httputil.FromError(w, err)
		return
	}
	httputil.NoContent(w)
}

type previewRequest struct {
	TargetID int64 `json:"targetId"`
}

// PreviewEmailTemplate renders the template for one of the organization's
// targets, or for a sample recipient when the body names none.
func (h *Handlers) PreviewEmailTemplate(w http.ResponseWriter, r *http.Request) {
	t, ok := loadOwned(w, r, h.store.GetEmailTemplate, templateOrg)
	if !ok {
		return
	}

	var req previewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		httputil.BadRequest(w, "invalid JSON body")
		return
	}

	var to *domain.Target
	if req.TargetID != 0 {
		target, err := h.store.GetTarget(r.Context(), req.TargetID)
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			httputil.InternalError(w, err)
			return
		}
		if target == nil || target.OrganizationID != t.OrganizationID {
			httputil.Forbidden(w, "Access denied")
			return
		}
		to = target
	}

	p, err := h.render.Preview(t, to)
	if err != nil {
		httputil.InternalError(w, err)
		return
	}
	httputil.OK(w, p)
}

// Landing pages

func (h *Handlers) ListLandingPages(w http.ResponseWriter, r *http.Request) {
	pages, err := h.store.ListLandingPages(r.Context(), caller(r).OrganizationID)
	if err != nil {
		httputil.FromError(w, err)
		return
	}
	httputil.OK(w, pages)
}

func (h *Handlers) CreateLandingPage(w http.ResponseWriter, r *http.Request) {
	var in domain.InsertLandingPage
	if !decodeValid(w, r, &in) {
		return
	}
	if err := h.render.CheckLandingPage(&in.HTMLContent); err != nil {
		httputil.FromError(w, err)
		return
	}
	u := caller(r)
	p, err := h.store.CreateLandingPage(r.Context(), u.OrganizationID, u.ID, in)
	if err != nil {
		httputil.FromError(w, err)
		return
	}
	httputil.Created(w, p)
}

func (h *Handlers) GetLandingPage(w http.ResponseWriter, r *http.Request) {
	p, ok := loadOwned(w, r, h.store.GetLandingPage, pageOrg)
	if !ok {
		return
	}
	httputil.OK(w, p)
}

func (h *Handlers) UpdateLandingPage(w http.ResponseWriter, r *http.Request) {
	p, ok := loadOwned(w, r, h.store.GetLandingPage, pageOrg)
	if !ok {
		return
	}
	var u domain.LandingPageUpdate
	if !decodeValid(w, r, &u) {
		return
	}
	if err := h.render.CheckLandingPage(u.HTMLContent); err != nil {
		httputil.FromError(w, err)
		return
	}
	updated, err := h.store.UpdateLandingPage(r.Context(), p.ID, u)
	if err != nil {
		httputil.FromError(w, err)
		return
	}
	httputil.OK(w, updated)
}

func (h *Handlers) DeleteLandingPage(w http.ResponseWriter, r *http.Request) {
	p, ok := loadOwned(w, r, h.store.GetLandingPage, pageOrg)
	if !ok {
		return
	}
	if err := h.store.DeleteLandingPage(r.Context(), p.ID); err != nil {
		httputil.FromError(w, err)
		return
	}
	httputil.NoContent(w)
}
