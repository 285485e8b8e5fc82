package api

import (
	"net/http"

	"github.com/ignite/phishsim/internal/pkg/httputil"
	"github.com/ignite/phishsim/internal/service/campaign"
)

func (h *Handlers) ListCampaigns(w http.ResponseWriter, r *http.Request) {
	campaigns, err := h.campaigns.List(r.Context(), caller(r).OrganizationID)
	if err != nil {
		httputil.FromError(w, err)
		return
	}
	httputil.OK(w, campaigns)
}

// CreateCampaign checks that the group, SMTP profile, template and page
// all belong to the caller's organization before anything is written.
func (h *Handlers) CreateCampaign(w http.ResponseWriter, r *http.Request) {
	var in campaign.CreateInput
	if !httputil.Decode(w, r, &in) {
		return
	}
	u := caller(r)
	c, err := h.campaigns.Create(r.Context(), u.OrganizationID, u.ID, in)
	if err != nil {
		httputil.FromError(w, err)
		return
	}
	httputil.Created(w, c)
}

func (h *Handlers) GetCampaign(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	c, err := h.campaigns.Get(r.Context(), caller(r).OrganizationID, id)
	if err != nil {
		httputil.FromError(w, err)
		return
	}
	httputil.OK(w, c)
}

func (h *Handlers) UpdateCampaign(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var in campaign.UpdateInput
	if !httputil.Decode(w, r, &in) {
		return
	}
	c, err := h.campaigns.Update(r.Context(), caller(r).OrganizationID, id, in)
	if err != nil {
		httputil.FromError(w, err)
		return
	}
	httputil.OK(w, c)
}

func (h *Handlers) DeleteCampaign(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.campaigns.Delete(r.Context(), caller(r).OrganizationID, id); err != nil {
		httputil.FromError(w, err)
		return
	}
	httputil.NoContent(w)
}

func (h *Handlers) LaunchCampaign(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	c, err := h.campaigns.Launch(r.Context(), caller(r).OrganizationID, id)
	if err != nil {
		httputil.FromError(w, err)
		return
	}
	httputil.OK(w, c)
}

func (h *Handlers) CompleteCampaign(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	c, err := h.campaigns.Complete(r.Context(), caller(r).OrganizationID, id)
	if err != nil {
		httputil.FromError(w, err)
		return
	}
	httputil.OK(w, c)
}

func (h *Handlers) CampaignResults(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	res, err := h.campaigns.Results(r.Context(), caller(r).OrganizationID, id)
	if err != nil {
		httputil.FromError(w, err)
		return
	}
	httputil.OK(w, res)
}
