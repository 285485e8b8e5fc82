package api

import (
	"net/http"

	"github.com/ignite/phishsim/internal/pkg/httputil"
)

func (h *Handlers) DashboardStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.dashboard.Stats(r.Context(), caller(r).OrganizationID)
	if err != nil {
		httputil.FromError(w, err)
		return
	}
	httputil.OK(w, stats)
}

func (h *Handlers) DashboardMetrics(w http.ResponseWriter, r *http.Request) {
	httputil.OK(w, h.dashboard.Metrics(r.Context(), caller(r).OrganizationID))
}

func (h *Handlers) DashboardThreats(w http.ResponseWriter, r *http.Request) {
	httputil.OK(w, h.dashboard.Threats(r.Context(), caller(r).OrganizationID))
}

func (h *Handlers) DashboardRiskUsers(w http.ResponseWriter, r *http.Request) {
	httputil.OK(w, h.dashboard.RiskUsers(r.Context(), caller(r).OrganizationID))
}

func (h *Handlers) DashboardTraining(w http.ResponseWriter, r *http.Request) {
	httputil.OK(w, h.dashboard.Training(r.Context(), caller(r).OrganizationID))
}
