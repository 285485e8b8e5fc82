package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/ignite/phishsim/internal/auth"
	"github.com/ignite/phishsim/internal/pkg/httputil"
)

var defaultOrigins = []string{"http://localhost:5173", "http://localhost:8080"}

// SetupRoutes configures all API routes. Everything under /api except
// status, register and login runs behind authManager.RequireAuth.
func SetupRoutes(h *Handlers, authManager *auth.AuthManager, health *HealthChecker, origins []string) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)
	r.Use(middleware.RequestID)

	if len(origins) == 0 {
		origins = defaultOrigins
	}
	// Credentials are allowed for the session cookie, so origins stay explicit.
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	if health != nil {
		r.Get("/health", health.HandleHealth)
		r.Get("/health/live", health.HandleLiveness)
		r.Get("/health/ready", health.HandleReadiness)
	}

	r.Route("/api", func(r chi.Router) {
		r.Get("/status", func(w http.ResponseWriter, _ *http.Request) {
			httputil.OK(w, map[string]string{"status": "ok"})
		})
		r.Post("/register", authManager.HandleRegister)
		r.Post("/login", authManager.HandleLogin)

		r.Group(func(r chi.Router) {
			r.Use(authManager.RequireAuth)

			r.Post("/logout", authManager.HandleLogout)
			r.Get("/user", authManager.HandleUserInfo)
			r.Get("/users", h.ListUsers)

			r.Route("/dashboard", func(r chi.Router) {
				r.Get("/stats", h.DashboardStats)
				r.Get("/metrics", h.DashboardMetrics)
				r.Get("/threats", h.DashboardThreats)
				r.Get("/risk-users", h.DashboardRiskUsers)
				r.Get("/training", h.DashboardTraining)
			})

			r.Route("/groups", func(r chi.Router) {
				r.Get("/", h.ListGroups)
				r.Post("/", h.CreateGroup)
				r.Get("/{id}", h.GetGroup)
				r.Put("/{id}", h.UpdateGroup)
				r.Delete("/{id}", h.DeleteGroup)
				r.Get("/{id}/targets", h.ListTargets)
				r.Post("/{id}/targets", h.CreateTarget)
				r.Post("/{id}/import", h.ImportTargets)
			})

			r.Route("/targets", func(r chi.Router) {
				r.Put("/{id}", h.UpdateTarget)
				r.Delete("/{id}", h.DeleteTarget)
			})

			r.Route("/smtp-profiles", func(r chi.Router) {
				r.Get("/", h.ListSmtpProfiles)
				r.Post("/", h.CreateSmtpProfile)
				r.Get("/{id}", h.GetSmtpProfile)
				r.Put("/{id}", h.UpdateSmtpProfile)
				r.Delete("/{id}", h.DeleteSmtpProfile)
			})

			r.Route("/email-templates", func(r chi.Router) {
				r.Get("/", h.ListEmailTemplates)
				r.Post("/", h.CreateEmailTemplate)
				r.Get("/{id}", h.GetEmailTemplate)
				r.Put("/{id}", h.UpdateEmailTemplate)
				r.Delete("/{id}", h.DeleteEmailTemplate)
				r.Post("/{id}/preview", h.PreviewEmailTemplate)
			})

			r.Route("/landing-pages", func(r chi.Router) {
				r.Get("/", h.ListLandingPages)
				r.Post("/", h.CreateLandingPage)
				r.Get("/{id}", h.GetLandingPage)
				r.Put("/{id}", h.UpdateLandingPage)
				r.Delete("/{id}", h.DeleteLandingPage)
			})

			r.Route("/campaigns", func(r chi.Router) {
				r.Get("/", h.ListCampaigns)
				r.Post("/", h.CreateCampaign)
				r.Get("/{id}", h.GetCampaign)
				r.Put("/{id}", h.UpdateCampaign)
				r.Delete("/{id}", h.DeleteCampaign)
				r.Post("/{id}/launch", h.LaunchCampaign)
				r.Post("/{id}/complete", h.CompleteCampaign)
				r.Get("/{id}/results", h.CampaignResults)
			})
		})
	})

	return r
}
