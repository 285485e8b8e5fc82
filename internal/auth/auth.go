package auth

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/ignite/phishsim/internal/config"
	"github.com/ignite/phishsim/internal/domain"
	"github.com/ignite/phishsim/internal/pkg/httputil"
	"github.com/ignite/phishsim/internal/pkg/logger"
	"github.com/ignite/phishsim/internal/pkg/validation"
	"github.com/ignite/phishsim/internal/repository"
)

// Repository is the subset of the entity store authentication needs.
type Repository interface {
	GetUser(ctx context.Context, id int64) (*domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
	CreateOrganization(ctx context.Context, in domain.InsertOrganization) (*domain.Organization, error)
	DeleteOrganization(ctx context.Context, id int64) error
	CreateUser(ctx context.Context, orgID int64, in domain.InsertUser) (*domain.User, error)
}

// RegisterRequest creates an organization together with its first admin.
type RegisterRequest struct {
	OrganizationName string `json:"organizationName" validate:"required,max=255"`
	Email            string `json:"email" validate:"required,email,max=255"`
	Password         string `json:"password" validate:"required,min=8,max=72"`
	FirstName        string `json:"firstName" validate:"required,max=100"`
	LastName         string `json:"lastName" validate:"required,max=100"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// AuthManager handles email/password authentication and cookie sessions.
type AuthManager struct {
	repo     Repository
	sessions SessionStore
	cfg      config.SessionConfig
	now      func() time.Time
}

// NewAuthManager creates a new authentication manager
func NewAuthManager(repo Repository, sessions SessionStore, cfg config.SessionConfig) *AuthManager {
	return &AuthManager{repo: repo, sessions: sessions, cfg: cfg, now: time.Now}
}

// HandleRegister creates the organization and admin user, then signs the
// user in.
func (am *AuthManager) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if !httputil.Decode(w, r, &req) {
		return
	}
	if err := validation.Struct(req); err != nil {
		httputil.FromError(w, err)
		return
	}

	req.Email = repository.NormalizeEmail(req.Email)

	ctx := r.Context()
	if _, err := am.repo.GetUserByEmail(ctx, req.Email); err == nil {
		httputil.Conflict(w, "Email already registered")
		return
	} else if !errors.Is(err, domain.ErrNotFound) {
		httputil.InternalError(w, err)
		return
	}

	hash, err := HashPassword(req.Password)
	if err != nil {
		httputil.InternalError(w, err)
		return
	}

	org, err := am.repo.CreateOrganization(ctx, domain.InsertOrganization{Name: req.OrganizationName})
	if err != nil {
		httputil.FromError(w, err)
		return
	}
	user, err := am.repo.CreateUser(ctx, org.ID, domain.InsertUser{
		Email:     req.Email,
		Password:  hash,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		IsAdmin:   true,
	})
	if err != nil {
		if derr := am.repo.DeleteOrganization(ctx, org.ID); derr != nil {
			logger.Error("failed to roll back organization", "org_id", org.ID, "error", derr)
		}
		if errors.Is(err, domain.ErrDuplicate) {
			httputil.Conflict(w, "Email already registered")
			return
		}
		httputil.FromError(w, err)
		return
	}

	if err := am.startSession(w, r, user); err != nil {
		httputil.InternalError(w, err)
		return
	}
	logger.Info("organization registered", "org_id", org.ID, "user_id", user.ID)
	httputil.Created(w, user)
}

// HandleLogin verifies credentials and sets the session cookie.
func (am *AuthManager) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !httputil.Decode(w, r, &req) {
		return
	}
	if err := validation.Struct(req); err != nil {
		httputil.FromError(w, err)
		return
	}

	user, err := am.repo.GetUserByEmail(r.Context(), req.Email)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		httputil.InternalError(w, err)
		return
	}
	hash := unknownUserHash()
	if user != nil {
		hash = user.Password
	}
	if !CheckPassword(hash, req.Password) || user == nil {
		httputil.Error(w, http.StatusUnauthorized, "invalid email or password")
		return
	}

	if err := am.startSession(w, r, user); err != nil {
		httputil.InternalError(w, err)
		return
	}
	httputil.OK(w, user)
}

// HandleLogout logs the user out
func (am *AuthManager) HandleLogout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(am.cfg.CookieName); err == nil {
		if err := am.sessions.Delete(r.Context(), cookie.Value); err != nil {
			logger.Warn("failed to delete session", "error", err)
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:     am.cfg.CookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   am.cfg.Secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})
	httputil.OK(w, map[string]string{"status": "logged_out"})
}

// HandleUserInfo returns the current user. It must run behind RequireAuth.
func (am *AuthManager) HandleUserInfo(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		httputil.Forbidden(w, "Access denied")
		return
	}
	httputil.OK(w, user)
}

// GetSession retrieves the session named by the request cookie.
func (am *AuthManager) GetSession(r *http.Request) (*Session, error) {
	cookie, err := r.Cookie(am.cfg.CookieName)
	if err != nil {
		return nil, ErrNoSession
	}
	return am.sessions.Get(r.Context(), cookie.Value)
}

// RequireAuth rejects requests without a live session and stores the user
// and organization in the request context.
func (am *AuthManager) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session, err := am.GetSession(r)
		if err != nil {
			if !errors.Is(err, ErrNoSession) {
				logger.Error("session lookup failed", "error", err)
			}
			httputil.Forbidden(w, "Access denied")
			return
		}

		user, err := am.repo.GetUser(r.Context(), session.UserID)
		if errors.Is(err, domain.ErrNotFound) || (err == nil && user.OrganizationID != session.OrganizationID) {
			httputil.Forbidden(w, "Access denied")
			return
		}
		if err != nil {
			httputil.InternalError(w, err)
			return
		}

		next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
	})
}

func (am *AuthManager) startSession(w http.ResponseWriter, r *http.Request, user *domain.User) error {
	id := uuid.NewString()
	now := am.now().UTC()
	maxAge := am.cfg.MaxAge()
	session := &Session{
		UserID:         user.ID,
		OrganizationID: user.OrganizationID,
		CreatedAt:      now,
		ExpiresAt:      now.Add(maxAge),
	}
	if err := am.sessions.Save(r.Context(), id, session); err != nil {
		return err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     am.cfg.CookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		Secure:   am.cfg.Secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(maxAge.Seconds()),
	})
	return nil
}
