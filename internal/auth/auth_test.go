package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/ignite/phishsim/internal/config"
	"github.com/ignite/phishsim/internal/domain"
	"github.com/ignite/phishsim/internal/repository/memory"
)

const testCookie = "test_session"

func newTestManager(t *testing.T) (*AuthManager, *memory.Store, *MemoryStore) {
	t.Helper()
	repo := memory.New()
	sessions := NewMemoryStore()
	am := NewAuthManager(repo, sessions, config.SessionConfig{CookieName: testCookie, MaxAgeSeconds: 3600})
	return am, repo, sessions
}

func post(h http.HandlerFunc, body string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	h(rec, req)
	return rec
}

func sessionCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == testCookie {
			return c
		}
	}
	t.Fatal("no session cookie set")
	return nil
}

const registerBody = `{"organizationName":"Acme","email":"Admin@Acme.test","password":"s3cret-pass","firstName":"Ada","lastName":"Admin"}`

func TestHandleRegister(t *testing.T) {
	am, repo, sessions := newTestManager(t)

	rec := post(am.HandleRegister, registerBody)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var user domain.User
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &user))
	assert.Equal(t, "admin@acme.test", user.Email)
	assert.True(t, user.IsAdmin)
	assert.Equal(t, "Acme", user.OrganizationName)
	assert.NotContains(t, rec.Body.String(), "s3cret-pass")

	cookie := sessionCookie(t, rec)
	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, 3600, cookie.MaxAge)
	assert.Equal(t, 1, sessions.Len())

	stored, err := repo.GetUser(context.Background(), user.ID)
	require.NoError(t, err)
	assert.True(t, CheckPassword(stored.Password, "s3cret-pass"))
}

func TestHandleRegister_DuplicateEmail(t *testing.T) {
	am, repo, _ := newTestManager(t)
	require.Equal(t, http.StatusCreated, post(am.HandleRegister, registerBody).Code)

	rec := post(am.HandleRegister, strings.Replace(registerBody, "Acme\"", "Other\"", 1))
	assert.Equal(t, http.StatusConflict, rec.Code)

	orgs, err := repo.ListOrganizations(context.Background())
	require.NoError(t, err)
	assert.Len(t, orgs, 1)
}

func TestHandleRegister_Validation(t *testing.T) {
	am, _, _ := newTestManager(t)

	rec := post(am.HandleRegister, `{"email":"not-an-email","password":"short"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), `"field":"organizationName"`)
	assert.Contains(t, rec.Body.String(), `"field":"email"`)
	assert.Contains(t, rec.Body.String(), `"field":"password"`)
}

func TestHandleLogin(t *testing.T) {
	am, _, sessions := newTestManager(t)
	require.Equal(t, http.StatusCreated, post(am.HandleRegister, registerBody).Code)

	rec := post(am.HandleLogin, `{"email":"admin@acme.test","password":"s3cret-pass"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	sessionCookie(t, rec)
	assert.Equal(t, 2, sessions.Len())

	rec = post(am.HandleLogin, `{"email":"admin@acme.test","password":"wrong"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"error":"invalid email or password"}`, rec.Body.String())

	rec = post(am.HandleLogin, `{"email":"nobody@acme.test","password":"s3cret-pass"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = post(am.HandleLogin, `{"email":"nobody@acme.test","password":"`+unknownUserPassword+`"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"error":"invalid email or password"}`, rec.Body.String())
}

func TestUnknownUserHash(t *testing.T) {
	hash := unknownUserHash()
	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	assert.Equal(t, bcrypt.DefaultCost, cost)
	assert.Equal(t, hash, unknownUserHash())
	assert.False(t, CheckPassword(hash, "s3cret-pass"))
}

func TestRequireAuth(t *testing.T) {
	am, _, _ := newTestManager(t)
	cookie := sessionCookie(t, post(am.HandleRegister, registerBody))

	var seenOrg *OrganizationContext
	protected := am.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenOrg, _ = OrgFromContext(r.Context())
		am.HandleUserInfo(w, r)
	}))

	t.Run("no cookie", func(t *testing.T) {
		rec := httptest.NewRecorder()
		protected.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/user", nil))
		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.JSONEq(t, `{"error":"Access denied"}`, rec.Body.String())
	})

	t.Run("unknown session", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/user", nil)
		req.AddCookie(&http.Cookie{Name: testCookie, Value: "forged"})
		rec := httptest.NewRecorder()
		protected.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("valid session", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/user", nil)
		req.AddCookie(cookie)
		rec := httptest.NewRecorder()
		protected.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"email":"admin@acme.test"`)
		require.NotNil(t, seenOrg)
		assert.Equal(t, "Acme", seenOrg.Name)
	})
}

func TestRequireAuth_DeletedUser(t *testing.T) {
	am, repo, _ := newTestManager(t)
	rec := post(am.HandleRegister, registerBody)
	cookie := sessionCookie(t, rec)

	var user domain.User
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &user))
	require.NoError(t, repo.DeleteUser(context.Background(), user.ID))

	req := httptest.NewRequest(http.MethodGet, "/api/user", nil)
	req.AddCookie(cookie)
	out := httptest.NewRecorder()
	am.RequireAuth(http.HandlerFunc(am.HandleUserInfo)).ServeHTTP(out, req)
	assert.Equal(t, http.StatusForbidden, out.Code)
}

func TestRequireAuth_ExpiredSession(t *testing.T) {
	am, _, sessions := newTestManager(t)
	cookie := sessionCookie(t, post(am.HandleRegister, registerBody))
	sessions.now = func() time.Time { return time.Now().Add(2 * time.Hour) }

	req := httptest.NewRequest(http.MethodGet, "/api/user", nil)
	req.AddCookie(cookie)
	rec := httptest.NewRecorder()
	am.RequireAuth(http.HandlerFunc(am.HandleUserInfo)).ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestHandleLogout(t *testing.T) {
	am, _, sessions := newTestManager(t)
	cookie := sessionCookie(t, post(am.HandleRegister, registerBody))

	rec := post(am.HandleLogout, "", cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	cleared := sessionCookie(t, rec)
	assert.Equal(t, -1, cleared.MaxAge)
	assert.Equal(t, 0, sessions.Len())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookie)
	_, err := am.GetSession(req)
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestHandleUserInfo_NoUser(t *testing.T) {
	am, _, _ := newTestManager(t)
	rec := httptest.NewRecorder()
	am.HandleUserInfo(rec, httptest.NewRequest(http.MethodGet, "/api/user", nil))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
