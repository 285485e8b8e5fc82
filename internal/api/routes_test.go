package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignite/phishsim/internal/auth"
	"github.com/ignite/phishsim/internal/config"
	"github.com/ignite/phishsim/internal/repository/memory"
)

const cookieName = "phishsim_test"

type testAPI struct {
	t       *testing.T
	handler http.Handler
	store   *memory.Store
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	store := memory.New()
	am := auth.NewAuthManager(store, auth.NewMemoryStore(), config.SessionConfig{CookieName: cookieName, MaxAgeSeconds: 3600})
	router := SetupRoutes(NewHandlers(store, 0), am, NewHealthChecker(store, nil), nil)
	return &testAPI{t: t, handler: router, store: store}
}

func (a *testAPI) do(method, path string, body io.Reader, contentType string, cookie *http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	a.handler.ServeHTTP(rec, req)
	return rec
}

func (a *testAPI) json(method, path, body string, cookie *http.Cookie) *httptest.ResponseRecorder {
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	return a.do(method, path, r, "application/json", cookie)
}

// register creates an organization and returns its admin's session cookie.
func (a *testAPI) register(org, email string) *http.Cookie {
	a.t.Helper()
	body := fmt.Sprintf(`{"organizationName":%q,"email":%q,"password":"password123","firstName":"Ada","lastName":"Admin"}`, org, email)
	rec := a.json(http.MethodPost, "/api/register", body, nil)
	require.Equal(a.t, http.StatusCreated, rec.Code, rec.Body.String())
	for _, c := range rec.Result().Cookies() {
		if c.Name == cookieName {
			return c
		}
	}
	a.t.Fatal("register did not set a session cookie")
	return nil
}

// create posts body and returns the new row's id.
func (a *testAPI) create(path, body string, cookie *http.Cookie) int64 {
	a.t.Helper()
	rec := a.json(http.MethodPost, path, body, cookie)
	require.Equal(a.t, http.StatusCreated, rec.Code, rec.Body.String())
	var out struct {
		ID int64 `json:"id"`
	}
	require.NoError(a.t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out.ID
}

type fixture struct {
	group, smtp, template, page int64
}

func (a *testAPI) seed(cookie *http.Cookie) fixture {
	var f fixture
	f.group = a.create("/api/groups", `{"name":"Finance"}`, cookie)
	a.create(fmt.Sprintf("/api/groups/%d/targets", f.group), `{"firstName":"Tom","lastName":"Target","email":"tom@corp.test"}`, cookie)
	a.create(fmt.Sprintf("/api/groups/%d/targets", f.group), `{"firstName":"Tia","lastName":"Target","email":"tia@corp.test"}`, cookie)
	f.smtp = a.create("/api/smtp-profiles", `{"name":"Relay","host":"smtp.corp.test","port":587,"username":"relay","password":"pw","fromName":"IT","fromEmail":"it@corp.test"}`, cookie)
	f.template = a.create("/api/email-templates", `{"name":"Reset","subject":"Hi {{ first_name }}","htmlContent":"<a href=\"{{ url }}\">Reset</a>","senderName":"IT","senderEmail":"it@corp.test"}`, cookie)
	f.page = a.create("/api/landing-pages", `{"name":"Login","htmlContent":"<form></form>","pageType":"login"}`, cookie)
	return f
}

func campaignBody(f fixture) string {
	return fmt.Sprintf(`{"name":"Q3","groupId":%d,"smtpProfileId":%d,"emailTemplateId":%d,"landingPageId":%d}`,
		f.group, f.smtp, f.template, f.page)
}

func TestStatusIsPublic(t *testing.T) {
	a := newTestAPI(t)
	rec := a.json(http.MethodGet, "/api/status", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestProtectedRoutesRequireSession(t *testing.T) {
	a := newTestAPI(t)
	for _, path := range []string{"/api/groups", "/api/users", "/api/dashboard/stats", "/api/campaigns", "/api/user"} {
		rec := a.json(http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusForbidden, rec.Code, path)
		assert.JSONEq(t, `{"error":"Access denied"}`, rec.Body.String(), path)
	}
}

func TestLoginLogoutFlow(t *testing.T) {
	a := newTestAPI(t)
	a.register("Acme", "admin@acme.test")

	rec := a.json(http.MethodPost, "/api/login", `{"email":"ADMIN@acme.test","password":"password123"}`, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	cookie := rec.Result().Cookies()[0]

	assert.Equal(t, http.StatusOK, a.json(http.MethodGet, "/api/user", "", cookie).Code)
	assert.Equal(t, http.StatusOK, a.json(http.MethodPost, "/api/logout", "", cookie).Code)
	assert.Equal(t, http.StatusForbidden, a.json(http.MethodGet, "/api/user", "", cookie).Code)
}

func TestGroupLifecycle(t *testing.T) {
	a := newTestAPI(t)
	cookie := a.register("Acme", "admin@acme.test")

	id := a.create("/api/groups", `{"name":"Sales","description":"EMEA"}`, cookie)
	for i := 0; i < 3; i++ {
		a.create(fmt.Sprintf("/api/groups/%d/targets", id),
			fmt.Sprintf(`{"firstName":"T%d","lastName":"X","email":"t%d@x.test"}`, i, i), cookie)
	}

	rec := a.json(http.MethodGet, "/api/groups", "", cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	var groups []struct {
		ID          int64 `json:"id"`
		TargetCount int   `json:"targetCount"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &groups))
	require.Len(t, groups, 1)
	assert.Equal(t, 3, groups[0].TargetCount)

	rec = a.json(http.MethodPut, fmt.Sprintf("/api/groups/%d", id), `{"name":"Sales EMEA"}`, cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"name":"Sales EMEA"`)

	rec = a.json(http.MethodGet, fmt.Sprintf("/api/groups/%d/targets", id), "", cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 3, strings.Count(rec.Body.String(), `"email"`))

	assert.Equal(t, http.StatusNoContent, a.json(http.MethodDelete, fmt.Sprintf("/api/groups/%d", id), "", cookie).Code)
	assert.Equal(t, http.StatusNotFound, a.json(http.MethodGet, fmt.Sprintf("/api/groups/%d", id), "", cookie).Code)
}

func TestValidationErrorsCarryDetails(t *testing.T) {
	a := newTestAPI(t)
	cookie := a.register("Acme", "admin@acme.test")
	gid := a.create("/api/groups", `{"name":"Sales"}`, cookie)

	rec := a.json(http.MethodPost, fmt.Sprintf("/api/groups/%d/targets", gid), `{"firstName":"NoEmail"}`, cookie)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), `"error":"Validation failed"`)
	assert.Contains(t, rec.Body.String(), `"field":"email"`)
	assert.Contains(t, rec.Body.String(), `"field":"lastName"`)

	rec = a.json(http.MethodPost, "/api/groups", `{not json`, cookie)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestOwnershipIsEnforced(t *testing.T) {
	a := newTestAPI(t)
	owner := a.register("Acme", "admin@acme.test")
	other := a.register("Globex", "admin@globex.test")
	f := a.seed(owner)

	paths := []string{
		fmt.Sprintf("/api/groups/%d", f.group),
		fmt.Sprintf("/api/groups/%d/targets", f.group),
		fmt.Sprintf("/api/smtp-profiles/%d", f.smtp),
		fmt.Sprintf("/api/email-templates/%d", f.template),
		fmt.Sprintf("/api/landing-pages/%d", f.page),
	}
	for _, p := range paths {
		rec := a.json(http.MethodGet, p, "", other)
		assert.Equal(t, http.StatusForbidden, rec.Code, p)
		assert.JSONEq(t, `{"error":"Access denied"}`, rec.Body.String(), p)
	}
	assert.Equal(t, http.StatusForbidden, a.json(http.MethodPut, fmt.Sprintf("/api/groups/%d", f.group), `{"name":"x"}`, other).Code)
	assert.Equal(t, http.StatusForbidden, a.json(http.MethodDelete, fmt.Sprintf("/api/groups/%d", f.group), "", other).Code)

	// Lists are scoped rather than forbidden.
	rec := a.json(http.MethodGet, "/api/groups", "", other)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())

	assert.Equal(t, http.StatusNotFound, a.json(http.MethodGet, "/api/groups/9999", "", owner).Code)
	assert.Equal(t, http.StatusNotFound, a.json(http.MethodGet, "/api/groups/abc", "", owner).Code)
}

func TestCampaignWithForeignReferencesIsRejected(t *testing.T) {
	a := newTestAPI(t)
	owner := a.register("Acme", "admin@acme.test")
	other := a.register("Globex", "admin@globex.test")
	f := a.seed(owner)

	rec := a.json(http.MethodPost, "/api/campaigns", campaignBody(f), other)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.JSONEq(t,
		`{"error":"Access denied","details":["group","SMTP profile","email template","landing page"]}`,
		rec.Body.String())

	rec = a.json(http.MethodGet, "/api/campaigns", "", other)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestCampaignLifecycle(t *testing.T) {
	a := newTestAPI(t)
	cookie := a.register("Acme", "admin@acme.test")
	f := a.seed(cookie)

	id := a.create("/api/campaigns", campaignBody(f), cookie)
	path := fmt.Sprintf("/api/campaigns/%d", id)

	rec := a.json(http.MethodGet, path, "", cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"Draft"`)

	// Referenced rows cannot be removed while the campaign exists.
	assert.Equal(t, http.StatusConflict, a.json(http.MethodDelete, fmt.Sprintf("/api/groups/%d", f.group), "", cookie).Code)
	assert.Equal(t, http.StatusConflict, a.json(http.MethodDelete, fmt.Sprintf("/api/smtp-profiles/%d", f.smtp), "", cookie).Code)

	rec = a.json(http.MethodPost, path+"/launch", "", cookie)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"status":"Active"`)

	rec = a.json(http.MethodPost, path+"/launch", "", cookie)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = a.json(http.MethodGet, path+"/results", "", cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	var results struct {
		Summary struct {
			Total int `json:"total"`
		} `json:"summary"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &results))
	assert.Equal(t, 2, results.Summary.Total)

	rec = a.json(http.MethodGet, "/api/dashboard/stats", "", cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"activeCampaigns":1`)
	assert.Contains(t, rec.Body.String(), `"totalUsers":1`)

	rec = a.json(http.MethodPost, path+"/complete", "", cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"Completed"`)

	assert.Equal(t, http.StatusNoContent, a.json(http.MethodDelete, path, "", cookie).Code)
	assert.Equal(t, http.StatusNoContent, a.json(http.MethodDelete, fmt.Sprintf("/api/groups/%d", f.group), "", cookie).Code)
}

func TestEmailTemplateSyntaxAndPreview(t *testing.T) {
	a := newTestAPI(t)
	cookie := a.register("Acme", "admin@acme.test")
	f := a.seed(cookie)

	rec := a.json(http.MethodPost, "/api/email-templates",
		`{"name":"Bad","subject":"{% if first_name %}","htmlContent":"<p></p>","senderName":"IT","senderEmail":"it@corp.test"}`, cookie)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), `"field":"subject"`)

	rec = a.json(http.MethodPost, fmt.Sprintf("/api/email-templates/%d/preview", f.template), "", cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"subject":"Hi Jane"`)

	rec = a.json(http.MethodPut, fmt.Sprintf("/api/email-templates/%d", f.template), `{"subject":"Hello {{ first_name | upcase }}"}`, cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"subject":"Hello {{ first_name | upcase }}"`)
}

func TestImportTargets(t *testing.T) {
	a := newTestAPI(t)
	cookie := a.register("Acme", "admin@acme.test")
	gid := a.create("/api/groups", `{"name":"Imported"}`, cookie)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", "targets.csv")
	require.NoError(t, err)
	_, err = fw.Write([]byte("email,firstName,lastName\na@x.com,A,X\n,B,\n"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	rec := a.do(http.MethodPost, fmt.Sprintf("/api/groups/%d/import", gid), &buf, mw.FormDataContentType(), cookie)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var res struct {
		Imported int `json:"imported"`
		Failed   int `json:"failed"`
		Errors   []struct {
			Row   int    `json:"row"`
			Error string `json:"error"`
		} `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, 1, res.Imported)
	assert.Equal(t, 1, res.Failed)
	require.Len(t, res.Errors, 1)
	assert.Equal(t, 3, res.Errors[0].Row)
	assert.Contains(t, res.Errors[0].Error, "email")

	rec = a.do(http.MethodPost, fmt.Sprintf("/api/groups/%d/import", gid), strings.NewReader("x"), "text/csv", cookie)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUsersAndDashboardFixtures(t *testing.T) {
	a := newTestAPI(t)
	cookie := a.register("Acme", "admin@acme.test")
	a.register("Globex", "admin@globex.test")

	rec := a.json(http.MethodGet, "/api/users", "", cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, strings.Count(rec.Body.String(), `"email"`))
	assert.NotContains(t, rec.Body.String(), "password")

	for _, p := range []string{"metrics", "threats", "risk-users", "training"} {
		rec := a.json(http.MethodGet, "/api/dashboard/"+p, "", cookie)
		assert.Equal(t, http.StatusOK, rec.Code, p)
		assert.True(t, strings.HasPrefix(rec.Body.String(), "["), p)
	}
}

func TestHealth(t *testing.T) {
	a := newTestAPI(t)
	rec := a.json(http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"healthy"`)

	rec = a.json(http.MethodGet, "/health/ready", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}
