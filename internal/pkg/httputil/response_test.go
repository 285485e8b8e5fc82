package httputil

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ignite/phishsim/internal/domain"
	"github.com/ignite/phishsim/internal/pkg/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInternalError_DoesNotLeak(t *testing.T) {
	rec := httptest.NewRecorder()
	InternalError(rec, errors.New("pq: relation \"users\" does not exist"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"internal server error"}`, rec.Body.String())
}

func TestValidationFailed_CarriesDetails(t *testing.T) {
	rec := httptest.NewRecorder()
	ValidationFailed(rec, []map[string]string{{"field": "name", "message": "is required"}})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), `"details":[{"field":"name","message":"is required"}]`)
	assert.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))
}

func TestDecode_RejectsMalformedJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("{nope"))

	var dst map[string]any
	require.False(t, Decode(rec, req, &dst))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestNoContent(t *testing.T) {
	rec := httptest.NewRecorder()
	NoContent(rec)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())
}

func TestFromError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		body   string
	}{
		{"validation", validation.Field("name", "is required"), http.StatusBadRequest, `"code":"validation_error"`},
		{"not found", fmt.Errorf("get group: %w", domain.ErrNotFound), http.StatusNotFound, `"error":"Not found"`},
		{"access denied", &domain.AccessDeniedError{Refs: []string{"group"}}, http.StatusForbidden, `"details":["group"]`},
		{"wrapped access denied", fmt.Errorf("create: %w", &domain.AccessDeniedError{Refs: []string{"landing page"}}), http.StatusForbidden, `"details":["landing page"]`},
		{"bare access denied", domain.ErrAccessDenied, http.StatusForbidden, `{"error":"Access denied"}`},
		{"in use", domain.ErrInUse, http.StatusConflict, `"error":"Resource is referenced by a campaign"`},
		{"duplicate", domain.ErrDuplicate, http.StatusConflict, `"error":"Resource already exists"`},
		{"invalid state", domain.ErrInvalidState, http.StatusConflict, `"error":"invalid status transition"`},
		{"other", errors.New("dial tcp: refused"), http.StatusInternalServerError, `"error":"internal server error"`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			FromError(rec, tc.err)
			assert.Equal(t, tc.status, rec.Code)
			assert.Contains(t, rec.Body.String(), tc.body)
		})
	}
}
