package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wildlife-catalog-backend/internal/domains/contribution/service"
	"wildlife-catalog-backend/internal/infrastructure/memstore"
	"wildlife-catalog-backend/internal/shared/middleware"
	"wildlife-catalog-backend/pkg/jwt"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string            `json:"code"`
		Message string            `json:"message"`
		Details map[string]string `json:"details"`
	} `json:"error"`
	Meta *struct {
		Total int `json:"total"`
	} `json:"meta"`
}

type testServer struct {
	router *gin.Engine
	tokens *jwt.Manager
	owner  string
	other  string
	admin  string
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := memstore.New()
	h := NewContributionHandler(service.NewContributionService(store.Contributions(), nil))
	tokens := jwt.NewManager("test-secret", time.Hour)

	router := gin.New()
	router.Use(middleware.Identity(tokens))
	authed := router.Group("", middleware.RequireCaller())
	authed.POST("/contributions", h.CreateContribution)
	authed.GET("/contributions", h.ListContributions)
	authed.GET("/my-contributions", h.ListMyContributions)
	authed.GET("/contributions/:id", h.GetContribution)
	authed.PATCH("/contributions/:id", h.UpdateContribution)
	authed.DELETE("/contributions/:id", h.DeleteContribution)
	// Admin gate left to the service so the policy answer is observable
	authed.PATCH("/admin/contributions/:id/approve", h.ApproveContribution)
	authed.PATCH("/admin/contributions/:id/reject", h.RejectContribution)

	s := &testServer{router: router, tokens: tokens}
	s.owner = s.token(t, uuid.NewString(), "user")
	s.other = s.token(t, uuid.NewString(), "user")
	s.admin = s.token(t, uuid.NewString(), jwt.RoleAdmin)
	return s
}

func (s *testServer) token(t *testing.T, userID, role string) string {
	t.Helper()
	tok, err := s.tokens.GenerateToken(userID, role)
	require.NoError(t, err)
	return tok
}

func (s *testServer) do(t *testing.T, method, path, token, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var reader *bytes.Reader
	if body != "" {
		reader = bytes.NewReader([]byte(body))
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return w, env
}

func (s *testServer) create(t *testing.T, token string) string {
	t.Helper()
	w, env := s.do(t, http.MethodPost, "/contributions", token,
		`{"title":"Toucan nest","description":"Two chicks","kind":"observation","payload":{"count":2}}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &created))
	assert.Equal(t, "pending", created.Status)
	return created.ID
}

func TestCreateContribution(t *testing.T) {
	s := newTestServer(t)

	t.Run("anonymous is rejected", func(t *testing.T) {
		w, env := s.do(t, http.MethodPost, "/contributions", "", `{"title":"x"}`)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.False(t, env.Success)
	})

	t.Run("invalid token is rejected", func(t *testing.T) {
		w, _ := s.do(t, http.MethodPost, "/contributions", "not-a-jwt", `{"title":"x"}`)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("validation errors carry field details", func(t *testing.T) {
		w, env := s.do(t, http.MethodPost, "/contributions", s.owner, `{"title":"","kind":"gossip"}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		require.NotNil(t, env.Error)
		assert.Contains(t, env.Error.Details, "title")
		assert.Contains(t, env.Error.Details, "kind")
	})

	t.Run("created pending", func(t *testing.T) {
		s.create(t, s.owner)
	})
}

func TestUpdateContributionRejectsProtectedFields(t *testing.T) {
	s := newTestServer(t)
	id := s.create(t, s.owner)

	w, env := s.do(t, http.MethodPatch, "/contributions/"+id, s.owner, `{"status":"approved"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	require.NotNil(t, env.Error)
	assert.Contains(t, env.Error.Details, "status")

	w, env = s.do(t, http.MethodPatch, "/contributions/"+id, s.owner, `{"title":"Toucan nest, revisited"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, string(env.Data), "revisited")
	assert.Contains(t, string(env.Data), `"status":"pending"`)
}

func TestContributionVisibility(t *testing.T) {
	s := newTestServer(t)
	id := s.create(t, s.owner)
	s.create(t, s.other)

	w, _ := s.do(t, http.MethodGet, "/contributions/"+id, s.other, "")
	assert.Equal(t, http.StatusForbidden, w.Code)

	_, env := s.do(t, http.MethodGet, "/contributions", s.owner, "")
	require.NotNil(t, env.Meta)
	assert.Equal(t, 1, env.Meta.Total)

	_, env = s.do(t, http.MethodGet, "/contributions", s.admin, "")
	assert.Equal(t, 2, env.Meta.Total)

	_, env = s.do(t, http.MethodGet, "/my-contributions", s.admin, "")
	assert.Equal(t, 0, env.Meta.Total)

	w, _ = s.do(t, http.MethodGet, "/contributions?owner_id=nope", s.admin, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = s.do(t, http.MethodGet, "/contributions/not-a-uuid", s.owner, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestModeration(t *testing.T) {
	s := newTestServer(t)
	id := s.create(t, s.owner)

	w, _ := s.do(t, http.MethodPatch, "/admin/contributions/"+id+"/approve", s.owner, "")
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, env := s.do(t, http.MethodPatch, "/admin/contributions/"+id+"/reject", s.admin, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, string(env.Data), `"status":"rejected"`)

	w, env = s.do(t, http.MethodPatch, "/admin/contributions/"+id+"/approve", s.admin, "")
	assert.Equal(t, http.StatusConflict, w.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "CON002", env.Error.Code)

	// Owners cannot edit or delete once moderated
	w, _ = s.do(t, http.MethodPatch, "/contributions/"+id, s.owner, `{"title":"again"}`)
	assert.Equal(t, http.StatusForbidden, w.Code)
	w, _ = s.do(t, http.MethodDelete, "/contributions/"+id, s.owner, "")
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRejectWithNotes(t *testing.T) {
	s := newTestServer(t)
	id := s.create(t, s.owner)

	w, env := s.do(t, http.MethodPatch, "/admin/contributions/"+id+"/reject", s.admin, `{"admin_notes":"Blurry photo"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, string(env.Data), "Blurry photo")
}
