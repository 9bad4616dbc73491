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

	"wildlife-catalog-backend/internal/domains/ecosystem/service"
	"wildlife-catalog-backend/internal/infrastructure/cache"
	"wildlife-catalog-backend/internal/infrastructure/memstore"
	"wildlife-catalog-backend/internal/shared/middleware"
	"wildlife-catalog-backend/pkg/jwt"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string            `json:"code"`
		Details map[string]string `json:"details"`
	} `json:"error"`
}

type ecosystemJSON struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Slug    string `json:"slug"`
	Species []struct {
		Name string `json:"name"`
	} `json:"species"`
}

type testServer struct {
	router *gin.Engine
	user   string
	admin  string
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := memstore.New()
	svc := service.NewEcosystemService(store.Ecosystems(), store.Species(), cache.NewMemoryCache(), nil)
	h := NewEcosystemHandler(svc)
	tokens := jwt.NewManager("test-secret", time.Hour)

	router := gin.New()
	router.Use(middleware.Identity(tokens))
	router.GET("/ecosystems", h.ListEcosystems)
	router.GET("/ecosystems/:slug", h.GetEcosystem)
	admin := router.Group("/admin", middleware.RequireAdmin())
	admin.POST("/ecosystems", h.CreateEcosystem)
	admin.PATCH("/ecosystems/:id", h.UpdateEcosystem)
	admin.DELETE("/ecosystems/:id", h.DeleteEcosystem)

	user, err := tokens.GenerateToken(uuid.NewString(), "user")
	require.NoError(t, err)
	adminTok, err := tokens.GenerateToken(uuid.NewString(), jwt.RoleAdmin)
	require.NoError(t, err)

	return &testServer{router: router, user: user, admin: adminTok}
}

func (s *testServer) do(t *testing.T, method, path, token, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewReader([]byte(body)))
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

func TestEcosystemLifecycle(t *testing.T) {
	s := newTestServer(t)

	// Step 1: Only admins create
	w, _ := s.do(t, http.MethodPost, "/admin/ecosystems", s.user, `{"name":"Mangrove","description":"Salty"}`)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, env := s.do(t, http.MethodPost, "/admin/ecosystems", s.admin,
		`{"name":"Mangrove Swamp","description":"Salty","characteristics":["tidal"]}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created ecosystemJSON
	require.NoError(t, json.Unmarshal(env.Data, &created))
	assert.Equal(t, "mangrove-swamp", created.Slug)

	// Step 2: Public read by slug embeds species
	w, env = s.do(t, http.MethodGet, "/ecosystems/mangrove-swamp", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	var detail ecosystemJSON
	require.NoError(t, json.Unmarshal(env.Data, &detail))
	assert.Equal(t, "Mangrove Swamp", detail.Name)
	assert.NotNil(t, detail.Species)

	// Step 3: Slug is read-only
	w, env = s.do(t, http.MethodPatch, "/admin/ecosystems/"+created.ID, s.admin, `{"slug":"other"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, env.Error.Details, "slug")

	w, env = s.do(t, http.MethodPatch, "/admin/ecosystems/"+created.ID, s.admin, `{"name":"Mangrove Forest"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, string(env.Data), `"slug":"mangrove-swamp"`)

	// Step 4: Delete, then the slug is gone
	w, _ = s.do(t, http.MethodDelete, "/admin/ecosystems/"+created.ID, s.admin, "")
	require.Equal(t, http.StatusOK, w.Code)
	w, _ = s.do(t, http.MethodGet, "/ecosystems/mangrove-swamp", "", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestEcosystemAnonymousAdminRoutes(t *testing.T) {
	s := newTestServer(t)

	w, _ := s.do(t, http.MethodDelete, "/admin/ecosystems/"+uuid.NewString(), "", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, _ = s.do(t, http.MethodDelete, "/admin/ecosystems/not-an-id", s.admin, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
