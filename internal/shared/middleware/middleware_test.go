package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wildlife-catalog-backend/pkg/jwt"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(router *gin.Engine, method, path string, header http.Header) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	for k, v := range header {
		req.Header[k] = v
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func bearer(t *testing.T, m *jwt.Manager, userID, role string) http.Header {
	t.Helper()
	tok, err := m.GenerateToken(userID, role)
	require.NoError(t, err)
	return http.Header{"Authorization": {"Bearer " + tok}}
}

func TestIdentity(t *testing.T) {
	tokens := jwt.NewManager("secret", time.Hour)
	router := gin.New()
	router.Use(Identity(tokens))
	router.GET("/whoami", func(c *gin.Context) {
		caller := CallerFrom(c)
		if caller == nil {
			c.String(http.StatusOK, "anonymous")
			return
		}
		if caller.IsAdmin {
			c.String(http.StatusOK, "admin:"+caller.ID.String())
			return
		}
		c.String(http.StatusOK, caller.ID.String())
	})

	userID := uuid.New()

	t.Run("no header is anonymous", func(t *testing.T) {
		w := serve(router, http.MethodGet, "/whoami", nil)
		assert.Equal(t, "anonymous", w.Body.String())
	})

	t.Run("valid token", func(t *testing.T) {
		w := serve(router, http.MethodGet, "/whoami", bearer(t, tokens, userID.String(), "user"))
		assert.Equal(t, userID.String(), w.Body.String())
	})

	t.Run("admin role", func(t *testing.T) {
		w := serve(router, http.MethodGet, "/whoami", bearer(t, tokens, userID.String(), jwt.RoleAdmin))
		assert.Equal(t, "admin:"+userID.String(), w.Body.String())
	})

	t.Run("malformed header", func(t *testing.T) {
		w := serve(router, http.MethodGet, "/whoami", http.Header{"Authorization": {"Token abc"}})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("bad signature", func(t *testing.T) {
		other := jwt.NewManager("other", time.Hour)
		w := serve(router, http.MethodGet, "/whoami", bearer(t, other, userID.String(), "user"))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("user_id is not a UUID", func(t *testing.T) {
		w := serve(router, http.MethodGet, "/whoami", bearer(t, tokens, "42", "user"))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestRequireCallerAndAdmin(t *testing.T) {
	tokens := jwt.NewManager("secret", time.Hour)
	router := gin.New()
	router.Use(Identity(tokens))
	router.GET("/me", RequireCaller(), func(c *gin.Context) { c.Status(http.StatusNoContent) })
	router.GET("/admin", RequireAdmin(), func(c *gin.Context) { c.Status(http.StatusNoContent) })

	user := bearer(t, tokens, uuid.NewString(), "user")
	admin := bearer(t, tokens, uuid.NewString(), jwt.RoleAdmin)

	assert.Equal(t, http.StatusUnauthorized, serve(router, http.MethodGet, "/me", nil).Code)
	assert.Equal(t, http.StatusNoContent, serve(router, http.MethodGet, "/me", user).Code)

	assert.Equal(t, http.StatusUnauthorized, serve(router, http.MethodGet, "/admin", nil).Code)
	assert.Equal(t, http.StatusForbidden, serve(router, http.MethodGet, "/admin", user).Code)
	assert.Equal(t, http.StatusNoContent, serve(router, http.MethodGet, "/admin", admin).Code)
}

func TestRequestID(t *testing.T) {
	router := gin.New()
	router.Use(RequestID())
	router.GET("/", func(c *gin.Context) { c.String(http.StatusOK, c.GetString("request_id")) })

	w := serve(router, http.MethodGet, "/", nil)
	generated := w.Header().Get(RequestIDHeader)
	_, err := uuid.Parse(generated)
	assert.NoError(t, err)
	assert.Equal(t, generated, w.Body.String())

	w = serve(router, http.MethodGet, "/", http.Header{RequestIDHeader: {"trace-123"}})
	assert.Equal(t, "trace-123", w.Header().Get(RequestIDHeader))
}

func TestRecovery(t *testing.T) {
	router := gin.New()
	router.Use(Recovery())
	router.GET("/boom", func(c *gin.Context) { panic("boom") })

	w := serve(router, http.MethodGet, "/boom", nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"success":false,"error":{"code":"SYS_001","message":"Internal server error"}}`, w.Body.String())
}

func TestClientIP(t *testing.T) {
	router := gin.New()
	router.Use(ClientIP())
	router.GET("/", func(c *gin.Context) { c.String(http.StatusOK, ClientIPFrom(c)) })

	w := serve(router, http.MethodGet, "/", http.Header{"X-Forwarded-For": {"203.0.113.7, 10.0.0.1"}})
	assert.Equal(t, "203.0.113.7", w.Body.String())
}

func TestCORS(t *testing.T) {
	router := gin.New()
	router.Use(CORS([]string{"https://wildlife.example"}))
	router.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := serve(router, http.MethodGet, "/", http.Header{"Origin": {"https://wildlife.example"}})
	assert.Equal(t, "https://wildlife.example", w.Header().Get("Access-Control-Allow-Origin"))

	w = serve(router, http.MethodGet, "/", http.Header{"Origin": {"https://evil.example"}})
	assert.Equal(t, http.StatusForbidden, w.Code)
}
