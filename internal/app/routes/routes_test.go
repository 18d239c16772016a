package routes

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/classqa/internal/app/controllers"
	"github.com/yigit/classqa/internal/middleware"
	"github.com/yigit/classqa/internal/pkg/auth"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	jwt := auth.NewJWTService(auth.JWTConfig{SecretKey: "routes-secret", AccessTokenExp: time.Hour, TokenIssuer: "test"})

	// Only the middleware chain is exercised, so services stay nil.
	c := Controllers{
		Auth:     controllers.NewAuthController(nil, zerolog.Nop()),
		Lecture:  controllers.NewLectureController(nil, zerolog.Nop()),
		Tag:      controllers.NewTagController(nil, zerolog.Nop()),
		Question: controllers.NewQuestionController(nil, nil, zerolog.Nop()),
		Upload:   controllers.NewUploadController(nil, 0, zerolog.Nop()),
	}

	r := gin.New()
	require.NotPanics(t, func() {
		SetupRouter(r, c, middleware.NewAuthMiddleware(jwt, zerolog.Nop()))
	})
	return r
}

func TestRouteTable(t *testing.T) {
	r := newTestRouter(t)

	registered := map[string]bool{}
	for _, route := range r.Routes() {
		registered[route.Method+" "+route.Path] = true
	}
	for _, want := range []string{
		"GET /api/health",
		"POST /api/auth/register",
		"POST /api/auth/login",
		"GET /api/auth/me",
		"PUT /api/auth/profile",
		"GET /api/lectures",
		"POST /api/lectures",
		"GET /api/lectures/:id",
		"DELETE /api/lectures/:id",
		"GET /api/lectures/:id/tags",
		"POST /api/lectures/:id/tags",
		"DELETE /api/lectures/:id/tags/:tagId",
		"GET /api/questions",
		"POST /api/questions",
		"GET /api/questions/:id",
		"DELETE /api/questions/:id",
		"PUT /api/questions/:id/resolve",
		"PUT /api/questions/:id/unresolve",
		"PUT /api/questions/:id/tags",
		"POST /api/questions/:id/answers",
		"POST /api/uploads",
		"DELETE /api/uploads/:filename",
	} {
		assert.True(t, registered[want], want)
	}
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	r := newTestRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	for _, path := range []string{"/api/lectures", "/api/questions", "/api/auth/me", "/api/lectures/1/tags"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code, path)
	}

	w = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/questions", nil)
	req.Header.Set("Authorization", "Bearer forged.token.value")
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
}
