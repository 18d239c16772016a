package middleware

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	authz "github.com/yigit/classqa/internal/app/auth"
	"github.com/yigit/classqa/internal/app/models"
	"github.com/yigit/classqa/internal/app/models/dto"
	"github.com/yigit/classqa/internal/pkg/apperrors"
	"github.com/yigit/classqa/internal/pkg/auth"
	"github.com/yigit/classqa/internal/pkg/validation"
)

func init() {
	gin.SetMode(gin.TestMode)
	validation.RegisterCustomValidations()
}

func newJWT(exp time.Duration) *auth.JWTService {
	return auth.NewJWTService(auth.JWTConfig{SecretKey: "mw-secret", AccessTokenExp: exp, TokenIssuer: "test"})
}

func protectedRouter(jwt *auth.JWTService) *gin.Engine {
	r := gin.New()
	mw := NewAuthMiddleware(jwt, zerolog.Nop())
	r.GET("/me", mw.JWTAuth(), func(c *gin.Context) {
		p, err := GetPrincipal(c)
		if err != nil {
			HandleAPIError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"id": p.ID, "role": p.Role})
	})
	return r
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) dto.ErrorResponse {
	t.Helper()
	var body dto.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestJWTAuth(t *testing.T) {
	jwt := newJWT(time.Hour)
	router := protectedRouter(jwt)
	token, err := jwt.GenerateToken(auth.Identity{ID: 7, Email: "s@b.c", Role: "STUDENT"})
	require.NoError(t, err)

	other := auth.NewJWTService(auth.JWTConfig{SecretKey: "other", AccessTokenExp: time.Hour})
	forged, err := other.GenerateToken(auth.Identity{ID: 7, Email: "s@b.c", Role: "TEACHER"})
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		query  string
		status int
		code   dto.ErrorCode
	}{
		{"missing token", "", "", http.StatusUnauthorized, dto.ErrorCodeUnauthorized},
		{"empty bearer", "Bearer ", "", http.StatusUnauthorized, dto.ErrorCodeUnauthorized},
		{"bare scheme", "Bearer", "", http.StatusUnauthorized, dto.ErrorCodeUnauthorized},
		{"wrong scheme", "Basic abc", "", http.StatusForbidden, dto.ErrorCodeInvalidToken},
		{"garbage token", "Bearer not.a.jwt", "", http.StatusForbidden, dto.ErrorCodeInvalidToken},
		{"foreign signature", "Bearer " + forged, "", http.StatusForbidden, dto.ErrorCodeInvalidToken},
		{"valid header", "Bearer " + token, "", http.StatusOK, ""},
		{"valid query", "", "?token=" + token, http.StatusOK, ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me"+tc.query, nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tc.status, w.Code)
			if tc.code != "" {
				assert.Equal(t, tc.code, decodeError(t, w).Code)
				return
			}
			assert.JSONEq(t, `{"id":7,"role":"STUDENT"}`, w.Body.String())
		})
	}
}

func TestJWTAuthExpiredToken(t *testing.T) {
	jwt := newJWT(time.Millisecond)
	token, err := jwt.GenerateToken(auth.Identity{ID: 1, Email: "t@b.c", Role: "TEACHER"})
	require.NoError(t, err)
	time.Sleep(1100 * time.Millisecond)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	protectedRouter(jwt).ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, dto.ErrorCodeExpiredToken, decodeError(t, w).Code)
}

func TestGetPrincipalWithoutAuth(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	_, err := GetPrincipal(c)
	assert.ErrorIs(t, err, apperrors.ErrUnauthenticated)

	c.Set(ContextUserID, int64(3))
	c.Set(ContextRole, "TEACHER")
	p, err := GetPrincipal(c)
	require.NoError(t, err)
	assert.Equal(t, authz.Principal{ID: 3, Role: models.RoleTeacher}, p)
}

func TestHandleAPIError(t *testing.T) {
	tests := []struct {
		err     error
		status  int
		code    dto.ErrorCode
		message string
	}{
		{apperrors.NewValidationError("title is required"), 400, dto.ErrorCodeValidationFailed, "title is required"},
		{apperrors.ErrFileTooLarge, 400, dto.ErrorCodeBadRequest, "file exceeds the maximum upload size"},
		{apperrors.ErrInvalidCredentials, 401, dto.ErrorCodeInvalidCredentials, "invalid email or password"},
		{authz.ErrNotTeacher, 403, dto.ErrorCodeForbidden, "only teachers can perform this action"},
		{fmt.Errorf("load: %w", apperrors.ErrQuestionNotFound), 404, dto.ErrorCodeResourceNotFound, "question not found"},
		{apperrors.NewCustomError(apperrors.ErrEmailAlreadyExists, "email is already registered"), 409, dto.ErrorCodeResourceAlreadyExists, "email is already registered"},
		{apperrors.NewConflictError("image is already attached"), 409, dto.ErrorCodeConflict, "image is already attached"},
		{errors.New("pq: connection reset"), 500, dto.ErrorCodeInternalServer, "internal server error"},
	}
	for _, tc := range tests {
		t.Run(string(tc.code), func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/x", nil)

			HandleAPIError(c, tc.err)

			assert.Equal(t, tc.status, w.Code)
			body := decodeError(t, w)
			assert.Equal(t, tc.code, body.Code)
			assert.Equal(t, tc.message, body.Error)
		})
	}
}

func TestBindJSON(t *testing.T) {
	r := gin.New()
	r.POST("/lectures", func(c *gin.Context) {
		var req dto.CreateLectureRequest
		if !BindJSON(c, &req) {
			return
		}
		c.JSON(http.StatusCreated, gin.H{"name": req.Name})
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/lectures", jsonBody(`{}`)))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, dto.ErrorCodeValidationFailed, decodeError(t, w).Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/lectures", jsonBody(`{"name":"Algorithms"}`)))
	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestCORS(t *testing.T) {
	r := gin.New()
	r.Use(CORS([]string{"http://localhost:5173"}))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodOptions, "/x", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:5173", w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Origin", "http://evil.example")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestRecovery(t *testing.T) {
	r := gin.New()
	r.Use(Recovery(zerolog.Nop()))
	r.GET("/boom", func(c *gin.Context) { panic("boom") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, dto.ErrorCodeInternalServer, decodeError(t, w).Code)
}

func jsonBody(s string) *strings.Reader {
	return strings.NewReader(s)
}
