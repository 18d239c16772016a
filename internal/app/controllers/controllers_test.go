package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	authz "github.com/yigit/classqa/internal/app/auth"
	"github.com/yigit/classqa/internal/app/models"
	"github.com/yigit/classqa/internal/app/models/dto"
	"github.com/yigit/classqa/internal/middleware"
	"github.com/yigit/classqa/internal/pkg/apperrors"
	"github.com/yigit/classqa/internal/pkg/validation"
)

func init() {
	gin.SetMode(gin.TestMode)
	validation.RegisterCustomValidations()
}

var (
	teacher = authz.Principal{ID: 1, Email: "t@example.com", Role: models.RoleTeacher}
	student = authz.Principal{ID: 2, Email: "s@example.com", Role: models.RoleStudent}
)

// as stands in for JWTAuth
func as(p authz.Principal) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.ContextUserID, p.ID)
		c.Set(middleware.ContextEmail, p.Email)
		c.Set(middleware.ContextRole, string(p.Role))
		c.Next()
	}
}

func do(t *testing.T, r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v), w.Body.String())
}

// --- fakes ---

type fakeAuthService struct {
	registered *dto.RegisterRequest
	meID       int64
}

func (f *fakeAuthService) Register(_ context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error) {
	f.registered = req
	return &dto.AuthResponse{User: dto.UserResponse{ID: 9, Email: req.Email, Name: req.Name, Role: "STUDENT"}, Token: "tok"}, nil
}

func (f *fakeAuthService) Login(_ context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	if req.Password != "right" {
		return nil, apperrors.ErrInvalidCredentials
	}
	return &dto.AuthResponse{Token: "tok"}, nil
}

func (f *fakeAuthService) GetCurrentUser(_ context.Context, userID int64) (*dto.UserResponse, error) {
	f.meID = userID
	return &dto.UserResponse{ID: userID, Role: "STUDENT"}, nil
}

func (f *fakeAuthService) UpdateProfile(_ context.Context, userID int64, _ *dto.UpdateProfileRequest) (*dto.UserResponse, error) {
	if userID == teacher.ID {
		return nil, apperrors.NewForbiddenError("only students have display settings")
	}
	return &dto.UserResponse{ID: userID}, nil
}

type fakeTagService struct {
	existing map[string]bool
}

func (f *fakeTagService) ListTags(_ context.Context, lectureID int64) ([]dto.TagResponse, error) {
	return []dto.TagResponse{{ID: 1, Name: "graphs", LectureID: lectureID}}, nil
}

func (f *fakeTagService) GetOrCreateTag(_ context.Context, lectureID int64, req *dto.CreateTagRequest) (*dto.TagResponse, bool, error) {
	if lectureID == 404 {
		return nil, false, apperrors.ErrLectureNotFound
	}
	created := !f.existing[req.Name]
	f.existing[req.Name] = true
	return &dto.TagResponse{ID: 3, Name: req.Name, LectureID: lectureID}, created, nil
}

func (f *fakeTagService) DeleteTag(context.Context, int64, int64) error { return nil }

type fakeQuestionService struct {
	filter   models.QuestionFilter
	resolved *bool
}

func (f *fakeQuestionService) ListQuestions(_ context.Context, _ authz.Principal, filter models.QuestionFilter) (*dto.QuestionListResponse, error) {
	f.filter = filter
	return &dto.QuestionListResponse{Questions: []dto.QuestionResponse{}}, nil
}

func (f *fakeQuestionService) GetQuestion(_ context.Context, _ authz.Principal, id int64) (*dto.QuestionResponse, error) {
	if id == 404 {
		return nil, apperrors.ErrQuestionNotFound
	}
	return &dto.QuestionResponse{ID: id}, nil
}

func (f *fakeQuestionService) CreateQuestion(_ context.Context, viewer authz.Principal, req *dto.CreateQuestionRequest) (*dto.QuestionResponse, error) {
	return &dto.QuestionResponse{ID: 5, Title: req.Title, AuthorID: viewer.ID, LectureID: req.LectureID}, nil
}

func (f *fakeQuestionService) SetResolved(_ context.Context, viewer authz.Principal, id int64, resolved bool) (*dto.QuestionResponse, error) {
	if viewer.ID != teacher.ID {
		return nil, apperrors.NewForbiddenError("only teachers or the author can change resolution")
	}
	f.resolved = &resolved
	return &dto.QuestionResponse{ID: id, Resolved: resolved}, nil
}

func (f *fakeQuestionService) UpdateTags(_ context.Context, _ authz.Principal, id int64, req *dto.UpdateQuestionTagsRequest) (*dto.QuestionResponse, error) {
	tags := make([]dto.TagResponse, 0, len(req.TagIDs))
	for _, tagID := range req.TagIDs {
		tags = append(tags, dto.TagResponse{ID: tagID})
	}
	return &dto.QuestionResponse{ID: id, Tags: tags}, nil
}

func (f *fakeQuestionService) DeleteQuestion(context.Context, authz.Principal, int64) error {
	return nil
}

type fakeAnswerService struct{}

func (fakeAnswerService) AddAnswer(_ context.Context, viewer authz.Principal, questionID int64, req *dto.CreateAnswerRequest) (*dto.AnswerResponse, error) {
	return &dto.AnswerResponse{ID: 8, QuestionID: questionID, AuthorID: viewer.ID, Content: req.Content}, nil
}

type fakeUploadService struct {
	sawFile bool
}

func (f *fakeUploadService) UploadImage(_ context.Context, file *multipart.FileHeader) (*dto.UploadedImage, error) {
	f.sawFile = true
	return &dto.UploadedImage{Filename: "abc.png", Path: "/uploads/abc.png", OriginalName: file.Filename}, nil
}

func (f *fakeUploadService) DeleteImage(_ context.Context, filename string) error {
	if filename != "abc.png" {
		return apperrors.ErrImageNotFound
	}
	return nil
}

// --- tests ---

func TestHealthCheck(t *testing.T) {
	r := gin.New()
	r.GET("/api/health", HealthCheck)

	w := do(t, r, http.MethodGet, "/api/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestAuthControllerRegisterAndLogin(t *testing.T) {
	svc := &fakeAuthService{}
	c := NewAuthController(svc, zerolog.Nop())
	r := gin.New()
	r.POST("/register", c.Register)
	r.POST("/login", c.Login)

	w := do(t, r, http.MethodPost, "/register", `{"email":"a@example.com","password":"secret123","name":"Aoi"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	var auth dto.AuthResponse
	decode(t, w, &auth)
	assert.Equal(t, "tok", auth.Token)
	assert.Equal(t, "Aoi", svc.registered.Name)

	w = do(t, r, http.MethodPost, "/register", `{"email":"a@example.com","name":"Aoi"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, r, http.MethodPost, "/login", `{"email":"a@example.com","password":"wrong"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	var errBody dto.ErrorResponse
	decode(t, w, &errBody)
	assert.Equal(t, "invalid email or password", errBody.Error)
}

func TestAuthControllerRegisterOnlyRequiresFields(t *testing.T) {
	svc := &fakeAuthService{}
	c := NewAuthController(svc, zerolog.Nop())
	r := gin.New()
	r.POST("/register", c.Register)

	w := do(t, r, http.MethodPost, "/register", `{"email":"aoi","password":"abc","name":"Aoi"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, "aoi", svc.registered.Email)
	assert.Equal(t, "abc", svc.registered.Password)

	for _, body := range []string{
		`{"password":"abc","name":"Aoi"}`,
		`{"email":"   ","password":"abc","name":"Aoi"}`,
		`{"email":"aoi","password":"","name":"Aoi"}`,
		`{"email":"aoi","password":"abc","name":"  "}`,
	} {
		w = do(t, r, http.MethodPost, "/register", body)
		assert.Equal(t, http.StatusBadRequest, w.Code, body)
	}
}

func TestAuthControllerMeAndProfile(t *testing.T) {
	svc := &fakeAuthService{}
	c := NewAuthController(svc, zerolog.Nop())
	r := gin.New()
	r.GET("/me", as(student), c.Me)
	r.PUT("/teacher/profile", as(teacher), c.UpdateProfile)
	r.GET("/anonymous/me", c.Me)

	w := do(t, r, http.MethodGet, "/me", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, student.ID, svc.meID)
	assert.Contains(t, w.Body.String(), `"user"`)

	w = do(t, r, http.MethodPut, "/teacher/profile", `{"nickname":"x"}`)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = do(t, r, http.MethodGet, "/anonymous/me", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestTagControllerCreateReportsCreation(t *testing.T) {
	c := NewTagController(&fakeTagService{existing: map[string]bool{}}, zerolog.Nop())
	r := gin.New()
	r.Use(as(student))
	r.GET("/lectures/:id/tags", c.ListTags)
	r.POST("/lectures/:id/tags", c.CreateTag)
	r.DELETE("/lectures/:id/tags/:tagId", c.DeleteTag)

	w := do(t, r, http.MethodPost, "/lectures/1/tags", `{"name":"dp"}`)
	assert.Equal(t, http.StatusCreated, w.Code)
	w = do(t, r, http.MethodPost, "/lectures/1/tags", `{"name":"dp"}`)
	assert.Equal(t, http.StatusOK, w.Code)
	var env dto.TagEnvelope
	decode(t, w, &env)
	assert.Equal(t, "dp", env.Tag.Name)

	w = do(t, r, http.MethodPost, "/lectures/404/tags", `{"name":"dp"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(t, r, http.MethodPost, "/lectures/1/tags", `{"name":"   "}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, r, http.MethodGet, "/lectures/1/tags", "")
	var list dto.TagListResponse
	decode(t, w, &list)
	assert.Len(t, list.Tags, 1)

	w = do(t, r, http.MethodDelete, "/lectures/1/tags/zero", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestQuestionControllerListParsesFilters(t *testing.T) {
	svc := &fakeQuestionService{}
	c := NewQuestionController(svc, fakeAnswerService{}, zerolog.Nop())
	r := gin.New()
	r.GET("/questions", as(student), c.ListQuestions)

	w := do(t, r, http.MethodGet, "/questions?lectureId=3&tags=1,2&resolved=true", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, svc.filter.LectureID)
	assert.Equal(t, int64(3), *svc.filter.LectureID)
	assert.Equal(t, []int64{1, 2}, svc.filter.TagIDs)
	require.NotNil(t, svc.filter.Resolved)
	assert.True(t, *svc.filter.Resolved)

	for _, query := range []string{"lectureId=abc", "tags=1,x", "resolved=perhaps"} {
		w := do(t, r, http.MethodGet, "/questions?"+query, "")
		assert.Equal(t, http.StatusBadRequest, w.Code, query)
	}
}

func TestQuestionControllerMutations(t *testing.T) {
	svc := &fakeQuestionService{}
	c := NewQuestionController(svc, fakeAnswerService{}, zerolog.Nop())
	r := gin.New()
	for _, g := range []struct {
		prefix string
		who    authz.Principal
	}{{"/t", teacher}, {"/s", student}} {
		grp := r.Group(g.prefix, as(g.who))
		grp.POST("/questions", c.CreateQuestion)
		grp.GET("/questions/:id", c.GetQuestion)
		grp.DELETE("/questions/:id", c.DeleteQuestion)
		grp.PUT("/questions/:id/resolve", c.ResolveQuestion)
		grp.PUT("/questions/:id/unresolve", c.UnresolveQuestion)
		grp.PUT("/questions/:id/tags", c.UpdateQuestionTags)
		grp.POST("/questions/:id/answers", c.AddAnswer)
	}

	w := do(t, r, http.MethodPost, "/s/questions", `{"title":"Why?","content":"Because.","lectureId":1}`)
	require.Equal(t, http.StatusCreated, w.Code)
	var created dto.QuestionEnvelope
	decode(t, w, &created)
	assert.Equal(t, student.ID, created.Question.AuthorID)

	w = do(t, r, http.MethodPost, "/s/questions", `{"title":"Why?","lectureId":1}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, r, http.MethodGet, "/s/questions/404", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	w = do(t, r, http.MethodGet, "/s/questions/nope", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, r, http.MethodPut, "/s/questions/5/resolve", "")
	assert.Equal(t, http.StatusForbidden, w.Code)
	w = do(t, r, http.MethodPut, "/t/questions/5/resolve", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, *svc.resolved)
	w = do(t, r, http.MethodPut, "/t/questions/5/unresolve", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.False(t, *svc.resolved)

	w = do(t, r, http.MethodPut, "/s/questions/5/tags", `{"tagIds":[4,6]}`)
	require.Equal(t, http.StatusOK, w.Code)
	var tagged dto.QuestionEnvelope
	decode(t, w, &tagged)
	assert.Len(t, tagged.Question.Tags, 2)

	w = do(t, r, http.MethodPost, "/t/questions/5/answers", `{"content":"See chapter 3"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	var answer dto.AnswerEnvelope
	decode(t, w, &answer)
	assert.Equal(t, int64(5), answer.Answer.QuestionID)

	w = do(t, r, http.MethodDelete, "/s/questions/5", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"question deleted"}`, w.Body.String())
}

func multipartRequest(t *testing.T, field, filename string, content []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/uploads", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestUploadController(t *testing.T) {
	svc := &fakeUploadService{}
	// 1 KiB file ceiling; the body limit adds the multipart allowance
	c := NewUploadController(svc, 1<<10, zerolog.Nop())
	r := gin.New()
	r.Use(as(student))
	r.POST("/uploads", c.UploadImage)
	r.DELETE("/uploads/:filename", c.DeleteImage)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, multipartRequest(t, "image", "diagram.png", []byte("png bytes")))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var resp dto.UploadResponse
	decode(t, w, &resp)
	assert.Equal(t, "diagram.png", resp.Image.OriginalName)
	assert.True(t, svc.sawFile)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, multipartRequest(t, "file", "diagram.png", []byte("png bytes")))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "no file was uploaded")

	w = httptest.NewRecorder()
	r.ServeHTTP(w, multipartRequest(t, "image", "huge.png", bytes.Repeat([]byte{'x'}, int(multipartOverhead)+4<<10)))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "maximum upload size")

	w = do(t, r, http.MethodDelete, "/uploads/abc.png", "")
	assert.Equal(t, http.StatusOK, w.Code)
	w = do(t, r, http.MethodDelete, "/uploads/missing.png", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}
