// Package client is a typed client for the classroom Q&A API. Sessions are
// explicit values: every authenticated call takes the Session it acts as.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/yigit/classqa/internal/app/models/dto"
)

// Session is the result of a successful login or registration
type Session struct {
	Token string
	User  dto.UserResponse
}

// APIError is a non-2xx response decoded from the standard error body
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%d %s: %s", e.Status, e.Code, e.Message)
	}
	return fmt.Sprintf("%d: %s", e.Status, e.Message)
}

// Client talks to one API server
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     zerolog.Logger
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the default http.Client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithLogger sets the client logger
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// New creates a client for the server at baseURL, e.g. http://localhost:8080
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/") + "/api",
		httpClient: &http.Client{Timeout: 15 * time.Second},
		logger:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// QuestionQuery narrows ListQuestions. Zero values do not filter.
type QuestionQuery struct {
	LectureID int64
	TagIDs    []int64
	Resolved  *bool
}

func (q QuestionQuery) values() url.Values {
	v := url.Values{}
	if q.LectureID > 0 {
		v.Set("lectureId", strconv.FormatInt(q.LectureID, 10))
	}
	if len(q.TagIDs) > 0 {
		ids := make([]string, len(q.TagIDs))
		for i, id := range q.TagIDs {
			ids[i] = strconv.FormatInt(id, 10)
		}
		v.Set("tags", strings.Join(ids, ","))
	}
	if q.Resolved != nil {
		v.Set("resolved", strconv.FormatBool(*q.Resolved))
	}
	return v
}

// Register creates an account and returns its session
func (c *Client) Register(ctx context.Context, req dto.RegisterRequest) (*Session, error) {
	var resp dto.AuthResponse
	if err := c.do(ctx, nil, http.MethodPost, "/auth/register", nil, req, &resp); err != nil {
		return nil, err
	}
	return &Session{Token: resp.Token, User: resp.User}, nil
}

// Login exchanges credentials for a session
func (c *Client) Login(ctx context.Context, email, password string) (*Session, error) {
	var resp dto.AuthResponse
	req := dto.LoginRequest{Email: email, Password: password}
	if err := c.do(ctx, nil, http.MethodPost, "/auth/login", nil, req, &resp); err != nil {
		return nil, err
	}
	return &Session{Token: resp.Token, User: resp.User}, nil
}

// Me returns the session's user as currently stored
func (c *Client) Me(ctx context.Context, s *Session) (*dto.UserResponse, error) {
	var resp dto.UserEnvelope
	if err := c.do(ctx, s, http.MethodGet, "/auth/me", nil, nil, &resp); err != nil {
		return nil, err
	}
	return &resp.User, nil
}

// ListLectures returns every lecture, newest first
func (c *Client) ListLectures(ctx context.Context, s *Session) ([]dto.LectureResponse, error) {
	var resp dto.LectureListResponse
	if err := c.do(ctx, s, http.MethodGet, "/lectures", nil, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Lectures, nil
}

// CreateLecture creates a lecture owned by the session's teacher
func (c *Client) CreateLecture(ctx context.Context, s *Session, req dto.CreateLectureRequest) (*dto.LectureResponse, error) {
	var resp dto.LectureEnvelope
	if err := c.do(ctx, s, http.MethodPost, "/lectures", nil, req, &resp); err != nil {
		return nil, err
	}
	return &resp.Lecture, nil
}

// ListTags returns a lecture's tags
func (c *Client) ListTags(ctx context.Context, s *Session, lectureID int64) ([]dto.TagResponse, error) {
	var resp dto.TagListResponse
	if err := c.do(ctx, s, http.MethodGet, fmt.Sprintf("/lectures/%d/tags", lectureID), nil, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Tags, nil
}

// ListQuestions returns questions matching q, shaped for the session's viewer
func (c *Client) ListQuestions(ctx context.Context, s *Session, q QuestionQuery) ([]dto.QuestionResponse, error) {
	var resp dto.QuestionListResponse
	if err := c.do(ctx, s, http.MethodGet, "/questions", q.values(), nil, &resp); err != nil {
		return nil, err
	}
	return resp.Questions, nil
}

// CreateQuestion posts a question
func (c *Client) CreateQuestion(ctx context.Context, s *Session, req dto.CreateQuestionRequest) (*dto.QuestionResponse, error) {
	var resp dto.QuestionEnvelope
	if err := c.do(ctx, s, http.MethodPost, "/questions", nil, req, &resp); err != nil {
		return nil, err
	}
	return &resp.Question, nil
}

// SetResolved resolves or unresolves a question
func (c *Client) SetResolved(ctx context.Context, s *Session, questionID int64, resolved bool) (*dto.QuestionResponse, error) {
	action := "unresolve"
	if resolved {
		action = "resolve"
	}
	var resp dto.QuestionEnvelope
	if err := c.do(ctx, s, http.MethodPut, fmt.Sprintf("/questions/%d/%s", questionID, action), nil, nil, &resp); err != nil {
		return nil, err
	}
	return &resp.Question, nil
}

// AddAnswer answers a question
func (c *Client) AddAnswer(ctx context.Context, s *Session, questionID int64, req dto.CreateAnswerRequest) (*dto.AnswerResponse, error) {
	var resp dto.AnswerEnvelope
	if err := c.do(ctx, s, http.MethodPost, fmt.Sprintf("/questions/%d/answers", questionID), nil, req, &resp); err != nil {
		return nil, err
	}
	return &resp.Answer, nil
}

func (c *Client) do(ctx context.Context, s *Session, method, path string, query url.Values, body, out any) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if s != nil {
		req.Header.Set("Authorization", "Bearer "+s.Token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	c.logger.Debug().Str("method", method).Str("path", path).Int("status", resp.StatusCode).
		Dur("latency", time.Since(start)).Msg("API call")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Status: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
		var errBody dto.ErrorResponse
		if json.NewDecoder(resp.Body).Decode(&errBody) == nil && errBody.Error != "" {
			apiErr.Code = string(errBody.Code)
			apiErr.Message = errBody.Error
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode %s %s response: %w", method, path, err)
	}
	return nil
}
