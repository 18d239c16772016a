package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/classqa/internal/app/models/dto"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestLoginCarriesSessionToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/auth/login":
			var req dto.LoginRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			if req.Password != "secret123" {
				writeJSON(w, http.StatusUnauthorized, dto.NewErrorResponse(dto.ErrorCodeInvalidCredentials, "invalid email or password"))
				return
			}
			writeJSON(w, http.StatusOK, dto.AuthResponse{Token: "tok-1", User: dto.UserResponse{ID: 4, Role: "STUDENT"}})
		case "/api/auth/me":
			assert.Equal(t, "Bearer tok-1", r.Header.Get("Authorization"))
			writeJSON(w, http.StatusOK, dto.UserEnvelope{User: dto.UserResponse{ID: 4}})
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	c := New(srv.URL)

	_, err := c.Login(context.Background(), "s@example.com", "nope")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
	assert.Equal(t, "AUTH_001", apiErr.Code)
	assert.Equal(t, "invalid email or password", apiErr.Message)

	session, err := c.Login(context.Background(), "s@example.com", "secret123")
	require.NoError(t, err)
	assert.Equal(t, "tok-1", session.Token)

	me, err := c.Me(context.Background(), session)
	require.NoError(t, err)
	assert.Equal(t, int64(4), me.ID)
}

func TestListQuestionsEncodesFilters(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "3", q.Get("lectureId"))
		assert.Equal(t, "1,2", q.Get("tags"))
		assert.Equal(t, "false", q.Get("resolved"))
		writeJSON(w, http.StatusOK, dto.QuestionListResponse{Questions: []dto.QuestionResponse{{ID: 7}}})
	}))
	defer srv.Close()

	resolved := false
	questions, err := New(srv.URL).ListQuestions(context.Background(), &Session{Token: "t"},
		QuestionQuery{LectureID: 3, TagIDs: []int64{1, 2}, Resolved: &resolved})
	require.NoError(t, err)
	require.Len(t, questions, 1)
	assert.Equal(t, int64(7), questions[0].ID)
}

func TestPollerSurvivesFailuresAndStopsOnCancel(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// every other request fails
		if calls.Add(1)%2 == 1 {
			writeJSON(w, http.StatusInternalServerError, dto.NewErrorResponse(dto.ErrorCodeInternalServer, "internal server error"))
			return
		}
		writeJSON(w, http.StatusOK, dto.QuestionListResponse{Questions: []dto.QuestionResponse{{ID: int64(calls.Load())}}})
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	var (
		mu      sync.Mutex
		updates int
	)
	done := make(chan struct{})
	p := NewPoller(New(srv.URL), &Session{Token: "t"}, QuestionQuery{LectureID: 1}, 10*time.Millisecond)
	go func() {
		p.Run(ctx, func([]dto.QuestionResponse) {
			mu.Lock()
			updates++
			mu.Unlock()
		})
		close(done)
	}()

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return updates >= 2
	}, 2*time.Second, 5*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("poller did not stop after cancellation")
	}
}

func TestNewPollerDefaultsInterval(t *testing.T) {
	p := NewPoller(New("http://localhost:8080"), &Session{}, QuestionQuery{}, 0)
	assert.Equal(t, DefaultPollInterval, p.interval)
}
