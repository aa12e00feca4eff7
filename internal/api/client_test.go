// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/jeranaias/lintara-tui/internal/model"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m,
		goleak.IgnoreTopFunction("net/http.(*persistConn).readLoop"),
		goleak.IgnoreTopFunction("net/http.(*persistConn).writeLoop"),
		goleak.IgnoreTopFunction("internal/poll.runtime_pollWait"),
	)
}

const recordJSON = `{
	"id": 7,
	"title": "login handler",
	"code_content": "def login(): pass",
	"language": "python",
	"status": "completed",
	"result": "1. Summary:\n- fine",
	"created_at": "2024-05-01T10:00:00.123456",
	"completed_at": null,
	"owner_id": 3
}`

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	c := NewClient(&ClientConfig{BaseURL: srv.URL + "/", Timeout: 5 * time.Second})
	t.Cleanup(func() {
		c.CloseIdleConnections()
		srv.Close()
	})
	return c
}

func TestClient_Login(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/auth/login", r.URL.Path)
		assert.Equal(t, "application/x-www-form-urlencoded", r.Header.Get("Content-Type"))
		assert.Empty(t, r.Header.Get("Authorization"))
		assert.NoError(t, r.ParseForm())
		assert.Equal(t, "ada", r.PostForm.Get("username"))
		assert.Equal(t, "hunter22", r.PostForm.Get("password"))
		io.WriteString(w, `{"access_token":"tok","token_type":"bearer","user_id":3,"username":"ada"}`)
	})

	resp, err := c.Login(context.Background(), "ada", "hunter22")
	require.NoError(t, err)
	assert.Equal(t, int64(3), resp.UserID)
	assert.Equal(t, "tok", c.Token())
	assert.True(t, c.Authenticated())
}

func TestClient_LoginRejected(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		io.WriteString(w, `{"detail":"Incorrect username or password, please try again using correct credentials."}`)
	})

	_, err := c.Login(context.Background(), "ada", "wrong")
	require.Error(t, err)
	assert.True(t, IsUnauthorized(err))
	assert.Contains(t, err.Error(), "Incorrect username or password")

	var ce *ClientError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, http.StatusUnauthorized, ce.Status)
	assert.False(t, c.Authenticated())
}

func TestClient_BearerAndRequestID(t *testing.T) {
	var seen []string
	var mu sync.Mutex
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		mu.Lock()
		seen = append(seen, r.Header.Get("X-Request-ID"))
		mu.Unlock()
		io.WriteString(w, recordJSON)
	})
	c.SetToken("tok")

	_, err := c.Get(context.Background(), 7)
	require.NoError(t, err)
	_, err = c.Get(context.Background(), 7)
	require.NoError(t, err)

	require.Len(t, seen, 2)
	assert.NotEmpty(t, seen[0])
	assert.NotEqual(t, seen[0], seen[1])
}

func TestClient_List(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/analysis/", r.URL.Path)
		assert.Equal(t, "20", r.URL.Query().Get("skip"))
		assert.Equal(t, "10", r.URL.Query().Get("limit"))
		io.WriteString(w, "["+recordJSON+"]")
	})

	list, err := c.List(context.Background(), ListOptions{Skip: 20})
	require.NoError(t, err)
	require.Len(t, list, 1)

	rec := list[0]
	assert.Equal(t, model.ID(7), rec.ID)
	assert.Equal(t, model.StatusCompleted, rec.Status)
	assert.Equal(t, "1. Summary:\n- fine", rec.ResultText())
	assert.Equal(t, time.Date(2024, 5, 1, 10, 0, 0, 123456000, time.UTC), rec.CreatedAt.Time)
	assert.Nil(t, rec.CompletedAt)
}

func TestClient_ListSingleflight(t *testing.T) {
	var hits atomic.Int32
	release := make(chan struct{})
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		<-release
		io.WriteString(w, "["+recordJSON+"]")
	})
	c.limiter = nil

	const callers = 5
	var wg sync.WaitGroup
	results := make([][]model.AnalysisRecord, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			list, err := c.List(context.Background(), ListOptions{})
			assert.NoError(t, err)
			results[i] = list
		}(i)
	}

	// Let every caller join the in-flight request before answering.
	require.Eventually(t, func() bool { return hits.Load() == 1 }, time.Second, time.Millisecond)
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), hits.Load())
	for _, list := range results {
		require.Len(t, list, 1)
	}
	results[0][0].Title = "mutated"
	assert.Equal(t, "login handler", results[1][0].Title, "callers get independent slices")
}

func TestClient_ListAfterMutationNotShared(t *testing.T) {
	var (
		mu     sync.Mutex
		status = "completed"
		gets   atomic.Int32
	)
	release := make(chan struct{})
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/analysis/7/reanalyze":
			mu.Lock()
			status = "processing"
			mu.Unlock()
			w.WriteHeader(http.StatusAccepted)
		case r.Method == http.MethodGet:
			mu.Lock()
			snapshot := status
			mu.Unlock()
			if gets.Add(1) == 1 {
				<-release
			}
			io.WriteString(w, `[{"id": 7, "title": "t", "code_content": "x", "language": "python", "status": "`+snapshot+`", "created_at": "2024-05-01T10:00:00"}]`)
		}
	})
	c.limiter = nil
	var once sync.Once
	unblock := func() { once.Do(func() { close(release) }) }
	t.Cleanup(unblock)

	// A poll is in flight with the pre-mutation list.
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		list, err := c.List(context.Background(), ListOptions{})
		assert.NoError(t, err)
		if assert.Len(t, list, 1) {
			assert.Equal(t, model.StatusCompleted, list[0].Status)
		}
	}()
	require.Eventually(t, func() bool { return gets.Load() == 1 }, time.Second, time.Millisecond)

	_, err := c.Reanalyze(context.Background(), 7)
	require.NoError(t, err)

	done := make(chan []model.AnalysisRecord)
	go func() {
		list, err := c.List(context.Background(), ListOptions{})
		assert.NoError(t, err)
		done <- list
	}()
	require.Eventually(t, func() bool { return gets.Load() == 2 }, time.Second, time.Millisecond,
		"the refresh after a mutation must send its own request")

	list := <-done
	require.Len(t, list, 1)
	assert.Equal(t, model.StatusProcessing, list[0].Status)

	unblock()
	wg.Wait()
}

func TestClient_CreateAndUpdate(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var in AnalysisInput
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		rec := model.AnalysisRecord{ID: 9, Title: in.Title, CodeContent: in.CodeContent, Language: in.Language, Status: model.StatusPending}
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/analysis/":
			w.WriteHeader(http.StatusCreated)
		case r.Method == http.MethodPut && r.URL.Path == "/analysis/9":
		default:
			t.Errorf("unexpected %s %s", r.Method, r.URL.Path)
		}
		json.NewEncoder(w).Encode(rec)
	})

	in := AnalysisInput{Title: "sort", CodeContent: "func main() {}", Language: "go"}
	rec, err := c.Create(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, model.StatusPending, rec.Status)
	assert.Equal(t, "sort", rec.Title)

	in.Title = "sort v2"
	rec, err = c.Update(context.Background(), 9, in)
	require.NoError(t, err)
	assert.Equal(t, "sort v2", rec.Title)
	assert.Nil(t, rec.Result)
}

func TestClient_InputValidatedLocally(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("invalid input must not reach the server")
	})

	tests := []AnalysisInput{
		{Title: "", CodeContent: "x", Language: "go"},
		{Title: "   ", CodeContent: "x", Language: "go"},
		{Title: "t", CodeContent: "", Language: "go"},
		{Title: "t", CodeContent: "x", Language: ""},
		{Title: strings.Repeat("a", MaxTitleLen+1), CodeContent: "x", Language: "go"},
	}
	for _, in := range tests {
		_, err := c.Create(context.Background(), in)
		assert.ErrorIs(t, err, ErrValidation)
	}

	_, err := c.Register(context.Background(), RegisterInput{Email: "nope", Username: "ada", Password: "secret1"})
	assert.ErrorIs(t, err, ErrValidation)
	_, err = c.Register(context.Background(), RegisterInput{Email: "a@b.co", Username: "ab", Password: "secret1"})
	assert.ErrorIs(t, err, ErrValidation)
	_, err = c.Register(context.Background(), RegisterInput{Email: "a@b.co", Username: "ada", Password: "short"})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestClient_Register(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/users/", r.URL.Path)
		w.WriteHeader(http.StatusBadRequest)
		io.WriteString(w, `{"detail":"Username already taken"}`)
	})
	_, err := c.Register(context.Background(), RegisterInput{Email: "a@b.co", Username: "ada", Password: "secret1"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrValidation)
	assert.Equal(t, "Username already taken", err.Error())
}

func TestClient_DeleteAndReanalyze(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodDelete && r.URL.Path == "/analysis/4":
			w.WriteHeader(http.StatusNoContent)
		case r.Method == http.MethodPost && r.URL.Path == "/analysis/4/reanalyze":
			w.WriteHeader(http.StatusAccepted)
		case r.Method == http.MethodPost && r.URL.Path == "/analysis/7/reanalyze":
			io.WriteString(w, recordJSON)
		default:
			w.WriteHeader(http.StatusNotFound)
			io.WriteString(w, `{"detail":"Analysis not found"}`)
		}
	})

	require.NoError(t, c.Delete(context.Background(), 4))

	rec, err := c.Reanalyze(context.Background(), 4)
	require.NoError(t, err)
	assert.Nil(t, rec, "empty body yields no record")

	rec, err = c.Reanalyze(context.Background(), 7)
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, model.ID(7), rec.ID)

	err = c.Delete(context.Background(), 5)
	assert.True(t, IsNotFound(err))
	assert.Equal(t, "Analysis not found", err.Error())
}

func TestClient_Logout(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		assert.Equal(t, "/auth/logout", r.URL.Path)
		w.WriteHeader(http.StatusInternalServerError)
	})

	require.NoError(t, c.Logout(context.Background()), "no token means nothing to revoke")
	assert.Zero(t, calls.Load())

	c.SetToken("tok")
	err := c.Logout(context.Background())
	assert.ErrorIs(t, err, ErrServer)
	assert.False(t, c.Authenticated(), "token cleared even when the server fails")
}

func TestClient_ValidationDetailList(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		io.WriteString(w, `{"detail":[{"loc":["body","title"],"msg":"field required","type":"value_error.missing"},{"loc":["query","limit"],"msg":"not an int"}]}`)
	})
	_, err := c.List(context.Background(), ListOptions{})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrValidation)
	assert.Equal(t, "title: field required; query.limit: not an int", err.Error())
}

func TestClient_InvalidJSON(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"id": "seven"`)
	})
	_, err := c.Get(context.Background(), 7)
	assert.ErrorIs(t, err, ErrInvalidResponse)
}

func TestClient_NonJSONErrorBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		io.WriteString(w, "<html>bad gateway</html>")
	})
	_, err := c.Get(context.Background(), 1)
	assert.ErrorIs(t, err, ErrServer)
	assert.Equal(t, "502 Bad Gateway", err.Error())
}

func TestClient_ConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := NewClient(&ClientConfig{BaseURL: url, Timeout: time.Second})
	_, err := c.List(context.Background(), ListOptions{})
	assert.ErrorIs(t, err, ErrConnection)
}

func TestClient_Timeout(t *testing.T) {
	block := make(chan struct{})
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-block:
		case <-r.Context().Done():
		}
	})
	t.Cleanup(func() { close(block) })

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err := c.Get(ctx, 1)
	assert.True(t, IsTimeout(err), "got %v", err)
}

func TestClient_Cancelled(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := c.Get(ctx, 1)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestClientError_Is(t *testing.T) {
	err := &ClientError{Type: ErrTypeNotFound, Status: 404, Message: "Analysis not found"}
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NotErrorIs(t, err, ErrUnauthorized)

	wrapped := &ClientError{Type: ErrTypeConnection, Message: "x", Cause: io.ErrUnexpectedEOF}
	assert.ErrorIs(t, wrapped, io.ErrUnexpectedEOF)
	assert.Equal(t, "x: unexpected EOF", wrapped.Error())
	assert.Equal(t, "connection", wrapped.Type.String())
}

func TestNewClient_Defaults(t *testing.T) {
	c := NewClient(nil)
	assert.Equal(t, "http://localhost:8000", c.BaseURL())
	assert.Equal(t, 10, c.PageSize())
	assert.NotNil(t, c.limiter)

	c = NewClient(&ClientConfig{BaseURL: "http://x/", RatePerSec: 0.5, PageSize: 3})
	assert.Equal(t, "http://x", c.BaseURL())
	assert.Equal(t, 3, c.PageSize())
	assert.Equal(t, 1, c.limiter.Burst())
}
