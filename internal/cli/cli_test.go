// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/lintara-tui/internal/api"
	"github.com/jeranaias/lintara-tui/internal/model"
	"github.com/jeranaias/lintara-tui/internal/storage"
)

var testNow = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

// =============================================================================
// FAKE SERVICE
// =============================================================================

const (
	testUser     = "ada"
	testPassword = "secret"
	testToken    = "tok-ada"
)

// fakeService is an in-memory analysis service speaking the REST protocol.
type fakeService struct {
	mu      sync.Mutex
	records map[model.ID]*model.AnalysisRecord
	nextID  model.ID

	// completeAfter moves a processing record to completed on the nth get.
	completeAfter int
	gets          map[model.ID]int

	loggedOut  bool
	registered []api.RegisterInput
}

func newFakeService() *fakeService {
	return &fakeService{
		records: make(map[model.ID]*model.AnalysisRecord),
		gets:    make(map[model.ID]int),
		nextID:  1,
	}
}

func (f *fakeService) add(title string, status model.Status, result string) model.ID {
	f.mu.Lock()
	defer f.mu.Unlock()
	rec := &model.AnalysisRecord{
		ID:          f.nextID,
		Title:       title,
		CodeContent: "def handler():\n    return 1\n",
		Language:    "python",
		Status:      status,
		CreatedAt:   model.NewTimestamp(testNow.Add(-2 * time.Hour)),
		OwnerID:     1,
	}
	if result != "" {
		rec.Result = model.StringPtr(result)
	}
	f.records[rec.ID] = rec
	f.nextID++
	return rec.ID
}

func (f *fakeService) get(id model.ID) (model.AnalysisRecord, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	rec, ok := f.records[id]
	if !ok {
		return model.AnalysisRecord{}, false
	}
	return *rec, true
}

func (f *fakeService) getCount(id model.ID) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.gets[id]
}

func (f *fakeService) isLoggedOut() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.loggedOut
}

func (f *fakeService) registrations() []api.RegisterInput {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]api.RegisterInput(nil), f.registered...)
}

func (f *fakeService) handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /auth/login", func(w http.ResponseWriter, r *http.Request) {
		if r.FormValue("username") != testUser || r.FormValue("password") != testPassword {
			writeDetail(w, http.StatusUnauthorized, "Incorrect username or password")
			return
		}
		writeJSON(w, http.StatusOK, api.LoginResponse{AccessToken: testToken, TokenType: "bearer", UserID: 1, Username: testUser})
	})

	mux.HandleFunc("POST /auth/logout", f.authed(func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.loggedOut = true
		f.mu.Unlock()
		writeJSON(w, http.StatusOK, map[string]string{"message": "Successfully logged out"})
	}))

	mux.HandleFunc("POST /users/", func(w http.ResponseWriter, r *http.Request) {
		var in api.RegisterInput
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			writeDetail(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		f.mu.Lock()
		f.registered = append(f.registered, in)
		f.mu.Unlock()
		writeJSON(w, http.StatusOK, api.User{ID: 2, Email: in.Email, Username: in.Username, CreatedAt: model.NewTimestamp(testNow)})
	})

	mux.HandleFunc("GET /analysis/", f.authed(func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		list := make([]model.AnalysisRecord, 0, len(f.records))
		for _, rec := range f.records {
			list = append(list, *rec)
		}
		sort.Slice(list, func(i, j int) bool { return list[i].ID > list[j].ID })
		writeJSON(w, http.StatusOK, list)
	}))

	mux.HandleFunc("POST /analysis/", f.authed(func(w http.ResponseWriter, r *http.Request) {
		var in api.AnalysisInput
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			writeDetail(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		f.mu.Lock()
		defer f.mu.Unlock()
		rec := &model.AnalysisRecord{
			ID:          f.nextID,
			Title:       in.Title,
			CodeContent: in.CodeContent,
			Language:    in.Language,
			Status:      model.StatusPending,
			CreatedAt:   model.NewTimestamp(testNow),
			OwnerID:     1,
		}
		f.records[rec.ID] = rec
		f.nextID++
		writeJSON(w, http.StatusOK, rec)
	}))

	mux.HandleFunc("GET /analysis/{id}", f.withRecord(func(w http.ResponseWriter, r *http.Request, rec *model.AnalysisRecord) {
		f.gets[rec.ID]++
		if f.completeAfter > 0 && rec.Status.IsUnsettled() && f.gets[rec.ID] >= f.completeAfter {
			rec.Status = model.StatusCompleted
			rec.Result = model.StringPtr("1. Summary:\n- done")
		}
		writeJSON(w, http.StatusOK, rec)
	}))

	mux.HandleFunc("PUT /analysis/{id}", f.withRecord(func(w http.ResponseWriter, r *http.Request, rec *model.AnalysisRecord) {
		var in api.AnalysisInput
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			writeDetail(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		rec.Title, rec.CodeContent, rec.Language = in.Title, in.CodeContent, in.Language
		rec.Status, rec.Result = model.StatusPending, nil
		writeJSON(w, http.StatusOK, rec)
	}))

	mux.HandleFunc("DELETE /analysis/{id}", f.withRecord(func(w http.ResponseWriter, r *http.Request, rec *model.AnalysisRecord) {
		delete(f.records, rec.ID)
		writeJSON(w, http.StatusOK, map[string]string{"message": "Analysis deleted"})
	}))

	mux.HandleFunc("POST /analysis/{id}/reanalyze", f.withRecord(func(w http.ResponseWriter, r *http.Request, rec *model.AnalysisRecord) {
		rec.Status, rec.Result = model.StatusPending, nil
		writeJSON(w, http.StatusOK, rec)
	}))

	return mux
}

func (f *fakeService) authed(h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer "+testToken {
			writeDetail(w, http.StatusUnauthorized, "Could not validate credentials")
			return
		}
		h(w, r)
	}
}

func (f *fakeService) withRecord(h func(http.ResponseWriter, *http.Request, *model.AnalysisRecord)) http.HandlerFunc {
	return f.authed(func(w http.ResponseWriter, r *http.Request) {
		id, err := model.ParseID(r.PathValue("id"))
		if err != nil {
			writeDetail(w, http.StatusUnprocessableEntity, "bad id")
			return
		}
		f.mu.Lock()
		defer f.mu.Unlock()
		rec, ok := f.records[id]
		if !ok {
			writeDetail(w, http.StatusNotFound, "Analysis not found")
			return
		}
		h(w, r, rec)
	})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}

// =============================================================================
// HARNESS
// =============================================================================

type testEnv struct {
	t           *testing.T
	svc         *fakeService
	srv         *httptest.Server
	home        string
	configPath  string
	sessionPath string
	interactive bool
}

type result struct {
	stdout string
	stderr string
	code   int
}

func newEnv(t *testing.T) *testEnv {
	t.Helper()
	home := t.TempDir()
	t.Setenv("LINTARA_HOME", home)
	for _, k := range []string{"LINTARA_API_URL", "LINTARA_TOKEN", "LINTARA_POLL_INTERVAL",
		"LINTARA_LOG_LEVEL", "LINTARA_THEME", "LINTARA_OFFLINE", "FORCE_COLOR"} {
		t.Setenv(k, "")
	}

	svc := newFakeService()
	srv := httptest.NewServer(svc.handler())
	t.Cleanup(srv.Close)

	configPath := filepath.Join(home, "config.toml")
	require.NoError(t, os.WriteFile(configPath, []byte("[api]\nrate_per_sec = 0\n\n[ui]\ntheme = \"dark\"\n"), 0600))

	return &testEnv{
		t:           t,
		svc:         svc,
		srv:         srv,
		home:        home,
		configPath:  configPath,
		sessionPath: filepath.Join(home, "session.json"),
	}
}

func (e *testEnv) run(stdin string, args ...string) result {
	e.t.Helper()
	var stdout, stderr bytes.Buffer
	colors := false
	app := &App{
		Stdin:        strings.NewReader(stdin),
		Stdout:       &stdout,
		Stderr:       &stderr,
		HTTPClient:   e.srv.Client(),
		SessionPath:  e.sessionPath,
		ReadPassword: func(string) (string, error) { return testPassword, nil },
		Interactive:  func() bool { return e.interactive },
		Now:          func() time.Time { return testNow },
		Colors:       &colors,
	}
	full := append([]string{"--config", e.configPath, "--api-url", e.srv.URL}, args...)
	code := app.Run(context.Background(), full)
	return result{stdout: stdout.String(), stderr: stderr.String(), code: code}
}

func (e *testEnv) login() {
	e.t.Helper()
	res := e.run(testPassword+"\n", "login", "-u", testUser, "--password-stdin")
	require.Equal(e.t, ExitSuccess, res.code, res.stderr)
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *string         `json:"error"`
	Command string          `json:"command"`
}

func decodeEnvelope(t *testing.T, out string) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal([]byte(out), &env), out)
	return env
}

// =============================================================================
// AUTH
// =============================================================================

func TestLogin_StoresSession(t *testing.T) {
	e := newEnv(t)
	res := e.run(testPassword+"\n", "login", "-u", testUser, "--password-stdin")
	require.Equal(t, ExitSuccess, res.code, res.stderr)
	assert.Contains(t, res.stdout, "Logged in as ada")

	info, err := os.Stat(e.sessionPath)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	data, err := os.ReadFile(e.sessionPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), testToken)
	assert.Contains(t, string(data), e.srv.URL)
}

func TestLogin_PromptsForUsername(t *testing.T) {
	e := newEnv(t)
	e.interactive = true
	res := e.run("ada\n", "login")
	require.Equal(t, ExitSuccess, res.code, res.stderr)
	assert.Contains(t, res.stderr, "Username: ")
}

func TestLogin_Rejected(t *testing.T) {
	e := newEnv(t)
	res := e.run("wrong\n", "login", "-u", testUser, "--password-stdin")
	assert.Equal(t, ExitAuthError, res.code)
	assert.Contains(t, res.stderr, "Incorrect username or password")
	assert.NoFileExists(t, e.sessionPath)
}

func TestCommandsRequireLogin(t *testing.T) {
	e := newEnv(t)
	for _, args := range [][]string{{"list"}, {"show", "1"}, {"reanalyze", "1"}} {
		res := e.run("", args...)
		assert.Equal(t, ExitAuthError, res.code, args)
		assert.Contains(t, res.stderr, "lintara login", args)
	}
}

func TestSessionNotSentToOtherService(t *testing.T) {
	e := newEnv(t)
	e.login()

	other := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("unexpected request to other service: %s %s", r.Method, r.URL.Path)
	}))
	defer other.Close()

	var stdout, stderr bytes.Buffer
	app := &App{Stdin: strings.NewReader(""), Stdout: &stdout, Stderr: &stderr, SessionPath: e.sessionPath, Now: time.Now}
	code := app.Run(context.Background(), []string{"--config", e.configPath, "--api-url", other.URL, "list"})
	assert.Equal(t, ExitAuthError, code)
}

func TestLogout(t *testing.T) {
	e := newEnv(t)
	e.svc.add("cached", model.StatusCompleted, "ok")
	e.login()
	require.Equal(t, ExitSuccess, e.run("", "list").code)

	res := e.run("", "logout")
	require.Equal(t, ExitSuccess, res.code, res.stderr)
	assert.Contains(t, res.stdout, "Logged out ada")
	assert.True(t, e.svc.isLoggedOut())
	assert.NoFileExists(t, e.sessionPath)

	cache, err := storage.Open(filepath.Join(e.home, "cache.db"))
	require.NoError(t, err)
	defer cache.Close()
	recs, err := cache.List(context.Background(), storage.Scope{BaseURL: e.srv.URL, Username: testUser})
	require.NoError(t, err)
	assert.Empty(t, recs)

	res = e.run("", "logout")
	assert.Equal(t, ExitSuccess, res.code)
	assert.Contains(t, res.stdout, "Not logged in.")
}

func TestRegister(t *testing.T) {
	e := newEnv(t)
	res := e.run("hunter22\n", "register", "--email", "bob@example.com", "-u", "bob", "--password-stdin")
	require.Equal(t, ExitSuccess, res.code, res.stderr)
	assert.Contains(t, res.stdout, "Registered bob")
	require.Len(t, e.svc.registrations(), 1)
	assert.Equal(t, api.RegisterInput{Email: "bob@example.com", Username: "bob", Password: "hunter22"}, e.svc.registrations()[0])

	res = e.run("hunter22\n", "register", "--email", "not-an-email", "-u", "bob", "--password-stdin")
	assert.Equal(t, ExitUsageError, res.code)
	assert.Len(t, e.svc.registrations(), 1)
}

// =============================================================================
// LIST / SHOW / WATCH / RENDER
// =============================================================================

func TestList(t *testing.T) {
	e := newEnv(t)
	e.svc.add("login handler", model.StatusCompleted, "1. Summary:\n- fine")
	e.svc.add("parser", model.StatusProcessing, "")
	e.login()

	res := e.run("", "list")
	require.Equal(t, ExitSuccess, res.code, res.stderr)
	lines := strings.Split(strings.TrimSpace(res.stdout), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "STATUS")
	assert.Contains(t, lines[1], "parser", "newest first")
	assert.Contains(t, lines[1], "[!] Processing")
	assert.Contains(t, lines[2], "[OK] Completed")
	assert.Contains(t, lines[2], "2 hours ago")
}

func TestList_Empty(t *testing.T) {
	e := newEnv(t)
	e.login()
	res := e.run("", "list")
	require.Equal(t, ExitSuccess, res.code)
	assert.Contains(t, res.stdout, "No analyses yet. Submit your first code to get started!")
}

func TestList_OfflineServesLastFetch(t *testing.T) {
	e := newEnv(t)
	e.svc.add("first", model.StatusCompleted, "ok")
	e.login()
	require.Equal(t, ExitSuccess, e.run("", "list").code)

	e.svc.add("second", model.StatusPending, "")
	res := e.run("", "list", "--offline")
	require.Equal(t, ExitSuccess, res.code, res.stderr)
	assert.Contains(t, res.stdout, "first")
	assert.NotContains(t, res.stdout, "second")
	assert.Contains(t, res.stdout, "offline, cached")
}

func TestList_JSON(t *testing.T) {
	e := newEnv(t)
	e.svc.add("a", model.StatusCompleted, "ok")
	e.svc.add("b", model.StatusFailed, "boom")
	e.login()

	res := e.run("", "--json", "list")
	require.Equal(t, ExitSuccess, res.code, res.stderr)
	env := decodeEnvelope(t, res.stdout)
	assert.True(t, env.Success)
	assert.Equal(t, "list", env.Command)

	var view listView
	require.NoError(t, json.Unmarshal(env.Data, &view))
	require.Len(t, view.Records, 2)
	assert.Equal(t, model.ID(2), view.Records[0].ID)
	assert.False(t, view.Offline)
}

func TestList_NegativePaging(t *testing.T) {
	e := newEnv(t)
	e.login()
	assert.Equal(t, ExitUsageError, e.run("", "list", "--skip", "-1").code)
}

func TestShow(t *testing.T) {
	e := newEnv(t)
	id := e.svc.add("auth review", model.StatusCompleted, "1. Security:\n- compare with `hmac.compare_digest()`\nUse constant time.")
	e.login()

	res := e.run("", "show", id.String(), "--code")
	require.Equal(t, ExitSuccess, res.code, res.stderr)
	assert.Contains(t, res.stdout, "#1  auth review")
	assert.Contains(t, res.stdout, "[OK] Completed")
	assert.Contains(t, res.stdout, "1. Security:")
	assert.Contains(t, res.stdout, "• compare with hmac.compare_digest()")
	assert.Contains(t, res.stdout, "Use constant time.")
	assert.Contains(t, res.stdout, "Submitted code")
	assert.Contains(t, res.stdout, "def handler():")
}

func TestShow_Placeholders(t *testing.T) {
	e := newEnv(t)
	pending := e.svc.add("queued", model.StatusPending, "")
	failed := e.svc.add("broken", model.StatusFailed, "")
	e.login()

	assert.Contains(t, e.run("", "show", pending.String()).stdout, "Queued for analysis")
	out := e.run("", "show", failed.String()).stdout
	assert.Contains(t, out, "Analysis failed")
	assert.Contains(t, out, "Please try again")
}

func TestShow_Errors(t *testing.T) {
	e := newEnv(t)
	e.login()

	res := e.run("", "show", "99")
	assert.Equal(t, ExitNotFoundError, res.code)
	assert.Contains(t, res.stderr, "Analysis not found")

	assert.Equal(t, ExitUsageError, e.run("", "show", "abc").code)
	assert.Equal(t, ExitUsageError, e.run("", "show").code)
	assert.Equal(t, ExitUsageError, e.run("", "show", "--bogus", "1").code)
}

func TestShow_OfflineFromCache(t *testing.T) {
	e := newEnv(t)
	id := e.svc.add("cached one", model.StatusCompleted, "1. Summary:\n- cached")
	e.login()
	require.Equal(t, ExitSuccess, e.run("", "show", id.String()).code)

	e.srv.Close()
	res := e.run("", "show", "--offline", id.String())
	require.Equal(t, ExitSuccess, res.code, res.stderr)
	assert.Contains(t, res.stdout, "cached one")

	res = e.run("", "show", "--offline", "42")
	assert.Equal(t, ExitNotFoundError, res.code)
}

func TestShow_JSON(t *testing.T) {
	e := newEnv(t)
	id := e.svc.add("x", model.StatusProcessing, "")
	e.login()

	res := e.run("", "--json", "show", id.String())
	require.Equal(t, ExitSuccess, res.code)
	var view struct {
		Record model.AnalysisRecord `json:"record"`
		Report struct {
			Kind  int    `json:"kind"`
			Title string `json:"title"`
		} `json:"report"`
	}
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, res.stdout).Data, &view))
	assert.Equal(t, id, view.Record.ID)
	assert.Equal(t, "Processing your code...", view.Report.Title)
}

func TestWatch_PollsUntilSettled(t *testing.T) {
	e := newEnv(t)
	e.svc.completeAfter = 3
	id := e.svc.add("slow", model.StatusProcessing, "")
	e.login()

	res := e.run("", "watch", id.String(), "--interval", "10ms")
	require.Equal(t, ExitSuccess, res.code, res.stderr)
	assert.Equal(t, 3, e.svc.getCount(id))
	assert.Equal(t, 1, strings.Count(res.stdout, "[!] Processing"), "status printed once per change")
	assert.Contains(t, res.stdout, "[OK] Completed")
	assert.Contains(t, res.stdout, "• done")
}

func TestWatch_SettledReturnsImmediately(t *testing.T) {
	e := newEnv(t)
	id := e.svc.add("done", model.StatusFailed, "model timeout")
	e.login()

	res := e.run("", "watch", id.String())
	require.Equal(t, ExitSuccess, res.code, res.stderr)
	assert.Equal(t, 1, e.svc.getCount(id))
	assert.Contains(t, res.stdout, "model timeout")
}

func TestRender(t *testing.T) {
	e := newEnv(t)
	text := "1. Summary:\n* uses `eval()` on input\n\nRewrite it."

	res := e.run(text, "render")
	require.Equal(t, ExitSuccess, res.code, res.stderr)
	assert.Contains(t, res.stdout, "1. Summary:")
	assert.Contains(t, res.stdout, "• uses eval() on input")
	assert.Contains(t, res.stdout, "Rewrite it.")

	path := filepath.Join(e.home, "report.txt")
	require.NoError(t, os.WriteFile(path, []byte(text), 0600))
	res = e.run("", "--json", "render", path)
	require.Equal(t, ExitSuccess, res.code)
	var view struct {
		Report struct {
			Blocks []json.RawMessage `json:"blocks"`
		} `json:"report"`
	}
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, res.stdout).Data, &view))
	assert.Len(t, view.Report.Blocks, 4)

	res = e.run("", "render", "--status", "pending", path)
	assert.Contains(t, res.stdout, "Queued for analysis")
}

// =============================================================================
// SUBMIT / UPDATE / REANALYZE / DELETE
// =============================================================================

func TestSubmit_FromFile(t *testing.T) {
	e := newEnv(t)
	e.login()
	path := filepath.Join(e.home, "main.go")
	require.NoError(t, os.WriteFile(path, []byte("package main\n"), 0600))

	res := e.run("", "submit", "--language", "Go", path)
	require.Equal(t, ExitSuccess, res.code, res.stderr)
	assert.Contains(t, res.stdout, "Submitted analysis #1 (pending)")

	rec, ok := e.svc.get(1)
	require.True(t, ok)
	assert.Equal(t, "main.go", rec.Title)
	assert.Equal(t, "go", rec.Language)
	assert.Equal(t, "package main\n", rec.CodeContent)
}

func TestSubmit_FromStdinWithWatch(t *testing.T) {
	e := newEnv(t)
	e.svc.completeAfter = 1
	e.login()

	t.Setenv("LINTARA_POLL_INTERVAL", "1")
	res := e.run("print(1)", "submit", "-t", "snippet", "--watch")
	require.Equal(t, ExitSuccess, res.code, res.stderr)
	assert.Contains(t, res.stdout, "Submitted analysis #1")
	assert.Contains(t, res.stdout, "[OK] Completed")
}

func TestSubmit_Invalid(t *testing.T) {
	e := newEnv(t)
	e.login()

	res := e.run("x", "submit", "-t", "t", "--language", "cobol")
	assert.Equal(t, ExitUsageError, res.code)
	assert.Contains(t, res.stderr, "not a supported language")

	res = e.run("", "submit", "-t", "empty")
	assert.Equal(t, ExitUsageError, res.code)

	res = e.run("x", "submit")
	assert.Equal(t, ExitUsageError, res.code, "stdin needs a title")
}

func TestUpdate(t *testing.T) {
	e := newEnv(t)
	id := e.svc.add("old", model.StatusCompleted, "ok")
	e.login()

	res := e.run("", "update", id.String(), "--title", "new title")
	require.Equal(t, ExitSuccess, res.code, res.stderr)
	rec, _ := e.svc.get(id)
	assert.Equal(t, "new title", rec.Title)
	assert.Equal(t, "python", rec.Language, "unchanged fields kept")
	assert.Equal(t, model.StatusPending, rec.Status)
	assert.Nil(t, rec.Result)

	assert.Equal(t, ExitUsageError, e.run("", "update", id.String()).code)
	assert.Equal(t, ExitNotFoundError, e.run("", "update", "77", "-t", "x").code)
}

func TestReanalyze(t *testing.T) {
	e := newEnv(t)
	id := e.svc.add("flaky", model.StatusFailed, "boom")
	e.login()

	res := e.run("", "reanalyze", id.String())
	require.Equal(t, ExitSuccess, res.code, res.stderr)
	assert.Contains(t, res.stdout, "Re-analysis queued for analysis #1")
	rec, _ := e.svc.get(id)
	assert.Equal(t, model.StatusPending, rec.Status)
}

func TestDelete(t *testing.T) {
	e := newEnv(t)
	a := e.svc.add("a", model.StatusCompleted, "ok")
	b := e.svc.add("b", model.StatusCompleted, "ok")
	c := e.svc.add("c", model.StatusCompleted, "ok")
	e.login()

	res := e.run("", "delete", a.String())
	assert.Equal(t, ExitUsageError, res.code, "no terminal and no --yes")
	assert.Contains(t, res.stderr, "--yes")
	_, ok := e.svc.get(a)
	assert.True(t, ok)

	res = e.run("", "delete", "--yes", a.String())
	require.Equal(t, ExitSuccess, res.code, res.stderr)
	_, ok = e.svc.get(a)
	assert.False(t, ok)

	e.interactive = true
	res = e.run("n\n", "delete", b.String())
	assert.Equal(t, ExitSuccess, res.code)
	assert.Contains(t, res.stderr, "Cancelled.")
	_, ok = e.svc.get(b)
	assert.True(t, ok)

	res = e.run("y\n", "rm", c.String())
	require.Equal(t, ExitSuccess, res.code, res.stderr)
	_, ok = e.svc.get(c)
	assert.False(t, ok)
}

// =============================================================================
// EXPORT
// =============================================================================

func TestExport(t *testing.T) {
	e := newEnv(t)
	id := e.svc.add("auth/login: review", model.StatusCompleted, "1. Security:\n- check `verify()`")
	e.login()
	dir := t.TempDir()

	for _, tc := range []struct {
		format string
		ext    string
		want   string
	}{
		{"md", ".md", "### 1. Security:"},
		{"html", ".html", `<code class="call">verify()</code>`},
		{"json", ".json", `"title": "auth/login: review"`},
		{"yaml", ".yaml", "title: 'auth/login: review'"},
	} {
		t.Run(tc.format, func(t *testing.T) {
			res := e.run("", "export", id.String(), "--format", tc.format, "--output", dir)
			require.Equal(t, ExitSuccess, res.code, res.stderr)

			path := filepath.Join(dir, "analysis_1_auth-login-_review"+tc.ext)
			assert.Contains(t, res.stdout, path)
			data, err := os.ReadFile(path)
			require.NoError(t, err)
			assert.Contains(t, string(data), tc.want)
		})
	}

	assert.Equal(t, ExitUsageError, e.run("", "export", id.String(), "--format", "pdf").code)
}

// =============================================================================
// CONFIG / VERSION
// =============================================================================

func TestConfigSetGet(t *testing.T) {
	e := newEnv(t)

	res := e.run("", "config", "set", "poll.interval_secs", "10")
	require.Equal(t, ExitSuccess, res.code, res.stderr)

	data, err := os.ReadFile(e.configPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "interval_secs = 10")
	assert.NotContains(t, string(data), e.srv.URL, "--api-url is not persisted")

	res = e.run("", "config", "get", "poll.interval_secs")
	assert.Equal(t, "10\n", res.stdout)

	assert.Equal(t, ExitUsageError, e.run("", "config", "set", "poll.nope", "1").code)
	assert.Equal(t, ExitUsageError, e.run("", "config", "set", "poll.interval_secs", "99999").code)
	assert.Equal(t, ExitUsageError, e.run("", "config", "get", "ui").code)
}

func TestConfigShowRedactsToken(t *testing.T) {
	e := newEnv(t)
	t.Setenv("LINTARA_TOKEN", "very-secret")

	res := e.run("", "config", "show")
	require.Equal(t, ExitSuccess, res.code, res.stderr)
	assert.Contains(t, res.stdout, "[api]")
	assert.Contains(t, res.stdout, "[REDACTED]")
	assert.NotContains(t, res.stdout, "very-secret")

	assert.Equal(t, e.configPath+"\n", e.run("", "config", "path").stdout)
}

func TestConfig_BadFile(t *testing.T) {
	e := newEnv(t)
	require.NoError(t, os.WriteFile(e.configPath, []byte("[poll]\ninterval_secs = 0\n[api\n"), 0600))
	res := e.run("", "version")
	assert.Equal(t, ExitConfigError, res.code)
}

func TestVersion_JSON(t *testing.T) {
	e := newEnv(t)
	res := e.run("", "--json", "version")
	require.Equal(t, ExitSuccess, res.code)
	var info VersionInfo
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, res.stdout).Data, &info))
	assert.Equal(t, Version, info.Version)
}

func TestJSONErrorEnvelope(t *testing.T) {
	e := newEnv(t)
	res := e.run("", "--json", "list")
	assert.Equal(t, ExitAuthError, res.code)
	env := decodeEnvelope(t, res.stdout)
	assert.False(t, env.Success)
	require.NotNil(t, env.Error)
	assert.Contains(t, *env.Error, "not logged in")
}

// =============================================================================
// EXIT CODES
// =============================================================================

func TestExitCodeFor(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitSuccess},
		{"not logged in", ErrNotLoggedIn, ExitAuthError},
		{"unauthorized", fmt.Errorf("wrapped: %w", &api.ClientError{Type: api.ErrTypeUnauthorized, Status: 401}), ExitAuthError},
		{"validation", NewValidationError("id", "x", "bad"), ExitUsageError},
		{"api validation", &api.ClientError{Type: api.ErrTypeValidation, Status: 422}, ExitUsageError},
		{"usage", &usageError{err: errors.New("accepts 1 arg(s)")}, ExitUsageError},
		{"config", &ConfigError{Path: "x", Err: errors.New("bad")}, ExitConfigError},
		{"not found", NewCommandError("show", "x", &api.ClientError{Type: api.ErrTypeNotFound, Status: 404}), ExitNotFoundError},
		{"cache miss", storage.ErrRecordNotFound, ExitNotFoundError},
		{"timeout", &api.ClientError{Type: api.ErrTypeTimeout}, ExitTimeoutError},
		{"connection", &api.ClientError{Type: api.ErrTypeConnection}, ExitNetworkError},
		{"other", errors.New("boom"), ExitGeneralError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExitCodeFor(tt.err))
		})
	}
}
