package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/authgate/internal/common"
	"github.com/dmitrijs2005/authgate/internal/directory"
	"github.com/dmitrijs2005/authgate/internal/logging"
	"github.com/dmitrijs2005/authgate/internal/server/config"
	"github.com/dmitrijs2005/authgate/internal/server/creds"
	"github.com/dmitrijs2005/authgate/internal/server/users"
	"golang.org/x/crypto/bcrypt"
)

const testSecret = "test-signing-secret"

func newTestServer(t *testing.T, dir directory.Client) *Server {
	t.Helper()
	cfg := &config.Config{
		SecretKey:             testSecret,
		TokenValidityDuration: time.Hour,
	}
	us, err := users.NewService(dir, creds.NewHasher(bcrypt.MinCost), cfg)
	if err != nil {
		t.Fatalf("users.NewService error: %v", err)
	}
	return NewServer(":0", logging.NewNop(), us, testSecret)
}

func doJSON(t *testing.T, s *Server, method, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}

func TestRegister_Success(t *testing.T) {
	s := newTestServer(t, directory.NewInMemory())

	w := doJSON(t, s, http.MethodPost, "/register", map[string]string{
		"username": "alice",
		"password": "correctPW",
		"email":    "a@x.com",
	}, nil)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp["username"] != "alice" || resp["email"] != "a@x.com" {
		t.Fatalf("unexpected response: %v", resp)
	}

	// No credential material leaks into the response.
	body := w.Body.String()
	for _, banned := range []string{"correctPW", "hash", "$2a$", "$2b$"} {
		if strings.Contains(body, banned) {
			t.Fatalf("response leaks credential material (%q): %s", banned, body)
		}
	}
}

func TestRegister_DuplicateIsGenericConflict(t *testing.T) {
	dir := directory.NewInMemory()
	s := newTestServer(t, dir)

	first := doJSON(t, s, http.MethodPost, "/register", map[string]string{
		"username": "alice", "password": "pw1", "email": "a@x.com",
	}, nil)
	if first.Code != http.StatusOK {
		t.Fatalf("first register: expected 200, got %d", first.Code)
	}

	second := doJSON(t, s, http.MethodPost, "/register", map[string]string{
		"username": "alice", "password": "pw2", "email": "other@x.com",
	}, nil)
	if second.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", second.Code)
	}
	if strings.Contains(second.Body.String(), "username") {
		t.Fatalf("conflict response must not reveal which field collided: %s", second.Body.String())
	}
}

func TestRegister_BadRequests(t *testing.T) {
	s := newTestServer(t, directory.NewInMemory())

	tests := []struct {
		name string
		body any
	}{
		{"missing password", map[string]string{"username": "alice", "email": "a@x.com"}},
		{"missing username", map[string]string{"password": "pw", "email": "a@x.com"}},
		{"bad email", map[string]string{"username": "alice", "password": "pw", "email": "not-an-email"}},
		{"empty body", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(t, s, http.MethodPost, "/register", tt.body, nil)
			if w.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", w.Code)
			}
		})
	}
}

func TestLoginAfterRegister_IssuesVerifiableToken(t *testing.T) {
	s := newTestServer(t, directory.NewInMemory())

	doJSON(t, s, http.MethodPost, "/register", map[string]string{
		"username": "alice", "password": "correctPW", "email": "a@x.com",
	}, nil)

	w := doJSON(t, s, http.MethodPost, "/login", map[string]string{
		"username": "alice", "password": "correctPW",
	}, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp["token"] == "" {
		t.Fatalf("expected a token in the response")
	}

	// The token works against the protected endpoint.
	me := doJSON(t, s, http.MethodGet, "/me", nil, map[string]string{
		"Authorization": "Bearer " + resp["token"],
	})
	if me.Code != http.StatusOK {
		t.Fatalf("/me with fresh token: expected 200, got %d", me.Code)
	}
	if !strings.Contains(me.Body.String(), "alice") {
		t.Fatalf("/me should echo the subject: %s", me.Body.String())
	}
}

func TestLogin_FailureModesAreIndistinguishable(t *testing.T) {
	s := newTestServer(t, directory.NewInMemory())

	doJSON(t, s, http.MethodPost, "/register", map[string]string{
		"username": "alice", "password": "correctPW", "email": "a@x.com",
	}, nil)

	wrongPW := doJSON(t, s, http.MethodPost, "/login", map[string]string{
		"username": "alice", "password": "wrongPW",
	}, nil)
	unknownUser := doJSON(t, s, http.MethodPost, "/login", map[string]string{
		"username": "ghost", "password": "whatever",
	}, nil)

	if wrongPW.Code != http.StatusUnauthorized || unknownUser.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401/401, got %d/%d", wrongPW.Code, unknownUser.Code)
	}
	if wrongPW.Body.String() != unknownUser.Body.String() {
		t.Fatalf("bodies differ between failure modes: %q vs %q",
			wrongPW.Body.String(), unknownUser.Body.String())
	}
}

type failingDirectory struct{ err error }

func (f *failingDirectory) CreateUser(ctx context.Context, user *directory.User) (*directory.User, error) {
	return nil, f.err
}
func (f *failingDirectory) GetUser(ctx context.Context, username string) (*directory.User, error) {
	return nil, f.err
}

func TestDirectoryFailure_IsInternalError(t *testing.T) {
	s := newTestServer(t, &failingDirectory{err: common.ErrUnavailable})

	login := doJSON(t, s, http.MethodPost, "/login", map[string]string{
		"username": "alice", "password": "pw",
	}, nil)
	if login.Code != http.StatusInternalServerError {
		t.Fatalf("login during outage: expected 500, got %d", login.Code)
	}
	if strings.Contains(login.Body.String(), "directory") {
		t.Fatalf("internal detail leaked to client: %s", login.Body.String())
	}

	register := doJSON(t, s, http.MethodPost, "/register", map[string]string{
		"username": "alice", "password": "pw", "email": "a@x.com",
	}, nil)
	if register.Code != http.StatusInternalServerError {
		t.Fatalf("register during outage: expected 500, got %d", register.Code)
	}
}

func TestMe_RejectsMissingOrBadTokens(t *testing.T) {
	s := newTestServer(t, directory.NewInMemory())

	tests := []struct {
		name    string
		headers map[string]string
	}{
		{"no header", nil},
		{"not bearer", map[string]string{"Authorization": "Basic abc"}},
		{"garbage token", map[string]string{"Authorization": "Bearer not.a.jwt"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(t, s, http.MethodGet, "/me", nil, tt.headers)
			if w.Code != http.StatusUnauthorized {
				t.Fatalf("expected 401, got %d", w.Code)
			}
		})
	}
}

func TestRequestID_EchoedInResponse(t *testing.T) {
	s := newTestServer(t, directory.NewInMemory())

	w := doJSON(t, s, http.MethodGet, "/health", nil, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if w.Header().Get("X-Request-ID") == "" {
		t.Fatalf("expected X-Request-ID header on the response")
	}
}
