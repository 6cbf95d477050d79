package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/example/cineflix/internal/platform/auth"
)

var testIssuer = auth.Issuer{Secret: []byte("test-secret"), TTL: time.Hour}

func TestRegister_OK(t *testing.T) {
	e := newEnv(t)
	req := newReq(t, http.MethodPost, "/v1/auth/register", registerRequest{
		Username: "alice", Email: "alice@example.com", Password: "Str0ng!pass",
	})
	rr := httptest.NewRecorder()
	Register(e.users, testIssuer, nil).ServeHTTP(rr, req)

	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rr.Code, rr.Body.String())
	}
	resp := decodeBody(t, rr)
	if resp["access_token"] == "" || resp["access_token"] == nil {
		t.Fatal("expected access_token in response")
	}
	u, ok := resp["user"].(map[string]any)
	if !ok || u["username"] != "alice" || u["role"] != "user" {
		t.Fatalf("user = %v", resp["user"])
	}
}

func TestRegister_WeakPassword(t *testing.T) {
	e := newEnv(t)
	req := newReq(t, http.MethodPost, "/v1/auth/register", registerRequest{
		Username: "alice", Email: "alice@example.com", Password: "weak",
	})
	rr := httptest.NewRecorder()
	Register(e.users, testIssuer, nil).ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
}

func TestRegister_DuplicateUsername(t *testing.T) {
	e := newEnv(t)
	body := registerRequest{Username: "alice", Email: "alice@example.com", Password: "Str0ng!pass"}

	rr := httptest.NewRecorder()
	Register(e.users, testIssuer, nil).ServeHTTP(rr, newReq(t, http.MethodPost, "/v1/auth/register", body))
	if rr.Code != http.StatusCreated {
		t.Fatalf("first register: %d", rr.Code)
	}

	body.Email = "other@example.com"
	rr = httptest.NewRecorder()
	Register(e.users, testIssuer, nil).ServeHTTP(rr, newReq(t, http.MethodPost, "/v1/auth/register", body))
	if rr.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rr.Code)
	}
}

func TestLogin_OK(t *testing.T) {
	e := newEnv(t)
	rr := httptest.NewRecorder()
	Register(e.users, testIssuer, nil).ServeHTTP(rr, newReq(t, http.MethodPost, "/v1/auth/register", registerRequest{
		Username: "alice", Email: "alice@example.com", Password: "Str0ng!pass",
	}))
	if rr.Code != http.StatusCreated {
		t.Fatalf("register: %d", rr.Code)
	}

	rr = httptest.NewRecorder()
	Login(e.users, testIssuer, nil).ServeHTTP(rr, newReq(t, http.MethodPost, "/v1/auth/login", loginRequest{
		Login: "alice", Password: "Str0ng!pass",
	}))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}

	// The minted token must verify with the same secret.
	resp := decodeBody(t, rr)
	token, _ := resp["access_token"].(string)
	claims, err := auth.JWTVerifier{Secret: []byte("test-secret")}.Parse(token)
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}
	if claims.Subject != "alice" {
		t.Fatalf("subject = %q, want alice", claims.Subject)
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	e := newEnv(t)
	rr := httptest.NewRecorder()
	Register(e.users, testIssuer, nil).ServeHTTP(rr, newReq(t, http.MethodPost, "/v1/auth/register", registerRequest{
		Username: "alice", Email: "alice@example.com", Password: "Str0ng!pass",
	}))

	rr = httptest.NewRecorder()
	Login(e.users, testIssuer, nil).ServeHTTP(rr, newReq(t, http.MethodPost, "/v1/auth/login", loginRequest{
		Login: "alice", Password: "wrong",
	}))
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rr.Code)
	}
}

func TestLogin_UnknownUser(t *testing.T) {
	e := newEnv(t)
	rr := httptest.NewRecorder()
	Login(e.users, testIssuer, nil).ServeHTTP(rr, newReq(t, http.MethodPost, "/v1/auth/login", loginRequest{
		Login: "ghost", Password: "Str0ng!pass",
	}))
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rr.Code)
	}
}
