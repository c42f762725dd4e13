package identity

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/euRhuanOLiveira/Driverpro/internal/domain"
	"github.com/euRhuanOLiveira/Driverpro/pkg"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewClient(slog.New(slog.NewTextHandler(io.Discard, nil)), &pkg.AuthCfg{
		IdentityURL: srv.URL + "/",
		AnonKey:     "anon",
	})
}

func TestSignIn(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/v1/token" || r.URL.Query().Get("grant_type") != "password" {
			t.Errorf("unexpected url %s", r.URL)
		}
		if r.Header.Get("apikey") != "anon" {
			t.Errorf("apikey header = %q", r.Header.Get("apikey"))
		}
		var cred Credentials
		_ = json.NewDecoder(r.Body).Decode(&cred)
		if cred.Email != "ana@example.com" || cred.Password != "secret" {
			t.Errorf("credentials = %+v", cred)
		}
		_, _ = w.Write([]byte(`{"access_token":"tok","token_type":"bearer","expires_in":3600,"refresh_token":"r","user":{"id":"u-1","email":"ana@example.com"}}`))
	})

	tokens, err := c.SignIn(context.Background(), Credentials{Email: "ana@example.com", Password: "secret"})
	if err != nil {
		t.Fatalf("SignIn: %v", err)
	}
	if tokens.AccessToken != "tok" || tokens.User.ID != "u-1" {
		t.Errorf("tokens = %+v", tokens)
	}
}

func TestSignInRejected(t *testing.T) {
	tests := []struct {
		name string
		code int
		body string
		want string
	}{
		{"oauth shape", http.StatusBadRequest, `{"error":"invalid_grant","error_description":"Invalid login credentials"}`, "Invalid login credentials"},
		{"msg shape", http.StatusUnprocessableEntity, `{"code":422,"msg":"Password should be at least 6 characters"}`, "Password should be at least 6 characters"},
		{"no body", http.StatusInternalServerError, ``, "Ocorreu um erro na autenticação."},
	}

	for _, tt := range tests {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(tt.code)
			_, _ = w.Write([]byte(tt.body))
		})
		_, err := c.SignIn(context.Background(), Credentials{Email: "a@b.c", Password: "x"})
		var authErr *domain.AuthError
		if !errors.As(err, &authErr) {
			t.Fatalf("%s: err = %v; want AuthError", tt.name, err)
		}
		if authErr.Status != tt.code || authErr.Error() != tt.want {
			t.Errorf("%s: got %d %q; want %d %q", tt.name, authErr.Status, authErr.Error(), tt.code, tt.want)
		}
	}
}

func TestSignUpWithConfirmation(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/v1/signup" {
			t.Errorf("path = %s", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{"id":"u-9","email":"new@example.com"}`))
	})

	tokens, err := c.SignUp(context.Background(), Credentials{Email: "new@example.com", Password: "secret"})
	if err != nil {
		t.Fatalf("SignUp: %v", err)
	}
	if tokens.AccessToken != "" || tokens.User.ID != "u-9" {
		t.Errorf("tokens = %+v", tokens)
	}
}

func TestProviderUnreachable(t *testing.T) {
	c := NewClient(slog.New(slog.NewTextHandler(io.Discard, nil)), &pkg.AuthCfg{IdentityURL: "http://127.0.0.1:1"})

	_, err := c.SignIn(context.Background(), Credentials{})
	var authErr *domain.AuthError
	if !errors.As(err, &authErr) || authErr.Status != http.StatusBadGateway {
		t.Errorf("err = %v; want AuthError 502", err)
	}
}
