package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/euRhuanOLiveira/Driverpro/internal/domain"
	"github.com/euRhuanOLiveira/Driverpro/pkg"
)

const (
	signInPath = "/auth/v1/token?grant_type=password"
	signUpPath = "/auth/v1/signup"
)

type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// Tokens is the provider session. AccessToken is what the dashboard API
// expects as a bearer token.
type Tokens struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
	RefreshToken string `json:"refresh_token"`
	User         User   `json:"user"`
}

// providerError covers both error shapes GoTrue has used.
type providerError struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
	Msg              string `json:"msg"`
	Message          string `json:"message"`
}

func (e providerError) text() string {
	for _, s := range []string{e.ErrorDescription, e.Msg, e.Message, e.Error} {
		if s != "" {
			return s
		}
	}
	return ""
}

// Client talks to a GoTrue compatible identity provider.
type Client struct {
	slogger *slog.Logger
	baseURL string
	anonKey string
	http    *http.Client
}

func NewClient(slogger *slog.Logger, cfg *pkg.AuthCfg) *Client {
	return &Client{
		slogger: slogger,
		baseURL: strings.TrimRight(cfg.IdentityURL, "/"),
		anonKey: cfg.AnonKey,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *Client) SignIn(ctx context.Context, cred Credentials) (*Tokens, error) {
	tokens := new(Tokens)
	if err := c.post(ctx, signInPath, cred, tokens); err != nil {
		return nil, err
	}
	return tokens, nil
}

// SignUp returns tokens only when the provider signs the user in right away.
// With email confirmation on, AccessToken is empty and User is set.
func (c *Client) SignUp(ctx context.Context, cred Credentials) (*Tokens, error) {
	body, err := c.do(ctx, signUpPath, cred)
	if err != nil {
		return nil, err
	}

	tokens := new(Tokens)
	if err := json.Unmarshal(body, tokens); err != nil {
		return nil, fmt.Errorf("decode signup response: %w", err)
	}
	if tokens.AccessToken == "" && tokens.User.ID == "" {
		// confirmation flow: the body is the user itself
		if err := json.Unmarshal(body, &tokens.User); err != nil {
			return nil, fmt.Errorf("decode signup user: %w", err)
		}
	}
	return tokens, nil
}

func (c *Client) post(ctx context.Context, path string, in, out any) error {
	body, err := c.do(ctx, path, in)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}

func (c *Client) do(ctx context.Context, path string, in any) ([]byte, error) {
	payload, err := json.Marshal(in)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("apikey", c.anonKey)

	resp, err := c.http.Do(req)
	if err != nil {
		c.slogger.Error("identity provider unreachable", "action", "auth", "path", path, "error", err)
		return nil, &domain.AuthError{Status: http.StatusBadGateway}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= http.StatusBadRequest {
		var perr providerError
		_ = json.Unmarshal(body, &perr)
		c.slogger.Info("identity provider rejected request", "action", "auth", "path", path, "status", resp.StatusCode)
		return nil, &domain.AuthError{Status: resp.StatusCode, Message: perr.text()}
	}
	return body, nil
}
