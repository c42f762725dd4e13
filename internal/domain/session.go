package domain

import "context"

type SessionState string

const (
	Unauthenticated SessionState = "unauthenticated"
	Authenticated   SessionState = "authenticated"
	DataLoaded      SessionState = "data-loaded"
)

// Session is the identity every data access is made on behalf of.
type Session struct {
	UserID string
	Email  string
	State  SessionState
}

func NewSession(userID, email string) *Session {
	if userID == "" {
		return &Session{State: Unauthenticated}
	}
	return &Session{UserID: userID, Email: email, State: Authenticated}
}

func (s *Session) Active() bool {
	return s != nil && s.UserID != "" && s.State != Unauthenticated
}

func (s *Session) MarkLoaded() {
	if s.Active() {
		s.State = DataLoaded
	}
}

type sessionCtxKey struct{}

func WithSession(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, sessionCtxKey{}, s)
}

func SessionFrom(ctx context.Context) *Session {
	s, _ := ctx.Value(sessionCtxKey{}).(*Session)
	return s
}
