package core

import (
	"context"

	"github.com/pkg/errors"
)

var ErrNoSession = errors.New("no session")

// Session is the dashboard user's session context: the backend bearer token and basic profile fields.
type Session struct {
	Token string `json:"-"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

func (s Session) IsZero() bool {
	return s.Token == ""
}

// SessionProvider is a read-only source of the current Session.
type SessionProvider interface {
	Session(ctx context.Context) (Session, error)
}

// SessionFunc adapts a func to a SessionProvider.
type SessionFunc func(ctx context.Context) (Session, error)

func (f SessionFunc) Session(ctx context.Context) (Session, error) {
	return f(ctx)
}
