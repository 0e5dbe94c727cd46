package sessionsvc

import (
	"context"
	"encoding/json"

	"github.com/pkg/errors"

	"github.com/trezcool/admitdesk/core"
)

const sessionKey = "session"

// record is the stored form of a core.Session; unlike the session it keeps the token.
type record struct {
	Token string `json:"token"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// Provider reads and writes the session of the local user in a Store.
type Provider struct {
	store Store
}

var _ core.SessionProvider = (*Provider)(nil)

func NewProvider(store Store) *Provider {
	return &Provider{store: store}
}

func (p *Provider) Session(ctx context.Context) (core.Session, error) {
	val, err := p.store.Get(ctx, sessionKey)
	if err == ErrNotFound {
		return core.Session{}, core.ErrNoSession
	}
	if err != nil {
		return core.Session{}, errors.Wrap(err, "loading session")
	}

	var rec record
	if err := json.Unmarshal(val, &rec); err != nil {
		return core.Session{}, errors.Wrap(err, "decoding session")
	}
	sess := core.Session{Token: rec.Token, Name: rec.Name, Email: rec.Email, Role: rec.Role}
	if sess.IsZero() {
		return core.Session{}, core.ErrNoSession
	}
	return sess, nil
}

func (p *Provider) Save(ctx context.Context, sess core.Session) error {
	if sess.IsZero() {
		return errors.Wrap(core.ErrNoSession, "saving session without a token")
	}
	val, err := json.Marshal(record{Token: sess.Token, Name: sess.Name, Email: sess.Email, Role: sess.Role})
	if err != nil {
		return errors.Wrap(err, "encoding session")
	}
	return errors.Wrap(p.store.Set(ctx, sessionKey, val), "saving session")
}

func (p *Provider) Clear(ctx context.Context) error {
	return errors.Wrap(p.store.Delete(ctx, sessionKey), "clearing session")
}

// Static always provides the same session; ErrNoSession when it has no token.
type Static core.Session

var _ core.SessionProvider = Static{}

func (s Static) Session(context.Context) (core.Session, error) {
	if sess := core.Session(s); !sess.IsZero() {
		return sess, nil
	}
	return core.Session{}, core.ErrNoSession
}
