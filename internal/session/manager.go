package session

import (
	"context"
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"
)

// ManagerOptions configures the session cookie.
type ManagerOptions struct {
	CookieName string
	Secret     string
	TTL        time.Duration
	// Secure marks the cookie HTTPS-only; set in production.
	Secure bool
}

// Manager ties a Store to the HTTP-only cookie that names the session.
type Manager struct {
	store  Store
	codec  *CookieCodec
	name   string
	ttl    time.Duration
	secure bool
}

func NewManager(store Store, opts ManagerOptions) *Manager {
	return &Manager{
		store:  store,
		codec:  NewCookieCodec(opts.Secret, opts.TTL),
		name:   opts.CookieName,
		ttl:    opts.TTL,
		secure: opts.Secure,
	}
}

// Load returns the session named by the request cookie, or ErrNotFound.
func (m *Manager) Load(r *http.Request) (*Data, error) {
	id, ok := m.sessionID(r)
	if !ok {
		return nil, ErrNotFound
	}
	return m.store.Get(r.Context(), id)
}

// Login starts a fresh session for data. Any session presented by the request is destroyed first,
// so a session id planted before login never becomes authenticated.
func (m *Manager) Login(ctx context.Context, w http.ResponseWriter, r *http.Request, data Data) error {
	if id, ok := m.sessionID(r); ok {
		if err := m.store.Destroy(ctx, id); err != nil {
			log.Warnf("destroy previous session on login: %s", err)
		}
	}

	if data.CreatedAt.IsZero() {
		data.CreatedAt = time.Now().UTC()
	}
	id, err := m.store.Create(ctx, data)
	if err != nil {
		return err
	}
	value, err := m.codec.Encode(id)
	if err != nil {
		_ = m.store.Destroy(ctx, id)
		return err
	}

	http.SetCookie(w, m.cookie(value, int(m.ttl.Seconds()), time.Now().Add(m.ttl)))
	return nil
}

// Logout destroys the request's session, if any, and clears the cookie.
func (m *Manager) Logout(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	var err error
	if id, ok := m.sessionID(r); ok {
		err = m.store.Destroy(ctx, id)
	}
	http.SetCookie(w, m.cookie("", -1, time.Unix(0, 0)))
	return err
}

func (m *Manager) sessionID(r *http.Request) (string, bool) {
	cookie, err := r.Cookie(m.name)
	if err != nil || cookie.Value == "" {
		return "", false
	}
	id, err := m.codec.Decode(cookie.Value)
	if err != nil {
		log.Debugf("ignoring session cookie: %s", err)
		return "", false
	}
	return id, true
}

func (m *Manager) cookie(value string, maxAge int, expires time.Time) *http.Cookie {
	return &http.Cookie{
		Name:     m.name,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		Expires:  expires,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteStrictMode,
	}
}
