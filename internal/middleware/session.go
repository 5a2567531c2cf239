package middleware

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/esvchat/bible-chat/backend/pkg/log"
)

type sessionKey struct{}

const sessionIssuer = "bible-chat"

// SessionManager binds every request to a session id carried in an HS256
// signed cookie. Missing, tampered or expired cookies start a new session.
type SessionManager struct {
	cookieName string
	secret     []byte
	ttl        time.Duration
	secure     bool
	now        func() time.Time
}

// SessionOptions configures a SessionManager.
type SessionOptions struct {
	CookieName string
	// Secret signs the cookie. When empty a random per-process key is used, so
	// sessions do not survive a restart.
	Secret string
	TTL    time.Duration
	Secure bool
}

// NewSessionManager validates opts and returns a manager.
func NewSessionManager(opts SessionOptions) (*SessionManager, error) {
	if opts.CookieName == "" {
		return nil, errors.New("session cookie name is required")
	}
	if opts.TTL <= 0 {
		return nil, errors.New("session ttl must be positive")
	}

	secret := []byte(opts.Secret)
	if len(secret) == 0 {
		secret = make([]byte, 32)
		if _, err := rand.Read(secret); err != nil {
			return nil, fmt.Errorf("generate session secret: %w", err)
		}
		log.Warnf("SESSION_SECRET not set, using a random key; sessions reset on restart")
	}

	return &SessionManager{
		cookieName: opts.CookieName,
		secret:     secret,
		ttl:        opts.TTL,
		secure:     opts.Secure,
		now:        time.Now,
	}, nil
}

// Middleware resolves the session id and stores it in the request context.
func (m *SessionManager) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := m.sessionFromRequest(r)
		if !ok {
			var err error
			id, err = m.issue(w)
			if err != nil {
				log.Error("failed to issue session cookie", err)
				http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
				return
			}
		}
		next.ServeHTTP(w, r.WithContext(WithSessionID(r.Context(), id)))
	})
}

func (m *SessionManager) sessionFromRequest(r *http.Request) (string, bool) {
	cookie, err := r.Cookie(m.cookieName)
	if err != nil || cookie.Value == "" {
		return "", false
	}

	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(cookie.Value, claims, func(*jwt.Token) (interface{}, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(sessionIssuer),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil || !token.Valid || claims.ID == "" {
		return "", false
	}
	return claims.ID, true
}

func (m *SessionManager) issue(w http.ResponseWriter) (string, error) {
	id := uuid.NewString()
	now := m.now()
	expires := now.Add(m.ttl)

	claims := jwt.RegisteredClaims{
		ID:        id,
		Issuer:    sessionIssuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expires),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("sign session token: %w", err)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     m.cookieName,
		Value:    signed,
		Path:     "/",
		Expires:  expires,
		MaxAge:   int(m.ttl.Seconds()),
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return id, nil
}

// WithSessionID returns a copy of ctx carrying id.
func WithSessionID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, sessionKey{}, id)
}

// SessionID returns the session id stored by Middleware, or "".
func SessionID(ctx context.Context) string {
	id, _ := ctx.Value(sessionKey{}).(string)
	return id
}
