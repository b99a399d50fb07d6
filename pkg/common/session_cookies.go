package common

import (
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/matst80/slask-shelf/pkg/types"
	"github.com/pkg/errors"
)

const sessionCookieName = "sid"

// SessionSigner issues and verifies the signed session cookie. The token
// only names the browser session; it carries no user identity.
type SessionSigner struct {
	secret []byte
	maxAge time.Duration
}

func NewSessionSigner(secret string, maxAge time.Duration) *SessionSigner {
	if secret == "" {
		secret = uuid.NewString()
	}
	return &SessionSigner{secret: []byte(secret), maxAge: maxAge}
}

func (s *SessionSigner) Sign(sessionId string) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:  sessionId,
		IssuedAt: jwt.NewNumericDate(now),
	}
	if s.maxAge > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(s.maxAge))
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// Verify returns the session id of a valid token.
func (s *SessionSigner) Verify(token string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return "", errors.Wrap(err, "verify session token")
	}
	if _, err := uuid.Parse(claims.Subject); err != nil {
		return "", errors.Wrap(err, "session id")
	}
	return claims.Subject, nil
}

func (s *SessionSigner) setSessionCookie(w http.ResponseWriter, r *http.Request, sessionId string) error {
	token, err := s.Sign(sessionId)
	if err != nil {
		return err
	}
	cookie := &http.Cookie{
		Name:     sessionCookieName,
		Value:    token,
		SameSite: http.SameSiteLaxMode,
		HttpOnly: true,
		Path:     "/",
	}
	if s.maxAge > 0 {
		cookie.MaxAge = int(s.maxAge.Seconds())
	}
	http.SetCookie(w, cookie)
	return nil
}

// HandleSessionCookie returns the session id of the request, issuing a new
// session when the cookie is missing or does not verify.
func HandleSessionCookie(signer *SessionSigner, tracking types.Tracking, w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(sessionCookieName); err == nil {
		if sessionId, err := signer.Verify(c.Value); err == nil {
			return sessionId
		}
	}
	sessionId := uuid.NewString()
	if err := signer.setSessionCookie(w, r, sessionId); err != nil {
		// still usable for this request, the next one gets a new session
		return sessionId
	}
	if tracking != nil {
		tracking.TrackSession(sessionId, r)
	}
	return sessionId
}
