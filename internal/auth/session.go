package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
)

const (
	sessKeyPendingUser = "pending_user_id"
	sessKeyPendingNext = "pending_next"
	sessKeyUserID      = "user_id"
)

// LoginSession kapselt den Session-Zustand einer Anfrage: angemeldeter
// Benutzer sowie der schwebende 2FA-Zustand (Passwort geprüft, Code noch
// nicht). Wird pro Request explizit geholt und weitergereicht.
type LoginSession struct {
	sess *session.Session
}

func GetLoginSession(store *session.Store, c *fiber.Ctx) (*LoginSession, error) {
	sess, err := store.Get(c)
	if err != nil {
		return nil, err
	}
	return &LoginSession{sess: sess}, nil
}

func (s *LoginSession) UserID() uint {
	return asUint(s.sess.Get(sessKeyUserID))
}

func (s *LoginSession) SetUserID(id uint) {
	s.sess.Set(sessKeyUserID, id)
}

func (s *LoginSession) PendingUserID() uint {
	return asUint(s.sess.Get(sessKeyPendingUser))
}

func (s *LoginSession) PendingNext() string {
	if v, ok := s.sess.Get(sessKeyPendingNext).(string); ok {
		return v
	}
	return ""
}

// SetPending merkt den Benutzer nach erfolgreicher Passwortprüfung vor -
// angemeldet ist er damit noch nicht.
func (s *LoginSession) SetPending(userID uint, next string) {
	s.sess.Set(sessKeyPendingUser, userID)
	if next != "" {
		s.sess.Set(sessKeyPendingNext, next)
	} else {
		s.sess.Delete(sessKeyPendingNext)
	}
}

func (s *LoginSession) ClearPending() {
	s.sess.Delete(sessKeyPendingUser)
	s.sess.Delete(sessKeyPendingNext)
}

func (s *LoginSession) Save() error {
	return s.sess.Save()
}

func (s *LoginSession) Destroy() error {
	return s.sess.Destroy()
}

// SanitizeNext akzeptiert nur relative Pfade derselben Origin. "//host"
// wäre eine offene Weiterleitung und wird ebenfalls verworfen.
func SanitizeNext(next string) string {
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") {
		return ""
	}
	return next
}

func asUint(v any) uint {
	switch n := v.(type) {
	case uint:
		return n
	case int:
		if n > 0 {
			return uint(n)
		}
	case int64:
		if n > 0 {
			return uint(n)
		}
	case uint64:
		return uint(n)
	case float64:
		if n > 0 {
			return uint(n)
		}
	}
	return 0
}
