package auth

import (
	"fmt"
	"time"

	"crm-backend/internal/models"

	"github.com/golang-jwt/jwt/v5"
)

// RememberCookie hält das "Angemeldet bleiben"-Token.
const RememberCookie = "crm_remember"

const rememberTTL = 30 * 24 * time.Hour

type rememberClaims struct {
	UserID uint `json:"user_id"`
	jwt.RegisteredClaims
}

func GenerateRememberToken(secret string, user *models.User) (string, error) {
	claims := &rememberClaims{
		UserID: user.ID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.Username,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(rememberTTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ParseRememberToken liefert die Benutzer-ID aus einem gültigen Token.
func ParseRememberToken(secret, tokenStr string) (uint, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &rememberClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("ungültiges Signaturverfahren")
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return 0, fmt.Errorf("ungültiges oder abgelaufenes Token")
	}

	claims, ok := token.Claims.(*rememberClaims)
	if !ok || claims.UserID == 0 {
		return 0, fmt.Errorf("Token konnte nicht gelesen werden")
	}
	return claims.UserID, nil
}
