package auth

import (
	"errors"
	"strings"

	"crm-backend/internal/config"
	"crm-backend/internal/database"
	"crm-backend/internal/mailer"
	"crm-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
	"gorm.io/gorm"
)

// Ziel nach erfolgreicher Anmeldung, wenn kein next-Parameter gesetzt war.
const DefaultLanding = "/customers"

type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Confirm  string `json:"confirm"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type VerifyRequest struct {
	Code     string `json:"code"`
	Remember bool   `json:"remember"`
}

// RegisterHandler legt einen Benutzer an (E-Mail + Passwort mit Wiederholung).
func RegisterHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body RegisterRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Ungültiger Anfrageinhalt")
		}

		email := strings.TrimSpace(strings.ToLower(body.Email))
		if email == "" || !strings.Contains(email, "@") {
			return fiber.NewError(fiber.StatusBadRequest, "Ungültige E-Mail")
		}
		if len(body.Password) < 6 {
			return fiber.NewError(fiber.StatusBadRequest, "Passwort muss mindestens 6 Zeichen haben")
		}
		if body.Password != body.Confirm {
			return fiber.NewError(fiber.StatusBadRequest, "Passwörter stimmen nicht überein")
		}

		var existing models.User
		if err := database.DB.Where("username = ?", email).First(&existing).Error; err == nil {
			return fiber.NewError(fiber.StatusBadRequest, "E-Mail bereits registriert.")
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusInternalServerError, "Benutzer konnte nicht geprüft werden")
		}

		hash, err := HashPassword(body.Password)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Passwort konnte nicht gespeichert werden")
		}

		user := models.User{
			Username:     email,
			PasswordHash: hash,
			Role:         models.RoleStaff,
		}
		if err := database.DB.Create(&user).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Benutzer konnte nicht angelegt werden")
		}

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"message": "Benutzer angelegt. Bitte anmelden.",
		})
	}
}

// LoginHandler prüft die Zugangsdaten und startet die Zwei-Faktor-Anmeldung.
// Ein optionales ?next= wird nur als relativer Pfad übernommen.
func LoginHandler(store *session.Store, m mailer.Mailer) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sess, err := GetLoginSession(store, c)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Session konnte nicht geladen werden")
		}

		if sess.UserID() != 0 {
			return c.JSON(fiber.Map{
				"message":  "Bereits angemeldet.",
				"redirect": DefaultLanding,
			})
		}

		var body LoginRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Ungültiger Anfrageinhalt")
		}

		email := strings.TrimSpace(strings.ToLower(body.Email))

		var user models.User
		if err := database.DB.Where("username = ?", email).First(&user).Error; err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "Ungültige E-Mail oder Passwort.")
		}
		if !CheckPassword(user.PasswordHash, body.Password) {
			return fiber.NewError(fiber.StatusUnauthorized, "Ungültige E-Mail oder Passwort.")
		}

		if err := StartFlow(database.DB, m, &user); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Code konnte nicht erzeugt werden")
		}

		sess.SetPending(user.ID, SanitizeNext(c.Query("next")))
		if err := sess.Save(); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Session konnte nicht gespeichert werden")
		}

		return c.JSON(fiber.Map{
			"message": "Wir haben dir einen 5-stelligen Code geschickt. Bitte gib ihn ein.",
		})
	}
}

// VerifyHandler prüft den eingegebenen Code. Mit ?resend=1 wird stattdessen
// ein neuer Code verschickt, ohne erneute Passworteingabe. Schlägt die
// Prüfung fehl, bleibt der schwebende Zustand erhalten.
func VerifyHandler(cfg *config.Config, store *session.Store, m mailer.Mailer) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sess, err := GetLoginSession(store, c)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Session konnte nicht geladen werden")
		}

		pendingID := sess.PendingUserID()
		if pendingID == 0 {
			return fiber.NewError(fiber.StatusUnauthorized, "Sitzung ist abgelaufen. Bitte erneut anmelden.")
		}

		var user models.User
		if err := database.DB.First(&user, pendingID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Benutzer nicht gefunden")
		}

		if c.Query("resend") == "1" {
			if err := StartFlow(database.DB, m, &user); err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "Code konnte nicht erzeugt werden")
			}
			return c.JSON(fiber.Map{"message": "Neuer Code gesendet."})
		}

		var body VerifyRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Ungültiger Anfrageinhalt")
		}

		if err := VerifyCode(database.DB, user.ID, strings.TrimSpace(body.Code)); err != nil {
			if errors.Is(err, ErrInvalidCode) {
				return fiber.NewError(fiber.StatusUnauthorized, "Ungültiger oder abgelaufener Code.")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "Code konnte nicht geprüft werden")
		}

		next := sess.PendingNext()
		if next == "" {
			next = DefaultLanding
		}
		sess.ClearPending()
		sess.SetUserID(user.ID)
		if err := sess.Save(); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Session konnte nicht gespeichert werden")
		}

		if body.Remember {
			token, err := GenerateRememberToken(cfg.JWTSecret, &user)
			if err == nil {
				c.Cookie(&fiber.Cookie{
					Name:     RememberCookie,
					Value:    token,
					MaxAge:   int(rememberTTL.Seconds()),
					HTTPOnly: true,
					SameSite: fiber.CookieSameSiteLaxMode,
				})
			}
		}

		return c.JSON(fiber.Map{
			"message":  "Login erfolgreich!",
			"redirect": next,
		})
	}
}

// LogoutHandler beendet die Anmeldung und löscht das Remember-Cookie.
func LogoutHandler(store *session.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sess, err := GetLoginSession(store, c)
		if err == nil {
			_ = sess.Destroy()
		}

		c.Cookie(&fiber.Cookie{
			Name:     RememberCookie,
			Value:    "",
			MaxAge:   -1,
			HTTPOnly: true,
			SameSite: fiber.CookieSameSiteLaxMode,
		})

		return c.JSON(fiber.Map{"message": "Abgemeldet."})
	}
}

// MeHandler liefert den angemeldeten Benutzer.
func MeHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := CurrentUser(c)
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{
			"id":       user.ID,
			"username": user.Username,
			"role":     user.Role,
		})
	}
}
