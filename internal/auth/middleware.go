package auth

import (
	"crm-backend/internal/config"
	"crm-backend/internal/database"
	"crm-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
)

const CtxUserIDKey = "current_user_id"

// RequireLogin lässt nur angemeldete Benutzer durch. Fehlt der Session die
// Anmeldung, wird das "Angemeldet bleiben"-Cookie geprüft und die Session
// daraus wiederhergestellt.
func RequireLogin(cfg *config.Config, store *session.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sess, err := GetLoginSession(store, c)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Session konnte nicht geladen werden")
		}

		userID := sess.UserID()
		if userID == 0 {
			if token := c.Cookies(RememberCookie); token != "" {
				if id, err := ParseRememberToken(cfg.JWTSecret, token); err == nil {
					var user models.User
					if err := database.DB.First(&user, id).Error; err == nil {
						userID = user.ID
						sess.SetUserID(userID)
						if err := sess.Save(); err != nil {
							return fiber.NewError(fiber.StatusInternalServerError, "Session konnte nicht gespeichert werden")
						}
					}
				}
			}
		}

		if userID == 0 {
			return fiber.NewError(fiber.StatusUnauthorized, "Bitte melde dich an, um fortzufahren.")
		}

		c.Locals(CtxUserIDKey, userID)
		return c.Next()
	}
}

// RequireChef setzt RequireLogin voraus.
func RequireChef() fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := CurrentUser(c)
		if err != nil {
			return err
		}
		if !user.IsChef() {
			return fiber.NewError(fiber.StatusForbidden, "Dafür fehlt dir die Berechtigung")
		}
		return c.Next()
	}
}

// CurrentUser lädt den angemeldeten Benutzer der Anfrage.
func CurrentUser(c *fiber.Ctx) (*models.User, error) {
	userID, ok := c.Locals(CtxUserIDKey).(uint)
	if !ok || userID == 0 {
		return nil, fiber.NewError(fiber.StatusUnauthorized, "Bitte melde dich an, um fortzufahren.")
	}

	var user models.User
	if err := database.DB.First(&user, userID).Error; err != nil {
		return nil, fiber.NewError(fiber.StatusUnauthorized, "Benutzer nicht gefunden")
	}
	return &user, nil
}
