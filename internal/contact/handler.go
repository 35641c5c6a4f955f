package contact

import (
	"strings"
	"time"

	"crm-backend/internal/auth"
	"crm-backend/internal/database"
	"crm-backend/internal/models"
	"crm-backend/internal/pagination"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

const listPerPage = 20

type ContactResponse struct {
	ID         uint   `json:"id"`
	CustomerID uint   `json:"customer_id"`
	Company    string `json:"company"`
	Author     string `json:"author"`
	Channel    string `json:"channel"`
	Subject    string `json:"subject"`
	Notes      string `json:"notes"`
	Rating     *int   `json:"rating"`
	ContactAt  string `json:"contact_at"`
}

type CreateContactRequest struct {
	CustomerID uint   `json:"customer_id"`
	Channel    string `json:"channel"`
	Subject    string `json:"subject"`
	Notes      string `json:"notes"`
	Rating     *int   `json:"rating"`
	ContactAt  string `json:"contact_at"` // "2025-12-09 14:30", optional
}

func toResponse(ct *models.Contact) ContactResponse {
	author := ""
	if ct.User != nil {
		author = ct.User.Username
	}
	return ContactResponse{
		ID:         ct.ID,
		CustomerID: ct.CustomerID,
		Company:    ct.Customer.Company,
		Author:     author,
		Channel:    string(ct.Channel),
		Subject:    ct.Subject,
		Notes:      ct.Notes,
		Rating:     ct.Rating,
		ContactAt:  ct.ContactAt.Format("2006-01-02 15:04:05"),
	}
}

func validChannel(ch models.ContactChannel) bool {
	switch ch {
	case models.ChannelPhone, models.ChannelEmail, models.ChannelMeeting, models.ChannelChat:
		return true
	}
	return false
}

// ApplyChannel filtert nach Kanal; "all" oder leer heißt kein Filter.
func ApplyChannel(query *gorm.DB, channel string) *gorm.DB {
	channel = strings.ToLower(strings.TrimSpace(channel))
	if channel == "" || channel == "all" {
		return query
	}
	return query.Where("channel = ?", channel)
}

// ListContactsHandler - GET /api/contacts?channel=&page=
func ListContactsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		page := pagination.FromQuery(c, listPerPage)

		query := ApplyChannel(database.DB.Model(&models.Contact{}), c.Query("channel"))

		var total int64
		if err := query.Count(&total).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Kontakte konnten nicht geladen werden")
		}

		var contacts []models.Contact
		if err := page.Scope(query.Order("contact_at DESC")).
			Preload("Customer").
			Preload("User").
			Find(&contacts).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Kontakte konnten nicht geladen werden")
		}

		res := make([]ContactResponse, 0, len(contacts))
		for i := range contacts {
			res = append(res, toResponse(&contacts[i]))
		}

		channel := strings.ToLower(strings.TrimSpace(c.Query("channel")))
		if channel == "" {
			channel = "all"
		}

		return c.JSON(fiber.Map{
			"items":      res,
			"channel":    channel,
			"pagination": page.MetaFor(total),
		})
	}
}

// CreateContactHandler - POST /api/contacts
// Erfasst ein Kontaktereignis; der Kontaktzeitpunkt darf in der
// Vergangenheit liegen (nachträgliche Erfassung).
func CreateContactHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := auth.CurrentUser(c)
		if err != nil {
			return err
		}

		var body CreateContactRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Ungültiger Anfrageinhalt")
		}

		var cst models.Customer
		if err := database.DB.First(&cst, body.CustomerID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Kunde nicht gefunden")
		}

		channel := models.ContactChannel(strings.ToLower(strings.TrimSpace(body.Channel)))
		if !validChannel(channel) {
			return fiber.NewError(fiber.StatusBadRequest, "Ungültiger Kanal (phone, email, meeting, chat)")
		}

		body.Subject = strings.TrimSpace(body.Subject)
		if body.Subject == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Betreff darf nicht leer sein")
		}

		if body.Rating != nil && (*body.Rating < 1 || *body.Rating > 5) {
			return fiber.NewError(fiber.StatusBadRequest, "Bewertung muss zwischen 1 und 5 liegen")
		}

		contactAt := time.Now()
		if body.ContactAt != "" {
			t, err := time.Parse("2006-01-02 15:04", body.ContactAt)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "Ungültiger Kontaktzeitpunkt, Format: YYYY-MM-DD HH:MM")
			}
			contactAt = t
		}

		ct := models.Contact{
			CustomerID: cst.ID,
			UserID:     &user.ID,
			Channel:    channel,
			Subject:    body.Subject,
			Notes:      body.Notes,
			Rating:     body.Rating,
			ContactAt:  contactAt,
		}
		if err := database.DB.Create(&ct).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Kontakt konnte nicht angelegt werden")
		}

		ct.Customer = cst
		ct.User = user

		return c.Status(fiber.StatusCreated).JSON(toResponse(&ct))
	}
}
