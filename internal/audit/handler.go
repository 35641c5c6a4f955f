package audit

import (
	"crm-backend/internal/database"
	"crm-backend/internal/models"
	"crm-backend/internal/pagination"

	"github.com/gofiber/fiber/v2"
)

type AuditLogResponse struct {
	ID          uint   `json:"id"`
	UserID      uint   `json:"user_id"`
	UserName    string `json:"user_name"`
	EntityType  string `json:"entity_type"`
	EntityID    uint   `json:"entity_id"`
	Action      string `json:"action"`
	Description string `json:"description"`
	BeforeData  string `json:"before_data"`
	AfterData   string `json:"after_data"`
	CreatedAt   string `json:"created_at"`
}

// ListAuditLogsHandler - GET /api/audit-logs (nur CHEF)
func ListAuditLogsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		page := pagination.FromQuery(c, 20)

		query := database.DB.Model(&models.AuditLog{})

		var total int64
		if err := query.Count(&total).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Protokoll konnte nicht geladen werden")
		}

		var logs []models.AuditLog
		if err := page.Scope(query.Order("created_at DESC")).Find(&logs).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Protokoll konnte nicht geladen werden")
		}

		res := make([]AuditLogResponse, 0, len(logs))
		for _, l := range logs {
			res = append(res, AuditLogResponse{
				ID:          l.ID,
				UserID:      l.UserID,
				UserName:    l.UserName,
				EntityType:  l.EntityType,
				EntityID:    l.EntityID,
				Action:      string(l.Action),
				Description: l.Description,
				BeforeData:  l.BeforeData,
				AfterData:   l.AfterData,
				CreatedAt:   l.CreatedAt.Format("2006-01-02 15:04:05"),
			})
		}

		return c.JSON(fiber.Map{
			"items":      res,
			"pagination": page.MetaFor(total),
		})
	}
}
