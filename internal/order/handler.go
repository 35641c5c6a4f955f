package order

import (
	"strings"
	"time"

	"crm-backend/internal/database"
	"crm-backend/internal/models"
	"crm-backend/internal/pagination"

	"github.com/gofiber/fiber/v2"
)

const listPerPage = 20

type OrderResponse struct {
	ID          uint   `json:"id"`
	CustomerID  uint   `json:"customer_id"`
	Company     string `json:"company"`
	OrderNumber string `json:"order_number"`
	OrderDate   string `json:"order_date"`
	Status      string `json:"status"`
	TotalAmount string `json:"total_amount"`
	Currency    string `json:"currency"`
	Positions   int    `json:"positions"`
}

type CreateOrderRequest struct {
	CustomerID  uint        `json:"customer_id"`
	OrderNumber string      `json:"order_number"`
	OrderDate   string      `json:"order_date"` // "2025-12-09"
	Status      string      `json:"status"`
	Currency    string      `json:"currency"`
	Items       []ItemInput `json:"items"`
}

func toResponse(o *models.Order) OrderResponse {
	return OrderResponse{
		ID:          o.ID,
		CustomerID:  o.CustomerID,
		Company:     o.Customer.Company,
		OrderNumber: o.OrderNumber,
		OrderDate:   o.OrderDate.Format("2006-01-02"),
		Status:      string(o.Status),
		TotalAmount: o.TotalAmount.StringFixed(2),
		Currency:    o.Currency,
		Positions:   len(o.Items),
	}
}

// ListOrdersHandler - GET /api/orders?q=&page=
// Der Freitextfilter passt auf Bestellnummer und Firmenname.
func ListOrdersHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		page := pagination.FromQuery(c, listPerPage)

		query := database.DB.Model(&models.Order{}).
			Select("orders.*").
			Joins("JOIN customers ON customers.id = orders.customer_id")

		if q := strings.TrimSpace(c.Query("q")); q != "" {
			like := "%" + strings.ToLower(q) + "%"
			query = query.Where("LOWER(orders.order_number) LIKE ? OR LOWER(customers.company) LIKE ?", like, like)
		}

		var total int64
		if err := query.Count(&total).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Bestellungen konnten nicht geladen werden")
		}

		var orders []models.Order
		if err := page.Scope(query.Order("orders.order_date DESC")).
			Preload("Customer").
			Preload("Items").
			Find(&orders).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Bestellungen konnten nicht geladen werden")
		}

		res := make([]OrderResponse, 0, len(orders))
		for i := range orders {
			res = append(res, toResponse(&orders[i]))
		}

		return c.JSON(fiber.Map{
			"items":      res,
			"q":          strings.TrimSpace(c.Query("q")),
			"pagination": page.MetaFor(total),
		})
	}
}

// CreateOrderHandler - POST /api/orders
func CreateOrderHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateOrderRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Ungültiger Anfrageinhalt")
		}

		body.OrderNumber = strings.TrimSpace(body.OrderNumber)
		if body.CustomerID == 0 || body.OrderNumber == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Kunde und Bestellnummer sind Pflicht")
		}
		if len(body.Items) == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Mindestens eine Position erforderlich")
		}

		orderDate := time.Now()
		if body.OrderDate != "" {
			t, err := time.Parse("2006-01-02", body.OrderDate)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "Ungültiges Bestelldatum, Format: YYYY-MM-DD")
			}
			orderDate = t
		}

		status := models.OrderStatus(body.Status)
		switch status {
		case "", models.StatusOpen, models.StatusPaid, models.StatusCancelled:
		default:
			return fiber.NewError(fiber.StatusBadRequest, "Ungültiger Status")
		}

		created, err := Create(database.DB, body.CustomerID, body.OrderNumber, orderDate, status, body.Currency, body.Items)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Bestellung konnte nicht angelegt werden")
		}

		var full models.Order
		if err := database.DB.Preload("Customer").Preload("Items").First(&full, created.ID).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Bestellung konnte nicht geladen werden")
		}

		return c.Status(fiber.StatusCreated).JSON(toResponse(&full))
	}
}
