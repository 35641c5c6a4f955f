package dashboard

import (
	"strings"
	"time"

	"crm-backend/internal/contact"
	"crm-backend/internal/customer"
	"crm-backend/internal/database"
	"crm-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

const sectionLimit = 10

// IndexHandler - GET /api/dashboard
// Die Startseite: drei unabhängig gefilterte Sektionen (Kunden, Bestellungen,
// Kontakte), jeweils auf 10 Zeilen begrenzt.
func IndexHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		now := time.Now()

		// --- Kunden-Sektion ---
		qCustomers := strings.TrimSpace(c.Query("q"))
		var customers []models.Customer
		if err := customer.ApplySearch(database.DB.Model(&models.Customer{}), qCustomers).
			Order("company ASC").
			Limit(sectionLimit).
			Find(&customers).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Kunden konnten nicht geladen werden")
		}

		customerRows := make([]fiber.Map, 0, len(customers))
		for _, cst := range customers {
			days, err := customer.DaysSinceLastContact(database.DB, cst.ID, now)
			if err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "Kontakte konnten nicht geladen werden")
			}
			customerRows = append(customerRows, fiber.Map{
				"id":                      cst.ID,
				"company":                 cst.Company,
				"contact_name":            cst.ContactName,
				"email":                   cst.Email,
				"phone":                   cst.Phone,
				"days_since_last_contact": days,
			})
		}

		// --- Bestellungen-Sektion ---
		qOrders := strings.TrimSpace(c.Query("q_orders"))
		ordersQuery := database.DB.Model(&models.Order{}).
			Select("orders.*").
			Joins("JOIN customers ON customers.id = orders.customer_id")
		if qOrders != "" {
			like := "%" + strings.ToLower(qOrders) + "%"
			ordersQuery = ordersQuery.Where("LOWER(orders.order_number) LIKE ? OR LOWER(customers.company) LIKE ?", like, like)
		}

		var orders []models.Order
		if err := ordersQuery.Order("orders.order_date DESC").
			Limit(sectionLimit).
			Preload("Customer").
			Find(&orders).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Bestellungen konnten nicht geladen werden")
		}

		orderRows := make([]fiber.Map, 0, len(orders))
		for _, o := range orders {
			orderRows = append(orderRows, fiber.Map{
				"id":           o.ID,
				"order_number": o.OrderNumber,
				"company":      o.Customer.Company,
				"order_date":   o.OrderDate.Format("2006-01-02"),
				"status":       o.Status,
				"total_amount": o.TotalAmount.StringFixed(2),
				"currency":     o.Currency,
			})
		}

		// --- Kontakte-Sektion ---
		channel := strings.ToLower(strings.TrimSpace(c.Query("channel")))
		if channel == "" {
			channel = "all"
		}

		var contacts []models.Contact
		if err := contact.ApplyChannel(database.DB.Model(&models.Contact{}), channel).
			Order("contact_at DESC").
			Limit(sectionLimit).
			Preload("Customer").
			Find(&contacts).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Kontakte konnten nicht geladen werden")
		}

		contactRows := make([]fiber.Map, 0, len(contacts))
		for _, ct := range contacts {
			contactRows = append(contactRows, fiber.Map{
				"id":         ct.ID,
				"company":    ct.Customer.Company,
				"channel":    ct.Channel,
				"subject":    ct.Subject,
				"rating":     ct.Rating,
				"contact_at": ct.ContactAt.Format("2006-01-02 15:04:05"),
			})
		}

		return c.JSON(fiber.Map{
			"customers": customerRows,
			"q":         qCustomers,
			"orders":    orderRows,
			"q_orders":  qOrders,
			"contacts":  contactRows,
			"channel":   channel,
		})
	}
}
