package customer

import (
	"strings"
	"time"

	"crm-backend/internal/audit"
	"crm-backend/internal/auth"
	"crm-backend/internal/database"
	"crm-backend/internal/models"
	"crm-backend/internal/pagination"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

const listPerPage = 10

// Felder, auf die der Freitextfilter passt (Groß/Klein egal, "enthält").
const searchFilter = "LOWER(company) LIKE ? OR LOWER(contact_name) LIKE ? OR LOWER(email) LIKE ? OR LOWER(phone) LIKE ? OR LOWER(notes) LIKE ?"

type CustomerResponse struct {
	ID          uint   `json:"id"`
	Company     string `json:"company"`
	ContactName string `json:"contact_name"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	Notes       string `json:"notes"`
	Street      string `json:"street"`
	ZipCode     string `json:"zip_code"`
	City        string `json:"city"`
	CreatedAt   string `json:"created_at"`
}

type CustomerRowResponse struct {
	CustomerResponse
	DaysSinceLastContact *int `json:"days_since_last_contact"`
}

type CreateCustomerRequest struct {
	Company     string `json:"company"`
	ContactName string `json:"contact_name"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	Notes       string `json:"notes"`
	Street      string `json:"street"`
	ZipCode     string `json:"zip_code"`
	City        string `json:"city"`
}

type UpdateCustomerRequest struct {
	Company     *string `json:"company"`
	ContactName *string `json:"contact_name"`
	Email       *string `json:"email"`
	Phone       *string `json:"phone"`
	Notes       *string `json:"notes"`
	Street      *string `json:"street"`
	ZipCode     *string `json:"zip_code"`
	City        *string `json:"city"`
}

func toResponse(cst *models.Customer) CustomerResponse {
	return CustomerResponse{
		ID:          cst.ID,
		Company:     cst.Company,
		ContactName: cst.ContactName,
		Email:       cst.Email,
		Phone:       cst.Phone,
		Notes:       cst.Notes,
		Street:      cst.Street,
		ZipCode:     cst.ZipCode,
		City:        cst.City,
		CreatedAt:   cst.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}

// ApplySearch filtert eine Kunden-Query per Freitext.
func ApplySearch(query *gorm.DB, q string) *gorm.DB {
	q = strings.TrimSpace(q)
	if q == "" {
		return query
	}
	like := "%" + strings.ToLower(q) + "%"
	return query.Where(searchFilter, like, like, like, like, like)
}

// ListCustomersHandler - GET /api/customers?q=&page=
func ListCustomersHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		page := pagination.FromQuery(c, listPerPage)

		query := ApplySearch(database.DB.Model(&models.Customer{}), c.Query("q"))

		var total int64
		if err := query.Count(&total).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Kunden konnten nicht geladen werden")
		}

		var customers []models.Customer
		if err := page.Scope(query.Order("company ASC")).Find(&customers).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Kunden konnten nicht geladen werden")
		}

		now := time.Now()
		rows := make([]CustomerRowResponse, 0, len(customers))
		for _, cst := range customers {
			days, err := DaysSinceLastContact(database.DB, cst.ID, now)
			if err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "Kontakte konnten nicht geladen werden")
			}
			rows = append(rows, CustomerRowResponse{
				CustomerResponse:     toResponse(&cst),
				DaysSinceLastContact: days,
			})
		}

		return c.JSON(fiber.Map{
			"items":      rows,
			"q":          strings.TrimSpace(c.Query("q")),
			"pagination": page.MetaFor(total),
		})
	}
}

// parseDateRange liest from/to aus der Query. Unlesbare Werte werden
// stillschweigend verworfen, to zählt bis zum Tagesende.
func parseDateRange(c *fiber.Ctx) (*time.Time, *time.Time) {
	var from, to *time.Time

	if s := strings.TrimSpace(c.Query("from")); s != "" {
		if t, err := time.Parse("2006-01-02", s); err == nil {
			from = &t
		}
	}
	if s := strings.TrimSpace(c.Query("to")); s != "" {
		if t, err := time.Parse("2006-01-02", s); err == nil {
			end := time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 0, t.Location())
			to = &end
		}
	}
	return from, to
}

// GetCustomerHandler - GET /api/customers/:id?from=&to=
//
// Die Umsatz-KPIs rechnen immer über Gesamt bzw. Vorjahr, unabhängig vom
// angezeigten from/to-Filter - der schränkt nur die beiden Teillisten ein.
func GetCustomerHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var cst models.Customer
		if err := database.DB.First(&cst, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Kunde nicht gefunden")
		}

		now := time.Now()

		revenueTotal, err := RevenueTotal(database.DB, cst.ID)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Umsatz konnte nicht berechnet werden")
		}
		revenueLastYear, err := RevenueLastYear(database.DB, cst.ID, now)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Umsatz konnte nicht berechnet werden")
		}
		days, err := DaysSinceLastContact(database.DB, cst.ID, now)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Kontakte konnten nicht geladen werden")
		}

		from, to := parseDateRange(c)

		ordersQuery := database.DB.Where("customer_id = ?", cst.ID).Order("order_date DESC")
		contactsQuery := database.DB.Where("customer_id = ?", cst.ID).Order("contact_at DESC")
		if from != nil {
			ordersQuery = ordersQuery.Where("order_date >= ?", *from)
			contactsQuery = contactsQuery.Where("contact_at >= ?", *from)
		}
		if to != nil {
			ordersQuery = ordersQuery.Where("order_date <= ?", *to)
			contactsQuery = contactsQuery.Where("contact_at <= ?", *to)
		}

		var orders []models.Order
		if err := ordersQuery.Limit(10).Find(&orders).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Bestellungen konnten nicht geladen werden")
		}
		var contacts []models.Contact
		if err := contactsQuery.Limit(10).Find(&contacts).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Kontakte konnten nicht geladen werden")
		}

		orderRows := make([]fiber.Map, 0, len(orders))
		for _, o := range orders {
			orderRows = append(orderRows, fiber.Map{
				"id":           o.ID,
				"order_number": o.OrderNumber,
				"order_date":   o.OrderDate.Format("2006-01-02"),
				"status":       o.Status,
				"total_amount": o.TotalAmount.StringFixed(2),
				"currency":     o.Currency,
			})
		}
		contactRows := make([]fiber.Map, 0, len(contacts))
		for _, ct := range contacts {
			contactRows = append(contactRows, fiber.Map{
				"id":         ct.ID,
				"channel":    ct.Channel,
				"subject":    ct.Subject,
				"notes":      ct.Notes,
				"rating":     ct.Rating,
				"contact_at": ct.ContactAt.Format("2006-01-02 15:04:05"),
			})
		}

		return c.JSON(fiber.Map{
			"customer":                toResponse(&cst),
			"days_since_last_contact": days,
			"revenue_total":           revenueTotal.StringFixed(2),
			"revenue_last_year":       revenueLastYear.StringFixed(2),
			"last_year":               now.Year() - 1,
			"orders":                  orderRows,
			"contacts":                contactRows,
		})
	}
}

// CreateCustomerHandler - POST /api/customers
func CreateCustomerHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateCustomerRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Ungültiger Anfrageinhalt")
		}

		body.Company = strings.TrimSpace(body.Company)
		if body.Company == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Firma darf nicht leer sein")
		}

		cst := models.Customer{
			Company:     body.Company,
			ContactName: strings.TrimSpace(body.ContactName),
			Email:       strings.TrimSpace(body.Email),
			Phone:       strings.TrimSpace(body.Phone),
			Notes:       body.Notes,
			Street:      strings.TrimSpace(body.Street),
			ZipCode:     strings.TrimSpace(body.ZipCode),
			City:        strings.TrimSpace(body.City),
		}

		if err := database.DB.Create(&cst).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Kunde konnte nicht angelegt werden")
		}

		writeAudit(c, models.AuditActionCreate, &cst, nil, &cst, "Kunde angelegt: "+cst.Company)

		return c.Status(fiber.StatusCreated).JSON(toResponse(&cst))
	}
}

// UpdateCustomerHandler - PUT /api/customers/:id
func UpdateCustomerHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var cst models.Customer
		if err := database.DB.First(&cst, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Kunde nicht gefunden")
		}
		before := cst

		var body UpdateCustomerRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Ungültiger Anfrageinhalt")
		}

		if body.Company != nil {
			company := strings.TrimSpace(*body.Company)
			if company == "" {
				return fiber.NewError(fiber.StatusBadRequest, "Firma darf nicht leer sein")
			}
			cst.Company = company
		}
		if body.ContactName != nil {
			cst.ContactName = strings.TrimSpace(*body.ContactName)
		}
		if body.Email != nil {
			cst.Email = strings.TrimSpace(*body.Email)
		}
		if body.Phone != nil {
			cst.Phone = strings.TrimSpace(*body.Phone)
		}
		if body.Notes != nil {
			cst.Notes = *body.Notes
		}
		if body.Street != nil {
			cst.Street = strings.TrimSpace(*body.Street)
		}
		if body.ZipCode != nil {
			cst.ZipCode = strings.TrimSpace(*body.ZipCode)
		}
		if body.City != nil {
			cst.City = strings.TrimSpace(*body.City)
		}

		if err := database.DB.Save(&cst).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Kunde konnte nicht aktualisiert werden")
		}

		writeAudit(c, models.AuditActionUpdate, &cst, &before, &cst, "Kunde aktualisiert: "+cst.Company)

		return c.JSON(toResponse(&cst))
	}
}

// DeleteCustomerHandler - DELETE /api/customers/:id
//
// Löschen kaskadiert ausdrücklich: Bestellungen samt Positionen und Kontakte
// des Kunden fallen in derselben Transaktion mit weg.
func DeleteCustomerHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var cst models.Customer
		if err := database.DB.First(&cst, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Kunde nicht gefunden")
		}

		err := database.DB.Transaction(func(tx *gorm.DB) error {
			if err := tx.Where("order_id IN (?)",
				tx.Model(&models.Order{}).Select("id").Where("customer_id = ?", cst.ID),
			).Delete(&models.OrderItem{}).Error; err != nil {
				return err
			}
			if err := tx.Where("customer_id = ?", cst.ID).Delete(&models.Order{}).Error; err != nil {
				return err
			}
			if err := tx.Where("customer_id = ?", cst.ID).Delete(&models.Contact{}).Error; err != nil {
				return err
			}
			return tx.Delete(&cst).Error
		})
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Kunde konnte nicht gelöscht werden")
		}

		writeAudit(c, models.AuditActionDelete, &cst, &cst, nil, "Kunde gelöscht: "+cst.Company)

		return c.SendStatus(fiber.StatusNoContent)
	}
}

// writeAudit protokolliert Kundenänderungen; Fehler dabei kippen die
// eigentliche Operation nicht.
func writeAudit(c *fiber.Ctx, action models.AuditAction, cst *models.Customer, before, after *models.Customer, desc string) {
	user, err := auth.CurrentUser(c)
	if err != nil {
		return
	}

	var beforeVal, afterVal any
	if before != nil {
		beforeVal = toResponse(before)
	}
	if after != nil {
		afterVal = toResponse(after)
	}

	_ = audit.WriteLog(audit.LogOptions{
		UserID:      user.ID,
		UserName:    user.Username,
		EntityType:  "customer",
		EntityID:    cst.ID,
		Action:      action,
		Description: desc,
		Before:      beforeVal,
		After:       afterVal,
	})
}
