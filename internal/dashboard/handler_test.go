package dashboard

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"crm-backend/internal/database"
	"crm-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupApp(t *testing.T) *fiber.App {
	t.Helper()

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if e, ok := err.(*fiber.Error); ok {
				return c.Status(e.Code).JSON(fiber.Map{"error": e.Message})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		},
	})
	app.Get("/api/dashboard", IndexHandler())
	return app
}

func get(t *testing.T, app *fiber.App, target string) (*http.Response, map[string]any) {
	t.Helper()
	req := httptest.NewRequest("GET", target, nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	var payload map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
	return resp, payload
}

func TestIndex_SectionsLimitedAndFiltered(t *testing.T) {
	db := database.InitTest(t)
	app := setupApp(t)

	now := time.Now()
	for i := 0; i < 12; i++ {
		cst := models.Customer{Company: fmt.Sprintf("Firma %02d", i)}
		require.NoError(t, db.Create(&cst).Error)

		require.NoError(t, db.Create(&models.Order{
			CustomerID:  cst.ID,
			OrderNumber: fmt.Sprintf("ORD-%03d-001", cst.ID),
			OrderDate:   now.AddDate(0, 0, -i),
			Status:      models.StatusOpen,
			TotalAmount: decimal.RequireFromString("10.00"),
			Currency:    "EUR",
		}).Error)

		channel := models.ChannelPhone
		if i%2 == 0 {
			channel = models.ChannelEmail
		}
		require.NoError(t, db.Create(&models.Contact{
			CustomerID: cst.ID,
			Channel:    channel,
			Subject:    "Status-Update",
			ContactAt:  now.Add(-time.Duration(i) * time.Hour),
		}).Error)
	}

	resp, payload := get(t, app, "/api/dashboard")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	// Jede Sektion ist auf 10 Zeilen begrenzt
	assert.Len(t, payload["customers"].([]any), 10)
	assert.Len(t, payload["orders"].([]any), 10)
	assert.Len(t, payload["contacts"].([]any), 10)
	assert.Equal(t, "all", payload["channel"])

	// Kundenzeilen tragen die Tage seit dem letzten Kontakt
	row := payload["customers"].([]any)[0].(map[string]any)
	assert.Contains(t, row, "days_since_last_contact")

	// Kanalfilter wirkt nur auf die Kontakt-Sektion
	resp, payload = get(t, app, "/api/dashboard?channel=email")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	contacts := payload["contacts"].([]any)
	require.Len(t, contacts, 6)
	for _, it := range contacts {
		assert.Equal(t, "email", it.(map[string]any)["channel"])
	}
	assert.Len(t, payload["orders"].([]any), 10)

	// Freitextfilter der Kunden-Sektion
	resp, payload = get(t, app, "/api/dashboard?q=Firma%2003")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Len(t, payload["customers"].([]any), 1)
}
