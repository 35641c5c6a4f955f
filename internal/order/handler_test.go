package order

import (
	"bytes"
	"encoding/json"
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
	app.Get("/api/orders", ListOrdersHandler())
	app.Post("/api/orders", CreateOrderHandler())
	return app
}

func doRequest(t *testing.T, app *fiber.App, method, target string, body any) (*http.Response, map[string]any) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	var payload map[string]any
	_ = json.NewDecoder(resp.Body).Decode(&payload)
	return resp, payload
}

func TestListOrders_SearchAndSort(t *testing.T) {
	db := database.InitTest(t)
	app := setupApp(t)

	acme := models.Customer{Company: "Acme GmbH"}
	blue := models.Customer{Company: "Blue Widgets OG"}
	require.NoError(t, db.Create(&acme).Error)
	require.NoError(t, db.Create(&blue).Error)

	now := time.Now()
	mk := func(cst *models.Customer, number string, daysAgo int) {
		require.NoError(t, db.Create(&models.Order{
			CustomerID:  cst.ID,
			OrderNumber: number,
			OrderDate:   now.AddDate(0, 0, -daysAgo),
			Status:      models.StatusOpen,
			TotalAmount: decimal.RequireFromString("10.00"),
			Currency:    "EUR",
		}).Error)
	}
	mk(&acme, "ORD-001-001", 5)
	mk(&acme, "ORD-001-002", 1)
	mk(&blue, "ORD-002-001", 3)

	// Freitext passt auf den Firmennamen des Kunden
	resp, payload := doRequest(t, app, "GET", "/api/orders?q=acme", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	items := payload["items"].([]any)
	require.Len(t, items, 2)

	// neueste zuerst
	first := items[0].(map[string]any)
	assert.Equal(t, "ORD-001-002", first["order_number"])
	assert.Equal(t, "Acme GmbH", first["company"])

	// und auf die Bestellnummer
	resp, payload = doRequest(t, app, "GET", "/api/orders?q=ord-002", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.Len(t, payload["items"].([]any), 1)
}

func TestCreateOrderEndpoint(t *testing.T) {
	db := database.InitTest(t)
	app := setupApp(t)

	cst := models.Customer{Company: "Acme GmbH"}
	require.NoError(t, db.Create(&cst).Error)
	product := models.Product{SKU: "P-400", Name: "Workshop Tagessatz", UnitPrice: decimal.RequireFromString("1200.00")}
	require.NoError(t, db.Create(&product).Error)

	resp, payload := doRequest(t, app, "POST", "/api/orders", CreateOrderRequest{
		CustomerID:  cst.ID,
		OrderNumber: "ORD-001-001",
		OrderDate:   "2026-03-01",
		Items:       []ItemInput{{ProductID: product.ID, Quantity: 2}},
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	assert.Equal(t, "2400.00", payload["total_amount"])
	assert.Equal(t, "offen", payload["status"])
	assert.Equal(t, "EUR", payload["currency"])
	assert.Equal(t, float64(1), payload["positions"])
}

func TestCreateOrderEndpoint_Validation(t *testing.T) {
	db := database.InitTest(t)
	app := setupApp(t)

	cst := models.Customer{Company: "Acme GmbH"}
	require.NoError(t, db.Create(&cst).Error)

	resp, _ := doRequest(t, app, "POST", "/api/orders", CreateOrderRequest{
		CustomerID: cst.ID, OrderNumber: "ORD-001-001",
	})
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp, _ = doRequest(t, app, "POST", "/api/orders", CreateOrderRequest{
		CustomerID: cst.ID, OrderNumber: "ORD-001-002", OrderDate: "01.03.2026",
		Items: []ItemInput{{ProductID: 1, Quantity: 1}},
	})
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp, _ = doRequest(t, app, "POST", "/api/orders", CreateOrderRequest{
		CustomerID: cst.ID, OrderNumber: "ORD-001-003", Status: "erledigt",
		Items: []ItemInput{{ProductID: 1, Quantity: 1}},
	})
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}
