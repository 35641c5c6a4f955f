package contact

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"crm-backend/internal/auth"
	"crm-backend/internal/database"
	"crm-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupApp(t *testing.T) (*fiber.App, models.Customer) {
	t.Helper()
	database.InitTest(t)

	user := models.User{Username: "admin@example.com", PasswordHash: "x", Role: models.RoleChef}
	require.NoError(t, database.DB.Create(&user).Error)

	cst := models.Customer{Company: "Acme GmbH"}
	require.NoError(t, database.DB.Create(&cst).Error)

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if e, ok := err.(*fiber.Error); ok {
				return c.Status(e.Code).JSON(fiber.Map{"error": e.Message})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		},
	})
	app.Use(func(c *fiber.Ctx) error {
		c.Locals(auth.CtxUserIDKey, user.ID)
		return c.Next()
	})
	app.Get("/api/contacts", ListContactsHandler())
	app.Post("/api/contacts", CreateContactHandler())

	return app, cst
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

func seedContact(t *testing.T, customerID uint, channel models.ContactChannel, at time.Time) {
	t.Helper()
	require.NoError(t, database.DB.Create(&models.Contact{
		CustomerID: customerID,
		Channel:    channel,
		Subject:    "Status-Update",
		ContactAt:  at,
	}).Error)
}

func TestList_ChannelFilter(t *testing.T) {
	app, cst := setupApp(t)
	now := time.Now()

	seedContact(t, cst.ID, models.ChannelPhone, now.Add(-1*time.Hour))
	seedContact(t, cst.ID, models.ChannelEmail, now.Add(-2*time.Hour))
	seedContact(t, cst.ID, models.ChannelPhone, now.Add(-3*time.Hour))

	resp, payload := doRequest(t, app, "GET", "/api/contacts?channel=phone", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	items := payload["items"].([]any)
	require.Len(t, items, 2)
	for _, it := range items {
		assert.Equal(t, "phone", it.(map[string]any)["channel"])
	}

	// "all" heißt kein Filter
	resp, payload = doRequest(t, app, "GET", "/api/contacts?channel=all", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Len(t, payload["items"].([]any), 3)
}

func TestList_NewestFirst(t *testing.T) {
	app, cst := setupApp(t)
	now := time.Now()

	seedContact(t, cst.ID, models.ChannelChat, now.Add(-48*time.Hour))
	seedContact(t, cst.ID, models.ChannelChat, now.Add(-1*time.Hour))
	seedContact(t, cst.ID, models.ChannelChat, now.Add(-24*time.Hour))

	resp, payload := doRequest(t, app, "GET", "/api/contacts", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	items := payload["items"].([]any)
	require.Len(t, items, 3)
	var prev string
	for i, it := range items {
		at := it.(map[string]any)["contact_at"].(string)
		if i > 0 {
			assert.True(t, at <= prev, "nicht absteigend sortiert: %q nach %q", at, prev)
		}
		prev = at
	}
}

func TestCreateContact(t *testing.T) {
	app, cst := setupApp(t)

	rating := 4
	resp, payload := doRequest(t, app, "POST", "/api/contacts", CreateContactRequest{
		CustomerID: cst.ID,
		Channel:    "meeting",
		Subject:    "Quartalsgespräch",
		Notes:      "Upgrade besprochen",
		Rating:     &rating,
		ContactAt:  "2026-05-04 14:30",
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	assert.Equal(t, "meeting", payload["channel"])
	assert.Equal(t, "Acme GmbH", payload["company"])
	assert.Equal(t, "admin@example.com", payload["author"])
	assert.Equal(t, float64(4), payload["rating"])
	assert.Equal(t, "2026-05-04 14:30:00", payload["contact_at"])
}

func TestCreateContact_Validation(t *testing.T) {
	app, cst := setupApp(t)

	resp, _ := doRequest(t, app, "POST", "/api/contacts", CreateContactRequest{
		CustomerID: cst.ID, Channel: "brieftaube", Subject: "Test",
	})
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	bad := 6
	resp, _ = doRequest(t, app, "POST", "/api/contacts", CreateContactRequest{
		CustomerID: cst.ID, Channel: "phone", Subject: "Test", Rating: &bad,
	})
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp, _ = doRequest(t, app, "POST", "/api/contacts", CreateContactRequest{
		CustomerID: 4711, Channel: "phone", Subject: "Test",
	})
	require.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}
