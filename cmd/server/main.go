package main

import (
	"log"
	"strings"

	"crm-backend/internal/audit"
	"crm-backend/internal/auth"
	"crm-backend/internal/config"
	"crm-backend/internal/contact"
	"crm-backend/internal/customer"
	"crm-backend/internal/dashboard"
	"crm-backend/internal/database"
	"crm-backend/internal/mailer"
	"crm-backend/internal/order"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/session"
)

func main() {
	cfg := config.Load()
	database.Init(cfg)

	var m mailer.Mailer = mailer.NewSMTPMailer(cfg)
	if cfg.MailUser == "" {
		m = mailer.LogMailer{}
	}

	store := session.New(session.Config{
		KeyLookup:      "cookie:crm_session",
		CookieHTTPOnly: true,
		CookieSameSite: fiber.CookieSameSiteLaxMode,
	})

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if e, ok := err.(*fiber.Error); ok {
				return c.Status(e.Code).JSON(fiber.Map{
					"error": e.Message,
				})
			}
			log.Println("Unerwarteter Fehler:", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Unerwarteter Serverfehler",
			})
		},
	})

	corsOrigins := strings.Split(cfg.CORSOrigins, ",")
	for i := range corsOrigins {
		corsOrigins[i] = strings.TrimSpace(corsOrigins[i])
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:     strings.Join(corsOrigins, ","),
		AllowHeaders:     "Origin, Content-Type, Accept",
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
		AllowCredentials: true,
	}))

	api := app.Group("/api")

	// Öffentliche Auth-Routen (Login-Handshake in zwei Schritten)
	api.Post("/auth/register", auth.RegisterHandler())
	api.Post("/auth/login", auth.LoginHandler(store, m))
	api.Post("/auth/verify", auth.VerifyHandler(cfg, store, m))
	api.Post("/auth/logout", auth.LogoutHandler(store))

	// Geschützte Routen
	protected := api.Group("")
	protected.Use(auth.RequireLogin(cfg, store))

	protected.Get("/auth/me", auth.MeHandler())

	// Startseite
	protected.Get("/dashboard", dashboard.IndexHandler())

	// Kunden
	protected.Get("/customers", customer.ListCustomersHandler())
	protected.Get("/customers/:id", customer.GetCustomerHandler())
	protected.Post("/customers", customer.CreateCustomerHandler())
	protected.Put("/customers/:id", customer.UpdateCustomerHandler())
	protected.Delete("/customers/:id", customer.DeleteCustomerHandler())

	// Bestellungen
	protected.Get("/orders", order.ListOrdersHandler())
	protected.Post("/orders", order.CreateOrderHandler())

	// Kontakte
	protected.Get("/contacts", contact.ListContactsHandler())
	protected.Post("/contacts", contact.CreateContactHandler())

	// Änderungsprotokoll (nur CHEF)
	chefRoutes := protected.Group("")
	chefRoutes.Use(auth.RequireChef())
	chefRoutes.Get("/audit-logs", audit.ListAuditLogsHandler())

	log.Println("Server läuft auf Port:", cfg.HTTPPort)
	if err := app.Listen(":" + cfg.HTTPPort); err != nil {
		log.Fatal(err)
	}
}
