// Einmaliger Seeder: befüllt die Datenbank mit Demodaten (Benutzer, Kunden,
// Produkte, Bestellungen, Kontakte). Vorhandene Daten werden gelöscht.
package main

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"crm-backend/internal/auth"
	"crm-backend/internal/config"
	"crm-backend/internal/database"
	"crm-backend/internal/models"
	"crm-backend/internal/order"

	"github.com/shopspring/decimal"
)

func main() {
	cfg := config.Load()
	database.Init(cfg)
	db := database.DB

	now := time.Now().UTC()

	// --- alles löschen, damit sauber neu befüllt wird ---
	for _, m := range []any{
		&models.OrderItem{}, &models.Order{}, &models.Contact{},
		&models.Product{}, &models.Customer{}, &models.LoginCode{},
		&models.AuditLog{}, &models.User{},
	} {
		if err := db.Where("1 = 1").Delete(m).Error; err != nil {
			log.Fatalf("Tabelle leeren fehlgeschlagen: %v", err)
		}
	}

	// --- Demo-User (CHEF) ---
	hash, err := auth.HashPassword("admin123")
	if err != nil {
		log.Fatalf("Passwort hashen fehlgeschlagen: %v", err)
	}
	chef := models.User{
		Username:     "admin@example.com",
		PasswordHash: hash,
		Role:         models.RoleChef,
	}
	if err := db.Create(&chef).Error; err != nil {
		log.Fatalf("Demo-User anlegen fehlgeschlagen: %v", err)
	}

	// --- Produkte ---
	productsData := []struct {
		sku, name, price string
	}{
		{"P-100", "Beratungspaket Basic", "890.00"},
		{"P-200", "Beratungspaket Plus", "1490.00"},
		{"P-300", "Supportvertrag", "590.00"},
		{"P-400", "Workshop Tagessatz", "1200.00"},
		{"P-500", "Lizenz SMALL", "49.00"},
		{"P-600", "Lizenz MEDIUM", "99.00"},
		{"P-700", "Lizenz LARGE", "199.00"},
	}
	products := make([]models.Product, 0, len(productsData))
	for _, pd := range productsData {
		price, err := decimal.NewFromString(pd.price)
		if err != nil {
			log.Fatalf("Preis %q ungültig: %v", pd.price, err)
		}
		p := models.Product{SKU: pd.sku, Name: pd.name, UnitPrice: price, CreatedAt: now}
		if err := db.Create(&p).Error; err != nil {
			log.Fatalf("Produkt anlegen fehlgeschlagen: %v", err)
		}
		products = append(products, p)
	}

	// --- Kunden ---
	customersData := []struct {
		company, contactName, email, phone, notes string
	}{
		{"Acme GmbH", "Max Mustermann", "max@acme.example", "+43 1 234567", "Hauptkunde Wien"},
		{"Blue Widgets OG", "Anna Blau", "anna@blue.example", "+43 699 111", "Interessiert an Upgrade"},
		{"TechNova GmbH", "Laura Huber", "laura@technova.example", "+43 316 9999", "Cloud-Projekt 2025"},
		{"Grün & Co KG", "Peter Grün", "peter@gruen.example", "+43 512 8888", "Supportvertrag Bronze"},
		{"Alpha Consult", "Sabine Weiss", "sabine@alpha.example", "+43 2742 12345", "Workshops geplant"},
		{"Bergblick Hotels", "Johann Steiner", "johann@bergblick.example", "+43 6542 7777", "Saisonbetrieb"},
		{"CityShop e.U.", "Martin Schwarz", "martin@cityshop.example", "+43 1 7654321", "E-Commerce"},
		{"DigiFactory GmbH", "Lisa König", "lisa@digifactory.example", "+43 732 5555", "Automation"},
		{"EventPro OG", "Thomas Fuchs", "thomas@eventpro.example", "+43 1 4444", "Events & Tickets"},
		{"FreshFoods KG", "Maria Grün", "maria@freshfoods.example", "+43 662 3333", "Lieferkettenanalyse"},
	}
	customers := make([]models.Customer, 0, len(customersData))
	for _, cd := range customersData {
		c := models.Customer{
			Company:     cd.company,
			ContactName: cd.contactName,
			Email:       cd.email,
			Phone:       cd.phone,
			Notes:       cd.notes,
			Street:      "Beispielstraße 1",
			ZipCode:     "1010",
			City:        "Wien",
			CreatedAt:   now.AddDate(0, 0, -rand.Intn(370)-30),
			UpdatedAt:   now,
		}
		if err := db.Create(&c).Error; err != nil {
			log.Fatalf("Kunde anlegen fehlgeschlagen: %v", err)
		}
		customers = append(customers, c)
	}

	randomDate := func() time.Time {
		return now.AddDate(0, 0, -rand.Intn(2*365)).Add(-time.Duration(rand.Intn(24)) * time.Hour)
	}

	statuses := []models.OrderStatus{models.StatusOpen, models.StatusPaid, models.StatusCancelled}

	// --- Bestellungen & Positionen (3-8 pro Kunde, 1-4 Positionen) ---
	for _, cst := range customers {
		n := rand.Intn(6) + 3
		for i := 0; i < n; i++ {
			items := make([]order.ItemInput, 0, 4)
			for j := 0; j < rand.Intn(4)+1; j++ {
				items = append(items, order.ItemInput{
					ProductID: products[rand.Intn(len(products))].ID,
					Quantity:  rand.Intn(5) + 1,
				})
			}

			orderNumber := fmt.Sprintf("ORD-%03d-%03d", cst.ID, i+1)
			status := statuses[rand.Intn(len(statuses))]
			if _, err := order.Create(db, cst.ID, orderNumber, randomDate(), status, "EUR", items); err != nil {
				log.Fatalf("Bestellung anlegen fehlgeschlagen: %v", err)
			}
		}
	}

	// --- Kontakte (3-8 pro Kunde) ---
	channels := []models.ContactChannel{
		models.ChannelPhone, models.ChannelEmail, models.ChannelMeeting, models.ChannelChat,
	}
	subjects := []string{
		"Rückfrage zum Angebot",
		"Support-Anfrage",
		"Quartalsgespräch",
		"Lizenzverlängerung",
		"Kickoff Meeting",
		"Status-Update",
	}

	for _, cst := range customers {
		n := rand.Intn(6) + 3
		for i := 0; i < n; i++ {
			contactDate := randomDate()
			rating := rand.Intn(5) + 1
			ct := models.Contact{
				CustomerID: cst.ID,
				UserID:     &chef.ID,
				Channel:    channels[rand.Intn(len(channels))],
				Subject:    subjects[rand.Intn(len(subjects))],
				Notes:      "Beispielkontakt (Seeder).",
				Rating:     &rating,
				ContactAt:  contactDate,
				CreatedAt:  contactDate,
			}
			if err := db.Create(&ct).Error; err != nil {
				log.Fatalf("Kontakt anlegen fehlgeschlagen: %v", err)
			}
		}
	}

	log.Println("Seeder fertig: Demo-User, Kunden, Produkte, Bestellungen und Kontakte angelegt.")
}
