package order

import (
	"errors"
	"fmt"
	"time"

	"crm-backend/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type ItemInput struct {
	ProductID uint `json:"product_id"`
	Quantity  int  `json:"quantity"`
}

var ErrNoItems = errors.New("bestellung ohne positionen")

// Create legt eine Bestellung samt Positionen in einer Transaktion an.
// Der Einzelpreis jeder Position wird vom Produkt abfotografiert und
// total_amount als Summe der Positionssummen festgeschrieben - spätere
// Preisänderungen am Produkt ändern die Bestellung nicht mehr.
func Create(db *gorm.DB, customerID uint, orderNumber string, orderDate time.Time, status models.OrderStatus, currency string, items []ItemInput) (*models.Order, error) {
	if len(items) == 0 {
		return nil, ErrNoItems
	}
	if status == "" {
		status = models.StatusOpen
	}
	if currency == "" {
		currency = "EUR"
	}

	var created models.Order
	err := db.Transaction(func(tx *gorm.DB) error {
		var cst models.Customer
		if err := tx.First(&cst, customerID).Error; err != nil {
			return fmt.Errorf("kunde %d: %w", customerID, err)
		}

		created = models.Order{
			CustomerID:  customerID,
			OrderNumber: orderNumber,
			OrderDate:   orderDate,
			Status:      status,
			TotalAmount: decimal.Zero,
			Currency:    currency,
		}
		if err := tx.Create(&created).Error; err != nil {
			return err
		}

		total := decimal.Zero
		for _, in := range items {
			if in.Quantity < 1 {
				return fmt.Errorf("ungültige menge %d", in.Quantity)
			}

			var product models.Product
			if err := tx.First(&product, in.ProductID).Error; err != nil {
				return fmt.Errorf("produkt %d: %w", in.ProductID, err)
			}

			item := models.OrderItem{
				OrderID:   created.ID,
				ProductID: product.ID,
				Quantity:  in.Quantity,
				UnitPrice: product.UnitPrice,
			}
			if err := tx.Create(&item).Error; err != nil {
				return err
			}
			total = total.Add(item.LineTotal())
		}

		created.TotalAmount = total
		return tx.Model(&created).Update("total_amount", total).Error
	})
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// RecomputeTotal berechnet total_amount aus den aktuellen Positionen neu und
// speichert es. Muss nach jeder Positionsänderung laufen, damit die Summe
// stimmt.
func RecomputeTotal(db *gorm.DB, orderID uint) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var items []models.OrderItem
		if err := tx.Where("order_id = ?", orderID).Find(&items).Error; err != nil {
			return err
		}

		total := decimal.Zero
		for _, it := range items {
			total = total.Add(it.LineTotal())
		}

		return tx.Model(&models.Order{}).Where("id = ?", orderID).
			Update("total_amount", total).Error
	})
}
