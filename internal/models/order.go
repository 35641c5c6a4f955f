package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	StatusOpen      OrderStatus = "offen"
	StatusPaid      OrderStatus = "bezahlt"
	StatusCancelled OrderStatus = "storniert"
)

// Order - TotalAmount ist die bei Erstellung festgeschriebene Summe der
// Positionen. Ändert sich eine Position, muss die Summe neu berechnet und
// gespeichert werden.
type Order struct {
	ID         uint `gorm:"primaryKey"`
	CustomerID uint `gorm:"index;not null"`
	Customer   Customer

	OrderNumber string      `gorm:"size:50;uniqueIndex;not null"`
	OrderDate   time.Time   `gorm:"not null"`
	Status      OrderStatus `gorm:"size:20;not null;default:offen"`

	TotalAmount decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Currency    string          `gorm:"size:3;not null;default:EUR"`

	CreatedAt time.Time

	Items []OrderItem `gorm:"constraint:OnDelete:CASCADE"`
}

// OrderItem - UnitPrice ist ein Preis-Schnappschuss zum Bestellzeitpunkt,
// spätere Preisänderungen am Produkt wirken nicht zurück.
type OrderItem struct {
	ID        uint `gorm:"primaryKey"`
	OrderID   uint `gorm:"index;not null"`
	ProductID uint `gorm:"index;not null"`
	Product   Product

	Quantity  int             `gorm:"not null"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(10,2);not null"`
}

// LineTotal - Menge × Einzelpreis
func (i *OrderItem) LineTotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}
