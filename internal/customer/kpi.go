package customer

import (
	"errors"
	"time"

	"crm-backend/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// revenueSum summiert total_amount über die Bestellungen eines Kunden,
// stornierte Bestellungen zählen nie mit. Das optionale Zeitfenster ist
// beidseitig inklusiv.
func revenueSum(db *gorm.DB, customerID uint, from, to *time.Time) (decimal.Decimal, error) {
	query := db.Model(&models.Order{}).
		Where("customer_id = ? AND status <> ?", customerID, models.StatusCancelled)
	if from != nil {
		query = query.Where("order_date >= ?", *from)
	}
	if to != nil {
		query = query.Where("order_date <= ?", *to)
	}

	var orders []models.Order
	if err := query.Find(&orders).Error; err != nil {
		return decimal.Zero, err
	}

	total := decimal.Zero
	for _, o := range orders {
		total = total.Add(o.TotalAmount)
	}
	return total, nil
}

// RevenueTotal - Gesamtumsatz ohne stornierte Bestellungen.
func RevenueTotal(db *gorm.DB, customerID uint) (decimal.Decimal, error) {
	return revenueSum(db, customerID, nil, nil)
}

// RevenueLastYear - Umsatz des vorigen Kalenderjahres (1.1. bis 31.12. 23:59:59).
func RevenueLastYear(db *gorm.DB, customerID uint, now time.Time) (decimal.Decimal, error) {
	lastYear := now.Year() - 1
	jan1 := time.Date(lastYear, 1, 1, 0, 0, 0, 0, now.Location())
	dec31 := time.Date(lastYear, 12, 31, 23, 59, 59, 0, now.Location())
	return revenueSum(db, customerID, &jan1, &dec31)
}

// DaysSinceLastContact - ganze Tage seit dem jüngsten Kontakt, nil wenn es
// noch keinen Kontakt gibt.
func DaysSinceLastContact(db *gorm.DB, customerID uint, now time.Time) (*int, error) {
	var last models.Contact
	err := db.Where("customer_id = ?", customerID).
		Order("contact_at DESC").
		First(&last).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	days := int(now.Sub(last.ContactAt).Hours() / 24)
	return &days, nil
}
