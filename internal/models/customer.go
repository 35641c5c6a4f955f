package models

import "time"

type Customer struct {
	ID          uint   `gorm:"primaryKey"`
	Company     string `gorm:"size:120;not null"`
	ContactName string `gorm:"size:120"`
	Email       string `gorm:"size:120"`
	Phone       string `gorm:"size:50"`
	Notes       string `gorm:"type:text"`

	Street  string `gorm:"size:120"`
	ZipCode string `gorm:"size:20"`
	City    string `gorm:"size:80"`

	CreatedAt time.Time
	UpdatedAt time.Time

	Orders   []Order   `gorm:"constraint:OnDelete:CASCADE"`
	Contacts []Contact `gorm:"constraint:OnDelete:CASCADE"`
}
