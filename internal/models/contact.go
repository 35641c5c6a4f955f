package models

import "time"

type ContactChannel string

const (
	ChannelPhone   ContactChannel = "phone"
	ChannelEmail   ContactChannel = "email"
	ChannelMeeting ContactChannel = "meeting"
	ChannelChat    ContactChannel = "chat"
)

// Contact - Kontaktereignis zu einem Kunden. ContactAt ist der Zeitpunkt des
// Kontakts selbst (kann nachträglich erfasst werden), CreatedAt der Zeitpunkt
// der Erfassung.
type Contact struct {
	ID         uint `gorm:"primaryKey"`
	CustomerID uint `gorm:"index;not null"`
	Customer   Customer
	UserID     *uint `gorm:"index"`
	User       *User `gorm:"constraint:OnDelete:SET NULL"`

	Channel ContactChannel `gorm:"size:20;not null"`
	Subject string         `gorm:"size:200;not null"`
	Notes   string         `gorm:"type:text"`

	// Bewertung 1-5, optional
	Rating *int

	ContactAt time.Time `gorm:"index;not null"`
	CreatedAt time.Time
}
