package models

import "time"

// LoginCode - Einmalcode für die Zwei-Faktor-Anmeldung.
// Pro Login-Versuch entsteht eine neue Zeile; gültig ist immer nur die
// zuletzt ausgestellte. Nach erfolgreicher Prüfung wird die Zeile gelöscht.
type LoginCode struct {
	ID        uint      `gorm:"primaryKey"`
	UserID    uint      `gorm:"index;not null"`
	User      User      `gorm:"constraint:OnDelete:CASCADE"`
	Code      string    `gorm:"size:5;not null"`
	ExpiresAt time.Time `gorm:"index;not null"`
}
