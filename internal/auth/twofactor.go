package auth

import (
	"crypto/rand"
	"errors"
	"fmt"
	"log"
	"math/big"
	"time"

	"crm-backend/internal/mailer"
	"crm-backend/internal/models"

	"gorm.io/gorm"
)

// Gültigkeitsdauer eines Login-Codes.
const CodeTTL = 5 * time.Minute

// ErrInvalidCode - kein passender oder ein abgelaufener Code.
var ErrInvalidCode = errors.New("ungültiger oder abgelaufener Code")

// GenerateCode erzeugt einen 5-stelligen Code, führende Nullen inklusive.
func GenerateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(100000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%05d", n.Int64()), nil
}

// StartFlow stößt die Zwei-Faktor-Anmeldung an: alte Codes des Benutzers
// werden gelöscht (es gibt immer höchstens einen gültigen Code), ein neuer
// Code wird gespeichert und per Mail verschickt. Scheitert der Versand,
// landet der Code im Log - der Ablauf bricht deswegen nie ab.
//
// Kein Lockout, keine Frequenzbegrenzung: Brute-Force wird nur durch die
// 5-Minuten-Gültigkeit und die Invalidierung alter Codes gebremst.
func StartFlow(db *gorm.DB, m mailer.Mailer, user *models.User) error {
	code, err := GenerateCode()
	if err != nil {
		return fmt.Errorf("code erzeugen: %w", err)
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", user.ID).Delete(&models.LoginCode{}).Error; err != nil {
			return err
		}
		return tx.Create(&models.LoginCode{
			UserID:    user.ID,
			Code:      code,
			ExpiresAt: time.Now().Add(CodeTTL),
		}).Error
	})
	if err != nil {
		return fmt.Errorf("code speichern: %w", err)
	}

	body := fmt.Sprintf("Dein Login-Code lautet: %s\nEr ist 5 Minuten gültig.", code)
	if err := m.Send(user.Username, "Dein Anmeldecode", body); err != nil {
		log.Printf("[WARN] Mail konnte nicht gesendet werden: %v", err)
		log.Printf("[DEBUG] Login-Code fuer %s: %s", user.Username, code)
	}

	return nil
}

// VerifyCode prüft die Eingabe gegen den zuletzt ausgestellten Code des
// Benutzers (exakter String-Vergleich, führende Nullen zählen). Nur ein
// vorhandener, noch nicht abgelaufener Code zählt; bei Erfolg wird die Zeile
// gelöscht, der Code ist also genau einmal verwendbar.
func VerifyCode(db *gorm.DB, userID uint, input string) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var record models.LoginCode
		err := tx.Where("user_id = ? AND code = ?", userID, input).
			Order("id DESC").
			First(&record).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrInvalidCode
		}
		if err != nil {
			return err
		}

		if !record.ExpiresAt.After(time.Now()) {
			return ErrInvalidCode
		}

		return tx.Delete(&record).Error
	})
}
