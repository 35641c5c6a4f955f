package auth

import (
	"fmt"
	"testing"
	"time"

	"crm-backend/internal/database"
	"crm-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type captureMailer struct {
	sent []string
	fail bool
}

func (m *captureMailer) Send(to, subject, body string) error {
	if m.fail {
		return fmt.Errorf("smtp nicht erreichbar")
	}
	m.sent = append(m.sent, body)
	return nil
}

func newTestUser(t *testing.T, email string) *models.User {
	t.Helper()
	hash, err := HashPassword("secret1")
	require.NoError(t, err)
	user := &models.User{Username: email, PasswordHash: hash}
	require.NoError(t, database.DB.Create(user).Error)
	return user
}

func TestGenerateCode_Format(t *testing.T) {
	for i := 0; i < 200; i++ {
		code, err := GenerateCode()
		require.NoError(t, err)
		require.Len(t, code, 5)
		for _, ch := range code {
			assert.True(t, ch >= '0' && ch <= '9', "Code enthält Nicht-Ziffer: %q", code)
		}
	}
}

func TestStartFlow_InvalidatesPriorCodes(t *testing.T) {
	db := database.InitTest(t)
	user := newTestUser(t, "user@example.com")
	m := &captureMailer{}

	require.NoError(t, StartFlow(db, m, user))
	require.NoError(t, StartFlow(db, m, user))
	require.NoError(t, StartFlow(db, m, user))

	// Höchstens ein gültiger Code pro Benutzer
	var count int64
	require.NoError(t, db.Model(&models.LoginCode{}).Where("user_id = ?", user.ID).Count(&count).Error)
	assert.Equal(t, int64(1), count)
	assert.Len(t, m.sent, 3)
}

func TestStartFlow_MailFailureDoesNotBlock(t *testing.T) {
	db := database.InitTest(t)
	user := newTestUser(t, "user@example.com")

	// Versandfehler dürfen den Ablauf nie stoppen, der Code bleibt gespeichert
	require.NoError(t, StartFlow(db, &captureMailer{fail: true}, user))

	var record models.LoginCode
	require.NoError(t, db.Where("user_id = ?", user.ID).First(&record).Error)
	assert.Len(t, record.Code, 5)
	assert.True(t, record.ExpiresAt.After(time.Now()))
}

func TestVerifyCode_SuccessIsOneTime(t *testing.T) {
	db := database.InitTest(t)
	user := newTestUser(t, "user@example.com")
	require.NoError(t, StartFlow(db, &captureMailer{}, user))

	var record models.LoginCode
	require.NoError(t, db.Where("user_id = ?", user.ID).First(&record).Error)

	require.NoError(t, VerifyCode(db, user.ID, record.Code))

	// Replay mit demselben Code schlägt fehl
	assert.ErrorIs(t, VerifyCode(db, user.ID, record.Code), ErrInvalidCode)

	var count int64
	require.NoError(t, db.Model(&models.LoginCode{}).Where("user_id = ?", user.ID).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}

func TestVerifyCode_WrongCode(t *testing.T) {
	db := database.InitTest(t)
	user := newTestUser(t, "user@example.com")
	require.NoError(t, StartFlow(db, &captureMailer{}, user))

	var record models.LoginCode
	require.NoError(t, db.Where("user_id = ?", user.ID).First(&record).Error)

	wrong := "00000"
	if record.Code == wrong {
		wrong = "00001"
	}
	assert.ErrorIs(t, VerifyCode(db, user.ID, wrong), ErrInvalidCode)

	// Der Code bleibt erhalten, ein weiterer Versuch ist möglich
	require.NoError(t, VerifyCode(db, user.ID, record.Code))
}

func TestVerifyCode_Expired(t *testing.T) {
	db := database.InitTest(t)
	user := newTestUser(t, "user@example.com")

	record := models.LoginCode{
		UserID:    user.ID,
		Code:      "04711",
		ExpiresAt: time.Now().Add(-time.Minute),
	}
	require.NoError(t, db.Create(&record).Error)

	assert.ErrorIs(t, VerifyCode(db, user.ID, "04711"), ErrInvalidCode)
}

func TestVerifyCode_LeadingZerosExact(t *testing.T) {
	db := database.InitTest(t)
	user := newTestUser(t, "user@example.com")

	record := models.LoginCode{
		UserID:    user.ID,
		Code:      "00042",
		ExpiresAt: time.Now().Add(CodeTTL),
	}
	require.NoError(t, db.Create(&record).Error)

	// "42" ist nicht "00042" - führende Nullen zählen
	assert.ErrorIs(t, VerifyCode(db, user.ID, "42"), ErrInvalidCode)
	require.NoError(t, VerifyCode(db, user.ID, "00042"))
}

func TestSanitizeNext(t *testing.T) {
	assert.Equal(t, "/customers/3", SanitizeNext("/customers/3"))
	assert.Equal(t, "", SanitizeNext("https://evil.example"))
	assert.Equal(t, "", SanitizeNext("//evil.example"))
	assert.Equal(t, "", SanitizeNext(""))
}
