package models

import "time"

type UserRole string

const (
	RoleChef  UserRole = "CHEF"
	RoleStaff UserRole = "STAFF"
)

// User - Benutzername ist die E-Mail-Adresse
type User struct {
	ID           uint     `gorm:"primaryKey"`
	Username     string   `gorm:"size:120;uniqueIndex;not null"`
	PasswordHash string   `gorm:"size:256;not null"`
	Role         UserRole `gorm:"size:20;not null;default:STAFF"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (u *User) IsChef() bool {
	return u.Role == RoleChef
}
