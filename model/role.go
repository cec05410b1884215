package model

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// Role is the stored role of an account. It is informational only.
type Role string

const (
	RolePatient Role = "patient"
	RoleAdmin   Role = "admin"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RolePatient || r == RoleAdmin
}

// SeedAdminAccount creates the practitioner's admin account when it does not
// exist yet. An existing account with the same username is left untouched.
func SeedAdminAccount(db *gorm.DB, username, passwordHash string) error {
	if username == "" || passwordHash == "" {
		return nil
	}

	var existing Account
	err := db.Where("username = ?", username).First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	admin := Account{
		Username:     username,
		PasswordHash: passwordHash,
		Role:         RoleAdmin,
	}
	if err := db.Create(&admin).Error; err != nil {
		return fmt.Errorf("failed to seed admin account %s: %w", username, err)
	}
	return nil
}
