package users

import (
	"fmt"
	"time"
	"unicode"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// RoleType represents a staff role within the hospital system
type RoleType string

const (
	RoleDoctor       RoleType = "DOCTOR"
	RoleNurse        RoleType = "NURSE"
	RoleReceptionist RoleType = "RECEPTIONIST"
	RoleAdmin        RoleType = "ADMIN"
)

// Valid reports whether r is one of the known roles.
func (r RoleType) Valid() bool {
	switch r {
	case RoleDoctor, RoleNurse, RoleReceptionist, RoleAdmin:
		return true
	}
	return false
}

type User struct {
	ID           uuid.UUID  `json:"id"`                      // Unique identifier for the user
	Email        string     `json:"email"`                   // Unique email address, used as the login name
	PasswordHash string     `json:"-"`                       // Hashed version of the user's password - never serialize
	FirstName    string     `json:"first_name"`              // First name of the user
	LastName     string     `json:"last_name"`               // Last name of the user
	Phone        string     `json:"phone,omitempty"`         // Optional contact number
	Role         RoleType   `json:"role"`                    // Staff role (DOCTOR, NURSE, RECEPTIONIST, ADMIN)
	DepartmentID *uuid.UUID `json:"department_id,omitempty"` // Department the user belongs to, if any
	Active       bool       `json:"active"`                  // Whether the user may authenticate
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// ValidatePasswordStrength checks if password meets security requirements:
// - At least 8 characters long
// - Contains uppercase and lowercase letters
// - Contains at least one number
func ValidatePasswordStrength(password string) error {
	if len(password) < 8 {
		return fmt.Errorf("password must be at least 8 characters long")
	}

	var (
		hasUpper  bool
		hasLower  bool
		hasNumber bool
	)

	for _, char := range password {
		if unicode.IsUpper(char) {
			hasUpper = true
		} else if unicode.IsLower(char) {
			hasLower = true
		} else if unicode.IsDigit(char) {
			hasNumber = true
		}
	}

	if !hasUpper {
		return fmt.Errorf("password must contain at least one uppercase letter")
	}
	if !hasLower {
		return fmt.Errorf("password must contain at least one lowercase letter")
	}
	if !hasNumber {
		return fmt.Errorf("password must contain at least one number")
	}

	return nil
}

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}
