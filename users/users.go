package users

import (
	"fmt"
	"time"
	"unicode"

	"github.com/jrsteele09/arcash/model"
	"golang.org/x/crypto/bcrypt"
)

// RoleType is the role carried in access tokens and sessions.
type RoleType string

const (
	RoleUser  RoleType = model.RoleUser
	RoleAdmin RoleType = model.RoleAdmin
)

// Valid reports whether r is a known role.
func (r RoleType) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

type User struct {
	ID           string    `json:"id,omitempty"`
	Email        string    `json:"email,omitempty"`
	PasswordHash string    `json:"-"` // never serialize
	Name         string    `json:"name,omitempty"`
	Surname      string    `json:"surname,omitempty"`
	DNI          string    `json:"dni,omitempty"`
	AccountID    string    `json:"account_id,omitempty"`
	Role         RoleType  `json:"role,omitempty"`
	DateJoined   time.Time `json:"date_joined,omitempty"`
	LastLogin    time.Time `json:"last_login,omitempty"`

	Verified bool `json:"verified,omitempty"` // email address confirmed
	Blocked  bool `json:"blocked,omitempty"`  // login refused
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

// CheckPassword checks password against the user's stored hash.
func (u *User) CheckPassword(password string) bool {
	return CheckPasswordHash(password, u.PasswordHash)
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// ToModel converts to the wire representation.
func (u *User) ToModel() model.User {
	return model.User{
		ID:        u.ID,
		Name:      u.Name,
		Surname:   u.Surname,
		Email:     u.Email,
		DNI:       u.DNI,
		Role:      string(u.Role),
		Verified:  u.Verified,
		Blocked:   u.Blocked,
		AccountID: u.AccountID,
		CreatedAt: u.DateJoined,
	}
}
