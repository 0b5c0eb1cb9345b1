// Package model holds the JSON payloads exchanged with the ArCash backend.
package model

import "time"

// Role values carried in the session and in user records.
const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token     string `json:"token"`
	AccountID string `json:"accountId"`
	Role      string `json:"role"`
}

type RefreshResponse struct {
	Token string `json:"token"`
}

type RegisterRequest struct {
	Name     string `json:"name"`
	Surname  string `json:"surname"`
	Email    string `json:"email"`
	Password string `json:"password"`
	DNI      string `json:"dni,omitempty"`
}

type RegisterResponse struct {
	ID string `json:"id"`
}

// EmailRequest is the body of the resend and recovery-mail endpoints.
type EmailRequest struct {
	Email string `json:"email"`
}

// TokenRequest is the body of the email validation and recovery-token endpoints.
type TokenRequest struct {
	Token string `json:"token"`
}

type ResetPasswordRequest struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Surname   string    `json:"surname"`
	Email     string    `json:"email"`
	DNI       string    `json:"dni,omitempty"`
	Role      string    `json:"role"`
	Verified  bool      `json:"verified"`
	Blocked   bool      `json:"blocked"`
	AccountID string    `json:"accountId,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// UpdateUserRequest changes the logged-in user's profile. CurrentPassword is always required.
type UpdateUserRequest struct {
	Name            *string `json:"name,omitempty"`
	Surname         *string `json:"surname,omitempty"`
	CurrentPassword string  `json:"currentPassword"`
	NewPassword     *string `json:"newPassword,omitempty"`
}

type Account struct {
	AccountID string  `json:"accountId"`
	Alias     string  `json:"alias"`
	CVU       string  `json:"cvu"`
	Balance   float64 `json:"balance"`
	Currency  string  `json:"currency"`
}

type BalanceRequest struct {
	Amount float64 `json:"amount"`
}

type AliasRequest struct {
	Alias string `json:"alias"`
}

type TransactionType string

const (
	TransactionDeposit  TransactionType = "DEPOSIT"
	TransactionTransfer TransactionType = "TRANSFER"
)

type Transaction struct {
	ID            string          `json:"id"`
	FromAccountID string          `json:"fromAccountId,omitempty"`
	ToAccountID   string          `json:"toAccountId"`
	Amount        float64         `json:"amount"`
	Description   string          `json:"description,omitempty"`
	Type          TransactionType `json:"type"`
	CreatedAt     time.Time       `json:"createdAt"`
}

type TransferRequest struct {
	Amount      float64 `json:"amount"`
	Description string  `json:"description,omitempty"`
}

// Recipient is an account returned by the transfer destination search.
type Recipient struct {
	AccountID string `json:"accountId"`
	Alias     string `json:"alias"`
	CVU       string `json:"cvu"`
	OwnerName string `json:"ownerName"`
}

type Favorite struct {
	ID        string    `json:"id"`
	Alias     string    `json:"alias"`
	Name      string    `json:"name"`
	AccountID string    `json:"accountId"`
	CreatedAt time.Time `json:"createdAt"`
}

type FavoriteRequest struct {
	Alias string `json:"alias"`
	Name  string `json:"name"`
}

// AdminUserUpdate changes a user's administrative flags. Nil fields are left untouched.
type AdminUserUpdate struct {
	Role     *string `json:"role,omitempty"`
	Blocked  *bool   `json:"blocked,omitempty"`
	Verified *bool   `json:"verified,omitempty"`
}

type TaxRequest struct {
	Amount float64 `json:"amount"`
}

// TaxBreakdown is the cost of a foreign-currency purchase including taxes, in ARS.
type TaxBreakdown struct {
	Currency     string  `json:"currency"`
	Amount       float64 `json:"amount"`
	ExchangeRate float64 `json:"exchangeRate"`
	BaseARS      float64 `json:"baseARS"`
	PaisTax      float64 `json:"paisTax"`
	GananciasTax float64 `json:"gananciasTax"`
	Total        float64 `json:"total"`
}

type Message struct {
	Message string `json:"message"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
