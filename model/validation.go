package model

import (
	"fmt"
	"net/mail"
	"strings"
)

func validateEmail(email string) error {
	if strings.TrimSpace(email) == "" {
		return fmt.Errorf("email is required")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return fmt.Errorf("email %q is not valid", email)
	}
	return nil
}

func (r LoginRequest) Validate() error {
	if err := validateEmail(r.Email); err != nil {
		return err
	}
	if r.Password == "" {
		return fmt.Errorf("password is required")
	}
	return nil
}

func (r RegisterRequest) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return fmt.Errorf("name is required")
	}
	if strings.TrimSpace(r.Surname) == "" {
		return fmt.Errorf("surname is required")
	}
	if err := validateEmail(r.Email); err != nil {
		return err
	}
	if len(r.Password) < 8 {
		return fmt.Errorf("password must be at least 8 characters long")
	}
	return nil
}

func (r EmailRequest) Validate() error {
	return validateEmail(r.Email)
}

func (r ResetPasswordRequest) Validate() error {
	if r.Token == "" {
		return fmt.Errorf("recovery token is required")
	}
	if len(r.Password) < 8 {
		return fmt.Errorf("password must be at least 8 characters long")
	}
	return nil
}

func (r UpdateUserRequest) Validate() error {
	if r.CurrentPassword == "" {
		return fmt.Errorf("current password is required")
	}
	if r.NewPassword != nil && len(*r.NewPassword) < 8 {
		return fmt.Errorf("new password must be at least 8 characters long")
	}
	return nil
}

func (r TransferRequest) Validate() error {
	if r.Amount <= 0 {
		return fmt.Errorf("amount must be greater than zero")
	}
	return nil
}

func (r BalanceRequest) Validate() error {
	if r.Amount <= 0 {
		return fmt.Errorf("amount must be greater than zero")
	}
	return nil
}

func (r AliasRequest) Validate() error {
	alias := strings.TrimSpace(r.Alias)
	if len(alias) < 6 || len(alias) > 20 {
		return fmt.Errorf("alias must be between 6 and 20 characters")
	}
	for _, c := range alias {
		if !(c == '.' || c == '-' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')) {
			return fmt.Errorf("alias may only contain letters, digits, '.' and '-'")
		}
	}
	return nil
}

func (r FavoriteRequest) Validate() error {
	if strings.TrimSpace(r.Alias) == "" {
		return fmt.Errorf("alias is required")
	}
	return nil
}

func (r TaxRequest) Validate() error {
	if r.Amount <= 0 {
		return fmt.Errorf("amount must be greater than zero")
	}
	return nil
}
