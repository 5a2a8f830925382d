// Package validator holds the password rules shared by login and user administration.
package validator

import (
	"unicode"

	"presupuestos_backend/platform/validator"

	playground "github.com/go-playground/validator/v10"
)

// StrongPasswordTag is the struct tag that enforces PasswordPolicy.
const StrongPasswordTag = "strongpassword"

// PasswordPolicy describes the password requirements for API error messages
const PasswordPolicy = "Password must be at least 8 characters and include: uppercase letter, lowercase letter, number, and special character"

// Register adds the password rules to val.
func Register(val *validator.Validator) error {
	return val.RegisterValidation(StrongPasswordTag, validateStrongPassword)
}

func validateStrongPassword(fl playground.FieldLevel) bool {
	return IsStrongPassword(fl.Field().String())
}

// IsStrongPassword checks for at least 8 characters with an uppercase letter,
// a lowercase letter, a digit and a punctuation or symbol character.
func IsStrongPassword(password string) bool {
	if len(password) < 8 {
		return false
	}

	var hasUpper, hasLower, hasDigit, hasSpecial bool
	for _, char := range password {
		switch {
		case unicode.IsUpper(char):
			hasUpper = true
		case unicode.IsLower(char):
			hasLower = true
		case unicode.IsDigit(char):
			hasDigit = true
		case unicode.IsPunct(char) || unicode.IsSymbol(char):
			hasSpecial = true
		}
	}

	return hasUpper && hasLower && hasDigit && hasSpecial
}
