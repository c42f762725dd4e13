package server

import (
	"errors"
	"strings"

	"github.com/euRhuanOLiveira/Driverpro/internal/identity"
)

// validateCredentials mirrors the checks the sign-in form does before
// calling the identity provider.
func validateCredentials(cred *identity.Credentials) error {
	cred.Email = strings.TrimSpace(cred.Email)
	if cred.Email == "" {
		return errors.New("email cannot be empty")
	}
	if !strings.Contains(cred.Email, "@") || !strings.Contains(cred.Email, ".") {
		return errors.New("invalid email format")
	}
	if len(cred.Password) < 6 {
		return errors.New("password too short, minimum 6 characters")
	}
	return nil
}
