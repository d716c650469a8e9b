package auth

import (
	"context"
	"strings"

	"github.com/google/uuid"
)

// Staff is a back-office account allowed to operate the console.
type Staff struct {
	ID    string
	Email string
}

// StaffAuthenticator checks credentials against the account configured for
// this deployment.
type StaffAuthenticator struct {
	email        string
	passwordHash string
	hasher       PasswordHasher
}

func NewStaffAuthenticator(email, passwordHash string, hasher PasswordHasher) *StaffAuthenticator {
	return &StaffAuthenticator{
		email:        normalizeEmail(email),
		passwordHash: passwordHash,
		hasher:       hasher,
	}
}

func (a *StaffAuthenticator) Login(_ context.Context, email, password string) (*Staff, error) {
	cleanEmail := normalizeEmail(email)
	if cleanEmail == "" || strings.TrimSpace(password) == "" {
		return nil, ErrInvalidCredentials
	}
	if a.email == "" || a.passwordHash == "" || cleanEmail != a.email {
		return nil, ErrInvalidCredentials
	}
	if err := a.hasher.Compare(a.passwordHash, password); err != nil {
		return nil, ErrInvalidCredentials
	}
	return a.staff(), nil
}

// Lookup returns the staff account a token was issued to.
func (a *StaffAuthenticator) Lookup(_ context.Context, id string) (*Staff, error) {
	if a.email == "" || id != a.staff().ID {
		return nil, ErrInvalidToken
	}
	return a.staff(), nil
}

// staff derives a stable ID from the email so tokens survive restarts.
func (a *StaffAuthenticator) staff() *Staff {
	return &Staff{
		ID:    uuid.NewSHA1(uuid.NameSpaceURL, []byte("mailto:"+a.email)).String(),
		Email: a.email,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
