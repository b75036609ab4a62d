package services

import (
	"crypto/subtle"
	"strings"

	"github.com/shiv060600/Tuttle-Tools/internal/apperr"
	"github.com/shiv060600/Tuttle-Tools/pkg/utils"
)

// AdminAuthenticator checks the single configured admin credential. When a
// bcrypt hash is configured the plain password is ignored.
type AdminAuthenticator struct {
	user     string
	password string
	hash     string
}

func NewAdminAuthenticator(user, password, hash string) *AdminAuthenticator {
	return &AdminAuthenticator{user: user, password: password, hash: hash}
}

// Enabled reports whether any admin password is configured.
func (a *AdminAuthenticator) Enabled() bool {
	return a.hash != "" || a.password != ""
}

// Verify returns InvalidInput for missing credentials and Unauthorized for
// wrong ones. Login is refused outright when no password is configured.
func (a *AdminAuthenticator) Verify(username, password string) error {
	if strings.TrimSpace(username) == "" || password == "" {
		return apperr.InvalidInput("Username and password are required")
	}
	if !a.Enabled() {
		return apperr.New(apperr.ErrUnauthorized, "Invalid credentials")
	}

	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(a.user)) == 1
	var passOK bool
	if a.hash != "" {
		passOK = utils.CheckPasswordHash(password, a.hash)
	} else {
		passOK = subtle.ConstantTimeCompare([]byte(password), []byte(a.password)) == 1
	}

	if !userOK || !passOK {
		return apperr.New(apperr.ErrUnauthorized, "Invalid credentials")
	}
	return nil
}
