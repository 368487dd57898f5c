// Package identity authenticates storefront users. The Provider interface is
// what the HTTP layer depends on; LocalProvider keeps accounts in the store
// and issues HS256 access tokens.
package identity

import (
	"context"
	"errors"

	"storefront/internal/models"
)

var (
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrEmailTaken          = errors.New("email already registered")
	ErrInvalidToken        = errors.New("invalid token")
	ErrProviderUnavailable = errors.New("identity provider unavailable")
	ErrUserNotFound        = errors.New("user not found")
	ErrMissingFields       = errors.New("email and password are required")
)

type Provider interface {
	Register(ctx context.Context, in RegisterInput) (Session, error)
	Login(ctx context.Context, email, password string) (Session, error)
	LoginWithProvider(ctx context.Context, name string) (Session, error)
	CurrentUser(ctx context.Context, token string) (Profile, error)
	Logout(ctx context.Context, token string) error
}

type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

// Profile is the user as exposed to clients.
type Profile struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

func (p Profile) IsAdmin() bool {
	return p.Role == models.RoleAdmin
}

// Session is returned on successful login or registration.
type Session struct {
	AccessToken string  `json:"accessToken"`
	ExpiresIn   int64   `json:"expiresIn"`
	User        Profile `json:"user"`
}

func profileOf(u models.User) Profile {
	return Profile{ID: u.ID, Email: u.Email, Name: u.Name, Role: u.Role}
}
