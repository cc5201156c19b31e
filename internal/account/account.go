// Package account fakes sign-in. A known email logs in as its owner and any
// other non-blank credentials log in as the demo user.
package account

import (
	"errors"
	"strings"

	"github.com/fjod/go_storefront/internal/domain"
)

var (
	ErrInvalidCredentials = errors.New("email and password are required")
	ErrUserNotFound       = errors.New("user not found")
)

// DemoUser is the account unknown emails resolve to.
var DemoUser = domain.User{
	ID:     "1",
	Name:   "John Doe",
	Email:  "john@example.com",
	Avatar: "/assets/fitness-gear.jpg",
}

type Accounts struct {
	users   map[string]domain.User
	byEmail map[string]string
}

func New(users ...domain.User) *Accounts {
	a := &Accounts{
		users:   make(map[string]domain.User, len(users)),
		byEmail: make(map[string]string, len(users)),
	}
	for _, u := range users {
		a.users[u.ID] = u
		a.byEmail[normalizeEmail(u.Email)] = u.ID
	}
	return a
}

// Login resolves email to a registered user, falling back to DemoUser when
// the email is unknown. The demo user must itself be registered.
func (a *Accounts) Login(email, password string) (*domain.User, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return nil, ErrInvalidCredentials
	}
	id, ok := a.byEmail[normalizeEmail(email)]
	if !ok {
		id = DemoUser.ID
	}
	return a.User(id)
}

func (a *Accounts) User(id string) (*domain.User, error) {
	u, ok := a.users[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	return &u, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
