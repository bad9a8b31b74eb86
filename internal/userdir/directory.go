// Package userdir exposes read-only access to the user directory owned by the
// account service. The messaging core only needs existence checks and display
// metadata; it never mutates user records.
package userdir

import (
	"context"
	"errors"
	"strings"
)

// ErrNotFound signals that the requested user id does not resolve.
var ErrNotFound = errors.New("userdir: user not found")

// User is the slice of the account record the messaging core consumes.
type User struct {
	ID        string `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	UserType  string `json:"userType"` // "client" | "freelancer"
}

// DisplayName joins the name parts, tolerating records with a missing part.
func (u User) DisplayName() string {
	return strings.TrimSpace(strings.TrimSpace(u.FirstName) + " " + strings.TrimSpace(u.LastName))
}

// Directory resolves user ids to directory records.
// Implementations return ErrNotFound for unknown ids.
type Directory interface {
	FindByID(ctx context.Context, id string) (User, error)
}
