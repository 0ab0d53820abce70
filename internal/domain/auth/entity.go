// internal/domain/auth/entity.go
package auth

import (
	"encoding/json"

	"github.com/nabin216/ZotPot/internal/domain/order"
)

// Role decides which part of the app a user sees
type Role string

const (
	RoleCustomer      Role = "customer"
	RoleDeliveryAgent Role = "delivery_agent"
	RoleAdmin         Role = "admin"
)

// IsValid reports whether r is a known role
func (r Role) IsValid() bool {
	switch r {
	case RoleCustomer, RoleDeliveryAgent, RoleAdmin:
		return true
	}
	return false
}

// User is the signed-in account as the client sees it
type User struct {
	ID      string          `json:"id"`
	Email   string          `json:"email"`
	Name    string          `json:"name"`
	Role    Role            `json:"role"`
	Phone   string          `json:"phone,omitempty"`
	Avatar  string          `json:"avatar,omitempty"`
	Address *order.Location `json:"address,omitempty"`
}

func (u User) clone() User {
	c := u
	if u.Address != nil {
		addr := *u.Address
		c.Address = &addr
	}
	return c
}

// State is the auth slice
type State struct {
	user  *User
	token string
}

// Empty returns a signed-out state
func Empty() State {
	return State{}
}

// User returns the signed-in user, or nil
func (s State) User() *User {
	if s.user == nil {
		return nil
	}
	u := s.user.clone()
	return &u
}

// Token returns the session token
func (s State) Token() string {
	return s.token
}

// IsAuthenticated reports whether a user is signed in
func (s State) IsAuthenticated() bool {
	return s.user != nil
}

// UserID returns the signed-in user's id, or ""
func (s State) UserID() string {
	if s.user == nil {
		return ""
	}
	return s.user.ID
}

// MarshalJSON leaves the token out of rendered snapshots
func (s State) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		User            *User `json:"user"`
		IsAuthenticated bool  `json:"is_authenticated"`
	}{
		User:            s.User(),
		IsAuthenticated: s.IsAuthenticated(),
	})
}
