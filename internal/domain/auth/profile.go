// internal/domain/auth/profile.go
package auth

import (
	"strings"

	"github.com/nabin216/ZotPot/internal/domain/order"
)

// FieldUpdate is one editable profile field. Each variant knows how to apply
// itself to a User and which document field it maps to.
type FieldUpdate interface {
	// Field is the user document key
	Field() string
	// Value is what gets written to the user document
	Value() interface{}
	apply(*User) bool
}

// NameUpdate sets the display name
type NameUpdate struct{ Name string }

// PhoneUpdate sets the phone number
type PhoneUpdate struct{ Phone string }

// AvatarUpdate sets the avatar URL
type AvatarUpdate struct{ URL string }

// AddressUpdate sets the default delivery address
type AddressUpdate struct{ Address order.Location }

func (NameUpdate) Field() string    { return "name" }
func (PhoneUpdate) Field() string   { return "phone" }
func (AvatarUpdate) Field() string  { return "avatar" }
func (AddressUpdate) Field() string { return "address" }

func (u NameUpdate) Value() interface{}   { return strings.TrimSpace(u.Name) }
func (u PhoneUpdate) Value() interface{}  { return strings.TrimSpace(u.Phone) }
func (u AvatarUpdate) Value() interface{} { return u.URL }

func (u AddressUpdate) Value() interface{} {
	return map[string]interface{}{
		"latitude":  u.Address.Latitude,
		"longitude": u.Address.Longitude,
		"address":   u.Address.Address,
	}
}

func (u NameUpdate) apply(user *User) bool {
	name := strings.TrimSpace(u.Name)
	if name == "" || name == user.Name {
		return false
	}
	user.Name = name
	return true
}

func (u PhoneUpdate) apply(user *User) bool {
	phone := strings.TrimSpace(u.Phone)
	if phone == user.Phone {
		return false
	}
	user.Phone = phone
	return true
}

func (u AvatarUpdate) apply(user *User) bool {
	if u.URL == user.Avatar {
		return false
	}
	user.Avatar = u.URL
	return true
}

func (u AddressUpdate) apply(user *User) bool {
	if user.Address != nil && *user.Address == u.Address {
		return false
	}
	addr := u.Address
	user.Address = &addr
	return true
}

// Fields flattens updates into a partial document. Later updates of the
// same field win.
func Fields(updates ...FieldUpdate) map[string]interface{} {
	fields := make(map[string]interface{}, len(updates))
	for _, u := range updates {
		if u == nil {
			continue
		}
		fields[u.Field()] = u.Value()
	}
	return fields
}
