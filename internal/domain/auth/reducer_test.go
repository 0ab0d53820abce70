package auth

import (
	"encoding/json"
	"testing"

	"github.com/nabin216/ZotPot/internal/domain/order"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signedIn(role Role) State {
	s, _ := Reduce(Empty(), SetCredentials{
		User:  User{ID: "u1", Email: "asha@example.com", Name: "Asha", Role: role},
		Token: "token-1",
	})
	return s
}

func TestReduce_CredentialsAndLogout(t *testing.T) {
	s := signedIn(RoleCustomer)
	require.True(t, s.IsAuthenticated())
	assert.Equal(t, "u1", s.UserID())
	assert.Equal(t, "token-1", s.Token())

	s, changed := Reduce(s, Logout{})
	assert.True(t, changed)
	assert.False(t, s.IsAuthenticated())
	assert.Empty(t, s.Token())

	_, changed = Reduce(s, Logout{})
	assert.False(t, changed)
}

func TestReduce_SetCredentialsRequiresUserID(t *testing.T) {
	_, changed := Reduce(Empty(), SetCredentials{User: User{Email: "x@example.com"}})
	assert.False(t, changed)
}

func TestReduce_UpdateProfile(t *testing.T) {
	s := signedIn(RoleCustomer)
	home := order.Location{Latitude: 12.9, Longitude: 77.6, Address: "Indiranagar"}

	s, changed := Reduce(s, UpdateProfile{Updates: []FieldUpdate{
		NameUpdate{Name: "  Asha K "},
		PhoneUpdate{Phone: "9876543210"},
		AddressUpdate{Address: home},
	}})
	require.True(t, changed)

	user := s.User()
	require.NotNil(t, user)
	assert.Equal(t, "Asha K", user.Name)
	assert.Equal(t, "9876543210", user.Phone)
	require.NotNil(t, user.Address)
	assert.Equal(t, home, *user.Address)
	assert.Equal(t, "token-1", s.Token())

	_, changed = Reduce(s, UpdateProfile{Updates: []FieldUpdate{NameUpdate{Name: "Asha K"}}})
	assert.False(t, changed)

	_, changed = Reduce(s, UpdateProfile{Updates: []FieldUpdate{NameUpdate{Name: "   "}}})
	assert.False(t, changed)
}

func TestReduce_UpdateProfileSignedOutIsNoOp(t *testing.T) {
	_, changed := Reduce(Empty(), UpdateProfile{Updates: []FieldUpdate{AvatarUpdate{URL: "http://cdn/a.png"}}})
	assert.False(t, changed)
}

func TestState_UserIsACopy(t *testing.T) {
	s := signedIn(RoleCustomer)

	u := s.User()
	u.Name = "changed"

	assert.Equal(t, "Asha", s.User().Name)
}

func TestFields(t *testing.T) {
	fields := Fields(
		NameUpdate{Name: "Asha"},
		AvatarUpdate{URL: "http://cdn/a.png"},
		NameUpdate{Name: "Asha K"},
		AddressUpdate{Address: order.Location{Latitude: 1, Longitude: 2, Address: "x"}},
	)

	assert.Equal(t, "Asha K", fields["name"])
	assert.Equal(t, "http://cdn/a.png", fields["avatar"])
	assert.Equal(t, map[string]interface{}{"latitude": 1.0, "longitude": 2.0, "address": "x"}, fields["address"])
	assert.Len(t, fields, 3)

	assert.Empty(t, Fields(nil))
	assert.Equal(t, map[string]interface{}{"name": "Asha"}, Fields(nil, NameUpdate{Name: "Asha"}))
}

func TestRouteFor(t *testing.T) {
	tests := []struct {
		name  string
		state State
		want  Route
	}{
		{"signed out", Empty(), RouteAuth},
		{"customer", signedIn(RoleCustomer), RouteCustomer},
		{"delivery agent", signedIn(RoleDeliveryAgent), RouteDeliveryAgent},
		{"admin", signedIn(RoleAdmin), RouteAdmin},
		{"unknown role", signedIn(Role("chef")), RouteCustomer},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RouteFor(tt.state))
		})
	}
}

func TestState_MarshalJSONOmitsToken(t *testing.T) {
	data, err := json.Marshal(signedIn(RoleCustomer))
	require.NoError(t, err)

	assert.NotContains(t, string(data), "token-1")
	assert.Contains(t, string(data), `"is_authenticated":true`)
}
