// internal/domain/auth/actions.go
package auth

// Action is an auth slice mutation. The set is closed.
type Action interface {
	ActionType() string
	authAction()
}

// SetCredentials records a successful sign-in
type SetCredentials struct {
	User  User
	Token string
}

// Logout clears the session
type Logout struct{}

// UpdateProfile applies field edits to the signed-in user
type UpdateProfile struct {
	Updates []FieldUpdate
}

func (SetCredentials) ActionType() string { return "auth/setCredentials" }
func (Logout) ActionType() string         { return "auth/logout" }
func (UpdateProfile) ActionType() string  { return "auth/updateProfile" }

func (SetCredentials) authAction() {}
func (Logout) authAction()         {}
func (UpdateProfile) authAction()  {}
