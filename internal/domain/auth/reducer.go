// internal/domain/auth/reducer.go
package auth

// Reduce returns the next auth state and whether it changed
func Reduce(s State, a Action) (State, bool) {
	switch a := a.(type) {
	case SetCredentials:
		if a.User.ID == "" {
			return s, false
		}
		u := a.User.clone()
		return State{user: &u, token: a.Token}, true
	case Logout:
		if s.user == nil && s.token == "" {
			return s, false
		}
		return Empty(), true
	case UpdateProfile:
		if s.user == nil {
			return s, false
		}
		u := s.user.clone()
		changed := false
		for _, update := range a.Updates {
			if update != nil && update.apply(&u) {
				changed = true
			}
		}
		if !changed {
			return s, false
		}
		return State{user: &u, token: s.token}, true
	}
	return s, false
}
