// internal/domain/auth/route.go
package auth

// Route is the top-level screen group for a session
type Route string

const (
	RouteAuth          Route = "auth"
	RouteCustomer      Route = "customer"
	RouteDeliveryAgent Route = "delivery_agent"
	RouteAdmin         Route = "admin"
)

// RouteFor picks the screen group: signed-out users go to auth, everybody
// else by role. Unknown roles land on the customer screens.
func RouteFor(s State) Route {
	if s.user == nil {
		return RouteAuth
	}
	switch s.user.Role {
	case RoleDeliveryAgent:
		return RouteDeliveryAgent
	case RoleAdmin:
		return RouteAdmin
	}
	return RouteCustomer
}
