package routeauth

import "github.com/peoplehub/hrms-api/internal/core/domain"

// State is the client-side session state.
type State int

const (
	StateUnauthenticated State = iota
	StateAuthenticated
)

func (s State) String() string {
	if s == StateAuthenticated {
		return "authenticated"
	}
	return "unauthenticated"
}

// Decision is the outcome of one navigation attempt.
type Decision struct {
	Route    string `json:"route"`
	Allowed  bool   `json:"allowed"`
	Redirect string `json:"redirect,omitempty"`
}

// Navigator replays the dashboard's route guard: an unauthenticated session is
// sent to the login page, an authenticated one renders the target when the
// table allows it and is otherwise redirected to the landing page. The landing
// page always renders for an authenticated session, whatever the table says,
// so a redirect never lands on a page that refuses it.
// A Navigator models a single session and is not safe for concurrent use.
type Navigator struct {
	table *Table
	state State
	role  domain.Role
}

func NewNavigator(table *Table) *Navigator {
	return &Navigator{table: table}
}

// Login moves the session to StateAuthenticated with role attached.
func (n *Navigator) Login(role domain.Role) {
	n.state = StateAuthenticated
	n.role = role
}

// Logout returns the session to StateUnauthenticated.
func (n *Navigator) Logout() {
	n.state = StateUnauthenticated
	n.role = ""
}

func (n *Navigator) State() State { return n.state }

// Navigate evaluates a navigation to routeKey.
func (n *Navigator) Navigate(routeKey string) Decision {
	if routeKey == RouteLogin {
		return Decision{Route: routeKey, Allowed: true}
	}
	if n.state != StateAuthenticated {
		return Decision{Route: routeKey, Redirect: RouteLogin}
	}
	if routeKey == LandingRoute || n.table.IsAllowed(n.role, routeKey) {
		return Decision{Route: routeKey, Allowed: true}
	}
	return Decision{Route: routeKey, Redirect: LandingRoute}
}
