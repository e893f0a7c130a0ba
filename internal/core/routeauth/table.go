// Package routeauth holds the dashboard's route authorization table: which
// roles may see which page. The table is advisory and drives navigation only;
// API requests are enforced by the access guard middleware.
package routeauth

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/peoplehub/hrms-api/internal/core/domain"
)

// Policy decides the outcome for route keys that have no entry.
type Policy string

const (
	// PolicyAllow treats unregistered routes as open to any authenticated role.
	PolicyAllow Policy = "allow"
	// PolicyDeny treats unregistered routes as closed.
	PolicyDeny Policy = "deny"
)

// ParsePolicy validates a policy name, ignoring case. Empty means PolicyAllow.
func ParsePolicy(s string) (Policy, error) {
	switch Policy(strings.ToLower(strings.TrimSpace(s))) {
	case "", PolicyAllow:
		return PolicyAllow, nil
	case PolicyDeny:
		return PolicyDeny, nil
	}
	return "", fmt.Errorf("routeauth: unknown policy %q", s)
}

// Table maps route keys to the roles permitted to view them. It is built once
// and never mutated, so it is safe for concurrent use.
type Table struct {
	entries map[string]map[domain.Role]struct{}
	policy  Policy
}

// New builds a Table from a route → roles mapping.
func New(routes map[string][]domain.Role, policy Policy) (*Table, error) {
	if policy == "" {
		policy = PolicyAllow
	}
	t := &Table{
		entries: make(map[string]map[domain.Role]struct{}, len(routes)),
		policy:  policy,
	}
	for key, roles := range routes {
		if key == "" {
			return nil, fmt.Errorf("routeauth: empty route key")
		}
		set := make(map[domain.Role]struct{}, len(roles))
		for _, r := range roles {
			if !r.Valid() {
				return nil, fmt.Errorf("routeauth: route %q: %w: %q", key, domain.ErrInvalidRole, r)
			}
			set[r] = struct{}{}
		}
		t.entries[key] = set
	}
	return t, nil
}

// Default returns the built-in HR dashboard table.
func Default(policy Policy) *Table {
	t, err := New(DefaultRoutes(), policy)
	if err != nil {
		panic(err)
	}
	return t
}

// IsAllowed reports whether role may view routeKey.
func (t *Table) IsAllowed(role domain.Role, routeKey string) bool {
	roles, ok := t.entries[routeKey]
	if !ok {
		return t.policy == PolicyAllow
	}
	_, ok = roles[role]
	return ok
}

// Policy returns the fallback policy for unregistered routes.
func (t *Table) Policy() Policy { return t.policy }

// AllowedRoutes lists the registered route keys role may view, sorted.
func (t *Table) AllowedRoutes(role domain.Role) []string {
	keys := make([]string, 0, len(t.entries))
	for key, roles := range t.entries {
		if _, ok := roles[role]; ok {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	return keys
}

// fileFormat is the on-disk shape of a route table override.
type fileFormat struct {
	Routes map[string][]string `json:"routes"`
}

// Load reads a JSON route table of the form {"routes": {"payroll": ["admin", "hr"]}}.
func Load(r io.Reader, policy Policy) (*Table, error) {
	var f fileFormat
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("routeauth: decode table: %w", err)
	}

	routes := make(map[string][]domain.Role, len(f.Routes))
	for key, names := range f.Routes {
		for _, name := range names {
			role, err := domain.ParseRole(name)
			if err != nil {
				return nil, fmt.Errorf("routeauth: route %q: %w: %q", key, err, name)
			}
			routes[key] = append(routes[key], role)
		}
		if _, ok := routes[key]; !ok {
			routes[key] = nil
		}
	}
	return New(routes, policy)
}

// LoadFile is Load for a path. An empty path yields the built-in table.
func LoadFile(path string, policy Policy) (*Table, error) {
	if path == "" {
		return Default(policy), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("routeauth: open table: %w", err)
	}
	defer f.Close()
	return Load(f, policy)
}
