// Package identity defines the acting-principal boundary shared by the
// mutation flows. Authentication and session handling live outside this
// module; callers supply an already-resolved Actor with every mutation.
package identity

// Role identifies the dashboard role an actor held when acting
type Role string

const (
	RoleSuperAdmin   Role = "super-admin"
	RoleProjectAdmin Role = "project-admin"
	RoleSalesUser    Role = "sales-user"
	RoleViewer       Role = "viewer"
	RoleCustomer     Role = "customer"
)

// Valid reports whether the role is one of the known dashboard roles
func (r Role) Valid() bool {
	switch r {
	case RoleSuperAdmin, RoleProjectAdmin, RoleSalesUser, RoleViewer, RoleCustomer:
		return true
	}
	return false
}

// Roles returns all known dashboard roles
func Roles() []Role {
	return []Role{RoleSuperAdmin, RoleProjectAdmin, RoleSalesUser, RoleViewer, RoleCustomer}
}

// Actor is the principal credited with an audited action
type Actor struct {
	Name string `json:"name"`
	Role Role   `json:"role"`
}
