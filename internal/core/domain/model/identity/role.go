// Package identity contains the Identity aggregate: the drivers, employees,
// and administrators known to the dispatch service, together with the opaque
// bearer tokens that authenticate them.
package identity

import (
	"fmt"

	"dispatch/internal/pkg/errs"
)

// Role is a capability granted to an identity. An identity may hold several
// roles; administrators implicitly pass both driver and employee checks.
type Role string

const (
	// RoleDriver allows claiming and fulfilling orders.
	RoleDriver Role = "driver"
	// RoleEmployee allows reviewing manual payments and viewing POD.
	RoleEmployee Role = "employee"
	// RoleAdministrator passes every scope's authorization check.
	RoleAdministrator Role = "administrator"
	// RolePending marks a registered account awaiting approval. Pending
	// accounts are refused login with an explicit message.
	RolePending Role = "pending"
)

// Validate checks that the role is one of the defined values.
func (r Role) Validate() error {
	switch r {
	case RoleDriver, RoleEmployee, RoleAdministrator, RolePending:
		return nil
	}
	return errs.NewValueIsInvalidErrorWithCause("role",
		fmt.Errorf("%q is not a valid role", string(r)))
}

// TokenScope names the authorization surface a bearer token is issued for.
// An identity holds at most one active token per scope.
type TokenScope string

const (
	// ScopeDriver tokens authenticate the driver API surface.
	ScopeDriver TokenScope = "driver"
	// ScopeEmployee tokens authenticate the employee review surface.
	ScopeEmployee TokenScope = "employee"
)

// Validate checks that the scope is one of the defined values.
func (s TokenScope) Validate() error {
	switch s {
	case ScopeDriver, ScopeEmployee:
		return nil
	}
	return errs.NewValueIsInvalidErrorWithCause("token scope",
		fmt.Errorf("%q is not a valid token scope", string(s)))
}

// requiredRole returns the role that grants access to this scope, besides
// administrator.
func (s TokenScope) requiredRole() Role {
	if s == ScopeEmployee {
		return RoleEmployee
	}
	return RoleDriver
}
