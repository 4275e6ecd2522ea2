package identity_test

import (
	"testing"
	"time"

	"dispatch/internal/core/domain/model/identity"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDriver(t *testing.T, roles ...identity.Role) *identity.Identity {
	t.Helper()
	if len(roles) == 0 {
		roles = []identity.Role{identity.RoleDriver}
	}
	hash, err := identity.HashPassword("s3cret-pass")
	require.NoError(t, err)

	ident, err := identity.NewIdentity(
		kernel.NewUUID(), "ali.hassan", "ali@example.com", "Ali Hassan", hash, roles)
	require.NoError(t, err)
	return ident
}

func TestNewIdentity(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		ident := newDriver(t)

		require.NoError(t, ident.Validate())
		assert.Equal(t, "ali.hassan", ident.Username())
		assert.True(t, ident.HasRole(identity.RoleDriver))
		assert.False(t, ident.HasRole(identity.RoleEmployee))
	})

	t.Run("requires_roles", func(t *testing.T) {
		hash, _ := identity.HashPassword("x")
		_, err := identity.NewIdentity(kernel.NewUUID(), "u", "", "", hash, nil)

		require.ErrorIs(t, err, errs.ErrValueIsRequired)
	})

	t.Run("rejects_unknown_role", func(t *testing.T) {
		hash, _ := identity.HashPassword("x")
		_, err := identity.NewIdentity(kernel.NewUUID(), "u", "", "", hash,
			[]identity.Role{identity.Role("superuser")})

		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})
}

func TestIdentity_Authenticate(t *testing.T) {
	ident := newDriver(t)

	require.NoError(t, ident.Authenticate("s3cret-pass"))

	err := ident.Authenticate("wrong")
	require.ErrorIs(t, err, errs.ErrUnauthorized)
}

func TestIdentity_AuthorizeScope(t *testing.T) {
	t.Run("driver_scope", func(t *testing.T) {
		require.NoError(t, newDriver(t).AuthorizeScope(identity.ScopeDriver))
	})

	t.Run("administrator_passes_both_scopes", func(t *testing.T) {
		admin := newDriver(t, identity.RoleAdministrator)

		require.NoError(t, admin.AuthorizeScope(identity.ScopeDriver))
		require.NoError(t, admin.AuthorizeScope(identity.ScopeEmployee))
	})

	t.Run("driver_cannot_use_employee_scope", func(t *testing.T) {
		err := newDriver(t).AuthorizeScope(identity.ScopeEmployee)

		require.ErrorIs(t, err, errs.ErrForbidden)
	})

	t.Run("pending_account_is_refused", func(t *testing.T) {
		pending := newDriver(t, identity.RoleDriver, identity.RolePending)

		err := pending.AuthorizeScope(identity.ScopeDriver)

		require.ErrorIs(t, err, errs.ErrForbidden)
		assert.Contains(t, err.Error(), "pending approval")
	})
}

func TestIdentity_IssueAndVerifyToken(t *testing.T) {
	now := time.Now()

	t.Run("round_trip", func(t *testing.T) {
		ident := newDriver(t)

		secret, err := ident.IssueToken(identity.ScopeDriver, now)

		require.NoError(t, err)
		assert.Len(t, secret, 64) // 32 random bytes, hex-encoded
		require.NoError(t, ident.VerifyToken(identity.ScopeDriver, secret, now))
	})

	t.Run("wrong_secret_fails", func(t *testing.T) {
		ident := newDriver(t)
		_, err := ident.IssueToken(identity.ScopeDriver, now)
		require.NoError(t, err)

		err = ident.VerifyToken(identity.ScopeDriver, "forged", now)
		require.ErrorIs(t, err, errs.ErrUnauthorized)
	})

	t.Run("expiry_boundary", func(t *testing.T) {
		ident := newDriver(t)
		secret, err := ident.IssueToken(identity.ScopeDriver, now)
		require.NoError(t, err)

		justBefore := now.Add(identity.TokenTTL - time.Second)
		require.NoError(t, ident.VerifyToken(identity.ScopeDriver, secret, justBefore))

		justAfter := now.Add(identity.TokenTTL + time.Second)
		err = ident.VerifyToken(identity.ScopeDriver, secret, justAfter)
		require.ErrorIs(t, err, errs.ErrUnauthorized)
	})

	t.Run("new_token_supersedes_old", func(t *testing.T) {
		ident := newDriver(t)
		first, err := ident.IssueToken(identity.ScopeDriver, now)
		require.NoError(t, err)

		second, err := ident.IssueToken(identity.ScopeDriver, now)
		require.NoError(t, err)

		require.ErrorIs(t, ident.VerifyToken(identity.ScopeDriver, first, now), errs.ErrUnauthorized)
		require.NoError(t, ident.VerifyToken(identity.ScopeDriver, second, now))
	})

	t.Run("scopes_are_independent", func(t *testing.T) {
		admin := newDriver(t, identity.RoleAdministrator)
		driverSecret, err := admin.IssueToken(identity.ScopeDriver, now)
		require.NoError(t, err)

		_, err = admin.IssueToken(identity.ScopeEmployee, now)
		require.NoError(t, err)

		// Employee issuance did not supersede the driver token.
		require.NoError(t, admin.VerifyToken(identity.ScopeDriver, driverSecret, now))
		// Driver secret does not verify for the employee scope.
		require.ErrorIs(t, admin.VerifyToken(identity.ScopeEmployee, driverSecret, now), errs.ErrUnauthorized)
	})
}

func TestIdentity_ClearExpiredTokens(t *testing.T) {
	now := time.Now()
	ident := newDriver(t)
	_, err := ident.IssueToken(identity.ScopeDriver, now)
	require.NoError(t, err)

	assert.False(t, ident.ClearExpiredTokens(now.Add(time.Hour)))
	require.Len(t, ident.Tokens(), 1)

	assert.True(t, ident.ClearExpiredTokens(now.Add(identity.TokenTTL+time.Minute)))
	assert.Empty(t, ident.Tokens())
}

func TestRestoreToken(t *testing.T) {
	now := time.Now()
	token, secret, err := identity.IssueToken(identity.ScopeEmployee, now)
	require.NoError(t, err)

	restored, err := identity.RestoreToken(token.Scope(), token.SecretHash(), token.ExpiresAt())
	require.NoError(t, err)

	assert.True(t, restored.Matches(secret, now))
	assert.False(t, restored.Matches(secret, now.Add(identity.TokenTTL)))

	t.Run("requires_hash", func(t *testing.T) {
		_, err := identity.RestoreToken(identity.ScopeDriver, nil, now)
		require.ErrorIs(t, err, errs.ErrValueIsRequired)
	})
}
