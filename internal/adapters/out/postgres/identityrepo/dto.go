// Package identityrepo persists identity aggregates: staff accounts, their
// role sets and their per-scope access tokens.
package identityrepo

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"dispatch/internal/core/domain/model/identity"
	"dispatch/internal/core/domain/model/kernel"
)

// IdentityDTO represents the database structure for persisting identity
// aggregates. Each scope's token occupies its own column pair, which makes
// "one token per scope" a property of the schema rather than a constraint
// to enforce.
type IdentityDTO struct {
	ID           uuid.UUID      `gorm:"type:uuid;primaryKey"`
	Username     string         `gorm:"uniqueIndex"`
	Email        string
	DisplayName  string
	PasswordHash []byte
	Roles        pq.StringArray `gorm:"type:text[]"`

	DriverTokenHash        []byte
	DriverTokenExpiresAt   *time.Time `gorm:"index"`
	EmployeeTokenHash      []byte
	EmployeeTokenExpiresAt *time.Time `gorm:"index"`
}

// TableName specifies the database table name for identity entities.
func (IdentityDTO) TableName() string {
	return "identities"
}

// fromDomain converts an identity domain aggregate to its database
// representation.
func fromDomain(aggregate *identity.Identity) IdentityDTO {
	roles := make(pq.StringArray, 0, len(aggregate.Roles()))
	for _, role := range aggregate.Roles() {
		roles = append(roles, string(role))
	}

	dto := IdentityDTO{
		ID:           aggregate.ID().Bytes(),
		Username:     aggregate.Username(),
		Email:        aggregate.Email(),
		DisplayName:  aggregate.DisplayName(),
		PasswordHash: aggregate.PasswordHash(),
		Roles:        roles,
	}

	if token := aggregate.TokenFor(identity.ScopeDriver); token != nil {
		expires := token.ExpiresAt()
		dto.DriverTokenHash = token.SecretHash()
		dto.DriverTokenExpiresAt = &expires
	}
	if token := aggregate.TokenFor(identity.ScopeEmployee); token != nil {
		expires := token.ExpiresAt()
		dto.EmployeeTokenHash = token.SecretHash()
		dto.EmployeeTokenExpiresAt = &expires
	}

	return dto
}

// toDomain converts a database DTO to an identity domain aggregate using
// RestoreIdentity.
func toDomain(dto IdentityDTO) (*identity.Identity, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	roles := make([]identity.Role, 0, len(dto.Roles))
	for _, role := range dto.Roles {
		roles = append(roles, identity.Role(role))
	}

	tokens := make([]identity.Token, 0, 2)
	if dto.DriverTokenHash != nil && dto.DriverTokenExpiresAt != nil {
		token, tokenErr := identity.RestoreToken(
			identity.ScopeDriver, dto.DriverTokenHash, *dto.DriverTokenExpiresAt)
		if tokenErr != nil {
			return nil, tokenErr
		}
		tokens = append(tokens, token)
	}
	if dto.EmployeeTokenHash != nil && dto.EmployeeTokenExpiresAt != nil {
		token, tokenErr := identity.RestoreToken(
			identity.ScopeEmployee, dto.EmployeeTokenHash, *dto.EmployeeTokenExpiresAt)
		if tokenErr != nil {
			return nil, tokenErr
		}
		tokens = append(tokens, token)
	}

	return identity.RestoreIdentity(
		id, dto.Username, dto.Email, dto.DisplayName, dto.PasswordHash, roles, tokens)
}
