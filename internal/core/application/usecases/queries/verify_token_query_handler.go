package queries

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"dispatch/internal/core/domain/model/identity"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
)

// VerifyTokenQueryHandler authenticates a bearer secret.
//
// Secrets are stored only as salted hashes, so there is no column to look
// the token up by: the handler loads every identity holding an unexpired
// token for the scope and compares the presented secret against each hash.
// The candidate set is the active staff of one store, so the scan stays
// small.
type VerifyTokenQueryHandler struct {
	db *gorm.DB
}

// NewVerifyTokenQueryHandler creates a handler for token verification.
func NewVerifyTokenQueryHandler(db *gorm.DB) VerifyTokenQueryHandler {
	return VerifyTokenQueryHandler{db: db}
}

// Handle resolves the secret to its identity. Any failure mode (no match,
// expired token, unknown scope column) surfaces as UnauthorizedError; the
// response never distinguishes them.
func (h VerifyTokenQueryHandler) Handle(
	ctx context.Context,
	query VerifyTokenQuery,
) (VerifyTokenQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return VerifyTokenQueryResponse{}, err
	}

	hashColumn, expiresColumn := tokenColumns(query.Scope())

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT id, username, display_name, roles, `+hashColumn+`
		FROM identities
		WHERE `+hashColumn+` IS NOT NULL AND `+expiresColumn+` > ?
	`, time.Now().UTC()).Rows()
	if err != nil {
		return VerifyTokenQueryResponse{}, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			id          uuid.UUID
			username    string
			displayName string
			roles       pq.StringArray
			tokenHash   []byte
		)

		if err = rows.Scan(&id, &username, &displayName, &roles, &tokenHash); err != nil {
			return VerifyTokenQueryResponse{}, err
		}

		if bcrypt.CompareHashAndPassword(tokenHash, []byte(query.Secret())) != nil {
			continue
		}

		userID, idErr := kernel.UUIDFromBytes(id[:])
		if idErr != nil {
			return VerifyTokenQueryResponse{}, idErr
		}

		roleSet := make([]identity.Role, 0, len(roles))
		for _, r := range roles {
			roleSet = append(roleSet, identity.Role(r))
		}

		return VerifyTokenQueryResponse{
			UserID:      userID,
			Username:    username,
			DisplayName: displayName,
			Roles:       roleSet,
		}, nil
	}

	if err = rows.Err(); err != nil {
		return VerifyTokenQueryResponse{}, err
	}

	return VerifyTokenQueryResponse{}, errs.NewUnauthorizedError("invalid or expired token")
}

func tokenColumns(scope identity.TokenScope) (string, string) {
	if scope == identity.ScopeEmployee {
		return "employee_token_hash", "employee_token_expires_at"
	}
	return "driver_token_hash", "driver_token_expires_at"
}
