package identityrepo

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"dispatch/internal/core/domain/model/identity"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
)

// GormIdentityRepository implements IdentityRepository using GORM.
type GormIdentityRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormIdentityRepository creates a new GORM identity repository.
func NewGormIdentityRepository(db *gorm.DB, tracker aggregateTracker) *GormIdentityRepository {
	return &GormIdentityRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add saves a new identity to the database.
func (r *GormIdentityRepository) Add(ctx context.Context, aggregate *identity.Identity) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Update saves an existing identity. All columns are written, so clearing a
// token (nil hash) persists as NULL rather than being skipped as a zero
// value.
func (r *GormIdentityRepository) Update(ctx context.Context, aggregate *identity.Identity) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	result := r.db.WithContext(ctx).Model(&IdentityDTO{}).
		Where("id = ?", dto.ID).
		Select("*").
		Updates(&dto)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("identity", aggregate.ID().String())
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Get retrieves an identity by ID.
func (r *GormIdentityRepository) Get(ctx context.Context, id kernel.UUID) (*identity.Identity, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto IdentityDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("identity", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetByUsername retrieves an identity by its login name.
func (r *GormIdentityRepository) GetByUsername(ctx context.Context, username string) (*identity.Identity, error) {
	if username == "" {
		return nil, errs.NewValueIsRequiredError("username")
	}

	var dto IdentityDTO
	if err := r.db.WithContext(ctx).First(&dto, "username = ?", username).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("username", username)
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetAllWithTokenForScope retrieves every identity holding an unexpired
// token for the scope. These are the candidates a presented secret is
// checked against.
func (r *GormIdentityRepository) GetAllWithTokenForScope(
	ctx context.Context,
	scope identity.TokenScope,
	now time.Time,
) ([]*identity.Identity, error) {
	if err := scope.Validate(); err != nil {
		return nil, err
	}

	hashColumn, expiresColumn := tokenColumns(scope)

	var dtos []IdentityDTO
	err := r.db.WithContext(ctx).
		Where(hashColumn+" IS NOT NULL AND "+expiresColumn+" > ?", now).
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	identities := make([]*identity.Identity, 0, len(dtos))
	for _, dto := range dtos {
		aggregate, toErr := toDomain(dto)
		if toErr != nil {
			return nil, toErr
		}
		identities = append(identities, aggregate)
	}

	return identities, nil
}

// ClearExpiredTokens nulls out every token column pair whose expiry is at
// or before now. Returns the number of tokens removed.
func (r *GormIdentityRepository) ClearExpiredTokens(ctx context.Context, now time.Time) (int64, error) {
	var cleared int64

	for _, scope := range []identity.TokenScope{identity.ScopeDriver, identity.ScopeEmployee} {
		hashColumn, expiresColumn := tokenColumns(scope)

		result := r.db.WithContext(ctx).Model(&IdentityDTO{}).
			Where(expiresColumn+" IS NOT NULL AND "+expiresColumn+" <= ?", now).
			Updates(map[string]any{
				hashColumn:    nil,
				expiresColumn: nil,
			})
		if result.Error != nil {
			return cleared, result.Error
		}
		cleared += result.RowsAffected
	}

	return cleared, nil
}

func tokenColumns(scope identity.TokenScope) (string, string) {
	if scope == identity.ScopeEmployee {
		return "employee_token_hash", "employee_token_expires_at"
	}
	return "driver_token_hash", "driver_token_expires_at"
}
