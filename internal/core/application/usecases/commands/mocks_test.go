package commands_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/domain/model/identity"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"
)

func newTestOrder(t *testing.T, paymentMethod string) *order.Order {
	t.Helper()

	o, err := order.NewOrder(kernel.NewUUID(), order.Details{
		CustomerName:    "Riley Chen",
		DeliveryAddress: "4 Harbour Lane",
		PaymentMethod:   paymentMethod,
		Total:           31.20,
	}, time.Now().UTC())
	require.NoError(t, err)
	return o
}

type MockOrderRepository struct{ mock.Mock }

func (m *MockOrderRepository) Add(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) Update(ctx context.Context, o *order.Order, expected order.Status) error {
	args := m.Called(ctx, o, expected)
	return args.Error(0)
}

func (m *MockOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) GetAllUnclaimed(_ context.Context) ([]*order.Order, error) {
	return nil, errors.New("not implemented in mock")
}

func (m *MockOrderRepository) GetAllByDriver(_ context.Context, _ kernel.UUID) ([]*order.Order, error) {
	return nil, errors.New("not implemented in mock")
}

func (m *MockOrderRepository) GetAllPendingReview(_ context.Context) ([]*order.Order, error) {
	return nil, errors.New("not implemented in mock")
}

func (m *MockOrderRepository) Claim(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

type MockOrderUoW struct{ mock.Mock }

func (m *MockOrderUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockOrderUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockOrderUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockOrderUoW) OrderRepository() ports.OrderRepository {
	args := m.Called()
	return args.Get(0).(ports.OrderRepository)
}

type MockOrderUoWFactory struct{ mock.Mock }

func (m *MockOrderUoWFactory) Create() commands.OrderUoW {
	args := m.Called()
	return args.Get(0).(commands.OrderUoW)
}

type MockIdentityRepository struct{ mock.Mock }

func (m *MockIdentityRepository) Add(ctx context.Context, i *identity.Identity) error {
	args := m.Called(ctx, i)
	return args.Error(0)
}

func (m *MockIdentityRepository) Update(ctx context.Context, i *identity.Identity) error {
	args := m.Called(ctx, i)
	return args.Error(0)
}

func (m *MockIdentityRepository) Get(_ context.Context, _ kernel.UUID) (*identity.Identity, error) {
	return nil, errors.New("not implemented in mock")
}

func (m *MockIdentityRepository) GetByUsername(ctx context.Context, username string) (*identity.Identity, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.Identity), args.Error(1)
}

func (m *MockIdentityRepository) GetAllWithTokenForScope(
	_ context.Context, _ identity.TokenScope, _ time.Time,
) ([]*identity.Identity, error) {
	return nil, errors.New("not implemented in mock")
}

func (m *MockIdentityRepository) ClearExpiredTokens(_ context.Context, _ time.Time) (int64, error) {
	return 0, errors.New("not implemented in mock")
}

type MockIdentityUoW struct{ mock.Mock }

func (m *MockIdentityUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockIdentityUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockIdentityUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockIdentityUoW) IdentityRepository() ports.IdentityRepository {
	args := m.Called()
	return args.Get(0).(ports.IdentityRepository)
}

type MockIdentityUoWFactory struct{ mock.Mock }

func (m *MockIdentityUoWFactory) Create() commands.IdentityUoW {
	args := m.Called()
	return args.Get(0).(commands.IdentityUoW)
}

type MockArtifactStore struct{ mock.Mock }

func (m *MockArtifactStore) Save(ctx context.Context, orderID kernel.UUID, roleTag, payload string) (string, error) {
	args := m.Called(ctx, orderID, roleTag, payload)
	return args.String(0), args.Error(1)
}

func (m *MockArtifactStore) Grant(ref string) (string, error) {
	args := m.Called(ref)
	return args.String(0), args.Error(1)
}

func (m *MockArtifactStore) Open(ctx context.Context, ref, nonce string) ([]byte, string, error) {
	args := m.Called(ctx, ref, nonce)
	if args.Get(0) == nil {
		return nil, "", args.Error(2)
	}
	return args.Get(0).([]byte), args.String(1), args.Error(2)
}

// fakeOrderStore is an in-memory order repository with the same
// compare-and-set semantics as the real one. It backs the concurrency tests
// where mock expectation ordering cannot express a race.
type fakeOrderStore struct {
	mu     sync.Mutex
	orders map[string]*order.Order
}

func newFakeOrderStore() *fakeOrderStore {
	return &fakeOrderStore{orders: make(map[string]*order.Order)}
}

func (s *fakeOrderStore) put(o *order.Order) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.orders[o.ID().String()] = o
}

func (s *fakeOrderStore) uow() commands.OrderUoW {
	return &fakeOrderUoW{store: s}
}

type fakeOrderUoW struct {
	store *fakeOrderStore
}

func (u *fakeOrderUoW) Begin(_ context.Context) error    { return nil }
func (u *fakeOrderUoW) Commit(_ context.Context) error   { return nil }
func (u *fakeOrderUoW) Rollback(_ context.Context) error { return nil }
func (u *fakeOrderUoW) OrderRepository() ports.OrderRepository {
	return &fakeOrderRepository{store: u.store}
}

type fakeOrderStoreFactory struct {
	store *fakeOrderStore
}

func (f *fakeOrderStoreFactory) Create() commands.OrderUoW { return f.store.uow() }

type fakeOrderRepository struct {
	store *fakeOrderStore
}

func (r *fakeOrderRepository) Add(_ context.Context, o *order.Order) error {
	r.store.put(o)
	return nil
}

func (r *fakeOrderRepository) Update(_ context.Context, o *order.Order, expected order.Status) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	current, ok := r.store.orders[o.ID().String()]
	if !ok {
		return errsNotFound(o.ID())
	}
	if current.Status() != expected {
		return errsPreconditionFailed(current.Status())
	}
	r.store.orders[o.ID().String()] = o
	return nil
}

func (r *fakeOrderRepository) Get(_ context.Context, id kernel.UUID) (*order.Order, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	o, ok := r.store.orders[id.String()]
	if !ok {
		return nil, errsNotFound(id)
	}
	return restoreCopy(o)
}

func (r *fakeOrderRepository) GetAllUnclaimed(_ context.Context) ([]*order.Order, error) {
	return nil, errors.New("not implemented in fake")
}

func (r *fakeOrderRepository) GetAllByDriver(_ context.Context, _ kernel.UUID) ([]*order.Order, error) {
	return nil, errors.New("not implemented in fake")
}

func (r *fakeOrderRepository) GetAllPendingReview(_ context.Context) ([]*order.Order, error) {
	return nil, errors.New("not implemented in fake")
}

// Claim holds the store lock across the check and the write, mirroring the
// atomicity of the production conditional UPDATE.
func (r *fakeOrderRepository) Claim(_ context.Context, o *order.Order) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	current, ok := r.store.orders[o.ID().String()]
	if !ok {
		return errsNotFound(o.ID())
	}
	if current.Status() != order.Unclaimed || current.Driver() != nil {
		return errsConflict(o.ID())
	}
	r.store.orders[o.ID().String()] = o
	return nil
}

func errsNotFound(id kernel.UUID) error {
	return errs.NewObjectNotFoundError("order", id.String())
}

func errsConflict(id kernel.UUID) error {
	return errs.NewConflictError(fmt.Sprintf("order %s is already claimed", id))
}

func errsPreconditionFailed(current order.Status) error {
	return errs.NewPreconditionFailedError(
		fmt.Sprintf("order status changed to %s", current))
}

func restoreCopy(o *order.Order) (*order.Order, error) {
	var pod *order.ProofOfDelivery
	if p := o.ProofOfDelivery(); p != nil {
		copied := *p
		pod = &copied
	}
	return order.RestoreOrder(
		o.ID(), o.Details(), o.Status(), o.Driver(), o.DriverName(),
		o.ClaimedAt(), o.FulfillmentStartedAt(), o.PaymentConfirmedAt(),
		o.DeliveryStartedAt(), o.DeliveryCompletedAt(), o.DeliveryDuration(),
		pod, o.ReviewedBy(), o.ReviewedAt(), o.Notes(), o.CreatedAt(),
	)
}
