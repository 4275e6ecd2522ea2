package commands_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/pkg/errs"
)

func TestClaimOrderCommandHandler_Handle_Success(t *testing.T) {
	ctx := t.Context()
	aggregate := newTestOrder(t, "card")
	driverID := kernel.NewUUID()
	cmd, err := commands.NewClaimOrderCommand(aggregate.ID(), driverID, "Jo Driver")
	require.NoError(t, err)

	repo := new(MockOrderRepository)
	uow := new(MockOrderUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(repo).Once(),
		repo.On("Get", mock.Anything, aggregate.ID()).Return(aggregate, nil).Once(),
		repo.On("Claim", mock.Anything, aggregate).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewClaimOrderCommandHandler(factory, nil)
	err = h.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, order.Claimed, aggregate.Status())
	require.NotNil(t, aggregate.Driver())
	assert.True(t, aggregate.Driver().IsEqual(driverID))
	assert.Equal(t, "Jo Driver", aggregate.DriverName())
	repo.AssertExpectations(t)
	uow.AssertExpectations(t)
	factory.AssertExpectations(t)
}

func TestClaimOrderCommandHandler_Handle_AlreadyClaimed(t *testing.T) {
	ctx := t.Context()
	aggregate := newTestOrder(t, "card")
	firstDriver := kernel.NewUUID()
	require.NoError(t, aggregate.Claim(firstDriver, "First Driver", aggregate.CreatedAt()))

	cmd, err := commands.NewClaimOrderCommand(aggregate.ID(), kernel.NewUUID(), "Late Driver")
	require.NoError(t, err)

	repo := new(MockOrderRepository)
	uow := new(MockOrderUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(repo).Once(),
		repo.On("Get", mock.Anything, aggregate.ID()).Return(aggregate, nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewClaimOrderCommandHandler(factory, nil)
	err = h.Handle(ctx, cmd)

	assert.ErrorIs(t, err, errs.ErrConflict)
	require.NotNil(t, aggregate.Driver())
	assert.True(t, aggregate.Driver().IsEqual(firstDriver))
}

func TestClaimOrderCommandHandler_Handle_RepositoryLosesRace(t *testing.T) {
	ctx := t.Context()
	aggregate := newTestOrder(t, "card")
	cmd, err := commands.NewClaimOrderCommand(aggregate.ID(), kernel.NewUUID(), "Jo Driver")
	require.NoError(t, err)

	repo := new(MockOrderRepository)
	uow := new(MockOrderUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(repo).Once(),
		repo.On("Get", mock.Anything, aggregate.ID()).Return(aggregate, nil).Once(),
		repo.On("Claim", mock.Anything, aggregate).
			Return(errs.NewConflictError("order already claimed")).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewClaimOrderCommandHandler(factory, nil)
	err = h.Handle(ctx, cmd)

	assert.ErrorIs(t, err, errs.ErrConflict)
}

func TestClaimOrderCommandHandler_Handle_OrderNotFound(t *testing.T) {
	ctx := t.Context()
	orderID := kernel.NewUUID()
	cmd, err := commands.NewClaimOrderCommand(orderID, kernel.NewUUID(), "Jo Driver")
	require.NoError(t, err)

	repo := new(MockOrderRepository)
	uow := new(MockOrderUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(repo).Once(),
		repo.On("Get", mock.Anything, orderID).
			Return(nil, errs.NewObjectNotFoundError("order", orderID.String())).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewClaimOrderCommandHandler(factory, nil)
	err = h.Handle(ctx, cmd)

	assert.ErrorIs(t, err, errs.ErrObjectNotFound)
}

// Exactly one of N concurrent claims for the same order may succeed; every
// other driver must observe ConflictError.
func TestClaimOrderCommandHandler_Handle_SingleWinner(t *testing.T) {
	const drivers = 32

	store := newFakeOrderStore()
	aggregate := newTestOrder(t, "card")
	store.put(aggregate)

	h := commands.NewClaimOrderCommandHandler(&fakeOrderStoreFactory{store: store}, nil)

	var wg sync.WaitGroup
	results := make([]error, drivers)

	for i := range drivers {
		wg.Add(1)
		go func(slot int) {
			defer wg.Done()

			driverID := kernel.NewUUID()
			cmd, err := commands.NewClaimOrderCommand(aggregate.ID(), driverID, "Driver")
			if err != nil {
				results[slot] = err
				return
			}
			results[slot] = h.Handle(t.Context(), cmd)
		}(i)
	}
	wg.Wait()

	winners := 0
	for _, err := range results {
		if err == nil {
			winners++
			continue
		}
		assert.ErrorIs(t, err, errs.ErrConflict)
	}
	assert.Equal(t, 1, winners)
}
