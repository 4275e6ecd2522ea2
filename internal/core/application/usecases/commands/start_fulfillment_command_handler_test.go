package commands_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/pkg/errs"
)

func claimedTestOrder(t *testing.T, driverID kernel.UUID) *order.Order {
	t.Helper()

	aggregate := newTestOrder(t, "card")
	require.NoError(t, aggregate.Claim(driverID, "Jo Driver", time.Now().UTC()))
	return aggregate
}

func TestStartFulfillmentCommandHandler_Handle_Success(t *testing.T) {
	ctx := t.Context()
	driverID := kernel.NewUUID()
	aggregate := claimedTestOrder(t, driverID)
	cmd, err := commands.NewStartFulfillmentCommand(aggregate.ID(), driverID)
	require.NoError(t, err)

	repo := new(MockOrderRepository)
	uow := new(MockOrderUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(repo).Once(),
		repo.On("Get", mock.Anything, aggregate.ID()).Return(aggregate, nil).Once(),
		repo.On("Update", mock.Anything, aggregate, order.Claimed).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewStartFulfillmentCommandHandler(factory, nil)
	err = h.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, order.FulfillmentStarted, aggregate.Status())
	assert.NotNil(t, aggregate.FulfillmentStartedAt())
	repo.AssertExpectations(t)
}

func TestStartFulfillmentCommandHandler_Handle_NotAssignedDriver(t *testing.T) {
	ctx := t.Context()
	aggregate := claimedTestOrder(t, kernel.NewUUID())
	cmd, err := commands.NewStartFulfillmentCommand(aggregate.ID(), kernel.NewUUID())
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

	h := commands.NewStartFulfillmentCommandHandler(factory, nil)
	err = h.Handle(ctx, cmd)

	assert.ErrorIs(t, err, errs.ErrForbidden)
	assert.Equal(t, order.Claimed, aggregate.Status())
}

func TestStartFulfillmentCommandHandler_Handle_WrongState(t *testing.T) {
	ctx := t.Context()
	driverID := kernel.NewUUID()
	aggregate := claimedTestOrder(t, driverID)
	require.NoError(t, aggregate.StartFulfillment(driverID, time.Now().UTC()))

	cmd, err := commands.NewStartFulfillmentCommand(aggregate.ID(), driverID)
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

	h := commands.NewStartFulfillmentCommandHandler(factory, nil)
	err = h.Handle(ctx, cmd)

	assert.ErrorIs(t, err, errs.ErrPreconditionFailed)
}
