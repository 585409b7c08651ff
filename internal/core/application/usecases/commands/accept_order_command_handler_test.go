package commands_test

import (
	"context"
	"testing"

	"gasdelivery/internal/core/application/usecases/commands"
	"gasdelivery/internal/core/domain/model/cylinder"
	"gasdelivery/internal/core/domain/model/kernel"
	"gasdelivery/internal/core/domain/model/order"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestAcceptOrderCommandHandler_Handle_BindsCylinders(t *testing.T) {
	ctx := context.Background()
	o, d := assignedOrder(t, 2)
	codes := []string{"CYL-100", "CYL-101"}

	returned, err := cylinder.NewCylinder("CYL-101", kernel.Size11_8Kg, earlier)
	require.NoError(t, err)
	returned.MarkReturned(earlier)

	uow := newMockUoW()
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.orders.On("Get", ctx, o.ID()).Return(o, nil).Once(),
		uow.cylinders.On("GetByCodes", ctx, codes).Return(map[string]*cylinder.Cylinder{"CYL-101": returned}, nil).Once(),
		uow.cylinders.On("Save", ctx, mock.Anything).Return(nil).Once(),
		uow.orders.On("Update", ctx, o).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	effects, _, _ := quietEffects()
	h := commands.NewAcceptOrderCommandHandler(factoryOf(uow), effects)
	cmd, err := commands.NewAcceptOrderCommand(o.ID(), d.ID(), codes, driverActor(d))
	require.NoError(t, err)

	require.NoError(t, h.Handle(ctx, cmd))

	assert.Equal(t, order.Accepted, o.Status())
	assert.Equal(t, codes, o.CylinderCodes())

	saved := uow.cylinders.Calls[1].Arguments.Get(1).([]*cylinder.Cylinder)
	require.Len(t, saved, 2)
	for _, c := range saved {
		assert.Equal(t, cylinder.StatusActive, c.Status())
		assert.True(t, c.BuyerID().IsEqual(buyerID))
		assert.True(t, c.OrderID().IsEqual(o.ID()))
	}
	uow.AssertExpectations(t)
}

func TestAcceptOrderCommandHandler_Handle_RejectsForeignCylinder(t *testing.T) {
	ctx := context.Background()
	o, d := assignedOrder(t, 1)

	foreign, err := cylinder.NewCylinder("CYL-7", kernel.Size11_8Kg, earlier)
	require.NoError(t, err)
	require.NoError(t, foreign.BindTo(kernel.NewUUID(), kernel.NewUUID(), kernel.Size11_8Kg, earlier))

	uow := newMockUoW()
	uow.expectTx(ctx, false)
	uow.orders.On("Get", ctx, o.ID()).Return(o, nil).Once()
	uow.cylinders.On("GetByCodes", ctx, []string{"CYL-7"}).Return(map[string]*cylinder.Cylinder{"CYL-7": foreign}, nil).Once()

	effects, pub, _ := quietEffects()
	h := commands.NewAcceptOrderCommandHandler(factoryOf(uow), effects)
	cmd, err := commands.NewAcceptOrderCommand(o.ID(), d.ID(), []string{"CYL-7"}, driverActor(d))
	require.NoError(t, err)

	err = h.Handle(ctx, cmd)

	require.ErrorIs(t, err, order.ErrCylinderCodesInvalid)
	require.ErrorIs(t, err, cylinder.ErrOwnedByAnotherBuyer)
	uow.cylinders.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	uow.orders.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	assert.Empty(t, pub.eventTypes())
}

func TestAcceptOrderCommandHandler_Handle_OtherDriver(t *testing.T) {
	ctx := context.Background()
	o, _ := assignedOrder(t, 1)
	stranger := newDriver(t, karachi)

	uow := newMockUoW()
	uow.expectTx(ctx, false)
	uow.orders.On("Get", ctx, o.ID()).Return(o, nil).Once()

	effects, _, _ := quietEffects()
	h := commands.NewAcceptOrderCommandHandler(factoryOf(uow), effects)
	cmd, err := commands.NewAcceptOrderCommand(o.ID(), stranger.ID(), []string{"CYL-1"}, driverActor(stranger))
	require.NoError(t, err)

	require.ErrorIs(t, h.Handle(ctx, cmd), order.ErrDriverMismatch)
	assert.Equal(t, order.Assigned, o.Status())
}

func TestGenerateQRCommandHandler_Handle(t *testing.T) {
	ctx := context.Background()
	o, d := assignedOrder(t, 1)
	require.NoError(t, o.Accept(d.ID(), []string{"CYL-1"}, driverActor(d), earlier))

	repo := new(MockOrderRepository)
	repo.On("Get", ctx, o.ID()).Return(o, nil).Once()
	repo.On("Update", ctx, o).Return(nil).Once()

	uow := new(MockOrderUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(repo).Twice(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)
	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	effects, _, _ := quietEffects()
	h := commands.NewGenerateQRCommandHandler(factory, effects)
	cmd, err := commands.NewGenerateQRCommand(o.ID(), d.ID(), driverActor(d))
	require.NoError(t, err)

	code, err := h.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.NotEmpty(t, code)
	assert.Equal(t, code, o.QRCode())
	assert.Equal(t, order.QRGenerated, o.Status())
	uow.AssertExpectations(t)
}
