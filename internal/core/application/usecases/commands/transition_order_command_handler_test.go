package commands_test

import (
	"errors"
	"strings"
	"testing"
	"time"

	"foodrelay/internal/core/application/usecases/commands"
	"foodrelay/internal/core/domain/model/order"
	"foodrelay/internal/core/ports"
	"foodrelay/internal/pkg/errs"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type TransitionOrderHandlerSuite struct {
	suite.Suite

	repo     *MockOrderRepository
	uow      *MockOrderUoW
	factory  *MockOrderUoWFactory
	notifier *MockNotifier
	handler  commands.TransitionOrderCommandHandler

	alice order.Partner
	bob   order.Partner
}

func TestTransitionOrderHandlerSuite(t *testing.T) {
	suite.Run(t, new(TransitionOrderHandlerSuite))
}

func (s *TransitionOrderHandlerSuite) SetupTest() {
	s.repo = new(MockOrderRepository)
	s.uow = new(MockOrderUoW)
	s.factory = new(MockOrderUoWFactory)
	s.notifier = new(MockNotifier)

	s.factory.On("Create").Return(s.uow)
	s.uow.On("Begin", mock.Anything).Return(nil)
	s.uow.On("OrderRepository").Return(s.repo)
	s.uow.On("Rollback", mock.Anything).Return(nil)

	s.handler = commands.NewTransitionOrderCommandHandler(s.factory, s.notifier, nil)

	var err error
	s.alice, err = order.NewPartner(42, "Anna", "anna")
	s.Require().NoError(err)
	s.bob, err = order.NewPartner(43, "Béla", "")
	s.Require().NoError(err)
}

func (s *TransitionOrderHandlerSuite) pendingOrder() *order.Order {
	o, err := order.NewOrder(order.Draft{Address: "Fő utca 1", GroupID: -100123}, time.Now().Add(-time.Minute))
	s.Require().NoError(err)
	s.Require().NoError(o.AssignID(7))
	return o
}

func (s *TransitionOrderHandlerSuite) acceptedOrder() *order.Order {
	o := s.pendingOrder()
	s.Require().NoError(o.Accept(s.alice, 15, time.Now()))
	return o
}

func (s *TransitionOrderHandlerSuite) command(target order.Status, p order.Partner, eta int) commands.TransitionOrderCommand {
	cmd, err := commands.NewTransitionOrderCommand(7, target, p, eta)
	s.Require().NoError(err)
	return cmd
}

func (s *TransitionOrderHandlerSuite) TestAccept_Success() {
	ctx := s.T().Context()
	s.repo.On("Get", mock.Anything, int64(7)).Return(s.pendingOrder(), nil).Once()
	s.repo.On("UpdateStatus", mock.Anything, mock.AnythingOfType("*order.Order"), order.Pending).Return(nil).Once()
	s.uow.On("Commit", mock.Anything).Return(nil).Once()
	s.notifier.On("Enqueue", int64(-100123), mock.MatchedBy(func(text string) bool {
		return containsAll(text, "Anna", "@anna", "20 perc", "#7")
	})).Return(nil).Once()

	updated, err := s.handler.Handle(ctx, s.command(order.Accepted, s.alice, 20))

	s.Require().NoError(err)
	s.Equal(order.Accepted, updated.Status())
	s.NotNil(updated.AcceptedAt())
	s.repo.AssertExpectations(s.T())
	s.notifier.AssertExpectations(s.T())
}

func (s *TransitionOrderHandlerSuite) TestAccept_AlreadyAccepted() {
	ctx := s.T().Context()
	s.repo.On("Get", mock.Anything, int64(7)).Return(s.acceptedOrder(), nil).Once()

	_, err := s.handler.Handle(ctx, s.command(order.Accepted, s.bob, 10))

	s.Require().ErrorIs(err, errs.ErrInvalidTransition)
	s.repo.AssertNotCalled(s.T(), "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
	s.uow.AssertNotCalled(s.T(), "Commit", mock.Anything)
	s.notifier.AssertNotCalled(s.T(), "Enqueue", mock.Anything, mock.Anything)
}

func (s *TransitionOrderHandlerSuite) TestPickUp_ByAnotherPartner() {
	ctx := s.T().Context()
	s.repo.On("Get", mock.Anything, int64(7)).Return(s.acceptedOrder(), nil).Once()

	_, err := s.handler.Handle(ctx, s.command(order.PickedUp, s.bob, 0))

	s.Require().ErrorIs(err, errs.ErrInvalidTransition)
	s.notifier.AssertNotCalled(s.T(), "Enqueue", mock.Anything, mock.Anything)
}

func (s *TransitionOrderHandlerSuite) TestLostRace_ReportsInvalidTransition() {
	ctx := s.T().Context()
	s.repo.On("Get", mock.Anything, int64(7)).Return(s.pendingOrder(), nil).Once()
	s.repo.On("UpdateStatus", mock.Anything, mock.Anything, order.Pending).Return(ports.ErrStatusConflict).Once()

	_, err := s.handler.Handle(ctx, s.command(order.Accepted, s.bob, 10))

	var transitionErr *errs.InvalidTransitionError
	s.Require().ErrorAs(err, &transitionErr)
	s.Equal("pending", transitionErr.From)
	s.Equal("accepted", transitionErr.To)
	s.uow.AssertNotCalled(s.T(), "Commit", mock.Anything)
	s.notifier.AssertNotCalled(s.T(), "Enqueue", mock.Anything, mock.Anything)
}

func (s *TransitionOrderHandlerSuite) TestUnknownOrder() {
	ctx := s.T().Context()
	s.repo.On("Get", mock.Anything, int64(7)).Return(nil, errs.NewObjectNotFoundError("order id", int64(7))).Once()

	_, err := s.handler.Handle(ctx, s.command(order.Accepted, s.alice, 10))

	s.Require().ErrorIs(err, errs.ErrObjectNotFound)
}

func (s *TransitionOrderHandlerSuite) TestWrongTarget() {
	ctx := s.T().Context()
	s.repo.On("Get", mock.Anything, int64(7)).Return(s.pendingOrder(), nil).Once()

	_, err := s.handler.Handle(ctx, s.command(order.Pending, s.alice, 0))

	s.Require().ErrorIs(err, errs.ErrInvalidTransition)
}

func (s *TransitionOrderHandlerSuite) TestStorageError_IsNotATransitionError() {
	ctx := s.T().Context()
	s.repo.On("Get", mock.Anything, int64(7)).Return(s.pendingOrder(), nil).Once()
	s.repo.On("UpdateStatus", mock.Anything, mock.Anything, order.Pending).Return(errors.New("connection reset")).Once()

	_, err := s.handler.Handle(ctx, s.command(order.Accepted, s.alice, 10))

	s.Require().Error(err)
	s.NotErrorIs(err, errs.ErrInvalidTransition)
}

func (s *TransitionOrderHandlerSuite) TestNotificationFailure_DoesNotFailTransition() {
	ctx := s.T().Context()
	s.repo.On("Get", mock.Anything, int64(7)).Return(s.acceptedOrder(), nil).Once()
	s.repo.On("UpdateStatus", mock.Anything, mock.Anything, order.Accepted).Return(nil).Once()
	s.uow.On("Commit", mock.Anything).Return(nil).Once()
	s.notifier.On("Enqueue", int64(-100123), mock.Anything).Return(errors.New("rejected")).Once()

	updated, err := s.handler.Handle(ctx, s.command(order.PickedUp, s.alice, 0))

	s.Require().NoError(err)
	s.Equal(order.PickedUp, updated.Status())
}

func (s *TransitionOrderHandlerSuite) TestCommitError_SendsNothing() {
	ctx := s.T().Context()
	s.repo.On("Get", mock.Anything, int64(7)).Return(s.acceptedOrder(), nil).Once()
	s.repo.On("UpdateStatus", mock.Anything, mock.Anything, order.Accepted).Return(nil).Once()
	s.uow.On("Commit", mock.Anything).Return(errors.New("commit error")).Once()

	_, err := s.handler.Handle(ctx, s.command(order.PickedUp, s.alice, 0))

	s.Require().Error(err)
	s.notifier.AssertNotCalled(s.T(), "Enqueue", mock.Anything, mock.Anything)
}

func TestTransitionOrderCommandHandler_ValidationError(t *testing.T) {
	h := commands.NewTransitionOrderCommandHandler(new(MockOrderUoWFactory), new(MockNotifier), nil)

	_, err := h.Handle(t.Context(), commands.TransitionOrderCommand{})

	require.ErrorIs(t, err, commands.ErrTransitionOrderCommandIsNotConstructed)
}

func containsAll(s string, parts ...string) bool {
	for _, p := range parts {
		if !strings.Contains(s, p) {
			return false
		}
	}
	return true
}
