package commands

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"foodrelay/internal/core/domain/model/notification"
	"foodrelay/internal/core/domain/model/order"
	"foodrelay/internal/core/ports"
	"foodrelay/internal/metrics"
	"foodrelay/internal/pkg/errs"
)

// TransitionOrderCommandHandler advances orders through their lifecycle and
// queues one group notification per successful transition.
//
// Preconditions are checked twice: by the aggregate against the loaded state,
// and by the repository's conditional update against the stored state. If a
// concurrent transition got there first, the conditional update matches no
// row and the caller gets an InvalidTransitionError, exactly as if it had
// read the newer status.
type TransitionOrderCommandHandler struct {
	uowFactory OrderUoWFactory
	notifier   Notifier
	logger     *slog.Logger
	now        func() time.Time
}

func NewTransitionOrderCommandHandler(
	uowFactory OrderUoWFactory,
	notifier Notifier,
	logger *slog.Logger,
) TransitionOrderCommandHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return TransitionOrderCommandHandler{
		uowFactory: uowFactory,
		notifier:   notifier,
		logger:     logger.With("component", "transition_order_handler"),
		now:        time.Now,
	}
}

// Handle applies the transition and returns the updated order.
//
// Errors:
//   - errs.ErrObjectNotFound when the order id is unknown
//   - errs.ErrInvalidTransition when status or ownership does not allow it
//   - errs.ErrValueIsOutOfRange for an ETA outside 1..240 minutes on accept
//
// A failed notification never fails the transition.
func (h TransitionOrderCommandHandler) Handle(ctx context.Context, cmd TransitionOrderCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	repo := uow.OrderRepository()
	o, err := repo.Get(ctx, cmd.OrderID())
	if err != nil {
		return nil, err
	}

	expected := o.Status()
	if err = o.Advance(cmd.Target(), cmd.Partner(), cmd.ETAMinutes(), h.now()); err != nil {
		return nil, h.rejected(cmd, err)
	}

	if err = repo.UpdateStatus(ctx, o, expected); err != nil {
		if errors.Is(err, ports.ErrStatusConflict) {
			err = errs.NewInvalidTransitionErrorWithCause(
				"order", cmd.OrderID(), expected.String(), cmd.Target().String(), err)
			return nil, h.rejected(cmd, err)
		}
		metrics.OperationErrorsTotal.WithLabelValues("transition_order").Inc()
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		metrics.OperationErrorsTotal.WithLabelValues("transition_order").Inc()
		return nil, err
	}

	metrics.OrderTransitionsTotal.WithLabelValues(cmd.Target().String(), "applied").Inc()
	h.logger.Info("order transitioned",
		"order_id", o.ID(),
		"status", o.Status().String(),
		"partner_id", cmd.Partner().ID(),
	)

	h.notify(o)
	return o, nil
}

func (h TransitionOrderCommandHandler) notify(o *order.Order) {
	text, err := notification.ForTransition(o)
	if err != nil {
		h.logger.Error("cannot render notification", "order_id", o.ID(), "error", err)
		return
	}

	// rejections are logged by the notifier
	_ = h.notifier.Enqueue(o.GroupID(), text)
}

// rejected records a refused transition. Invalid transitions are the normal
// outcome of claim races and are logged at debug level only.
func (h TransitionOrderCommandHandler) rejected(cmd TransitionOrderCommand, err error) error {
	metrics.OrderTransitionsTotal.WithLabelValues(cmd.Target().String(), "rejected").Inc()
	if errors.Is(err, errs.ErrInvalidTransition) {
		h.logger.Debug("transition refused",
			"order_id", cmd.OrderID(),
			"target", cmd.Target().String(),
			"partner_id", cmd.Partner().ID(),
			"reason", err,
		)
	}
	return err
}
