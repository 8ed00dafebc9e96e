// Package http is the JSON surface of the relay. Handlers translate requests
// into commands and queries; all rules live in the core.
package http

import (
	"errors"
	"log/slog"
	"net/http"

	"foodrelay/internal/core/application/usecases/commands"
	"foodrelay/internal/core/application/usecases/queries"
	"foodrelay/internal/core/domain/model/order"
	"foodrelay/internal/core/domain/services"
	"foodrelay/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

var _ ServerInterface = (*Server)(nil)

// Server implements ServerInterface on top of the application handlers.
type Server struct {
	// Command handlers
	createOrderHandler     commands.CreateOrderCommandHandler
	transitionOrderHandler commands.TransitionOrderCommandHandler

	// Query handlers
	listOrdersHandler   queries.ListOrdersByStatusQueryHandler
	getOrderHandler     queries.GetOrderQueryHandler
	courierRouteHandler queries.GetCourierRouteQueryHandler

	logger *slog.Logger
}

func NewServer(
	createOrderHandler commands.CreateOrderCommandHandler,
	transitionOrderHandler commands.TransitionOrderCommandHandler,
	listOrdersHandler queries.ListOrdersByStatusQueryHandler,
	getOrderHandler queries.GetOrderQueryHandler,
	courierRouteHandler queries.GetCourierRouteQueryHandler,
	logger *slog.Logger,
) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		createOrderHandler:     createOrderHandler,
		transitionOrderHandler: transitionOrderHandler,
		listOrdersHandler:      listOrdersHandler,
		getOrderHandler:        getOrderHandler,
		courierRouteHandler:    courierRouteHandler,
		logger:                 logger.With("component", "http"),
	}
}

// ListOrders handles GET /api/v1/orders.
func (s *Server) ListOrders(ctx echo.Context, params ListOrdersParams) error {
	status, err := order.ParseStatus(params.Status)
	if err != nil {
		return s.fail(ctx, err)
	}

	query, err := queries.NewListOrdersByStatusQuery(status, params.CourierID)
	if err != nil {
		return s.fail(ctx, err)
	}

	orders, err := s.listOrdersHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return s.fail(ctx, err)
	}

	return ctx.JSON(http.StatusOK, toOrders(orders))
}

// CreateOrder handles POST /api/v1/orders.
func (s *Server) CreateOrder(ctx echo.Context) error {
	var body NewOrder
	if err := ctx.Bind(&body); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	return s.create(ctx, order.Draft{
		RestaurantName:  body.RestaurantName,
		Address:         body.Address,
		Phone:           body.Phone,
		Details:         body.Details,
		GroupID:         body.GroupID,
		GroupName:       body.GroupName,
		SourceMessageID: body.SourceMessageID,
	})
}

// SubmitGroupMessage handles POST /api/v1/groups/{groupId}/messages. Text
// that is not an order is answered with 422 and nothing is stored.
func (s *Server) SubmitGroupMessage(ctx echo.Context, groupID int64) error {
	var body GroupMessage
	if err := ctx.Bind(&body); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	msg, ok := services.ParseOrderMessage(body.Text)
	if !ok {
		return ctx.JSON(http.StatusUnprocessableEntity, Error{
			Code:    http.StatusUnprocessableEntity,
			Reason:  "not_an_order",
			Message: "Message has no address line",
		})
	}

	return s.create(ctx, order.Draft{
		RestaurantName:  body.GroupName,
		Address:         msg.Address,
		Phone:           msg.Phone,
		Details:         msg.Details,
		GroupID:         groupID,
		GroupName:       body.GroupName,
		SourceMessageID: body.MessageID,
	})
}

func (s *Server) create(ctx echo.Context, draft order.Draft) error {
	cmd, err := commands.NewCreateOrderCommand(draft)
	if err != nil {
		return s.fail(ctx, err)
	}

	created, err := s.createOrderHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.fail(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, toOrder(queries.NewOrderResponse(created)))
}

// GetOrder handles GET /api/v1/orders/{orderId}.
func (s *Server) GetOrder(ctx echo.Context, orderID int64) error {
	query, err := queries.NewGetOrderQuery(orderID)
	if err != nil {
		return s.fail(ctx, err)
	}

	found, err := s.getOrderHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return s.fail(ctx, err)
	}

	return ctx.JSON(http.StatusOK, toOrder(found))
}

// TransitionOrder handles POST /api/v1/orders/{orderId}/transitions. A
// target the lifecycle does not know is still passed on, so the caller gets
// the same 409 as for any other impossible move.
func (s *Server) TransitionOrder(ctx echo.Context, orderID int64) error {
	var body Transition
	if err := ctx.Bind(&body); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	target, err := order.ParseStatus(body.Target)
	if err != nil {
		target = order.Unknown
	}

	partner, err := order.NewPartner(body.PartnerID, body.PartnerName, body.PartnerHandle)
	if err != nil {
		return s.fail(ctx, err)
	}

	cmd, err := commands.NewTransitionOrderCommand(orderID, target, partner, body.ETAMinutes)
	if err != nil {
		return s.fail(ctx, err)
	}

	updated, err := s.transitionOrderHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.fail(ctx, err)
	}

	return ctx.JSON(http.StatusOK, toOrder(queries.NewOrderResponse(updated)))
}

// GetCourierRoute handles GET /api/v1/couriers/{courierId}/route.
func (s *Server) GetCourierRoute(ctx echo.Context, courierID int64) error {
	query, err := queries.NewGetCourierRouteQuery(courierID)
	if err != nil {
		return s.fail(ctx, err)
	}

	route, err := s.courierRouteHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return s.fail(ctx, err)
	}

	return ctx.JSON(http.StatusOK, Route{Addresses: route.Addresses})
}

// fail maps core errors onto status codes. Anything unrecognized is a 500
// and is the only case logged here.
func (s *Server) fail(ctx echo.Context, err error) error {
	var (
		code   int
		reason string
	)
	switch {
	case errors.Is(err, queries.ErrNoRoutableAddresses):
		code, reason = http.StatusNotFound, "no_addresses"
	case errors.Is(err, errs.ErrObjectNotFound):
		code, reason = http.StatusNotFound, "not_found"
	case errors.Is(err, errs.ErrInvalidTransition):
		code, reason = http.StatusConflict, "invalid_transition"
	case errors.Is(err, errs.ErrValueIsRequired),
		errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsOutOfRange):
		code, reason = http.StatusBadRequest, "validation_failed"
	default:
		s.logger.ErrorContext(ctx.Request().Context(), "request failed",
			"method", ctx.Request().Method, "path", ctx.Path(), "error", err)
		return ctx.JSON(http.StatusInternalServerError, Error{
			Code:    http.StatusInternalServerError,
			Reason:  "internal",
			Message: "Internal server error",
		})
	}

	return ctx.JSON(code, Error{Code: code, Reason: reason, Message: err.Error()})
}

func badRequest(ctx echo.Context, message string) error {
	return ctx.JSON(http.StatusBadRequest, Error{
		Code:    http.StatusBadRequest,
		Reason:  "invalid_request",
		Message: message,
	})
}
