package http

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/oapi-codegen/runtime"
)

// ServerInterface lists the operations of openapi.yaml. The wrapper below
// binds path and query parameters before calling into it.
type ServerInterface interface {
	// GET /api/v1/orders
	ListOrders(ctx echo.Context, params ListOrdersParams) error
	// POST /api/v1/orders
	CreateOrder(ctx echo.Context) error
	// GET /api/v1/orders/{orderId}
	GetOrder(ctx echo.Context, orderID int64) error
	// POST /api/v1/orders/{orderId}/transitions
	TransitionOrder(ctx echo.Context, orderID int64) error
	// POST /api/v1/groups/{groupId}/messages
	SubmitGroupMessage(ctx echo.Context, groupID int64) error
	// GET /api/v1/couriers/{courierId}/route
	GetCourierRoute(ctx echo.Context, courierID int64) error
}

// EchoRouter is satisfied by *echo.Echo and *echo.Group.
type EchoRouter interface {
	GET(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	POST(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
}

// ServerInterfaceWrapper converts echo contexts to typed arguments.
type ServerInterfaceWrapper struct {
	Handler ServerInterface
}

func (w *ServerInterfaceWrapper) ListOrders(ctx echo.Context) error {
	var params ListOrdersParams

	if err := runtime.BindQueryParameter("form", true, true, "status", ctx.QueryParams(), &params.Status); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter status: %s", err))
	}
	if err := runtime.BindQueryParameter("form", true, false, "courierId", ctx.QueryParams(), &params.CourierID); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter courierId: %s", err))
	}

	return w.Handler.ListOrders(ctx, params)
}

func (w *ServerInterfaceWrapper) CreateOrder(ctx echo.Context) error {
	return w.Handler.CreateOrder(ctx)
}

func (w *ServerInterfaceWrapper) GetOrder(ctx echo.Context) error {
	orderID, err := bindPathInt64(ctx, "orderId")
	if err != nil {
		return err
	}
	return w.Handler.GetOrder(ctx, orderID)
}

func (w *ServerInterfaceWrapper) TransitionOrder(ctx echo.Context) error {
	orderID, err := bindPathInt64(ctx, "orderId")
	if err != nil {
		return err
	}
	return w.Handler.TransitionOrder(ctx, orderID)
}

func (w *ServerInterfaceWrapper) SubmitGroupMessage(ctx echo.Context) error {
	groupID, err := bindPathInt64(ctx, "groupId")
	if err != nil {
		return err
	}
	return w.Handler.SubmitGroupMessage(ctx, groupID)
}

func (w *ServerInterfaceWrapper) GetCourierRoute(ctx echo.Context) error {
	courierID, err := bindPathInt64(ctx, "courierId")
	if err != nil {
		return err
	}
	return w.Handler.GetCourierRoute(ctx, courierID)
}

func bindPathInt64(ctx echo.Context, name string) (int64, error) {
	var v int64
	err := runtime.BindStyledParameterWithOptions("simple", name, ctx.Param(name), &v,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter %s: %s", name, err))
	}
	return v, nil
}

// RegisterHandlers mounts every operation on router. m applies to each
// route, which is how request validation is attached.
func RegisterHandlers(router EchoRouter, si ServerInterface, m ...echo.MiddlewareFunc) {
	wrapper := ServerInterfaceWrapper{Handler: si}

	router.GET("/api/v1/orders", wrapper.ListOrders, m...)
	router.POST("/api/v1/orders", wrapper.CreateOrder, m...)
	router.GET("/api/v1/orders/:orderId", wrapper.GetOrder, m...)
	router.POST("/api/v1/orders/:orderId/transitions", wrapper.TransitionOrder, m...)
	router.POST("/api/v1/groups/:groupId/messages", wrapper.SubmitGroupMessage, m...)
	router.GET("/api/v1/couriers/:courierId/route", wrapper.GetCourierRoute, m...)
}
