// Package http exposes the dispatch engine over an echo server: a driver
// surface (login, order feed, lifecycle transitions), an employee surface
// (login, payment review, POD access) and the usual health/metrics pair.
package http

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/application/usecases/queries"
	"dispatch/internal/core/domain/model/identity"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"
)

// requestTimeout bounds how long any single API request may hold a database
// transaction or artifact read before it is abandoned.
const requestTimeout = 10 * time.Second

// Server coordinates between HTTP handlers and application use cases.
type Server struct {
	loginHandler    commands.LoginCommandHandler
	claimHandler    commands.ClaimOrderCommandHandler
	startHandler    commands.StartFulfillmentCommandHandler
	payHandler      commands.MarkPaidCommandHandler
	completeHandler commands.CompleteDeliveryCommandHandler
	confirmHandler  commands.ConfirmOrderCommandHandler

	driverOrdersHandler  queries.GetDriverOrdersQueryHandler
	pendingReviewHandler queries.GetPendingReviewOrdersQueryHandler
	verifyTokenHandler   queries.VerifyTokenQueryHandler
	orderPodHandler      queries.GetOrderPodQueryHandler

	artifacts ports.ArtifactStore
}

// NewServer creates a new HTTP server with the required command and query
// handlers.
func NewServer(
	loginHandler commands.LoginCommandHandler,
	claimHandler commands.ClaimOrderCommandHandler,
	startHandler commands.StartFulfillmentCommandHandler,
	payHandler commands.MarkPaidCommandHandler,
	completeHandler commands.CompleteDeliveryCommandHandler,
	confirmHandler commands.ConfirmOrderCommandHandler,
	driverOrdersHandler queries.GetDriverOrdersQueryHandler,
	pendingReviewHandler queries.GetPendingReviewOrdersQueryHandler,
	verifyTokenHandler queries.VerifyTokenQueryHandler,
	orderPodHandler queries.GetOrderPodQueryHandler,
	artifacts ports.ArtifactStore,
) *Server {
	return &Server{
		loginHandler:         loginHandler,
		claimHandler:         claimHandler,
		startHandler:         startHandler,
		payHandler:           payHandler,
		completeHandler:      completeHandler,
		confirmHandler:       confirmHandler,
		driverOrdersHandler:  driverOrdersHandler,
		pendingReviewHandler: pendingReviewHandler,
		verifyTokenHandler:   verifyTokenHandler,
		orderPodHandler:      orderPodHandler,
		artifacts:            artifacts,
	}
}

// RegisterRoutes wires all routes onto the echo instance.
func (s *Server) RegisterRoutes(e *echo.Echo) {
	e.GET("/health", s.Health)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	api := e.Group("/api/v1", MetricsMiddleware(), TimeoutMiddleware(requestTimeout))

	api.POST("/driver/login", s.DriverLogin)
	api.POST("/employee/login", s.EmployeeLogin)

	driver := api.Group("/driver", s.requireScope(identity.ScopeDriver))
	driver.GET("/orders", s.DriverOrders)
	driver.POST("/claim", s.ClaimOrder)
	driver.POST("/start", s.StartFulfillment)
	driver.POST("/pay", s.MarkPaid)
	driver.POST("/complete", s.CompleteDelivery)

	employee := api.Group("/employee", s.requireScope(identity.ScopeEmployee))
	employee.GET("/pending-orders", s.PendingOrders)
	employee.POST("/confirm-order", s.ConfirmOrder)

	pod := api.Group("", s.requireScope(identity.ScopeEmployee))
	pod.GET("/orders/:id/pod", s.OrderPod)
	pod.GET("/pod", s.PodArtifact)
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type orderActionRequest struct {
	OrderID string `json:"order_id"`
}

type completeRequest struct {
	OrderID   string `json:"order_id"`
	IDType    string `json:"id_type"`
	IDFront   string `json:"id_front"`
	IDBack    string `json:"id_back"`
	Signature string `json:"signature"`
}

type confirmRequest struct {
	OrderID string `json:"order_id"`
	Action  string `json:"action"`
}

// Health handles GET /health.
func (s *Server) Health(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// DriverLogin handles POST /api/v1/driver/login.
func (s *Server) DriverLogin(ctx echo.Context) error {
	return s.login(ctx, identity.ScopeDriver, "driver_name")
}

// EmployeeLogin handles POST /api/v1/employee/login.
func (s *Server) EmployeeLogin(ctx echo.Context) error {
	return s.login(ctx, identity.ScopeEmployee, "employee_name")
}

func (s *Server) login(ctx echo.Context, scope identity.TokenScope, nameField string) error {
	var req loginRequest
	if err := ctx.Bind(&req); err != nil {
		return writeError(ctx, errs.NewValueIsInvalidError("request body"))
	}

	cmd, err := commands.NewLoginCommand(req.Username, req.Password, scope)
	if err != nil {
		return writeError(ctx, err)
	}

	result, err := s.loginHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return writeError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, map[string]any{
		"token":   result.Token,
		"user_id": result.UserID.String(),
		nameField: result.DisplayName,
	})
}

// DriverOrders handles GET /api/v1/driver/orders.
func (s *Server) DriverOrders(ctx echo.Context) error {
	query, err := queries.NewGetDriverOrdersQuery(principal(ctx).UserID)
	if err != nil {
		return writeError(ctx, err)
	}

	response, err := s.driverOrdersHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return writeError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, response)
}

// ClaimOrder handles POST /api/v1/driver/claim.
func (s *Server) ClaimOrder(ctx echo.Context) error {
	orderID, err := bindOrderID(ctx)
	if err != nil {
		return writeError(ctx, err)
	}

	p := principal(ctx)
	cmd, err := commands.NewClaimOrderCommand(orderID, p.UserID, p.DisplayName)
	if err != nil {
		return writeError(ctx, err)
	}

	if err := s.claimHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return writeError(ctx, err)
	}

	return ctx.NoContent(http.StatusOK)
}

// StartFulfillment handles POST /api/v1/driver/start.
func (s *Server) StartFulfillment(ctx echo.Context) error {
	orderID, err := bindOrderID(ctx)
	if err != nil {
		return writeError(ctx, err)
	}

	cmd, err := commands.NewStartFulfillmentCommand(orderID, principal(ctx).UserID)
	if err != nil {
		return writeError(ctx, err)
	}

	if err := s.startHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return writeError(ctx, err)
	}

	return ctx.NoContent(http.StatusOK)
}

// MarkPaid handles POST /api/v1/driver/pay.
func (s *Server) MarkPaid(ctx echo.Context) error {
	orderID, err := bindOrderID(ctx)
	if err != nil {
		return writeError(ctx, err)
	}

	cmd, err := commands.NewMarkPaidCommand(orderID, principal(ctx).UserID)
	if err != nil {
		return writeError(ctx, err)
	}

	if err := s.payHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return writeError(ctx, err)
	}

	return ctx.NoContent(http.StatusOK)
}

// CompleteDelivery handles POST /api/v1/driver/complete.
func (s *Server) CompleteDelivery(ctx echo.Context) error {
	var req completeRequest
	if err := ctx.Bind(&req); err != nil {
		return writeError(ctx, errs.NewValueIsInvalidError("request body"))
	}

	orderID, err := kernel.UUIDFromString(req.OrderID)
	if err != nil {
		return writeError(ctx, err)
	}

	cmd, err := commands.NewCompleteDeliveryCommand(
		orderID, principal(ctx).UserID, req.IDType, req.IDFront, req.IDBack, req.Signature)
	if err != nil {
		return writeError(ctx, err)
	}

	if err := s.completeHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return writeError(ctx, err)
	}

	return ctx.NoContent(http.StatusOK)
}

// PendingOrders handles GET /api/v1/employee/pending-orders.
func (s *Server) PendingOrders(ctx echo.Context) error {
	query := queries.NewGetPendingReviewOrdersQuery()

	response, err := s.pendingReviewHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return writeError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, response)
}

// ConfirmOrder handles POST /api/v1/employee/confirm-order.
func (s *Server) ConfirmOrder(ctx echo.Context) error {
	var req confirmRequest
	if err := ctx.Bind(&req); err != nil {
		return writeError(ctx, errs.NewValueIsInvalidError("request body"))
	}

	orderID, err := kernel.UUIDFromString(req.OrderID)
	if err != nil {
		return writeError(ctx, err)
	}

	cmd, err := commands.NewConfirmOrderCommand(
		orderID, commands.ReviewAction(req.Action), principal(ctx).DisplayName)
	if err != nil {
		return writeError(ctx, err)
	}

	if err := s.confirmHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return writeError(ctx, err)
	}

	return ctx.NoContent(http.StatusOK)
}

// OrderPod handles GET /api/v1/orders/:id/pod.
func (s *Server) OrderPod(ctx echo.Context) error {
	orderID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return writeError(ctx, err)
	}

	query, err := queries.NewGetOrderPodQuery(orderID)
	if err != nil {
		return writeError(ctx, err)
	}

	response, err := s.orderPodHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return writeError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, response)
}

// PodArtifact handles GET /api/v1/pod. The nonce is single-use; clients must
// re-request POD metadata for another read.
func (s *Server) PodArtifact(ctx echo.Context) error {
	ref := ctx.QueryParam("ref")
	nonce := ctx.QueryParam("nonce")
	if ref == "" || nonce == "" {
		return writeError(ctx, errs.NewValueIsRequiredError("ref and nonce"))
	}

	data, contentType, err := s.artifacts.Open(ctx.Request().Context(), ref, nonce)
	if err != nil {
		return writeError(ctx, err)
	}

	return ctx.Blob(http.StatusOK, contentType, data)
}

func bindOrderID(ctx echo.Context) (kernel.UUID, error) {
	var req orderActionRequest
	if err := ctx.Bind(&req); err != nil {
		return kernel.UUID{}, errs.NewValueIsInvalidError("request body")
	}
	return kernel.UUIDFromString(req.OrderID)
}
