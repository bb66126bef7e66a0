// Package http exposes the engine over a small REST surface: the order API
// hands freshly placed orders to the intake pipeline, restaurant and rider
// backends report transitions, and admin consoles read the assignment
// backlog and breach log.
package http

import (
	"errors"
	"net/http"
	"time"

	"hatid/internal/core/application/usecases/commands"
	"hatid/internal/core/application/usecases/queries"
	"hatid/internal/core/domain/model/kernel"
	"hatid/internal/core/domain/model/order"
	"hatid/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// Server coordinates between HTTP handlers and application use cases.
type Server struct {
	// Command handlers
	processPlacementHandler commands.ProcessOrderPlacementCommandHandler
	changeStatusHandler     commands.ChangeOrderStatusCommandHandler

	// Query handlers
	getUnassignedOrdersHandler queries.GetUnassignedOrdersQueryHandler
	getSLABreachesHandler      queries.GetSLABreachesQueryHandler
}

// NewServer creates an HTTP server with the required command and query handlers.
func NewServer(
	processPlacementHandler commands.ProcessOrderPlacementCommandHandler,
	changeStatusHandler commands.ChangeOrderStatusCommandHandler,
	getUnassignedOrdersHandler queries.GetUnassignedOrdersQueryHandler,
	getSLABreachesHandler queries.GetSLABreachesQueryHandler,
) *Server {
	return &Server{
		processPlacementHandler:    processPlacementHandler,
		changeStatusHandler:        changeStatusHandler,
		getUnassignedOrdersHandler: getUnassignedOrdersHandler,
		getSLABreachesHandler:      getSLABreachesHandler,
	}
}

// RegisterRoutes binds the server's handlers onto the echo instance.
func (s *Server) RegisterRoutes(e *echo.Echo) {
	e.GET("/health", s.Health)
	e.POST("/api/v1/orders/:id/process", s.ProcessOrderPlacement)
	e.PATCH("/api/v1/orders/:id/status", s.ChangeOrderStatus)
	e.GET("/api/v1/admin/orders/unassigned", s.GetUnassignedOrders)
	e.GET("/api/v1/admin/sla/breaches", s.GetSLABreaches)
}

type apiError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type violationResponse struct {
	Type     string `json:"type"`
	Severity string `json:"severity"`
	Message  string `json:"message"`
	Action   string `json:"action"`
}

type placementResponse struct {
	Accepted   bool                `json:"accepted"`
	Violations []violationResponse `json:"violations"`
}

type changeStatusRequest struct {
	Status       string  `json:"status"`
	RestaurantID *string `json:"restaurant_id,omitempty"`
}

type unassignedOrderResponse struct {
	ID             string    `json:"id"`
	City           string    `json:"city"`
	Priority       string    `json:"priority"`
	PlacedAt       time.Time `json:"placed_at"`
	NeedsAttention bool      `json:"needs_attention"`
}

type slaBreachResponse struct {
	OrderID       string    `json:"order_id"`
	Phase         string    `json:"phase"`
	TargetMinutes float64   `json:"target_minutes"`
	ActualMinutes float64   `json:"actual_minutes"`
	DelayMinutes  float64   `json:"delay_minutes"`
	ActualStatus  string    `json:"actual_status"`
	CheckedAt     time.Time `json:"checked_at"`
}

// Health handles GET /health.
func (s *Server) Health(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// ProcessOrderPlacement handles POST /api/v1/orders/:id/process - runs the
// intake pipeline for an already persisted pending order.
func (s *Server) ProcessOrderPlacement(ctx echo.Context) error {
	orderID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, apiError{
			Code:    http.StatusBadRequest,
			Message: "Invalid order id",
		})
	}

	cmd, err := commands.NewProcessOrderPlacementCommand(orderID)
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, apiError{
			Code:    http.StatusBadRequest,
			Message: "Invalid placement request: " + err.Error(),
		})
	}

	result, err := s.processPlacementHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.commandError(ctx, err, "Failed to process order placement")
	}

	violations := make([]violationResponse, len(result.Violations))
	for i, v := range result.Violations {
		violations[i] = violationResponse{
			Type:     string(v.Type),
			Severity: string(v.Severity),
			Message:  v.Message,
			Action:   string(v.Action),
		}
	}

	return ctx.JSON(http.StatusOK, placementResponse{
		Accepted:   result.Accepted,
		Violations: violations,
	})
}

// ChangeOrderStatus handles PATCH /api/v1/orders/:id/status - applies an
// externally reported transition.
func (s *Server) ChangeOrderStatus(ctx echo.Context) error {
	orderID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, apiError{
			Code:    http.StatusBadRequest,
			Message: "Invalid order id",
		})
	}

	var req changeStatusRequest
	if err = ctx.Bind(&req); err != nil {
		return ctx.JSON(http.StatusBadRequest, apiError{
			Code:    http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}

	target, err := order.StatusFromString(req.Status)
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, apiError{
			Code:    http.StatusBadRequest,
			Message: "Unknown order status: " + req.Status,
		})
	}

	var restaurantID *kernel.UUID
	if req.RestaurantID != nil {
		id, idErr := kernel.UUIDFromString(*req.RestaurantID)
		if idErr != nil {
			return ctx.JSON(http.StatusBadRequest, apiError{
				Code:    http.StatusBadRequest,
				Message: "Invalid restaurant id",
			})
		}
		restaurantID = &id
	}

	cmd, err := commands.NewChangeOrderStatusCommand(orderID, target, restaurantID)
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, apiError{
			Code:    http.StatusBadRequest,
			Message: "Invalid transition request: " + err.Error(),
		})
	}

	if err = s.changeStatusHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return s.commandError(ctx, err, "Failed to change order status")
	}

	return ctx.NoContent(http.StatusNoContent)
}

// GetUnassignedOrders handles GET /api/v1/admin/orders/unassigned.
func (s *Server) GetUnassignedOrders(ctx echo.Context) error {
	query := queries.NewGetUnassignedOrdersQuery()

	orders, err := s.getUnassignedOrdersHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return ctx.JSON(http.StatusInternalServerError, apiError{
			Code:    http.StatusInternalServerError,
			Message: "Failed to retrieve unassigned orders",
		})
	}

	response := make([]unassignedOrderResponse, len(orders))
	for i, o := range orders {
		response[i] = unassignedOrderResponse{
			ID:             o.ID.String(),
			City:           o.City,
			Priority:       string(o.Priority),
			PlacedAt:       o.PlacedAt,
			NeedsAttention: o.NeedsAttention,
		}
	}

	return ctx.JSON(http.StatusOK, response)
}

// GetSLABreaches handles GET /api/v1/admin/sla/breaches?since=RFC3339.
// The window defaults to the last 24 hours when since is omitted.
func (s *Server) GetSLABreaches(ctx echo.Context) error {
	since := time.Now().Add(-24 * time.Hour)
	if raw := ctx.QueryParam("since"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return ctx.JSON(http.StatusBadRequest, apiError{
				Code:    http.StatusBadRequest,
				Message: "Invalid since parameter, expected RFC3339",
			})
		}
		since = parsed
	}

	query, err := queries.NewGetSLABreachesQuery(since)
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, apiError{
			Code:    http.StatusBadRequest,
			Message: "Invalid breach query: " + err.Error(),
		})
	}

	breaches, err := s.getSLABreachesHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return ctx.JSON(http.StatusInternalServerError, apiError{
			Code:    http.StatusInternalServerError,
			Message: "Failed to retrieve breaches",
		})
	}

	response := make([]slaBreachResponse, len(breaches))
	for i, b := range breaches {
		response[i] = slaBreachResponse{
			OrderID:       b.OrderID.String(),
			Phase:         string(b.Phase),
			TargetMinutes: b.TargetMinutes,
			ActualMinutes: b.ActualMinutes,
			DelayMinutes:  b.DelayMinutes,
			ActualStatus:  string(b.ActualStatus),
			CheckedAt:     b.CheckedAt,
		}
	}

	return ctx.JSON(http.StatusOK, response)
}

// commandError maps application errors onto HTTP statuses.
// Not-found and conflict cases are the caller's problem; everything else is ours.
func (s *Server) commandError(ctx echo.Context, err error, fallback string) error {
	switch {
	case errors.Is(err, errs.ErrObjectNotFound):
		return ctx.JSON(http.StatusNotFound, apiError{
			Code:    http.StatusNotFound,
			Message: "Order not found",
		})
	case errors.Is(err, errs.ErrValueIsInvalid):
		return ctx.JSON(http.StatusConflict, apiError{
			Code:    http.StatusConflict,
			Message: err.Error(),
		})
	case errors.Is(err, errs.ErrVersionIsInvalid):
		return ctx.JSON(http.StatusConflict, apiError{
			Code:    http.StatusConflict,
			Message: "Order was modified concurrently, retry",
		})
	default:
		return ctx.JSON(http.StatusInternalServerError, apiError{
			Code:    http.StatusInternalServerError,
			Message: fallback,
		})
	}
}
