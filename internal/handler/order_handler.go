package handler

import (
	"context"
	"net/http"

	"tableorder/internal/usecase"

	"github.com/labstack/echo/v4"
)

type OrderService interface {
	CreateOrder(ctx context.Context, sessionID int64, in usecase.CreateOrderInput) (usecase.OrderOutput, error)
	ListSessionOrders(ctx context.Context, sessionID int64) ([]usecase.OrderOutput, error)
}

// 客席からの注文（tableトークン）
type OrderHandler struct {
	uc OrderService
}

func NewOrderHandler(uc OrderService) *OrderHandler {
	return &OrderHandler{uc: uc}
}

func (h *OrderHandler) RegisterRoutes(customer *echo.Group) {
	customer.POST("/orders", h.create)
	customer.GET("/orders", h.list)
}

func (h *OrderHandler) create(c echo.Context) error {
	sessionID, ok := sessionIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	var req usecase.CreateOrderInput
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "INVALID_BODY")
	}

	out, err := h.uc.CreateOrder(c.Request().Context(), sessionID, req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, out)
}

func (h *OrderHandler) list(c echo.Context) error {
	sessionID, ok := sessionIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	out, err := h.uc.ListSessionOrders(c.Request().Context(), sessionID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
