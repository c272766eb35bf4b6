package handler

import (
	"context"
	"net/http"
	"strconv"

	"tableorder/internal/usecase"

	"github.com/labstack/echo/v4"
)

type AdminOrderService interface {
	ListTableOrders(ctx context.Context, storeID string, tableID int64) ([]usecase.OrderOutput, error)
	UpdateStatus(ctx context.Context, actor usecase.Actor, orderID int64, in usecase.AdminUpdateOrderStatusInput) (usecase.OrderStatusOutput, error)
	DeleteOrder(ctx context.Context, actor usecase.Actor, orderID int64) error
}

type AdminOrderHandler struct {
	uc AdminOrderService
}

func NewAdminOrderHandler(uc AdminOrderService) *AdminOrderHandler {
	return &AdminOrderHandler{uc: uc}
}

type OrderStatusUpdateRequest struct {
	Status string `json:"status"`
}

func (h *AdminOrderHandler) RegisterRoutes(admin *echo.Group) {
	admin.GET("/orders", h.list)
	admin.PATCH("/orders/:id/status", h.updateStatus)
	admin.DELETE("/orders/:id", h.delete)
}

func (h *AdminOrderHandler) list(c echo.Context) error {
	storeID, ok := storeIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	tableID, err := strconv.ParseInt(c.QueryParam("table_id"), 10, 64)
	if err != nil || tableID <= 0 {
		return badRequest(c, "INVALID_TABLE_ID")
	}

	out, err := h.uc.ListTableOrders(c.Request().Context(), storeID, tableID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *AdminOrderHandler) updateStatus(c echo.Context) error {
	orderID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || orderID <= 0 {
		return badRequest(c, "INVALID_ID")
	}

	var req OrderStatusUpdateRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "INVALID_BODY")
	}

	//操作した管理者（監査ログ用）
	actor, ok := actorFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	out, err := h.uc.UpdateStatus(
		c.Request().Context(),
		actor,
		orderID,
		usecase.AdminUpdateOrderStatusInput{Status: req.Status},
	)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

func (h *AdminOrderHandler) delete(c echo.Context) error {
	orderID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || orderID <= 0 {
		return badRequest(c, "INVALID_ID")
	}

	actor, ok := actorFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	if err := h.uc.DeleteOrder(c.Request().Context(), actor, orderID); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, SuccessResponse{Message: "deleted"})
}
