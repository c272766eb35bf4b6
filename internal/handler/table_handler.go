package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"tableorder/internal/usecase"

	"github.com/labstack/echo/v4"
)

type TableSessionService interface {
	CompleteSession(ctx context.Context, actor usecase.Actor, tableID int64) (usecase.CompleteSessionOutput, error)
	OrderHistory(ctx context.Context, storeID string, tableID int64, q usecase.OrderHistoryQuery) ([]usecase.OrderHistoryOutput, error)
}

type TableHandler struct {
	uc TableSessionService
}

func NewTableHandler(uc TableSessionService) *TableHandler {
	return &TableHandler{uc: uc}
}

func (h *TableHandler) RegisterRoutes(admin *echo.Group) {
	admin.POST("/tables/:id/complete-session", h.completeSession)
	admin.GET("/tables/:id/order-history", h.orderHistory)
}

func (h *TableHandler) completeSession(c echo.Context) error {
	tableID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || tableID <= 0 {
		return badRequest(c, "INVALID_ID")
	}

	actor, ok := actorFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	out, err := h.uc.CompleteSession(c.Request().Context(), actor, tableID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *TableHandler) orderHistory(c echo.Context) error {
	tableID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || tableID <= 0 {
		return badRequest(c, "INVALID_ID")
	}

	storeID, ok := storeIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	from, err := parseDateParam(c.QueryParam("from_date"), false)
	if err != nil {
		return badRequest(c, "INVALID_FROM_DATE")
	}
	to, err := parseDateParam(c.QueryParam("to_date"), true)
	if err != nil {
		return badRequest(c, "INVALID_TO_DATE")
	}

	out, err := h.uc.OrderHistory(c.Request().Context(), storeID, tableID, usecase.OrderHistoryQuery{From: from, To: to})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

// RFC3339 か YYYY-MM-DD。日付だけのto_dateはその日の終わりまで含める。
func parseDateParam(v string, endOfDay bool) (*time.Time, error) {
	if v == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return &t, nil
	}
	t, err := time.Parse("2006-01-02", v)
	if err != nil {
		return nil, err
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return &t, nil
}
