package handler

import (
	"context"
	"net/http"
	"strconv"

	"tableorder/internal/domain/model"
	"tableorder/internal/usecase"

	"github.com/labstack/echo/v4"
)

type AuditLogService interface {
	List(ctx context.Context, q usecase.AuditLogQuery) ([]model.AuditLog, error)
}

// スーパー管理者向けの監査ログ参照
type AuditLogHandler struct {
	uc AuditLogService
}

func NewAuditLogHandler(uc AuditLogService) *AuditLogHandler {
	return &AuditLogHandler{uc: uc}
}

func (h *AuditLogHandler) RegisterRoutes(super *echo.Group) {
	super.GET("/audit-logs", h.list)
}

func (h *AuditLogHandler) list(c echo.Context) error {
	var q usecase.AuditLogQuery
	var err error

	if q.ActorAdminID, err = optionalID(c.QueryParam("actor_admin_id")); err != nil {
		return badRequest(c, "INVALID_ACTOR_ADMIN_ID")
	}
	if q.ResourceID, err = optionalID(c.QueryParam("resource_id")); err != nil {
		return badRequest(c, "INVALID_RESOURCE_ID")
	}
	if v := c.QueryParam("action"); v != "" {
		a := model.AuditAction(v)
		q.Action = &a
	}
	if v := c.QueryParam("resource_type"); v != "" {
		rt := model.AuditResourceType(v)
		q.ResourceType = &rt
	}

	if q.From, err = parseDateParam(c.QueryParam("from_date"), false); err != nil {
		return badRequest(c, "INVALID_FROM_DATE")
	}
	if q.To, err = parseDateParam(c.QueryParam("to_date"), true); err != nil {
		return badRequest(c, "INVALID_TO_DATE")
	}

	if v := c.QueryParam("limit"); v != "" {
		if q.Limit, err = strconv.Atoi(v); err != nil {
			return badRequest(c, "INVALID_LIMIT")
		}
	}
	if v := c.QueryParam("offset"); v != "" {
		if q.Offset, err = strconv.Atoi(v); err != nil {
			return badRequest(c, "INVALID_OFFSET")
		}
	}

	logs, err := h.uc.List(c.Request().Context(), q)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, logs)
}

// 空なら条件なし。値があれば正のIDのみ。
func optionalID(v string) (*int64, error) {
	if v == "" {
		return nil, nil
	}
	id, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return nil, err
	}
	if id <= 0 {
		return nil, strconv.ErrRange
	}
	return &id, nil
}
