package handler

import (
	"net/http"

	"tableorder/internal/middleware"
	"tableorder/internal/usecase"

	"github.com/labstack/echo/v4"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

type SuccessResponse struct {
	Message string `json:"message"`
}

func writeError(c echo.Context, err error) error {
	if err == nil {
		return nil
	}
	if he, ok := usecase.AsHTTPError(err); ok {
		return c.JSON(he.Status, ErrorResponse{Error: he.Message})
	}

	//500
	return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "INTERNAL_ERROR"})
}

func badRequest(c echo.Context, code string) error {
	return c.JSON(http.StatusBadRequest, ErrorResponse{Error: code})
}

func unauthorized(c echo.Context) error {
	return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "UNAUTHORIZED"})
}

// 管理者（監査ログのactorと店舗）
func actorFromContext(c echo.Context) (usecase.Actor, bool) {
	adminID, ok := c.Get(middleware.CtxAdminIDKey).(int64)
	if !ok || adminID <= 0 {
		return usecase.Actor{}, false
	}
	storeID, _ := c.Get(middleware.CtxStoreIDKey).(string)
	return usecase.Actor{AdminID: adminID, StoreID: storeID}, true
}

func storeIDFromContext(c echo.Context) (string, bool) {
	storeID, ok := c.Get(middleware.CtxStoreIDKey).(string)
	if !ok || storeID == "" {
		return "", false
	}
	return storeID, true
}

func sessionIDFromContext(c echo.Context) (int64, bool) {
	id, ok := c.Get(middleware.CtxSessionIDKey).(int64)
	if !ok || id <= 0 {
		return 0, false
	}
	return id, true
}
