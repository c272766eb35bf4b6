package handler

import (
	"context"
	"net/http"

	auth "tableorder/internal/usecase/auth_usecase"

	"github.com/labstack/echo/v4"
)

type LoginService interface {
	TableLogin(ctx context.Context, in auth.TableLoginInput) (auth.TableLoginOutput, error)
	AdminLogin(ctx context.Context, in auth.AdminLoginInput) (auth.AdminLoginOutput, error)
	SuperAdminLogin(ctx context.Context, in auth.SuperAdminLoginInput) (auth.AdminLoginOutput, error)
}

// ログイン（認証不要）
type AuthHandler struct {
	uc LoginService
}

func NewAuthHandler(uc LoginService) *AuthHandler {
	return &AuthHandler{uc: uc}
}

func (h *AuthHandler) RegisterRoutes(api *echo.Group) {
	api.POST("/customer/auth/login", h.tableLogin)
	api.POST("/admin/auth/login", h.adminLogin)
	api.POST("/superadmin/auth/login", h.superAdminLogin)
}

func (h *AuthHandler) tableLogin(c echo.Context) error {
	var req auth.TableLoginInput
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "INVALID_BODY")
	}

	out, err := h.uc.TableLogin(c.Request().Context(), req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *AuthHandler) adminLogin(c echo.Context) error {
	var req auth.AdminLoginInput
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "INVALID_BODY")
	}

	out, err := h.uc.AdminLogin(c.Request().Context(), req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *AuthHandler) superAdminLogin(c echo.Context) error {
	var req auth.SuperAdminLoginInput
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "INVALID_BODY")
	}

	out, err := h.uc.SuperAdminLogin(c.Request().Context(), req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
