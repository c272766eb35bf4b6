package handler

import (
	"context"
	"net/http"
	"strconv"

	"tableorder/internal/domain/model"
	"tableorder/internal/usecase"

	"github.com/labstack/echo/v4"
)

type AdminAccountService interface {
	Create(ctx context.Context, actorID int64, in usecase.CreateAdminInput) (model.Admin, error)
	List(ctx context.Context) ([]model.Admin, error)
	Activate(ctx context.Context, actorID int64, adminID int64) (model.Admin, error)
	Deactivate(ctx context.Context, actorID int64, adminID int64) (model.Admin, error)
}

// スーパー管理者による管理者アカウント管理
type SuperAdminHandler struct {
	uc AdminAccountService
}

func NewSuperAdminHandler(uc AdminAccountService) *SuperAdminHandler {
	return &SuperAdminHandler{uc: uc}
}

func (h *SuperAdminHandler) RegisterRoutes(super *echo.Group) {
	super.POST("/admins", h.create)
	super.GET("/admins", h.list)
	super.PATCH("/admins/:id/activate", h.activate)
	super.PATCH("/admins/:id/deactivate", h.deactivate)
}

func (h *SuperAdminHandler) create(c echo.Context) error {
	actor, ok := actorFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	var req usecase.CreateAdminInput
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "INVALID_BODY")
	}

	a, err := h.uc.Create(c.Request().Context(), actor.AdminID, req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, a)
}

func (h *SuperAdminHandler) list(c echo.Context) error {
	admins, err := h.uc.List(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, admins)
}

func (h *SuperAdminHandler) activate(c echo.Context) error {
	return h.setActive(c, true)
}

func (h *SuperAdminHandler) deactivate(c echo.Context) error {
	return h.setActive(c, false)
}

func (h *SuperAdminHandler) setActive(c echo.Context, active bool) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return badRequest(c, "INVALID_ID")
	}

	actor, ok := actorFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	var a model.Admin
	if active {
		a, err = h.uc.Activate(c.Request().Context(), actor.AdminID, id)
	} else {
		a, err = h.uc.Deactivate(c.Request().Context(), actor.AdminID, id)
	}
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, a)
}
