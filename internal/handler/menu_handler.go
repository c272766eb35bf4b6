package handler

import (
	"context"
	"net/http"
	"strconv"

	"tableorder/internal/domain/model"
	"tableorder/internal/usecase"

	"github.com/labstack/echo/v4"
)

type MenuService interface {
	List(ctx context.Context, storeID string, categoryID *int64) ([]model.Menu, error)
	Get(ctx context.Context, storeID string, menuID int64) (model.Menu, error)
	Patch(ctx context.Context, actor usecase.Actor, menuID int64, patch model.MenuPatch) (model.Menu, error)
}

// 客席・管理画面共通のメニュー参照と、管理者の部分更新
type MenuHandler struct {
	uc MenuService
}

// DI
func NewMenuHandler(uc MenuService) *MenuHandler {
	return &MenuHandler{uc: uc}
}

func (h *MenuHandler) RegisterCustomerRoutes(customer *echo.Group) {
	customer.GET("/menus", h.list)
	customer.GET("/menus/:id", h.detail)
}

func (h *MenuHandler) RegisterAdminRoutes(admin *echo.Group) {
	admin.GET("/menus", h.list)
	admin.GET("/menus/:id", h.detail)
	admin.PATCH("/menus/:id", h.patch)
}

func (h *MenuHandler) list(c echo.Context) error {
	storeID, ok := storeIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	//category_id（任意）
	var categoryID *int64
	if v := c.QueryParam("category_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil || id <= 0 {
			return badRequest(c, "INVALID_CATEGORY_ID")
		}
		categoryID = &id
	}

	menus, err := h.uc.List(c.Request().Context(), storeID, categoryID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, menus)
}

func (h *MenuHandler) detail(c echo.Context) error {
	storeID, ok := storeIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return badRequest(c, "INVALID_ID")
	}

	m, err := h.uc.Get(c.Request().Context(), storeID, id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, m)
}

func (h *MenuHandler) patch(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return badRequest(c, "INVALID_ID")
	}

	//変更できる項目はMenuPatchのフィールドだけ
	var req model.MenuPatch
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "INVALID_BODY")
	}

	actor, ok := actorFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	m, err := h.uc.Patch(c.Request().Context(), actor, id, req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, m)
}
