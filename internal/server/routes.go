package server

import (
	"net/http"

	"tableorder/internal/config"
	"tableorder/internal/domain/model"
	"tableorder/internal/handler"
	"tableorder/internal/middleware"

	"github.com/labstack/echo/v4"
)

// ルーティングに必要なhandler群
type Deps struct {
	Auth       *handler.AuthHandler
	Order      *handler.OrderHandler
	AdminOrder *handler.AdminOrderHandler
	Menu       *handler.MenuHandler
	Table      *handler.TableHandler
	SSE        *handler.SSEHandler
	SuperAdmin *handler.SuperAdminHandler
	AuditLog   *handler.AuditLogHandler

	//無効化された管理者の確認に使う
	Admins middleware.AdminFinder
}

func RegisterRoutes(e *echo.Echo, cfg config.Config, d Deps) {
	e.GET("/", func(c echo.Context) error {
		return c.JSON(http.StatusOK, handler.SuccessResponse{Message: "ok"})
	})

	api := e.Group("/api")

	//ログイン（認証不要）
	d.Auth.RegisterRoutes(api)

	//客席（テーブルトークン）
	customer := api.Group("/customer",
		middleware.AuthJWT(cfg),
		middleware.RoleGuard(model.PrincipalTable),
	)
	d.Order.RegisterRoutes(customer)
	d.Menu.RegisterCustomerRoutes(customer)

	//店舗管理者
	admin := api.Group("/admin",
		middleware.AuthJWT(cfg),
		middleware.RoleGuard(model.PrincipalStoreAdmin),
		middleware.ActiveAdminGuard(d.Admins),
	)
	d.AdminOrder.RegisterRoutes(admin)
	d.Menu.RegisterAdminRoutes(admin)
	d.Table.RegisterRoutes(admin)
	d.SSE.RegisterRoutes(admin)

	//スーパー管理者
	superAdmin := api.Group("/superadmin",
		middleware.AuthJWT(cfg),
		middleware.RoleGuard(model.PrincipalSuperAdmin),
		middleware.ActiveAdminGuard(d.Admins),
	)
	d.SuperAdmin.RegisterRoutes(superAdmin)
	d.AuditLog.RegisterRoutes(superAdmin)
}
