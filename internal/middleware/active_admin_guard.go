package middleware

import (
	"context"
	"net/http"

	"tableorder/internal/domain/model"

	"github.com/labstack/echo/v4"
)

type AdminFinder interface {
	FindByID(ctx context.Context, id int64) (model.Admin, error)
}

// トークン発行後に無効化された管理者を毎リクエストで弾く。
func ActiveAdminGuard(admins AdminFinder) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			//AuthJWTが入れたadmin_idを取得する
			adminID, ok := c.Get(CtxAdminIDKey).(int64)
			if !ok || adminID <= 0 {
				return c.JSON(http.StatusUnauthorized, errorJSON("UNAUTHORIZED"))
			}

			//DBから最新のadminを取得する
			a, err := admins.FindByID(c.Request().Context(), adminID)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, errorJSON("UNAUTHORIZED"))
			}

			if !a.IsActive {
				return c.JSON(http.StatusForbidden, errorJSON("ADMIN_INACTIVE"))
			}

			//店舗が変わっていたら古いトークン扱い
			if storeID, _ := c.Get(CtxStoreIDKey).(string); storeID != "" {
				if a.StoreID == nil || *a.StoreID != storeID {
					return c.JSON(http.StatusUnauthorized, errorJSON("UNAUTHORIZED"))
				}
			}

			return next(c)
		}
	}
}
