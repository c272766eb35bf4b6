package middleware

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"tableorder/internal/config"
	"tableorder/internal/domain/model"

	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
)

const (
	CtxRoleKey      = "role"       // model.PrincipalRole
	CtxAdminIDKey   = "admin_id"   // int64
	CtxTableIDKey   = "table_id"   // int64
	CtxSessionIDKey = "session_id" // int64
	CtxStoreIDKey   = "store_id"   // string
)

// bearerAuth用のJWT検証ミドルウェア。
func AuthJWT(cfg config.Config) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			//Authorizationヘッダを取得
			rawToken, ok := bearerToken(c)
			if !ok {
				return c.JSON(http.StatusUnauthorized, errorJSON("UNAUTHORIZED"))
			}

			//JWTをパースして検証する
			token, err := jwt.Parse(rawToken, func(t *jwt.Token) (interface{}, error) {
				if t.Method != jwt.SigningMethodHS256 {
					return nil, errors.New("unexpected signing method")
				}
				return []byte(cfg.JWTSecret), nil
			})
			if err != nil || token == nil || !token.Valid {
				return c.JSON(http.StatusUnauthorized, errorJSON("UNAUTHORIZED"))
			}

			//claimsを取り出す
			claims, ok := token.Claims.(jwt.MapClaims)
			if !ok {
				return c.JSON(http.StatusUnauthorized, errorJSON("UNAUTHORIZED"))
			}

			p, err := principalFromClaims(claims)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, errorJSON("UNAUTHORIZED"))
			}

			//contextへ保存
			c.Set(CtxRoleKey, p.Role)
			c.Set(CtxAdminIDKey, p.AdminID)
			c.Set(CtxTableIDKey, p.TableID)
			c.Set(CtxSessionIDKey, p.SessionID)
			c.Set(CtxStoreIDKey, p.StoreID)

			return next(c)
		}
	}
}

// Authorization: Bearer xxx、なければ ?token=（EventSourceはヘッダを付けられない）
func bearerToken(c echo.Context) (string, bool) {
	authz := c.Request().Header.Get("Authorization")
	if authz == "" {
		if q := strings.TrimSpace(c.QueryParam("token")); q != "" {
			return q, true
		}
		return "", false
	}

	//Bearer形式か確認してtokenを抜く
	parts := strings.SplitN(authz, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	rawToken := strings.TrimSpace(parts[1])
	if rawToken == "" {
		return "", false
	}
	return rawToken, true
}

// roleごとに必要なclaimsが揃っているか確認する
func principalFromClaims(claims jwt.MapClaims) (model.Principal, error) {
	role, err := parseString(claims["role"])
	if err != nil || role == "" {
		return model.Principal{}, errors.New("invalid role")
	}

	p := model.Principal{Role: model.PrincipalRole(role)}
	switch p.Role {
	case model.PrincipalTable:
		if p.TableID, err = parseInt64(claims["table_id"]); err != nil || p.TableID <= 0 {
			return model.Principal{}, errors.New("invalid table_id")
		}
		if p.SessionID, err = parseInt64(claims["session_id"]); err != nil || p.SessionID <= 0 {
			return model.Principal{}, errors.New("invalid session_id")
		}
		if p.StoreID, err = parseString(claims["store_id"]); err != nil || p.StoreID == "" {
			return model.Principal{}, errors.New("invalid store_id")
		}
	case model.PrincipalStoreAdmin:
		if p.AdminID, err = parseInt64(claims["sub"]); err != nil || p.AdminID <= 0 {
			return model.Principal{}, errors.New("invalid sub")
		}
		if p.StoreID, err = parseString(claims["store_id"]); err != nil || p.StoreID == "" {
			return model.Principal{}, errors.New("invalid store_id")
		}
	case model.PrincipalSuperAdmin:
		if p.AdminID, err = parseInt64(claims["sub"]); err != nil || p.AdminID <= 0 {
			return model.Principal{}, errors.New("invalid sub")
		}
	default:
		return model.Principal{}, errors.New("unknown role")
	}
	return p, nil
}

type errorResponse struct {
	Error string `json:"error"`
}

func errorJSON(msg string) errorResponse {
	return errorResponse{Error: msg}
}

// 数値claimをint64に変換する（JSONではfloat64、subは文字列）
func parseInt64(v interface{}) (int64, error) {
	switch t := v.(type) {
	case float64:
		return int64(t), nil
	case string:
		return strconv.ParseInt(t, 10, 64)
	default:
		return 0, errors.New("invalid int")
	}
}

func parseString(v interface{}) (string, error) {
	s, ok := v.(string)
	if !ok {
		return "", errors.New("invalid string")
	}
	return s, nil
}
