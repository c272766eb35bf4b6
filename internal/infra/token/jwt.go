package token

import (
	"errors"
	"strconv"
	"time"

	"tableorder/internal/domain/model"

	"github.com/golang-jwt/jwt/v4"
)

// HS256でアクセストークンを発行する
type JWTIssuer struct {
	secret []byte
	ttl    time.Duration
}

func NewJWTIssuer(secret string, ttl time.Duration) *JWTIssuer {
	return &JWTIssuer{
		secret: []byte(secret),
		ttl:    ttl,
	}
}

func (i *JWTIssuer) Issue(p model.Principal, now time.Time) (string, time.Time, error) {
	if p.Role == "" {
		return "", time.Time{}, errors.New("token: role is required")
	}
	expiresAt := now.Add(i.ttl)

	claims := jwt.MapClaims{
		"role": string(p.Role),
		"iat":  now.Unix(),
		"exp":  expiresAt.Unix(),
	}
	switch p.Role {
	case model.PrincipalTable:
		claims["sub"] = strconv.FormatInt(p.TableID, 10)
		claims["table_id"] = p.TableID
		claims["session_id"] = p.SessionID
		claims["store_id"] = p.StoreID
	case model.PrincipalStoreAdmin:
		claims["sub"] = strconv.FormatInt(p.AdminID, 10)
		claims["store_id"] = p.StoreID
	case model.PrincipalSuperAdmin:
		claims["sub"] = strconv.FormatInt(p.AdminID, 10)
	default:
		return "", time.Time{}, errors.New("token: unknown role")
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString(i.secret)
	if err != nil {
		return "", time.Time{}, err
	}

	return signed, expiresAt, nil
}
