package usecase

import (
	"errors"
	"fmt"
	"net/http"
)

// handlerでHTTPステータスと {"error": Message} に変換する
type HTTPError struct {
	Status  int
	Message string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("%d: %s", e.Status, e.Message)
}

func NewHTTPError(status int, message string) error {
	return &HTTPError{
		Status:  status,
		Message: message,
	}
}

func AsHTTPError(err error) (*HTTPError, bool) {
	var he *HTTPError
	ok := errors.As(err, &he)
	return he, ok
}

// errors.Isで比較できるよう同じ値を返す
var (
	//400
	ErrEmptyOrder       = NewHTTPError(http.StatusBadRequest, "EMPTY_ORDER")
	ErrInvalidQuantity  = NewHTTPError(http.StatusBadRequest, "INVALID_QUANTITY")
	ErrInvalidMenuPatch = NewHTTPError(http.StatusBadRequest, "INVALID_MENU_PATCH")
	ErrStoreIDRequired  = NewHTTPError(http.StatusBadRequest, "STORE_ID_REQUIRED")
	ErrInvalidInput     = NewHTTPError(http.StatusBadRequest, "INVALID_INPUT")

	//401/403
	ErrInvalidCredentials = NewHTTPError(http.StatusUnauthorized, "INVALID_CREDENTIALS")
	ErrForbidden          = NewHTTPError(http.StatusForbidden, "FORBIDDEN")
	ErrAdminInactive      = NewHTTPError(http.StatusForbidden, "ADMIN_INACTIVE")

	//404
	ErrSessionNotFound = NewHTTPError(http.StatusNotFound, "SESSION_NOT_FOUND")
	ErrOrderNotFound   = NewHTTPError(http.StatusNotFound, "ORDER_NOT_FOUND")
	ErrTableNotFound   = NewHTTPError(http.StatusNotFound, "TABLE_NOT_FOUND")
	ErrMenuNotFound    = NewHTTPError(http.StatusNotFound, "MENU_NOT_FOUND")
	ErrAdminNotFound   = NewHTTPError(http.StatusNotFound, "ADMIN_NOT_FOUND")
	ErrStoreNotFound   = NewHTTPError(http.StatusNotFound, "STORE_NOT_FOUND")

	//409
	ErrInvalidStatusTransition = NewHTTPError(http.StatusConflict, "INVALID_STATUS_TRANSITION")
	ErrOrderCannotDelete       = NewHTTPError(http.StatusConflict, "ORDER_CANNOT_DELETE")
	ErrMenuUnavailable         = NewHTTPError(http.StatusConflict, "MENU_NOT_AVAILABLE")
	ErrUsernameTaken           = NewHTTPError(http.StatusConflict, "USERNAME_ALREADY_EXISTS")

	//500
	ErrTransactionFailed = NewHTTPError(http.StatusInternalServerError, "TRANSACTION_FAILED")
	ErrInternal          = NewHTTPError(http.StatusInternalServerError, "INTERNAL_ERROR")
)

// tx内で返したHTTPErrorはそのまま、それ以外はfallbackに寄せる
func wrapTxErr(err error, fallback error) error {
	if err == nil {
		return nil
	}
	if _, ok := AsHTTPError(err); ok {
		return err
	}
	return fallback
}
