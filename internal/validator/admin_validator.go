package validator

import (
	"errors"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

var (
	// 入力が不正
	ErrInvalidInput = errors.New("invalid input")

	// 店舗IDの形式が不正
	ErrInvalidStoreID = errors.New("invalid store id")
)

const (
	maxUsernameLen = 100
	minPasswordLen = 8
)

var usernamePattern = regexp.MustCompile(`^[A-Za-z0-9_.\-]+$`)

// 管理者アカウント作成の入力を検証
func ValidateAdminAccount(username string, password string) error {
	username = strings.TrimSpace(username)

	// 必須チェック
	if username == "" || password == "" {
		return ErrInvalidInput
	}

	// username形式
	if len(username) > maxUsernameLen || !usernamePattern.MatchString(username) {
		return ErrInvalidInput
	}

	// パスワード最低文字数
	if len(password) < minPasswordLen {
		return ErrInvalidInput
	}

	return nil
}

// 店舗IDはUUID文字列
func ValidateStoreID(storeID string) error {
	if _, err := uuid.Parse(strings.TrimSpace(storeID)); err != nil {
		return ErrInvalidStoreID
	}
	return nil
}
