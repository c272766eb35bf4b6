package usecase

import (
	"context"
	"encoding/json"
	"time"
)

// 現在の時間
type Clock interface {
	Now() time.Time
}

// commit後のイベント発行。失敗はpublisher側でログに出し、呼び出し元には返さない。
type EventPublisher interface {
	Publish(ctx context.Context, eventType string, payload any)
}

// 操作した管理者（JWTから取り出した値）
type Actor struct {
	AdminID int64
	StoreID string
}

// 監査ログのbefore/after用
func toJSON(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return "{}"
	}
	return string(b)
}

// 平文パスワードをハッシュにする約束（bcrypt）
type PasswordHasher interface {
	Hash(plain string) (string, error)
}
