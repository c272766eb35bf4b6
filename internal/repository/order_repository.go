package repository

import (
	"context"
	"time"

	"tableorder/internal/domain/model"
)

type OrderRepository interface {
	FindByIDForUpdate(ctx context.Context, orderID int64) (model.Order, error)
	//新しい順
	ListBySessionID(ctx context.Context, sessionID int64) ([]model.Order, error)
	//セッションの注文を全て行ロックして返す（アーカイブ中のステータス変更を待たせる）
	ListBySessionIDForUpdate(ctx context.Context, sessionID int64) ([]model.Order, error)
	Create(ctx context.Context, order model.Order) (model.Order, error)
	UpdateStatus(ctx context.Context, orderID int64, status model.OrderStatus, updatedAt time.Time) error
	//注文行だけ削除（明細はOrderItemRepositoryで先に消す）
	Delete(ctx context.Context, orderID int64) error
}
