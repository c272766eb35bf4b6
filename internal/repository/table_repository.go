package repository

import (
	"context"

	"tableorder/internal/domain/model"
)

type TableRepository interface {
	FindByID(ctx context.Context, id int64) (model.Table, error)
	FindByStoreAndNumber(ctx context.Context, storeID string, tableNumber string) (model.Table, error)
	//行ロック付き（セッション取得の直列化に使う）
	FindByIDForUpdate(ctx context.Context, id int64) (model.Table, error)
}
