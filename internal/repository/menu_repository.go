package repository

import (
	"context"

	"tableorder/internal/domain/model"
)

type MenuListQuery struct {
	StoreID    string
	CategoryID *int64
}

// メニューの取得と部分更新
type MenuRepository interface {
	//店舗に属するメニューだけを返す（他店舗のIDはErrNotFound）
	FindInStore(ctx context.Context, menuID int64, storeID string) (model.Menu, error)
	ListByStore(ctx context.Context, q MenuListQuery) ([]model.Menu, error)
	Update(ctx context.Context, m model.Menu) error
}
