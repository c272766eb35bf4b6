package repository

import (
	"context"
	"time"

	"tableorder/internal/domain/model"
)

// 履歴の絞り込み条件（archived_atの範囲）
type OrderHistoryFilter struct {
	TableID int64
	From    *time.Time
	To      *time.Time
}

type OrderHistoryRepository interface {
	//履歴と明細をまとめて保存。IDを埋めて返す。
	Create(ctx context.Context, h model.OrderHistory, items []model.OrderHistoryItem) (model.OrderHistory, error)
	//終了済みセッションの履歴を新しい順に返す
	ListByTable(ctx context.Context, f OrderHistoryFilter) ([]model.OrderHistory, error)
	ListItemsByHistoryIDs(ctx context.Context, historyIDs []int64) ([]model.OrderHistoryItem, error)
}
