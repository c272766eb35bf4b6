package repository

import (
	"context"

	"tableorder/internal/domain/model"
	repo "tableorder/internal/repository"

	"gorm.io/gorm"
)

type OrderHistoryGormRepository struct {
	db *gorm.DB
}

func NewOrderHistoryGormRepository(db *gorm.DB) *OrderHistoryGormRepository {
	return &OrderHistoryGormRepository{db: db}
}

var _ repo.OrderHistoryRepository = (*OrderHistoryGormRepository)(nil)

func (r *OrderHistoryGormRepository) Create(ctx context.Context, h model.OrderHistory, items []model.OrderHistoryItem) (model.OrderHistory, error) {
	db := r.db.WithContext(ctx)
	if err := db.Create(&h).Error; err != nil {
		return model.OrderHistory{}, err
	}
	if len(items) == 0 {
		return h, nil
	}
	for i := range items {
		items[i].OrderHistoryID = h.ID
	}
	if err := db.Create(&items).Error; err != nil {
		return model.OrderHistory{}, err
	}
	return h, nil
}

func (r *OrderHistoryGormRepository) ListByTable(ctx context.Context, f repo.OrderHistoryFilter) ([]model.OrderHistory, error) {
	q := r.db.WithContext(ctx).Model(&model.OrderHistory{}).
		Joins("JOIN table_sessions ON table_sessions.id = order_histories.table_session_id").
		Where("table_sessions.table_id = ? AND table_sessions.is_active = ?", f.TableID, false)

	//期間絞り込み
	if f.From != nil {
		q = q.Where("order_histories.archived_at >= ?", *f.From)
	}
	if f.To != nil {
		q = q.Where("order_histories.archived_at <= ?", *f.To)
	}

	var items []model.OrderHistory
	err := q.Order("order_histories.archived_at desc").
		Order("order_histories.id desc").
		Find(&items).Error
	if err != nil {
		return []model.OrderHistory{}, err
	}
	return items, nil
}

func (r *OrderHistoryGormRepository) ListItemsByHistoryIDs(ctx context.Context, historyIDs []int64) ([]model.OrderHistoryItem, error) {
	if len(historyIDs) == 0 {
		return []model.OrderHistoryItem{}, nil
	}
	var items []model.OrderHistoryItem
	err := r.db.WithContext(ctx).
		Where("order_history_id IN ?", historyIDs).
		Order("id asc").
		Find(&items).Error
	if err != nil {
		return []model.OrderHistoryItem{}, err
	}
	return items, nil
}
