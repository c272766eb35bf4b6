package repository

import (
	"context"

	"tableorder/internal/domain/model"
	repo "tableorder/internal/repository"

	"gorm.io/gorm"
)

type MenuGormRepository struct {
	db *gorm.DB
}

// DI
func NewMenuGormRepository(db *gorm.DB) *MenuGormRepository {
	return &MenuGormRepository{db: db}
}

var _ repo.MenuRepository = (*MenuGormRepository)(nil)

// カテゴリ経由で店舗に属するメニューだけを取得
func (r *MenuGormRepository) FindInStore(ctx context.Context, menuID int64, storeID string) (model.Menu, error) {
	var m model.Menu
	err := r.db.WithContext(ctx).
		Joins("JOIN menu_categories ON menu_categories.id = menus.category_id").
		Where("menus.id = ? AND menu_categories.store_id = ?", menuID, storeID).
		First(&m).Error
	if err != nil {
		return model.Menu{}, translateErr(err)
	}
	return m, nil
}

// 店舗のメニュー一覧（カテゴリ順→表示順）
func (r *MenuGormRepository) ListByStore(ctx context.Context, q repo.MenuListQuery) ([]model.Menu, error) {
	tx := r.db.WithContext(ctx).Model(&model.Menu{}).
		Joins("JOIN menu_categories ON menu_categories.id = menus.category_id").
		Where("menu_categories.store_id = ?", q.StoreID)

	if q.CategoryID != nil {
		tx = tx.Where("menus.category_id = ?", *q.CategoryID)
	}

	var menus []model.Menu
	err := tx.Order("menu_categories.display_order asc").
		Order("menus.display_order asc").
		Order("menus.id asc").
		Find(&menus).Error
	if err != nil {
		return []model.Menu{}, err
	}
	return menus, nil
}

// パッチ対象の列だけを更新
func (r *MenuGormRepository) Update(ctx context.Context, m model.Menu) error {
	res := r.db.WithContext(ctx).Model(&model.Menu{}).Where("id = ?", m.ID).Updates(map[string]interface{}{
		"name":          m.Name,
		"description":   m.Description,
		"price":         m.Price,
		"is_available":  m.IsAvailable,
		"display_order": m.DisplayOrder,
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}
