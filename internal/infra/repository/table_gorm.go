package repository

import (
	"context"

	"tableorder/internal/domain/model"
	repo "tableorder/internal/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type TableGormRepository struct {
	db *gorm.DB
}

func NewTableGormRepository(db *gorm.DB) *TableGormRepository {
	return &TableGormRepository{db: db}
}

var _ repo.TableRepository = (*TableGormRepository)(nil)

func (r *TableGormRepository) FindByID(ctx context.Context, id int64) (model.Table, error) {
	var t model.Table
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&t).Error; err != nil {
		return model.Table{}, translateErr(err)
	}
	return t, nil
}

func (r *TableGormRepository) FindByStoreAndNumber(ctx context.Context, storeID string, tableNumber string) (model.Table, error) {
	var t model.Table
	err := r.db.WithContext(ctx).
		Where("store_id = ? AND table_number = ?", storeID, tableNumber).
		First(&t).Error
	if err != nil {
		return model.Table{}, translateErr(err)
	}
	return t, nil
}

func (r *TableGormRepository) FindByIDForUpdate(ctx context.Context, id int64) (model.Table, error) {
	var t model.Table
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&t).Error
	if err != nil {
		return model.Table{}, translateErr(err)
	}
	return t, nil
}
