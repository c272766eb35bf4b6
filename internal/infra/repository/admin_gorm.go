package repository

import (
	"context"

	"tableorder/internal/domain/model"
	domainrepo "tableorder/internal/repository"

	"gorm.io/gorm"
)

type adminGormRepository struct {
	db *gorm.DB
}

// DI
// main.goでこれをnewしてusecaseに注入します。
func NewAdminGormRepository(db *gorm.DB) domainrepo.AdminRepository {
	return &adminGormRepository{db: db}
}

// username重複はErrDuplicate
func (r *adminGormRepository) Create(ctx context.Context, a model.Admin) (model.Admin, error) {
	if err := r.db.WithContext(ctx).Create(&a).Error; err != nil {
		return model.Admin{}, translateErr(err)
	}
	return a, nil
}

// IDで管理者を1件取得
func (r *adminGormRepository) FindByID(ctx context.Context, id int64) (model.Admin, error) {
	var a model.Admin
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&a).Error; err != nil {
		return model.Admin{}, translateErr(err)
	}
	return a, nil
}

// usernameで管理者を1件取得
func (r *adminGormRepository) FindByUsername(ctx context.Context, username string) (model.Admin, error) {
	var a model.Admin
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&a).Error; err != nil {
		return model.Admin{}, translateErr(err)
	}
	return a, nil
}

func (r *adminGormRepository) List(ctx context.Context) ([]model.Admin, error) {
	var admins []model.Admin
	if err := r.db.WithContext(ctx).Order("created_at desc").Order("id desc").Find(&admins).Error; err != nil {
		return []model.Admin{}, err
	}
	return admins, nil
}

func (r *adminGormRepository) SetActive(ctx context.Context, id int64, active bool) error {
	res := r.db.WithContext(ctx).
		Model(&model.Admin{}).
		Where("id = ?", id).
		Update("is_active", active)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domainrepo.ErrNotFound
	}
	return nil
}

type storeGormRepository struct {
	db *gorm.DB
}

func NewStoreGormRepository(db *gorm.DB) domainrepo.StoreRepository {
	return &storeGormRepository{db: db}
}

func (r *storeGormRepository) Exists(ctx context.Context, storeID string) (bool, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&model.Store{}).Where("id = ?", storeID).Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}
