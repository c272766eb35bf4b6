package repository

import (
	"context"

	"tableorder/internal/domain/model"
	repo "tableorder/internal/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type TableSessionGormRepository struct {
	db *gorm.DB
}

func NewTableSessionGormRepository(db *gorm.DB) *TableSessionGormRepository {
	return &TableSessionGormRepository{db: db}
}

var _ repo.TableSessionRepository = (*TableSessionGormRepository)(nil)

func (r *TableSessionGormRepository) FindActiveByIDForUpdate(ctx context.Context, sessionID int64) (model.TableSession, error) {
	var s model.TableSession
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ? AND is_active = ?", sessionID, true).
		First(&s).Error
	if err != nil {
		return model.TableSession{}, translateErr(err)
	}
	return s, nil
}

func (r *TableSessionGormRepository) FindActiveByTableIDForUpdate(ctx context.Context, tableID int64) (model.TableSession, error) {
	var s model.TableSession
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("table_id = ? AND is_active = ?", tableID, true).
		First(&s).Error
	if err != nil {
		return model.TableSession{}, translateErr(err)
	}
	return s, nil
}

func (r *TableSessionGormRepository) FindActiveByTableID(ctx context.Context, tableID int64) (model.TableSession, error) {
	var s model.TableSession
	err := r.db.WithContext(ctx).
		Where("table_id = ? AND is_active = ?", tableID, true).
		First(&s).Error
	if err != nil {
		return model.TableSession{}, translateErr(err)
	}
	return s, nil
}

func (r *TableSessionGormRepository) FindByID(ctx context.Context, sessionID int64) (model.TableSession, error) {
	var s model.TableSession
	if err := r.db.WithContext(ctx).Where("id = ?", sessionID).First(&s).Error; err != nil {
		return model.TableSession{}, translateErr(err)
	}
	return s, nil
}

func (r *TableSessionGormRepository) Create(ctx context.Context, s model.TableSession) (model.TableSession, error) {
	if err := r.db.WithContext(ctx).Create(&s).Error; err != nil {
		return model.TableSession{}, translateErr(err)
	}
	return s, nil
}

// activeなものだけ閉じる。既に閉じていればErrNotFound
func (r *TableSessionGormRepository) End(ctx context.Context, s model.TableSession) error {
	res := r.db.WithContext(ctx).Model(&model.TableSession{}).
		Where("id = ? AND is_active = ?", s.ID, true).
		Updates(map[string]interface{}{
			"is_active": false,
			"ended_at":  s.EndedAt,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}
