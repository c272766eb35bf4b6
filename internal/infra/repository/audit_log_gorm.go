package repository

import (
	"context"

	"tableorder/internal/domain/model"
	repo "tableorder/internal/repository"

	"gorm.io/gorm"
)

type auditLogGormRepository struct {
	db *gorm.DB
}

func NewAuditLogGormRepository(db *gorm.DB) repo.AuditLogRepository {
	return &auditLogGormRepository{db: db}
}

// 監査ログは追記のみ
func (r *auditLogGormRepository) Create(ctx context.Context, entry model.AuditLog) error {
	return r.db.WithContext(ctx).Create(&entry).Error
}

func (r *auditLogGormRepository) List(ctx context.Context, f repo.AuditLogFilter) ([]model.AuditLog, error) {
	q := r.db.WithContext(ctx).Model(&model.AuditLog{})
	q = whereIf(q, "actor_admin_id = ?", f.ActorAdminID)
	q = whereIf(q, "action = ?", f.Action)
	q = whereIf(q, "resource_type = ?", f.ResourceType)
	q = whereIf(q, "resource_id = ?", f.ResourceID)
	q = whereIf(q, "created_at >= ?", f.From)
	q = whereIf(q, "created_at <= ?", f.To)

	if f.Limit > 0 {
		q = q.Limit(f.Limit)
	}
	if f.Offset > 0 {
		q = q.Offset(f.Offset)
	}

	logs := []model.AuditLog{}
	if err := q.Order("created_at desc").Order("id desc").Find(&logs).Error; err != nil {
		return []model.AuditLog{}, err
	}
	return logs, nil
}

// 値があるときだけ条件を足す
func whereIf[T any](q *gorm.DB, cond string, v *T) *gorm.DB {
	if v == nil {
		return q
	}
	return q.Where(cond, *v)
}
