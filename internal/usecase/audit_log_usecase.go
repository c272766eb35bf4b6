package usecase

import (
	"context"
	"time"

	"tableorder/internal/domain/model"
	repo "tableorder/internal/repository"
)

const (
	defaultAuditLogLimit = 50
	maxAuditLogLimit     = 200
)

// スーパー管理者向けの監査ログ参照
type AuditLogUsecase struct {
	logs repo.AuditLogRepository
}

func NewAuditLogUsecase(logs repo.AuditLogRepository) *AuditLogUsecase {
	return &AuditLogUsecase{logs: logs}
}

type AuditLogQuery struct {
	ActorAdminID *int64
	Action       *model.AuditAction
	ResourceType *model.AuditResourceType
	ResourceID   *int64
	From         *time.Time
	To           *time.Time
	Limit        int
	Offset       int
}

// 新しい順。limitは既定50、上限200に丸める。
func (u *AuditLogUsecase) List(ctx context.Context, q AuditLogQuery) ([]model.AuditLog, error) {
	if q.Action != nil && !q.Action.IsValid() {
		return []model.AuditLog{}, ErrInvalidInput
	}
	if q.ResourceType != nil && !q.ResourceType.IsValid() {
		return []model.AuditLog{}, ErrInvalidInput
	}
	if q.From != nil && q.To != nil && q.From.After(*q.To) {
		return []model.AuditLog{}, ErrInvalidInput
	}
	if q.Limit < 0 || q.Offset < 0 {
		return []model.AuditLog{}, ErrInvalidInput
	}

	limit := q.Limit
	switch {
	case limit == 0:
		limit = defaultAuditLogLimit
	case limit > maxAuditLogLimit:
		limit = maxAuditLogLimit
	}

	logs, err := u.logs.List(ctx, repo.AuditLogFilter{
		ActorAdminID: q.ActorAdminID,
		Action:       q.Action,
		ResourceType: q.ResourceType,
		ResourceID:   q.ResourceID,
		From:         q.From,
		To:           q.To,
		Limit:        limit,
		Offset:       q.Offset,
	})
	if err != nil {
		return []model.AuditLog{}, ErrInternal
	}
	if logs == nil {
		logs = []model.AuditLog{}
	}
	return logs, nil
}
