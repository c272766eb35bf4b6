package repository

import (
	"context"
	"time"

	"tableorder/internal/domain/model"
)

// nilの条件は絞り込みに使わない。Limitが0なら件数制限なし。
type AuditLogFilter struct {
	ActorAdminID *int64
	Action       *model.AuditAction
	ResourceType *model.AuditResourceType
	ResourceID   *int64
	From         *time.Time
	To           *time.Time
	Limit        int
	Offset       int
}

type AuditLogRepository interface {
	Create(ctx context.Context, log model.AuditLog) error
	//created_atの新しい順
	List(ctx context.Context, f AuditLogFilter) ([]model.AuditLog, error)
}
