package repository

import (
	"context"

	"tableorder/internal/domain/model"
)

type TableSessionRepository interface {
	//activeなセッションをIDで取得（FOR UPDATE）
	FindActiveByIDForUpdate(ctx context.Context, sessionID int64) (model.TableSession, error)
	//テーブルのactiveなセッションを取得（FOR UPDATE）
	FindActiveByTableIDForUpdate(ctx context.Context, tableID int64) (model.TableSession, error)
	FindActiveByTableID(ctx context.Context, tableID int64) (model.TableSession, error)
	FindByID(ctx context.Context, sessionID int64) (model.TableSession, error)

	//一意制約違反はErrDuplicate
	Create(ctx context.Context, s model.TableSession) (model.TableSession, error)
	//is_active=false, ended_at=終了時刻
	End(ctx context.Context, s model.TableSession) error
}
