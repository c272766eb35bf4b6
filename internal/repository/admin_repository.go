package repository

import (
	"context"

	"tableorder/internal/domain/model"
)

type AdminRepository interface {
	//username重複はErrDuplicate
	Create(ctx context.Context, a model.Admin) (model.Admin, error)
	FindByID(ctx context.Context, id int64) (model.Admin, error)
	FindByUsername(ctx context.Context, username string) (model.Admin, error)
	//作成日時の新しい順
	List(ctx context.Context) ([]model.Admin, error)
	SetActive(ctx context.Context, id int64, active bool) error
}

type StoreRepository interface {
	Exists(ctx context.Context, storeID string) (bool, error)
}
