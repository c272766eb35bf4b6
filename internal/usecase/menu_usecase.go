package usecase

import (
	"context"
	"errors"

	"tableorder/internal/domain/model"
	repo "tableorder/internal/repository"
)

type MenuUsecase struct {
	tx    repo.TransactionManager
	menus repo.MenuRepository
	clock Clock
}

// DI
func NewMenuUsecase(tx repo.TransactionManager, menus repo.MenuRepository, clock Clock) *MenuUsecase {
	return &MenuUsecase{tx: tx, menus: menus, clock: clock}
}

// 店舗のメニュー一覧（カテゴリ指定は任意）
func (u *MenuUsecase) List(ctx context.Context, storeID string, categoryID *int64) ([]model.Menu, error) {
	menus, err := u.menus.ListByStore(ctx, repo.MenuListQuery{StoreID: storeID, CategoryID: categoryID})
	if err != nil {
		return []model.Menu{}, ErrInternal
	}
	return menus, nil
}

func (u *MenuUsecase) Get(ctx context.Context, storeID string, menuID int64) (model.Menu, error) {
	m, err := u.menus.FindInStore(ctx, menuID, storeID)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Menu{}, ErrMenuNotFound
	}
	if err != nil {
		return model.Menu{}, ErrInternal
	}
	return m, nil
}

// メニューの部分更新。
// 価格を変えても既存の注文明細はスナップショットなので影響しない。
func (u *MenuUsecase) Patch(ctx context.Context, actor Actor, menuID int64, patch model.MenuPatch) (model.Menu, error) {
	if patch.IsEmpty() {
		return model.Menu{}, ErrInvalidMenuPatch
	}

	var out model.Menu

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		m, err := r.Menus().FindInStore(ctx, menuID, actor.StoreID)
		if errors.Is(err, repo.ErrNotFound) {
			return ErrMenuNotFound
		}
		if err != nil {
			return err
		}

		before := m
		if err := patch.ApplyTo(&m); err != nil {
			return ErrInvalidMenuPatch
		}
		if err := r.Menus().Update(ctx, m); err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return ErrMenuNotFound
			}
			return err
		}

		//監査ログ（UPDATE_MENU）
		if err := r.AuditLogs().Create(ctx, model.AuditLog{
			ActorAdminID: actor.AdminID,
			Action:       model.AuditActionUpdateMenu,
			ResourceType: model.AuditResourceMenu,
			ResourceID:   menuID,
			BeforeJSON:   toJSON(before),
			AfterJSON:    toJSON(m),
			CreatedAt:    u.clock.Now(),
		}); err != nil {
			return err
		}

		out = m
		return nil
	})
	if err != nil {
		return model.Menu{}, wrapTxErr(err, ErrInternal)
	}
	return out, nil
}
