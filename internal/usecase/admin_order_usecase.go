package usecase

import (
	"context"
	"errors"
	"strings"

	"tableorder/internal/domain/event"
	"tableorder/internal/domain/model"
	repo "tableorder/internal/repository"
)

type AdminOrderUsecase struct {
	tx    repo.TransactionManager
	pub   EventPublisher
	clock Clock
}

func NewAdminOrderUsecase(tx repo.TransactionManager, pub EventPublisher, clock Clock) *AdminOrderUsecase {
	return &AdminOrderUsecase{tx: tx, pub: pub, clock: clock}
}

type AdminUpdateOrderStatusInput struct {
	Status string `json:"status"`
}

type OrderStatusOutput struct {
	ID        int64             `json:"id"`
	OldStatus model.OrderStatus `json:"old_status"`
	Status    model.OrderStatus `json:"status"`
}

// テーブルのactiveセッションの注文一覧。セッションがなければ空。
func (u *AdminOrderUsecase) ListTableOrders(ctx context.Context, storeID string, tableID int64) ([]OrderOutput, error) {
	var outs []OrderOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		if _, err := findTableInStore(ctx, r, tableID, storeID); err != nil {
			return err
		}

		session, err := r.Sessions().FindActiveByTableID(ctx, tableID)
		if errors.Is(err, repo.ErrNotFound) {
			outs = []OrderOutput{}
			return nil
		}
		if err != nil {
			return err
		}

		outs, err = listOrdersWithItems(ctx, r, session.ID)
		return err
	})
	if err != nil {
		return []OrderOutput{}, wrapTxErr(err, ErrInternal)
	}
	return outs, nil
}

// ステータス更新。注文を先に確認し、遷移表にないものは409。
func (u *AdminOrderUsecase) UpdateStatus(ctx context.Context, actor Actor, orderID int64, in AdminUpdateOrderStatusInput) (OrderStatusOutput, error) {
	next := model.OrderStatus(strings.TrimSpace(in.Status))

	var (
		prev    model.OrderStatus
		storeID string
	)
	now := u.clock.Now()

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, sid, err := lockOrderInStore(ctx, r, orderID, actor.StoreID)
		if err != nil {
			return err
		}
		storeID = sid

		//未知のステータスも遷移表にないものとして扱う
		if !next.IsValid() || !o.Status.CanTransitionTo(next) {
			return ErrInvalidStatusTransition
		}

		prev = o.Status
		if err := r.Orders().UpdateStatus(ctx, orderID, next, now); err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return ErrOrderNotFound
			}
			return err
		}

		//監査ログ（UPDATE_ORDER_STATUS）
		return r.AuditLogs().Create(ctx, model.AuditLog{
			ActorAdminID: actor.AdminID,
			Action:       model.AuditActionUpdateOrderStatus,
			ResourceType: model.AuditResourceOrder,
			ResourceID:   orderID,
			BeforeJSON:   toJSON(map[string]any{"status": prev}),
			AfterJSON:    toJSON(map[string]any{"status": next}),
			CreatedAt:    now,
		})
	})
	if err != nil {
		return OrderStatusOutput{}, wrapTxErr(err, ErrInternal)
	}

	u.pub.Publish(ctx, event.TypeOrderStatusChanged, event.NewOrderStatusChanged(orderID, storeID, prev, next, now))

	return OrderStatusOutput{ID: orderID, OldStatus: prev, Status: next}, nil
}

// 注文削除（served/cancelledは不可）。履歴には残さない。
func (u *AdminOrderUsecase) DeleteOrder(ctx context.Context, actor Actor, orderID int64) error {
	now := u.clock.Now()

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, _, err := lockOrderInStore(ctx, r, orderID, actor.StoreID)
		if err != nil {
			return err
		}
		if o.Status.IsFinal() {
			return ErrOrderCannotDelete
		}

		items, err := r.OrderItems().ListByOrderID(ctx, orderID)
		if err != nil {
			return err
		}

		if err := r.OrderItems().DeleteByOrderID(ctx, orderID); err != nil {
			return err
		}
		if err := r.Orders().Delete(ctx, orderID); err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return ErrOrderNotFound
			}
			return err
		}

		//監査ログ（DELETE_ORDER）
		return r.AuditLogs().Create(ctx, model.AuditLog{
			ActorAdminID: actor.AdminID,
			Action:       model.AuditActionDeleteOrder,
			ResourceType: model.AuditResourceOrder,
			ResourceID:   orderID,
			BeforeJSON:   toJSON(toOrderOutput(o, items)),
			AfterJSON:    "{}",
			CreatedAt:    now,
		})
	})
	return wrapTxErr(err, ErrInternal)
}

// 注文をロックし、order→session→tableで店舗を確認する。他店舗の注文は存在しない扱い。
func lockOrderInStore(ctx context.Context, r repo.TxRepos, orderID int64, storeID string) (model.Order, string, error) {
	o, err := r.Orders().FindByIDForUpdate(ctx, orderID)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Order{}, "", ErrOrderNotFound
	}
	if err != nil {
		return model.Order{}, "", err
	}

	s, err := r.Sessions().FindByID(ctx, o.TableSessionID)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Order{}, "", ErrOrderNotFound
	}
	if err != nil {
		return model.Order{}, "", err
	}

	t, err := r.Tables().FindByID(ctx, s.TableID)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Order{}, "", ErrOrderNotFound
	}
	if err != nil {
		return model.Order{}, "", err
	}
	if t.StoreID != storeID {
		return model.Order{}, "", ErrOrderNotFound
	}
	return o, t.StoreID, nil
}

func findTableInStore(ctx context.Context, r repo.TxRepos, tableID int64, storeID string) (model.Table, error) {
	t, err := r.Tables().FindByID(ctx, tableID)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Table{}, ErrTableNotFound
	}
	if err != nil {
		return model.Table{}, err
	}
	if t.StoreID != storeID {
		return model.Table{}, ErrTableNotFound
	}
	return t, nil
}
