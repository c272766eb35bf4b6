package usecase

import (
	"context"
	"errors"
	"time"

	"tableorder/internal/domain/model"
	repo "tableorder/internal/repository"
)

type TableSessionUsecase struct {
	tx    repo.TransactionManager
	clock Clock
}

func NewTableSessionUsecase(tx repo.TransactionManager, clock Clock) *TableSessionUsecase {
	return &TableSessionUsecase{tx: tx, clock: clock}
}

type CompleteSessionOutput struct {
	Session             model.TableSession `json:"session"`
	ArchivedOrdersCount int                `json:"archived_orders_count"`
}

type OrderHistoryItemOutput struct {
	MenuID    *int64      `json:"menu_id"`
	MenuName  string      `json:"menu_name"`
	Quantity  int64       `json:"quantity"`
	UnitPrice model.Money `json:"unit_price"`
	Subtotal  model.Money `json:"subtotal"`
}

type OrderHistoryOutput struct {
	ID              int64                    `json:"id"`
	TableSessionID  int64                    `json:"table_session_id"`
	OriginalOrderID int64                    `json:"original_order_id"`
	Status          model.OrderStatus        `json:"status"`
	TotalPrice      model.Money              `json:"total_price"`
	OrderCreatedAt  time.Time                `json:"order_created_at"`
	ArchivedAt      time.Time                `json:"archived_at"`
	Items           []OrderHistoryItemOutput `json:"items"`
}

type OrderHistoryQuery struct {
	From *time.Time
	To   *time.Time
}

// セッション完了。
// activeセッションの注文を全て履歴へ移し、元の注文を消してからセッションを閉じる。
// どこかで失敗したら全部ロールバック（TRANSACTION_FAILED）。
func (u *TableSessionUsecase) CompleteSession(ctx context.Context, actor Actor, tableID int64) (CompleteSessionOutput, error) {
	var out CompleteSessionOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		if _, err := findTableInStore(ctx, r, tableID, actor.StoreID); err != nil {
			return err
		}

		session, err := r.Sessions().FindActiveByTableIDForUpdate(ctx, tableID)
		if errors.Is(err, repo.ErrNotFound) {
			return ErrSessionNotFound
		}
		if err != nil {
			return err
		}

		archivedAt := u.clock.Now()

		//ステータス更新・削除と直列にするため注文行もロック
		orders, err := r.Orders().ListBySessionIDForUpdate(ctx, session.ID)
		if err != nil {
			return err
		}
		ids := make([]int64, 0, len(orders))
		for _, o := range orders {
			ids = append(ids, o.ID)
		}
		itemsByOrder, err := r.OrderItems().ListByOrderIDs(ctx, ids)
		if err != nil {
			return err
		}

		for _, o := range orders {
			h := model.OrderHistory{
				TableSessionID:  session.ID,
				OriginalOrderID: o.ID,
				Status:          o.Status,
				TotalPrice:      o.TotalPrice,
				OrderCreatedAt:  o.CreatedAt,
				ArchivedAt:      archivedAt,
			}
			hItems := make([]model.OrderHistoryItem, 0, len(itemsByOrder[o.ID]))
			for _, it := range itemsByOrder[o.ID] {
				menuID := it.MenuID
				hItems = append(hItems, model.OrderHistoryItem{
					MenuID:    &menuID,
					MenuName:  it.MenuName,
					Quantity:  it.Quantity,
					UnitPrice: it.UnitPrice,
					Subtotal:  it.Subtotal,
				})
			}
			if _, err := r.Histories().Create(ctx, h, hItems); err != nil {
				return err
			}

			if err := r.OrderItems().DeleteByOrderID(ctx, o.ID); err != nil {
				return err
			}
			if err := r.Orders().Delete(ctx, o.ID); err != nil {
				return err
			}
		}

		before := session
		session.End(archivedAt)
		if err := r.Sessions().End(ctx, session); err != nil {
			return err
		}

		//監査ログ（COMPLETE_SESSION）
		if err := r.AuditLogs().Create(ctx, model.AuditLog{
			ActorAdminID: actor.AdminID,
			Action:       model.AuditActionCompleteSession,
			ResourceType: model.AuditResourceTableSession,
			ResourceID:   session.ID,
			BeforeJSON:   toJSON(before),
			AfterJSON:    toJSON(map[string]any{"session": session, "archived_orders_count": len(orders)}),
			CreatedAt:    archivedAt,
		}); err != nil {
			return err
		}

		out = CompleteSessionOutput{Session: session, ArchivedOrdersCount: len(orders)}
		return nil
	})
	if err != nil {
		//業務エラー（404など）はそのまま返す
		if errors.Is(err, ErrTableNotFound) || errors.Is(err, ErrSessionNotFound) {
			return CompleteSessionOutput{}, err
		}
		return CompleteSessionOutput{}, ErrTransactionFailed
	}
	return out, nil
}

// 終了済みセッションの履歴（archived_atの新しい順・明細付き）
func (u *TableSessionUsecase) OrderHistory(ctx context.Context, storeID string, tableID int64, q OrderHistoryQuery) ([]OrderHistoryOutput, error) {
	if q.From != nil && q.To != nil && q.From.After(*q.To) {
		return []OrderHistoryOutput{}, ErrInvalidInput
	}

	var outs []OrderHistoryOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		if _, err := findTableInStore(ctx, r, tableID, storeID); err != nil {
			return err
		}

		histories, err := r.Histories().ListByTable(ctx, repo.OrderHistoryFilter{
			TableID: tableID,
			From:    q.From,
			To:      q.To,
		})
		if err != nil {
			return err
		}

		ids := make([]int64, 0, len(histories))
		for _, h := range histories {
			ids = append(ids, h.ID)
		}
		items, err := r.Histories().ListItemsByHistoryIDs(ctx, ids)
		if err != nil {
			return err
		}
		byHistory := make(map[int64][]OrderHistoryItemOutput, len(histories))
		for _, it := range items {
			byHistory[it.OrderHistoryID] = append(byHistory[it.OrderHistoryID], OrderHistoryItemOutput{
				MenuID:    it.MenuID,
				MenuName:  it.MenuName,
				Quantity:  it.Quantity,
				UnitPrice: it.UnitPrice,
				Subtotal:  it.Subtotal,
			})
		}

		outs = make([]OrderHistoryOutput, 0, len(histories))
		for _, h := range histories {
			hItems := byHistory[h.ID]
			if hItems == nil {
				hItems = []OrderHistoryItemOutput{}
			}
			outs = append(outs, OrderHistoryOutput{
				ID:              h.ID,
				TableSessionID:  h.TableSessionID,
				OriginalOrderID: h.OriginalOrderID,
				Status:          h.Status,
				TotalPrice:      h.TotalPrice,
				OrderCreatedAt:  h.OrderCreatedAt,
				ArchivedAt:      h.ArchivedAt,
				Items:           hItems,
			})
		}
		return nil
	})
	if err != nil {
		return []OrderHistoryOutput{}, wrapTxErr(err, ErrInternal)
	}
	return outs, nil
}
