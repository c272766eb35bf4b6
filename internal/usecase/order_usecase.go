package usecase

import (
	"context"
	"errors"
	"time"

	"tableorder/internal/domain/event"
	"tableorder/internal/domain/model"
	repo "tableorder/internal/repository"
)

type OrderUsecase struct {
	tx    repo.TransactionManager
	pub   EventPublisher
	clock Clock
}

func NewOrderUsecase(tx repo.TransactionManager, pub EventPublisher, clock Clock) *OrderUsecase {
	return &OrderUsecase{tx: tx, pub: pub, clock: clock}
}

type OrderLineInput struct {
	MenuID   int64 `json:"menu_id"`
	Quantity int64 `json:"quantity"`
}

type CreateOrderInput struct {
	Items []OrderLineInput `json:"items"`
}

type OrderItemOutput struct {
	ID        int64       `json:"id"`
	MenuID    int64       `json:"menu_id"`
	MenuName  string      `json:"menu_name"`
	Quantity  int64       `json:"quantity"`
	UnitPrice model.Money `json:"unit_price"`
	Subtotal  model.Money `json:"subtotal"`
}

type OrderOutput struct {
	ID             int64             `json:"id"`
	TableSessionID int64             `json:"table_session_id"`
	Status         model.OrderStatus `json:"status"`
	TotalPrice     model.Money       `json:"total_price"`
	CreatedAt      time.Time         `json:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at"`
	Items          []OrderItemOutput `json:"items"`
}

// 注文作成。
// セッション行をロックしてから作るので、同じセッションの完了処理とは直列になる。
func (u *OrderUsecase) CreateOrder(ctx context.Context, sessionID int64, in CreateOrderInput) (OrderOutput, error) {
	if len(in.Items) == 0 {
		return OrderOutput{}, ErrEmptyOrder
	}
	for _, it := range in.Items {
		if it.Quantity < 1 {
			return OrderOutput{}, ErrInvalidQuantity
		}
		if it.MenuID <= 0 {
			return OrderOutput{}, ErrMenuUnavailable
		}
	}

	var (
		out   OrderOutput
		table model.Table
		order model.Order
	)

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		session, err := r.Sessions().FindActiveByIDForUpdate(ctx, sessionID)
		if errors.Is(err, repo.ErrNotFound) {
			return ErrSessionNotFound
		}
		if err != nil {
			return err
		}

		table, err = r.Tables().FindByID(ctx, session.TableID)
		if errors.Is(err, repo.ErrNotFound) {
			return ErrSessionNotFound
		}
		if err != nil {
			return err
		}

		//メニューの名前と単価をスナップショット
		now := u.clock.Now()
		items := make([]model.OrderItem, 0, len(in.Items))
		var total model.Money
		for _, line := range in.Items {
			m, err := r.Menus().FindInStore(ctx, line.MenuID, table.StoreID)
			if errors.Is(err, repo.ErrNotFound) {
				return ErrMenuUnavailable
			}
			if err != nil {
				return err
			}
			if !m.IsAvailable {
				return ErrMenuUnavailable
			}

			//int64を超える数量は受け付けない
			subtotal, err := m.Price.Mul(line.Quantity)
			if err != nil {
				return ErrInvalidQuantity
			}
			if total, err = total.Add(subtotal); err != nil {
				return ErrInvalidQuantity
			}
			items = append(items, model.OrderItem{
				MenuID:    m.ID,
				MenuName:  m.Name,
				Quantity:  line.Quantity,
				UnitPrice: m.Price,
				Subtotal:  subtotal,
				CreatedAt: now,
			})
		}

		order, err = r.Orders().Create(ctx, model.Order{
			TableSessionID: session.ID,
			Status:         model.OrderStatusPending,
			TotalPrice:     total,
			CreatedAt:      now,
			UpdatedAt:      now,
		})
		if err != nil {
			return err
		}

		if err := r.OrderItems().CreateBulk(ctx, order.ID, items); err != nil {
			return err
		}

		out = toOrderOutput(order, items)
		return nil
	})
	if err != nil {
		return OrderOutput{}, wrapTxErr(err, ErrInternal)
	}

	//commit後に発行
	u.pub.Publish(ctx, event.TypeOrderCreated, event.NewOrderCreated(order, table.ID, table.StoreID))

	return out, nil
}

// セッションの注文一覧（新しい順・明細付き）
func (u *OrderUsecase) ListSessionOrders(ctx context.Context, sessionID int64) ([]OrderOutput, error) {
	var outs []OrderOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		session, err := r.Sessions().FindByID(ctx, sessionID)
		if errors.Is(err, repo.ErrNotFound) {
			return ErrSessionNotFound
		}
		if err != nil {
			return err
		}
		if !session.IsActive {
			return ErrSessionNotFound
		}

		outs, err = listOrdersWithItems(ctx, r, session.ID)
		return err
	})
	if err != nil {
		return []OrderOutput{}, wrapTxErr(err, ErrInternal)
	}
	return outs, nil
}

func listOrdersWithItems(ctx context.Context, r repo.TxRepos, sessionID int64) ([]OrderOutput, error) {
	orders, err := r.Orders().ListBySessionID(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	ids := make([]int64, 0, len(orders))
	for _, o := range orders {
		ids = append(ids, o.ID)
	}
	itemsByOrder, err := r.OrderItems().ListByOrderIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	outs := make([]OrderOutput, 0, len(orders))
	for _, o := range orders {
		outs = append(outs, toOrderOutput(o, itemsByOrder[o.ID]))
	}
	return outs, nil
}

func toOrderOutput(o model.Order, items []model.OrderItem) OrderOutput {
	out := OrderOutput{
		ID:             o.ID,
		TableSessionID: o.TableSessionID,
		Status:         o.Status,
		TotalPrice:     o.TotalPrice,
		CreatedAt:      o.CreatedAt,
		UpdatedAt:      o.UpdatedAt,
		Items:          make([]OrderItemOutput, 0, len(items)),
	}
	for _, it := range items {
		out.Items = append(out.Items, OrderItemOutput{
			ID:        it.ID,
			MenuID:    it.MenuID,
			MenuName:  it.MenuName,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
			Subtotal:  it.Subtotal,
		})
	}
	return out
}
