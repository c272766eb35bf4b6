package event

import (
	"time"

	"tableorder/internal/domain/model"
)

// イベント種別（外部ダッシュボードも参照する安定した名前）
const (
	TypeOrderCreated       = "OrderCreated"
	TypeOrderStatusChanged = "OrderStatusChanged"
)

// 店舗IDを持つイベント。SSE配信の絞り込みに使う。
type StoreScoped interface {
	StoreKey() string
}

type OrderCreated struct {
	EventType  string            `json:"event_type"`
	OrderID    int64             `json:"order_id"`
	TableID    int64             `json:"table_id"`
	StoreID    string            `json:"store_id"`
	TotalPrice model.Money       `json:"total_price"`
	Status     model.OrderStatus `json:"status"`
	CreatedAt  time.Time         `json:"created_at"`
}

func NewOrderCreated(o model.Order, tableID int64, storeID string) OrderCreated {
	return OrderCreated{
		EventType:  TypeOrderCreated,
		OrderID:    o.ID,
		TableID:    tableID,
		StoreID:    storeID,
		TotalPrice: o.TotalPrice,
		Status:     o.Status,
		CreatedAt:  o.CreatedAt,
	}
}

func (e OrderCreated) StoreKey() string { return e.StoreID }

type OrderStatusChanged struct {
	EventType string            `json:"event_type"`
	OrderID   int64             `json:"order_id"`
	StoreID   string            `json:"store_id"`
	OldStatus model.OrderStatus `json:"old_status"`
	NewStatus model.OrderStatus `json:"new_status"`
	UpdatedAt time.Time         `json:"updated_at"`
}

func NewOrderStatusChanged(orderID int64, storeID string, from, to model.OrderStatus, at time.Time) OrderStatusChanged {
	return OrderStatusChanged{
		EventType: TypeOrderStatusChanged,
		OrderID:   orderID,
		StoreID:   storeID,
		OldStatus: from,
		NewStatus: to,
		UpdatedAt: at,
	}
}

func (e OrderStatusChanged) StoreKey() string { return e.StoreID }
