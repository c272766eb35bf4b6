package model

import "time"

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusPreparing OrderStatus = "preparing"
	OrderStatusReady     OrderStatus = "ready"
	OrderStatusServed    OrderStatus = "served"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// 状態遷移表。ここにない遷移は全て不正（同じ状態への遷移も含む）
var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending:   {OrderStatusPreparing, OrderStatusCancelled},
	OrderStatusPreparing: {OrderStatusReady, OrderStatusCancelled},
	OrderStatusReady:     {OrderStatusServed},
	OrderStatusServed:    {},
	OrderStatusCancelled: {},
}

// 定義済みのステータスか
func (s OrderStatus) IsValid() bool {
	_, ok := orderTransitions[s]
	return ok
}

func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, to := range orderTransitions[s] {
		if to == next {
			return true
		}
	}
	return false
}

// served / cancelled は確定済み（削除不可）
func (s OrderStatus) IsFinal() bool {
	return s == OrderStatusServed || s == OrderStatusCancelled
}

// テーブルセッション中の注文
type Order struct {
	ID             int64       `gorm:"primaryKey;autoIncrement" json:"id"`
	TableSessionID int64       `gorm:"not null;index" json:"table_session_id"`
	Status         OrderStatus `gorm:"type:varchar(20);not null;index;default:'pending'" json:"status"`
	TotalPrice     Money       `gorm:"not null;check:chk_order_total_price,total_price >= 0" json:"total_price"`
	CreatedAt      time.Time   `gorm:"not null" json:"created_at"`
	UpdatedAt      time.Time   `gorm:"not null" json:"updated_at"`
}
