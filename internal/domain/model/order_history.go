package model

import "time"

// セッション完了時にアーカイブされた注文。作成後は変更しない。
type OrderHistory struct {
	ID              int64       `gorm:"primaryKey;autoIncrement" json:"id"`
	TableSessionID  int64       `gorm:"not null;index" json:"table_session_id"`
	OriginalOrderID int64       `gorm:"not null" json:"original_order_id"`
	Status          OrderStatus `gorm:"type:varchar(20);not null" json:"status"`
	TotalPrice      Money       `gorm:"not null;check:chk_order_history_total_price,total_price >= 0" json:"total_price"`
	OrderCreatedAt  time.Time   `gorm:"not null" json:"order_created_at"`
	ArchivedAt      time.Time   `gorm:"not null;index" json:"archived_at"`
}

// アーカイブ明細（OrderItemをそのままコピー）
type OrderHistoryItem struct {
	ID             int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderHistoryID int64  `gorm:"not null;index" json:"order_history_id"`
	MenuID         *int64 `json:"menu_id"`
	MenuName       string `gorm:"type:varchar(255);not null" json:"menu_name"`
	Quantity       int64  `gorm:"not null;check:chk_order_history_item_quantity,quantity > 0" json:"quantity"`
	UnitPrice      Money  `gorm:"not null;check:chk_order_history_item_unit_price,unit_price >= 0" json:"unit_price"`
	Subtotal       Money  `gorm:"not null" json:"subtotal"`
}
