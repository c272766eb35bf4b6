package model

import "time"

// 注文明細
// メニュー名と単価は注文時点のスナップショット（後のメニュー編集の影響を受けない）
type OrderItem struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID   int64     `gorm:"not null;index" json:"order_id"`
	MenuID    int64     `gorm:"not null;index" json:"menu_id"`
	MenuName  string    `gorm:"type:varchar(255);not null" json:"menu_name"`
	Quantity  int64     `gorm:"not null;check:chk_order_item_quantity,quantity > 0" json:"quantity"`
	UnitPrice Money     `gorm:"not null;check:chk_order_item_unit_price,unit_price >= 0" json:"unit_price"`
	Subtotal  Money     `gorm:"not null" json:"subtotal"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}
