package model

import "time"

// 店舗内のテーブル。(store_id, table_number) で一意。
type Table struct {
	ID           int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	StoreID      string    `gorm:"type:varchar(36);not null;uniqueIndex:uq_store_table_number" json:"store_id"`
	TableNumber  string    `gorm:"type:varchar(50);not null;uniqueIndex:uq_store_table_number" json:"table_number"`
	PasswordHash string    `gorm:"column:password_hash;not null" json:"-"`
	CreatedAt    time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
