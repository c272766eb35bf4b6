package model

import "time"

type AdminRole string

const (
	AdminRoleStore AdminRole = "store_admin"
	AdminRoleSuper AdminRole = "super_admin"
)

func (r AdminRole) IsValid() bool {
	return r == AdminRoleStore || r == AdminRoleSuper
}

// 管理者アカウント
// store_adminは店舗必須、super_adminは店舗なし。
type Admin struct {
	ID           int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	StoreID      *string   `gorm:"type:varchar(36);index" json:"store_id"`
	Username     string    `gorm:"type:varchar(100);uniqueIndex;not null" json:"username"`
	PasswordHash string    `gorm:"column:password_hash;not null" json:"-"`
	Role         AdminRole `gorm:"type:varchar(20);not null;check:chk_admin_store,(role = 'store_admin' AND store_id IS NOT NULL) OR (role = 'super_admin' AND store_id IS NULL)" json:"role"`
	IsActive     bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt    time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
