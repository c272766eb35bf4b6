package model

import "time"

// 注文ステータス更新、注文削除、セッション完了など。
type AuditAction string

const (
	//注文ステータスを更新した操作。
	AuditActionUpdateOrderStatus AuditAction = "UPDATE_ORDER_STATUS"
	//注文を削除した操作。
	AuditActionDeleteOrder AuditAction = "DELETE_ORDER"
	//テーブルセッションを完了（アーカイブ）した操作。
	AuditActionCompleteSession AuditAction = "COMPLETE_SESSION"
	//メニューを部分更新した操作。
	AuditActionUpdateMenu AuditAction = "UPDATE_MENU"
	//管理者アカウントの作成・有効化・無効化。
	AuditActionCreateAdmin     AuditAction = "CREATE_ADMIN"
	AuditActionActivateAdmin   AuditAction = "ACTIVATE_ADMIN"
	AuditActionDeactivateAdmin AuditAction = "DEACTIVATE_ADMIN"
)

func (a AuditAction) IsValid() bool {
	switch a {
	case AuditActionUpdateOrderStatus, AuditActionDeleteOrder, AuditActionCompleteSession,
		AuditActionUpdateMenu, AuditActionCreateAdmin, AuditActionActivateAdmin, AuditActionDeactivateAdmin:
		return true
	}
	return false
}

// 何に対する操作か
type AuditResourceType string

const (
	AuditResourceOrder        AuditResourceType = "order"
	AuditResourceTableSession AuditResourceType = "table_session"
	AuditResourceMenu         AuditResourceType = "menu"
	AuditResourceAdmin        AuditResourceType = "admin"
)

func (t AuditResourceType) IsValid() bool {
	switch t {
	case AuditResourceOrder, AuditResourceTableSession, AuditResourceMenu, AuditResourceAdmin:
		return true
	}
	return false
}

// 監査ログ（管理者操作ログ）。
// 「誰が」「何を」「どの対象に」「どう変えたか」を残す。
type AuditLog struct {
	ID int64 `gorm:"primaryKey;autoIncrement" json:"id"`

	//操作した管理者のID。
	ActorAdminID int64 `gorm:"not null;index" json:"actor_admin_id"`

	Action AuditAction `gorm:"type:varchar(50);not null;index" json:"action"`

	ResourceType AuditResourceType `gorm:"type:varchar(50);not null;index" json:"resource_type"`

	ResourceID int64 `gorm:"not null;index" json:"resource_id"`

	//JSON文字列で保存する。
	BeforeJSON string `gorm:"type:text" json:"before_json"`
	AfterJSON  string `gorm:"type:text" json:"after_json"`

	CreatedAt time.Time `gorm:"not null;index" json:"created_at"`
}
