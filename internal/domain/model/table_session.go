package model

import "time"

// テーブルの利用セッション
// 1テーブルにつきactiveは1つ（部分ユニークインデックスで保証）
type TableSession struct {
	ID        int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	TableID   int64      `gorm:"not null;index;uniqueIndex:uq_active_session_per_table,where:is_active = true" json:"table_id"`
	StartedAt time.Time  `gorm:"not null" json:"started_at"`
	EndedAt   *time.Time `gorm:"check:chk_session_end_after_start,ended_at IS NULL OR ended_at >= started_at" json:"ended_at"`
	IsActive  bool       `gorm:"not null;default:true;check:chk_session_active_end,(is_active AND ended_at IS NULL) OR (NOT is_active AND ended_at IS NOT NULL)" json:"is_active"`
	CreatedAt time.Time  `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time  `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

// セッションを終了状態にする
func (s *TableSession) End(at time.Time) {
	if at.Before(s.StartedAt) {
		at = s.StartedAt
	}
	s.IsActive = false
	s.EndedAt = &at
}
