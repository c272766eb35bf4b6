package model

import (
	"errors"
	"strings"
	"time"
)

type MenuCategory struct {
	ID           int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	StoreID      string    `gorm:"type:varchar(36);not null;uniqueIndex:uq_store_category_name" json:"store_id"`
	Name         string    `gorm:"type:varchar(255);not null;uniqueIndex:uq_store_category_name" json:"name"`
	DisplayOrder int       `gorm:"not null;default:0" json:"display_order"`
	CreatedAt    time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

type Menu struct {
	ID           int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	CategoryID   int64     `gorm:"not null;index" json:"category_id"`
	Name         string    `gorm:"type:varchar(255);not null" json:"name"`
	Description  string    `gorm:"type:text" json:"description"`
	Price        Money     `gorm:"not null;check:chk_menu_price_positive,price > 0" json:"price"`
	ImagePath    *string   `gorm:"type:varchar(255)" json:"image_path"`
	IsAvailable  bool      `gorm:"not null;default:true" json:"is_available"`
	DisplayOrder int       `gorm:"not null;default:0" json:"display_order"`
	CreatedAt    time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

var (
	ErrMenuNameEmpty        = errors.New("menu name empty")
	ErrMenuPriceNotPositive = errors.New("menu price must be > 0")
)

// メニューの部分更新。nilの項目は変更しない。
// 変更できる項目はここに並んでいるものだけ。
type MenuPatch struct {
	Name         *string `json:"name"`
	Description  *string `json:"description"`
	Price        *Money  `json:"price"`
	IsAvailable  *bool   `json:"is_available"`
	DisplayOrder *int    `json:"display_order"`
}

func (p MenuPatch) IsEmpty() bool {
	return p.Name == nil && p.Description == nil && p.Price == nil && p.IsAvailable == nil && p.DisplayOrder == nil
}

// 値の検証をしてからmenuに反映する。エラー時はmenuを変更しない。
func (p MenuPatch) ApplyTo(m *Menu) error {
	if p.Name != nil && strings.TrimSpace(*p.Name) == "" {
		return ErrMenuNameEmpty
	}
	if p.Price != nil && *p.Price <= 0 {
		return ErrMenuPriceNotPositive
	}

	if p.Name != nil {
		m.SetName(*p.Name)
	}
	if p.Description != nil {
		m.SetDescription(*p.Description)
	}
	if p.Price != nil {
		m.SetPrice(*p.Price)
	}
	if p.IsAvailable != nil {
		m.SetAvailable(*p.IsAvailable)
	}
	if p.DisplayOrder != nil {
		m.SetDisplayOrder(*p.DisplayOrder)
	}
	return nil
}

func (m *Menu) SetName(name string)        { m.Name = strings.TrimSpace(name) }
func (m *Menu) SetDescription(desc string) { m.Description = desc }
func (m *Menu) SetPrice(price Money)       { m.Price = price }
func (m *Menu) SetAvailable(v bool)        { m.IsAvailable = v }
func (m *Menu) SetDisplayOrder(v int)      { m.DisplayOrder = v }
