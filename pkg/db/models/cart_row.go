package models

import (
	"time"

	"github.com/shahidaboobacker1-abuu/Bagzo-project/pkg/types"
)

// CartRow is one (user, product, quantity) record. The store does not
// enforce uniqueness of (user_id, product_id); clients do.
type CartRow struct {
	ID        string    `gorm:"column:id;type:text;primaryKey"`
	UserID    string    `gorm:"column:user_id;type:text;not null;index"`
	ProductID string    `gorm:"column:product_id;type:text;not null"`
	Quantity  int       `gorm:"column:quantity;not null"`
	AddedAt   time.Time `gorm:"column:added_at;not null"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (CartRow) TableName() string { return "cart_rows" }

func (c CartRow) ToType() types.CartRow {
	return types.CartRow{
		ID:        c.ID,
		UserID:    c.UserID,
		ProductID: c.ProductID,
		Quantity:  c.Quantity,
		AddedAt:   c.AddedAt.UTC(),
	}
}
