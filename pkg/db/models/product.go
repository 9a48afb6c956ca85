package models

import (
	"time"

	"github.com/lib/pq"

	"github.com/shahidaboobacker1-abuu/Bagzo-project/pkg/types"
)

// Product is a catalog row.
type Product struct {
	ID            string         `gorm:"column:id;type:text;primaryKey"`
	Name          string         `gorm:"column:name;not null"`
	Category      string         `gorm:"column:category;not null;index"`
	Price         types.Amount   `gorm:"column:price;type:numeric(12,2);not null"`
	OriginalPrice *types.Amount  `gorm:"column:original_price;type:numeric(12,2)"`
	Rating        float64        `gorm:"column:rating;not null;default:0"`
	Description   string         `gorm:"column:description;not null;default:''"`
	Image         string         `gorm:"column:image;not null;default:''"`
	IsNew         bool           `gorm:"column:is_new;not null;default:false"`
	IsOnSale      bool           `gorm:"column:is_on_sale;not null;default:false"`
	Featured      bool           `gorm:"column:featured;not null;default:false"`
	Stock         *int           `gorm:"column:stock"`
	Tags          pq.StringArray `gorm:"column:tags;type:text;not null;default:'{}'"`
	CreatedAt     time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}

func (Product) TableName() string { return "products" }

func (p Product) ToType() types.Product {
	return types.Product{
		ID:            p.ID,
		Name:          p.Name,
		Category:      p.Category,
		Price:         p.Price,
		OriginalPrice: p.OriginalPrice,
		Rating:        p.Rating,
		Description:   p.Description,
		Image:         p.Image,
		IsNew:         p.IsNew,
		IsOnSale:      p.IsOnSale,
		Featured:      p.Featured,
		Stock:         p.Stock,
		Tags:          []string(p.Tags),
	}.Clone()
}

// ProductFromType copies the writable fields of a wire product.
func ProductFromType(p types.Product) Product {
	clone := p.Clone()
	tags := pq.StringArray{}
	for _, tag := range clone.Tags {
		tags = append(tags, tag)
	}
	return Product{
		ID:            clone.ID,
		Name:          clone.Name,
		Category:      clone.Category,
		Price:         clone.Price,
		OriginalPrice: clone.OriginalPrice,
		Rating:        clone.Rating,
		Description:   clone.Description,
		Image:         clone.Image,
		IsNew:         clone.IsNew,
		IsOnSale:      clone.IsOnSale,
		Featured:      clone.Featured,
		Stock:         clone.Stock,
		Tags:          tags,
	}
}
