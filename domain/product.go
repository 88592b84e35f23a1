package domain

import "time"

// CREATE TABLE public.products (
//     id             BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
//     shop_id        BIGINT NOT NULL,
//     name           TEXT,
//     category       TEXT,
//     base_price_irr NUMERIC,
//     stock          INT,
//     created_at     TIMESTAMPTZ DEFAULT NOW()
// );

// Product is owned by the main application; this service reads it only.
type Product struct {
	ID           uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	ShopID       uint64    `gorm:"column:shop_id" json:"shop_id"`
	Name         string    `gorm:"column:name;type:text" json:"name"`
	Category     string    `gorm:"column:category;type:text" json:"category"`
	BasePriceIRR float64   `gorm:"column:base_price_irr;type:numeric" json:"base_price_irr"`
	Stock        int       `gorm:"column:stock" json:"stock"`
	CreatedAt    time.Time `gorm:"column:created_at" json:"created_at"`
}

func (Product) TableName() string {
	return "products"
}
