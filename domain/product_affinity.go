package domain

import "time"

// CREATE TABLE public.product_affinities (
//     id             BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
//     user_id        BIGINT NOT NULL,
//     product_id     BIGINT NOT NULL,
//     affinity_score NUMERIC,
//     view_count     INT,
//     last_viewed    TIMESTAMPTZ,
//     UNIQUE (user_id, product_id)
// );

// ProductAffinity accumulates a user's interest in one product. The score only
// ever grows and is capped at 1.0; rows are never deleted by this service.
type ProductAffinity struct {
	ID            uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID        uint64    `gorm:"column:user_id;uniqueIndex:idx_user_product" json:"user_id"`
	ProductID     uint64    `gorm:"column:product_id;uniqueIndex:idx_user_product" json:"product_id"`
	AffinityScore float64   `gorm:"column:affinity_score;type:numeric" json:"affinity_score"`
	ViewCount     int       `gorm:"column:view_count" json:"view_count"`
	LastViewed    time.Time `gorm:"column:last_viewed" json:"last_viewed"`
}

func (ProductAffinity) TableName() string {
	return "product_affinities"
}
