package domain

import "time"

// CREATE TABLE public.shop_ai_metrics (
//     id               BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
//     shop_id          BIGINT UNIQUE NOT NULL,
//     traffic_score    NUMERIC,
//     engagement_score NUMERIC,
//     conversion_rate  NUMERIC,
//     category_ranking INT,
//     updated_at       TIMESTAMPTZ
// );

// ShopAIMetrics holds the derived shop scores owned by the traffic engine.
type ShopAIMetrics struct {
	ID              uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	ShopID          uint64    `gorm:"column:shop_id;uniqueIndex" json:"shop_id"`
	TrafficScore    float64   `gorm:"column:traffic_score;type:numeric" json:"traffic_score"`
	EngagementScore float64   `gorm:"column:engagement_score;type:numeric" json:"engagement_score"`
	ConversionRate  float64   `gorm:"column:conversion_rate;type:numeric" json:"conversion_rate"`
	CategoryRanking *int      `gorm:"column:category_ranking" json:"category_ranking"`
	UpdatedAt       time.Time `gorm:"column:updated_at" json:"updated_at"`
}

func (ShopAIMetrics) TableName() string {
	return "shop_ai_metrics"
}
