package domain

import "time"

// Price sensitivity buckets. "low" means the user views expensive items and is
// not very price sensitive; "high" means the user sticks to budget items.
const (
	PriceSensitivityLow    = "low"
	PriceSensitivityMedium = "medium"
	PriceSensitivityHigh   = "high"
)

// CREATE TABLE public.user_ai_profiles (
//     id                   BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
//     user_id              BIGINT UNIQUE NOT NULL,
//     intent_score         NUMERIC,
//     price_sensitivity    TEXT,
//     favorite_category    TEXT,
//     purchase_probability NUMERIC,
//     total_events         INT,
//     last_activity        TIMESTAMPTZ,
//     updated_at           TIMESTAMPTZ
// );

// UserAIProfile is recomputed wholesale from the user's event history and
// upserted by the behavior engine; it is never partially patched.
type UserAIProfile struct {
	ID                  uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID              uint64    `gorm:"column:user_id;uniqueIndex" json:"user_id"`
	IntentScore         float64   `gorm:"column:intent_score;type:numeric" json:"intent_score"`
	PriceSensitivity    string    `gorm:"column:price_sensitivity;type:text" json:"price_sensitivity"`
	FavoriteCategory    *string   `gorm:"column:favorite_category;type:text" json:"favorite_category"`
	PurchaseProbability float64   `gorm:"column:purchase_probability;type:numeric" json:"purchase_probability"`
	TotalEvents         int       `gorm:"column:total_events" json:"total_events"`
	LastActivity        time.Time `gorm:"column:last_activity" json:"last_activity"`
	UpdatedAt           time.Time `gorm:"column:updated_at" json:"updated_at"`
}

func (UserAIProfile) TableName() string {
	return "user_ai_profiles"
}
