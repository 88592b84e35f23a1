package domain

import "time"

const OrderStatusCompleted = "completed"

// Order rows are the ground truth for purchases; the insight engine
// cross-references them against the event stream. Read-only here.
type Order struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    uint64    `gorm:"column:user_id" json:"user_id"`
	ShopID    uint64    `gorm:"column:shop_id" json:"shop_id"`
	Status    string    `gorm:"column:status;type:text" json:"status"`
	TotalIRR  float64   `gorm:"column:total_irr;type:numeric" json:"total_irr"`
	CreatedAt time.Time `gorm:"column:created_at" json:"created_at"`
}

func (Order) TableName() string {
	return "orders"
}
