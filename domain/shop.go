package domain

import "time"

// Shop is owned by the main application; this service reads it only.
type Shop struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	Name      string    `gorm:"column:name;type:text" json:"name"`
	Category  string    `gorm:"column:category;type:text" json:"category"`
	CreatedAt time.Time `gorm:"column:created_at" json:"created_at"`
}

func (Shop) TableName() string {
	return "shops"
}
