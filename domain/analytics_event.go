package domain

import (
	"time"

	"gorm.io/datatypes"
)

// EventType tags the kind of interaction recorded in analytics_events.
type EventType string

const (
	EventProductView  EventType = "productView"
	EventAddToCart    EventType = "addToCart"
	EventPurchase     EventType = "purchase"
	EventShopVisit    EventType = "shop_visit"
	EventProductClick EventType = "product_click"
)

// Known reports whether the event type is one the pipeline dispatches on.
// Queue payloads with an unknown type are counted as data faults by the
// processor instead of being silently defaulted.
func (t EventType) Known() bool {
	switch t {
	case EventProductView, EventAddToCart, EventPurchase, EventShopVisit, EventProductClick:
		return true
	}
	return false
}

// AffinityRelevant reports whether the event type contributes to product
// affinity tracking.
func (t EventType) AffinityRelevant() bool {
	switch t {
	case EventProductView, EventAddToCart, EventPurchase:
		return true
	}
	return false
}

// CREATE TABLE public.analytics_events (
//     id          BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
//     user_id     BIGINT,
//     event_type  TEXT NOT NULL,
//     shop_id     BIGINT,
//     product_id  BIGINT,
//     metadata    JSONB,
//     timestamp   TIMESTAMPTZ DEFAULT NOW()
// );

// AnalyticsEvent is append-only and produced by the main application. This
// service only consumes it, via the queue and via historical lookups.
type AnalyticsEvent struct {
	ID        uint64            `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    *uint64           `gorm:"column:user_id" json:"user_id,omitempty"`
	EventType EventType         `gorm:"column:event_type;type:text" json:"event_type"`
	ShopID    *uint64           `gorm:"column:shop_id" json:"shop_id,omitempty"`
	ProductID *uint64           `gorm:"column:product_id" json:"product_id,omitempty"`
	Metadata  datatypes.JSONMap `gorm:"column:metadata" json:"metadata,omitempty"`
	Timestamp time.Time         `gorm:"column:timestamp" json:"timestamp"`
}

func (AnalyticsEvent) TableName() string {
	return "analytics_events"
}
