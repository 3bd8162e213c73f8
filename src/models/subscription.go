package models

import (
	"time"

	"uems/src/types"
)

// Subscription is a time-boxed entitlement. The partial unique index allows at
// most one active row per user; expired rows are deactivated lazily on read.
type Subscription struct {
	ID        uint                   `gorm:"primarykey" json:"id"`
	UserID    uint                   `gorm:"index;uniqueIndex:uniq_user_active_sub,where:is_active = true" json:"user_id,omitempty"`
	Type      types.SubscriptionType `json:"type,omitempty"`
	Price     int64                  `json:"price"`
	StartDate time.Time              `json:"start_date"`
	EndDate   time.Time              `json:"end_date"`
	IsActive  bool                   `gorm:"default:true" json:"is_active"`

	User User `gorm:"foreignKey:user_id" json:"-"`

	types.Timestamps
}

// ServiceListing is the quota-gated resource a subscription raises the limit
// for. Only listings with IsActive count against the owner's quota.
type ServiceListing struct {
	ID          uint   `gorm:"primarykey" json:"id"`
	OwnerID     uint   `gorm:"index" json:"owner_id,omitempty"`
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	Price       int64  `json:"price,omitempty"`
	IsActive    bool   `gorm:"default:true" json:"is_active"`

	Owner User `gorm:"foreignKey:owner_id" json:"-"`

	types.Timestamps
}
