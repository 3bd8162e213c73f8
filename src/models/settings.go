package models

import (
	"uems/src/types"
)

// PlatformSettings is a single admin-mutable row. Reads fall back to defaults
// when the row does not exist yet.
type PlatformSettings struct {
	ID                    uint    `gorm:"primarykey" json:"id"`
	DefaultCommissionRate float64 `gorm:"default:0.10" json:"default_commission_rate"`
	PremiumCommissionRate float64 `gorm:"default:0.05" json:"premium_commission_rate"`
	EventListingPrice     int64   `json:"event_listing_price"`
	AdListingPrice        int64   `json:"ad_listing_price"`

	types.Timestamps
}
