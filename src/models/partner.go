package models

import (
	"uems/src/types"
)

// ExternalPartner is a non-platform organizer whose paid events settle
// through a commission split instead of a flat platform fee.
type ExternalPartner struct {
	ID             uint    `gorm:"primarykey" json:"id"`
	UserID         uint    `gorm:"uniqueIndex" json:"user_id,omitempty"`
	Slug           string  `gorm:"uniqueIndex" json:"slug,omitempty"`
	CommissionRate float64 `gorm:"default:0.10" json:"commission_rate"`
	PaidEventSlots int     `gorm:"default:0" json:"paid_event_slots"`
	IsVerified     bool    `gorm:"default:false" json:"is_verified"`

	User   User    `gorm:"foreignKey:user_id" json:"-"`
	Events []Event `gorm:"foreignKey:partner_id" json:"events,omitempty"`

	types.Timestamps
}
