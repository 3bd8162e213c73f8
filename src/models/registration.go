package models

import (
	"time"

	"uems/src/types"
)

// Registration is the free-event analogue of a Ticket.
// Invariant: CheckedIn implies Status == REGISTERED.
// The unique index keeps one row per event and holder across all statuses, so
// registering again after a cancellation reactivates the existing row.
type Registration struct {
	ID       uint                     `gorm:"primarykey" json:"id"`
	EventID  uint                     `gorm:"uniqueIndex:reg_event_holder" json:"event_id,omitempty"`
	HolderID uint                     `gorm:"uniqueIndex:reg_event_holder" json:"holder_id,omitempty"`
	Status   types.RegistrationStatus `gorm:"default:'registered'" json:"status,omitempty"`

	CheckedIn   bool       `gorm:"default:false" json:"checked_in"`
	CheckedInAt *time.Time `json:"checked_in_at,omitempty"`

	Event  Event `gorm:"foreignKey:event_id" json:"event,omitempty"`
	Holder User  `gorm:"foreignKey:holder_id" json:"holder,omitempty"`

	types.Timestamps
}
