package models

import (
	"time"

	"uems/src/types"
)

// CheckIn records a completed scan. The composite unique index is what makes
// duplicate awards impossible under concurrent student scans.
type CheckIn struct {
	ID          uint              `gorm:"primarykey" json:"id"`
	EventID     uint              `gorm:"uniqueIndex:checkin_event_holder" json:"event_id,omitempty"`
	HolderID    uint              `gorm:"uniqueIndex:checkin_event_holder" json:"holder_id,omitempty"`
	ScanMode    types.CheckInMode `json:"scan_mode,omitempty"`
	CheckedInAt time.Time         `json:"checked_in_at,omitempty"`

	Event  Event `gorm:"foreignKey:event_id" json:"event,omitempty"`
	Holder User  `gorm:"foreignKey:holder_id" json:"holder,omitempty"`

	types.Timestamps
}
