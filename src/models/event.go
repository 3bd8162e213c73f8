package models

import (
	"time"

	"uems/src/types"
)

// Event is owned by the platform's event CRUD, which is outside this service;
// only the fields ticketing and check-in depend on live here.
type Event struct {
	ID          uint              `gorm:"primarykey" json:"id"`
	Title       string            `json:"title,omitempty"`
	Location    string            `json:"location,omitempty"`
	DateTime    time.Time         `json:"date_time,omitempty"`
	EndsAt      time.Time         `json:"ends_at,omitempty"`
	Status      types.EventStatus `gorm:"default:'open'" json:"status,omitempty"`
	Capacity    uint              `json:"capacity,omitempty"`
	IsPaid      bool              `gorm:"default:false" json:"is_paid"`
	TicketPrice int64             `json:"ticket_price,omitempty"`
	PlatformFee int64             `json:"platform_fee,omitempty"`
	CheckInMode types.CheckInMode `gorm:"default:'organizer_scans'" json:"check_in_mode,omitempty"`

	// Nil for platform-run events.
	PartnerID *uint `gorm:"index" json:"partner_id,omitempty"`

	Partner       *ExternalPartner `gorm:"foreignKey:partner_id" json:"-"`
	Tickets       []Ticket         `gorm:"foreignKey:event_id" json:"tickets,omitempty"`
	Registrations []Registration   `gorm:"foreignKey:event_id" json:"registrations,omitempty"`

	types.Timestamps
}

// VenueQrGrace is how long after the event end the venue-displayed student
// QR keeps validating.
const VenueQrGrace = time.Hour

func (e *Event) VenueQrExpiry() time.Time {
	return e.EndsAt.Add(VenueQrGrace)
}
