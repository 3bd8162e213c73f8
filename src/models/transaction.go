package models

import (
	"uems/src/types"

	"github.com/google/uuid"
)

// Transaction mirrors the gateway-side payment record for a pending ticket.
// Only the internal ledger fields live here; the gateway owns the money.
type Transaction struct {
	ID uuid.UUID `gorm:"primarykey;type:uuid;default:gen_random_uuid()" json:"id"`

	TicketID          uuid.UUID               `gorm:"type:uuid;index" json:"ticket_id"`
	Amount            int64                   `json:"amount"`
	Currency          string                  `json:"currency,omitempty"`
	CheckoutSessionId *string                 `json:"-"`
	Status            types.TransactionStatus `gorm:"default:'pending'" json:"status,omitempty"`
	Metadata          *types.Metadata         `gorm:"type:jsonb" json:"metadata,omitempty"`

	Ticket Ticket `gorm:"foreignKey:ticket_id" json:"-"`

	types.Timestamps
}
