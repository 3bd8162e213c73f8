package models

import (
	"time"

	"uems/src/types"

	"github.com/google/uuid"
)

type Ticket struct {
	ID       uuid.UUID          `gorm:"primarykey;type:uuid;default:gen_random_uuid()" json:"id"`
	EventID  uint               `gorm:"index" json:"event_id,omitempty"`
	HolderID uint               `gorm:"index" json:"holder_id,omitempty"`
	Status   types.TicketStatus `gorm:"default:'pending'" json:"status,omitempty"`

	// Integer currency units. PlatformFee applies to platform-run events
	// only; partner events use the commission split instead.
	Price       int64 `json:"price"`
	PlatformFee int64 `json:"platform_fee"`

	PaymentMethod *string `json:"payment_method,omitempty"`
	TransactionID *string `json:"transaction_id,omitempty"`

	QrPayload   string     `json:"qr_payload,omitempty"`
	PurchasedAt time.Time  `json:"purchased_at,omitempty"`
	UsedAt      *time.Time `json:"used_at,omitempty"`

	// Commission fields are set only when the owning event belongs to an
	// external partner. The rate is copied from the partner at issuance and
	// never recomputed, so later rate changes leave old tickets untouched.
	CommissionRate          *float64   `json:"commission_rate,omitempty"`
	CommissionAmount        *int64     `json:"commission_amount,omitempty"`
	PartnerAmount           *int64     `json:"partner_amount,omitempty"`
	CommissionPaidByPartner bool       `gorm:"default:false" json:"commission_paid_by_partner,omitempty"`
	CommissionPaidAt        *time.Time `json:"commission_paid_at,omitempty"`

	Event  Event `gorm:"foreignKey:event_id" json:"event,omitempty"`
	Holder User  `gorm:"foreignKey:holder_id" json:"holder,omitempty"`

	types.Timestamps
}
