package types

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"gorm.io/gorm"
)

type Timestamps struct {
	CreatedAt time.Time      `gorm:"autoCreateTime:nano" json:"created_at,omitempty"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime:nano" json:"updated_at,omitempty"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty,omitnil"`
}

type Metadata map[string]any

func (a Metadata) Value() (driver.Value, error) {
	valueString, err := json.Marshal(a)
	return string(valueString), err
}
func (a *Metadata) Scan(value any) error {
	b, ok := value.([]byte)
	if !ok {
		return errors.New("type assertion to []byte failed")
	}
	if err := json.Unmarshal(b, &a); err != nil {
		return err
	}
	return nil
}

type TicketStatus string

const (
	TICKET_PENDING  TicketStatus = "pending"
	TICKET_PAID     TicketStatus = "paid"
	TICKET_USED     TicketStatus = "used"
	TICKET_REFUNDED TicketStatus = "refunded"
	TICKET_EXPIRED  TicketStatus = "expired"
)

// Terminal reports whether no forward transition is allowed from s.
func (s TicketStatus) Terminal() bool {
	switch s {
	case TICKET_USED, TICKET_REFUNDED, TICKET_EXPIRED:
		return true
	}
	return false
}

type RegistrationStatus string

const (
	REGISTRATION_REGISTERED RegistrationStatus = "registered"
	REGISTRATION_WAITLIST   RegistrationStatus = "waitlist"
	REGISTRATION_CANCELLED  RegistrationStatus = "cancelled"
)

type CheckInMode string

const (
	ORGANIZER_SCANS CheckInMode = "organizer_scans"
	STUDENTS_SCAN   CheckInMode = "students_scan"
)

type EventStatus string

const (
	EVENT_DRAFT     EventStatus = "draft"
	EVENT_OPEN      EventStatus = "open"
	EVENT_ADMISSION EventStatus = "admission"
	EVENT_COMPLETED EventStatus = "completed"
	EVENT_CANCELED  EventStatus = "canceled"
)

type SubscriptionType string

const (
	PLAN_FREE    SubscriptionType = "FREE"
	PLAN_PREMIUM SubscriptionType = "PREMIUM"
)

type TransactionStatus string

const (
	TRANSACTION_PENDING   TransactionStatus = "pending"
	TRANSACTION_COMPLETED TransactionStatus = "paid"
	TRANSACTION_CANCELED  TransactionStatus = "canceled"
	TRANSACTION_EXPIRED   TransactionStatus = "expired"
)

type IssueTicketRequestBody struct {
	EventID  uint `json:"event_id" binding:"required"`
	HolderID uint `json:"holder_id,omitempty"`
	// Mock flow marks the ticket paid immediately; otherwise the ticket stays
	// pending until the gateway webhook confirms.
	MockPayment bool    `json:"mock_payment,omitempty"`
	Method      *string `json:"payment_method,omitempty"`
}

type ValidateTicketRequestBody struct {
	QrToken        string `json:"qr_token" binding:"required"`
	ScannerEventID uint   `json:"scanner_event_id" binding:"required"`
}

type ValidateStudentRequestBody struct {
	QrToken string `json:"qr_token" binding:"required"`
}

type RegisterRequestBody struct {
	EventID uint `json:"event_id" binding:"required"`
}

type SubscribeRequestBody struct {
	Type   SubscriptionType `json:"type" binding:"required,plantype"`
	Months int              `json:"months" binding:"required,min=1,max=12"`
}

type CreateListingRequestBody struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description,omitempty"`
	Price       int64  `json:"price,omitempty" binding:"omitempty,min=0"`
}

type UpdateCommissionRateRequestBody struct {
	CommissionRate *float64 `json:"commission_rate" binding:"required,min=0,max=1"`
}

type GrantSlotsRequestBody struct {
	Slots int `json:"slots" binding:"required,min=1"`
}

type UpdateSettingsRequestBody struct {
	DefaultCommissionRate *float64 `json:"default_commission_rate,omitempty" binding:"omitempty,min=0,max=1"`
	PremiumCommissionRate *float64 `json:"premium_commission_rate,omitempty" binding:"omitempty,min=0,max=1"`
	EventListingPrice     *int64   `json:"event_listing_price,omitempty" binding:"omitempty,min=0"`
	AdListingPrice        *int64   `json:"ad_listing_price,omitempty" binding:"omitempty,min=0"`
}

type SimpleRequestParams struct {
	ID uint `uri:"id" binding:"required"`
}

type TicketURIParams struct {
	TicketID string `uri:"id" binding:"required,uuid"`
}

type SettlementQueryParams struct {
	From string `form:"from" binding:"required,reportdate"`
	To   string `form:"to" binding:"required,reportdate"`
}

// ScanResult is the user-facing outcome of a scan. Failures carry a short
// human-readable reason, never an internal error string.
type ScanResult struct {
	Success      bool   `json:"success"`
	Reason       string `json:"reason,omitempty"`
	HolderName   string `json:"holder_name,omitempty"`
	EventTitle   string `json:"event_title,omitempty"`
	PointsEarned int    `json:"points_earned,omitempty"`
	TotalPoints  int    `json:"total_points,omitempty"`
	Level        int    `json:"level,omitempty"`
}

type QuotaResult struct {
	Allowed bool `json:"allowed"`
	Current int  `json:"current"`
	Limit   int  `json:"limit"`
}

type SettlementReport struct {
	PartnerID          uint      `json:"partner_id"`
	From               time.Time `json:"from"`
	To                 time.Time `json:"to"`
	TicketCount        int64     `json:"ticket_count"`
	TotalCommission    int64     `json:"total_commission"`
	TotalPartnerAmount int64     `json:"total_partner_amount"`
	UnpaidCommission   int64     `json:"unpaid_commission"`
}

const TIME_PARSE_FORMAT = "2006-01-02 15:04:05 -07:00"
