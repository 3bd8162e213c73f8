package common

import (
	"errors"
	"fmt"
	"log"
	"time"
	"uems/src/db"
	"uems/src/models"
	"uems/src/types"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetSettings loads the platform settings row, falling back to the model
// defaults when it has never been written.
func GetSettings() models.PlatformSettings {
	gdb := db.GetDb()
	var settings models.PlatformSettings
	err := gdb.First(&settings).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("Error loading platform settings: %s\n", err.Error())
		}
		return models.PlatformSettings{
			DefaultCommissionRate: 0.10,
			PremiumCommissionRate: 0.05,
		}
	}
	return settings
}

// RecordIssuance re-checks the split invariant before a commission row is
// written. A mismatch is an internal fault, never a user-facing reason.
func RecordIssuance(ticket *models.Ticket) error {
	if ticket.CommissionAmount == nil || ticket.PartnerAmount == nil {
		return nil
	}
	if *ticket.CommissionAmount+*ticket.PartnerAmount != ticket.Price-ticket.PlatformFee {
		return fmt.Errorf("commission split does not conserve price for ticket %s", ticket.ID.String())
	}
	if *ticket.CommissionAmount < 0 || *ticket.PartnerAmount < 0 {
		return fmt.Errorf("negative commission split for ticket %s", ticket.ID.String())
	}
	return nil
}

// MarkPartnerPaid records that the partner settled the commission on a
// ticket. The split invariant is re-verified before the write, and marking an
// already settled ticket again is a no-op.
func MarkPartnerPaid(ticketId uuid.UUID) error {
	gdb := db.GetDb()
	var ticket models.Ticket
	err := gdb.
		Where("id = ?", ticketId).
		First(&ticket).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return types.ErrTicketNotFound
		}
		return err
	}
	if ticket.CommissionAmount == nil {
		return types.ErrInvalidPartnerConfig
	}
	if ticket.CommissionPaidByPartner {
		return nil
	}
	if err := RecordIssuance(&ticket); err != nil {
		return err
	}
	now := time.Now()
	return gdb.
		Model(&models.Ticket{}).
		Where("id = ? AND commission_paid_by_partner = ?", ticketId, false).
		Updates(map[string]any{
			"commission_paid_by_partner": true,
			"commission_paid_at":         now,
		}).
		Error
}

// PartnerReport aggregates the commission ledger for one partner over a date
// window. A window with no tickets yields a zeroed report, not an error.
func PartnerReport(partnerID uint, from, to time.Time) (*types.SettlementReport, error) {
	gdb := db.GetDb()
	report := types.SettlementReport{
		PartnerID: partnerID,
		From:      from,
		To:        to,
	}

	base := gdb.
		Model(&models.Ticket{}).
		Joins("JOIN events ON events.id = tickets.event_id").
		Where("events.partner_id = ?", partnerID).
		Where("tickets.status IN ?", []types.TicketStatus{types.TICKET_PAID, types.TICKET_USED}).
		Where("tickets.purchased_at >= ? AND tickets.purchased_at < ?", from, to)

	type sums struct {
		TicketCount     int64
		TotalCommission int64
		TotalPartner    int64
	}
	var s sums
	err := base.
		Session(&gorm.Session{}).
		Select("COUNT(*) AS ticket_count, COALESCE(SUM(tickets.commission_amount), 0) AS total_commission, COALESCE(SUM(tickets.partner_amount), 0) AS total_partner").
		Scan(&s).
		Error
	if err != nil {
		return nil, err
	}
	report.TicketCount = s.TicketCount
	report.TotalCommission = s.TotalCommission
	report.TotalPartnerAmount = s.TotalPartner

	var unpaid struct{ Unpaid int64 }
	err = base.
		Session(&gorm.Session{}).
		Where("tickets.commission_paid_by_partner = ?", false).
		Select("COALESCE(SUM(tickets.commission_amount), 0) AS unpaid").
		Scan(&unpaid).
		Error
	if err != nil {
		return nil, err
	}
	report.UnpaidCommission = unpaid.Unpaid
	return &report, nil
}
