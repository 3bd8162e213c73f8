package common

import (
	"fmt"
	"log"
	"time"
	"uems/src/db"
	"uems/src/lib"
	"uems/src/models"
	"uems/src/qrsign"
	"uems/src/types"
	"uems/src/utils"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// IssueTicket creates a ticket for a paid event, computes the commission
// split at issuance time and mints the signed QR payload. For a mock payment
// the ticket is paid immediately; otherwise it stays pending and the returned
// checkout URL must be completed before the webhook confirms it.
func IssueTicket(signer *qrsign.Signer, body *types.IssueTicketRequestBody) (*models.Ticket, *string, error) {
	var ticket models.Ticket
	var event models.Event
	gdb := db.GetDb()
	err := gdb.Transaction(func(tx *gorm.DB) error {
		err := tx.
			Preload("Partner").
			Where(&models.Event{ID: body.EventID}).
			First(&event).
			Error
		if err != nil {
			return err
		}
		if event.Status != types.EVENT_OPEN && event.Status != types.EVENT_ADMISSION {
			return types.ErrEventClosed
		}
		if !event.IsPaid {
			return types.ErrEventNotPaid
		}
		var sold int64
		err = tx.
			Model(&models.Ticket{}).
			Where("event_id = ? AND status IN ?", event.ID, []types.TicketStatus{types.TICKET_PENDING, types.TICKET_PAID, types.TICKET_USED}).
			Count(&sold).
			Error
		if err != nil {
			return err
		}
		if event.Capacity > 0 && sold >= int64(event.Capacity) {
			return types.ErrEventSoldOut
		}

		ticket = models.Ticket{
			ID:       uuid.New(),
			EventID:  event.ID,
			HolderID: body.HolderID,
			Price:    event.TicketPrice,
			Status:   types.TICKET_PENDING,
		}
		if event.PartnerID != nil {
			partner := event.Partner
			if partner == nil || partner.CommissionRate < 0 || partner.CommissionRate > 1 {
				return types.ErrInvalidPartnerConfig
			}
			rate := partner.CommissionRate
			commission, partnerAmount := utils.SplitCommission(event.TicketPrice, rate)
			ticket.CommissionRate = &rate
			ticket.CommissionAmount = &commission
			ticket.PartnerAmount = &partnerAmount
			ticket.PlatformFee = 0
			if err := RecordIssuance(&ticket); err != nil {
				return err
			}
		} else {
			ticket.PlatformFee = event.PlatformFee
		}

		token, err := signer.Mint(qrsign.Payload{
			TicketID: ticket.ID.String(),
			EventID:  event.ID,
			HolderID: body.HolderID,
		})
		if err != nil {
			return err
		}
		ticket.QrPayload = token

		if body.MockPayment {
			ticket.Status = types.TICKET_PAID
			ticket.PurchasedAt = time.Now()
			ticket.PaymentMethod = body.Method
		}
		if err := tx.Create(&ticket).Error; err != nil {
			return err
		}
		if !body.MockPayment {
			txn := models.Transaction{
				TicketID: ticket.ID,
				Amount:   ticket.Price,
				Currency: "usd",
				Status:   types.TRANSACTION_PENDING,
			}
			if err := tx.Create(&txn).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	var checkoutUrl *string
	if !body.MockPayment {
		session, err := lib.CreateTicketCheckout(ticket.ID.String(), ticket.Price, event.Title)
		if err != nil {
			log.Printf("Error creating checkout session for ticket %s: %s\n", ticket.ID.String(), err.Error())
			return nil, nil, err
		}
		gdb.
			Model(&models.Transaction{}).
			Where(&models.Transaction{TicketID: ticket.ID}).
			Update("checkout_session_id", session.ID)
		checkoutUrl = &session.URL
	}

	go func() {
		err := lib.KafkaProduceMessage("api", lib.TopicTicketsIssued, map[string]any{
			"ticket_id": ticket.ID.String(),
			"event_id":  ticket.EventID,
			"holder_id": ticket.HolderID,
			"status":    ticket.Status,
		})
		if err != nil {
			log.Printf("Error producing message: %s\n", err.Error())
		}
	}()
	if ticket.Status == types.TICKET_PAID {
		go SendTicketReceipt(&ticket, &event)
	}

	return &ticket, checkoutUrl, nil
}

// ConfirmTicketPaid moves a pending ticket to paid. Called from the payment
// webhook; confirming an already paid or terminal ticket is a no-op.
func ConfirmTicketPaid(ticketId uuid.UUID, transactionId string) error {
	gdb := db.GetDb()
	return gdb.Transaction(func(tx *gorm.DB) error {
		res := tx.
			Model(&models.Ticket{}).
			Where("id = ? AND status = ?", ticketId, types.TICKET_PENDING).
			Updates(map[string]any{
				"status":         types.TICKET_PAID,
				"transaction_id": transactionId,
				"purchased_at":   time.Now(),
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			log.Printf("Ticket %s is not pending, skipping confirmation\n", ticketId.String())
			return nil
		}
		err := tx.
			Model(&models.Transaction{}).
			Where(&models.Transaction{TicketID: ticketId}).
			Update("status", types.TRANSACTION_COMPLETED).
			Error
		return err
	})
}

// CancelPendingTicket expires a pending ticket whose checkout session lapsed.
func CancelPendingTicket(ticketId uuid.UUID) error {
	gdb := db.GetDb()
	return gdb.Transaction(func(tx *gorm.DB) error {
		res := tx.
			Model(&models.Ticket{}).
			Where("id = ? AND status = ?", ticketId, types.TICKET_PENDING).
			Update("status", types.TICKET_EXPIRED)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		return tx.
			Model(&models.Transaction{}).
			Where(&models.Transaction{TicketID: ticketId}).
			Update("status", types.TRANSACTION_EXPIRED).
			Error
	})
}

// ExpireStalePendingTickets sweeps tickets whose checkout was never completed.
func ExpireStalePendingTickets(olderThan time.Duration) {
	gdb := db.GetDb()
	cutoff := time.Now().Add(-olderThan)
	res := gdb.
		Model(&models.Ticket{}).
		Where("status = ? AND created_at < ?", types.TICKET_PENDING, cutoff).
		Update("status", types.TICKET_EXPIRED)
	if res.Error != nil {
		log.Printf("Error expiring stale tickets: %s\n", res.Error.Error())
		return
	}
	if res.RowsAffected > 0 {
		log.Printf("Expired %d stale pending tickets\n", res.RowsAffected)
	}
}

// SendTicketReceipt emails the holder a receipt for a paid ticket.
func SendTicketReceipt(ticket *models.Ticket, event *models.Event) {
	gdb := db.GetDb()
	var holder models.User
	err := gdb.
		Where(&models.User{ID: ticket.HolderID}).
		First(&holder).
		Error
	if err != nil {
		log.Printf("Could not load holder %d for receipt: %s\n", ticket.HolderID, err.Error())
		return
	}
	body := fmt.Sprintf("Hi %s,\n\nYour ticket for %s is confirmed.\nTicket ID: %s\nAmount: %d\n\nShow the QR code in the app at the entrance.", holder.Name, event.Title, ticket.ID.String(), ticket.Price)
	err = lib.SendMail(&lib.SendMailInput{
		From:     "noreply@uems.app",
		FromName: "UEMS",
		To:       []string{holder.Email},
		Subject:  fmt.Sprintf("Your ticket for %s", event.Title),
		Body:     body,
	})
	if err != nil {
		log.Printf("Error sending receipt for ticket %s: %s\n", ticket.ID.String(), err.Error())
	}
}
