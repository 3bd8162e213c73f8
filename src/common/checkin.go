package common

import (
	"context"
	"errors"
	"log"
	"strings"
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

func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	return strings.Contains(err.Error(), "duplicate key")
}

func eventAcceptsCheckIns(event *models.Event) bool {
	switch event.Status {
	case types.EVENT_OPEN, types.EVENT_ADMISSION:
		return true
	}
	return false
}

// ValidateTicket redeems a per-ticket QR token in ORGANIZER_SCANS mode. The
// paid-to-used transition is a conditional update so two devices scanning the
// same ticket can never both succeed.
func ValidateTicket(signer *qrsign.Signer, token string, scannerEventID uint) (*models.Ticket, error) {
	payload, err := signer.Verify(token)
	if err != nil {
		return nil, err
	}
	if payload.TicketID == "" {
		return nil, types.ErrMalformed
	}
	ticketId, err := uuid.Parse(payload.TicketID)
	if err != nil {
		return nil, types.ErrMalformed
	}

	gdb := db.GetDb()
	var ticket models.Ticket
	err = gdb.
		Preload("Event").
		Preload("Holder").
		Where("id = ?", ticketId).
		First(&ticket).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, types.ErrTicketNotFound
		}
		return nil, err
	}
	if ticket.EventID != scannerEventID || payload.EventID != scannerEventID {
		return nil, types.ErrWrongEvent
	}
	if ticket.Event.CheckInMode != types.ORGANIZER_SCANS {
		return nil, types.ErrWrongMode
	}
	if !eventAcceptsCheckIns(&ticket.Event) {
		return nil, types.ErrEventClosed
	}
	if ticket.Status == types.TICKET_USED {
		return nil, types.ErrAlreadyUsed
	}
	if ticket.Status != types.TICKET_PAID {
		return nil, types.ErrNotRedeemable
	}

	now := time.Now()
	res := gdb.
		Model(&models.Ticket{}).
		Where("id = ? AND status = ?", ticket.ID, types.TICKET_PAID).
		Updates(map[string]any{
			"status":  types.TICKET_USED,
			"used_at": now,
		})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		// Lost the race: another scanner redeemed this ticket first.
		return nil, types.ErrAlreadyUsed
	}
	ticket.Status = types.TICKET_USED
	ticket.UsedAt = &now

	go func() {
		err := lib.KafkaProduceMessage("api", lib.TopicCheckIns, map[string]any{
			"ticket_id": ticket.ID.String(),
			"event_id":  ticket.EventID,
			"holder_id": ticket.HolderID,
			"mode":      types.ORGANIZER_SCANS,
		})
		if err != nil {
			log.Printf("Error producing message: %s\n", err.Error())
		}
	}()

	return &ticket, nil
}

// ValidateStudent redeems a venue-displayed event QR token in STUDENTS_SCAN
// mode. The composite unique index on check-ins makes a second scan by the
// same student fail cleanly, so points can only be awarded once per event.
func ValidateStudent(ctx context.Context, signer *qrsign.Signer, points lib.Points, token string, holderID uint) (*types.ScanResult, error) {
	payload, err := signer.Verify(token)
	if err != nil {
		return nil, err
	}
	if payload.TicketID != "" || payload.ExpiresAt == 0 {
		return nil, types.ErrMalformed
	}

	gdb := db.GetDb()
	var event models.Event
	err = gdb.
		Where(&models.Event{ID: payload.EventID}).
		First(&event).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, types.ErrNotRegistered
		}
		return nil, err
	}
	if event.CheckInMode != types.STUDENTS_SCAN {
		return nil, types.ErrWrongMode
	}
	if !eventAcceptsCheckIns(&event) {
		return nil, types.ErrEventClosed
	}

	now := time.Now()
	err = gdb.Transaction(func(tx *gorm.DB) error {
		var reg models.Registration
		err := tx.
			Where("event_id = ? AND holder_id = ? AND status = ?", event.ID, holderID, types.REGISTRATION_REGISTERED).
			First(&reg).
			Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return types.ErrNotRegistered
			}
			return err
		}
		checkin := models.CheckIn{
			EventID:     event.ID,
			HolderID:    holderID,
			ScanMode:    types.STUDENTS_SCAN,
			CheckedInAt: now,
		}
		if err := tx.Create(&checkin).Error; err != nil {
			if isDuplicateKey(err) {
				return types.ErrAlreadyCheckedIn
			}
			return err
		}
		return tx.
			Model(&models.Registration{}).
			Where(&models.Registration{ID: reg.ID}).
			Updates(map[string]any{
				"checked_in":    true,
				"checked_in_at": now,
			}).
			Error
	})
	if err != nil {
		return nil, err
	}

	total, level, err := points.Award(ctx, holderID, utils.CheckInPoints)
	if err != nil {
		// The check-in itself committed; a points outage should not undo it.
		log.Printf("Error awarding points to holder %d: %s\n", holderID, err.Error())
	}

	var holder models.User
	gdb.Where(&models.User{ID: holderID}).Find(&holder)

	go func() {
		err := lib.KafkaProduceMessage("api", lib.TopicCheckIns, map[string]any{
			"event_id":  event.ID,
			"holder_id": holderID,
			"mode":      types.STUDENTS_SCAN,
		})
		if err != nil {
			log.Printf("Error producing message: %s\n", err.Error())
		}
	}()

	return &types.ScanResult{
		Success:      true,
		HolderName:   holder.Name,
		EventTitle:   event.Title,
		PointsEarned: utils.CheckInPoints,
		TotalPoints:  total,
		Level:        level,
	}, nil
}

// MintVenueQr mints the event token an organizer displays at the venue for
// students to scan. The token expires one hour after the event ends, and is
// cached so every device at the venue shows the same code.
func MintVenueQr(ctx context.Context, signer *qrsign.Signer, eventID uint) (string, error) {
	cacheKey := lib.VenueQrKey(eventID)
	rd := lib.GetRedisClient()
	cached, err := rd.Get(ctx, cacheKey).Result()
	if err == nil && cached != "" {
		return cached, nil
	}

	gdb := db.GetDb()
	var event models.Event
	err = gdb.
		Where(&models.Event{ID: eventID}).
		First(&event).
		Error
	if err != nil {
		return "", err
	}
	if event.CheckInMode != types.STUDENTS_SCAN {
		return "", types.ErrWrongMode
	}
	expiry := event.VenueQrExpiry()
	token, err := signer.Mint(qrsign.Payload{
		EventID:   event.ID,
		ExpiresAt: expiry.Unix(),
	})
	if err != nil {
		return "", err
	}
	if ttl := time.Until(expiry); ttl > 0 {
		rd.SetEx(ctx, cacheKey, token, ttl)
	}
	return token, nil
}
