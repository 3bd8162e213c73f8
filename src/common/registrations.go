package common

import (
	"errors"
	"uems/src/db"
	"uems/src/models"
	"uems/src/types"

	"gorm.io/gorm"
)

// RegisterForEvent registers a holder for a free event. When capacity is
// reached the holder lands on the waitlist instead. A previously cancelled
// registration is reactivated rather than duplicated, since one row per event
// and holder exists across all statuses.
func RegisterForEvent(eventID, holderID uint) (*models.Registration, error) {
	gdb := db.GetDb()
	var registration models.Registration
	err := gdb.Transaction(func(tx *gorm.DB) error {
		var event models.Event
		if err := tx.
			Where(&models.Event{ID: eventID}).
			First(&event).
			Error; err != nil {
			return err
		}
		if event.Status != types.EVENT_OPEN {
			return types.ErrEventClosed
		}
		status := types.REGISTRATION_REGISTERED
		if event.Capacity > 0 {
			var registered int64
			err := tx.
				Model(&models.Registration{}).
				Where("event_id = ? AND status = ?", event.ID, types.REGISTRATION_REGISTERED).
				Count(&registered).
				Error
			if err != nil {
				return err
			}
			if registered >= int64(event.Capacity) {
				status = types.REGISTRATION_WAITLIST
			}
		}

		var existing models.Registration
		err := tx.
			Where("event_id = ? AND holder_id = ?", event.ID, holderID).
			First(&existing).
			Error
		if err == nil {
			if existing.Status != types.REGISTRATION_CANCELLED {
				return types.ErrAlreadyRegistered
			}
			res := tx.
				Model(&models.Registration{}).
				Where("id = ? AND status = ?", existing.ID, types.REGISTRATION_CANCELLED).
				Update("status", status)
			if res.Error != nil {
				return res.Error
			}
			existing.Status = status
			registration = existing
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		registration = models.Registration{
			EventID:  event.ID,
			HolderID: holderID,
			Status:   status,
		}
		if err := tx.Create(&registration).Error; err != nil {
			if isDuplicateKey(err) {
				return types.ErrAlreadyRegistered
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &registration, nil
}
