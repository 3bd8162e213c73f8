package common

import (
	"errors"
	"log"
	"time"
	"uems/src/db"
	"uems/src/models"
	"uems/src/types"

	"gorm.io/gorm"
)

// Monthly plan prices in integer currency units.
const (
	FreePlanPrice    int64 = 0
	PremiumPlanPrice int64 = 999
)

// PlanLimit returns the number of active listings a plan allows. Users with
// no subscription get the free limit.
func PlanLimit(t types.SubscriptionType) int {
	switch t {
	case types.PLAN_PREMIUM:
		return 10
	default:
		return 3
	}
}

// GetActiveSubscription returns the user's active subscription, or nil when
// there is none. A row whose window has passed is deactivated here, on read,
// so a lapsed subscription stops granting entitlements without any sweeper
// having run yet.
func GetActiveSubscription(userID uint) (*models.Subscription, error) {
	gdb := db.GetDb()
	var sub models.Subscription
	err := gdb.
		Where(&models.Subscription{UserID: userID, IsActive: true}).
		Order("end_date DESC").
		First(&sub).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	if time.Now().After(sub.EndDate) {
		err := gdb.
			Model(&models.Subscription{}).
			Where(&models.Subscription{ID: sub.ID}).
			Update("is_active", false).
			Error
		if err != nil {
			log.Printf("Error deactivating lapsed subscription %d: %s\n", sub.ID, err.Error())
		}
		return nil, nil
	}
	return &sub, nil
}

// Subscribe starts a plan for the user. Only one active subscription is
// allowed at a time; the partial unique index on subscriptions backs the check
// so two concurrent calls cannot both create an active row.
func Subscribe(userID uint, planType types.SubscriptionType, months int) (*models.Subscription, error) {
	active, err := GetActiveSubscription(userID)
	if err != nil {
		return nil, err
	}
	if active != nil {
		return nil, types.ErrAlreadyActive
	}
	price := FreePlanPrice
	if planType == types.PLAN_PREMIUM {
		price = PremiumPlanPrice
	}
	now := time.Now()
	sub := models.Subscription{
		UserID:    userID,
		Type:      planType,
		Price:     price * int64(months),
		StartDate: now,
		EndDate:   now.AddDate(0, months, 0),
		IsActive:  true,
	}
	gdb := db.GetDb()
	err = gdb.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&sub).Error; err != nil {
			if isDuplicateKey(err) {
				return types.ErrAlreadyActive
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

// CancelSubscription deactivates the user's active subscription immediately.
func CancelSubscription(userID uint) error {
	gdb := db.GetDb()
	return gdb.
		Model(&models.Subscription{}).
		Where(&models.Subscription{UserID: userID, IsActive: true}).
		Update("is_active", false).
		Error
}

// CanCreateResource checks the user's listing quota against their plan.
func CanCreateResource(userID uint) (*types.QuotaResult, error) {
	sub, err := GetActiveSubscription(userID)
	if err != nil {
		return nil, err
	}
	plan := types.PLAN_FREE
	if sub != nil {
		plan = sub.Type
	}
	limit := PlanLimit(plan)

	gdb := db.GetDb()
	var current int64
	err = gdb.
		Model(&models.ServiceListing{}).
		Where(&models.ServiceListing{OwnerID: userID, IsActive: true}).
		Count(&current).
		Error
	if err != nil {
		return nil, err
	}
	return &types.QuotaResult{
		Allowed: int(current) < limit,
		Current: int(current),
		Limit:   limit,
	}, nil
}

// DeactivateLapsedSubscriptions is the daily sweep backing up the lazy
// deactivation on read.
func DeactivateLapsedSubscriptions() {
	gdb := db.GetDb()
	res := gdb.
		Model(&models.Subscription{}).
		Where("is_active = ? AND end_date < ?", true, time.Now()).
		Update("is_active", false)
	if res.Error != nil {
		log.Printf("Error deactivating lapsed subscriptions: %s\n", res.Error.Error())
		return
	}
	if res.RowsAffected > 0 {
		log.Printf("Deactivated %d lapsed subscriptions\n", res.RowsAffected)
	}
}
