package common

import (
	"errors"
	"testing"
	"time"

	"uems/src/types"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

func TestPlanLimit(t *testing.T) {
	assert.Equal(t, 3, PlanLimit(types.PLAN_FREE))
	assert.Equal(t, 10, PlanLimit(types.PLAN_PREMIUM))
}

func TestPlanLimitUnknownPlanFallsBackToFree(t *testing.T) {
	assert.Equal(t, 3, PlanLimit(types.SubscriptionType("TRIAL")))
}

func subscriptionRows(endDate time.Time, planType types.SubscriptionType) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{"id", "user_id", "type", "price", "start_date", "end_date", "is_active"}).
		AddRow(1, 7, string(planType), int64(999), now.AddDate(0, -1, 0), endDate, true)
}

func TestGetActiveSubscriptionReturnsCurrentRow(t *testing.T) {
	mock := newMockDB(t)
	mock.ExpectQuery(`SELECT \* FROM "subscriptions"`).
		WillReturnRows(subscriptionRows(time.Now().AddDate(0, 1, 0), types.PLAN_PREMIUM))

	sub, err := GetActiveSubscription(7)
	assert.Nil(t, err)
	assert.NotNil(t, sub)
	assert.Equal(t, types.PLAN_PREMIUM, sub.Type)
	assert.Nil(t, mock.ExpectationsWereMet())
}

func TestGetActiveSubscriptionDeactivatesLapsedRow(t *testing.T) {
	mock := newMockDB(t)
	mock.ExpectQuery(`SELECT \* FROM "subscriptions"`).
		WillReturnRows(subscriptionRows(time.Now().AddDate(0, 0, -1), types.PLAN_PREMIUM))
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "subscriptions" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	sub, err := GetActiveSubscription(7)
	assert.Nil(t, err)
	assert.Nil(t, sub)
	assert.Nil(t, mock.ExpectationsWereMet())
}

func TestCanCreateResourceFreePlanAtLimit(t *testing.T) {
	mock := newMockDB(t)
	mock.ExpectQuery(`SELECT \* FROM "subscriptions"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectQuery(`SELECT count\(\*\) FROM "service_listings"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

	quota, err := CanCreateResource(7)
	assert.Nil(t, err)
	assert.False(t, quota.Allowed)
	assert.Equal(t, 3, quota.Current)
	assert.Equal(t, 3, quota.Limit)
	assert.Nil(t, mock.ExpectationsWereMet())
}

func TestCanCreateResourcePremiumRaisesLimit(t *testing.T) {
	mock := newMockDB(t)
	mock.ExpectQuery(`SELECT \* FROM "subscriptions"`).
		WillReturnRows(subscriptionRows(time.Now().AddDate(0, 1, 0), types.PLAN_PREMIUM))
	mock.ExpectQuery(`SELECT count\(\*\) FROM "service_listings"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

	quota, err := CanCreateResource(7)
	assert.Nil(t, err)
	assert.True(t, quota.Allowed)
	assert.Equal(t, 10, quota.Limit)
	assert.Nil(t, mock.ExpectationsWereMet())
}

func TestSubscribeRejectsActiveSubscription(t *testing.T) {
	mock := newMockDB(t)
	mock.ExpectQuery(`SELECT \* FROM "subscriptions"`).
		WillReturnRows(subscriptionRows(time.Now().AddDate(0, 1, 0), types.PLAN_PREMIUM))

	sub, err := Subscribe(7, types.PLAN_PREMIUM, 1)
	assert.Nil(t, sub)
	assert.ErrorIs(t, err, types.ErrAlreadyActive)
	assert.Nil(t, mock.ExpectationsWereMet())
}

func TestSubscribeConcurrentCreateMapsToAlreadyActive(t *testing.T) {
	mock := newMockDB(t)
	mock.ExpectQuery(`SELECT \* FROM "subscriptions"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectBegin()
	// A second request slipped in between the read and the insert; the
	// partial unique index turns the write into a duplicate.
	mock.ExpectQuery(`INSERT INTO "subscriptions"`).
		WillReturnError(errors.New(`pq: duplicate key value violates unique constraint "uniq_user_active_sub"`))
	mock.ExpectRollback()

	sub, err := Subscribe(7, types.PLAN_PREMIUM, 1)
	assert.Nil(t, sub)
	assert.ErrorIs(t, err, types.ErrAlreadyActive)
	assert.Nil(t, mock.ExpectationsWereMet())
}
