package common

import (
	"testing"

	"uems/src/types"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

func expectOpenEventLookup(mock sqlmock.Sqlmock, capacity int) {
	mock.ExpectQuery(`SELECT \* FROM "events"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "status", "capacity"}).
			AddRow(3, "Career Fair", "open", capacity))
}

func TestRegisterForEventReactivatesCancelledRow(t *testing.T) {
	mock := newMockDB(t)
	mock.ExpectBegin()
	expectOpenEventLookup(mock, 100)
	mock.ExpectQuery(`SELECT count\(\*\) FROM "registrations"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(10))
	mock.ExpectQuery(`SELECT \* FROM "registrations"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "event_id", "holder_id", "status", "checked_in"}).
			AddRow(9, 3, 7, "cancelled", false))
	mock.ExpectExec(`UPDATE "registrations" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	registration, err := RegisterForEvent(3, 7)
	assert.Nil(t, err)
	assert.Equal(t, types.REGISTRATION_REGISTERED, registration.Status)
	assert.Equal(t, uint(9), registration.ID)
	assert.Nil(t, mock.ExpectationsWereMet())
}

func TestRegisterForEventRejectsExistingRegistration(t *testing.T) {
	mock := newMockDB(t)
	mock.ExpectBegin()
	expectOpenEventLookup(mock, 100)
	mock.ExpectQuery(`SELECT count\(\*\) FROM "registrations"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(10))
	mock.ExpectQuery(`SELECT \* FROM "registrations"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "event_id", "holder_id", "status", "checked_in"}).
			AddRow(9, 3, 7, "registered", false))
	mock.ExpectRollback()

	registration, err := RegisterForEvent(3, 7)
	assert.Nil(t, registration)
	assert.ErrorIs(t, err, types.ErrAlreadyRegistered)
	assert.Nil(t, mock.ExpectationsWereMet())
}

func TestRegisterForEventFullEventReactivatesToWaitlist(t *testing.T) {
	mock := newMockDB(t)
	mock.ExpectBegin()
	expectOpenEventLookup(mock, 10)
	mock.ExpectQuery(`SELECT count\(\*\) FROM "registrations"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(10))
	mock.ExpectQuery(`SELECT \* FROM "registrations"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "event_id", "holder_id", "status", "checked_in"}).
			AddRow(9, 3, 7, "cancelled", false))
	mock.ExpectExec(`UPDATE "registrations" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	registration, err := RegisterForEvent(3, 7)
	assert.Nil(t, err)
	assert.Equal(t, types.REGISTRATION_WAITLIST, registration.Status)
	assert.Nil(t, mock.ExpectationsWereMet())
}

func TestRegisterForEventClosedEvent(t *testing.T) {
	mock := newMockDB(t)
	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "events"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "status", "capacity"}).
			AddRow(3, "Career Fair", "completed", 100))
	mock.ExpectRollback()

	registration, err := RegisterForEvent(3, 7)
	assert.Nil(t, registration)
	assert.ErrorIs(t, err, types.ErrEventClosed)
	assert.Nil(t, mock.ExpectationsWereMet())
}
