package common

import (
	"context"
	"errors"
	"testing"
	"time"

	"uems/src/qrsign"
	"uems/src/types"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

const testTicketID = "6ba7b810-9dad-11d1-80b4-00c04fd430c8"

func expectTicketLookup(mock sqlmock.Sqlmock, eventID uint, status types.TicketStatus) {
	mock.ExpectQuery(`SELECT \* FROM "tickets"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "event_id", "holder_id", "status", "price", "platform_fee"}).
			AddRow(testTicketID, eventID, 7, string(status), int64(15000), int64(0)))
	mock.ExpectQuery(`SELECT \* FROM "events"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "status", "check_in_mode"}).
			AddRow(eventID, "Tech Summit", "open", "organizer_scans"))
	mock.ExpectQuery(`SELECT \* FROM "users"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).
			AddRow(7, "Jane"))
}

func mintTicketToken(t *testing.T, signer *qrsign.Signer, eventID uint) string {
	t.Helper()
	token, err := signer.Mint(qrsign.Payload{
		TicketID: testTicketID,
		EventID:  eventID,
		HolderID: 7,
	})
	assert.Nil(t, err)
	return token
}

func TestValidateTicketRedeemsPaidTicket(t *testing.T) {
	signer := testSigner(t)
	mock := newMockDB(t)
	expectTicketLookup(mock, 42, types.TICKET_PAID)
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "tickets" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	ticket, err := ValidateTicket(signer, mintTicketToken(t, signer, 42), 42)
	assert.Nil(t, err)
	assert.Equal(t, types.TICKET_USED, ticket.Status)
	assert.NotNil(t, ticket.UsedAt)
	assert.Equal(t, "Jane", ticket.Holder.Name)
	assert.Nil(t, mock.ExpectationsWereMet())
}

func TestValidateTicketSecondScannerLosesRace(t *testing.T) {
	signer := testSigner(t)
	mock := newMockDB(t)
	expectTicketLookup(mock, 42, types.TICKET_PAID)
	mock.ExpectBegin()
	// Another device flipped the row to used between the read and the write.
	mock.ExpectExec(`UPDATE "tickets" SET`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	ticket, err := ValidateTicket(signer, mintTicketToken(t, signer, 42), 42)
	assert.Nil(t, ticket)
	assert.ErrorIs(t, err, types.ErrAlreadyUsed)
	assert.Nil(t, mock.ExpectationsWereMet())
}

func TestValidateTicketReplayedAtAnotherEvent(t *testing.T) {
	signer := testSigner(t)
	mock := newMockDB(t)
	expectTicketLookup(mock, 5, types.TICKET_PAID)

	ticket, err := ValidateTicket(signer, mintTicketToken(t, signer, 5), 6)
	assert.Nil(t, ticket)
	assert.ErrorIs(t, err, types.ErrWrongEvent)
	assert.Nil(t, mock.ExpectationsWereMet())
}

func TestValidateStudentSecondScanRejected(t *testing.T) {
	signer := testSigner(t)
	mock := newMockDB(t)
	mock.ExpectQuery(`SELECT \* FROM "events"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "status", "check_in_mode"}).
			AddRow(42, "Orientation", "open", "students_scan"))
	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "registrations"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "event_id", "holder_id", "status", "checked_in"}).
			AddRow(9, 42, 7, "registered", false))
	mock.ExpectQuery(`INSERT INTO "check_ins"`).
		WillReturnError(errors.New(`pq: duplicate key value violates unique constraint "checkin_event_holder"`))
	mock.ExpectRollback()

	token, err := signer.Mint(qrsign.Payload{
		EventID:   42,
		ExpiresAt: time.Now().Add(time.Hour).Unix(),
	})
	assert.Nil(t, err)

	result, err := ValidateStudent(context.Background(), signer, nil, token, 7)
	assert.Nil(t, result)
	assert.ErrorIs(t, err, types.ErrAlreadyCheckedIn)
	assert.Nil(t, mock.ExpectationsWereMet())
}
