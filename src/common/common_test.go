package common

import (
	"testing"
	"time"

	"uems/src/db"
	"uems/src/qrsign"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// newMockDB swaps the package db singleton for a sqlmock-backed gorm instance
// so the domain layer can be exercised against scripted query results.
func newMockDB(t *testing.T) sqlmock.Sqlmock {
	t.Helper()
	conn, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("An error '%s' was not expected when opening a stub database connection", err)
	}
	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: conn}), &gorm.Config{})
	if err != nil {
		t.Fatalf("An error '%s' was not expected when opening gorm database", err)
	}
	db.NewDB(gormDB)
	return mock
}

func testSigner(t *testing.T) *qrsign.Signer {
	t.Helper()
	signer, err := qrsign.New([]byte("test-secret"), 24*time.Hour)
	assert.Nil(t, err)
	return signer
}
