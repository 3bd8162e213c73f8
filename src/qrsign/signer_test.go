package qrsign

import (
	"encoding/base64"
	"testing"
	"time"

	"uems/src/types"

	"github.com/stretchr/testify/assert"
)

const testSecret = "test-signing-secret"

func newTestSigner(t *testing.T) *Signer {
	s, err := New([]byte(testSecret), 24*time.Hour)
	assert.Nil(t, err)
	return s
}

func TestNewRequiresSecret(t *testing.T) {
	_, err := New(nil, 0)
	assert.NotNil(t, err)

	_, err = New([]byte{}, time.Hour)
	assert.NotNil(t, err)
}

func TestMintVerifyRoundTrip(t *testing.T) {
	s := newTestSigner(t)
	payload := Payload{
		TicketID: "d54e39c8-8a17-4c43-8d16-8ef0e7d267ce",
		EventID:  42,
		HolderID: 7,
	}
	token, err := s.Mint(payload)
	assert.Nil(t, err)
	assert.NotEmpty(t, token)

	got, err := s.Verify(token)
	assert.Nil(t, err)
	assert.Equal(t, payload.TicketID, got.TicketID)
	assert.Equal(t, payload.EventID, got.EventID)
	assert.Equal(t, payload.HolderID, got.HolderID)
	assert.NotZero(t, got.IssuedAt)
}

func TestCanonicalStable(t *testing.T) {
	p := Payload{TicketID: "abc", EventID: 1, HolderID: 2, IssuedAt: 1700000000}
	a, err := canonical(p)
	assert.Nil(t, err)
	b, err := canonical(p)
	assert.Nil(t, err)
	assert.Equal(t, a, b)
	assert.Equal(t, `{"event_id":1,"holder_id":2,"issued_at":1700000000,"ticket_id":"abc"}`, string(a))
}

func TestTamperedPayloadFails(t *testing.T) {
	s := newTestSigner(t)
	token, err := s.Mint(Payload{TicketID: "abc", EventID: 1, HolderID: 2})
	assert.Nil(t, err)

	raw, err := base64.RawURLEncoding.DecodeString(token)
	assert.Nil(t, err)

	// Flip every byte in turn; any change must surface as a typed failure,
	// never a success.
	for i := range raw {
		mutated := make([]byte, len(raw))
		copy(mutated, raw)
		mutated[i] ^= 0x01
		_, err := s.Verify(base64.RawURLEncoding.EncodeToString(mutated))
		assert.NotNil(t, err, "byte %d", i)
	}
}

func TestWrongSecretFails(t *testing.T) {
	s := newTestSigner(t)
	token, err := s.Mint(Payload{TicketID: "abc", EventID: 1})
	assert.Nil(t, err)

	other, err := New([]byte("another-secret"), 24*time.Hour)
	assert.Nil(t, err)
	_, err = other.Verify(token)
	assert.ErrorIs(t, err, types.ErrInvalidSignature)
}

func TestGarbageIsMalformed(t *testing.T) {
	s := newTestSigner(t)
	for _, tok := range []string{"", "!!!!", "bm90LWpzb24", base64.RawURLEncoding.EncodeToString([]byte(`{"payload":1}`))} {
		_, err := s.Verify(tok)
		assert.NotNil(t, err)
		assert.NotErrorIs(t, err, types.ErrInvalidSignature)
	}
}

func TestMaxAgeExpiry(t *testing.T) {
	s, err := New([]byte(testSecret), time.Hour)
	assert.Nil(t, err)
	token, err := s.Mint(Payload{TicketID: "abc", EventID: 1, IssuedAt: time.Now().Add(-2 * time.Hour).Unix()})
	assert.Nil(t, err)

	_, err = s.Verify(token)
	assert.ErrorIs(t, err, types.ErrExpired)
}

func TestEventQrExpiry(t *testing.T) {
	s := newTestSigner(t)
	ends := time.Now().Add(-90 * time.Minute)
	token, err := s.Mint(Payload{EventID: 9, ExpiresAt: ends.Unix()})
	assert.Nil(t, err)

	_, err = s.Verify(token)
	assert.ErrorIs(t, err, types.ErrEventQrExpired)

	// Still inside the window at mint time + before expiry.
	token, err = s.Mint(Payload{EventID: 9, ExpiresAt: time.Now().Add(time.Hour).Unix()})
	assert.Nil(t, err)
	got, err := s.Verify(token)
	assert.Nil(t, err)
	assert.Equal(t, uint(9), got.EventID)
}
