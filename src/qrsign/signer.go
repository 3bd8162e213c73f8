package qrsign

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"uems/src/types"
)

// Payload is what a QR code carries. TicketID is empty for the venue-displayed
// event tokens students scan in STUDENTS_SCAN mode; ExpiresAt is set only on
// those tokens.
// Fields are declared in sorted key order so that json.Marshal, which keeps
// declared order for structs, emits the same bytes a sorted-key serializer
// would.
type Payload struct {
	EventID   uint   `json:"event_id"`
	ExpiresAt int64  `json:"expires_at,omitempty"`
	HolderID  uint   `json:"holder_id,omitempty"`
	IssuedAt  int64  `json:"issued_at"`
	TicketID  string `json:"ticket_id,omitempty"`
}

type envelope struct {
	Payload   Payload `json:"payload"`
	Signature string  `json:"signature"`
}

// Signer mints and verifies HMAC-SHA256 signed QR tokens. The secret is
// injected so tests can run with their own key; it is never read from the
// environment here.
type Signer struct {
	secret []byte
	maxAge time.Duration
}

// New returns a Signer. An empty secret is a configuration error: the caller
// must fail closed rather than fall back to a guessable default.
func New(secret []byte, maxAge time.Duration) (*Signer, error) {
	if len(secret) == 0 {
		return nil, errors.New("qrsign: signing secret must not be empty")
	}
	return &Signer{secret: secret, maxAge: maxAge}, nil
}

// canonical serializes p with sorted keys so that semantically equal payloads
// always sign identically. The struct declares its fields in key order and all
// numbers are integers, so the encoding is byte-stable.
func canonical(p Payload) ([]byte, error) {
	return json.Marshal(&p)
}

func (s *Signer) sign(p Payload) (string, error) {
	raw, err := canonical(p)
	if err != nil {
		return "", err
	}
	mac := hmac.New(sha256.New, s.secret)
	mac.Write(raw)
	return hex.EncodeToString(mac.Sum(nil)), nil
}

// Mint serializes the payload, signs it and returns the opaque token string
// that gets rendered as a QR image by the presentation layer.
func (s *Signer) Mint(p Payload) (string, error) {
	if p.IssuedAt == 0 {
		p.IssuedAt = time.Now().Unix()
	}
	sig, err := s.sign(p)
	if err != nil {
		return "", err
	}
	env := envelope{Payload: p, Signature: sig}
	raw, err := json.Marshal(&env)
	if err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(raw), nil
}

// Verify decodes and authenticates a token. It returns ErrMalformed when the
// envelope cannot be parsed, ErrInvalidSignature on a MAC mismatch and
// ErrExpired/ErrEventQrExpired when the relevant validity window has passed.
func (s *Signer) Verify(token string) (*Payload, error) {
	return s.verifyAt(token, time.Now())
}

func (s *Signer) verifyAt(token string, now time.Time) (*Payload, error) {
	raw, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", types.ErrMalformed, err.Error())
	}
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("%w: %s", types.ErrMalformed, err.Error())
	}
	expect, err := s.sign(env.Payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", types.ErrMalformed, err.Error())
	}
	got, err := hex.DecodeString(env.Signature)
	if err != nil {
		return nil, fmt.Errorf("%w: bad signature encoding", types.ErrMalformed)
	}
	want, _ := hex.DecodeString(expect)
	if !hmac.Equal(got, want) {
		return nil, types.ErrInvalidSignature
	}
	if env.Payload.ExpiresAt > 0 && now.Unix() > env.Payload.ExpiresAt {
		return nil, types.ErrEventQrExpired
	}
	if s.maxAge > 0 && env.Payload.ExpiresAt == 0 {
		issued := time.Unix(env.Payload.IssuedAt, 0)
		if now.Sub(issued) > s.maxAge {
			return nil, types.ErrExpired
		}
	}
	p := env.Payload
	return &p, nil
}
