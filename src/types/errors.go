package types

import "errors"

// Scan and issuance failures are recovered at the handler boundary and turned
// into a ScanResult/JSON reason via ReasonFor. They must never surface as a
// 5xx for forged or stale input.
var (
	ErrMalformed            = errors.New("malformed token")
	ErrInvalidSignature     = errors.New("invalid signature")
	ErrExpired              = errors.New("token expired")
	ErrEventQrExpired       = errors.New("event qr expired")
	ErrTicketNotFound       = errors.New("ticket not found")
	ErrWrongEvent           = errors.New("wrong event")
	ErrAlreadyUsed          = errors.New("ticket already used")
	ErrNotRedeemable        = errors.New("ticket not redeemable")
	ErrNotRegistered        = errors.New("not registered")
	ErrAlreadyRegistered    = errors.New("already registered")
	ErrAlreadyCheckedIn     = errors.New("already checked in")
	ErrEventSoldOut         = errors.New("event sold out")
	ErrEventNotPaid         = errors.New("event is not a paid event")
	ErrEventClosed          = errors.New("event no longer accepts check-ins")
	ErrWrongMode            = errors.New("wrong check-in mode")
	ErrAlreadyActive        = errors.New("subscription already active")
	ErrInvalidPartnerConfig = errors.New("invalid partner configuration")
)

var reasons = map[error]string{
	ErrMalformed:            "Code could not be read",
	ErrInvalidSignature:     "Code is not valid",
	ErrExpired:              "Code has expired",
	ErrEventQrExpired:       "Event code has expired",
	ErrTicketNotFound:       "Ticket not found",
	ErrWrongEvent:           "Ticket is for a different event",
	ErrAlreadyUsed:          "Ticket already used",
	ErrNotRedeemable:        "Ticket cannot be redeemed",
	ErrNotRegistered:        "No registration found for this event",
	ErrAlreadyRegistered:    "Already registered for this event",
	ErrAlreadyCheckedIn:     "Already checked in",
	ErrEventSoldOut:         "Event is sold out",
	ErrEventNotPaid:         "Event does not sell tickets",
	ErrEventClosed:          "Event no longer accepts check-ins",
	ErrWrongMode:            "Event does not use this check-in mode",
	ErrAlreadyActive:        "An active subscription already exists",
	ErrInvalidPartnerConfig: "Partner is not configured correctly",
}

// ReasonFor maps a typed failure to its short user-facing message. Unknown
// errors map to a generic failure so internal state never leaks.
func ReasonFor(err error) string {
	for sentinel, msg := range reasons {
		if errors.Is(err, sentinel) {
			return msg
		}
	}
	return "Could not complete the request"
}

// UserFacing reports whether err belongs to the recoverable scan/issuance
// taxonomy, as opposed to an internal fault.
func UserFacing(err error) bool {
	for sentinel := range reasons {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}
