package types

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReasonForKnownErrors(t *testing.T) {
	assert.Equal(t, "Ticket already used", ReasonFor(ErrAlreadyUsed))
	assert.Equal(t, "Code is not valid", ReasonFor(ErrInvalidSignature))
	assert.Equal(t, "Event code has expired", ReasonFor(ErrEventQrExpired))
}

func TestReasonForWrappedError(t *testing.T) {
	wrapped := fmt.Errorf("%w: unexpected end of input", ErrMalformed)
	assert.Equal(t, "Code could not be read", ReasonFor(wrapped))
	assert.True(t, UserFacing(wrapped))
}

func TestReasonForUnknownError(t *testing.T) {
	err := errors.New("connection refused")
	assert.Equal(t, "Could not complete the request", ReasonFor(err))
	assert.False(t, UserFacing(err))
}
