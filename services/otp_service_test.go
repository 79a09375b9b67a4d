package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type captureNotifier struct {
	sent    []string
	deliver bool
}

func (n *captureNotifier) Send(ctx context.Context, mobile, message string) bool {
	n.sent = append(n.sent, mobile)
	return n.deliver
}

func TestSendOTPSignupRejectsRegistered(t *testing.T) {
	store := newTestStore(t)
	ledger := NewLedgerService(store)
	otp := NewOTPService(store, nil)

	_, err := ledger.Register("Ali", "03001234567", "secret123", "")
	require.NoError(t, err)

	_, err = otp.Send(context.Background(), "03001234567", false)
	assert.ErrorIs(t, err, ErrDuplicatePhone)
}

func TestSendOTPResetRequiresRegistered(t *testing.T) {
	otp := NewOTPService(newTestStore(t), nil)

	_, err := otp.Send(context.Background(), "03001234567", true)
	assert.ErrorIs(t, err, ErrAccountNotFound)
}

func TestSendOTPFallsBackWhenUndelivered(t *testing.T) {
	otp := NewOTPService(newTestStore(t), &captureNotifier{deliver: false})

	result, err := otp.Send(context.Background(), "03001234567", false)
	require.NoError(t, err)
	assert.False(t, result.Delivered)
	assert.Len(t, result.Fallback, 6)

	// The fallback code is the live code.
	assert.NoError(t, otp.Verify("03001234567", result.Fallback))
}

func TestSendOTPDelivered(t *testing.T) {
	n := &captureNotifier{deliver: true}
	otp := NewOTPService(newTestStore(t), n)

	result, err := otp.Send(context.Background(), "0300-1234567", false)
	require.NoError(t, err)
	assert.True(t, result.Delivered)
	assert.Empty(t, result.Fallback)
	require.Len(t, n.sent, 1)
	assert.Equal(t, "03001234567", n.sent[0])
}

func TestVerifyMasterCodeAlwaysPasses(t *testing.T) {
	otp := NewOTPService(newTestStore(t), nil)

	assert.NoError(t, otp.Verify("03001234567", MasterOTP))
	// Even with no pending code at all.
	assert.NoError(t, otp.Verify("anything", MasterOTP))
}

func TestVerifySingleUse(t *testing.T) {
	otp := NewOTPService(newTestStore(t), nil)

	result, err := otp.Send(context.Background(), "03001234567", false)
	require.NoError(t, err)

	require.NoError(t, otp.Verify("03001234567", result.Fallback))
	assert.ErrorIs(t, otp.Verify("03001234567", result.Fallback), ErrInvalidOTP)
}

func TestVerifyWrongCodeOrMobile(t *testing.T) {
	otp := NewOTPService(newTestStore(t), nil)

	result, err := otp.Send(context.Background(), "03001234567", false)
	require.NoError(t, err)

	assert.ErrorIs(t, otp.Verify("03001234567", "000000"), ErrInvalidOTP)
	assert.ErrorIs(t, otp.Verify("03119999999", result.Fallback), ErrInvalidOTP)

	// The pending code survives failed attempts.
	assert.NoError(t, otp.Verify("0300 123 4567", result.Fallback))
}

func TestVerifyExpired(t *testing.T) {
	otp := NewOTPService(newTestStore(t), nil)

	base := time.Now()
	otp.now = func() time.Time { return base }

	result, err := otp.Send(context.Background(), "03001234567", false)
	require.NoError(t, err)

	otp.now = func() time.Time { return base.Add(5*time.Minute + time.Second) }
	assert.ErrorIs(t, otp.Verify("03001234567", result.Fallback), ErrOTPExpired)
}
