package services

import (
	"context"
	"sync"
	"time"

	"stockgrow/database"
	"stockgrow/models"
	"stockgrow/utils"

	"github.com/sirupsen/logrus"
)

// MasterOTP is always accepted. Operational backup code.
const MasterOTP = "786786"

const otpTTL = 5 * time.Minute

// Notifier delivers a message to a phone number. Delivery failure is
// non-fatal for the OTP flow.
type Notifier interface {
	Send(ctx context.Context, mobile, message string) bool
}

type pendingOTP struct {
	mobile  string
	code    string
	expires time.Time
}

// OTPService issues and verifies one pending code at a time.
type OTPService struct {
	mu       sync.Mutex
	pending  *pendingOTP
	store    *database.Store
	notifier Notifier
	now      func() time.Time
}

func NewOTPService(store *database.Store, notifier Notifier) *OTPService {
	return &OTPService{store: store, notifier: notifier, now: time.Now}
}

// SendResult tells the controller whether the code went out over the
// notifier; when it did not, Fallback carries the code so the caller can
// present it through an alternate visible channel instead of failing.
type SendResult struct {
	Delivered bool
	Fallback  string
}

// Send generates and dispatches an OTP. In reset mode the number must be
// registered; in signup mode it must not be.
func (s *OTPService) Send(ctx context.Context, mobile string, resetMode bool) (SendResult, error) {
	normalized := utils.NormalizeMobile(mobile)

	var exists bool
	s.store.View(func(snap *models.Snapshot) {
		exists = findUserByMobile(snap, normalized) != nil
	})
	if resetMode && !exists {
		return SendResult{}, ErrAccountNotFound
	}
	if !resetMode && exists {
		return SendResult{}, ErrDuplicatePhone
	}

	code := utils.RandomOTP()
	s.mu.Lock()
	s.pending = &pendingOTP{mobile: normalized, code: code, expires: s.now().Add(otpTTL)}
	s.mu.Unlock()

	message := "*StockGrow Verification Code*\n\nYour OTP is: *" + code + "*\n\nUse this code to verify your account."
	if resetMode {
		message = "*StockGrow Password Reset*\n\nYour OTP is: *" + code + "*\n\nUse this to reset your password."
	}

	if s.notifier != nil && s.notifier.Send(ctx, normalized, message) {
		return SendResult{Delivered: true}, nil
	}
	logrus.Warnf("⚠️ OTP delivery failed for %s, falling back to visible code", normalized)
	return SendResult{Delivered: false, Fallback: code}, nil
}

// Verify checks the code against the pending OTP. The master code always
// passes. A consumed code cannot be replayed.
func (s *OTPService) Verify(mobile, code string) error {
	if code == MasterOTP {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.pending == nil {
		return ErrInvalidOTP
	}
	if s.pending.mobile != utils.NormalizeMobile(mobile) {
		return ErrInvalidOTP
	}
	if s.now().After(s.pending.expires) {
		return ErrOTPExpired
	}
	if s.pending.code != code {
		return ErrInvalidOTP
	}
	s.pending = nil
	return nil
}
