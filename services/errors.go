package services

import "errors"

// Ledger and auth error taxonomy. These are shown verbatim or near-verbatim
// to the end user, so the messages stay user-facing.
var (
	ErrInvalidPhone        = errors.New("invalid mobile number (11 digits required)")
	ErrDuplicatePhone      = errors.New("account already exists, please login")
	ErrAccountNotFound     = errors.New("account not found, please register")
	ErrInvalidCredentials  = errors.New("invalid password")
	ErrInsufficientFunds   = errors.New("insufficient balance")
	ErrInvalidPlan         = errors.New("invalid plan")
	ErrTransactionNotFound = errors.New("transaction could not be found")
	ErrInvalidOTP          = errors.New("invalid OTP code")
	ErrOTPExpired          = errors.New("OTP expired, request again")
)
