package models

import "time"

// OTPPurpose scopes a one-time code to a single flow. A code issued for
// one purpose never validates under another.
type OTPPurpose string

const (
	OTPPurposeSignup OTPPurpose = "signup"
	OTPPurposeLogin  OTPPurpose = "login"
	OTPPurposeReset  OTPPurpose = "reset"
)

// OTP is a short-lived one-time code bound to (phone, purpose). At most
// one active record exists per pair: issuing a new code deletes the old
// rows first. Verified codes cannot be consumed again, and a record is
// destroyed after too many failed attempts.
type OTP struct {
	ID        string     `json:"id"`
	Phone     string     `json:"phone"`
	Code      string     `json:"-"`
	Purpose   OTPPurpose `json:"purpose"`
	ExpiresAt time.Time  `json:"expiresAt"`
	Verified  bool       `json:"verified"`
	Attempts  int        `json:"attempts"`
	CreatedAt time.Time  `json:"createdAt"`
}

// Expired reports whether the code is past its expiry at the given time.
func (o OTP) Expired(now time.Time) bool { return !now.Before(o.ExpiresAt) }
