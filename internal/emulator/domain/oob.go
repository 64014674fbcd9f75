package domain

import "time"

// OobRequestType is the kind of out-of-band code.
type OobRequestType string

const (
	OobVerifyEmail   OobRequestType = "VERIFY_EMAIL"
	OobPasswordReset OobRequestType = "PASSWORD_RESET"
)

// OobCode is an out-of-band code that would have been emailed to the user.
// The emulator keeps them so tests can read them back.
type OobCode struct {
	Code        string
	Email       string
	LocalID     string
	RequestType OobRequestType
	Locale      string
	ExpiresAt   time.Time
	CreatedAt   time.Time
}
