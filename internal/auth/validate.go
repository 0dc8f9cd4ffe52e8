package auth

import (
	"strings"
	"unicode/utf8"
)

// Fixed user-facing messages. The wire contract depends on these being
// stable.
const (
	MsgMalformedRequest   = "Malformed Request."
	MsgUsernameRequired   = "Username is a required field."
	MsgUsernameTooShort   = "Username must have at least 3 characters."
	MsgUsernameTooLong    = "Username can't have more than 20 characters."
	MsgEmailRequired      = "Email is a required field."
	MsgPasswordRequired   = "Password is a required field."
	MsgPasswordTooShort   = "Password should have at least 8 characters."
	MsgCaptchaRequired    = "Please complete the captcha."
	MsgCaptchaRejected    = "Captcha token is invalid or expired."
	MsgCaptchaUnavailable = "Internal server error on captcha verification."
	MsgUserExists         = "The user already exists."
	MsgInvalidLogin       = "The email or password are incorrect."
	MsgUserNotFound       = "User not found."
	MsgInvalidToken       = "Invalid token provided."
	MsgSessionFailed      = "Internal server error on session creation."
	MsgDatabaseError      = "Internal database error."
)

const (
	usernameMinLen = 3
	usernameMaxLen = 20
	passwordMinLen = 8
)

// RegisterCredentials is the registration input before validation.
type RegisterCredentials struct {
	Username     string
	Email        string
	Password     string
	CaptchaToken string
}

// LoginCredentials is the login input before validation.
type LoginCredentials struct {
	Email        string
	Password     string
	CaptchaToken string
}

// ValidateRegister runs the registration rules in order and returns the
// first failure. Pure, no I/O.
func ValidateRegister(c RegisterCredentials) *Error {
	username := strings.TrimSpace(c.Username)
	if username == "" {
		return badRequest(KindValidationFailure, MsgUsernameRequired)
	}
	// length rules count characters, not bytes
	if utf8.RuneCountInString(username) < usernameMinLen {
		return badRequest(KindValidationFailure, MsgUsernameTooShort)
	}
	if utf8.RuneCountInString(username) > usernameMaxLen {
		return badRequest(KindValidationFailure, MsgUsernameTooLong)
	}
	if strings.TrimSpace(c.Email) == "" {
		return badRequest(KindValidationFailure, MsgEmailRequired)
	}
	password := strings.TrimSpace(c.Password)
	if password == "" {
		return badRequest(KindValidationFailure, MsgPasswordRequired)
	}
	if utf8.RuneCountInString(password) < passwordMinLen {
		return badRequest(KindValidationFailure, MsgPasswordTooShort)
	}
	if c.CaptchaToken == "" {
		return badRequest(KindValidationFailure, MsgCaptchaRequired)
	}
	return nil
}

// ValidateLogin runs the login rules in order and returns the first
// failure. Login intentionally carries no length rules; weak or long
// values fail at the backend, matching registration-time checks only.
func ValidateLogin(c LoginCredentials) *Error {
	if strings.TrimSpace(c.Email) == "" {
		return badRequest(KindValidationFailure, MsgEmailRequired)
	}
	if strings.TrimSpace(c.Password) == "" {
		return badRequest(KindValidationFailure, MsgPasswordRequired)
	}
	if c.CaptchaToken == "" {
		return badRequest(KindValidationFailure, MsgCaptchaRequired)
	}
	return nil
}
