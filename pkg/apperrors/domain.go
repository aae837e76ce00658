package apperrors

import (
	"net/http"
)

// Predefined errors for the authentication domain. Handlers compare against
// these with apperrors.Is; messages are safe to show to clients.

// ErrInvalidCredentials deliberately does not distinguish "unknown email"
// from "wrong password" to prevent account enumeration on the email flow.
var ErrInvalidCredentials = New(
	CodeInvalidCredentials,
	"auth",
	"Invalid email or password",
	http.StatusUnauthorized,
)

// ErrUserNotFound is used by the mobile and OTP flows, which historically
// signal an unknown identifier explicitly.
var ErrUserNotFound = New(
	CodeUserNotFound,
	"auth",
	"User not found",
	http.StatusNotFound,
)

// ErrTokenUserNotFound covers a validly signed token whose subject no
// longer exists. This is an authentication failure, not a lookup miss,
// so it carries a 401 unlike ErrUserNotFound.
var ErrTokenUserNotFound = New(
	CodeUserNotFound,
	"token",
	"Unauthorized access. User not found.",
	http.StatusUnauthorized,
)

var ErrEmailAlreadyExists = New(
	CodeAlreadyExists,
	"auth",
	"User already exists with this email",
	http.StatusBadRequest,
)

var ErrMobileAlreadyExists = New(
	CodeAlreadyExists,
	"auth",
	"User already exists with this mobile number",
	http.StatusBadRequest,
)

var ErrWeakPassword = New(
	CodeValidationFailed,
	"auth",
	"Password must be at least 6 characters long",
	http.StatusBadRequest,
)

var ErrWrongPassword = New(
	CodeInvalidCredentials,
	"auth",
	"Current password is incorrect",
	http.StatusBadRequest,
)

var ErrOTPExpiredOrNotFound = New(
	CodeOTPExpired,
	"otp",
	"OTP expired or not found",
	http.StatusUnauthorized,
)

var ErrInvalidOTP = New(
	CodeOTPInvalid,
	"otp",
	"Invalid OTP",
	http.StatusUnauthorized,
)

var ErrInvalidToken = New(
	CodeInvalidToken,
	"token",
	"Unauthorized access. Invalid token.",
	http.StatusUnauthorized,
)

var ErrTokenExpired = New(
	CodeTokenExpired,
	"token",
	"Access token expired. Please refresh your token.",
	http.StatusUnauthorized,
)

var ErrTokenRevoked = New(
	CodeTokenRevoked,
	"token",
	"Unauthorized access. Token has been revoked.",
	http.StatusUnauthorized,
)

var ErrInvalidRefreshToken = New(
	CodeInvalidRefreshToken,
	"token",
	"Invalid refresh token",
	http.StatusUnauthorized,
)

var ErrRefreshTokenExpired = New(
	CodeRefreshTokenExpired,
	"token",
	"Refresh token expired. Please login again.",
	http.StatusUnauthorized,
)

var ErrNoSession = New(
	CodeNoSession,
	"auth",
	"Unauthorized access. No active session.",
	http.StatusUnauthorized,
)

var ErrInvalidResetToken = New(
	CodeInvalidToken,
	"auth",
	"Invalid or expired password reset token",
	http.StatusBadRequest,
)

var ErrInvalidRole = New(
	CodeInvalidRole,
	"auth",
	"Forbidden access. Invalid user role.",
	http.StatusForbidden,
)
