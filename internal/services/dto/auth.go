package dto

// =======================
// Auth request DTOs
// =======================

type RegisterRequest struct {
	Name     string  `json:"name" validate:"required,min=2"`
	Email    string  `json:"email" validate:"required,email"`
	Password string  `json:"password" validate:"required,min=6"`
	Mobile   *string `json:"mobile" validate:"omitempty,mobile"`
}

type EmailPasswordLoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type MobilePasswordLoginRequest struct {
	Mobile   string `json:"mobile" validate:"required,mobile"`
	Password string `json:"password" validate:"required"`
}

type EmailOTPSendRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type EmailOTPVerifyRequest struct {
	Email string `json:"email" validate:"required,email"`
	OTP   string `json:"otp" validate:"required,len=6,numeric"`
}

type MobileOTPSendRequest struct {
	Mobile string `json:"mobile" validate:"required,mobile"`
}

type MobileOTPVerifyRequest struct {
	Mobile string `json:"mobile" validate:"required,mobile"`
	OTP    string `json:"otp" validate:"required,len=6,numeric"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

// LogoutRequest: the access token travels in the Authorization header; the
// body optionally carries the refresh token. Either one is enough.
type LogoutRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type ResetPasswordRequest struct {
	Token       string `json:"token" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required,min=6"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=6"`
}

// =======================
// Auth response DTOs
// =======================

// TokenPair is returned to clients that store tokens themselves (mobile);
// browser clients rely on the cookies instead.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// AuthResponse is the success shape of every login variant.
type AuthResponse struct {
	User   *UserResponse `json:"user"`
	Tokens TokenPair     `json:"tokens"`
}

type RefreshResponse struct {
	AccessToken string `json:"accessToken"`
}
