package services

import (
	"context"
	"fmt"
	"time"

	"safespace_backend/internal/auth"
	"safespace_backend/internal/email"
	"safespace_backend/internal/logger"
	"safespace_backend/internal/models"
	"safespace_backend/internal/otp"
	"safespace_backend/internal/repositories"
	"safespace_backend/internal/services/dto"
	"safespace_backend/internal/sms"
	"safespace_backend/internal/token"
	"safespace_backend/internal/workers"
	"safespace_backend/pkg/apperrors"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// AuthService orchestrates registration, the four login modalities, token
// refresh, logout and the password flows. The *gorm.DB argument is the
// request-scoped handle injected by the DB middleware.
type AuthService interface {
	Register(ctx context.Context, db *gorm.DB, req *dto.RegisterRequest) (*dto.AuthResponse, error)
	LoginWithEmailPassword(ctx context.Context, db *gorm.DB, req *dto.EmailPasswordLoginRequest) (*dto.AuthResponse, error)
	LoginWithMobilePassword(ctx context.Context, db *gorm.DB, req *dto.MobilePasswordLoginRequest) (*dto.AuthResponse, error)
	SendEmailOTP(ctx context.Context, db *gorm.DB, emailAddr string) error
	VerifyEmailOTP(ctx context.Context, db *gorm.DB, emailAddr, code string) (*dto.AuthResponse, error)
	SendMobileOTP(ctx context.Context, db *gorm.DB, mobile string) error
	VerifyMobileOTP(ctx context.Context, db *gorm.DB, mobile, code string) (*dto.AuthResponse, error)
	RefreshAccessToken(ctx context.Context, db *gorm.DB, refreshToken string) (string, error)
	Logout(ctx context.Context, db *gorm.DB, accessToken, refreshToken string) error
	ForgotPassword(ctx context.Context, db *gorm.DB, emailAddr string) error
	ResetPassword(ctx context.Context, db *gorm.DB, emailAddr, tokenStr, newPassword string) error
	ChangePassword(ctx context.Context, db *gorm.DB, userID, currentPassword, newPassword string) error
}

type AuthServiceImpl struct {
	userRepo    repositories.UserRepository
	tokens      *token.Service
	otpStore    *otp.Store
	mail        email.Provider
	sms         sms.Provider
	mailWorker  *workers.MailWorker
	frontendURL string
}

func NewAuthService(
	userRepo repositories.UserRepository,
	tokens *token.Service,
	otpStore *otp.Store,
	mailProvider email.Provider,
	smsProvider sms.Provider,
	mailWorker *workers.MailWorker,
	frontendURL string,
) AuthService {
	return &AuthServiceImpl{
		userRepo:    userRepo,
		tokens:      tokens,
		otpStore:    otpStore,
		mail:        mailProvider,
		sms:         smsProvider,
		mailWorker:  mailWorker,
		frontendURL: frontendURL,
	}
}

// Register creates the user, opens a session and sends the welcome mail.
// A failed welcome mail fails the whole registration response (the account
// does exist at that point; the client is expected to retry login).
func (s *AuthServiceImpl) Register(ctx context.Context, db *gorm.DB, req *dto.RegisterRequest) (*dto.AuthResponse, error) {
	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	user := &models.User{
		Name:          req.Name,
		Email:         req.Email,
		PasswordHash:  hash,
		Mobile:        req.Mobile,
		Role:          "user",
		Notifications: datatypes.NewJSONType(models.DefaultNotificationSettings()),
	}

	if err := s.userRepo.Create(db, user); err != nil {
		if apperrors.Is(err, repositories.ErrUserAlreadyExists) {
			if req.Mobile != nil {
				if _, mErr := s.userRepo.FindByMobile(db, *req.Mobile); mErr == nil {
					return nil, apperrors.ErrMobileAlreadyExists
				}
			}
			return nil, apperrors.ErrEmailAlreadyExists
		}
		return nil, apperrors.DependencyError(err, "database")
	}

	resp, err := s.issueSession(ctx, db, user)
	if err != nil {
		return nil, err
	}

	if err := s.mail.Send(ctx, email.WelcomeEmail(user.Email, user.Name, s.frontendURL)); err != nil {
		logger.CtxWithError(ctx, "welcome mail failed", err, "email", user.Email)
		return nil, apperrors.DependencyError(err, "mail")
	}

	return resp, nil
}

// LoginWithEmailPassword keeps the failure generic on purpose: unknown email
// and wrong password are indistinguishable to the caller.
func (s *AuthServiceImpl) LoginWithEmailPassword(ctx context.Context, db *gorm.DB, req *dto.EmailPasswordLoginRequest) (*dto.AuthResponse, error) {
	user, err := s.userRepo.FindByEmail(db, req.Email)
	if err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, apperrors.DependencyError(err, "database")
	}

	if !auth.CheckPasswordHash(req.Password, user.PasswordHash) {
		return nil, apperrors.ErrInvalidCredentials
	}

	return s.issueSession(ctx, db, user)
}

// LoginWithMobilePassword is more specific than the email variant: unknown
// mobile is a 404, wrong password a 401. Historical behavior, kept as is.
func (s *AuthServiceImpl) LoginWithMobilePassword(ctx context.Context, db *gorm.DB, req *dto.MobilePasswordLoginRequest) (*dto.AuthResponse, error) {
	user, err := s.userRepo.FindByMobile(db, req.Mobile)
	if err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.DependencyError(err, "database")
	}

	if !auth.CheckPasswordHash(req.Password, user.PasswordHash) {
		return nil, apperrors.ErrInvalidCredentials
	}

	return s.issueSession(ctx, db, user)
}

func (s *AuthServiceImpl) SendEmailOTP(ctx context.Context, db *gorm.DB, emailAddr string) error {
	user, err := s.lookupByIdentifier(db, emailAddr, "")
	if err != nil {
		return err
	}

	code, err := s.storeFreshCode(ctx, emailAddr)
	if err != nil {
		return err
	}

	if err := s.mail.Send(ctx, email.OTPEmail(user.Email, code)); err != nil {
		logger.CtxWithError(ctx, "otp mail failed", err, "email", user.Email)
		return apperrors.DependencyError(err, "mail")
	}
	return nil
}

func (s *AuthServiceImpl) VerifyEmailOTP(ctx context.Context, db *gorm.DB, emailAddr, code string) (*dto.AuthResponse, error) {
	if err := s.consumeCode(ctx, emailAddr, code); err != nil {
		return nil, err
	}

	user, err := s.lookupByIdentifier(db, emailAddr, "")
	if err != nil {
		return nil, err
	}
	return s.issueSession(ctx, db, user)
}

func (s *AuthServiceImpl) SendMobileOTP(ctx context.Context, db *gorm.DB, mobile string) error {
	user, err := s.lookupByIdentifier(db, "", mobile)
	if err != nil {
		return err
	}

	code, err := s.storeFreshCode(ctx, mobile)
	if err != nil {
		return err
	}

	message := fmt.Sprintf("Your OTP for login is: %s. It is valid for 5 minutes.", code)
	if err := s.sms.Send(ctx, *user.Mobile, message); err != nil {
		logger.CtxWithError(ctx, "otp sms failed", err, "mobile", *user.Mobile)
		return apperrors.DependencyError(err, "sms")
	}
	return nil
}

func (s *AuthServiceImpl) VerifyMobileOTP(ctx context.Context, db *gorm.DB, mobile, code string) (*dto.AuthResponse, error) {
	if err := s.consumeCode(ctx, mobile, code); err != nil {
		return nil, err
	}

	user, err := s.lookupByIdentifier(db, "", mobile)
	if err != nil {
		return nil, err
	}
	return s.issueSession(ctx, db, user)
}

// RefreshAccessToken performs the two-part refresh-token check: the token
// must match the copy stored on a user record AND verify cryptographically.
// The stored copy is the revocation lever: logout clears it and the token
// dies before its cryptographic expiry.
func (s *AuthServiceImpl) RefreshAccessToken(ctx context.Context, db *gorm.DB, refreshToken string) (string, error) {
	_, err := s.userRepo.FindByRefreshToken(db, refreshToken)
	if err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return "", apperrors.ErrInvalidRefreshToken
		}
		return "", apperrors.DependencyError(err, "database")
	}

	if _, err := s.tokens.VerifyRefreshToken(refreshToken); err != nil {
		if apperrors.Is(err, token.ErrTokenExpired) {
			return "", apperrors.ErrRefreshTokenExpired
		}
		return "", apperrors.ErrInvalidRefreshToken
	}

	accessToken, err := s.tokens.RefreshAccess(refreshToken)
	if err != nil {
		return "", apperrors.InternalError(err)
	}
	return accessToken, nil
}

// Logout blacklists the access token (when given) and clears the stored
// refresh token, identifying the user by whichever token is available.
func (s *AuthServiceImpl) Logout(ctx context.Context, db *gorm.DB, accessToken, refreshToken string) error {
	if accessToken == "" && refreshToken == "" {
		return apperrors.NewBadRequestError("accessToken or refreshToken is required for logout")
	}

	if accessToken != "" {
		if err := s.tokens.BlacklistAccessToken(ctx, accessToken); err != nil {
			if apperrors.Is(err, token.ErrStoreUnavailable) {
				return apperrors.DependencyError(err, "token")
			}
			return apperrors.NewBadRequestError("Invalid access token")
		}
	}

	switch {
	case refreshToken != "":
		user, err := s.userRepo.FindByRefreshToken(db, refreshToken)
		if err != nil {
			if apperrors.Is(err, repositories.ErrUserNotFound) {
				return apperrors.ErrUserNotFound
			}
			return apperrors.DependencyError(err, "database")
		}
		return s.clearSession(db, user.ID)

	default:
		// Access token only: it was just verified by the blacklist step.
		claims, err := s.tokens.VerifyAccessToken(accessToken)
		if err != nil {
			return apperrors.NewBadRequestError("Invalid access token")
		}
		user, err := s.userRepo.FindByID(db, claims.UserID)
		if err != nil {
			if apperrors.Is(err, repositories.ErrUserNotFound) {
				return apperrors.ErrUserNotFound
			}
			return apperrors.DependencyError(err, "database")
		}
		return s.clearSession(db, user.ID)
	}
}

// ForgotPassword responds identically whether or not the account exists, to
// prevent email enumeration. Only the mail dispatch can fail it.
func (s *AuthServiceImpl) ForgotPassword(ctx context.Context, db *gorm.DB, emailAddr string) error {
	user, err := s.userRepo.FindByEmail(db, emailAddr)
	if err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			logger.CtxInfo(ctx, "password reset requested for unknown email")
			return nil
		}
		return apperrors.DependencyError(err, "database")
	}

	resetToken, err := s.tokens.GeneratePasswordResetToken(user.ID)
	if err != nil {
		return apperrors.InternalError(err)
	}

	expiry := time.Now().Add(time.Hour)
	if err := s.userRepo.SetPasswordReset(db, user.ID, resetToken, expiry); err != nil {
		return apperrors.DependencyError(err, "database")
	}

	resetURL := fmt.Sprintf("%s/reset-password?token=%s&email=%s", s.frontendURL, resetToken, user.Email)
	if err := s.mail.Send(ctx, email.PasswordResetEmail(user.Email, user.Name, resetURL)); err != nil {
		logger.CtxWithError(ctx, "reset mail failed", err, "email", user.Email)
		return apperrors.DependencyError(err, "mail")
	}
	return nil
}

// ResetPassword accepts a token only when the stored copy matches, is
// unexpired, and the token itself verifies and names the same user. The new
// hash and the cleared reset fields land in one write.
func (s *AuthServiceImpl) ResetPassword(ctx context.Context, db *gorm.DB, emailAddr, tokenStr, newPassword string) error {
	if err := auth.ValidatePassword(newPassword); err != nil {
		return err
	}

	user, err := s.userRepo.FindForPasswordReset(db, emailAddr, tokenStr)
	if err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return apperrors.ErrInvalidResetToken
		}
		return apperrors.DependencyError(err, "database")
	}

	claims, err := s.tokens.VerifyPasswordResetToken(tokenStr)
	if err != nil || claims.UserID != user.ID {
		return apperrors.ErrInvalidResetToken
	}

	hash, err := auth.HashPassword(newPassword)
	if err != nil {
		return apperrors.InternalError(err)
	}

	if err := s.userRepo.UpdatePasswordAndClearReset(db, user.ID, hash); err != nil {
		return apperrors.DependencyError(err, "database")
	}

	// Confirmation is best effort; the reset already succeeded.
	s.mailWorker.Enqueue(email.PasswordResetDoneEmail(user.Email, user.Name, s.frontendURL))
	return nil
}

func (s *AuthServiceImpl) ChangePassword(ctx context.Context, db *gorm.DB, userID, currentPassword, newPassword string) error {
	if err := auth.ValidatePassword(newPassword); err != nil {
		return err
	}

	user, err := s.userRepo.FindByID(db, userID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return apperrors.ErrUserNotFound
		}
		return apperrors.DependencyError(err, "database")
	}

	if !auth.CheckPasswordHash(currentPassword, user.PasswordHash) {
		return apperrors.ErrWrongPassword
	}

	hash, err := auth.HashPassword(newPassword)
	if err != nil {
		return apperrors.InternalError(err)
	}

	if err := s.userRepo.UpdatePassword(db, user.ID, hash); err != nil {
		return apperrors.DependencyError(err, "database")
	}
	return nil
}

// issueSession mints the access/refresh pair and persists the refresh token
// on the user record, making it the single active session marker.
func (s *AuthServiceImpl) issueSession(ctx context.Context, db *gorm.DB, user *models.User) (*dto.AuthResponse, error) {
	accessToken, err := s.tokens.GenerateAccessToken(user.ID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	refreshToken, err := s.tokens.GenerateRefreshToken(user.ID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	if err := s.userRepo.SetRefreshToken(db, user.ID, &refreshToken); err != nil {
		return nil, apperrors.DependencyError(err, "database")
	}

	logger.CtxInfo(ctx, "session issued", "user_id", user.ID)

	return &dto.AuthResponse{
		User: dto.NewUserResponse(user),
		Tokens: dto.TokenPair{
			AccessToken:  accessToken,
			RefreshToken: refreshToken,
		},
	}, nil
}

func (s *AuthServiceImpl) clearSession(db *gorm.DB, userID string) error {
	if err := s.userRepo.SetRefreshToken(db, userID, nil); err != nil {
		return apperrors.DependencyError(err, "database")
	}
	return nil
}

// lookupByIdentifier finds the user for an OTP flow. Unknown identifiers are
// reported explicitly (404), unlike the email+password flow.
func (s *AuthServiceImpl) lookupByIdentifier(db *gorm.DB, emailAddr, mobile string) (*models.User, error) {
	var (
		user *models.User
		err  error
	)
	if emailAddr != "" {
		user, err = s.userRepo.FindByEmail(db, emailAddr)
	} else {
		user, err = s.userRepo.FindByMobile(db, mobile)
	}
	if err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.DependencyError(err, "database")
	}
	return user, nil
}

// storeFreshCode generates a code and stores it keyed by the identifier,
// replacing any code from an earlier send.
func (s *AuthServiceImpl) storeFreshCode(ctx context.Context, identifier string) (string, error) {
	code, err := otp.GenerateCode()
	if err != nil {
		return "", apperrors.InternalError(err)
	}
	if err := s.otpStore.Save(ctx, identifier, code); err != nil {
		return "", apperrors.DependencyError(err, "otp")
	}
	return code, nil
}

func (s *AuthServiceImpl) consumeCode(ctx context.Context, identifier, code string) error {
	err := s.otpStore.Verify(ctx, identifier, code)
	switch {
	case err == nil:
		return nil
	case apperrors.Is(err, otp.ErrCodeExpired):
		return apperrors.ErrOTPExpiredOrNotFound
	case apperrors.Is(err, otp.ErrCodeMismatch):
		return apperrors.ErrInvalidOTP
	default:
		return apperrors.DependencyError(err, "otp")
	}
}
