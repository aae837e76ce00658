package handlers

import (
	"net/http"
	"strings"

	"safespace_backend/internal/config"
	"safespace_backend/internal/middleware"
	"safespace_backend/internal/services"
	"safespace_backend/internal/services/dto"
	"safespace_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
)

const (
	accessTokenCookie  = "accessToken"
	refreshTokenCookie = "refreshToken"
)

type AuthHandler struct {
	*BaseHandler
	authService    services.AuthService
	profileService services.ProfileService
	cfg            *config.Config
}

func NewAuthHandler(base *BaseHandler, authService services.AuthService, profileService services.ProfileService, cfg *config.Config) *AuthHandler {
	return &AuthHandler{
		BaseHandler:    base,
		authService:    authService,
		profileService: profileService,
		cfg:            cfg,
	}
}

// RegisterRoutes mounts the public auth surface. Protected routes
// (change-password, me) are registered separately with the auth middleware.
func (h *AuthHandler) RegisterRoutes(rg *gin.RouterGroup) {
	auth := rg.Group("/auth")
	{
		auth.POST("/register", h.Register)
		auth.POST("/login/email-password", h.LoginEmailPassword)
		auth.POST("/login/mobile-password", h.LoginMobilePassword)
		auth.POST("/login/email-otp/send", h.SendEmailOTP)
		auth.POST("/login/email-otp/verify", h.VerifyEmailOTP)
		auth.POST("/login/mobile-otp/send", h.SendMobileOTP)
		auth.POST("/login/mobile-otp/verify", h.VerifyMobileOTP)
		auth.POST("/refresh-token", h.RefreshToken)
		auth.POST("/logout", h.Logout)
		auth.POST("/logout/session", h.LogoutSession)
		auth.POST("/forgot-password", h.ForgotPassword)
		auth.POST("/reset-password", h.ResetPassword)
	}
}

// RegisterProtectedRoutes mounts the auth routes that require a session.
func (h *AuthHandler) RegisterProtectedRoutes(rg *gin.RouterGroup) {
	auth := rg.Group("/auth")
	{
		auth.POST("/change-password", h.ChangePassword)
		auth.GET("/me", h.Me)
	}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	resp, err := h.authService.Register(c.Request.Context(), h.GetDB(c), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.setSessionCookies(c, resp.Tokens, http.SameSiteStrictMode)
	c.JSON(http.StatusCreated, gin.H{"success": true, "data": resp})
}

func (h *AuthHandler) LoginEmailPassword(c *gin.Context) {
	var req dto.EmailPasswordLoginRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	resp, err := h.authService.LoginWithEmailPassword(c.Request.Context(), h.GetDB(c), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.setSessionCookies(c, resp.Tokens, http.SameSiteStrictMode)
	c.JSON(http.StatusOK, gin.H{"success": true, "data": resp})
}

func (h *AuthHandler) LoginMobilePassword(c *gin.Context) {
	var req dto.MobilePasswordLoginRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	resp, err := h.authService.LoginWithMobilePassword(c.Request.Context(), h.GetDB(c), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.setSessionCookies(c, resp.Tokens, http.SameSiteLaxMode)
	c.JSON(http.StatusOK, gin.H{"success": true, "data": resp})
}

func (h *AuthHandler) SendEmailOTP(c *gin.Context) {
	var req dto.EmailOTPSendRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	if err := h.authService.SendEmailOTP(c.Request.Context(), h.GetDB(c), req.Email); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "OTP sent to your email"})
}

func (h *AuthHandler) VerifyEmailOTP(c *gin.Context) {
	var req dto.EmailOTPVerifyRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	resp, err := h.authService.VerifyEmailOTP(c.Request.Context(), h.GetDB(c), req.Email, req.OTP)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.setSessionCookies(c, resp.Tokens, http.SameSiteLaxMode)
	c.JSON(http.StatusOK, gin.H{"success": true, "data": resp})
}

func (h *AuthHandler) SendMobileOTP(c *gin.Context) {
	var req dto.MobileOTPSendRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	if err := h.authService.SendMobileOTP(c.Request.Context(), h.GetDB(c), req.Mobile); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "OTP sent to your mobile"})
}

func (h *AuthHandler) VerifyMobileOTP(c *gin.Context) {
	var req dto.MobileOTPVerifyRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	resp, err := h.authService.VerifyMobileOTP(c.Request.Context(), h.GetDB(c), req.Mobile, req.OTP)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.setSessionCookies(c, resp.Tokens, http.SameSiteLaxMode)
	c.JSON(http.StatusOK, gin.H{"success": true, "data": resp})
}

// RefreshToken accepts the refresh token from the body or the cookie and
// returns a fresh access token. The refresh token itself is not rotated.
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var req dto.RefreshTokenRequest
	_ = c.ShouldBind(&req)

	refreshToken := req.RefreshToken
	if refreshToken == "" {
		refreshToken, _ = c.Cookie(refreshTokenCookie)
	}
	if refreshToken == "" {
		h.HandleServiceError(c, apperrors.NewBadRequestError("refreshToken is required"))
		return
	}

	accessToken, err := h.authService.RefreshAccessToken(c.Request.Context(), h.GetDB(c), refreshToken)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(accessTokenCookie, accessToken, int(h.cfg.AccessTokenTTL().Seconds()), "/", "", h.cfg.IsProduction(), true)
	c.JSON(http.StatusOK, gin.H{"success": true, "data": dto.RefreshResponse{AccessToken: accessToken}})
}

// Logout revokes the session server-side: the access token is blacklisted
// and the stored refresh token cleared. Tokens come from the bearer header,
// the cookies, or the body.
func (h *AuthHandler) Logout(c *gin.Context) {
	var req dto.LogoutRequest
	_ = c.ShouldBind(&req)

	accessToken := bearerToken(c)
	if accessToken == "" {
		accessToken, _ = c.Cookie(accessTokenCookie)
	}
	refreshToken := req.RefreshToken
	if refreshToken == "" {
		refreshToken, _ = c.Cookie(refreshTokenCookie)
	}

	if err := h.authService.Logout(c.Request.Context(), h.GetDB(c), accessToken, refreshToken); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.clearSessionCookies(c)
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Logged out successfully"})
}

// LogoutSession only clears the cookies. The tokens stay valid until expiry;
// clients that keep tokens elsewhere use POST /auth/logout instead.
func (h *AuthHandler) LogoutSession(c *gin.Context) {
	h.clearSessionCookies(c)
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Session cleared"})
}

// ForgotPassword always reports success so callers cannot probe which
// emails have accounts.
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req dto.ForgotPasswordRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	if err := h.authService.ForgotPassword(c.Request.Context(), h.GetDB(c), req.Email); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "If an account with that email exists, a password reset link has been sent"})
}

func (h *AuthHandler) ResetPassword(c *gin.Context) {
	email := strings.TrimSpace(c.Query("email"))
	if email == "" {
		h.HandleServiceError(c, apperrors.NewBadRequestError("email query parameter is required"))
		return
	}

	var req dto.ResetPasswordRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	if err := h.authService.ResetPassword(c.Request.Context(), h.GetDB(c), email, req.Token, req.NewPassword); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Password has been reset successfully"})
}

func (h *AuthHandler) ChangePassword(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.ChangePasswordRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	if err := h.authService.ChangePassword(c.Request.Context(), h.GetDB(c), userID, req.CurrentPassword, req.NewPassword); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Password changed successfully"})
}

// Me returns the sanitized profile of the authenticated user.
func (h *AuthHandler) Me(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		h.HandleServiceError(c, apperrors.NewUnauthorizedError("User not authenticated"))
		return
	}

	resp, err := h.profileService.GetCurrentUser(c.Request.Context(), h.GetDB(c), user.ID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": resp})
}

func (h *AuthHandler) setSessionCookies(c *gin.Context, tokens dto.TokenPair, sameSite http.SameSite) {
	secure := h.cfg.IsProduction()
	c.SetSameSite(sameSite)
	c.SetCookie(accessTokenCookie, tokens.AccessToken, int(h.cfg.AccessTokenTTL().Seconds()), "/", "", secure, true)
	c.SetCookie(refreshTokenCookie, tokens.RefreshToken, int(h.cfg.RefreshTokenTTL().Seconds()), "/", "", secure, true)
}

func (h *AuthHandler) clearSessionCookies(c *gin.Context) {
	secure := h.cfg.IsProduction()
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(accessTokenCookie, "", -1, "/", "", secure, true)
	c.SetCookie(refreshTokenCookie, "", -1, "/", "", secure, true)
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return ""
}
