package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"safespace_backend/internal/config"
	"safespace_backend/internal/middleware"
	"safespace_backend/internal/services/dto"
	"safespace_backend/internal/validator"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeAuthService struct {
	logoutAccess  string
	logoutRefresh string
	refreshArg    string
	resp          *dto.AuthResponse
}

func cannedAuthResponse() *dto.AuthResponse {
	return &dto.AuthResponse{
		User: &dto.UserResponse{
			ID:    "user-1",
			Name:  "Test User",
			Email: "kate@example.com",
			Role:  "user",
		},
		Tokens: dto.TokenPair{
			AccessToken:  "canned-access-token",
			RefreshToken: "canned-refresh-token",
		},
	}
}

func (s *fakeAuthService) Register(context.Context, *gorm.DB, *dto.RegisterRequest) (*dto.AuthResponse, error) {
	return s.resp, nil
}

func (s *fakeAuthService) LoginWithEmailPassword(context.Context, *gorm.DB, *dto.EmailPasswordLoginRequest) (*dto.AuthResponse, error) {
	return s.resp, nil
}

func (s *fakeAuthService) LoginWithMobilePassword(context.Context, *gorm.DB, *dto.MobilePasswordLoginRequest) (*dto.AuthResponse, error) {
	return s.resp, nil
}

func (s *fakeAuthService) SendEmailOTP(context.Context, *gorm.DB, string) error { return nil }

func (s *fakeAuthService) VerifyEmailOTP(context.Context, *gorm.DB, string, string) (*dto.AuthResponse, error) {
	return s.resp, nil
}

func (s *fakeAuthService) SendMobileOTP(context.Context, *gorm.DB, string) error { return nil }

func (s *fakeAuthService) VerifyMobileOTP(context.Context, *gorm.DB, string, string) (*dto.AuthResponse, error) {
	return s.resp, nil
}

func (s *fakeAuthService) RefreshAccessToken(_ context.Context, _ *gorm.DB, refreshToken string) (string, error) {
	s.refreshArg = refreshToken
	return "fresh-access-token", nil
}

func (s *fakeAuthService) Logout(_ context.Context, _ *gorm.DB, accessToken, refreshToken string) error {
	s.logoutAccess = accessToken
	s.logoutRefresh = refreshToken
	return nil
}

func (s *fakeAuthService) ForgotPassword(context.Context, *gorm.DB, string) error { return nil }

func (s *fakeAuthService) ResetPassword(context.Context, *gorm.DB, string, string, string) error {
	return nil
}

func (s *fakeAuthService) ChangePassword(context.Context, *gorm.DB, string, string, string) error {
	return nil
}

func newHandlerEnv(t *testing.T) (*gin.Engine, *fakeAuthService) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{}
	cfg.Server.Env = "test"
	cfg.JWT.AccessTTLMin = 15
	cfg.JWT.RefreshTTLDay = 7

	svc := &fakeAuthService{resp: cannedAuthResponse()}
	handler := NewAuthHandler(NewBaseHandler(validator.New()), svc, nil, cfg)

	router := gin.New()
	router.Use(middleware.DBMiddleware(&gorm.DB{}))
	api := router.Group("/api/v1")
	handler.RegisterRoutes(api)
	return router, svc
}

func doJSON(t *testing.T, router *gin.Engine, method, path, body string, configure func(*http.Request)) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if configure != nil {
		configure(req)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func cookieByName(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func TestRegister_SetsStrictSessionCookies(t *testing.T) {
	router, _ := newHandlerEnv(t)

	rec := doJSON(t, router, http.MethodPost, "/api/v1/auth/register",
		`{"name":"Test User","email":"kate@example.com","password":"super_password123"}`, nil)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), "canned-access-token")

	access := cookieByName(rec, "accessToken")
	require.NotNil(t, access)
	assert.Equal(t, "canned-access-token", access.Value)
	assert.Equal(t, 15*60, access.MaxAge)
	assert.True(t, access.HttpOnly)
	assert.False(t, access.Secure)
	assert.Equal(t, http.SameSiteStrictMode, access.SameSite)

	refresh := cookieByName(rec, "refreshToken")
	require.NotNil(t, refresh)
	assert.Equal(t, 7*24*3600, refresh.MaxAge)
	assert.True(t, refresh.HttpOnly)
}

func TestRegister_ValidationFailure(t *testing.T) {
	router, _ := newHandlerEnv(t)

	rec := doJSON(t, router, http.MethodPost, "/api/v1/auth/register",
		`{"name":"T","email":"not-an-email","password":"123"}`, nil)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "VALIDATION_FAILED")
}

func TestLoginMobilePassword_UsesLaxCookies(t *testing.T) {
	router, _ := newHandlerEnv(t)

	rec := doJSON(t, router, http.MethodPost, "/api/v1/auth/login/mobile-password",
		`{"mobile":"+77010000001","password":"super_password123"}`, nil)

	require.Equal(t, http.StatusOK, rec.Code)
	access := cookieByName(rec, "accessToken")
	require.NotNil(t, access)
	assert.Equal(t, http.SameSiteLaxMode, access.SameSite)
}

func TestRefreshToken_FromCookie(t *testing.T) {
	router, svc := newHandlerEnv(t)

	rec := doJSON(t, router, http.MethodPost, "/api/v1/auth/refresh-token", "", func(req *http.Request) {
		req.AddCookie(&http.Cookie{Name: "refreshToken", Value: "cookie-refresh-token"})
	})

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "cookie-refresh-token", svc.refreshArg)
	assert.Contains(t, rec.Body.String(), "fresh-access-token")

	access := cookieByName(rec, "accessToken")
	require.NotNil(t, access)
	assert.Equal(t, "fresh-access-token", access.Value)
}

func TestRefreshToken_MissingEverywhere(t *testing.T) {
	router, _ := newHandlerEnv(t)

	rec := doJSON(t, router, http.MethodPost, "/api/v1/auth/refresh-token", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLogout_PassesTokensAndClearsCookies(t *testing.T) {
	router, svc := newHandlerEnv(t)

	rec := doJSON(t, router, http.MethodPost, "/api/v1/auth/logout",
		`{"refreshToken":"body-refresh-token"}`, func(req *http.Request) {
			req.Header.Set("Authorization", "Bearer header-access-token")
		})

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "header-access-token", svc.logoutAccess)
	assert.Equal(t, "body-refresh-token", svc.logoutRefresh)

	access := cookieByName(rec, "accessToken")
	require.NotNil(t, access)
	assert.Empty(t, access.Value)
	assert.Less(t, access.MaxAge, 0)
}

func TestLogoutSession_ClearsCookiesWithoutRevocation(t *testing.T) {
	router, svc := newHandlerEnv(t)

	rec := doJSON(t, router, http.MethodPost, "/api/v1/auth/logout/session", "", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, svc.logoutAccess)
	assert.Empty(t, svc.logoutRefresh)

	refresh := cookieByName(rec, "refreshToken")
	require.NotNil(t, refresh)
	assert.Less(t, refresh.MaxAge, 0)
}

func TestResetPassword_RequiresEmailQuery(t *testing.T) {
	router, _ := newHandlerEnv(t)

	rec := doJSON(t, router, http.MethodPost, "/api/v1/auth/reset-password",
		`{"token":"some-token","newPassword":"new_password1"}`, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, router, http.MethodPost, "/api/v1/auth/reset-password?email=kate@example.com",
		`{"token":"some-token","newPassword":"new_password1"}`, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}
