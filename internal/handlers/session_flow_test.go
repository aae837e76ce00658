package handlers

import (
	"context"
	"net/http"
	"sync"
	"testing"
	"time"

	"safespace_backend/internal/config"
	"safespace_backend/internal/email"
	"safespace_backend/internal/middleware"
	"safespace_backend/internal/models"
	"safespace_backend/internal/otp"
	"safespace_backend/internal/repositories"
	"safespace_backend/internal/services"
	"safespace_backend/internal/token"
	"safespace_backend/internal/validator"
	"safespace_backend/internal/workers"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// memUserRepo is an in-memory UserRepository backing the wired session
// lifecycle test below, where real services and middleware run against a
// real token store.
type memUserRepo struct {
	mu    sync.Mutex
	users map[string]*models.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: map[string]*models.User{}}
}

func (r *memUserRepo) find(match func(*models.User) bool) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if match(u) {
			copied := *u
			return &copied, nil
		}
	}
	return nil, repositories.ErrUserNotFound
}

func (r *memUserRepo) FindByID(_ *gorm.DB, id string) (*models.User, error) {
	return r.find(func(u *models.User) bool { return u.ID == id })
}

func (r *memUserRepo) FindByEmail(_ *gorm.DB, email string) (*models.User, error) {
	return r.find(func(u *models.User) bool { return u.Email == email })
}

func (r *memUserRepo) FindByMobile(_ *gorm.DB, mobile string) (*models.User, error) {
	return r.find(func(u *models.User) bool { return u.Mobile != nil && *u.Mobile == mobile })
}

func (r *memUserRepo) FindByRefreshToken(_ *gorm.DB, tok string) (*models.User, error) {
	return r.find(func(u *models.User) bool { return u.RefreshToken != nil && *u.RefreshToken == tok })
}

func (r *memUserRepo) FindForPasswordReset(_ *gorm.DB, email, tok string) (*models.User, error) {
	return r.find(func(u *models.User) bool {
		return u.Email == email &&
			u.PasswordResetToken != nil && *u.PasswordResetToken == tok &&
			u.PasswordResetExpiry != nil && u.PasswordResetExpiry.After(time.Now())
	})
}

func (r *memUserRepo) Create(_ *gorm.DB, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == user.Email {
			return repositories.ErrUserAlreadyExists
		}
	}
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	copied := *user
	r.users[user.ID] = &copied
	return nil
}

func (r *memUserRepo) Update(_ *gorm.DB, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.ID]; !ok {
		return repositories.ErrUserNotFound
	}
	copied := *user
	r.users[user.ID] = &copied
	return nil
}

func (r *memUserRepo) UpdateFields(_ *gorm.DB, userID string, fields map[string]interface{}) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[userID]
	if !ok {
		return repositories.ErrUserNotFound
	}
	for k, v := range fields {
		switch k {
		case "refresh_token":
			u.RefreshToken, _ = v.(*string)
		case "password_hash":
			u.PasswordHash = v.(string)
		case "password_reset_token":
			if v == nil {
				u.PasswordResetToken = nil
			} else {
				s := v.(string)
				u.PasswordResetToken = &s
			}
		case "password_reset_expiry":
			if v == nil {
				u.PasswordResetExpiry = nil
			} else {
				t := v.(time.Time)
				u.PasswordResetExpiry = &t
			}
		}
	}
	return nil
}

func (r *memUserRepo) SetRefreshToken(db *gorm.DB, userID string, tok *string) error {
	return r.UpdateFields(db, userID, map[string]interface{}{"refresh_token": tok})
}

func (r *memUserRepo) SetPasswordReset(db *gorm.DB, userID, tok string, expiry time.Time) error {
	return r.UpdateFields(db, userID, map[string]interface{}{
		"password_reset_token":  tok,
		"password_reset_expiry": expiry,
	})
}

func (r *memUserRepo) UpdatePasswordAndClearReset(db *gorm.DB, userID, hash string) error {
	return r.UpdateFields(db, userID, map[string]interface{}{
		"password_hash":         hash,
		"password_reset_token":  nil,
		"password_reset_expiry": nil,
	})
}

func (r *memUserRepo) UpdatePassword(db *gorm.DB, userID, hash string) error {
	return r.UpdateFields(db, userID, map[string]interface{}{"password_hash": hash})
}

type nopMailProvider struct{}

func (nopMailProvider) Send(context.Context, *email.Email) error { return nil }
func (nopMailProvider) Validate() error                          { return nil }

type nopSMSProvider struct{}

func (nopSMSProvider) Send(context.Context, string, string) error { return nil }

// newWiredEnv assembles the full request pipeline: real auth and profile
// services, real auth middleware, and a real token store on miniredis. Only
// the database and the outbound providers are replaced.
func newWiredEnv(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	tokens := token.NewService(token.Config{
		AccessSecret:  []byte("access-secret"),
		RefreshSecret: []byte("refresh-secret"),
		ResetSecret:   []byte("reset-secret"),
		OpTimeout:     time.Second,
	}, rdb)
	otpStore := otp.NewStore(rdb, time.Second)

	userRepo := newMemUserRepo()
	roleRepo := repositories.NewRoleRepository()
	mailWorker := workers.NewMailWorker(nopMailProvider{})

	authSvc := services.NewAuthService(userRepo, tokens, otpStore, nopMailProvider{}, nopSMSProvider{}, mailWorker, "http://localhost:3000")
	profileSvc := services.NewProfileService(userRepo)

	cfg := &config.Config{}
	cfg.Server.Env = "test"
	cfg.JWT.AccessTTLMin = 15
	cfg.JWT.RefreshTTLDay = 7

	handler := NewAuthHandler(NewBaseHandler(validator.New()), authSvc, profileSvc, cfg)

	router := gin.New()
	router.Use(middleware.DBMiddleware(&gorm.DB{}))

	public := router.Group("/api/v1")
	handler.RegisterRoutes(public)

	protected := router.Group("/api/v1")
	protected.Use(middleware.AuthMiddleware(tokens, userRepo, roleRepo))
	handler.RegisterProtectedRoutes(protected)

	return router
}

func TestSessionLifecycle_LogoutRevokesAccessToken(t *testing.T) {
	router := newWiredEnv(t)

	rec := doJSON(t, router, http.MethodPost, "/api/v1/auth/register",
		`{"name":"Alice","email":"a@x.com","password":"pw123456"}`, nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	require.NotNil(t, cookieByName(rec, "accessToken"))
	require.NotNil(t, cookieByName(rec, "refreshToken"))

	rec = doJSON(t, router, http.MethodPost, "/api/v1/auth/login/email-password",
		`{"email":"a@x.com","password":"wrongpass"}`, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "INVALID_CREDENTIALS")

	rec = doJSON(t, router, http.MethodPost, "/api/v1/auth/login/email-password",
		`{"email":"a@x.com","password":"pw123456"}`, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	access := cookieByName(rec, "accessToken")
	refresh := cookieByName(rec, "refreshToken")
	require.NotNil(t, access)
	require.NotNil(t, refresh)

	rec = doJSON(t, router, http.MethodGet, "/api/v1/auth/me", "", func(req *http.Request) {
		req.Header.Set("Authorization", "Bearer "+access.Value)
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "a@x.com")
	assert.NotContains(t, rec.Body.String(), "passwordHash")

	rec = doJSON(t, router, http.MethodPost, "/api/v1/auth/logout",
		`{"refreshToken":"`+refresh.Value+`"}`, func(req *http.Request) {
			req.Header.Set("Authorization", "Bearer "+access.Value)
		})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/api/v1/auth/me", "", func(req *http.Request) {
		req.Header.Set("Authorization", "Bearer "+access.Value)
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "TOKEN_REVOKED")
}
