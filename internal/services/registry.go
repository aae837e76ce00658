package services

import (
	"safespace_backend/internal/config"
	"safespace_backend/internal/email"
	"safespace_backend/internal/otp"
	"safespace_backend/internal/repositories"
	"safespace_backend/internal/sms"
	"safespace_backend/internal/token"
	"safespace_backend/internal/workers"
)

// ServiceContainer wires every service with its shared dependencies once at
// startup. Handlers pull services from here and never construct their own.
type ServiceContainer struct {
	Auth    AuthService
	Profile ProfileService

	Users  repositories.UserRepository
	Roles  repositories.RoleRepository
	Tokens *token.Service
}

func NewServiceContainer(
	cfg *config.Config,
	tokens *token.Service,
	otpStore *otp.Store,
	mailProvider email.Provider,
	smsProvider sms.Provider,
	mailWorker *workers.MailWorker,
) *ServiceContainer {
	userRepo := repositories.NewUserRepository()
	roleRepo := repositories.NewRoleRepository()

	return &ServiceContainer{
		Auth:    NewAuthService(userRepo, tokens, otpStore, mailProvider, smsProvider, mailWorker, cfg.FrontendURL),
		Profile: NewProfileService(userRepo),
		Users:   userRepo,
		Roles:   roleRepo,
		Tokens:  tokens,
	}
}
