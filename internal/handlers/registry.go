package handlers

import (
	"safespace_backend/internal/config"
	"safespace_backend/internal/services"
	"safespace_backend/internal/validator"
)

// AppHandlers holds every HTTP handler, built once at startup.
type AppHandlers struct {
	AuthHandler    *AuthHandler
	ProfileHandler *ProfileHandler
}

func NewAppHandlers(cfg *config.Config, container *services.ServiceContainer) *AppHandlers {
	base := NewBaseHandler(validator.New())

	return &AppHandlers{
		AuthHandler:    NewAuthHandler(base, container.Auth, container.Profile, cfg),
		ProfileHandler: NewProfileHandler(base, container.Profile),
	}
}
