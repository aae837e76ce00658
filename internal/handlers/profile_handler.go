package handlers

import (
	"net/http"

	"safespace_backend/internal/services"
	"safespace_backend/internal/services/dto"
	"safespace_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
)

type ProfileHandler struct {
	*BaseHandler
	profileService services.ProfileService
}

func NewProfileHandler(base *BaseHandler, profileService services.ProfileService) *ProfileHandler {
	return &ProfileHandler{
		BaseHandler:    base,
		profileService: profileService,
	}
}

// RegisterRoutes mounts the profile surface. The group is expected to carry
// the auth middleware already.
func (h *ProfileHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.PUT("/profile", h.UpdateProfile)

	rg.GET("/saved-threats", h.ListSavedThreats)
	rg.POST("/saved-threats", h.SaveThreat)
	rg.DELETE("/saved-threats/:threatId", h.RemoveSavedThreat)

	rg.PUT("/notifications/settings", h.UpdateNotificationSettings)
}

func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateProfileRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	resp, err := h.profileService.UpdateProfile(c.Request.Context(), h.GetDB(c), userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": resp})
}

func (h *ProfileHandler) ListSavedThreats(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	threats, err := h.profileService.ListSavedThreats(c.Request.Context(), h.GetDB(c), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": threats})
}

func (h *ProfileHandler) SaveThreat(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.SaveThreatRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	if err := h.profileService.SaveThreat(c.Request.Context(), h.GetDB(c), userID, &req); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "message": "Threat saved"})
}

func (h *ProfileHandler) RemoveSavedThreat(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	threatID := c.Param("threatId")
	if threatID == "" {
		h.HandleServiceError(c, apperrors.NewBadRequestError("threatId is required"))
		return
	}

	if err := h.profileService.RemoveSavedThreat(c.Request.Context(), h.GetDB(c), userID, threatID); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Threat removed"})
}

func (h *ProfileHandler) UpdateNotificationSettings(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.NotificationSettingsRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	resp, err := h.profileService.UpdateNotificationSettings(c.Request.Context(), h.GetDB(c), userID, req.Settings)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": resp})
}
