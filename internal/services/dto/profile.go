package dto

import (
	"time"

	"safespace_backend/internal/models"
)

// UserResponse is the sanitized profile: never carries the password hash,
// refresh token, or reset fields.
type UserResponse struct {
	ID                string                      `json:"id"`
	Name              string                      `json:"name"`
	Email             string                      `json:"email"`
	Mobile            *string                     `json:"mobile,omitempty"`
	Role              string                      `json:"role"`
	Age               *int                        `json:"age,omitempty"`
	Gender            string                      `json:"gender,omitempty"`
	BloodGroup        string                      `json:"bloodGroup,omitempty"`
	Hobbies           []string                    `json:"hobbies,omitempty"`
	Bio               string                      `json:"bio,omitempty"`
	Location          string                      `json:"location,omitempty"`
	IsCompleteProfile bool                        `json:"isCompleteProfile"`
	Notifications     models.NotificationSettings `json:"notificationSettings"`
	PreferredCities   []string                    `json:"preferredCities,omitempty"`
}

// NewUserResponse strips secrets and session linkage from a user record.
func NewUserResponse(u *models.User) *UserResponse {
	return &UserResponse{
		ID:                u.ID,
		Name:              u.Name,
		Email:             u.Email,
		Mobile:            u.Mobile,
		Role:              u.Role,
		Age:               u.Age,
		Gender:            u.Gender,
		BloodGroup:        u.BloodGroup,
		Hobbies:           u.Hobbies,
		Bio:               u.Bio,
		Location:          u.Location,
		IsCompleteProfile: u.IsCompleteProfile,
		Notifications:     u.Notifications.Data(),
		PreferredCities:   u.PreferredCities,
	}
}

// UpdateProfileRequest carries the allow-listed mutable profile fields.
// Nil means "leave unchanged".
type UpdateProfileRequest struct {
	Name            *string   `json:"name" validate:"omitempty,min=2"`
	Age             *int      `json:"age" validate:"omitempty,min=1,max=100"`
	Gender          *string   `json:"gender" validate:"omitempty,oneof=male female other prefer-not-to-say"`
	BloodGroup      *string   `json:"bloodGroup" validate:"omitempty,oneof=A+ A- B+ B- AB+ AB- O+ O-"`
	Hobbies         *[]string `json:"hobbies"`
	Mobile          *string   `json:"mobile" validate:"omitempty,mobile"`
	PreferredCities *[]string `json:"preferredCities"`
	Bio             *string   `json:"bio" validate:"omitempty,max=500"`
	Location        *string   `json:"location"`
}

type SaveThreatRequest struct {
	ThreatID          string     `json:"threatId" validate:"required"`
	Title             string     `json:"title"`
	Description       string     `json:"description"`
	Category          string     `json:"category"`
	Level             string     `json:"level" validate:"omitempty,oneof=low medium high"`
	Location          string     `json:"location"`
	Source            string     `json:"source"`
	Confidence        float64    `json:"confidence"`
	AffectedPeople    int        `json:"affectedPeople"`
	Coordinates       []float64  `json:"coordinates"`
	AIAdvice          []string   `json:"aiAdvice"`
	OriginalTimestamp *time.Time `json:"originalTimestamp"`
}

// SavedThreatResponse mirrors the stored threat plus a human "time ago"
// label computed at read time.
type SavedThreatResponse struct {
	models.SavedThreat
	TimeAgo string `json:"timeAgo"`
}

type NotificationSettingsRequest struct {
	Settings models.NotificationSettings `json:"settings"`
}
