package models

import (
	"time"

	"gorm.io/datatypes"
)

// User is the durable credential and profile record. RefreshToken doubles as
// the "has an active session" marker: set on every login, nulled on logout.
type User struct {
	BaseModel
	Name         string  `gorm:"not null" json:"name"`
	Email        string  `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string  `gorm:"not null" json:"-"`
	Mobile       *string `gorm:"uniqueIndex" json:"mobile,omitempty"`
	GoogleID     *string `gorm:"index" json:"-"`

	// Role is stored either inline (legacy string like "user") or as a
	// reference into the roles table. Resolve it with ResolveRole; nothing
	// else should interpret these two fields.
	Role   string  `gorm:"type:varchar(32);default:'user'" json:"role"`
	RoleID *string `gorm:"type:uuid" json:"-"`

	RefreshToken        *string    `gorm:"index" json:"-"`
	PasswordResetToken  *string    `json:"-"`
	PasswordResetExpiry *time.Time `json:"-"`

	IsVerified bool `gorm:"default:false" json:"isVerified"`
	IsActive   bool `gorm:"default:true" json:"isActive"`

	// Profile attributes
	Age               *int                                     `json:"age,omitempty"`
	Gender            string                                   `gorm:"type:varchar(20)" json:"gender,omitempty"`
	BloodGroup        string                                   `gorm:"type:varchar(4)" json:"bloodGroup,omitempty"`
	Hobbies           datatypes.JSONSlice[string]              `json:"hobbies,omitempty"`
	Bio               string                                   `gorm:"type:varchar(500)" json:"bio,omitempty"`
	Location          string                                   `json:"location,omitempty"`
	PreferredCities   datatypes.JSONSlice[string]              `json:"preferredCities,omitempty"`
	IsCompleteProfile bool                                     `gorm:"default:false" json:"isCompleteProfile"`
	SavedThreats      datatypes.JSONSlice[SavedThreat]         `json:"-"`
	Notifications     datatypes.JSONType[NotificationSettings] `gorm:"column:notification_settings" json:"notificationSettings"`
}

// SavedThreat is a threat-feed item the user bookmarked, denormalized onto
// the user record the way the original document store kept it.
type SavedThreat struct {
	ID                string    `json:"id"`
	Title             string    `json:"title"`
	Description       string    `json:"description"`
	Category          string    `json:"category"`
	Level             string    `json:"level"`
	Location          string    `json:"location"`
	Source            string    `json:"source"`
	Confidence        float64   `json:"confidence"`
	AffectedPeople    int       `json:"affectedPeople"`
	Coordinates       []float64 `json:"coordinates"`
	AIAdvice          []string  `json:"aiAdvice"`
	SavedAt           time.Time `json:"savedAt"`
	OriginalTimestamp time.Time `json:"originalTimestamp"`
}

type NotificationSettings struct {
	Email   bool `json:"email"`
	Push    bool `json:"push"`
	Threats bool `json:"threats"`
	Safety  bool `json:"safety"`
}

func DefaultNotificationSettings() NotificationSettings {
	return NotificationSettings{Email: true, Push: true, Threats: true, Safety: true}
}
