package services

import (
	"context"
	"fmt"
	"time"

	"safespace_backend/internal/logger"
	"safespace_backend/internal/models"
	"safespace_backend/internal/repositories"
	"safespace_backend/internal/services/dto"
	"safespace_backend/pkg/apperrors"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ProfileService covers everything behind the authenticated profile surface:
// profile reads and updates, the saved-threats bookmark list, and
// notification preferences.
type ProfileService interface {
	GetCurrentUser(ctx context.Context, db *gorm.DB, userID string) (*dto.UserResponse, error)
	UpdateProfile(ctx context.Context, db *gorm.DB, userID string, req *dto.UpdateProfileRequest) (*dto.UserResponse, error)
	ListSavedThreats(ctx context.Context, db *gorm.DB, userID string) ([]dto.SavedThreatResponse, error)
	SaveThreat(ctx context.Context, db *gorm.DB, userID string, req *dto.SaveThreatRequest) error
	RemoveSavedThreat(ctx context.Context, db *gorm.DB, userID, threatID string) error
	UpdateNotificationSettings(ctx context.Context, db *gorm.DB, userID string, settings models.NotificationSettings) (*dto.UserResponse, error)
}

type ProfileServiceImpl struct {
	userRepo repositories.UserRepository
}

func NewProfileService(userRepo repositories.UserRepository) ProfileService {
	return &ProfileServiceImpl{userRepo: userRepo}
}

func (s *ProfileServiceImpl) GetCurrentUser(ctx context.Context, db *gorm.DB, userID string) (*dto.UserResponse, error) {
	user, err := s.loadUser(db, userID)
	if err != nil {
		return nil, err
	}
	return dto.NewUserResponse(user), nil
}

// UpdateProfile applies only the allow-listed fields and recomputes the
// completeness flag. A duplicate mobile surfaces as a 400, not a 500.
func (s *ProfileServiceImpl) UpdateProfile(ctx context.Context, db *gorm.DB, userID string, req *dto.UpdateProfileRequest) (*dto.UserResponse, error) {
	user, err := s.loadUser(db, userID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.Age != nil {
		user.Age = req.Age
	}
	if req.Gender != nil {
		user.Gender = *req.Gender
	}
	if req.BloodGroup != nil {
		user.BloodGroup = *req.BloodGroup
	}
	if req.Hobbies != nil {
		user.Hobbies = datatypes.NewJSONSlice(*req.Hobbies)
	}
	if req.Mobile != nil {
		user.Mobile = req.Mobile
	}
	if req.PreferredCities != nil {
		user.PreferredCities = datatypes.NewJSONSlice(*req.PreferredCities)
	}
	if req.Bio != nil {
		user.Bio = *req.Bio
	}
	if req.Location != nil {
		user.Location = *req.Location
	}

	user.IsCompleteProfile = isCompleteProfile(user)

	if err := s.userRepo.Update(db, user); err != nil {
		if apperrors.Is(err, repositories.ErrUserAlreadyExists) {
			return nil, apperrors.ErrMobileAlreadyExists
		}
		return nil, apperrors.DependencyError(err, "database")
	}

	logger.CtxInfo(ctx, "profile updated", "user_id", userID)
	return dto.NewUserResponse(user), nil
}

func (s *ProfileServiceImpl) ListSavedThreats(ctx context.Context, db *gorm.DB, userID string) ([]dto.SavedThreatResponse, error) {
	user, err := s.loadUser(db, userID)
	if err != nil {
		return nil, err
	}

	out := make([]dto.SavedThreatResponse, 0, len(user.SavedThreats))
	for _, t := range user.SavedThreats {
		out = append(out, dto.SavedThreatResponse{
			SavedThreat: t,
			TimeAgo:     timeAgo(t.SavedAt),
		})
	}
	return out, nil
}

// SaveThreat appends a bookmark, rejecting a second save of the same threat.
func (s *ProfileServiceImpl) SaveThreat(ctx context.Context, db *gorm.DB, userID string, req *dto.SaveThreatRequest) error {
	user, err := s.loadUser(db, userID)
	if err != nil {
		return err
	}

	for _, t := range user.SavedThreats {
		if t.ID == req.ThreatID {
			return apperrors.NewBadRequestError("Threat is already saved")
		}
	}

	saved := models.SavedThreat{
		ID:             req.ThreatID,
		Title:          req.Title,
		Description:    req.Description,
		Category:       req.Category,
		Level:          req.Level,
		Location:       req.Location,
		Source:         req.Source,
		Confidence:     req.Confidence,
		AffectedPeople: req.AffectedPeople,
		Coordinates:    req.Coordinates,
		AIAdvice:       req.AIAdvice,
		SavedAt:        time.Now(),
	}
	if req.OriginalTimestamp != nil {
		saved.OriginalTimestamp = *req.OriginalTimestamp
	}

	user.SavedThreats = append(user.SavedThreats, saved)
	if err := s.userRepo.Update(db, user); err != nil {
		return apperrors.DependencyError(err, "database")
	}
	return nil
}

func (s *ProfileServiceImpl) RemoveSavedThreat(ctx context.Context, db *gorm.DB, userID, threatID string) error {
	user, err := s.loadUser(db, userID)
	if err != nil {
		return err
	}

	kept := user.SavedThreats[:0]
	found := false
	for _, t := range user.SavedThreats {
		if t.ID == threatID {
			found = true
			continue
		}
		kept = append(kept, t)
	}
	if !found {
		return apperrors.New(apperrors.CodeNotFound, "profile", "Saved threat not found", 404)
	}

	user.SavedThreats = kept
	if err := s.userRepo.Update(db, user); err != nil {
		return apperrors.DependencyError(err, "database")
	}
	return nil
}

func (s *ProfileServiceImpl) UpdateNotificationSettings(ctx context.Context, db *gorm.DB, userID string, settings models.NotificationSettings) (*dto.UserResponse, error) {
	user, err := s.loadUser(db, userID)
	if err != nil {
		return nil, err
	}

	user.Notifications = datatypes.NewJSONType(settings)
	if err := s.userRepo.Update(db, user); err != nil {
		return nil, apperrors.DependencyError(err, "database")
	}
	return dto.NewUserResponse(user), nil
}

func (s *ProfileServiceImpl) loadUser(db *gorm.DB, userID string) (*models.User, error) {
	user, err := s.userRepo.FindByID(db, userID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.DependencyError(err, "database")
	}
	return user, nil
}

// isCompleteProfile mirrors what the frontend treats as "onboarded": the
// basics plus age and gender.
func isCompleteProfile(u *models.User) bool {
	return u.Name != "" && u.Email != "" && u.Age != nil && u.Gender != ""
}

func timeAgo(t time.Time) string {
	d := time.Since(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	}
}
