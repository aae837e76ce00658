package services

import (
	"context"
	"testing"
	"time"

	"safespace_backend/internal/models"
	"safespace_backend/internal/services/dto"
	"safespace_backend/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newProfileFixture(t *testing.T) (ProfileService, *fakeUserRepo, *models.User) {
	t.Helper()
	repo := newFakeUserRepo()
	user := &models.User{
		Name:         "Kate",
		Email:        "kate@example.com",
		PasswordHash: "hash",
		Role:         "user",
	}
	require.NoError(t, repo.Create(nil, user))
	return NewProfileService(repo), repo, user
}

func intPtr(n int) *int { return &n }

func TestGetCurrentUser(t *testing.T) {
	svc, _, user := newProfileFixture(t)

	resp, err := svc.GetCurrentUser(context.Background(), nil, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "kate@example.com", resp.Email)

	_, err = svc.GetCurrentUser(context.Background(), nil, "missing")
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
}

func TestUpdateProfile_PartialAndCompleteness(t *testing.T) {
	svc, repo, user := newProfileFixture(t)
	ctx := context.Background()

	// Name and email alone do not make a complete profile.
	resp, err := svc.UpdateProfile(ctx, nil, user.ID, &dto.UpdateProfileRequest{
		Bio: strPtr("Stays safe."),
	})
	require.NoError(t, err)
	assert.False(t, resp.IsCompleteProfile)
	assert.Equal(t, "Stays safe.", resp.Bio)

	// Age and gender complete it.
	resp, err = svc.UpdateProfile(ctx, nil, user.ID, &dto.UpdateProfileRequest{
		Age:    intPtr(30),
		Gender: strPtr("female"),
	})
	require.NoError(t, err)
	assert.True(t, resp.IsCompleteProfile)

	// Untouched fields survive partial updates.
	stored, err := repo.FindByID(nil, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Stays safe.", stored.Bio)
	assert.Equal(t, "Kate", stored.Name)
}

func TestSavedThreats_Lifecycle(t *testing.T) {
	svc, _, user := newProfileFixture(t)
	ctx := context.Background()

	req := &dto.SaveThreatRequest{
		ThreatID: "threat-1",
		Title:    "Flooding downtown",
		Level:    "high",
	}
	require.NoError(t, svc.SaveThreat(ctx, nil, user.ID, req))

	// Duplicate saves are rejected.
	err := svc.SaveThreat(ctx, nil, user.ID, req)
	require.Error(t, err)
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, 400, appErr.HTTPCode)

	list, err := svc.ListSavedThreats(ctx, nil, user.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Flooding downtown", list[0].Title)
	assert.Equal(t, "just now", list[0].TimeAgo)

	require.NoError(t, svc.RemoveSavedThreat(ctx, nil, user.ID, "threat-1"))

	err = svc.RemoveSavedThreat(ctx, nil, user.ID, "threat-1")
	require.Error(t, err)

	list, err = svc.ListSavedThreats(ctx, nil, user.ID)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestUpdateNotificationSettings(t *testing.T) {
	svc, repo, user := newProfileFixture(t)

	resp, err := svc.UpdateNotificationSettings(context.Background(), nil, user.ID, models.NotificationSettings{
		Email:   false,
		Push:    true,
		Threats: true,
		Safety:  false,
	})
	require.NoError(t, err)
	assert.False(t, resp.Notifications.Email)
	assert.True(t, resp.Notifications.Push)

	stored, err := repo.FindByID(nil, user.ID)
	require.NoError(t, err)
	assert.False(t, stored.Notifications.Data().Email)
}

func TestTimeAgo(t *testing.T) {
	assert.Equal(t, "just now", timeAgo(time.Now().Add(-30*time.Second)))
	assert.Equal(t, "5m ago", timeAgo(time.Now().Add(-5*time.Minute)))
	assert.Equal(t, "3h ago", timeAgo(time.Now().Add(-3*time.Hour)))
	assert.Equal(t, "2d ago", timeAgo(time.Now().Add(-49*time.Hour)))
}
