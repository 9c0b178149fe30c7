package service

import (
	"context"
	"errors"

	"racemates/internal/cache"
	"racemates/internal/models"
	"racemates/internal/onboarding"

	"gorm.io/gorm"
)

// WelcomeXP is granted once, when onboarding completes.
const WelcomeXP = 50

// OnboardingService owns wizard lifecycle and the finalize write. It holds
// the raw DB handle rather than a repository because finalize must write the
// profile fields and the completion flag in one transaction.
type OnboardingService struct {
	db    *gorm.DB
	store onboarding.Store
}

// NewOnboardingService returns a new OnboardingService.
func NewOnboardingService(db *gorm.DB, store onboarding.Store) *OnboardingService {
	return &OnboardingService{db: db, store: store}
}

// LoadWizard builds the user's wizard, restoring the saved snapshot when one
// exists. A snapshot that fails to decode is discarded and the wizard starts
// over rather than erroring the session.
func (s *OnboardingService) LoadWizard(ctx context.Context, userID uint, notifier onboarding.Notifier) (*onboarding.Wizard, error) {
	w := onboarding.New(userID, s, notifier)

	data, err := s.store.Load(ctx, userID)
	if err != nil {
		if errors.Is(err, onboarding.ErrNoSnapshot) {
			return w, nil
		}
		return nil, models.NewInternalError(err)
	}

	if err := w.RestoreSnapshot(data); err != nil {
		_ = s.store.Clear(ctx, userID)
		return onboarding.New(userID, s, notifier), nil
	}
	return w, nil
}

// SaveWizard flushes the wizard's snapshot so a reload resumes progress.
func (s *OnboardingService) SaveWizard(ctx context.Context, w *onboarding.Wizard) error {
	data, err := w.EncodeSnapshot()
	if err != nil {
		return models.NewInternalError(err)
	}
	if err := s.store.Save(ctx, w.UserID(), data); err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// FinalizeOnboarding writes every draft field onto the profile row and sets
// the completion flag in a single transaction, then grants the welcome XP.
// Implements onboarding.Finalizer.
func (s *OnboardingService) FinalizeOnboarding(ctx context.Context, userID uint, draft onboarding.ProfileDraft) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.First(&user, userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("User", userID)
			}
			return models.NewInternalError(err)
		}
		if user.OnboardingComplete {
			return models.NewValidationError("Onboarding is already complete")
		}

		user.DisplayName = draft.DisplayName
		user.Region = draft.Region
		user.Timezone = draft.Timezone
		user.Platforms = models.StringList(draft.Platforms)
		user.IRating = draft.IRating
		user.SafetyRating = draft.SafetyRating
		user.LicenseClass = draft.LicenseClass
		user.TTRating = draft.TTRating
		user.DrivingStyles = models.StringList(draft.DrivingStyles)
		user.RoleTags = models.StringList(draft.RoleTags)
		user.LookingForTeam = draft.LookingForTeam
		user.OnboardingComplete = true
		user.XP += WelcomeXP

		if err := tx.Save(&user).Error; err != nil {
			return models.NewInternalError(err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	cache.InvalidateUser(ctx, userID)
	// The snapshot is spent; the profile row is now authoritative.
	_ = s.store.Clear(ctx, userID)
	return nil
}

// IsComplete reports whether the user already finished onboarding, from the
// authoritative profile row.
func (s *OnboardingService) IsComplete(ctx context.Context, userID uint) (bool, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Select("onboarding_complete").First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, models.NewNotFoundError("User", userID)
		}
		return false, models.NewInternalError(err)
	}
	return user.OnboardingComplete, nil
}
