package service

import (
	"context"

	"racemates/internal/models"
	"racemates/internal/repository"
	"racemates/internal/validation"
)

// UserService provides profile and racer directory business logic.
type UserService struct {
	userRepo repository.UserRepository
}

// UpdateProfileInput carries the editable profile fields. Empty fields are
// left unchanged; boolean and numeric fields use pointers to distinguish
// "unset" from a zero value.
type UpdateProfileInput struct {
	UserID         uint
	DisplayName    string
	Bio            string
	Avatar         string
	Region         string
	Timezone       string
	Platforms      []string
	IRating        *int
	SafetyRating   *float64
	LicenseClass   string
	TTRating       *int
	DrivingStyles  []string
	RoleTags       []string
	LookingForTeam *bool
}

// NewUserService returns a new UserService.
func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

func (s *UserService) ListUsers(ctx context.Context, limit, offset int) ([]models.User, error) {
	return s.userRepo.List(ctx, limit, offset)
}

func (s *UserService) GetUserByID(ctx context.Context, id uint) (*models.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

func (s *UserService) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, models.NewNotFoundError("User", username)
	}
	return user, nil
}

// SearchRacers finds onboarded racers matching the filter, for the
// find-a-teammate directory.
func (s *UserService) SearchRacers(ctx context.Context, filter repository.RacerFilter) ([]models.User, error) {
	return s.userRepo.SearchRacers(ctx, filter)
}

// UpdateProfile applies the provided profile edits.
func (s *UserService) UpdateProfile(ctx context.Context, in UpdateProfileInput) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, in.UserID)
	if err != nil {
		return nil, err
	}

	const maxBioLen = 500
	const maxDisplayNameLen = 40

	if in.DisplayName != "" {
		if len(in.DisplayName) > maxDisplayNameLen {
			return nil, models.NewValidationError("Display name too long (max 40 characters)")
		}
		user.DisplayName = in.DisplayName
	}
	if in.Bio != "" {
		if len(in.Bio) > maxBioLen {
			return nil, models.NewValidationError("Bio too long (max 500 characters)")
		}
		user.Bio = in.Bio
	}
	if in.Avatar != "" {
		user.Avatar = in.Avatar
	}
	if in.Region != "" {
		user.Region = in.Region
	}
	if in.Timezone != "" {
		user.Timezone = in.Timezone
	}
	if in.Platforms != nil {
		user.Platforms = models.StringList(in.Platforms)
	}
	if in.IRating != nil {
		user.IRating = *in.IRating
	}
	if in.SafetyRating != nil {
		user.SafetyRating = *in.SafetyRating
	}
	if in.LicenseClass != "" {
		user.LicenseClass = in.LicenseClass
	}
	if in.TTRating != nil {
		user.TTRating = *in.TTRating
	}
	if in.DrivingStyles != nil {
		user.DrivingStyles = models.StringList(in.DrivingStyles)
	}
	if in.RoleTags != nil {
		user.RoleTags = models.StringList(in.RoleTags)
	}
	if in.LookingForTeam != nil {
		user.LookingForTeam = *in.LookingForTeam
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// ChangeUsername validates and applies a username change.
func (s *UserService) ChangeUsername(ctx context.Context, userID uint, username string) (*models.User, error) {
	if err := validation.ValidateUsername(username); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	existing, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if existing != nil && existing.ID != userID {
		return nil, models.NewValidationError("Username is taken")
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	user.Username = username
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// GetProgression returns the user's XP tier progression.
func (s *UserService) GetProgression(ctx context.Context, userID uint) (*models.Progression, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	p := models.ProgressionFor(user.XP)
	return &p, nil
}

// GrantXP adds experience points for a platform activity.
func (s *UserService) GrantXP(ctx context.Context, userID uint, amount int) error {
	if amount <= 0 {
		return models.NewValidationError("XP amount must be positive")
	}
	return s.userRepo.AddXP(ctx, userID, amount)
}

// SetAdmin toggles the admin flag on the target user.
func (s *UserService) SetAdmin(ctx context.Context, targetID uint, isAdmin bool) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, targetID)
	if err != nil {
		return nil, err
	}

	user.IsAdmin = isAdmin
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}
