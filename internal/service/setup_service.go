package service

import (
	"context"
	"fmt"

	"racemates/internal/models"
	"racemates/internal/repository"

	"github.com/google/uuid"
)

// Setup files are opaque sim exports; anything over this is not a setup.
const maxSetupFileSize = 1 << 20 // 1 MiB

// SetupService provides car setup vault business logic.
type SetupService struct {
	setupRepo repository.SetupRepository
	teamRepo  repository.TeamRepository
}

// UploadSetupInput is the input for storing a setup file.
type UploadSetupInput struct {
	OwnerID  uint
	TeamID   *uint
	Car      string
	Track    string
	Sim      string
	FileName string
	Notes    string
	Content  []byte
}

// NewSetupService returns a new SetupService.
func NewSetupService(setupRepo repository.SetupRepository, teamRepo repository.TeamRepository) *SetupService {
	return &SetupService{setupRepo: setupRepo, teamRepo: teamRepo}
}

// Upload stores a setup file in the vault. Sharing with a team requires
// membership.
func (s *SetupService) Upload(ctx context.Context, in UploadSetupInput) (*models.SetupFile, error) {
	if in.Car == "" {
		return nil, models.NewValidationError("Car is required")
	}
	if in.FileName == "" {
		return nil, models.NewValidationError("File name is required")
	}
	if len(in.Content) == 0 {
		return nil, models.NewValidationError("Setup file is empty")
	}
	if len(in.Content) > maxSetupFileSize {
		return nil, models.NewValidationError("Setup file too large (max 1 MiB)")
	}

	if in.TeamID != nil {
		membership, err := s.teamRepo.GetMembership(ctx, *in.TeamID, in.OwnerID)
		if err != nil {
			return nil, err
		}
		if membership == nil {
			return nil, models.NewUnauthorizedError("You can only share setups with your own teams")
		}
	}

	setup := &models.SetupFile{
		OwnerID:    in.OwnerID,
		TeamID:     in.TeamID,
		Car:        in.Car,
		Track:      in.Track,
		Sim:        in.Sim,
		FileName:   in.FileName,
		StorageKey: fmt.Sprintf("setups/%d/%s", in.OwnerID, uuid.NewString()),
		SizeBytes:  int64(len(in.Content)),
		Notes:      in.Notes,
		Content:    in.Content,
	}
	if err := s.setupRepo.Create(ctx, setup); err != nil {
		return nil, err
	}
	return setup, nil
}

// ListMine lists the user's own setups.
func (s *SetupService) ListMine(ctx context.Context, ownerID uint, limit, offset int) ([]models.SetupFile, error) {
	return s.setupRepo.ListForOwner(ctx, ownerID, limit, offset)
}

// ListForTeam lists setups shared with a team the user belongs to.
func (s *SetupService) ListForTeam(ctx context.Context, teamID, userID uint, limit, offset int) ([]models.SetupFile, error) {
	membership, err := s.teamRepo.GetMembership(ctx, teamID, userID)
	if err != nil {
		return nil, err
	}
	if membership == nil {
		return nil, models.NewUnauthorizedError("You are not a member of this team")
	}
	return s.setupRepo.ListForTeam(ctx, teamID, limit, offset)
}

// Download returns the setup with its content, enforcing access: the owner
// or, for team-shared setups, any team member.
func (s *SetupService) Download(ctx context.Context, setupID, userID uint) (*models.SetupFile, error) {
	setup, err := s.setupRepo.GetWithContent(ctx, setupID)
	if err != nil {
		return nil, err
	}
	if err := s.checkAccess(ctx, setup, userID); err != nil {
		return nil, err
	}
	return setup, nil
}

// GetMetadata returns the setup without its content, same access rules as
// Download.
func (s *SetupService) GetMetadata(ctx context.Context, setupID, userID uint) (*models.SetupFile, error) {
	setup, err := s.setupRepo.GetByID(ctx, setupID)
	if err != nil {
		return nil, err
	}
	if err := s.checkAccess(ctx, setup, userID); err != nil {
		return nil, err
	}
	return setup, nil
}

// UpdateNotes edits the notes on a setup. Owner only.
func (s *SetupService) UpdateNotes(ctx context.Context, setupID, userID uint, notes string) (*models.SetupFile, error) {
	setup, err := s.setupRepo.GetWithContent(ctx, setupID)
	if err != nil {
		return nil, err
	}
	if setup.OwnerID != userID {
		return nil, models.NewUnauthorizedError("Only the owner can edit this setup")
	}
	setup.Notes = notes
	if err := s.setupRepo.Update(ctx, setup); err != nil {
		return nil, err
	}
	setup.Content = nil
	return setup, nil
}

// ShareWithTeam shares (or unshares, with nil) an owned setup with a team.
func (s *SetupService) ShareWithTeam(ctx context.Context, setupID, userID uint, teamID *uint) (*models.SetupFile, error) {
	setup, err := s.setupRepo.GetWithContent(ctx, setupID)
	if err != nil {
		return nil, err
	}
	if setup.OwnerID != userID {
		return nil, models.NewUnauthorizedError("Only the owner can share this setup")
	}

	if teamID != nil {
		membership, err := s.teamRepo.GetMembership(ctx, *teamID, userID)
		if err != nil {
			return nil, err
		}
		if membership == nil {
			return nil, models.NewUnauthorizedError("You can only share setups with your own teams")
		}
	}

	setup.TeamID = teamID
	if err := s.setupRepo.Update(ctx, setup); err != nil {
		return nil, err
	}
	setup.Content = nil
	return setup, nil
}

// Delete removes a setup from the vault. Owner only.
func (s *SetupService) Delete(ctx context.Context, setupID, userID uint) error {
	setup, err := s.setupRepo.GetByID(ctx, setupID)
	if err != nil {
		return err
	}
	if setup.OwnerID != userID {
		return models.NewUnauthorizedError("Only the owner can delete this setup")
	}
	return s.setupRepo.Delete(ctx, setupID)
}

func (s *SetupService) checkAccess(ctx context.Context, setup *models.SetupFile, userID uint) error {
	if setup.OwnerID == userID {
		return nil
	}
	if setup.TeamID != nil {
		membership, err := s.teamRepo.GetMembership(ctx, *setup.TeamID, userID)
		if err != nil {
			return err
		}
		if membership != nil {
			return nil
		}
	}
	return models.NewUnauthorizedError("You do not have access to this setup")
}
