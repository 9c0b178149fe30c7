package service

import (
	"context"

	"racemates/internal/models"
	"racemates/internal/repository"
)

// NoticeService provides notice board business logic.
type NoticeService struct {
	noticeRepo repository.NoticeRepository
	userRepo   repository.UserRepository
}

// CreateNoticeInput is the input for posting a notice.
type CreateNoticeInput struct {
	AuthorID uint
	Title    string
	Body     string
	Category string
}

// Notice categories shown as board filters.
var noticeCategories = map[string]struct{}{
	"driver-wanted": {},
	"team-wanted":   {},
	"league":        {},
	"setup-trade":   {},
	"general":       {},
}

// NewNoticeService returns a new NoticeService.
func NewNoticeService(noticeRepo repository.NoticeRepository, userRepo repository.UserRepository) *NoticeService {
	return &NoticeService{noticeRepo: noticeRepo, userRepo: userRepo}
}

// PostNotice publishes a new notice to the board.
func (s *NoticeService) PostNotice(ctx context.Context, in CreateNoticeInput) (*models.Notice, error) {
	if in.Title == "" {
		return nil, models.NewValidationError("Notice title is required")
	}
	if in.Body == "" {
		return nil, models.NewValidationError("Notice body is required")
	}
	if in.Category == "" {
		in.Category = "general"
	}
	if _, ok := noticeCategories[in.Category]; !ok {
		return nil, models.NewValidationError("Unknown notice category")
	}

	notice := &models.Notice{
		AuthorID: in.AuthorID,
		Title:    in.Title,
		Body:     in.Body,
		Category: in.Category,
		Status:   models.NoticeStatusOpen,
	}
	if err := s.noticeRepo.Create(ctx, notice); err != nil {
		return nil, err
	}
	return s.noticeRepo.GetByID(ctx, notice.ID)
}

// GetNotice returns a notice with its replies.
func (s *NoticeService) GetNotice(ctx context.Context, noticeID uint) (*models.Notice, error) {
	return s.noticeRepo.GetByID(ctx, noticeID)
}

// ListNotices lists notices, newest first, optionally filtered.
func (s *NoticeService) ListNotices(ctx context.Context, category string, status models.NoticeStatus, limit, offset int) ([]models.Notice, error) {
	if category != "" {
		if _, ok := noticeCategories[category]; !ok {
			return nil, models.NewValidationError("Unknown notice category")
		}
	}
	return s.noticeRepo.List(ctx, category, status, limit, offset)
}

// Reply adds a reply to an open notice. Replies to closed notices are
// rejected.
func (s *NoticeService) Reply(ctx context.Context, noticeID, authorID uint, body string) (*models.NoticeReply, error) {
	if body == "" {
		return nil, models.NewValidationError("Reply body is required")
	}

	notice, err := s.noticeRepo.GetByID(ctx, noticeID)
	if err != nil {
		return nil, err
	}
	if notice.Status != models.NoticeStatusOpen {
		return nil, models.NewValidationError("This notice is closed and no longer accepts replies")
	}

	reply := &models.NoticeReply{
		NoticeID: noticeID,
		AuthorID: authorID,
		Body:     body,
	}
	if err := s.noticeRepo.CreateReply(ctx, reply); err != nil {
		return nil, err
	}

	if author, err := s.userRepo.GetByID(ctx, authorID); err == nil {
		reply.Author = author
	}
	return reply, nil
}

// CloseNotice closes a notice to further replies. Author only.
func (s *NoticeService) CloseNotice(ctx context.Context, noticeID, actorID uint) (*models.Notice, error) {
	return s.setStatus(ctx, noticeID, actorID, models.NoticeStatusClosed)
}

// ReopenNotice reopens a closed notice. Author only.
func (s *NoticeService) ReopenNotice(ctx context.Context, noticeID, actorID uint) (*models.Notice, error) {
	return s.setStatus(ctx, noticeID, actorID, models.NoticeStatusOpen)
}

// DeleteNotice removes a notice. Author or admin only.
func (s *NoticeService) DeleteNotice(ctx context.Context, noticeID, actorID uint, isAdmin bool) error {
	notice, err := s.noticeRepo.GetByID(ctx, noticeID)
	if err != nil {
		return err
	}
	if notice.AuthorID != actorID && !isAdmin {
		return models.NewUnauthorizedError("Only the author can delete this notice")
	}
	return s.noticeRepo.Delete(ctx, noticeID)
}

func (s *NoticeService) setStatus(ctx context.Context, noticeID, actorID uint, status models.NoticeStatus) (*models.Notice, error) {
	notice, err := s.noticeRepo.GetByID(ctx, noticeID)
	if err != nil {
		return nil, err
	}
	if notice.AuthorID != actorID {
		return nil, models.NewUnauthorizedError("Only the author can change the notice status")
	}
	if notice.Status == status {
		return notice, nil
	}
	if err := s.noticeRepo.SetStatus(ctx, noticeID, status); err != nil {
		return nil, err
	}
	return s.noticeRepo.GetByID(ctx, noticeID)
}
