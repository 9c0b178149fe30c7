package service

import (
	"context"
	"errors"
	"testing"

	"racemates/internal/models"
	"racemates/internal/relationship"
	"racemates/internal/repository"
)

type friendRepoStub struct {
	createFn            func(context.Context, *models.FriendLink) error
	getByIDFn           func(context.Context, uint) (*models.FriendLink, error)
	getBetweenUsersFn   func(context.Context, uint, uint) (*models.FriendLink, error)
	getLinksForFn       func(context.Context, uint) ([]models.FriendLink, error)
	getFriendsFn        func(context.Context, uint) ([]models.User, error)
	getPendingFn        func(context.Context, uint) ([]models.FriendLink, error)
	getSentFn           func(context.Context, uint) ([]models.FriendLink, error)
	updateStatusFn      func(context.Context, uint, models.FriendLinkStatus) error
	deleteFn            func(context.Context, uint) error
	removeFriendshipFn  func(context.Context, uint, uint) error
}

func (s *friendRepoStub) Create(ctx context.Context, link *models.FriendLink) error {
	return s.createFn(ctx, link)
}
func (s *friendRepoStub) GetByID(ctx context.Context, id uint) (*models.FriendLink, error) {
	return s.getByIDFn(ctx, id)
}
func (s *friendRepoStub) GetBetweenUsers(ctx context.Context, userID1, userID2 uint) (*models.FriendLink, error) {
	return s.getBetweenUsersFn(ctx, userID1, userID2)
}
func (s *friendRepoStub) GetLinksFor(ctx context.Context, userID uint) ([]models.FriendLink, error) {
	return s.getLinksForFn(ctx, userID)
}
func (s *friendRepoStub) GetFriends(ctx context.Context, userID uint) ([]models.User, error) {
	return s.getFriendsFn(ctx, userID)
}
func (s *friendRepoStub) GetPendingRequests(ctx context.Context, userID uint) ([]models.FriendLink, error) {
	return s.getPendingFn(ctx, userID)
}
func (s *friendRepoStub) GetSentRequests(ctx context.Context, userID uint) ([]models.FriendLink, error) {
	return s.getSentFn(ctx, userID)
}
func (s *friendRepoStub) UpdateStatus(ctx context.Context, linkID uint, status models.FriendLinkStatus) error {
	return s.updateStatusFn(ctx, linkID, status)
}
func (s *friendRepoStub) Delete(ctx context.Context, linkID uint) error {
	return s.deleteFn(ctx, linkID)
}
func (s *friendRepoStub) RemoveFriendship(ctx context.Context, userID1, userID2 uint) error {
	return s.removeFriendshipFn(ctx, userID1, userID2)
}

type userRepoStub struct {
	getByIDFn       func(context.Context, uint) (*models.User, error)
	getByEmailFn    func(context.Context, string) (*models.User, error)
	getByUsernameFn func(context.Context, string) (*models.User, error)
	createFn        func(context.Context, *models.User) error
	updateFn        func(context.Context, *models.User) error
	deleteFn        func(context.Context, uint) error
	listFn          func(context.Context, int, int) ([]models.User, error)
	searchRacersFn  func(context.Context, repository.RacerFilter) ([]models.User, error)
	addXPFn         func(context.Context, uint, int) error
}

func (s *userRepoStub) GetByID(ctx context.Context, id uint) (*models.User, error) {
	return s.getByIDFn(ctx, id)
}
func (s *userRepoStub) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.getByEmailFn(ctx, email)
}
func (s *userRepoStub) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.getByUsernameFn(ctx, username)
}
func (s *userRepoStub) Create(ctx context.Context, user *models.User) error {
	return s.createFn(ctx, user)
}
func (s *userRepoStub) Update(ctx context.Context, user *models.User) error {
	return s.updateFn(ctx, user)
}
func (s *userRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}
func (s *userRepoStub) List(ctx context.Context, limit, offset int) ([]models.User, error) {
	return s.listFn(ctx, limit, offset)
}
func (s *userRepoStub) SearchRacers(ctx context.Context, filter repository.RacerFilter) ([]models.User, error) {
	return s.searchRacersFn(ctx, filter)
}
func (s *userRepoStub) AddXP(ctx context.Context, id uint, amount int) error {
	return s.addXPFn(ctx, id, amount)
}

func noopUserRepo() *userRepoStub {
	return &userRepoStub{
		getByIDFn:       func(context.Context, uint) (*models.User, error) { return &models.User{}, nil },
		getByEmailFn:    func(context.Context, string) (*models.User, error) { return &models.User{}, nil },
		getByUsernameFn: func(context.Context, string) (*models.User, error) { return &models.User{}, nil },
		createFn:        func(context.Context, *models.User) error { return nil },
		updateFn:        func(context.Context, *models.User) error { return nil },
		deleteFn:        func(context.Context, uint) error { return nil },
		listFn:          func(context.Context, int, int) ([]models.User, error) { return nil, nil },
		searchRacersFn:  func(context.Context, repository.RacerFilter) ([]models.User, error) { return nil, nil },
		addXPFn:         func(context.Context, uint, int) error { return nil },
	}
}

func noopFriendRepo() *friendRepoStub {
	return &friendRepoStub{
		createFn:           func(context.Context, *models.FriendLink) error { return nil },
		getByIDFn:          func(context.Context, uint) (*models.FriendLink, error) { return &models.FriendLink{}, nil },
		getBetweenUsersFn:  func(context.Context, uint, uint) (*models.FriendLink, error) { return nil, nil },
		getLinksForFn:      func(context.Context, uint) ([]models.FriendLink, error) { return nil, nil },
		getFriendsFn:       func(context.Context, uint) ([]models.User, error) { return nil, nil },
		getPendingFn:       func(context.Context, uint) ([]models.FriendLink, error) { return nil, nil },
		getSentFn:          func(context.Context, uint) ([]models.FriendLink, error) { return nil, nil },
		updateStatusFn:     func(context.Context, uint, models.FriendLinkStatus) error { return nil },
		deleteFn:           func(context.Context, uint) error { return nil },
		removeFriendshipFn: func(context.Context, uint, uint) error { return nil },
	}
}

func TestFriendServiceSendFriendRequestSelf(t *testing.T) {
	svc := NewFriendService(noopFriendRepo(), noopUserRepo())
	_, err := svc.SendFriendRequest(context.Background(), 3, 3)
	if err == nil {
		t.Fatal("expected validation error")
	}
	var appErr *models.AppError
	if !errors.As(err, &appErr) || appErr.Code != "VALIDATION_ERROR" {
		t.Fatalf("expected validation app error, got %#v", err)
	}
}

func TestFriendServiceSendFriendRequestBlocked(t *testing.T) {
	repo := noopFriendRepo()
	repo.getBetweenUsersFn = func(context.Context, uint, uint) (*models.FriendLink, error) {
		return &models.FriendLink{ID: 9, RequesterID: 2, AddresseeID: 1, Status: models.FriendLinkStatusBlocked}, nil
	}
	svc := NewFriendService(repo, noopUserRepo())

	_, err := svc.SendFriendRequest(context.Background(), 1, 2)
	var appErr *models.AppError
	if !errors.As(err, &appErr) || appErr.Code != "VALIDATION_ERROR" {
		t.Fatalf("expected validation app error, got %#v", err)
	}
}

func TestFriendServiceSendFriendRequestAfterRejection(t *testing.T) {
	var deletedID uint
	var created *models.FriendLink

	repo := noopFriendRepo()
	repo.getBetweenUsersFn = func(context.Context, uint, uint) (*models.FriendLink, error) {
		return &models.FriendLink{ID: 7, RequesterID: 1, AddresseeID: 2, Status: models.FriendLinkStatusRejected}, nil
	}
	repo.deleteFn = func(_ context.Context, id uint) error {
		deletedID = id
		return nil
	}
	repo.createFn = func(_ context.Context, link *models.FriendLink) error {
		link.ID = 8
		created = link
		return nil
	}
	repo.getByIDFn = func(_ context.Context, id uint) (*models.FriendLink, error) {
		return created, nil
	}
	svc := NewFriendService(repo, noopUserRepo())

	link, err := svc.SendFriendRequest(context.Background(), 1, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if deletedID != 7 {
		t.Fatalf("expected dead rejected link to be removed, deleted id = %d", deletedID)
	}
	if link.Status != models.FriendLinkStatusPending {
		t.Fatalf("expected fresh pending link, got %s", link.Status)
	}
}

func TestFriendServiceRejectKeepsLink(t *testing.T) {
	var updatedStatus models.FriendLinkStatus
	deleted := false

	repo := noopFriendRepo()
	repo.getByIDFn = func(_ context.Context, id uint) (*models.FriendLink, error) {
		return &models.FriendLink{ID: id, RequesterID: 1, AddresseeID: 2, Status: models.FriendLinkStatusPending}, nil
	}
	repo.updateStatusFn = func(_ context.Context, _ uint, status models.FriendLinkStatus) error {
		updatedStatus = status
		return nil
	}
	repo.deleteFn = func(context.Context, uint) error {
		deleted = true
		return nil
	}
	svc := NewFriendService(repo, noopUserRepo())

	_, err := svc.RejectFriendRequest(context.Background(), 2, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updatedStatus != models.FriendLinkStatusRejected {
		t.Fatalf("expected rejected status, got %q", updatedStatus)
	}
	if deleted {
		t.Fatal("rejection must not delete the link")
	}
}

func TestFriendServiceRejectOnlyByAddressee(t *testing.T) {
	repo := noopFriendRepo()
	repo.getByIDFn = func(_ context.Context, id uint) (*models.FriendLink, error) {
		return &models.FriendLink{ID: id, RequesterID: 1, AddresseeID: 2, Status: models.FriendLinkStatusPending}, nil
	}
	svc := NewFriendService(repo, noopUserRepo())

	_, err := svc.RejectFriendRequest(context.Background(), 1, 5)
	var appErr *models.AppError
	if !errors.As(err, &appErr) || appErr.Code != "UNAUTHORIZED" {
		t.Fatalf("expected unauthorized app error, got %#v", err)
	}
}

func TestFriendServiceGetRelationshipWithNoLink(t *testing.T) {
	svc := NewFriendService(noopFriendRepo(), noopUserRepo())

	res, err := svc.GetRelationshipWith(context.Background(), 1, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Classification != relationship.Inactive {
		t.Fatalf("expected inactive classification, got %s", res.Classification)
	}
	if res.OtherPartyID != 2 {
		t.Fatalf("expected other party 2, got %d", res.OtherPartyID)
	}
}

func TestFriendServiceGetRelationships(t *testing.T) {
	repo := noopFriendRepo()
	repo.getLinksForFn = func(context.Context, uint) ([]models.FriendLink, error) {
		return []models.FriendLink{
			{ID: 1, RequesterID: 1, AddresseeID: 2, Status: models.FriendLinkStatusAccepted},
			{ID: 2, RequesterID: 3, AddresseeID: 1, Status: models.FriendLinkStatusPending},
			{ID: 3, RequesterID: 1, AddresseeID: 4, Status: models.FriendLinkStatusPending},
			{ID: 4, RequesterID: 5, AddresseeID: 1, Status: models.FriendLinkStatusRejected},
		}, nil
	}
	svc := NewFriendService(repo, noopUserRepo())

	lists, err := svc.GetRelationships(context.Background(), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(lists.Friends) != 1 || len(lists.Incoming) != 1 || len(lists.Outgoing) != 1 {
		t.Fatalf("unexpected partition sizes: %d/%d/%d",
			len(lists.Friends), len(lists.Incoming), len(lists.Outgoing))
	}
}
