package repository

import (
	"context"
	"testing"

	"racemates/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFriendLinkRepository(t *testing.T) {
	db := newTestDB(t)
	repo := NewFriendLinkRepository(db)
	ctx := context.Background()

	u1 := &models.User{Username: "maxv", Email: "maxv@example.com", Password: "x"}
	u2 := &models.User{Username: "lando", Email: "lando@example.com", Password: "x"}
	u3 := &models.User{Username: "checo", Email: "checo@example.com", Password: "x"}
	require.NoError(t, db.Create(u1).Error)
	require.NoError(t, db.Create(u2).Error)
	require.NoError(t, db.Create(u3).Error)

	t.Run("Create and GetPendingRequests", func(t *testing.T) {
		link := &models.FriendLink{
			RequesterID: u1.ID,
			AddresseeID: u2.ID,
			Status:      models.FriendLinkStatusPending,
		}

		err := repo.Create(ctx, link)
		require.NoError(t, err)

		reqs, err := repo.GetPendingRequests(ctx, u2.ID)
		assert.NoError(t, err)
		require.Len(t, reqs, 1)
		assert.Equal(t, u1.ID, reqs[0].RequesterID)

		sent, err := repo.GetSentRequests(ctx, u1.ID)
		assert.NoError(t, err)
		require.Len(t, sent, 1)
		assert.Equal(t, u2.ID, sent[0].AddresseeID)
	})

	t.Run("Duplicate pair rejected", func(t *testing.T) {
		dup := &models.FriendLink{RequesterID: u1.ID, AddresseeID: u2.ID}
		err := repo.Create(ctx, dup)
		require.Error(t, err)
		appErr, ok := err.(*models.AppError)
		require.True(t, ok)
		assert.Equal(t, "VALIDATION_ERROR", appErr.Code)
	})

	t.Run("UpdateStatus and GetFriends", func(t *testing.T) {
		link, err := repo.GetBetweenUsers(ctx, u1.ID, u2.ID)
		require.NoError(t, err)
		require.NotNil(t, link)

		err = repo.UpdateStatus(ctx, link.ID, models.FriendLinkStatusAccepted)
		assert.NoError(t, err)

		friends, err := repo.GetFriends(ctx, u1.ID)
		assert.NoError(t, err)
		require.Len(t, friends, 1)
		assert.Equal(t, u2.Username, friends[0].Username)

		// Symmetric from the other side
		friends, err = repo.GetFriends(ctx, u2.ID)
		assert.NoError(t, err)
		require.Len(t, friends, 1)
		assert.Equal(t, u1.Username, friends[0].Username)
	})

	t.Run("Rejected links persist but do not count as friends", func(t *testing.T) {
		link := &models.FriendLink{RequesterID: u3.ID, AddresseeID: u1.ID}
		require.NoError(t, repo.Create(ctx, link))
		require.NoError(t, repo.UpdateStatus(ctx, link.ID, models.FriendLinkStatusRejected))

		stored, err := repo.GetBetweenUsers(ctx, u3.ID, u1.ID)
		require.NoError(t, err)
		require.NotNil(t, stored)
		assert.Equal(t, models.FriendLinkStatusRejected, stored.Status)

		friends, err := repo.GetFriends(ctx, u3.ID)
		assert.NoError(t, err)
		assert.Empty(t, friends)

		// Not pending either: the request was answered.
		reqs, err := repo.GetPendingRequests(ctx, u1.ID)
		assert.NoError(t, err)
		assert.Empty(t, reqs)
	})

	t.Run("GetLinksFor returns every link touching the user", func(t *testing.T) {
		links, err := repo.GetLinksFor(ctx, u1.ID)
		assert.NoError(t, err)
		assert.Len(t, links, 2)
		for _, l := range links {
			assert.NotNil(t, l.Requester)
			assert.NotNil(t, l.Addressee)
		}
	})

	t.Run("RemoveFriendship", func(t *testing.T) {
		err := repo.RemoveFriendship(ctx, u1.ID, u2.ID)
		assert.NoError(t, err)

		friends, err := repo.GetFriends(ctx, u1.ID)
		assert.NoError(t, err)
		assert.Empty(t, friends)

		link, err := repo.GetBetweenUsers(ctx, u1.ID, u2.ID)
		assert.NoError(t, err)
		assert.Nil(t, link)
	})
}
