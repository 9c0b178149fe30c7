package service

import (
	"context"
	"testing"

	"racemates/internal/models"
	"racemates/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTeamService(db *gorm.DB) *TeamService {
	return NewTeamService(repository.NewTeamRepository(db), repository.NewUserRepository(db))
}

func TestTeamServiceJoinRequestLifecycle(t *testing.T) {
	db := newServiceTestDB(t)
	owner := &models.User{Username: "owner", Email: "owner@example.com", Password: "x"}
	applicant := &models.User{Username: "rookie", Email: "rookie@example.com", Password: "x"}
	require.NoError(t, db.Create(owner).Error)
	require.NoError(t, db.Create(applicant).Error)

	svc := newTeamService(db)
	ctx := context.Background()

	team, err := svc.CreateTeam(ctx, CreateTeamInput{
		OwnerID:    owner.ID,
		Name:       "Apex Predators",
		Tag:        "APX",
		Recruiting: true,
	})
	require.NoError(t, err)

	// Creator is installed as owner.
	require.Len(t, team.Members, 1)
	assert.Equal(t, models.TeamRoleOwner, team.Members[0].Role)

	req, err := svc.RequestToJoin(ctx, team.ID, applicant.ID, "GT3 endurance driver")
	require.NoError(t, err)

	// Duplicate pending request rejected.
	_, err = svc.RequestToJoin(ctx, team.ID, applicant.ID, "again")
	require.Error(t, err)

	// Applicant cannot review their own request.
	_, err = svc.ReviewJoinRequest(ctx, req.ID, applicant.ID, true)
	require.Error(t, err)

	reviewed, err := svc.ReviewJoinRequest(ctx, req.ID, owner.ID, true)
	require.NoError(t, err)
	assert.Equal(t, models.TeamJoinRequestStatusApproved, reviewed.Status)
	require.NotNil(t, reviewed.ReviewedByUserID)
	assert.Equal(t, owner.ID, *reviewed.ReviewedByUserID)

	membership, err := repository.NewTeamRepository(db).GetMembership(ctx, team.ID, applicant.ID)
	require.NoError(t, err)
	require.NotNil(t, membership)
	assert.Equal(t, models.TeamRoleDriver, membership.Role)

	// Approved member cannot re-apply.
	_, err = svc.RequestToJoin(ctx, team.ID, applicant.ID, "")
	require.Error(t, err)
}

func TestTeamServiceNotRecruiting(t *testing.T) {
	db := newServiceTestDB(t)
	owner := &models.User{Username: "owner", Email: "owner@example.com", Password: "x"}
	applicant := &models.User{Username: "rookie", Email: "rookie@example.com", Password: "x"}
	require.NoError(t, db.Create(owner).Error)
	require.NoError(t, db.Create(applicant).Error)

	svc := newTeamService(db)
	ctx := context.Background()

	team, err := svc.CreateTeam(ctx, CreateTeamInput{OwnerID: owner.ID, Name: "Closed Shop"})
	require.NoError(t, err)

	_, err = svc.RequestToJoin(ctx, team.ID, applicant.ID, "")
	require.Error(t, err)
	appErr, ok := err.(*models.AppError)
	require.True(t, ok)
	assert.Equal(t, "VALIDATION_ERROR", appErr.Code)
}

func TestTeamServiceRolesAndRemoval(t *testing.T) {
	db := newServiceTestDB(t)
	owner := &models.User{Username: "owner", Email: "owner@example.com", Password: "x"}
	driver := &models.User{Username: "driver", Email: "driver@example.com", Password: "x"}
	require.NoError(t, db.Create(owner).Error)
	require.NoError(t, db.Create(driver).Error)

	svc := newTeamService(db)
	ctx := context.Background()

	team, err := svc.CreateTeam(ctx, CreateTeamInput{OwnerID: owner.ID, Name: "Apex Predators", Recruiting: true})
	require.NoError(t, err)

	req, err := svc.RequestToJoin(ctx, team.ID, driver.ID, "")
	require.NoError(t, err)
	_, err = svc.ReviewJoinRequest(ctx, req.ID, owner.ID, true)
	require.NoError(t, err)

	// Promote to manager; only the owner can do this.
	err = svc.SetMemberRole(ctx, team.ID, driver.ID, driver.ID, models.TeamRoleManager)
	require.Error(t, err)
	err = svc.SetMemberRole(ctx, team.ID, owner.ID, driver.ID, models.TeamRoleManager)
	require.NoError(t, err)

	// The owner cannot be removed.
	err = svc.RemoveMember(ctx, team.ID, driver.ID, owner.ID)
	require.Error(t, err)

	// A manager can remove a member; here the member leaves themselves.
	err = svc.RemoveMember(ctx, team.ID, driver.ID, driver.ID)
	require.NoError(t, err)

	// Only the owner can disband.
	err = svc.DisbandTeam(ctx, team.ID, driver.ID)
	require.Error(t, err)
	err = svc.DisbandTeam(ctx, team.ID, owner.ID)
	require.NoError(t, err)
}
