package seed

import (
	"testing"

	"racemates/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateRacerOverrides(t *testing.T) {
	db := newTestDB(t)
	f := NewFactory(db, Options{SkipBcrypt: true, RandSeed: 1})

	racer, err := f.CreateRacer(func(u *models.User) {
		u.Username = "fixed-name"
		u.Region = "EU"
		u.LookingForTeam = true
	})
	require.NoError(t, err)
	assert.Equal(t, "fixed-name", racer.Username)
	assert.Equal(t, "EU", racer.Region)
	assert.True(t, racer.LookingForTeam)
	assert.True(t, racer.OnboardingComplete)
	assert.NotEmpty(t, racer.Platforms)
	assert.NotZero(t, racer.IRating)
}

func TestCreateTeamBuildsOwnerAndChannel(t *testing.T) {
	db := newTestDB(t)
	f := NewFactory(db, Options{SkipBcrypt: true, RandSeed: 2})

	owner, err := f.CreateRacer()
	require.NoError(t, err)
	team, err := f.CreateTeam(owner)
	require.NoError(t, err)
	assert.Equal(t, owner.ID, team.OwnerID)
	assert.Len(t, team.Tag, 3)

	var channel models.Conversation
	require.NoError(t, db.Where("team_id = ?", team.ID).First(&channel).Error)
	assert.True(t, channel.IsGroup)

	var participant models.ConversationParticipant
	require.NoError(t, db.Where("conversation_id = ? AND user_id = ?",
		channel.ID, owner.ID).First(&participant).Error)
}

func TestAddTeamMemberJoinsChannel(t *testing.T) {
	db := newTestDB(t)
	f := NewFactory(db, Options{SkipBcrypt: true, RandSeed: 3})

	owner, err := f.CreateRacer()
	require.NoError(t, err)
	team, err := f.CreateTeam(owner)
	require.NoError(t, err)

	driver, err := f.CreateRacer()
	require.NoError(t, err)
	require.NoError(t, f.AddTeamMember(team, driver, models.TeamRoleDriver))

	var channel models.Conversation
	require.NoError(t, db.Where("team_id = ?", team.ID).First(&channel).Error)

	var participants int64
	db.Model(&models.ConversationParticipant{}).
		Where("conversation_id = ?", channel.ID).Count(&participants)
	assert.EqualValues(t, 2, participants)
}

func TestCreateDirectConversationAlternatesSenders(t *testing.T) {
	db := newTestDB(t)
	f := NewFactory(db, Options{SkipBcrypt: true, RandSeed: 4})

	a, err := f.CreateRacer()
	require.NoError(t, err)
	b, err := f.CreateRacer()
	require.NoError(t, err)

	conv, err := f.CreateDirectConversation(a, b, 4)
	require.NoError(t, err)

	var messages []models.Message
	require.NoError(t, db.Where("conversation_id = ?", conv.ID).
		Order("id").Find(&messages).Error)
	require.Len(t, messages, 4)
	assert.Equal(t, a.ID, messages[0].SenderID)
	assert.Equal(t, b.ID, messages[1].SenderID)
}

func TestCreateSetupFileContent(t *testing.T) {
	db := newTestDB(t)
	f := NewFactory(db, Options{SkipBcrypt: true, RandSeed: 5})

	owner, err := f.CreateRacer()
	require.NoError(t, err)
	setup, err := f.CreateSetupFile(owner, nil)
	require.NoError(t, err)

	assert.NotEmpty(t, setup.Content)
	assert.EqualValues(t, len(setup.Content), setup.SizeBytes)
	assert.NotEmpty(t, setup.StorageKey)
	assert.Nil(t, setup.TeamID)
}
