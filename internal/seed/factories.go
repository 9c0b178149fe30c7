// Package seed creates development and demo data: racers with finished
// profiles, a friend mesh, teams with channels, scheduled events, notice
// board traffic and shared setup files.
package seed

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"racemates/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	regions   = []string{"EU", "NA-East", "NA-West", "APAC", "SA", "OCE"}
	timezones = []string{
		"Europe/Berlin", "Europe/London", "America/New_York",
		"America/Los_Angeles", "Asia/Tokyo", "Australia/Sydney",
	}
	sims = []string{"iracing", "acc", "ams2", "rfactor2", "lmu"}

	licenseClasses = []string{"R", "D", "C", "B", "A", "Pro"}
	drivingStyles  = []string{"endurance", "sprint", "oval", "dirt", "time-trial"}
	roleTags       = []string{"driver", "strategist", "engineer", "spotter", "team-manager"}

	cars = []string{
		"Porsche 992 GT3 R", "Ferrari 296 GT3", "BMW M4 GT3",
		"Mercedes-AMG GT3 Evo", "Audi R8 LMS Evo II", "Dallara P217",
		"Mazda MX-5 Cup", "Formula Vee",
	}
	tracks = []string{
		"Spa-Francorchamps", "Nurburgring GP", "Monza", "Le Mans",
		"Watkins Glen", "Road America", "Suzuka", "Bathurst", "Daytona",
	}

	noticeCategories = []string{"driver-wanted", "team-recruiting", "league", "setup-trade", "general"}

	eventTitles = []string{
		"Endurance practice", "Sprint race night", "Quali sim",
		"Stint rehearsal", "Track walk + setup shakedown", "League round",
	}
)

func pick[T any](r *rand.Rand, items []T) T {
	return items[r.Intn(len(items))]
}

func pickSome(r *rand.Rand, items []string, max int) []string {
	n := 1 + r.Intn(max)
	if n > len(items) {
		n = len(items)
	}
	shuffled := append([]string(nil), items...)
	r.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	return shuffled[:n]
}

// Factory builds domain entities and persists them. Intended for
// development seeding and tests only.
type Factory struct {
	db   *gorm.DB
	opts Options
	r    *rand.Rand
}

// NewFactory returns a Factory bound to the given DB handle.
func NewFactory(db *gorm.DB, opts Options) *Factory {
	src := opts.RandSeed
	if src == 0 {
		src = time.Now().UnixNano()
	}
	gofakeit.Seed(src)
	return &Factory{db: db, opts: opts, r: rand.New(rand.NewSource(src))}
}

// CreateRacer persists a user with a completed racing profile. Override
// functions may adjust the generated record before saving.
func (f *Factory) CreateRacer(overrides ...func(*models.User)) (*models.User, error) {
	user := &models.User{
		Username:    fmt.Sprintf("%s%d", gofakeit.Username(), gofakeit.Number(10, 99)),
		Email:       gofakeit.Email(),
		DisplayName: gofakeit.Name(),
		Region:      pick(f.r, regions),
		Timezone:    pick(f.r, timezones),
		Avatar:      fmt.Sprintf("https://i.pravatar.cc/150?u=%s", gofakeit.UUID()),
		Bio:         gofakeit.Sentence(12),

		Platforms:      models.StringList(pickSome(f.r, sims, 3)),
		IRating:        gofakeit.Number(800, 6500),
		SafetyRating:   float64(gofakeit.Number(100, 499)) / 100,
		LicenseClass:   pick(f.r, licenseClasses),
		TTRating:       gofakeit.Number(900, 4000),
		DrivingStyles:  models.StringList(pickSome(f.r, drivingStyles, 2)),
		RoleTags:       models.StringList(pickSome(f.r, roleTags, 2)),
		LookingForTeam: f.r.Intn(3) == 0,

		XP:                 gofakeit.Number(50, 2500),
		OnboardingComplete: true,
	}

	if f.opts.SkipBcrypt {
		user.Password = "SeedPass123!@#"
	} else {
		hashed, err := bcrypt.GenerateFromPassword([]byte("SeedPass123!@#"), bcrypt.MinCost)
		if err != nil {
			return nil, err
		}
		user.Password = string(hashed)
	}

	for _, override := range overrides {
		override(user)
	}

	if err := f.db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// CreateFriendLink persists a directed friend link with the given status.
func (f *Factory) CreateFriendLink(requester, addressee *models.User, status models.FriendLinkStatus) error {
	link := &models.FriendLink{
		RequesterID: requester.ID,
		AddresseeID: addressee.ID,
		Status:      status,
	}
	return f.db.Create(link).Error
}

// CreateTeam persists a team with the owner's membership and team channel.
func (f *Factory) CreateTeam(owner *models.User, overrides ...func(*models.Team)) (*models.Team, error) {
	// Suffix keeps generated names clear of the unique constraint.
	name := fmt.Sprintf("%s %s Racing %d", gofakeit.Adjective(), gofakeit.Animal(), gofakeit.Number(10, 999))
	team := &models.Team{
		Name:        name,
		Tag:         strings.ToUpper(name[:3]),
		Description: gofakeit.Sentence(15),
		OwnerID:     owner.ID,
		Recruiting:  f.r.Intn(4) != 0,
	}

	for _, override := range overrides {
		override(team)
	}

	err := f.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(team).Error; err != nil {
			return err
		}
		membership := &models.TeamMembership{
			TeamID: team.ID,
			UserID: owner.ID,
			Role:   models.TeamRoleOwner,
		}
		if err := tx.Create(membership).Error; err != nil {
			return err
		}
		channel := &models.Conversation{
			Name:      team.Name,
			IsGroup:   true,
			TeamID:    &team.ID,
			CreatedBy: owner.ID,
		}
		if err := tx.Create(channel).Error; err != nil {
			return err
		}
		return tx.Create(&models.ConversationParticipant{
			ConversationID: channel.ID,
			UserID:         owner.ID,
		}).Error
	})
	if err != nil {
		return nil, err
	}
	return team, nil
}

// AddTeamMember persists a membership and joins the member to the team
// channel when one exists.
func (f *Factory) AddTeamMember(team *models.Team, user *models.User, role models.TeamRole) error {
	return f.db.Transaction(func(tx *gorm.DB) error {
		membership := &models.TeamMembership{
			TeamID: team.ID,
			UserID: user.ID,
			Role:   role,
		}
		if err := tx.Create(membership).Error; err != nil {
			return err
		}

		var channel models.Conversation
		err := tx.Where("team_id = ?", team.ID).First(&channel).Error
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return nil
			}
			return err
		}
		return tx.Create(&models.ConversationParticipant{
			ConversationID: channel.ID,
			UserID:         user.ID,
		}).Error
	})
}

// CreateEvent persists a team or open event scheduled in the near future.
func (f *Factory) CreateEvent(creator *models.User, teamID *uint, overrides ...func(*models.Event)) (*models.Event, error) {
	event := &models.Event{
		TeamID:          teamID,
		CreatedBy:       creator.ID,
		Title:           pick(f.r, eventTitles),
		Track:           pick(f.r, tracks),
		Sim:             pick(f.r, sims),
		Description:     gofakeit.Sentence(10),
		StartsAt:        time.Now().Add(time.Duration(1+f.r.Intn(14*24)) * time.Hour),
		DurationMinutes: []int{45, 60, 90, 120, 180, 360}[f.r.Intn(6)],
	}

	for _, override := range overrides {
		override(event)
	}

	if err := f.db.Create(event).Error; err != nil {
		return nil, err
	}
	return event, nil
}

// CreateRSVP persists one user's response to an event.
func (f *Factory) CreateRSVP(event *models.Event, user *models.User, response models.RSVPResponse) error {
	rsvp := &models.EventRSVP{
		EventID:  event.ID,
		UserID:   user.ID,
		Response: response,
	}
	return f.db.Create(rsvp).Error
}

// CreateNotice persists a notice board post.
func (f *Factory) CreateNotice(author *models.User, overrides ...func(*models.Notice)) (*models.Notice, error) {
	notice := &models.Notice{
		AuthorID: author.ID,
		Title:    gofakeit.Sentence(6),
		Body:     gofakeit.Paragraph(1, 3, 8, "\n"),
		Category: pick(f.r, noticeCategories),
		Status:   models.NoticeStatusOpen,
	}

	for _, override := range overrides {
		override(notice)
	}

	if err := f.db.Create(notice).Error; err != nil {
		return nil, err
	}
	return notice, nil
}

// CreateNoticeReply persists a reply on a notice.
func (f *Factory) CreateNoticeReply(notice *models.Notice, author *models.User) (*models.NoticeReply, error) {
	reply := &models.NoticeReply{
		NoticeID: notice.ID,
		AuthorID: author.ID,
		Body:     gofakeit.Sentence(14),
	}
	if err := f.db.Create(reply).Error; err != nil {
		return nil, err
	}
	return reply, nil
}

// CreateSetupFile persists a setup file, optionally shared with a team. The
// content is a small synthetic blob.
func (f *Factory) CreateSetupFile(owner *models.User, teamID *uint, overrides ...func(*models.SetupFile)) (*models.SetupFile, error) {
	car := pick(f.r, cars)
	content := []byte(gofakeit.Paragraph(2, 4, 10, "\n"))
	setup := &models.SetupFile{
		OwnerID:    owner.ID,
		TeamID:     teamID,
		Car:        car,
		Track:      pick(f.r, tracks),
		Sim:        pick(f.r, sims),
		FileName:   fmt.Sprintf("%s.sto", gofakeit.Word()),
		StorageKey: uuid.New().String(),
		SizeBytes:  int64(len(content)),
		Notes:      gofakeit.Sentence(8),
		Content:    content,
	}

	for _, override := range overrides {
		override(setup)
	}

	if err := f.db.Create(setup).Error; err != nil {
		return nil, err
	}
	return setup, nil
}

// CreateDirectConversation persists a two-party conversation with a handful
// of messages alternating between the participants.
func (f *Factory) CreateDirectConversation(a, b *models.User, numMessages int) (*models.Conversation, error) {
	conv := &models.Conversation{CreatedBy: a.ID}

	err := f.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(conv).Error; err != nil {
			return err
		}
		for _, uid := range []uint{a.ID, b.ID} {
			if err := tx.Create(&models.ConversationParticipant{
				ConversationID: conv.ID,
				UserID:         uid,
			}).Error; err != nil {
				return err
			}
		}
		senders := []uint{a.ID, b.ID}
		for i := 0; i < numMessages; i++ {
			msg := &models.Message{
				ConversationID: conv.ID,
				SenderID:       senders[i%2],
				Content:        gofakeit.Sentence(9),
			}
			if err := tx.Create(msg).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return conv, nil
}
