package seed

import (
	"fmt"
	"log"

	"racemates/internal/models"

	"gorm.io/gorm"
)

// Options configures a seeding run.
type Options struct {
	NumRacers  int
	NumTeams   int
	NumEvents  int
	NumNotices int
	NumSetups  int
	// ShouldClean truncates all seeded tables before writing.
	ShouldClean bool
	// SkipBcrypt stores a plaintext password marker instead of hashing,
	// which makes large seeds dramatically faster. Development only.
	SkipBcrypt bool
	// RandSeed pins the generators for reproducible data. Zero means
	// time-based.
	RandSeed int64
}

// DefaultOptions returns a medium-sized development dataset.
func DefaultOptions() Options {
	return Options{
		NumRacers:  40,
		NumTeams:   6,
		NumEvents:  12,
		NumNotices: 15,
		NumSetups:  20,
	}
}

// Run populates the database with a connected dataset: racers, a friend
// mesh, teams with members and channels, events with RSVPs, notices with
// replies, shared setups and direct conversations.
func Run(db *gorm.DB, opts Options) error {
	if opts.NumRacers < 2 {
		return fmt.Errorf("seed needs at least 2 racers, got %d", opts.NumRacers)
	}

	if opts.ShouldClean {
		if err := Clean(db); err != nil {
			return fmt.Errorf("clean failed: %w", err)
		}
	}

	f := NewFactory(db, opts)

	racers := make([]*models.User, 0, opts.NumRacers)
	for i := 0; i < opts.NumRacers; i++ {
		racer, err := f.CreateRacer()
		if err != nil {
			return fmt.Errorf("create racer: %w", err)
		}
		racers = append(racers, racer)
	}
	log.Printf("seeded %d racers", len(racers))

	if err := seedFriendMesh(f, racers); err != nil {
		return err
	}

	teams, err := seedTeams(f, racers, opts.NumTeams)
	if err != nil {
		return err
	}

	if err := seedEvents(f, racers, teams, opts.NumEvents); err != nil {
		return err
	}
	if err := seedNotices(f, racers, opts.NumNotices); err != nil {
		return err
	}
	if err := seedSetups(f, teams, opts.NumSetups); err != nil {
		return err
	}
	if err := seedConversations(f, racers); err != nil {
		return err
	}

	log.Println("seed complete")
	return nil
}

// seedFriendMesh links each racer to a handful of others: mostly accepted
// friendships with some pending requests mixed in.
func seedFriendMesh(f *Factory, racers []*models.User) error {
	linked := map[[2]uint]bool{}
	count := 0
	for i, racer := range racers {
		degree := 2 + f.r.Intn(4)
		for n := 0; n < degree; n++ {
			j := f.r.Intn(len(racers))
			if j == i {
				continue
			}
			a, b := racer.ID, racers[j].ID
			key := [2]uint{min(a, b), max(a, b)}
			if linked[key] {
				continue
			}
			linked[key] = true

			status := models.FriendLinkStatusAccepted
			if f.r.Intn(5) == 0 {
				status = models.FriendLinkStatusPending
			}
			if err := f.CreateFriendLink(racer, racers[j], status); err != nil {
				return fmt.Errorf("create friend link: %w", err)
			}
			count++
		}
	}
	log.Printf("seeded %d friend links", count)
	return nil
}

func seedTeams(f *Factory, racers []*models.User, numTeams int) ([]*models.Team, error) {
	teams := make([]*models.Team, 0, numTeams)
	for i := 0; i < numTeams; i++ {
		owner := racers[f.r.Intn(len(racers))]
		team, err := f.CreateTeam(owner)
		if err != nil {
			return nil, fmt.Errorf("create team: %w", err)
		}

		members := map[uint]bool{owner.ID: true}
		size := 2 + f.r.Intn(5)
		for n := 0; n < size; n++ {
			candidate := racers[f.r.Intn(len(racers))]
			if members[candidate.ID] {
				continue
			}
			members[candidate.ID] = true

			role := models.TeamRoleDriver
			if f.r.Intn(4) == 0 {
				role = models.TeamRoleManager
			}
			if err := f.AddTeamMember(team, candidate, role); err != nil {
				return nil, fmt.Errorf("add team member: %w", err)
			}
		}
		teams = append(teams, team)
	}
	log.Printf("seeded %d teams", len(teams))
	return teams, nil
}

func seedEvents(f *Factory, racers []*models.User, teams []*models.Team, numEvents int) error {
	for i := 0; i < numEvents; i++ {
		creator := racers[f.r.Intn(len(racers))]
		var teamID *uint
		if len(teams) > 0 && f.r.Intn(2) == 0 {
			team := teams[f.r.Intn(len(teams))]
			teamID = &team.ID
			creator = &models.User{ID: team.OwnerID}
		}

		event, err := f.CreateEvent(creator, teamID)
		if err != nil {
			return fmt.Errorf("create event: %w", err)
		}

		responded := map[uint]bool{}
		for n := 0; n < 2+f.r.Intn(6); n++ {
			attendee := racers[f.r.Intn(len(racers))]
			if responded[attendee.ID] {
				continue
			}
			responded[attendee.ID] = true

			response := models.RSVPYes
			switch f.r.Intn(4) {
			case 0:
				response = models.RSVPNo
			case 1:
				response = models.RSVPMaybe
			}
			if err := f.CreateRSVP(event, attendee, response); err != nil {
				return fmt.Errorf("create rsvp: %w", err)
			}
		}
	}
	log.Printf("seeded %d events", numEvents)
	return nil
}

func seedNotices(f *Factory, racers []*models.User, numNotices int) error {
	for i := 0; i < numNotices; i++ {
		author := racers[f.r.Intn(len(racers))]
		notice, err := f.CreateNotice(author)
		if err != nil {
			return fmt.Errorf("create notice: %w", err)
		}
		for n := 0; n < f.r.Intn(4); n++ {
			replier := racers[f.r.Intn(len(racers))]
			if _, err := f.CreateNoticeReply(notice, replier); err != nil {
				return fmt.Errorf("create notice reply: %w", err)
			}
		}
	}
	log.Printf("seeded %d notices", numNotices)
	return nil
}

func seedSetups(f *Factory, teams []*models.Team, numSetups int) error {
	if len(teams) == 0 {
		return nil
	}
	for i := 0; i < numSetups; i++ {
		team := teams[f.r.Intn(len(teams))]
		owner := &models.User{ID: team.OwnerID}

		// Half stay private, half are shared with the owner's team.
		var teamID *uint
		if f.r.Intn(2) == 0 {
			teamID = &team.ID
		}
		if _, err := f.CreateSetupFile(owner, teamID); err != nil {
			return fmt.Errorf("create setup: %w", err)
		}
	}
	log.Printf("seeded %d setups", numSetups)
	return nil
}

func seedConversations(f *Factory, racers []*models.User) error {
	count := len(racers) / 3
	for i := 0; i < count; i++ {
		a := racers[f.r.Intn(len(racers))]
		b := racers[f.r.Intn(len(racers))]
		if a.ID == b.ID {
			continue
		}
		if _, err := f.CreateDirectConversation(a, b, 3+f.r.Intn(8)); err != nil {
			return fmt.Errorf("create conversation: %w", err)
		}
	}
	log.Printf("seeded %d direct conversations", count)
	return nil
}

// Clean removes all seeded rows. Order respects foreign keys.
func Clean(db *gorm.DB) error {
	tables := []interface{}{
		&models.Message{},
		&models.ConversationParticipant{},
		&models.Conversation{},
		&models.SetupFile{},
		&models.NoticeReply{},
		&models.Notice{},
		&models.EventRSVP{},
		&models.Event{},
		&models.TeamJoinRequest{},
		&models.TeamMembership{},
		&models.Team{},
		&models.FriendLink{},
		&models.User{},
	}
	for _, table := range tables {
		if err := db.Session(&gorm.Session{AllowGlobalUpdate: true}).
			Unscoped().Delete(table).Error; err != nil {
			return err
		}
	}
	return nil
}
