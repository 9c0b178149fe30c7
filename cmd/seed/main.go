// Command seed populates the database with development data.
package main

import (
	"flag"
	"log"

	"racemates/internal/config"
	"racemates/internal/database"
	"racemates/internal/seed"
)

func main() {
	defaults := seed.DefaultOptions()
	numRacers := flag.Int("racers", defaults.NumRacers, "Number of racers to create")
	numTeams := flag.Int("teams", defaults.NumTeams, "Number of teams to create")
	numEvents := flag.Int("events", defaults.NumEvents, "Number of events to create")
	numNotices := flag.Int("notices", defaults.NumNotices, "Number of notices to create")
	numSetups := flag.Int("setups", defaults.NumSetups, "Number of setup files to create")
	shouldClean := flag.Bool("clean", true, "Clean database before seeding")
	fast := flag.Bool("fast", false, "Skip bcrypt hashing for speed")
	randSeed := flag.Int64("seed", 0, "Random seed (0 = time-based)")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	opts := seed.Options{
		NumRacers:   *numRacers,
		NumTeams:    *numTeams,
		NumEvents:   *numEvents,
		NumNotices:  *numNotices,
		NumSetups:   *numSetups,
		ShouldClean: *shouldClean,
		SkipBcrypt:  *fast,
		RandSeed:    *randSeed,
	}
	if err := seed.Run(db, opts); err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}
}
