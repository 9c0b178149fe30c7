package validation

import (
	"fmt"
	"regexp"
	"strings"
)

var teamTagRegex = regexp.MustCompile(`^[A-Z0-9]{2,8}$`)

var reservedTeamNames = map[string]struct{}{
	"admin":     {},
	"api":       {},
	"auth":      {},
	"teams":     {},
	"events":    {},
	"friends":   {},
	"notices":   {},
	"setups":    {},
	"racers":    {},
	"ws":        {},
	"metrics":   {},
	"login":     {},
	"signup":    {},
	"racemates": {},
}

// ValidateTeamName checks team name length and reserved names.
func ValidateTeamName(name string) error {
	trimmed := strings.TrimSpace(name)
	if len(trimmed) < 3 || len(trimmed) > 48 {
		return fmt.Errorf("team name must be 3-48 characters")
	}
	if _, exists := reservedTeamNames[strings.ToLower(trimmed)]; exists {
		return fmt.Errorf("team name is reserved")
	}
	return nil
}

// ValidateTeamTag checks the short tag shown next to team members' names.
func ValidateTeamTag(tag string) error {
	if tag == "" {
		return nil // optional
	}
	if !teamTagRegex.MatchString(tag) {
		return fmt.Errorf("team tag must be 2-8 uppercase letters or digits")
	}
	return nil
}
