package cache

import (
	"context"
	"fmt"
	"time"
)

const (
	UserKeyPrefix   = "user:%d"
	TeamKeyPrefix   = "team:%d"
	WizardKeyPrefix = "onboarding:%d"
)

const (
	UserTTL = 5 * time.Minute
	TeamTTL = 10 * time.Minute
	// Wizard snapshots survive long gaps; the authoritative completion flag
	// lives on the profile row, so a stale snapshot is harmless.
	WizardTTL = 30 * 24 * time.Hour
)

func UserKey(userID uint) string {
	return fmt.Sprintf(UserKeyPrefix, userID)
}

func TeamKey(teamID uint) string {
	return fmt.Sprintf(TeamKeyPrefix, teamID)
}

func WizardKey(userID uint) string {
	return fmt.Sprintf(WizardKeyPrefix, userID)
}

func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

func InvalidateUser(ctx context.Context, userID uint) {
	Invalidate(ctx, UserKey(userID))
}

func InvalidateTeam(ctx context.Context, teamID uint) {
	Invalidate(ctx, TeamKey(teamID))
}
