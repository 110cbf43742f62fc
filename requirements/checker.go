// Package requirements implements the per-category rank checkers and
// the resolver that combines their verdicts into an overall guild rank.
package requirements

import (
	"errors"

	"guild-rank-system/hypixel"
	"guild-rank-system/models"
)

// ErrDataUnavailable marks checks that could not run because the player
// hides the relevant API section. Checkers wrap it so callers can tell
// "player hid their data" apart from real failures.
var ErrDataUnavailable = errors.New("required profile data is unavailable")

// Status classifies the outcome of one category evaluation.
type Status string

const (
	// StatusOK means the check ran; Rank may still be nil when no
	// configured threshold was met.
	StatusOK Status = "ok"
	// StatusUnavailable means the player hides the data the category
	// needs (skills API off, inventory API off, talismans hidden).
	StatusUnavailable Status = "unavailable"
	// StatusError means the check failed for an unexpected reason.
	StatusError Status = "error"
	// StatusUnconfigured means no rank in the guild has a threshold for
	// this category, so there was nothing to check.
	StatusUnconfigured Status = "unconfigured"
)

// Verdict is the immutable outcome of one category check for one
// player. Metrics carries the raw values the check was based on so the
// bot can render them even when no rank was met.
type Verdict struct {
	Status  Status                 `json:"status"`
	Rank    *hypixel.GuildRank     `json:"rank,omitempty"`
	Metrics map[string]interface{} `json:"metrics,omitempty"`
	Reason  string                 `json:"reason,omitempty"`
}

// MeetsPriority reports whether the verdict is good enough for a rank
// of the given priority.
func (v Verdict) MeetsPriority(priority int) bool {
	return v.Status == StatusOK && v.Rank != nil && v.Rank.Priority >= priority
}

// Checker evaluates one requirement category against a player profile.
// Check is pure: identical inputs always yield the identical verdict,
// and checkers never mutate the entry, guild or profile they are given.
type Checker interface {
	// HasRequirement reports whether the category is configured on the
	// given rank's thresholds.
	HasRequirement(req *models.RankRequirement) bool

	// RequirementNote renders the configured threshold for display, or
	// a "not set" note when the category is unconfigured on the rank.
	RequirementNote(req *models.RankRequirement) string

	// Check walks the guild ranks from most to least senior and returns
	// an OK verdict carrying the first rank whose threshold the player
	// clears, or an OK verdict with a nil rank when none is cleared.
	Check(entry *models.GuildEntry, guild *hypixel.Guild, profile *hypixel.Profile, member *hypixel.ProfileMember) (Verdict, error)
}

// firstClearedRank walks the guild ranks from most senior to least
// senior and returns the first one whose configured threshold the
// clears callback accepts. Ranks without a requirement record are
// skipped; unset thresholds never clear because of the sentinel value.
func firstClearedRank(entry *models.GuildEntry, guild *hypixel.Guild, clears func(req *models.RankRequirement) bool) *hypixel.GuildRank {
	for _, rank := range guild.RanksByPriority() {
		req, ok := entry.RankRequirements[rank.Name]
		if !ok {
			continue
		}
		if clears(req) {
			cleared := rank
			return &cleared
		}
	}
	return nil
}
