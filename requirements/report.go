package requirements

import (
	"guild-rank-system/hypixel"
	"guild-rank-system/models"
)

// CheckResult is one category's verdict inside a player report.
type CheckResult struct {
	Type    Type    `json:"type"`
	Name    string  `json:"name"`
	Verdict Verdict `json:"verdict"`
}

// PlayerReport is the full evaluation of one guild member. Error is
// set instead of Checks when the member's profile could not be fetched
// at all.
type PlayerReport struct {
	UUID   string             `json:"uuid"`
	Rank   *hypixel.GuildRank `json:"rank,omitempty"`
	Error  string             `json:"error,omitempty"`
	Checks []CheckResult      `json:"checks,omitempty"`
}

// FailedPlayerReport records a member whose evaluation never ran, so a
// finished report still accounts for every scheduled member.
func FailedPlayerReport(playerUUID string, err error) *PlayerReport {
	return &PlayerReport{UUID: playerUUID, Error: err.Error()}
}

// BuildPlayerReport runs every registered category for one player and
// resolves the overall rank from the combined verdicts.
func BuildPlayerReport(registry *Registry, entry *models.GuildEntry, guild *hypixel.Guild, profile *hypixel.Profile, playerUUID string) *PlayerReport {
	report := &PlayerReport{UUID: playerUUID}

	verdicts := map[Type]Verdict{}
	for _, e := range registry.Entries() {
		verdict := registry.Evaluate(e, entry, guild, profile, playerUUID)
		verdicts[e.Type] = verdict
		report.Checks = append(report.Checks, CheckResult{
			Type:    e.Type,
			Name:    e.Name,
			Verdict: verdict,
		})
	}

	report.Rank = resolveRank(registry, entry, guild, verdicts)
	return report
}

// resolveRank walks the guild ranks from most senior to least senior
// and returns the first rank for which the player meets every category
// that rank configures. The gate is vacuously true for a rank that
// configures nothing, so an unconfigured rank catches every player
// that fails the ranks above it.
func resolveRank(registry *Registry, entry *models.GuildEntry, guild *hypixel.Guild, verdicts map[Type]Verdict) *hypixel.GuildRank {
	for _, rank := range guild.RanksByPriority() {
		met := true
		if req, ok := entry.RankRequirements[rank.Name]; ok {
			for _, e := range registry.Entries() {
				if !e.Checker.HasRequirement(req) {
					continue
				}
				if !verdicts[e.Type].MeetsPriority(rank.Priority) {
					met = false
					break
				}
			}
		}

		if met {
			resolved := rank
			return &resolved
		}
	}
	return nil
}
