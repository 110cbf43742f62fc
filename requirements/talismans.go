package requirements

import (
	"fmt"

	"guild-rank-system/hypixel"
	"guild-rank-system/models"
	"guild-rank-system/utils"
)

// TalismansChecker compares the player's legendary and epic talisman
// counts against the configured pair of minimums. Both counts must
// clear for a rank to count.
type TalismansChecker struct{}

func NewTalismansChecker() *TalismansChecker {
	return &TalismansChecker{}
}

func (c *TalismansChecker) HasRequirement(req *models.RankRequirement) bool {
	return req.TalismansLegendary != models.UnsetRequirement &&
		req.TalismansEpic != models.UnsetRequirement
}

func (c *TalismansChecker) RequirementNote(req *models.RankRequirement) string {
	if !c.HasRequirement(req) {
		return "No talismans requirement"
	}
	return fmt.Sprintf(
		"Must have at least %s legendary and %s epic talismans",
		utils.FormatNumber(int64(req.TalismansLegendary)),
		utils.FormatNumber(int64(req.TalismansEpic)),
	)
}

func (c *TalismansChecker) Check(entry *models.GuildEntry, guild *hypixel.Guild, profile *hypixel.Profile, member *hypixel.ProfileMember) (Verdict, error) {
	if member.Talismans == nil {
		return Verdict{}, fmt.Errorf("%w: the player hides their talisman counts", ErrDataUnavailable)
	}

	counts := member.Talismans
	rank := firstClearedRank(entry, guild, func(req *models.RankRequirement) bool {
		return req.TalismansLegendary <= counts.Legendary && req.TalismansEpic <= counts.Epic
	})

	return Verdict{
		Status: StatusOK,
		Rank:   rank,
		Metrics: map[string]interface{}{
			"legendary": counts.Legendary,
			"epic":      counts.Epic,
		},
	}, nil
}
