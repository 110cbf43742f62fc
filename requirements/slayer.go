package requirements

import (
	"fmt"

	"guild-rank-system/hypixel"
	"guild-rank-system/models"
	"guild-rank-system/utils"
)

// SlayerChecker compares the player's combined slayer experience over
// every boss type against the configured minimum.
type SlayerChecker struct{}

func NewSlayerChecker() *SlayerChecker {
	return &SlayerChecker{}
}

func (c *SlayerChecker) HasRequirement(req *models.RankRequirement) bool {
	return req.SlayerExperience != models.UnsetRequirement
}

func (c *SlayerChecker) RequirementNote(req *models.RankRequirement) string {
	if !c.HasRequirement(req) {
		return "No slayer experience requirement"
	}
	return fmt.Sprintf("Must have at least %s total slayer experience", utils.FormatNumber(int64(req.SlayerExperience)))
}

func (c *SlayerChecker) Check(entry *models.GuildEntry, guild *hypixel.Guild, profile *hypixel.Profile, member *hypixel.ProfileMember) (Verdict, error) {
	total := int64(0)
	for _, boss := range member.SlayerBosses {
		total += boss.XP
	}

	rank := firstClearedRank(entry, guild, func(req *models.RankRequirement) bool {
		return int64(req.SlayerExperience) <= total
	})

	return Verdict{
		Status: StatusOK,
		Rank:   rank,
		Metrics: map[string]interface{}{
			"experience": total,
		},
	}, nil
}
