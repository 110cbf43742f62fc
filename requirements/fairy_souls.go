package requirements

import (
	"fmt"

	"guild-rank-system/hypixel"
	"guild-rank-system/models"
	"guild-rank-system/utils"
)

// FairySoulsChecker compares the player's collected fairy souls
// against the configured minimum.
type FairySoulsChecker struct{}

func NewFairySoulsChecker() *FairySoulsChecker {
	return &FairySoulsChecker{}
}

func (c *FairySoulsChecker) HasRequirement(req *models.RankRequirement) bool {
	return req.FairySouls != models.UnsetRequirement
}

func (c *FairySoulsChecker) RequirementNote(req *models.RankRequirement) string {
	if !c.HasRequirement(req) {
		return "No fairy souls requirement"
	}
	return fmt.Sprintf("Must have collected at least %s fairy souls", utils.FormatNumber(int64(req.FairySouls)))
}

func (c *FairySoulsChecker) Check(entry *models.GuildEntry, guild *hypixel.Guild, profile *hypixel.Profile, member *hypixel.ProfileMember) (Verdict, error) {
	collected := member.FairySoulsCollected

	rank := firstClearedRank(entry, guild, func(req *models.RankRequirement) bool {
		return req.FairySouls <= collected
	})

	return Verdict{
		Status: StatusOK,
		Rank:   rank,
		Metrics: map[string]interface{}{
			"souls": collected,
		},
	}, nil
}
