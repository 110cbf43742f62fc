package requirements

import (
	"fmt"

	"guild-rank-system/hypixel"
	"guild-rank-system/models"
)

// PowerOrbsChecker compares the strongest power orb the player owns
// against the configured minimum tier; a stronger orb always satisfies
// a weaker requirement.
type PowerOrbsChecker struct{}

func NewPowerOrbsChecker() *PowerOrbsChecker {
	return &PowerOrbsChecker{}
}

func (c *PowerOrbsChecker) HasRequirement(req *models.RankRequirement) bool {
	return req.PowerOrb != ""
}

func (c *PowerOrbsChecker) RequirementNote(req *models.RankRequirement) string {
	if !c.HasRequirement(req) {
		return "No power orb requirement"
	}
	if orb, ok := FindPowerOrb(req.PowerOrb); ok {
		return fmt.Sprintf("Must own a %s or better", orb.Name)
	}
	return fmt.Sprintf("Must own a %s or better", req.PowerOrb)
}

func (c *PowerOrbsChecker) Check(entry *models.GuildEntry, guild *hypixel.Guild, profile *hypixel.Profile, member *hypixel.ProfileMember) (Verdict, error) {
	ownedTier := 0
	ownedName := ""
	if member.PowerOrb != "" {
		if orb, ok := FindPowerOrb(member.PowerOrb); ok {
			ownedTier = orb.Tier
			ownedName = orb.Name
		}
	}

	rank := firstClearedRank(entry, guild, func(req *models.RankRequirement) bool {
		if req.PowerOrb == "" {
			return false
		}
		required, ok := FindPowerOrb(req.PowerOrb)
		return ok && required.Tier <= ownedTier
	})

	return Verdict{
		Status: StatusOK,
		Rank:   rank,
		Metrics: map[string]interface{}{
			"orb": ownedName,
		},
	}, nil
}
