package requirements

import (
	"fmt"

	"guild-rank-system/hypixel"
	"guild-rank-system/inventory"
	"guild-rank-system/models"
	"guild-rank-system/utils"
)

// ArmorChecker sums armor points over the player's inventory and ender
// chest. Every owned piece of a configured armor set counts the set's
// configured point value.
type ArmorChecker struct {
	decoder inventory.Decoder
}

func NewArmorChecker(decoder inventory.Decoder) *ArmorChecker {
	return &ArmorChecker{decoder: decoder}
}

func (c *ArmorChecker) HasRequirement(req *models.RankRequirement) bool {
	return req.ArmorPoints != models.UnsetRequirement && len(req.ArmorItems) > 0
}

func (c *ArmorChecker) RequirementNote(req *models.RankRequirement) string {
	if !c.HasRequirement(req) {
		return "No armor points requirement"
	}
	return fmt.Sprintf(
		"Must have at least %s armor points over %s eligible armor sets",
		utils.FormatNumber(int64(req.ArmorPoints)),
		utils.FormatNumber(int64(len(req.ArmorItems))),
	)
}

func (c *ArmorChecker) Check(entry *models.GuildEntry, guild *hypixel.Guild, profile *hypixel.Profile, member *hypixel.ProfileMember) (Verdict, error) {
	items, err := decodeContainers(c.decoder, member)
	if err != nil {
		return Verdict{}, err
	}

	scores := map[string]int{}
	var cleared *hypixel.GuildRank
	for _, rank := range guild.RanksByPriority() {
		req, ok := entry.RankRequirements[rank.Name]
		if !ok || !c.HasRequirement(req) {
			continue
		}

		score := armorScore(req.ArmorItems, items)
		scores[rank.Name] = score
		if cleared == nil && score >= req.ArmorPoints {
			matched := rank
			cleared = &matched
		}
	}

	return Verdict{
		Status: StatusOK,
		Rank:   cleared,
		Metrics: map[string]interface{}{
			"points": scores,
		},
	}, nil
}

func armorScore(configured map[string]int, items []inventory.Item) int {
	score := 0
	for name, points := range configured {
		set, ok := FindArmorSet(name)
		if !ok {
			continue
		}
		for _, item := range items {
			if set.Contains(item) {
				score += points
			}
		}
	}
	return score
}
