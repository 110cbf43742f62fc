package requirements

import (
	"fmt"

	"guild-rank-system/hypixel"
	"guild-rank-system/inventory"
	"guild-rank-system/models"
	"guild-rank-system/utils"
)

// WeaponsChecker sums weapon points over the player's inventory and
// ender chest. Every owned copy of a configured weapon counts its
// configured point value.
type WeaponsChecker struct {
	decoder inventory.Decoder
}

func NewWeaponsChecker(decoder inventory.Decoder) *WeaponsChecker {
	return &WeaponsChecker{decoder: decoder}
}

func (c *WeaponsChecker) HasRequirement(req *models.RankRequirement) bool {
	return req.WeaponPoints != models.UnsetRequirement && len(req.WeaponItems) > 0
}

func (c *WeaponsChecker) RequirementNote(req *models.RankRequirement) string {
	if !c.HasRequirement(req) {
		return "No weapon points requirement"
	}
	return fmt.Sprintf(
		"Must have at least %s weapon points over %s eligible weapons",
		utils.FormatNumber(int64(req.WeaponPoints)),
		utils.FormatNumber(int64(len(req.WeaponItems))),
	)
}

func (c *WeaponsChecker) Check(entry *models.GuildEntry, guild *hypixel.Guild, profile *hypixel.Profile, member *hypixel.ProfileMember) (Verdict, error) {
	items, err := decodeContainers(c.decoder, member)
	if err != nil {
		return Verdict{}, err
	}

	// Point totals differ per rank because each rank configures its
	// own weapon list, so every configured rank gets its own score.
	scores := map[string]int{}
	var cleared *hypixel.GuildRank
	for _, rank := range guild.RanksByPriority() {
		req, ok := entry.RankRequirements[rank.Name]
		if !ok || !c.HasRequirement(req) {
			continue
		}

		score := weaponScore(req.WeaponItems, items)
		scores[rank.Name] = score
		if cleared == nil && score >= req.WeaponPoints {
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

func weaponScore(configured map[string]int, items []inventory.Item) int {
	score := 0
	for name, points := range configured {
		weapon, ok := FindWeapon(name)
		if !ok {
			continue
		}
		for _, item := range items {
			if weapon.Matches(item) {
				score += points
			}
		}
	}
	return score
}

// decodeContainers flattens the player's ender chest and inventory
// into one item list. Both containers missing means the player has the
// inventory API disabled.
func decodeContainers(decoder inventory.Decoder, member *hypixel.ProfileMember) ([]inventory.Item, error) {
	if !member.InventoryApiEnabled() {
		return nil, fmt.Errorf("%w: the player has the inventory API disabled", ErrDataUnavailable)
	}

	enderChest, err := decoder.Decode(member.EnderChest.Data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode ender chest: %w", err)
	}
	backpack, err := decoder.Decode(member.Inventory.Data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode inventory: %w", err)
	}
	return append(enderChest, backpack...), nil
}
