package requirements

import (
	"strings"

	"github.com/gosimple/slug"
	"github.com/gosimple/unidecode"

	"guild-rank-system/inventory"
)

// ItemCondition is an extra ownership predicate for items whose name
// alone is not enough, such as dark auction items with a minimum bid.
type ItemCondition func(item inventory.Item) bool

// Weapon is one recognised weapon the weapon point checker can award
// points for. Aliases let admins configure items with short names.
type Weapon struct {
	Name      string
	Aliases   []string
	Condition ItemCondition
}

// Matches reports whether a decoded inventory item counts as this
// weapon. Reforged items carry their prefix in the display name, so
// the match is on the name suffix.
func (w Weapon) Matches(item inventory.Item) bool {
	if !strings.HasSuffix(item.Name, w.Name) {
		return false
	}
	if w.Condition == nil {
		return true
	}
	return w.Condition(item)
}

// midasMinimumBid is the dark auction price a Midas' Sword must have
// sold for to count; cheaper ones have weaker stats.
const midasMinimumBid = 50000000

// Weapons returns the weapon catalogue in a fixed order.
func Weapons() []Weapon {
	return []Weapon{
		{Name: "Midas' Sword", Aliases: []string{"midas sword", "midas"}, Condition: func(item inventory.Item) bool {
			bid, ok := item.IntAttribute("winning_bid")
			return ok && bid >= midasMinimumBid
		}},
		{Name: "Reaper Scythe", Aliases: []string{"scythe"}},
		{Name: "Aspect of the Dragons", Aliases: []string{"aotd"}},
		{Name: "Pigman Sword", Aliases: []string{"pig sword", "pigman"}},
		{Name: "Thick Scorpion Foil", Aliases: []string{"foil"}},
		{Name: "Pooch Sword", Aliases: []string{"pooch"}},
		{Name: "Reaper Falchion", Aliases: []string{"falchion", "reaper"}},
		{Name: "Leaping Sword", Aliases: []string{"leaping"}},
		{Name: "Aspect of the End", Aliases: []string{"aote"}},
		{Name: "Raider Axe", Aliases: []string{"raider"}},
		{Name: "Runnan's Bow", Aliases: []string{"runaans bow", "runnan's", "runnans"}},
		{Name: "Hurricane Bow", Aliases: []string{"hurricane"}},
		{Name: "Scorpion Bow", Aliases: []string{"scorpion"}},
	}
}

// FindWeapon resolves an admin supplied weapon name or alias.
func FindWeapon(name string) (Weapon, bool) {
	needle := normalizeItemName(name)
	for _, weapon := range Weapons() {
		if normalizeItemName(weapon.Name) == needle {
			return weapon, true
		}
		for _, alias := range weapon.Aliases {
			if normalizeItemName(alias) == needle {
				return weapon, true
			}
		}
	}
	return Weapon{}, false
}

// ArmorSet is one recognised armor set. Piece names are empty for sets
// that ship without that slot, like the tuxedos.
type ArmorSet struct {
	Name       string
	Aliases    []string
	Helmet     string
	Chestplate string
	Leggings   string
	Boots      string
}

// Contains reports whether a decoded item is a piece of this set.
func (s ArmorSet) Contains(item inventory.Item) bool {
	for _, piece := range []string{s.Helmet, s.Chestplate, s.Leggings, s.Boots} {
		if piece != "" && strings.HasSuffix(item.Name, piece) {
			return true
		}
	}
	return false
}

// ArmorSets returns the armor catalogue in a fixed order.
func ArmorSets() []ArmorSet {
	return []ArmorSet{
		{Name: "Elegant Tuxedo", Aliases: []string{"etux"}, Chestplate: "Elegant Tuxedo Jacket", Leggings: "Elegant Tuxedo Pants", Boots: "Elegant Tuxedo Oxfords"},
		{Name: "Fancy Tuxedo", Aliases: []string{"ftux"}, Chestplate: "Fancy Tuxedo Jacket", Leggings: "Fancy Tuxedo Pants", Boots: "Fancy Tuxedo Oxfords"},
		{Name: "Superior Dragon Armor", Aliases: []string{"superior dragon", "superior"}, Helmet: "Superior Dragon Helmet", Chestplate: "Superior Dragon Chestplate", Leggings: "Superior Dragon Leggings", Boots: "Superior Dragon Boots"},
		{Name: "Strong Dragon Armor", Aliases: []string{"strong dragon", "strong"}, Helmet: "Strong Dragon Helmet", Chestplate: "Strong Dragon Chestplate", Leggings: "Strong Dragon Leggings", Boots: "Strong Dragon Boots"},
		{Name: "Unstable Dragon Armor", Aliases: []string{"unstable dragon", "unstable"}, Helmet: "Unstable Dragon Helmet", Chestplate: "Unstable Dragon Chestplate", Leggings: "Unstable Dragon Leggings", Boots: "Unstable Dragon Boots"},
		{Name: "Wise Dragon Armor", Aliases: []string{"wise dragon", "wise"}, Helmet: "Wise Dragon Helmet", Chestplate: "Wise Dragon Chestplate", Leggings: "Wise Dragon Leggings", Boots: "Wise Dragon Boots"},
		{Name: "Young Dragon Armor", Aliases: []string{"young dragon", "young"}, Helmet: "Young Dragon Helmet", Chestplate: "Young Dragon Chestplate", Leggings: "Young Dragon Leggings", Boots: "Young Dragon Boots"},
		{Name: "Protector Dragon Armor", Aliases: []string{"protector dragon", "protector"}, Helmet: "Protector Dragon Helmet", Chestplate: "Protector Dragon Chestplate", Leggings: "Protector Dragon Leggings", Boots: "Protector Dragon Boots"},
		{Name: "Old Dragon Armor", Aliases: []string{"old dragon", "old", "boomer"}, Helmet: "Old Dragon Helmet", Chestplate: "Old Dragon Chestplate", Leggings: "Old Dragon Leggings", Boots: "Old Dragon Boots"},
		{Name: "Revenant Horror Armor", Aliases: []string{"revenant armor", "revenant", "rev"}, Chestplate: "Revenant Chestplate", Leggings: "Revenant Leggings", Boots: "Revenant Boots"},
		{Name: "Tarantula Armor", Aliases: []string{"tarantula", "tara"}, Helmet: "Tarantula Helmet", Chestplate: "Tarantula Chestplate", Leggings: "Tarantula Leggings", Boots: "Tarantula Boots"},
		{Name: "Mastiff Armor", Aliases: []string{"mastiff"}, Helmet: "Mastiff Crown", Chestplate: "Mastiff Chestplate", Leggings: "Mastiff Leggings", Boots: "Mastiff Boots"},
		{Name: "Bat Person Armor", Aliases: []string{"bat person", "bat"}, Helmet: "Bat Person Helmet", Chestplate: "Bat Person Chestplate", Leggings: "Bat Person Leggings", Boots: "Bat Person Boots"},
		{Name: "Diver's Armor", Aliases: []string{"diver armor", "diver"}, Helmet: "Diver's Mask", Chestplate: "Diver's Shirt", Leggings: "Diver's Trunks", Boots: "Diver's Boots"},
	}
}

// FindArmorSet resolves an admin supplied armor set name or alias.
func FindArmorSet(name string) (ArmorSet, bool) {
	needle := normalizeItemName(name)
	for _, set := range ArmorSets() {
		if normalizeItemName(set.Name) == needle {
			return set, true
		}
		for _, alias := range set.Aliases {
			if normalizeItemName(alias) == needle {
				return set, true
			}
		}
	}
	return ArmorSet{}, false
}

// PowerOrbTier is one placeable power orb; a higher tier orb satisfies
// the requirement of any lower tier one.
type PowerOrbTier struct {
	Tier int
	Name string
}

// PowerOrbTiers returns the orb catalogue ordered weakest first.
func PowerOrbTiers() []PowerOrbTier {
	return []PowerOrbTier{
		{Tier: 1, Name: "Radiant Power Orb"},
		{Tier: 2, Name: "Mana Flux Power Orb"},
		{Tier: 3, Name: "Overflux Power Orb"},
	}
}

// FindPowerOrb resolves an orb by its full name or a prefix of it, so
// both "overflux" and "Overflux Power Orb" configure the same tier.
func FindPowerOrb(name string) (PowerOrbTier, bool) {
	needle := normalizeItemName(name)
	for _, orb := range PowerOrbTiers() {
		if normalized := normalizeItemName(orb.Name); normalized == needle || strings.HasPrefix(normalized, needle+"-") {
			return orb, true
		}
	}
	return PowerOrbTier{}, false
}

// normalizeItemName folds display names and admin input into one
// comparable form; game names carry unicode apostrophes that players
// rarely type.
func normalizeItemName(name string) string {
	return slug.Make(unidecode.Unidecode(name))
}
