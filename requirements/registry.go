package requirements

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gosimple/slug"

	"guild-rank-system/hypixel"
	"guild-rank-system/inventory"
	"guild-rank-system/models"
	"guild-rank-system/utils"
)

// Type identifies one requirement category on the wire and in admin
// commands.
type Type string

const (
	TypeTalismans     Type = "talismans"
	TypeAverageSkills Type = "average_skills"
	TypeSlayer        Type = "slayer"
	TypeFairySouls    Type = "fairy_souls"
	TypePowerOrbs     Type = "power_orbs"
	TypeArmor         Type = "armor"
	TypeWeapons       Type = "weapons"
	TypeBank          Type = "bank"
)

// Handler applies one admin threshold mutation to a rank's requirement
// record and returns a confirmation message for the bot to relay.
type Handler interface {
	Apply(req *models.RankRequirement, args []string) (string, error)
}

// Entry pairs one requirement category with its checker and its admin
// handler.
type Entry struct {
	Type    Type
	Name    string
	Checker Checker
	Handler Handler
}

// Registry holds every requirement category in a fixed evaluation
// order. Reports list their checks in this order, so it never changes
// at runtime.
type Registry struct {
	entries []Entry
	byType  map[Type]int
}

// NewRegistry builds the category registry. The decoder is shared by
// the two item based checkers.
func NewRegistry(decoder inventory.Decoder) *Registry {
	entries := []Entry{
		{
			Type:    TypeTalismans,
			Name:    "Talismans",
			Checker: NewTalismansChecker(),
			Handler: &talismanHandler{},
		},
		{
			Type:    TypeAverageSkills,
			Name:    "Average Skills",
			Checker: NewAverageSkillsChecker(),
			Handler: &integerHandler{
				unit: "average skill level",
				set:  func(req *models.RankRequirement, value int) { req.AverageSkills = value },
			},
		},
		{
			Type:    TypeSlayer,
			Name:    "Slayer",
			Checker: NewSlayerChecker(),
			Handler: &integerHandler{
				unit: "slayer experience",
				set:  func(req *models.RankRequirement, value int) { req.SlayerExperience = value },
			},
		},
		{
			Type:    TypeFairySouls,
			Name:    "Fairy Souls",
			Checker: NewFairySoulsChecker(),
			Handler: &integerHandler{
				unit: "fairy souls",
				set:  func(req *models.RankRequirement, value int) { req.FairySouls = value },
			},
		},
		{
			Type:    TypePowerOrbs,
			Name:    "Power Orbs",
			Checker: NewPowerOrbsChecker(),
			Handler: &powerOrbHandler{},
		},
		{
			Type:    TypeArmor,
			Name:    "Armor",
			Checker: NewArmorChecker(decoder),
			Handler: &itemHandler{
				kind: "armor",
				find: func(name string) (string, bool) {
					set, ok := FindArmorSet(name)
					return set.Name, ok
				},
				points: func(req *models.RankRequirement) *int { return &req.ArmorPoints },
				items:  func(req *models.RankRequirement) map[string]int { return req.ArmorItems },
			},
		},
		{
			Type:    TypeWeapons,
			Name:    "Weapons",
			Checker: NewWeaponsChecker(decoder),
			Handler: &itemHandler{
				kind: "weapon",
				find: func(name string) (string, bool) {
					weapon, ok := FindWeapon(name)
					return weapon.Name, ok
				},
				points: func(req *models.RankRequirement) *int { return &req.WeaponPoints },
				items:  func(req *models.RankRequirement) map[string]int { return req.WeaponItems },
			},
		},
		{
			Type:    TypeBank,
			Name:    "Bank",
			Checker: NewBankChecker(),
			Handler: &integerHandler{
				unit: "bank coins",
				set:  func(req *models.RankRequirement, value int) { req.BankCoins = value },
			},
		},
	}

	byType := make(map[Type]int, len(entries))
	for i, entry := range entries {
		byType[entry.Type] = i
	}
	return &Registry{entries: entries, byType: byType}
}

// Entries returns the categories in evaluation order.
func (r *Registry) Entries() []Entry {
	out := make([]Entry, len(r.entries))
	copy(out, r.entries)
	return out
}

// Lookup resolves an admin supplied category name, accepting both the
// wire type and the display name in any casing.
func (r *Registry) Lookup(name string) (Entry, bool) {
	needle := slug.Make(name)
	for _, entry := range r.entries {
		if slug.Make(string(entry.Type)) == needle || slug.Make(entry.Name) == needle {
			return entry, true
		}
	}
	return Entry{}, false
}

// Evaluate runs one category for one player and folds errors into the
// verdict so a report always carries a result per category.
func (r *Registry) Evaluate(e Entry, entry *models.GuildEntry, guild *hypixel.Guild, profile *hypixel.Profile, playerUUID string) Verdict {
	configured := false
	for _, req := range entry.RankRequirements {
		if e.Checker.HasRequirement(req) {
			configured = true
			break
		}
	}
	if !configured {
		return Verdict{Status: StatusUnconfigured}
	}

	member := profile.Member(playerUUID)
	if member == nil {
		return Verdict{Status: StatusError, Reason: "player is not a member of their own profile snapshot"}
	}

	verdict, err := e.Checker.Check(entry, guild, profile, member)
	if err != nil {
		if errors.Is(err, ErrDataUnavailable) {
			return Verdict{Status: StatusUnavailable, Reason: err.Error()}
		}
		return Verdict{Status: StatusError, Reason: err.Error()}
	}
	return verdict
}

// integerHandler sets a single numeric threshold. A negative value
// removes the requirement from the rank again.
type integerHandler struct {
	unit string
	set  func(req *models.RankRequirement, value int)
}

func (h *integerHandler) Apply(req *models.RankRequirement, args []string) (string, error) {
	if len(args) != 1 {
		return "", fmt.Errorf("expected exactly one %s value", h.unit)
	}
	value, err := utils.ParseNumber(args[0])
	if err != nil {
		return "", fmt.Errorf("%q is not a valid number", args[0])
	}

	if value < 0 {
		h.set(req, models.UnsetRequirement)
		return fmt.Sprintf("The %s requirement has been removed", h.unit), nil
	}
	h.set(req, value)
	return fmt.Sprintf("The %s requirement has been set to **%s**", h.unit, utils.FormatNumber(int64(value))), nil
}

// talismanHandler sets the legendary and epic counts together since
// the check always gates on both.
type talismanHandler struct{}

func (h *talismanHandler) Apply(req *models.RankRequirement, args []string) (string, error) {
	if len(args) != 2 {
		return "", fmt.Errorf("expected a legendary and an epic talisman count")
	}
	legendary, err := utils.ParseNumber(args[0])
	if err != nil {
		return "", fmt.Errorf("%q is not a valid number", args[0])
	}
	epic, err := utils.ParseNumber(args[1])
	if err != nil {
		return "", fmt.Errorf("%q is not a valid number", args[1])
	}

	if legendary < 0 || epic < 0 {
		req.TalismansLegendary = models.UnsetRequirement
		req.TalismansEpic = models.UnsetRequirement
		return "The talismans requirement has been removed", nil
	}
	req.TalismansLegendary = legendary
	req.TalismansEpic = epic
	return fmt.Sprintf(
		"The talismans requirement has been set to **%s** legendary and **%s** epic",
		utils.FormatNumber(int64(legendary)), utils.FormatNumber(int64(epic)),
	), nil
}

// powerOrbHandler sets the minimum orb tier by orb name; "none"
// removes the requirement.
type powerOrbHandler struct{}

func (h *powerOrbHandler) Apply(req *models.RankRequirement, args []string) (string, error) {
	if len(args) == 0 {
		return "", fmt.Errorf("expected a power orb name")
	}
	name := strings.Join(args, " ")

	if strings.EqualFold(name, "none") {
		req.PowerOrb = ""
		return "The power orb requirement has been removed", nil
	}
	orb, ok := FindPowerOrb(name)
	if !ok {
		return "", fmt.Errorf("%q is not a recognised power orb", name)
	}
	req.PowerOrb = orb.Name
	return fmt.Sprintf("The power orb requirement has been set to **%s**", orb.Name), nil
}

// itemHandler manages the two-part item categories: "points <n>" sets
// the target score, "<item> <n>" sets an item's point value, and a
// zero or negative item value removes the item from the list.
type itemHandler struct {
	kind   string
	find   func(name string) (string, bool)
	points func(req *models.RankRequirement) *int
	items  func(req *models.RankRequirement) map[string]int
}

func (h *itemHandler) Apply(req *models.RankRequirement, args []string) (string, error) {
	if len(args) < 2 {
		return "", fmt.Errorf("expected either \"points <amount>\" or \"<%s> <points>\"", h.kind)
	}

	value, err := utils.ParseNumber(args[len(args)-1])
	if err != nil {
		return "", fmt.Errorf("%q is not a valid number", args[len(args)-1])
	}
	name := strings.Join(args[:len(args)-1], " ")

	if strings.EqualFold(name, "points") {
		if value < 0 {
			*h.points(req) = models.UnsetRequirement
			return fmt.Sprintf("The %s points requirement has been removed", h.kind), nil
		}
		*h.points(req) = value
		return fmt.Sprintf("The %s points requirement has been set to **%s**", h.kind, utils.FormatNumber(int64(value))), nil
	}

	canonical, ok := h.find(name)
	if !ok {
		return "", fmt.Errorf("%q is not a recognised %s", name, h.kind)
	}
	if value <= 0 {
		delete(h.items(req), canonical)
		return fmt.Sprintf("**%s** no longer counts towards the %s points", canonical, h.kind), nil
	}
	h.items(req)[canonical] = value
	return fmt.Sprintf("**%s** is now worth **%s** %s points", canonical, utils.FormatNumber(int64(value)), h.kind), nil
}
