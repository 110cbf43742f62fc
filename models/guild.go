package models

import (
	"encoding/json"
	"fmt"
	"math"
	"time"
)

// UnsetRequirement is the sentinel for "no requirement configured".
// Stored configs that never touched a category keep this value, so a
// category is only considered configured when the threshold differs.
const UnsetRequirement = math.MaxInt32

// Guild mirrors one synchronized in-game guild per Discord server.
// Data holds the last fetched guild snapshot (member list + rank list)
// and RankRequirements the serialized per-rank threshold blob.
type Guild struct {
	ID               string `json:"id" gorm:"primaryKey"`
	DiscordID        int64  `json:"discord_id" gorm:"uniqueIndex;not null"`
	Name             string `json:"name" gorm:"not null"`
	Data             string `json:"data" gorm:"type:text"`
	RankRequirements string `json:"rank_requirements" gorm:"type:text"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// RankRequirement holds every configurable threshold for a single rank.
// The JSON keys match the blob layout stored in the guilds table.
type RankRequirement struct {
	FairySouls         int            `json:"fairySouls"`
	TalismansLegendary int            `json:"talismansLegendary"`
	TalismansEpic      int            `json:"talismansEpic"`
	AverageSkills      int            `json:"averageSkills"`
	SlayerExperience   int            `json:"slayerExperience"`
	BankCoins          int            `json:"bankCoins"`
	PowerOrb           string         `json:"powerOrb,omitempty"`
	WeaponPoints       int            `json:"weaponPoints"`
	WeaponItems        map[string]int `json:"weaponItems,omitempty"`
	ArmorPoints        int            `json:"armorPoints"`
	ArmorItems         map[string]int `json:"armorItems,omitempty"`
}

// NewRankRequirement returns a requirement with every category unset.
func NewRankRequirement() *RankRequirement {
	return &RankRequirement{
		FairySouls:         UnsetRequirement,
		TalismansLegendary: UnsetRequirement,
		TalismansEpic:      UnsetRequirement,
		AverageSkills:      UnsetRequirement,
		SlayerExperience:   UnsetRequirement,
		BankCoins:          UnsetRequirement,
		WeaponPoints:       UnsetRequirement,
		WeaponItems:        map[string]int{},
		ArmorPoints:        UnsetRequirement,
		ArmorItems:         map[string]int{},
	}
}

// GuildEntry is the parsed, cacheable view of a Guild row that the
// requirement engine works against.
type GuildEntry struct {
	ID               string
	DiscordID        int64
	Name             string
	Data             string
	RankRequirements map[string]*RankRequirement
}

// ParseGuildEntry decodes the stored rank requirement blob. A missing
// blob yields an entry with no configured ranks, which the engine treats
// as "nothing to check".
func ParseGuildEntry(guild *Guild) (*GuildEntry, error) {
	entry := &GuildEntry{
		ID:               guild.ID,
		DiscordID:        guild.DiscordID,
		Name:             guild.Name,
		Data:             guild.Data,
		RankRequirements: map[string]*RankRequirement{},
	}

	if guild.RankRequirements == "" {
		return entry, nil
	}

	raw := map[string]json.RawMessage{}
	if err := json.Unmarshal([]byte(guild.RankRequirements), &raw); err != nil {
		return nil, fmt.Errorf("failed to decode rank requirements for guild %d: %w", guild.DiscordID, err)
	}

	for rankName, blob := range raw {
		requirement := NewRankRequirement()
		if err := json.Unmarshal(blob, requirement); err != nil {
			return nil, fmt.Errorf("failed to decode %q rank requirement: %w", rankName, err)
		}
		if requirement.WeaponItems == nil {
			requirement.WeaponItems = map[string]int{}
		}
		if requirement.ArmorItems == nil {
			requirement.ArmorItems = map[string]int{}
		}
		entry.RankRequirements[rankName] = requirement
	}

	return entry, nil
}

// Clone deep-copies the entry so callers can mutate thresholds without
// touching the copy other goroutines read from.
func (e *GuildEntry) Clone() *GuildEntry {
	clone := &GuildEntry{
		ID:               e.ID,
		DiscordID:        e.DiscordID,
		Name:             e.Name,
		Data:             e.Data,
		RankRequirements: make(map[string]*RankRequirement, len(e.RankRequirements)),
	}
	for rankName, req := range e.RankRequirements {
		copied := *req
		copied.WeaponItems = make(map[string]int, len(req.WeaponItems))
		for name, points := range req.WeaponItems {
			copied.WeaponItems[name] = points
		}
		copied.ArmorItems = make(map[string]int, len(req.ArmorItems))
		for name, points := range req.ArmorItems {
			copied.ArmorItems[name] = points
		}
		clone.RankRequirements[rankName] = &copied
	}
	return clone
}

// RequirementsForRank returns the thresholds for the given rank name,
// creating an empty record on first access so admin handlers can mutate
// it in place.
func (e *GuildEntry) RequirementsForRank(rankName string) *RankRequirement {
	if _, ok := e.RankRequirements[rankName]; !ok {
		e.RankRequirements[rankName] = NewRankRequirement()
	}
	return e.RankRequirements[rankName]
}

// SerializeRankRequirements re-encodes the threshold map for storage.
func (e *GuildEntry) SerializeRankRequirements() (string, error) {
	blob, err := json.Marshal(e.RankRequirements)
	if err != nil {
		return "", fmt.Errorf("failed to encode rank requirements for guild %d: %w", e.DiscordID, err)
	}
	return string(blob), nil
}
