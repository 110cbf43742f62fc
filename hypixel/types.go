package hypixel

import (
	"sort"
	"strings"
)

// GuildReply is the wire shape of the guild endpoint.
type GuildReply struct {
	Success bool   `json:"success"`
	Cause   string `json:"cause,omitempty"`
	Guild   *Guild `json:"guild"`
}

type Guild struct {
	ID      string        `json:"_id"`
	Name    string        `json:"name"`
	Members []GuildMember `json:"members"`
	Ranks   []GuildRank   `json:"ranks"`
}

type GuildMember struct {
	UUID string `json:"uuid"`
	Rank string `json:"rank"`
}

// GuildRank is a named tier within a guild; a higher priority means a
// more senior rank.
type GuildRank struct {
	Name     string `json:"name"`
	Priority int    `json:"priority"`
}

// RanksByPriority returns the guild ranks ordered from most senior to
// least senior. The sort is stable so priority ties keep the order the
// API returned them in.
func (g *Guild) RanksByPriority() []GuildRank {
	ranks := make([]GuildRank, len(g.Ranks))
	copy(ranks, g.Ranks)
	sort.SliceStable(ranks, func(i, j int) bool {
		return ranks[i].Priority > ranks[j].Priority
	})
	return ranks
}

// ProfilesReply is the wire shape of the skyblock profiles endpoint.
type ProfilesReply struct {
	Success  bool       `json:"success"`
	Cause    string     `json:"cause,omitempty"`
	Profiles []*Profile `json:"profiles"`
}

// Profile is one SkyBlock profile snapshot. Banking is nil when the
// guild or player has the banking feature disabled.
type Profile struct {
	ProfileID string                    `json:"profile_id"`
	Selected  bool                      `json:"selected"`
	Banking   *Banking                  `json:"banking,omitempty"`
	Members   map[string]*ProfileMember `json:"members"`
}

type Banking struct {
	Balance float64 `json:"balance"`
}

// Member looks up the per-player section of the profile; the members
// map is keyed by the dashless player UUID.
func (p *Profile) Member(playerUUID string) *ProfileMember {
	return p.Members[strings.ReplaceAll(playerUUID, "-", "")]
}

// ProfileMember is the per-player slice of a profile snapshot. The API
// lets players disable whole sections, so optional sections are
// pointers and their absence is meaningful.
type ProfileMember struct {
	CoinPurse           float64               `json:"coin_purse"`
	FairySoulsCollected int                   `json:"fairy_souls_collected"`
	PowerOrb            string                `json:"power_orb,omitempty"`
	Talismans           *TalismanCounts       `json:"talismans,omitempty"`
	SlayerBosses        map[string]SlayerBoss `json:"slayer_bosses,omitempty"`

	SkillMining     float64 `json:"experience_skill_mining"`
	SkillForaging   float64 `json:"experience_skill_foraging"`
	SkillEnchanting float64 `json:"experience_skill_enchanting"`
	SkillFarming    float64 `json:"experience_skill_farming"`
	SkillCombat     float64 `json:"experience_skill_combat"`
	SkillFishing    float64 `json:"experience_skill_fishing"`
	SkillAlchemy    float64 `json:"experience_skill_alchemy"`
	SkillTaming     float64 `json:"experience_skill_taming"`

	EnderChest *InventoryBlob `json:"ender_chest_contents,omitempty"`
	Inventory  *InventoryBlob `json:"inv_contents,omitempty"`
}

// SkillExperience returns the raw experience of the eight levelable
// skills in a fixed order.
func (m *ProfileMember) SkillExperience() []float64 {
	return []float64{
		m.SkillMining, m.SkillForaging, m.SkillEnchanting, m.SkillFarming,
		m.SkillCombat, m.SkillFishing, m.SkillAlchemy, m.SkillTaming,
	}
}

// InventoryApiEnabled reports whether the player exposes the two
// inventory containers the item checkers need; the fields double as the
// API's own feature flag.
func (m *ProfileMember) InventoryApiEnabled() bool {
	return m.EnderChest != nil && m.Inventory != nil
}

type TalismanCounts struct {
	Legendary int `json:"legendary"`
	Epic      int `json:"epic"`
}

type SlayerBoss struct {
	XP int64 `json:"xp"`
}

// InventoryBlob wraps the base64 encoded, gzip compressed NBT payload
// of one inventory container.
type InventoryBlob struct {
	Data string `json:"data"`
}
