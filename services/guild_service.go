// services/guild_service.go
package services

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"guild-rank-system/hypixel"
	"guild-rank-system/models"
)

// guildCacheTTL bounds how stale a cached guild configuration may get
// when it is only ever read.
const guildCacheTTL = 60 * time.Second

type cachedGuild struct {
	entry     *models.GuildEntry
	expiresAt time.Time
}

// GuildService loads and stores guild rows and keeps a short lived
// parse cache in front of them. Admin mutations invalidate the cache
// explicitly, so readers never see a threshold older than the TTL and
// writers see their own change immediately.
type GuildService struct {
	DB *gorm.DB

	mu    sync.Mutex
	cache map[int64]cachedGuild
}

func NewGuildService(db *gorm.DB) *GuildService {
	return &GuildService{
		DB:    db,
		cache: map[int64]cachedGuild{},
	}
}

// GetByDiscordID returns the parsed guild entry for a Discord server,
// from cache when fresh. Every caller gets its own deep copy: admin
// handlers mutate the threshold maps while the report drainer iterates
// them, so the cached master is never handed out directly.
func (s *GuildService) GetByDiscordID(discordID int64) (*models.GuildEntry, error) {
	s.mu.Lock()
	if cached, ok := s.cache[discordID]; ok && time.Now().Before(cached.expiresAt) {
		entry := cached.entry.Clone()
		s.mu.Unlock()
		return entry, nil
	}
	s.mu.Unlock()

	var guild models.Guild
	if err := s.DB.Where("discord_id = ?", discordID).First(&guild).Error; err != nil {
		return nil, fmt.Errorf("failed to load guild %d: %w", discordID, err)
	}

	entry, err := models.ParseGuildEntry(&guild)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.cache[discordID] = cachedGuild{entry: entry, expiresAt: time.Now().Add(guildCacheTTL)}
	s.mu.Unlock()
	return entry.Clone(), nil
}

// Invalidate drops the cached entry for a Discord server so the next
// read hits the database.
func (s *GuildService) Invalidate(discordID int64) {
	s.mu.Lock()
	delete(s.cache, discordID)
	s.mu.Unlock()
}

// GuildSnapshot decodes the stored guild snapshot (member list + rank
// list) of an entry.
func (s *GuildService) GuildSnapshot(entry *models.GuildEntry) (*hypixel.Guild, error) {
	if entry.Data == "" {
		return nil, fmt.Errorf("guild %d has no synchronized guild data", entry.DiscordID)
	}
	var guild hypixel.Guild
	if err := json.Unmarshal([]byte(entry.Data), &guild); err != nil {
		return nil, fmt.Errorf("failed to decode guild data for %d: %w", entry.DiscordID, err)
	}
	return &guild, nil
}

// SaveGuildSnapshot links a Discord server to a game guild, storing
// the fetched snapshot. Re-linking the same server updates the
// snapshot in place.
func (s *GuildService) SaveGuildSnapshot(discordID int64, guild *hypixel.Guild) error {
	data, err := json.Marshal(guild)
	if err != nil {
		return fmt.Errorf("failed to encode guild snapshot for %d: %w", discordID, err)
	}

	row := models.Guild{
		ID:        uuid.NewString(),
		DiscordID: discordID,
		Name:      guild.Name,
		Data:      string(data),
	}
	err = s.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "discord_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "data", "updated_at"}),
	}).Create(&row).Error
	if err != nil {
		return fmt.Errorf("failed to store guild snapshot for %d: %w", discordID, err)
	}

	s.Invalidate(discordID)
	return nil
}

// UpdateRankRequirements persists an entry's mutated threshold map and
// invalidates the cache so the change is visible immediately.
func (s *GuildService) UpdateRankRequirements(entry *models.GuildEntry) error {
	blob, err := entry.SerializeRankRequirements()
	if err != nil {
		return err
	}

	err = s.DB.Model(&models.Guild{}).
		Where("discord_id = ?", entry.DiscordID).
		Update("rank_requirements", blob).Error
	if err != nil {
		return fmt.Errorf("failed to store rank requirements for guild %d: %w", entry.DiscordID, err)
	}

	s.Invalidate(entry.DiscordID)
	return nil
}
