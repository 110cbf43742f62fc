// handlers/requirement_routes.go
package handlers

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"guild-rank-system/hypixel"
	"guild-rank-system/models"
	"guild-rank-system/requirements"
	"guild-rank-system/services"
)

func SetupRequirementRoutes(app *fiber.App, guildService *services.GuildService, registry *requirements.Registry, api *hypixel.Client) {
	// Link a Discord server to a game guild and store its snapshot.
	// Re-linking refreshes the member and rank lists.
	app.Post("/guilds", func(c *fiber.Ctx) error {
		var body struct {
			DiscordID int64  `json:"discord_id"`
			GuildID   string `json:"guild_id"`
		}
		if err := c.BodyParser(&body); err != nil || body.DiscordID == 0 || body.GuildID == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "discord_id and guild_id are required",
			})
		}

		guild, err := api.FetchGuild(c.Context(), body.GuildID)
		if err != nil {
			return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
				"error": "failed to fetch guild",
				"cause": err.Error(),
			})
		}

		if err := guildService.SaveGuildSnapshot(body.DiscordID, guild); err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to store guild",
				"cause": err.Error(),
			})
		}

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"name":    guild.Name,
			"members": len(guild.Members),
			"ranks":   len(guild.Ranks),
		})
	})

	// List the configured requirements per rank, rendered as the notes
	// the bot shows in its rank overview.
	app.Get("/guilds/:discordID/requirements", func(c *fiber.Ctx) error {
		entry, guild, status, errMap := loadGuildWithSnapshot(c, guildService)
		if errMap != nil {
			return c.Status(status).JSON(errMap)
		}

		ranks := []fiber.Map{}
		for _, rank := range guild.RanksByPriority() {
			req, ok := entry.RankRequirements[rank.Name]
			if !ok {
				req = models.NewRankRequirement()
			}

			notes := []fiber.Map{}
			for _, e := range registry.Entries() {
				if !e.Checker.HasRequirement(req) {
					continue
				}
				notes = append(notes, fiber.Map{
					"type": e.Type,
					"note": e.Checker.RequirementNote(req),
				})
			}

			ranks = append(ranks, fiber.Map{
				"rank":         rank.Name,
				"priority":     rank.Priority,
				"requirements": notes,
			})
		}

		return c.JSON(fiber.Map{
			"guild": entry.Name,
			"ranks": ranks,
		})
	})

	// Apply one admin threshold mutation to a rank's requirements.
	app.Put("/guilds/:discordID/ranks/:rankName/requirements/:type", func(c *fiber.Ctx) error {
		entry, guild, status, errMap := loadGuildWithSnapshot(c, guildService)
		if errMap != nil {
			return c.Status(status).JSON(errMap)
		}

		rankName := ""
		for _, rank := range guild.Ranks {
			if rank.Name == c.Params("rankName") {
				rankName = rank.Name
				break
			}
		}
		if rankName == "" {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "the guild has no such rank",
			})
		}

		category, ok := registry.Lookup(c.Params("type"))
		if !ok {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "unknown requirement type",
			})
		}

		var body struct {
			Args []string `json:"args"`
		}
		if err := c.BodyParser(&body); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid request body",
			})
		}

		message, err := category.Handler.Apply(entry.RequirementsForRank(rankName), body.Args)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": err.Error(),
			})
		}

		if err := guildService.UpdateRankRequirements(entry); err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to store rank requirements",
				"cause": err.Error(),
			})
		}

		return c.JSON(fiber.Map{
			"message": message,
		})
	})
}

func loadGuildWithSnapshot(c *fiber.Ctx, guildService *services.GuildService) (*models.GuildEntry, *hypixel.Guild, int, fiber.Map) {
	discordID, err := strconv.ParseInt(c.Params("discordID"), 10, 64)
	if err != nil {
		return nil, nil, fiber.StatusBadRequest, fiber.Map{"error": "invalid discord id"}
	}

	entry, err := guildService.GetByDiscordID(discordID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, fiber.StatusNotFound, fiber.Map{"error": "no guild is linked to this server"}
		}
		return nil, nil, fiber.StatusInternalServerError, fiber.Map{"error": "failed to load guild", "cause": err.Error()}
	}

	guild, err := guildService.GuildSnapshot(entry)
	if err != nil {
		return nil, nil, fiber.StatusInternalServerError, fiber.Map{"error": "failed to decode guild data", "cause": err.Error()}
	}

	return entry, guild, 0, nil
}
