// handlers/report_routes.go
package handlers

import (
	"encoding/json"
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"guild-rank-system/services"
)

func SetupReportRoutes(app *fiber.App, reportService *services.ReportService, guildService *services.GuildService) {
	// Start a new report run for a guild's full roster.
	app.Post("/guilds/:discordID/reports", func(c *fiber.Ctx) error {
		discordID, err := strconv.ParseInt(c.Params("discordID"), 10, 64)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid discord id",
			})
		}

		entry, err := guildService.GetByDiscordID(discordID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
					"error": "no guild is linked to this server",
				})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to load guild",
				"cause": err.Error(),
			})
		}

		report, err := reportService.CreateReportFor(entry)
		if err != nil {
			if errors.Is(err, services.ErrReportInProgress) {
				return c.Status(fiber.StatusConflict).JSON(fiber.Map{
					"error": "a report is already being generated for this guild",
				})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to create report",
				"cause": err.Error(),
			})
		}

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"id":         report.ID,
			"created_at": report.CreatedAt,
		})
	})

	// Read a report. Unfinished reports answer with 206 and the drain
	// progress so the bot can poll without parsing partial payloads.
	app.Get("/reports/:id", func(c *fiber.Ctx) error {
		report, err := reportService.GetReport(c.Params("id"))
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
					"error": "report not found",
				})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to load report",
				"cause": err.Error(),
			})
		}

		if !report.Finished() {
			completed, pending := reportService.Status(report)
			return c.Status(fiber.StatusPartialContent).JSON(fiber.Map{
				"id":         report.ID,
				"finished":   false,
				"completed":  completed,
				"pending":    pending,
				"created_at": report.CreatedAt,
			})
		}

		var results json.RawMessage
		if err := json.Unmarshal([]byte(*report.Data), &results); err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to decode report payload",
				"cause": err.Error(),
			})
		}

		return c.JSON(fiber.Map{
			"id":          report.ID,
			"finished":    true,
			"created_at":  report.CreatedAt,
			"finished_at": report.FinishedAt,
			"results":     results,
		})
	})
}
