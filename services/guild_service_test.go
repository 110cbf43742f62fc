package services_test

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"guild-rank-system/hypixel"
	"guild-rank-system/models"
	"guild-rank-system/services"
)

func TestGuildService(t *testing.T) {
	Convey("Given a stored guild", t, func() {
		db := openTestDB()
		seedGuild(db)
		guildService := services.NewGuildService(db)

		Convey("Entries are parsed from the stored blobs", func() {
			entry, err := guildService.GetByDiscordID(testDiscordID)
			So(err, ShouldBeNil)
			So(entry.Name, ShouldEqual, "Test Guild")
			So(entry.RankRequirements["Member"].FairySouls, ShouldEqual, 50)

			guild, err := guildService.GuildSnapshot(entry)
			So(err, ShouldBeNil)
			So(guild.Members, ShouldHaveLength, 2)
			So(guild.RanksByPriority()[0].Name, ShouldEqual, "Officer")
		})

		Convey("Reads within the TTL are served from cache", func() {
			_, err := guildService.GetByDiscordID(testDiscordID)
			So(err, ShouldBeNil)

			// A write that bypasses the service is invisible until the
			// cache is dropped.
			db.Model(&models.Guild{}).
				Where("discord_id = ?", testDiscordID).
				Update("rank_requirements", `{}`)

			cached, err := guildService.GetByDiscordID(testDiscordID)
			So(err, ShouldBeNil)
			So(cached.RankRequirements["Member"].FairySouls, ShouldEqual, 50)

			guildService.Invalidate(testDiscordID)

			fresh, err := guildService.GetByDiscordID(testDiscordID)
			So(err, ShouldBeNil)
			So(fresh.RankRequirements, ShouldBeEmpty)
		})

		Convey("Cached reads hand out independent copies", func() {
			first, err := guildService.GetByDiscordID(testDiscordID)
			So(err, ShouldBeNil)

			// Mutating one caller's entry, as an admin handler does,
			// must not leak into another caller's copy.
			first.RequirementsForRank("Officer").FairySouls = 999
			first.RankRequirements["Member"].WeaponItems["Raider Axe"] = 5

			second, err := guildService.GetByDiscordID(testDiscordID)
			So(err, ShouldBeNil)
			So(second.RankRequirements, ShouldNotContainKey, "Officer")
			So(second.RankRequirements["Member"].WeaponItems, ShouldBeEmpty)
		})

		Convey("Threshold mutations are visible immediately after storing", func() {
			entry, err := guildService.GetByDiscordID(testDiscordID)
			So(err, ShouldBeNil)

			entry.RequirementsForRank("Officer").FairySouls = 200
			So(guildService.UpdateRankRequirements(entry), ShouldBeNil)

			reloaded, err := guildService.GetByDiscordID(testDiscordID)
			So(err, ShouldBeNil)
			So(reloaded.RankRequirements["Officer"].FairySouls, ShouldEqual, 200)
		})

		Convey("Re-linking a server updates the snapshot in place", func() {
			err := guildService.SaveGuildSnapshot(testDiscordID, &hypixel.Guild{
				ID:   "abc123",
				Name: "Renamed Guild",
			})
			So(err, ShouldBeNil)

			var count int64
			db.Model(&models.Guild{}).Count(&count)
			So(count, ShouldEqual, 1)

			entry, err := guildService.GetByDiscordID(testDiscordID)
			So(err, ShouldBeNil)
			So(entry.Name, ShouldEqual, "Renamed Guild")
		})
	})
}
