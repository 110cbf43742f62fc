package models_test

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"guild-rank-system/models"
)

func TestParseGuildEntry(t *testing.T) {
	Convey("Given a stored guild row", t, func() {
		Convey("A missing requirement blob parses to no configured ranks", func() {
			entry, err := models.ParseGuildEntry(&models.Guild{DiscordID: 1})
			So(err, ShouldBeNil)
			So(entry.RankRequirements, ShouldBeEmpty)
		})

		Convey("Categories absent from the blob stay unset", func() {
			guild := &models.Guild{
				DiscordID:        1,
				RankRequirements: `{"Member":{"fairySouls":50}}`,
			}

			entry, err := models.ParseGuildEntry(guild)
			So(err, ShouldBeNil)

			req := entry.RankRequirements["Member"]
			So(req.FairySouls, ShouldEqual, 50)
			So(req.SlayerExperience, ShouldEqual, models.UnsetRequirement)
			So(req.AverageSkills, ShouldEqual, models.UnsetRequirement)
			So(req.WeaponItems, ShouldNotBeNil)
			So(req.ArmorItems, ShouldNotBeNil)
		})

		Convey("A corrupt blob surfaces a decode error", func() {
			_, err := models.ParseGuildEntry(&models.Guild{
				DiscordID:        1,
				RankRequirements: `{"Member":`,
			})
			So(err, ShouldNotBeNil)
		})

		Convey("Thresholds survive a serialize and parse round trip", func() {
			entry, err := models.ParseGuildEntry(&models.Guild{DiscordID: 1})
			So(err, ShouldBeNil)

			entry.RequirementsForRank("Officer").FairySouls = 150
			entry.RequirementsForRank("Officer").WeaponItems["Raider Axe"] = 5

			blob, err := entry.SerializeRankRequirements()
			So(err, ShouldBeNil)

			reparsed, err := models.ParseGuildEntry(&models.Guild{
				DiscordID:        1,
				RankRequirements: blob,
			})
			So(err, ShouldBeNil)
			So(reparsed.RankRequirements["Officer"].FairySouls, ShouldEqual, 150)
			So(reparsed.RankRequirements["Officer"].WeaponItems["Raider Axe"], ShouldEqual, 5)
		})
	})
}

func TestGuildEntryClone(t *testing.T) {
	Convey("Cloning an entry detaches its threshold maps", t, func() {
		entry, err := models.ParseGuildEntry(&models.Guild{
			DiscordID:        1,
			RankRequirements: `{"Member":{"fairySouls":50,"weaponItems":{"Raider Axe":5}}}`,
		})
		So(err, ShouldBeNil)

		clone := entry.Clone()
		clone.RankRequirements["Member"].FairySouls = 500
		clone.RankRequirements["Member"].WeaponItems["Midas' Sword"] = 25
		clone.RequirementsForRank("Officer").BankCoins = 1000000

		So(entry.RankRequirements["Member"].FairySouls, ShouldEqual, 50)
		So(entry.RankRequirements["Member"].WeaponItems, ShouldNotContainKey, "Midas' Sword")
		So(entry.RankRequirements, ShouldNotContainKey, "Officer")
	})
}

func TestReportFinished(t *testing.T) {
	Convey("A report only counts as finished with both payload and timestamp", t, func() {
		So((&models.Report{}).Finished(), ShouldBeFalse)

		data := "[]"
		So((&models.Report{Data: &data}).Finished(), ShouldBeFalse)
	})
}
