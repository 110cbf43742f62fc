package services_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"guild-rank-system/hypixel"
	"guild-rank-system/inventory"
	"guild-rank-system/models"
	"guild-rank-system/requirements"
	"guild-rank-system/services"
)

const testDiscordID = int64(424242)

// stubAPI serves crafted profiles keyed by player UUID and fails for
// anyone it does not know.
type stubAPI struct {
	profiles map[string]*hypixel.Profile
}

func (a stubAPI) FetchSelectedProfile(ctx context.Context, playerUUID string) (*hypixel.Profile, error) {
	if profile, ok := a.profiles[playerUUID]; ok {
		return profile, nil
	}
	return nil, fmt.Errorf("no profile for %s", playerUUID)
}

// slowStubAPI stalls every fetch so overlapping drain calls stay in
// flight at the same time.
type slowStubAPI struct {
	delay    time.Duration
	profiles map[string]*hypixel.Profile
}

func (a slowStubAPI) FetchSelectedProfile(ctx context.Context, playerUUID string) (*hypixel.Profile, error) {
	time.Sleep(a.delay)
	if profile, ok := a.profiles[playerUUID]; ok {
		return profile, nil
	}
	return nil, fmt.Errorf("no profile for %s", playerUUID)
}

func openTestDB() *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		panic(err)
	}
	if err := db.AutoMigrate(&models.Guild{}, &models.Report{}); err != nil {
		panic(err)
	}
	return db
}

// seedGuild stores a two member guild where the Member rank requires
// 50 fairy souls.
func seedGuild(db *gorm.DB) {
	snapshot, _ := json.Marshal(hypixel.Guild{
		ID:   "abc123",
		Name: "Test Guild",
		Members: []hypixel.GuildMember{
			{UUID: "1111", Rank: "Member"},
			{UUID: "2222", Rank: "Member"},
		},
		Ranks: []hypixel.GuildRank{
			{Name: "Officer", Priority: 2},
			{Name: "Member", Priority: 1},
		},
	})

	member := models.NewRankRequirement()
	member.FairySouls = 50
	blob, _ := json.Marshal(map[string]*models.RankRequirement{"Member": member})

	db.Create(&models.Guild{
		ID:               "guild-row-1",
		DiscordID:        testDiscordID,
		Name:             "Test Guild",
		Data:             string(snapshot),
		RankRequirements: string(blob),
	})
}

func memberProfile(playerUUID string, souls int) *hypixel.Profile {
	return &hypixel.Profile{
		ProfileID: "profile-" + playerUUID,
		Selected:  true,
		Members: map[string]*hypixel.ProfileMember{
			playerUUID: {FairySoulsCollected: souls},
		},
	}
}

func newTestReportService(db *gorm.DB, api services.ProfileAPI) (*services.ReportService, *services.GuildService) {
	guilds := services.NewGuildService(db)
	registry := requirements.NewRegistry(inventory.NewNBTDecoder())
	return services.NewReportService(db, api, registry, guilds), guilds
}

func TestReportLifecycle(t *testing.T) {
	Convey("Given a linked guild with two members", t, func() {
		db := openTestDB()
		seedGuild(db)

		api := stubAPI{profiles: map[string]*hypixel.Profile{
			"1111": memberProfile("1111", 100),
			"2222": memberProfile("2222", 10),
		}}
		reportService, guildService := newTestReportService(db, api)

		entry, err := guildService.GetByDiscordID(testDiscordID)
		So(err, ShouldBeNil)

		Convey("Creating a report persists the row before any processing", func() {
			report, err := reportService.CreateReportFor(entry)
			So(err, ShouldBeNil)

			var row models.Report
			So(db.Where("id = ?", report.ID).First(&row).Error, ShouldBeNil)
			So(row.FinishedAt, ShouldBeNil)
			So(row.Data, ShouldBeNil)
			So(row.Progress, ShouldContainSubstring, "1111")
			So(row.Progress, ShouldContainSubstring, "2222")

			Convey("A second report for the same guild is rejected, not queued", func() {
				_, err := reportService.CreateReportFor(entry)
				So(errors.Is(err, services.ErrReportInProgress), ShouldBeTrue)

				var count int64
				db.Model(&models.Report{}).Count(&count)
				So(count, ShouldEqual, 1)
			})

			Convey("Each drain step consumes exactly one member", func() {
				So(reportService.ProcessNext(context.Background()), ShouldBeNil)

				completed, pending := reportService.Status(report)
				So(completed, ShouldEqual, 1)
				So(pending, ShouldEqual, 1)

				Convey("Draining the last member finishes the report", func() {
					So(reportService.ProcessNext(context.Background()), ShouldBeNil)

					var row models.Report
					So(db.Where("id = ?", report.ID).First(&row).Error, ShouldBeNil)
					So(row.FinishedAt, ShouldNotBeNil)
					So(row.Data, ShouldNotBeNil)

					var players []*requirements.PlayerReport
					So(json.Unmarshal([]byte(*row.Data), &players), ShouldBeNil)
					So(players, ShouldHaveLength, 2)
					So(players[0].UUID, ShouldEqual, "1111")
					So(players[0].Rank.Name, ShouldEqual, "Member")
					So(players[1].UUID, ShouldEqual, "2222")
					So(players[1].Rank, ShouldBeNil)

					Convey("A finished report frees the guild for a new run", func() {
						_, err := reportService.CreateReportFor(entry)
						So(err, ShouldBeNil)
					})
				})
			})
		})

		Convey("A failed profile fetch records the error and still consumes the member", func() {
			failing := stubAPI{profiles: map[string]*hypixel.Profile{
				"1111": memberProfile("1111", 100),
				// 2222 missing, so its fetch fails
			}}
			reportService, guildService := newTestReportService(db, failing)
			entry, err := guildService.GetByDiscordID(testDiscordID)
			So(err, ShouldBeNil)

			report, err := reportService.CreateReportFor(entry)
			So(err, ShouldBeNil)
			So(reportService.ProcessNext(context.Background()), ShouldBeNil)
			So(reportService.ProcessNext(context.Background()), ShouldBeNil)

			var row models.Report
			So(db.Where("id = ?", report.ID).First(&row).Error, ShouldBeNil)
			So(row.FinishedAt, ShouldNotBeNil)

			var players []*requirements.PlayerReport
			So(json.Unmarshal([]byte(*row.Data), &players), ShouldBeNil)
			So(players[1].UUID, ShouldEqual, "2222")
			So(players[1].Error, ShouldNotBeEmpty)
			So(players[1].Checks, ShouldBeEmpty)
		})
	})
}

func TestConcurrentDrain(t *testing.T) {
	Convey("Given overlapping drain calls against a slow profile API", t, func() {
		db := openTestDB()
		seedGuild(db)

		api := slowStubAPI{
			delay: 50 * time.Millisecond,
			profiles: map[string]*hypixel.Profile{
				"1111": memberProfile("1111", 100),
				"2222": memberProfile("2222", 60),
			},
		}
		reportService, guildService := newTestReportService(db, api)

		entry, err := guildService.GetByDiscordID(testDiscordID)
		So(err, ShouldBeNil)

		report, err := reportService.CreateReportFor(entry)
		So(err, ShouldBeNil)

		var wg sync.WaitGroup
		errs := make([]error, 2)
		for i := range errs {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				errs[i] = reportService.ProcessNext(context.Background())
			}(i)
		}
		wg.Wait()

		Convey("Each member is evaluated exactly once", func() {
			So(errs[0], ShouldBeNil)
			So(errs[1], ShouldBeNil)

			var row models.Report
			So(db.Where("id = ?", report.ID).First(&row).Error, ShouldBeNil)
			So(row.FinishedAt, ShouldNotBeNil)

			var players []*requirements.PlayerReport
			So(json.Unmarshal([]byte(*row.Data), &players), ShouldBeNil)
			So(players, ShouldHaveLength, 2)

			seen := map[string]int{}
			for _, player := range players {
				seen[player.UUID]++
			}
			So(seen["1111"], ShouldEqual, 1)
			So(seen["2222"], ShouldEqual, 1)
		})
	})
}

func TestReportResume(t *testing.T) {
	Convey("Given a half drained report from a previous process", t, func() {
		db := openTestDB()
		seedGuild(db)

		api := stubAPI{profiles: map[string]*hypixel.Profile{
			"1111": memberProfile("1111", 100),
			"2222": memberProfile("2222", 60),
		}}

		first, firstGuilds := newTestReportService(db, api)
		entry, err := firstGuilds.GetByDiscordID(testDiscordID)
		So(err, ShouldBeNil)

		report, err := first.CreateReportFor(entry)
		So(err, ShouldBeNil)
		So(first.ProcessNext(context.Background()), ShouldBeNil)

		Convey("Status without resume falls back to the persisted progress", func() {
			second, _ := newTestReportService(db, api)

			var row models.Report
			So(db.Where("id = ?", report.ID).First(&row).Error, ShouldBeNil)

			completed, pending := second.Status(&row)
			So(completed, ShouldEqual, 1)
			So(pending, ShouldEqual, 1)
		})

		Convey("A new process without resume still rejects a duplicate run", func() {
			second, secondGuilds := newTestReportService(db, api)
			entry, err := secondGuilds.GetByDiscordID(testDiscordID)
			So(err, ShouldBeNil)

			_, err = second.CreateReportFor(entry)
			So(errors.Is(err, services.ErrReportInProgress), ShouldBeTrue)
		})

		Convey("Resuming picks up the same row where it stopped", func() {
			second, _ := newTestReportService(db, api)
			So(second.ResumeUnfinishedReports(), ShouldBeNil)

			completed, pending := second.Status(report)
			So(completed, ShouldEqual, 1)
			So(pending, ShouldEqual, 1)

			So(second.ProcessNext(context.Background()), ShouldBeNil)

			var rows []models.Report
			So(db.Find(&rows).Error, ShouldBeNil)
			So(rows, ShouldHaveLength, 1)
			So(rows[0].ID, ShouldEqual, report.ID)
			So(rows[0].FinishedAt, ShouldNotBeNil)

			var players []*requirements.PlayerReport
			So(json.Unmarshal([]byte(*rows[0].Data), &players), ShouldBeNil)
			So(players, ShouldHaveLength, 2)
		})
	})
}
