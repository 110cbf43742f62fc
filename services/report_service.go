// services/report_service.go
package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"guild-rank-system/hypixel"
	"guild-rank-system/models"
	"guild-rank-system/requirements"
)

// ErrReportInProgress rejects a second report for a guild that already
// has one running; concurrent runs would double the API traffic for no
// fresher data.
var ErrReportInProgress = errors.New("a report is already being generated for this guild")

// ProfileAPI is the slice of the Hypixel client the report drainer
// needs.
type ProfileAPI interface {
	FetchSelectedProfile(ctx context.Context, playerUUID string) (*hypixel.Profile, error)
}

// ArchiveFunc uploads a finished report payload to long term storage.
// A nil func disables archiving.
type ArchiveFunc func(reportID string, payload []byte) error

type pendingMember struct {
	UUID string `json:"uuid"`
	Rank string `json:"rank"`
}

// reportProgress is the durable drain state of one report: the frozen
// roster still to process and the player reports accumulated so far.
type reportProgress struct {
	Pending   []pendingMember              `json:"pending"`
	Completed []*requirements.PlayerReport `json:"completed,omitempty"`
}

type activeReport struct {
	report   *models.Report
	entry    *models.GuildEntry
	guild    *hypixel.Guild
	progress reportProgress

	// inFlight counts members popped off Pending whose fetch has not
	// landed yet; the report may only finish once it drops to zero.
	inFlight int
}

// ReportService owns the report queue: one report per guild at a time,
// drained one roster member per tick, with progress persisted after
// every step so a process restart resumes mid-run.
type ReportService struct {
	DB       *gorm.DB
	API      ProfileAPI
	Registry *requirements.Registry
	Guilds   *GuildService
	Archive  ArchiveFunc

	mu     sync.Mutex
	active map[int64]*activeReport
	order  []int64
}

func NewReportService(db *gorm.DB, api ProfileAPI, registry *requirements.Registry, guilds *GuildService) *ReportService {
	return &ReportService{
		DB:       db,
		API:      api,
		Registry: registry,
		Guilds:   guilds,
		active:   map[int64]*activeReport{},
	}
}

// CreateReportFor starts a new report run for a guild. The roster is
// frozen at this point: members joining or leaving while the run
// drains do not change the scheduled work. The row is written before
// the run becomes visible so a crash can never lose a started report.
func (s *ReportService) CreateReportFor(entry *models.GuildEntry) (*models.Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.active[entry.DiscordID]; ok {
		return nil, ErrReportInProgress
	}

	// Guards against unfinished rows from a previous process that were
	// not resumed, e.g. when the guild row disappeared in between.
	var unfinished int64
	err := s.DB.Model(&models.Report{}).
		Where("discord_id = ? AND finished_at IS NULL", entry.DiscordID).
		Count(&unfinished).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count unfinished reports for guild %d: %w", entry.DiscordID, err)
	}
	if unfinished > 0 {
		return nil, ErrReportInProgress
	}

	guild, err := s.Guilds.GuildSnapshot(entry)
	if err != nil {
		return nil, fmt.Errorf("cannot start report: %w", err)
	}

	progress := reportProgress{}
	for _, member := range guild.Members {
		progress.Pending = append(progress.Pending, pendingMember{
			UUID: member.UUID,
			Rank: member.Rank,
		})
	}

	blob, err := json.Marshal(progress)
	if err != nil {
		return nil, fmt.Errorf("failed to encode report progress: %w", err)
	}

	report := &models.Report{
		ID:        uuid.NewString(),
		DiscordID: entry.DiscordID,
		Progress:  string(blob),
	}
	if err := s.DB.Create(report).Error; err != nil {
		return nil, fmt.Errorf("failed to persist report for guild %d: %w", entry.DiscordID, err)
	}

	s.enqueue(&activeReport{
		report:   report,
		entry:    entry,
		guild:    guild,
		progress: progress,
	})

	log.Printf("📋 [ReportQueue] Created report %s for guild %s with %d members", report.ID, guild.Name, len(progress.Pending))
	return report, nil
}

// ResumeUnfinishedReports reloads every report row without a
// completion timestamp back into the queue. Called once on startup.
func (s *ReportService) ResumeUnfinishedReports() error {
	var rows []models.Report
	if err := s.DB.Where("finished_at IS NULL").Find(&rows).Error; err != nil {
		return fmt.Errorf("failed to load unfinished reports: %w", err)
	}

	for i := range rows {
		row := rows[i]

		entry, err := s.Guilds.GetByDiscordID(row.DiscordID)
		if err != nil {
			log.Printf("⚠️ [ReportQueue] Skipping report %s: %v", row.ID, err)
			continue
		}
		guild, err := s.Guilds.GuildSnapshot(entry)
		if err != nil {
			log.Printf("⚠️ [ReportQueue] Skipping report %s: %v", row.ID, err)
			continue
		}

		var progress reportProgress
		if err := json.Unmarshal([]byte(row.Progress), &progress); err != nil {
			log.Printf("⚠️ [ReportQueue] Skipping report %s: corrupt progress state: %v", row.ID, err)
			continue
		}

		s.mu.Lock()
		if _, ok := s.active[row.DiscordID]; ok {
			s.mu.Unlock()
			log.Printf("⚠️ [ReportQueue] Skipping report %s: guild %d already has an active report", row.ID, row.DiscordID)
			continue
		}
		s.enqueue(&activeReport{
			report:   &row,
			entry:    entry,
			guild:    guild,
			progress: progress,
		})
		s.mu.Unlock()

		log.Printf("🔄 [ReportQueue] Resumed report %s with %d members left", row.ID, len(progress.Pending))
	}
	return nil
}

// enqueue registers a run. Caller must hold s.mu (CreateReportFor does
// via its own defer).
func (s *ReportService) enqueue(run *activeReport) {
	s.active[run.entry.DiscordID] = run
	s.order = append(s.order, run.entry.DiscordID)
}

// ProcessNext drains exactly one roster member from the oldest active
// report. One member per tick keeps the external API usage flat no
// matter how many guilds queue reports.
func (s *ReportService) ProcessNext(ctx context.Context) error {
	s.mu.Lock()
	run := s.head()
	if run == nil {
		s.mu.Unlock()
		return nil
	}
	if len(run.progress.Pending) == 0 {
		if run.inFlight > 0 {
			// Another drain step still has a fetch out; its landing
			// will finish the report.
			s.mu.Unlock()
			return nil
		}
		// Can only happen when a resumed row was already fully drained
		// but its terminal write failed last time; finish it now.
		err := s.finishLocked(run)
		s.mu.Unlock()
		return err
	}

	// The member is popped under the lock so an overlapping drain step
	// can never take the same one twice.
	next := run.progress.Pending[0]
	run.progress.Pending = run.progress.Pending[1:]
	run.inFlight++
	s.mu.Unlock()

	// The fetch runs without the lock so admin mutations and status
	// reads are never stuck behind a slow external call.
	var player *requirements.PlayerReport
	profile, err := s.API.FetchSelectedProfile(ctx, next.UUID)
	if err != nil {
		// The member is consumed either way; failed fetches are not
		// retried within the same run.
		log.Printf("⚠️ [ReportQueue] Failed to fetch profile for %s: %v", next.UUID, err)
		player = requirements.FailedPlayerReport(next.UUID, err)
	} else {
		player = requirements.BuildPlayerReport(s.Registry, run.entry, run.guild, profile, next.UUID)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	run.inFlight--
	run.progress.Completed = append(run.progress.Completed, player)

	if len(run.progress.Pending) == 0 && run.inFlight == 0 {
		return s.finishLocked(run)
	}
	return s.persistProgressLocked(run)
}

// persistProgressLocked writes the drain state back to the report row.
// A failed write is logged but does not roll back the in-memory state;
// reports are cheap to regenerate.
func (s *ReportService) persistProgressLocked(run *activeReport) error {
	blob, err := json.Marshal(run.progress)
	if err != nil {
		return fmt.Errorf("failed to encode report progress: %w", err)
	}
	err = s.DB.Model(&models.Report{}).
		Where("id = ?", run.report.ID).
		Update("progress", string(blob)).Error
	if err != nil {
		log.Printf("⚠️ [ReportQueue] Failed to persist progress of report %s: %v", run.report.ID, err)
	}
	return nil
}

// finishLocked writes the terminal payload and releases the guild's
// active slot.
func (s *ReportService) finishLocked(run *activeReport) error {
	payload, err := json.Marshal(run.progress.Completed)
	if err != nil {
		return fmt.Errorf("failed to encode report payload: %w", err)
	}

	data := string(payload)
	now := time.Now()
	err = s.DB.Model(&models.Report{}).
		Where("id = ?", run.report.ID).
		Updates(map[string]interface{}{
			"progress":    "",
			"data":        data,
			"finished_at": now,
		}).Error
	if err != nil {
		log.Printf("⚠️ [ReportQueue] Failed to persist finished report %s: %v", run.report.ID, err)
	}

	delete(s.active, run.entry.DiscordID)
	s.removeFromOrder(run.entry.DiscordID)
	log.Printf("✅ [ReportQueue] Finished report %s for guild %s (%d members)", run.report.ID, run.guild.Name, len(run.progress.Completed))

	if s.Archive != nil {
		reportID := run.report.ID
		go func() {
			if err := s.Archive(reportID, payload); err != nil {
				log.Printf("⚠️ [ReportQueue] Failed to archive report %s: %v", reportID, err)
			}
		}()
	}
	return nil
}

func (s *ReportService) head() *activeReport {
	for len(s.order) > 0 {
		if run, ok := s.active[s.order[0]]; ok {
			return run
		}
		s.order = s.order[1:]
	}
	return nil
}

func (s *ReportService) removeFromOrder(discordID int64) {
	for i, id := range s.order {
		if id == discordID {
			s.order = append(s.order[:i], s.order[i+1:]...)
			return
		}
	}
}

// GetReport loads a report row by its identifier.
func (s *ReportService) GetReport(reportID string) (*models.Report, error) {
	var report models.Report
	if err := s.DB.Where("id = ?", reportID).First(&report).Error; err != nil {
		return nil, err
	}
	return &report, nil
}

// Status reports the drain progress of an unfinished report for the
// partial-content read endpoint. Reports not active in this process,
// e.g. an unfinished row whose resume was skipped, fall back to the
// persisted progress state.
func (s *ReportService) Status(report *models.Report) (completed int, pending int) {
	s.mu.Lock()
	for _, run := range s.active {
		if run.report.ID == report.ID {
			completed = len(run.progress.Completed)
			pending = len(run.progress.Pending) + run.inFlight
			s.mu.Unlock()
			return completed, pending
		}
	}
	s.mu.Unlock()

	var progress reportProgress
	if err := json.Unmarshal([]byte(report.Progress), &progress); err != nil {
		return 0, 0
	}
	return len(progress.Completed), len(progress.Pending)
}
