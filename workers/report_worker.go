// workers/report_worker.go
package workers

import (
	"context"
	"log"
	"time"

	"github.com/go-co-op/gocron/v2"

	"guild-rank-system/services"
)

// StartReportQueueWorker drains the report queue on a fixed interval,
// one roster member per tick. The interval is the rate limit: the
// external API sees at most one profile fetch per tick regardless of
// how many reports are queued.
func StartReportQueueWorker(ctx context.Context, reports *services.ReportService, interval time.Duration) {
	sched, err := gocron.NewScheduler()
	if err != nil {
		log.Fatal("failed to create report queue scheduler:", err)
	}

	// Singleton mode keeps a slow fetch from overlapping with the next
	// tick; overlapping steps would drain two members at once.
	_, err = sched.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() {
			if err := reports.ProcessNext(ctx); err != nil {
				log.Printf("⚠️ [ReportQueue] Drain step failed: %v", err)
			}
		}),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		log.Fatal("failed to schedule report queue drainer:", err)
	}

	sched.Start()
	go func() {
		<-ctx.Done()
		_ = sched.Shutdown()
	}()

	log.Printf("✅ Report queue drainer running (every %s)", interval)
}
