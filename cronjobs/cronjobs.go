package cronjobs

import (
	"context"
	"errors"
	"log"
	"os"
	"time"

	"github.com/robfig/cron/v3"

	"coastwatch/batch"
)

const (
	defaultSchedule = "*/10 * * * *"
	passTimeout     = 8 * time.Minute
)

// runBatchPass drains the buffer into one pipeline run. Any failure puts
// the drained posts back on the queue: runs are idempotent by post id, so
// the whole batch is retried on the next tick instead of being lost.
func runBatchPass(orch *batch.Orchestrator, queue *batch.Queue) {
	posts := queue.Drain()
	if len(posts) == 0 {
		log.Println("CronJob: no buffered posts, skipping run")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), passTimeout)
	defer cancel()

	run, err := orch.RunBatch(ctx, posts)
	if err != nil {
		queue.Add(posts...)
		if errors.Is(err, batch.ErrBatchInFlight) {
			log.Println("CronJob: previous batch still running, requeued posts")
			return
		}
		log.Printf("CronJob: batch run failed, requeued %d posts: %v", len(posts), err)
		return
	}
	log.Printf("CronJob: batch %s finished with status %s", run.ID, run.Status)
}

// InitCronJobs schedules the recurring batch pass: every 10 minutes the
// buffered posts are drained into one pipeline run. BATCH_SCHEDULE
// overrides the cadence with a standard cron expression.
func InitCronJobs(orch *batch.Orchestrator, queue *batch.Queue) *cron.Cron {
	log.Println("\nStarting Cron Jobs -------------------------------------------------------")
	c := cron.New()

	schedule := os.Getenv("BATCH_SCHEDULE")
	if schedule == "" {
		schedule = defaultSchedule
	}

	_, err := c.AddFunc(schedule, func() {
		log.Println("\nCronJob: Batch Pass Running")
		runBatchPass(orch, queue)
	})
	if err != nil {
		log.Println("Error scheduling batch pass:", err)
	}

	c.Start()
	return c
}
