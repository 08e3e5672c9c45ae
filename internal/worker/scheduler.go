package worker

import (
	"context"
	"fmt"
	"sync"

	"github.com/robfig/cron/v3"

	"github.com/ppiankov/restock/internal/logger"
)

// Scheduler runs a job on a cron schedule until its context ends.
// Overlapping runs are skipped, so at most one job executes at a time.
type Scheduler struct {
	parser cron.Parser
	log    logger.Logger
}

// NewScheduler creates a scheduler using the standard 5-field cron format
func NewScheduler(log logger.Logger) *Scheduler {
	return &Scheduler{
		parser: cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor),
		log:    log,
	}
}

// Validate checks that expr is a cron expression this scheduler accepts
func (s *Scheduler) Validate(expr string) error {
	if _, err := s.parser.Parse(expr); err != nil {
		return fmt.Errorf("parse schedule %q: %w", expr, err)
	}
	return nil
}

// Run schedules job and blocks until ctx is done, then waits for a running job to finish.
// With runNow the job also fires once immediately.
func (s *Scheduler) Run(ctx context.Context, expr string, runNow bool, job func(context.Context)) error {
	schedule, err := s.parser.Parse(expr)
	if err != nil {
		return fmt.Errorf("parse schedule %q: %w", expr, err)
	}

	cronLog := cronLogger{log: s.log}
	c := cron.New(
		cron.WithParser(s.parser),
		cron.WithLogger(cronLog),
		cron.WithChain(cron.Recover(cronLog), cron.SkipIfStillRunning(cronLog)),
	)

	id := c.Schedule(schedule, cron.FuncJob(func() { job(ctx) }))

	c.Start()
	s.log.Info("Scheduler started", logger.String("schedule", expr), logger.Time("next_run", c.Entry(id).Next))

	var first sync.WaitGroup
	if runNow {
		wrapped := c.Entry(id).WrappedJob
		first.Add(1)
		go func() {
			defer first.Done()
			wrapped.Run()
		}()
	}

	<-ctx.Done()

	stopped := c.Stop()
	<-stopped.Done()
	first.Wait()
	s.log.Info("Scheduler stopped")

	return nil
}

// cronLogger adapts Logger to cron.Logger
type cronLogger struct {
	log logger.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Debug("cron: "+msg, kvFields(keysAndValues)...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.Error("cron: "+msg, append(kvFields(keysAndValues), logger.Error(err))...)
}

func kvFields(keysAndValues []interface{}) []logger.Field {
	fields := make([]logger.Field, 0, len(keysAndValues)/2)
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		key, ok := keysAndValues[i].(string)
		if !ok {
			key = fmt.Sprint(keysAndValues[i])
		}
		fields = append(fields, logger.Any(key, keysAndValues[i+1]))
	}
	return fields
}
