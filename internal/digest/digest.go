package digest

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/edkim3275/notion-todo-AI-agent/internal/core"
	"github.com/edkim3275/notion-todo-AI-agent/internal/notify"
)

var cronParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

// ParseCron validates a 5-field cron expression for the digest schedule.
func ParseCron(expr string) (cron.Schedule, error) {
	if strings.HasPrefix(strings.TrimSpace(expr), "@") {
		return nil, fmt.Errorf("only 5-field cron expressions are supported")
	}
	schedule, err := cronParser.Parse(expr)
	if err != nil {
		return nil, fmt.Errorf("invalid cron expression: %w", err)
	}
	return schedule, nil
}

// Scheduler sends a summary of today's tasks through the notifier on a cron
// schedule.
type Scheduler struct {
	svc      *core.Service
	notifier notify.Notifier
	logger   *slog.Logger
	location *time.Location
	runner   *cron.Cron
}

// New validates the cron expression and prepares the scheduler.
func New(expr string, svc *core.Service, notifier notify.Notifier, logger *slog.Logger, location *time.Location) (*Scheduler, error) {
	if _, err := ParseCron(expr); err != nil {
		return nil, err
	}
	s := &Scheduler{
		svc:      svc,
		notifier: notifier,
		logger:   logger,
		location: location,
		runner:   cron.New(cron.WithParser(cronParser), cron.WithLocation(location)),
	}
	if _, err := s.runner.AddFunc(expr, s.run); err != nil {
		return nil, fmt.Errorf("schedule digest: %w", err)
	}
	return s, nil
}

// Start begins firing the digest on schedule.
func (s *Scheduler) Start() {
	s.runner.Start()
	s.logger.Info("digest scheduler started")
}

// Stop stops scheduling and returns a context that is done once any
// in-flight digest finished.
func (s *Scheduler) Stop() context.Context {
	return s.runner.Stop()
}

func (s *Scheduler) run() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	today := core.TodayString(s.location)
	env := s.svc.RunPlan(ctx, core.Plan{
		Intent: core.IntentQuery,
		Selection: core.Selection{
			Strategy: core.StrategyByFilters,
			Filters: []core.FilterClause{
				{Property: core.FieldDate, Operator: "equals", Value: today},
			},
		},
	})
	if !env.OK {
		s.logger.Error("digest query failed", "err", env.Error)
		return
	}
	rows, ok := env.Result.([]core.Row)
	if !ok {
		s.logger.Error("digest query returned unexpected result type")
		return
	}

	title := fmt.Sprintf("Tasks for %s", today)
	if err := s.notifier.Send(ctx, title, FormatRows(rows)); err != nil {
		s.logger.Error("send digest", "err", err)
		return
	}
	s.logger.Info("digest sent", "tasks", len(rows))
}

// FormatRows renders rows as a short plain-text list for a push message.
func FormatRows(rows []core.Row) string {
	if len(rows) == 0 {
		return "No tasks scheduled today."
	}
	var b strings.Builder
	for i, row := range rows {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString("- ")
		b.WriteString(row.Title)
		if row.Status != nil {
			fmt.Fprintf(&b, " [%s]", *row.Status)
		}
	}
	return b.String()
}
