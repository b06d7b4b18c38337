// The scheduler is the cron collaborator: it drives daily poll generation,
// lifecycle event publication, the retention sweep, and weekly analytics.
// The core exposes these as plain operations; all cadence lives here.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/joho/godotenv"

	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/campuscheers/cheerd/internal/analytics"
	"github.com/campuscheers/cheerd/internal/app"
	"github.com/campuscheers/cheerd/internal/events"
	"github.com/campuscheers/cheerd/internal/metrics"
	"github.com/campuscheers/cheerd/internal/models"
)

func main() {
	var configPath = flag.String("config", "config.toml", "Path to config file")
	var task = flag.String("task", "cron", "Task to run: cron, generate, activate, results, sweep, analytics")
	flag.Parse()

	_ = godotenv.Load()

	service, err := app.NewService(*configPath)
	if err != nil {
		logger.Error.Fatalf("Failed to load config: %v", err)
	}
	defer service.Close()

	if err := service.Store.ApplyMigrations(service.Config.Database.MigrationsDir); err != nil {
		logger.Error.Fatalf("Failed to apply migrations: %v", err)
	}

	reporter := analytics.NewReporter(
		service.Store,
		service.Config.Analytics.WindowDays,
		service.Config.Display.TimestampFormat,
	)

	switch *task {
	case "generate":
		generatePolls(service)
	case "activate":
		publishForToday(service, events.KindPollLive)
	case "results":
		publishForToday(service, events.KindResultsReady)
	case "sweep":
		service.Sweeper.Run()
	case "analytics":
		if err := reporter.LogLeaderboard(); err != nil {
			logger.Error.Fatalf("Analytics failed: %v", err)
		}
	case "cron":
		runCron(service, reporter)
	default:
		logger.Error.Fatalf("Unknown task: %s", *task)
	}
}

func runCron(service *app.Service, reporter *analytics.Reporter) {
	scheduler := gocron.NewScheduler(time.Local)

	windowStart := service.Config.Poll.WindowStart
	windowClose := closeTime(windowStart, service.Config.Poll.WindowMinutes)

	scheduler.Every(1).Day().At("00:05").Do(func() { generatePolls(service) })
	scheduler.Every(1).Day().At(windowStart).Do(func() { publishForToday(service, events.KindPollLive) })
	scheduler.Every(1).Day().At(windowClose).Do(func() { publishForToday(service, events.KindResultsReady) })
	scheduler.Every(1).Day().At("02:00").Do(func() { service.Sweeper.Run() })
	scheduler.Every(1).Week().Sunday().At("03:00").Do(func() {
		if err := reporter.LogLeaderboard(); err != nil {
			logger.Error.Printf("Weekly analytics failed: %v", err)
		}
	})

	if len(service.Config.Analytics.GSheets) > 0 {
		if _, err := analytics.NewSheetExporter(service.Config, reporter); err != nil {
			logger.Error.Fatalf("Failed to initialize sheets exporter: %v", err)
		}
	}

	scheduler.StartAsync()
	logger.Info.Printf("Scheduler running: generate 00:05, live %s, results %s, sweep 02:00", windowStart, windowClose)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	scheduler.Stop()
	logger.Info.Println("Scheduler stopped")
}

func generatePolls(service *app.Service) {
	created, err := service.Catalog.GenerateDailyPolls(time.Now())
	if err != nil {
		logger.Error.Printf("Daily poll generation failed: %v", err)
		return
	}

	ctx := context.Background()
	for _, poll := range created {
		metrics.PollsGeneratedTotal.WithLabelValues(poll.SchoolID).Inc()
		publish(ctx, service, events.KindPollCreated, poll.SchoolID, poll.PollID)
	}
	logger.Info.Printf("Generated %d daily polls", len(created))
}

func publishForToday(service *app.Service, kind string) {
	today := time.Now().Format(models.DateLayout)
	polls, err := service.Store.ListPollsForDate(today)
	if err != nil {
		logger.Error.Printf("Failed to list polls for %s: %v", today, err)
		return
	}

	ctx := context.Background()
	for _, poll := range polls {
		publish(ctx, service, kind, poll.SchoolID, poll.PollID)
	}
	logger.Info.Printf("Published %s for %d polls", kind, len(polls))
}

func publish(ctx context.Context, service *app.Service, kind, schoolID, pollID string) {
	if err := service.Events.Publish(ctx, kind, schoolID, pollID); err != nil {
		logger.Error.Printf("Failed to publish %s for poll %s: %v", kind, pollID, err)
		return
	}
	metrics.EventsPublishedTotal.WithLabelValues(kind).Inc()
}

// closeTime shifts an HH:MM wall-clock time forward by the window length.
func closeTime(start string, minutes int) string {
	t, err := time.Parse("15:04", start)
	if err != nil {
		return start
	}
	c := t.Add(time.Duration(minutes) * time.Minute)
	return fmt.Sprintf("%02d:%02d", c.Hour(), c.Minute())
}
