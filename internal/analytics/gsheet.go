package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/go-co-op/gocron"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/campuscheers/cheerd/internal/app"
)

// SheetExporter pushes the engagement leaderboard to a Google Sheet on a
// cron schedule, for staff who live in spreadsheets.
type SheetExporter struct {
	reporter      *Reporter
	scheduler     *gocron.Scheduler
	sheetsService *sheets.Service
}

func NewSheetExporter(config *app.Config, reporter *Reporter) (*gocron.Scheduler, error) {
	ctx := context.Background()
	scheduler := gocron.NewScheduler(time.UTC)

	for _, cfg := range config.Analytics.GSheets {
		svc, err := sheets.NewService(ctx, option.WithCredentialsFile(cfg.CredentialsPath))
		if err != nil {
			return nil, fmt.Errorf("failed to create sheets service: %w", err)
		}

		exporter := &SheetExporter{
			reporter:      reporter,
			scheduler:     scheduler,
			sheetsService: svc,
		}

		cfg := cfg
		_, err = scheduler.Cron(cfg.Schedule).Do(func() {
			if err := exporter.Export(&cfg); err != nil {
				logger.Error.Printf("Leaderboard export failed: %v", err)
			}
		})
		if err != nil {
			return nil, fmt.Errorf("failed to schedule export: %w", err)
		}
	}

	scheduler.StartAsync()
	return scheduler, nil
}

func (e *SheetExporter) Export(cfg *app.GSheetConfig) error {
	stats, err := e.reporter.Leaderboard(false)
	if err != nil {
		return fmt.Errorf("failed to build leaderboard: %w", err)
	}

	rows := make([][]interface{}, 0, len(stats))
	for i, stat := range stats {
		rows = append(rows, []interface{}{i + 1, stat.SchoolName, stat.Votes, stat.Voters, stat.Polls})
	}

	updateRange := fmt.Sprintf("%s!%s", cfg.SheetName, cfg.LeaderboardRange)
	_, err = e.sheetsService.Spreadsheets.Values.Update(cfg.SheetID, updateRange,
		&sheets.ValueRange{Values: rows}).ValueInputOption("RAW").Do()
	if err != nil {
		return fmt.Errorf("failed to update leaderboard: %w", err)
	}

	timestamp := fmt.Sprintf("UPD: %s", time.Now().Format("2 January 15:04"))
	updateRange = fmt.Sprintf("%s!%s", cfg.SheetName, cfg.TimestampRange)
	_, err = e.sheetsService.Spreadsheets.Values.Update(cfg.SheetID, updateRange,
		&sheets.ValueRange{Values: [][]interface{}{{timestamp}}}).ValueInputOption("RAW").Do()

	return err
}
