package services

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/jakechorley/turnify/internal/config"
	"github.com/jakechorley/turnify/pkg/clients/sheetsclient"
	"github.com/jakechorley/turnify/pkg/core/planner"
)

// SheetsPublisher defines the sheets operation needed to publish a planning
type SheetsPublisher interface {
	PublishPlanning(spreadsheetID string, published *sheetsclient.PublishedPlanning) error
}

// PublishPlanning publishes the latest planning to the configured spreadsheet.
// Each planning gets its own tab named after the configured tab and the start date.
func PublishPlanning(
	ctx context.Context,
	store MatrixStore,
	client SheetsPublisher,
	cfg *config.Config,
	logger *zap.Logger,
) (*sheetsclient.PublishedPlanning, error) {
	if cfg.Sheets.SpreadsheetID == "" {
		return nil, fmt.Errorf("no spreadsheet configured for publishing")
	}

	record, weeks, err := PlanningMatrix(ctx, store, cfg, logger)
	if err != nil {
		return nil, err
	}

	published := &sheetsclient.PublishedPlanning{
		TabTitle: fmt.Sprintf("%s %s", cfg.Sheets.Tab, record.StartDate),
	}
	for _, week := range weeks {
		published.Weeks = append(published.Weeks, publishedWeek(week))
	}

	logger.Debug("Publishing planning",
		zap.String("planning_id", record.ID),
		zap.String("tab", published.TabTitle),
		zap.Int("weeks", len(published.Weeks)))

	if err := client.PublishPlanning(cfg.Sheets.SpreadsheetID, published); err != nil {
		return nil, fmt.Errorf("failed to publish planning: %w", err)
	}

	logger.Info("Planning published",
		zap.String("planning_id", record.ID),
		zap.String("tab", published.TabTitle))

	return published, nil
}

func publishedWeek(week WeekMatrix) sheetsclient.PublishedWeek {
	out := sheetsclient.PublishedWeek{Title: week.Title()}

	for _, date := range week.Dates {
		column := date
		if d, err := time.Parse(planner.DateLayout, date); err == nil {
			column = d.Format("Mon 2006-01-02")
		}
		out.Columns = append(out.Columns, column)
	}

	for _, row := range week.Rows {
		published := sheetsclient.PublishedRow{Title: row.Title()}
		for _, tags := range row.Cells {
			cell := make([]sheetsclient.PublishedTag, 0, len(tags))
			for _, tag := range tags {
				cell = append(cell, sheetsclient.PublishedTag{
					Text:       tag.Text,
					Background: tag.Background,
					Foreground: tag.Foreground,
				})
			}
			published.Cells = append(published.Cells, cell)
		}
		out.Rows = append(out.Rows, published)
	}

	return out
}
