package reporting

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/aristath/portfolio-health/internal/modules/review"
)

// FileReporter writes the run's artifacts under the reports directory:
// the Markdown report and a JSON file of sheet rows for the spreadsheet
// collaborator to pick up.
type FileReporter struct {
	dir string
	log zerolog.Logger
}

// NewFileReporter creates a file reporter rooted at dir
func NewFileReporter(dir string, log zerolog.Logger) *FileReporter {
	return &FileReporter{
		dir: dir,
		log: log.With().Str("component", "reporter").Logger(),
	}
}

// Write renders and stores both artifacts for one run
func (r *FileReporter) Write(run review.Run, outcomes []review.TickerOutcome, alerts []review.AlertEvent, recs []review.Recommendation) error {
	if err := os.MkdirAll(r.dir, 0755); err != nil {
		return fmt.Errorf("failed to create reports directory: %w", err)
	}

	reportPath := filepath.Join(r.dir, "portfolio_health_report.md")
	report := RenderMarkdown(run, outcomes, alerts, recs)
	if err := os.WriteFile(reportPath, []byte(report), 0644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	rowsPath := filepath.Join(r.dir, "sheet_rows.json")
	rows, err := json.MarshalIndent(map[string]interface{}{"rows": SheetRows(run, outcomes, recs)}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal sheet rows: %w", err)
	}
	if err := os.WriteFile(rowsPath, rows, 0644); err != nil {
		return fmt.Errorf("failed to write sheet rows: %w", err)
	}

	r.log.Info().
		Str("report", reportPath).
		Str("sheet_rows", rowsPath).
		Msg("Report artifacts written")

	return nil
}
