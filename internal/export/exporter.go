// Package export copies sales reports into a spreadsheet.
package export

import (
	"context"
	"errors"
	"fmt"
	"time"

	"geosales/internal/core"
	"geosales/internal/countries"
	applog "geosales/internal/log"
	"geosales/internal/render"
	"geosales/internal/sheets"
)

// Selector picks and runs a report for an optional country filter.
type Selector interface {
	Select(ctx context.Context, countryFilter string) (core.Report, error)
}

// Exporter writes reports to one sheet of a ReportWriter
type Exporter struct {
	reports Selector
	dir     countries.Directory
	writer  sheets.ReportWriter
	sheet   string
	logger  *applog.Logger
}

func NewExporter(reports Selector, dir countries.Directory, writer sheets.ReportWriter, sheet string, logger *applog.Logger) *Exporter {
	if logger == nil {
		logger = applog.FromContext(context.Background())
	}
	return &Exporter{
		reports: reports,
		dir:     dir,
		writer:  writer,
		sheet:   sheet,
		logger:  logger.WithComponent(applog.ComponentExport),
	}
}

// Export runs the report for country ("" for the main report) and replaces
// the sheet with its header and rows. It returns the number of data rows.
func (e *Exporter) Export(ctx context.Context, country string) (int, error) {
	start := time.Now()

	rep, err := e.reports.Select(ctx, country)
	if err != nil {
		return 0, fmt.Errorf("select report: %w", err)
	}

	values := render.Values(rep, e.dir)
	if err := e.writer.WriteTable(ctx, e.sheet, values); err != nil {
		return 0, fmt.Errorf("write sheet %q: %w", e.sheet, err)
	}

	e.logger.InfoContext(ctx, "Report exported",
		applog.FieldSheet, e.sheet,
		applog.FieldCountry, country,
		applog.FieldRows, rep.Len(),
		applog.FieldDuration, time.Since(start).Milliseconds())
	return rep.Len(), nil
}

// Run exports the main report right away and then every interval until ctx
// is done. Failed exports are logged and retried on the next tick.
func (e *Exporter) Run(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		return errors.New("export interval must be positive")
	}

	e.exportLogged(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			e.logger.InfoContext(ctx, "Stopping periodic export", "reason", ctx.Err())
			return ctx.Err()
		case <-ticker.C:
			e.exportLogged(ctx)
		}
	}
}

func (e *Exporter) exportLogged(ctx context.Context) {
	if _, err := e.Export(ctx, ""); err != nil && ctx.Err() == nil {
		applog.NewStructuredLogger(e.logger).LogError(ctx, "Periodic export failed", err, applog.OpExport,
			applog.NewFields().WithReport("", 0))
	}
}
