// Package report selects and runs the geographical sales reports.
package report

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"geosales/internal/core"
	"geosales/internal/countries"
)

// Aggregator runs the two fixed aggregations over the order store.
type Aggregator interface {
	// CountrySummary totals reportable orders per shipping country, ascending by code.
	CountrySummary(ctx context.Context) ([]core.CountryAggregateRow, error)
	// MonthlySummary totals reportable orders of one country per month, most recent first.
	MonthlySummary(ctx context.Context, country string) ([]core.MonthlyAggregateRow, error)
}

// Service validates the country filter and dispatches to the matching aggregation.
type Service struct {
	agg    Aggregator
	dir    countries.Directory
	logger *slog.Logger
}

func NewService(agg Aggregator, dir countries.Directory, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{agg: agg, dir: dir, logger: logger}
}

// Select returns the main report when countryFilter is empty and the
// monthly report of that country otherwise. An unknown country yields an
// *core.InvalidCountryError and no query is run; store failures are returned
// as *core.DataSourceError.
func (s *Service) Select(ctx context.Context, countryFilter string) (core.Report, error) {
	country := strings.TrimSpace(countryFilter)
	start := time.Now()

	if country == "" {
		rows, err := s.agg.CountrySummary(ctx)
		if err != nil {
			return core.Report{}, s.dataSourceError(ctx, "country summary", err)
		}
		s.logger.DebugContext(ctx, "Main report generated",
			"rows", len(rows),
			"duration_ms", time.Since(start).Milliseconds())
		return core.Report{Countries: rows}, nil
	}

	if !s.dir.Exists(country) {
		s.logger.WarnContext(ctx, "Rejected report for unknown country", "country", country)
		return core.Report{}, &core.InvalidCountryError{Code: country}
	}

	rows, err := s.agg.MonthlySummary(ctx, country)
	if err != nil {
		return core.Report{}, s.dataSourceError(ctx, "monthly summary", err)
	}
	s.logger.DebugContext(ctx, "Scoped report generated",
		"country", country,
		"rows", len(rows),
		"duration_ms", time.Since(start).Milliseconds())
	return core.Report{Country: country, Months: rows}, nil
}

func (s *Service) dataSourceError(ctx context.Context, op string, err error) error {
	var dsErr *core.DataSourceError
	if errors.As(err, &dsErr) {
		return err
	}
	s.logger.ErrorContext(ctx, "Report query failed", "operation", op, "error", err)
	return &core.DataSourceError{Op: op, Err: err}
}
