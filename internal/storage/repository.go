// Package storage persists orders in SQLite or PostgreSQL and runs the
// report aggregations in SQL.
package storage

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"geosales/internal/core"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

type Repository struct {
	db      *sqlx.DB
	dialect Dialect
}

type countryRow struct {
	ShippingCountry string `db:"shipping_country"`
	OrderCount      int64  `db:"order_count"`
	TotalCents      int64  `db:"total_cents"`
}

type monthRow struct {
	Year            int    `db:"order_year"`
	Month           int    `db:"order_month"`
	ShippingCountry string `db:"shipping_country"`
	OrderCount      int64  `db:"order_count"`
	TotalCents      int64  `db:"total_cents"`
}

// NewSQLiteRepository opens (creating if needed) the database file at dbPath
// and migrates it.
func NewSQLiteRepository(dbPath string) (*Repository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}
	return open(DialectSQLite, dbPath)
}

// NewPostgresRepository connects to dsn and migrates the schema.
func NewPostgresRepository(dsn string) (*Repository, error) {
	return open(DialectPostgres, dsn)
}

func open(dialect Dialect, dsn string) (*Repository, error) {
	db, err := sqlx.Open(string(dialect), dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", dialect, err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dialect, dsn); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return NewRepository(db, dialect), nil
}

// NewRepository wraps an open connection. The schema must already exist.
func NewRepository(db *sqlx.DB, dialect Dialect) *Repository {
	return &Repository{db: db, dialect: dialect}
}

func (r *Repository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

func (r *Repository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// reportableArgs returns the status filter arguments shared by both summaries.
func reportableArgs() []any {
	args := make([]any, 0, len(core.ReportableStatuses))
	for _, s := range core.ReportableStatuses {
		args = append(args, string(s))
	}
	return args
}

func statusPlaceholders() string {
	return strings.TrimSuffix(strings.Repeat("?, ", len(core.ReportableStatuses)), ", ")
}

func (r *Repository) countrySummaryQuery() string {
	return r.dialect.rebind(fmt.Sprintf(`SELECT shipping_country,
       COUNT(id) AS order_count,
       CAST(SUM(total_cents) AS BIGINT) AS total_cents
FROM orders
WHERE status IN (%s)
GROUP BY shipping_country
ORDER BY shipping_country ASC`, statusPlaceholders()))
}

func (r *Repository) monthlySummaryQuery() string {
	return r.dialect.rebind(fmt.Sprintf(`SELECT %[1]s AS order_year,
       %[2]s AS order_month,
       shipping_country,
       COUNT(id) AS order_count,
       CAST(SUM(total_cents) AS BIGINT) AS total_cents
FROM orders
WHERE status IN (%[3]s) AND shipping_country = ?
GROUP BY %[1]s, %[2]s, shipping_country
ORDER BY order_year DESC, order_month DESC`, r.dialect.yearExpr(), r.dialect.monthExpr(), statusPlaceholders()))
}

// CountrySummary implements report.Aggregator.
func (r *Repository) CountrySummary(ctx context.Context) ([]core.CountryAggregateRow, error) {
	var rows []countryRow
	if err := r.db.SelectContext(ctx, &rows, r.countrySummaryQuery(), reportableArgs()...); err != nil {
		return nil, fmt.Errorf("select country summary: %w", err)
	}

	out := make([]core.CountryAggregateRow, 0, len(rows))
	for _, row := range rows {
		out = append(out, core.CountryAggregateRow{
			ShippingCountry: row.ShippingCountry,
			OrderCount:      row.OrderCount,
			TotalRevenue:    core.FromCents(row.TotalCents),
		})
	}
	return out, nil
}

// MonthlySummary implements report.Aggregator.
func (r *Repository) MonthlySummary(ctx context.Context, country string) ([]core.MonthlyAggregateRow, error) {
	args := append(reportableArgs(), country)

	var rows []monthRow
	if err := r.db.SelectContext(ctx, &rows, r.monthlySummaryQuery(), args...); err != nil {
		return nil, fmt.Errorf("select monthly summary for %s: %w", country, err)
	}

	out := make([]core.MonthlyAggregateRow, 0, len(rows))
	for _, row := range rows {
		out = append(out, core.MonthlyAggregateRow{
			Year:            row.Year,
			Month:           row.Month,
			ShippingCountry: row.ShippingCountry,
			OrderCount:      row.OrderCount,
			TotalRevenue:    core.FromCents(row.TotalCents),
		})
	}
	return out, nil
}

// UpsertOrder inserts o or replaces the stored order with the same ID.
func (r *Repository) UpsertOrder(ctx context.Context, o core.Order) error {
	if err := o.Validate(); err != nil {
		return fmt.Errorf("invalid order %d: %w", o.ID, err)
	}

	query := r.dialect.rebind(fmt.Sprintf(`INSERT INTO orders (id, status, shipping_country, total_cents, created_at)
VALUES (?, ?, ?, ?, ?)
ON CONFLICT (id) DO UPDATE SET
    status = excluded.status,
    shipping_country = excluded.shipping_country,
    total_cents = excluded.total_cents,
    created_at = excluded.created_at,
    updated_at = %s`, r.dialect.nowExpr()))

	_, err := r.db.ExecContext(ctx, query,
		o.ID,
		string(o.Status),
		o.ShippingCountry,
		core.ToCents(o.Total),
		r.dialect.timeArg(o.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("upsert order %d: %w", o.ID, err)
	}

	slog.DebugContext(ctx, "Order upserted",
		"id", o.ID,
		"status", o.Status,
		"country", o.ShippingCountry,
		"total_cents", core.ToCents(o.Total))
	return nil
}
