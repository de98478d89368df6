package export

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"geosales/internal/core"
	"geosales/internal/countries"
	applog "geosales/internal/log"
	"geosales/internal/report"
	sheetmem "geosales/internal/sheets/memory"
	"geosales/internal/storage/memory"
)

type failingWriter struct{ calls int32 }

func (f *failingWriter) WriteTable(context.Context, string, [][]any) error {
	atomic.AddInt32(&f.calls, 1)
	return errors.New("quota exceeded")
}

func quietLogger() *applog.Logger {
	return applog.New(applog.Config{Output: io.Discard, Level: slog.LevelError})
}

func newService(t *testing.T) (*report.Service, countries.Directory) {
	t.Helper()
	jan := time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)
	feb := time.Date(2024, 2, 5, 0, 0, 0, 0, time.UTC)
	store := memory.New(
		core.Order{ID: 1, Status: core.StatusCompleted, ShippingCountry: "US", Total: decimal.RequireFromString("100.00"), CreatedAt: jan},
		core.Order{ID: 2, Status: core.StatusProcessing, ShippingCountry: "US", Total: decimal.RequireFromString("50.00"), CreatedAt: feb},
		core.Order{ID: 3, Status: core.StatusCompleted, ShippingCountry: "FR", Total: decimal.RequireFromString("10.03"), CreatedAt: jan},
		core.Order{ID: 4, Status: core.StatusRefunded, ShippingCountry: "FR", Total: decimal.RequireFromString("7.00"), CreatedAt: jan},
	)
	dir := countries.New(map[string]string{"US": "United States (US)", "FR": "France"})
	return report.NewService(store, dir, slog.New(slog.NewTextHandler(io.Discard, nil))), dir
}

func TestExportMainReport(t *testing.T) {
	svc, dir := newService(t)
	sheet := sheetmem.New()
	e := NewExporter(svc, dir, sheet, "Geographical Sales", quietLogger())

	n, err := e.Export(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	rows, ok := sheet.Table("Geographical Sales")
	require.True(t, ok)
	assert.Equal(t, [][]any{
		{"Shipping Country", "Country Name", "Order Count", "Total Revenue"},
		{"FR", "France", int64(1), "10.03"},
		{"US", "United States (US)", int64(2), "150.00"},
	}, rows)
}

func TestExportScopedReport(t *testing.T) {
	svc, dir := newService(t)
	sheet := sheetmem.New()
	e := NewExporter(svc, dir, sheet, "US", quietLogger())

	n, err := e.Export(context.Background(), "US")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	rows, _ := sheet.Table("US")
	require.Len(t, rows, 3)
	assert.Equal(t, []any{"Year", "Month", "Shipping Country", "Country Name", "Order Count", "Total Revenue"}, rows[0])
	assert.Equal(t, []any{2024, 2, "US", "United States (US)", int64(1), "50.00"}, rows[1])
	assert.Equal(t, []any{2024, 1, "US", "United States (US)", int64(1), "100.00"}, rows[2])
}

func TestExportErrors(t *testing.T) {
	svc, dir := newService(t)

	e := NewExporter(svc, dir, sheetmem.New(), "Report", quietLogger())
	_, err := e.Export(context.Background(), "ZZ")
	assert.ErrorIs(t, err, core.ErrInvalidCountry)

	w := &failingWriter{}
	e = NewExporter(svc, dir, w, "Report", quietLogger())
	_, err = e.Export(context.Background(), "")
	assert.ErrorContains(t, err, "quota exceeded")
}

func TestRunExportsUntilCancelled(t *testing.T) {
	svc, dir := newService(t)
	sheet := sheetmem.New()
	e := NewExporter(svc, dir, sheet, "Report", quietLogger())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- e.Run(ctx, 10*time.Millisecond) }()

	require.Eventually(t, func() bool { return sheet.Writes() >= 2 }, time.Second, 5*time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("Run did not stop after cancel")
	}
}

func TestRunKeepsGoingAfterFailures(t *testing.T) {
	svc, dir := newService(t)
	w := &failingWriter{}
	e := NewExporter(svc, dir, w, "Report", quietLogger())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = e.Run(ctx, 5*time.Millisecond) }()

	require.Eventually(t, func() bool { return atomic.LoadInt32(&w.calls) >= 3 }, time.Second, 5*time.Millisecond)
}

func TestRunRejectsBadInterval(t *testing.T) {
	svc, dir := newService(t)
	e := NewExporter(svc, dir, sheetmem.New(), "Report", quietLogger())
	assert.Error(t, e.Run(context.Background(), 0))
}
