package core

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestParseOrderStatus(t *testing.T) {
	cases := []struct {
		in   string
		want OrderStatus
		ok   bool
	}{
		{"processing", StatusProcessing, true},
		{"wc-completed", StatusCompleted, true},
		{" Completed ", StatusCompleted, true},
		{"wc-on-hold", StatusOnHold, true},
		{"refunded", StatusRefunded, true},
		{"shipped", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		got, err := ParseOrderStatus(tc.in)
		if tc.ok {
			if err != nil || got != tc.want {
				t.Fatalf("%q expected %q, got %q (err=%v)", tc.in, tc.want, got, err)
			}
		} else if !errors.Is(err, ErrInvalidStatus) {
			t.Fatalf("%q expected ErrInvalidStatus, got %v", tc.in, err)
		}
	}
}

func TestReportableStatuses(t *testing.T) {
	for _, s := range []OrderStatus{StatusPending, StatusOnHold, StatusCancelled, StatusRefunded, StatusFailed, StatusTrash} {
		if s.Reportable() {
			t.Fatalf("%s must not be reportable", s)
		}
	}
	for _, s := range ReportableStatuses {
		if !s.Reportable() {
			t.Fatalf("%s must be reportable", s)
		}
	}
}

func TestOrderValidate(t *testing.T) {
	good := Order{
		ID:              1,
		Status:          StatusCompleted,
		ShippingCountry: "US",
		Total:           decimal.RequireFromString("10.00"),
		CreatedAt:       time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC),
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	bads := []Order{
		{ID: 0, Status: StatusCompleted, ShippingCountry: "US", Total: decimal.Zero, CreatedAt: good.CreatedAt},
		{ID: 1, Status: "shipped", ShippingCountry: "US", Total: decimal.Zero, CreatedAt: good.CreatedAt},
		{ID: 1, Status: StatusCompleted, ShippingCountry: " ", Total: decimal.Zero, CreatedAt: good.CreatedAt},
		{ID: 1, Status: StatusCompleted, ShippingCountry: "US", Total: decimal.NewFromInt(-1), CreatedAt: good.CreatedAt},
		{ID: 1, Status: StatusCompleted, ShippingCountry: "US", Total: decimal.Zero},
	}
	for i, o := range bads {
		if err := o.Validate(); err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}

func TestReportErrorsMatchSentinels(t *testing.T) {
	var err error = &InvalidCountryError{Code: "ZZ"}
	if !errors.Is(err, ErrInvalidCountry) {
		t.Fatalf("InvalidCountryError should match ErrInvalidCountry")
	}

	cause := errors.New("connection refused")
	err = &DataSourceError{Op: "country summary", Err: cause}
	if !errors.Is(err, ErrDataSource) || !errors.Is(err, cause) {
		t.Fatalf("DataSourceError should match ErrDataSource and its cause")
	}
	if errors.Is(err, ErrInvalidCountry) {
		t.Fatalf("DataSourceError must not match ErrInvalidCountry")
	}
}

func TestReportRecords(t *testing.T) {
	main := Report{Countries: []CountryAggregateRow{
		{ShippingCountry: "DE", OrderCount: 2, TotalRevenue: decimal.RequireFromString("20.00")},
	}}
	if main.Scoped() || main.Len() != 1 || main.Empty() {
		t.Fatalf("unexpected main report shape: %+v", main)
	}
	recs := main.Records()
	if len(recs) != 1 || len(recs[0]) != 3 || recs[0][0].Column != ColumnShippingCountry {
		t.Fatalf("unexpected main records: %+v", recs)
	}

	scoped := Report{Country: "US"}
	if !scoped.Scoped() || !scoped.Empty() {
		t.Fatalf("expected empty scoped report")
	}
	if cols := scoped.Columns(); len(cols) != 5 || cols[0] != ColumnYear || cols[1] != ColumnMonth {
		t.Fatalf("unexpected scoped columns: %v", cols)
	}
}
