// Package memory keeps orders in process memory. It backs local development
// and tests, aggregating with the same rules as the SQL backends.
package memory

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"geosales/internal/core"
)

// Seed file columns, in order.
var seedHeader = []string{"id", "status", "shipping_country", "total", "created_at"}

var dateLayouts = []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"}

type Store struct {
	mu     sync.RWMutex
	orders map[int64]core.Order
}

func New(orders ...core.Order) *Store {
	s := &Store{orders: make(map[int64]core.Order, len(orders))}
	for _, o := range orders {
		s.orders[o.ID] = o
	}
	return s
}

// NewFromFile seeds the store from a CSV file. A missing file yields an
// empty store.
func NewFromFile(path string) (*Store, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return New(), nil
		}
		return nil, fmt.Errorf("open seed file: %w", err)
	}
	defer f.Close()

	orders, err := ReadOrders(f)
	if err != nil {
		return nil, fmt.Errorf("read seed file %s: %w", path, err)
	}
	return New(orders...), nil
}

// ReadOrders parses orders from CSV with a header row. Timestamps without a
// zone are read as UTC.
func ReadOrders(r io.Reader) ([]core.Order, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(seedHeader)
	cr.TrimLeadingSpace = true
	cr.Comment = '#'

	header, err := cr.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	for i, h := range header {
		if strings.TrimSpace(strings.ToLower(h)) != seedHeader[i] {
			return nil, fmt.Errorf("unexpected column %q at position %d, want %q", h, i+1, seedHeader[i])
		}
	}

	var out []core.Order
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		line, _ := cr.FieldPos(0)
		o, err := parseRecord(rec)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		out = append(out, o)
	}
	return out, nil
}

func parseRecord(rec []string) (core.Order, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(rec[0]), 10, 64)
	if err != nil {
		return core.Order{}, fmt.Errorf("%w: %q", core.ErrInvalidOrderID, rec[0])
	}
	status, err := core.ParseOrderStatus(rec[1])
	if err != nil {
		return core.Order{}, err
	}
	total, err := core.ParseMoney(rec[3])
	if err != nil {
		return core.Order{}, fmt.Errorf("total %q: %w", rec[3], err)
	}
	created, err := parseTime(rec[4])
	if err != nil {
		return core.Order{}, err
	}
	o := core.Order{
		ID:              id,
		Status:          status,
		ShippingCountry: strings.TrimSpace(rec[2]),
		Total:           total,
		CreatedAt:       created,
	}
	return o, o.Validate()
}

func parseTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: unparseable date %q", core.ErrMissingDate, s)
}

// UpsertOrder stores o, replacing any order with the same ID.
func (s *Store) UpsertOrder(_ context.Context, o core.Order) error {
	if err := o.Validate(); err != nil {
		return err
	}
	o.Total = core.RoundMoney(o.Total)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.orders[o.ID] = o
	return nil
}

// Orders returns a snapshot of all stored orders ordered by ID.
func (s *Store) Orders() []core.Order {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]core.Order, 0, len(s.orders))
	for _, o := range s.orders {
		out = append(out, o)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *Store) CountrySummary(_ context.Context) ([]core.CountryAggregateRow, error) {
	return core.AggregateByCountry(s.Orders()), nil
}

func (s *Store) MonthlySummary(_ context.Context, country string) ([]core.MonthlyAggregateRow, error) {
	return core.AggregateByMonth(s.Orders(), country), nil
}

func (s *Store) Ping(context.Context) error { return nil }

func (s *Store) Close() error { return nil }
