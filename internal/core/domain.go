package core

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	StatusPending    OrderStatus = "pending"
	StatusProcessing OrderStatus = "processing"
	StatusOnHold     OrderStatus = "on-hold"
	StatusCompleted  OrderStatus = "completed"
	StatusCancelled  OrderStatus = "cancelled"
	StatusRefunded   OrderStatus = "refunded"
	StatusFailed     OrderStatus = "failed"
	StatusTrash      OrderStatus = "trash"
)

type (
	OrderStatus string

	// Order is a read-only view of an order owned by the external order system.
	Order struct {
		ID              int64
		Status          OrderStatus
		ShippingCountry string
		Total           decimal.Decimal
		CreatedAt       time.Time
	}
)

var (
	ErrInvalidAmount  = errors.New("invalid amount")
	ErrInvalidStatus  = errors.New("invalid order status")
	ErrInvalidOrderID = errors.New("invalid order id")
	ErrEmptyCountry   = errors.New("empty shipping country")
	ErrMissingDate    = errors.New("missing order date")
	ErrInvalidCountry = errors.New("invalid country")
	ErrDataSource     = errors.New("data source error")
)

// ReportableStatuses are the only statuses counted by the sales reports.
var ReportableStatuses = []OrderStatus{StatusProcessing, StatusCompleted}

// ParseOrderStatus accepts both bare statuses and the "wc-" prefixed form.
func ParseOrderStatus(s string) (OrderStatus, error) {
	s = strings.TrimPrefix(strings.ToLower(strings.TrimSpace(s)), "wc-")
	st := OrderStatus(s)
	if !st.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, s)
	}
	return st, nil
}

func (s OrderStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusProcessing, StatusOnHold, StatusCompleted,
		StatusCancelled, StatusRefunded, StatusFailed, StatusTrash:
		return true
	default:
		return false
	}
}

// Reportable reports whether orders in this status contribute to aggregates.
func (s OrderStatus) Reportable() bool {
	return s == StatusProcessing || s == StatusCompleted
}

func (s OrderStatus) String() string {
	return string(s)
}

func (o Order) Validate() error {
	if o.ID <= 0 {
		return ErrInvalidOrderID
	}
	if !o.Status.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, o.Status)
	}
	if strings.TrimSpace(o.ShippingCountry) == "" {
		return ErrEmptyCountry
	}
	if o.Total.IsNegative() {
		return ErrInvalidAmount
	}
	if o.CreatedAt.IsZero() {
		return ErrMissingDate
	}
	return nil
}

// InvalidCountryError is returned when a report is requested for a country
// code that is not in the country directory.
type InvalidCountryError struct {
	Code string
}

func (e *InvalidCountryError) Error() string {
	return fmt.Sprintf("invalid country specified: %q", e.Code)
}

func (e *InvalidCountryError) Is(target error) bool {
	return target == ErrInvalidCountry
}

// DataSourceError wraps a failure of the order store while running a report.
type DataSourceError struct {
	Op  string
	Err error
}

func (e *DataSourceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *DataSourceError) Unwrap() error {
	return e.Err
}

func (e *DataSourceError) Is(target error) bool {
	return target == ErrDataSource
}
