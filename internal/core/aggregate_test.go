package core

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func order(id int64, status OrderStatus, country, total string, created time.Time) Order {
	return Order{
		ID:              id,
		Status:          status,
		ShippingCountry: country,
		Total:           decimal.RequireFromString(total),
		CreatedAt:       created,
	}
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 12, 0, 0, 0, time.UTC)
}

func TestAggregateByCountry(t *testing.T) {
	orders := []Order{
		order(1, StatusCompleted, "US", "10.00", day(2024, 1, 1)),
		order(2, StatusProcessing, "US", "0.01", day(2024, 1, 2)),
		order(3, StatusCompleted, "US", "0.02", day(2024, 2, 3)),
		order(4, StatusCompleted, "DE", "5.50", day(2024, 3, 1)),
		order(5, StatusRefunded, "DE", "99.99", day(2024, 3, 1)),
		order(6, StatusPending, "FR", "42.00", day(2024, 3, 1)),
	}

	rows := AggregateByCountry(orders)
	require.Len(t, rows, 2)

	assert.Equal(t, "DE", rows[0].ShippingCountry)
	assert.Equal(t, int64(1), rows[0].OrderCount)
	assert.Equal(t, "5.50", rows[0].TotalRevenue.StringFixed(2))

	assert.Equal(t, "US", rows[1].ShippingCountry)
	assert.Equal(t, int64(3), rows[1].OrderCount)
	assert.True(t, rows[1].TotalRevenue.Equal(decimal.RequireFromString("10.03")), "got %s", rows[1].TotalRevenue)
}

func TestAggregateByCountryEmpty(t *testing.T) {
	rows := AggregateByCountry([]Order{
		order(1, StatusCancelled, "US", "10.00", day(2024, 1, 1)),
	})
	assert.Empty(t, rows)
	assert.NotNil(t, rows)
}

func TestAggregateByMonth(t *testing.T) {
	orders := []Order{
		order(1, StatusCompleted, "US", "100.00", day(2024, 1, 10)),
		order(2, StatusCompleted, "US", "50.00", day(2024, 2, 5)),
		order(3, StatusCompleted, "DE", "70.00", day(2024, 3, 5)),
		order(4, StatusFailed, "US", "70.00", day(2024, 3, 5)),
	}

	rows := AggregateByMonth(orders, "US")
	require.Len(t, rows, 2)

	assert.Equal(t, MonthlyAggregateRow{Year: 2024, Month: 2, ShippingCountry: "US", OrderCount: 1, TotalRevenue: rows[0].TotalRevenue}, rows[0])
	assert.Equal(t, "50.00", rows[0].TotalRevenue.StringFixed(2))
	assert.Equal(t, 1, rows[1].Month)
	assert.Equal(t, "100.00", rows[1].TotalRevenue.StringFixed(2))
}

func TestAggregateByMonthOrdersAcrossYears(t *testing.T) {
	orders := []Order{
		order(1, StatusCompleted, "GB", "1.00", day(2023, 12, 31)),
		order(2, StatusCompleted, "GB", "1.00", day(2024, 1, 1)),
		order(3, StatusProcessing, "GB", "1.00", day(2023, 11, 30)),
		order(4, StatusCompleted, "GB", "1.00", day(2024, 1, 20)),
	}

	rows := AggregateByMonth(orders, "GB")
	require.Len(t, rows, 3)
	assert.Equal(t, [2]int{2024, 1}, [2]int{rows[0].Year, rows[0].Month})
	assert.Equal(t, int64(2), rows[0].OrderCount)
	assert.Equal(t, [2]int{2023, 12}, [2]int{rows[1].Year, rows[1].Month})
	assert.Equal(t, [2]int{2023, 11}, [2]int{rows[2].Year, rows[2].Month})
}

func TestAggregateByMonthUsesUTC(t *testing.T) {
	// 2024-02-01 00:30 in UTC+2 is still January in UTC.
	loc := time.FixedZone("EET", 2*60*60)
	orders := []Order{
		order(1, StatusCompleted, "FI", "3.00", time.Date(2024, 2, 1, 0, 30, 0, 0, loc)),
	}

	rows := AggregateByMonth(orders, "FI")
	require.Len(t, rows, 1)
	assert.Equal(t, 1, rows[0].Month)
}
