// Package sheets defines the outbound port for spreadsheet exports.
package sheets

import "context"

// Ports for outbound adapters.
type (
	// ReportWriter replaces the content of one sheet with rows. The first
	// row is the header.
	ReportWriter interface {
		WriteTable(ctx context.Context, sheet string, rows [][]any) error
	}
)
