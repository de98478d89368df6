// Command geosales-report prints the geographical sales report to stdout
// and optionally pushes it to the configured spreadsheet.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"geosales/internal/cli"
	"geosales/internal/core"
	"geosales/internal/render"
	"geosales/internal/report"
)

// Exit codes
const (
	exitOK             = 0
	exitFailure        = 1
	exitInvalidCountry = 2
)

func main() {
	country := flag.String("country", "", "scope the report to one shipping country code")
	exportSheet := flag.Bool("export", false, "also write the report to Google Sheets")
	timeout := flag.Duration("timeout", 30*time.Second, "overall timeout")
	flag.Parse()

	cli.LoadEnvFile()
	logger := cli.SetupLogger(os.Getenv("LOG_LEVEL"))
	cfg := cli.LoadAndValidateConfig(logger)

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	be := cli.InitBackend(ctx, logger, cfg)
	defer be.Close()

	rep, err := cli.NewReporting(cfg, be.Backend, logger)
	if err != nil {
		logger.Error("Failed to initialize reporting", "error", err)
		os.Exit(exitFailure)
	}

	var export func(context.Context, string) error
	if *exportSheet {
		exporter, err := cli.NewExporter(ctx, cfg, rep, logger)
		if err != nil {
			logger.Error("Failed to initialize Google Sheets export", "error", err)
			os.Exit(exitFailure)
		}
		if exporter == nil {
			logger.Error("Export requested but GOOGLE_SPREADSHEET_ID is not set")
			os.Exit(exitFailure)
		}
		export = func(ctx context.Context, country string) error {
			_, err := exporter.Export(ctx, country)
			return err
		}
	}

	code := run(ctx, os.Stdout, os.Stderr, rep.Service, rep.Renderer, *country, export)
	if code != exitOK {
		_ = be.Close()
		os.Exit(code)
	}
}

// run prints the report for country and, when export is set, writes it out.
func run(ctx context.Context, stdout, stderr io.Writer, reports *report.Service, renderer *render.Renderer,
	country string, export func(context.Context, string) error) int {
	rep, err := reports.Select(ctx, country)
	if err != nil {
		if errors.Is(err, core.ErrInvalidCountry) {
			fmt.Fprintln(stderr, "Invalid country specified")
			return exitInvalidCountry
		}
		fmt.Fprintln(stderr, "geosales-report:", err)
		return exitFailure
	}

	if err := printReport(stdout, renderer, rep); err != nil {
		fmt.Fprintln(stderr, "geosales-report:", err)
		return exitFailure
	}

	if export != nil {
		if err := export(ctx, country); err != nil {
			fmt.Fprintln(stderr, "geosales-report: export:", err)
			return exitFailure
		}
		fmt.Fprintf(stderr, "exported %d rows\n", rep.Len())
	}
	return exitOK
}

// printReport writes the report as aligned columns, or a notice when empty.
func printReport(w io.Writer, renderer *render.Renderer, rep core.Report) error {
	if rep.Scoped() {
		fmt.Fprintf(w, "Sales for %s\n\n", renderer.CountryName(rep.Country))
	}

	table := renderer.Table(rep, nil)
	if table.Empty() {
		_, err := fmt.Fprintln(w, "No results found.")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(table.Headers, "\t"))
	for _, row := range table.Rows {
		cells := make([]string, len(row))
		for i, c := range row {
			cells[i] = c.Text
		}
		fmt.Fprintln(tw, strings.Join(cells, "\t"))
	}
	return tw.Flush()
}
