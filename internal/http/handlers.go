package http

import (
	"bytes"
	"errors"
	"net/http"

	"geosales/internal/core"
	applog "geosales/internal/log"
	"geosales/internal/render"
)

const (
	msgInvalidCountry = "Invalid country specified"
	msgReportFailed   = "The report could not be generated. Please try again later."
	msgNoResults      = "No results found."
	msgBackToMain     = "Back to main report"
)

// reportPage is the data behind report.html.
type reportPage struct {
	Title       string
	Country     string
	CountryName string
	Scoped      bool
	Error       string
	NoResults   string
	BackLabel   string
	BackHref    string
	Currency    string
	Table       render.Table
}

// handleReport renders the main or the per-country report as HTML.
func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	filter := countryFilter(r)

	page := reportPage{
		Title:     "Geographical Sales Report",
		Country:   filter,
		Scoped:    filter != "",
		NoResults: msgNoResults,
		BackLabel: msgBackToMain,
		BackHref:  withoutCountry(r, reportPath),
		Currency:  s.renderer.Formatter().Currency(),
	}
	if page.Scoped {
		page.CountryName = s.renderer.CountryName(filter)
	}

	status := http.StatusOK
	rep, err := s.reports.Select(ctx, filter)
	switch {
	case errors.Is(err, core.ErrInvalidCountry):
		status = http.StatusBadRequest
		page.Error = msgInvalidCountry
		page.CountryName = ""
	case err != nil:
		status = http.StatusInternalServerError
		page.Error = msgReportFailed
		applog.NewStructuredLogger(applog.FromContext(ctx)).LogError(ctx, "Report failed", err, applog.OpRead,
			applog.NewFields().WithReport(filter, 0))
	default:
		var link render.LinkFunc
		if !rep.Scoped() {
			link = func(code string) string { return withCountry(r, reportPath, code) }
		}
		page.Table = s.renderer.Table(rep, link)
	}

	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, "report.html", page); err != nil {
		applog.FromContext(ctx).WithComponent(applog.ComponentTemplate).ErrorContext(ctx,
			"Report template execution failed", applog.FieldError, err.Error())
		InternalServerError(msgReportFailed).Write(w)
		return
	}

	if status == http.StatusOK {
		applog.NewStructuredLogger(applog.FromContext(ctx)).LogReportServed(ctx, filter, rep.Len(), "html")
	}
	NewResponse().Status(status).BodyHTML(buf.Bytes()).Write(w)
}

// apiReport is the JSON shape of a report.
type apiReport struct {
	Country string   `json:"country"`
	Scoped  bool     `json:"scoped"`
	Rows    []apiRow `json:"rows"`
}

type apiRow struct {
	Year            int    `json:"year,omitempty"`
	Month           int    `json:"month,omitempty"`
	ShippingCountry string `json:"shipping_country"`
	CountryName     string `json:"country_name"`
	OrderCount      int64  `json:"order_count"`
	TotalRevenue    string `json:"total_revenue"`
}

// handleAPIReport serves the same reports as JSON.
func (s *Server) handleAPIReport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	filter := countryFilter(r)

	rep, err := s.reports.Select(ctx, filter)
	if errors.Is(err, core.ErrInvalidCountry) {
		JSONError(http.StatusBadRequest, msgInvalidCountry).Write(w)
		return
	}
	if err != nil {
		applog.NewStructuredLogger(applog.FromContext(ctx)).LogError(ctx, "Report failed", err, applog.OpRead,
			applog.NewFields().WithReport(filter, 0))
		JSONError(http.StatusInternalServerError, msgReportFailed).Write(w)
		return
	}

	body := apiReport{Country: rep.Country, Scoped: rep.Scoped(), Rows: make([]apiRow, 0, rep.Len())}
	for _, row := range rep.Countries {
		body.Rows = append(body.Rows, apiRow{
			ShippingCountry: row.ShippingCountry,
			CountryName:     s.renderer.CountryName(row.ShippingCountry),
			OrderCount:      row.OrderCount,
			TotalRevenue:    row.TotalRevenue.StringFixed(2),
		})
	}
	for _, row := range rep.Months {
		body.Rows = append(body.Rows, apiRow{
			Year:            row.Year,
			Month:           row.Month,
			ShippingCountry: row.ShippingCountry,
			CountryName:     s.renderer.CountryName(row.ShippingCountry),
			OrderCount:      row.OrderCount,
			TotalRevenue:    row.TotalRevenue.StringFixed(2),
		})
	}

	applog.NewStructuredLogger(applog.FromContext(ctx)).LogReportServed(ctx, filter, rep.Len(), "json")
	NewResponse().JSON(body).Write(w)
}
