package http

import (
	"net/http"
	"net/url"
	"strings"
)

const (
	reportPath    = "/reports/geo"
	apiReportPath = "/api/reports/geo"
	countryParam  = "country"
	readMethods   = "GET, HEAD"
)

// countryFilter reads the country query parameter.
func countryFilter(r *http.Request) string {
	return sanitizeInput(r.URL.Query().Get(countryParam))
}

// withCountry returns path with the query of r, the country parameter set to
// code and every other parameter preserved.
func withCountry(r *http.Request, path, code string) string {
	q := cloneQuery(r.URL.Query())
	q.Set(countryParam, code)
	return path + "?" + q.Encode()
}

// withoutCountry returns path with the query of r minus the country parameter.
func withoutCountry(r *http.Request, path string) string {
	q := cloneQuery(r.URL.Query())
	q.Del(countryParam)
	if len(q) == 0 {
		return path
	}
	return path + "?" + q.Encode()
}

func cloneQuery(q url.Values) url.Values {
	out := make(url.Values, len(q))
	for k, v := range q {
		out[k] = append([]string(nil), v...)
	}
	return out
}

// sanitizeInput removes control characters and trims whitespace.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	result := strings.Map(func(r rune) rune {
		if r < 32 || r == 127 {
			return -1
		}
		return r
	}, s)
	return result
}

func isReadMethod(method string) bool {
	return method == http.MethodGet || method == http.MethodHead
}
