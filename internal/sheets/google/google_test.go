package google

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	goption "google.golang.org/api/option"

	applog "geosales/internal/log"
)

// fakeSheetsAPI records the calls a Client makes against the Sheets REST API.
type fakeSheetsAPI struct {
	mu      sync.Mutex
	titles  []string
	calls   []string
	updated [][]any
}

func (f *fakeSheetsAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	path := r.URL.EscapedPath()
	w.Header().Set("Content-Type", "application/json")
	switch {
	case r.Method == http.MethodGet && strings.HasSuffix(path, "/v4/spreadsheets/sheet-id"):
		f.calls = append(f.calls, "get")
		sheets := make([]map[string]any, 0, len(f.titles))
		for _, t := range f.titles {
			sheets = append(sheets, map[string]any{"properties": map[string]any{"title": t}})
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"sheets": sheets})
	case r.Method == http.MethodPost && strings.HasSuffix(path, ":batchUpdate"):
		f.calls = append(f.calls, "addSheet")
		_, _ = w.Write([]byte(`{}`))
	case r.Method == http.MethodPost && strings.HasSuffix(path, ":clear"):
		f.calls = append(f.calls, "clear")
		_, _ = w.Write([]byte(`{}`))
	case r.Method == http.MethodPut && strings.Contains(path, "/values/"):
		f.calls = append(f.calls, "update:"+r.URL.Query().Get("valueInputOption"))
		var body struct {
			Values [][]any `json:"values"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		f.updated = body.Values
		_, _ = w.Write([]byte(`{"updatedCells": 6}`))
	default:
		http.Error(w, `{"error":{"code":404,"message":"not found"}}`, http.StatusNotFound)
	}
}

func newTestClient(t *testing.T, api *fakeSheetsAPI) *Client {
	t.Helper()
	srv := httptest.NewServer(api)
	t.Cleanup(srv.Close)

	logger := applog.New(applog.Config{Output: io.Discard, Level: slog.LevelError})
	c, err := NewWithOptions(context.Background(), "sheet-id", logger,
		goption.WithEndpoint(srv.URL+"/"),
		goption.WithHTTPClient(srv.Client()))
	require.NoError(t, err)
	return c
}

func TestWriteTableExistingSheet(t *testing.T) {
	api := &fakeSheetsAPI{titles: []string{"Geographical Sales"}}
	c := newTestClient(t, api)

	rows := [][]any{
		{"Shipping Country", "Country Name", "Order Count", "Total Revenue"},
		{"US", "United States (US)", 2, "150.00"},
	}
	require.NoError(t, c.WriteTable(context.Background(), "Geographical Sales", rows))

	assert.Equal(t, []string{"get", "clear", "update:RAW"}, api.calls)
	require.Len(t, api.updated, 2)
	assert.Equal(t, "Shipping Country", api.updated[0][0])
	assert.Equal(t, "150.00", api.updated[1][3])
}

func TestWriteTableCreatesMissingSheet(t *testing.T) {
	api := &fakeSheetsAPI{titles: []string{"Sheet1"}}
	c := newTestClient(t, api)

	require.NoError(t, c.WriteTable(context.Background(), "Report", [][]any{{"Shipping Country"}}))
	assert.Equal(t, []string{"get", "addSheet", "clear", "update:RAW"}, api.calls)
}

func TestWriteTableEmptyOnlyClears(t *testing.T) {
	api := &fakeSheetsAPI{titles: []string{"Report"}}
	c := newTestClient(t, api)

	require.NoError(t, c.WriteTable(context.Background(), "Report", nil))
	assert.Equal(t, []string{"get", "clear"}, api.calls)
}

func TestWriteTableErrors(t *testing.T) {
	c := &Client{}
	assert.Error(t, c.WriteTable(context.Background(), "Report", nil))

	api := &fakeSheetsAPI{}
	c = newTestClient(t, api)
	assert.Error(t, c.WriteTable(context.Background(), "  ", nil))

	c.spreadsheetID = "missing"
	err := c.WriteTable(context.Background(), "Report", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "get spreadsheet")
}

func TestNewRequiresSpreadsheetAndCredentials(t *testing.T) {
	_, err := New(context.Background(), Config{}, nil)
	assert.ErrorContains(t, err, "missing spreadsheet ID")

	_, err = New(context.Background(), Config{SpreadsheetID: "id"}, nil)
	assert.ErrorContains(t, err, "missing service account credentials")

	_, err = New(context.Background(), Config{SpreadsheetID: "id", CredentialsFile: filepath.Join(t.TempDir(), "nope.json")}, nil)
	assert.ErrorContains(t, err, "read service account file")
}

func TestLoadCredentials(t *testing.T) {
	data, err := loadCredentials(Config{CredentialsJSON: `{"type":"service_account"}`})
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"service_account"}`, string(data))

	path := filepath.Join(t.TempDir(), "sa.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"type":"service_account"}`), 0o600))
	data, err = loadCredentials(Config{CredentialsFile: path})
	require.NoError(t, err)
	assert.Contains(t, string(data), "service_account")
}

func TestQuoteSheet(t *testing.T) {
	assert.Equal(t, "'Geographical Sales'", quoteSheet("Geographical Sales"))
	assert.Equal(t, "'Bob''s'", quoteSheet("Bob's"))
}
