package google

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"ledgerly/internal/core"

	"github.com/google/go-cmp/cmp"
	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"
)

// fakeSheets is a tiny stand-in for the Sheets REST API.
type fakeSheets struct {
	mu      sync.Mutex
	titles  []string
	calls   []string
	written map[string][][]string
}

func (f *fakeSheets) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	path := r.URL.Path
	f.calls = append(f.calls, r.Method+" "+path)

	switch {
	case r.Method == http.MethodGet && strings.HasSuffix(path, "/spreadsheets/sheet-1"):
		var sheets []map[string]any
		for _, t := range f.titles {
			sheets = append(sheets, map[string]any{"properties": map[string]any{"title": t}})
		}
		json.NewEncoder(w).Encode(map[string]any{"sheets": sheets})
	case r.Method == http.MethodPost && strings.HasSuffix(path, ":batchUpdate"):
		var req gsheet.BatchUpdateSpreadsheetRequest
		json.NewDecoder(r.Body).Decode(&req)
		f.titles = append(f.titles, req.Requests[0].AddSheet.Properties.Title)
		json.NewEncoder(w).Encode(map[string]any{"spreadsheetId": "sheet-1"})
	case r.Method == http.MethodPost && strings.HasSuffix(path, ":clear"):
		json.NewEncoder(w).Encode(map[string]any{"spreadsheetId": "sheet-1"})
	case r.Method == http.MethodPut:
		if r.URL.Query().Get("valueInputOption") != "RAW" {
			http.Error(w, "bad input option", http.StatusBadRequest)
			return
		}
		var vr struct {
			Values [][]string `json:"values"`
		}
		json.NewDecoder(r.Body).Decode(&vr)
		rng := path[strings.LastIndex(path, "/")+1:]
		f.written[rng] = vr.Values
		json.NewEncoder(w).Encode(map[string]any{"spreadsheetId": "sheet-1"})
	default:
		http.Error(w, "unexpected call", http.StatusNotFound)
	}
}

func newTestClient(t *testing.T, fake *fakeSheets) *Client {
	t.Helper()
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	svc, err := gsheet.NewService(context.Background(),
		goption.WithEndpoint(srv.URL+"/"),
		goption.WithHTTPClient(srv.Client()))
	if err != nil {
		t.Fatalf("NewService() error = %v", err)
	}
	c, err := NewWithService(svc, Config{SpreadsheetID: "sheet-1"}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		t.Fatal(err)
	}
	return c
}

func TestReplaceTransactions(t *testing.T) {
	fake := &fakeSheets{titles: []string{"Transactions"}, written: map[string][][]string{}}
	c := newTestClient(t, fake)

	txs := []core.Transaction{{
		ID: "t1", Date: core.NewDate(2025, 6, 1), Description: "Coffee",
		Amount: core.MustMoney("3.5"), Type: core.Expense, Category: "Food & Drink", Currency: "USD",
	}}
	if err := c.ReplaceTransactions(context.Background(), txs); err != nil {
		t.Fatalf("ReplaceTransactions() error = %v", err)
	}
	// A second write must not look the sheet up again.
	if err := c.ReplaceTransactions(context.Background(), txs); err != nil {
		t.Fatal(err)
	}

	want := [][]string{
		{"id", "date", "description", "amount", "type", "category", "currency"},
		{"t1", "2025-06-01T00:00:00Z", "Coffee", "3.5", "expense", "Food & Drink", "USD"},
	}
	if diff := cmp.Diff(want, fake.written["'Transactions'!A1"]); diff != "" {
		t.Errorf("written rows mismatch (-want +got):\n%s\ncalls: %v", diff, fake.calls)
	}

	gets := 0
	for _, call := range fake.calls {
		if strings.HasPrefix(call, "GET ") {
			gets++
		}
	}
	if gets != 1 {
		t.Errorf("spreadsheet looked up %d times, want 1", gets)
	}
}

func TestReplaceCategoriesCreatesSheet(t *testing.T) {
	fake := &fakeSheets{titles: []string{"Transactions"}, written: map[string][][]string{}}
	c := newTestClient(t, fake)

	if err := c.ReplaceCategories(context.Background(), core.DefaultCategories()); err != nil {
		t.Fatalf("ReplaceCategories() error = %v", err)
	}
	if !cmp.Equal([]string{"Transactions", "Categories"}, fake.titles) {
		t.Errorf("titles = %v", fake.titles)
	}
	rows := fake.written["'Categories'!A1"]
	if len(rows) != 17 || rows[1][1] != "Food & Drink" {
		t.Errorf("unexpected category rows: %d", len(rows))
	}
}

func TestNewWithServiceRequiresSpreadsheet(t *testing.T) {
	if _, err := NewWithService(nil, Config{}, nil); err == nil {
		t.Fatal("expected error without spreadsheet id")
	}
}

func TestCredentials(t *testing.T) {
	if _, err := credentials(Config{}); err == nil {
		t.Error("expected error without credentials")
	}
	got, err := credentials(Config{CredentialsJSON: `{"type":"service_account"}`})
	if err != nil || string(got) != `{"type":"service_account"}` {
		t.Errorf("credentials() = %q, %v", got, err)
	}
	if _, err := credentials(Config{CredentialsFile: t.TempDir() + "/missing.json"}); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestQuoteSheet(t *testing.T) {
	if got := quoteSheet("Bob's sheet"); got != "'Bob''s sheet'" {
		t.Errorf("quoteSheet() = %q", got)
	}
}
