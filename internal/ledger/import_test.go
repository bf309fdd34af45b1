package ledger

import (
	"context"
	"errors"
	"testing"

	"ledgerly/internal/codec"
	"ledgerly/internal/core"
	"ledgerly/internal/kv"

	"github.com/google/go-cmp/cmp"
)

func seeded(t *testing.T, mem kv.Medium) *Repository {
	t.Helper()
	r := newTestRepo(t, mem)
	r.Add(context.Background(), input("Existing", "10", core.Expense))
	return r
}

func TestDefaultImportMode(t *testing.T) {
	if DefaultImportMode(codec.FormatJSON) != ModeReplace {
		t.Error("document import should default to replace")
	}
	if DefaultImportMode(codec.FormatCSV) != ModeAppend {
		t.Error("delimited import should default to append")
	}
	if _, err := ParseImportMode("merge"); err == nil {
		t.Error("expected error for unknown mode")
	}
	if m, err := ParseImportMode(" Append "); err != nil || m != ModeAppend {
		t.Errorf("ParseImportMode: %v %v", m, err)
	}
}

func TestDocumentRoundTripThroughRepository(t *testing.T) {
	ctx := context.Background()
	src := newTestRepo(t, nil)
	src.Add(ctx, input("Salary", "1000", core.Income))
	src.Add(ctx, input("Rent", "400", core.Expense))
	cats := []core.Category{{ID: "c1", Name: "Custom", Icon: "Star", Color: "hsl(var(--chart-1))"}}

	data, err := codec.EncodeDocument(src.Transactions(), cats)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	dst := seeded(t, nil)
	res, err := dst.Import(ctx, codec.FormatJSON, data, "")
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if res.Mode != ModeReplace || res.Imported != 2 || res.Total != 2 || !res.CategoriesReplaced {
		t.Fatalf("unexpected result %+v", res)
	}
	if diff := cmp.Diff(src.Transactions(), dst.Transactions()); diff != "" {
		t.Errorf("transactions mismatch:\n%s", diff)
	}
	if diff := cmp.Diff(cats, dst.Categories()); diff != "" {
		t.Errorf("categories mismatch:\n%s", diff)
	}
}

func TestDocumentImportWithoutCategoriesKeepsThem(t *testing.T) {
	ctx := context.Background()
	r := seeded(t, nil)
	doc := `{"transactions":[{"id":"a","date":"2025-01-01","description":"Gift","amount":20,"type":"income","category":"Gifts","currency":"USD"}]}`
	res, err := r.ImportDocument(ctx, []byte(doc), ModeReplace)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if res.CategoriesReplaced {
		t.Fatal("categories should not be replaced")
	}
	if len(r.Categories()) != 16 {
		t.Fatalf("expected default categories, got %d", len(r.Categories()))
	}
	if txs := r.Transactions(); len(txs) != 1 || txs[0].ID != "a" {
		t.Fatalf("expected replaced list, got %+v", txs)
	}
}

func TestInvalidDocumentLeavesStateUntouched(t *testing.T) {
	ctx := context.Background()
	mem := kv.NewMemory()
	r := seeded(t, mem)
	before := r.Snapshot()
	writes := mem.Writes()

	for _, doc := range []string{
		`{"transactions":[{"id":"x"}]}`,
		`{"transactions": "nope"}`,
		`not json`,
	} {
		if _, err := r.ImportDocument(ctx, []byte(doc), ModeReplace); err == nil {
			t.Fatalf("expected rejection for %s", doc)
		}
	}

	if diff := cmp.Diff(before, r.Snapshot()); diff != "" {
		t.Fatalf("state changed:\n%s", diff)
	}
	if mem.Writes() != writes {
		t.Fatal("rejected import must not persist")
	}
}

func TestDocumentAppendMergesCategories(t *testing.T) {
	ctx := context.Background()
	r := seeded(t, nil)
	doc := `{"transactions":[{"id":"new","date":"2025-01-01","description":"Bonus","amount":5,"type":"income"}],
		"categories":[{"id":"cat-1","name":"Dining","icon":"Utensils","color":"red"},{"id":"cat-99","name":"Pets","icon":"Dog","color":"blue"}]}`
	res, err := r.ImportDocument(ctx, []byte(doc), ModeAppend)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if res.Total != 2 {
		t.Fatalf("expected 2 transactions, got %d", res.Total)
	}
	cats := r.Categories()
	if len(cats) != 17 {
		t.Fatalf("expected 17 categories, got %d", len(cats))
	}
	if cats[0].Name != "Dining" || cats[16].Name != "Pets" {
		t.Fatalf("unexpected merge: first=%q last=%q", cats[0].Name, cats[16].Name)
	}
	if got, ok := r.Get("new"); !ok || got.Currency != "USD" {
		t.Fatalf("missing currency should default, got %+v", got)
	}
}

func TestDelimitedImportAppends(t *testing.T) {
	ctx := context.Background()
	r := seeded(t, nil)
	csv := "id,date,description,amount,type,category,currency\n" +
		"c1,2025-05-01T00:00:00Z,Book,12.5,expense,Education,USD\n" +
		"c2,2025-05-02T00:00:00Z,Refund,4,income,Other,USD"
	res, err := r.Import(ctx, codec.FormatCSV, []byte(csv), "")
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if res.Mode != ModeAppend || res.Imported != 2 || res.Total != 3 {
		t.Fatalf("unexpected result %+v", res)
	}
	txs := r.Transactions()
	if txs[0].Description != "Existing" || txs[1].ID != "c1" || txs[2].ID != "c2" {
		t.Fatalf("expected appended order, got %+v", txs)
	}
}

func TestDelimitedImportReplaceMode(t *testing.T) {
	ctx := context.Background()
	r := seeded(t, nil)
	res, err := r.ImportDelimited(ctx, []byte("description,amount\nLunch,9\n"), ModeReplace)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if res.Total != 1 || r.Transactions()[0].Description != "Lunch" {
		t.Fatalf("expected replaced list, got %+v", r.Transactions())
	}
}

func TestDelimitedRoundTripIntoEmptyRepository(t *testing.T) {
	ctx := context.Background()
	src := newTestRepo(t, nil)
	src.Add(ctx, input("Salary", "1000.50", core.Income))
	src.Add(ctx, input("Index fund", "300", core.Investment))
	src.Add(ctx, input("Emergency fund", "75.25", core.Saving))

	data, err := codec.EncodeDelimited(src.Transactions())
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	dst := newTestRepo(t, nil)
	if _, err := dst.ImportDelimited(ctx, data, ModeAppend); err != nil {
		t.Fatalf("import: %v", err)
	}
	if diff := cmp.Diff(src.Transactions(), dst.Transactions()); diff != "" {
		t.Fatalf("round trip mismatch:\n%s", diff)
	}
}

func TestDelimitedErrorsLeaveStateUntouched(t *testing.T) {
	ctx := context.Background()
	r := seeded(t, nil)
	before := r.Snapshot()

	cases := []struct {
		name  string
		input string
		check func(error) bool
	}{
		{"empty", "", func(err error) bool { return errors.Is(err, codec.ErrEmptyImport) }},
		{"no description", "id,amount\n1,2\n", func(err error) bool {
			var e *codec.ShapeValidationError
			return errors.As(err, &e)
		}},
		{"broken row", "id,description\n1,ok\n2,bad,extra\n", func(err error) bool {
			var e *codec.RowParseError
			return errors.As(err, &e)
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := r.ImportDelimited(ctx, []byte(tc.input), ModeAppend)
			if !tc.check(err) {
				t.Fatalf("unexpected error %T: %v", err, err)
			}
		})
	}
	if diff := cmp.Diff(before, r.Snapshot()); diff != "" {
		t.Fatalf("state changed:\n%s", diff)
	}
}

func TestImportReassignsCollidingIDs(t *testing.T) {
	ctx := context.Background()
	r := seeded(t, nil)
	existing := r.Transactions()[0].ID
	csv := "id,description\n" + existing + ",Duplicate\n"
	if _, err := r.ImportDelimited(ctx, []byte(csv), ModeAppend); err != nil {
		t.Fatalf("import: %v", err)
	}
	txs := r.Transactions()
	if txs[1].ID == existing {
		t.Fatal("colliding id must be reassigned")
	}
}
