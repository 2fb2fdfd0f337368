package index

import (
	"errors"
	"os"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/safal938/board28-sub000/internal/apperr"
	"github.com/safal938/board28-sub000/internal/models"
)

func testDB(t *testing.T) *DB {
	t.Helper()
	f, err := os.CreateTemp("", "board-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	f.Close()
	t.Cleanup(func() { os.Remove(f.Name()) })

	db, err := Open(f.Name())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func date(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func TestSchemaCreation(t *testing.T) {
	db := testDB(t)
	var count int
	if err := db.conn.QueryRow(`SELECT count(*) FROM items`).Scan(&count); err != nil {
		t.Fatalf("items table missing: %v", err)
	}
}

func TestUpsertAndGetItem(t *testing.T) {
	db := testDB(t)
	want := models.Item{
		ID:        "admission",
		Kind:      models.KindEvent,
		Title:     "Admission",
		X:         100,
		Y:         -40,
		Width:     320,
		Height:    models.Auto(),
		Date:      date(2023, 4, 2),
		Track:     "encounters",
		Body:      "admitted",
		Checksum:  "abc",
		UpdatedAt: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC),
	}
	if err := db.UpsertItem("admission.md", want); err != nil {
		t.Fatalf("UpsertItem: %v", err)
	}
	got, err := db.GetItem("admission")
	if err != nil {
		t.Fatalf("GetItem: %v", err)
	}
	if diff := cmp.Diff(want, *got); diff != "" {
		t.Errorf("GetItem mismatch (-want +got):\n%s", diff)
	}

	p, err := db.PathOf("admission")
	if err != nil || p != "admission.md" {
		t.Errorf("PathOf = %q, %v", p, err)
	}
}

func TestGetItemNotFound(t *testing.T) {
	db := testDB(t)
	if _, err := db.GetItem("nope"); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
	if _, err := db.PathOf("nope"); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestUpsertUpdatesExisting(t *testing.T) {
	db := testDB(t)
	_ = db.UpsertItem("c.md", models.Item{ID: "c", X: 1, Height: models.Fixed(10), Checksum: "1"})
	_ = db.UpsertItem("c.md", models.Item{ID: "c", X: 2, Height: models.Fixed(20), Checksum: "2"})

	got, err := db.GetItem("c")
	if err != nil {
		t.Fatalf("GetItem: %v", err)
	}
	if got.X != 2 || got.Height.Value != 20 || got.Checksum != "2" {
		t.Errorf("item = %+v", got)
	}
}

func TestDuplicateIDRejected(t *testing.T) {
	db := testDB(t)
	if err := db.UpsertItem("a.md", models.Item{ID: "same"}); err != nil {
		t.Fatal(err)
	}
	if err := db.UpsertItem("b.md", models.Item{ID: "same"}); err == nil {
		t.Error("expected unique violation for duplicate id")
	}
}

func TestDeleteByPath(t *testing.T) {
	db := testDB(t)
	_ = db.UpsertItem("del.md", models.Item{ID: "del"})

	id, err := db.DeleteByPath("del.md")
	if err != nil {
		t.Fatalf("DeleteByPath: %v", err)
	}
	if id != "del" {
		t.Errorf("id = %q, want del", id)
	}
	id, err = db.DeleteByPath("del.md")
	if err != nil || id != "" {
		t.Errorf("second delete = %q, %v", id, err)
	}
}

func TestListItemsFilters(t *testing.T) {
	db := testDB(t)
	_ = db.UpsertItem("a.md", models.Item{ID: "a", Kind: models.KindEvent, Title: "Admission"})
	_ = db.UpsertItem("b.md", models.Item{ID: "b", Kind: models.KindLab, Title: "Sodium", Track: "labs"})
	_ = db.UpsertItem("c.md", models.Item{ID: "c", Kind: models.KindLab, Title: "Potassium", Track: "labs", Body: "K+ low"})

	items, total, err := db.ListItems(ListFilter{})
	if err != nil {
		t.Fatalf("ListItems: %v", err)
	}
	if total != 3 || len(items) != 3 || items[0].ID != "a" {
		t.Errorf("all: total=%d items=%v", total, ids(items))
	}

	items, total, _ = db.ListItems(ListFilter{Kind: models.KindLab, Limit: 1})
	if total != 2 || len(items) != 1 || items[0].ID != "b" {
		t.Errorf("kind page: total=%d items=%v", total, ids(items))
	}

	items, _, _ = db.ListItems(ListFilter{Query: "low"})
	if diff := cmp.Diff([]string{"c"}, ids(items)); diff != "" {
		t.Errorf("query (-want +got):\n%s", diff)
	}
}

func TestDatedItemsOrdered(t *testing.T) {
	db := testDB(t)
	_ = db.UpsertItem("late.md", models.Item{ID: "late", Date: date(2023, 1, 1)})
	_ = db.UpsertItem("none.md", models.Item{ID: "none"})
	_ = db.UpsertItem("early.md", models.Item{ID: "early", Date: date(2020, 1, 1), EndDate: date(2020, 6, 1)})

	items, err := db.DatedItems()
	if err != nil {
		t.Fatalf("DatedItems: %v", err)
	}
	if diff := cmp.Diff([]string{"early", "late"}, ids(items)); diff != "" {
		t.Errorf("order (-want +got):\n%s", diff)
	}
	if items[0].EndDate == nil || !items[0].EndDate.Equal(*date(2020, 6, 1)) {
		t.Errorf("end date = %v", items[0].EndDate)
	}
}

func TestAllChecksums(t *testing.T) {
	db := testDB(t)
	_ = db.UpsertItem("a.md", models.Item{ID: "a", Checksum: "1"})
	_ = db.UpsertItem("b/c.md", models.Item{ID: "c", Checksum: "2"})

	got, err := db.AllChecksums()
	if err != nil {
		t.Fatal(err)
	}
	want := map[string]string{"a.md": "1", "b/c.md": "2"}
	if diff := cmp.Diff(want, got, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("checksums (-want +got):\n%s", diff)
	}
}

func ids(items []models.Item) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.ID
	}
	return out
}
