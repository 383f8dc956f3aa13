package store

import (
	"errors"
	"os"
	"testing"
	"time"

	"github.com/inkpot-app/inkpot/internal/apperr"
	"github.com/inkpot-app/inkpot/internal/models"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	f, err := os.CreateTemp("", "inkpot-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	f.Close()
	t.Cleanup(func() { os.Remove(f.Name()) })

	st, err := Open(f.Name())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	return st
}

func testNote(t *testing.T, st *Store, title string, tags ...string) *models.Note {
	t.Helper()
	n := models.NewNote(title)
	for _, tag := range tags {
		n.AddTag(tag)
	}
	if err := st.SaveNote(n); err != nil {
		t.Fatalf("SaveNote: %v", err)
	}
	return n
}

func TestSchemaCreation(t *testing.T) {
	st := testStore(t)
	var count int
	if err := st.conn.QueryRow(`SELECT count(*) FROM notes`).Scan(&count); err != nil {
		t.Fatalf("notes table missing: %v", err)
	}
	if err := st.conn.QueryRow(`SELECT count(*) FROM note_versions`).Scan(&count); err != nil {
		t.Fatalf("note_versions table missing: %v", err)
	}
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	st := testStore(t)
	n := testNote(t, st, "Trip", "travel", "planning")
	n.SetContent("pack bags")
	n.Pinned = true
	if err := st.SaveNote(n); err != nil {
		t.Fatalf("SaveNote: %v", err)
	}

	nb, err := st.LoadAll()
	if err != nil {
		t.Fatalf("LoadAll: %v", err)
	}
	got := nb.Find(n.ID)
	if got == nil {
		t.Fatal("note missing after reload")
	}
	if got.Title != "Trip" || got.Content != "pack bags" || !got.Pinned {
		t.Errorf("reloaded note = %+v", got)
	}
	if !got.HasTag("travel") || !got.HasTag("planning") {
		t.Errorf("tags = %v", got.Tags)
	}
	if !got.UpdatedAt.Equal(n.UpdatedAt.UTC().Truncate(0)) {
		t.Errorf("updated_at = %v, want %v", got.UpdatedAt, n.UpdatedAt)
	}

	counts := nb.TagCounts()
	if counts["travel"] != 1 || counts["planning"] != 1 {
		t.Errorf("tag counts rebuilt wrong: %v", counts)
	}
}

func TestSaveAll(t *testing.T) {
	st := testStore(t)
	a := models.NewNote("a")
	b := models.NewNote("b")

	if err := st.SaveAll([]*models.Note{a, b}); err != nil {
		t.Fatalf("SaveAll: %v", err)
	}
	loaded, err := st.LoadAll()
	if err != nil {
		t.Fatalf("LoadAll: %v", err)
	}
	if loaded.Len() != 2 {
		t.Errorf("len = %d, want 2", loaded.Len())
	}
}

func TestMoveToTrash(t *testing.T) {
	st := testStore(t)
	n := testNote(t, st, "doomed")

	if err := st.MoveToTrash(n.ID); err != nil {
		t.Fatalf("MoveToTrash: %v", err)
	}

	// Trashed notes no longer load as live.
	nb, _ := st.LoadAll()
	if nb.Find(n.ID) != nil {
		t.Error("trashed note still loads as live")
	}

	entries, err := st.ListTrash()
	if err != nil {
		t.Fatalf("ListTrash: %v", err)
	}
	if len(entries) != 1 || entries[0].ID != n.ID || entries[0].Title != "doomed" {
		t.Errorf("trash = %+v", entries)
	}
	if entries[0].DeletedAt.IsZero() {
		t.Error("deleted_at should be set")
	}
}

func TestMoveToTrash_NotFound(t *testing.T) {
	st := testStore(t)
	if err := st.MoveToTrash("nope"); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}

	// Trashing twice is also a miss: the row is no longer live.
	n := testNote(t, st, "once")
	_ = st.MoveToTrash(n.ID)
	if err := st.MoveToTrash(n.ID); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("second trash err = %v, want ErrNotFound", err)
	}
}

func TestRestoreFromTrash(t *testing.T) {
	st := testStore(t)
	n := testNote(t, st, "comeback", "keep")
	_ = st.MoveToTrash(n.ID)

	got, err := st.RestoreFromTrash(n.ID)
	if err != nil {
		t.Fatalf("RestoreFromTrash: %v", err)
	}
	if got.ID != n.ID || got.Title != "comeback" || !got.HasTag("keep") {
		t.Errorf("restored = %+v", got)
	}

	nb, _ := st.LoadAll()
	if nb.Find(n.ID) == nil {
		t.Error("restored note should load as live")
	}
	entries, _ := st.ListTrash()
	if len(entries) != 0 {
		t.Errorf("trash = %+v after restore", entries)
	}
}

func TestRestoreFromTrash_NotFound(t *testing.T) {
	st := testStore(t)
	if _, err := st.RestoreFromTrash("nope"); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestDeletePermanently_RemovesNoteAndVersions(t *testing.T) {
	st := testStore(t)
	n := testNote(t, st, "gone")
	v := models.NewVersion("snap", n)
	if err := st.SaveVersion(v); err != nil {
		t.Fatalf("SaveVersion: %v", err)
	}
	_ = st.MoveToTrash(n.ID)

	if err := st.DeletePermanently(n.ID); err != nil {
		t.Fatalf("DeletePermanently: %v", err)
	}

	exists, err := st.trashRowExists(n.ID)
	if err != nil {
		t.Fatal(err)
	}
	if exists {
		t.Error("purged row still present")
	}
	versions, _ := st.ListVersions(n.ID)
	if len(versions) != 0 {
		t.Errorf("versions survived the purge: %+v", versions)
	}

	// Purge is terminal: restore must miss.
	if _, err := st.RestoreFromTrash(n.ID); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("restore after purge = %v, want ErrNotFound", err)
	}
}

func TestListTrash_MostRecentFirst(t *testing.T) {
	st := testStore(t)
	a := testNote(t, st, "first")
	b := testNote(t, st, "second")

	_ = st.MoveToTrash(a.ID)
	time.Sleep(2 * time.Millisecond)
	_ = st.MoveToTrash(b.ID)

	entries, err := st.ListTrash()
	if err != nil {
		t.Fatalf("ListTrash: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("len = %d", len(entries))
	}
	if entries[0].ID != b.ID {
		t.Errorf("order = [%s %s], want most recently deleted first", entries[0].Title, entries[1].Title)
	}
}

func TestEmptyTrash(t *testing.T) {
	st := testStore(t)
	a := testNote(t, st, "a")
	b := testNote(t, st, "b")
	live := testNote(t, st, "live")
	_ = st.MoveToTrash(a.ID)
	_ = st.MoveToTrash(b.ID)

	purged, err := st.EmptyTrash()
	if err != nil {
		t.Fatalf("EmptyTrash: %v", err)
	}
	if purged != 2 {
		t.Errorf("purged = %d, want 2", purged)
	}
	entries, _ := st.ListTrash()
	if len(entries) != 0 {
		t.Errorf("trash = %+v after empty", entries)
	}

	// Live notes are untouched.
	nb, _ := st.LoadAll()
	if nb.Find(live.ID) == nil {
		t.Error("live note purged by EmptyTrash")
	}
}

func TestVersions_RoundTrip(t *testing.T) {
	st := testStore(t)
	n := testNote(t, st, "versioned", "tag1")
	v := models.NewVersion("before rewrite", n)
	if err := st.SaveVersion(v); err != nil {
		t.Fatalf("SaveVersion: %v", err)
	}

	got, err := st.GetVersion(v.ID)
	if err != nil {
		t.Fatalf("GetVersion: %v", err)
	}
	if got.NoteID != n.ID || got.Title != "versioned" || got.Comment != "before rewrite" {
		t.Errorf("version = %+v", got)
	}
	if len(got.Tags) != 1 || got.Tags[0] != "tag1" {
		t.Errorf("tags = %v", got.Tags)
	}

	list, err := st.ListVersions(n.ID)
	if err != nil {
		t.Fatalf("ListVersions: %v", err)
	}
	if len(list) != 1 {
		t.Errorf("len = %d", len(list))
	}
}

func TestVersions_SurviveNoteMutation(t *testing.T) {
	st := testStore(t)
	n := testNote(t, st, "original")
	v := models.NewVersion("", n)
	_ = st.SaveVersion(v)

	n.SetTitle("rewritten")
	if err := st.SaveNote(n); err != nil {
		t.Fatal(err)
	}

	got, err := st.GetVersion(v.ID)
	if err != nil {
		t.Fatalf("GetVersion: %v", err)
	}
	if got.Title != "original" {
		t.Errorf("snapshot title = %q, must not follow the live note", got.Title)
	}
}

func TestGetVersion_NotFound(t *testing.T) {
	st := testStore(t)
	if _, err := st.GetVersion("nope"); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestDeleteVersion(t *testing.T) {
	st := testStore(t)
	n := testNote(t, st, "n")
	v1 := models.NewVersion("keep", n)
	v2 := models.NewVersion("drop", n)
	_ = st.SaveVersion(v1)
	_ = st.SaveVersion(v2)

	if err := st.DeleteVersion(v2.ID); err != nil {
		t.Fatalf("DeleteVersion: %v", err)
	}
	list, _ := st.ListVersions(n.ID)
	if len(list) != 1 || list[0].ID != v1.ID {
		t.Errorf("versions = %+v", list)
	}
}

// Stored timestamps must sort lexicographically in time order, which the
// variable-width RFC3339Nano fraction does not guarantee within a second.
func TestFormatTime_TextOrderIsTimeOrder(t *testing.T) {
	base := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	times := []time.Time{
		base,
		base.Add(5 * time.Nanosecond),
		base.Add(500 * time.Millisecond),
		base.Add(550 * time.Millisecond),
		base.Add(time.Second),
	}
	for i := 1; i < len(times); i++ {
		prev, cur := formatTime(times[i-1]), formatTime(times[i])
		if !(prev < cur) {
			t.Errorf("%q must sort before %q", prev, cur)
		}
	}
	for _, ts := range times {
		if got := parseTime(formatTime(ts)); !got.Equal(ts) {
			t.Errorf("round trip = %v, want %v", got, ts)
		}
	}
}
