package storage

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"
)

func setupRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "playroom-test.db")
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err := MigrateUp(db); err != nil {
		t.Fatalf("migrate up: %v", err)
	}

	repo, err := NewSQLiteRepository(db)
	if err != nil {
		t.Fatalf("new repo: %v", err)
	}
	return repo
}

func parseRFC3339(t *testing.T, value string) time.Time {
	t.Helper()
	out, err := time.Parse(time.RFC3339, value)
	if err != nil {
		t.Fatalf("parse time: %v", err)
	}
	return out
}

func TestReplaceAndListEvents(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()
	now := parseRFC3339(t, "2026-02-09T12:00:00Z")

	first := []Event{
		{ID: "1", Title: "Breakfast", StartTime: "07:30", EndTime: "08:00", Days: "0,1,2,3,4,5,6", Color: "#FCD34D", Icon: "🥞", UpdatedAt: now},
		{ID: "6", Title: "Bedtime", StartTime: "20:30", EndTime: "07:00", Days: "0,1,2,3,4,5,6", Color: "#1E3A8A", Icon: "💤", UpdatedAt: now},
	}
	if err := repo.ReplaceEvents(ctx, first); err != nil {
		t.Fatalf("replace events: %v", err)
	}

	got, err := repo.ListEvents(ctx)
	if err != nil {
		t.Fatalf("list events: %v", err)
	}
	if len(got) != 2 || got[0].ID != "1" || got[1].ID != "6" || got[1].Position != 1 {
		t.Fatalf("unexpected events: %#v", got)
	}
	if got[1].Icon != "💤" || !got[1].UpdatedAt.Equal(now) {
		t.Fatalf("unexpected bedtime record: %#v", got[1])
	}

	second := []Event{
		{ID: "dup", Title: "A", StartTime: "09:00", EndTime: "10:00", UpdatedAt: now},
		{ID: "dup", Title: "B", StartTime: "10:00", EndTime: "11:00", UpdatedAt: now},
	}
	if err := repo.ReplaceEvents(ctx, second); err != nil {
		t.Fatalf("replace events with duplicate ids: %v", err)
	}
	got, err = repo.ListEvents(ctx)
	if err != nil {
		t.Fatalf("list events: %v", err)
	}
	if len(got) != 2 || got[0].Title != "A" || got[1].Title != "B" {
		t.Fatalf("unexpected events after replace: %#v", got)
	}

	if err := repo.ReplaceEvents(ctx, nil); err != nil {
		t.Fatalf("clear events: %v", err)
	}
	got, err = repo.ListEvents(ctx)
	if err != nil || len(got) != 0 {
		t.Fatalf("expected empty list, got %#v err=%v", got, err)
	}
}

func TestPresetCRUDAndList(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()
	older := parseRFC3339(t, "2026-02-09T12:00:00Z")
	newer := parseRFC3339(t, "2026-02-10T12:00:00Z")

	school := Preset{
		ID:        "preset-1",
		Name:      "School week",
		CreatedAt: older,
		Events: []Event{
			{ID: "a", Title: "Pre-K", StartTime: "08:30", EndTime: "15:00", Days: "1,2,3,4,5"},
			{ID: "b", Title: "Bath", StartTime: "19:30", EndTime: "20:00", Days: "0,1,2,3,4,5,6"},
		},
	}
	if err := repo.CreatePreset(ctx, Preset{ID: "preset-2", Name: "Summer", CreatedAt: newer}); err != nil {
		t.Fatalf("create preset: %v", err)
	}
	if err := repo.CreatePreset(ctx, school); err != nil {
		t.Fatalf("create preset: %v", err)
	}

	got, err := repo.GetPreset(ctx, school.ID)
	if err != nil {
		t.Fatalf("get preset: %v", err)
	}
	if got.Name != "School week" || len(got.Events) != 2 || got.Events[1].Title != "Bath" {
		t.Fatalf("unexpected preset: %#v", got)
	}

	if err := repo.RenamePreset(ctx, school.ID, "Term time"); err != nil {
		t.Fatalf("rename preset: %v", err)
	}
	if err := repo.RenamePreset(ctx, "missing", "x"); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got: %v", err)
	}

	list, err := repo.ListPresets(ctx)
	if err != nil {
		t.Fatalf("list presets: %v", err)
	}
	if len(list) != 2 || list[0].Name != "Term time" || len(list[0].Events) != 2 || list[1].ID != "preset-2" {
		t.Fatalf("unexpected preset list: %#v", list)
	}

	if err := repo.DeletePreset(ctx, school.ID); err != nil {
		t.Fatalf("delete preset: %v", err)
	}
	_, err = repo.GetPreset(ctx, school.ID)
	if err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got: %v", err)
	}
	if err := repo.DeletePreset(ctx, school.ID); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound on second delete, got: %v", err)
	}

	var orphans int
	if err := repo.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM preset_events WHERE preset_id = ?`, school.ID).Scan(&orphans); err != nil {
		t.Fatalf("count preset events: %v", err)
	}
	if orphans != 0 {
		t.Fatalf("expected cascade delete of preset events, found %d", orphans)
	}
}

func TestSettings(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	if _, err := repo.GetSetting(ctx, "show_magic"); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got: %v", err)
	}
	if err := repo.PutSetting(ctx, "show_magic", "true"); err != nil {
		t.Fatalf("put setting: %v", err)
	}
	if err := repo.PutSetting(ctx, "show_magic", "false"); err != nil {
		t.Fatalf("overwrite setting: %v", err)
	}
	got, err := repo.GetSetting(ctx, "show_magic")
	if err != nil || got != "false" {
		t.Fatalf("unexpected setting: %q err=%v", got, err)
	}
}

func TestOpenSQLiteMigrates(t *testing.T) {
	repo, err := OpenSQLite(filepath.Join(t.TempDir(), "open.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	defer repo.Close()

	events, err := repo.ListEvents(t.Context())
	if err != nil || len(events) != 0 {
		t.Fatalf("expected empty event table, got %#v err=%v", events, err)
	}
}

func TestImportIsAtomic(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	before := []Event{{ID: "keep", Title: "Nap", StartTime: "13:00", EndTime: "14:30", Days: "0,1,2,3,4,5,6"}}
	if err := repo.ReplaceEvents(ctx, before); err != nil {
		t.Fatalf("seed events: %v", err)
	}
	if err := repo.CreatePreset(ctx, Preset{ID: "taken", Name: "Existing", CreatedAt: time.Now()}); err != nil {
		t.Fatalf("seed preset: %v", err)
	}

	err := repo.Import(ctx, ImportBatch{
		Events: []Event{{ID: "new", Title: "Swim", StartTime: "10:00", EndTime: "11:00", Days: "6"}},
		Presets: []Preset{
			{ID: "fresh", Name: "Fresh", CreatedAt: time.Now()},
			{ID: "taken", Name: "Clash", CreatedAt: time.Now()},
		},
		Settings: map[string]string{"events_initialized": "true"},
	})
	if err == nil {
		t.Fatalf("expected import to fail on duplicate preset id")
	}

	events, err := repo.ListEvents(ctx)
	if err != nil {
		t.Fatalf("list events: %v", err)
	}
	if len(events) != 1 || events[0].ID != "keep" {
		t.Fatalf("events changed by failed import: %#v", events)
	}
	presets, err := repo.ListPresets(ctx)
	if err != nil {
		t.Fatalf("list presets: %v", err)
	}
	if len(presets) != 1 || presets[0].ID != "taken" {
		t.Fatalf("presets changed by failed import: %#v", presets)
	}
	if _, err := repo.GetSetting(ctx, "events_initialized"); err != ErrNotFound {
		t.Fatalf("expected setting to stay unset, got: %v", err)
	}

	err = repo.Import(ctx, ImportBatch{
		Events:   []Event{{ID: "new", Title: "Swim", StartTime: "10:00", EndTime: "11:00", Days: "6"}},
		Presets:  []Preset{{ID: "fresh", Name: "Fresh", CreatedAt: time.Now()}},
		Settings: map[string]string{"events_initialized": "true"},
	})
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	events, _ = repo.ListEvents(ctx)
	if len(events) != 1 || events[0].ID != "new" {
		t.Fatalf("unexpected events after import: %#v", events)
	}
	value, err := repo.GetSetting(ctx, "events_initialized")
	if err != nil || value != "true" {
		t.Fatalf("unexpected setting %q: %v", value, err)
	}
}
