package workspace

import (
	"context"
	"fmt"

	"github.com/sandeepkv93/playroom/internal/model"
	"github.com/sandeepkv93/playroom/internal/schedule"
	"github.com/sandeepkv93/playroom/internal/storage"
)

type ImportResult struct {
	Events  int
	Presets int
}

// Import replaces the schedule with doc.Events and adds doc.Presets. Empty or
// repeated event ids are reassigned, and presets whose id is empty or already
// stored get a fresh id. Everything is validated first and written in one
// transaction, so a failed import leaves the stored data untouched.
func (w *Workspace) Import(ctx context.Context, doc model.Document) (ImportResult, error) {
	existing, _, err := w.LoadPresets(ctx)
	if err != nil {
		return ImportResult{}, err
	}
	taken := make(map[string]bool, len(existing))
	for _, tpl := range existing {
		taken[tpl.ID] = true
	}

	events := w.normalize(doc.Events)
	batch := storage.ImportBatch{
		Events:   w.eventRecords(events),
		Presets:  make([]storage.Preset, 0, len(doc.Presets)),
		Settings: map[string]string{settingEventsInitialized: "true"},
	}
	for _, tpl := range doc.Presets {
		tpl.Events = w.normalize(tpl.Events)
		if tpl.ID == "" || taken[tpl.ID] {
			tpl.ID = w.newID()
		}
		if tpl.CreatedAt.IsZero() {
			tpl.CreatedAt = w.now().UTC()
		}
		if err := tpl.Validate(); err != nil {
			return ImportResult{}, fmt.Errorf("import preset %q: %w", tpl.Name, err)
		}
		taken[tpl.ID] = true
		batch.Presets = append(batch.Presets, presetRecord(tpl))
	}

	if err := w.repo.Import(ctx, batch); err != nil {
		return ImportResult{}, fmt.Errorf("import: %w", err)
	}
	return ImportResult{Events: len(events), Presets: len(batch.Presets)}, nil
}

func (w *Workspace) Export(ctx context.Context) (model.Document, error) {
	events, _, err := w.LoadEvents(ctx)
	if err != nil {
		return model.Document{}, err
	}
	presets, _, err := w.LoadPresets(ctx)
	if err != nil {
		return model.Document{}, err
	}
	return model.Document{Events: events, Presets: presets}, nil
}

func (w *Workspace) normalize(events []model.Event) []model.Event {
	return schedule.NewStore(events, schedule.WithIDFunc(w.newID)).Events()
}
