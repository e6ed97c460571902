// Package workspace loads and saves the playroom schedule, presets and
// settings. Every record read back from storage passes model validation.
package workspace

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/sandeepkv93/playroom/internal/logging"
	"github.com/sandeepkv93/playroom/internal/model"
	"github.com/sandeepkv93/playroom/internal/storage"
)

const (
	settingEventsInitialized = "events_initialized"
	settingShowMagic         = "show_magic"
)

type Workspace struct {
	repo   storage.Repository
	logger *slog.Logger
	now    func() time.Time
	newID  func() string
}

type Option func(*Workspace)

func WithLogger(logger *slog.Logger) Option {
	return func(w *Workspace) {
		if logger != nil {
			w.logger = logger
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(w *Workspace) {
		if now != nil {
			w.now = now
		}
	}
}

func WithIDFunc(fn func() string) Option {
	return func(w *Workspace) {
		if fn != nil {
			w.newID = fn
		}
	}
}

func New(repo storage.Repository, opts ...Option) (*Workspace, error) {
	if repo == nil {
		return nil, errors.New("workspace: nil repository")
	}
	w := &Workspace{
		repo:   repo,
		logger: logging.Discard(),
		now:    time.Now,
		newID:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// LoadEvents returns the stored schedule. The first call against an empty
// database seeds the default schedule; later calls never re-seed, so a
// deliberately emptied schedule stays empty.
func (w *Workspace) LoadEvents(ctx context.Context) ([]model.Event, []model.DecodeIssue, error) {
	initialized, err := w.flag(ctx, settingEventsInitialized, false)
	if err != nil {
		return nil, nil, err
	}
	if !initialized {
		defaults := model.DefaultEvents()
		if err := w.SaveEvents(ctx, defaults); err != nil {
			return nil, nil, fmt.Errorf("seed default events: %w", err)
		}
		w.logger.Info("seeded default schedule", "events", len(defaults))
		return defaults, nil, nil
	}

	records, err := w.repo.ListEvents(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("list events: %w", err)
	}
	events, issues := fromRecords("events", records)
	w.logIssues(issues)
	return events, issues, nil
}

func (w *Workspace) SaveEvents(ctx context.Context, events []model.Event) error {
	if err := w.repo.ReplaceEvents(ctx, w.eventRecords(events)); err != nil {
		return fmt.Errorf("replace events: %w", err)
	}
	return w.repo.PutSetting(ctx, settingEventsInitialized, "true")
}

func (w *Workspace) eventRecords(events []model.Event) []storage.Event {
	now := w.now()
	records := make([]storage.Event, 0, len(events))
	for i, ev := range events {
		rec := toRecord(ev)
		rec.Position = i
		rec.UpdatedAt = now
		records = append(records, rec)
	}
	return records
}

func (w *Workspace) LoadPresets(ctx context.Context) ([]model.Template, []model.DecodeIssue, error) {
	records, err := w.repo.ListPresets(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("list presets: %w", err)
	}
	out := make([]model.Template, 0, len(records))
	var issues []model.DecodeIssue
	for i, rec := range records {
		events, evIssues := fromRecords(fmt.Sprintf("presets[%d].events", i), rec.Events)
		issues = append(issues, evIssues...)
		out = append(out, model.Template{ID: rec.ID, Name: rec.Name, Events: events, CreatedAt: rec.CreatedAt})
	}
	w.logIssues(issues)
	return out, issues, nil
}

// SavePreset stores a snapshot of events under name.
func (w *Workspace) SavePreset(ctx context.Context, name string, events []model.Event) (model.Template, error) {
	tpl := model.Template{
		ID:        w.newID(),
		Name:      strings.TrimSpace(name),
		Events:    model.CloneEvents(events),
		CreatedAt: w.now().UTC(),
	}
	if err := tpl.Validate(); err != nil {
		return model.Template{}, err
	}
	if err := w.repo.CreatePreset(ctx, presetRecord(tpl)); err != nil {
		return model.Template{}, fmt.Errorf("create preset: %w", err)
	}
	return tpl, nil
}

// RenamePreset renames the stored preset and returns it as reloaded.
func (w *Workspace) RenamePreset(ctx context.Context, id, name string) (model.Template, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return model.Template{}, errors.New("model: template name is required")
	}
	if err := w.repo.RenamePreset(ctx, id, name); err != nil {
		return model.Template{}, err
	}
	rec, err := w.repo.GetPreset(ctx, id)
	if err != nil {
		return model.Template{}, fmt.Errorf("get preset: %w", err)
	}
	events, issues := fromRecords("preset.events", rec.Events)
	w.logIssues(issues)
	return model.Template{ID: rec.ID, Name: rec.Name, Events: events, CreatedAt: rec.CreatedAt}, nil
}

func (w *Workspace) DeletePreset(ctx context.Context, id string) error {
	return w.repo.DeletePreset(ctx, id)
}

// ShowMagic reports the stored "Daily Magic" visibility, or def when unset.
func (w *Workspace) ShowMagic(ctx context.Context, def bool) (bool, error) {
	return w.flag(ctx, settingShowMagic, def)
}

func (w *Workspace) SetShowMagic(ctx context.Context, on bool) error {
	return w.repo.PutSetting(ctx, settingShowMagic, strconv.FormatBool(on))
}

func (w *Workspace) flag(ctx context.Context, key string, def bool) (bool, error) {
	raw, err := w.repo.GetSetting(ctx, key)
	if errors.Is(err, storage.ErrNotFound) {
		return def, nil
	}
	if err != nil {
		return false, fmt.Errorf("get setting %s: %w", key, err)
	}
	on, err := strconv.ParseBool(raw)
	if err != nil {
		w.logger.Warn("ignoring malformed setting", "key", key, "value", raw)
		return def, nil
	}
	return on, nil
}

func (w *Workspace) logIssues(issues []model.DecodeIssue) {
	for _, issue := range issues {
		w.logger.Warn("dropped malformed record", "path", issue.Path, "id", issue.ID, "err", issue.Err)
	}
}

func toRecord(ev model.Event) storage.Event {
	return storage.Event{
		ID:        ev.ID,
		Title:     ev.Title,
		StartTime: ev.StartTime,
		EndTime:   ev.EndTime,
		Days:      FormatDays(ev.Days),
		Color:     ev.Color,
		Icon:      ev.Icon,
	}
}

func presetRecord(tpl model.Template) storage.Preset {
	rec := storage.Preset{ID: tpl.ID, Name: tpl.Name, CreatedAt: tpl.CreatedAt}
	for i, ev := range tpl.Events {
		item := toRecord(ev)
		item.Position = i
		rec.Events = append(rec.Events, item)
	}
	return rec
}

func fromRecords(path string, records []storage.Event) ([]model.Event, []model.DecodeIssue) {
	decoded := make([]model.Event, 0, len(records))
	var issues []model.DecodeIssue
	for i, rec := range records {
		days, err := ParseDays(rec.Days)
		if err != nil {
			issues = append(issues, model.DecodeIssue{Path: fmt.Sprintf("%s[%d]", path, i), ID: rec.ID, Err: err})
			continue
		}
		decoded = append(decoded, model.Event{
			ID:        rec.ID,
			Title:     rec.Title,
			StartTime: rec.StartTime,
			EndTime:   rec.EndTime,
			Days:      days,
			Color:     rec.Color,
			Icon:      rec.Icon,
		})
	}
	valid, invalid := model.ValidateEvents(path, decoded)
	return valid, append(issues, invalid...)
}

// FormatDays renders weekdays as the stored "1,3,5" form.
func FormatDays(days []time.Weekday) string {
	parts := make([]string, 0, len(days))
	for _, d := range days {
		parts = append(parts, strconv.Itoa(int(d)))
	}
	return strings.Join(parts, ",")
}

func ParseDays(raw string) ([]time.Weekday, error) {
	out := make([]time.Weekday, 0, 7)
	if strings.TrimSpace(raw) == "" {
		return out, nil
	}
	for _, part := range strings.Split(raw, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, fmt.Errorf("%w: %q", model.ErrInvalidWeekday, part)
		}
		out = append(out, time.Weekday(n))
	}
	if err := model.ValidateWeekdays(out); err != nil {
		return nil, err
	}
	return out, nil
}
