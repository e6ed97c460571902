package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

const sqliteTimeLayout = time.RFC3339Nano

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(db *sql.DB) (*SQLiteRepository, error) {
	if db == nil {
		return nil, errors.New("storage: nil db")
	}
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}
	return &SQLiteRepository{db: db}, nil
}

// OpenSQLite opens path, applies migrations and returns a ready repository.
func OpenSQLite(path string) (*SQLiteRepository, error) {
	db, err := sql.Open("sqlite3", path+"?_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	if err := MigrateUp(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	repo, err := NewSQLiteRepository(db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return repo, nil
}

func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

func (r *SQLiteRepository) ListEvents(ctx context.Context) ([]Event, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, position, title, start_time, end_time, days, color, icon, updated_at
		FROM events ORDER BY position ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Event, 0)
	for rows.Next() {
		item, scanErr := scanEvent(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		out = append(out, item)
	}
	return out, rows.Err()
}

// ReplaceEvents swaps the whole event table in one transaction. Positions are
// taken from the slice order.
func (r *SQLiteRepository) ReplaceEvents(ctx context.Context, in []Event) error {
	return r.withTx(ctx, func(tx *sql.Tx) error {
		return replaceEvents(ctx, tx, in)
	})
}

func (r *SQLiteRepository) CreatePreset(ctx context.Context, in Preset) error {
	return r.withTx(ctx, func(tx *sql.Tx) error {
		return insertPreset(ctx, tx, in)
	})
}

// Import replaces the events, adds the presets and writes the settings in a
// single transaction. On error nothing is changed.
func (r *SQLiteRepository) Import(ctx context.Context, batch ImportBatch) error {
	return r.withTx(ctx, func(tx *sql.Tx) error {
		if err := replaceEvents(ctx, tx, batch.Events); err != nil {
			return err
		}
		for _, p := range batch.Presets {
			if err := insertPreset(ctx, tx, p); err != nil {
				return fmt.Errorf("insert preset %s: %w", p.ID, err)
			}
		}
		for key, value := range batch.Settings {
			if err := putSetting(ctx, tx, key, value); err != nil {
				return fmt.Errorf("put setting %s: %w", key, err)
			}
		}
		return nil
	})
}

func (r *SQLiteRepository) GetPreset(ctx context.Context, id string) (Preset, error) {
	row := r.db.QueryRowContext(ctx, `SELECT id, name, created_at FROM presets WHERE id = ?`, id)
	item, err := scanPreset(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Preset{}, ErrNotFound
		}
		return Preset{}, err
	}
	item.Events, err = r.presetEvents(ctx, item.ID)
	if err != nil {
		return Preset{}, err
	}
	return item, nil
}

func (r *SQLiteRepository) RenamePreset(ctx context.Context, id, name string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE presets SET name = ? WHERE id = ?`, name, id)
	if err != nil {
		return err
	}
	return checkRowsAffected(res)
}

func (r *SQLiteRepository) DeletePreset(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM presets WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return checkRowsAffected(res)
}

// ListPresets returns presets oldest first, each with its events.
func (r *SQLiteRepository) ListPresets(ctx context.Context) ([]Preset, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, created_at FROM presets ORDER BY created_at ASC, id ASC`)
	if err != nil {
		return nil, err
	}

	out := make([]Preset, 0)
	for rows.Next() {
		item, scanErr := scanPreset(rows)
		if scanErr != nil {
			_ = rows.Close()
			return nil, scanErr
		}
		out = append(out, item)
	}
	if err := rows.Err(); err != nil {
		_ = rows.Close()
		return nil, err
	}
	_ = rows.Close()

	for i := range out {
		out[i].Events, err = r.presetEvents(ctx, out[i].ID)
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (r *SQLiteRepository) GetSetting(ctx context.Context, key string) (string, error) {
	var value string
	err := r.db.QueryRowContext(ctx, `SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrNotFound
		}
		return "", err
	}
	return value, nil
}

func (r *SQLiteRepository) PutSetting(ctx context.Context, key, value string) error {
	return putSetting(ctx, r.db, key, value)
}

// execer is satisfied by both *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func putSetting(ctx context.Context, db execer, key, value string) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO settings (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, mustTime(time.Now()),
	)
	return err
}

func replaceEvents(ctx context.Context, tx *sql.Tx, in []Event) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM events`); err != nil {
		return err
	}
	for i, ev := range in {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO events (position, id, title, start_time, end_time, days, color, icon, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			i, ev.ID, ev.Title, ev.StartTime, ev.EndTime, ev.Days, ev.Color, ev.Icon, mustTime(ev.UpdatedAt),
		); err != nil {
			return fmt.Errorf("insert event %d: %w", i, err)
		}
	}
	return nil
}

func insertPreset(ctx context.Context, tx *sql.Tx, in Preset) error {
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO presets (id, name, created_at)
		VALUES (?, ?, ?)`,
		in.ID, in.Name, mustTime(in.CreatedAt),
	); err != nil {
		return err
	}
	for i, ev := range in.Events {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO preset_events (preset_id, position, id, title, start_time, end_time, days, color, icon)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			in.ID, i, ev.ID, ev.Title, ev.StartTime, ev.EndTime, ev.Days, ev.Color, ev.Icon,
		); err != nil {
			return fmt.Errorf("insert preset event %d: %w", i, err)
		}
	}
	return nil
}

func (r *SQLiteRepository) presetEvents(ctx context.Context, presetID string) ([]Event, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, position, title, start_time, end_time, days, color, icon
		FROM preset_events WHERE preset_id = ? ORDER BY position ASC`, presetID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Event, 0)
	for rows.Next() {
		var ev Event
		if err := rows.Scan(&ev.ID, &ev.Position, &ev.Title, &ev.StartTime, &ev.EndTime, &ev.Days, &ev.Color, &ev.Icon); err != nil {
			return nil, err
		}
		out = append(out, ev)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

func mustTime(v time.Time) string {
	return v.UTC().Format(sqliteTimeLayout)
}

func parseRequiredTime(v string) (time.Time, error) {
	return time.Parse(sqliteTimeLayout, v)
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEvent(s scanner) (Event, error) {
	var out Event
	var updated string
	if err := s.Scan(&out.ID, &out.Position, &out.Title, &out.StartTime, &out.EndTime, &out.Days, &out.Color, &out.Icon, &updated); err != nil {
		return Event{}, err
	}
	updatedAt, err := parseRequiredTime(updated)
	if err != nil {
		return Event{}, err
	}
	out.UpdatedAt = updatedAt
	return out, nil
}

func scanPreset(s scanner) (Preset, error) {
	var out Preset
	var created string
	if err := s.Scan(&out.ID, &out.Name, &created); err != nil {
		return Preset{}, err
	}
	createdAt, err := parseRequiredTime(created)
	if err != nil {
		return Preset{}, err
	}
	out.CreatedAt = createdAt
	return out, nil
}

func checkRowsAffected(res sql.Result) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
