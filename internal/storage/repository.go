package storage

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("storage: not found")

type Repository interface {
	ListEvents(ctx context.Context) ([]Event, error)
	ReplaceEvents(ctx context.Context, in []Event) error

	CreatePreset(ctx context.Context, in Preset) error
	GetPreset(ctx context.Context, id string) (Preset, error)
	RenamePreset(ctx context.Context, id, name string) error
	DeletePreset(ctx context.Context, id string) error
	ListPresets(ctx context.Context) ([]Preset, error)

	Import(ctx context.Context, batch ImportBatch) error

	GetSetting(ctx context.Context, key string) (string, error)
	PutSetting(ctx context.Context, key, value string) error
}
