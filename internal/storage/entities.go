package storage

import "time"

// Event is the stored form of a schedule entry. Days is a comma separated
// list of weekday numbers ("1,3,5"); values are not validated here.
type Event struct {
	ID        string
	Position  int
	Title     string
	StartTime string
	EndTime   string
	Days      string
	Color     string
	Icon      string
	UpdatedAt time.Time
}

type Preset struct {
	ID        string
	Name      string
	CreatedAt time.Time
	Events    []Event
}

// ImportBatch is applied atomically by Repository.Import.
type ImportBatch struct {
	Events   []Event
	Presets  []Preset
	Settings map[string]string
}
