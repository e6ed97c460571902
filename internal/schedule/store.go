package schedule

import (
	"github.com/google/uuid"

	"github.com/sandeepkv93/playroom/internal/model"
)

// Store is an immutable, ordered event collection. Every mutation returns a
// new Store; the receiver is left untouched.
type Store struct {
	events []model.Event
	newID  func() string
}

type StoreOption func(*Store)

// WithIDFunc replaces the uuid generator used for fresh ids.
func WithIDFunc(fn func() string) StoreOption {
	return func(s *Store) {
		if fn != nil {
			s.newID = fn
		}
	}
}

func NewStore(events []model.Event, opts ...StoreOption) Store {
	s := Store{newID: uuid.NewString}
	for _, opt := range opts {
		opt(&s)
	}
	return s.ReplaceAll(events)
}

func (s Store) Len() int { return len(s.events) }

// Events returns a copy of the collection in order.
func (s Store) Events() []model.Event {
	return model.CloneEvents(s.events)
}

// Get returns the last event with id.
func (s Store) Get(id string) (model.Event, bool) {
	for i := len(s.events) - 1; i >= 0; i-- {
		if s.events[i].ID == id {
			return s.events[i].Clone(), true
		}
	}
	return model.Event{}, false
}

// Add appends ev under a fresh id and returns the stored copy.
func (s Store) Add(ev model.Event) (Store, model.Event) {
	ev = ev.Clone()
	ev.ID = s.freshID(s.idSet())
	next := s.with(append(model.CloneEvents(s.events), ev))
	return next, ev.Clone()
}

// Replace swaps every record carrying ev.ID for ev.
func (s Store) Replace(ev model.Event) (Store, bool) {
	out := make([]model.Event, 0, len(s.events))
	found := false
	for _, cur := range s.events {
		if cur.ID == ev.ID {
			if !found {
				out = append(out, ev.Clone())
				found = true
			}
			continue
		}
		out = append(out, cur.Clone())
	}
	if !found {
		return s, false
	}
	return s.with(out), true
}

// Remove drops every record carrying id.
func (s Store) Remove(id string) (Store, bool) {
	out := make([]model.Event, 0, len(s.events))
	for _, cur := range s.events {
		if cur.ID != id {
			out = append(out, cur.Clone())
		}
	}
	if len(out) == len(s.events) {
		return s, false
	}
	return s.with(out), true
}

// ReplaceAll swaps the whole collection. Empty ids get fresh ones, and for a
// repeated id the last record keeps it while earlier ones are renamed, so Get
// resolves to the same record before and after normalization.
func (s Store) ReplaceAll(events []model.Event) Store {
	last := make(map[string]int, len(events))
	taken := make(map[string]bool, len(events))
	for i, ev := range events {
		if ev.ID != "" {
			last[ev.ID] = i
			taken[ev.ID] = true
		}
	}
	out := make([]model.Event, 0, len(events))
	for i, ev := range events {
		ev = ev.Clone()
		if ev.ID == "" || last[ev.ID] != i {
			ev.ID = s.freshID(taken)
			taken[ev.ID] = true
		}
		out = append(out, ev)
	}
	return s.with(out)
}

func (s Store) with(events []model.Event) Store {
	return Store{events: events, newID: s.newID}
}

func (s Store) idSet() map[string]bool {
	ids := make(map[string]bool, len(s.events))
	for _, ev := range s.events {
		ids[ev.ID] = true
	}
	return ids
}

func (s Store) freshID(taken map[string]bool) string {
	gen := s.newID
	if gen == nil {
		gen = uuid.NewString
	}
	for {
		id := gen()
		if _, used := taken[id]; !used && id != "" {
			return id
		}
	}
}
