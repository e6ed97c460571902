package model

import (
	"errors"
	"strings"
	"time"
)

// Template is a named preset bundling a complete event list.
type Template struct {
	ID        string    `json:"id" yaml:"id"`
	Name      string    `json:"name" yaml:"name"`
	Events    []Event   `json:"events" yaml:"events"`
	CreatedAt time.Time `json:"createdAt,omitzero" yaml:"created_at,omitempty"`
}

func (t Template) Validate() error {
	if strings.TrimSpace(t.ID) == "" {
		return errors.New("model: template id is required")
	}
	if strings.TrimSpace(t.Name) == "" {
		return errors.New("model: template name is required")
	}
	return nil
}

func CloneEvents(in []Event) []Event {
	out := make([]Event, 0, len(in))
	for _, ev := range in {
		out = append(out, ev.Clone())
	}
	return out
}
