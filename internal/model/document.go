package model

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// Document is the persisted/exported shape: the working event list plus the
// saved presets.
type Document struct {
	Events  []Event    `json:"events" yaml:"events"`
	Presets []Template `json:"presets" yaml:"presets"`
}

// DecodeIssue describes one record dropped while decoding.
type DecodeIssue struct {
	Path string
	ID   string
	Err  error
}

func (i DecodeIssue) Error() string {
	if i.ID != "" {
		return fmt.Sprintf("%s (id=%s): %v", i.Path, i.ID, i.Err)
	}
	return fmt.Sprintf("%s: %v", i.Path, i.Err)
}

func (i DecodeIssue) Unwrap() error { return i.Err }

// ValidateEvents keeps the records that satisfy the event invariants, in order,
// and reports the rest. Ids may be empty.
func ValidateEvents(path string, in []Event) ([]Event, []DecodeIssue) {
	out := make([]Event, 0, len(in))
	var issues []DecodeIssue
	for i, ev := range in {
		if err := ev.ValidateSchedule(); err != nil {
			issues = append(issues, DecodeIssue{Path: fmt.Sprintf("%s[%d]", path, i), ID: ev.ID, Err: err})
			continue
		}
		out = append(out, ev.Clone())
	}
	return out, issues
}

// DecodeDocument parses data and drops every record that does not satisfy the
// model invariants. The error is reserved for payloads that are not a document
// at all. A bare JSON or YAML list is read as an event list.
func DecodeDocument(data []byte, format Format) (Document, []DecodeIssue, error) {
	switch format {
	case FormatYAML:
		return decodeYAML(data)
	case FormatJSON, "":
		return decodeJSON(data)
	default:
		return Document{}, nil, fmt.Errorf("model: unsupported document format %q", format)
	}
}

func EncodeDocument(doc Document, format Format) ([]byte, error) {
	if doc.Events == nil {
		doc.Events = []Event{}
	}
	if doc.Presets == nil {
		doc.Presets = []Template{}
	}
	switch format {
	case FormatYAML:
		return yaml.Marshal(doc)
	case FormatJSON, "":
		out, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			return nil, err
		}
		return append(out, '\n'), nil
	default:
		return nil, fmt.Errorf("model: unsupported document format %q", format)
	}
}

type jsonDocument struct {
	Events  []json.RawMessage `json:"events"`
	Presets []json.RawMessage `json:"presets"`
}

type jsonTemplate struct {
	ID        string            `json:"id"`
	Name      string            `json:"name"`
	Events    []json.RawMessage `json:"events"`
	CreatedAt time.Time         `json:"createdAt"`
}

func decodeJSON(data []byte) (Document, []DecodeIssue, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return Document{Events: []Event{}}, nil, nil
	}

	var raw jsonDocument
	if trimmed[0] == '[' {
		if err := json.Unmarshal(trimmed, &raw.Events); err != nil {
			return Document{}, nil, fmt.Errorf("decode event list: %w", err)
		}
	} else if err := json.Unmarshal(trimmed, &raw); err != nil {
		return Document{}, nil, fmt.Errorf("decode document: %w", err)
	}

	var doc Document
	var issues []DecodeIssue
	doc.Events, issues = decodeJSONEvents("events", raw.Events)

	for i, item := range raw.Presets {
		path := fmt.Sprintf("presets[%d]", i)
		var tpl jsonTemplate
		if err := json.Unmarshal(item, &tpl); err != nil {
			issues = append(issues, DecodeIssue{Path: path, Err: err})
			continue
		}
		events, evIssues := decodeJSONEvents(path+".events", tpl.Events)
		issues = append(issues, evIssues...)
		preset := Template{ID: tpl.ID, Name: strings.TrimSpace(tpl.Name), Events: events, CreatedAt: tpl.CreatedAt}
		if err := validatePresetName(preset); err != nil {
			issues = append(issues, DecodeIssue{Path: path, ID: tpl.ID, Err: err})
			continue
		}
		doc.Presets = append(doc.Presets, preset)
	}
	return doc, issues, nil
}

func decodeJSONEvents(path string, items []json.RawMessage) ([]Event, []DecodeIssue) {
	decoded := make([]Event, 0, len(items))
	var issues []DecodeIssue
	for i, item := range items {
		var ev Event
		if err := json.Unmarshal(item, &ev); err != nil {
			issues = append(issues, DecodeIssue{Path: fmt.Sprintf("%s[%d]", path, i), Err: err})
			decoded = append(decoded, Event{})
			continue
		}
		decoded = append(decoded, ev)
	}
	return validateDecoded(path, decoded, issues)
}

type yamlDocument struct {
	Events  []yaml.Node `yaml:"events"`
	Presets []yaml.Node `yaml:"presets"`
}

type yamlTemplate struct {
	ID        string      `yaml:"id"`
	Name      string      `yaml:"name"`
	Events    []yaml.Node `yaml:"events"`
	CreatedAt time.Time   `yaml:"created_at"`
}

type yamlEvent struct {
	ID        string    `yaml:"id"`
	Title     string    `yaml:"title"`
	StartTime string    `yaml:"start_time"`
	EndTime   string    `yaml:"end_time"`
	Days      yaml.Node `yaml:"days"`
	Color     string    `yaml:"color"`
	Icon      string    `yaml:"icon"`
}

func decodeYAML(data []byte) (Document, []DecodeIssue, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return Document{}, nil, fmt.Errorf("decode document: %w", err)
	}
	if len(root.Content) == 0 {
		return Document{Events: []Event{}}, nil, nil
	}

	var raw yamlDocument
	node := root.Content[0]
	switch node.Kind {
	case yaml.SequenceNode:
		for _, child := range node.Content {
			raw.Events = append(raw.Events, *child)
		}
	case yaml.MappingNode:
		if err := node.Decode(&raw); err != nil {
			return Document{}, nil, fmt.Errorf("decode document: %w", err)
		}
	default:
		return Document{}, nil, errors.New("decode document: expected a mapping or a list")
	}

	var doc Document
	var issues []DecodeIssue
	doc.Events, issues = decodeYAMLEvents("events", raw.Events)

	for i := range raw.Presets {
		path := fmt.Sprintf("presets[%d]", i)
		var tpl yamlTemplate
		if err := raw.Presets[i].Decode(&tpl); err != nil {
			issues = append(issues, DecodeIssue{Path: path, Err: err})
			continue
		}
		events, evIssues := decodeYAMLEvents(path+".events", tpl.Events)
		issues = append(issues, evIssues...)
		preset := Template{ID: tpl.ID, Name: strings.TrimSpace(tpl.Name), Events: events, CreatedAt: tpl.CreatedAt}
		if err := validatePresetName(preset); err != nil {
			issues = append(issues, DecodeIssue{Path: path, ID: tpl.ID, Err: err})
			continue
		}
		doc.Presets = append(doc.Presets, preset)
	}
	return doc, issues, nil
}

func decodeYAMLEvents(path string, nodes []yaml.Node) ([]Event, []DecodeIssue) {
	decoded := make([]Event, 0, len(nodes))
	var issues []DecodeIssue
	for i := range nodes {
		ev, err := decodeYAMLEvent(&nodes[i])
		if err != nil {
			issues = append(issues, DecodeIssue{Path: fmt.Sprintf("%s[%d]", path, i), ID: ev.ID, Err: err})
			decoded = append(decoded, Event{})
			continue
		}
		decoded = append(decoded, ev)
	}
	return validateDecoded(path, decoded, issues)
}

func decodeYAMLEvent(node *yaml.Node) (Event, error) {
	var raw yamlEvent
	if err := node.Decode(&raw); err != nil {
		return Event{}, err
	}
	ev := Event{
		ID:        raw.ID,
		Title:     raw.Title,
		StartTime: raw.StartTime,
		EndTime:   raw.EndTime,
		Color:     raw.Color,
		Icon:      raw.Icon,
		Days:      []time.Weekday{},
	}
	switch raw.Days.Kind {
	case 0:
	case yaml.ScalarNode:
		days, err := ParseWeekdays(raw.Days.Value)
		if err != nil {
			return ev, err
		}
		ev.Days = days
	case yaml.SequenceNode:
		days := make([]time.Weekday, 0, len(raw.Days.Content))
		for _, item := range raw.Days.Content {
			d, ok := weekdayToken(strings.ToLower(strings.TrimSpace(item.Value)))
			if item.Kind != yaml.ScalarNode || !ok {
				return ev, fmt.Errorf("%w: %q", ErrInvalidWeekday, item.Value)
			}
			days = append(days, d)
		}
		ev.Days = days
	default:
		return ev, fmt.Errorf("%w: days must be a list or a day expression", ErrInvalidWeekday)
	}
	return ev, nil
}

// validateDecoded drops the placeholders of records that failed to unmarshal
// (already reported) and validates the rest.
func validateDecoded(path string, decoded []Event, issues []DecodeIssue) ([]Event, []DecodeIssue) {
	failed := make(map[string]bool, len(issues))
	for _, issue := range issues {
		failed[issue.Path] = true
	}
	out := make([]Event, 0, len(decoded))
	for i, ev := range decoded {
		itemPath := fmt.Sprintf("%s[%d]", path, i)
		if failed[itemPath] {
			continue
		}
		if err := ev.ValidateSchedule(); err != nil {
			issues = append(issues, DecodeIssue{Path: itemPath, ID: ev.ID, Err: err})
			continue
		}
		out = append(out, ev.Clone())
	}
	return out, issues
}

func validatePresetName(t Template) error {
	if t.Name == "" {
		return errors.New("model: template name is required")
	}
	return nil
}
