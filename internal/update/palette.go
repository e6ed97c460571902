package update

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/playroom/internal/commands"
	"github.com/sandeepkv93/playroom/internal/model"
	"github.com/sandeepkv93/playroom/internal/schedule"
)

func (m Model) handlePaletteKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.closePalette()
		m.Status = StatusBar{Text: "command palette closed"}
		return m, nil
	case "enter":
		m.Palette.Input = m.commandInput.Value()
		return m.executePaletteCommand()
	default:
		if msg.Type == tea.KeyRunes {
			m.commandInput.SetValue(m.commandInput.Value() + string(msg.Runes))
			m.Palette.Input = m.commandInput.Value()
			return m, nil
		}
		var cmd tea.Cmd
		m.commandInput, cmd = m.commandInput.Update(msg)
		m.Palette.Input = m.commandInput.Value()
		return m, cmd
	}
}

func (m *Model) closePalette() {
	m.Palette.Active = false
	m.Palette.Input = ""
	m.commandInput.SetValue("")
	m.commandInput.Blur()
}

func (m Model) executePaletteCommand() (Model, tea.Cmd) {
	cmd, err := commands.Parse(strings.TrimSpace(m.Palette.Input))
	if err != nil {
		m.reportResult("", err)
		m.closePalette()
		return m, nil
	}

	var follow tea.Cmd
	res, err := commands.Execute(cmd, commands.Handlers{
		Add: func(a commands.AddArgs) (commands.Result, error) {
			return m.addEvent(a)
		},
		Set: func(a commands.SetArgs) (commands.Result, error) {
			return m.setEvent(a)
		},
		Remove: func(a commands.RemoveArgs) (commands.Result, error) {
			ev, err := m.resolveEvent(a.Ref)
			if err != nil {
				return commands.Result{}, err
			}
			return m.removeEvent(ev)
		},
		Preset: func(a commands.PresetArgs) (commands.Result, error) {
			if a.Action == commands.PresetSave {
				return m.savePreset(a.Arg)
			}
			tpl, err := m.resolvePreset(a.Arg)
			if err != nil {
				return commands.Result{}, err
			}
			switch a.Action {
			case commands.PresetLoad:
				return m.loadPreset(tpl)
			case commands.PresetRename:
				return m.renamePreset(tpl, a.Name)
			}
			return m.deletePreset(tpl)
		},
		Magic: func(a commands.MagicArgs) (commands.Result, error) {
			on := m.ShowMagic
			switch a.Mode {
			case commands.ToggleOn:
				on = true
			case commands.ToggleOff:
				on = false
			default:
				on = !on
			}
			var err error
			follow, err = m.setMagic(on)
			return commands.Result{Message: magicStatus(on)}, err
		},
		Clock: func(a commands.ClockArgs) (commands.Result, error) {
			switch a.Mode {
			case string(ClockFull):
				m.ClockMode = ClockFull
			case string(ClockMinimal):
				m.ClockMode = ClockMinimal
			default:
				m.ClockMode = toggleClock(m.ClockMode)
			}
			return commands.Result{Message: fmt.Sprintf("clock: %s", m.ClockMode)}, nil
		},
		Defaults: func() (commands.Result, error) {
			if err := m.applyStore(m.Store.ReplaceAll(model.DefaultEvents())); err != nil {
				return commands.Result{}, err
			}
			return commands.Result{Message: "default schedule restored"}, nil
		},
	})
	m.reportResult(res.Message, err)
	m.closePalette()
	return m, follow
}

func (m *Model) addEvent(a commands.AddArgs) (commands.Result, error) {
	ev := model.Event{
		Title:     a.Title,
		StartTime: a.StartTime,
		EndTime:   a.EndTime,
		Days:      a.Days,
		Icon:      a.Icon,
		Color:     a.Color,
	}
	if ev.Icon == "" {
		ev.Icon = model.DefaultIcon
	}
	if ev.Color == "" {
		ev.Color = model.PresetColors[m.Store.Len()%len(model.PresetColors)]
	}
	if err := ev.ValidateSchedule(); err != nil {
		return commands.Result{}, invalidArgument(err)
	}
	next, stored := m.Store.Add(ev)
	m.scheduleCursor = next.Len() - 1
	if err := m.applyStore(next); err != nil {
		return commands.Result{}, err
	}
	return commands.Result{Message: fmt.Sprintf("added %s (%s-%s)", stored.Title, stored.StartTime, stored.EndTime)}, nil
}

func (m *Model) setEvent(a commands.SetArgs) (commands.Result, error) {
	ev, err := m.resolveEvent(a.Ref)
	if err != nil {
		return commands.Result{}, err
	}
	if a.Title != nil {
		ev.Title = *a.Title
	}
	if a.StartTime != nil {
		ev.StartTime = *a.StartTime
	}
	if a.EndTime != nil {
		ev.EndTime = *a.EndTime
	}
	if a.DaysSet {
		ev.Days = a.Days
	}
	if a.Icon != nil {
		ev.Icon = *a.Icon
	}
	if a.Color != nil {
		ev.Color = *a.Color
	}
	if err := ev.ValidateSchedule(); err != nil {
		return commands.Result{}, invalidArgument(err)
	}
	next, ok := m.Store.Replace(ev)
	if !ok {
		return commands.Result{}, notFound("event", a.Ref)
	}
	if err := m.applyStore(next); err != nil {
		return commands.Result{}, err
	}
	return commands.Result{Message: fmt.Sprintf("updated %s", ev.Title)}, nil
}

func (m *Model) removeEvent(ev model.Event) (commands.Result, error) {
	next, ok := m.Store.Remove(ev.ID)
	if !ok {
		return commands.Result{}, notFound("event", ev.ID)
	}
	if err := m.applyStore(next); err != nil {
		return commands.Result{}, err
	}
	return commands.Result{Message: fmt.Sprintf("removed %s", ev.Title)}, nil
}

func (m *Model) savePreset(name string) (commands.Result, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return commands.Result{}, &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: "preset name is required"}
	}
	events := m.Store.Events()
	tpl := model.Template{ID: m.newID(), Name: name, Events: events, CreatedAt: m.now()}
	if m.persist != nil {
		saved, err := m.persist.SavePreset(context.Background(), name, events)
		if err != nil {
			m.logger.Error("save preset failed", "name", name, "err", err)
			return commands.Result{}, fmt.Errorf("save preset: %w", err)
		}
		tpl = saved
	}
	m.Presets = append(m.Presets, tpl)
	m.presetCursor = len(m.Presets) - 1
	return commands.Result{Message: fmt.Sprintf("saved preset %s (%d events)", tpl.Name, len(tpl.Events))}, nil
}

func (m *Model) loadPreset(tpl model.Template) (commands.Result, error) {
	m.scheduleCursor = 0
	if err := m.applyStore(m.Store.ReplaceAll(tpl.Events)); err != nil {
		return commands.Result{}, err
	}
	return commands.Result{Message: fmt.Sprintf("loaded preset %s (%d events)", tpl.Name, m.Store.Len())}, nil
}

func (m *Model) renamePreset(tpl model.Template, name string) (commands.Result, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return commands.Result{}, &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: "preset name is required"}
	}
	renamed := tpl
	renamed.Name = name
	if m.persist != nil {
		stored, err := m.persist.RenamePreset(context.Background(), tpl.ID, name)
		if err != nil {
			m.logger.Error("rename preset failed", "preset_id", tpl.ID, "err", err)
			return commands.Result{}, fmt.Errorf("rename preset: %w", err)
		}
		renamed = stored
	}
	for i := range m.Presets {
		if m.Presets[i].ID == tpl.ID {
			m.Presets[i] = renamed
		}
	}
	return commands.Result{Message: fmt.Sprintf("renamed preset %s to %s", tpl.Name, renamed.Name)}, nil
}

func (m *Model) deletePreset(tpl model.Template) (commands.Result, error) {
	if m.persist != nil {
		if err := m.persist.DeletePreset(context.Background(), tpl.ID); err != nil {
			m.logger.Error("delete preset failed", "preset_id", tpl.ID, "err", err)
			return commands.Result{}, fmt.Errorf("delete preset: %w", err)
		}
	}
	out := m.Presets[:0:0]
	for _, cur := range m.Presets {
		if cur.ID != tpl.ID {
			out = append(out, cur)
		}
	}
	m.Presets = out
	return commands.Result{Message: fmt.Sprintf("deleted preset %s", tpl.Name)}, nil
}

// setMagic switches the flavor panel and persists the choice. Turning it on
// requests a fresh message right away; turning it off discards any reply
// still in flight.
func (m *Model) setMagic(on bool) (tea.Cmd, error) {
	m.ShowMagic = on
	var cmd tea.Cmd
	if on && m.refresh != nil {
		m.refresh.Reset()
		cmd = m.maybeRefreshMagic(m.now())
	} else if !on {
		m.Magic.Loading = false
		m.Magic.Seq++
	}
	if m.persist != nil {
		if err := m.persist.SetShowMagic(context.Background(), on); err != nil {
			m.logger.Error("save magic setting failed", "err", err)
			return cmd, fmt.Errorf("save magic setting: %w", err)
		}
	}
	return cmd, nil
}

// applyStore commits next as the working collection, reprojects it and
// persists it.
func (m *Model) applyStore(next schedule.Store) error {
	m.Store = next
	m.reproject(m.now())
	if m.persist == nil {
		return nil
	}
	if err := m.persist.SaveEvents(context.Background(), m.Store.Events()); err != nil {
		m.logger.Error("save events failed", "count", m.Store.Len(), "err", err)
		return fmt.Errorf("save events: %w", err)
	}
	return nil
}

// resolveEvent finds an event by 1-based position, then id, then title.
func (m Model) resolveEvent(ref string) (model.Event, error) {
	ref = strings.TrimSpace(ref)
	events := m.Store.Events()
	if n, err := strconv.Atoi(ref); err == nil && n >= 1 && n <= len(events) {
		return events[n-1], nil
	}
	if ev, ok := m.Store.Get(ref); ok {
		return ev, nil
	}
	for _, ev := range events {
		if strings.EqualFold(ev.Title, ref) {
			return ev, nil
		}
	}
	return model.Event{}, notFound("event", ref)
}

// resolvePreset finds a preset by 1-based position, then id, then name.
func (m Model) resolvePreset(ref string) (model.Template, error) {
	ref = strings.TrimSpace(ref)
	if n, err := strconv.Atoi(ref); err == nil && n >= 1 && n <= len(m.Presets) {
		return m.Presets[n-1], nil
	}
	for _, tpl := range m.Presets {
		if tpl.ID == ref {
			return tpl, nil
		}
	}
	for _, tpl := range m.Presets {
		if strings.EqualFold(tpl.Name, ref) {
			return tpl, nil
		}
	}
	return model.Template{}, notFound("preset", ref)
}

func notFound(kind, ref string) error {
	return &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: fmt.Sprintf("no %s matches %q", kind, ref)}
}

func invalidArgument(err error) error {
	return &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: err.Error()}
}
