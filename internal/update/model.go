package update

import (
	"context"
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	"github.com/google/uuid"

	"github.com/sandeepkv93/playroom/internal/flavor"
	"github.com/sandeepkv93/playroom/internal/logging"
	"github.com/sandeepkv93/playroom/internal/model"
	"github.com/sandeepkv93/playroom/internal/schedule"
)

type View string

const (
	ViewToday    View = "Today"
	ViewSchedule View = "Schedule"
	ViewPresets  View = "Presets"
)

type StatusBar struct {
	Text    string
	IsError bool
}

type GlobalKeyMap struct {
	Today    string
	Schedule string
	Presets  string
	Magic    string
	Clock    string
	Help     string
	Quit     string
}

type MagicState struct {
	Message string
	Loading bool
	// Seq identifies the latest request; replies carrying an older value are stale.
	Seq int
}

type CommandPaletteState struct {
	Active bool
	Input  string
}

type Notification struct {
	Title string
	Body  string
	Level string
	At    time.Time
}

// Persistence receives every committed change. *workspace.Workspace
// satisfies it.
type Persistence interface {
	SaveEvents(ctx context.Context, events []model.Event) error
	SavePreset(ctx context.Context, name string, events []model.Event) (model.Template, error)
	RenamePreset(ctx context.Context, id, name string) (model.Template, error)
	DeletePreset(ctx context.Context, id string) error
	SetShowMagic(ctx context.Context, on bool) error
}

type Model struct {
	CurrentView   View
	Store         schedule.Store
	Presets       []model.Template
	Snapshot      schedule.Snapshot
	ShowMagic     bool
	Magic         MagicState
	ClockMode     ClockMode
	Palette       CommandPaletteState
	HelpVisible   bool
	Notifications []Notification
	Status        StatusBar
	Keys          GlobalKeyMap
	Quitting      bool
	LastError     error

	scheduleCursor int
	presetCursor   int

	projector    schedule.Projector
	refresh      *schedule.RefreshTrigger
	magicTimeout time.Duration
	tickInterval time.Duration
	ticks        <-chan time.Time
	persist      Persistence
	flavor       flavor.Provider
	logger       *slog.Logger
	now          func() time.Time
	newID        func() string
	loggedIssues map[string]bool

	scheduleTable    table.Model
	presetList       list.Model
	commandInput     textinput.Model
	magicSpinner     spinner.Model
	activeProgress   progress.Model
	helpModel        help.Model
	timelineViewport viewport.Model
}

type listItem struct {
	title       string
	description string
}

func (i listItem) FilterValue() string { return i.title + " " + i.description }
func (i listItem) Title() string       { return i.title }
func (i listItem) Description() string { return i.description }

type TickMsg struct {
	Now time.Time
}

type MagicMsg struct {
	Seq     int
	Message string
	Err     error
}

type SwitchViewMsg struct {
	View View
}

type SetStatusMsg struct {
	Text    string
	IsError bool
}

type ClearStatusMsg struct{}

type AppErrorMsg struct {
	Err error
}

// Options wires a Model to its collaborators. Zero values fall back to the
// default configuration, the default schedule, no persistence, the local
// flavor provider and a self-driven tick.
type Options struct {
	Config      RuntimeConfig
	Events      []model.Event
	Presets     []model.Template
	Persistence Persistence
	Flavor      flavor.Provider
	Ticks       <-chan time.Time
	Logger      *slog.Logger
	Now         func() time.Time
	IDFunc      func() string
}

func NewModel() Model {
	return NewModelWithOptions(Options{Events: model.DefaultEvents()})
}

func NewModelWithOptions(opts Options) Model {
	cfg := opts.Config
	if cfg == (RuntimeConfig{}) {
		cfg = DefaultRuntimeConfig()
	}

	m := Model{
		CurrentView:  ViewToday,
		ShowMagic:    cfg.ShowMagic,
		ClockMode:    ClockFull,
		Presets:      append([]model.Template(nil), opts.Presets...),
		magicTimeout: cfg.MagicTimeout,
		tickInterval: cfg.TickInterval,
		ticks:        opts.Ticks,
		persist:      opts.Persistence,
		flavor:       opts.Flavor,
		logger:       opts.Logger,
		now:          opts.Now,
		newID:        opts.IDFunc,
		loggedIssues: make(map[string]bool),
		Keys: GlobalKeyMap{
			Today:    "1",
			Schedule: "2",
			Presets:  "3",
			Magic:    "m",
			Clock:    "c",
			Help:     "?",
			Quit:     "q",
		},
	}
	if m.logger == nil {
		m.logger = logging.Discard()
	}
	if m.now == nil {
		m.now = time.Now
	}
	if m.newID == nil {
		m.newID = uuid.NewString
	}
	if m.flavor == nil {
		m.flavor = flavor.NewLocalProvider()
	}
	if m.tickInterval <= 0 {
		m.tickInterval = time.Second
	}
	if parseClockMode(cfg.ClockMode) == ClockMinimal {
		m.ClockMode = ClockMinimal
	}

	policy, err := schedule.ParsePolicy(cfg.SelectionPolicy)
	if err != nil {
		m.logger.Warn("unknown selection policy, using first", "policy", cfg.SelectionPolicy)
	}
	m.projector = schedule.NewProjector(policy)

	m.refresh, err = schedule.NewRefreshTrigger(cfg.MagicRefresh)
	if err != nil {
		m.logger.Warn("invalid magic refresh spec, using default", "spec", cfg.MagicRefresh, "err", err)
		m.refresh, _ = schedule.NewRefreshTrigger(schedule.DefaultRefreshSpec)
	}

	m.Store = schedule.NewStore(opts.Events, schedule.WithIDFunc(m.newID))
	m.initBubbleComponents()
	m.reproject(m.now())
	m.syncBubbleData()
	return m
}
