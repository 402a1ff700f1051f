package update

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/log"
	"github.com/sandeepkv93/focusdeck/internal/logging"
	"github.com/sandeepkv93/focusdeck/internal/model"
	"github.com/sandeepkv93/focusdeck/internal/scheduler"
	"github.com/sandeepkv93/focusdeck/internal/sound"
	"github.com/sandeepkv93/focusdeck/internal/storage"
	"github.com/sandeepkv93/focusdeck/internal/timer"
)

type View string

const (
	ViewDeck      View = "Deck"
	ViewNotes     View = "Notes"
	ViewHistory   View = "History"
	ViewTemplates View = "Templates"
)

const (
	advanceEventID   = "advance"
	historyDays      = 7
	historyLimit     = 50
	maxNotifications = 40
	storageTimeout   = 3 * time.Second
)

type StatusBar struct {
	Text    string
	IsError bool
}

type GlobalKeyMap struct {
	Deck      string
	Notes     string
	History   string
	Templates string
	Help      string
	Quit      string
}

type CommandPaletteState struct {
	Active bool
	Input  string
}

type TimeEditorState struct {
	Active bool
	CardID string
	Err    string
}

type NotesState struct {
	Editing bool
	CardID  string
}

type HistoryState struct {
	Entries   []model.HistoryEntry
	Summaries []model.DaySummary
	Loaded    bool
	Err       string
}

type TemplatePickerState struct {
	Items     []model.Template
	Matches   []int
	Cursor    int
	Filtering bool
	Query     string
	Err       string
}

type Notification struct {
	Title string
	Body  string
	Level string
	At    time.Time
}

// Deps wires the model to the engine and its collaborators. Only Engine is
// required; a nil Repo disables history, templates and saved preferences.
type Deps struct {
	Engine               *timer.Engine
	Scheduler            *scheduler.Engine
	Ticker               *scheduler.Ticker
	Repo                 storage.Repository
	Chime                *sound.CompletionChime
	Notifier             DesktopNotifier
	Logger               *log.Logger
	Preferences          model.Preferences
	DesktopNotifications bool
	Now                  func() time.Time
}

type Model struct {
	CurrentView    View
	Engine         *timer.Engine
	Scheduler      *scheduler.Engine
	Ticker         *scheduler.Ticker
	Repo           storage.Repository
	Prefs          model.Preferences
	Palette        CommandPaletteState
	TimeEditor     TimeEditorState
	Notes          NotesState
	History        HistoryState
	Templates      TemplatePickerState
	TodaySessions  int
	HelpVisible    bool
	Notifications  []Notification
	DesktopEnabled bool
	notifier       DesktopNotifier
	chime          *sound.CompletionChime
	logger         *log.Logger
	now            func() time.Time
	Status         StatusBar
	Keys           GlobalKeyMap
	Quitting       bool
	LastError      error
	// Bubble components used for rich TUI controls
	commandInput   textinput.Model
	timeInput      textinput.Model
	filterInput    textinput.Model
	notesArea      textarea.Model
	cardProgress   progress.Model
	goalProgress   progress.Model
	historyTable   table.Model
	previewPort    viewport.Model
	helpModel      help.Model
	previewContent string
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

// TickMsg carries a wall-clock reading from the ticker.
type TickMsg struct {
	At time.Time
}

// AdvanceDueMsg fires when the settle delay of an auto-advance has passed.
type AdvanceDueMsg struct {
	Event        scheduler.Event
	viaScheduler bool
}

type HistoryLoadedMsg struct {
	Entries       []model.HistoryEntry
	Summaries     []model.DaySummary
	TodaySessions int
	Err           error
}

type TemplatesLoadedMsg struct {
	Items []model.Template
	Err   error
}

func NewModel(deps Deps) Model {
	engine := deps.Engine
	if engine == nil {
		engine = timer.New(nil)
	}
	prefs := deps.Preferences
	if prefs.Validate() != nil {
		prefs = model.DefaultPreferences()
	}
	logger := deps.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	m := Model{
		CurrentView:    ViewDeck,
		Engine:         engine,
		Scheduler:      deps.Scheduler,
		Ticker:         deps.Ticker,
		Repo:           deps.Repo,
		Prefs:          prefs,
		DesktopEnabled: deps.DesktopNotifications,
		notifier:       deps.Notifier,
		chime:          deps.Chime,
		logger:         logger,
		now:            now,
		Keys: GlobalKeyMap{
			Deck:      "1",
			Notes:     "2",
			History:   "3",
			Templates: "4",
			Help:      "?",
			Quit:      "q",
		},
	}
	if m.notifier == nil {
		m.notifier = NoopDesktopNotifier{}
	}
	m.initBubbleComponents()
	m.syncBubbleData()
	return m
}
