package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	table "github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"

	"bikeheat/internal/geom"
	"bikeheat/internal/hexbin"
	"bikeheat/internal/scene"
	"bikeheat/internal/state"
	"bikeheat/internal/tooltip"
)

// Options configures a session.
type Options struct {
	Source       string
	FetchTimeout time.Duration
	MapStyle     string
	Params       state.Params
}

type Model struct {
	width  int
	height int

	status string

	opts    Options
	filter  *state.Filter
	binding *scene.Binding
	mv      *mapView

	// control panel
	sliders []slider
	focus   int

	keys keyMap
	help help.Model

	// dataset
	loading bool
	stats   geom.Stats

	// pointer
	dragging bool
	lastX    int
	lastY    int
	hovered  *hexbin.Bin
	tooltip  string

	// per-year table
	showYears bool
	tbl       table.Model

	ticking bool
}

// New builds the model and renders the empty scene; the dataset arrives
// through Init.
func New(opts Options) *Model {
	if opts.Source == "" {
		opts.Source = geom.DefaultSource
	}
	m := &Model{
		status:  "loading " + opts.Source,
		opts:    opts,
		sliders: newSliders(),
		keys:    defaultKeys(),
		help:    help.New(),
		loading: true,
		tbl:     table.New(table.WithFocused(true), table.WithHeight(12)),
	}
	m.filter = state.New(opts.Params)
	m.mv = newMapView()
	m.mv.OnHover(m.setHover)
	m.mv.OnViewStateChange(m.viewChanged)
	m.binding = scene.Bind(m.filter, m.mv, opts.MapStyle)
	return m
}

func (m *Model) Init() tea.Cmd { return loadDataset(m.opts.Source, m.opts.FetchTimeout) }

func (m *Model) setHover(b *hexbin.Bin) {
	m.hovered = b
	m.tooltip, _ = tooltip.Format(b)
}

func (m *Model) viewChanged(vs scene.ViewState) {
	m.status = fmt.Sprintf("lon=%.5f lat=%.5f zoom=%.1f pitch=%.0f° bearing=%.0f°",
		vs.Longitude, vs.Latitude, vs.Zoom, vs.Pitch, vs.Bearing)
}

// Passes reports how many scenes have been rendered this session.
func (m *Model) Passes() int { return m.binding.Passes() }
