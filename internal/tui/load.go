package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"bikeheat/internal/geom"
)

type datasetMsg struct {
	points []geom.DataPoint
	stats  geom.Stats
	err    error
}

type frameMsg time.Time

const frameInterval = 50 * time.Millisecond

// loadDataset reads the incident file off the UI loop. It runs once per session.
func loadDataset(source string, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		if timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}
		points, st, err := geom.LoadIncidents(ctx, source)
		return datasetMsg{points: points, stats: st, err: err}
	}
}

func nextFrame() tea.Cmd {
	return tea.Tick(frameInterval, func(t time.Time) tea.Msg { return frameMsg(t) })
}
