package cli

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	cli "github.com/urfave/cli/v2"

	"bikeheat/internal/config"
	"bikeheat/internal/export"
	"bikeheat/internal/geom"
	"bikeheat/internal/scene"
	"bikeheat/internal/state"
	"bikeheat/internal/tui"
)

var (
	configFlag = &cli.StringFlag{
		Name:  "config",
		Usage: "Path to a TOML configuration file",
	}
	dataFlag = &cli.StringFlag{
		Name:  "data",
		Usage: "Incident CSV, a file path or an http(s) URL (overrides data.source)",
	}

	// Export flags
	yearFlag = &cli.IntFlag{
		Name:  "year",
		Usage: "Year to export (overrides defaults.year)",
	}
	radiusFlag = &cli.IntFlag{
		Name:  "radius",
		Usage: "Hexagon radius in meters (overrides defaults.radius)",
	}
	minFlag = &cli.IntFlag{
		Name:  "min",
		Usage: "Lower bound of the color and elevation domain (overrides defaults.minValue)",
	}
	jsonFlag = &cli.StringFlag{
		Name:  "json",
		Usage: "Write the scene as deck.gl JSON to this path",
	}
	htmlFlag = &cli.StringFlag{
		Name:  "html",
		Usage: "Write an interactive 3D bar chart to this path",
	}
)

// loadConfig resolves built-in defaults, then the config file, then flags.
func loadConfig(c *cli.Context) (config.Config, error) {
	cfg := config.Default()
	if path := c.String("config"); path != "" {
		var err error
		if cfg, err = config.Load(path); err != nil {
			return config.Config{}, err
		}
	}
	if src := c.String("data"); src != "" {
		cfg.Data.Source = src
	}
	if c.IsSet("year") {
		cfg.Defaults.Year = c.Int("year")
	}
	if c.IsSet("radius") {
		cfg.Defaults.Radius = c.Int("radius")
	}
	if c.IsSet("min") {
		cfg.Defaults.MinValue = c.Int("min")
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

func handleView(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	if cfg.Log.File != "" {
		f, err := tea.LogToFile(cfg.Log.File, "bikeheat")
		if err != nil {
			return fmt.Errorf("log file: %w", err)
		}
		defer f.Close()
	} else {
		log.SetOutput(io.Discard)
	}

	m := tui.New(tui.Options{
		Source:       cfg.Data.Source,
		FetchTimeout: cfg.Data.FetchTimeout,
		MapStyle:     cfg.View.MapStyle,
		Params:       cfg.Params(),
	})
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseAllMotion(), tea.WithContext(c.Context))
	_, err = p.Run()
	return err
}

func handleExport(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	jsonPath, htmlPath := c.String("json"), c.String("html")
	if jsonPath == "" && htmlPath == "" {
		return fmt.Errorf("export: at least one of --json or --html is required")
	}
	log.SetOutput(c.App.ErrWriter)

	sc, err := buildScene(c.Context, cfg)
	if err != nil {
		return err
	}
	if jsonPath != "" {
		if err := writeFile(jsonPath, func(w io.Writer) error { return export.WriteJSON(w, sc) }); err != nil {
			return err
		}
		log.Printf("wrote %s", jsonPath)
	}
	if htmlPath != "" {
		title := fmt.Sprintf("Vancouver Bike Thefts %d", cfg.Defaults.Year)
		if err := writeFile(htmlPath, func(w io.Writer) error { return export.WriteHTML(w, sc, title) }); err != nil {
			return err
		}
		log.Printf("wrote %s", htmlPath)
	}
	return nil
}

// buildScene runs one load through the same filter and binding the TUI uses.
func buildScene(ctx context.Context, cfg config.Config) (scene.Scene, error) {
	if cfg.Data.FetchTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Data.FetchTimeout)
		defer cancel()
	}
	points, st, err := geom.LoadIncidents(ctx, cfg.Data.Source)
	if err != nil {
		return scene.Scene{}, err
	}
	log.Printf("dataset: %d rows, %d kept, %d dropped", st.Rows, st.Kept(), st.Dropped)

	f := state.New(cfg.Params())
	exp := export.New()
	scene.Bind(f, exp, cfg.View.MapStyle)
	f.SetData(points)
	return exp.Scene(), nil
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}

var App = &cli.App{
	Name:   "bikeheat",
	Usage:  "Explore Vancouver bicycle thefts as a 3D hexagon heatmap",
	Flags:  []cli.Flag{configFlag, dataFlag},
	Action: handleView,
	Commands: []*cli.Command{
		{
			Name:   "view",
			Usage:  "Open the interactive heatmap (default)",
			Flags:  []cli.Flag{configFlag, dataFlag},
			Action: handleView,
		},
		{
			Name:  "export",
			Usage: "Render one year to deck.gl JSON and/or an HTML chart",
			Flags: []cli.Flag{
				configFlag,
				dataFlag,
				yearFlag,
				radiusFlag,
				minFlag,
				jsonFlag,
				htmlFlag,
			},
			Action: handleExport,
		},
	},
}
