package config

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"bikeheat/internal/geom"
	"bikeheat/internal/scene"
	"bikeheat/internal/state"
)

var ErrInvalid = errors.New("invalid configuration")

type Config struct {
	Data     DataConfig     `toml:"data"`
	View     ViewConfig     `toml:"view"`
	Defaults DefaultsConfig `toml:"defaults"`
	Log      LogConfig      `toml:"log"`
}

type DataConfig struct {
	Source string `toml:"source"`
	// FetchTimeout bounds the dataset load; zero means no timeout.
	FetchTimeout time.Duration `toml:"fetchTimeout"`
}

type ViewConfig struct {
	MapStyle string `toml:"mapStyle"`
}

// DefaultsConfig holds the slider positions at startup.
type DefaultsConfig struct {
	Radius   int `toml:"radius"`
	Year     int `toml:"year"`
	MinValue int `toml:"minValue"`
}

type LogConfig struct {
	File string `toml:"file"`
}

func Default() Config {
	p := state.DefaultParams()
	return Config{
		Data:     DataConfig{Source: geom.DefaultSource},
		View:     ViewConfig{MapStyle: scene.MapStyle},
		Defaults: DefaultsConfig{Radius: p.Radius, Year: p.Year, MinValue: p.MinValue},
	}
}

// Load reads a TOML file on top of Default and validates the result.
func Load(path string) (Config, error) {
	cfg := Default()
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	if err := checkUndecoded(md); err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Parse is Load for in-memory TOML.
func Parse(data string) (Config, error) {
	cfg := Default()
	md, err := toml.Decode(data, &cfg)
	if err != nil {
		return Config{}, err
	}
	if err := checkUndecoded(md); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func checkUndecoded(md toml.MetaData) error {
	keys := md.Undecoded()
	if len(keys) == 0 {
		return nil
	}
	names := make([]string, len(keys))
	for i, k := range keys {
		names[i] = k.String()
	}
	sort.Strings(names)
	return fmt.Errorf("%w: unknown keys %s", ErrInvalid, strings.Join(names, ", "))
}

// Validate checks that the configured slider positions are reachable.
func (c Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.Data.Source) == "" {
		errs = append(errs, fmt.Errorf("%w: data.source is empty", ErrInvalid))
	}
	if c.Data.FetchTimeout < 0 {
		errs = append(errs, fmt.Errorf("%w: data.fetchTimeout is negative", ErrInvalid))
	}
	check := func(name string, v int, r state.Range) {
		if !r.Contains(v) || (v-r.Min)%r.Step != 0 {
			errs = append(errs, fmt.Errorf("%w: defaults.%s = %d, want %d..%d step %d", ErrInvalid, name, v, r.Min, r.Max, r.Step))
		}
	}
	check("radius", c.Defaults.Radius, state.RadiusRange)
	check("year", c.Defaults.Year, state.YearRange)
	check("minValue", c.Defaults.MinValue, state.MinValueRange)
	return errors.Join(errs...)
}

func (c Config) Params() state.Params {
	return state.Params{Radius: c.Defaults.Radius, Year: c.Defaults.Year, MinValue: c.Defaults.MinValue}
}
