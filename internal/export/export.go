// Package export renders scenes to files instead of the terminal.
package export

import (
	"encoding/json"
	"fmt"
	"io"

	"bikeheat/internal/hexbin"
	"bikeheat/internal/scene"
)

// Exporter is a one-shot scene.Renderer: it keeps the last scene it was given
// and never emits pointer events.
type Exporter struct {
	scene  scene.Scene
	passes int
}

func New() *Exporter { return &Exporter{} }

func (e *Exporter) SetScene(s scene.Scene) {
	e.scene = s
	e.passes++
}

func (e *Exporter) OnHover(func(*hexbin.Bin))               {}
func (e *Exporter) OnViewStateChange(func(scene.ViewState)) {}

func (e *Exporter) Scene() scene.Scene { return e.scene }

func (e *Exporter) Passes() int { return e.passes }

type jsonLayer struct {
	Type string `json:"@@type"`
	scene.HexagonLayer
	Data        [][3]float64 `json:"data"`
	GetPosition string       `json:"getPosition"`
}

type jsonEffect struct {
	Type string `json:"@@type"`
	scene.LightingEffect
}

type jsonScene struct {
	InitialViewState scene.ViewState `json:"initialViewState"`
	Controller       bool            `json:"controller"`
	MapStyle         string          `json:"mapStyle"`
	Layers           []jsonLayer     `json:"layers"`
	Effects          []jsonEffect    `json:"effects"`
}

// WriteJSON writes s in the shape of a deck.gl JSON description.
func WriteJSON(w io.Writer, s scene.Scene) error {
	out := jsonScene{
		InitialViewState: s.InitialViewState,
		Controller:       true,
		MapStyle:         s.MapStyle,
		Layers:           make([]jsonLayer, 0, len(s.Layers)),
		Effects:          make([]jsonEffect, 0, len(s.Effects)),
	}
	for _, l := range s.Layers {
		data := make([][3]float64, len(l.Data))
		for i, p := range l.Data {
			data[i] = [3]float64{p.Lon, p.Lat, float64(p.Year)}
		}
		out.Layers = append(out.Layers, jsonLayer{
			Type:         "HexagonLayer",
			HexagonLayer: l,
			Data:         data,
			GetPosition:  "@@=-",
		})
	}
	for _, e := range s.Effects {
		out.Effects = append(out.Effects, jsonEffect{Type: "LightingEffect", LightingEffect: e})
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("export json: %w", err)
	}
	return nil
}
