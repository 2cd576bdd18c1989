package scene

import (
	"bikeheat/internal/hexbin"
	"bikeheat/internal/state"
)

// Scene is everything a renderer needs for one pass.
type Scene struct {
	Layers           []HexagonLayer
	Effects          []LightingEffect
	InitialViewState ViewState
	MapStyle         string
}

// Renderer draws scenes and reports pointer interaction back.
type Renderer interface {
	SetScene(Scene)
	OnHover(func(*hexbin.Bin))
	OnViewStateChange(func(ViewState))
}

// Build maps filter state to a scene. The layer is left out until data has loaded.
func Build(s state.Snapshot, mapStyle string, effects []LightingEffect) Scene {
	sc := Scene{
		Effects:          effects,
		InitialViewState: InitialViewState,
		MapStyle:         mapStyle,
	}
	if s.Loaded {
		sc.Layers = []HexagonLayer{NewHexagonLayer(s.Filtered, s.Radius, s.MinValue)}
	}
	return sc
}

// Binding re-renders a Renderer whenever the Filter it watches changes.
type Binding struct {
	renderer Renderer
	mapStyle string
	effects  []LightingEffect
	current  Scene
	passes   int
}

// Bind subscribes to f and renders the current state once right away.
func Bind(f *state.Filter, r Renderer, mapStyle string) *Binding {
	if mapStyle == "" {
		mapStyle = MapStyle
	}
	b := &Binding{
		renderer: r,
		mapStyle: mapStyle,
		effects:  []LightingEffect{DefaultLighting()},
	}
	f.Subscribe(b.render)
	b.render(f.Snapshot())
	return b
}

func (b *Binding) render(s state.Snapshot) {
	b.current = Build(s, b.mapStyle, b.effects)
	b.passes++
	b.renderer.SetScene(b.current)
}

// Scene returns the last scene handed to the renderer.
func (b *Binding) Scene() Scene { return b.current }

// Passes counts SetScene calls made so far.
func (b *Binding) Passes() int { return b.passes }
