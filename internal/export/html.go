package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"

	"bikeheat/internal/hexbin"
	"bikeheat/internal/scene"
	"bikeheat/internal/tooltip"
)

// WriteHTML aggregates the first layer of s and writes an interactive 3D bar
// page: one bar per hexagon, height and color from the layer's scales.
func WriteHTML(w io.Writer, s scene.Scene, title string) error {
	var (
		bins  []hexbin.Bin
		layer scene.HexagonLayer
	)
	if len(s.Layers) > 0 {
		layer = s.Layers[0]
		var err error
		bins, _, err = hexbin.Aggregate(layer.Data, float64(layer.Radius))
		if err != nil {
			return fmt.Errorf("export html: %w", err)
		}
	}

	data := make([]opts.Chart3DData, 0, len(bins))
	for i := range bins {
		b := bins[i]
		name, _ := tooltip.Format(&b)
		data = append(data, opts.Chart3DData{
			Name:      strings.ReplaceAll(name, "\n", " | "),
			Value:     []interface{}{b.Lon(), b.Lat(), layer.ElevationFor(b.Count)},
			ItemStyle: &opts.ItemStyle{Color: layer.ColorFor(b.Count).Hex()},
		})
	}

	bar := charts.NewBar3D()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle:       title,
			Width:           "100vw",
			Height:          "95vh",
			Theme:           types.ThemeChalk,
			BackgroundColor: "#0b0f14",
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    title,
			Subtitle: subtitle(layer, len(bins)),
			Left:     "center",
		}),
		charts.WithTooltipOpts(opts.Tooltip{
			Show:    opts.Bool(true),
			Trigger: "item",
			Formatter: opts.FuncOpts(`function (params) {
		return params.name.split(' | ').join('<br />');
	}`),
		}),
		charts.WithXAxis3DOpts(opts.XAxis3D{Name: "longitude", Type: "value"}),
		charts.WithYAxis3DOpts(opts.YAxis3D{Name: "latitude", Type: "value"}),
		charts.WithZAxis3DOpts(opts.ZAxis3D{Name: "elevation", Type: "value", Max: scene.ElevationMax}),
	)
	bar.AddSeries("thefts", data, charts.WithBar3DChartOpts(opts.Bar3DChart{Shading: "lambert"}))

	page := components.NewPage()
	page.PageTitle = title
	page.SetLayout(components.PageFlexLayout)
	page.AddCharts(bar)
	if err := page.Render(w); err != nil {
		return fmt.Errorf("export html: %w", err)
	}
	return nil
}

func subtitle(l scene.HexagonLayer, bins int) string {
	if l.ID == "" {
		return "no data"
	}
	return fmt.Sprintf("%d incidents, %d hexagons, radius %d m, domain %.0f-%.0f",
		len(l.Data), bins, l.Radius, l.ColorDomain[0], l.ColorDomain[1])
}
