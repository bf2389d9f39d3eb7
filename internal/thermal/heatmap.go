package thermal

import (
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// heatmapMaxCells bounds the rendered cell count to keep page size sane;
// larger grids are downsampled by an integer stride.
const heatmapMaxCells = 40000

// RenderHeatmap writes a standalone HTML heat map of the grid. Intended as a
// quick visual check of the intensity field next to the anomaly report, not
// as a UI surface.
func RenderHeatmap(w io.Writer, g *Grid, title string) error {
	if g.Empty() {
		return ErrEmptyGrid
	}

	stride := 1
	if cells := g.Width * g.Height; cells > heatmapMaxCells {
		stride = int(math.Ceil(math.Sqrt(float64(cells) / float64(heatmapMaxCells))))
	}

	stats := ComputeStats(g)

	cols := (g.Width + stride - 1) / stride
	rows := (g.Height + stride - 1) / stride
	xLabels := make([]string, cols)
	for i := range xLabels {
		xLabels[i] = strconv.Itoa(i * stride)
	}
	yLabels := make([]string, rows)
	for i := range yLabels {
		yLabels[i] = strconv.Itoa(i * stride)
	}

	data := make([]opts.HeatMapData, 0, cols*rows)
	for y := 0; y < g.Height; y += stride {
		for x := 0; x < g.Width; x += stride {
			data = append(data, opts.HeatMapData{
				Value: [3]interface{}{x / stride, y / stride, g.At(x, y)},
			})
		}
	}

	hm := charts.NewHeatMap()
	hm.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: title,
			Theme:     "dark",
			Width:     "900px",
			Height:    "700px",
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    title,
			Subtitle: fmt.Sprintf("%dx%d px, mean=%.2f std=%.2f, stride=%d", g.Width, g.Height, stats.Mean, stats.Std, stride),
		}),
		charts.WithXAxisOpts(opts.XAxis{Type: "category", Data: xLabels}),
		charts.WithYAxisOpts(opts.YAxis{Type: "category", Data: yLabels}),
		charts.WithVisualMapOpts(opts.VisualMap{
			Calculable: opts.Bool(true),
			Min:        float32(stats.Min),
			Max:        float32(stats.Max),
			InRange: &opts.VisualMapInRange{
				Color: []string{"#440154", "#3e4989", "#26828e", "#35b779", "#b5de2b", "#fde725"},
			},
		}),
	)
	hm.AddSeries("intensity", data)

	return hm.Render(w)
}
