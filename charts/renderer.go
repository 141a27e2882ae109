package charts

import (
	"errors"
	"fmt"
	"image/color"
	"io"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"influencer-dashboard/models"
	"influencer-dashboard/utils"
)

// ErrNotRenderable is returned for charts that only exist client side.
var ErrNotRenderable = errors.New("chart has no static rendering")

var (
	barColor     = color.RGBA{R: 177, G: 77, B: 142, A: 255}
	scatterColor = color.RGBA{R: 145, G: 53, B: 125, A: 200}
	histColor    = color.RGBA{R: 221, G: 136, B: 172, A: 255}
)

// Renderable lists the chart IDs the Renderer can draw.
var Renderable = []string{TopInfluencers, CountryInfluence, LikesHistogram, FollowerLikes}

// Renderer draws report charts to PNG with gonum/plot.
type Renderer struct {
	width  vg.Length
	height vg.Length
	logger *utils.Logger
}

func NewRenderer(logger *utils.Logger) *Renderer {
	return &Renderer{width: 10 * vg.Inch, height: 6 * vg.Inch, logger: logger}
}

// Plot builds the gonum plot for chart id.
func (r *Renderer) Plot(id string, report *models.DashboardReport) (*plot.Plot, error) {
	spec, ok := Lookup(id)
	if !ok {
		return nil, fmt.Errorf("charts: unknown chart %q", id)
	}

	p := plot.New()
	p.Title.Text = spec.TitleFor(report)
	p.Title.TextStyle.Font.Size = vg.Points(16)
	p.X.Label.Text = spec.XTitle
	p.Y.Label.Text = spec.YTitle

	var err error
	switch id {
	case TopInfluencers:
		names := make([]string, len(report.TopInfluencers))
		values := make(plotter.Values, len(report.TopInfluencers))
		for i, inf := range report.TopInfluencers {
			names[i] = inf.ChannelInfo
			values[i] = inf.InfluenceScore
		}
		err = addBars(p, names, values, barColor)
	case CountryInfluence:
		names := make([]string, len(report.CountryInfluence))
		values := make(plotter.Values, len(report.CountryInfluence))
		for i, g := range report.CountryInfluence {
			names[i] = g.Key
			values[i] = g.Value
		}
		err = addBars(p, names, values, barColor)
	case LikesHistogram:
		names := make([]string, len(report.LikesHistogram))
		values := make(plotter.Values, len(report.LikesHistogram))
		for i, b := range report.LikesHistogram {
			names[i] = formatShort(b.Low)
			values[i] = float64(b.Count)
		}
		err = addBars(p, names, values, histColor)
	case FollowerLikes:
		err = addScatter(p, report.FollowerLikes)
	default:
		return nil, fmt.Errorf("charts: %q: %w", id, ErrNotRenderable)
	}
	if err != nil {
		return nil, fmt.Errorf("charts: %q: %w", id, err)
	}
	return p, nil
}

// WriteTo encodes chart id as PNG onto w.
func (r *Renderer) WriteTo(w io.Writer, id string, report *models.DashboardReport) error {
	p, err := r.Plot(id, report)
	if err != nil {
		return err
	}
	return r.Encode(w, p)
}

// Encode writes p as PNG onto w.
func (r *Renderer) Encode(w io.Writer, p *plot.Plot) error {
	wt, err := p.WriterTo(r.width, r.height, "png")
	if err != nil {
		return fmt.Errorf("charts: encode: %w", err)
	}
	_, err = wt.WriteTo(w)
	return err
}

// RenderAll writes every renderable chart to dir as <id>.png using pool.
func (r *Renderer) RenderAll(dir string, report *models.DashboardReport, pool *utils.WorkerPool) ([]string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("charts: create dir: %w", err)
	}

	paths := make([]string, len(Renderable))
	for i, id := range Renderable {
		path := filepath.Join(dir, id+".png")
		paths[i] = path
		id := id
		pool.Submit(func() error {
			p, err := r.Plot(id, report)
			if err != nil {
				return err
			}
			if err := p.Save(r.width, r.height, path); err != nil {
				return fmt.Errorf("charts: save %q: %w", path, err)
			}
			r.logger.Debug("[charts] Rendered %s", path)
			return nil
		})
	}

	if errs := pool.Wait(); len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return paths, nil
}

func addBars(p *plot.Plot, names []string, values plotter.Values, c color.Color) error {
	if len(values) == 0 {
		return nil
	}
	bars, err := plotter.NewBarChart(values, vg.Points(20))
	if err != nil {
		return err
	}
	bars.Color = c
	bars.LineStyle.Width = vg.Length(0)
	p.Add(bars)
	p.NominalX(names...)
	p.X.Tick.Label.Rotation = 0.6
	p.X.Tick.Label.XAlign = draw.XRight
	return nil
}

func addScatter(p *plot.Plot, points []models.ScatterPoint) error {
	if len(points) == 0 {
		return nil
	}
	xys := make(plotter.XYs, len(points))
	maxSize := 0.0
	for i, pt := range points {
		xys[i].X = pt.X
		xys[i].Y = pt.Y
		if pt.Size > maxSize {
			maxSize = pt.Size
		}
	}

	scatter, err := plotter.NewScatter(xys)
	if err != nil {
		return err
	}
	scatter.GlyphStyleFunc = func(i int) draw.GlyphStyle {
		radius := vg.Points(3)
		if maxSize > 0 {
			radius = vg.Points(3 + 9*points[i].Size/maxSize)
		}
		return draw.GlyphStyle{Color: scatterColor, Radius: radius, Shape: draw.CircleGlyph{}}
	}
	p.Add(plotter.NewGrid(), scatter)
	return nil
}

func formatShort(v float64) string {
	switch {
	case v >= 1e9:
		return fmt.Sprintf("%.1fB", v/1e9)
	case v >= 1e6:
		return fmt.Sprintf("%.1fM", v/1e6)
	case v >= 1e3:
		return fmt.Sprintf("%.1fk", v/1e3)
	}
	return fmt.Sprintf("%.0f", v)
}
