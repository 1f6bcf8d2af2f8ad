package scheduler

import "github.com/ayoisaiah/appwatch/stats"

// ChartKind names a report chart.
type ChartKind string

const (
	ChartDaily   ChartKind = "daily"
	ChartWeekly  ChartKind = "weekly"
	ChartMonthly ChartKind = "monthly"
	ChartTopApps ChartKind = "top_apps"
)

// ChartKinds lists the charts included in a report, in delivery order.
var ChartKinds = []ChartKind{
	ChartDaily,
	ChartWeekly,
	ChartMonthly,
	ChartTopApps,
}

// Renderer turns a computed rollup into an image. A nil image with a nil
// error means the chart is unavailable; one failed chart never blocks the
// others.
type Renderer interface {
	Render(kind ChartKind, s *stats.Stats) ([]byte, error)
}

// RendererFunc adapts a function to the Renderer interface.
type RendererFunc func(kind ChartKind, s *stats.Stats) ([]byte, error)

func (f RendererFunc) Render(kind ChartKind, s *stats.Stats) ([]byte, error) {
	return f(kind, s)
}

// NoopRenderer renders no charts, causing reports to fall back to text.
type NoopRenderer struct{}

func (NoopRenderer) Render(ChartKind, *stats.Stats) ([]byte, error) {
	return nil, nil
}
