package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/gen2brain/beeep"

	"github.com/ayoisaiah/appwatch/internal/timeutil"
	"github.com/ayoisaiah/appwatch/stats"
	"github.com/ayoisaiah/appwatch/store"
)

// Deliverer is the messaging surface a report job drives.
type Deliverer interface {
	SendText(message string) error
	SendImages(images [][]byte, caption string) error
}

// ReportOpts configures report generation.
type ReportOpts struct {
	WindowDays int
	TopApps    int
	Notify     bool
}

// ReportJob generates and delivers a usage report over a fixed recent
// window.
type ReportJob struct {
	DB       store.DB
	Sink     Deliverer
	Renderer Renderer
	Opts     ReportOpts
}

// Run queries the recent window, computes rollups, renders whatever
// charts the renderer can produce, and delivers the report. If no chart
// rendered, the header is sent alone as text.
func (j *ReportJob) Run(_ context.Context) error {
	now := time.Now()

	opts := stats.Opts{
		StartTime: timeutil.RoundToStart(now.AddDate(0, 0, -(j.Opts.WindowDays - 1))),
		EndTime:   timeutil.RoundToEnd(now),
		TopN:      j.Opts.TopApps,
	}

	sessions, err := j.DB.GetSessions(opts.StartTime, opts.EndTime)
	if err != nil {
		return fmt.Errorf("querying sessions: %w", err)
	}

	s := stats.Compute(sessions, opts)

	charts := j.renderCharts(s)

	header := fmt.Sprintf(
		"App usage report\nGenerated: %s\n\n%s",
		now.Format("2006-01-02 15:04"),
		s.Summarize(),
	)

	if len(charts) > 0 {
		err = j.Sink.SendImages(charts, header)
	} else {
		err = j.Sink.SendText(header)
	}

	j.notify(err)

	if err != nil {
		return fmt.Errorf("delivering report: %w", err)
	}

	return nil
}

// renderCharts collects the images that rendered successfully. A failed
// or unavailable chart is logged and omitted without aborting the job.
func (j *ReportJob) renderCharts(s *stats.Stats) [][]byte {
	var charts [][]byte

	for _, kind := range ChartKinds {
		img, err := j.Renderer.Render(kind, s)
		if err != nil {
			slog.Error(
				"chart rendering failed",
				slog.String("chart", string(kind)),
				slog.Any("error", err),
			)

			continue
		}

		if img == nil {
			continue
		}

		charts = append(charts, img)
	}

	return charts
}

// notify surfaces the delivery outcome as a desktop notification.
func (j *ReportJob) notify(deliveryErr error) {
	if !j.Opts.Notify {
		return
	}

	msg := "Weekly usage report delivered"
	if deliveryErr != nil {
		msg = "Weekly usage report delivery failed"
	}

	if err := beeep.Notify("Appwatch", msg, ""); err != nil {
		slog.Warn("desktop notification failed", slog.Any("error", err))
	}
}
