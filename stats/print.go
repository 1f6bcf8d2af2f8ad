package stats

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/hako/durafmt"
	"github.com/pterm/pterm"

	"github.com/ayoisaiah/appwatch/internal/timeutil"
	"github.com/ayoisaiah/appwatch/internal/ui"
)

const (
	barChartChar  = "▇"
	noSessionsMsg = "No sessions found for the specified time range"
)

// Write renders the computed stats to the writer as a daily bar chart,
// a top-apps table, and the narrative summary.
func (s *Stats) Write(w io.Writer) error {
	if s.TotalSeconds == 0 {
		fmt.Fprintln(w, noSessionsMsg)
		return nil
	}

	chart, err := dailyBarChart(s.Daily)
	if err != nil {
		return err
	}

	fmt.Fprintln(w, ui.Blue("Daily breakdown (minutes)"))
	fmt.Fprintln(w, chart)

	printTopApps(s.TopApps, w)

	fmt.Fprintln(w, ui.Blue("Summary"))
	fmt.Fprintln(w, s.Summarize())

	return nil
}

func dailyBarChart(daily map[string]int64) (string, error) {
	keys := make([]string, 0, len(daily))
	for k := range daily {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	var bars pterm.Bars

	for _, k := range keys {
		bars = append(bars, pterm.Bar{
			Value: timeutil.Round(float64(daily[k]) / 60),
			Label: k,
		})
	}

	return pterm.DefaultBarChart.WithHorizontalBarCharacter(barChartChar).
		WithHorizontal().
		WithShowValue().
		WithBars(bars).
		Srender()
}

func printTopApps(topApps []AppTotal, w io.Writer) {
	data := [][]string{{"#", "App", "Time"}}

	for i, v := range topApps {
		dur := durafmt.Parse(time.Duration(v.Seconds) * time.Second).
			LimitFirstN(2)

		data = append(data, []string{
			fmt.Sprintf("%d", i+1),
			v.Name,
			ui.Green(dur),
		})
	}

	ui.PrintTable(data, w)
}
