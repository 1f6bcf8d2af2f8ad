package stats

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/ayoisaiah/appwatch/internal/models"
	"github.com/ayoisaiah/appwatch/internal/timeutil"
)

var statsBase = time.Date(2026, time.August, 24, 9, 0, 0, 0, time.Local)

func sessionAt(app string, start time.Time, dur time.Duration) models.UsageSession {
	return models.NewUsageSession(app, start, start.Add(dur))
}

func defaultOpts() Opts {
	return Opts{
		StartTime: timeutil.RoundToStart(statsBase),
		EndTime:   timeutil.RoundToEnd(statsBase),
	}
}

func TestDailyRollupScenario(t *testing.T) {
	// A 09:00:00-09:10:00, B 09:10:00-09:10:30, A 09:10:30-09:10:31
	sessions := []models.UsageSession{
		sessionAt("A", statsBase, 10*time.Minute),
		sessionAt("B", statsBase.Add(10*time.Minute), 30*time.Second),
		sessionAt("A", statsBase.Add(10*time.Minute+30*time.Second), time.Second),
	}

	s := Compute(sessions, defaultOpts())

	date := statsBase.Format(models.DateLayout)

	if got := s.Daily[date]; got != 631 {
		t.Fatalf("expected a daily total of 631 seconds, got %d", got)
	}

	want := []AppTotal{
		{Name: "A", Seconds: 601},
		{Name: "B", Seconds: 30},
	}

	if diff := cmp.Diff(want, s.TopApps); diff != "" {
		t.Fatalf("unexpected top apps (-want +got):\n%s", diff)
	}
}

func TestRollupsRoundTripSessionDurations(t *testing.T) {
	sessions := []models.UsageSession{
		sessionAt("A", statsBase, 45*time.Minute),
		sessionAt("B", statsBase.Add(time.Hour), 30*time.Minute),
		sessionAt("C", statsBase.Add(26*time.Hour), 15*time.Minute),
	}

	var wantTotal int64
	for _, sess := range sessions {
		wantTotal += sess.DurationSeconds
	}

	opts := defaultOpts()
	opts.EndTime = timeutil.RoundToEnd(statsBase.AddDate(0, 0, 1))

	s := Compute(sessions, opts)

	var daily, weekly, monthly int64

	for _, v := range s.Daily {
		daily += v
	}

	for _, v := range s.Weekly {
		weekly += v
	}

	for _, v := range s.Monthly {
		monthly += v
	}

	for name, got := range map[string]int64{
		"daily":   daily,
		"weekly":  weekly,
		"monthly": monthly,
		"total":   s.TotalSeconds,
	} {
		if got != wantTotal {
			t.Errorf("%s rollup sums to %d, want %d", name, got, wantTotal)
		}
	}
}

func TestTopAppsTieBreakIsDeterministic(t *testing.T) {
	sessions := []models.UsageSession{
		sessionAt("zebra", statsBase, time.Minute),
		sessionAt("alpha", statsBase.Add(5*time.Minute), time.Minute),
		sessionAt("mango", statsBase.Add(10*time.Minute), 2*time.Minute),
	}

	s := Compute(sessions, defaultOpts())

	want := []AppTotal{
		{Name: "mango", Seconds: 120},
		{Name: "alpha", Seconds: 60},
		{Name: "zebra", Seconds: 60},
	}

	if diff := cmp.Diff(want, s.TopApps); diff != "" {
		t.Fatalf("unexpected ranking (-want +got):\n%s", diff)
	}
}

func TestConcentrationBounds(t *testing.T) {
	empty := Compute(nil, defaultOpts())
	if empty.Concentration != 0 {
		t.Fatalf(
			"expected 0 concentration for empty input, got %f",
			empty.Concentration,
		)
	}

	single := Compute([]models.UsageSession{
		sessionAt("A", statsBase, time.Hour),
	}, defaultOpts())

	if single.Concentration != 100 {
		t.Fatalf(
			"expected 100 concentration for a single app, got %f",
			single.Concentration,
		)
	}

	sessions := make([]models.UsageSession, 0, 8)
	for i := 0; i < 8; i++ {
		sessions = append(sessions, sessionAt(
			string(rune('a'+i)),
			statsBase.Add(time.Duration(i)*10*time.Minute),
			time.Minute,
		))
	}

	many := Compute(sessions, defaultOpts())

	if many.Concentration < 0 || many.Concentration > 100 {
		t.Fatalf("concentration out of bounds: %f", many.Concentration)
	}
}

func TestCategorySplit(t *testing.T) {
	sessions := []models.UsageSession{
		sessionAt("Visual Studio Code", statsBase, time.Hour),
		sessionAt("YouTube", statsBase.Add(time.Hour), 30*time.Minute),
		sessionAt("SomethingElse", statsBase.Add(2*time.Hour), 15*time.Minute),
	}

	s := Compute(sessions, defaultOpts())

	want := CategorySplit{
		ProductivitySeconds:  3600,
		EntertainmentSeconds: 1800,
		TotalSeconds:         3600 + 1800 + 900,
	}

	if diff := cmp.Diff(want, s.Split); diff != "" {
		t.Fatalf("unexpected category split (-want +got):\n%s", diff)
	}
}

func TestComputeIsTotalOverEmptyInput(t *testing.T) {
	s := Compute(nil, defaultOpts())

	if s.TotalSeconds != 0 || s.AppCount != 0 || len(s.TopApps) != 0 {
		t.Fatal("expected zero results for empty input")
	}

	if got := s.Summarize(); got != "No usage was recorded in this period." {
		t.Fatalf("unexpected empty summary: %q", got)
	}
}
