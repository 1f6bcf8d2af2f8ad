// Package stats aggregates usage sessions into time-bucketed rollups and
// a behavioral summary. All computations are pure functions over the
// session set so that every rollup is recomputable from the store at any
// time.
package stats

import (
	"encoding/json"
	"sort"
	"strings"
	"time"

	"github.com/ayoisaiah/appwatch/internal/models"
	"github.com/ayoisaiah/appwatch/internal/timeutil"
)

// DefaultTopN is the number of apps in the top-apps ranking.
const DefaultTopN = 10

// concentrationApps is the number of leading apps whose share of the total
// duration forms the concentration ratio.
const concentrationApps = 5

// Opts bounds a computation to a reporting period.
type Opts struct {
	StartTime time.Time
	EndTime   time.Time
	TopN      int
}

// AppTotal is the summed duration for a single application.
type AppTotal struct {
	Name    string `json:"name"`
	Seconds int64  `json:"seconds"`
}

// CategorySplit groups total duration into productivity and entertainment
// buckets. Apps matching neither keyword set count toward the total only.
type CategorySplit struct {
	ProductivitySeconds  int64 `json:"productivity_seconds"`
	EntertainmentSeconds int64 `json:"entertainment_seconds"`
	TotalSeconds         int64 `json:"total_seconds"`
}

// Stats represents the computed aggregates for a reporting period.
type Stats struct {
	Opts Opts `json:"-"`

	Daily   map[string]int64 `json:"daily"`
	Weekly  map[string]int64 `json:"weekly"`
	Monthly map[string]int64 `json:"monthly"`

	TopApps       []AppTotal    `json:"top_apps"`
	Split         CategorySplit `json:"category_split"`
	Concentration float64       `json:"concentration"`
	TotalSeconds  int64         `json:"total_seconds"`
	AppCount      int           `json:"app_count"`
}

// Compute calculates all aggregates for the given sessions. It is total
// over the empty input: every field is a well-defined zero result.
func Compute(sessions []models.UsageSession, opts Opts) *Stats {
	if opts.TopN == 0 {
		opts.TopN = DefaultTopN
	}

	s := &Stats{
		Opts:    opts,
		Daily:   make(map[string]int64),
		Weekly:  make(map[string]int64),
		Monthly: make(map[string]int64),
	}

	appTotals := make(map[string]int64)

	for i := range sessions {
		sess := sessions[i]

		s.Daily[sess.Date] += sess.DurationSeconds
		s.Weekly[timeutil.WeekKey(sess.StartTime)] += sess.DurationSeconds
		s.Monthly[timeutil.MonthKey(sess.StartTime)] += sess.DurationSeconds

		appTotals[sess.AppName] += sess.DurationSeconds
		s.TotalSeconds += sess.DurationSeconds
	}

	s.AppCount = len(appTotals)

	ranked := rankApps(appTotals)

	s.Concentration = concentration(ranked, s.TotalSeconds)
	s.Split = splitCategories(appTotals)

	if len(ranked) > opts.TopN {
		ranked = ranked[:opts.TopN]
	}

	s.TopApps = ranked

	return s
}

// rankApps sorts app totals in descending order of duration. Equal
// durations are ordered by name ascending so the ranking is deterministic.
func rankApps(totals map[string]int64) []AppTotal {
	ranked := make([]AppTotal, 0, len(totals))

	for name, secs := range totals {
		ranked = append(ranked, AppTotal{Name: name, Seconds: secs})
	}

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Seconds != ranked[j].Seconds {
			return ranked[i].Seconds > ranked[j].Seconds
		}

		return ranked[i].Name < ranked[j].Name
	})

	return ranked
}

// concentration returns the share of the total duration held by the
// leading apps, as a percentage in [0, 100]. It is 0 when the total
// duration is 0.
func concentration(ranked []AppTotal, total int64) float64 {
	if total == 0 {
		return 0
	}

	n := concentrationApps
	if len(ranked) < n {
		n = len(ranked)
	}

	var top int64
	for _, v := range ranked[:n] {
		top += v.Seconds
	}

	return float64(top) / float64(total) * 100
}

var (
	productivityKeywords = []string{
		"code", "studio", "terminal", "word", "excel", "powerpoint",
		"notion", "obsidian", "outlook", "slack", "idea", "vim",
	}
	entertainmentKeywords = []string{
		"youtube", "netflix", "steam", "game", "spotify", "discord",
		"twitch", "vlc",
	}
)

// splitCategories classifies each app by case-insensitive substring match
// against the fixed keyword sets.
func splitCategories(totals map[string]int64) CategorySplit {
	var split CategorySplit

	for name, secs := range totals {
		split.TotalSeconds += secs

		lower := strings.ToLower(name)

		if matchesAny(lower, productivityKeywords) {
			split.ProductivitySeconds += secs
		} else if matchesAny(lower, entertainmentKeywords) {
			split.EntertainmentSeconds += secs
		}
	}

	return split
}

func matchesAny(name string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(name, kw) {
			return true
		}
	}

	return false
}

// Days returns the number of calendar days in the reporting period,
// never less than 1.
func (s *Stats) Days() int {
	hours := timeutil.Round(s.Opts.EndTime.Sub(s.Opts.StartTime).Hours())

	days := hours / timeutil.HoursInADay
	if days < 1 {
		days = 1
	}

	return days
}

// DailyAverageHours returns the mean hours of usage per day in the
// reporting period.
func (s *Stats) DailyAverageHours() float64 {
	return timeutil.SecondsToHours(s.TotalSeconds) / float64(s.Days())
}

// ToJSON encodes the computed stats for machine-readable output.
func (s *Stats) ToJSON() ([]byte, error) {
	return json.MarshalIndent(s, "", "  ")
}
