package stats

import (
	"fmt"
	"strings"
	"time"

	"github.com/hako/durafmt"
)

// Thresholds for the qualitative phrases in the narrative summary.
const (
	heavyUsageHours    = 8
	moderateUsageHours = 4

	highDiversityApps     = 20
	moderateDiversityApps = 10

	highConcentrationPct     = 70
	moderateConcentrationPct = 50
)

// Summarize maps the computed aggregates to a short narrative built from
// a fixed phrase table. It is total over empty stats.
func (s *Stats) Summarize() string {
	var b strings.Builder

	if s.TotalSeconds == 0 {
		return "No usage was recorded in this period."
	}

	totalDur := durafmt.Parse(time.Duration(s.TotalSeconds) * time.Second).
		LimitFirstN(2)

	fmt.Fprintf(
		&b,
		"Total usage: %s over %d days (%.1f hours per day on average).\n",
		totalDur,
		s.Days(),
		s.DailyAverageHours(),
	)

	if len(s.TopApps) > 0 {
		top := s.TopApps[0]
		topDur := durafmt.Parse(time.Duration(top.Seconds) * time.Second).
			LimitFirstN(2)

		fmt.Fprintf(&b, "Most used app: %s (%s).\n", top.Name, topDur)
	}

	fmt.Fprintf(&b, "Apps used: %d.\n\n", s.AppCount)

	b.WriteString(usagePhrase(s.DailyAverageHours()))
	b.WriteString(diversityPhrase(s.AppCount))
	b.WriteString(concentrationPhrase(s.Concentration))
	b.WriteString(categoryPhrase(s.Split))

	return strings.TrimRight(b.String(), "\n")
}

func usagePhrase(avgHours float64) string {
	switch {
	case avgHours > heavyUsageHours:
		return "- Computer usage is on the heavy side.\n"
	case avgHours >= moderateUsageHours:
		return "- Computer usage is moderate.\n"
	default:
		return "- Computer usage is light.\n"
	}
}

func diversityPhrase(appCount int) string {
	switch {
	case appCount > highDiversityApps:
		return "- A highly diverse set of apps is in use.\n"
	case appCount >= moderateDiversityApps:
		return "- A moderately diverse set of apps is in use.\n"
	default:
		return "- Usage is limited to a few apps.\n"
	}
}

func concentrationPhrase(pct float64) string {
	switch {
	case pct > highConcentrationPct:
		return "- Time is highly concentrated in the top apps.\n"
	case pct >= moderateConcentrationPct:
		return "- Time is moderately concentrated in the top apps.\n"
	default:
		return "- Time is spread across a diverse range of apps.\n"
	}
}

func categoryPhrase(split CategorySplit) string {
	switch {
	case split.ProductivitySeconds > split.EntertainmentSeconds:
		return "- More time went into productivity apps than entertainment.\n"
	case split.EntertainmentSeconds > split.ProductivitySeconds:
		return "- More time went into entertainment apps than productivity.\n"
	default:
		return "- Productivity and entertainment time are balanced.\n"
	}
}
