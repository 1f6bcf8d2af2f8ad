// Package models defines the data types persisted by appwatch.
package models

import "time"

// DateLayout is the calendar date format used for the Date field and for
// grouping sessions into daily buckets.
const DateLayout = "2006-01-02"

// UsageSession is a maximal contiguous interval during which a single
// application held input focus. Sessions are immutable once written.
type UsageSession struct {
	StartTime       time.Time `json:"start_time"`
	EndTime         time.Time `json:"end_time"`
	AppName         string    `json:"app_name"`
	Date            string    `json:"date"`
	DurationSeconds int64     `json:"duration_seconds"`
}

// NewUsageSession derives the duration and calendar date from the interval
// bounds. The date is fixed at creation and never recomputed.
func NewUsageSession(appName string, start, end time.Time) UsageSession {
	return UsageSession{
		StartTime:       start,
		EndTime:         end,
		AppName:         appName,
		Date:            start.Format(DateLayout),
		DurationSeconds: int64(end.Sub(start).Seconds()),
	}
}

// Valid reports whether the session may be persisted. Zero and negative
// durations are discarded, never stored.
func (s *UsageSession) Valid() bool {
	return s.EndTime.After(s.StartTime) && s.DurationSeconds > 0
}

// Credential is the token pair used to authenticate with the messaging
// transport. It is considered stale the instant a send attempt is rejected
// for authentication reasons.
type Credential struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}
