package tracker

import (
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/ayoisaiah/appwatch/internal/models"
)

type memDB struct {
	sessions []models.UsageSession
	failWith error
}

func (m *memDB) SaveSession(sess *models.UsageSession) error {
	if m.failWith != nil {
		return m.failWith
	}

	m.sessions = append(m.sessions, *sess)

	return nil
}

func (m *memDB) GetSessions(
	_, _ time.Time,
) ([]models.UsageSession, error) {
	return m.sessions, nil
}

func (m *memDB) Close() error { return nil }

var trackerBase = time.Date(2026, time.August, 24, 9, 0, 0, 0, time.Local)

func newTestTracker(db *memDB) *Tracker {
	t := New(db, SamplerFunc(func() (string, string, bool) {
		return "", "", false
	}), time.Second)
	t.start()

	return t
}

func TestAppChangeEmitsCompletedSession(t *testing.T) {
	db := &memDB{}
	trk := newTestTracker(db)

	trk.observe("chrome.exe", true, trackerBase)
	trk.observe("code.exe", true, trackerBase.Add(10*time.Minute))

	want := []models.UsageSession{
		models.NewUsageSession(
			"chrome.exe",
			trackerBase,
			trackerBase.Add(10*time.Minute),
		),
	}

	if diff := cmp.Diff(want, db.sessions); diff != "" {
		t.Fatalf("unexpected sessions (-want +got):\n%s", diff)
	}

	sess := db.sessions[0]

	if !sess.EndTime.After(sess.StartTime) {
		t.Fatal("expected session end to be after its start")
	}

	if got := sess.EndTime.Sub(sess.StartTime).Seconds(); got != float64(sess.DurationSeconds) {
		t.Fatalf(
			"expected duration %d to match interval %f",
			sess.DurationSeconds,
			got,
		)
	}
}

func TestSameAppSampleIsANoOp(t *testing.T) {
	db := &memDB{}
	trk := newTestTracker(db)

	trk.observe("chrome.exe", true, trackerBase)

	for i := 1; i <= 5; i++ {
		trk.observe("chrome.exe", true, trackerBase.Add(time.Duration(i)*time.Second))
	}

	if len(db.sessions) != 0 {
		t.Fatalf("expected no emitted sessions, got %d", len(db.sessions))
	}

	app, since, ok := trk.Current()
	if !ok || app != "chrome.exe" {
		t.Fatalf("expected chrome.exe to be tracked, got %q", app)
	}

	if !since.Equal(trackerBase) {
		t.Fatalf("expected session start to remain %v, got %v", trackerBase, since)
	}
}

func TestUnavailableSampleIsIgnored(t *testing.T) {
	db := &memDB{}
	trk := newTestTracker(db)

	trk.observe("chrome.exe", true, trackerBase)
	trk.observe("", false, trackerBase.Add(time.Second))

	app, since, ok := trk.Current()
	if !ok || app != "chrome.exe" || !since.Equal(trackerBase) {
		t.Fatal("expected a no-signal sample to leave the state untouched")
	}
}

func TestZeroDurationTransitionIsDiscarded(t *testing.T) {
	db := &memDB{}
	trk := newTestTracker(db)

	trk.observe("chrome.exe", true, trackerBase)
	trk.observe("code.exe", true, trackerBase) // same instant

	if len(db.sessions) != 0 {
		t.Fatalf(
			"expected a zero-duration session to be discarded, got %d",
			len(db.sessions),
		)
	}
}

func TestStopFlushesOnceAndIsTerminal(t *testing.T) {
	db := &memDB{}
	trk := newTestTracker(db)

	trk.observe("chrome.exe", true, trackerBase)

	stopTime := trackerBase.Add(30 * time.Second)

	trk.Stop(stopTime)

	want := []models.UsageSession{
		models.NewUsageSession("chrome.exe", trackerBase, stopTime),
	}

	if diff := cmp.Diff(want, db.sessions); diff != "" {
		t.Fatalf("unexpected sessions (-want +got):\n%s", diff)
	}

	if _, _, ok := trk.Current(); ok {
		t.Fatal("expected the tracker to be idle after stop")
	}

	// subsequent stops and samples must not emit anything
	trk.Stop(stopTime.Add(time.Minute))
	trk.observe("code.exe", true, stopTime.Add(2*time.Minute))

	if len(db.sessions) != 1 {
		t.Fatalf("expected exactly one session, got %d", len(db.sessions))
	}
}

func TestStorageFailureDoesNotStopTracking(t *testing.T) {
	db := &memDB{failWith: errors.New("disk unavailable")}
	trk := newTestTracker(db)

	trk.observe("chrome.exe", true, trackerBase)
	trk.observe("code.exe", true, trackerBase.Add(time.Minute))

	// the failed write is logged and dropped; tracking moves on
	app, _, ok := trk.Current()
	if !ok || app != "code.exe" {
		t.Fatalf("expected tracking to continue with code.exe, got %q", app)
	}
}

// A focus change that occurs and reverts between two samples is never
// observed: the sampling cadence bounds the minimum observable session
// length.
func TestSubTickFocusChangeIsUnobservable(t *testing.T) {
	db := &memDB{}
	trk := newTestTracker(db)

	trk.observe("chrome.exe", true, trackerBase)
	// a brief switch to another app happened here, between ticks
	trk.observe("chrome.exe", true, trackerBase.Add(time.Second))

	if len(db.sessions) != 0 {
		t.Fatalf("expected no sessions, got %d", len(db.sessions))
	}
}
