package store

import (
	"errors"
	"path/filepath"
	"sort"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/ayoisaiah/appwatch/internal/models"
)

var storeBase = time.Date(2026, time.August, 24, 9, 0, 0, 0, time.UTC)

func newTestClient(t *testing.T) *Client {
	t.Helper()

	c, err := NewClient(filepath.Join(t.TempDir(), "appwatch.db"))
	if err != nil {
		t.Fatalf("opening test database: %v", err)
	}

	t.Cleanup(func() {
		_ = c.Close()
	})

	return c
}

func saveAll(t *testing.T, c *Client, sessions []models.UsageSession) {
	t.Helper()

	for i := range sessions {
		if err := c.SaveSession(&sessions[i]); err != nil {
			t.Fatalf("saving session: %v", err)
		}
	}
}

func sortSessions(sessions []models.UsageSession) {
	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i].StartTime.Before(sessions[j].StartTime)
	})
}

func TestSaveAndQueryRoundTrip(t *testing.T) {
	c := newTestClient(t)

	sessions := []models.UsageSession{
		models.NewUsageSession("A", storeBase, storeBase.Add(10*time.Minute)),
		models.NewUsageSession(
			"B",
			storeBase.Add(time.Hour),
			storeBase.Add(time.Hour+30*time.Second),
		),
		models.NewUsageSession(
			"A",
			storeBase.AddDate(0, 0, 1),
			storeBase.AddDate(0, 0, 1).Add(time.Minute),
		),
	}

	saveAll(t, c, sessions)

	got, err := c.GetSessions(storeBase, storeBase.AddDate(0, 0, 1))
	if err != nil {
		t.Fatalf("querying sessions: %v", err)
	}

	sortSessions(got)

	if diff := cmp.Diff(sessions, got); diff != "" {
		t.Fatalf("unexpected sessions (-want +got):\n%s", diff)
	}
}

func TestQueryRangeIsInclusive(t *testing.T) {
	c := newTestClient(t)

	inRange := models.NewUsageSession(
		"edge",
		storeBase,
		storeBase.Add(time.Minute),
	)
	dayBefore := models.NewUsageSession(
		"before",
		storeBase.AddDate(0, 0, -1),
		storeBase.AddDate(0, 0, -1).Add(time.Minute),
	)
	dayAfter := models.NewUsageSession(
		"after",
		storeBase.AddDate(0, 0, 1),
		storeBase.AddDate(0, 0, 1).Add(time.Minute),
	)

	saveAll(t, c, []models.UsageSession{dayBefore, inRange, dayAfter})

	got, err := c.GetSessions(storeBase, storeBase)
	if err != nil {
		t.Fatalf("querying sessions: %v", err)
	}

	want := []models.UsageSession{inRange}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("unexpected sessions (-want +got):\n%s", diff)
	}
}

func TestQueryEmptyStore(t *testing.T) {
	c := newTestClient(t)

	got, err := c.GetSessions(storeBase, storeBase.AddDate(0, 0, 7))
	if err != nil {
		t.Fatalf("querying sessions: %v", err)
	}

	if len(got) != 0 {
		t.Fatalf("expected no sessions, got %d", len(got))
	}
}

func TestSaveFailsLoudlyWhenStoreIsClosed(t *testing.T) {
	c := newTestClient(t)

	if err := c.Close(); err != nil {
		t.Fatalf("closing database: %v", err)
	}

	sess := models.NewUsageSession("A", storeBase, storeBase.Add(time.Minute))

	err := c.SaveSession(&sess)
	if !errors.Is(err, ErrStorage) {
		t.Fatalf("expected a storage error, got %v", err)
	}
}
