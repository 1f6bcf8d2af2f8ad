package store

import (
	"time"

	"github.com/ayoisaiah/appwatch/internal/models"
)

// DB is the database storage interface.
type DB interface {
	// SaveSession durably appends a completed usage session. Existing
	// sessions are never updated or deleted.
	SaveSession(sess *models.UsageSession) error
	// GetSessions returns all sessions whose date falls within the
	// inclusive range bounded by startTime and endTime. Order is
	// unspecified to callers.
	GetSessions(startTime, endTime time.Time) ([]models.UsageSession, error)
	// Close ends the database connection
	Close() error
}
