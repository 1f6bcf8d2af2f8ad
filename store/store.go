// Package store connects to the data store and manages usage sessions
package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/ayoisaiah/appwatch/internal/models"
	"github.com/ayoisaiah/appwatch/internal/timeutil"
)

const sessionBucket = "sessions"

var (
	errAppwatchRunning = errors.New(
		"is appwatch already running? Only one instance can be active at a time",
	)

	// ErrStorage indicates that a write to the underlying medium failed.
	// The session for that transition is lost; it is never silently dropped.
	ErrStorage = errors.New("session could not be persisted")
)

// Client is a BoltDB database client.
type Client struct {
	*bolt.DB
}

// SaveSession appends a completed session. The write happens in a single
// transaction so a partially written session is never observable.
func (c *Client) SaveSession(sess *models.UsageSession) error {
	key := timeutil.ToKey(sess.StartTime)

	value, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStorage, err)
	}

	err = c.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(sessionBucket)).Put(key, value)
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStorage, err)
	}

	return nil
}

// GetSessions retrieves all sessions whose date falls within the inclusive
// range bounded by startTime and endTime.
func (c *Client) GetSessions(
	startTime, endTime time.Time,
) ([]models.UsageSession, error) {
	var b [][]byte

	min := timeutil.ToKey(timeutil.RoundToStart(startTime))
	max := timeutil.ToKey(timeutil.RoundToEnd(endTime))

	err := c.View(func(tx *bolt.Tx) error {
		cur := tx.Bucket([]byte(sessionBucket)).Cursor()

		for k, v := cur.Seek(min); k != nil && bytes.Compare(k, max) <= 0; k, v = cur.Next() {
			b = append(b, v)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	sessions := make([]models.UsageSession, 0, len(b))

	for _, v := range b {
		var sess models.UsageSession

		err = json.Unmarshal(v, &sess)
		if err != nil {
			return nil, err
		}

		sessions = append(sessions, sess)
	}

	return sessions, nil
}

// openDB creates or opens a database and locks it.
func openDB(pathToDB string) (*bolt.DB, error) {
	var fileMode fs.FileMode = 0o600

	db, err := bolt.Open(
		pathToDB,
		fileMode,
		&bolt.Options{Timeout: 1 * time.Second},
	)
	if err != nil {
		if errors.Is(err, bolt.ErrDatabaseOpen) ||
			errors.Is(err, bolt.ErrTimeout) {
			return nil, errAppwatchRunning
		}

		return nil, err
	}

	return db, nil
}

// NewClient returns a wrapper to a BoltDB connection.
func NewClient(dbPath string) (*Client, error) {
	db, err := openDB(dbPath)
	if err != nil {
		return nil, err
	}

	// Create the necessary bucket for storing data if it does not exist already
	err = db.Update(func(tx *bolt.Tx) error {
		_, err = tx.CreateBucketIfNotExists([]byte(sessionBucket))
		return err
	})
	if err != nil {
		return nil, err
	}

	return &Client{
		db,
	}, nil
}
