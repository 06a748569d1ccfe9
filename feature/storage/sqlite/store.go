package sqlite

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/banshee-data/visionfeat/feature"
)

// Open opens (creating if needed) a feature database at path and applies all
// pending schema migrations.
func Open(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open feature db: %w", err)
	}
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set busy_timeout: %w", err)
	}
	if err := migrateUp(db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// SetInfo summarises a stored feature set.
type SetInfo struct {
	SetID        string       `json:"set_id"`
	Label        string       `json:"label"`
	FeatureType  feature.Type `json:"feature_type"`
	FeatureCount int          `json:"feature_count"`
	CreatedAt    int64        `json:"created_at"`
}

// FeatureStore provides persistence for feature sets.
type FeatureStore struct {
	db *sql.DB
}

// NewFeatureStore creates a FeatureStore backed by the given database.
func NewFeatureStore(db *sql.DB) *FeatureStore {
	return &FeatureStore{db: db}
}

// SaveList stores a snapshot of the list under a fresh set ID and returns it.
// Insertion order is preserved. Patches and descriptors are not persisted.
func (s *FeatureStore) SaveList(label string, list *feature.List) (string, error) {
	setID := uuid.New().String()
	createdAt := time.Now().UnixNano()

	err := retryOnBusy(func() error {
		tx, err := s.db.Begin()
		if err != nil {
			return fmt.Errorf("begin save: %w", err)
		}
		defer tx.Rollback()

		_, err = tx.Exec(`
			INSERT INTO feature_sets (set_id, label, feature_type, feature_count, created_at)
			VALUES (?, ?, ?, ?, ?)`,
			setID, label, int(list.Type()), list.Len(), createdAt)
		if err != nil {
			return fmt.Errorf("insert feature set: %w", err)
		}

		stmt, err := tx.Prepare(`
			INSERT INTO features (
				set_id, seq, feature_id, x, y, type, track_status,
				response, orientation, scale, source_image
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return fmt.Errorf("prepare feature insert: %w", err)
		}
		defer stmt.Close()

		for seq, f := range list.Features() {
			if f == nil {
				continue
			}
			_, err := stmt.Exec(
				setID, seq, int64(f.ID), f.X, f.Y, int(f.Type), int(f.TrackStatus),
				f.Response, f.Orientation, f.Scale, f.SourceImageID)
			if err != nil {
				return fmt.Errorf("insert feature %d: %w", f.ID, err)
			}
		}

		return tx.Commit()
	})
	if err != nil {
		return "", err
	}
	return setID, nil
}

// LoadList reloads a stored feature set in its original insertion order.
func (s *FeatureStore) LoadList(setID string) (*feature.List, error) {
	var count int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM feature_sets WHERE set_id = ?`, setID).Scan(&count)
	if err != nil {
		return nil, fmt.Errorf("check feature set: %w", err)
	}
	if count == 0 {
		return nil, fmt.Errorf("feature set %s not found", setID)
	}

	rows, err := s.db.Query(`
		SELECT feature_id, x, y, type, track_status, response, orientation, scale, source_image
		FROM features
		WHERE set_id = ?
		ORDER BY seq`, setID)
	if err != nil {
		return nil, fmt.Errorf("query features: %w", err)
	}
	defer rows.Close()

	list := feature.NewList()
	for rows.Next() {
		f := feature.New()
		var id int64
		var typ, status int
		if err := rows.Scan(&id, &f.X, &f.Y, &typ, &status,
			&f.Response, &f.Orientation, &f.Scale, &f.SourceImageID); err != nil {
			return nil, fmt.Errorf("scan feature: %w", err)
		}
		f.ID = feature.FeatureID(id)
		f.Type = feature.Type(typ)
		f.TrackStatus = feature.TrackStatus(status)
		list.PushBack(f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate features: %w", err)
	}
	return list, nil
}

// ListSets returns all stored feature sets, newest first.
func (s *FeatureStore) ListSets() ([]*SetInfo, error) {
	rows, err := s.db.Query(`
		SELECT set_id, label, feature_type, feature_count, created_at
		FROM feature_sets
		ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("query feature sets: %w", err)
	}
	defer rows.Close()

	var sets []*SetInfo
	for rows.Next() {
		info := &SetInfo{}
		var typ int
		if err := rows.Scan(&info.SetID, &info.Label, &typ, &info.FeatureCount, &info.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan feature set: %w", err)
		}
		info.FeatureType = feature.Type(typ)
		sets = append(sets, info)
	}
	return sets, rows.Err()
}

// DeleteSet removes a stored feature set and its features.
func (s *FeatureStore) DeleteSet(setID string) error {
	return retryOnBusy(func() error {
		tx, err := s.db.Begin()
		if err != nil {
			return fmt.Errorf("begin delete: %w", err)
		}
		defer tx.Rollback()

		if _, err := tx.Exec(`DELETE FROM features WHERE set_id = ?`, setID); err != nil {
			return fmt.Errorf("delete features: %w", err)
		}
		res, err := tx.Exec(`DELETE FROM feature_sets WHERE set_id = ?`, setID)
		if err != nil {
			return fmt.Errorf("delete feature set: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			return fmt.Errorf("feature set %s not found", setID)
		}
		return tx.Commit()
	})
}

// busyRetries and busyBackoff bound how long a writer waits out SQLITE_BUSY
// from a concurrent writer before surfacing the error.
const (
	busyRetries = 5
	busyBackoff = 50 * time.Millisecond
)

// isSQLiteBusy reports whether err is a transient SQLITE_BUSY/locked error.
func isSQLiteBusy(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLITE_BUSY") || strings.Contains(msg, "database is locked")
}

// retryOnBusy runs fn, retrying with linear backoff while it fails with a
// transient busy error.
func retryOnBusy(fn func() error) error {
	var err error
	for attempt := 0; attempt < busyRetries; attempt++ {
		err = fn()
		if !isSQLiteBusy(err) {
			return err
		}
		time.Sleep(busyBackoff * time.Duration(attempt+1))
	}
	return err
}
