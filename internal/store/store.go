// Package store keeps named save slots in a SQLite database
package store

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pierrec/lz4/v4"
	"github.com/sirupsen/logrus"
	"lukechampine.com/blake3"
	_ "modernc.org/sqlite"

	"github.com/napolitain/kingdom-core/internal/logger"
	"github.com/napolitain/kingdom-core/internal/models"
	"github.com/napolitain/kingdom-core/internal/savegame"
)

var (
	// ErrSlotNotFound means no slot has the requested name
	ErrSlotNotFound = errors.New("save slot not found")
	// ErrCorrupt means a stored payload failed its checksum or could not be decompressed
	ErrCorrupt = errors.New("save slot is corrupt")
)

// Slot describes one stored save without its payload
type Slot struct {
	ID       string    `db:"id"`
	Name     string    `db:"name"`
	Day      int       `db:"day"`
	Version  int       `db:"version"`
	Checksum string    `db:"checksum"`
	Size     int       `db:"size"`
	SavedAt  time.Time `db:"-"`
	SavedRaw string    `db:"saved_at"`
}

// Store wraps a SQLite connection holding save slots
type Store struct {
	conn *sqlx.DB
	now  func() time.Time
}

// Open opens or creates the slot database at path
func Open(path string) (*Store, error) {
	conn, err := sqlx.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	s := &Store{conn: conn, now: time.Now}
	if err := s.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.conn.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS slots (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL UNIQUE,
		day INTEGER NOT NULL,
		version INTEGER NOT NULL,
		checksum TEXT NOT NULL,
		size INTEGER NOT NULL,
		payload BLOB NOT NULL,
		saved_at TEXT NOT NULL
	);`
	_, err := s.conn.Exec(schema)
	return err
}

// Save encodes gs and stores it under name, replacing an existing slot of that name.
// The slot id is kept across overwrites.
func (s *Store) Save(ctx context.Context, name string, gs *models.GameState) (*Slot, error) {
	if name == "" {
		return nil, errors.New("slot name is empty")
	}

	doc := savegame.Encode(gs)
	payload, err := compress(doc)
	if err != nil {
		return nil, fmt.Errorf("compress slot %q: %w", name, err)
	}

	slot := &Slot{
		ID:       uuid.NewString(),
		Name:     name,
		Day:      gs.Day,
		Version:  savegame.Version,
		Checksum: checksum(doc),
		Size:     len(doc),
		SavedAt:  s.now().UTC(),
	}
	slot.SavedRaw = slot.SavedAt.Format(time.RFC3339Nano)

	err = s.conn.QueryRowxContext(ctx, `
		INSERT INTO slots (id, name, day, version, checksum, size, payload, saved_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			day = excluded.day,
			version = excluded.version,
			checksum = excluded.checksum,
			size = excluded.size,
			payload = excluded.payload,
			saved_at = excluded.saved_at
		RETURNING id`,
		slot.ID, slot.Name, slot.Day, slot.Version, slot.Checksum, slot.Size, payload, slot.SavedRaw,
	).Scan(&slot.ID)
	if err != nil {
		return nil, fmt.Errorf("save slot %q: %w", name, err)
	}

	logger.Log.WithFields(logrus.Fields{
		"slot": name,
		"day":  slot.Day,
		"size": slot.Size,
	}).Debug("slot saved")
	return slot, nil
}

// Load reads the slot called name, verifies its checksum and decodes it.
// Codec errors such as savegame.ErrVersionTooNew pass through unchanged.
func (s *Store) Load(ctx context.Context, name string) (*models.GameState, error) {
	var row struct {
		Checksum string `db:"checksum"`
		Payload  []byte `db:"payload"`
	}
	err := s.conn.GetContext(ctx, &row, `SELECT checksum, payload FROM slots WHERE name = ?`, name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrSlotNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("load slot %q: %w", name, err)
	}

	doc, err := decompress(row.Payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCorrupt, name, err)
	}
	if checksum(doc) != row.Checksum {
		return nil, fmt.Errorf("%w: %s: checksum mismatch", ErrCorrupt, name)
	}
	return savegame.Decode(doc)
}

// List returns every slot ordered by name
func (s *Store) List(ctx context.Context) ([]Slot, error) {
	var slots []Slot
	err := s.conn.SelectContext(ctx, &slots,
		`SELECT id, name, day, version, checksum, size, saved_at FROM slots ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list slots: %w", err)
	}
	for i := range slots {
		if t, err := time.Parse(time.RFC3339Nano, slots[i].SavedRaw); err == nil {
			slots[i].SavedAt = t
		}
	}
	return slots, nil
}

// Delete removes the slot called name
func (s *Store) Delete(ctx context.Context, name string) error {
	res, err := s.conn.ExecContext(ctx, `DELETE FROM slots WHERE name = ?`, name)
	if err != nil {
		return fmt.Errorf("delete slot %q: %w", name, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete slot %q: %w", name, err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrSlotNotFound, name)
	}
	return nil
}

func compress(src []byte) ([]byte, error) {
	var buf bytes.Buffer
	zw := lz4.NewWriter(&buf)
	if _, err := zw.Write(src); err != nil {
		return nil, err
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func decompress(src []byte) ([]byte, error) {
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, lz4.NewReader(bytes.NewReader(src))); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func checksum(data []byte) string {
	sum := blake3.Sum256(data)
	return hex.EncodeToString(sum[:])
}
