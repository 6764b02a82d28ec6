// Package archive keeps encoded save payloads in a SQLite database, standing
// in for the host's save-game companion data. Payloads are stored
// zstd-compressed and addressed by save name.
package archive

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/klauspost/compress/zstd"
	_ "modernc.org/sqlite"

	"github.com/mesh-intelligence/cyclehud/internal/paths"
	"github.com/mesh-intelligence/cyclehud/pkg/types"
)

const schema = `CREATE TABLE IF NOT EXISTS saves (
    save_id TEXT PRIMARY KEY,
    name TEXT NOT NULL UNIQUE,
    version INTEGER NOT NULL,
    payload BLOB NOT NULL,
    raw_size INTEGER NOT NULL,
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL
);`

const timeLayout = time.RFC3339Nano

// Archive stores save payloads. It must be attached before use.
type Archive struct {
	mu       sync.RWMutex
	attached bool
	config   types.Config
	db       *sql.DB
	encoder  *zstd.Encoder
	decoder  *zstd.Decoder
}

// New creates a detached archive.
func New() *Archive {
	return &Archive{}
}

func encoderLevel(name string) zstd.EncoderLevel {
	switch name {
	case types.CompressionFastest:
		return zstd.SpeedFastest
	case types.CompressionBetter:
		return zstd.SpeedBetterCompression
	case types.CompressionBest:
		return zstd.SpeedBestCompression
	default:
		return zstd.SpeedDefault
	}
}

// Attach opens (creating if needed) the archive database in cfg.DataDir.
// Returns ErrAlreadyAttached if already attached.
func (a *Archive) Attach(cfg types.Config) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.attached {
		return types.ErrAlreadyAttached
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	dataDir := cfg.DataDir
	if dataDir == "" {
		dataDir = "."
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}

	db, err := sql.Open("sqlite", filepath.Join(dataDir, paths.ArchiveFile))
	if err != nil {
		return fmt.Errorf("open archive: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return fmt.Errorf("create schema: %w", err)
	}

	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(encoderLevel(cfg.Compression)))
	if err != nil {
		db.Close()
		return fmt.Errorf("create zstd encoder: %w", err)
	}
	dec, err := zstd.NewReader(nil)
	if err != nil {
		enc.Close()
		db.Close()
		return fmt.Errorf("create zstd decoder: %w", err)
	}

	a.db = db
	a.encoder = enc
	a.decoder = dec
	a.config = cfg
	a.attached = true
	return nil
}

// Detach closes the database. Detach is idempotent.
func (a *Archive) Detach() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.attached {
		return nil
	}
	a.decoder.Close()
	encErr := a.encoder.Close()
	dbErr := a.db.Close()
	a.db, a.encoder, a.decoder = nil, nil, nil
	a.attached = false
	return errors.Join(encErr, dbErr)
}

// Put stores a payload under name, replacing any previous payload with that
// name. It returns the save ID, which stays the same across replacements.
func (a *Archive) Put(name string, version uint32, payload []byte) (string, error) {
	if name == "" {
		return "", types.ErrInvalidName
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.attached {
		return "", types.ErrArchiveDetached
	}

	compressed := a.encoder.EncodeAll(payload, make([]byte, 0, len(payload)))
	now := time.Now().UTC().Format(timeLayout)

	var id string
	err := a.db.QueryRow(`SELECT save_id FROM saves WHERE name = ?`, name).Scan(&id)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		id = generateUUID()
		_, err = a.db.Exec(
			`INSERT INTO saves (save_id, name, version, payload, raw_size, created_at, updated_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			id, name, version, compressed, len(payload), now, now)
	case err == nil:
		_, err = a.db.Exec(
			`UPDATE saves SET version = ?, payload = ?, raw_size = ?, updated_at = ? WHERE save_id = ?`,
			version, compressed, len(payload), now, id)
	}
	if err != nil {
		return "", fmt.Errorf("store save %q: %w", name, err)
	}
	return id, nil
}

// Get returns the save stored under name with its payload decompressed.
// Returns ErrNotFound if there is none.
func (a *Archive) Get(name string) (types.SaveRecord, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if !a.attached {
		return types.SaveRecord{}, types.ErrArchiveDetached
	}

	var (
		rec                  types.SaveRecord
		compressed           []byte
		createdAt, updatedAt string
	)
	err := a.db.QueryRow(
		`SELECT save_id, name, version, payload, created_at, updated_at FROM saves WHERE name = ?`, name,
	).Scan(&rec.SaveID, &rec.Name, &rec.Version, &compressed, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return types.SaveRecord{}, types.ErrNotFound
	}
	if err != nil {
		return types.SaveRecord{}, fmt.Errorf("load save %q: %w", name, err)
	}

	rec.Payload, err = a.decoder.DecodeAll(compressed, nil)
	if err != nil {
		return types.SaveRecord{}, fmt.Errorf("decompress save %q: %w", name, err)
	}
	if err := parseTimes(&rec, createdAt, updatedAt); err != nil {
		return types.SaveRecord{}, err
	}
	return rec, nil
}

// List returns every save ordered by name. Payloads are not loaded.
func (a *Archive) List() ([]types.SaveRecord, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if !a.attached {
		return nil, types.ErrArchiveDetached
	}

	rows, err := a.db.Query(`SELECT save_id, name, version, created_at, updated_at FROM saves ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list saves: %w", err)
	}
	defer rows.Close()

	var out []types.SaveRecord
	for rows.Next() {
		var (
			rec                  types.SaveRecord
			createdAt, updatedAt string
		)
		if err := rows.Scan(&rec.SaveID, &rec.Name, &rec.Version, &createdAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("scan save: %w", err)
		}
		if err := parseTimes(&rec, createdAt, updatedAt); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// Delete removes the save stored under name. Returns ErrNotFound if there is
// none.
func (a *Archive) Delete(name string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.attached {
		return types.ErrArchiveDetached
	}

	res, err := a.db.Exec(`DELETE FROM saves WHERE name = ?`, name)
	if err != nil {
		return fmt.Errorf("delete save %q: %w", name, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete save %q: %w", name, err)
	}
	if n == 0 {
		return types.ErrNotFound
	}
	return nil
}

func parseTimes(rec *types.SaveRecord, createdAt, updatedAt string) error {
	var err error
	if rec.CreatedAt, err = time.Parse(timeLayout, createdAt); err != nil {
		return fmt.Errorf("parse created_at: %w", err)
	}
	if rec.UpdatedAt, err = time.Parse(timeLayout, updatedAt); err != nil {
		return fmt.Errorf("parse updated_at: %w", err)
	}
	return nil
}

// generateUUID generates a new UUID v7 for save IDs.
func generateUUID() string {
	id, err := uuid.NewV7()
	if err != nil {
		// Fallback to UUID v4 if v7 generation fails
		return uuid.New().String()
	}
	return id.String()
}
