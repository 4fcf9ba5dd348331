package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lawnchairsociety/mapgen/internal/wfc"
)

var (
	// ErrNotFound is returned when no map with the requested name exists.
	ErrNotFound = errors.New("store: map not found")

	// ErrDuplicateName is returned when saving a map whose name is taken.
	ErrDuplicateName = errors.New("store: map name already exists")
)

// Map is a stored generated map. Cells holds the encoded cell values, one
// byte per cell in row-major order.
type Map struct {
	ID        int64
	Name      string
	Kind      string
	Seed      int64
	Width     int
	Height    int
	Cells     []byte
	CreatedAt time.Time
}

// SaveMap inserts a map record and returns its ID. Names are unique
// case-insensitively.
func (s *Store) SaveMap(m *Map) (int64, error) {
	query := s.qb.BuildWithReturning(
		`INSERT INTO maps (name, kind, seed, width, height, cells) VALUES (?, ?, ?, ?, ?, ?)`,
		"id",
	)

	var id int64
	if s.dialect.SupportsLastInsertID() {
		result, err := s.db.Exec(query, m.Name, m.Kind, m.Seed, m.Width, m.Height, m.Cells)
		if err != nil {
			if s.dialect.IsDuplicateKeyError(err) {
				return 0, ErrDuplicateName
			}
			return 0, fmt.Errorf("failed to save map: %w", err)
		}
		id, err = result.LastInsertId()
		if err != nil {
			return 0, fmt.Errorf("failed to get map ID: %w", err)
		}
	} else {
		err := s.db.QueryRow(query, m.Name, m.Kind, m.Seed, m.Width, m.Height, m.Cells).Scan(&id)
		if err != nil {
			if s.dialect.IsDuplicateKeyError(err) {
				return 0, ErrDuplicateName
			}
			return 0, fmt.Errorf("failed to save map: %w", err)
		}
	}

	return id, nil
}

// GetMap loads a map record by name.
func (s *Store) GetMap(name string) (*Map, error) {
	query := s.qb.Build(
		`SELECT id, name, kind, seed, width, height, cells, created_at FROM maps WHERE name = ?`,
	)

	var m Map
	err := s.db.QueryRow(query, name).Scan(
		&m.ID, &m.Name, &m.Kind, &m.Seed, &m.Width, &m.Height, &m.Cells, &m.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load map: %w", err)
	}

	return &m, nil
}

// ListMaps returns all stored maps without their cell data, newest first.
func (s *Store) ListMaps() ([]Map, error) {
	query := `SELECT id, name, kind, seed, width, height, created_at FROM maps ORDER BY created_at DESC, id DESC`

	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to list maps: %w", err)
	}
	defer rows.Close()

	var maps []Map
	for rows.Next() {
		var m Map
		if err := rows.Scan(&m.ID, &m.Name, &m.Kind, &m.Seed, &m.Width, &m.Height, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan map row: %w", err)
		}
		maps = append(maps, m)
	}

	return maps, rows.Err()
}

// DeleteMap removes a map record by name.
func (s *Store) DeleteMap(name string) error {
	query := s.qb.Build(`DELETE FROM maps WHERE name = ?`)

	result, err := s.db.Exec(query, name)
	if err != nil {
		return fmt.Errorf("failed to delete map: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}

	return nil
}

// EncodeTiles packs tiles into one byte per cell for storage.
func EncodeTiles(tiles []wfc.Tile) ([]byte, error) {
	out := make([]byte, len(tiles))
	for i, t := range tiles {
		if t < 0 || t > 255 {
			return nil, fmt.Errorf("tile %d at cell %d does not fit in one byte", t, i)
		}
		out[i] = byte(t)
	}
	return out, nil
}

// DecodeTiles unpacks a stored cell blob back into tiles.
func DecodeTiles(cells []byte) []wfc.Tile {
	out := make([]wfc.Tile, len(cells))
	for i, b := range cells {
		out[i] = wfc.Tile(b)
	}
	return out
}
