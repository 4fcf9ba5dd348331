package store

import (
	"bytes"
	"errors"
	"path/filepath"
	"testing"

	"github.com/lawnchairsociety/mapgen/internal/wfc"
)

// testStore opens a fresh SQLite store in a temp directory.
func testStore(t *testing.T) *Store {
	t.Helper()

	s, err := Open(DefaultConfig(filepath.Join(t.TempDir(), "maps.db")))
	if err != nil {
		t.Fatalf("Failed to open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })

	return s
}

func testMap(name string) *Map {
	return &Map{
		Name:   name,
		Kind:   "wfc",
		Seed:   42,
		Width:  4,
		Height: 2,
		Cells:  []byte{1, 2, 1, 3, 2, 2, 1, 1},
	}
}

func TestSaveAndGetMap(t *testing.T) {
	s := testStore(t)

	id, err := s.SaveMap(testMap("overworld"))
	if err != nil {
		t.Fatalf("SaveMap failed: %v", err)
	}
	if id == 0 {
		t.Error("SaveMap returned zero ID")
	}

	m, err := s.GetMap("overworld")
	if err != nil {
		t.Fatalf("GetMap failed: %v", err)
	}
	if m.ID != id {
		t.Errorf("ID = %d, want %d", m.ID, id)
	}
	if m.Kind != "wfc" || m.Seed != 42 {
		t.Errorf("Kind/Seed = %s/%d, want wfc/42", m.Kind, m.Seed)
	}
	if m.Width != 4 || m.Height != 2 {
		t.Errorf("size = %dx%d, want 4x2", m.Width, m.Height)
	}
	if !bytes.Equal(m.Cells, []byte{1, 2, 1, 3, 2, 2, 1, 1}) {
		t.Errorf("Cells = %v, want original blob", m.Cells)
	}
	if m.CreatedAt.IsZero() {
		t.Error("CreatedAt was not set")
	}
}

func TestGetMapNotFound(t *testing.T) {
	s := testStore(t)

	if _, err := s.GetMap("missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetMap error = %v, want ErrNotFound", err)
	}
}

func TestSaveMapDuplicateName(t *testing.T) {
	s := testStore(t)

	if _, err := s.SaveMap(testMap("dungeon")); err != nil {
		t.Fatalf("first SaveMap failed: %v", err)
	}

	if _, err := s.SaveMap(testMap("dungeon")); !errors.Is(err, ErrDuplicateName) {
		t.Errorf("duplicate SaveMap error = %v, want ErrDuplicateName", err)
	}

	// Map names are case-insensitive.
	if _, err := s.SaveMap(testMap("DUNGEON")); !errors.Is(err, ErrDuplicateName) {
		t.Errorf("case-variant SaveMap error = %v, want ErrDuplicateName", err)
	}
}

func TestListMaps(t *testing.T) {
	s := testStore(t)

	maps, err := s.ListMaps()
	if err != nil {
		t.Fatalf("ListMaps failed: %v", err)
	}
	if len(maps) != 0 {
		t.Fatalf("fresh store lists %d maps, want 0", len(maps))
	}

	for _, name := range []string{"alpha", "beta", "gamma"} {
		if _, err := s.SaveMap(testMap(name)); err != nil {
			t.Fatalf("SaveMap(%s) failed: %v", name, err)
		}
	}

	maps, err = s.ListMaps()
	if err != nil {
		t.Fatalf("ListMaps failed: %v", err)
	}
	if len(maps) != 3 {
		t.Fatalf("ListMaps returned %d maps, want 3", len(maps))
	}

	// The listing omits cell blobs.
	for _, m := range maps {
		if m.Cells != nil {
			t.Errorf("ListMaps included cell data for %s", m.Name)
		}
	}
}

func TestDeleteMap(t *testing.T) {
	s := testStore(t)

	if _, err := s.SaveMap(testMap("doomed")); err != nil {
		t.Fatalf("SaveMap failed: %v", err)
	}

	if err := s.DeleteMap("doomed"); err != nil {
		t.Fatalf("DeleteMap failed: %v", err)
	}
	if _, err := s.GetMap("doomed"); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetMap after delete error = %v, want ErrNotFound", err)
	}

	if err := s.DeleteMap("doomed"); !errors.Is(err, ErrNotFound) {
		t.Errorf("second DeleteMap error = %v, want ErrNotFound", err)
	}
}

func TestEncodeDecodeTiles(t *testing.T) {
	tiles := []wfc.Tile{0, 1, 5, 255}

	cells, err := EncodeTiles(tiles)
	if err != nil {
		t.Fatalf("EncodeTiles failed: %v", err)
	}

	decoded := DecodeTiles(cells)
	if len(decoded) != len(tiles) {
		t.Fatalf("decoded %d tiles, want %d", len(decoded), len(tiles))
	}
	for i, tile := range tiles {
		if decoded[i] != tile {
			t.Errorf("decoded[%d] = %v, want %v", i, decoded[i], tile)
		}
	}

	if _, err := EncodeTiles([]wfc.Tile{256}); err == nil {
		t.Error("EncodeTiles accepted a tile that does not fit in one byte")
	}
}

func TestQueryBuilder(t *testing.T) {
	sqlite := NewQueryBuilder(&SQLiteDialect{})
	postgres := NewQueryBuilder(&PostgresDialect{})

	query := "SELECT * FROM maps WHERE name = ? AND kind = ?"

	if got := sqlite.Build(query); got != query {
		t.Errorf("SQLite Build changed the query: %s", got)
	}

	want := "SELECT * FROM maps WHERE name = $1 AND kind = $2"
	if got := postgres.Build(query); got != want {
		t.Errorf("Postgres Build = %s, want %s", got, want)
	}

	insert := "INSERT INTO maps (name) VALUES (?)"
	if got := sqlite.BuildWithReturning(insert, "id"); got != insert {
		t.Errorf("SQLite BuildWithReturning changed the query: %s", got)
	}
	if got := postgres.BuildWithReturning(insert, "id"); got != "INSERT INTO maps (name) VALUES ($1) RETURNING id" {
		t.Errorf("Postgres BuildWithReturning = %s", got)
	}
}
