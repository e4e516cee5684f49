package mapio

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Hanteus/ProjectArena/pkg/arena"
	errs "github.com/Hanteus/ProjectArena/pkg/errors"
)

func writePair(t *testing.T, dir, name, grid, genome string) {
	t.Helper()
	if err := os.WriteFile(MapPath(dir, name), []byte(grid), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(GenomePath(dir, name), []byte(genome), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestList(t *testing.T) {
	dir := t.TempDir()
	writePair(t, dir, "arena", "ww\nww", "<0,0,2,2>")
	writePair(t, dir, "duel", "ww\nww", "<0,0,2,2>")

	// Grid without genome is not a pair
	if err := os.WriteFile(MapPath(dir, "broken"), []byte("ww"), 0644); err != nil {
		t.Fatal(err)
	}
	// Genome without grid is not a pair
	if err := os.WriteFile(GenomePath(dir, "orphan"), []byte("<0,0,1,1>"), 0644); err != nil {
		t.Fatal(err)
	}
	// Unrelated files are skipped
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	names, err := List(dir)
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if len(names) != 2 || names[0] != "arena" || names[1] != "duel" {
		t.Errorf("List = %v, want [arena duel]", names)
	}
}

func TestListMissingDir(t *testing.T) {
	_, err := List(filepath.Join(t.TempDir(), "nope"))
	if !errs.Is(err, errs.ErrCodeFileNotFound) {
		t.Errorf("missing dir should be FILE_NOT_FOUND, got %v", err)
	}
}

func TestReadGrid(t *testing.T) {
	g, err := ReadGrid(strings.NewReader("wwww\nwrrw\nwwww\n"))
	if err != nil {
		t.Fatalf("ReadGrid error: %v", err)
	}
	if g.Rows() != 3 || g.Cols() != 4 {
		t.Fatalf("grid is %dx%d, want 3x4", g.Rows(), g.Cols())
	}
	if g.At(1, 1) != arena.Floor {
		t.Errorf("cell (1,1) = %q, want floor", g.At(1, 1))
	}
}

func TestReadGridWindowsLineEndings(t *testing.T) {
	g, err := ReadGrid(strings.NewReader("www\r\nwrw\r\nwww\r\n"))
	if err != nil {
		t.Fatalf("ReadGrid error: %v", err)
	}
	if g.Cols() != 3 {
		t.Errorf("CR should be stripped, got %d cols", g.Cols())
	}
}

func TestReadGridIgnoresTrailingBlankLines(t *testing.T) {
	g, err := ReadGrid(strings.NewReader("www\nwww\n\n\n"))
	if err != nil {
		t.Fatalf("ReadGrid error: %v", err)
	}
	if g.Rows() != 2 {
		t.Errorf("rows = %d, want 2", g.Rows())
	}
}

func TestReadGridRagged(t *testing.T) {
	// A row shorter than the first is a geometry error
	_, err := ReadGrid(strings.NewReader("wwww\nww\n"))
	if !errs.Is(err, errs.ErrCodeRaggedGrid) {
		t.Errorf("short row should be GEOMETRY_RAGGED_GRID, got %v", err)
	}

	// A longer row is truncated to the first row's width
	g, err := ReadGrid(strings.NewReader("ww\nwwww\n"))
	if err != nil {
		t.Fatalf("ReadGrid error: %v", err)
	}
	if g.Cols() != 2 {
		t.Errorf("cols = %d, want 2", g.Cols())
	}
}

func TestReadGenomeFirstLineOnly(t *testing.T) {
	genome, err := ReadGenome(strings.NewReader("<0,0,4,4>\nleftover junk\n"))
	if err != nil {
		t.Fatalf("ReadGenome error: %v", err)
	}
	if genome != "<0,0,4,4>" {
		t.Errorf("genome = %q", genome)
	}
}

func TestReadGenomeNoTrailingNewline(t *testing.T) {
	genome, err := ReadGenome(strings.NewReader("<0,0,4,4>"))
	if err != nil {
		t.Fatalf("ReadGenome error: %v", err)
	}
	if genome != "<0,0,4,4>" {
		t.Errorf("genome = %q", genome)
	}
}

func TestLoadPair(t *testing.T) {
	dir := t.TempDir()
	writePair(t, dir, "arena", "wwww\nwrrw\nwwww", "<1,1,3,3>")

	grid, genome, err := LoadPair(dir, "arena")
	if err != nil {
		t.Fatalf("LoadPair error: %v", err)
	}
	if grid.Rows() != 3 {
		t.Errorf("rows = %d, want 3", grid.Rows())
	}
	if genome != "<1,1,3,3>" {
		t.Errorf("genome = %q", genome)
	}
}

func TestLoadPairMissing(t *testing.T) {
	_, _, err := LoadPair(t.TempDir(), "ghost")
	if !errs.Is(err, errs.ErrCodeFileNotFound) {
		t.Errorf("missing pair should be FILE_NOT_FOUND, got %v", err)
	}
}

func TestLoadPairRejectsTraversal(t *testing.T) {
	_, _, err := LoadPair(t.TempDir(), "../escape")
	if !errs.Is(err, errs.ErrCodeInvalidInput) {
		t.Errorf("traversal name should be INVALID_INPUT, got %v", err)
	}
}

func TestExportMapRoundTrip(t *testing.T) {
	grid, err := arena.NewGrid([]string{"wwww", "wrrw", "wwww"})
	if err != nil {
		t.Fatal(err)
	}

	dir := filepath.Join(t.TempDir(), "out")
	if err := ExportMap(grid, dir, "arena"); err != nil {
		t.Fatalf("ExportMap error: %v", err)
	}

	data, err := os.ReadFile(MapPath(dir, "arena"))
	if err != nil {
		t.Fatal(err)
	}
	want := "wwww\nwrrw\nwwww"
	if string(data) != want {
		t.Errorf("exported %q, want %q (no trailing newline)", data, want)
	}

	back, err := ImportGrid(MapPath(dir, "arena"))
	if err != nil {
		t.Fatalf("ImportGrid error: %v", err)
	}
	if back.String() != grid.String() {
		t.Error("round trip changed the grid")
	}
}
