// Package mapio reads and writes the on-disk map file convention.
//
// A level is stored as a pair of files in one directory:
//
//	NAME_map.txt   the character grid, one row per line
//	NAME_AB.txt    the AB genome describing its rectangles
//
// Both files must exist for NAME to count as a map. Populated grids are
// exported back out under the same NAME_map.txt filename in a separate
// output directory.
package mapio

import (
	"bufio"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/Hanteus/ProjectArena/pkg/arena"
	errs "github.com/Hanteus/ProjectArena/pkg/errors"
)

// File naming convention for a map pair.
const (
	MapSuffix    = "_map.txt"
	GenomeSuffix = "_AB.txt"
)

// Default directories, relative to the working directory.
const (
	DefaultInputDir  = "Input"
	DefaultOutputDir = "Output"
)

// MapPath returns the grid file path for a map name.
func MapPath(dir, name string) string {
	return filepath.Join(dir, name+MapSuffix)
}

// GenomePath returns the genome file path for a map name.
func GenomePath(dir, name string) string {
	return filepath.Join(dir, name+GenomeSuffix)
}

// List returns the names of all complete map pairs in dir, sorted.
// Grid files without a matching genome file (and vice versa) are skipped.
func List(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errs.Wrap(errs.ErrCodeFileNotFound, err, "input directory %s", dir)
		}
		return nil, err
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), MapSuffix) {
			continue
		}
		name := strings.TrimSuffix(entry.Name(), MapSuffix)
		if name == "" {
			continue
		}
		if _, err := os.Stat(GenomePath(dir, name)); err != nil {
			continue
		}
		names = append(names, name)
	}

	sort.Strings(names)
	return names, nil
}

// ReadGrid decodes a character grid from r. Each line is one row;
// surrounding whitespace (including CR on Windows line endings) is
// stripped. Trailing blank lines are ignored. The first row fixes the
// column count.
func ReadGrid(r io.Reader) (*arena.Grid, error) {
	var rows []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		rows = append(rows, strings.TrimSpace(scanner.Text()))
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	for len(rows) > 0 && rows[len(rows)-1] == "" {
		rows = rows[:len(rows)-1]
	}

	return arena.NewGrid(rows)
}

// ImportGrid reads the grid file at path.
func ImportGrid(path string) (*arena.Grid, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errs.Wrap(errs.ErrCodeFileNotFound, err, "map file %s", path)
		}
		return nil, err
	}
	defer f.Close()
	return ReadGrid(f)
}

// ReadGenome reads the genome string from r. Only the first line is
// read, matching the file convention; the genome itself is validated
// later by the decoder.
func ReadGenome(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// ImportGenome reads the genome file at path.
func ImportGenome(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", errs.Wrap(errs.ErrCodeFileNotFound, err, "genome file %s", path)
		}
		return "", err
	}
	defer f.Close()
	return ReadGenome(f)
}

// LoadPair reads both files of a map pair from dir.
func LoadPair(dir, name string) (*arena.Grid, string, error) {
	if err := errs.ValidateMapName(name); err != nil {
		return nil, "", err
	}

	grid, err := ImportGrid(MapPath(dir, name))
	if err != nil {
		return nil, "", err
	}
	genome, err := ImportGenome(GenomePath(dir, name))
	if err != nil {
		return nil, "", err
	}
	return grid, genome, nil
}

// WriteGrid serializes a grid to w, rows joined by line breaks with no
// trailing break.
func WriteGrid(g *arena.Grid, w io.Writer) error {
	_, err := io.WriteString(w, g.String())
	return err
}

// ExportMap writes a populated grid to dir under the NAME_map.txt
// convention, creating dir if needed.
func ExportMap(g *arena.Grid, dir, name string) error {
	if err := errs.ValidateMapName(name); err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	f, err := os.Create(MapPath(dir, name))
	if err != nil {
		return err
	}
	defer f.Close()
	return WriteGrid(g, f)
}
