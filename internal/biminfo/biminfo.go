// Package biminfo reads and writes the cursor-position persistence file
// (~/.biminfo): one record per remembered file, so a later
// invocation on the same path can restore where the cursor was.
//
// The format is line-oriented text. Lines starting '#' are comments.
// Record lines have the form
//
//	>ABSPATH LINE_NO COL_NO
//
// with the numeric fields right-padded to 20 characters and a single
// space between the path and the numbers. Lookup is substring-prefixed on
// the space-terminated path.
package biminfo

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Record is one remembered cursor position for a file.
type Record struct {
	Path string // absolute path
	Line int
	Col  int
}

// Write serializes records in the fixed-field form, preceded by a
// comment header so a curious user opening the file knows what it is.
func Write(w io.Writer, records []Record) error {
	bw := bufio.NewWriter(w)
	if _, err := fmt.Fprintln(bw, "# cursor position history"); err != nil {
		return err
	}
	for _, r := range records {
		if _, err := fmt.Fprintf(bw, ">%s %-20d %-20d\n", r.Path, r.Line, r.Col); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// Read parses a biminfo file, skipping comments and malformed lines rather
// than aborting the whole read (a corrupt entry shouldn't cost every other
// remembered position).
func Read(r io.Reader) ([]Record, error) {
	var out []Record
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, ">") {
			continue
		}
		// the path is space-terminated; the numeric fields after it are
		// right-padded to 20 columns.
		path, nums, ok := strings.Cut(line[1:], " ")
		if !ok || path == "" {
			continue
		}
		fields := strings.Fields(nums)
		if len(fields) < 2 {
			continue
		}
		lineNo, err1 := strconv.Atoi(fields[0])
		col, err2 := strconv.Atoi(fields[1])
		if err1 != nil || err2 != nil {
			continue
		}
		out = append(out, Record{Path: path, Line: lineNo, Col: col})
	}
	return out, scanner.Err()
}

// Lookup finds the record for path (made absolute with filepath.Abs;
// symlinks are not resolved here, so callers holding a symlinked path
// resolve it first, as Restore does), or ok=false.
func Lookup(records []Record, path string) (Record, bool) {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	for _, r := range records {
		if r.Path == abs {
			return r, true
		}
	}
	return Record{}, false
}

// DefaultPath returns ~/.biminfo, or "" if the home directory is unknown.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".biminfo")
}

// Update rewrites the biminfo file at path, replacing (or appending) the
// record for file with the given cursor position. A missing file is
// created; a read error is ignored and the records parsed before it are
// kept, since losing stale history is better than refusing to save the
// current position.
func Update(path, file string, line, col int) error {
	if path == "" || file == "" {
		return nil
	}
	abs, err := filepath.Abs(file)
	if err != nil {
		return err
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		abs = resolved
	}

	var records []Record
	if f, err := os.Open(path); err == nil {
		records, _ = Read(f)
		f.Close()
	}

	found := false
	for i := range records {
		if records[i].Path == abs {
			records[i].Line, records[i].Col = line, col
			found = true
			break
		}
	}
	if !found {
		records = append(records, Record{Path: abs, Line: line, Col: col})
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return Write(f, records)
}

// Restore looks up file's remembered position in the biminfo at path,
// returning (0,0,false) when nothing is recorded.
func Restore(path, file string) (line, col int, ok bool) {
	if path == "" || file == "" {
		return 0, 0, false
	}
	f, err := os.Open(path)
	if err != nil {
		return 0, 0, false
	}
	defer f.Close()
	records, err := Read(f)
	if err != nil {
		return 0, 0, false
	}
	abs, err := filepath.Abs(file)
	if err != nil {
		abs = file
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		abs = resolved
	}
	r, ok := Lookup(records, abs)
	if !ok {
		return 0, 0, false
	}
	return r.Line, r.Col, true
}
