// Package gitgutter populates a Buffer's per-line RevStatus by spawning
// `git diff` against the working tree and parsing its unified-diff hunk
// headers, shelling out rather than linking a Git implementation.
package gitgutter

import (
	"bufio"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/vexedit/vex"
)

// Annotate runs `git diff -- path` from path's directory and marks every
// line of buf that the working tree has added or modified relative to the
// index. Any failure (not a repo, git missing, file untracked) is silent:
// the gutter simply stays blank.
func Annotate(buf *vex.Buffer, path string) {
	if path == "" {
		return
	}
	dir := filepath.Dir(path)
	base := filepath.Base(path)

	cmd := exec.Command("git", "diff", "--no-color", "-U0", "--", base)
	cmd.Dir = dir
	out, err := cmd.Output()
	if err != nil {
		return
	}

	hunks := parseHunks(out)
	for _, h := range hunks {
		applyHunk(buf, h)
	}
}

type hunk struct {
	newStart, newCount int
	oldCount           int
}

// parseHunks extracts "@@ -a,b +c,d @@" headers from unified diff output.
func parseHunks(diff []byte) []hunk {
	var out []hunk
	scanner := bufio.NewScanner(strings.NewReader(string(diff)))
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, "@@ ") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 3 {
			continue
		}
		oldCount := rangeCount(fields[1])
		newStart, newCount := rangeParts(fields[2])
		out = append(out, hunk{newStart: newStart, newCount: newCount, oldCount: oldCount})
	}
	return out
}

func rangeCount(field string) int {
	_, count := rangeParts(field)
	return count
}

// rangeParts parses "-a,b" or "+a,b" (or bare "-a"/"+a", count implied 1).
func rangeParts(field string) (start, count int) {
	field = strings.TrimLeft(field, "+-")
	parts := strings.SplitN(field, ",", 2)
	start, _ = strconv.Atoi(parts[0])
	count = 1
	if len(parts) == 2 {
		count, _ = strconv.Atoi(parts[1])
	}
	return start, count
}

func applyHunk(buf *vex.Buffer, h hunk) {
	if h.newCount == 0 {
		// pure deletion: mark the line the deletion sits below.
		if ln := buf.Line(h.newStart); ln != nil {
			ln.RevStatus = vex.RevDeletionBelow
		}
		return
	}
	status := vex.RevAdded
	if h.oldCount > 0 {
		status = vex.RevModified
		if h.oldCount != h.newCount {
			status = vex.RevModifiedAndDeletion
		}
	}
	for i := 0; i < h.newCount; i++ {
		if ln := buf.Line(h.newStart + i); ln != nil {
			ln.RevStatus = status
		}
	}
}
