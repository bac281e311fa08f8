package biminfo

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestWriteReadRoundTrip(t *testing.T) {
	records := []Record{
		{Path: "/home/user/notes.txt", Line: 42, Col: 7},
		{Path: "/etc/hosts", Line: 1, Col: 1},
	}
	var buf bytes.Buffer
	if err := Write(&buf, records); err != nil {
		t.Fatal(err)
	}

	got, err := Read(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 records, got %d", len(got))
	}
	for i, r := range records {
		if got[i] != r {
			t.Fatalf("record %d: got %+v, want %+v", i, got[i], r)
		}
	}
}

func TestFormatShape(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, []Record{{Path: "/tmp/a", Line: 3, Col: 9}}); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if !strings.HasPrefix(lines[0], "#") {
		t.Fatal("expected a comment header")
	}
	rec := lines[1]
	if !strings.HasPrefix(rec, ">/tmp/a ") {
		t.Fatalf("expected '>path ' lead, got %q", rec)
	}
	// numeric fields are right-padded to 20 characters
	fieldsPart := strings.TrimPrefix(rec, ">/tmp/a ")
	if len(fieldsPart) != 41 { // 20 + 1 space + 20
		t.Fatalf("expected two padded 20-char fields, got %d chars: %q", len(fieldsPart), fieldsPart)
	}
}

func TestReadSkipsCommentsAndGarbage(t *testing.T) {
	in := strings.NewReader("# header\n>/ok 5 6\nnot a record\n>missingfields\n")
	got, err := Read(in)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].Path != "/ok" || got[0].Line != 5 || got[0].Col != 6 {
		t.Fatalf("unexpected records: %+v", got)
	}
}

func TestUpdateAndRestore(t *testing.T) {
	dir := t.TempDir()
	info := filepath.Join(dir, "biminfo")
	file := filepath.Join(dir, "doc.txt")
	if err := os.WriteFile(file, []byte("x\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := Update(info, file, 10, 4); err != nil {
		t.Fatalf("update: %v", err)
	}
	line, col, ok := Restore(info, file)
	if !ok || line != 10 || col != 4 {
		t.Fatalf("restore: got %d,%d ok=%v", line, col, ok)
	}

	// updating the same file replaces its record rather than appending
	if err := Update(info, file, 2, 1); err != nil {
		t.Fatal(err)
	}
	data, _ := os.ReadFile(info)
	if n := strings.Count(string(data), ">"); n != 1 {
		t.Fatalf("expected one record after re-update, got %d", n)
	}
	line, _, _ = Restore(info, file)
	if line != 2 {
		t.Fatalf("expected the updated position, got %d", line)
	}
}

func TestRestoreUnknownFile(t *testing.T) {
	dir := t.TempDir()
	info := filepath.Join(dir, "biminfo")
	if err := Update(info, filepath.Join(dir, "a.txt"), 1, 1); err != nil {
		t.Fatal(err)
	}
	if _, _, ok := Restore(info, filepath.Join(dir, "other.txt")); ok {
		t.Fatal("expected no record for an unseen file")
	}
}
