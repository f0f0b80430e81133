package csvtable

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}

func TestRead_StripsBOM(t *testing.T) {
	path := writeFile(t, t.TempDir(), "t.csv", "\uFEFFname,rrn\n김민준,900101-1234567\n")
	tbl, err := Read(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tbl.Header[0] != "name" {
		t.Errorf("expected BOM stripped from header, got %q", tbl.Header[0])
	}
	if tbl.Rows[0]["name"] != "김민준" {
		t.Errorf("unexpected row value: %q", tbl.Rows[0]["name"])
	}
}

func TestRead_MissingFile(t *testing.T) {
	_, err := Read(filepath.Join(t.TempDir(), "absent.csv"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected os.ErrNotExist, got %v", err)
	}
}

func TestWrite_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "t.csv")
	in := &Table{
		Header: []string{"name", "rrn", "status"},
		Rows: []map[string]string{
			{"name": "홍길동", "rrn": "900101-1234567", "status": "Pending"},
			{"name": "이서연", "rrn": "920202-2345678", "status": "Paid"},
		},
	}
	if err := Write(path, in); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out, err := Read(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out.Rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(out.Rows))
	}
	if out.Rows[1]["status"] != "Paid" {
		t.Errorf("expected status Paid, got %q", out.Rows[1]["status"])
	}
}

func TestAppend_CreatesHeaderOnce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "t.csv")
	header := []string{"name", "rrn"}
	if err := Append(path, header, map[string]string{"name": "a", "rrn": "1"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := Append(path, header, map[string]string{"name": "b", "rrn": "2"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	tbl, err := Read(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tbl.Rows) != 2 {
		t.Errorf("expected 2 rows after two appends, got %d", len(tbl.Rows))
	}
}

func TestHasColumns(t *testing.T) {
	tbl := &Table{Header: []string{"name", "rrn", "status"}}
	if !tbl.HasColumns("rrn", "status") {
		t.Error("expected columns to be present")
	}
	if tbl.HasColumns("rrn", "total_fee") {
		t.Error("expected total_fee to be reported missing")
	}
}

// Two clients both read the table, then write their own mutated copy back.
// The second write clobbers the first: exactly one update survives. This is
// the documented behavior of the whole-file rewrite, not a bug in the test.
func TestWholeFileRewrite_LostUpdate(t *testing.T) {
	path := writeFile(t, t.TempDir(), "t.csv",
		"name,rrn,department,ticket_number\n홍길동,900101-1234567,,\n")

	clientA, err := Read(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	clientB, err := Read(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	clientA.Rows[0]["department"] = "내과"
	if err := Write(path, clientA); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	clientB.Rows[0]["ticket_number"] = "내10302542"
	if err := Write(path, clientB); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	final, err := Read(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if final.Rows[0]["department"] != "" {
		t.Errorf("expected client A's department update to be lost, got %q", final.Rows[0]["department"])
	}
	if final.Rows[0]["ticket_number"] != "내10302542" {
		t.Errorf("expected client B's ticket to survive, got %q", final.Rows[0]["ticket_number"])
	}
}
