package csvout

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/kakaromo/trace/internal/types"
)

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open %s: %v", path, err)
	}
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return rows
}

func TestWriteUFS(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ufs.csv")
	events := []types.UFS{
		{
			Time: 100.0009, Process: "irq/153-ufshcd-291", CPU: 1,
			Action: "complete_rsp", Tag: 5, Opcode: "0x2a",
			LBA: 2048, Size: 4, QD: 0, DToC: 0.8, CToC: 1.2,
			Aligned: true,
		},
	}

	if err := WriteUFS(path, events); err != nil {
		t.Fatalf("WriteUFS: %v", err)
	}

	rows := readCSV(t, path)
	if len(rows) != 2 {
		t.Fatalf("expected header + 1 row, got %d rows", len(rows))
	}
	if rows[0][0] != "time" || rows[0][len(rows[0])-1] != "aligned" {
		t.Errorf("unexpected header: %v", rows[0])
	}

	row := rows[1]
	if row[0] != "100.000900" {
		t.Errorf("time = %q", row[0])
	}
	if row[1] != "irq/153-ufshcd-291" {
		t.Errorf("process = %q", row[1])
	}
	if row[5] != "0x2a" {
		t.Errorf("opcode = %q", row[5])
	}
	if row[11] != "0.8000" {
		t.Errorf("dtoc = %q", row[11])
	}
	if row[15] != "true" {
		t.Errorf("aligned = %q", row[15])
	}
}

func TestWriteBlock(t *testing.T) {
	path := filepath.Join(t.TempDir(), "block.csv")
	events := []types.Block{
		{
			Time: 200.0005, Process: "dd-1234", CPU: 2, Flags: "d..2",
			Action: "block_rq_issue", DevMajor: 8, DevMinor: 0,
			IOType: "WS", Sector: 4096, Size: 8, Comm: "dd", QD: 1,
		},
	}

	if err := WriteBlock(path, events); err != nil {
		t.Fatalf("WriteBlock: %v", err)
	}

	rows := readCSV(t, path)
	if len(rows) != 2 {
		t.Fatalf("expected header + 1 row, got %d", len(rows))
	}
	if len(rows[0]) != len(rows[1]) {
		t.Errorf("header has %d columns, row has %d", len(rows[0]), len(rows[1]))
	}
	row := rows[1]
	if row[4] != "block_rq_issue" {
		t.Errorf("action = %q", row[4])
	}
	if row[9] != "4096" {
		t.Errorf("sector = %q", row[9])
	}
}

func TestWriteCustom(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ufscustom.csv")
	events := []types.UFSCustom{
		{Opcode: "0x28", LBA: 512, Size: 8, StartTime: 1.5, EndTime: 1.502, DToC: 2.0},
	}

	if err := WriteCustom(path, events); err != nil {
		t.Fatalf("WriteCustom: %v", err)
	}

	rows := readCSV(t, path)
	if len(rows) != 2 {
		t.Fatalf("expected header + 1 row, got %d", len(rows))
	}
	row := rows[1]
	if row[0] != "0x28" || row[1] != "512" {
		t.Errorf("row = %v", row)
	}
	if row[3] != "1.500000" || row[5] != "2.0000" {
		t.Errorf("times = %q, dtoc = %q", row[3], row[5])
	}
}

func TestWriteUFS_EmptyStillWritesHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ufs.csv")
	if err := WriteUFS(path, nil); err != nil {
		t.Fatalf("WriteUFS: %v", err)
	}
	rows := readCSV(t, path)
	if len(rows) != 1 {
		t.Errorf("expected header only, got %d rows", len(rows))
	}
}
