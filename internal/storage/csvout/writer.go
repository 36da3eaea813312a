// Package csvout renders the finalized trace collections as CSV files
// for spreadsheet and ad-hoc tooling. Column order matches the Parquet
// export so both surfaces stay interchangeable.
package csvout

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/kakaromo/trace/internal/types"
)

func create(path string) (*os.File, *csv.Writer, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, nil, fmt.Errorf("create directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("create file: %w", err)
	}
	return f, csv.NewWriter(f), nil
}

func finish(f *os.File, w *csv.Writer) error {
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return fmt.Errorf("flush csv: %w", err)
	}
	return f.Close()
}

// WriteUFS writes the flash-storage collection to path.
func WriteUFS(path string, events []types.UFS) error {
	f, w, err := create(path)
	if err != nil {
		return err
	}

	header := []string{"time", "process", "cpu", "action", "tag", "opcode",
		"lba", "size", "group_id", "hwq_id", "qd", "dtoc", "ctoc", "ctod",
		"continuous", "aligned"}
	if err := w.Write(header); err != nil {
		f.Close()
		return err
	}

	for i := range events {
		ev := &events[i]
		record := []string{
			formatTime(ev.Time),
			ev.Process,
			formatUint(uint64(ev.CPU)),
			ev.Action,
			formatUint(uint64(ev.Tag)),
			ev.Opcode,
			formatUint(ev.LBA),
			formatUint(uint64(ev.Size)),
			formatUint(uint64(ev.GroupID)),
			formatUint(uint64(ev.HWQID)),
			formatUint(uint64(ev.QD)),
			formatLatency(ev.DToC),
			formatLatency(ev.CToC),
			formatLatency(ev.CToD),
			strconv.FormatBool(ev.Continuous),
			strconv.FormatBool(ev.Aligned),
		}
		if err := w.Write(record); err != nil {
			f.Close()
			return err
		}
	}
	return finish(f, w)
}

// WriteBlock writes the block-I/O collection to path.
func WriteBlock(path string, events []types.Block) error {
	f, w, err := create(path)
	if err != nil {
		return err
	}

	header := []string{"time", "process", "cpu", "flags", "action",
		"devmajor", "devminor", "io_type", "extra", "sector", "size",
		"comm", "qd", "dtoc", "ctoc", "ctod", "continuous", "aligned"}
	if err := w.Write(header); err != nil {
		f.Close()
		return err
	}

	for i := range events {
		ev := &events[i]
		record := []string{
			formatTime(ev.Time),
			ev.Process,
			formatUint(uint64(ev.CPU)),
			ev.Flags,
			ev.Action,
			formatUint(uint64(ev.DevMajor)),
			formatUint(uint64(ev.DevMinor)),
			ev.IOType,
			formatUint(uint64(ev.Extra)),
			formatUint(ev.Sector),
			formatUint(uint64(ev.Size)),
			ev.Comm,
			formatUint(uint64(ev.QD)),
			formatLatency(ev.DToC),
			formatLatency(ev.CToC),
			formatLatency(ev.CToD),
			strconv.FormatBool(ev.Continuous),
			strconv.FormatBool(ev.Aligned),
		}
		if err := w.Write(record); err != nil {
			f.Close()
			return err
		}
	}
	return finish(f, w)
}

// WriteCustom writes the custom-format collection to path.
func WriteCustom(path string, events []types.UFSCustom) error {
	f, w, err := create(path)
	if err != nil {
		return err
	}

	header := []string{"opcode", "lba", "size", "start_time", "end_time",
		"dtoc", "aligned"}
	if err := w.Write(header); err != nil {
		f.Close()
		return err
	}

	for i := range events {
		ev := &events[i]
		record := []string{
			ev.Opcode,
			formatUint(ev.LBA),
			formatUint(uint64(ev.Size)),
			formatTime(ev.StartTime),
			formatTime(ev.EndTime),
			formatLatency(ev.DToC),
			strconv.FormatBool(ev.Aligned),
		}
		if err := w.Write(record); err != nil {
			f.Close()
			return err
		}
	}
	return finish(f, w)
}

func formatTime(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}

func formatLatency(v float64) string {
	return strconv.FormatFloat(v, 'f', 4, 64)
}

func formatUint(v uint64) string {
	return strconv.FormatUint(v, 10)
}
