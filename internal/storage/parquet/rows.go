package parquet

import (
	"github.com/kakaromo/trace/internal/types"
)

// UFSRow is the Parquet layout of a flash-storage event.
type UFSRow struct {
	Time       float64 `parquet:"time"`
	Process    string  `parquet:"process,zstd"`
	CPU        uint32  `parquet:"cpu"`
	Action     string  `parquet:"action,zstd"`
	Tag        uint32  `parquet:"tag"`
	Opcode     string  `parquet:"opcode,zstd"`
	LBA        uint64  `parquet:"lba"`
	Size       uint32  `parquet:"size"`
	GroupID    uint32  `parquet:"group_id"`
	HWQID      uint32  `parquet:"hwq_id"`
	QD         uint32  `parquet:"qd"`
	DToC       float64 `parquet:"dtoc"`
	CToC       float64 `parquet:"ctoc"`
	CToD       float64 `parquet:"ctod"`
	Continuous bool    `parquet:"continuous"`
	Aligned    bool    `parquet:"aligned"`
}

// BlockRow is the Parquet layout of a block-I/O event.
type BlockRow struct {
	Time       float64 `parquet:"time"`
	Process    string  `parquet:"process,zstd"`
	CPU        uint32  `parquet:"cpu"`
	Flags      string  `parquet:"flags,zstd"`
	Action     string  `parquet:"action,zstd"`
	DevMajor   uint32  `parquet:"devmajor"`
	DevMinor   uint32  `parquet:"devminor"`
	IOType     string  `parquet:"io_type,zstd"`
	Extra      uint32  `parquet:"extra"`
	Sector     uint64  `parquet:"sector"`
	Size       uint32  `parquet:"size"`
	Comm       string  `parquet:"comm,zstd"`
	QD         uint32  `parquet:"qd"`
	DToC       float64 `parquet:"dtoc"`
	CToC       float64 `parquet:"ctoc"`
	CToD       float64 `parquet:"ctod"`
	Continuous bool    `parquet:"continuous"`
	Aligned    bool    `parquet:"aligned"`
}

// CustomRow is the Parquet layout of a pre-paired custom-format request.
type CustomRow struct {
	Opcode    string  `parquet:"opcode,zstd"`
	LBA       uint64  `parquet:"lba"`
	Size      uint32  `parquet:"size"`
	StartTime float64 `parquet:"start_time"`
	EndTime   float64 `parquet:"end_time"`
	DToC      float64 `parquet:"dtoc"`
	Aligned   bool    `parquet:"aligned"`
}

// UFSToRow converts an event to its Parquet layout.
func UFSToRow(u *types.UFS) UFSRow {
	return UFSRow{
		Time:       u.Time,
		Process:    u.Process,
		CPU:        u.CPU,
		Action:     u.Action,
		Tag:        u.Tag,
		Opcode:     u.Opcode,
		LBA:        u.LBA,
		Size:       u.Size,
		GroupID:    u.GroupID,
		HWQID:      u.HWQID,
		QD:         u.QD,
		DToC:       u.DToC,
		CToC:       u.CToC,
		CToD:       u.CToD,
		Continuous: u.Continuous,
		Aligned:    u.Aligned,
	}
}

// RowToUFS converts a Parquet row back to an event.
func RowToUFS(r *UFSRow) types.UFS {
	return types.UFS{
		Time:       r.Time,
		Process:    r.Process,
		CPU:        r.CPU,
		Action:     r.Action,
		Tag:        r.Tag,
		Opcode:     r.Opcode,
		LBA:        r.LBA,
		Size:       r.Size,
		GroupID:    r.GroupID,
		HWQID:      r.HWQID,
		QD:         r.QD,
		DToC:       r.DToC,
		CToC:       r.CToC,
		CToD:       r.CToD,
		Continuous: r.Continuous,
		Aligned:    r.Aligned,
	}
}

// BlockToRow converts an event to its Parquet layout.
func BlockToRow(b *types.Block) BlockRow {
	return BlockRow{
		Time:       b.Time,
		Process:    b.Process,
		CPU:        b.CPU,
		Flags:      b.Flags,
		Action:     b.Action,
		DevMajor:   b.DevMajor,
		DevMinor:   b.DevMinor,
		IOType:     b.IOType,
		Extra:      b.Extra,
		Sector:     b.Sector,
		Size:       b.Size,
		Comm:       b.Comm,
		QD:         b.QD,
		DToC:       b.DToC,
		CToC:       b.CToC,
		CToD:       b.CToD,
		Continuous: b.Continuous,
		Aligned:    b.Aligned,
	}
}

// RowToBlock converts a Parquet row back to an event.
func RowToBlock(r *BlockRow) types.Block {
	return types.Block{
		Time:       r.Time,
		Process:    r.Process,
		CPU:        r.CPU,
		Flags:      r.Flags,
		Action:     r.Action,
		DevMajor:   r.DevMajor,
		DevMinor:   r.DevMinor,
		IOType:     r.IOType,
		Extra:      r.Extra,
		Sector:     r.Sector,
		Size:       r.Size,
		Comm:       r.Comm,
		QD:         r.QD,
		DToC:       r.DToC,
		CToC:       r.CToC,
		CToD:       r.CToD,
		Continuous: r.Continuous,
		Aligned:    r.Aligned,
	}
}

// CustomToRow converts a request to its Parquet layout.
func CustomToRow(c *types.UFSCustom) CustomRow {
	return CustomRow{
		Opcode:    c.Opcode,
		LBA:       c.LBA,
		Size:      c.Size,
		StartTime: c.StartTime,
		EndTime:   c.EndTime,
		DToC:      c.DToC,
		Aligned:   c.Aligned,
	}
}

// RowToCustom converts a Parquet row back to a request.
func RowToCustom(r *CustomRow) types.UFSCustom {
	return types.UFSCustom{
		Opcode:    r.Opcode,
		LBA:       r.LBA,
		Size:      r.Size,
		StartTime: r.StartTime,
		EndTime:   r.EndTime,
		DToC:      r.DToC,
		Aligned:   r.Aligned,
	}
}

// =============================================================================
// Per-family convenience wrappers
// =============================================================================

// WriteUFS writes the enriched UFS collection to path. Returns the number
// of rows written.
func WriteUFS(path string, events []types.UFS, opts Options) (int64, error) {
	w, err := NewWriter[UFSRow](path, opts)
	if err != nil {
		return 0, err
	}
	rows := make([]UFSRow, len(events))
	for i := range events {
		rows[i] = UFSToRow(&events[i])
	}
	if err := w.Write(rows); err != nil {
		w.Close()
		return 0, err
	}
	return w.RowCount(), w.Close()
}

// ReadUFS reads a UFS Parquet file back into events.
func ReadUFS(path string) ([]types.UFS, error) {
	r, err := NewReader[UFSRow](path)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	rows, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	events := make([]types.UFS, len(rows))
	for i := range rows {
		events[i] = RowToUFS(&rows[i])
	}
	return events, nil
}

// WriteBlock writes the enriched block collection to path.
func WriteBlock(path string, events []types.Block, opts Options) (int64, error) {
	w, err := NewWriter[BlockRow](path, opts)
	if err != nil {
		return 0, err
	}
	rows := make([]BlockRow, len(events))
	for i := range events {
		rows[i] = BlockToRow(&events[i])
	}
	if err := w.Write(rows); err != nil {
		w.Close()
		return 0, err
	}
	return w.RowCount(), w.Close()
}

// ReadBlock reads a block Parquet file back into events.
func ReadBlock(path string) ([]types.Block, error) {
	r, err := NewReader[BlockRow](path)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	rows, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	events := make([]types.Block, len(rows))
	for i := range rows {
		events[i] = RowToBlock(&rows[i])
	}
	return events, nil
}

// WriteCustom writes the custom-format collection to path.
func WriteCustom(path string, events []types.UFSCustom, opts Options) (int64, error) {
	w, err := NewWriter[CustomRow](path, opts)
	if err != nil {
		return 0, err
	}
	rows := make([]CustomRow, len(events))
	for i := range events {
		rows[i] = CustomToRow(&events[i])
	}
	if err := w.Write(rows); err != nil {
		w.Close()
		return 0, err
	}
	return w.RowCount(), w.Close()
}

// ReadCustom reads a custom-format Parquet file back into requests.
func ReadCustom(path string) ([]types.UFSCustom, error) {
	r, err := NewReader[CustomRow](path)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	rows, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	events := make([]types.UFSCustom, len(rows))
	for i := range rows {
		events[i] = RowToCustom(&rows[i])
	}
	return events, nil
}
