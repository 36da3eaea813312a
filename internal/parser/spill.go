package parser

import (
	"os"
	"path/filepath"

	"github.com/kakaromo/trace/internal/errors"
	pq "github.com/kakaromo/trace/internal/storage/parquet"
)

// spill persists intermediate parse batches to bounded temporary Parquet
// files for the streaming strategy. One file per family, created lazily
// the first time that family produces records.
type spill struct {
	dir     string
	windows int

	ufs    *pq.Writer[pq.UFSRow]
	block  *pq.Writer[pq.BlockRow]
	custom *pq.Writer[pq.CustomRow]
}

func newSpill(tempDir string) (*spill, error) {
	dir, err := os.MkdirTemp(tempDir, "trace-spill-*")
	if err != nil {
		return nil, errors.Wrap(err, "create spill dir")
	}
	return &spill{dir: dir}, nil
}

// write appends one window's batch to the spill files.
func (s *spill) write(batch *Batch) error {
	if len(batch.UFS) == 0 && len(batch.Block) == 0 && len(batch.UFSCustom) == 0 {
		return nil
	}
	s.windows++

	if len(batch.UFS) > 0 {
		if s.ufs == nil {
			w, err := pq.NewWriter[pq.UFSRow](filepath.Join(s.dir, "ufs.parquet"), pq.DefaultOptions())
			if err != nil {
				return errors.Wrap(err, "create ufs spill")
			}
			s.ufs = w
		}
		rows := make([]pq.UFSRow, len(batch.UFS))
		for i := range batch.UFS {
			rows[i] = pq.UFSToRow(&batch.UFS[i])
		}
		if err := s.ufs.Write(rows); err != nil {
			return errors.Wrap(err, "spill ufs window")
		}
	}

	if len(batch.Block) > 0 {
		if s.block == nil {
			w, err := pq.NewWriter[pq.BlockRow](filepath.Join(s.dir, "block.parquet"), pq.DefaultOptions())
			if err != nil {
				return errors.Wrap(err, "create block spill")
			}
			s.block = w
		}
		rows := make([]pq.BlockRow, len(batch.Block))
		for i := range batch.Block {
			rows[i] = pq.BlockToRow(&batch.Block[i])
		}
		if err := s.block.Write(rows); err != nil {
			return errors.Wrap(err, "spill block window")
		}
	}

	if len(batch.UFSCustom) > 0 {
		if s.custom == nil {
			w, err := pq.NewWriter[pq.CustomRow](filepath.Join(s.dir, "ufscustom.parquet"), pq.DefaultOptions())
			if err != nil {
				return errors.Wrap(err, "create ufscustom spill")
			}
			s.custom = w
		}
		rows := make([]pq.CustomRow, len(batch.UFSCustom))
		for i := range batch.UFSCustom {
			rows[i] = pq.CustomToRow(&batch.UFSCustom[i])
		}
		if err := s.custom.Write(rows); err != nil {
			return errors.Wrap(err, "spill ufscustom window")
		}
	}

	return nil
}

// merge closes the spill files and reads them back into a single batch,
// preserving window order.
func (s *spill) merge() (*Batch, error) {
	batch := &Batch{}

	if s.ufs != nil {
		path := s.ufs.Path()
		if err := s.ufs.Close(); err != nil {
			return nil, errors.Wrap(err, "close ufs spill")
		}
		s.ufs = nil
		events, err := pq.ReadUFS(path)
		if err != nil {
			return nil, errors.Wrap(err, "read ufs spill")
		}
		batch.UFS = events
	}

	if s.block != nil {
		path := s.block.Path()
		if err := s.block.Close(); err != nil {
			return nil, errors.Wrap(err, "close block spill")
		}
		s.block = nil
		events, err := pq.ReadBlock(path)
		if err != nil {
			return nil, errors.Wrap(err, "read block spill")
		}
		batch.Block = events
	}

	if s.custom != nil {
		path := s.custom.Path()
		if err := s.custom.Close(); err != nil {
			return nil, errors.Wrap(err, "close ufscustom spill")
		}
		s.custom = nil
		events, err := pq.ReadCustom(path)
		if err != nil {
			return nil, errors.Wrap(err, "read ufscustom spill")
		}
		batch.UFSCustom = events
	}

	return batch, nil
}

// cleanup closes any open writer and removes the spill directory.
func (s *spill) cleanup() {
	if s.ufs != nil {
		s.ufs.Close()
	}
	if s.block != nil {
		s.block.Close()
	}
	if s.custom != nil {
		s.custom.Close()
	}
	os.RemoveAll(s.dir)
}
