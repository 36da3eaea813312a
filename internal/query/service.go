// Package query provides SQL analytics over the exported Parquet files.
//
// It uses an in-memory DuckDB instance and registers one view per trace
// family (ufs, block, ufscustom) over the corresponding Parquet file, so
// callers and the interactive shell can run plain SQL against the
// enriched collections.
package query

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	_ "github.com/marcboeker/go-duckdb"

	"github.com/kakaromo/trace/internal/errors"
	"github.com/kakaromo/trace/internal/logging"
	"github.com/kakaromo/trace/internal/types"
)

var log = logging.Component("query")

// Service provides query capabilities over exported Parquet data.
type Service struct {
	mu  sync.Mutex
	db  *sql.DB
	dir string

	views []string
}

// Result holds one query's output in render-ready form.
type Result struct {
	Columns []string
	Rows    [][]string
}

// New opens an in-memory DuckDB instance over the Parquet files in dir.
func New(dir string) (*Service, error) {
	db, err := sql.Open("duckdb", "")
	if err != nil {
		return nil, fmt.Errorf("open duckdb: %w", err)
	}
	return &Service{db: db, dir: dir}, nil
}

// Close closes the underlying database.
func (s *Service) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// ParquetPath returns the export path for a family.
func (s *Service) ParquetPath(t types.TraceType) string {
	return filepath.Join(s.dir, t.String()+".parquet")
}

// RegisterViews creates one SQL view per family whose Parquet file
// exists. Returns the view names registered.
func (s *Service) RegisterViews(ctx context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.views = s.views[:0]
	for _, t := range []types.TraceType{types.TraceUFS, types.TraceBlock, types.TraceUFSCustom} {
		path := s.ParquetPath(t)
		if _, err := os.Stat(path); err != nil {
			continue
		}
		stmt := fmt.Sprintf("CREATE OR REPLACE VIEW %s AS SELECT * FROM read_parquet('%s')",
			t.String(), strings.ReplaceAll(path, "'", "''"))
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return nil, errors.Wrapf(err, "register view %s", t)
		}
		s.views = append(s.views, t.String())
	}

	if len(s.views) == 0 {
		return nil, errors.ErrNoParquetData
	}
	log.Debug("views registered", "views", strings.Join(s.views, ","))
	return append([]string(nil), s.views...), nil
}

// Views returns the registered view names.
func (s *Service) Views() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.views...)
}

// Query executes one SQL statement and renders every value as a string.
func (s *Service) Query(ctx context.Context, sqlText string) (*Result, error) {
	rows, err := s.db.QueryContext(ctx, sqlText)
	if err != nil {
		return nil, errors.Wrap(err, "query")
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, errors.Wrap(err, "columns")
	}

	result := &Result{Columns: cols}
	values := make([]any, len(cols))
	ptrs := make([]any, len(cols))
	for i := range values {
		ptrs[i] = &values[i]
	}

	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return nil, errors.Wrap(err, "scan")
		}
		row := make([]string, len(cols))
		for i, v := range values {
			row[i] = renderValue(v)
		}
		result.Rows = append(result.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "rows")
	}
	return result, nil
}

// LatencySummary runs a canned per-action latency percentile query over
// one family's view.
func (s *Service) LatencySummary(ctx context.Context, t types.TraceType) (*Result, error) {
	var stmt string
	switch t {
	case types.TraceUFSCustom:
		stmt = fmt.Sprintf(`SELECT opcode,
			count(*) AS requests,
			round(avg(dtoc), 3) AS avg_dtoc_ms,
			round(quantile_cont(dtoc, 0.50), 3) AS p50,
			round(quantile_cont(dtoc, 0.99), 3) AS p99
		FROM %s WHERE dtoc > 0 GROUP BY opcode ORDER BY requests DESC`, t.String())
	default:
		stmt = fmt.Sprintf(`SELECT action,
			count(*) AS events,
			round(avg(dtoc), 3) AS avg_dtoc_ms,
			round(quantile_cont(dtoc, 0.50), 3) AS p50,
			round(quantile_cont(dtoc, 0.99), 3) AS p99,
			max(qd) AS max_qd
		FROM %s WHERE dtoc > 0 GROUP BY action ORDER BY events DESC`, t.String())
	}
	return s.Query(ctx, stmt)
}

func renderValue(v any) string {
	switch x := v.(type) {
	case nil:
		return "NULL"
	case []byte:
		return string(x)
	case string:
		return x
	default:
		return fmt.Sprintf("%v", x)
	}
}
