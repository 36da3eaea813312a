// Package parquet provides columnar serialization for the three trace
// families.
//
// The export layer writes one Parquet file per family from the finalized,
// enriched collections; the streaming parse strategy reuses the same
// writers to spill intermediate batches to bounded temporary files instead
// of holding the full result set in memory.
//
// Writers and readers are generic over the row type; the per-family row
// structs in rows.go carry the column names and compression hints.
package parquet
