package parser

import "bytes"

// Range is a half-open [Start, End) byte range within a parse buffer.
type Range struct {
	Start int
	End   int
}

// Len returns the number of bytes covered by the range.
func (r Range) Len() int { return r.End - r.Start }

// ScanRanges splits buf into contiguous, non-overlapping ranges of roughly
// chunkSize bytes, each ending immediately after a newline byte (or at the
// end of the buffer). No line is ever split across two ranges, so each
// range can be parsed by an independent worker.
//
// A buffer with no terminator yields a single range spanning it all.
// ScanRanges is pure and has no failure mode.
func ScanRanges(buf []byte, chunkSize int) []Range {
	if len(buf) == 0 {
		return nil
	}
	if chunkSize <= 0 || chunkSize >= len(buf) {
		return []Range{{Start: 0, End: len(buf)}}
	}

	ranges := make([]Range, 0, len(buf)/chunkSize+1)
	pos := 0
	for pos < len(buf) {
		end := pos + chunkSize
		if end >= len(buf) {
			end = len(buf)
		} else {
			// Extend to the next line terminator so the boundary
			// falls just after it.
			idx := bytes.IndexByte(buf[end:], '\n')
			if idx < 0 {
				end = len(buf)
			} else {
				end += idx + 1
			}
		}
		ranges = append(ranges, Range{Start: pos, End: end})
		pos = end
	}
	return ranges
}

// ChunkSize derives the per-worker chunk size for a buffer of fileSize
// bytes: fileSize/(workers*4), floored at minChunk. The divisor gives each
// worker a few chunks to smooth out uneven line densities.
func ChunkSize(fileSize, workers, minChunk int) int {
	if workers < 1 {
		workers = 1
	}
	size := fileSize / (workers * 4)
	if size < minChunk {
		size = minChunk
	}
	return size
}
