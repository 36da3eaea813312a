package parser

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/kakaromo/trace/internal/constants"
	"github.com/kakaromo/trace/internal/types"
)

// Patterns for the three families. A line matches at most one family;
// the request-tag marker (ufshcd_command) identifies UFS, the
// device-major/minor + sector layout identifies block (in either its
// ftrace or blktrace-CSV rendering), and the fixed-column CSV layout
// identifies the custom format.
var (
	ufsRE = regexp.MustCompile(`^\s*(?P<process>.*?)\s+\[(?P<cpu>[0-9]+)\].*?(?P<time>[0-9]+\.[0-9]+):\s+ufshcd_command:\s+(?P<command>send_req|complete_rsp):.*?tag:\s*(?P<tag>\d+).*?size:\s*(?P<size>[-]?\d+).*?LBA:\s*(?P<lba>\d+).*?opcode:\s*(?P<opcode>0x[0-9a-f]+).*?group_id:\s*0x(?P<group_id>[0-9a-f]+).*?hwq_id:\s*(?P<hwq_id>[-]?\d+)`)

	blockRE = regexp.MustCompile(`^\s*(?P<process>.*?)\s+\[(?P<cpu>\d+)\]\s+(?P<flags>.+?)\s+(?P<time>[\d.]+):\s+(?P<action>\S+):\s+(?P<devmajor>\d+),(?P<devminor>\d+)\s+(?P<io_type>[A-Z]+)(?:\s+(?P<extra>\d+))?\s+\(\)\s+(?P<sector>\d+)\s+\+\s+(?P<size>\d+)(?:\s+\S+)?\s+\[(?P<comm>.*?)\]$`)

	// blktrace CSV rendering of the block family:
	// time,cpu,major,minor,pid,action,rwds,sector,size,comm
	blktraceCSVRE = regexp.MustCompile(`^(?P<time>[\d.]+),(?P<cpu>\d+),(?P<major>\d+),(?P<minor>\d+),(?P<pid>\d+),(?P<action>[A-Z]),(?P<rwds>[A-Z]*),(?P<sector>\d+),(?P<size>\d+),(?P<comm>.*)$`)

	customRE = regexp.MustCompile(`^(?P<opcode>0x[0-9a-f]+),(?P<lba>\d+),(?P<size>\d+),(?P<start_time>\d+(?:\.\d+)?),(?P<end_time>\d+(?:\.\d+)?)$`)

	// Cheap pre-checks run before the full patterns.
	blktraceCSVQuick = regexp.MustCompile(`^\d+\.\d+,\d+,\d+,\d+,\d+,[A-Z],[A-Z]*,\d+,\d+,`)
	customQuick      = regexp.MustCompile(`^0x[0-9a-f]+,\d+,\d+,`)
)

// Batch collects per-family records in encounter order. Each worker owns
// one Batch until the merge barrier.
type Batch struct {
	UFS       []types.UFS
	Block     []types.Block
	UFSCustom []types.UFSCustom
}

// Append concatenates other onto b, preserving other's internal order.
func (b *Batch) Append(other *Batch) {
	b.UFS = append(b.UFS, other.UFS...)
	b.Block = append(b.Block, other.Block...)
	b.UFSCustom = append(b.UFSCustom, other.UFSCustom...)
}

// Extractor classifies trimmed text lines and turns them into typed
// records. It holds only immutable configuration and is safe for
// concurrent use.
type Extractor struct {
	alignmentKB uint64
}

// NewExtractor creates an Extractor checking address alignment against the
// given alignment size in KB.
func NewExtractor(alignmentKB int) *Extractor {
	if alignmentKB <= 0 {
		alignmentKB = 64
	}
	return &Extractor{alignmentKB: uint64(alignmentKB)}
}

type lineCategory int

const (
	categoryUnknown lineCategory = iota
	categoryEmpty
	categoryUFS
	categoryBlock
	categoryCustom
)

func categorize(line string) lineCategory {
	if line == "" {
		return categoryEmpty
	}
	if strings.Contains(line, "ufshcd_command:") {
		return categoryUFS
	}
	if blktraceCSVQuick.MatchString(line) {
		return categoryBlock
	}
	if strings.Contains(line, "block_") || strings.Contains(line, "blk_") {
		return categoryBlock
	}
	if customQuick.MatchString(line) {
		return categoryCustom
	}
	return categoryUnknown
}

// ExtractLine classifies one raw line, appends at most one record to the
// batch, and updates the counters. Comment lines, headers and lines that
// match nothing are counted as skipped; extraction never fails a run.
func (e *Extractor) ExtractLine(raw []byte, batch *Batch, stats *Stats) {
	stats.LinesSeen++

	if !utf8.Valid(raw) {
		stats.SkippedEncoding++
		return
	}
	line := strings.TrimSpace(string(raw))
	if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "//") {
		stats.SkippedUnknown++
		return
	}

	switch categorize(line) {
	case categoryUFS:
		if ufs, ok := e.parseUFS(line); ok {
			batch.UFS = append(batch.UFS, ufs)
			stats.UFSRecords++
		} else {
			stats.SkippedMalformed++
		}
	case categoryBlock:
		if blk, ok := e.parseBlktraceCSV(line); ok {
			batch.Block = append(batch.Block, blk)
			stats.BlockRecords++
		} else if blk, ok := e.parseBlock(line); ok {
			batch.Block = append(batch.Block, blk)
			stats.BlockRecords++
		} else {
			stats.SkippedMalformed++
		}
	case categoryCustom:
		if c, ok := e.parseCustom(line); ok {
			batch.UFSCustom = append(batch.UFSCustom, c)
			stats.CustomRecords++
		} else {
			stats.SkippedMalformed++
		}
	default:
		stats.SkippedUnknown++
	}
}

// parseUFS extracts one flash-storage command event.
func (e *Extractor) parseUFS(line string) (types.UFS, bool) {
	m := ufsRE.FindStringSubmatch(line)
	if m == nil {
		return types.UFS{}, false
	}
	g := groups(ufsRE, m)

	lba := normalizeLBA(parseUint64(g["lba"]))
	rawSize := parseInt64(g["size"])
	if rawSize < 0 {
		rawSize = -rawSize
	}

	return types.UFS{
		Time:    parseFloat(g["time"]),
		Process: g["process"],
		CPU:     parseUint32(g["cpu"]),
		Action:  g["command"],
		Tag:     parseUint32(g["tag"]),
		Opcode:  g["opcode"],
		LBA:     lba,
		// Sizes arrive in bytes; stored in 4KB units, rounded up.
		Size:    uint32(math.Ceil(float64(rawSize) / 4096.0)),
		GroupID: parseHex32(g["group_id"]),
		HWQID:   parseUint32(g["hwq_id"]),
		Aligned: e.ufsAligned(lba),
	}, true
}

// parseBlock extracts one block-I/O event from the ftrace rendering.
func (e *Extractor) parseBlock(line string) (types.Block, bool) {
	m := blockRE.FindStringSubmatch(line)
	if m == nil {
		return types.Block{}, false
	}
	g := groups(blockRE, m)

	sector := parseUint64(g["sector"])
	return types.Block{
		Time:     parseFloat(g["time"]),
		Process:  g["process"],
		CPU:      parseUint32(g["cpu"]),
		Flags:    g["flags"],
		Action:   g["action"],
		DevMajor: parseUint32(g["devmajor"]),
		DevMinor: parseUint32(g["devminor"]),
		IOType:   g["io_type"],
		Extra:    parseUint32(g["extra"]),
		Sector:   sector,
		Size:     parseUint32(g["size"]),
		Comm:     g["comm"],
		Aligned:  e.sectorAligned(sector),
	}, true
}

// parseBlktraceCSV extracts one block-I/O event from the blktrace CSV
// rendering. The PID column stands in for the process name and the
// single-letter action maps onto issue/complete.
func (e *Extractor) parseBlktraceCSV(line string) (types.Block, bool) {
	if strings.HasPrefix(line, "time,cpu,major,minor,pid,action,rwds,sector,size,comm") {
		return types.Block{}, false
	}
	m := blktraceCSVRE.FindStringSubmatch(line)
	if m == nil {
		return types.Block{}, false
	}
	g := groups(blktraceCSVRE, m)

	sector := parseUint64(g["sector"])
	return types.Block{
		Time:     parseFloat(g["time"]),
		Process:  g["pid"],
		CPU:      parseUint32(g["cpu"]),
		Action:   blktraceAction(g["action"]),
		DevMajor: parseUint32(g["major"]),
		DevMinor: parseUint32(g["minor"]),
		IOType:   g["rwds"],
		Sector:   sector,
		Size:     parseUint32(g["size"]),
		Comm:     g["comm"],
		Aligned:  e.sectorAligned(sector),
	}, true
}

// blktraceAction maps blktrace single-letter actions onto the ftrace
// action names so the processor sees one vocabulary.
func blktraceAction(a string) string {
	switch a {
	case "D":
		return constants.BlockActionDispatch
	case "C":
		return constants.BlockActionComplete
	default:
		return a
	}
}

// parseCustom extracts one pre-paired request from the fixed-column
// format. dtoc is computed here; the custom family carries no
// queue-depth or continuity state.
func (e *Extractor) parseCustom(line string) (types.UFSCustom, bool) {
	if strings.HasPrefix(line, "opcode,lba,size,start_time,end_time") {
		return types.UFSCustom{}, false
	}
	m := customRE.FindStringSubmatch(line)
	if m == nil {
		return types.UFSCustom{}, false
	}
	g := groups(customRE, m)

	lba := normalizeLBA(parseUint64(g["lba"]))
	start := parseFloat(g["start_time"])
	end := parseFloat(g["end_time"])

	return types.UFSCustom{
		Opcode:    g["opcode"],
		LBA:       lba,
		Size:      parseUint32(g["size"]),
		StartTime: start,
		EndTime:   end,
		DToC:      (end - start) * constants.MillisecondsPerSecond,
		Aligned:   e.sectorAligned(lba),
	}, true
}

// ufsAligned checks LBA alignment in 4KB units.
func (e *Extractor) ufsAligned(lba uint64) bool {
	units := e.alignmentKB / 4
	if units == 0 {
		return true
	}
	return lba%units == 0
}

// sectorAligned checks sector alignment in 512-byte units.
func (e *Extractor) sectorAligned(sector uint64) bool {
	sectors := e.alignmentKB * 1024 / 512
	if sectors == 0 {
		return true
	}
	return sector%sectors == 0
}

// normalizeLBA maps debug-marker and implausibly large LBAs to 0.
func normalizeLBA(lba uint64) uint64 {
	if lba == constants.UFSDebugLBA || lba > constants.MaxValidUFSLBA {
		return 0
	}
	return lba
}

// groups maps named submatches. Missing optional groups yield "".
func groups(re *regexp.Regexp, match []string) map[string]string {
	g := make(map[string]string, len(match))
	for i, name := range re.SubexpNames() {
		if name != "" && i < len(match) {
			g[name] = match[i]
		}
	}
	return g
}

// Numeric field helpers. A field that matched the pattern but fails to
// parse (overflow, etc.) falls back to the zero sentinel instead of
// failing the line.

func parseFloat(s string) float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}

func parseUint32(s string) uint32 {
	if s == "" {
		return 0
	}
	v, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0
	}
	return uint32(v)
}

func parseUint64(s string) uint64 {
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0
	}
	return v
}

func parseInt64(s string) int64 {
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0
	}
	return v
}

func parseHex32(s string) uint32 {
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return 0
	}
	return uint32(v)
}
