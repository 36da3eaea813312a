package stats

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"golang.org/x/term"
)

// Print renders the statistics to w. When w is a terminal the output is
// formatted as tables; otherwise a plain tab-separated form is used so
// redirected output stays machine-friendly.
func Print(w io.Writer, ts *TraceStats) {
	useTables := isTerminal(w)
	for _, f := range []*FamilyStats{ts.UFS, ts.Block, ts.Custom} {
		if f == nil {
			continue
		}
		if useTables {
			printFamilyTable(w, f)
		} else {
			printFamilyPlain(w, f)
		}
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func printFamilyTable(w io.Writer, f *FamilyStats) {
	fmt.Fprintf(w, "\n%s: %d records", f.Family.DisplayName(), f.Records)
	if f.Family.String() != "ufscustom" {
		fmt.Fprintf(w, ", max QD %d, %d continuous", f.MaxQD, f.Continuous)
	}
	fmt.Fprintln(w)

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Metric", "Count", "Min (ms)", "Avg (ms)", "Max (ms)", "P50", "P90", "P95", "P99"})
	for _, s := range []*Summary{f.DToC, f.CToC, f.CToD} {
		if s.Count() == 0 {
			continue
		}
		table.Append([]string{
			s.Name,
			strconv.FormatInt(s.Count(), 10),
			fmtMs(s.Min()),
			fmtMs(s.Avg()),
			fmtMs(s.Max()),
			fmtMs(s.Quantile(0.50)),
			fmtMs(s.Quantile(0.90)),
			fmtMs(s.Quantile(0.95)),
			fmtMs(s.Quantile(0.99)),
		})
	}
	table.Render()

	if f.DToCRanges.Total() > 0 {
		ranges := tablewriter.NewWriter(w)
		ranges.SetHeader([]string{"dtoc range", "Count", "Share"})
		total := f.DToCRanges.Total()
		for i, count := range f.DToCRanges.Counts {
			if count == 0 {
				continue
			}
			ranges.Append([]string{
				f.DToCRanges.Label(i),
				strconv.FormatInt(count, 10),
				fmt.Sprintf("%.1f%%", float64(count)*100/float64(total)),
			})
		}
		ranges.Render()
	}
}

func printFamilyPlain(w io.Writer, f *FamilyStats) {
	fmt.Fprintf(w, "family=%s records=%d max_qd=%d continuous=%d\n",
		f.Family, f.Records, f.MaxQD, f.Continuous)
	for _, s := range []*Summary{f.DToC, f.CToC, f.CToD} {
		if s.Count() == 0 {
			continue
		}
		fmt.Fprintf(w, "%s\tcount=%d\tmin=%s\tavg=%s\tmax=%s\tp50=%s\tp99=%s\n",
			s.Name, s.Count(), fmtMs(s.Min()), fmtMs(s.Avg()), fmtMs(s.Max()),
			fmtMs(s.Quantile(0.50)), fmtMs(s.Quantile(0.99)))
	}
	total := f.DToCRanges.Total()
	for i, count := range f.DToCRanges.Counts {
		if count == 0 {
			continue
		}
		fmt.Fprintf(w, "range\t%s\tcount=%d\tshare=%.1f%%\n",
			f.DToCRanges.Label(i), count, float64(count)*100/float64(total))
	}
}

func fmtMs(v float64) string {
	return strconv.FormatFloat(v, 'f', 3, 64)
}
