package report

import (
	"fmt"
	"io"
	"sort"
	"text/tabwriter"

	"gastos/internal/core"
)

// WriteTable prints a summary as a plain-text report: the daily series,
// the category and person breakdowns, and the comparison against the
// preceding period when present.
func WriteTable(w io.Writer, s core.Summary) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)

	fmt.Fprintf(tw, "Periodo %s .. %s\n\n", s.Range.From.Key(), s.Range.To.Key())

	fmt.Fprintln(tw, "FECHA\tTOTAL\t")
	for _, day := range s.Daily {
		fmt.Fprintf(tw, "%s\t%s\t\n", day.Date.Key(), day.Total)
	}
	fmt.Fprintf(tw, "TOTAL\t%s\t\n", s.CurrentTotal)

	writeBreakdown(tw, "POR CATEGORÍA", s.ByCategory)
	writeBreakdown(tw, "POR PERSONA", s.ByPerson)

	if s.Compare {
		fmt.Fprintf(tw, "\nPeriodo anterior %s .. %s\n", s.CompareRange.From.Key(), s.CompareRange.To.Key())
		fmt.Fprintf(tw, "Anterior\t%s\t\n", s.CompareTotal)
		fmt.Fprintf(tw, "Diferencia\t%s\t\n", s.Difference)
		fmt.Fprintf(tw, "Variación\t%.1f%%\t\n", s.PercentDifference)
	}

	return tw.Flush()
}

func writeBreakdown(w io.Writer, heading string, totals map[string]core.Money) {
	if len(totals) == 0 {
		return
	}
	names := make([]string, 0, len(totals))
	for name := range totals {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		a, b := totals[names[i]], totals[names[j]]
		if a.Cents != b.Cents {
			return a.Cents > b.Cents
		}
		return names[i] < names[j]
	})

	fmt.Fprintf(w, "\n%s\t\t\n", heading)
	for _, name := range names {
		fmt.Fprintf(w, "%s\t%s\t\n", name, totals[name])
	}
}
