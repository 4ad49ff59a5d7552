// Package report renders period summaries for human consumption, as a
// plain-text table or a PNG category chart.
package report

import (
	"fmt"
	"sort"

	"github.com/go-analyze/charts"

	"gastos/internal/core"
)

// CategoryChart renders the category breakdown of a summary as a pie
// chart and returns the PNG bytes. Categories are sorted by descending
// total so the legend order is stable.
func CategoryChart(s core.Summary, title string) ([]byte, error) {
	if len(s.ByCategory) == 0 {
		return nil, fmt.Errorf("no expenses to chart")
	}

	names := make([]string, 0, len(s.ByCategory))
	for name := range s.ByCategory {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		a, b := s.ByCategory[names[i]], s.ByCategory[names[j]]
		if a.Cents != b.Cents {
			return a.Cents > b.Cents
		}
		return names[i] < names[j]
	})

	values := make([]float64, len(names))
	for i, name := range names {
		values[i] = s.ByCategory[name].Float64()
	}

	p, err := charts.PieRender(
		values,
		charts.TitleOptionFunc(charts.TitleOption{Text: title}),
		charts.LegendLabelsOptionFunc(names),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create chart: %w", err)
	}
	buf, err := p.Bytes()
	if err != nil {
		return nil, fmt.Errorf("failed to render chart: %w", err)
	}
	return buf, nil
}
