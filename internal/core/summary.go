package core

// Range is an inclusive calendar-day interval.
type Range struct {
	From Date
	To   Date
}

// Days returns the inclusive day count of the range.
func (r Range) Days() int {
	from := r.From.StartOfDay()
	to := r.To.StartOfDay()
	return int(to.Sub(from.Time).Hours()/24) + 1
}

// Contains reports whether the expense date falls inside the range,
// ignoring any time-of-day component.
func (r Range) Contains(d Date) bool {
	day := d.StartOfDay()
	return !day.Before(r.From.StartOfDay().Time) && !day.After(r.To.StartOfDay().Time)
}

// Previous returns the immediately preceding range of identical length:
// it ends the day before From and spans the same number of days.
func (r Range) Previous() Range {
	length := r.Days()
	end := r.From.StartOfDay().AddDays(-1)
	start := end.AddDays(-(length - 1))
	return Range{From: start, To: end}
}

// DayTotal is the aggregate spend of a single calendar day.
type DayTotal struct {
	Date  Date
	Total Money
}

// Summary is the aggregate output of Summarize. It is derived state,
// never persisted.
type Summary struct {
	Range      Range
	Daily      []DayTotal
	ByCategory map[string]Money
	ByPerson   map[string]Money

	Compare           bool
	CompareRange      Range
	CompareDaily      []DayTotal
	CompareByCategory map[string]Money
	CompareByPerson   map[string]Money

	CurrentTotal      Money
	CompareTotal      Money
	Difference        Money
	PercentDifference float64
}

// Summarize aggregates expenses over the given range: a chronological
// daily series with zero-total days included, plus category and person
// totals over the filtered set. With compare set it repeats the
// aggregation over the immediately preceding range of equal length and
// derives the period-over-period scalars.
//
// The input may be empty, unsorted, and contain dates outside the
// range. Summarize never mutates it and holds no state between calls.
func Summarize(expenses []Expense, r Range, compare bool) Summary {
	s := Summary{Range: r, Compare: compare}
	s.Daily, s.ByCategory, s.ByPerson = aggregate(expenses, r)
	for _, day := range s.Daily {
		s.CurrentTotal = s.CurrentTotal.Add(day.Total)
	}

	if compare {
		s.CompareRange = r.Previous()
		s.CompareDaily, s.CompareByCategory, s.CompareByPerson = aggregate(expenses, s.CompareRange)
		for _, day := range s.CompareDaily {
			s.CompareTotal = s.CompareTotal.Add(day.Total)
		}
	}

	s.Difference = s.CurrentTotal.Sub(s.CompareTotal)
	if s.CompareTotal.Cents != 0 {
		s.PercentDifference = float64(s.Difference.Cents) / float64(s.CompareTotal.Cents) * 100
	}
	return s
}

func aggregate(expenses []Expense, r Range) ([]DayTotal, map[string]Money, map[string]Money) {
	days := r.Days()
	daily := make([]DayTotal, days)
	index := make(map[string]int, days)
	day := r.From.StartOfDay()
	for i := 0; i < days; i++ {
		daily[i] = DayTotal{Date: day}
		index[day.Key()] = i
		day = day.AddDays(1)
	}

	byCategory := make(map[string]Money)
	byPerson := make(map[string]Money)
	for _, e := range expenses {
		if !r.Contains(e.Date) {
			continue
		}
		i := index[e.Date.StartOfDay().Key()]
		daily[i].Total = daily[i].Total.Add(e.Amount)
		byCategory[e.Category] = byCategory[e.Category].Add(e.Amount)
		byPerson[e.Person] = byPerson[e.Person].Add(e.Amount)
	}
	return daily, byCategory, byPerson
}
