package services

import (
	"context"
	"strconv"
	"time"

	"gastos/internal/cache"
	"gastos/internal/core"
	"gastos/internal/log"
)

// DashboardService produces period summaries for rendering. Summaries
// are memoized per range until the expense data mutates; the cache is
// purged by the mutation callbacks of the owning services.
type DashboardService struct {
	expenses *ExpenseService
	logger   *log.Logger
	cache    *cache.TTLCache[core.Summary]
}

func NewDashboardService(expenses *ExpenseService, taxonomy *TaxonomyService, logger *log.Logger) *DashboardService {
	d := &DashboardService{
		expenses: expenses,
		logger:   logger.WithComponent(log.ComponentDashboard),
		cache:    cache.New[core.Summary](32, 5*time.Minute),
	}
	expenses.OnMutate(d.cache.Purge)
	if taxonomy != nil {
		taxonomy.OnMutate(d.cache.Purge)
	}
	return d
}

// Summary loads the expense collection and summarizes it over the
// range, optionally against the immediately preceding period.
func (d *DashboardService) Summary(ctx context.Context, r core.Range, compare bool) (core.Summary, error) {
	key := r.From.Key() + ".." + r.To.Key() + "/" + strconv.FormatBool(compare)
	if s, ok := d.cache.Get(key); ok {
		return s, nil
	}

	expenses, err := d.expenses.List(ctx)
	if err != nil {
		return core.Summary{}, err
	}
	s := core.Summarize(expenses, r, compare)
	d.cache.Set(key, s)

	d.logger.Debug("Summary computed",
		log.FieldOperation, log.OpRender,
		log.FieldRangeFrom, r.From.Key(),
		log.FieldRangeTo, r.To.Key(),
		log.FieldCount, len(expenses))
	return s, nil
}
