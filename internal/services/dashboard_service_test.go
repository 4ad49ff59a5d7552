package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gastos/internal/core"
)

func TestDashboardService_Summary(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	dashboard := NewDashboardService(f.expenses, f.taxonomy, testLogger())

	in := newExpenseInput("pan")
	in.Amount = core.Money{Cents: 1000}
	_, err := f.expenses.Add(ctx, in)
	require.NoError(t, err)

	r := core.Range{From: core.NewDate(2024, 3, 1), To: core.NewDate(2024, 3, 31)}
	s, err := dashboard.Summary(ctx, r, false)
	require.NoError(t, err)
	assert.Equal(t, core.Money{Cents: 1000}, s.CurrentTotal)
	assert.Len(t, s.Daily, 31)
}

func TestDashboardService_CachePurgedOnMutation(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	dashboard := NewDashboardService(f.expenses, f.taxonomy, testLogger())
	r := core.Range{From: core.NewDate(2024, 3, 1), To: core.NewDate(2024, 3, 31)}

	s, err := dashboard.Summary(ctx, r, false)
	require.NoError(t, err)
	assert.Zero(t, s.CurrentTotal.Cents)

	// A mutation must invalidate the memoized summary.
	_, err = f.expenses.Add(ctx, newExpenseInput("pan"))
	require.NoError(t, err)

	s, err = dashboard.Summary(ctx, r, false)
	require.NoError(t, err)
	assert.Equal(t, int64(1500), s.CurrentTotal.Cents)

	// Taxonomy deletes rewrite expenses, so they purge too.
	require.NoError(t, f.taxonomy.Add(ctx, Categories, "Alimentación"))
	_, err = dashboard.Summary(ctx, r, false)
	require.NoError(t, err)
	_, err = f.taxonomy.Delete(ctx, Categories, "Alimentación")
	require.NoError(t, err)

	s, err = dashboard.Summary(ctx, r, false)
	require.NoError(t, err)
	assert.Equal(t, core.Money{Cents: 1500}, s.ByCategory[core.UncategorizedName])
}
