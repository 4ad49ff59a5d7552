package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gastos/internal/core"
)

func TestTaxonomyService_Add(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	require.NoError(t, f.taxonomy.Add(ctx, Categories, "Alimentación"))
	require.NoError(t, f.taxonomy.Add(ctx, Categories, "Transporte"))

	assert.ErrorIs(t, f.taxonomy.Add(ctx, Categories, "Alimentación"), ErrDuplicateName)
	assert.ErrorIs(t, f.taxonomy.Add(ctx, Categories, "   "), core.ErrEmptyName)

	names, err := f.taxonomy.List(ctx, Categories)
	require.NoError(t, err)
	assert.Equal(t, []string{"Alimentación", "Transporte"}, names)
}

func TestTaxonomyService_CollectionsAreIndependent(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	require.NoError(t, f.taxonomy.Add(ctx, Categories, "Hogar"))
	require.NoError(t, f.taxonomy.Add(ctx, PaymentMethods, "Tarjeta"))
	require.NoError(t, f.taxonomy.Add(ctx, People, "Ana"))

	methods, err := f.taxonomy.List(ctx, PaymentMethods)
	require.NoError(t, err)
	assert.Equal(t, []string{"Tarjeta"}, methods)

	people, err := f.taxonomy.List(ctx, People)
	require.NoError(t, err)
	assert.Equal(t, []string{"Ana"}, people)
}

func TestTaxonomyService_DeleteRewritesOrphansToSentinel(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	require.NoError(t, f.taxonomy.Add(ctx, Categories, "Hogar"))
	require.NoError(t, f.taxonomy.Add(ctx, Categories, "Transporte"))

	for _, category := range []string{"Hogar", "Hogar", "Transporte"} {
		in := newExpenseInput("gasto " + category)
		in.Category = category
		_, err := f.expenses.Add(ctx, in)
		require.NoError(t, err)
	}

	rewritten, err := f.taxonomy.Delete(ctx, Categories, "Hogar")
	require.NoError(t, err)
	assert.Equal(t, 2, rewritten)

	names, err := f.taxonomy.List(ctx, Categories)
	require.NoError(t, err)
	assert.Equal(t, []string{"Transporte"}, names)

	expenses, err := f.expenses.List(ctx)
	require.NoError(t, err)
	var sentinels, untouched int
	for _, e := range expenses {
		switch e.Category {
		case core.UncategorizedName:
			sentinels++
		case "Transporte":
			untouched++
		default:
			t.Errorf("unexpected category %q after rewrite", e.Category)
		}
	}
	assert.Equal(t, 2, sentinels)
	assert.Equal(t, 1, untouched)
}

func TestTaxonomyService_DeletePaymentMethodSentinel(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	require.NoError(t, f.taxonomy.Add(ctx, PaymentMethods, "Tarjeta"))

	in := newExpenseInput("pan")
	_, err := f.expenses.Add(ctx, in)
	require.NoError(t, err)

	rewritten, err := f.taxonomy.Delete(ctx, PaymentMethods, "Tarjeta")
	require.NoError(t, err)
	assert.Equal(t, 1, rewritten)

	expenses, _ := f.expenses.List(ctx)
	assert.Equal(t, core.CashPaymentName, expenses[0].PaymentMethod)
}

func TestTaxonomyService_DeletePersonSentinel(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	require.NoError(t, f.settings.SetLivingStatus(ctx, core.LivingAccompanied))
	require.NoError(t, f.taxonomy.Add(ctx, People, "Ana"))

	in := newExpenseInput("pan")
	in.Person = "Ana"
	_, err := f.expenses.Add(ctx, in)
	require.NoError(t, err)

	rewritten, err := f.taxonomy.Delete(ctx, People, "Ana")
	require.NoError(t, err)
	assert.Equal(t, 1, rewritten)

	expenses, _ := f.expenses.List(ctx)
	assert.Equal(t, core.UnassignedPersonName, expenses[0].Person)
}

func TestTaxonomyService_DeleteUnknownName(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	require.NoError(t, f.taxonomy.Add(ctx, Categories, "Hogar"))

	_, err := f.taxonomy.Delete(ctx, Categories, "Viajes")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestTaxonomyService_DeleteWithNoReferences(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	require.NoError(t, f.taxonomy.Add(ctx, Categories, "Hogar"))

	rewritten, err := f.taxonomy.Delete(ctx, Categories, "Hogar")
	require.NoError(t, err)
	assert.Zero(t, rewritten)

	names, _ := f.taxonomy.List(ctx, Categories)
	assert.Empty(t, names)
}
