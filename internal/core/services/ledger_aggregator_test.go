package services_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SscSPs/fiscalsim/internal/core/domain"
	"github.com/SscSPs/fiscalsim/internal/core/services"
)

func calendarFiscalConfig(year int, starting map[domain.Account]domain.Money) domain.FiscalConfig {
	return domain.FiscalConfig{Year: year, FiscalStartMonth: 1, StartingBalances: starting}
}

func TestLedgerAggregator_EmptyOccurrences(t *testing.T) {
	cfg := calendarFiscalConfig(2024, map[domain.Account]domain.Money{
		domain.Operating: domain.MoneyFromFloat(1000),
	})

	agg := services.NewLedgerAggregator()
	result := agg.Aggregate(cfg, nil)

	require.Len(t, result.MonthlyTotals, 12)
	for _, m := range result.MonthlyTotals {
		assert.True(t, m.Revenue.Net.IsZero())
		assert.True(t, m.Expenses.Net.IsZero())
		assert.True(t, m.AccountBalances[domain.Operating].Equal(domain.MoneyFromFloat(1000)))
	}
	assert.True(t, result.Overall.FinalAccountBalances[domain.Operating].Equal(domain.MoneyFromFloat(1000)))
}

func TestLedgerAggregator_RollForwardContinuity(t *testing.T) {
	cfg := calendarFiscalConfig(2024, map[domain.Account]domain.Money{
		domain.Operating: domain.MoneyFromFloat(1000),
	})

	revenue := domain.Pattern{
		ID: "rev-1", Name: "consulting", Kind: domain.KindRevenue,
		Amount: domain.MoneyFromFloat(1200), Frequency: domain.FreqMonthly, StartMonth: 1,
	}
	occs := services.ExpandPatterns([]domain.Pattern{revenue}, nil, 2024, domain.RegionFR)

	agg := services.NewLedgerAggregator()
	result := agg.Aggregate(cfg, occs)

	require.Len(t, result.MonthlyBalances, 12*4)

	operatingByMonth := map[int]domain.MonthlyAccountBalance{}
	for _, b := range result.MonthlyBalances {
		if b.Account == domain.Operating {
			operatingByMonth[b.Month] = b
		}
	}

	for m := 2; m <= 12; m++ {
		assert.True(t, operatingByMonth[m].OpeningBalance.Equal(operatingByMonth[m-1].ClosingBalance),
			"month %d opening should equal month %d closing", m, m-1)
	}
}

// TestLedgerAggregator_AggregateStepped_StopsAtRequestedMonth proves
// AggregateStepped honors a mid-run abort from afterStep by returning
// immediately after the month it was signaled on, never invoking afterStep
// for any later fiscal month and never returning a populated result.
func TestLedgerAggregator_AggregateStepped_StopsAtRequestedMonth(t *testing.T) {
	cfg := calendarFiscalConfig(2024, map[domain.Account]domain.Money{
		domain.Operating: domain.MoneyFromFloat(1000),
	})
	revenue := domain.Pattern{
		ID: "rev-1", Name: "consulting", Kind: domain.KindRevenue,
		Amount: domain.MoneyFromFloat(1200), Frequency: domain.FreqMonthly, StartMonth: 1,
	}
	occs := services.ExpandPatterns([]domain.Pattern{revenue}, nil, 2024, domain.RegionFR)

	const stopAtStep = 3
	var seenSteps []int
	stopErr := errors.New("stop requested")

	result, err := services.NewLedgerAggregator().AggregateStepped(cfg, occs, func(stepIndex, calMonth int) error {
		seenSteps = append(seenSteps, stepIndex)
		if stepIndex == stopAtStep {
			return stopErr
		}
		return nil
	})

	require.ErrorIs(t, err, stopErr)
	assert.Equal(t, []int{0, 1, 2, 3}, seenSteps)
	assert.Nil(t, result.MonthlyTotals)
}

func TestLedgerAggregator_ConservationAcrossYear(t *testing.T) {
	cfg := calendarFiscalConfig(2024, map[domain.Account]domain.Money{
		domain.Operating: domain.MoneyFromFloat(5000),
	})

	revenue := domain.Pattern{
		ID: "rev-1", Name: "consulting", Kind: domain.KindRevenue,
		Amount: domain.MoneyFromFloat(1200), Frequency: domain.FreqMonthly, StartMonth: 1,
	}
	occs := services.ExpandPatterns([]domain.Pattern{revenue}, nil, 2024, domain.RegionFR)

	agg := services.NewLedgerAggregator()
	result := agg.Aggregate(cfg, occs)

	netChange := domain.Zero
	for _, m := range result.MonthlyTotals {
		netChange = netChange.Add(m.Revenue.Net)
	}
	expectedFinal := domain.MoneyFromFloat(5000).Add(netChange)
	assert.True(t, result.Overall.FinalAccountBalances[domain.Operating].WithinTolerance(expectedFinal))
}

func TestLedgerAggregator_FiscalYearStartsApril(t *testing.T) {
	cfg := domain.FiscalConfig{
		Year: 2024, FiscalStartMonth: 4,
		StartingBalances: map[domain.Account]domain.Money{domain.Operating: domain.MoneyFromFloat(1000)},
	}

	agg := services.NewLedgerAggregator()
	result := agg.Aggregate(cfg, nil)

	assert.Equal(t, 4, result.MonthlyTotals[0].Month)
	assert.Equal(t, 3, result.MonthlyTotals[11].Month)
	assert.Contains(t, result.MonthlyTotals[0].DisplayName, "FY Month 1")
}

// TestLedgerAggregator_DoublingAmountsDoublesTotals is P5: doubling every
// pattern's amount must scale every total and every account's closing delta
// by exactly 2, since the engine is linear in the input amounts.
func TestLedgerAggregator_DoublingAmountsDoublesTotals(t *testing.T) {
	starting := map[domain.Account]domain.Money{domain.Operating: domain.MoneyFromFloat(1000)}
	cfg := calendarFiscalConfig(2024, starting)

	vatRate := domain.VATRateStandard
	base := func(amount float64) (domain.Pattern, domain.Pattern) {
		revenue := domain.Pattern{
			ID: "rev-1", Name: "consulting", Kind: domain.KindRevenue,
			Amount: domain.MoneyFromFloat(amount), Frequency: domain.FreqMonthly, StartMonth: 1,
			VATRate: &vatRate,
		}
		expense := domain.Pattern{
			ID: "exp-1", Name: "equipment", Kind: domain.KindExpense,
			Amount: domain.MoneyFromFloat(amount / 2), Frequency: domain.FreqMonthly, StartMonth: 1,
			VATDeductible: true,
		}
		return revenue, expense
	}

	rev1, exp1 := base(1200)
	occs1 := services.ExpandPatterns([]domain.Pattern{rev1}, []domain.Pattern{exp1}, 2024, domain.RegionFR)
	result1 := services.NewLedgerAggregator().Aggregate(cfg, occs1)

	rev2, exp2 := base(2400)
	occs2 := services.ExpandPatterns([]domain.Pattern{rev2}, []domain.Pattern{exp2}, 2024, domain.RegionFR)
	result2 := services.NewLedgerAggregator().Aggregate(cfg, occs2)

	assert.True(t, result2.Overall.TotalRevenue.Net.WithinTolerance(result1.Overall.TotalRevenue.Net.MulInt(2)))
	assert.True(t, result2.Overall.TotalExpenses.Net.WithinTolerance(result1.Overall.TotalExpenses.Net.MulInt(2)))
	assert.True(t, result2.Overall.TotalVATCollected.WithinTolerance(result1.Overall.TotalVATCollected.MulInt(2)))
	assert.True(t, result2.Overall.NetVATOwed.WithinTolerance(result1.Overall.NetVATOwed.MulInt(2)))

	delta1 := result1.Overall.FinalAccountBalances[domain.Operating].Sub(starting[domain.Operating])
	delta2 := result2.Overall.FinalAccountBalances[domain.Operating].Sub(starting[domain.Operating])
	assert.True(t, delta2.WithinTolerance(delta1.MulInt(2)))
}

// TestLedgerAggregator_FiscalStartMonthInvariantToOverallTotals is P6: the
// choice of fiscalStartMonth only changes which calendar month is reported
// first — the yearly netProfit and totalVatCollected sums are invariant to
// it, since every calendar month is still summed exactly once.
func TestLedgerAggregator_FiscalStartMonthInvariantToOverallTotals(t *testing.T) {
	vatRate := domain.VATRateStandard
	revenue := domain.Pattern{
		ID: "rev-1", Name: "consulting", Kind: domain.KindRevenue,
		Amount: domain.MoneyFromFloat(1200), Frequency: domain.FreqMonthly, StartMonth: 1,
		VATRate: &vatRate,
	}
	expense := domain.Pattern{
		ID: "exp-1", Name: "equipment", Kind: domain.KindExpense,
		Amount: domain.MoneyFromFloat(600), Frequency: domain.FreqMonthly, StartMonth: 1,
		VATDeductible: true,
	}
	occs := services.ExpandPatterns([]domain.Pattern{revenue}, []domain.Pattern{expense}, 2024, domain.RegionFR)

	calendarYear := domain.FiscalConfig{Year: 2024, FiscalStartMonth: 1}
	aprilStart := domain.FiscalConfig{Year: 2024, FiscalStartMonth: 4}

	resultCalendar := services.NewLedgerAggregator().Aggregate(calendarYear, occs)
	resultApril := services.NewLedgerAggregator().Aggregate(aprilStart, occs)

	assert.True(t, resultCalendar.Overall.NetProfit.WithinTolerance(resultApril.Overall.NetProfit))
	assert.True(t, resultCalendar.Overall.TotalVATCollected.WithinTolerance(resultApril.Overall.TotalVATCollected))
}

func TestLedgerAggregator_VATNetting(t *testing.T) {
	cfg := calendarFiscalConfig(2024, nil)

	vatRate := domain.VATRateStandard
	revenue := domain.Pattern{
		ID: "rev-1", Name: "sales", Kind: domain.KindRevenue,
		Amount: domain.MoneyFromFloat(1200), Frequency: domain.FreqMonthly, StartMonth: 1,
		VATRate: &vatRate,
	}
	expense := domain.Pattern{
		ID: "exp-1", Name: "equipment", Kind: domain.KindExpense,
		Amount: domain.MoneyFromFloat(600), Frequency: domain.FreqMonthly, StartMonth: 1,
		VATDeductible: true,
	}
	occs := services.ExpandPatterns([]domain.Pattern{revenue}, []domain.Pattern{expense}, 2024, domain.RegionFR)

	agg := services.NewLedgerAggregator()
	result := agg.Aggregate(cfg, occs)

	assert.True(t, result.Overall.NetVATOwed.WithinTolerance(
		result.Overall.TotalVATCollected.Sub(result.Overall.TotalVATDeductible)))
	assert.True(t, result.Overall.NetVATOwed.IsPositive())
}
