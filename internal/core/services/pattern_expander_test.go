package services_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SscSPs/fiscalsim/internal/core/domain"
	"github.com/SscSPs/fiscalsim/internal/core/services"
	"github.com/SscSPs/fiscalsim/internal/utils/holidaycalendar"
)

func revenuePattern(freq domain.Frequency, startMonth int) domain.Pattern {
	return domain.Pattern{
		ID:         "rev-1",
		Name:       "consulting",
		Kind:       domain.KindRevenue,
		Amount:     domain.MoneyFromFloat(12000),
		Frequency:  freq,
		StartMonth: startMonth,
	}
}

func TestExpandPattern_Monthly(t *testing.T) {
	p := revenuePattern(domain.FreqMonthly, 3)
	occs := services.ExpandPattern(p, 2024, domain.RegionFR)

	require.Len(t, occs, 10) // March..December
	assert.Equal(t, domain.NewDateISO(2024, 3, 1), occs[0].Date)
	assert.Equal(t, domain.NewDateISO(2024, 12, 1), occs[len(occs)-1].Date)
}

func TestExpandPattern_Quarterly(t *testing.T) {
	// startMonth=2 falls in Q1 (q=ceil(2/3)=1), so the expander emits from
	// the first day of every quarter from Q1 through Q4.
	p := revenuePattern(domain.FreqQuarterly, 2)
	occs := services.ExpandPattern(p, 2024, domain.RegionFR)

	require.Len(t, occs, 4)
	assert.Equal(t, domain.NewDateISO(2024, 1, 1), occs[0].Date)
	assert.Equal(t, domain.NewDateISO(2024, 4, 1), occs[1].Date)
	assert.Equal(t, domain.NewDateISO(2024, 7, 1), occs[2].Date)
	assert.Equal(t, domain.NewDateISO(2024, 10, 1), occs[3].Date)
}

func TestExpandPattern_Yearly(t *testing.T) {
	p := revenuePattern(domain.FreqYearly, 6)
	occs := services.ExpandPattern(p, 2024, domain.RegionFR)

	require.Len(t, occs, 1)
	assert.Equal(t, domain.NewDateISO(2024, 6, 1), occs[0].Date)
}

func TestExpandPattern_Daily_ZeroMask(t *testing.T) {
	p := revenuePattern(domain.FreqDaily, 1)
	p.DaysMask = 0 // valid in-range value: no weekday is ever active

	occs := services.ExpandPattern(p, 2024, domain.RegionFR)
	assert.Empty(t, occs)
}

func TestExpandPattern_Daily_AllDays(t *testing.T) {
	p := revenuePattern(domain.FreqDaily, 1)
	p.DaysMask = 0b1111111
	occs := services.ExpandPattern(p, 2024, domain.RegionFR)

	assert.Len(t, occs, 366) // 2024 is a leap year
}

func TestExpandPattern_Daily_ExcludeWeekendsAndHolidays(t *testing.T) {
	p := revenuePattern(domain.FreqDaily, 1)
	p.DaysMask = 0b1111111
	p.ExcludeWeekends = true
	p.ExcludeHolidays = true
	occs := services.ExpandPattern(p, 2024, domain.RegionFR)

	for _, o := range occs {
		dow := o.Date.Weekday()
		assert.NotEqual(t, 0, dow)
		assert.NotEqual(t, 6, dow)
	}
	// Jan 1 2024 is a Monday and a national holiday: must be absent.
	for _, o := range occs {
		assert.False(t, o.Date.Equal(domain.NewDateISO(2024, 1, 1)))
	}
}

// TestExpandPattern_Daily_ExcludeWeekendsAndHolidays_ExactCount asserts the
// precise occurrence count for a full-year daily pattern excluding weekends
// and holidays: 366 (2024 is a leap year) minus every weekend day minus
// every holiday that does not already fall on a weekend.
func TestExpandPattern_Daily_ExcludeWeekendsAndHolidays_ExactCount(t *testing.T) {
	p := revenuePattern(domain.FreqDaily, 1)
	p.DaysMask = 0b1111111
	p.ExcludeWeekends = true
	p.ExcludeHolidays = true
	occs := services.ExpandPattern(p, 2024, domain.RegionFR)

	weekendDays := 0
	for d := domain.NewDateISO(2024, 1, 1); !d.After(domain.NewDateISO(2024, 12, 31)); d = d.AddDays(1) {
		if dow := d.Weekday(); dow == 0 || dow == 6 {
			weekendDays++
		}
	}

	nonWeekendHolidays := 0
	for hol := range holidaycalendar.Holidays(2024, domain.RegionFR) {
		if dow := hol.Weekday(); dow != 0 && dow != 6 {
			nonWeekendHolidays++
		}
	}

	expected := 366 - weekendDays - nonWeekendHolidays
	assert.Len(t, occs, expected)
}

func TestExpandPattern_Daily_OverrideWins(t *testing.T) {
	p := revenuePattern(domain.FreqDaily, 1)
	p.DaysMask = 0b0111110 // Mon..Fri
	p.ExcludeHolidays = true
	p.DayOffOverrides = []domain.DayOffOverride{
		{Date: domain.NewDateISO(2024, 5, 1), Active: true},
	}

	occs := services.ExpandPattern(p, 2024, domain.RegionFR)

	found := false
	for _, o := range occs {
		if o.Date.Equal(domain.NewDateISO(2024, 5, 1)) {
			found = true
		}
	}
	assert.True(t, found, "override should force an occurrence on Labour Day")

	// Removing the override makes the holiday exclusion win again.
	p.DayOffOverrides = nil
	occs = services.ExpandPattern(p, 2024, domain.RegionFR)
	for _, o := range occs {
		assert.False(t, o.Date.Equal(domain.NewDateISO(2024, 5, 1)))
	}
}

func TestExpandPattern_Daily_OverrideSuppresses(t *testing.T) {
	p := revenuePattern(domain.FreqDaily, 1)
	p.DaysMask = 0b1111111
	p.DayOffOverrides = []domain.DayOffOverride{
		{Date: domain.NewDateISO(2024, 6, 10), Active: false},
	}

	occs := services.ExpandPattern(p, 2024, domain.RegionFR)
	for _, o := range occs {
		assert.False(t, o.Date.Equal(domain.NewDateISO(2024, 6, 10)))
	}
}

func TestExpandPattern_Daily_StartDateBounds(t *testing.T) {
	p := revenuePattern(domain.FreqDaily, 1)
	p.DaysMask = 0b1111111
	start := domain.NewDateISO(2024, 11, 1)
	p.StartDate = &start

	occs := services.ExpandPattern(p, 2024, domain.RegionFR)
	assert.Len(t, occs, 61) // Nov 1 .. Dec 31 inclusive
	assert.True(t, occs[0].Date.Equal(start))
}

func TestBuildOccurrence_RevenueVATSplit(t *testing.T) {
	rate := domain.VATRateStandard
	p := revenuePattern(domain.FreqYearly, 1)
	p.VATRate = &rate
	p.Amount = domain.MoneyFromFloat(1200)

	occs := services.ExpandPattern(p, 2024, domain.RegionFR)
	require.Len(t, occs, 1)
	o := occs[0]

	assert.True(t, o.NetAmount.WithinTolerance(domain.MoneyFromFloat(1000)))
	assert.True(t, o.VATAmount.WithinTolerance(domain.MoneyFromFloat(200)))
	require.Len(t, o.Postings, 2)
	assert.Equal(t, domain.Operating, o.Postings[0].Account)
	assert.True(t, o.Postings[0].Amount.WithinTolerance(domain.MoneyFromFloat(1000)))
	assert.Equal(t, domain.VAT, o.Postings[1].Account)
	assert.True(t, o.Postings[1].Amount.WithinTolerance(domain.MoneyFromFloat(200)))
}

func TestBuildOccurrence_ExpenseDeductible(t *testing.T) {
	p := domain.Pattern{
		ID:            "exp-1",
		Name:          "rent",
		Kind:          domain.KindExpense,
		Amount:        domain.MoneyFromFloat(1200),
		Frequency:     domain.FreqYearly,
		StartMonth:    1,
		Category:      domain.CategoryRent,
		VATDeductible: true,
	}

	occs := services.ExpandPattern(p, 2024, domain.RegionFR)
	require.Len(t, occs, 1)
	o := occs[0]

	require.Len(t, o.Postings, 2)
	assert.True(t, o.Postings[0].Amount.IsNegative())
	assert.True(t, o.Postings[1].Amount.IsNegative())
	require.NotNil(t, o.VATDeductible)
	assert.True(t, *o.VATDeductible)
}

func TestBuildOccurrence_ExpenseNonDeductibleOmitsVATPosting(t *testing.T) {
	p := domain.Pattern{
		ID:            "exp-2",
		Name:          "insurance",
		Kind:          domain.KindExpense,
		Amount:        domain.MoneyFromFloat(800),
		Frequency:     domain.FreqYearly,
		StartMonth:    1,
		Category:      domain.CategoryInsurance,
		VATDeductible: false,
	}

	occs := services.ExpandPattern(p, 2024, domain.RegionFR)
	require.Len(t, occs, 1)
	assert.Len(t, occs[0].Postings, 1)
}

func TestExpandPatterns_FlattenedAndSorted(t *testing.T) {
	rev := revenuePattern(domain.FreqMonthly, 1)
	exp := domain.Pattern{
		ID:         "exp-3",
		Name:       "subscription",
		Kind:       domain.KindExpense,
		Amount:     domain.MoneyFromFloat(600),
		Frequency:  domain.FreqMonthly,
		StartMonth: 1,
	}

	occs := services.ExpandPatterns([]domain.Pattern{rev}, []domain.Pattern{exp}, 2024, domain.RegionFR)
	require.Len(t, occs, 24)
	for i := 1; i < len(occs); i++ {
		assert.False(t, occs[i].Date.Before(occs[i-1].Date))
	}
}
