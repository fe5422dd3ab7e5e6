package services

import (
	"sort"
	"time"

	"github.com/SscSPs/fiscalsim/internal/core/domain"
	"github.com/SscSPs/fiscalsim/internal/utils/datekernel"
	"github.com/SscSPs/fiscalsim/internal/utils/holidaycalendar"
)

// ExpandPattern expands a single Pattern into a date-sorted sequence of
// Occurrences for the target fiscal year, bounded to [Jan 1 year, Dec 31
// year]. Occurrences outside that window are never produced here; the
// aggregator is responsible for bucketing a date into its fiscal month.
func ExpandPattern(p domain.Pattern, year int, region domain.HolidayRegion) []domain.Occurrence {
	var dates []domain.DateISO

	switch p.Frequency {
	case domain.FreqMonthly:
		dates = monthlyDates(p.StartMonth, year)
	case domain.FreqQuarterly:
		dates = quarterlyDates(p.StartMonth, year)
	case domain.FreqYearly:
		dates = []domain.DateISO{datekernel.FirstOfMonth(year, p.StartMonth)}
	case domain.FreqDaily:
		dates = dailyDates(p, year, region)
	default:
		return nil
	}

	occurrences := make([]domain.Occurrence, 0, len(dates))
	for _, d := range dates {
		occurrences = append(occurrences, buildOccurrence(p, d))
	}
	return occurrences
}

// ExpandPatterns expands every pattern in revenue then expense order and
// returns the flattened, DateISO-ascending sequence the runner feeds to the
// aggregator (spec §4.8: "Expand all patterns ... flatten, sort by DateISO
// ascending").
func ExpandPatterns(revenue, expense []domain.Pattern, year int, region domain.HolidayRegion) []domain.Occurrence {
	all := make([]domain.Occurrence, 0, len(revenue)+len(expense))
	for _, p := range revenue {
		all = append(all, ExpandPattern(p, year, region)...)
	}
	for _, p := range expense {
		all = append(all, ExpandPattern(p, year, region)...)
	}

	sort.SliceStable(all, func(i, j int) bool {
		return all[i].Date.Before(all[j].Date)
	})
	return all
}

// monthlyDates returns the first-of-month date for each month in
// [startMonth..12] of year.
func monthlyDates(startMonth, year int) []domain.DateISO {
	dates := make([]domain.DateISO, 0, 12)
	for m := startMonth; m <= 12; m++ {
		dates = append(dates, datekernel.FirstOfMonth(year, m))
	}
	return dates
}

// quarterlyDates returns the first-of-month date of each quarter boundary
// from the quarter containing startMonth through Q4: q = ceil(startMonth/3),
// emitted at month 3(q-1)+1 for q in [q..4].
func quarterlyDates(startMonth, year int) []domain.DateISO {
	q := (startMonth + 2) / 3
	dates := make([]domain.DateISO, 0, 4)
	for ; q <= 4; q++ {
		dates = append(dates, datekernel.FirstOfMonth(year, 3*(q-1)+1))
	}
	return dates
}

// dailyDates applies the strict 4-step daily-precedence policy to every
// candidate date in the pattern's expansion window (spec §4.3).
func dailyDates(p domain.Pattern, year int, region domain.HolidayRegion) []domain.DateISO {
	windowStart := datekernel.FirstOfMonth(year, 1)
	if p.StartDate != nil && p.StartDate.After(windowStart) {
		windowStart = *p.StartDate
	}
	windowEnd := domain.NewDateISO(year, time.December, 31)
	if windowStart.After(windowEnd) {
		return nil
	}

	var dates []domain.DateISO
	for d := windowStart; !d.After(windowEnd); d = d.AddDays(1) {
		if dayIsActive(p, d, region) {
			dates = append(dates, d)
		}
	}
	return dates
}

// dayIsActive resolves one candidate date through the four-step precedence
// order: overrides, then daysMask, then excludeWeekends, then
// excludeHolidays.
func dayIsActive(p domain.Pattern, d domain.DateISO, region domain.HolidayRegion) bool {
	if override, ok := p.OverrideFor(d); ok {
		return override.Active
	}

	// simulation_runner.go validates only that daysMask is in [0,127]; it
	// does not check that the field was supplied. daysMask=0 means no
	// weekday is active, and a daily pattern whose JSON omits daysMask
	// decodes to 0 as well, so it is not treated as "every day active":
	// only active overrides produce dates for it. Always evaluate the bit
	// against the candidate's weekday.
	if (p.DaysMask>>d.Weekday())&1 != 1 {
		return false
	}

	if p.ExcludeWeekends {
		dow := d.Weekday()
		if dow == 0 || dow == 6 {
			return false
		}
	}

	if p.ExcludeHolidays && holidaycalendar.IsHoliday(d, region) {
		return false
	}

	return true
}

// buildOccurrence computes the gross/net/VAT split and postings for one
// dated event derived from p (spec §4.3/§4.4).
func buildOccurrence(p domain.Pattern, d domain.DateISO) domain.Occurrence {
	rate := p.EffectiveVATRate()
	net, vat := SplitGrossVAT(p.Amount, rate)

	o := domain.Occurrence{
		ID:          domain.OccurrenceID(p.ID, d),
		PatternID:   p.ID,
		PatternName: p.Name,
		Date:        d,
		GrossAmount: p.Amount,
		VATRate:     rate.Fraction(),
		VATAmount:   vat,
		NetAmount:   net,
	}

	if p.IsRevenue() {
		o.Kind = domain.OccurrenceRevenue
	} else {
		o.Kind = domain.OccurrenceExpense
		o.Category = p.Category
		deductible := p.VATDeductible
		o.VATDeductible = &deductible
	}

	// BuildPostings only errors on an unrecognized Kind, which cannot occur
	// here since Kind was just set from IsRevenue/the expense branch above.
	o.Postings, _ = BuildPostings(o)
	return o
}
