// Package datekernel provides pure date arithmetic and fiscal-month mapping
// with no locale dependency, the sibling leaf package to holidaycalendar
// (spec §4.2).
package datekernel

import (
	"strconv"
	"time"

	"github.com/SscSPs/fiscalsim/internal/core/domain"
)

// FirstOfMonth returns the first day of (year, month).
func FirstOfMonth(year, month int) domain.DateISO {
	return domain.NewDateISO(year, time.Month(month), 1)
}

// LastOfMonth returns the last day of (year, month).
func LastOfMonth(year, month int) domain.DateISO {
	first := FirstOfMonth(year, month)
	return first.AddMonths(1).AddDays(-1)
}

// FiscalMonthOrder returns [s, s+1, …, 12, 1, …, s-1] for fiscalStartMonth s.
func FiscalMonthOrder(fiscalStartMonth int) []int {
	order := make([]int, 0, 12)
	for i := 0; i < 12; i++ {
		order = append(order, ((fiscalStartMonth-1+i)%12)+1)
	}
	return order
}

// CalendarToFiscal maps a calendar month to its 1-based fiscal position:
// ((c - s + 12) mod 12) + 1.
func CalendarToFiscal(calendarMonth, fiscalStartMonth int) int {
	return (calendarMonth-fiscalStartMonth+12)%12 + 1
}

var monthNames = [...]string{
	"January", "February", "March", "April", "May", "June",
	"July", "August", "September", "October", "November", "December",
}

// MonthName returns the English name for a 1-12 calendar month.
func MonthName(month int) string {
	if month < 1 || month > 12 {
		return ""
	}
	return monthNames[month-1]
}

// DisplayName renders the month label used throughout reporting: the bare
// English name when the fiscal year starts in January, otherwise
// "<EnglishName> (FY Month <k>)" (spec §4.2).
func DisplayName(calendarMonth, fiscalStartMonth int) string {
	name := MonthName(calendarMonth)
	if fiscalStartMonth == 1 {
		return name
	}
	k := CalendarToFiscal(calendarMonth, fiscalStartMonth)
	return name + " (FY Month " + strconv.Itoa(k) + ")"
}
