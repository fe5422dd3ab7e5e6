// Package holidaycalendar computes the set of French national and regional
// holiday dates for a given year, including the Easter-derived movable
// feasts. It is a pure, leaf package with no dependency on ports/services,
// grounded on the teacher stack's internal/utils/accounting convention of a
// small pure-function package sitting beneath the service layer.
package holidaycalendar

import (
	"fmt"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/SscSPs/fiscalsim/internal/core/domain"
)

// Region mirrors domain.HolidayRegion to keep this package import-free of
// anything beyond domain's date/identifier types.
type Region = domain.HolidayRegion

// cacheSize bounds the process-wide (year, region) memoization, per spec
// §9 ("make the cache bounded, e.g. LRU of 64 entries").
const cacheSize = 64

var (
	cacheMu sync.Mutex
	cache   *lru.Cache[cacheKey, map[domain.DateISO]struct{}]
)

type cacheKey struct {
	year   int
	region Region
}

func init() {
	c, err := lru.New[cacheKey, map[domain.DateISO]struct{}](cacheSize)
	if err != nil {
		// cacheSize is a positive compile-time constant; New only errors on
		// a non-positive size.
		panic(fmt.Sprintf("holidaycalendar: failed to build cache: %v", err))
	}
	cache = c
}

// Holidays returns the set of holiday dates for (year, region). Unknown
// region codes return the national set (no error) per spec §4.1. The
// result is safely memoizable process-wide and is never mutated by callers
// — the returned map is treated as read-only.
func Holidays(year int, region Region) map[domain.DateISO]struct{} {
	region = region.Normalize()
	key := cacheKey{year: year, region: region}

	cacheMu.Lock()
	if set, ok := cache.Get(key); ok {
		cacheMu.Unlock()
		return set
	}
	cacheMu.Unlock()

	set := compute(year, region)

	cacheMu.Lock()
	cache.Add(key, set)
	cacheMu.Unlock()

	return set
}

// IsHoliday reports whether d falls on a holiday for (year, region).
func IsHoliday(d domain.DateISO, region Region) bool {
	_, ok := Holidays(d.Year(), region)[d]
	return ok
}

func compute(year int, region Region) map[domain.DateISO]struct{} {
	easter := easterSunday(year)

	dates := []domain.DateISO{
		domain.NewDateISO(year, time.January, 1),   // New Year
		domain.NewDateISO(year, time.May, 1),        // Labour Day
		domain.NewDateISO(year, time.May, 8),        // Victory 1945
		domain.NewDateISO(year, time.July, 14),      // National Day
		domain.NewDateISO(year, time.August, 15),    // Assumption
		domain.NewDateISO(year, time.November, 1),   // All Saints
		domain.NewDateISO(year, time.November, 11),  // Armistice
		domain.NewDateISO(year, time.December, 25),  // Christmas
		easter.AddDays(1),  // Easter Monday
		easter.AddDays(39), // Ascension
		easter.AddDays(50), // Whit Monday
	}

	switch region {
	case domain.RegionFR67, domain.RegionFR68, domain.RegionFR57:
		dates = append(dates,
			easter.AddDays(-2),                        // Good Friday
			domain.NewDateISO(year, time.December, 26), // St. Stephen's Day
		)
	}

	set := make(map[domain.DateISO]struct{}, len(dates))
	for _, d := range dates {
		set[d] = struct{}{}
	}
	return set
}

// easterSunday computes Easter Sunday for the given year using the
// Anonymous Gregorian (Meeus/Butcher) algorithm. Pure and deterministic.
func easterSunday(year int) domain.DateISO {
	a := year % 19
	b := year / 100
	c := year % 100
	d := b / 4
	e := b % 4
	f := (b + 8) / 25
	g := (b - f + 1) / 3
	h := (19*a + b - d - g + 15) % 30
	i := c / 4
	k := c % 4
	l := (32 + 2*e + 2*i - h - k) % 7
	m := (a + 11*h + 22*l) / 451
	month := (h + l - 7*m + 114) / 31
	day := ((h + l - 7*m + 114) % 31) + 1

	return domain.NewDateISO(year, time.Month(month), day)
}
