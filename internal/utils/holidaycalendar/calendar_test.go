package holidaycalendar_test

import (
	"testing"

	"github.com/SscSPs/fiscalsim/internal/core/domain"
	"github.com/SscSPs/fiscalsim/internal/utils/holidaycalendar"
	"github.com/stretchr/testify/assert"
)

func TestHolidays_NationalSet2024(t *testing.T) {
	set := holidaycalendar.Holidays(2024, domain.RegionFR)

	// Easter Sunday 2024 is March 31 -> Easter Monday April 1, Ascension
	// May 9, Whit Monday May 20.
	for _, d := range []domain.DateISO{
		domain.NewDateISO(2024, 1, 1),
		domain.NewDateISO(2024, 5, 1),
		domain.NewDateISO(2024, 5, 8),
		domain.NewDateISO(2024, 7, 14),
		domain.NewDateISO(2024, 8, 15),
		domain.NewDateISO(2024, 11, 1),
		domain.NewDateISO(2024, 11, 11),
		domain.NewDateISO(2024, 12, 25),
		domain.NewDateISO(2024, 4, 1),
		domain.NewDateISO(2024, 5, 9),
		domain.NewDateISO(2024, 5, 20),
	} {
		_, ok := set[d]
		assert.True(t, ok, "expected %s to be a national holiday", d)
	}

	assert.Len(t, set, 11)
}

func TestHolidays_RegionalAddenda(t *testing.T) {
	for _, region := range []domain.HolidayRegion{domain.RegionFR67, domain.RegionFR68, domain.RegionFR57} {
		set := holidaycalendar.Holidays(2024, region)
		assert.Len(t, set, 13)
		_, goodFriday := set[domain.NewDateISO(2024, 3, 29)]
		assert.True(t, goodFriday)
		_, stStephen := set[domain.NewDateISO(2024, 12, 26)]
		assert.True(t, stStephen)
	}
}

func TestHolidays_UnknownRegionFallsBackToNational(t *testing.T) {
	national := holidaycalendar.Holidays(2024, domain.RegionFR)
	unknown := holidaycalendar.Holidays(2024, domain.HolidayRegion("FR-99"))
	assert.Equal(t, len(national), len(unknown))
}

func TestIsHoliday(t *testing.T) {
	assert.True(t, holidaycalendar.IsHoliday(domain.NewDateISO(2024, 5, 1), domain.RegionFR))
	assert.False(t, holidaycalendar.IsHoliday(domain.NewDateISO(2024, 5, 2), domain.RegionFR))
}

func TestEasterSunday_KnownYears(t *testing.T) {
	// Verified against published Easter dates.
	cases := map[int]domain.DateISO{
		2023: domain.NewDateISO(2023, 4, 9),
		2024: domain.NewDateISO(2024, 3, 31),
		2025: domain.NewDateISO(2025, 4, 20),
	}
	for year, want := range cases {
		set := holidaycalendar.Holidays(year, domain.RegionFR)
		// Easter Monday is Easter Sunday + 1.
		_, ok := set[want.AddDays(1)]
		assert.True(t, ok, "year %d: expected Easter Monday derived from %s", year, want)
	}
}
