package domain

// HolidayRegion identifies the French holiday-region addenda the calendar
// should apply on top of the national set.
type HolidayRegion string

const (
	RegionFR   HolidayRegion = "FR"
	RegionFR67 HolidayRegion = "FR-67"
	RegionFR68 HolidayRegion = "FR-68"
	RegionFR57 HolidayRegion = "FR-57"
)

// Normalize maps any unrecognized region code to the default national set,
// per spec §4.1/§6 ("other codes are accepted but treated as FR").
func (r HolidayRegion) Normalize() HolidayRegion {
	switch r {
	case RegionFR67, RegionFR68, RegionFR57:
		return r
	default:
		return RegionFR
	}
}

// FiscalYearMode distinguishes a company that reports on the calendar year
// from one with a custom fiscal year.
type FiscalYearMode string

const (
	FiscalYearCalendar FiscalYearMode = "calendar"
	FiscalYearCustom   FiscalYearMode = "fiscal"
)

// Company is an immutable input the engine reads id and HolidayRegion from;
// every other field is opaque descriptive context the engine never
// interprets. Company CRUD and persistence are external collaborators
// (spec §1) — this struct is what the engine is handed, not what a store
// manages internally.
type Company struct {
	ID            string         `json:"id" validate:"required"`
	UserID        string         `json:"userId" validate:"required"`
	FiscalYear    FiscalYearMode `json:"fiscalYear,omitempty" validate:"omitempty,oneof=calendar fiscal"`
	HolidayRegion HolidayRegion  `json:"holidayRegion"`
	LegalForm     string         `json:"legalForm" validate:"required"`
	ActivitySector string        `json:"activitySector" validate:"required"`
	Capital       Money          `json:"capital"`
	BankPartner   string         `json:"bankPartner" validate:"required"`
}

// EffectiveHolidayRegion returns the region normalized for the calendar,
// defaulting an empty region to FR.
func (c Company) EffectiveHolidayRegion() HolidayRegion {
	if c.HolidayRegion == "" {
		return RegionFR
	}
	return c.HolidayRegion.Normalize()
}
