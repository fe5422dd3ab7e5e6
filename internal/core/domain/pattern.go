package domain

// PatternKind discriminates the two Pattern variants. Per spec §9, Pattern
// is modeled as a single tagged struct rather than an inheritance
// hierarchy so VAT-rate selection and deductibility route through Kind
// instead of a type switch over concrete types.
type PatternKind string

const (
	KindRevenue PatternKind = "revenue"
	KindExpense PatternKind = "expense"
)

// Frequency is how often a pattern recurs within the target fiscal year.
type Frequency string

const (
	FreqDaily     Frequency = "daily"
	FreqMonthly   Frequency = "monthly"
	FreqQuarterly Frequency = "quarterly"
	FreqYearly    Frequency = "yearly"
)

// ExpenseCategory is the closed set of expense categories.
type ExpenseCategory string

const (
	CategoryGeneral      ExpenseCategory = "general"
	CategoryRent         ExpenseCategory = "rent"
	CategoryUtilities    ExpenseCategory = "utilities"
	CategorySubscription ExpenseCategory = "subscription"
	CategoryInsurance    ExpenseCategory = "insurance"
	CategoryMarketing    ExpenseCategory = "marketing"
	CategoryTravel       ExpenseCategory = "travel"
	CategoryEquipment    ExpenseCategory = "equipment"
)

// validExpenseCategories backs Valid(); kept as a set literal next to the
// constants so a new category only needs to be added in one place.
var validExpenseCategories = map[ExpenseCategory]bool{
	CategoryGeneral: true, CategoryRent: true, CategoryUtilities: true,
	CategorySubscription: true, CategoryInsurance: true, CategoryMarketing: true,
	CategoryTravel: true, CategoryEquipment: true,
}

func (c ExpenseCategory) Valid() bool { return validExpenseCategories[c] }

// VATRate is the closed set of recognized revenue VAT rates, expressed as a
// percentage (spec §6: exactly {0, 5.5, 10, 20}).
type VATRate float64

const (
	VATRateZero    VATRate = 0
	VATRateReduced VATRate = 5.5
	VATRateMid     VATRate = 10
	VATRateStandard VATRate = 20
)

func (r VATRate) Valid() bool {
	switch r {
	case VATRateZero, VATRateReduced, VATRateMid, VATRateStandard:
		return true
	default:
		return false
	}
}

// Fraction converts a percentage VAT rate to the decimal fraction used in
// gross/net/VAT arithmetic (e.g. 20 -> 0.20).
func (r VATRate) Fraction() float64 { return float64(r) / 100.0 }

// ExpenseVATRate is the VAT rate the engine uses to compute a deductible
// expense occurrence's VAT amount. ExpensePattern carries no VAT-rate field
// in the source data (spec §9 open question); this constant makes the
// previously implicit 20% default explicit rather than burying it in the
// expander. Non-deductible expenses use rate zero (spec §8 scenario 2:
// "vatDeductible=false and effectively 0 VAT") — VATDeductible therefore
// gates both the rate and whether a VAT posting is produced.
const ExpenseVATRate VATRate = VATRateStandard

// DefaultRevenueVATRate is used when a RevenuePattern does not configure a
// rate (spec §4.3: "for revenue without a configured rate, default r=0.20").
const DefaultRevenueVATRate VATRate = VATRateStandard

// DayOffOverride pins a single date's active/inactive verdict, overriding
// every other daily-precedence rule (spec §4.3 step 1).
type DayOffOverride struct {
	Date   DateISO `json:"date"`
	Active bool    `json:"active"`
	Reason string  `json:"reason,omitempty"`
}

// Pattern is the tagged union of RevenuePattern and ExpensePattern. Shared
// fields come first; Kind selects which of the variant-only fields apply.
// When Frequency != daily, the daily-only fields are ignored by the engine
// (never cause validation errors), per spec §3's invariant.
type Pattern struct {
	ID         string    `json:"id" validate:"required"`
	Name       string    `json:"name" validate:"required"`
	Kind       PatternKind `json:"kind" validate:"required,oneof=revenue expense"`
	Amount     Money     `json:"amount"`
	Frequency  Frequency `json:"frequency" validate:"required,oneof=daily monthly quarterly yearly"`
	StartMonth int       `json:"startMonth" validate:"required,min=1,max=12"`

	// Daily-only fields.
	DaysMask        int              `json:"daysMask,omitempty"`
	ExcludeWeekends bool             `json:"excludeWeekends,omitempty"`
	ExcludeHolidays bool             `json:"excludeHolidays,omitempty"`
	StartDate       *DateISO         `json:"startDate,omitempty"`
	DayOffOverrides []DayOffOverride `json:"dayOffOverrides,omitempty"`

	// Revenue-only.
	VATRate *VATRate `json:"vatRate,omitempty"`

	// Expense-only.
	Category      ExpenseCategory `json:"category,omitempty"`
	VATDeductible bool            `json:"vatDeductible,omitempty"`
}

// IsRevenue reports whether this pattern is the revenue variant.
func (p Pattern) IsRevenue() bool { return p.Kind == KindRevenue }

// IsExpense reports whether this pattern is the expense variant.
func (p Pattern) IsExpense() bool { return p.Kind == KindExpense }

// EffectiveVATRate resolves the rate used for net/VAT split: the configured
// RevenuePattern.VATRate, or DefaultRevenueVATRate if unset for revenue;
// ExpenseVATRate for a deductible expense, or VATRateZero for a
// non-deductible one, whose gross amount is "effectively 0 VAT" and passes
// through to net unchanged (spec §4.3, §8 scenario 2, §9 open question).
func (p Pattern) EffectiveVATRate() VATRate {
	if p.IsRevenue() {
		if p.VATRate != nil {
			return *p.VATRate
		}
		return DefaultRevenueVATRate
	}
	if !p.VATDeductible {
		return VATRateZero
	}
	return ExpenseVATRate
}

// OverrideFor returns the last-wins override for a date, and whether one
// exists at all (spec §4.3: "if duplicates are present, the last wins").
func (p Pattern) OverrideFor(d DateISO) (DayOffOverride, bool) {
	var found DayOffOverride
	ok := false
	for _, o := range p.DayOffOverrides {
		if o.Date.Equal(d) {
			found = o
			ok = true
		}
	}
	return found, ok
}
