package domain

// AccountPosting is one signed entry against one account, forming part of
// an Occurrence's double-entry. Positive is a debit (inflow to that
// account); negative is a credit (outflow). Spec §3/§4.4.
type AccountPosting struct {
	Account     Account `json:"account"`
	Amount      Money   `json:"amount"`
	Description string  `json:"description"`
}

// OccurrenceKind mirrors PatternKind for the derived Occurrence.
type OccurrenceKind string

const (
	OccurrenceRevenue OccurrenceKind = "revenue"
	OccurrenceExpense OccurrenceKind = "expense"
)

// Occurrence is one dated financial event derived from expanding a Pattern.
// Occurrences are transient — owned by a single SimulationRunner invocation
// for the duration of one run (spec §9) — and are never persisted.
type Occurrence struct {
	ID          string         `json:"id"`
	PatternID   string         `json:"patternId"`
	PatternName string         `json:"patternName"`
	Date        DateISO        `json:"date"`
	Kind        OccurrenceKind `json:"kind"`
	Category    ExpenseCategory `json:"category,omitempty"`

	GrossAmount Money   `json:"grossAmount"`
	VATRate     float64 `json:"vatRate"` // decimal fraction, e.g. 0.20
	VATAmount   Money   `json:"vatAmount"`
	NetAmount   Money   `json:"netAmount"`

	VATDeductible *bool `json:"vatDeductible,omitempty"`

	Postings []AccountPosting `json:"postings"`
}

// OccurrenceID derives the occurrence's identity: pattern.id ⊕ date.
func OccurrenceID(patternID string, d DateISO) string {
	return patternID + "@" + d.String()
}
