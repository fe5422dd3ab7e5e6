package services

import (
	"github.com/SscSPs/fiscalsim/internal/apperrors"
	"github.com/SscSPs/fiscalsim/internal/core/domain"
)

// InvariantChecker proves the four invariant classes the aggregator must
// satisfy once it has run to completion (spec §4.6). Grounded on the
// teacher's ValidateJournalBalance pattern of accumulating one decisive
// error, except every invariant class is checked exhaustively before the
// caller decides pass/fail, so a failing run names every violated
// account/month rather than only the first.
type InvariantChecker struct{}

// NewInvariantChecker returns a ready-to-use checker; it holds no state.
func NewInvariantChecker() *InvariantChecker { return &InvariantChecker{} }

// Check runs I1-I4 against one aggregation result and returns every
// violation found, in no particular priority order. A nil/empty slice
// means the run is sound.
func (c *InvariantChecker) Check(cfg domain.FiscalConfig, balances []domain.MonthlyAccountBalance, monthly []domain.MonthlySummary, overall domain.OverallSummary) []*apperrors.InvariantViolation {
	var violations []*apperrors.InvariantViolation

	byAccountMonth := make(map[domain.Account]map[int]domain.MonthlyAccountBalance, len(domain.Accounts))
	for _, b := range balances {
		if byAccountMonth[b.Account] == nil {
			byAccountMonth[b.Account] = make(map[int]domain.MonthlyAccountBalance)
		}
		byAccountMonth[b.Account][b.Month] = b
	}

	order := cfg.FiscalMonthOrder()

	violations = append(violations, c.checkOpeningSeed(cfg, byAccountMonth)...)
	violations = append(violations, c.checkRollForward(order, byAccountMonth)...)
	violations = append(violations, c.checkConservation(cfg, order, byAccountMonth)...)
	violations = append(violations, c.checkVAT(monthly, overall)...)

	return violations
}

// checkOpeningSeed is I1: the first fiscal month's opening balance must
// equal the configured starting balance.
func (c *InvariantChecker) checkOpeningSeed(cfg domain.FiscalConfig, byAccountMonth map[domain.Account]map[int]domain.MonthlyAccountBalance) []*apperrors.InvariantViolation {
	var violations []*apperrors.InvariantViolation

	for _, acct := range domain.Accounts {
		expected := cfg.StartingBalance(acct)
		actual := byAccountMonth[acct][cfg.FiscalStartMonth].OpeningBalance
		if !actual.WithinTolerance(expected) {
			violations = append(violations, &apperrors.InvariantViolation{
				Invariant: "I1", Account: acct, Month: cfg.FiscalStartMonth,
				Expected: expected, Actual: actual, Delta: actual.Sub(expected),
				Detail: "opening balance of the first fiscal month must equal the configured starting balance",
			})
		}
	}
	return violations
}

// checkRollForward is I2: for every fiscal-adjacent pair after the first,
// the later month's opening balance must equal the prior's closing, and its
// own closing must equal opening plus its net change.
func (c *InvariantChecker) checkRollForward(order []int, byAccountMonth map[domain.Account]map[int]domain.MonthlyAccountBalance) []*apperrors.InvariantViolation {
	var violations []*apperrors.InvariantViolation

	for _, acct := range domain.Accounts {
		for i := 1; i < len(order); i++ {
			prev := byAccountMonth[acct][order[i-1]]
			cur := byAccountMonth[acct][order[i]]

			if !cur.OpeningBalance.WithinTolerance(prev.ClosingBalance) {
				violations = append(violations, &apperrors.InvariantViolation{
					Invariant: "I2", Account: acct, Month: cur.Month,
					Expected: prev.ClosingBalance, Actual: cur.OpeningBalance,
					Delta: cur.OpeningBalance.Sub(prev.ClosingBalance),
					Detail: "opening balance must equal the prior fiscal month's closing balance",
				})
			}

			expectedClosing := cur.OpeningBalance.Add(cur.Summary.NetChange)
			if !cur.ClosingBalance.WithinTolerance(expectedClosing) {
				violations = append(violations, &apperrors.InvariantViolation{
					Invariant: "I2", Account: acct, Month: cur.Month,
					Expected: expectedClosing, Actual: cur.ClosingBalance,
					Delta: cur.ClosingBalance.Sub(expectedClosing),
					Detail: "closing balance must equal opening balance plus net change",
				})
			}
		}
	}
	return violations
}

// checkConservation is I3: the last fiscal month's closing balance must
// equal the starting balance plus the sum of every month's net change.
func (c *InvariantChecker) checkConservation(cfg domain.FiscalConfig, order []int, byAccountMonth map[domain.Account]map[int]domain.MonthlyAccountBalance) []*apperrors.InvariantViolation {
	var violations []*apperrors.InvariantViolation

	lastMonth := order[len(order)-1]
	for _, acct := range domain.Accounts {
		sumNetChange := domain.Zero
		for _, m := range order {
			sumNetChange = sumNetChange.Add(byAccountMonth[acct][m].Summary.NetChange)
		}
		expected := cfg.StartingBalance(acct).Add(sumNetChange)
		actual := byAccountMonth[acct][lastMonth].ClosingBalance

		if !actual.WithinTolerance(expected) {
			violations = append(violations, &apperrors.InvariantViolation{
				Invariant: "I3", Account: acct, Month: lastMonth,
				Expected: expected, Actual: actual, Delta: actual.Sub(expected),
				Detail: "final closing balance must equal starting balance plus the sum of every month's net change",
			})
		}
	}
	return violations
}

// checkVAT is I4: the overall summary's VAT totals must both be internally
// consistent (netVatOwed = collected - deductible) and independently
// traceable to the per-month figures they were supposedly summed from
// (spec §4.6/spec.md:153) — a monthly-figure bug that still nets out to a
// self-consistent overall total would otherwise pass undetected.
func (c *InvariantChecker) checkVAT(monthly []domain.MonthlySummary, overall domain.OverallSummary) []*apperrors.InvariantViolation {
	var violations []*apperrors.InvariantViolation

	expectedOwed := overall.TotalVATCollected.Sub(overall.TotalVATDeductible)
	if !overall.NetVATOwed.WithinTolerance(expectedOwed) {
		violations = append(violations, &apperrors.InvariantViolation{
			Invariant: "I4",
			Expected:  expectedOwed, Actual: overall.NetVATOwed, Delta: overall.NetVATOwed.Sub(expectedOwed),
			Detail: "netVatOwed must equal totalVatCollected minus totalVatDeductible",
		})
	}

	sumCollected := domain.Zero
	sumDeductible := domain.Zero
	for _, m := range monthly {
		sumCollected = sumCollected.Add(m.Revenue.VAT)
		sumDeductible = sumDeductible.Add(m.Expenses.DeductibleVAT)
	}

	if !overall.TotalVATCollected.WithinTolerance(sumCollected) {
		violations = append(violations, &apperrors.InvariantViolation{
			Invariant: "I4",
			Expected:  sumCollected, Actual: overall.TotalVATCollected, Delta: overall.TotalVATCollected.Sub(sumCollected),
			Detail: "totalVatCollected must equal the sum of every month's revenue.vat",
		})
	}

	if !overall.TotalVATDeductible.WithinTolerance(sumDeductible) {
		violations = append(violations, &apperrors.InvariantViolation{
			Invariant: "I4",
			Expected:  sumDeductible, Actual: overall.TotalVATDeductible, Delta: overall.TotalVATDeductible.Sub(sumDeductible),
			Detail: "totalVatDeductible must equal the sum of every month's expenses.deductibleVat",
		})
	}

	return violations
}
