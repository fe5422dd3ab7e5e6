package services

import (
	"github.com/SscSPs/fiscalsim/internal/core/domain"
	"github.com/SscSPs/fiscalsim/internal/utils/datekernel"
)

// LedgerAggregator owns the per-account, per-calendar-month bucket map for
// one simulation run: it seeds every bucket once, then walks the fiscal
// months in order, applying all of a month's postings before rolling that
// month forward, so no month's opening balance is derived before the prior
// fiscal month is complete (spec §4.5, §9 — fiscal-ordered processing is
// where a prior implementation's correctness bugs originated).
type LedgerAggregator struct {
	buckets map[domain.Account]*[12]domain.MonthlyAccountBalance
}

// NewLedgerAggregator returns an aggregator ready for one Aggregate call.
func NewLedgerAggregator() *LedgerAggregator {
	return &LedgerAggregator{}
}

// AggregateResult bundles everything LedgerAggregator produces, ready to be
// handed to the invariant checker and, on success, folded into
// domain.SimulationResults.
type AggregateResult struct {
	MonthlyBalances []domain.MonthlyAccountBalance // fiscal order, then Account order
	MonthlyTotals   []domain.MonthlySummary        // fiscal order
	Overall         domain.OverallSummary
}

// Aggregate runs the full seed -> apply -> roll-forward -> summarize
// pipeline for one fiscal year against a date-sorted occurrence list.
func (a *LedgerAggregator) Aggregate(cfg domain.FiscalConfig, occurrences []domain.Occurrence) AggregateResult {
	result, _ := a.AggregateStepped(cfg, occurrences, nil)
	return result
}

// AggregateStepped runs the same pipeline as Aggregate, but applies and
// rolls forward one fiscal month at a time and calls afterStep, if
// non-nil, once a month's step has fully completed and before the next
// one starts. A non-nil error from afterStep aborts the run immediately
// with that error — this is how the runner honors the documented
// suspension model of stopping "as soon as the current fiscal-month step
// completes" (spec §4.5, §9) rather than only between whole phases.
func (a *LedgerAggregator) AggregateStepped(cfg domain.FiscalConfig, occurrences []domain.Occurrence, afterStep func(stepIndex, calMonth int) error) (AggregateResult, error) {
	a.seed(cfg)

	byMonth := make(map[int][]domain.Occurrence, 12)
	for _, o := range occurrences {
		byMonth[o.Date.Month()] = append(byMonth[o.Date.Month()], o)
	}

	order := cfg.FiscalMonthOrder()
	for i, calMonth := range order {
		a.applyMonth(byMonth[calMonth])
		a.rollForwardMonth(order, i)

		if afterStep != nil {
			if err := afterStep(i, calMonth); err != nil {
				return AggregateResult{}, err
			}
		}
	}

	monthlyTotals := a.summarizeMonths(cfg, occurrences)
	overall := a.summarizeOverall(cfg, monthlyTotals)

	return AggregateResult{
		MonthlyBalances: a.orderedBalances(cfg),
		MonthlyTotals:   monthlyTotals,
		Overall:         overall,
	}, nil
}

// seed sets the opening balance at the fiscal start month to the configured
// starting balance for each account, and zero everywhere else.
func (a *LedgerAggregator) seed(cfg domain.FiscalConfig) {
	a.buckets = make(map[domain.Account]*[12]domain.MonthlyAccountBalance, len(domain.Accounts))

	for _, acct := range domain.Accounts {
		var months [12]domain.MonthlyAccountBalance
		for i := range months {
			months[i] = domain.MonthlyAccountBalance{
				Account:      acct,
				Month:        i + 1,
				Transactions: nil,
			}
		}
		months[cfg.FiscalStartMonth-1].OpeningBalance = cfg.StartingBalance(acct)
		a.buckets[acct] = &months
	}
}

// applyMonth appends every posting of one calendar month's occurrences to
// that month's bucket and accumulates its debit/credit/net-change summary.
// Its closing balance is not computed here (spec §4.5 step 2).
func (a *LedgerAggregator) applyMonth(occurrences []domain.Occurrence) {
	for _, o := range occurrences {
		idx := o.Date.Month() - 1
		for _, p := range o.Postings {
			bucket := &a.buckets[p.Account][idx]
			bucket.Transactions = append(bucket.Transactions, domain.TransactionRecord{
				OccurrenceID: o.ID,
				Date:         o.Date,
				Amount:       p.Amount,
				Description:  p.Description,
			})
			if p.Amount.IsPositive() {
				bucket.Summary.TotalDebits = bucket.Summary.TotalDebits.Add(p.Amount)
			} else if p.Amount.IsNegative() {
				bucket.Summary.TotalCredits = bucket.Summary.TotalCredits.Add(p.Amount.Abs())
			}
			bucket.Summary.NetChange = bucket.Summary.NetChange.Add(p.Amount)
		}
	}
}

// rollForwardMonth sets the fiscal step-i month's opening balance to the
// prior fiscal month's closing balance (or leaves it at the seeded starting
// balance for i==0) and derives its own closing balance (spec §4.5 step 3),
// for every account.
func (a *LedgerAggregator) rollForwardMonth(order []int, i int) {
	calMonth := order[i]
	idx := calMonth - 1

	for _, acct := range domain.Accounts {
		months := a.buckets[acct]
		if i > 0 {
			prevIdx := order[i-1] - 1
			months[idx].OpeningBalance = months[prevIdx].ClosingBalance
		}
		months[idx].ClosingBalance = months[idx].OpeningBalance.Add(months[idx].Summary.NetChange)
	}
}

// summarizeMonths aggregates occurrences by kind for each fiscal month and
// snapshots that month's closing balances (spec §4.5 step 4).
func (a *LedgerAggregator) summarizeMonths(cfg domain.FiscalConfig, occurrences []domain.Occurrence) []domain.MonthlySummary {
	byMonth := make(map[int][]domain.Occurrence)
	for _, o := range occurrences {
		m := o.Date.Month()
		byMonth[m] = append(byMonth[m], o)
	}

	order := cfg.FiscalMonthOrder()
	summaries := make([]domain.MonthlySummary, 0, len(order))

	for _, calMonth := range order {
		var revenue, expenses domain.KindTotals
		for _, o := range byMonth[calMonth] {
			switch o.Kind {
			case domain.OccurrenceRevenue:
				revenue.Gross = revenue.Gross.Add(o.GrossAmount)
				revenue.Net = revenue.Net.Add(o.NetAmount)
				revenue.VAT = revenue.VAT.Add(o.VATAmount)
			case domain.OccurrenceExpense:
				expenses.Gross = expenses.Gross.Add(o.GrossAmount)
				expenses.Net = expenses.Net.Add(o.NetAmount)
				expenses.VAT = expenses.VAT.Add(o.VATAmount)
				if o.VATDeductible != nil && *o.VATDeductible {
					expenses.DeductibleVAT = expenses.DeductibleVAT.Add(o.VATAmount)
				}
			}
		}

		balances := make(map[domain.Account]domain.Money, len(domain.Accounts))
		for _, acct := range domain.Accounts {
			balances[acct] = a.buckets[acct][calMonth-1].ClosingBalance
		}

		summaries = append(summaries, domain.MonthlySummary{
			Month:           calMonth,
			DisplayName:     datekernel.DisplayName(calMonth, cfg.FiscalStartMonth),
			Revenue:         revenue,
			Expenses:        expenses,
			NetProfit:       revenue.Net.Sub(expenses.Net),
			NetVATPosition:  revenue.VAT.Sub(expenses.DeductibleVAT),
			AccountBalances: balances,
		})
	}

	return summaries
}

// summarizeOverall sums the monthly fields and takes finalAccountBalances
// from the last fiscal month, not from December (spec §4.5 step 5).
func (a *LedgerAggregator) summarizeOverall(cfg domain.FiscalConfig, monthly []domain.MonthlySummary) domain.OverallSummary {
	var overall domain.OverallSummary
	for _, m := range monthly {
		overall.TotalRevenue.Gross = overall.TotalRevenue.Gross.Add(m.Revenue.Gross)
		overall.TotalRevenue.Net = overall.TotalRevenue.Net.Add(m.Revenue.Net)
		overall.TotalRevenue.VAT = overall.TotalRevenue.VAT.Add(m.Revenue.VAT)
		overall.TotalExpenses.Gross = overall.TotalExpenses.Gross.Add(m.Expenses.Gross)
		overall.TotalExpenses.Net = overall.TotalExpenses.Net.Add(m.Expenses.Net)
		overall.TotalExpenses.VAT = overall.TotalExpenses.VAT.Add(m.Expenses.VAT)
		overall.TotalExpenses.DeductibleVAT = overall.TotalExpenses.DeductibleVAT.Add(m.Expenses.DeductibleVAT)
	}
	overall.NetProfit = overall.TotalRevenue.Net.Sub(overall.TotalExpenses.Net)
	overall.TotalVATCollected = overall.TotalRevenue.VAT
	overall.TotalVATDeductible = overall.TotalExpenses.DeductibleVAT
	overall.NetVATOwed = overall.TotalVATCollected.Sub(overall.TotalVATDeductible)

	lastFiscalMonth := cfg.FiscalMonthOrder()[11]
	overall.FinalAccountBalances = make(map[domain.Account]domain.Money, len(domain.Accounts))
	for _, acct := range domain.Accounts {
		overall.FinalAccountBalances[acct] = a.buckets[acct][lastFiscalMonth-1].ClosingBalance
	}

	return overall
}

// orderedBalances flattens the bucket map into fiscal order, then Account
// order, per domain.SimulationResults.MonthlyBalances' documented ordering.
func (a *LedgerAggregator) orderedBalances(cfg domain.FiscalConfig) []domain.MonthlyAccountBalance {
	order := cfg.FiscalMonthOrder()
	out := make([]domain.MonthlyAccountBalance, 0, 12*len(domain.Accounts))

	// domain.Accounts is already in fixed Ordinal order.
	for _, calMonth := range order {
		for _, acct := range domain.Accounts {
			out = append(out, a.buckets[acct][calMonth-1])
		}
	}
	return out
}
