package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/SscSPs/fiscalsim/internal/apperrors"
	"github.com/SscSPs/fiscalsim/internal/core/domain"
	"github.com/SscSPs/fiscalsim/internal/core/ports"
)

// maxPatternCount is the pattern-count limit validated per run (spec §4.8).
const maxPatternCount = 100

// engineVersion is reported in every SimulationResults.Metadata unless a
// caller overrides it with WithEngineVersion.
const engineVersion = "1.0.0"

// urssafRate is the indicative monthly social-contribution rate applied to
// net revenue for the progress-time URSSAF figure (spec §4.7, §9 — not
// authoritative, never part of SimulationResults).
var urssafRate = decimal.NewFromFloat(0.45)

// SimulationRunner is the engine's entry point: it validates inputs,
// expands patterns, aggregates the ledger, checks invariants, and streams
// progress throughout (spec §4.8). It is built with functional RunnerOption
// values, the same pattern the teacher uses for accountServiceImpl.
type SimulationRunner struct {
	BaseService

	patternStore ports.PatternStore
	resultSink   ports.ResultSink
	progressSink ports.ProgressSink
	clock        func() time.Time
	validate     *validator.Validate
	version      string
}

// RunnerOption configures a SimulationRunner at construction time.
type RunnerOption func(*SimulationRunner)

// WithProgressSink attaches a progress observer; defaults to a no-op sink.
func WithProgressSink(sink ports.ProgressSink) RunnerOption {
	return func(r *SimulationRunner) { r.progressSink = sink }
}

// WithResultSink attaches a result persister; defaults to a no-op sink.
func WithResultSink(sink ports.ResultSink) RunnerOption {
	return func(r *SimulationRunner) { r.resultSink = sink }
}

// WithClock overrides the runner's time source, for deterministic tests.
func WithClock(clock func() time.Time) RunnerOption {
	return func(r *SimulationRunner) { r.clock = clock }
}

// WithEngineVersion overrides the version string reported in
// ResultMetadata.
func WithEngineVersion(version string) RunnerOption {
	return func(r *SimulationRunner) { r.version = version }
}

// NewSimulationRunner builds a runner backed by store, applying opts in
// order.
func NewSimulationRunner(store ports.PatternStore, opts ...RunnerOption) *SimulationRunner {
	r := &SimulationRunner{
		patternStore: store,
		resultSink:   ports.NoopResultSink{},
		progressSink: ports.NoopProgressSink{},
		clock:        time.Now,
		validate:     validator.New(),
		version:      engineVersion,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// RunOptions carries the per-call knobs RunSimulation accepts in addition
// to its required arguments: a simulation id and a cancellation channel.
// The progress sink is not a per-call option; it is set once per runner
// with WithProgressSink.
type RunOptions struct {
	SimulationID string
	Cancel       <-chan struct{}
}

// RunSimulation executes one full simulation: resolve the company, validate,
// expand, aggregate, check invariants, emit, return (spec §4.8). The company
// is resolved by id through the same PatternStore the revenue/expense
// patterns come from (spec §6: "PatternStore (consumed): ... getCompany(id)
// -> Company"), so the engine's only view of a company is what the store
// hands back, symmetric with how it reads patterns.
func (r *SimulationRunner) RunSimulation(ctx context.Context, cfg domain.FiscalConfig, companyID string, opts RunOptions) (domain.SimulationResults, error) {
	start := r.clock()
	simulationID := opts.SimulationID
	if simulationID == "" {
		simulationID = companyID + ":" + fmt.Sprintf("%d", cfg.Year)
	}

	company, err := r.patternStore.GetCompany(ctx, companyID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return domain.SimulationResults{}, err
		}
		return domain.SimulationResults{}, &apperrors.InternalError{Op: "GetCompany", Err: err}
	}

	if err := r.validateInputs(cfg, company); err != nil {
		r.LogError(ctx, err, "simulation input validation failed", slog.String("simulationId", simulationID))
		return domain.SimulationResults{}, err
	}

	region := company.EffectiveHolidayRegion()

	revenue, err := r.patternStore.ListRevenuePatterns(ctx, company.ID)
	if err != nil {
		return domain.SimulationResults{}, &apperrors.InternalError{Op: "ListRevenuePatterns", Err: err}
	}
	expense, err := r.patternStore.ListExpensePatterns(ctx, company.ID)
	if err != nil {
		return domain.SimulationResults{}, &apperrors.InternalError{Op: "ListExpensePatterns", Err: err}
	}
	if len(revenue)+len(expense) > maxPatternCount {
		return domain.SimulationResults{}, apperrors.NewValidationError("patterns", fmt.Sprintf("pattern count %d exceeds the %d limit", len(revenue)+len(expense), maxPatternCount))
	}
	for _, p := range append(append([]domain.Pattern{}, revenue...), expense...) {
		if err := r.validatePattern(p); err != nil {
			return domain.SimulationResults{}, err
		}
	}

	r.emit(simulationID, 10, domain.StatusRunning, 0, nil, nil, "")

	if err := r.checkCancelled(opts.Cancel, "validation"); err != nil {
		r.emitFailed(simulationID, 10, err.Error())
		return domain.SimulationResults{}, err
	}

	occurrences := ExpandPatterns(revenue, expense, cfg.Year, region)

	r.emit(simulationID, 20, domain.StatusRunning, 0, r.seedSnapshot(cfg), nil, "")

	if err := r.checkCancelled(opts.Cancel, "expansion"); err != nil {
		r.emitFailed(simulationID, 20, err.Error())
		return domain.SimulationResults{}, err
	}

	aggregator := NewLedgerAggregator()
	result, err := aggregator.AggregateStepped(cfg, occurrences, func(_, calMonth int) error {
		return r.checkCancelled(opts.Cancel, fmt.Sprintf("aggregation:month=%d", calMonth))
	})
	if err != nil {
		r.emitFailed(simulationID, 20, err.Error())
		return domain.SimulationResults{}, err
	}

	r.emitMonthlyProgress(simulationID, cfg, result)

	r.emit(simulationID, 85, domain.StatusRunning, 0, nil, nil, "")
	r.emit(simulationID, 90, domain.StatusRunning, 0, nil, nil, "")

	checker := NewInvariantChecker()
	if violations := checker.Check(cfg, result.MonthlyBalances, result.MonthlyTotals, result.Overall); len(violations) > 0 {
		violation := &apperrors.MultiInvariantViolation{Violations: violations}
		r.LogError(ctx, violation, "simulation failed invariant checks", slog.String("simulationId", simulationID))
		r.emitFailed(simulationID, 90, violation.Error())
		return domain.SimulationResults{}, violation
	}

	r.emit(simulationID, 95, domain.StatusRunning, 0, nil, nil, "")

	results := domain.SimulationResults{
		Year:             cfg.Year,
		FiscalStartMonth: cfg.FiscalStartMonth,
		MonthlyBalances:  result.MonthlyBalances,
		MonthlyTotals:    result.MonthlyTotals,
		OverallTotals:    result.Overall,
		Metadata: domain.ResultMetadata{
			TotalOccurrences: len(occurrences),
			ProcessingTimeMs: r.clock().Sub(start).Milliseconds(),
			EngineVersion:    r.version,
		},
	}

	if err := r.resultSink.SaveResults(ctx, simulationID, results); err != nil {
		// A sink rejecting a write is an Internal error: it does not abort
		// the computation (spec §7), only demotes to a logged warning.
		r.LogError(ctx, err, "result sink rejected write", slog.String("simulationId", simulationID))
	}

	r.emit(simulationID, 100, domain.StatusCompleted, 0, result.Overall.FinalAccountBalances, nil, "")

	return results, nil
}

// validateInputs runs struct-tag validation on FiscalConfig and Company,
// falling back to explicit checks for properties validator tags can't
// express.
func (r *SimulationRunner) validateInputs(cfg domain.FiscalConfig, company domain.Company) error {
	if err := r.validate.Struct(cfg); err != nil {
		return apperrors.NewValidationError("fiscalConfig", err.Error())
	}
	if err := r.validate.Struct(company); err != nil {
		return apperrors.NewValidationError("company", err.Error())
	}
	return nil
}

// validatePattern validates one pattern's struct tags plus the
// daily-frequency and VAT-rate properties tags cannot express.
func (r *SimulationRunner) validatePattern(p domain.Pattern) error {
	if err := r.validate.Struct(p); err != nil {
		return apperrors.NewValidationError("pattern."+p.ID, err.Error())
	}
	if p.Frequency == domain.FreqDaily {
		if p.DaysMask < 0 || p.DaysMask > 127 {
			return apperrors.NewValidationError("pattern."+p.ID+".daysMask", "must be in [0,127]")
		}
	}
	if p.IsRevenue() && p.VATRate != nil && !p.VATRate.Valid() {
		return apperrors.NewValidationError("pattern."+p.ID+".vatRate", "must be one of {0, 5.5, 10, 20}")
	}
	return nil
}

// checkCancelled reports a CancelledError if the cancel channel fired.
func (r *SimulationRunner) checkCancelled(cancel <-chan struct{}, stage string) error {
	if cancel == nil {
		return nil
	}
	select {
	case <-cancel:
		return &apperrors.CancelledError{Stage: stage}
	default:
		return nil
	}
}

// seedSnapshot renders the starting balances as a partial-balances map for
// the progress=20 snapshot.
func (r *SimulationRunner) seedSnapshot(cfg domain.FiscalConfig) map[domain.Account]domain.Money {
	balances := make(map[domain.Account]domain.Money, len(domain.Accounts))
	for _, acct := range domain.Accounts {
		balances[acct] = cfg.StartingBalance(acct)
	}
	return balances
}

// emitMonthlyProgress emits one snapshot per fiscal month in
// [20, 80] per spec §4.7's "20 + 60*k/12" schedule, using the now-complete
// aggregation result's per-month figures. They are emitted after
// AggregateStepped has returned, not from inside its per-month steps.
func (r *SimulationRunner) emitMonthlyProgress(simulationID string, cfg domain.FiscalConfig, result AggregateResult) {
	for k, month := range result.MonthlyTotals {
		progress := 20 + 60*(k+1)/12
		taxes := &domain.IndicativeTaxes{
			TVA:         month.AccountBalances[domain.VAT].Abs(),
			URSSAF:      month.Revenue.Net.MulRate(urssafRate),
			NetCashFlow: month.Revenue.Net.Sub(month.Expenses.Net),
		}
		r.emit(simulationID, progress, domain.StatusRunning, month.Month, month.AccountBalances, taxes, "")
	}
}

// emit builds and publishes one progress snapshot.
func (r *SimulationRunner) emit(simulationID string, progress int, status domain.SimulationStatus, currentMonth int, balances map[domain.Account]domain.Money, taxes *domain.IndicativeTaxes, message string) {
	r.progressSink.Publish(simulationID, domain.Snapshot{
		SimulationID:    simulationID,
		Status:          status,
		CurrentMonth:    currentMonth,
		Progress:        progress,
		PartialBalances: balances,
		Taxes:           taxes,
		Timestamp:       r.clock().UnixMilli(),
		Message:         message,
	})
}

// emitFailed publishes the terminal failed snapshot (spec §4.8) at the
// progress value of the last snapshot emitted before the failure, so the
// stream's progress never decreases.
func (r *SimulationRunner) emitFailed(simulationID string, progress int, message string) {
	r.emit(simulationID, progress, domain.StatusFailed, 0, nil, nil, message)
}
