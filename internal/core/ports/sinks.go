package ports

import (
	"context"

	"github.com/SscSPs/fiscalsim/internal/core/domain"
)

// ResultSink receives a final SimulationResults value and may persist it.
// The engine does not mandate a storage format beyond the struct itself.
type ResultSink interface {
	SaveResults(ctx context.Context, simulationID string, results domain.SimulationResults) error
}

// ProgressSink accepts Snapshot values published during a run. Per spec
// §4.7/§5, a ProgressSink implementation must never back-pressure the
// producer: it should coalesce (keep only the most recent snapshot for a
// slow consumer) rather than block.
type ProgressSink interface {
	Publish(simulationID string, snapshot domain.Snapshot)
}

// NoopResultSink discards results; useful for callers that only want the
// return value of RunSimulation and have no persistence need.
type NoopResultSink struct{}

func (NoopResultSink) SaveResults(context.Context, string, domain.SimulationResults) error {
	return nil
}

// NoopProgressSink discards every snapshot.
type NoopProgressSink struct{}

func (NoopProgressSink) Publish(string, domain.Snapshot) {}
