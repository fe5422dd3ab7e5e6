package services

import (
	"github.com/SscSPs/fiscalsim/internal/core/ports"
)

// Container wires a SimulationRunner to its PatternStore, ProgressSink and
// ResultSink collaborators, grounded on the teacher's Container: a single
// struct that owns every service the process needs and is built once at
// startup. Unlike the teacher's Container, this domain has exactly one
// top-level service (the engine has no workplace/account/currency/user
// services of its own — those are external collaborators per spec §1), so
// the container's job shrinks to "one runner, its three ports".
type Container struct {
	Runner *SimulationRunner
}

// ContainerOption configures a Container's SimulationRunner at construction
// time, mirroring RunnerOption so callers can pass the same options through
// one call.
type ContainerOption = RunnerOption

// NewContainer builds a Container around a PatternStore, applying opts to
// the underlying SimulationRunner in order (WithProgressSink,
// WithResultSink, WithClock, WithEngineVersion, …).
func NewContainer(store ports.PatternStore, opts ...ContainerOption) *Container {
	return &Container{
		Runner: NewSimulationRunner(store, opts...),
	}
}
