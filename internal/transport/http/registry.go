// Package http is the reference network transport for ProgressSink/run
// control (SPEC_FULL.md §6): a gin-gonic/gin router exposing POST
// /simulations, GET /simulations/:id/events (SSE) and GET
// /simulations/:id/snapshot. The engine package
// (internal/core/services/...) has no dependency on this package or on
// gin at all — SimulationRunner takes plain ports.ProgressSink /
// ports.ResultSink interfaces, and this transport is just one caller of
// them, grounded on the teacher's internal/handlers convention of a thin
// gin.HandlerFunc layer over a service.
package http

import (
	"sync"
	"time"

	"github.com/SscSPs/fiscalsim/internal/core/domain"
	"github.com/SscSPs/fiscalsim/internal/core/services"
)

// BroadcastRegistry multiplexes the single ports.ProgressSink the
// SimulationRunner is constructed with across many concurrent simulations,
// handing each simulationID its own *services.ProgressBroadcaster (spec
// §4.7: "one broadcaster instance per in-flight simulation"). It implements
// ports.ProgressSink itself so one registry can be handed to
// services.WithProgressSink once at startup.
type BroadcastRegistry struct {
	mu                sync.Mutex
	broadcasters      map[string]*services.ProgressBroadcaster
	heartbeatInterval time.Duration
}

// NewBroadcastRegistry returns an empty registry whose broadcasters heartbeat
// at the recommended 30s interval.
func NewBroadcastRegistry() *BroadcastRegistry {
	return NewBroadcastRegistryWithHeartbeat(services.DefaultHeartbeatInterval)
}

// NewBroadcastRegistryWithHeartbeat returns an empty registry whose
// broadcasters heartbeat at the given interval, letting cmd/ wire the
// configured HEARTBEAT_INTERVAL through instead of the recommended default.
func NewBroadcastRegistryWithHeartbeat(heartbeatInterval time.Duration) *BroadcastRegistry {
	return &BroadcastRegistry{
		broadcasters:      make(map[string]*services.ProgressBroadcaster),
		heartbeatInterval: heartbeatInterval,
	}
}

// Publish implements ports.ProgressSink: it routes snapshot to the
// broadcaster for its simulation id, creating one on first use.
func (r *BroadcastRegistry) Publish(simulationID string, snapshot domain.Snapshot) {
	r.broadcaster(simulationID).Publish(simulationID, snapshot)
}

// Subscribe attaches a new subscriber to simulationID's broadcaster,
// creating the broadcaster if no snapshot has been published yet (e.g. a
// client connects to the event stream before the run goroutine starts).
func (r *BroadcastRegistry) Subscribe(simulationID string) <-chan domain.Snapshot {
	return r.broadcaster(simulationID).Subscribe()
}

// Latest returns the most recent snapshot for simulationID, for poll-only
// clients, and whether one has been published at all.
func (r *BroadcastRegistry) Latest(simulationID string) (domain.Snapshot, bool) {
	return r.broadcaster(simulationID).Latest()
}

// Forget stops and drops simulationID's broadcaster once its run has
// completed and every subscriber has had a chance to observe the terminal
// event, bounding the registry's memory to in-flight + recently finished
// runs rather than growing without limit.
func (r *BroadcastRegistry) Forget(simulationID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if b, ok := r.broadcasters[simulationID]; ok {
		b.Stop()
		delete(r.broadcasters, simulationID)
	}
}

func (r *BroadcastRegistry) broadcaster(simulationID string) *services.ProgressBroadcaster {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.broadcasters[simulationID]
	if !ok {
		b = services.NewProgressBroadcasterWithInterval(simulationID, r.heartbeatInterval)
		r.broadcasters[simulationID] = b
	}
	return b
}
