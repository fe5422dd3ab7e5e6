package services

import (
	"sync"
	"time"

	"github.com/SscSPs/fiscalsim/internal/core/domain"
)

// DefaultHeartbeatInterval is the recommended wall-clock spacing between
// heartbeat events for a subscriber that has seen no progress change (spec
// §4.7: "recommended 30s").
const DefaultHeartbeatInterval = 30 * time.Second

// subscriberBufferDepth is the channel depth used for coalescing delivery:
// a full channel has its pending value replaced rather than blocking the
// publisher (spec §5: "must never back-pressure the producer").
const subscriberBufferDepth = 1

// subscriber is one live observer of a ProgressBroadcaster's stream.
type subscriber struct {
	ch chan domain.Snapshot
}

// ProgressBroadcaster publishes progress snapshots for one in-flight
// simulation to zero or more live subscribers. Its snapshot slot and
// subscriber set are guarded by a single mutex per spec §5 ("a
// single-writer discipline"); there is exactly one broadcaster instance
// per simulation run.
type ProgressBroadcaster struct {
	mu                sync.Mutex
	simulationID      string
	latest            domain.Snapshot
	hasLatest         bool
	subscribers       map[*subscriber]struct{}
	heartbeatInterval time.Duration
	stopHeartbeat     chan struct{}
	stopOnce          sync.Once
}

// NewProgressBroadcaster builds a broadcaster for one simulation and starts
// its heartbeat goroutine at the recommended 30s interval.
func NewProgressBroadcaster(simulationID string) *ProgressBroadcaster {
	return NewProgressBroadcasterWithInterval(simulationID, DefaultHeartbeatInterval)
}

// NewProgressBroadcasterWithInterval builds a broadcaster using a
// caller-supplied heartbeat interval, letting deployments tune the wall-clock
// spacing via configuration instead of the recommended default.
func NewProgressBroadcasterWithInterval(simulationID string, heartbeatInterval time.Duration) *ProgressBroadcaster {
	b := &ProgressBroadcaster{
		simulationID:      simulationID,
		subscribers:       make(map[*subscriber]struct{}),
		heartbeatInterval: heartbeatInterval,
		stopHeartbeat:     make(chan struct{}),
	}
	go b.runHeartbeat()
	return b
}

// Publish stores snapshot as the latest state and fans it out to every
// subscriber whose last-seen (progress, status) differs from it, per spec
// §4.7. It satisfies the ports.ProgressSink interface.
func (b *ProgressBroadcaster) Publish(simulationID string, snapshot domain.Snapshot) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.hasLatest && b.latest.Equal(snapshot) {
		return
	}
	b.latest = snapshot
	b.hasLatest = true

	for sub := range b.subscribers {
		b.deliverLocked(sub, snapshot)
	}

	if snapshot.Terminal() {
		for sub := range b.subscribers {
			close(sub.ch)
			delete(b.subscribers, sub)
		}
	}
}

// deliverLocked pushes snapshot to sub's channel, coalescing: if the
// channel is already full, its pending value is drained and replaced
// rather than blocking the caller. Must be called with b.mu held.
func (b *ProgressBroadcaster) deliverLocked(sub *subscriber, snapshot domain.Snapshot) {
	select {
	case sub.ch <- snapshot:
	default:
		select {
		case <-sub.ch:
		default:
		}
		select {
		case sub.ch <- snapshot:
		default:
		}
	}
}

// Subscribe attaches a new observer. If a snapshot has already been
// published, the new subscriber receives it immediately (spec §4.7: "late
// subscribers receive the latest snapshot immediately on attach"). The
// returned channel is closed once a terminal snapshot has been delivered
// on it; callers should range over it until it closes.
func (b *ProgressBroadcaster) Subscribe() <-chan domain.Snapshot {
	b.mu.Lock()
	defer b.mu.Unlock()

	sub := &subscriber{ch: make(chan domain.Snapshot, subscriberBufferDepth)}
	b.subscribers[sub] = struct{}{}

	if b.hasLatest {
		b.deliverLocked(sub, b.latest)
		if b.latest.Terminal() {
			close(sub.ch)
			delete(b.subscribers, sub)
		}
	}

	return sub.ch
}

// Unsubscribe detaches sub's channel early (e.g. the client disconnected).
// It is safe to call more than once.
func (b *ProgressBroadcaster) Unsubscribe(ch <-chan domain.Snapshot) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for sub := range b.subscribers {
		if sub.ch == ch {
			delete(b.subscribers, sub)
			return
		}
	}
}

// Latest returns the most recently published snapshot and whether one has
// been published at all, for poll-based clients that cannot hold a
// streaming connection.
func (b *ProgressBroadcaster) Latest() (domain.Snapshot, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.latest, b.hasLatest
}

// Stop halts the heartbeat goroutine. Safe to call more than once, and
// safe to call even if Publish already delivered a terminal snapshot.
func (b *ProgressBroadcaster) Stop() {
	b.stopOnce.Do(func() { close(b.stopHeartbeat) })
}

func (b *ProgressBroadcaster) runHeartbeat() {
	ticker := time.NewTicker(b.heartbeatInterval)
	defer ticker.Stop()

	for {
		select {
		case <-b.stopHeartbeat:
			return
		case <-ticker.C:
			b.mu.Lock()
			if b.hasLatest && b.latest.Terminal() {
				b.mu.Unlock()
				return
			}
			for sub := range b.subscribers {
				select {
				case sub.ch <- heartbeatSnapshot(b.simulationID):
				default:
				}
			}
			b.mu.Unlock()
		}
	}
}

// heartbeatSnapshot carries no progress change; the transport layer
// recognizes it by its StatusHeartbeat status and renders it as a wire
// "heartbeat" event rather than "progress".
func heartbeatSnapshot(simulationID string) domain.Snapshot {
	return domain.Snapshot{SimulationID: simulationID, Status: StatusHeartbeat, Timestamp: time.Now().UnixMilli()}
}

// StatusHeartbeat is a sentinel SimulationStatus used only on the wire
// format to distinguish a heartbeat event from a progress update; it is
// never a status a Snapshot carries in SimulationResults or in Publish
// calls made by SimulationRunner itself.
const StatusHeartbeat domain.SimulationStatus = "heartbeat"
