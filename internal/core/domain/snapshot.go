package domain

// SimulationStatus is the lifecycle state carried on every Snapshot.
type SimulationStatus string

const (
	StatusDraft     SimulationStatus = "draft"
	StatusRunning   SimulationStatus = "running"
	StatusCompleted SimulationStatus = "completed"
	StatusFailed    SimulationStatus = "failed"
)

// IndicativeTaxes are the progress-time tax figures described in spec §4.7.
// They are indicative only (for UX), never authoritative, and are not part
// of SimulationResults — see spec §9's open question on the URSSAF figure.
type IndicativeTaxes struct {
	TVA          Money `json:"tva"`
	URSSAF       Money `json:"urssaf"`
	NetCashFlow  Money `json:"netCashFlow"`
}

// Snapshot is one element of the progress stream.
type Snapshot struct {
	SimulationID    string           `json:"simulationId"`
	Status          SimulationStatus `json:"status"`
	CurrentMonth    int              `json:"currentMonth"`
	Progress        int              `json:"progress"` // 0-100
	PartialBalances map[Account]Money `json:"partialBalances,omitempty"`
	Taxes           *IndicativeTaxes `json:"taxes,omitempty"`
	Timestamp       int64            `json:"timestamp"` // unix millis
	Message         string           `json:"message,omitempty"` // set on failed snapshots
}

// Equal reports whether two snapshots have the same (progress, status) —
// the pair subscribers dedupe on per spec §4.7.
func (s Snapshot) Equal(other Snapshot) bool {
	return s.Progress == other.Progress && s.Status == other.Status
}

// Terminal reports whether this snapshot ends the stream.
func (s Snapshot) Terminal() bool {
	return s.Status == StatusCompleted || s.Status == StatusFailed
}
