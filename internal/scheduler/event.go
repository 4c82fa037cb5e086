package scheduler

// Event describes a decision this system made about the host's queue. Events
// are published to observers (the websocket stream); they carry no state the
// host does not already persist.
type Event struct {
	Type EventType `json:"type"`
	// ID and Name identify the affected item for Held/Admitted events.
	ID        int    `json:"nzbId,omitempty"`
	Name      string `json:"name,omitempty"`
	SizeBytes int64  `json:"sizeBytes,omitempty"`
	// Tick summarizes a completed scheduling pass.
	Tick *TickSummary `json:"tick,omitempty"`
}

type EventType string

const (
	// EventHeld: the intake gate paused a newly added download.
	EventHeld EventType = "Held"
	// EventAdmitted: the scheduler resumed a held download.
	EventAdmitted EventType = "Admitted"
	// EventTick: a scheduling pass completed.
	EventTick EventType = "Tick"
)

// TickSummary is the accounting of one scheduling pass.
type TickSummary struct {
	ReservedBytes int64 `json:"reservedBytes"`
	BudgetBytes   int64 `json:"budgetBytes"`
	Admitted      int   `json:"admitted"`
	Held          int   `json:"held"`
}

// Reporter publishes scheduler events.
type Reporter interface {
	Report(Event)
}
