package data

import (
	"encoding/json"
	"errors"
	"io"
)

// Item is a point-in-time view of a single download in the host's queue.
// The host owns the item; we only ever hold a snapshot taken at the start
// of a scheduling pass.
type Item struct {
	ID         int        `json:"id"`
	Name       string     `json:"name,omitempty"`
	Status     ItemStatus `json:"status"`
	HostStatus string     `json:"hostStatus,omitempty"`
	Priority   int        `json:"priority"`
	QueuePos   int        `json:"queuePosition"`
	// SizeBytes is the total size of the download as reported by the host.
	// The host may correct it between snapshots.
	SizeBytes int64 `json:"sizeBytes"`
	// LeftBytes is the size still to be transferred. For an item that has
	// never started it equals SizeBytes.
	LeftBytes int64 `json:"leftBytes"`
}

type Items []Item
type ItemStatus string

const (
	// StatusPaused items consume no capacity and wait for admission.
	StatusPaused ItemStatus = "Paused"
	// StatusQueued items are admitted and waiting for the host to start them.
	StatusQueued ItemStatus = "Queued"
	// StatusActive items are transferring or post-processing.
	StatusActive ItemStatus = "Active"
)

// NZBGet priority scale. Anything in between is accepted; these are the
// values the host's UI offers.
const (
	PriorityVeryLow  = -100
	PriorityLow      = -50
	PriorityNormal   = 0
	PriorityHigh     = 50
	PriorityVeryHigh = 100
	PriorityForce    = 900
)

var (
	ErrNotFound = errors.New("download item not found")
	ErrRejected = errors.New("host rejected queue command")
)

// Held reports whether the item is waiting for admission.
func (s ItemStatus) Held() bool { return s == StatusPaused }

func (i Items) ToJSON(w io.Writer) error { return json.NewEncoder(w).Encode(i) }

// Get returns the item with the given ID, or ErrNotFound.
func (i Items) Get(id int) (Item, error) {
	for _, it := range i {
		if it.ID == id {
			return it, nil
		}
	}
	return Item{}, ErrNotFound
}

// IDs returns the item IDs in slice order.
func (i Items) IDs() []int {
	ids := make([]int, 0, len(i))
	for _, it := range i {
		ids = append(ids, it.ID)
	}
	return ids
}
