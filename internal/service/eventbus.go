package service

import (
	"sync"
	"sync/atomic"

	"github.com/bnema/vthumb/internal/domain"
)

const (
	EventProgress   = "progress"
	EventCheckpoint = "checkpoint"
	EventDone       = "done"
)

type EventPublisher interface {
	Publish(runID string, event Event)
}

type Event struct {
	Type     string // "progress", "checkpoint", "done"
	Progress domain.Progress
	Message  string
}

// EventBus fans run events out to subscribers keyed by run id.
type EventBus struct {
	subscribers map[string][]chan Event
	dropped     atomic.Int64
	mu          sync.RWMutex
}

func NewEventBus() *EventBus {
	return &EventBus{
		subscribers: make(map[string][]chan Event),
	}
}

func (eb *EventBus) Subscribe(runID string) chan Event {
	eb.mu.Lock()
	defer eb.mu.Unlock()

	ch := make(chan Event, 64)
	eb.subscribers[runID] = append(eb.subscribers[runID], ch)
	return ch
}

// Publish never blocks the run: a subscriber whose buffer is full misses
// the event.
func (eb *EventBus) Publish(runID string, event Event) {
	eb.mu.RLock()
	defer eb.mu.RUnlock()

	for _, ch := range eb.subscribers[runID] {
		select {
		case ch <- event:
		default:
			eb.dropped.Add(1)
		}
	}
}

// Close closes every subscription of runID. Subscribers ranging over
// their channel return once buffered events are read.
func (eb *EventBus) Close(runID string) {
	eb.mu.Lock()
	defer eb.mu.Unlock()

	for _, ch := range eb.subscribers[runID] {
		close(ch)
	}
	delete(eb.subscribers, runID)
}

// Dropped counts events lost to full subscriber buffers.
func (eb *EventBus) Dropped() int64 {
	return eb.dropped.Load()
}
