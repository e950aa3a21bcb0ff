package events

import (
	"sync"
	"time"
)

type Operation string

const (
	OpChanged Operation = "record_changed"
	OpDeleted Operation = "record_deleted"
)

type RecordType string

const (
	RecordPathology     RecordType = "pathology"
	RecordPathologyNote RecordType = "pathology_note"
	RecordProcedure     RecordType = "procedure"
	RecordTechnique     RecordType = "technique"
	RecordPatient       RecordType = "patient"
)

// Event describes one completed store mutation. Events are published after
// the write has committed, never before.
type Event struct {
	Operation  Operation   `json:"operation"`
	Record     RecordType  `json:"record"`
	RecordID   string      `json:"record_id"`
	ParentID   string      `json:"parent_id,omitempty"`
	UserID     string      `json:"user_id"`
	OccurredAt time.Time   `json:"occurred_at"`
	Data       interface{} `json:"data,omitempty"`
}

// Bus fans completed-mutation events out to subscribers. Publishing never
// blocks: a subscriber whose channel is full misses the event, same policy as
// a full websocket send buffer.
type Bus struct {
	mu     sync.RWMutex
	subs   map[int]chan Event
	nextID int
	buffer int
}

func NewBus(buffer int) *Bus {
	if buffer < 1 {
		buffer = 1
	}
	return &Bus{
		subs:   make(map[int]chan Event),
		buffer: buffer,
	}
}

// Subscribe returns a receive channel and an unsubscribe func. Unsubscribing
// closes the channel; it is safe to call more than once.
func (b *Bus) Subscribe() (<-chan Event, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextID
	b.nextID++

	ch := make(chan Event, b.buffer)
	b.subs[id] = ch

	var once sync.Once
	unsubscribe := func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			if sub, ok := b.subs[id]; ok {
				delete(b.subs, id)
				close(sub)
			}
		})
	}

	return ch, unsubscribe
}

func (b *Bus) Publish(e Event) {
	if e.OccurredAt.IsZero() {
		e.OccurredAt = time.Now()
	}

	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, ch := range b.subs {
		select {
		case ch <- e:
		default:
		}
	}
}

// Close drops every subscription and closes its channel. Publish after Close
// is a no-op.
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	for id, ch := range b.subs {
		delete(b.subs, id)
		close(ch)
	}
}

func (b *Bus) SubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}
