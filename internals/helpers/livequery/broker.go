// Package livequery is a small in-process fan-out used to push new
// payment/receipt rows to dashboard subscribers as they appear.
// Subscribe on view mount, call the returned cancel on teardown.
// No ordering guarantee beyond arrival order per subscriber.
package livequery

import "sync"

type Event struct {
	Kind      string      `json:"kind"` // "payment" | "receipt"
	StudentID string      `json:"student_id"`
	Payload   interface{} `json:"payload"`
}

type Broker struct {
	mu     sync.RWMutex
	subs   map[int]chan Event
	nextID int
	closed bool
}

func NewBroker() *Broker {
	return &Broker{subs: make(map[int]chan Event)}
}

// Subscribe registers a listener. The cancel func is idempotent and
// closes the channel.
func (b *Broker) Subscribe(buffer int) (<-chan Event, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextID
	b.nextID++
	ch := make(chan Event, buffer)
	if b.closed {
		close(ch)
		return ch, func() {}
	}
	b.subs[id] = ch

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			if c, ok := b.subs[id]; ok {
				delete(b.subs, id)
				close(c)
			}
		})
	}
	return ch, cancel
}

// Publish delivers e to every subscriber. Slow subscribers with a full
// buffer are skipped rather than blocking the writer.
func (b *Broker) Publish(e Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, ch := range b.subs {
		select {
		case ch <- e:
		default:
		}
	}
}

// Close terminates all subscriptions.
func (b *Broker) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for id, ch := range b.subs {
		delete(b.subs, id)
		close(ch)
	}
}
