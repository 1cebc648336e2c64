package store

import (
	"sync"
	"time"
)

// Subscription is a live feed of aggregate snapshots. After every
// committed mutation that could change a subscribed aggregate, a fresh
// snapshot is recomputed on a background goroutine and delivered on
// Updates. Delivery coalesces: an unread stale snapshot is replaced by
// the newer one, so a subscriber always eventually sees the latest
// state without ever blocking a writer.
type Subscription struct {
	owner     *Store
	counterID int64 // 0 subscribes to all counters

	mu     sync.Mutex
	ch     chan []CounterSummary
	closed bool
}

// Updates yields aggregate snapshots. The channel is closed when the
// subscription or its store is closed. For a single-counter
// subscription a snapshot holds one summary, or none once the counter
// has been deleted.
func (sub *Subscription) Updates() <-chan []CounterSummary {
	return sub.ch
}

// Close detaches the subscription. Idempotent; the store's own Close
// may already have dropped us.
func (sub *Subscription) Close() {
	sub.owner.unsubscribe(sub)
	sub.shutdown()
}

// SubscribeAll returns a subscription covering every counter.
func (s *Store) SubscribeAll() *Subscription {
	return s.subscribe(0)
}

// Subscribe returns a subscription covering one counter.
func (s *Store) Subscribe(counterID int64) *Subscription {
	return s.subscribe(counterID)
}

func (s *Store) subscribe(counterID int64) *Subscription {
	sub := &Subscription{
		counterID: counterID,
		ch:        make(chan []CounterSummary, 1),
		owner:     s,
	}
	s.subMu.Lock()
	s.subs[sub] = struct{}{}
	s.subMu.Unlock()

	// Prime the subscriber with the current state.
	s.signal()
	return sub
}

func (s *Store) unsubscribe(sub *Subscription) {
	s.subMu.Lock()
	delete(s.subs, sub)
	s.subMu.Unlock()
}

// signal wakes the subscription worker after a committed mutation.
// Non-blocking: a pending wakeup already covers this change.
func (s *Store) signal() {
	select {
	case s.wake <- struct{}{}:
	default:
	}
}

func (s *Store) watchLoop() {
	for {
		select {
		case <-s.done:
			return
		case <-s.wake:
			s.broadcast()
		}
	}
}

// broadcast recomputes and delivers a snapshot for every subscriber.
// Recomputation failures leave that stream where it was; the next
// mutation triggers another attempt.
func (s *Store) broadcast() {
	s.subMu.Lock()
	subs := make([]*Subscription, 0, len(s.subs))
	for sub := range s.subs {
		subs = append(subs, sub)
	}
	s.subMu.Unlock()

	now := time.Now()
	for _, sub := range subs {
		var snap []CounterSummary
		if sub.counterID == 0 {
			all, err := s.ListSummaries(now)
			if err != nil {
				continue
			}
			snap = all
		} else {
			one, err := s.GetSummary(sub.counterID, now)
			if err != nil {
				continue
			}
			if one != nil {
				snap = []CounterSummary{*one}
			}
		}
		sub.deliver(snap)
	}
}

func (sub *Subscription) deliver(snap []CounterSummary) {
	sub.mu.Lock()
	defer sub.mu.Unlock()
	if sub.closed {
		return
	}
	for {
		select {
		case sub.ch <- snap:
			return
		default:
			// Replace the unread stale snapshot.
			select {
			case <-sub.ch:
			default:
			}
		}
	}
}

func (sub *Subscription) shutdown() {
	sub.mu.Lock()
	defer sub.mu.Unlock()
	if sub.closed {
		return
	}
	sub.closed = true
	close(sub.ch)
}
