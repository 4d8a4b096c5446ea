package services

import (
	"sync"

	"tripmate-backend/models"
)

type FeedEventType string

const (
	FeedInsert FeedEventType = "insert"
	FeedUpdate FeedEventType = "update"
	FeedDelete FeedEventType = "delete"
)

// FeedEvent is broadcast to every subscribed client after a ledger
// mutation. Delivery is at-least-once: consumers must de-duplicate
// inserts by expense id before applying them.
type FeedEvent struct {
	Type    FeedEventType        `json:"type"`
	Expense models.SharedExpense `json:"expense"`
}

// FeedHub fans ledger change events out to subscribers. Events are
// triggers to re-read the authoritative list, not incremental patches.
type FeedHub struct {
	mu   sync.Mutex
	subs map[chan FeedEvent]struct{}
}

var feedHub *FeedHub
var feedOnce sync.Once

func GetFeedHub() *FeedHub {
	feedOnce.Do(func() {
		feedHub = &FeedHub{subs: make(map[chan FeedEvent]struct{})}
	})
	return feedHub
}

// Subscribe registers a listener. The returned cancel func must be called
// when the client disconnects.
func (h *FeedHub) Subscribe() (<-chan FeedEvent, func()) {
	ch := make(chan FeedEvent, 16)

	h.mu.Lock()
	h.subs[ch] = struct{}{}
	h.mu.Unlock()

	cancel := func() {
		h.mu.Lock()
		if _, ok := h.subs[ch]; ok {
			delete(h.subs, ch)
			close(ch)
		}
		h.mu.Unlock()
	}
	return ch, cancel
}

// Broadcast delivers an event to every subscriber. A subscriber whose
// buffer is full is skipped rather than blocking the mutation path; it
// will catch up on its next full re-read.
func (h *FeedHub) Broadcast(event FeedEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for ch := range h.subs {
		select {
		case ch <- event:
		default:
		}
	}
}
