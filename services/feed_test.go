package services

import (
	"testing"
	"time"

	"tripmate-backend/models"
)

func TestFeedHubBroadcastReachesAllSubscribers(t *testing.T) {
	hub := &FeedHub{subs: make(map[chan FeedEvent]struct{})}

	chA, cancelA := hub.Subscribe()
	chB, cancelB := hub.Subscribe()
	defer cancelA()
	defer cancelB()

	hub.Broadcast(FeedEvent{Type: FeedInsert, Expense: models.SharedExpense{Description: "chai"}})

	for name, ch := range map[string]<-chan FeedEvent{"A": chA, "B": chB} {
		select {
		case event := <-ch:
			if event.Type != FeedInsert || event.Expense.Description != "chai" {
				t.Errorf("subscriber %s got %+v", name, event)
			}
		case <-time.After(time.Second):
			t.Fatalf("subscriber %s got no event", name)
		}
	}
}

func TestFeedHubCancelStopsDelivery(t *testing.T) {
	hub := &FeedHub{subs: make(map[chan FeedEvent]struct{})}

	ch, cancel := hub.Subscribe()
	cancel()
	cancel() // safe to call twice

	hub.Broadcast(FeedEvent{Type: FeedDelete})

	if _, open := <-ch; open {
		t.Error("channel should be closed after cancel")
	}
}

func TestFeedHubSlowSubscriberDoesNotBlock(t *testing.T) {
	hub := &FeedHub{subs: make(map[chan FeedEvent]struct{})}

	_, cancel := hub.Subscribe()
	defer cancel()

	done := make(chan struct{})
	go func() {
		// More events than the subscriber buffer holds; Broadcast must
		// drop instead of blocking.
		for i := 0; i < 100; i++ {
			hub.Broadcast(FeedEvent{Type: FeedUpdate})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Broadcast blocked on a slow subscriber")
	}
}
