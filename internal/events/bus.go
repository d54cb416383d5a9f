package events

import (
	"sync"
	"time"
)

// Topic names a collection whose contents changed.
type Topic string

const (
	NotificationsUpdated Topic = "notificationsUpdated"
	TasksUpdated         Topic = "tasksUpdated"
	FilesUpdated         Topic = "filesUpdated"
	ProfileUpdated       Topic = "profileUpdated"
	ActivityUpdated      Topic = "activityUpdated"
)

// Event is a refresh signal. It carries no state; listeners re-read the
// collection when they receive one.
type Event struct {
	Topic     Topic     `json:"event"`
	Timestamp time.Time `json:"timestamp"`
}

// Publisher is what stores need to announce a change.
type Publisher interface {
	Publish(topic Topic)
}

type subscription struct {
	topics map[Topic]struct{}
}

func (s subscription) wants(t Topic) bool {
	if len(s.topics) == 0 {
		return true
	}
	_, ok := s.topics[t]
	return ok
}

// Bus fans events out to in-process subscribers without ever blocking the
// publisher.
type Bus struct {
	mu   sync.RWMutex
	subs map[chan Event]subscription
	now  func() time.Time
}

func NewBus() *Bus {
	return &Bus{
		subs: make(map[chan Event]subscription),
		now:  time.Now,
	}
}

// Publish sends an event for topic to every interested subscriber.
func (b *Bus) Publish(topic Topic) {
	e := Event{Topic: topic, Timestamp: b.now().UTC()}

	b.mu.RLock()
	defer b.mu.RUnlock()
	for ch, sub := range b.subs {
		if !sub.wants(topic) {
			continue
		}
		select {
		case ch <- e:
		default:
			// subscriber is behind; a later signal will refresh it
		}
	}
}

// Subscribe returns a buffered channel receiving events for the given
// topics, or for all topics when none are given.
func (b *Bus) Subscribe(topics ...Topic) chan Event {
	sub := subscription{topics: make(map[Topic]struct{}, len(topics))}
	for _, t := range topics {
		sub.topics[t] = struct{}{}
	}

	ch := make(chan Event, 16)
	b.mu.Lock()
	b.subs[ch] = sub
	b.mu.Unlock()
	return ch
}

// Unsubscribe removes a subscriber and closes its channel.
func (b *Bus) Unsubscribe(ch chan Event) {
	b.mu.Lock()
	if _, ok := b.subs[ch]; ok {
		delete(b.subs, ch)
		close(ch)
	}
	b.mu.Unlock()
}

// Subscribers returns the number of live subscriptions.
func (b *Bus) Subscribers() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}
