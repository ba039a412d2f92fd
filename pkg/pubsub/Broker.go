package pubsub

import (
	"sync"
)

type MessageKind string

const (
	KindContent  MessageKind = "content"
	KindTheme    MessageKind = "theme"
	KindLayout   MessageKind = "layout"
	KindAlbums   MessageKind = "albums"
	KindTimeline MessageKind = "timeline"
	KindUploads  MessageKind = "uploads"
	KindEditor   MessageKind = "editor"
)

/*
Message is the unit broadcast between open windows of the application.
Fields carries only the changed values; receivers merge them into local
state non-destructively.
*/
type Message struct {
	Kind   MessageKind       `json:"kind"`
	Fields map[string]string `json:"fields,omitempty"`
}

/*
Broker fans messages out to subscribers. Publishing never blocks: a
subscriber that cannot keep up misses messages rather than stalling the
editor, since every change carries the full values for its fields.
*/
type Broker struct {
	mu          sync.Mutex
	subscribers map[chan Message]struct{}
}

func NewBroker() *Broker {
	return &Broker{
		subscribers: map[chan Message]struct{}{},
	}
}

// Subscribe returns a message channel and a cancel function.
func (b *Broker) Subscribe() (<-chan Message, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	ch := make(chan Message, 16)
	b.subscribers[ch] = struct{}{}

	cancel := func() {
		b.mu.Lock()
		defer b.mu.Unlock()

		if _, ok := b.subscribers[ch]; ok {
			delete(b.subscribers, ch)
			close(ch)
		}
	}

	return ch, cancel
}

func (b *Broker) Publish(message Message) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for ch := range b.subscribers {
		select {
		case ch <- message:
		default:
		}
	}
}
