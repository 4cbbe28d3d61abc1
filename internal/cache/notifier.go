package cache

import "sync"

// Notifier is the update-event channel between the cache layer and its
// consumers. Events carry no payload; subscribers re-read whatever cached
// data they care about. A Notifier is constructed and injected rather than
// living as a package global so tests get isolated instances.
type Notifier struct {
	mu   sync.Mutex
	next int
	subs map[int]func()
}

// NewNotifier creates a notifier with no subscribers.
func NewNotifier() *Notifier {
	return &Notifier{
		subs: make(map[int]func()),
	}
}

// Subscribe registers fn to run on every future publish and returns its
// unsubscribe function. Unsubscribing twice is safe, as is unsubscribing
// after publishes have fired.
func (n *Notifier) Subscribe(fn func()) func() {
	n.mu.Lock()
	defer n.mu.Unlock()

	id := n.next
	n.next++
	n.subs[id] = fn

	return func() {
		n.mu.Lock()
		defer n.mu.Unlock()
		delete(n.subs, id)
	}
}

// Publish invokes every current subscriber. No ordering guarantee, no
// replay for subscribers that join later.
func (n *Notifier) Publish() {
	n.mu.Lock()
	handlers := make([]func(), 0, len(n.subs))
	for _, fn := range n.subs {
		handlers = append(handlers, fn)
	}
	n.mu.Unlock()

	for _, fn := range handlers {
		fn()
	}
}
