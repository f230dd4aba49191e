package registry

import "sync"

// ChangeNotifier is a small in-process pub-sub used to signal that one
// category's list has changed, so that list-changed notifications can be
// relayed to clients. The zero value is ready to use.
type ChangeNotifier struct {
	mu          sync.RWMutex
	subscribers []chan struct{}
	closed      bool
}

// Notify signals every subscriber. Sends never block: a subscriber that has
// not drained its previous tick simply coalesces this one.
func (cn *ChangeNotifier) Notify() {
	cn.mu.RLock()
	defer cn.mu.RUnlock()

	if cn.closed {
		return
	}
	for _, ch := range cn.subscribers {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

// Subscriber returns a channel that receives a signal whenever Notify is
// called. The channel is buffered with capacity 1 and is closed by Close.
func (cn *ChangeNotifier) Subscriber() <-chan struct{} {
	cn.mu.Lock()
	defer cn.mu.Unlock()

	if cn.closed {
		ch := make(chan struct{})
		close(ch)
		return ch
	}
	ch := make(chan struct{}, 1)
	cn.subscribers = append(cn.subscribers, ch)
	return ch
}

// Close closes all subscriber channels. Further Notify calls are no-ops and
// later subscribers receive an already-closed channel.
func (cn *ChangeNotifier) Close() {
	cn.mu.Lock()
	if cn.closed {
		cn.mu.Unlock()
		return
	}
	cn.closed = true
	subs := cn.subscribers
	cn.subscribers = nil
	cn.mu.Unlock()

	for _, ch := range subs {
		close(ch)
	}
}
