package transform

import "fmt"

type Notification int

const (
	Changed Notification = iota + 1
	Destroyed
)

func (n Notification) String() string {
	switch n {
	case Changed:
		return "CHANGED"
	case Destroyed:
		return "DESTROYED"
	}
	return fmt.Sprintf("Notification(%d)", int(n))
}

// ListenerID identifies a subscription. Zero is never returned by Subscribe.
type ListenerID uint64

// Listener receives notifications broadcast by the transform that owns the notifier.
type Listener func(typ Notification, owner *Transform)

type listener struct {
	id ListenerID
	fn Listener
}

// Notifier is a one-to-many broadcast channel owned by a Transform.
// Listeners run synchronously on the broadcasting goroutine,
// a panicking listener aborts the broadcast and propagates to the caller.
type Notifier struct {
	last      ListenerID
	removed   uint64
	listeners []listener
}

func (n *Notifier) Subscribe(fn Listener) ListenerID {
	if fn == nil {
		panic("transform: nil listener")
	}
	n.last++
	n.listeners = append(n.listeners, listener{id: n.last, fn: fn})
	return n.last
}

func (n *Notifier) Unsubscribe(id ListenerID) bool {
	for i := range n.listeners {
		if n.listeners[i].id == id {
			// copy, not in place: a running Broadcast may hold the old slice
			ls := make([]listener, 0, len(n.listeners)-1)
			ls = append(ls, n.listeners[:i]...)
			n.listeners = append(ls, n.listeners[i+1:]...)
			n.removed++
			return true
		}
	}
	return false
}

func (n *Notifier) Len() int { return len(n.listeners) }

func (n *Notifier) active(id ListenerID) bool {
	for i := range n.listeners {
		if n.listeners[i].id == id {
			return true
		}
	}
	return false
}

// Broadcast calls every listener subscribed before the call, in subscription order.
// Listeners unsubscribed by an earlier listener of the same broadcast are skipped.
func (n *Notifier) Broadcast(typ Notification, owner *Transform) {
	ls, removed := n.listeners, n.removed
	for _, l := range ls {
		if n.removed != removed && !n.active(l.id) {
			continue
		}
		l.fn(typ, owner)
	}
}

func (n *Notifier) clear() {
	n.listeners = nil
	n.removed++
}
