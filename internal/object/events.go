package object

// EventType identifies an observable event.
type EventType int

const (
	// Fired on a shape.
	EventAdded EventType = iota + 1
	EventRemoved
	EventModified
	EventMoved

	// Fired on a collection for its members.
	EventObjectAdded
	EventObjectRemoved
	EventObjectModified
	EventObjectMoved
)

func (t EventType) String() string {
	switch t {
	case EventAdded:
		return "added"
	case EventRemoved:
		return "removed"
	case EventModified:
		return "modified"
	case EventMoved:
		return "moved"
	case EventObjectAdded:
		return "object:added"
	case EventObjectRemoved:
		return "object:removed"
	case EventObjectModified:
		return "object:modified"
	case EventObjectMoved:
		return "object:moved"
	default:
		return "unknown"
	}
}

// Event is delivered to listeners. Index is the target's position in the
// firing collection, or -1 when not applicable.
type Event struct {
	Type   EventType
	Target Shape
	Index  int
}

type Listener func(Event)

// ListenerID is returned by On and used to unregister with Off.
type ListenerID uint64

type registration struct {
	id ListenerID
	fn Listener
}

// Observable dispatches events synchronously in registration order. The
// zero value is ready to use.
type Observable struct {
	seq       ListenerID
	listeners map[EventType][]registration
}

func (o *Observable) On(t EventType, fn Listener) ListenerID {
	if o.listeners == nil {
		o.listeners = make(map[EventType][]registration)
	}
	o.seq++
	o.listeners[t] = append(o.listeners[t], registration{id: o.seq, fn: fn})
	return o.seq
}

// Off removes a listener and reports whether it was registered.
func (o *Observable) Off(t EventType, id ListenerID) bool {
	regs := o.listeners[t]
	for i, r := range regs {
		if r.id == id {
			o.listeners[t] = append(regs[:i:i], regs[i+1:]...)
			return true
		}
	}
	return false
}

// OffAll removes every listener for the given types, or all listeners when
// none are given.
func (o *Observable) OffAll(types ...EventType) {
	if len(types) == 0 {
		o.listeners = nil
		return
	}
	for _, t := range types {
		delete(o.listeners, t)
	}
}

// Fire calls each listener registered for e.Type. Listeners added or
// removed during dispatch take effect on the next Fire.
func (o *Observable) Fire(e Event) {
	regs := o.listeners[e.Type]
	if len(regs) == 0 {
		return
	}
	snapshot := make([]registration, len(regs))
	copy(snapshot, regs)
	for _, r := range snapshot {
		r.fn(e)
	}
}
