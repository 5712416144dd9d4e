package engine

// Event is a notification produced by the engine. The set is closed.
type Event interface {
	isEvent()
}

// RemoveReason says why a cell lost its item.
type RemoveReason uint8

const (
	RemovedExploded RemoveReason = iota
	RemovedCollected
	RemovedCleared
)

func (r RemoveReason) String() string {
	switch r {
	case RemovedExploded:
		return "exploded"
	case RemovedCollected:
		return "collected"
	case RemovedCleared:
		return "cleared"
	default:
		return "unknown"
	}
}

// Phase is one step of a resolution pass.
type Phase uint8

const (
	PhaseDetect Phase = iota
	PhaseConvertBonus
	PhaseExplode
	PhaseGravity
	PhaseRefill
	PhaseStable
)

func (p Phase) String() string {
	switch p {
	case PhaseDetect:
		return "detect"
	case PhaseConvertBonus:
		return "convert-bonus"
	case PhaseExplode:
		return "explode"
	case PhaseGravity:
		return "gravity"
	case PhaseRefill:
		return "refill"
	case PhaseStable:
		return "stable"
	default:
		return "unknown"
	}
}

// ItemRemoved is emitted after a board cell lost its item.
type ItemRemoved struct {
	Board  string
	Cell   *Cell
	Item   *Item
	Reason RemoveReason
}

// BackpackFull is emitted when an insertion is rejected.
type BackpackFull struct {
	Item *Item
}

// BackpackCleared is emitted when three items of one type leave the backpack.
type BackpackCleared struct {
	Type  NormalType
	Slots []int // slot indexes before compaction
}

// MatchFound is emitted for every resolved match.
type MatchFound struct {
	Board     string
	Cells     []*Cell
	Direction Direction
}

// PhaseCompleted is emitted after each resolution phase.
type PhaseCompleted struct {
	Board string
	Phase Phase
	Pass  int
}

func (ItemRemoved) isEvent()     {}
func (BackpackFull) isEvent()    {}
func (BackpackCleared) isEvent() {}
func (MatchFound) isEvent()      {}
func (PhaseCompleted) isEvent()  {}

// EventSink receives engine events synchronously.
type EventSink interface {
	Emit(e Event)
}

// SinkFunc adapts a function to EventSink.
type SinkFunc func(e Event)

func (f SinkFunc) Emit(e Event) { f(e) }

// Discard drops every event.
var Discard EventSink = SinkFunc(func(Event) {})

// EventLog records events in order.
type EventLog struct {
	Events []Event
}

func (l *EventLog) Emit(e Event) {
	l.Events = append(l.Events, e)
}

// Reset forgets recorded events.
func (l *EventLog) Reset() {
	l.Events = l.Events[:0]
}

// Fanout forwards each event to every sink in order.
type Fanout []EventSink

func (f Fanout) Emit(e Event) {
	for _, s := range f {
		s.Emit(e)
	}
}
