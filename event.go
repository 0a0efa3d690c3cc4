package campus

// Event is a sealed interface representing a streaming event.
// Events are purely semantic. Transport/protocol errors come from
// Next()'s error return, not from events.
// The unexported marker method prevents external implementations.
type Event interface {
	event()
}

// EventTextDelta carries one raw chunk of assistant text. Chunk boundaries
// carry no meaning: a delta may split a word, a markdown delimiter or a
// multi-byte character.
type EventTextDelta struct {
	Delta string
}

func (EventTextDelta) event() {}

// Interface compliance checks.
var (
	_ Event = EventTextDelta{}
)
