package http

import (
	"net/http"

	"github.com/fwojciec/campus/stream"
)

// SendBlocks runs the blocks event of a streaming answer against w and
// returns the error recorded by the event writer.
func SendBlocks(w http.ResponseWriter, snap stream.Snapshot) error {
	s := &sseSink{events: newEventWriter(w)}
	s.blocks(snap)
	return s.events.err
}
