// Package event defines the events an event source delivers to the frame
// loop and the Source interface the loop drains once per frame.
//
// A Source never blocks the loop: Drain returns whatever has queued up since
// the previous call, possibly nothing. Sources backed by a blocking OS call
// (a terminal's PollEvent, for example) pump that call on their own
// goroutine and hand events over through a buffer.
//
//	src := event.NewQueue(64)
//	src.Push(event.KeyPress(key.KeySpace))
//
//	var buf []event.Event
//	buf = src.Drain(buf[:0])
//
// Event kinds:
//
//	KeyPress / KeyRelease   key went down / up
//	PointerMove             pointer moved; X, Y are cell coordinates
//	Resize                  host surface changed size (informational)
//	CloseRequest            user asked to close the window
package event
