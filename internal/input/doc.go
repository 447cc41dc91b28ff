// Package input aggregates keyboard and pointer events between frames.
//
// The frame loop feeds events from its event source into an Aggregator and
// hands the application a read-only Snapshot during Update:
//
//	agg := input.NewAggregator()
//	agg.Press(key.KeySpace)
//	agg.SetMousePosition(10, 4)
//
//	app.Update(agg) // app sees IsPressed / MousePosition only
//
//	if policy == input.PolicyEdge {
//	    agg.ClearPresses()
//	}
//
// # Press semantics
//
// The pressed set has membership semantics: pressing a key twice before it
// is released leaves one entry. Whether a held key stays pressed across
// frames depends on the PressPolicy:
//
//   - PolicyLevel: a key is pressed from its press event until its release
//     event, however many frames that spans.
//   - PolicyEdge: the pressed set is emptied after every Update, so a key
//     reads as pressed only in the frame its press event arrived.
//   - PolicyAuto: Level when the event source reports key releases, Edge
//     otherwise. Terminals never report releases; key repeat from the
//     terminal re-delivers presses while a key is held.
//
// The pointer position is absolute state and survives ClearPresses.
package input
