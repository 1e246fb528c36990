// Package replayio implements termcore.Io against a sidecar recording
// produced by termcore.Recorder, letting a fresh Emulator be re-driven
// through a previously captured session byte-for-byte.
package replayio

import "termcore"

// ReplayIo feeds back the Data-event payloads of a recorded session,
// one Read at a time, in original order. Recorded SetWinSize events are
// surfaced through the OnWinSize callback at the point in the byte
// stream where they were originally recorded; drivers that don't set it
// can still walk WinSizeEvents separately.
type ReplayIo struct {
	events []termcore.RecordedEvent
	pos    int

	// pending holds bytes from a Data event not yet fully delivered,
	// for callers whose buffer is smaller than one recorded chunk.
	pending []byte

	// OnWinSize, if non-nil, is invoked when Read crosses a recorded
	// RecordWinSize entry, before the next data chunk is delivered.
	// Typically wired to Emulator.SetWinSize.
	OnWinSize func(cols, rows int)
}

// New returns a ReplayIo that will emit every RecordData payload in
// events, in order, on successive Read calls.
func New(events []termcore.RecordedEvent) *ReplayIo {
	return &ReplayIo{events: events}
}

// Read copies from the next pending chunk, advancing through the
// recorded event list as chunks are exhausted. RecordWinSize entries
// encountered along the way fire OnWinSize (when set) in stream order.
func (r *ReplayIo) Read(buf []byte) termcore.ReadResult {
	for len(r.pending) == 0 {
		if r.pos >= len(r.events) {
			return termcore.ReadResult{Status: termcore.ReadEmpty}
		}
		ev := r.events[r.pos]
		r.pos++
		switch ev.Kind {
		case termcore.RecordData:
			r.pending = ev.Data
		case termcore.RecordWinSize:
			if r.OnWinSize != nil {
				r.OnWinSize(ev.Cols, ev.Rows)
			}
		}
	}
	n := copy(buf, r.pending)
	r.pending = r.pending[n:]
	return termcore.ReadResult{N: n, Status: termcore.ReadSuccess}
}

// Write discards input: replay is one-directional, there is no live
// child to receive keystrokes.
func (r *ReplayIo) Write(data []byte) (int, error) {
	return len(data), nil
}

// SetWinSize is a no-op; replay drivers apply recorded WinSize events
// directly against the Emulator instead of through this Io handle.
func (r *ReplayIo) SetWinSize(cols, rows int) error {
	return nil
}

// Done reports whether every recorded event has been consumed.
func (r *ReplayIo) Done() bool {
	return r.pos >= len(r.events) && len(r.pending) == 0
}

// WinSizeEvents extracts every RecordWinSize entry from events, in
// order, for a replay driver to apply against an Emulator at the right
// point in the byte stream (by counting RecordData bytes consumed
// between them).
func WinSizeEvents(events []termcore.RecordedEvent) []termcore.RecordedEvent {
	var out []termcore.RecordedEvent
	for _, ev := range events {
		if ev.Kind == termcore.RecordWinSize {
			out = append(out, ev)
		}
	}
	return out
}

var _ termcore.Io = (*ReplayIo)(nil)
