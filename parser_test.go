package termcore

import (
	"bytes"
	"testing"
)

func eventsEqual(a, b []Event) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Kind != b[i].Kind || a[i].X != b[i].X || a[i].Y != b[i].Y ||
			a[i].DX != b[i].DX || a[i].DY != b[i].DY || a[i].N != b[i].N ||
			!bytes.Equal(a[i].Data, b[i].Data) {
			return false
		}
	}
	return true
}

func TestParserDataRun(t *testing.T) {
	p := NewEscapeParser()
	events := p.Push([]byte("hello"))
	if len(events) != 1 || events[0].Kind != EventData || string(events[0].Data) != "hello" {
		t.Fatalf("got %+v", events)
	}
}

func TestParserControlChars(t *testing.T) {
	p := NewEscapeParser()
	events := p.Push([]byte("a\nb\rc\bd"))
	wantKinds := []EventKind{EventData, EventNewline, EventData, EventCarriageReturn, EventData, EventBackspace, EventData}
	if len(events) != len(wantKinds) {
		t.Fatalf("got %d events, want %d: %+v", len(events), len(wantKinds), events)
	}
	for i, k := range wantKinds {
		if events[i].Kind != k {
			t.Fatalf("event %d: got kind %v, want %v", i, events[i].Kind, k)
		}
	}
}

func TestParserSetCursorPosDefaults(t *testing.T) {
	p := NewEscapeParser()
	events := p.Push([]byte("\x1b[H"))
	if len(events) != 1 || events[0].Kind != EventSetCursorPos || events[0].X != 1 || events[0].Y != 1 {
		t.Fatalf("got %+v", events)
	}
}

func TestParserSetCursorPosExplicit(t *testing.T) {
	p := NewEscapeParser()
	events := p.Push([]byte("\x1b[12;34H"))
	if len(events) != 1 || events[0].Kind != EventSetCursorPos || events[0].Y != 12 || events[0].X != 34 {
		t.Fatalf("got %+v", events)
	}
}

func TestParserSetCursorPosMissingSecondParam(t *testing.T) {
	p := NewEscapeParser()
	events := p.Push([]byte("\x1b[5;H"))
	if len(events) != 1 || events[0].Y != 5 || events[0].X != 1 {
		t.Fatalf("got %+v", events)
	}
}

func TestParserCursorRel(t *testing.T) {
	p := NewEscapeParser()
	events := p.Push([]byte("\x1b[3A\x1b[B\x1b[2C\x1b[D"))
	want := []Event{
		{Kind: EventSetCursorPosRel, DY: -3},
		{Kind: EventSetCursorPosRel, DY: 1},
		{Kind: EventSetCursorPosRel, DX: 2},
		{Kind: EventSetCursorPosRel, DX: -1},
	}
	if !eventsEqual(events, want) {
		t.Fatalf("got %+v, want %+v", events, want)
	}
}

func TestParserClearVariants(t *testing.T) {
	p := NewEscapeParser()
	events := p.Push([]byte("\x1b[J\x1b[0J\x1b[2J\x1b[K\x1b[0K"))
	want := []Event{
		{Kind: EventClearForwards},
		{Kind: EventClearForwards},
		{Kind: EventClearAll},
		{Kind: EventClearLineForwards},
		{Kind: EventClearLineForwards},
	}
	if !eventsEqual(events, want) {
		t.Fatalf("got %+v, want %+v", events, want)
	}
}

func TestParserInsertDeleteSgr(t *testing.T) {
	p := NewEscapeParser()
	events := p.Push([]byte("\x1b[3L\x1b[4@\x1b[5P\x1b[1;31m"))
	want := []Event{
		{Kind: EventInsertLines, N: 3},
		{Kind: EventInsertSpaces, N: 4},
		{Kind: EventDelete, N: 5},
		{Kind: EventSgr, N: 1},
		{Kind: EventSgr, N: 31},
	}
	if !eventsEqual(events, want) {
		t.Fatalf("got %+v, want %+v", events, want)
	}
}

func TestParserModes(t *testing.T) {
	p := NewEscapeParser()
	events := p.Push([]byte("\x1b[?1h\x1b[?1l"))
	want := []Event{
		{Kind: EventSetMode, N: 1},
		{Kind: EventResetMode, N: 1},
	}
	if !eventsEqual(events, want) {
		t.Fatalf("got %+v, want %+v", events, want)
	}
}

func TestParserInvalidEscape(t *testing.T) {
	p := NewEscapeParser()
	events := p.Push([]byte("\x1bZ"))
	if len(events) != 1 || events[0].Kind != EventInvalid {
		t.Fatalf("got %+v", events)
	}
}

func TestParserByteSplitInvariance(t *testing.T) {
	stream := []byte("hello\x1b[12;34Hworld\r\n\x1b[2Jdone\x1b[?1h\x1b[3;31m")

	p1 := NewEscapeParser()
	whole := p1.Push(stream)

	p2 := NewEscapeParser()
	var piecewise []Event
	for _, b := range stream {
		piecewise = append(piecewise, p2.Push([]byte{b})...)
	}

	if !eventsEqual(mergeDataEvents(whole), mergeDataEvents(piecewise)) {
		t.Fatalf("byte-split invariance violated:\nwhole=%+v\npiecewise=%+v", whole, piecewise)
	}
}

func TestParserSnapshotRoundTripMidSequence(t *testing.T) {
	p1 := NewEscapeParser()
	if events := p1.Push([]byte("\x1b[12;3")); len(events) != 0 {
		t.Fatalf("expected no events mid-sequence, got %+v", events)
	}

	loaded, err := EscapeParserFromSnapshot(p1.Snapshot())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// The restored parser must pick up exactly where the original left
	// off: the remaining bytes complete the CSI sequence.
	events := loaded.Push([]byte("4H"))
	want := []Event{{Kind: EventSetCursorPos, Y: 12, X: 34}}
	if !eventsEqual(events, want) {
		t.Fatalf("got %+v, want %+v", events, want)
	}
}

func TestParserSnapshotRoundTripPrivateMode(t *testing.T) {
	p1 := NewEscapeParser()
	p1.Push([]byte("\x1b[?"))

	loaded, err := EscapeParserFromSnapshot(p1.Snapshot())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	events := loaded.Push([]byte("1h"))
	want := []Event{{Kind: EventSetMode, N: 1}}
	if !eventsEqual(events, want) {
		t.Fatalf("got %+v, want %+v", events, want)
	}
}

// mergeDataEvents coalesces consecutive Data events, since pushing a
// stream one byte at a time naturally fragments a Data run into many
// single-byte events where pushing it whole produces one. The invariant
// is on the resulting bytes, not on event boundaries within a single
// Ground run.
func mergeDataEvents(events []Event) []Event {
	var out []Event
	for _, e := range events {
		if e.Kind == EventData && len(out) > 0 && out[len(out)-1].Kind == EventData {
			out[len(out)-1].Data = append(out[len(out)-1].Data, e.Data...)
			continue
		}
		out = append(out, e)
	}
	return out
}
