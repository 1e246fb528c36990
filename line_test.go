package termcore

import "testing"

func newTestLine(width int) Line {
	length := 0
	newline := false
	return Line{Buf: make([]byte, width), Len: &length, Newline: &newline}
}

func TestLineInsertDataBasic(t *testing.T) {
	l := newTestLine(5)
	res := l.insertData([]byte("abc"), 0)
	if res.consumed != 3 || res.newXPos != 3 {
		t.Fatalf("got consumed=%d newXPos=%d", res.consumed, res.newXPos)
	}
	if string(l.serialize()) != "abc" {
		t.Fatalf("got %q", l.serialize())
	}
	if *l.Newline {
		t.Fatalf("expected no pending newline")
	}
}

func TestLineInsertDataStopsAtNewline(t *testing.T) {
	l := newTestLine(10)
	res := l.insertData([]byte("ab\ncd"), 0)
	if res.consumed != 3 {
		t.Fatalf("expected consumed=3 (through the newline), got %d", res.consumed)
	}
	if res.newXPos != 10 {
		t.Fatalf("expected newXPos=width(10) to signal wrap, got %d", res.newXPos)
	}
	if !*l.Newline {
		t.Fatalf("expected pending newline set")
	}
	if string(l.serialize()) != "ab" {
		t.Fatalf("got %q", l.serialize())
	}
}

func TestLineInsertDataFillsGapWithSpaces(t *testing.T) {
	l := newTestLine(10)
	res := l.insertData([]byte("hi"), 4)
	if res.consumed != 2 || res.newXPos != 6 {
		t.Fatalf("got consumed=%d newXPos=%d", res.consumed, res.newXPos)
	}
	if string(l.serialize()) != "    hi" {
		t.Fatalf("got %q", l.serialize())
	}
}

func TestLineInsertDataClampsAtWidth(t *testing.T) {
	l := newTestLine(5)
	res := l.insertData([]byte("abcdefgh"), 2)
	if res.consumed != 3 {
		t.Fatalf("expected consumed=3 (width-pos), got %d", res.consumed)
	}
	if res.newXPos != 5 {
		t.Fatalf("expected newXPos=width, got %d", res.newXPos)
	}
	if string(l.serialize()) != "  abc" {
		t.Fatalf("got %q", l.serialize())
	}
}

func TestLineInsertDataPosAtWidthIsNoop(t *testing.T) {
	l := newTestLine(5)
	res := l.insertData([]byte("x"), 5)
	if res.consumed != 0 || res.newXPos != 5 {
		t.Fatalf("got consumed=%d newXPos=%d", res.consumed, res.newXPos)
	}
}

func TestLineInsertSpaces(t *testing.T) {
	l := newTestLine(10)
	l.insertData([]byte("abcdef"), 0)
	l.insertSpaces(2, 3)
	if string(l.serialize()) != "ab   cdef" {
		t.Fatalf("got %q", l.serialize())
	}
}

func TestLineInsertSpacesClampsAtWidth(t *testing.T) {
	l := newTestLine(5)
	l.insertData([]byte("abcde"), 0)
	l.insertSpaces(1, 10)
	if string(l.serialize()) != "a    " {
		t.Fatalf("got %q", l.serialize())
	}
}

func TestLineClear(t *testing.T) {
	l := newTestLine(5)
	l.insertData([]byte("abc"), 0)
	*l.Newline = true
	l.clear()
	if *l.Len != 0 || *l.Newline {
		t.Fatalf("expected cleared line, got len=%d newline=%v", *l.Len, *l.Newline)
	}
}

func TestLineCopyFrom(t *testing.T) {
	src := newTestLine(5)
	src.insertData([]byte("xy"), 0)
	*src.Newline = true

	dst := newTestLine(5)
	dst.copyFrom(src)
	if string(dst.serialize()) != "xy" || !*dst.Newline {
		t.Fatalf("copyFrom did not replicate source line")
	}
}
