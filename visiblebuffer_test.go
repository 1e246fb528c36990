package termcore

import "testing"

func TestVisibleBufferGetLineRotation(t *testing.T) {
	vb := NewVisibleBuffer(5, 3)
	vb.GetLine(0).insertData([]byte("aaa"), 0)
	vb.GetLine(1).insertData([]byte("bbb"), 0)
	vb.GetLine(2).insertData([]byte("ccc"), 0)

	vb.PushLine()

	if string(vb.GetLine(0).serialize()) != "bbb" {
		t.Fatalf("expected row 0 to be old row 1, got %q", vb.GetLine(0).serialize())
	}
	if string(vb.GetLine(1).serialize()) != "ccc" {
		t.Fatalf("expected row 1 to be old row 2, got %q", vb.GetLine(1).serialize())
	}
	if *vb.GetLine(2).Len != 0 {
		t.Fatalf("expected freshly pushed row to be empty, got len=%d", *vb.GetLine(2).Len)
	}
}

func TestVisibleBufferSerializeEmpty(t *testing.T) {
	vb := NewVisibleBuffer(5, 3)
	s := vb.Serialize()
	if len(s.Data) != 0 {
		t.Fatalf("expected empty buffer to serialize to no bytes, got %q", s.Data)
	}
	if len(s.LineMappings) != 3 {
		t.Fatalf("expected one mapping per row, got %d", len(s.LineMappings))
	}
}

func TestVisibleBufferSerializeShortLinesGetNewline(t *testing.T) {
	vb := NewVisibleBuffer(5, 3)
	vb.GetLine(0).insertData([]byte("ab"), 0)
	s := vb.Serialize()
	if string(s.Data) != "ab\n" {
		t.Fatalf("got %q", s.Data)
	}
}

func TestVisibleBufferSerializeLastNonEmptyRowAlwaysNewlineTerminated(t *testing.T) {
	vb := NewVisibleBuffer(5, 1)
	vb.GetLine(0).insertData([]byte("abcde"), 0)
	s := vb.Serialize()
	if string(s.Data) != "abcde\n" {
		t.Fatalf("got %q", s.Data)
	}
}

func TestVisibleBufferSnapshotRoundTrip(t *testing.T) {
	vb := NewVisibleBuffer(4, 2)
	vb.GetLine(0).insertData([]byte("hi"), 0)
	vb.PushLine()

	snap := vb.Snapshot()
	loaded, err := VisibleBufferFromSnapshot(snap)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if loaded.Width() != vb.Width() || loaded.Height() != vb.Height() {
		t.Fatalf("dimensions did not round-trip")
	}
	if string(loaded.GetLine(0).serialize()) != string(vb.GetLine(0).serialize()) {
		t.Fatalf("row contents did not round-trip")
	}
}
