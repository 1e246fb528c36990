package termcore

// VisibleBuffer is a fixed W x H grid of bytes rotatable without copying:
// logical row y maps to physical row (firstLineIdx+y) mod H, so
// scrolling a line into history (PushLine) costs O(1) instead of
// shifting every row down.
//
// Storage is three parallel slices; rows are fixed-width, so a row
// handle is a subslice of cells plus pointers into the length and
// newline tables.
type VisibleBuffer struct {
	cells    []byte
	lens     []int
	newlines []bool

	firstLineIdx int
	width        int
	height       int
}

// NewVisibleBuffer allocates an empty width x height grid.
func NewVisibleBuffer(width, height int) *VisibleBuffer {
	vb := &VisibleBuffer{
		cells:    make([]byte, width*height),
		lens:     make([]int, height),
		newlines: make([]bool, height),
		width:    width,
		height:   height,
	}
	return vb
}

func (vb *VisibleBuffer) Width() int  { return vb.width }
func (vb *VisibleBuffer) Height() int { return vb.height }

func (vb *VisibleBuffer) resolveIdx(y int) int {
	return (vb.firstLineIdx + y) % vb.height
}

// GetLine returns a handle onto logical row y, mapped through
// firstLineIdx.
func (vb *VisibleBuffer) GetLine(y int) Line {
	idx := vb.resolveIdx(y)
	return Line{
		Buf:     vb.cells[idx*vb.width : idx*vb.width+vb.width],
		Len:     &vb.lens[idx],
		Newline: &vb.newlines[idx],
	}
}

// GetAllLines returns every row in logical order, y=0 first.
func (vb *VisibleBuffer) GetAllLines() []Line {
	lines := make([]Line, vb.height)
	for y := 0; y < vb.height; y++ {
		lines[y] = vb.GetLine(y)
	}
	return lines
}

// PushLine advances firstLineIdx by one row (mod height), clears the new
// bottom row and returns it. The row formerly at logical 0 becomes
// unreachable via GetLine; callers must already have preserved its
// contents (into scrollback) before calling PushLine.
func (vb *VisibleBuffer) PushLine() Line {
	vb.firstLineIdx = (vb.firstLineIdx + 1) % vb.height
	line := vb.GetLine(vb.height - 1)
	line.clear()
	return line
}

// VisibleSerialized is the result of serializing the grid to bytes: the
// concatenated row contents with separators, and a per-logical-row start
// offset table into data.
type VisibleSerialized struct {
	Data         []byte
	LineMappings []int
}

// Serialize concatenates every row's content with separator newlines.
// The separator rule after row y is: insert '\n' if the row had its
// pending-newline flag set, or its length is less than width, or the next row
// is empty. Trailing empty rows are elided except that the last
// non-empty row is always followed by a '\n'. An empty buffer
// serializes to empty bytes.
func (vb *VisibleBuffer) Serialize() VisibleSerialized {
	var data []byte
	lines := vb.GetAllLines()
	lineMappings := make([]int, 0, vb.height)

	lastLineWithContent := 0
	for i := len(lines) - 1; i >= 0; i-- {
		if *lines[i].Len > 0 {
			lastLineWithContent = i
			break
		}
	}

	lineStart := 0
	for y := 0; y < lastLineWithContent; y++ {
		line := lines[y]
		nextLineIsEmpty := y+1 < len(lines) && *lines[y+1].Len == 0

		data = append(data, line.serialize()...)
		if *line.Newline || *line.Len < vb.width || nextLineIsEmpty {
			data = append(data, '\n')
		}

		lineMappings = append(lineMappings, lineStart)
		lineStart = len(data)
	}

	data = append(data, lines[lastLineWithContent].serialize()...)
	lineMappings = append(lineMappings, lineStart)

	for y := lastLineWithContent + 1; y < vb.height; y++ {
		lineMappings = append(lineMappings, len(data))
	}

	if len(data) != 0 {
		data = append(data, '\n')
	}

	return VisibleSerialized{Data: data, LineMappings: lineMappings}
}

const (
	visibleBufKeyCells  = "cells"
	visibleBufKeyLens   = "lens"
	visibleBufKeyNLs    = "newlines"
	visibleBufKeyWidth  = "width"
	visibleBufKeyHeight = "height"
	visibleBufKeyFirst  = "first_line_idx"
)

// Snapshot serializes the full grid, including unused cells, so
// load(snapshot(x)) == x exactly.
func (vb *VisibleBuffer) Snapshot() Value {
	lens := make([]Value, len(vb.lens))
	for i, l := range vb.lens {
		lens[i] = Int(int64(l))
	}
	nls := make([]Value, len(vb.newlines))
	for i, n := range vb.newlines {
		nls[i] = Bool(n)
	}
	return Map(map[string]Value{
		visibleBufKeyCells:  Bytes(vb.cells),
		visibleBufKeyLens:   Array(lens),
		visibleBufKeyNLs:    Array(nls),
		visibleBufKeyWidth:  Int(int64(vb.width)),
		visibleBufKeyHeight: Int(int64(vb.height)),
		visibleBufKeyFirst:  Int(int64(vb.firstLineIdx)),
	})
}

// VisibleBufferFromSnapshot loads a VisibleBuffer produced by Snapshot.
func VisibleBufferFromSnapshot(v Value) (*VisibleBuffer, error) {
	m, err := v.AsMap("visible_buf")
	if err != nil {
		return nil, err
	}

	widthVal, err := field(m, visibleBufKeyWidth)
	if err != nil {
		return nil, err
	}
	width, err := widthVal.AsUsize(visibleBufKeyWidth)
	if err != nil {
		return nil, err
	}

	heightVal, err := field(m, visibleBufKeyHeight)
	if err != nil {
		return nil, err
	}
	height, err := heightVal.AsUsize(visibleBufKeyHeight)
	if err != nil {
		return nil, err
	}

	firstVal, err := field(m, visibleBufKeyFirst)
	if err != nil {
		return nil, err
	}
	first, err := firstVal.AsUsize(visibleBufKeyFirst)
	if err != nil {
		return nil, err
	}

	cellsVal, err := field(m, visibleBufKeyCells)
	if err != nil {
		return nil, err
	}
	cells, err := cellsVal.AsBytes(visibleBufKeyCells)
	if err != nil {
		return nil, err
	}

	lensVal, err := field(m, visibleBufKeyLens)
	if err != nil {
		return nil, err
	}
	lensArr, err := lensVal.AsArray(visibleBufKeyLens)
	if err != nil {
		return nil, err
	}
	lens := make([]int, len(lensArr))
	for i, e := range lensArr {
		n, err := e.AsUsize(visibleBufKeyLens)
		if err != nil {
			return nil, err
		}
		lens[i] = n
	}

	nlsVal, err := field(m, visibleBufKeyNLs)
	if err != nil {
		return nil, err
	}
	nlsArr, err := nlsVal.AsArray(visibleBufKeyNLs)
	if err != nil {
		return nil, err
	}
	newlines := make([]bool, len(nlsArr))
	for i, e := range nlsArr {
		b, err := e.AsBool(visibleBufKeyNLs)
		if err != nil {
			return nil, err
		}
		newlines[i] = b
	}

	return &VisibleBuffer{
		cells:        cells,
		lens:         lens,
		newlines:     newlines,
		width:        width,
		height:       height,
		firstLineIdx: first,
	}, nil
}
