package termcore

// TerminalBuffer composes a VisibleBuffer with a scrollback byte log and
// exposes cursor-addressed edits plus stable BufPos coordinates. It is
// the sole owner of line-id allocation: the visible area's logical row k
// currently has id len(scrollbackLinePositions)+k.
type TerminalBuffer struct {
	visible *VisibleBuffer

	// scrollbackLinePositions[lineID] = byte offset of that line's start
	// in scrollback. Only ever appended to.
	scrollbackLinePositions []int
	scrollback              []byte
}

// NewTerminalBuffer creates an empty width x height buffer with no
// scrollback.
func NewTerminalBuffer(width, height int) *TerminalBuffer {
	return &TerminalBuffer{visible: NewVisibleBuffer(width, height)}
}

// InsertResult reports the half-open BufPos range written and where the
// cursor ended up.
type InsertResult struct {
	WrittenRange BufPosRange
	NewCursorPos CursorPos
}

// BufPosRange is a half-open [Start, End) range of stable coordinates.
type BufPosRange struct {
	Start BufPos
	End   BufPos
}

func (tb *TerminalBuffer) scrollbackCount() int {
	return len(tb.scrollbackLinePositions)
}

func (tb *TerminalBuffer) cursorToBufPos(cursor CursorPos) BufPos {
	return BufPos{LineID: tb.scrollbackCount() + cursor.Y, XPos: cursor.X}
}

// pushLineToScrollback evicts logical row 0 into scrollback (copying its
// bytes and, if its pending-newline flag was set, a literal '\n'), records the
// new line's start offset, and rotates it out of the visible buffer.
func (tb *TerminalBuffer) pushLineToScrollback() Line {
	lineToEvict := tb.visible.GetLine(0)
	tb.scrollbackLinePositions = append(tb.scrollbackLinePositions, len(tb.scrollback))
	tb.scrollback = append(tb.scrollback, lineToEvict.serialize()...)
	if *lineToEvict.Newline {
		tb.scrollback = append(tb.scrollback, '\n')
	}
	return tb.visible.PushLine()
}

// InsertData writes data starting at cursor, wrapping onto subsequent
// rows and evicting into scrollback as needed. cursor.Y must be < H.
func (tb *TerminalBuffer) InsertData(cursor CursorPos, data []byte) InsertResult {
	x, y := cursor.X, cursor.Y
	maxYIdx := tb.visible.Height() - 1

	writeStart := tb.cursorToBufPos(cursor)

	for len(data) != 0 {
		line := tb.visible.GetLine(y)
		resp := line.insertData(data, x)

		x = resp.newXPos
		if x >= tb.visible.Width() {
			x = 0
			y++
		}

		if y > maxYIdx {
			tb.pushLineToScrollback()
			y = maxYIdx
		}

		data = data[resp.consumed:]
	}

	newCursorPos := CursorPos{X: x, Y: y}
	writeEnd := tb.cursorToBufPos(newCursorPos)

	return InsertResult{
		WrittenRange: BufPosRange{Start: writeStart, End: writeEnd},
		NewCursorPos: newCursorPos,
	}
}

// InsertSpaces shifts bytes right within the cursor's row. It does not
// wrap and is a no-op if cursor.Y is out of range.
func (tb *TerminalBuffer) InsertSpaces(cursor CursorPos, n int) CursorPos {
	if cursor.Y >= tb.visible.Height() {
		return cursor
	}
	line := tb.visible.GetLine(cursor.Y)
	line.insertSpaces(cursor.X, n)
	return cursor
}

// InsertLines shifts logical rows [cursor.Y, H) down by n; the last n
// rows are lost off the bottom and the opened window is cleared. n <= 0
// is a no-op.
func (tb *TerminalBuffer) InsertLines(cursor CursorPos, n int) {
	if n <= 0 {
		return
	}
	lines := tb.visible.GetAllLines()
	for sourceIdx := len(lines) - 1; sourceIdx >= cursor.Y; sourceIdx-- {
		source := lines[sourceIdx]
		destIdx := sourceIdx + n
		if destIdx < len(lines) {
			lines[destIdx].copyFrom(source)
		}
		source.clear()
	}
}

// ClearForwards truncates the cursor's row at cursor.X and clears every
// subsequent row.
func (tb *TerminalBuffer) ClearForwards(cursor CursorPos) {
	tb.ClearLineForwards(cursor)
	for y := cursor.Y + 1; y < tb.visible.Height(); y++ {
		tb.visible.GetLine(y).clear()
	}
}

// ClearLineForwards truncates the cursor's row at cursor.X and clears
// its pending-newline flag.
func (tb *TerminalBuffer) ClearLineForwards(cursor CursorPos) {
	if cursor.Y >= tb.visible.Height() {
		return
	}
	line := tb.visible.GetLine(cursor.Y)
	*line.Len = min(cursor.X, *line.Len)
	*line.Newline = false
}

// ClearAll clears every visible row and drops scrollback bytes. It does
// not reset scrollbackLinePositions; see DESIGN.md for the rationale.
func (tb *TerminalBuffer) ClearAll() {
	for y := 0; y < tb.visible.Height(); y++ {
		tb.visible.GetLine(y).clear()
	}
	tb.scrollback = tb.scrollback[:0]
}

// DeleteForwards removes up to n bytes starting at cursor.X within the
// cursor's row, shifting the remainder left. No effect if cursor.X is
// past the row's used length. Returns the number of bytes actually
// removed, clamped to what the row held.
func (tb *TerminalBuffer) DeleteForwards(cursor CursorPos, n int) int {
	if cursor.Y >= tb.visible.Height() {
		return 0
	}
	line := tb.visible.GetLine(cursor.Y)
	if cursor.X > *line.Len {
		return 0
	}
	n = min(n, *line.Len-cursor.X)
	newEnd := *line.Len - n
	copy(line.Buf[cursor.X:newEnd], line.Buf[cursor.X+n:*line.Len])
	*line.Len = newEnd
	return n
}

// Data is the consumer-facing snapshot of buffer contents: the
// scrollback bytes, the freshly serialized visible bytes, and the
// per-line start-offset tables for both.
type Data struct {
	Scrollback             []byte
	Visible                []byte
	ScrollbackLineMappings []int
	VisibleLineMappings    []int
}

// Data serializes the visible buffer and returns it alongside the
// scrollback log and both line-start tables.
func (tb *TerminalBuffer) Data() Data {
	visible := tb.visible.Serialize()
	scrollbackLineMappings := make([]int, len(tb.scrollbackLinePositions))
	copy(scrollbackLineMappings, tb.scrollbackLinePositions)

	return Data{
		Scrollback:             append([]byte(nil), tb.scrollback...),
		Visible:                visible.Data,
		ScrollbackLineMappings: scrollbackLineMappings,
		VisibleLineMappings:    visible.LineMappings,
	}
}

// WinSize returns the current (width, height).
func (tb *TerminalBuffer) WinSize() (int, int) {
	return tb.visible.Width(), tb.visible.Height()
}

// GetVisibleRange returns the BufPos range currently addressable in the
// visible area (the scrollback region precedes it).
func (tb *TerminalBuffer) GetVisibleRange() BufPosRange {
	firstVisibleLineID := tb.scrollbackCount()
	return BufPosRange{
		Start: BufPos{LineID: firstVisibleLineID, XPos: 0},
		End:   BufPos{LineID: firstVisibleLineID + tb.visible.Height(), XPos: tb.visible.Width()},
	}
}

// SetWinSizeResult reports whether the resize changed anything and where
// the cursor ended up.
type SetWinSizeResult struct {
	Changed      bool
	NewCursorPos CursorPos
}

// SetWinSize reallocates the visible buffer at the new dimensions and
// replays every old row's content through InsertData, naturally
// re-triggering eviction into scrollback. The row that held the cursor
// is split at cursor.X so the returned cursor tracks the same logical
// character.
func (tb *TerminalBuffer) SetWinSize(width, height int, cursor CursorPos) SetWinSizeResult {
	if tb.visible.Width() == width && tb.visible.Height() == height {
		return SetWinSizeResult{Changed: false, NewCursorPos: cursor}
	}

	oldVisible := tb.visible
	tb.visible = NewVisibleBuffer(width, height)
	oldLines := oldVisible.GetAllLines()

	pos := CursorPos{X: 0, Y: 0}
	newCursorPos := pos

	for i, line := range oldLines {
		serialized := line.serialize()
		if i == cursor.Y {
			splitAt := min(cursor.X, len(serialized))
			newCursorPos = tb.InsertData(pos, serialized[:splitAt]).NewCursorPos
			pos = tb.InsertData(newCursorPos, serialized[splitAt:]).NewCursorPos
		} else {
			pos = tb.InsertData(pos, serialized).NewCursorPos
		}

		if *line.Newline {
			pos = tb.InsertData(pos, []byte{'\n'}).NewCursorPos
		}
	}

	return SetWinSizeResult{Changed: true, NewCursorPos: newCursorPos}
}

const (
	termBufKeyVisible    = "visible_buf"
	termBufKeyScrollback = "scrollback"
	termBufKeyLinePos    = "scrollback_line_pos"
)

// Snapshot serializes the buffer as a map with keys visible_buf,
// scrollback, scrollback_line_pos.
func (tb *TerminalBuffer) Snapshot() Value {
	positions := make([]Value, len(tb.scrollbackLinePositions))
	for i, p := range tb.scrollbackLinePositions {
		positions[i] = Int(int64(p))
	}
	return Map(map[string]Value{
		termBufKeyVisible:    tb.visible.Snapshot(),
		termBufKeyScrollback: Bytes(tb.scrollback),
		termBufKeyLinePos:    Array(positions),
	})
}

// TerminalBufferFromSnapshot loads a TerminalBuffer produced by
// Snapshot.
func TerminalBufferFromSnapshot(v Value) (*TerminalBuffer, error) {
	m, err := v.AsMap("terminal_buffer")
	if err != nil {
		return nil, err
	}

	visibleVal, err := field(m, termBufKeyVisible)
	if err != nil {
		return nil, err
	}
	visible, err := VisibleBufferFromSnapshot(visibleVal)
	if err != nil {
		return nil, err
	}

	scrollbackVal, err := field(m, termBufKeyScrollback)
	if err != nil {
		return nil, err
	}
	scrollback, err := scrollbackVal.AsBytes(termBufKeyScrollback)
	if err != nil {
		return nil, err
	}

	linePosVal, err := field(m, termBufKeyLinePos)
	if err != nil {
		return nil, err
	}
	linePosArr, err := linePosVal.AsArray(termBufKeyLinePos)
	if err != nil {
		return nil, err
	}
	linePos := make([]int, len(linePosArr))
	for i, e := range linePosArr {
		n, err := e.AsUsize(termBufKeyLinePos)
		if err != nil {
			return nil, err
		}
		linePos[i] = n
	}

	return &TerminalBuffer{
		visible:                 visible,
		scrollback:              scrollback,
		scrollbackLinePositions: linePos,
	}, nil
}
