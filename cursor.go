package termcore

// CursorPos is the cursor's position on the visible grid: 0 <= X < W,
// 0 <= Y < H. Origin is the top-left cell.
type CursorPos struct {
	X int
	Y int
}

const (
	cursorPosKeyX = "x"
	cursorPosKeyY = "y"
)

// Snapshot serializes the position as a {x, y} map.
func (p CursorPos) Snapshot() Value {
	return Map(map[string]Value{
		cursorPosKeyX: Int(int64(p.X)),
		cursorPosKeyY: Int(int64(p.Y)),
	})
}

// CursorPosFromSnapshot loads a CursorPos produced by Snapshot.
func CursorPosFromSnapshot(v Value) (CursorPos, error) {
	m, err := v.AsMap("cursor_pos")
	if err != nil {
		return CursorPos{}, err
	}
	xVal, err := field(m, cursorPosKeyX)
	if err != nil {
		return CursorPos{}, err
	}
	x, err := xVal.AsUsize(cursorPosKeyX)
	if err != nil {
		return CursorPos{}, err
	}
	yVal, err := field(m, cursorPosKeyY)
	if err != nil {
		return CursorPos{}, err
	}
	y, err := yVal.AsUsize(cursorPosKeyY)
	if err != nil {
		return CursorPos{}, err
	}
	return CursorPos{X: x, Y: y}, nil
}

const (
	cursorStateKeyPos   = "pos"
	cursorStateKeyBold  = "bold"
	cursorStateKeyColor = "color"
)

// CursorState is the style the next written character will take on,
// plus the cursor's position.
type CursorState struct {
	Pos   CursorPos
	Bold  bool
	Color Color
}

// Snapshot serializes the cursor state.
func (s CursorState) Snapshot() Value {
	return Map(map[string]Value{
		cursorStateKeyPos:   s.Pos.Snapshot(),
		cursorStateKeyBold:  Bool(s.Bold),
		cursorStateKeyColor: String(s.Color.String()),
	})
}

// CursorStateFromSnapshot loads a CursorState produced by Snapshot.
func CursorStateFromSnapshot(v Value) (CursorState, error) {
	m, err := v.AsMap("cursor_state")
	if err != nil {
		return CursorState{}, err
	}
	boldVal, err := field(m, cursorStateKeyBold)
	if err != nil {
		return CursorState{}, err
	}
	bold, err := boldVal.AsBool(cursorStateKeyBold)
	if err != nil {
		return CursorState{}, err
	}
	colorVal, err := field(m, cursorStateKeyColor)
	if err != nil {
		return CursorState{}, err
	}
	colorStr, err := colorVal.AsString(cursorStateKeyColor)
	if err != nil {
		return CursorState{}, err
	}
	posVal, err := field(m, cursorStateKeyPos)
	if err != nil {
		return CursorState{}, err
	}
	pos, err := CursorPosFromSnapshot(posVal)
	if err != nil {
		return CursorState{}, err
	}
	return CursorState{Pos: pos, Bold: bold, Color: ParseColor(colorStr)}, nil
}
