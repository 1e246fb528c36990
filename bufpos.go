package termcore

import "math"

const maxInt = math.MaxInt

// BufPos is a stable address for a character: (lineID, xPos). Unlike a
// visible-grid (row, col) pair, a BufPos never changes when a line
// scrolls out of the visible area into scrollback: lineID is assigned
// monotonically as lines are created, and never reused or renumbered.
//
// BufPosMax is the sentinel meaning "end of all content"; it sorts after
// every real position.
type BufPos struct {
	LineID int
	XPos   int
}

// BufPosMax denotes "end of all content".
var BufPosMax = BufPos{LineID: maxInt, XPos: maxInt}

// Less reports whether p sorts strictly before q under the lexicographic
// (lineID, then xPos) total order.
func (p BufPos) Less(q BufPos) bool {
	if p.LineID != q.LineID {
		return p.LineID < q.LineID
	}
	return p.XPos < q.XPos
}

// LessEq reports whether p sorts at or before q.
func (p BufPos) LessEq(q BufPos) bool {
	return !q.Less(p)
}

const (
	bufPosKeyLineID = "line_id"
	bufPosKeyXPos   = "x_pos"
)

func usizeToValueWithMaxSentinel(v int) Value {
	if v == maxInt {
		return Int(-1)
	}
	return Int(int64(v))
}

// Snapshot serializes the position as a {line_id, x_pos} map, encoding
// the MAX sentinel as -1.
func (p BufPos) Snapshot() Value {
	return Map(map[string]Value{
		bufPosKeyLineID: usizeToValueWithMaxSentinel(p.LineID),
		bufPosKeyXPos:   usizeToValueWithMaxSentinel(p.XPos),
	})
}

// BufPosFromSnapshot loads a BufPos produced by Snapshot.
func BufPosFromSnapshot(v Value) (BufPos, error) {
	m, err := v.AsMap("bufpos")
	if err != nil {
		return BufPos{}, err
	}
	lineIDVal, err := field(m, bufPosKeyLineID)
	if err != nil {
		return BufPos{}, err
	}
	lineID, err := lineIDVal.AsUsize(bufPosKeyLineID)
	if err != nil {
		return BufPos{}, err
	}
	xPosVal, err := field(m, bufPosKeyXPos)
	if err != nil {
		return BufPos{}, err
	}
	xPos, err := xPosVal.AsUsize(bufPosKeyXPos)
	if err != nil {
		return BufPos{}, err
	}
	return BufPos{LineID: lineID, XPos: xPos}, nil
}
