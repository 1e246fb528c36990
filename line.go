package termcore

import "bytes"

// Line is a handle onto one row's storage inside a VisibleBuffer: a
// fixed-width byte slice, a used-length pointer and a pending-newline
// flag pointer. Bytes beyond *Len are unspecified.
//
// Newline is the pending-newline flag: it records that the writer
// explicitly terminated this row with '\n'; when false and *Len < width,
// the row still breaks on serialization (implicit termination). When
// *Len == width and *Newline is false, the next write wraps onto the
// following row with no newline inserted.
type Line struct {
	Buf     []byte
	Len     *int
	Newline *bool
}

// lineInsertResult reports how much of the source was consumed and
// where the write cursor ends up.
type lineInsertResult struct {
	consumed int
	newXPos  int
}

// clear resets the row to empty, unterminated.
func (l Line) clear() {
	*l.Len = 0
	*l.Newline = false
}

// copyFrom overwrites l's storage with other's, used by InsertLines to
// shift row contents down without reallocating.
func (l Line) copyFrom(other Line) {
	copy(l.Buf, other.Buf)
	*l.Len = *other.Len
	*l.Newline = *other.Newline
}

// insertSpaces shifts existing bytes [pos, len) right by
// min(n, width-pos), filling the gap with spaces. Bytes shifted past the
// row's width are discarded.
func (l Line) insertSpaces(pos, n int) {
	width := len(l.Buf)
	if pos >= width {
		return
	}
	n = min(n, width-pos)
	destStart := pos + n
	destEnd := min(n+*l.Len, width)
	if destStart > destEnd {
		return
	}
	copyLen := destEnd - destStart
	copy(l.Buf[destStart:destStart+copyLen], l.Buf[pos:pos+copyLen])
	for i := pos; i < pos+n; i++ {
		l.Buf[i] = ' '
	}
	*l.Len = destEnd
}

// insertData writes at most min(width-pos, len(src)) bytes starting at
// pos, stopping at the first '\n' within that window or in the byte
// directly after it (so a '\n' right after a full row ends that row
// instead of producing an empty one). If a newline is found, the
// pending-newline flag is set, the newline is consumed (counted toward
// consumed) and newXPos is returned as width (signalling the caller to
// wrap onto the next row). If len < pos, the gap [len, pos) is
// backfilled with spaces before the copy; len becomes max(len, pos+n).
func (l Line) insertData(src []byte, pos int) lineInsertResult {
	width := len(l.Buf)
	if pos >= width {
		return lineInsertResult{consumed: 0, newXPos: pos}
	}

	copyLen := min(width-pos, len(src))

	newlineSearchLen := min(copyLen+1, len(src))
	newlinePos := bytes.IndexByte(src[:newlineSearchLen], '\n')

	if newlinePos >= 0 {
		copyLen = min(copyLen, newlinePos)
		*l.Newline = true
	}

	if *l.Len < pos {
		for i := *l.Len; i < pos; i++ {
			l.Buf[i] = ' '
		}
	}

	copy(l.Buf[pos:pos+copyLen], src[:copyLen])
	*l.Len = max(*l.Len, pos+copyLen)

	if newlinePos >= 0 {
		return lineInsertResult{consumed: newlinePos + 1, newXPos: width}
	}
	return lineInsertResult{consumed: copyLen, newXPos: pos + copyLen}
}

// serialize returns the row's used content (no trailing newline).
func (l Line) serialize() []byte {
	return l.Buf[:*l.Len]
}
