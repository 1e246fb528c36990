package termcore

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// fakeIo feeds a fixed byte sequence to the emulator's read loop in a
// single chunk, then reports empty, and records every Write call.
type fakeIo struct {
	toRead    []byte
	delivered bool
	written   [][]byte
	winSizes  [][2]int
}

func (f *fakeIo) Read(buf []byte) ReadResult {
	if f.delivered {
		return ReadResult{Status: ReadEmpty}
	}
	f.delivered = true
	n := copy(buf, f.toRead)
	return ReadResult{N: n, Status: ReadSuccess}
}

func (f *fakeIo) Write(data []byte) (int, error) {
	f.written = append(f.written, append([]byte(nil), data...))
	return len(data), nil
}

func (f *fakeIo) SetWinSize(cols, rows int) error {
	f.winSizes = append(f.winSizes, [2]int{cols, rows})
	return nil
}

func TestEmulatorReadWritesData(t *testing.T) {
	io := &fakeIo{toRead: []byte("hello")}
	emu := NewEmulator(10, 3, io, nil)

	emu.Read()

	require.Equal(t, "hello\n", string(emu.Data().Visible))
	require.Equal(t, CursorPos{X: 5, Y: 0}, emu.CursorPos())
}

func TestEmulatorCarriageReturnAndNewline(t *testing.T) {
	io := &fakeIo{toRead: []byte("ab\r\ncd")}
	emu := NewEmulator(10, 3, io, nil)

	emu.Read()

	require.Equal(t, CursorPos{X: 2, Y: 1}, emu.CursorPos())
}

func TestEmulatorBackspaceClampsAtZero(t *testing.T) {
	io := &fakeIo{toRead: []byte("\b\b\bx")}
	emu := NewEmulator(10, 3, io, nil)

	emu.Read()

	require.Equal(t, CursorPos{X: 1, Y: 0}, emu.CursorPos())
}

func TestEmulatorSetCursorPosAbsolute(t *testing.T) {
	io := &fakeIo{toRead: []byte("\x1b[3;5H")}
	emu := NewEmulator(10, 5, io, nil)

	emu.Read()

	require.Equal(t, CursorPos{X: 4, Y: 2}, emu.CursorPos())
}

func TestEmulatorSgrTracksStyle(t *testing.T) {
	io := &fakeIo{toRead: []byte("\x1b[1;31mred bold")}
	emu := NewEmulator(20, 3, io, nil)

	emu.Read()

	_, visible := emu.FormatData()
	require.NotEmpty(t, visible)
	require.True(t, visible[0].Bold)
	require.Equal(t, ColorRed, visible[0].Color)
}

func TestEmulatorDecckmAffectsWriteEncoding(t *testing.T) {
	io := &fakeIo{toRead: []byte("\x1b[?1h")}
	emu := NewEmulator(10, 3, io, nil)

	emu.Read()

	require.NoError(t, emu.Write(KeyArrowRight()))
	require.Equal(t, []byte{0x1B, 'O', 'C'}, io.written[len(io.written)-1])
}

func TestEmulatorClearAllResetsStyleCoverage(t *testing.T) {
	io := &fakeIo{toRead: []byte("\x1b[2J")}
	emu := NewEmulator(10, 3, io, nil)

	emu.Read()

	scrollback, visible := emu.FormatData()
	require.Empty(t, scrollback)
	require.NotEmpty(t, visible)
}

func TestEmulatorSetWinSizeForwardsToIo(t *testing.T) {
	io := &fakeIo{}
	emu := NewEmulator(10, 5, io, nil)

	require.NoError(t, emu.SetWinSize(20, 10))
	require.Equal(t, [][2]int{{20, 10}}, io.winSizes)
}

func TestEmulatorFormatDataSplitsTagAtScrollbackBoundary(t *testing.T) {
	// One unbroken bold write wraps across three rows of a 4x2 terminal,
	// evicting two of them; its single format tag must project into both
	// regions.
	io := &fakeIo{toRead: []byte("\x1b[1maaaabbbbcccc")}
	emu := NewEmulator(4, 2, io, nil)

	emu.Read()

	data := emu.Data()
	require.Equal(t, "aaaabbbb", string(data.Scrollback))
	require.Equal(t, "cccc\n", string(data.Visible))

	scrollback, visible := emu.FormatData()
	require.Len(t, scrollback, 1)
	require.True(t, scrollback[0].Bold)
	require.Equal(t, 0, scrollback[0].StartByte)
	require.Equal(t, len(data.Scrollback), scrollback[0].EndByte)

	require.Len(t, visible, 1)
	require.True(t, visible[0].Bold)
	require.Equal(t, 0, visible[0].StartByte)
	require.Equal(t, 4, visible[0].EndByte)
}

func TestEmulatorSnapshotRoundTrip(t *testing.T) {
	io := &fakeIo{toRead: []byte("hello\x1b[1;31mworld")}
	emu := NewEmulator(20, 5, io, nil)
	emu.Read()

	snap := emu.Snapshot()
	loaded, err := LoadEmulatorSnapshot(snap, NoopIo{}, nil)
	require.NoError(t, err)

	require.Equal(t, emu.Data().Visible, loaded.Data().Visible)
	require.Equal(t, emu.CursorPos(), loaded.CursorPos())
}
