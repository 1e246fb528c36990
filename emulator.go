package termcore

// DefaultCols and DefaultRows are the terminal dimensions used when a
// host does not otherwise specify a size.
const (
	DefaultCols = 50
	DefaultRows = 16
)

// maxReadChunk is the largest slice the emulator pulls from its Io
// handle per read() iteration.
const maxReadChunk = 4096

// Emulator wires together the escape parser, terminal buffer, format
// tracker and cursor state against an Io handle. It is single-threaded
// and cooperative: Read() never blocks and performs no internal
// synchronization.
type Emulator struct {
	parser    *EscapeParser
	buffer    *TerminalBuffer
	formatter *FormatTracker
	cursor    CursorState
	decckm    bool

	io       Io
	recorder *Recorder
}

// NewEmulator constructs an Emulator at the given size driven by io. A
// nil Recorder disables recording.
func NewEmulator(width, height int, io Io, recorder *Recorder) *Emulator {
	return &Emulator{
		parser:    NewEscapeParser(),
		buffer:    NewTerminalBuffer(width, height),
		formatter: NewFormatTracker(),
		cursor:    CursorState{Color: ColorDefault},
		io:        io,
		recorder:  recorder,
	}
}

// Read pulls up to maxReadChunk bytes from the Io handle in a loop,
// feeding every chunk to the parser and dispatching its events, until
// the handle reports no more data is available right now. I/O errors
// are logged and end the current loop; emulator state is left
// consistent either way.
func (e *Emulator) Read() {
	buf := make([]byte, maxReadChunk)
	for {
		res := e.io.Read(buf)
		switch res.Status {
		case ReadEmpty:
			return
		case ReadError:
			logger.Sugar().Warnw("emulator read failed", "err", res.Err)
			return
		}

		chunk := append([]byte(nil), buf[:res.N]...)
		e.recorder.RecordData(chunk)

		for _, ev := range e.parser.Push(chunk) {
			e.dispatch(ev)
		}
	}
}

func (e *Emulator) dispatch(ev Event) {
	switch ev.Kind {
	case EventData:
		result := e.buffer.InsertData(e.cursor.Pos, ev.Data)
		e.formatter.PushRange(e.cursor, result.WrittenRange)
		e.cursor.Pos = result.NewCursorPos

	case EventNewline:
		e.cursor.Pos = e.buffer.InsertData(e.cursor.Pos, []byte{'\n'}).NewCursorPos

	case EventCarriageReturn:
		e.cursor.Pos.X = 0

	case EventBackspace:
		if e.cursor.Pos.X >= 1 {
			e.cursor.Pos.X--
		}

	case EventSetCursorPos:
		if ev.X > 0 {
			e.cursor.Pos.X = ev.X - 1
		}
		if ev.Y > 0 {
			e.cursor.Pos.Y = ev.Y - 1
		}

	case EventSetCursorPosRel:
		e.cursor.Pos.X = saturatingAdd(e.cursor.Pos.X, ev.DX)
		e.cursor.Pos.Y = saturatingAdd(e.cursor.Pos.Y, ev.DY)

	case EventClearForwards:
		start := e.buffer.cursorToBufPos(e.cursor.Pos)
		e.buffer.ClearForwards(e.cursor.Pos)
		e.formatter.TruncateRange(BufPosRange{Start: start, End: BufPosMax})

	case EventClearLineForwards:
		width, _ := e.buffer.WinSize()
		start := e.buffer.cursorToBufPos(e.cursor.Pos)
		end := BufPos{LineID: start.LineID, XPos: width}
		e.buffer.ClearLineForwards(e.cursor.Pos)
		e.formatter.TruncateRange(BufPosRange{Start: start, End: end})

	case EventClearAll:
		e.buffer.ClearAll()
		e.formatter.PushRange(e.cursor, BufPosRange{Start: BufPos{}, End: BufPosMax})

	case EventInsertLines:
		e.buffer.InsertLines(e.cursor.Pos, ev.N)

	case EventInsertSpaces:
		e.cursor.Pos = e.buffer.InsertSpaces(e.cursor.Pos, ev.N)

	case EventDelete:
		start := e.buffer.cursorToBufPos(e.cursor.Pos)
		removed := e.buffer.DeleteForwards(e.cursor.Pos, ev.N)
		if removed > 0 {
			end := e.buffer.cursorToBufPos(CursorPos{X: e.cursor.Pos.X + removed, Y: e.cursor.Pos.Y})
			e.formatter.TruncateRange(BufPosRange{Start: start, End: end})
		}

	case EventSgr:
		e.applySgr(ev.N)

	case EventSetMode:
		if ev.N == 1 {
			e.decckm = true
		} else {
			logger.Sugar().Debugw("unhandled mode set", "mode", ev.N)
		}

	case EventResetMode:
		if ev.N == 1 {
			e.decckm = false
		} else {
			logger.Sugar().Debugw("unhandled mode reset", "mode", ev.N)
		}

	case EventInvalid:
		// malformed sequences are dropped
	}
}

func (e *Emulator) applySgr(code int) {
	switch {
	case code == 0:
		e.cursor.Bold = false
		e.cursor.Color = ColorDefault
	case code == 1:
		e.cursor.Bold = true
	case code >= 30 && code <= 37:
		if c, ok := sgrForegroundColors[code]; ok {
			e.cursor.Color = c
		}
	case code == 39:
		e.cursor.Color = ColorDefault
	default:
		logger.Sugar().Debugw("unhandled SGR code", "code", code)
	}
}

func saturatingAdd(v, delta int) int {
	v += delta
	if v < 0 {
		return 0
	}
	return v
}

// Write encodes key through the input encoder (mode-dependent) and
// writes it to the Io handle, retrying on short writes including a
// zero-byte return.
func (e *Emulator) Write(key Key) error {
	payload := EncodeKey(key, e.decckm)
	for len(payload) != 0 {
		n, err := e.io.Write(payload)
		if err != nil {
			logger.Sugar().Warnw("emulator write failed", "err", err)
			return err
		}
		payload = payload[n:]
	}
	return nil
}

// SetWinSize resizes the terminal buffer, forwards the new dimensions
// to the Io handle and the recorder, and re-asserts the current style
// over the (possibly relaid-out) visible range.
func (e *Emulator) SetWinSize(width, height int) error {
	result := e.buffer.SetWinSize(width, height, e.cursor.Pos)
	e.cursor.Pos = result.NewCursorPos

	if err := e.io.SetWinSize(width, height); err != nil {
		logger.Sugar().Warnw("set_win_size failed", "err", err)
		return err
	}
	e.recorder.RecordWinSize(width, height)

	if result.Changed {
		e.formatter.PushRange(e.cursor, e.buffer.GetVisibleRange())
	}
	return nil
}

// Data returns the consumer-facing buffer snapshot for the current
// render.
func (e *Emulator) Data() Data {
	return e.buffer.Data()
}

// CursorPos returns the cursor's current position.
func (e *Emulator) CursorPos() CursorPos {
	return e.cursor.Pos
}

// ProjectedFormatTag is a FormatTag resolved to concrete byte offsets
// within one of the two regions returned by Data, ready for rendering.
type ProjectedFormatTag struct {
	StartByte int
	EndByte   int
	Bold      bool
	Color     Color
}

// FormatData projects every stored format tag from BufPos coordinates
// onto byte offsets in the scrollback and visible regions returned by
// Data. A tag straddling the boundary between the two splits into one
// projected tag per region. End-of-range projection clamps to each
// region's byte length.
func (e *Emulator) FormatData() (scrollback, visible []ProjectedFormatTag) {
	data := e.Data()
	scrollbackCount := len(data.ScrollbackLineMappings)

	lineOffset := func(mappings []int, lineID int, fallback int) int {
		idx := lineID
		if idx < 0 {
			return 0
		}
		if idx >= len(mappings) {
			return fallback
		}
		return mappings[idx]
	}

	byteOffset := func(region []byte, mappings []int, regionLineBase int, pos BufPos) int {
		lineIdx := pos.LineID - regionLineBase
		base := lineOffset(mappings, lineIdx, len(region))
		if pos.XPos > len(region)-base {
			return len(region)
		}
		return base + pos.XPos
	}

	for _, tag := range e.formatter.Tags() {
		startInScrollback := tag.Range.Start.LineID < scrollbackCount
		endInScrollback := tag.Range.End.LineID <= scrollbackCount && !(tag.Range.End.LineID == scrollbackCount && tag.Range.End.XPos > 0)

		if startInScrollback {
			end := tag.Range.End
			if !endInScrollback {
				end = BufPos{LineID: scrollbackCount, XPos: 0}
			}
			scrollback = append(scrollback, ProjectedFormatTag{
				StartByte: byteOffset(data.Scrollback, data.ScrollbackLineMappings, 0, tag.Range.Start),
				EndByte:   byteOffset(data.Scrollback, data.ScrollbackLineMappings, 0, end),
				Bold:      tag.Bold,
				Color:     tag.Color,
			})
		}
		if !endInScrollback {
			start := tag.Range.Start
			if startInScrollback {
				start = BufPos{LineID: scrollbackCount, XPos: 0}
			}
			visible = append(visible, ProjectedFormatTag{
				StartByte: byteOffset(data.Visible, data.VisibleLineMappings, scrollbackCount, start),
				EndByte:   byteOffset(data.Visible, data.VisibleLineMappings, scrollbackCount, tag.Range.End),
				Bold:      tag.Bold,
				Color:     tag.Color,
			})
		}
	}
	return scrollback, visible
}

const (
	emulatorKeyParser    = "parser"
	emulatorKeyBuffer    = "terminal_buffer"
	emulatorKeyFormatter = "format_tracker"
	emulatorKeyDecckm    = "decckm_mode"
	emulatorKeyCursor    = "cursor_state"
)

// Snapshot serializes every stateful component under its own key:
// parser, terminal_buffer, format_tracker, decckm_mode, cursor_state.
func (e *Emulator) Snapshot() Value {
	return Map(map[string]Value{
		emulatorKeyParser:    e.parser.Snapshot(),
		emulatorKeyBuffer:    e.buffer.Snapshot(),
		emulatorKeyFormatter: e.formatter.Snapshot(),
		emulatorKeyDecckm:    Bool(e.decckm),
		emulatorKeyCursor:    e.cursor.Snapshot(),
	})
}

// LoadEmulatorSnapshot rebuilds an Emulator's internal state from a
// Value produced by Snapshot, wiring it to io (and, optionally,
// recorder) afterward. Useful both for process-level restore and for
// replay's "resume from a checkpoint" path.
func LoadEmulatorSnapshot(v Value, io Io, recorder *Recorder) (*Emulator, error) {
	m, err := v.AsMap("emulator")
	if err != nil {
		return nil, err
	}

	parserVal, err := field(m, emulatorKeyParser)
	if err != nil {
		return nil, err
	}
	parser, err := EscapeParserFromSnapshot(parserVal)
	if err != nil {
		return nil, err
	}

	bufferVal, err := field(m, emulatorKeyBuffer)
	if err != nil {
		return nil, err
	}
	buffer, err := TerminalBufferFromSnapshot(bufferVal)
	if err != nil {
		return nil, err
	}

	formatterVal, err := field(m, emulatorKeyFormatter)
	if err != nil {
		return nil, err
	}
	formatter, err := FormatTrackerFromSnapshot(formatterVal)
	if err != nil {
		return nil, err
	}

	decckmVal, err := field(m, emulatorKeyDecckm)
	if err != nil {
		return nil, err
	}
	decckm, err := decckmVal.AsBool(emulatorKeyDecckm)
	if err != nil {
		return nil, err
	}

	cursorVal, err := field(m, emulatorKeyCursor)
	if err != nil {
		return nil, err
	}
	cursor, err := CursorStateFromSnapshot(cursorVal)
	if err != nil {
		return nil, err
	}

	return &Emulator{
		parser:    parser,
		buffer:    buffer,
		formatter: formatter,
		cursor:    cursor,
		decckm:    decckm,
		io:        io,
		recorder:  recorder,
	}, nil
}
