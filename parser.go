package termcore

// parserState is one of the escape parser's five states.
type parserState int

const (
	stateGround parserState = iota
	stateEscape
	stateCsiEntry
	stateCsiParam
	stateCsiIntermediate
)

func (s parserState) String() string {
	switch s {
	case stateGround:
		return "ground"
	case stateEscape:
		return "escape"
	case stateCsiEntry:
		return "csi_entry"
	case stateCsiParam:
		return "csi_param"
	case stateCsiIntermediate:
		return "csi_intermediate"
	default:
		return "unknown"
	}
}

func parserStateFromString(s string) (parserState, bool) {
	switch s {
	case "ground":
		return stateGround, true
	case "escape":
		return stateEscape, true
	case "csi_entry":
		return stateCsiEntry, true
	case "csi_param":
		return stateCsiParam, true
	case "csi_intermediate":
		return stateCsiIntermediate, true
	default:
		return stateGround, false
	}
}

// EventKind identifies the variant carried by an Event.
type EventKind int

const (
	EventData EventKind = iota
	EventNewline
	EventCarriageReturn
	EventBackspace
	EventSetCursorPos
	EventSetCursorPosRel
	EventClearForwards
	EventClearAll
	EventClearLineForwards
	EventInsertLines
	EventInsertSpaces
	EventDelete
	EventSgr
	EventSetMode
	EventResetMode
	EventInvalid
)

// Event is one output of the escape parser. Only the fields relevant to
// Kind are populated; the rest hold zero values.
type Event struct {
	Kind EventKind

	Data []byte // EventData

	// EventSetCursorPos: 1-based row/col as seen on the wire, 0 meaning
	// absent (default fills applied already). X is column, Y is row.
	X, Y int
	// EventSetCursorPosRel: signed displacement. Only the one of DX, DY
	// matching which of A/B/C/D triggered it is set; the other is zero.
	DX, DY int

	N int // InsertLines/InsertSpaces/Delete/Sgr/SetMode/ResetMode
}

// EscapeParser is a streaming byte-at-a-time state machine converting raw
// bytes into Event values. It never blocks and never drops bytes: Push
// may be called with any partition of a stream and yields the same
// events, carrying the same bytes in the same order, as a single call
// with the concatenation. Event boundaries inside a Ground-state Data
// run are not preserved: a run split across calls arrives as one Data
// event per call.
type EscapeParser struct {
	state parserState

	// params accumulates CSI numeric arguments. paramPresent tracks
	// whether the current in-progress parameter has seen any digit, so
	// that an empty field (e.g. the second arg in "CSI ;5H") resolves to
	// "absent" rather than 0.
	params       []int
	paramPresent []bool
	priv         bool

	// pendingData accumulates a run of Ground-state printable bytes within
	// one Push call; Push flushes it as a Data event before returning.
	pendingData []byte
}

// NewEscapeParser returns a parser in the Ground state.
func NewEscapeParser() *EscapeParser {
	return &EscapeParser{}
}

func isControl(b byte) bool {
	return b < 0x20 || b == 0x7F
}

// Push feeds chunk through the state machine and returns every event
// produced. Any Ground-state Data run still open at the end of chunk is
// flushed so callers see bytes promptly; a following Push resumes a
// fresh Data run.
func (p *EscapeParser) Push(chunk []byte) []Event {
	var events []Event
	emit := func(e Event) { events = append(events, e) }

	for _, b := range chunk {
		switch p.state {
		case stateGround:
			switch {
			case b == 0x1B:
				p.flushData(emit)
				p.state = stateEscape
			case b == '\n':
				p.flushData(emit)
				emit(Event{Kind: EventNewline})
			case b == '\r':
				p.flushData(emit)
				emit(Event{Kind: EventCarriageReturn})
			case b == '\b':
				p.flushData(emit)
				emit(Event{Kind: EventBackspace})
			case isControl(b):
				p.flushData(emit)
			default:
				p.pendingData = append(p.pendingData, b)
			}

		case stateEscape:
			switch b {
			case '[':
				p.resetParams()
				p.state = stateCsiEntry
			default:
				emit(Event{Kind: EventInvalid})
				p.state = stateGround
			}

		case stateCsiEntry, stateCsiParam:
			switch {
			case b == '?' && p.state == stateCsiEntry:
				p.priv = true
				p.state = stateCsiParam
			case b >= '0' && b <= '9':
				p.addDigit(b)
				p.state = stateCsiParam
			case b == ';':
				p.endParam()
				p.state = stateCsiParam
			case b == ' ':
				p.state = stateCsiIntermediate
			case b >= 0x40 && b <= 0x7E:
				p.dispatchCsi(b, emit)
				p.state = stateGround
			default:
				emit(Event{Kind: EventInvalid})
				p.state = stateGround
			}

		case stateCsiIntermediate:
			switch {
			case b >= 0x40 && b <= 0x7E:
				p.dispatchCsi(b, emit)
				p.state = stateGround
			case b == ' ':
				// stay, absorbing further intermediates
			default:
				emit(Event{Kind: EventInvalid})
				p.state = stateGround
			}
		}
	}

	p.flushData(emit)
	return events
}

func (p *EscapeParser) flushData(emit func(Event)) {
	if len(p.pendingData) == 0 {
		return
	}
	emit(Event{Kind: EventData, Data: p.pendingData})
	p.pendingData = nil
}

func (p *EscapeParser) resetParams() {
	p.params = p.params[:0]
	p.paramPresent = p.paramPresent[:0]
	p.priv = false
	p.params = append(p.params, 0)
	p.paramPresent = append(p.paramPresent, false)
}

func (p *EscapeParser) addDigit(b byte) {
	last := len(p.params) - 1
	p.params[last] = p.params[last]*10 + int(b-'0')
	p.paramPresent[last] = true
}

func (p *EscapeParser) endParam() {
	p.params = append(p.params, 0)
	p.paramPresent = append(p.paramPresent, false)
}

// arg returns the i-th parameter, or def if absent (never supplied, or
// supplied empty).
func (p *EscapeParser) arg(i, def int) int {
	if i < 0 || i >= len(p.params) || !p.paramPresent[i] {
		return def
	}
	return p.params[i]
}

func (p *EscapeParser) dispatchCsi(final byte, emit func(Event)) {
	switch final {
	case 'H', 'f':
		emit(Event{Kind: EventSetCursorPos, Y: p.arg(0, 1), X: p.arg(1, 1)})
	case 'A':
		emit(Event{Kind: EventSetCursorPosRel, DY: -p.arg(0, 1)})
	case 'B':
		emit(Event{Kind: EventSetCursorPosRel, DY: p.arg(0, 1)})
	case 'C':
		emit(Event{Kind: EventSetCursorPosRel, DX: p.arg(0, 1)})
	case 'D':
		emit(Event{Kind: EventSetCursorPosRel, DX: -p.arg(0, 1)})
	case 'J':
		switch p.arg(0, 0) {
		case 0:
			emit(Event{Kind: EventClearForwards})
		case 2:
			emit(Event{Kind: EventClearAll})
		default:
			emit(Event{Kind: EventInvalid})
		}
	case 'K':
		switch p.arg(0, 0) {
		case 0:
			emit(Event{Kind: EventClearLineForwards})
		default:
			emit(Event{Kind: EventInvalid})
		}
	case 'L':
		emit(Event{Kind: EventInsertLines, N: p.arg(0, 1)})
	case '@':
		emit(Event{Kind: EventInsertSpaces, N: p.arg(0, 1)})
	case 'P':
		emit(Event{Kind: EventDelete, N: p.arg(0, 1)})
	case 'm':
		if len(p.params) == 0 {
			emit(Event{Kind: EventSgr, N: 0})
			return
		}
		for i := range p.params {
			emit(Event{Kind: EventSgr, N: p.arg(i, 0)})
		}
	case 'h':
		if p.priv {
			emit(Event{Kind: EventSetMode, N: p.arg(0, 0)})
		} else {
			emit(Event{Kind: EventInvalid})
		}
	case 'l':
		if p.priv {
			emit(Event{Kind: EventResetMode, N: p.arg(0, 0)})
		} else {
			emit(Event{Kind: EventInvalid})
		}
	default:
		emit(Event{Kind: EventInvalid})
	}
}

const (
	parserKeyState        = "state"
	parserKeyParams       = "params"
	parserKeyParamPresent = "param_present"
	parserKeyPriv         = "priv"
	parserKeyPendingData  = "pending_data"
)

// Snapshot serializes the parser's in-flight state: current FSM state,
// the CSI parameter buffer, and any Ground-state bytes not yet flushed
// as a Data event.
func (p *EscapeParser) Snapshot() Value {
	params := make([]Value, len(p.params))
	for i, v := range p.params {
		params[i] = Int(int64(v))
	}
	present := make([]Value, len(p.paramPresent))
	for i, v := range p.paramPresent {
		present[i] = Bool(v)
	}
	return Map(map[string]Value{
		parserKeyState:        String(p.state.String()),
		parserKeyParams:       Array(params),
		parserKeyParamPresent: Array(present),
		parserKeyPriv:         Bool(p.priv),
		parserKeyPendingData:  Bytes(p.pendingData),
	})
}

// EscapeParserFromSnapshot loads a parser produced by Snapshot.
func EscapeParserFromSnapshot(v Value) (*EscapeParser, error) {
	m, err := v.AsMap("parser")
	if err != nil {
		return nil, err
	}

	stateVal, err := field(m, parserKeyState)
	if err != nil {
		return nil, err
	}
	stateStr, err := stateVal.AsString(parserKeyState)
	if err != nil {
		return nil, err
	}
	state, ok := parserStateFromString(stateStr)
	if !ok {
		return nil, &FieldError{Field: parserKeyState, Reason: "unrecognized parser state " + stateStr}
	}

	paramsVal, err := field(m, parserKeyParams)
	if err != nil {
		return nil, err
	}
	paramsArr, err := paramsVal.AsArray(parserKeyParams)
	if err != nil {
		return nil, err
	}
	params := make([]int, len(paramsArr))
	for i, e := range paramsArr {
		n, err := e.AsInt(parserKeyParams)
		if err != nil {
			return nil, err
		}
		params[i] = int(n)
	}

	presentVal, err := field(m, parserKeyParamPresent)
	if err != nil {
		return nil, err
	}
	presentArr, err := presentVal.AsArray(parserKeyParamPresent)
	if err != nil {
		return nil, err
	}
	present := make([]bool, len(presentArr))
	for i, e := range presentArr {
		b, err := e.AsBool(parserKeyParamPresent)
		if err != nil {
			return nil, err
		}
		present[i] = b
	}

	privVal, err := field(m, parserKeyPriv)
	if err != nil {
		return nil, err
	}
	priv, err := privVal.AsBool(parserKeyPriv)
	if err != nil {
		return nil, err
	}

	pendingVal, err := field(m, parserKeyPendingData)
	if err != nil {
		return nil, err
	}
	pending, err := pendingVal.AsBytes(parserKeyPendingData)
	if err != nil {
		return nil, err
	}

	return &EscapeParser{
		state:        state,
		params:       params,
		paramPresent: present,
		priv:         priv,
		pendingData:  pending,
	}, nil
}
