package termcore

import (
	"encoding/binary"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// RecordKind tags each entry in a recording sidecar log.
type RecordKind byte

const (
	RecordData RecordKind = iota
	RecordWinSize
)

// Recorder appends raw PTY bytes and explicit window-size changes to a
// sidecar log file, in order, so a replayio.ReplayIo can re-drive a fresh Emulator
// through the identical event sequence later.
type Recorder struct {
	w io.WriteCloser
}

// NewRecorder creates a fresh recording file named with a random UUID
// under dir and returns a Recorder writing to it. The caller is
// responsible for calling Close when the session ends.
func NewRecorder(dir string) (*Recorder, error) {
	name := uuid.NewString() + ".rec"
	f, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return nil, err
	}
	return &Recorder{w: f}, nil
}

// RecordData appends a chunk of raw bytes as received from the child.
// Errors are logged, not returned, matching the core's policy of never
// letting I/O trouble abort the read loop.
func (r *Recorder) RecordData(data []byte) {
	if r == nil || len(data) == 0 {
		return
	}
	if err := r.writeEntry(RecordData, data); err != nil {
		logger.Sugar().Warnw("recorder write failed", "err", err)
	}
}

// RecordWinSize appends an explicit set_win_size(cols, rows) event.
func (r *Recorder) RecordWinSize(cols, rows int) {
	if r == nil {
		return
	}
	payload := make([]byte, 8)
	binary.BigEndian.PutUint32(payload[0:4], uint32(cols))
	binary.BigEndian.PutUint32(payload[4:8], uint32(rows))
	if err := r.writeEntry(RecordWinSize, payload); err != nil {
		logger.Sugar().Warnw("recorder write failed", "err", err)
	}
}

// writeEntry frames one entry as [kind byte][uint32 length][payload].
func (r *Recorder) writeEntry(kind RecordKind, payload []byte) error {
	header := make([]byte, 5)
	header[0] = byte(kind)
	binary.BigEndian.PutUint32(header[1:5], uint32(len(payload)))
	if _, err := r.w.Write(header); err != nil {
		return err
	}
	_, err := r.w.Write(payload)
	return err
}

// Close flushes and closes the underlying file.
func (r *Recorder) Close() error {
	if r == nil {
		return nil
	}
	return r.w.Close()
}

// RecordedEvent is one decoded entry from a recording sidecar log.
type RecordedEvent struct {
	Kind RecordKind
	Data []byte // RecordData payload
	Cols int    // RecordWinSize payload
	Rows int
}

// ReadRecording decodes every framed entry from a sidecar log produced
// by Recorder, in order.
func ReadRecording(r io.Reader) ([]RecordedEvent, error) {
	var events []RecordedEvent
	header := make([]byte, 5)
	for {
		if _, err := io.ReadFull(r, header); err != nil {
			if err == io.EOF {
				return events, nil
			}
			return events, err
		}
		kind := RecordKind(header[0])
		n := binary.BigEndian.Uint32(header[1:5])
		payload := make([]byte, n)
		if _, err := io.ReadFull(r, payload); err != nil {
			return events, err
		}
		switch kind {
		case RecordData:
			events = append(events, RecordedEvent{Kind: kind, Data: payload})
		case RecordWinSize:
			if len(payload) != 8 {
				return events, &FieldError{Field: "win_size_payload", Reason: "wrong length"}
			}
			events = append(events, RecordedEvent{
				Kind: kind,
				Cols: int(binary.BigEndian.Uint32(payload[0:4])),
				Rows: int(binary.BigEndian.Uint32(payload[4:8])),
			})
		default:
			return events, &FieldError{Field: "record_kind", Reason: "unrecognized"}
		}
	}
}
