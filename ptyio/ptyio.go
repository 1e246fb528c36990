// Package ptyio implements termcore.Io against a real pseudo-terminal
// running a child shell.
package ptyio

import (
	"errors"
	"os"
	"os/exec"

	"github.com/creack/pty"
	"golang.org/x/sys/unix"

	"termcore"
)

// shellArgs matches the child process boundary: a minimal bash with no
// profile/rc sourcing, so session startup is deterministic.
var shellArgs = []string{"bash", "--noprofile", "--norc"}

// PtyIo drives a spawned shell through a pseudo-terminal, in non-blocking
// mode so Read never stalls the emulator's cooperative loop.
type PtyIo struct {
	cmd *exec.Cmd
	f   *os.File
}

// New spawns a shell under a new pty sized cols x rows. PROMPT_COMMAND is
// scrubbed from the environment and PS1 is forced to "$ " to keep output
// stable across shell versions.
func New(cols, rows int) (*PtyIo, error) {
	cmd := exec.Command(shellArgs[0], shellArgs[1:]...)
	cmd.Env = scrubEnv(os.Environ())

	f, err := pty.StartWithSize(cmd, &pty.Winsize{Cols: uint16(cols), Rows: uint16(rows)})
	if err != nil {
		return nil, err
	}
	if err := unix.SetNonblock(int(f.Fd()), true); err != nil {
		f.Close()
		return nil, err
	}
	return &PtyIo{cmd: cmd, f: f}, nil
}

func scrubEnv(env []string) []string {
	out := make([]string, 0, len(env)+1)
	for _, kv := range env {
		if len(kv) >= len("PROMPT_COMMAND=") && kv[:len("PROMPT_COMMAND=")] == "PROMPT_COMMAND=" {
			continue
		}
		if len(kv) >= len("PS1=") && kv[:len("PS1=")] == "PS1=" {
			continue
		}
		out = append(out, kv)
	}
	return append(out, `PS1=$ `)
}

// Read satisfies termcore.Io: EAGAIN (no data available on a non-blocking
// fd) is reported as ReadEmpty rather than an error.
func (p *PtyIo) Read(buf []byte) termcore.ReadResult {
	n, err := p.f.Read(buf)
	if err != nil {
		if errors.Is(err, unix.EAGAIN) || errors.Is(err, unix.EWOULDBLOCK) {
			return termcore.ReadResult{Status: termcore.ReadEmpty}
		}
		return termcore.ReadResult{Status: termcore.ReadError, Err: err}
	}
	if n == 0 {
		return termcore.ReadResult{Status: termcore.ReadEmpty}
	}
	return termcore.ReadResult{N: n, Status: termcore.ReadSuccess}
}

// Write satisfies termcore.Io.
func (p *PtyIo) Write(data []byte) (int, error) {
	return p.f.Write(data)
}

// SetWinSize satisfies termcore.Io.
func (p *PtyIo) SetWinSize(cols, rows int) error {
	return pty.Setsize(p.f, &pty.Winsize{Cols: uint16(cols), Rows: uint16(rows)})
}

// Close releases the pty file descriptor. It does not wait on the child
// process; callers that need exit status should call Wait via Cmd.
func (p *PtyIo) Close() error {
	return p.f.Close()
}

// Cmd exposes the underlying *exec.Cmd, e.g. so a host can Wait() on it
// or inspect ProcessState after the shell exits.
func (p *PtyIo) Cmd() *exec.Cmd {
	return p.cmd
}

var _ termcore.Io = (*PtyIo)(nil)
