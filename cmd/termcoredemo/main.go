// Command termcoredemo drives a termcore.Emulator against a real shell
// and prints its rendered output to stdout. It exists to exercise the
// core end to end; it is not a full terminal UI.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"

	"termcore"
	"termcore/ptyio"
	"termcore/replayio"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var cols, rows int
	var recordDir, replayFile string
	var verbose bool

	cmd := &cobra.Command{
		Use:   "termcoredemo",
		Short: "Run a headless terminal core against a real shell",
		RunE: func(cmd *cobra.Command, args []string) error {
			if replayFile != "" {
				return replay(replayFile, cols, rows, verbose)
			}
			return run(cols, rows, recordDir, verbose)
		},
	}

	cmd.Flags().IntVar(&cols, "cols", termcore.DefaultCols, "terminal width")
	cmd.Flags().IntVar(&rows, "rows", termcore.DefaultRows, "terminal height")
	cmd.Flags().StringVar(&recordDir, "record-dir", "", "directory to write a session recording to (disabled if empty)")
	cmd.Flags().StringVar(&replayFile, "replay", "", "re-drive a fresh core from a recording instead of spawning a shell")
	cmd.Flags().BoolVar(&verbose, "verbose", false, "enable structured logging to stderr")

	return cmd
}

// replay re-drives a fresh emulator through a recorded session and
// prints the resulting scrollback and visible content once the log is
// exhausted. Recorded win-size changes are applied at the same point in
// the byte stream where they originally happened.
func replay(path string, cols, rows int, verbose bool) error {
	if verbose {
		l, err := zap.NewDevelopment()
		if err != nil {
			return err
		}
		termcore.SetLogger(l)
		defer l.Sync()
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening recording: %w", err)
	}
	defer f.Close()

	events, err := termcore.ReadRecording(f)
	if err != nil {
		return fmt.Errorf("reading recording: %w", err)
	}

	rio := replayio.New(events)
	emu := termcore.NewEmulator(cols, rows, rio, nil)
	rio.OnWinSize = func(c, r int) { emu.SetWinSize(c, r) }

	for !rio.Done() {
		emu.Read()
	}

	data := emu.Data()
	os.Stdout.Write(data.Scrollback)
	os.Stdout.Write(data.Visible)
	return nil
}

// run and replay are the host startup paths, the only places in this
// module permitted to bubble a fatal error: spawn failure here ends the
// process, per the core's error handling policy.
func run(cols, rows int, recordDir string, verbose bool) error {
	if verbose {
		l, err := zap.NewDevelopment()
		if err != nil {
			return err
		}
		termcore.SetLogger(l)
		defer l.Sync()
	}

	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		cols, rows = w, h
	}

	var recorder *termcore.Recorder
	if recordDir != "" {
		r, err := termcore.NewRecorder(recordDir)
		if err != nil {
			return fmt.Errorf("starting recorder: %w", err)
		}
		recorder = r
		defer recorder.Close()
	}

	io, err := ptyio.New(cols, rows)
	if err != nil {
		return fmt.Errorf("spawning shell: %w", err)
	}
	defer io.Close()

	emu := termcore.NewEmulator(cols, rows, io, recorder)

	oldState, err := term.MakeRaw(int(os.Stdin.Fd()))
	if err != nil {
		return fmt.Errorf("entering raw mode: %w", err)
	}
	defer term.Restore(int(os.Stdin.Fd()), oldState)

	go bridgeStdin(emu)

	for {
		emu.Read()
		data := emu.Data()
		os.Stdout.Write([]byte("\x1b[2J\x1b[H"))
		os.Stdout.Write(data.Visible)
		time.Sleep(16 * time.Millisecond)
	}
}

// bridgeStdin reads raw bytes from stdin and forwards each as an Ascii
// key, preserving the semantic-key boundary the input encoder expects
// rather than writing straight through to the pty.
func bridgeStdin(emu *termcore.Emulator) {
	buf := make([]byte, 256)
	for {
		n, err := os.Stdin.Read(buf)
		if err != nil {
			return
		}
		for _, b := range buf[:n] {
			emu.Write(termcore.KeyAscii(b))
		}
	}
}
