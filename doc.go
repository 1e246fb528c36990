// Package termcore implements the core of a headless terminal emulator: a
// streaming ANSI/VT100 escape parser, a fixed-size visible character grid
// with scrollback eviction, and a format-attribute tracker keyed by stable
// buffer coordinates.
//
// The package has no rendering, no font handling and no PTY spawning logic
// of its own; those are external collaborators. [Emulator] is driven by
// anything implementing [Io]; see the ptyio and replayio subpackages for a
// real PTY-backed implementation and a recording-replay implementation.
//
// A minimal usage:
//
//	io, err := ptyio.New(termcore.DefaultCols, termcore.DefaultRows)
//	if err != nil {
//		log.Fatal(err)
//	}
//	emu := termcore.NewEmulator(termcore.DefaultCols, termcore.DefaultRows, io, nil)
//	for {
//		emu.Read()
//		data := emu.Data()
//		render(data.Visible)
//	}
package termcore
