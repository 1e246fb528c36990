package termcore

import "go.uber.org/zap"

// logger is the package-level structured logger. The core never fails
// loudly (see error handling policy), so recoverable I/O and parse
// conditions are reported here instead of via returned errors. Defaults
// to a no-op logger; hosts that want output call SetLogger.
var logger = zap.NewNop()

// SetLogger installs l as the package-level logger. Passing nil
// restores the no-op default.
func SetLogger(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	logger = l
}
