// Package atnlog provides the package-level zap logger shared by dfa and
// simulator, following the teacher's bracket-tagged logging idiom
// ("[dfa] ...", "[predict] ...").
package atnlog

import "go.uber.org/zap"

var logger *zap.Logger

// Set installs the logger used by this package's accessors. Passing nil
// disables logging (the default): every call site must tolerate a nil
// logger since logging never gates correctness.
func Set(l *zap.Logger) {
	logger = l
}

// L returns the currently installed logger, or a no-op logger if none
// was set.
func L() *zap.Logger {
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}
