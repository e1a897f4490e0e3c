// Package rlog is the package-level diagnostic logger shared by every Rugged
// subsystem. It defaults to log.Printf but may be replaced by SetLogger so a
// host application can redirect or mute it without threading a logger through
// every call.
package rlog

import "log"

// Logf is the package-level diagnostic logger. Tests or host applications
// can redirect or silence it via SetLogger.
var Logf func(format string, v ...interface{}) = log.Printf

// SetLogger replaces the package logger. Passing nil installs a no-op logger.
func SetLogger(f func(format string, v ...interface{})) {
	if f == nil {
		Logf = func(string, ...interface{}) {}
		return
	}
	Logf = f
}
