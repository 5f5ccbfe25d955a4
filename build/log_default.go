//go:build !stdlog && !nolog

package build

// LoggingType is a log type that routes logging through the daemon backend.
const LoggingType = LogTypeDefault
