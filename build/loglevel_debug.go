//go:build debug && !nolog

package build

// LogLevel specifies a debug log level.
var LogLevel = "debug"
