//go:build !debug && !nolog

package build

// LogLevel specifies the default log level.
var LogLevel = "info"
