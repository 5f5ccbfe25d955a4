//go:build nolog

package build

// LogLevel specifies no logging.
var LogLevel = "off"

// LoggingType is a log type that disables all logging.
const LoggingType = LogTypeNone
