//go:build stdlog

package build

// LoggingType is a log type that writes every package log to stdout.
const LoggingType = LogTypeStdOut
