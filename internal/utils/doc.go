// Package utils exposes reusable helpers consumed by the CLI entrypoint.
//
// It houses ConfigurationLoader and LoggerFactory abstractions that integrate
// Viper, environment variables, and zap logging, plus a FlushingWriter used
// for the console report.
package utils
