// Package ui provides helpers for formatting human-readable console output.
//
// Console prints the marked status lines an operator watches during an update,
// while ConsoleCommandEventLogger turns git lifecycle events into readable log
// lines when the console log format is selected.
package ui
