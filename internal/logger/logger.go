// Package logger wraps the standard library logger with level labels so log
// output stays grep-able across the server and the CLI.
package logger

import "log"

const (
	fatalLabel = "[FATAL] "
	errorLabel = "[ERROR] "
	warnLabel  = "[WARN ] "
	infoLabel  = "[INFO ] "
	debugLabel = "[DEBUG] "
)

var debugEnabled = false

// SetDebug toggles Debug output; it is off by default.
func SetDebug(on bool) { debugEnabled = on }

// Fatal calls [log.Fatalf], adding a fatal label.
// Arguments are handled in the manner of [fmt.Printf].
func Fatal(format string, args ...interface{}) {
	log.Fatalf(fatalLabel+format, args...)
}

// Error prints to the standard logger, adding an error label.
func Error(format string, args ...interface{}) {
	log.Printf(errorLabel+format, args...)
}

// Warn prints to the standard logger, adding a warn label.
func Warn(format string, args ...interface{}) {
	log.Printf(warnLabel+format, args...)
}

// Info prints to the standard logger, adding an info label.
func Info(format string, args ...interface{}) {
	log.Printf(infoLabel+format, args...)
}

// Debug prints to the standard logger when debug logging is enabled.
func Debug(format string, args ...interface{}) {
	if debugEnabled {
		log.Printf(debugLabel+format, args...)
	}
}
