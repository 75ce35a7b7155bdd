// Package logger provides structured logging for the scanning pipeline.
package logger

// Logger is the pipeline's logging interface. Components tag every entry
// with their name plus arbitrary structured fields.
type Logger interface {
	Debug(component, message string, fields map[string]interface{})
	Info(component, message string, fields map[string]interface{})
	Warn(component, message string, fields map[string]interface{})
	Error(component string, err error, fields map[string]interface{})
}

// Nop returns a logger that discards everything. It is the default for
// library users who do not wire their own.
func Nop() Logger {
	return nopLogger{}
}

type nopLogger struct{}

func (nopLogger) Debug(string, string, map[string]interface{}) {}
func (nopLogger) Info(string, string, map[string]interface{})  {}
func (nopLogger) Warn(string, string, map[string]interface{})  {}
func (nopLogger) Error(string, error, map[string]interface{})  {}
