package forme

import "github.com/rs/zerolog"

var logger = zerolog.Nop()

// SetLogger replaces the package logger. The default discards everything.
func SetLogger(l zerolog.Logger) {
	logger = l
}

// Logger returns the package logger.
func Logger() zerolog.Logger {
	return logger
}
