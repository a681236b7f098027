package logger

import (
	"io"
	"log"
	"os"
)

var (
	Info  *log.Logger
	Error *log.Logger
	Debug *log.Logger
	Warn  *log.Logger
)

const logFlags = log.Ldate | log.Ltime | log.LUTC | log.Lshortfile

func init() {
	Configure(os.Stderr, false)
}

// Configure points every logger at w. Debug output is discarded unless
// debug is set. Logs go to stderr by default so stdout stays free for
// progress lines and the summary table.
func Configure(w io.Writer, debug bool) {
	Info = log.New(w, "INFO: ", logFlags)
	Error = log.New(w, "ERROR: ", logFlags)
	Warn = log.New(w, "WARN: ", logFlags)

	debugOut := io.Discard
	if debug {
		debugOut = w
	}
	Debug = log.New(debugOut, "DEBUG: ", logFlags)
}
