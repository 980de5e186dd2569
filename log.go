package main

import (
	"io"
	"os"

	"github.com/charmbracelet/log"
)

// setupLog discards log output unless CLIPVOX_LOGFILE is set, in which
// case logs are appended to that file.
func setupLog() (func() error, error) {
	log.SetOutput(io.Discard)

	logFile := os.Getenv("CLIPVOX_LOGFILE")
	if logFile == "" {
		return func() error { return nil }, nil
	}

	if os.Getenv("CLIPVOX_DEBUG") != "" {
		log.SetLevel(log.DebugLevel)
	}

	f, err := os.OpenFile(logFile, os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0o600)
	if err != nil {
		return nil, err
	}
	log.SetOutput(f)
	log.SetPrefix("clipvox")
	return f.Close, nil
}
