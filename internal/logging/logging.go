// Package logging builds the process logger and names its verbosity levels.
package logging

import (
	"io"
	"log"

	"github.com/go-logr/logr"
	"github.com/go-logr/stdr"
)

// Verbosity levels passed to logr's V().
const (
	// Info is always printed
	Info = 0
	// Debug covers gesture and navigation transitions
	Debug = 1
	// Trace covers per-frame detail such as every resolved offset
	Trace = 2
)

// New returns a logr.Logger writing to w through the standard library logger.
// Messages above verbosity are dropped. stdr keeps verbosity globally, so the
// last call wins.
func New(verbosity int, w io.Writer) logr.Logger {
	stdr.SetVerbosity(verbosity)
	return stdr.NewWithOptions(
		log.New(w, "", log.LstdFlags|log.Lmicroseconds),
		stdr.Options{LogCaller: stdr.None},
	)
}
