// Package xlog wraps op/go-logging for the engine's degraded-path
// diagnostics: book/config load failures and other non-fatal surprises.
// The search and move-generation hot paths never log; this is for startup
// and error paths only.
package xlog

import (
	"os"

	logging "github.com/op/go-logging"
)

var log = logging.MustGetLogger("knightfall")

func init() {
	backend := logging.NewLogBackend(os.Stderr, "", 0)
	formatter := logging.MustStringFormatter(
		`%{time:15:04:05.000} %{level:.4s} %{message}`,
	)
	formatted := logging.NewBackendFormatter(backend, formatter)
	logging.SetBackend(formatted)
}

func Infof(format string, args ...interface{})    { log.Infof(format, args...) }
func Warningf(format string, args ...interface{}) { log.Warningf(format, args...) }
func Errorf(format string, args ...interface{})   { log.Errorf(format, args...) }
