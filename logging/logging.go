/*
* logging.go
*
* Leveled, colored logging shared by the timeacc tools
*
 */

package logging

import (
	"fmt"
	"io"
	"os"

	"github.com/op/go-logging"
)

const module = "timeacc"

// global logger
var Log = logging.MustGetLogger(module)
var LogBackendLvl logging.LeveledBackend
var format = logging.MustStringFormatter(
	"%{color}%{time:15:04:05.000} %{level:.4s} [%{shortfunc}] ▶ %{message}%{color:reset}",
)

// InitializeLogging sends INFO and above to stderr; stdout carries the
// tools' CSV output.
func InitializeLogging() {
	InitializeLoggingTo(os.Stderr)
}

// InitializeLoggingTo replaces the current backend with one writing to w.
func InitializeLoggingTo(w io.Writer) {
	backend := logging.NewLogBackend(w, "", 0)
	backendFormatter := logging.NewBackendFormatter(backend, format)
	LogBackendLvl = logging.AddModuleLevel(backendFormatter)
	LogBackendLvl.SetLevel(logging.INFO, "")
	logging.SetBackend(LogBackendLvl)
}

// ConfigureLogging sets the level by name (DEBUG, INFO, NOTICE, WARNING,
// ERROR, CRITICAL).
func ConfigureLogging(level string) error {
	lvl, err := logging.LogLevel(level)
	if err != nil {
		return fmt.Errorf("invalid logging-level configuration value %q: %w", level, err)
	}
	if LogBackendLvl == nil {
		InitializeLogging()
	}
	LogBackendLvl.SetLevel(lvl, "")
	return nil
}
