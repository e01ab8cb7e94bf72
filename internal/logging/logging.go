// Package logging configures the process-wide logger. Everything goes to
// stderr: stdout belongs to the MCP stdio transport and must stay clean.
package logging

import (
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Setup initializes the global logger. Call once, before any component
// starts logging.
func Setup(debug bool) {
	logrus.SetOutput(os.Stderr)
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "15:04:05",
	})
	if debug {
		logrus.SetLevel(logrus.DebugLevel)
	} else {
		logrus.SetLevel(logrus.InfoLevel)
	}
}

// Component returns a logger entry tagged with a component name.
func Component(name string) *logrus.Entry {
	return logrus.WithField("component", name)
}

// mcpLevels maps MCP logging levels to their closest logrus equivalent.
// MCP has notice/alert/emergency, which logrus doesn't — they collapse
// onto the nearest severity.
var mcpLevels = map[string]logrus.Level{
	"debug":     logrus.DebugLevel,
	"info":      logrus.InfoLevel,
	"notice":    logrus.InfoLevel,
	"warning":   logrus.WarnLevel,
	"error":     logrus.ErrorLevel,
	"critical":  logrus.FatalLevel,
	"alert":     logrus.FatalLevel,
	"emergency": logrus.FatalLevel,
}

// SetMCPLevel applies an MCP logging/setLevel request to the global
// logger. Unknown levels fall back to info.
func SetMCPLevel(level string) {
	lvl, ok := mcpLevels[strings.ToLower(level)]
	if !ok {
		lvl = logrus.InfoLevel
	}
	logrus.SetLevel(lvl)
}
