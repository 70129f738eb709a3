// Package logging configures the process-wide logrus logger.
package logging

import (
	"fmt"
	"io"
	"strings"

	log "github.com/sirupsen/logrus"
)

// Setup applies level ("debug", "info", ...) and format ("text" or "json")
// to the standard logger and directs it to out.
func Setup(level, format string, out io.Writer) error {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("logging.Setup: %w", err)
	}

	switch strings.ToLower(format) {
	case "", "text":
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	case "json":
		log.SetFormatter(&log.JSONFormatter{})
	default:
		return fmt.Errorf("logging.Setup: unknown format %q", format)
	}

	log.SetLevel(lvl)
	if out != nil {
		log.SetOutput(out)
	}
	return nil
}
