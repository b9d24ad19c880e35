// Package logger configures logrus for the portal and provides the fields
// used to trace calls to the REST collaborators.
package logger

import (
	"io"
	"os"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
)

// Init sets the level and formatter of the standard logrus logger.
func Init(level, format string) {
	InitWithOutput(level, format, os.Stdout)
}

// InitWithOutput is Init writing to out.
func InitWithOutput(level, format string, out io.Writer) {
	lvl, err := log.ParseLevel(strings.ToLower(level))
	if err != nil {
		lvl = log.InfoLevel
	}
	log.SetLevel(lvl)
	log.SetOutput(out)

	if strings.ToLower(format) == "json" {
		log.SetFormatter(&log.JSONFormatter{TimestampFormat: time.RFC3339})
		return
	}
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true, TimestampFormat: time.RFC3339})
}

// ExternalCall logs an outgoing request to a collaborator at debug level and
// returns the entry to reuse for the result.
func ExternalCall(service, method, url string) *log.Entry {
	entry := log.WithFields(log.Fields{
		"service": service,
		"method":  method,
		"url":     url,
	})
	entry.Debug("calling backend")
	return entry
}

// ExternalResult logs the outcome of a call started with ExternalCall.
func ExternalResult(entry *log.Entry, status int, started time.Time, err error) {
	entry = entry.WithFields(log.Fields{
		"status":      status,
		"duration_ms": time.Since(started).Milliseconds(),
	})
	switch {
	case err != nil:
		entry.WithError(err).Warn("backend call failed")
	case status >= 400:
		entry.Warn("backend returned an error status")
	default:
		entry.Debug("backend call completed")
	}
}
