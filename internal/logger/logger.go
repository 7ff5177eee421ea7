// Package logger configures the process-wide logrus logger from environment.
package logger

import (
	"os"
	"strings"

	// Load env
	_ "github.com/joho/godotenv/autoload"
	log "github.com/sirupsen/logrus"
)

// Setup applies LOG_LEVEL and LOG_FORMAT to the standard logrus logger.
// Unknown values fall back to info level and text format.
func Setup() {
	level, err := log.ParseLevel(os.Getenv("LOG_LEVEL"))
	if err != nil {
		level = log.InfoLevel
	}
	log.SetLevel(level)

	if strings.EqualFold(os.Getenv("LOG_FORMAT"), "json") {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}

	log.SetOutput(os.Stdout)
}
