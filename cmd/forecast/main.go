/*
main.go - Command-line entry point

PURPOSE:
  One binary for both ways of using the forecast engine:
  batch runs from a workbook, and the HTTP service.

COMMANDS:
  forecast run    --input inputs.xlsx --output ledger.csv
                  [--format csv|xlsx|json] [--sqlite runs.db] [--workers N]
  forecast serve  [--port 8080] [--sqlite runs.db]

CONFIGURATION (lowest to highest precedence):
  1. Built-in defaults
  2. forecast.yaml (or --config path)
  3. FORECAST_* environment variables, after .env is loaded
  4. Command-line flags

ENVIRONMENT:
  LOG_LEVEL   logrus level applied before anything else runs
  FORECAST_*  see config/config.go

SEE ALSO:
  - config/config.go: Configuration keys
  - api/server.go: Routes served by "serve"
*/
package main

import (
	"os"

	log "github.com/sirupsen/logrus"
)

func init() {
	level := os.Getenv("LOG_LEVEL")
	if level != "" {
		logrusLevel, err := log.ParseLevel(level)
		if err != nil {
			log.Fatal(err)
		}
		log.SetLevel(logrusLevel)
	} else {
		log.SetLevel(log.InfoLevel)
	}
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
