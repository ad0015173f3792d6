// file: logger/logger.go

package logger

import (
	"go-account-api/config"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Log is the process-wide logger. It is usable before Init is called.
var Log = logrus.New()

// Init configures Log from config.AppConfig.Log. Unknown levels fall back to info.
func Init() {
	cfg := config.AppConfig.Log

	Log.SetOutput(os.Stdout)

	if strings.EqualFold(cfg.Format, "json") {
		Log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		Log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	Log.SetLevel(level)
}
