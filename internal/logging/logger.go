package logging

import (
	"log/slog"
	"os"
	"strings"
)

const serviceName = "buscapatitas-api"

// StdoutHandler returns the JSON stdout handler tagged with the service
// name. LOG_LEVEL=debug lowers the threshold; anything else means info.
func StdoutHandler() slog.Handler {
	level := slog.LevelInfo
	if strings.EqualFold(os.Getenv("LOG_LEVEL"), "debug") {
		level = slog.LevelDebug
	}
	h := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	return h.WithAttrs([]slog.Attr{slog.String("service", serviceName)})
}

// Setup installs the stdout handler as the global logger. The database
// sink is attached later in boot, once a connection exists.
func Setup() {
	slog.SetDefault(slog.New(StdoutHandler()))
}
