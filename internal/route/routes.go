package route

import (
	"net/http"
	"strings"

	"github.com/CavaJ/ImagingInterview/internal/handler"
	"github.com/CavaJ/ImagingInterview/internal/logger"
	"github.com/CavaJ/ImagingInterview/internal/middleware"
	hub "github.com/CavaJ/ImagingInterview/internal/service/websocket"
)

// SetupRoutes registers the event stream, run history and log endpoints and
// wraps the mux with request logging. history may be nil when no ledger is
// configured.
func SetupRoutes(hubService *hub.HubService, history handler.RunHistory, logger *logger.Logger) http.Handler {
	mux := http.NewServeMux()

	// API endpoints
	mux.HandleFunc("/api/events", handler.EventsWebsocketHandler(hubService, logger))
	if history != nil {
		mux.HandleFunc("/api/runs", handler.ListRunsHandler(history, logger))
		mux.HandleFunc("/api/runs/events", handler.RunEventsHandler(history, logger))
	}

	// Log endpoints
	for _, file := range handler.LogFiles {
		name := strings.TrimSuffix(file, ".log")
		mux.HandleFunc("/logs/"+name, handler.ShowLogHandler(logger, file))
		mux.HandleFunc("/logs/"+name+"/clear", handler.ClearLogHandler(logger, file))
	}

	return middleware.LoggingMiddleware(logger, mux)
}
