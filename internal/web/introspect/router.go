// Package introspect serves a read-only HTTP view of a running kernel: the
// compiled module graph, run statistics and a websocket stream of log data.
package introspect

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/Bembelbots/BembelSoccer-sub000/internal/web/websocket"
	"github.com/Bembelbots/BembelSoccer-sub000/runtime/metadata"
	"github.com/Bembelbots/BembelSoccer-sub000/runtime/rt"
	"github.com/Bembelbots/BembelSoccer-sub000/runtime/tasks"
)

// Source is the kernel surface the router reads from.
type Source interface {
	State() rt.State
	Snapshot() metadata.GraphSnapshot
	Stats() []rt.ModuleStats
	TaskStats() []tasks.Stats
}

// StatsResponse is the body of GET /stats.
type StatsResponse struct {
	State   string           `json:"state"`
	Modules []rt.ModuleStats `json:"modules"`
	Tasks   []tasks.Stats    `json:"tasks,omitempty"`
}

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

type handlers struct {
	src    Source
	logger *zap.Logger
}

// NewRouter builds the introspection routes. /logdata is only mounted when
// hub is not nil.
func NewRouter(src Source, hub *websocket.Hub, logger *zap.Logger) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	h := &handlers{src: src, logger: logger}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(requestLogger(logger, "/logdata"))
	r.Use(recoverer(logger))

	r.Get("/modules", h.modules)
	r.Get("/graph", h.graph)
	r.Get("/graph.yaml", h.graphYAML)
	r.Get("/stats", h.stats)
	if hub != nil {
		r.Handle("/logdata", websocket.NewUpgrader(hub))
	}
	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		renderError(w, http.StatusNotFound, "not_found", "no such endpoint")
	})
	return r
}

func (h *handlers) modules(w http.ResponseWriter, _ *http.Request) {
	h.renderJSON(w, http.StatusOK, h.src.Snapshot().Modules)
}

func (h *handlers) graph(w http.ResponseWriter, _ *http.Request) {
	data, err := h.src.Snapshot().JSON()
	if err != nil {
		h.logger.Error("graph export failed", zap.Error(err))
		renderError(w, http.StatusInternalServerError, "internal_error", err.Error())
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

func (h *handlers) graphYAML(w http.ResponseWriter, _ *http.Request) {
	data, err := h.src.Snapshot().YAML()
	if err != nil {
		h.logger.Error("graph export failed", zap.Error(err))
		renderError(w, http.StatusInternalServerError, "internal_error", err.Error())
		return
	}
	w.Header().Set("Content-Type", "application/yaml; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

func (h *handlers) stats(w http.ResponseWriter, _ *http.Request) {
	h.renderJSON(w, http.StatusOK, StatsResponse{
		State:   h.src.State().String(),
		Modules: h.src.Stats(),
		Tasks:   h.src.TaskStats(),
	})
}

func (h *handlers) renderJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Warn("failed to write response", zap.Error(err))
	}
}

func renderError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(errorResponse{Error: code, Message: message})
}

// LogDataSink returns a function that broadcasts log data to the hub's
// clients.
func LogDataSink(hub *websocket.Hub, logger *zap.Logger) func(rt.LogData) {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(d rt.LogData) {
		msg, err := websocket.NewMessage(websocket.TypeLogData, d)
		if err != nil {
			logger.Debug("dropping unencodable log data", zap.String("type", d.Type), zap.Error(err))
			return
		}
		hub.Broadcast(msg)
	}
}
