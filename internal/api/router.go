// internal/api/router.go
package api

import "net/http"

func RegisterRoutes(mux *http.ServeMux, h *Handler) {
	mux.HandleFunc("GET /health", h.health)

	// Catalog
	mux.HandleFunc("GET /subjects", h.listSubjects)
	mux.HandleFunc("GET /questions", h.listQuestions)

	// Sessions
	mux.HandleFunc("POST /sessions", h.createSession)
	mux.HandleFunc("GET /sessions/{sessionID}", h.getSession)
	mux.HandleFunc("DELETE /sessions/{sessionID}", h.closeSession)
	mux.HandleFunc("POST /sessions/{sessionID}/next", h.nextQuestion)
	mux.HandleFunc("POST /sessions/{sessionID}/prev", h.prevQuestion)
	mux.HandleFunc("POST /sessions/{sessionID}/select", h.selectOption)
	mux.HandleFunc("POST /sessions/{sessionID}/strike", h.strikeOption)
	mux.HandleFunc("POST /sessions/{sessionID}/collect", h.toggleCollect)
	mux.HandleFunc("DELETE /sessions/{sessionID}/current", h.deleteCurrent)

	// Sub-questions of exam entries
	mux.HandleFunc("POST /sessions/{sessionID}/sub/next", h.nextSub)
	mux.HandleFunc("POST /sessions/{sessionID}/sub/prev", h.prevSub)
	mux.HandleFunc("POST /sessions/{sessionID}/sub/select", h.selectSubOption)
	mux.HandleFunc("POST /sessions/{sessionID}/sub/strike", h.strikeSubOption)
	mux.HandleFunc("POST /sessions/{sessionID}/sub/reveal", h.revealAnswer)
	mux.HandleFunc("DELETE /sessions/{sessionID}/current/sub", h.deleteCurrentSub)
}

// health reports liveness.
// @Summary      Health check
// @Tags         System
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /health [get]
func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
