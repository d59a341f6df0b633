package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/hazyhaar/taskchat/pkg/chat"
	"github.com/hazyhaar/taskchat/pkg/kit"
)

// DefaultOrigins are the browser origins allowed when no cors_origins are
// configured: the local frontend dev servers.
var DefaultOrigins = []string{
	"http://localhost:3000",
	"http://127.0.0.1:3000",
}

// NewRouter returns an http.Handler with all taskchat API routes.
func NewRouter(res *chat.Resolver, logger *slog.Logger, origins []string) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}
	if len(origins) == 0 {
		origins = DefaultOrigins
	}
	h := &handler{
		chat:   kit.Chain(kit.Logging(logger, "chat"))(chatEndpoint(res)),
		root:   rootEndpoint(),
		health: healthEndpoint(),
		logger: logger,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", h.handleRoot)
	mux.HandleFunc("GET /health", h.handleHealth)
	mux.HandleFunc("GET /api/{user_id}/chat", methodNotAllowed) // chat is POST only
	mux.HandleFunc("POST /api/{user_id}/chat", h.handleChat)

	return cors(origins, mux)
}

type handler struct {
	chat   kit.Endpoint
	root   kit.Endpoint
	health kit.Endpoint
	logger *slog.Logger
}

// --- chat ---

type httpChatRequest struct {
	// Message is a pointer so a missing field can be told apart from an
	// empty message; an empty message is valid and yields the help reply.
	Message        *string `json:"message"`
	ConversationID int64   `json:"conversation_id"`
}

func (h *handler) handleChat(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("user_id")
	if userID == "" {
		writeError(w, http.StatusBadRequest, "missing user_id")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, 64*1024) // 64 KiB max
	var req httpChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Message == nil {
		writeError(w, http.StatusBadRequest, "message is required")
		return
	}

	ctx := kit.WithUserID(r.Context(), userID)
	ctx = kit.WithRequestID(ctx, uuid.NewString())
	resp, err := h.chat(ctx, &chatRequest{
		UserID:         userID,
		Message:        *req.Message,
		ConversationID: req.ConversationID,
	})
	if err != nil {
		h.logger.Error("chat request failed", "user_id", userID, "error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// --- root and health ---

func (h *handler) handleRoot(w http.ResponseWriter, r *http.Request) {
	resp, err := h.root(r.Context(), nil)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp, err := h.health(r.Context(), nil)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// --- helpers ---

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

// writeError matches the {"detail": ...} error envelope the frontend
// already consumes.
func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"detail": msg})
}

func methodNotAllowed(w http.ResponseWriter, _ *http.Request) {
	writeError(w, http.StatusMethodNotAllowed, "method not allowed")
}

// cors allows the configured browser origins to call the API. The matched
// origin is echoed back so credentialed requests work.
func cors(origins []string, next http.Handler) http.Handler {
	allowed := make(map[string]bool, len(origins))
	for _, o := range origins {
		allowed[o] = true
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if origin := r.Header.Get("Origin"); origin != "" && allowed[origin] {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Add("Vary", "Origin")
		}
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
