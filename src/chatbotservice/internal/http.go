package internal

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/Sudharsan1-5/SudharsanBuilds/internal/platform"
)

const allowHeaders = "Content-Type, Authorization, X-Client-Info, Apikey"

func NewHandler(s *ChatbotService) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /ai-chatbot", s.handleChat)
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})

	return platform.CORS(allowHeaders)(mux)
}

func (x *ChatbotService) handleChat(w http.ResponseWriter, r *http.Request) {

	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		platform.WriteJSON(w, http.StatusBadRequest, map[string]string{"error": errInvalidBody.Error()})
		return
	}

	if req.EnableStreaming {
		x.handleStream(w, r, &req)
		return
	}

	res, err := x.Chat(r.Context(), &req)
	if err != nil {
		writeChatError(w, err, false)
		return
	}

	platform.WriteJSON(w, http.StatusOK, res)
}

func (x *ChatbotService) handleStream(w http.ResponseWriter, r *http.Request, req *ChatRequest) {

	stream, err := x.Stream(r.Context(), req)
	if err != nil {
		writeChatError(w, err, true)
		return
	}
	defer stream.Close()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	flusher, _ := w.(http.Flusher)
	for chunk, err := range stream.Chunks() {
		if err != nil {
			logGeminiError("gemini stream interrupted", err)
			return
		}

		data, err := json.Marshal(chunk)
		if err != nil {
			slog.Error("encode stream chunk", "err", err)
			return
		}
		if _, err := fmt.Fprintf(w, "data: %s\n\n", data); err != nil {
			slog.Warn("client went away during stream", "err", err)
			return
		}
		if flusher != nil {
			flusher.Flush()
		}
	}
}

// Plain errors keep the short {"error": "..."} body; relay failures get
// the categorised body.
func writeChatError(w http.ResponseWriter, err error, streaming bool) {
	switch {
	case errors.Is(err, errEmptyMessage):
		platform.WriteJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	case errors.Is(err, errNotConfigured), errors.Is(err, errNoCandidates):
		platform.WriteJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
	default:
		ce := classifyError(err, streaming)
		platform.WriteJSON(w, ce.Status, ce)
	}
}
