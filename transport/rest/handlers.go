package rest

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/roomkit/tictactoe-rooms/internal/apperror"
)

func (that *Server) pingHandler(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("pong")); err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
}

func (that *Server) roomHandler(w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "roomHandler")

	code := chi.URLParam(r, "code")

	room, err := that.rooms.GameState(r.Context(), code)
	if errors.Is(err, apperror.ErrRoomNotFound) {
		http.Error(w, "room not found", http.StatusNotFound)
		return
	}

	if err != nil {
		log.Error("failed to get room snapshot", "code", code, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err = json.NewEncoder(w).Encode(room); err != nil {
		log.Error("failed to encode room snapshot", "code", code, "error", err)
	}
}
