package rest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/roomkit/tictactoe-rooms/internal/entity"
)

type roomReader interface {
	GameState(ctx context.Context, code string) (*entity.Room, error)
}

type Server struct {
	logger *slog.Logger
	rooms  roomReader
}

func New(logger *slog.Logger, rooms roomReader) *Server {
	return &Server{
		logger: logger.With("component", "rest"),
		rooms:  rooms,
	}
}

// Router exposes the read-only HTTP surface: a health check and a room
// snapshot endpoint for debugging.
func (that *Server) Router() http.Handler {
	router := chi.NewRouter()

	router.Get("/ping", that.pingHandler)
	router.Get("/rooms/{code}", that.roomHandler)

	return router
}

func (that *Server) Start(ctx context.Context, port string) error {
	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      that.Router(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  30 * time.Second,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		_ = srv.Shutdown(shutdownCtx)
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}
