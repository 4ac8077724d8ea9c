// Package httpapi exposes a local control surface for a running bot.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/bnema/pcg-autocatch/internal/domain"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

const (
	maxBodyBytes    = 1 << 16
	shutdownTimeout = 5 * time.Second
)

type Controller interface {
	State() domain.SessionState
	SetMode(ctx context.Context, mode domain.BotMode) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
}

type SnapshotReader interface {
	Snapshot() domain.GameSnapshot
}

type SpawnReader interface {
	Record() *domain.SpawnRecord
}

type SettingsStore interface {
	Current() domain.CatchSettings
	Update(ctx context.Context, settings domain.CatchSettings) error
}

type Deps struct {
	Controller Controller
	Snapshots  SnapshotReader
	Spawns     SpawnReader
	Settings   SettingsStore
}

type handler struct {
	deps   Deps
	logger zerolog.Logger
}

func NewHandler(deps Deps, logger zerolog.Logger) http.Handler {
	h := &handler{deps: deps, logger: logger.With().Str("component", "control").Logger()}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(h.logRequests)

	r.Get("/status", h.handleStatus)
	r.Get("/snapshot", h.handleSnapshot)
	r.Get("/spawn", h.handleSpawn)
	r.Post("/mode", h.handleMode)
	r.Post("/login", h.handleLogin)
	r.Post("/logout", h.handleLogout)
	r.Get("/settings", h.handleGetSettings)
	r.Put("/settings", h.handlePutSettings)
	return r
}

// Serve listens on addr until ctx is done, then shuts down gracefully.
func Serve(ctx context.Context, addr string, handler http.Handler, logger zerolog.Logger) error {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", addr, err)
	}
	return serveListener(ctx, listener, handler, logger)
}

func serveListener(ctx context.Context, listener net.Listener, handler http.Handler, logger zerolog.Logger) error {
	server := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Serve(listener)
	}()
	logger.Info().Str("addr", listener.Addr().String()).Msg("control api listening")

	select {
	case err := <-errCh:
		return fmt.Errorf("serve control api: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown control api: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serve control api: %w", err)
	}
	return nil
}

func (h *handler) handleStatus(w http.ResponseWriter, _ *http.Request) {
	h.writeJSON(w, http.StatusOK, newStatusResponse(h.deps.Controller.State()))
}

func (h *handler) handleSnapshot(w http.ResponseWriter, _ *http.Request) {
	h.writeJSON(w, http.StatusOK, newSnapshotResponse(h.deps.Snapshots.Snapshot()))
}

func (h *handler) handleSpawn(w http.ResponseWriter, _ *http.Request) {
	record := h.deps.Spawns.Record()
	if record == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	h.writeJSON(w, http.StatusOK, newSpawnResponse(*record))
}

func (h *handler) handleMode(w http.ResponseWriter, r *http.Request) {
	var req modeRequest
	if !h.decode(w, r, &req) {
		return
	}
	mode, err := domain.ParseBotMode(req.Mode)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err)
		return
	}
	h.post(w, r, func(ctx context.Context) error {
		return h.deps.Controller.SetMode(ctx, mode)
	})
}

func (h *handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	h.post(w, r, h.deps.Controller.Login)
}

func (h *handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	h.post(w, r, h.deps.Controller.Logout)
}

func (h *handler) handleGetSettings(w http.ResponseWriter, _ *http.Request) {
	h.writeJSON(w, http.StatusOK, newSettingsPayload(h.deps.Settings.Current()))
}

func (h *handler) handlePutSettings(w http.ResponseWriter, r *http.Request) {
	var payload settingsPayload
	if !h.decode(w, r, &payload) {
		return
	}
	settings, err := payload.toDomain(h.deps.Settings.Current())
	if err == nil {
		err = h.deps.Settings.Update(r.Context(), settings)
	}
	switch {
	case errors.Is(err, domain.ErrInvalidSettings):
		h.writeError(w, http.StatusUnprocessableEntity, err)
	case err != nil:
		h.logger.Error().Err(err).Msg("update settings")
		h.writeError(w, http.StatusInternalServerError, err)
	default:
		h.writeJSON(w, http.StatusOK, newSettingsPayload(h.deps.Settings.Current()))
	}
}

// post hands a request to the supervisor inbox; the effect is asynchronous.
func (h *handler) post(w http.ResponseWriter, r *http.Request, send func(context.Context) error) {
	if err := send(r.Context()); err != nil {
		h.writeError(w, http.StatusServiceUnavailable, err)
		return
	}
	h.writeJSON(w, http.StatusAccepted, newStatusResponse(h.deps.Controller.State()))
}

func (h *handler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		h.writeError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return false
	}
	return true
}

func (h *handler) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.logger.Debug().Err(err).Msg("write response")
	}
}

func (h *handler) writeError(w http.ResponseWriter, status int, err error) {
	h.writeJSON(w, status, errorResponse{Error: err.Error()})
}

func (h *handler) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		h.logger.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("elapsed", time.Since(start)).
			Msg("control request")
	})
}
