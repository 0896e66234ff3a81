package engine

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"binary-signal-bot-go/internal/assets"
	"binary-signal-bot-go/internal/auth"
	"binary-signal-bot-go/internal/ledger"
	"binary-signal-bot-go/internal/models"
	"binary-signal-bot-go/internal/quota"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// APIServer exposes the engine and its collaborators over HTTP. It stands
// in for the original UI shell: every panel action maps to an endpoint.
type APIServer struct {
	server  *http.Server
	engine  *Engine
	auth    *auth.Service
	trades  *ledger.Ledger
	logger  *zap.Logger
	limiter *rate.Limiter
}

// NewAPIServer creates an APIServer listening on the configured port.
// Mutating endpoints share a single rate limiter.
func NewAPIServer(engine *Engine, authSvc *auth.Service, trades *ledger.Ledger, logger *zap.Logger) *APIServer {
	s := &APIServer{
		engine:  engine,
		auth:    authSvc,
		trades:  trades,
		logger:  logger.Named("api-server"),
		limiter: rate.NewLimiter(rate.Limit(engine.cfg.Signals.RateLimit), engine.cfg.Signals.RateLimitBurst),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.healthHandler)
	mux.HandleFunc("GET /status", s.statusHandler)
	mux.HandleFunc("GET /assets", s.assetsHandler)
	mux.HandleFunc("GET /signal", s.signalHandler)
	mux.HandleFunc("POST /signal/refresh", s.limited(s.refreshSignalHandler))
	mux.HandleFunc("POST /bonus", s.limited(s.bonusHandler))
	mux.HandleFunc("GET /trades", s.tradesHandler)
	mux.HandleFunc("POST /trades", s.logTradeHandler)
	mux.HandleFunc("DELETE /trades", s.clearTradesHandler)
	mux.HandleFunc("DELETE /trades/{id}", s.deleteTradeHandler)
	mux.HandleFunc("GET /profile", s.profileHandler)
	mux.HandleFunc("PUT /profile", s.updateProfileHandler)
	mux.HandleFunc("POST /auth/signin", s.signInHandler)
	mux.HandleFunc("POST /auth/signout", s.signOutHandler)
	mux.HandleFunc("POST /welcome/seen", s.welcomeSeenHandler)
	mux.HandleFunc("PUT /settings", s.settingsHandler)

	s.server = &http.Server{
		Addr:    fmt.Sprintf(":%d", engine.cfg.Server.Port),
		Handler: mux,
	}
	return s
}

// Start runs the HTTP server in a new goroutine.
func (s *APIServer) Start() {
	s.logger.Info("Starting API server", zap.String("address", s.server.Addr))
	go func() {
		if err := s.server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("API server failed", zap.Error(err))
		}
	}()
}

// Stop gracefully shuts down the server.
func (s *APIServer) Stop(ctx context.Context) error {
	s.logger.Info("Stopping API server...")
	return s.server.Shutdown(ctx)
}

// limited wraps a mutating handler with the shared rate limiter.
func (s *APIServer) limited(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !s.limiter.Allow() {
			http.Error(w, "too many requests", http.StatusTooManyRequests)
			return
		}
		next(w, r)
	}
}

func (s *APIServer) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("Failed to write response", zap.Error(err))
	}
}

// writeActionError maps engine gate errors to HTTP statuses.
func (s *APIServer) writeActionError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrOffline):
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
	case errors.Is(err, ErrQuotaExhausted), errors.Is(err, quota.ErrBonusCapReached):
		http.Error(w, err.Error(), http.StatusForbidden)
	case errors.Is(err, ErrNotRunning):
		http.Error(w, err.Error(), http.StatusUnauthorized)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (s *APIServer) healthHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	fmt.Fprintln(w, "OK")
}

func (s *APIServer) statusHandler(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.engine.Snapshot())
}

func (s *APIServer) assetsHandler(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, assets.All())
}

func (s *APIServer) signalHandler(w http.ResponseWriter, r *http.Request) {
	snap := s.engine.Snapshot()
	s.writeJSON(w, http.StatusOK, map[string]any{
		"asset":  snap.Asset,
		"signal": snap.Signal,
	})
}

func (s *APIServer) refreshSignalHandler(w http.ResponseWriter, r *http.Request) {
	if err := s.engine.ManualSignal(); err != nil {
		s.writeActionError(w, err)
		return
	}
	s.writeJSON(w, http.StatusAccepted, s.engine.Snapshot())
}

func (s *APIServer) bonusHandler(w http.ResponseWriter, r *http.Request) {
	if err := s.engine.ClaimBonusTrade(); err != nil {
		s.writeActionError(w, err)
		return
	}
	s.writeJSON(w, http.StatusAccepted, s.engine.Snapshot())
}

func (s *APIServer) tradesHandler(w http.ResponseWriter, r *http.Request) {
	items, err := s.trades.Recent()
	if err != nil {
		s.logger.Error("Failed to load trade history", zap.Error(err))
		http.Error(w, "failed to load trade history", http.StatusInternalServerError)
		return
	}
	s.writeJSON(w, http.StatusOK, items)
}

func (s *APIServer) logTradeHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Result string `json:"result"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	item, err := s.engine.LogResult(req.Result)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	s.writeJSON(w, http.StatusCreated, item)
}

func (s *APIServer) clearTradesHandler(w http.ResponseWriter, r *http.Request) {
	if err := s.trades.Clear(); err != nil {
		http.Error(w, "failed to clear trade history", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *APIServer) deleteTradeHandler(w http.ResponseWriter, r *http.Request) {
	if err := s.trades.Remove(r.PathValue("id")); err != nil {
		http.Error(w, "failed to delete trade", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *APIServer) profileHandler(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.auth.Profile())
}

func (s *APIServer) updateProfileHandler(w http.ResponseWriter, r *http.Request) {
	var req models.UserProfile
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	profile, err := s.auth.UpdateProfile(req)
	if err != nil {
		if errors.Is(err, auth.ErrUnknownPlan) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	s.writeJSON(w, http.StatusOK, profile)
}

func (s *APIServer) signInHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		auth.Credentials
		SignUp bool `json:"sign_up"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	profile, isNewUser, err := s.auth.SignIn(req.Credentials, req.SignUp)
	if err != nil {
		if errors.Is(err, auth.ErrMissingFields) || errors.Is(err, auth.ErrMissingName) {
			http.Error(w, err.Error(), http.StatusUnprocessableEntity)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	s.engine.SetAuthenticated(true)
	s.writeJSON(w, http.StatusOK, map[string]any{
		"profile":     profile,
		"is_new_user": isNewUser,
	})
}

func (s *APIServer) signOutHandler(w http.ResponseWriter, r *http.Request) {
	if err := s.auth.SignOut(); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	s.engine.SetAuthenticated(false)
	w.WriteHeader(http.StatusNoContent)
}

func (s *APIServer) welcomeSeenHandler(w http.ResponseWriter, r *http.Request) {
	if err := s.auth.MarkWelcomeSeen(); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *APIServer) settingsHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		AutoMode *bool   `json:"auto_mode"`
		Rotation *string `json:"rotation"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.AutoMode != nil {
		s.engine.SetAutoMode(*req.AutoMode)
	}
	if req.Rotation != nil {
		s.engine.SetRotation(assets.ParseRotation(*req.Rotation))
	}
	s.writeJSON(w, http.StatusOK, s.engine.Snapshot())
}
