package http

// this is entry point of the local status API

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"

	"github.com/RapidPrime/ReferenceClient/internal/core/ports/primary"
	"github.com/RapidPrime/ReferenceClient/internal/core/services/status"
	"github.com/RapidPrime/ReferenceClient/internal/handlers"
	"github.com/RapidPrime/ReferenceClient/internal/handlers/miners"
)

type ServiceProvider struct {
	statusService status.IStatusService
	verifier      primary.TokenVerifier
}

// NewServiceProvider bundles what the routes need. A nil verifier serves
// the API without authentication.
func NewServiceProvider(statusService status.IStatusService, verifier primary.TokenVerifier) *ServiceProvider {
	return &ServiceProvider{
		statusService: statusService,
		verifier:      verifier,
	}
}

type Server struct {
	router          *mux.Router
	Address         string
	ServiceName     string
	ServiceProvider ServiceProvider
	logger          primary.Logger

	mu       sync.Mutex
	srv      *http.Server
	listener net.Listener
}

func NewServer(address string, serviceName string, serviceProvider ServiceProvider, logger primary.Logger) *Server {
	return &Server{
		Address:         address,
		ServiceName:     serviceName,
		ServiceProvider: serviceProvider,
		logger:          logger,
	}
}

func (s *Server) Init() error {
	if s.ServiceProvider.statusService == nil {
		return fmt.Errorf("status service is required")
	}
	r := mux.NewRouter()
	r.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		handlers.ResponseWithJson(w, http.StatusOK, map[string]string{"service": s.ServiceName, "status": "ok"})
	}).Methods("GET")

	api := r.PathPrefix("/").Subrouter()
	if s.ServiceProvider.verifier != nil {
		api.Use(handlers.New(s.ServiceProvider.verifier, s.logger).JWTMiddleware)
	}
	miners.NewHandler(s.ServiceProvider.statusService).Register(api)
	s.router = r
	return nil
}

// Handler is the initialized router
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start binds the listen address and serves in the background
func (s *Server) Start(ctx context.Context) error {
	if s.router == nil {
		return fmt.Errorf("server not initialized")
	}
	lc := net.ListenConfig{}
	ln, err := lc.Listen(ctx, "tcp", s.Address)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.Address, err)
	}
	srv := &http.Server{
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
		BaseContext:  func(net.Listener) context.Context { return ctx },
	}

	s.mu.Lock()
	s.srv = srv
	s.listener = ln
	s.mu.Unlock()

	go func() {
		s.logger.Info("Status API listening", "addr", ln.Addr().String())
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("Status API error", "error", err)
		}
	}()
	return nil
}

// Addr is the bound address, or "" before Start
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

func (s *Server) Stop(ctx context.Context) error {
	s.mu.Lock()
	srv := s.srv
	s.mu.Unlock()
	if srv == nil {
		return nil
	}
	s.logger.Info("Shutting down status API...")
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("status API shutdown: %w", err)
	}
	return nil
}
