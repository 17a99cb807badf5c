package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/eskrenkovic/tictactoe-sessions/internal/config"
	"github.com/eskrenkovic/mediator-go"
	"github.com/eskrenkovic/tictactoe-sessions/internal/modules/core"
	gamesession "github.com/eskrenkovic/tictactoe-sessions/internal/modules/game-session"
	"github.com/eskrenkovic/tictactoe-sessions/internal/modules/game-session/events"
	"github.com/eskrenkovic/tictactoe-sessions/internal/modules/game-session/store"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

type Server interface {
	Start() error
	Stop() error
}

var _ Server = &HTTPServer{}

// HTTPServer acts as the composition root for an application. Handlers are
// registered with the process wide mediator, so only one HTTPServer can be
// built per process.
type HTTPServer struct {
	server *http.Server
	store  store.Store
	logger *zap.Logger
}

func NewHTTPServer(config config.Config) (*HTTPServer, error) {
	baseCtx := context.Background()

	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	s, err := openStore(baseCtx, config)
	if err != nil {
		return nil, err
	}

	// handler registration

	hub := events.NewHub(logger)
	if err := gamesession.RegisterHandlers(s, hub); err != nil {
		_ = s.Close()
		return nil, err
	}

	requestLoggingBehavior := core.RequestLoggingBehavior{Logger: logger}
	handlerErrorLoggingBehavior := core.HandlerErrorLoggingBehavior{Logger: logger}
	requestValidationBehavior := core.RequestValidationBehavior{}

	mediator.RegisterPipelineBehavior(&requestLoggingBehavior)
	mediator.RegisterPipelineBehavior(&handlerErrorLoggingBehavior)
	mediator.RegisterPipelineBehavior(&requestValidationBehavior)

	// http

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(core.CorrelationIDHTTPMiddleware(logger))
	r.Use(core.PrincipalHTTPMiddleware)

	gamesession.RegisterRoutes(r, gamesession.NewGameSessionHTTPHandler(hub))

	server := http.Server{
		Addr:    net.JoinHostPort("", strconv.Itoa(config.Port)),
		Handler: r,
		BaseContext: func(net.Listener) context.Context {
			return baseCtx
		},
	}

	return &HTTPServer{server: &server, store: s, logger: logger}, nil
}

// Handler exposes the routed handler, mainly for httptest.
func (s *HTTPServer) Handler() http.Handler {
	return s.server.Handler
}

func (s *HTTPServer) Start() error {
	s.logger.Info("starting server", zap.String("addr", s.server.Addr))

	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}

// Stop drains in-flight requests before closing the store.
func (s *HTTPServer) Stop() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	shutdownErr := s.server.Shutdown(ctx)
	closeErr := s.store.Close()

	return errors.Join(shutdownErr, closeErr)
}

func openStore(ctx context.Context, conf config.Config) (store.Store, error) {
	switch conf.StorageDriver {
	case "", config.MemoryDriver:
		return store.NewMemoryStore(), nil
	case config.SQLiteDriver:
		return store.OpenSQLite(ctx, conf.SQLitePath)
	case config.PostgresDriver:
		return store.OpenPostgres(ctx, conf.DatabaseURL)
	default:
		return nil, fmt.Errorf("unknown storage driver '%s'", conf.StorageDriver)
	}
}
