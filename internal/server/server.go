// Package server is the linked-role HTTP surface: it starts the OAuth flow,
// stores the resulting tokens and pushes role-connection metadata on demand.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/goliatone/go-roleconnections/internal/metrics"
	"github.com/goliatone/go-roleconnections/internal/tokenstore"
	"github.com/goliatone/go-roleconnections/pkg/client"
	"github.com/goliatone/go-roleconnections/pkg/metadata"
	"github.com/goliatone/go-roleconnections/pkg/oauth"
)

// Routes served by Handler.
const (
	RouteLinkedRole     = "/linked-role"
	RouteOAuthCallback  = "/discord-oauth-callback"
	RouteUpdateMetadata = "/update-metadata"
	RouteMetrics        = "/metrics"
	RouteHealth         = "/healthz"
)

// DefaultSuccessURL is where the callback sends the browser once linked.
const DefaultSuccessURL = "https://discord.com/app"

// DefaultStateTTL bounds how long a consent round trip may take.
const DefaultStateTTL = 10 * time.Minute

// PlatformClient is the subset of *client.Client the server calls.
type PlatformClient interface {
	Definition() *metadata.Definition
	AuthorizationURL(extra ...oauth.Scope) (string, string, error)
	ExchangeCode(ctx context.Context, code string) (oauth.Token, error)
	RefreshToken(ctx context.Context, token oauth.Token) (oauth.Token, error)
	CurrentAuthorization(ctx context.Context, token oauth.Token) (client.Authorization, error)
	PushMetadata(ctx context.Context, token oauth.Token, inst *metadata.Instance) (*metadata.Instance, error)
}

var _ PlatformClient = (*client.Client)(nil)

// Config wires the server's collaborators.
type Config struct {
	Client PlatformClient
	Store  tokenstore.Store

	// Values may be nil; /update-metadata then answers 404 for every user.
	Values ValuesProvider

	CookieSecret []byte
	StateTTL     time.Duration
	CookieSecure bool
	SuccessURL   string

	Logger  zerolog.Logger
	Metrics *metrics.Metrics
	Now     func() time.Time
}

// Server handles the linked-role routes.
type Server struct {
	client       PlatformClient
	store        tokenstore.Store
	values       ValuesProvider
	state        stateSigner
	cookieSecure bool
	successURL   string
	logger       zerolog.Logger
	metrics      *metrics.Metrics
	now          func() time.Time
}

// New validates cfg and returns a Server.
func New(cfg Config) (*Server, error) {
	if cfg.Client == nil {
		return nil, errors.New("server: platform client is required")
	}
	if cfg.Store == nil {
		return nil, errors.New("server: token store is required")
	}
	if len(cfg.CookieSecret) == 0 {
		return nil, errors.New("server: cookie secret is required")
	}
	if cfg.StateTTL <= 0 {
		cfg.StateTTL = DefaultStateTTL
	}
	if cfg.SuccessURL == "" {
		cfg.SuccessURL = DefaultSuccessURL
	}
	if cfg.Metrics == nil {
		cfg.Metrics = metrics.New()
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Values == nil {
		cfg.Values = ValuesFunc(func(context.Context, string) (metadata.Identity, map[string]any, error) {
			return metadata.Identity{}, nil, ErrUnknownUser
		})
	}

	return &Server{
		client:       cfg.Client,
		store:        cfg.Store,
		values:       cfg.Values,
		state:        stateSigner{secret: cfg.CookieSecret, ttl: cfg.StateTTL, now: cfg.Now},
		cookieSecure: cfg.CookieSecure,
		successURL:   cfg.SuccessURL,
		logger:       cfg.Logger,
		metrics:      cfg.Metrics,
		now:          cfg.Now,
	}, nil
}

// Handler returns the routed handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.observe)
	r.Use(middleware.Recoverer)

	r.Get(RouteLinkedRole, s.handleLinkedRole)
	r.Get(RouteOAuthCallback, s.handleOAuthCallback)
	r.Post(RouteUpdateMetadata, s.handleUpdateMetadata)
	r.Get(RouteHealth, s.handleHealth)
	r.Method(http.MethodGet, RouteMetrics, s.metrics.Handler())
	return r
}

// ListenAndServe serves Handler on addr until ctx is cancelled, then shuts
// down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", addr).Msg("linked-role server listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	s.logger.Info().Msg("shutting down linked-role server")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return nil
}
