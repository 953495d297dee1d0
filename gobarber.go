package gobarber

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/aretw0/gobarber/internal/config"
	"github.com/aretw0/gobarber/internal/logging"
	apihttp "github.com/aretw0/gobarber/pkg/adapters/http"
	"github.com/aretw0/gobarber/pkg/booking"
	"github.com/aretw0/gobarber/pkg/domain"
	"github.com/aretw0/gobarber/pkg/persistence/middleware"
	"github.com/aretw0/gobarber/pkg/ports"
	"github.com/aretw0/gobarber/pkg/session"
	"github.com/prometheus/client_golang/prometheus"
)

// Version is set at build time.
var Version = "dev"

// Client is the high-level entry point: a session manager, its store and the
// booking service sharing one API client.
type Client struct {
	Session *session.Manager
	Booking *booking.Service
	API     *apihttp.Client
	Store   ports.KeyValueStore

	cfg        config.Config
	logger     *slog.Logger
	hooks      domain.LifecycleHooks
	registerer prometheus.Registerer
	httpClient *http.Client
	store      ports.KeyValueStore
	closeStore func() error
}

// Option defines a functional option for configuring the Client.
type Option func(*Client)

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithLifecycleHooks registers observability hooks on the session manager.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(c *Client) {
		c.hooks = hooks
	}
}

// WithStore injects a KeyValueStore, bypassing the configured driver.
// The caller keeps ownership of the store.
func WithStore(store ports.KeyValueStore) Option {
	return func(c *Client) {
		c.store = store
	}
}

// WithHTTPClient sets the transport used for API calls.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithRegisterer enables Prometheus metrics for the store and the session.
func WithRegisterer(reg prometheus.Registerer) Option {
	return func(c *Client) {
		c.registerer = reg
	}
}

// New wires a Client from the configuration.
func New(cfg config.Config, opts ...Option) (*Client, error) {
	c := &Client{cfg: cfg}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = logging.NewNop()
	}

	store := c.store
	c.closeStore = func() error { return nil }
	if store == nil {
		var err error
		store, c.closeStore, err = cfg.Store.OpenStore()
		if err != nil {
			return nil, fmt.Errorf("failed to open %s store: %w", cfg.Store.Driver, err)
		}
	}

	// Keys are redacted in store logs: the token key carries a bearer credential.
	mws := []middleware.Middleware{
		middleware.NewLoggingMiddleware(c.logger.With("component", "store"), []string{`token$`}),
	}
	var sessionMetrics *session.Metrics
	if c.registerer != nil {
		mws = append(mws, middleware.NewMetricsMiddleware(middleware.NewStoreMetrics(c.registerer)))
		sessionMetrics = session.NewMetrics(c.registerer)
	}
	c.Store = middleware.Chain(store, mws...)

	// The API client reads the token lazily from the manager built below.
	apiOpts := []apihttp.Option{
		apihttp.WithLogger(c.logger.With("component", "api")),
		apihttp.WithUserAgent("gobarber-cli/" + Version),
		apihttp.WithTokenSource(ports.TokenFunc(func() (string, bool) {
			if c.Session == nil {
				return "", false
			}
			return c.Session.Token()
		})),
	}
	if c.httpClient != nil {
		apiOpts = append(apiOpts, apihttp.WithHTTPClient(c.httpClient))
	}
	if cfg.API.Timeout > 0 {
		apiOpts = append(apiOpts, apihttp.WithTimeout(cfg.API.Timeout))
	}
	api, err := apihttp.NewClient(cfg.API.URL, apiOpts...)
	if err != nil {
		_ = c.closeStore()
		return nil, err
	}
	c.API = api

	sessOpts := []session.Option{
		session.WithLogger(c.logger.With("component", "session")),
		session.WithLifecycleHooks(c.hooks),
		session.WithMetrics(sessionMetrics),
	}
	if cfg.Session.KeyPrefix != "" {
		sessOpts = append(sessOpts, session.WithKeyPrefix(cfg.Session.KeyPrefix))
	}
	if cfg.Session.SingleFlight {
		sessOpts = append(sessOpts, session.WithSingleFlight())
	}
	c.Session = session.NewManager(c.Store, api, sessOpts...)
	c.Booking = booking.NewService(api, booking.WithLogger(c.logger.With("component", "booking")))

	return c, nil
}

// Start restores the persisted session and waits for it to settle.
func (c *Client) Start(ctx context.Context) (domain.Snapshot, error) {
	c.Session.Restore(ctx)
	if err := c.Session.Wait(ctx); err != nil {
		return domain.Snapshot{}, err
	}
	return c.Session.Snapshot(), nil
}

// Close tears down the session manager and releases the store.
func (c *Client) Close() error {
	c.Session.Close()
	return c.closeStore()
}
