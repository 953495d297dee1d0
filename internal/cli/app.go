package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/aretw0/gobarber"
	"github.com/aretw0/gobarber/internal/config"
	"github.com/aretw0/gobarber/internal/presentation/graph"
	"github.com/aretw0/gobarber/internal/presentation/tui"
	apihttp "github.com/aretw0/gobarber/pkg/adapters/http"
	"github.com/aretw0/gobarber/pkg/domain"
	"github.com/aretw0/gobarber/pkg/session"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// ErrNotSignedIn is returned by commands that need a session.
var ErrNotSignedIn = errors.New("not signed in; run `gobarber login` first")

// Options are the command line overrides applied on top of the loaded config.
type Options struct {
	ConfigPath string
	APIURL     string
	Store      string
	StorePath  string
	LogLevel   string
	Plain      bool // print markdown without terminal styling
	Debug      bool
}

// App runs CLI commands against a started gobarber.Client.
type App struct {
	Client *gobarber.Client

	out    io.Writer
	in     io.Reader
	logger *slog.Logger
	render func(string) (string, error)
	now    func() time.Time

	stopMetrics func()
}

// LoadConfig loads the configuration and applies the flag overrides.
func LoadConfig(opts Options) (config.Config, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return config.Config{}, err
	}
	if opts.APIURL != "" {
		cfg.API.URL = opts.APIURL
	}
	if opts.Store != "" {
		cfg.Store.Driver = opts.Store
	}
	if opts.StorePath != "" {
		cfg.Store.Path = opts.StorePath
	}
	if opts.LogLevel != "" {
		cfg.Log.Level = opts.LogLevel
	}
	if opts.Debug {
		cfg.Log.Level = "debug"
	}
	return cfg, cfg.Validate()
}

// Open builds the client from cfg and restores the persisted session.
func Open(ctx context.Context, cfg config.Config, opts Options, in io.Reader, out io.Writer, extra ...gobarber.Option) (*App, error) {
	logger, err := cfg.Log.Logger()
	if err != nil {
		return nil, err
	}

	app := &App{
		out:         out,
		in:          in,
		logger:      logger,
		render:      tui.NewRenderer(),
		now:         time.Now,
		stopMetrics: func() {},
	}
	if opts.Plain {
		app.render = func(md string) (string, error) { return md, nil }
	}

	clientOpts := []gobarber.Option{
		gobarber.WithLogger(logger),
		gobarber.WithLifecycleHooks(createDebugHooks(logger)),
	}
	if cfg.Metrics.Addr != "" {
		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector())
		clientOpts = append(clientOpts, gobarber.WithRegisterer(reg))
		app.stopMetrics = serveMetrics(cfg.Metrics.Addr, reg, logger)
	}
	clientOpts = append(clientOpts, extra...)

	client, err := gobarber.New(cfg, clientOpts...)
	if err != nil {
		app.stopMetrics()
		return nil, err
	}
	app.Client = client

	if _, err := client.Start(ctx); err != nil {
		_ = app.Close()
		return nil, err
	}
	return app, nil
}

// Close releases the client and stops the metrics listener.
func (a *App) Close() error {
	a.stopMetrics()
	if a.Client == nil {
		return nil
	}
	return a.Client.Close()
}

func (a *App) print(markdown string) error {
	out, err := a.render(markdown)
	if err != nil {
		return err
	}
	_, err = fmt.Fprint(a.out, out)
	return err
}

// Login signs in, prompting for the password when it is empty.
func (a *App) Login(ctx context.Context, email, password string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return errors.New("email is required")
	}
	if password == "" {
		var err error
		if password, err = readPassword(a.in, a.out); err != nil {
			return err
		}
	}

	err := a.Client.Session.SignIn(ctx, domain.Credentials{Email: email, Password: password})
	if err != nil {
		if apihttp.IsStatus(err, http.StatusUnauthorized) {
			return fmt.Errorf("authentication failed, check your credentials: %w", err)
		}
		return fmt.Errorf("sign in: %w", err)
	}

	name := email
	if u, ok := a.Client.Session.Consumer().User(); ok && u.Name != "" {
		name = u.Name
	}
	printSystemMessage(a.out, "Welcome, %s! %s", name, tui.Status("signed in", true))
	return nil
}

// Logout clears the session. It never fails.
func (a *App) Logout(ctx context.Context) {
	a.Client.Session.SignOut(ctx)
	printSystemMessage(a.out, "Signed out.")
}

// WhoAmI prints the current session and token expiry.
func (a *App) WhoAmI() error {
	snap := a.Client.Session.Snapshot()
	var claims *domain.TokenClaims
	if sess, ok := a.Client.Session.Session(); ok {
		if c, err := sess.Claims(); err == nil {
			claims = &c
		} else {
			a.logger.Debug("Token is not a readable JWT", "err", err)
		}
	}
	return a.print(tui.SessionMarkdown(snap, claims, a.now()))
}

func (a *App) requireSession() error {
	if !a.Client.Session.Snapshot().Authenticated() {
		return ErrNotSignedIn
	}
	return nil
}

// Providers lists the service providers.
func (a *App) Providers(ctx context.Context) error {
	if err := a.requireSession(); err != nil {
		return err
	}
	providers, err := a.Client.Booking.Providers(ctx)
	if err != nil {
		return err
	}
	return a.print(tui.ProvidersMarkdown(providers))
}

// Availability prints the morning and afternoon schedule of a provider.
func (a *App) Availability(ctx context.Context, providerID string, day time.Time) error {
	if err := a.requireSession(); err != nil {
		return err
	}
	schedule, err := a.Client.Booking.DaySchedule(ctx, providerID, day)
	if err != nil {
		return err
	}
	return a.print(tui.ScheduleMarkdown(providerID, day, schedule))
}

// Book creates an appointment after checking the hour is still free.
func (a *App) Book(ctx context.Context, providerID string, day time.Time, hour int) error {
	if err := a.requireSession(); err != nil {
		return err
	}
	appt, err := a.Client.Booking.BookSlot(ctx, providerID, day, hour)
	if err != nil {
		return err
	}
	return a.print(tui.AppointmentMarkdown(appt))
}

// StorageList prints the persisted keys with their value sizes.
// Token values are never printed.
func (a *App) StorageList(ctx context.Context) error {
	keys, err := a.Client.Store.Keys(ctx)
	if err != nil {
		return err
	}
	if len(keys) == 0 {
		fmt.Fprintln(a.out, "No persisted keys.")
		return nil
	}
	sort.Strings(keys)

	entries, err := a.Client.Store.MultiGet(ctx, keys)
	if err != nil {
		return err
	}
	tokenKey, _ := a.Client.Session.Keys()
	for _, e := range entries {
		if !e.Found {
			continue
		}
		value := e.Value
		if e.Key == tokenKey {
			value = "***"
		}
		fmt.Fprintf(a.out, "%s\t%d bytes\t%s\n", e.Key, len(e.Value), value)
	}
	return nil
}

// Graph prints the session lifecycle as a Mermaid diagram, highlighting the current state.
func (a *App) Graph() {
	snap := a.Client.Session.Snapshot()
	overlay := &graph.GraphOverlay{
		VisitedStates: []domain.AuthState{domain.StateBooting},
		CurrentState:  snap.State,
	}
	fmt.Fprint(a.out, graph.GenerateMermaid(session.Lifecycle(), overlay))
}

// Watch prints every published snapshot until ctx is cancelled.
func (a *App) Watch(ctx context.Context) error {
	updates := make(chan domain.Snapshot, 16)
	cancel := a.Client.Session.Subscribe(func(s domain.Snapshot) {
		select {
		case updates <- s:
		default:
			a.logger.Warn("Dropping session update, watcher is behind")
		}
	})
	defer cancel()

	a.printSnapshot(a.Client.Session.Snapshot())
	for {
		select {
		case <-ctx.Done():
			if sig, ok := Interrupt(ctx); ok {
				a.logger.Debug("Watch stopped", "signal", sig)
			}
			return handleExecutionError(context.Cause(ctx))
		case s := <-updates:
			a.printSnapshot(s)
		}
	}
}

func (a *App) printSnapshot(s domain.Snapshot) {
	line := fmt.Sprintf("%s state=%s", a.now().Format(time.TimeOnly), s.State)
	if s.User != nil {
		line += " user=" + s.User.ID
	}
	fmt.Fprintln(a.out, line)
}

// serveMetrics exposes reg on addr/metrics until the returned stop function is called.
func serveMetrics(addr string, reg *prometheus.Registry, logger *slog.Logger) (stop func()) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		logger.Info("Serving metrics", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Warn("Metrics listener stopped", "err", err)
		}
	}()

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}
}
