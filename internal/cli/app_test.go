package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/aretw0/gobarber/internal/config"
	"github.com/aretw0/gobarber/pkg/booking"
	"github.com/aretw0/gobarber/pkg/domain"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGoBarber struct {
	booked []domain.AppointmentRequest
}

func (f *fakeGoBarber) server(t *testing.T) *httptest.Server {
	t.Helper()
	r := chi.NewRouter()
	r.Post("/sessions", func(w http.ResponseWriter, req *http.Request) {
		var creds domain.Credentials
		_ = json.NewDecoder(req.Body).Decode(&creds)
		if creds.Password == "crash" {
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`{"status":"error","message":"Internal server error"}`))
			return
		}
		if creds.Password != "123456" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"message":"Incorrect email/password combination."}`))
			return
		}
		_, _ = w.Write([]byte(`{"token":"not-a-jwt","user":{"id":"u1","name":"Alice","email":"alice@example.com"}}`))
	})
	r.Group(func(r chi.Router) {
		r.Use(func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
				if req.Header.Get("Authorization") != "Bearer not-a-jwt" {
					w.WriteHeader(http.StatusUnauthorized)
					return
				}
				next.ServeHTTP(w, req)
			})
		})
		r.Get("/providers", func(w http.ResponseWriter, req *http.Request) {
			_, _ = w.Write([]byte(`[{"id":"p1","name":"Bob"}]`))
		})
		r.Get("/providers/{id}/day-availability", func(w http.ResponseWriter, req *http.Request) {
			_, _ = w.Write([]byte(`[{"hour":8,"available":true},{"hour":9,"available":false},{"hour":14,"available":true}]`))
		})
		r.Post("/appointments", func(w http.ResponseWriter, req *http.Request) {
			var body domain.AppointmentRequest
			_ = json.NewDecoder(req.Body).Decode(&body)
			f.booked = append(f.booked, body)
			_ = json.NewEncoder(w).Encode(domain.Appointment{ID: "a1", ProviderID: body.ProviderID, UserID: "u1", Date: body.Date})
		})
	})
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func newTestConfig(t *testing.T, apiURL string) config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.API.URL = apiURL
	cfg.Store.Path = filepath.Join(t.TempDir(), "storage.json")
	cfg.Log.Level = "error"
	return cfg
}

func openApp(t *testing.T, cfg config.Config, in string) (*App, *bytes.Buffer) {
	t.Helper()
	var out bytes.Buffer
	app, err := Open(context.Background(), cfg, Options{Plain: true}, strings.NewReader(in), &out)
	require.NoError(t, err)
	app.now = func() time.Time { return time.Date(2026, 3, 10, 9, 0, 0, 0, time.Local) }
	t.Cleanup(func() { _ = app.Close() })
	return app, &out
}

func TestApp_LoginPersistsAcrossRuns(t *testing.T) {
	api := &fakeGoBarber{}
	cfg := newTestConfig(t, api.server(t).URL)
	ctx := context.Background()

	first, out := openApp(t, cfg, "123456\n")
	require.NoError(t, first.Login(ctx, "alice@example.com", ""))
	assert.Contains(t, out.String(), "Password: ")
	assert.Contains(t, out.String(), "Welcome, Alice!")
	require.NoError(t, first.Close())

	second, out := openApp(t, cfg, "")
	require.NoError(t, second.WhoAmI())
	assert.Contains(t, out.String(), "**Alice** (alice@example.com)")
	assert.NotContains(t, out.String(), "Token expire")
}

func TestApp_LoginFailure(t *testing.T) {
	api := &fakeGoBarber{}
	app, _ := openApp(t, newTestConfig(t, api.server(t).URL), "")

	err := app.Login(context.Background(), "alice@example.com", "wrong")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "authentication failed")
	assert.Contains(t, err.Error(), "Incorrect email/password combination.")

	assert.ErrorContains(t, app.Login(context.Background(), "  ", "x"), "email is required")
}

func TestApp_LoginFailureNotCredentials(t *testing.T) {
	api := &fakeGoBarber{}
	app, _ := openApp(t, newTestConfig(t, api.server(t).URL), "")

	err := app.Login(context.Background(), "alice@example.com", "crash")
	require.Error(t, err)
	assert.NotContains(t, err.Error(), "authentication failed")
	assert.Contains(t, err.Error(), "Internal server error")

	down := httptest.NewServer(http.NotFoundHandler())
	down.Close()
	offline, _ := openApp(t, newTestConfig(t, down.URL), "")

	err = offline.Login(context.Background(), "alice@example.com", "123456")
	require.Error(t, err)
	assert.NotContains(t, err.Error(), "authentication failed")
	var authErr *domain.AuthError
	require.ErrorAs(t, err, &authErr)
	assert.Equal(t, domain.KindRequestFailed, authErr.Kind)
}

func TestApp_CommandsRequireSession(t *testing.T) {
	api := &fakeGoBarber{}
	app, _ := openApp(t, newTestConfig(t, api.server(t).URL), "")
	ctx := context.Background()
	day := time.Date(2026, 3, 10, 0, 0, 0, 0, time.Local)

	assert.ErrorIs(t, app.Providers(ctx), ErrNotSignedIn)
	assert.ErrorIs(t, app.Availability(ctx, "p1", day), ErrNotSignedIn)
	assert.ErrorIs(t, app.Book(ctx, "p1", day, 8), ErrNotSignedIn)
}

func TestApp_BookingFlow(t *testing.T) {
	api := &fakeGoBarber{}
	app, out := openApp(t, newTestConfig(t, api.server(t).URL), "")
	ctx := context.Background()
	day := time.Date(2026, 3, 10, 0, 0, 0, 0, time.Local)

	require.NoError(t, app.Login(ctx, "alice@example.com", "123456"))

	require.NoError(t, app.Providers(ctx))
	assert.Contains(t, out.String(), "| `p1` | Bob |")

	out.Reset()
	require.NoError(t, app.Availability(ctx, "p1", day))
	assert.Contains(t, out.String(), "- **08:00**")
	assert.Contains(t, out.String(), "- ~~09:00~~")
	assert.Contains(t, out.String(), "- **14:00**")

	assert.ErrorIs(t, app.Book(ctx, "p1", day, 9), booking.ErrSlotUnavailable)
	assert.Empty(t, api.booked)

	out.Reset()
	require.NoError(t, app.Book(ctx, "p1", day, 14))
	require.Len(t, api.booked, 1)
	assert.Equal(t, "p1", api.booked[0].ProviderID)
	assert.Equal(t, 14, api.booked[0].Date.Local().Hour())
	assert.Contains(t, out.String(), "Appointment booked")
}

func TestApp_LogoutAndStorage(t *testing.T) {
	api := &fakeGoBarber{}
	app, out := openApp(t, newTestConfig(t, api.server(t).URL), "")
	ctx := context.Background()

	require.NoError(t, app.StorageList(ctx))
	assert.Contains(t, out.String(), "No persisted keys.")

	require.NoError(t, app.Login(ctx, "alice@example.com", "123456"))
	out.Reset()
	require.NoError(t, app.StorageList(ctx))
	assert.Contains(t, out.String(), "@gobarber:token\t9 bytes\t***")
	assert.Contains(t, out.String(), "@gobarber:user")
	assert.NotContains(t, out.String(), "not-a-jwt")

	out.Reset()
	app.Logout(ctx)
	app.Logout(ctx)
	assert.Equal(t, 2, strings.Count(out.String(), "Signed out."))

	out.Reset()
	require.NoError(t, app.StorageList(ctx))
	assert.Contains(t, out.String(), "No persisted keys.")
}

func TestApp_Graph(t *testing.T) {
	api := &fakeGoBarber{}
	app, out := openApp(t, newTestConfig(t, api.server(t).URL), "")

	app.Graph()
	assert.Contains(t, out.String(), "graph TD")
	assert.Contains(t, out.String(), "class unauthenticated current;")
}

// syncBuffer is a bytes.Buffer safe for concurrent writers and readers.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestApp_Watch(t *testing.T) {
	api := &fakeGoBarber{}
	app, _ := openApp(t, newTestConfig(t, api.server(t).URL), "")
	out := &syncBuffer{}
	app.out = out

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- app.Watch(ctx) }()

	// Subscription happens before the first line is printed.
	require.Eventually(t, func() bool { return strings.Contains(out.String(), "state=unauthenticated") }, time.Second, 5*time.Millisecond)
	require.NoError(t, app.Login(context.Background(), "alice@example.com", "123456"))
	require.Eventually(t, func() bool { return strings.Contains(out.String(), "state=authenticated user=u1") }, time.Second, 5*time.Millisecond)

	cancel()
	assert.NoError(t, <-done)
}

func TestLoadConfig_FlagOverrides(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := LoadConfig(Options{
		APIURL:    "https://api.test",
		Store:     config.DriverSQLite,
		StorePath: "/tmp/x.db",
		LogLevel:  "warn",
		Debug:     true,
	})
	require.NoError(t, err)
	assert.Equal(t, "https://api.test", cfg.API.URL)
	assert.Equal(t, config.DriverSQLite, cfg.Store.Driver)
	assert.Equal(t, "/tmp/x.db", cfg.Store.Path)
	assert.Equal(t, "debug", cfg.Log.Level)

	_, err = LoadConfig(Options{Store: "floppy"})
	assert.Error(t, err)
}
