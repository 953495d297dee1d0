package main

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAPI(t *testing.T) *httptest.Server {
	t.Helper()
	r := chi.NewRouter()
	r.Post("/sessions", func(w http.ResponseWriter, req *http.Request) {
		_, _ = w.Write([]byte(`{"token":"tok","user":{"id":"u1","name":"Alice","email":"alice@example.com"}}`))
	})
	r.Get("/providers", func(w http.ResponseWriter, req *http.Request) {
		_, _ = w.Write([]byte(`[{"id":"p1","name":"Bob"}]`))
	})
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetIn(&bytes.Buffer{})
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestCLI_SessionRoundTrip(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	srv := newAPI(t)
	common := []string{"--plain", "--log-level", "error", "--api-url", srv.URL, "--store", "file", "--store-path", filepath.Join(dir, "storage.json")}

	out, err := run(t, append([]string{"login", "alice@example.com", "--password", "123456"}, common...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "Welcome, Alice!")

	out, err = run(t, append([]string{"whoami"}, common...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "**Alice**")

	out, err = run(t, append([]string{"providers"}, common...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "Bob")

	out, err = run(t, append([]string{"session", "ls"}, common...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "@gobarber:token\t3 bytes\t***")

	out, err = run(t, append([]string{"logout"}, common...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "Signed out.")

	_, err = run(t, append([]string{"providers"}, common...)...)
	assert.ErrorContains(t, err, "not signed in")
}

func TestCLI_Version(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "gobarber version dev")
}

func TestCLI_InvalidDate(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	srv := newAPI(t)

	_, err := run(t, "availability", "p1", "--date", "10/03/2026", "--plain", "--api-url", srv.URL, "--store", "memory")
	assert.ErrorContains(t, err, "YYYY-MM-DD")
}
