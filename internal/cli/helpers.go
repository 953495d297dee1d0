package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/aretw0/gobarber/pkg/domain"
	"golang.org/x/term"
)

// InterruptError is the cancellation cause of a context stopped by a signal.
type InterruptError struct {
	Signal os.Signal
}

func (e *InterruptError) Error() string {
	return "interrupted by " + e.Signal.String()
}

// WithInterrupt returns a copy of parent that is cancelled on SIGINT or SIGTERM,
// with an *InterruptError as its cause. Calling stop releases the signal handler.
func WithInterrupt(parent context.Context) (ctx context.Context, stop context.CancelFunc) {
	return notifyCause(parent, os.Interrupt, syscall.SIGTERM)
}

func notifyCause(parent context.Context, signals ...os.Signal) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancelCause(parent)
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, signals...)
	go func() {
		defer signal.Stop(ch)
		select {
		case sig := <-ch:
			cancel(&InterruptError{Signal: sig})
		case <-ctx.Done():
		}
	}()
	return ctx, func() { cancel(nil) }
}

// Interrupt reports the signal that cancelled ctx, if one did.
func Interrupt(ctx context.Context) (os.Signal, bool) {
	var ie *InterruptError
	if errors.As(context.Cause(ctx), &ie) {
		return ie.Signal, true
	}
	return nil, false
}

// printSystemMessage prints a standardized system message.
func printSystemMessage(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, ">>> %s\n", fmt.Sprintf(format, args...))
}

func createDebugHooks(logger *slog.Logger) domain.LifecycleHooks {
	logEvent := func(msg string) func(context.Context, *domain.SessionEvent) {
		return func(ctx context.Context, e *domain.SessionEvent) {
			attrs := []any{"state", e.State}
			if e.UserID != "" {
				attrs = append(attrs, "user_id", e.UserID)
			}
			if e.Err != nil {
				attrs = append(attrs, "err", e.Err)
			}
			logger.Debug(msg, attrs...)
		}
	}
	return domain.LifecycleHooks{
		OnRestored:    logEvent("Session Restored"),
		OnSignedIn:    logEvent("Signed In"),
		OnSignInError: logEvent("Sign In Error"),
		OnSignedOut:   logEvent("Signed Out"),
		OnPersisted:   logEvent("Session Persisted"),
	}
}

// readPassword reads a password without echo when in is a terminal, or one line otherwise.
func readPassword(in io.Reader, out io.Writer) (string, error) {
	fmt.Fprint(out, "Password: ")
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		b, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(out)
		if err != nil {
			return "", fmt.Errorf("read password: %w", err)
		}
		return string(b), nil
	}

	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", fmt.Errorf("read password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// ParseDay parses a YYYY-MM-DD date in the local zone. An empty string is today.
func ParseDay(s string, now time.Time) (time.Time, error) {
	if s == "" {
		y, m, d := now.Date()
		return time.Date(y, m, d, 0, 0, 0, 0, now.Location()), nil
	}
	day, err := time.ParseInLocation(time.DateOnly, s, now.Location())
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (want YYYY-MM-DD)", s)
	}
	return day, nil
}

func isInterrupted(err error) bool {
	var ie *InterruptError
	return errors.Is(err, context.Canceled) || errors.As(err, &ie)
}

// handleExecutionError treats interruptions as a clean exit.
func handleExecutionError(err error) error {
	if err == nil || isInterrupted(err) {
		return nil
	}
	return err
}
