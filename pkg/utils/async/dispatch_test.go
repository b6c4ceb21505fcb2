package async_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/m-mizutani/gt"
	"github.com/m-mizutani/officeimg/pkg/utils/async"
	"github.com/m-mizutani/officeimg/pkg/utils/ctxlog"
)

func waitResult(t *testing.T, done <-chan error) error {
	t.Helper()
	select {
	case err := <-done:
		return err
	case <-time.After(time.Second):
		t.Fatal("handler did not complete within timeout")
		return nil
	}
}

func TestDispatch(t *testing.T) {
	t.Run("delivers nil result and closes channel", func(t *testing.T) {
		executed := false
		done := async.Dispatch(context.Background(), func(ctx context.Context) error {
			executed = true
			return nil
		})

		gt.NoError(t, waitResult(t, done))
		gt.True(t, executed)

		_, ok := <-done
		gt.False(t, ok)
	})

	t.Run("delivers handler error without logging it", func(t *testing.T) {
		var buf bytes.Buffer
		ctx := ctxlog.With(context.Background(), slog.New(slog.NewTextHandler(&buf, nil)))

		done := async.Dispatch(ctx, func(ctx context.Context) error {
			return errors.New("archive is broken")
		})

		gt.Error(t, waitResult(t, done)).Contains("archive is broken")
		gt.Equal(t, buf.String(), "")
	})

	t.Run("converts panic into error and logs stack", func(t *testing.T) {
		// The panic is logged before the result is sent, so no extra sync is needed
		var buf bytes.Buffer
		ctx := ctxlog.With(context.Background(), slog.New(slog.NewTextHandler(&buf, nil)))

		done := async.Dispatch(ctx, func(ctx context.Context) error {
			panic("corrupt entry table")
		})

		gt.Error(t, waitResult(t, done)).Contains("panic in async handler")
		gt.S(t, buf.String()).
			Contains("panic in async handler").
			Contains("corrupt entry table").
			Contains("dispatch_test.go")
	})

	t.Run("progress sent by handler is received before result", func(t *testing.T) {
		progress := make(chan string, 4)
		done := async.Dispatch(context.Background(), func(ctx context.Context) error {
			defer close(progress)
			progress <- "found 2 media files"
			progress <- "extracted image 1/2"
			return nil
		})

		var lines []string
		for line := range progress {
			lines = append(lines, line)
		}
		gt.NoError(t, waitResult(t, done))
		gt.A(t, lines).Length(2).At(0, func(t testing.TB, v string) {
			gt.Equal(t, v, "found 2 media files")
		})
	})

	t.Run("keeps logger and clones sentry hub", func(t *testing.T) {
		logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
		hub := sentry.NewHub(nil, sentry.NewScope())
		ctx := ctxlog.With(context.Background(), logger)
		ctx = sentry.SetHubOnContext(ctx, hub)

		done := async.Dispatch(ctx, func(newCtx context.Context) error {
			if ctxlog.From(newCtx) != logger {
				return errors.New("logger was not propagated")
			}
			got := sentry.GetHubFromContext(newCtx)
			if got == nil || got == hub {
				return errors.New("sentry hub should be a clone")
			}
			return nil
		})

		gt.NoError(t, waitResult(t, done))
	})

	t.Run("handler is not cancelled with caller context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())

		done := async.Dispatch(ctx, func(newCtx context.Context) error {
			cancel()
			return newCtx.Err()
		})

		gt.NoError(t, waitResult(t, done))
	})
}
