package report

import (
	"context"

	"github.com/getsentry/sentry-go"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/officeimg/pkg/domain/types"
	"github.com/m-mizutani/officeimg/pkg/utils/ctxlog"
)

// Error logs err once and sends it to Sentry unless it was caused by user input.
// The Sentry hub is taken from ctx, falling back to the global hub.
func Error(ctx context.Context, msg string, err error) {
	if err == nil {
		return
	}

	kind := types.KindOf(err)
	logger := ctxlog.From(ctx)

	if kind.IsUserError() {
		logger.Warn(msg, "error", err, "kind", kind)
		return
	}
	logger.Error(msg, "error", err, "kind", kind)

	hub := sentry.GetHubFromContext(ctx)
	if hub == nil {
		hub = sentry.CurrentHub()
	}
	if hub.Client() == nil {
		return
	}

	hub.WithScope(func(scope *sentry.Scope) {
		scope.SetTag("error_kind", string(kind))
		if values := goerr.Values(err); len(values) > 0 {
			scope.SetContext("goerr", values)
		}
		hub.CaptureException(err)
	})
}
