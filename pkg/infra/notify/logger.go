package notify

import (
	"context"
	"log/slog"

	"github.com/m-mizutani/officeimg/pkg/domain/interfaces"
	"github.com/m-mizutani/officeimg/pkg/domain/model"
	"github.com/m-mizutani/officeimg/pkg/utils/ctxlog"
)

// Logger writes notifications to the context logger. It is the default
// alert surface when no chat integration is configured.
type Logger struct{}

var _ interfaces.Notifier = (*Logger)(nil)

func NewLogger() *Logger {
	return &Logger{}
}

func (x *Logger) Notify(ctx context.Context, n *model.Notification) error {
	level := slog.LevelInfo
	switch n.Level {
	case model.NotificationWarning:
		level = slog.LevelWarn
	case model.NotificationError:
		level = slog.LevelError
	}

	ctxlog.From(ctx).Log(ctx, level, n.Title,
		"level", string(n.Level),
		"message", n.Message,
	)
	return nil
}

// Multi fans a notification out to every notifier. All notifiers are
// attempted; the first error is returned.
type Multi []interfaces.Notifier

var _ interfaces.Notifier = Multi(nil)

func (m Multi) Notify(ctx context.Context, n *model.Notification) error {
	var first error
	for _, notifier := range m {
		if err := notifier.Notify(ctx, n); err != nil && first == nil {
			first = err
		}
	}
	return first
}
