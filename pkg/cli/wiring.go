package cli

import (
	"context"

	"github.com/m-mizutani/officeimg/pkg/domain/interfaces"
	"github.com/m-mizutani/officeimg/pkg/infra/browser"
	"github.com/m-mizutani/officeimg/pkg/infra/memory"
	"github.com/m-mizutani/officeimg/pkg/infra/notify"
	"github.com/m-mizutani/officeimg/pkg/usecase"
	"github.com/m-mizutani/officeimg/pkg/utils/ctxlog"
)

type extractDeps struct {
	logNotifications bool
	reveal           bool
}

// newExtractUseCase builds the extract use case from global options. The
// returned cleanup closes cloud clients and must always be called.
func (g *globalConfig) newExtractUseCase(ctx context.Context, deps extractDeps) (interfaces.ExtractUseCase, func(), error) {
	var opts []usecase.ExtractOption
	var closers []func() error
	cleanup := func() {
		for _, c := range closers {
			if err := c(); err != nil {
				ctxlog.From(ctx).Warn("Failed to close client", "error", err)
			}
		}
	}

	var notifiers notify.Multi
	if deps.logNotifications {
		notifiers = append(notifiers, notify.NewLogger())
	}
	slackClient, err := g.slack.Configure()
	if err != nil {
		return nil, cleanup, err
	}
	if slackClient != nil {
		notifiers = append(notifiers, slackClient)
	}
	if len(notifiers) > 0 {
		opts = append(opts, usecase.WithNotifier(notifiers))
	}

	store, err := g.cloud.ObjectStore(ctx)
	if err != nil {
		return nil, cleanup, err
	}
	if store != nil {
		closers = append(closers, store.Close)
		opts = append(opts, usecase.WithObjectStore(store, g.cloud.Prefix))
	}

	if deps.reveal {
		opts = append(opts, usecase.WithRevealer(browser.New()))
	}

	return usecase.NewExtract(opts...), cleanup, nil
}

// newJobRepository returns the Firestore repository when configured, else an in-memory one
func (g *globalConfig) newJobRepository(ctx context.Context) (interfaces.JobRepository, func(), error) {
	client, err := g.cloud.JobRepository(ctx)
	if err != nil {
		return nil, func() {}, err
	}
	if client == nil {
		ctxlog.From(ctx).Info("Using in-memory job repository")
		return memory.NewJobRepository(), func() {}, nil
	}

	return client, func() {
		if err := client.Close(); err != nil {
			ctxlog.From(ctx).Warn("Failed to close firestore client", "error", err)
		}
	}, nil
}
