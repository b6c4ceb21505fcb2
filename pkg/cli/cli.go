package cli

import (
	"context"
	"log/slog"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/officeimg/pkg/cli/config"
	"github.com/m-mizutani/officeimg/pkg/domain/types"
	"github.com/m-mizutani/officeimg/pkg/utils/ctxlog"
	"github.com/m-mizutani/officeimg/pkg/utils/report"
	"github.com/urfave/cli/v3"
)

// errTagReported marks errors whose causes were already logged and reported by a command
var errTagReported = goerr.NewTag("reported")

const sentryFlushTimeout = 2 * time.Second

// globalConfig holds options shared by all commands
type globalConfig struct {
	logger config.Logger
	sentry config.Sentry
	slack  config.Slack
	cloud  config.Cloud

	profilePath string
	profile     *config.Profile
}

func (g *globalConfig) flags() []cli.Flag {
	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "config",
			Aliases:     []string{"c"},
			Usage:       "Path to a TOML profile with default options",
			Destination: &g.profilePath,
			Sources:     cli.EnvVars("OFFICEIMG_CONFIG"),
		},
	}
	flags = append(flags, g.logger.Flags()...)
	flags = append(flags, g.sentry.Flags()...)
	flags = append(flags, g.slack.Flags()...)
	flags = append(flags, g.cloud.Flags()...)
	return flags
}

// Run runs the CLI application
func Run(ctx context.Context, args []string) error {
	var g globalConfig
	var logger *slog.Logger
	var sentryEnabled bool

	app := &cli.Command{
		Name:    "officeimg",
		Usage:   "Extract embedded images from PowerPoint and Word documents",
		Version: types.Version,
		Flags:   g.flags(),
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			var err error
			logger, err = g.logger.Configure()
			if err != nil {
				return nil, err
			}

			slog.SetDefault(logger)
			ctx = ctxlog.With(ctx, logger)

			if sentryEnabled, err = g.sentry.Configure(); err != nil {
				return nil, err
			}
			if sentryEnabled {
				ctx = sentry.SetHubOnContext(ctx, sentry.CurrentHub().Clone())
			}

			if g.profile, err = config.LoadProfile(g.profilePath); err != nil {
				return nil, err
			}

			logger.Debug("Configured",
				"profile", g.profilePath,
				"sentry", g.sentry,
				"slack", g.slack,
				"cloud", g.cloud,
			)
			return ctx, nil
		},
		Commands: []*cli.Command{
			cmdExtract(&g),
			cmdServe(&g),
		},
	}

	err := app.Run(ctx, args)
	if err != nil && !goerr.HasTag(err, errTagReported) {
		if logger == nil {
			logger = slog.Default()
		}
		report.Error(ctxlog.With(ctx, logger), "CLI execution failed", err)
	}

	if sentryEnabled {
		sentry.Flush(sentryFlushTimeout)
	}

	return err
}
