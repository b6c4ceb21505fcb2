package config

import (
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/officeimg/pkg/infra/slack"
	"github.com/urfave/cli/v3"
)

// Slack holds Slack notification configuration
type Slack struct {
	Token   string `masq:"secret"`
	Channel string
}

// Flags returns CLI flags for Slack configuration
func (c *Slack) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "slack-token",
			Usage:       "Slack bot token used to post notifications",
			Destination: &c.Token,
			Sources:     cli.EnvVars("OFFICEIMG_SLACK_TOKEN"),
		},
		&cli.StringFlag{
			Name:        "slack-channel",
			Usage:       "Slack channel ID for notifications",
			Destination: &c.Channel,
			Sources:     cli.EnvVars("OFFICEIMG_SLACK_CHANNEL"),
		},
	}
}

// Configure returns a Slack notifier, or nil when Slack is not configured
func (c *Slack) Configure() (*slack.Client, error) {
	if c.Token == "" && c.Channel == "" {
		return nil, nil
	}
	if c.Token == "" || c.Channel == "" {
		return nil, goerr.New("both --slack-token and --slack-channel are required for Slack notification")
	}
	return slack.New(c.Token, c.Channel)
}
