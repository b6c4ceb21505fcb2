package slack

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/officeimg/pkg/domain/interfaces"
	"github.com/m-mizutani/officeimg/pkg/domain/model"
	"github.com/slack-go/slack"
)

// Client posts extraction notifications to a Slack channel
type Client struct {
	api     *slack.Client
	channel string
}

var _ interfaces.Notifier = (*Client)(nil)

// Option configures Client
type Option func(*options)

type options struct {
	apiURL string
}

// WithAPIURL overrides the Slack API endpoint. The URL must end with "/".
func WithAPIURL(url string) Option {
	return func(o *options) {
		o.apiURL = url
	}
}

// New creates a Slack notifier using a bot token
func New(token, channel string, opts ...Option) (*Client, error) {
	if token == "" {
		return nil, goerr.New("slack token is required")
	}
	if channel == "" {
		return nil, goerr.New("slack channel is required")
	}

	var o options
	for _, opt := range opts {
		opt(&o)
	}

	var slackOpts []slack.Option
	if o.apiURL != "" {
		slackOpts = append(slackOpts, slack.OptionAPIURL(o.apiURL))
	}

	return &Client{
		api:     slack.New(token, slackOpts...),
		channel: channel,
	}, nil
}

func levelColor(level model.NotificationLevel) string {
	switch level {
	case model.NotificationSuccess:
		return "good"
	case model.NotificationWarning:
		return "warning"
	default:
		return "danger"
	}
}

// Notify posts n as a colored attachment
func (c *Client) Notify(ctx context.Context, n *model.Notification) error {
	attachment := slack.Attachment{
		Color:    levelColor(n.Level),
		Title:    n.Title,
		Text:     n.Message,
		Fallback: n.Title + ": " + n.Message,
	}

	if _, _, err := c.api.PostMessageContext(ctx, c.channel,
		slack.MsgOptionText(n.Title, false),
		slack.MsgOptionAttachments(attachment),
	); err != nil {
		return goerr.Wrap(err, "failed to post slack message",
			goerr.V("channel", c.channel),
			goerr.V("level", n.Level))
	}
	return nil
}
