package firestore

import (
	"context"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/officeimg/pkg/domain/interfaces"
	"github.com/m-mizutani/officeimg/pkg/domain/model"
	"github.com/m-mizutani/officeimg/pkg/domain/types"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// DefaultCollection is the collection holding job documents
const DefaultCollection = "officeimg_jobs"

// Client is a JobRepository backed by Cloud Firestore
type Client struct {
	client     *firestore.Client
	collection string
}

var _ interfaces.JobRepository = (*Client)(nil)

// Option is a functional option for Client
type Option func(*config)

type config struct {
	databaseID      string
	collection      string
	credentialsFile string
}

// WithDatabaseID selects a named Firestore database instead of the default one
func WithDatabaseID(id string) Option {
	return func(c *config) {
		c.databaseID = id
	}
}

// WithCollection sets the collection name
func WithCollection(name string) Option {
	return func(c *config) {
		c.collection = name
	}
}

// WithCredentialsFile authenticates with a service account key file instead of ADC
func WithCredentialsFile(path string) Option {
	return func(c *config) {
		c.credentialsFile = path
	}
}

// New creates a Firestore job repository for projectID
func New(ctx context.Context, projectID string, opts ...Option) (*Client, error) {
	cfg := &config{
		databaseID: firestore.DefaultDatabaseID,
		collection: DefaultCollection,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	var clientOpts []option.ClientOption
	if cfg.credentialsFile != "" {
		clientOpts = append(clientOpts, option.WithCredentialsFile(cfg.credentialsFile))
	}

	var client *firestore.Client
	var err error
	if cfg.databaseID == "" || cfg.databaseID == firestore.DefaultDatabaseID {
		client, err = firestore.NewClient(ctx, projectID, clientOpts...)
	} else {
		client, err = firestore.NewClientWithDatabase(ctx, projectID, cfg.databaseID, clientOpts...)
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create firestore client",
			goerr.V("project_id", projectID), goerr.V("database_id", cfg.databaseID))
	}

	return &Client{
		client:     client,
		collection: cfg.collection,
	}, nil
}

// Close releases the underlying connection
func (c *Client) Close() error {
	return c.client.Close()
}

func (c *Client) PutJob(ctx context.Context, job *model.Job) error {
	if job == nil || job.ID == "" {
		return goerr.New("job id is required", goerr.T(types.ErrTagInvalidInput))
	}

	if _, err := c.client.Collection(c.collection).Doc(job.ID.String()).Set(ctx, job); err != nil {
		return goerr.Wrap(err, "failed to put job", goerr.V("job_id", job.ID))
	}
	return nil
}

func (c *Client) GetJob(ctx context.Context, id types.JobID) (*model.Job, error) {
	doc, err := c.client.Collection(c.collection).Doc(id.String()).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(err, "job not found", goerr.V("job_id", id), goerr.T(types.ErrTagNotFound))
		}
		return nil, goerr.Wrap(err, "failed to get job", goerr.V("job_id", id))
	}

	var job model.Job
	if err := doc.DataTo(&job); err != nil {
		return nil, goerr.Wrap(err, "failed to decode job", goerr.V("job_id", id))
	}
	return &job, nil
}
