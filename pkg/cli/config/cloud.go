package config

import (
	"context"

	"github.com/m-mizutani/officeimg/pkg/infra/firestore"
	"github.com/m-mizutani/officeimg/pkg/infra/gcs"
	"github.com/urfave/cli/v3"
)

// Cloud holds Google Cloud configuration for publishing images and persisting jobs
type Cloud struct {
	CredentialsFile string

	Bucket string
	Prefix string

	FirestoreProjectID  string
	FirestoreDatabaseID string
	FirestoreCollection string
}

// Flags returns CLI flags for Google Cloud configuration
func (c *Cloud) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "gcp-credentials",
			Usage:       "Path to a service account key file (default: application default credentials)",
			Destination: &c.CredentialsFile,
			Sources:     cli.EnvVars("OFFICEIMG_GCP_CREDENTIALS"),
		},
		&cli.StringFlag{
			Name:        "gcs-bucket",
			Usage:       "Cloud Storage bucket to publish extracted images to",
			Destination: &c.Bucket,
			Sources:     cli.EnvVars("OFFICEIMG_GCS_BUCKET"),
		},
		&cli.StringFlag{
			Name:        "gcs-prefix",
			Usage:       "Object name prefix for published images",
			Destination: &c.Prefix,
			Sources:     cli.EnvVars("OFFICEIMG_GCS_PREFIX"),
		},
		&cli.StringFlag{
			Name:        "firestore-project-id",
			Usage:       "Google Cloud project ID of the Firestore job store (default: in-memory jobs)",
			Destination: &c.FirestoreProjectID,
			Sources:     cli.EnvVars("OFFICEIMG_FIRESTORE_PROJECT_ID"),
		},
		&cli.StringFlag{
			Name:        "firestore-database-id",
			Usage:       "Firestore database ID",
			Value:       "(default)",
			Destination: &c.FirestoreDatabaseID,
			Sources:     cli.EnvVars("OFFICEIMG_FIRESTORE_DATABASE_ID"),
		},
		&cli.StringFlag{
			Name:        "firestore-collection",
			Usage:       "Firestore collection for jobs",
			Value:       firestore.DefaultCollection,
			Destination: &c.FirestoreCollection,
			Sources:     cli.EnvVars("OFFICEIMG_FIRESTORE_COLLECTION"),
		},
	}
}

// ObjectStore returns a Cloud Storage client, or nil when no bucket is configured
func (c *Cloud) ObjectStore(ctx context.Context) (*gcs.Client, error) {
	if c.Bucket == "" {
		return nil, nil
	}
	return gcs.New(ctx, c.Bucket, c.CredentialsFile)
}

// JobRepository returns a Firestore job repository, or nil when no project is configured
func (c *Cloud) JobRepository(ctx context.Context) (*firestore.Client, error) {
	if c.FirestoreProjectID == "" {
		return nil, nil
	}
	return firestore.New(ctx, c.FirestoreProjectID,
		firestore.WithDatabaseID(c.FirestoreDatabaseID),
		firestore.WithCollection(c.FirestoreCollection),
		firestore.WithCredentialsFile(c.CredentialsFile),
	)
}
