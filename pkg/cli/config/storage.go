package config

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/secmon-lab/horai/pkg/domain/interfaces"
	"github.com/secmon-lab/horai/pkg/service/docstore"
	"github.com/secmon-lab/horai/pkg/utils/logging"
)

// Storage holds CLI flags for the closing document store
type Storage struct {
	backend string
	bucket  string
	prefix  string
}

// Flags returns CLI flags for storage configuration
func (s *Storage) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "storage-backend",
			Usage:       "Document storage backend (gcs or memory)",
			Value:       "gcs",
			Sources:     cli.EnvVars("HORAI_STORAGE_BACKEND"),
			Destination: &s.backend,
		},
		&cli.StringFlag{
			Name:        "storage-bucket",
			Usage:       "GCS bucket for signed closing documents (required when using gcs backend)",
			Sources:     cli.EnvVars("HORAI_STORAGE_BUCKET"),
			Destination: &s.bucket,
		},
		&cli.StringFlag{
			Name:        "storage-prefix",
			Usage:       "Object name prefix for closing documents",
			Value:       "closings",
			Sources:     cli.EnvVars("HORAI_STORAGE_PREFIX"),
			Destination: &s.prefix,
		},
	}
}

// Configure initializes and returns the document store for the configured
// backend.
func (s *Storage) Configure(ctx context.Context) (interfaces.DocumentStore, error) {
	switch s.backend {
	case "gcs":
		if s.bucket == "" {
			return nil, goerr.New("storage-bucket is required when using gcs backend")
		}
		store, err := docstore.NewGCS(ctx, s.bucket, docstore.WithPrefix(s.prefix))
		if err != nil {
			return nil, goerr.Wrap(err, "failed to initialize gcs document store")
		}
		logging.Default().Info("Using GCS document store",
			"bucket", s.bucket,
			"prefix", s.prefix,
		)
		return store, nil

	case "memory":
		logging.Default().Info("Using in-memory document store (development mode)")
		return docstore.NewMemory(), nil

	default:
		return nil, goerr.New("invalid storage backend", goerr.V("backend", s.backend))
	}
}
