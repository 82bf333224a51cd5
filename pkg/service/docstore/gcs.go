package docstore

import (
	"context"
	"fmt"
	"io"
	"path"
	"time"

	"cloud.google.com/go/storage"
	"github.com/m-mizutani/goerr/v2"

	"github.com/secmon-lab/horai/pkg/domain/types"
)

// GCS stores signed closing documents as objects under
// closings/<periodID>/<timestamp>-<filename>.
type GCS struct {
	client *storage.Client
	bucket string
	prefix string
}

type GCSOption func(*GCS)

func WithPrefix(prefix string) GCSOption {
	return func(s *GCS) {
		s.prefix = prefix
	}
}

func NewGCS(ctx context.Context, bucket string, opts ...GCSOption) (*GCS, error) {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create storage client", goerr.V("bucket", bucket))
	}

	s := &GCS{
		client: client,
		bucket: bucket,
		prefix: "closings",
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func (s *GCS) Put(ctx context.Context, periodID types.PeriodID, filename string, r io.Reader) (string, error) {
	if filename == "" {
		filename = "document"
	}
	name := path.Join(s.prefix, string(periodID),
		fmt.Sprintf("%d-%s", time.Now().UTC().Unix(), path.Base(filename)))

	w := s.client.Bucket(s.bucket).Object(name).NewWriter(ctx)
	w.ContentType = "application/octet-stream"

	if _, err := io.Copy(w, r); err != nil {
		_ = w.Close()
		return "", goerr.Wrap(err, "failed to write closing document",
			goerr.V("bucket", s.bucket), goerr.V("object", name))
	}
	if err := w.Close(); err != nil {
		return "", goerr.Wrap(err, "failed to finalize closing document",
			goerr.V("bucket", s.bucket), goerr.V("object", name))
	}

	return "gs://" + s.bucket + "/" + name, nil
}

func (s *GCS) Close() error {
	return s.client.Close()
}
