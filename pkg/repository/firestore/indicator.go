package firestore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/horai/pkg/domain/model"
	"github.com/secmon-lab/horai/pkg/domain/types"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type indicatorDocument struct {
	ID         string    `firestore:"id"`
	Name       string    `firestore:"name"`
	Threshold1 *float64  `firestore:"threshold1"`
	Threshold2 *float64  `firestore:"threshold2"`
	Threshold3 *float64  `firestore:"threshold3"`
	Direction  string    `firestore:"direction"`
	CreatedAt  time.Time `firestore:"created_at"`
	UpdatedAt  time.Time `firestore:"updated_at"`
}

func toIndicatorDocument(i *model.Indicator) *indicatorDocument {
	return &indicatorDocument{
		ID:         i.ID.String(),
		Name:       i.Name,
		Threshold1: i.Threshold1,
		Threshold2: i.Threshold2,
		Threshold3: i.Threshold3,
		Direction:  i.Direction.String(),
		CreatedAt:  i.CreatedAt,
		UpdatedAt:  i.UpdatedAt,
	}
}

func (d *indicatorDocument) toModel() *model.Indicator {
	return &model.Indicator{
		ID:         types.IndicatorID(d.ID),
		Name:       d.Name,
		Threshold1: d.Threshold1,
		Threshold2: d.Threshold2,
		Threshold3: d.Threshold3,
		Direction:  types.ThresholdDirection(d.Direction),
		CreatedAt:  d.CreatedAt,
		UpdatedAt:  d.UpdatedAt,
	}
}

type indicatorRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func newIndicatorRepository(client *firestore.Client) *indicatorRepository {
	return &indicatorRepository{client: client}
}

func (r *indicatorRepository) collection() string {
	if r.collectionPrefix != "" {
		return r.collectionPrefix + "_indicators"
	}
	return "indicators"
}

func (r *indicatorRepository) Create(ctx context.Context, indicator *model.Indicator) (*model.Indicator, error) {
	now := time.Now().UTC()
	created := *indicator
	if created.ID == "" {
		created.ID = types.IndicatorID(uuid.New().String())
	}
	created.CreatedAt = now
	created.UpdatedAt = now

	docRef := r.client.Collection(r.collection()).Doc(created.ID.String())
	if _, err := docRef.Set(ctx, toIndicatorDocument(&created)); err != nil {
		return nil, goerr.Wrap(err, "failed to create indicator", goerr.V("id", created.ID))
	}
	return &created, nil
}

func (r *indicatorRepository) Get(ctx context.Context, id types.IndicatorID) (*model.Indicator, error) {
	doc, err := r.client.Collection(r.collection()).Doc(id.String()).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(ErrNotFound, "indicator not found", goerr.V("id", id))
		}
		return nil, goerr.Wrap(err, "failed to get indicator", goerr.V("id", id))
	}

	var indicatorDoc indicatorDocument
	if err := doc.DataTo(&indicatorDoc); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal indicator", goerr.V("id", id))
	}
	return indicatorDoc.toModel(), nil
}

func (r *indicatorRepository) List(ctx context.Context) ([]*model.Indicator, error) {
	iter := r.client.Collection(r.collection()).Documents(ctx)
	defer iter.Stop()

	var indicators []*model.Indicator
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate indicators")
		}

		var indicatorDoc indicatorDocument
		if err := doc.DataTo(&indicatorDoc); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal indicator")
		}
		indicators = append(indicators, indicatorDoc.toModel())
	}
	return indicators, nil
}

func (r *indicatorRepository) Update(ctx context.Context, indicator *model.Indicator) (*model.Indicator, error) {
	docRef := r.client.Collection(r.collection()).Doc(indicator.ID.String())

	doc, err := docRef.Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(ErrNotFound, "indicator not found", goerr.V("id", indicator.ID))
		}
		return nil, goerr.Wrap(err, "failed to get indicator", goerr.V("id", indicator.ID))
	}

	var existing indicatorDocument
	if err := doc.DataTo(&existing); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal indicator", goerr.V("id", indicator.ID))
	}

	updated := *indicator
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = time.Now().UTC()

	if _, err := docRef.Set(ctx, toIndicatorDocument(&updated)); err != nil {
		return nil, goerr.Wrap(err, "failed to update indicator", goerr.V("id", indicator.ID))
	}
	return &updated, nil
}
