package firestore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/horai/pkg/domain/model"
	"github.com/secmon-lab/horai/pkg/domain/types"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type occurrenceDocument struct {
	IndicatorID string    `firestore:"indicator_id"`
	PeriodKey   string    `firestore:"period_key"`
	Value       *float64  `firestore:"value"`
	CapturedAt  time.Time `firestore:"captured_at"`
	Archived    bool      `firestore:"archived"`
}

func toOccurrenceDocument(o *model.IndicatorOccurrence) *occurrenceDocument {
	return &occurrenceDocument{
		IndicatorID: o.IndicatorID.String(),
		PeriodKey:   o.PeriodKey,
		Value:       o.Value,
		CapturedAt:  o.CapturedAt,
		Archived:    o.Archived,
	}
}

func (d *occurrenceDocument) toModel() *model.IndicatorOccurrence {
	return &model.IndicatorOccurrence{
		IndicatorID: types.IndicatorID(d.IndicatorID),
		PeriodKey:   d.PeriodKey,
		Value:       d.Value,
		CapturedAt:  d.CapturedAt,
		Archived:    d.Archived,
	}
}

type occurrenceRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func newOccurrenceRepository(client *firestore.Client) *occurrenceRepository {
	return &occurrenceRepository{client: client}
}

func (r *occurrenceRepository) collection() string {
	if r.collectionPrefix != "" {
		return r.collectionPrefix + "_occurrences"
	}
	return "occurrences"
}

func occurrenceDocID(indicatorID types.IndicatorID, periodKey string) string {
	return indicatorID.String() + "|" + periodKey
}

func (r *occurrenceRepository) Put(ctx context.Context, occurrence *model.IndicatorOccurrence) error {
	if err := occurrence.Validate(); err != nil {
		return err
	}

	stored := *occurrence
	if stored.CapturedAt.IsZero() {
		stored.CapturedAt = time.Now().UTC()
	}

	docRef := r.client.Collection(r.collection()).
		Doc(occurrenceDocID(stored.IndicatorID, stored.PeriodKey))
	if _, err := docRef.Set(ctx, toOccurrenceDocument(&stored)); err != nil {
		return goerr.Wrap(err, "failed to put occurrence",
			goerr.V("indicator_id", stored.IndicatorID), goerr.V("period_key", stored.PeriodKey))
	}
	return nil
}

func (r *occurrenceRepository) Get(ctx context.Context, indicatorID types.IndicatorID, periodKey string) (*model.IndicatorOccurrence, error) {
	doc, err := r.client.Collection(r.collection()).
		Doc(occurrenceDocID(indicatorID, periodKey)).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(ErrNotFound, "occurrence not found",
				goerr.V("indicator_id", indicatorID), goerr.V("period_key", periodKey))
		}
		return nil, goerr.Wrap(err, "failed to get occurrence",
			goerr.V("indicator_id", indicatorID), goerr.V("period_key", periodKey))
	}

	var occDoc occurrenceDocument
	if err := doc.DataTo(&occDoc); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal occurrence")
	}
	return occDoc.toModel(), nil
}

func (r *occurrenceRepository) ListByPeriod(ctx context.Context, periodKey string) ([]*model.IndicatorOccurrence, error) {
	iter := r.client.Collection(r.collection()).
		Where("period_key", "==", periodKey).Documents(ctx)
	defer iter.Stop()

	var occurrences []*model.IndicatorOccurrence
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate occurrences")
		}

		var occDoc occurrenceDocument
		if err := doc.DataTo(&occDoc); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal occurrence")
		}
		occurrences = append(occurrences, occDoc.toModel())
	}
	return occurrences, nil
}
