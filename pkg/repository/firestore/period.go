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

type periodDocument struct {
	ID            string    `firestore:"id"`
	Year          int       `firestore:"year"`
	TermKind      string    `firestore:"term_kind"`
	TermOrdinal   int       `firestore:"term_ordinal"`
	Key           string    `firestore:"key"`
	StartDate     time.Time `firestore:"start_date"`
	EndDate       time.Time `firestore:"end_date"`
	InputDeadline time.Time `firestore:"input_deadline"`
	Status        string    `firestore:"status"`
	CreatedAt     time.Time `firestore:"created_at"`
	UpdatedAt     time.Time `firestore:"updated_at"`
	ClosedAt      time.Time `firestore:"closed_at"`
}

func toPeriodDocument(p *model.Period) *periodDocument {
	return &periodDocument{
		ID:            p.ID.String(),
		Year:          p.Year,
		TermKind:      p.Term.Kind.String(),
		TermOrdinal:   p.Term.Ordinal,
		Key:           p.Key(),
		StartDate:     p.StartDate(),
		EndDate:       p.EndDate(),
		InputDeadline: p.InputDeadline,
		Status:        p.Status.String(),
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
		ClosedAt:      p.ClosedAt,
	}
}

func (d *periodDocument) toModel() *model.Period {
	return &model.Period{
		ID:            types.PeriodID(d.ID),
		Year:          d.Year,
		Term:          model.Term{Kind: types.TermKind(d.TermKind), Ordinal: d.TermOrdinal},
		InputDeadline: d.InputDeadline,
		Status:        types.PeriodStatus(d.Status),
		CreatedAt:     d.CreatedAt,
		UpdatedAt:     d.UpdatedAt,
		ClosedAt:      d.ClosedAt,
	}
}

type periodRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func newPeriodRepository(client *firestore.Client) *periodRepository {
	return &periodRepository{client: client}
}

func (r *periodRepository) collection() string {
	if r.collectionPrefix != "" {
		return r.collectionPrefix + "_periods"
	}
	return "periods"
}

// Create writes the new open period inside a transaction that also checks
// the single-open-period invariant and the year/term uniqueness.
func (r *periodRepository) Create(ctx context.Context, period *model.Period) (*model.Period, error) {
	now := time.Now().UTC()
	created := *period
	if created.ID == "" {
		created.ID = types.NewPeriodID()
	}
	created.Status = types.PeriodStatusOpen
	created.CreatedAt = now
	created.UpdatedAt = now

	docRef := r.client.Collection(r.collection()).Doc(created.ID.String())

	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		openQuery := r.client.Collection(r.collection()).
			Where("status", "==", types.PeriodStatusOpen.String()).Limit(1)
		openIter := tx.Documents(openQuery)
		defer openIter.Stop()
		if doc, err := openIter.Next(); err != iterator.Done {
			if err != nil {
				return goerr.Wrap(err, "failed to query open periods")
			}
			return goerr.New("another period is already open",
				goerr.V("open_period", doc.Ref.ID), goerr.T(types.ErrTagInvariant))
		}

		keyQuery := r.client.Collection(r.collection()).
			Where("key", "==", created.Key()).Limit(1)
		keyIter := tx.Documents(keyQuery)
		defer keyIter.Stop()
		if _, err := keyIter.Next(); err != iterator.Done {
			if err != nil {
				return goerr.Wrap(err, "failed to query periods by key")
			}
			return goerr.New("a closed period already exists for this year and term",
				goerr.V("key", created.Key()), goerr.T(types.ErrTagInvariant))
		}

		return tx.Set(docRef, toPeriodDocument(&created))
	})
	if err != nil {
		if goerr.HasTag(err, types.ErrTagInvariant) {
			return nil, err
		}
		return nil, goerr.Wrap(err, "failed to create period", goerr.V("key", created.Key()))
	}

	return &created, nil
}

func (r *periodRepository) Get(ctx context.Context, id types.PeriodID) (*model.Period, error) {
	doc, err := r.client.Collection(r.collection()).Doc(id.String()).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(ErrNotFound, "period not found", goerr.V("id", id))
		}
		return nil, goerr.Wrap(err, "failed to get period", goerr.V("id", id))
	}

	var periodDoc periodDocument
	if err := doc.DataTo(&periodDoc); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal period", goerr.V("id", id))
	}
	return periodDoc.toModel(), nil
}

func (r *periodRepository) GetByKey(ctx context.Context, key string) (*model.Period, error) {
	iter := r.client.Collection(r.collection()).Where("key", "==", key).Limit(1).Documents(ctx)
	defer iter.Stop()

	doc, err := iter.Next()
	if err == iterator.Done {
		return nil, goerr.Wrap(ErrNotFound, "period not found", goerr.V("key", key))
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to query period by key", goerr.V("key", key))
	}

	var periodDoc periodDocument
	if err := doc.DataTo(&periodDoc); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal period", goerr.V("key", key))
	}
	return periodDoc.toModel(), nil
}

func (r *periodRepository) List(ctx context.Context) ([]*model.Period, error) {
	iter := r.client.Collection(r.collection()).Documents(ctx)
	defer iter.Stop()

	var periods []*model.Period
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate periods")
		}

		var periodDoc periodDocument
		if err := doc.DataTo(&periodDoc); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal period")
		}
		periods = append(periods, periodDoc.toModel())
	}
	return periods, nil
}

func (r *periodRepository) GetOpen(ctx context.Context) (*model.Period, error) {
	iter := r.client.Collection(r.collection()).
		Where("status", "==", types.PeriodStatusOpen.String()).Limit(1).Documents(ctx)
	defer iter.Stop()

	doc, err := iter.Next()
	if err == iterator.Done {
		return nil, nil
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to query open period")
	}

	var periodDoc periodDocument
	if err := doc.DataTo(&periodDoc); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal period")
	}
	return periodDoc.toModel(), nil
}

func (r *periodRepository) GetMostRecent(ctx context.Context) (*model.Period, error) {
	iter := r.client.Collection(r.collection()).
		OrderBy("end_date", firestore.Desc).Limit(1).Documents(ctx)
	defer iter.Stop()

	doc, err := iter.Next()
	if err == iterator.Done {
		return nil, nil
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to query most recent period")
	}

	var periodDoc periodDocument
	if err := doc.DataTo(&periodDoc); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal period")
	}
	return periodDoc.toModel(), nil
}
