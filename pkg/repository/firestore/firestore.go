// Package firestore provides the production repository backend. The
// single-open-period invariant and the archival period close both run
// inside Firestore transactions.
package firestore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/horai/pkg/domain/interfaces"
	"github.com/secmon-lab/horai/pkg/domain/model"
	"github.com/secmon-lab/horai/pkg/domain/types"
	"google.golang.org/api/iterator"
)

type Firestore struct {
	client      *firestore.Client
	period      *periodRepository
	risk        *riskRepository
	indicator   *indicatorRepository
	occurrence  *occurrenceRepository
	probability *probabilityRepository
}

var _ interfaces.Repository = &Firestore{}

type Option func(*Firestore)

// WithCollectionPrefix prefixes every collection name, so multiple
// deployments can share one database.
func WithCollectionPrefix(prefix string) Option {
	return func(f *Firestore) {
		f.period.collectionPrefix = prefix
		f.risk.collectionPrefix = prefix
		f.indicator.collectionPrefix = prefix
		f.occurrence.collectionPrefix = prefix
		f.probability.collectionPrefix = prefix
	}
}

func New(ctx context.Context, projectID, databaseID string, opts ...Option) (*Firestore, error) {
	var client *firestore.Client
	var err error
	if databaseID == "" {
		client, err = firestore.NewClient(ctx, projectID)
	} else {
		client, err = firestore.NewClientWithDatabase(ctx, projectID, databaseID)
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create firestore client",
			goerr.V("projectID", projectID), goerr.V("databaseID", databaseID))
	}

	f := &Firestore{
		client:      client,
		period:      newPeriodRepository(client),
		risk:        newRiskRepository(client),
		indicator:   newIndicatorRepository(client),
		occurrence:  newOccurrenceRepository(client),
		probability: newProbabilityRepository(client),
	}

	for _, opt := range opts {
		opt(f)
	}

	return f, nil
}

func (f *Firestore) Period() interfaces.PeriodRepository {
	return f.period
}

func (f *Firestore) Risk() interfaces.RiskRepository {
	return f.risk
}

func (f *Firestore) Indicator() interfaces.IndicatorRepository {
	return f.indicator
}

func (f *Firestore) Occurrence() interfaces.OccurrenceRepository {
	return f.occurrence
}

func (f *Firestore) Probability() interfaces.ProbabilityRepository {
	return f.probability
}

// ClosePeriod runs the archival close as one Firestore transaction: all
// reads first (period, occurrences), then the record snapshots, occurrence
// archive flags and the status flip. Any failure aborts the whole
// transaction and the period stays open.
func (f *Firestore) ClosePeriod(ctx context.Context, periodID types.PeriodID, records []*model.ProbabilityRecord) error {
	for _, record := range records {
		if err := record.Validate(); err != nil {
			return goerr.Wrap(err, "invalid snapshot record", goerr.T(types.ErrTagTransaction))
		}
	}

	periodRef := f.client.Collection(f.period.collection()).Doc(periodID.String())

	err := f.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		doc, err := tx.Get(periodRef)
		if err != nil {
			return goerr.Wrap(err, "failed to get period", goerr.V("id", periodID))
		}

		var periodDoc periodDocument
		if err := doc.DataTo(&periodDoc); err != nil {
			return goerr.Wrap(err, "failed to unmarshal period", goerr.V("id", periodID))
		}
		if periodDoc.Status == types.PeriodStatusClosed.String() {
			return goerr.New("period is already closed",
				goerr.V("id", periodID), goerr.T(types.ErrTagInvariant))
		}

		query := f.client.Collection(f.occurrence.collection()).
			Where("period_key", "==", periodDoc.Key)
		iter := tx.Documents(query)
		defer iter.Stop()

		var occurrenceRefs []*firestore.DocumentRef
		for {
			occDoc, err := iter.Next()
			if err == iterator.Done {
				break
			}
			if err != nil {
				return goerr.Wrap(err, "failed to iterate occurrences")
			}
			occurrenceRefs = append(occurrenceRefs, occDoc.Ref)
		}

		now := time.Now().UTC()
		for _, record := range records {
			stored := *record
			if stored.ID == "" {
				stored.ID = types.NewRecordID()
			}
			stored.Frozen = true
			stored.UpdatedAt = now

			ref := f.client.Collection(f.probability.collection()).
				Doc(probabilityDocID(stored.RiskID, stored.PeriodKey))
			if err := tx.Set(ref, toProbabilityDocument(&stored)); err != nil {
				return goerr.Wrap(err, "failed to freeze record", goerr.V("risk_id", stored.RiskID))
			}
		}

		for _, ref := range occurrenceRefs {
			if err := tx.Update(ref, []firestore.Update{
				{Path: "archived", Value: true},
			}); err != nil {
				return goerr.Wrap(err, "failed to archive occurrence")
			}
		}

		return tx.Update(periodRef, []firestore.Update{
			{Path: "status", Value: types.PeriodStatusClosed.String()},
			{Path: "closed_at", Value: now},
			{Path: "updated_at", Value: now},
		})
	})
	if err != nil {
		if goerr.HasTag(err, types.ErrTagInvariant) {
			return err
		}
		return goerr.Wrap(err, "period close transaction failed",
			goerr.V("id", periodID), goerr.T(types.ErrTagTransaction))
	}

	return nil
}

func (f *Firestore) Close() error {
	if f.client != nil {
		return f.client.Close()
	}
	return nil
}
