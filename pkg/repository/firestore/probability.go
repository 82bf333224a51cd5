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

type probabilityDocument struct {
	ID                         string    `firestore:"id"`
	RiskID                     string    `firestore:"risk_id"`
	PeriodKey                  string    `firestore:"period_key"`
	Probability                *int      `firestore:"probability"`
	Provenance                 string    `firestore:"provenance"`
	Justification              string    `firestore:"justification"`
	Frozen                     bool      `firestore:"frozen"`
	FrozenImpact               *int      `firestore:"frozen_impact"`
	FrozenControlEffectiveness *int      `firestore:"frozen_control_effectiveness"`
	IndicatorObtained          bool      `firestore:"indicator_obtained"`
	UpdatedAt                  time.Time `firestore:"updated_at"`
}

func ratingToInt(r *types.Rating) *int {
	if r == nil {
		return nil
	}
	v := r.Int()
	return &v
}

func intToRating(v *int) *types.Rating {
	if v == nil {
		return nil
	}
	r := types.Rating(*v)
	return &r
}

func toProbabilityDocument(p *model.ProbabilityRecord) *probabilityDocument {
	return &probabilityDocument{
		ID:                         p.ID.String(),
		RiskID:                     p.RiskID.String(),
		PeriodKey:                  p.PeriodKey,
		Probability:                ratingToInt(p.Probability),
		Provenance:                 p.Provenance.String(),
		Justification:              p.Justification,
		Frozen:                     p.Frozen,
		FrozenImpact:               ratingToInt(p.FrozenImpact),
		FrozenControlEffectiveness: ratingToInt(p.FrozenControlEffectiveness),
		IndicatorObtained:          p.IndicatorObtained,
		UpdatedAt:                  p.UpdatedAt,
	}
}

func (d *probabilityDocument) toModel() *model.ProbabilityRecord {
	return &model.ProbabilityRecord{
		ID:                         types.RecordID(d.ID),
		RiskID:                     types.RiskID(d.RiskID),
		PeriodKey:                  d.PeriodKey,
		Probability:                intToRating(d.Probability),
		Provenance:                 types.Provenance(d.Provenance),
		Justification:              d.Justification,
		Frozen:                     d.Frozen,
		FrozenImpact:               intToRating(d.FrozenImpact),
		FrozenControlEffectiveness: intToRating(d.FrozenControlEffectiveness),
		IndicatorObtained:          d.IndicatorObtained,
		UpdatedAt:                  d.UpdatedAt,
	}
}

type probabilityRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func newProbabilityRepository(client *firestore.Client) *probabilityRepository {
	return &probabilityRepository{client: client}
}

func (r *probabilityRepository) collection() string {
	if r.collectionPrefix != "" {
		return r.collectionPrefix + "_probability_records"
	}
	return "probability_records"
}

func probabilityDocID(riskID types.RiskID, periodKey string) string {
	return riskID.String() + "|" + periodKey
}

func (r *probabilityRepository) Put(ctx context.Context, record *model.ProbabilityRecord) (*model.ProbabilityRecord, error) {
	if err := record.Validate(); err != nil {
		return nil, err
	}

	docRef := r.client.Collection(r.collection()).
		Doc(probabilityDocID(record.RiskID, record.PeriodKey))

	stored := *record
	if stored.ID == "" {
		stored.ID = types.NewRecordID()
	}
	stored.UpdatedAt = time.Now().UTC()

	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		doc, err := tx.Get(docRef)
		if err != nil && status.Code(err) != codes.NotFound {
			return goerr.Wrap(err, "failed to get record")
		}
		if err == nil {
			var existing probabilityDocument
			if err := doc.DataTo(&existing); err != nil {
				return goerr.Wrap(err, "failed to unmarshal record")
			}
			if existing.Frozen {
				return goerr.New("record is frozen",
					goerr.V("risk_id", record.RiskID), goerr.V("period_key", record.PeriodKey),
					goerr.T(types.ErrTagInvariant))
			}
			stored.ID = types.RecordID(existing.ID)
		}
		return tx.Set(docRef, toProbabilityDocument(&stored))
	})
	if err != nil {
		if goerr.HasTag(err, types.ErrTagInvariant) {
			return nil, err
		}
		return nil, goerr.Wrap(err, "failed to put probability record",
			goerr.V("risk_id", record.RiskID), goerr.V("period_key", record.PeriodKey))
	}

	return &stored, nil
}

func (r *probabilityRepository) Get(ctx context.Context, riskID types.RiskID, periodKey string) (*model.ProbabilityRecord, error) {
	doc, err := r.client.Collection(r.collection()).
		Doc(probabilityDocID(riskID, periodKey)).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(ErrNotFound, "probability record not found",
				goerr.V("risk_id", riskID), goerr.V("period_key", periodKey))
		}
		return nil, goerr.Wrap(err, "failed to get probability record",
			goerr.V("risk_id", riskID), goerr.V("period_key", periodKey))
	}

	var recordDoc probabilityDocument
	if err := doc.DataTo(&recordDoc); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal probability record")
	}
	return recordDoc.toModel(), nil
}

func (r *probabilityRepository) Delete(ctx context.Context, riskID types.RiskID, periodKey string) error {
	docRef := r.client.Collection(r.collection()).
		Doc(probabilityDocID(riskID, periodKey))

	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		doc, err := tx.Get(docRef)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return goerr.Wrap(ErrNotFound, "probability record not found",
					goerr.V("risk_id", riskID), goerr.V("period_key", periodKey))
			}
			return goerr.Wrap(err, "failed to get record")
		}

		var existing probabilityDocument
		if err := doc.DataTo(&existing); err != nil {
			return goerr.Wrap(err, "failed to unmarshal record")
		}
		if existing.Frozen {
			return goerr.New("record is frozen",
				goerr.V("risk_id", riskID), goerr.V("period_key", periodKey),
				goerr.T(types.ErrTagInvariant))
		}
		return tx.Delete(docRef)
	})
	if err != nil {
		if goerr.HasTag(err, types.ErrTagInvariant) || goerr.HasTag(err, types.ErrTagNotFound) {
			return err
		}
		return goerr.Wrap(err, "failed to delete probability record",
			goerr.V("risk_id", riskID), goerr.V("period_key", periodKey))
	}
	return nil
}

func (r *probabilityRepository) ListByPeriod(ctx context.Context, periodKey string) ([]*model.ProbabilityRecord, error) {
	iter := r.client.Collection(r.collection()).
		Where("period_key", "==", periodKey).Documents(ctx)
	defer iter.Stop()

	var records []*model.ProbabilityRecord
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate probability records")
		}

		var recordDoc probabilityDocument
		if err := doc.DataTo(&recordDoc); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal probability record")
		}
		records = append(records, recordDoc.toModel())
	}
	return records, nil
}
