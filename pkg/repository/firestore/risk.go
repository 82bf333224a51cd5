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

type riskDocument struct {
	ID                   string    `firestore:"id"`
	Name                 string    `firestore:"name"`
	Description          string    `firestore:"description"`
	Qualitative          bool      `firestore:"qualitative"`
	IndicatorID          string    `firestore:"indicator_id"`
	Impact               int       `firestore:"impact"`
	ControlEffectiveness int       `firestore:"control_effectiveness"`
	Active               bool      `firestore:"active"`
	CreatedAt            time.Time `firestore:"created_at"`
	UpdatedAt            time.Time `firestore:"updated_at"`
}

func toRiskDocument(r *model.Risk) *riskDocument {
	return &riskDocument{
		ID:                   r.ID.String(),
		Name:                 r.Name,
		Description:          r.Description,
		Qualitative:          r.Qualitative,
		IndicatorID:          r.IndicatorID.String(),
		Impact:               r.Impact.Int(),
		ControlEffectiveness: r.ControlEffectiveness.Int(),
		Active:               r.Active,
		CreatedAt:            r.CreatedAt,
		UpdatedAt:            r.UpdatedAt,
	}
}

func (d *riskDocument) toModel() *model.Risk {
	return &model.Risk{
		ID:                   types.RiskID(d.ID),
		Name:                 d.Name,
		Description:          d.Description,
		Qualitative:          d.Qualitative,
		IndicatorID:          types.IndicatorID(d.IndicatorID),
		Impact:               types.Rating(d.Impact),
		ControlEffectiveness: types.Rating(d.ControlEffectiveness),
		Active:               d.Active,
		CreatedAt:            d.CreatedAt,
		UpdatedAt:            d.UpdatedAt,
	}
}

type riskRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func newRiskRepository(client *firestore.Client) *riskRepository {
	return &riskRepository{client: client}
}

func (r *riskRepository) collection() string {
	if r.collectionPrefix != "" {
		return r.collectionPrefix + "_risks"
	}
	return "risks"
}

func (r *riskRepository) Create(ctx context.Context, risk *model.Risk) (*model.Risk, error) {
	now := time.Now().UTC()
	created := *risk
	if created.ID == "" {
		created.ID = types.RiskID(uuid.New().String())
	}
	created.CreatedAt = now
	created.UpdatedAt = now

	docRef := r.client.Collection(r.collection()).Doc(created.ID.String())
	if _, err := docRef.Set(ctx, toRiskDocument(&created)); err != nil {
		return nil, goerr.Wrap(err, "failed to create risk", goerr.V("id", created.ID))
	}
	return &created, nil
}

func (r *riskRepository) Get(ctx context.Context, id types.RiskID) (*model.Risk, error) {
	doc, err := r.client.Collection(r.collection()).Doc(id.String()).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(ErrNotFound, "risk not found", goerr.V("id", id))
		}
		return nil, goerr.Wrap(err, "failed to get risk", goerr.V("id", id))
	}

	var riskDoc riskDocument
	if err := doc.DataTo(&riskDoc); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal risk", goerr.V("id", id))
	}
	return riskDoc.toModel(), nil
}

func (r *riskRepository) List(ctx context.Context) ([]*model.Risk, error) {
	return r.list(ctx, r.client.Collection(r.collection()).Query)
}

func (r *riskRepository) ListActive(ctx context.Context) ([]*model.Risk, error) {
	return r.list(ctx, r.client.Collection(r.collection()).Where("active", "==", true))
}

func (r *riskRepository) list(ctx context.Context, query firestore.Query) ([]*model.Risk, error) {
	iter := query.Documents(ctx)
	defer iter.Stop()

	var risks []*model.Risk
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate risks")
		}

		var riskDoc riskDocument
		if err := doc.DataTo(&riskDoc); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal risk")
		}
		risks = append(risks, riskDoc.toModel())
	}
	return risks, nil
}

func (r *riskRepository) Update(ctx context.Context, risk *model.Risk) (*model.Risk, error) {
	docRef := r.client.Collection(r.collection()).Doc(risk.ID.String())

	doc, err := docRef.Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(ErrNotFound, "risk not found", goerr.V("id", risk.ID))
		}
		return nil, goerr.Wrap(err, "failed to get risk", goerr.V("id", risk.ID))
	}

	var existing riskDocument
	if err := doc.DataTo(&existing); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal risk", goerr.V("id", risk.ID))
	}

	updated := *risk
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = time.Now().UTC()

	if _, err := docRef.Set(ctx, toRiskDocument(&updated)); err != nil {
		return nil, goerr.Wrap(err, "failed to update risk", goerr.V("id", risk.ID))
	}
	return &updated, nil
}
