package http

import (
	"net/http"
	"time"

	"github.com/go-chi/render"

	"github.com/secmon-lab/horai/pkg/domain/model"
	"github.com/secmon-lab/horai/pkg/domain/types"
)

type termBody struct {
	Kind    string `json:"kind"`
	Ordinal int    `json:"ordinal,omitempty"`
}

func (b termBody) toTerm() model.Term {
	return model.Term{
		Kind:    types.TermKind(b.Kind),
		Ordinal: b.Ordinal,
	}
}

type periodResponse struct {
	ID            string     `json:"id"`
	Key           string     `json:"key"`
	Year          int        `json:"year"`
	Term          termBody   `json:"term"`
	StartDate     string     `json:"start_date"`
	EndDate       string     `json:"end_date"`
	InputDeadline time.Time  `json:"input_deadline"`
	Status        string     `json:"status"`
	ClosedAt      *time.Time `json:"closed_at,omitempty"`
}

func toPeriodResponse(p *model.Period) *periodResponse {
	resp := &periodResponse{
		ID:   string(p.ID),
		Key:  p.Key(),
		Year: p.Year,
		Term: termBody{
			Kind:    p.Term.Kind.String(),
			Ordinal: p.Term.Ordinal,
		},
		StartDate:     p.StartDate().Format(time.DateOnly),
		EndDate:       p.EndDate().Format(time.DateOnly),
		InputDeadline: p.InputDeadline,
		Status:        p.Status.String(),
	}
	if !p.ClosedAt.IsZero() {
		closedAt := p.ClosedAt
		resp.ClosedAt = &closedAt
	}
	return resp
}

type resolutionResponse struct {
	Probability          *int     `json:"probability"`
	Provenance           string   `json:"provenance,omitempty"`
	Impact               int      `json:"impact"`
	ControlEffectiveness int      `json:"control_effectiveness"`
	IndicatorValue       *float64 `json:"indicator_value,omitempty"`
}

func toResolutionResponse(res *model.Resolution) resolutionResponse {
	resp := resolutionResponse{
		Impact:               res.Impact.Int(),
		ControlEffectiveness: res.ControlEffectiveness.Int(),
		IndicatorValue:       res.IndicatorValue,
	}
	if res.HasProbability {
		p := res.Probability.Int()
		resp.Probability = &p
		resp.Provenance = string(res.Provenance)
	}
	return resp
}

type criticalityResponse struct {
	NetImpact int    `json:"net_impact"`
	Score     int    `json:"score"`
	Level     int    `json:"level"`
	Label     string `json:"label"`
}

func toCriticalityResponse(c model.Criticality, catalog *model.RatingCatalog) criticalityResponse {
	return criticalityResponse{
		NetImpact: c.NetImpact,
		Score:     c.Score,
		Level:     c.Level.Int(),
		Label:     catalog.CriticalityLabel(c.Level),
	}
}

type closingStateResponse struct {
	PeriodID    string    `json:"period_id"`
	Phase       string    `json:"phase"`
	Blocking    []string  `json:"blocking"`
	Warnings    []string  `json:"warnings"`
	DocumentRef string    `json:"document_ref,omitempty"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func toClosingStateResponse(s *model.ClosingState) *closingStateResponse {
	resp := &closingStateResponse{
		PeriodID:    string(s.PeriodID),
		Phase:       string(s.Phase),
		Blocking:    make([]string, 0, len(s.Blocking)),
		Warnings:    make([]string, 0, len(s.Warnings)),
		DocumentRef: s.DocumentRef,
		UpdatedAt:   s.UpdatedAt,
	}
	for _, id := range s.Blocking {
		resp.Blocking = append(resp.Blocking, string(id))
	}
	for _, id := range s.Warnings {
		resp.Warnings = append(resp.Warnings, string(id))
	}
	return resp
}

// scoreMode reads the optional "mode" query parameter, defaulting to the
// net-impact view.
func scoreMode(r *http.Request) (types.ScoreMode, error) {
	raw := r.URL.Query().Get("mode")
	if raw == "" {
		return types.ScoreModeNette, nil
	}
	return types.ParseScoreMode(raw)
}

func respondJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	render.Status(r, status)
	render.JSON(w, r, v)
}
