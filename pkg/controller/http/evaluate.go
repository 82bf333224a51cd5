package http

import (
	"net/http"

	"github.com/go-chi/render"
	"github.com/m-mizutani/goerr/v2"

	"github.com/secmon-lab/horai/pkg/domain/model"
	"github.com/secmon-lab/horai/pkg/domain/types"
	"github.com/secmon-lab/horai/pkg/service/criticality"
	"github.com/secmon-lab/horai/pkg/usecase"
	"github.com/secmon-lab/horai/pkg/utils/errutil"
)

func resolveHandler(uc *usecase.UseCases) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		riskID := types.RiskID(r.URL.Query().Get("risk"))
		periodKey := r.URL.Query().Get("period")
		if riskID == "" || periodKey == "" {
			errutil.HandleHTTP(r.Context(), w,
				goerr.New("risk and period query parameters are required", goerr.T(types.ErrTagValidation)))
			return
		}

		res, err := uc.Resolve.Resolve(r.Context(), riskID, periodKey)
		if err != nil {
			errutil.HandleHTTP(r.Context(), w, err)
			return
		}
		respondJSON(w, r, http.StatusOK, toResolutionResponse(res))
	}
}

func criticalityHandler(catalog *model.RatingCatalog) http.HandlerFunc {
	type request struct {
		Impact               int    `json:"impact"`
		ControlEffectiveness int    `json:"control_effectiveness"`
		Probability          *int   `json:"probability"`
		Mode                 string `json:"mode"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		var req request
		if err := render.DecodeJSON(r.Body, &req); err != nil {
			errutil.HandleHTTP(r.Context(), w,
				goerr.Wrap(err, "invalid criticality request", goerr.T(types.ErrTagValidation)))
			return
		}

		mode := types.ScoreModeNette
		if req.Mode != "" {
			parsed, err := types.ParseScoreMode(req.Mode)
			if err != nil {
				errutil.HandleHTTP(r.Context(), w,
					goerr.Wrap(err, "invalid score mode", goerr.T(types.ErrTagValidation)))
				return
			}
			mode = parsed
		}

		impact := types.Rating(req.Impact)
		eff := types.Rating(req.ControlEffectiveness)
		if err := impact.Validate(); err != nil {
			errutil.HandleHTTP(r.Context(), w, err)
			return
		}
		if err := eff.Validate(); err != nil {
			errutil.HandleHTTP(r.Context(), w, err)
			return
		}

		var probability types.Rating
		hasProbability := false
		if req.Probability != nil {
			probability = types.Rating(*req.Probability)
			if err := probability.Validate(); err != nil {
				errutil.HandleHTTP(r.Context(), w, err)
				return
			}
			hasProbability = true
		}

		result := criticality.Compute(impact, eff, probability, hasProbability, mode)
		respondJSON(w, r, http.StatusOK, toCriticalityResponse(result, catalog))
	}
}

func writeProbabilityHandler(uc *usecase.UseCases) http.HandlerFunc {
	type request struct {
		RiskID        string `json:"risk_id"`
		Period        string `json:"period"`
		Probability   *int   `json:"probability"`
		Justification string `json:"justification"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		var req request
		if err := render.DecodeJSON(r.Body, &req); err != nil {
			errutil.HandleHTTP(r.Context(), w,
				goerr.Wrap(err, "invalid probability request", goerr.T(types.ErrTagValidation)))
			return
		}

		var probability *types.Rating
		if req.Probability != nil {
			p := types.Rating(*req.Probability)
			probability = &p
		}

		record, err := uc.Resolve.WriteManual(r.Context(),
			types.RiskID(req.RiskID), req.Period, probability, req.Justification)
		if err != nil {
			errutil.HandleHTTP(r.Context(), w, err)
			return
		}
		if record == nil {
			respondJSON(w, r, http.StatusOK, map[string]string{"status": "deleted"})
			return
		}
		respondJSON(w, r, http.StatusOK, map[string]string{"status": "written", "record_id": string(record.ID)})
	}
}

func putOccurrenceHandler(uc *usecase.UseCases) http.HandlerFunc {
	type request struct {
		IndicatorID string   `json:"indicator_id"`
		Period      string   `json:"period"`
		Value       *float64 `json:"value"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		var req request
		if err := render.DecodeJSON(r.Body, &req); err != nil {
			errutil.HandleHTTP(r.Context(), w,
				goerr.Wrap(err, "invalid occurrence request", goerr.T(types.ErrTagValidation)))
			return
		}

		occurrence, err := uc.Occurrence.Record(r.Context(),
			types.IndicatorID(req.IndicatorID), req.Period, req.Value)
		if err != nil {
			errutil.HandleHTTP(r.Context(), w, err)
			return
		}
		respondJSON(w, r, http.StatusOK, map[string]any{
			"indicator_id": string(occurrence.IndicatorID),
			"period_key":   occurrence.PeriodKey,
			"value":        occurrence.Value,
		})
	}
}

func compareHandler(uc *usecase.UseCases) http.HandlerFunc {
	type row struct {
		RiskID          string `json:"risk_id"`
		RiskName        string `json:"risk_name"`
		PreviousLevel   int    `json:"previous_level"`
		CurrentLevel    int    `json:"current_level"`
		AttenuationRate int    `json:"attenuation_rate"`
	}
	type response struct {
		Available          bool   `json:"available"`
		FailedPrecondition string `json:"failed_precondition,omitempty"`
		FilterKey          string `json:"filter_key"`
		ComparisonKey      string `json:"comparison_key"`
		Rows               []row  `json:"rows,omitempty"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		filterKey := r.URL.Query().Get("filter")
		comparisonKey := r.URL.Query().Get("comparison")
		if filterKey == "" || comparisonKey == "" {
			errutil.HandleHTTP(r.Context(), w,
				goerr.New("filter and comparison query parameters are required", goerr.T(types.ErrTagValidation)))
			return
		}

		mode, err := scoreMode(r)
		if err != nil {
			errutil.HandleHTTP(r.Context(), w,
				goerr.Wrap(err, "invalid score mode", goerr.T(types.ErrTagValidation)))
			return
		}

		result, err := uc.Compare.Compare(r.Context(), filterKey, comparisonKey, mode)
		if err != nil {
			errutil.HandleHTTP(r.Context(), w, err)
			return
		}

		resp := response{
			Available:          result.Available,
			FailedPrecondition: result.FailedPrecondition,
			FilterKey:          result.FilterKey,
			ComparisonKey:      result.ComparisonKey,
		}
		for _, cr := range result.Rows {
			resp.Rows = append(resp.Rows, row{
				RiskID:          string(cr.RiskID),
				RiskName:        cr.RiskName,
				PreviousLevel:   cr.PreviousLevel.Int(),
				CurrentLevel:    cr.CurrentLevel.Int(),
				AttenuationRate: cr.AttenuationRate,
			})
		}

		status := http.StatusOK
		if !result.Available {
			status = http.StatusUnprocessableEntity
		}
		respondJSON(w, r, status, resp)
	}
}
