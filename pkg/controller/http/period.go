package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/m-mizutani/goerr/v2"

	"github.com/secmon-lab/horai/pkg/domain/model"
	"github.com/secmon-lab/horai/pkg/domain/types"
	"github.com/secmon-lab/horai/pkg/usecase"
	"github.com/secmon-lab/horai/pkg/utils/errutil"
)

func listPeriodsHandler(uc *usecase.UseCases) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		periods, err := uc.Period.List(r.Context())
		if err != nil {
			errutil.HandleHTTP(r.Context(), w, err)
			return
		}

		resp := make([]*periodResponse, 0, len(periods))
		for _, p := range periods {
			resp = append(resp, toPeriodResponse(p))
		}
		respondJSON(w, r, http.StatusOK, resp)
	}
}

func openPeriodHandler(uc *usecase.UseCases) http.HandlerFunc {
	type request struct {
		Year          int       `json:"year"`
		Term          termBody  `json:"term"`
		InputDeadline time.Time `json:"input_deadline"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		var req request
		if err := render.DecodeJSON(r.Body, &req); err != nil {
			errutil.HandleHTTP(r.Context(), w,
				goerr.Wrap(err, "invalid period request", goerr.T(types.ErrTagValidation)))
			return
		}

		period, err := uc.Period.Open(r.Context(), req.Year, req.Term.toTerm(), req.InputDeadline)
		if err != nil {
			errutil.HandleHTTP(r.Context(), w, err)
			return
		}
		respondJSON(w, r, http.StatusCreated, toPeriodResponse(period))
	}
}

func openPeriodStatusHandler(uc *usecase.UseCases) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		period, err := uc.Period.GetOpen(r.Context())
		if err != nil {
			errutil.HandleHTTP(r.Context(), w, err)
			return
		}
		if period == nil {
			errutil.HandleHTTP(r.Context(), w,
				goerr.Wrap(usecase.ErrNoOpenPeriod, "no open period", goerr.T(types.ErrTagNotFound)))
			return
		}
		respondJSON(w, r, http.StatusOK, toPeriodResponse(period))
	}
}

func recentPeriodHandler(uc *usecase.UseCases) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		period, err := uc.Period.GetMostRecent(r.Context())
		if err != nil {
			errutil.HandleHTTP(r.Context(), w, err)
			return
		}
		if period == nil {
			errutil.HandleHTTP(r.Context(), w,
				goerr.New("no period has been opened yet", goerr.T(types.ErrTagNotFound)))
			return
		}
		respondJSON(w, r, http.StatusOK, toPeriodResponse(period))
	}
}

func synthesisHandler(uc *usecase.UseCases, catalog *model.RatingCatalog) http.HandlerFunc {
	type row struct {
		RiskID      string              `json:"risk_id"`
		RiskName    string              `json:"risk_name"`
		Resolution  resolutionResponse  `json:"resolution"`
		Criticality criticalityResponse `json:"criticality"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		mode, err := scoreMode(r)
		if err != nil {
			errutil.HandleHTTP(r.Context(), w,
				goerr.Wrap(err, "invalid score mode", goerr.T(types.ErrTagValidation)))
			return
		}

		periodID := types.PeriodID(chi.URLParam(r, "periodID"))
		period, err := uc.Period.Get(r.Context(), periodID)
		if err != nil {
			errutil.HandleHTTP(r.Context(), w, err)
			return
		}

		rows, err := uc.Resolve.Synthesis(r.Context(), period.Key(), mode)
		if err != nil {
			errutil.HandleHTTP(r.Context(), w, err)
			return
		}

		resp := make([]row, 0, len(rows))
		for _, sr := range rows {
			resp = append(resp, row{
				RiskID:      string(sr.RiskID),
				RiskName:    sr.RiskName,
				Resolution:  toResolutionResponse(&sr.Resolution),
				Criticality: toCriticalityResponse(sr.Criticality, catalog),
			})
		}
		respondJSON(w, r, http.StatusOK, resp)
	}
}
