package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/m-mizutani/goerr/v2"

	"github.com/secmon-lab/horai/pkg/domain/model"
	"github.com/secmon-lab/horai/pkg/domain/types"
	"github.com/secmon-lab/horai/pkg/usecase"
	"github.com/secmon-lab/horai/pkg/utils/errutil"
	"github.com/secmon-lab/horai/pkg/utils/safe"
)

// closingDocumentLimit caps the multipart memory footprint of the signed
// document upload.
const closingDocumentLimit = 32 << 20

func beginClosingHandler(uc *usecase.UseCases) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		periodID := types.PeriodID(chi.URLParam(r, "periodID"))

		state, err := uc.Closing.Begin(r.Context(), periodID)
		if err != nil {
			errutil.HandleHTTP(r.Context(), w, err)
			return
		}
		respondJSON(w, r, http.StatusCreated, toClosingStateResponse(state))
	}
}

func closingStatusHandler(uc *usecase.UseCases) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		periodID := types.PeriodID(chi.URLParam(r, "periodID"))

		state, err := uc.Closing.Status(r.Context(), periodID)
		if err != nil {
			errutil.HandleHTTP(r.Context(), w, err)
			return
		}
		respondJSON(w, r, http.StatusOK, toClosingStateResponse(state))
	}
}

// confirmClosingHandler accepts a multipart form: four checklist fields
// plus the signed supporting document as the "document" file part.
func confirmClosingHandler(uc *usecase.UseCases) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		periodID := types.PeriodID(chi.URLParam(r, "periodID"))

		if err := r.ParseMultipartForm(closingDocumentLimit); err != nil {
			errutil.HandleHTTP(r.Context(), w,
				goerr.Wrap(err, "invalid multipart form", goerr.T(types.ErrTagValidation)))
			return
		}

		checklist := model.ClosingChecklist{
			DocumentAttached:    r.FormValue("document_attached") == "true",
			DataImmutable:       r.FormValue("data_immutable") == "true",
			EditsNotRetroactive: r.FormValue("edits_not_retroactive") == "true",
			OccurrencesArchived: r.FormValue("occurrences_archived") == "true",
		}

		file, header, err := r.FormFile("document")
		if err != nil {
			errutil.HandleHTTP(r.Context(), w,
				goerr.Wrap(err, "signed supporting document is required", goerr.T(types.ErrTagValidation)))
			return
		}
		defer safe.Close(r.Context(), file)

		state, err := uc.Closing.Confirm(r.Context(), periodID, checklist, header.Filename, file)
		if err != nil {
			errutil.HandleHTTP(r.Context(), w, err)
			return
		}
		respondJSON(w, r, http.StatusOK, toClosingStateResponse(state))
	}
}

func cancelClosingHandler(uc *usecase.UseCases) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		periodID := types.PeriodID(chi.URLParam(r, "periodID"))

		if err := uc.Closing.Cancel(r.Context(), periodID); err != nil {
			errutil.HandleHTTP(r.Context(), w, err)
			return
		}
		respondJSON(w, r, http.StatusOK, map[string]string{"status": "cancelled"})
	}
}
