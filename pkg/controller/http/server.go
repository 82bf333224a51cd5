package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/secmon-lab/horai/pkg/domain/model"
	"github.com/secmon-lab/horai/pkg/usecase"
)

type Server struct {
	router  *chi.Mux
	uc      *usecase.UseCases
	catalog *model.RatingCatalog
}

type Options func(*Server)

// WithCatalog applies the organization's rating labels to responses
func WithCatalog(catalog *model.RatingCatalog) Options {
	return func(s *Server) {
		s.catalog = catalog
	}
}

func New(uc *usecase.UseCases, opts ...Options) *Server {
	r := chi.NewRouter()

	s := &Server{
		router: r,
		uc:     uc,
	}
	for _, opt := range opts {
		opt(s)
	}

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(accessLogger)
	r.Use(middleware.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Route("/periods", func(r chi.Router) {
			r.Get("/", listPeriodsHandler(uc))
			r.Post("/", openPeriodHandler(uc))
			r.Get("/open", openPeriodStatusHandler(uc))
			r.Get("/recent", recentPeriodHandler(uc))
			r.Get("/{periodID}/synthesis", synthesisHandler(uc, s.catalog))

			r.Route("/{periodID}/closing", func(r chi.Router) {
				r.Post("/", beginClosingHandler(uc))
				r.Get("/", closingStatusHandler(uc))
				r.Put("/", confirmClosingHandler(uc))
				r.Delete("/", cancelClosingHandler(uc))
			})
		})

		r.Get("/resolve", resolveHandler(uc))
		r.Post("/criticality", criticalityHandler(s.catalog))
		r.Put("/probability", writeProbabilityHandler(uc))
		r.Put("/occurrences", putOccurrenceHandler(uc))
		r.Get("/compare", compareHandler(uc))
	})

	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}
