package usecase

import (
	"time"

	"github.com/secmon-lab/horai/pkg/domain/interfaces"
	"github.com/secmon-lab/horai/pkg/domain/model"
	"github.com/secmon-lab/horai/pkg/service/periodkey"
)

type UseCases struct {
	repo  interfaces.Repository
	docs  interfaces.DocumentStore
	clock func() time.Time

	Period     *PeriodUseCase
	Resolve    *ResolveUseCase
	Closing    *ClosingUseCase
	Compare    *CompareUseCase
	Occurrence *OccurrenceUseCase
}

type Option func(*UseCases)

// WithDocumentStore sets the store for signed closing documents
func WithDocumentStore(docs interfaces.DocumentStore) Option {
	return func(uc *UseCases) {
		uc.docs = docs
	}
}

// WithClock overrides the time source, for tests
func WithClock(clock func() time.Time) Option {
	return func(uc *UseCases) {
		uc.clock = clock
	}
}

// WithArchive preloads an archive snapshot for the legacy inspection path
func WithArchive(archive *model.ArchiveSnapshot) Option {
	return func(uc *UseCases) {
		if uc.Resolve != nil {
			uc.Resolve.LoadArchive(archive)
		}
	}
}

func New(repo interfaces.Repository, opts ...Option) *UseCases {
	uc := &UseCases{
		repo:  repo,
		clock: func() time.Time { return time.Now().UTC() },
	}

	codec := periodkey.New(repo.Period())
	uc.Resolve = NewResolveUseCase(repo, codec)

	for _, opt := range opts {
		opt(uc)
	}

	uc.Period = NewPeriodUseCase(repo, uc.clock)
	uc.Closing = NewClosingUseCase(repo, uc.docs, uc.Resolve, uc.clock)
	uc.Compare = NewCompareUseCase(repo, uc.Resolve)
	uc.Occurrence = NewOccurrenceUseCase(repo, uc.Resolve, uc.clock)

	return uc
}
