package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/dtarqui/project-ci-cd-sub000/internal/domain"
	"github.com/dtarqui/project-ci-cd-sub000/internal/report"
	"github.com/dtarqui/project-ci-cd-sub000/internal/store"
)

type Service struct {
	repo      store.Repository
	summaries *report.Engine
	now       func() time.Time
}

type Option func(*Service)

// WithClock replaces the wall clock used for timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

func New(repo store.Repository, summaries *report.Engine, opts ...Option) *Service {
	if summaries == nil {
		summaries = report.NewEngine(nil, 0)
	}

	svc := &Service{
		repo:      repo,
		summaries: summaries,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

func (s *Service) timestamp() time.Time {
	return s.now().UTC()
}

// invalidateSummary drops the cached dashboard summary after a mutation. A
// failure only delays freshness until the entry expires.
func (s *Service) invalidateSummary(ctx context.Context, reason string) {
	if err := s.summaries.Invalidate(ctx); err != nil {
		log.Printf("[service] WARN: failed to invalidate dashboard summary after %s: %v", reason, err)
	}
}

// translateNotFound swaps the store's generic not-found for the entity's code.
func translateNotFound(err error, notFound *domain.Error, id int64) error {
	if errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("%w: id %d", notFound, id)
	}
	return err
}
