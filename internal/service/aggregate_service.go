package service

import (
	"taccuino-server/internal/domain"
	"taccuino-server/internal/repository"

	"github.com/rs/zerolog"
)

// AggregateService keeps a pathology's denormalized note summary consistent
// with its note collection. The summary is re-derived in full on every note
// mutation rather than patched incrementally, so a missed event can never
// accumulate drift: the next mutation repairs everything.
type AggregateService struct {
	noteRepo      repository.NoteRepository
	pathologyRepo repository.PathologyRepository
	logger        zerolog.Logger
}

func NewAggregateService(
	noteRepo repository.NoteRepository,
	pathologyRepo repository.PathologyRepository,
	logger zerolog.Logger,
) *AggregateService {
	return &AggregateService{
		noteRepo:      noteRepo,
		pathologyRepo: pathologyRepo,
		logger:        logger,
	}
}

// Refresh recomputes and persists the summary for one pathology. It must be
// called after the triggering note write has committed, so both reads observe
// it. The reads and the final write are not one transaction; two concurrent
// refreshes of the same pathology race on the write and the later one wins.
func (s *AggregateService) Refresh(pathologyID string) error {
	count, err := s.noteRepo.CountByPathology(pathologyID)
	if err != nil {
		s.logger.Warn().Err(err).Str("pathology_id", pathologyID).Msg("summary refresh failed at count")
		return &StaleAggregateError{PathologyID: pathologyID, Err: err}
	}

	latest, err := s.noteRepo.LatestByPathology(pathologyID)
	if err != nil {
		s.logger.Warn().Err(err).Str("pathology_id", pathologyID).Msg("summary refresh failed at latest-note query")
		return &StaleAggregateError{PathologyID: pathologyID, Err: err}
	}

	var summary *domain.NoteSummary
	if latest != nil {
		summary = &domain.NoteSummary{
			ID:        latest.ID,
			Title:     latest.Title,
			Body:      latest.Body,
			CreatedAt: latest.CreatedAt,
			UpdatedAt: latest.UpdatedAt,
		}
	}

	if err := s.pathologyRepo.UpdateSummary(pathologyID, count, summary); err != nil {
		s.logger.Warn().Err(err).Str("pathology_id", pathologyID).Msg("summary refresh failed at write")
		return &StaleAggregateError{PathologyID: pathologyID, Err: err}
	}

	return nil
}
