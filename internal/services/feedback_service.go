package services

import (
	"context"

	"socialdesk/internal/domain"
	"socialdesk/internal/media"
	"socialdesk/internal/repository"
)

type FeedbackService struct {
	repo   *repository.FeedbackRepository
	media  *media.Handler
	counts countsTracker
}

func NewFeedbackService(repo *repository.FeedbackRepository, m *media.Handler, counts countsTracker) *FeedbackService {
	return &FeedbackService{repo: repo, media: m, counts: counts}
}

func parts(p *media.Part) []media.Part {
	if p == nil {
		return nil
	}
	return []media.Part{*p}
}

// Submit stores feedback. An uploaded file replaces any media given in the body.
func (s *FeedbackService) Submit(ctx context.Context, in domain.FeedbackInput, file *media.Part) (*domain.Feedback, error) {
	probe := in
	if file != nil {
		probe.Media = domain.StructuredMedia(pending(parts(file), file.Field)[0])
	}
	if _, err := domain.NewFeedback(probe); err != nil {
		return nil, err
	}

	batch, err := s.media.Upload(ctx, media.FeedbackMedia, parts(file))
	if err != nil {
		return nil, err
	}
	if a := batch.First(FieldMedia); a != nil {
		in.Media = domain.StructuredMedia(*a)
	}
	fb, err := domain.NewFeedback(in)
	if err != nil {
		rollback(ctx, batch)
		return nil, err
	}
	if err := s.repo.Create(ctx, fb); err != nil {
		rollback(ctx, batch)
		return nil, err
	}
	s.counts.invalidate(ctx)
	return fb, nil
}

func (s *FeedbackService) List(ctx context.Context, page repository.Page) (repository.PageResult[domain.Feedback], error) {
	return s.repo.List(ctx, page)
}

func (s *FeedbackService) Get(ctx context.Context, id string) (*domain.Feedback, error) {
	return s.repo.Get(ctx, id)
}

// Update applies patch. A new file is uploaded first and the old object is
// destroyed only once the record points at the new one.
func (s *FeedbackService) Update(ctx context.Context, id string, patch domain.FeedbackPatch, file *media.Part) (*domain.Feedback, error) {
	current, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	probe, probePatch := *current, patch
	if file != nil {
		m := domain.StructuredMedia(pending(parts(file), file.Field)[0])
		probePatch.Media = &m
	}
	if err := probePatch.Apply(&probe); err != nil {
		return nil, err
	}

	batch, err := s.media.Upload(ctx, media.FeedbackMedia, parts(file))
	if err != nil {
		return nil, err
	}
	if a := batch.First(FieldMedia); a != nil {
		m := domain.StructuredMedia(*a)
		patch.Media = &m
	}
	return updateWithUploads(ctx, s.repo, id, batch, patch.Apply)
}

func (s *FeedbackService) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.counts.invalidate(ctx)
	return nil
}
