package services

import (
	"context"
	"time"

	"socialdesk/internal/domain"
	"socialdesk/internal/media"
	"socialdesk/internal/repository"
)

type BlogService struct {
	repo   *repository.BlogRepository
	media  *media.Handler
	counts countsTracker
	now    func() time.Time
}

func NewBlogService(repo *repository.BlogRepository, m *media.Handler, counts countsTracker) *BlogService {
	return &BlogService{repo: repo, media: m, counts: counts, now: time.Now}
}

func (s *BlogService) Create(ctx context.Context, in domain.BlogInput, file *media.Part) (*domain.Blog, error) {
	probe := in
	if file != nil {
		probe.Image = firstOf(pending(parts(file), file.Field))
	}
	if _, err := domain.NewBlog(probe, s.now()); err != nil {
		return nil, err
	}

	batch, err := s.media.Upload(ctx, media.BlogImages, parts(file))
	if err != nil {
		return nil, err
	}
	if a := batch.First(FieldImage); a != nil {
		in.Image = a
	}
	blog, err := domain.NewBlog(in, s.now())
	if err != nil {
		rollback(ctx, batch)
		return nil, err
	}
	if err := s.repo.Create(ctx, blog); err != nil {
		rollback(ctx, batch)
		return nil, err
	}
	s.counts.invalidate(ctx)
	return blog, nil
}

func (s *BlogService) List(ctx context.Context, page repository.Page) (repository.PageResult[domain.Blog], error) {
	return s.repo.List(ctx, page)
}

func (s *BlogService) Get(ctx context.Context, id string) (*domain.Blog, error) {
	return s.repo.Get(ctx, id)
}

// Update applies patch; a new image replaces the old one, which is destroyed
// after the record is saved.
func (s *BlogService) Update(ctx context.Context, id string, patch domain.BlogPatch, file *media.Part) (*domain.Blog, error) {
	current, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	probe, probePatch := *current, patch
	if file != nil {
		probePatch.Image = firstOf(pending(parts(file), file.Field))
	}
	if err := probePatch.Apply(&probe); err != nil {
		return nil, err
	}

	batch, err := s.media.Upload(ctx, media.BlogImages, parts(file))
	if err != nil {
		return nil, err
	}
	if a := batch.First(FieldImage); a != nil {
		patch.Image = a
	}
	return updateWithUploads(ctx, s.repo, id, batch, patch.Apply)
}

func (s *BlogService) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.counts.invalidate(ctx)
	return nil
}
