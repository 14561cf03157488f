package services

import (
	"context"
	"slices"

	"socialdesk/internal/domain"
	"socialdesk/internal/media"
	"socialdesk/internal/repository"
)

type RecoveryService struct {
	repo   *repository.RecoveryRepository
	media  *media.Handler
	counts countsTracker
}

func NewRecoveryService(repo *repository.RecoveryRepository, m *media.Handler, counts countsTracker) *RecoveryService {
	return &RecoveryService{repo: repo, media: m, counts: counts}
}

// Submit stores a recovery request. Files in parts are uploaded only after
// the rest of the request has been validated.
func (s *RecoveryService) Submit(ctx context.Context, in domain.RecoveryInput, parts []media.Part) (*domain.AccountRecovery, error) {
	probe := in
	probe.IdentityDocuments = append(slices.Clone(in.IdentityDocuments), pending(parts, FieldIdentityDocuments)...)
	if _, err := domain.NewAccountRecovery(probe); err != nil {
		return nil, err
	}

	batch, err := s.media.Upload(ctx, media.IdentityDocuments, parts)
	if err != nil {
		return nil, err
	}
	in.IdentityDocuments = append(slices.Clone(in.IdentityDocuments), batch.Field(FieldIdentityDocuments)...)

	rec, err := domain.NewAccountRecovery(in)
	if err != nil {
		rollback(ctx, batch)
		return nil, err
	}
	if err := s.repo.Create(ctx, rec); err != nil {
		rollback(ctx, batch)
		return nil, err
	}
	s.counts.invalidate(ctx)
	return rec, nil
}

func (s *RecoveryService) List(ctx context.Context, page repository.Page) (repository.PageResult[domain.AccountRecovery], error) {
	return s.repo.List(ctx, page)
}

func (s *RecoveryService) Get(ctx context.Context, id string) (*domain.AccountRecovery, error) {
	return s.repo.Get(ctx, id)
}

func (s *RecoveryService) UpdateStatus(ctx context.Context, id, status string) (*domain.AccountRecovery, error) {
	if err := domain.ValidateStatus(status); err != nil {
		return nil, err
	}
	return s.repo.Update(ctx, id, func(r *domain.AccountRecovery) error {
		r.Status = status
		return nil
	})
}

func (s *RecoveryService) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.counts.invalidate(ctx)
	return nil
}
