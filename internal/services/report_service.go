package services

import (
	"context"
	"slices"

	"socialdesk/internal/domain"
	"socialdesk/internal/media"
	"socialdesk/internal/repository"
)

type ReportService struct {
	repo   *repository.ReportRepository
	media  *media.Handler
	counts countsTracker
}

func NewReportService(repo *repository.ReportRepository, m *media.Handler, counts countsTracker) *ReportService {
	return &ReportService{repo: repo, media: m, counts: counts}
}

// withFiles merges descriptors for the four document fields into in. An
// uploaded idImage replaces one given in the body.
func withFiles(in domain.ReportInput, files func(field string) []domain.Attachment) domain.ReportInput {
	if id := firstOf(files(FieldIDImage)); id != nil {
		in.Documents.IDImage = id
	}
	in.Documents.Screenshots = append(slices.Clone(in.Documents.Screenshots), files(FieldScreenshots)...)
	in.Documents.AdditionalDocuments = append(slices.Clone(in.Documents.AdditionalDocuments), files(FieldAdditionalDocuments)...)
	in.PersonalInfo.IdentityProof = append(slices.Clone(in.PersonalInfo.IdentityProof), files(FieldIdentityProof)...)
	return in
}

func (s *ReportService) Submit(ctx context.Context, in domain.ReportInput, parts []media.Part) (*domain.Report, error) {
	probe := withFiles(in, func(field string) []domain.Attachment { return pending(parts, field) })
	if _, err := domain.NewReport(probe); err != nil {
		return nil, err
	}

	batch, err := s.media.Upload(ctx, media.ReportDocuments, parts)
	if err != nil {
		return nil, err
	}
	report, err := domain.NewReport(withFiles(in, batch.Field))
	if err != nil {
		rollback(ctx, batch)
		return nil, err
	}
	if err := s.repo.Create(ctx, report); err != nil {
		rollback(ctx, batch)
		return nil, err
	}
	if stray := orphaned(batch.All(), report.Attachments()); len(stray) > 0 {
		s.media.DestroyAll(context.WithoutCancel(ctx), stray)
	}
	s.counts.invalidate(ctx)
	return report, nil
}

func (s *ReportService) List(ctx context.Context, page repository.Page) (repository.PageResult[domain.Report], error) {
	return s.repo.List(ctx, page)
}

func (s *ReportService) Get(ctx context.Context, id string) (*domain.Report, error) {
	return s.repo.Get(ctx, id)
}

func (s *ReportService) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.counts.invalidate(ctx)
	return nil
}
