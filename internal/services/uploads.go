package services

import (
	"context"
	"slices"

	"socialdesk/internal/domain"
	"socialdesk/internal/media"
	"socialdesk/internal/repository"
)

// Multipart field names and the most files each accepts.
const (
	FieldIdentityDocuments   = "identityDocuments"
	FieldIDImage             = "idImage"
	FieldScreenshots         = "screenshots"
	FieldAdditionalDocuments = "additionalDocuments"
	FieldIdentityProof       = "identityProof"
	FieldMedia               = "media"
	FieldImage               = "image"
)

var FieldLimits = map[string]int{
	FieldIdentityDocuments:   5,
	FieldIDImage:             1,
	FieldScreenshots:         5,
	FieldAdditionalDocuments: 3,
	FieldIdentityProof:       3,
	FieldMedia:               1,
	FieldImage:               1,
}

// pending stands in for files that are not uploaded yet so a submission can
// be validated in full before anything reaches the media host.
func pending(parts []media.Part, field string) []domain.Attachment {
	out := []domain.Attachment{}
	for _, p := range parts {
		if p.Field == field {
			out = append(out, domain.Attachment{SecureURL: "pending://" + p.Filename, PublicID: "pending/" + p.Filename})
		}
	}
	return out
}

func firstOf(atts []domain.Attachment) *domain.Attachment {
	if len(atts) == 0 {
		return nil
	}
	a := atts[0]
	return &a
}

func rollback(ctx context.Context, batch *media.Batch) {
	batch.Rollback(context.WithoutCancel(ctx))
}

// orphaned returns the attachments of before that after no longer references.
func orphaned(before, after []domain.Attachment) []domain.Attachment {
	kept := make(map[string]bool, len(after))
	for _, a := range after {
		kept[a.PublicID] = true
	}
	var out []domain.Attachment
	for _, a := range before {
		if !kept[a.PublicID] {
			out = append(out, a)
		}
	}
	return out
}

// updateWithUploads applies mutate and keeps the media host in step with the
// outcome: on failure the new uploads are destroyed, on success the objects
// the record stopped referencing are.
func updateWithUploads[T any, P repository.Entity[T]](ctx context.Context, repo *repository.Repository[T, P], id string, batch *media.Batch, mutate func(P) error) (P, error) {
	var before []domain.Attachment
	doc, err := repo.Update(ctx, id, func(d P) error {
		before = slices.Clone(d.Attachments())
		return mutate(d)
	})
	if err != nil {
		rollback(ctx, batch)
		return nil, err
	}
	repo.DestroyAttachments(ctx, orphaned(before, doc.Attachments()))
	return doc, nil
}
