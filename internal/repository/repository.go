package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"socialdesk/internal/domain"
	desk_errors "socialdesk/pkg/errors"
	"socialdesk/pkg/logger"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Destroyer removes remote media objects. Repository.Delete calls it once
// per attachment owned by the record.
type Destroyer interface {
	Destroy(ctx context.Context, publicID, resourceType string) error
}

// Schema describes how one entity type is persisted.
type Schema[P any] struct {
	Collection string
	Indexes    []Index
	// OnDuplicate replaces ErrDuplicate when a unique index rejects a write.
	OnDuplicate error
	// Check guards invariants that must hold on every write.
	Check func(P) error
}

type Repository[T any, P Entity[T]] struct {
	store  Store[T]
	schema Schema[P]
	media  Destroyer
	logger *logger.Logger
	now    func() time.Time
}

func NewRepository[T any, P Entity[T]](store Store[T], schema Schema[P], media Destroyer, l *logger.Logger) *Repository[T, P] {
	return &Repository[T, P]{
		store:  store,
		schema: schema,
		media:  media,
		logger: l,
		now:    time.Now,
	}
}

func (r *Repository[T, P]) Name() string {
	return r.schema.Collection
}

func (r *Repository[T, P]) Migrate(ctx context.Context) error {
	return r.store.Migrate(ctx, r.schema.Indexes...)
}

func (r *Repository[T, P]) Ping(ctx context.Context) error {
	return r.store.Ping(ctx)
}

// Create assigns an id and timestamps to doc and persists it.
func (r *Repository[T, P]) Create(ctx context.Context, doc P) error {
	if r.schema.Check != nil {
		if err := r.schema.Check(doc); err != nil {
			return err
		}
	}
	doc.SetID(primitive.NewObjectID())
	doc.Touch(r.now())
	if err := r.store.Insert(ctx, (*T)(doc)); err != nil {
		return r.mapWriteError(err)
	}
	return nil
}

func (r *Repository[T, P]) List(ctx context.Context, page Page) (PageResult[T], error) {
	page = page.normalized()
	total, err := r.store.Count(ctx, nil)
	if err != nil {
		return PageResult[T]{}, fmt.Errorf("count %s: %w", r.schema.Collection, err)
	}
	items, err := r.store.Find(ctx, nil, FindOptions{Skip: page.Skip(), Limit: int64(page.Size)})
	if err != nil {
		return PageResult[T]{}, fmt.Errorf("list %s: %w", r.schema.Collection, err)
	}
	return newPageResult(items, total, page), nil
}

// Find returns matching records newest first.
func (r *Repository[T, P]) Find(ctx context.Context, filter Filter, limit int64) ([]T, error) {
	return r.store.Find(ctx, filter, FindOptions{Limit: limit})
}

func (r *Repository[T, P]) FindOne(ctx context.Context, filter Filter) (P, error) {
	doc, err := r.store.FindOne(ctx, filter)
	if err != nil {
		return nil, err
	}
	return P(doc), nil
}

func (r *Repository[T, P]) Exists(ctx context.Context, filter Filter) (bool, error) {
	n, err := r.store.Count(ctx, filter)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *Repository[T, P]) Count(ctx context.Context) (int64, error) {
	return r.store.Count(ctx, nil)
}

// Get returns ErrNotFound for unknown and malformed ids alike.
func (r *Repository[T, P]) Get(ctx context.Context, id string) (P, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, desk_errors.ErrNotFound
	}
	doc, err := r.store.FindByID(ctx, oid)
	if err != nil {
		return nil, err
	}
	return P(doc), nil
}

// Update loads the record, applies mutate and writes it back.
func (r *Repository[T, P]) Update(ctx context.Context, id string, mutate func(P) error) (P, error) {
	doc, err := r.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := mutate(doc); err != nil {
		return nil, err
	}
	if r.schema.Check != nil {
		if err := r.schema.Check(doc); err != nil {
			return nil, err
		}
	}
	doc.Touch(r.now())
	if err := r.store.Replace(ctx, (*T)(doc)); err != nil {
		return nil, r.mapWriteError(err)
	}
	return doc, nil
}

// Delete destroys every attachment of the record, then removes it. Destroy
// failures are logged and do not stop the record from being removed.
func (r *Repository[T, P]) Delete(ctx context.Context, id string) (P, error) {
	doc, err := r.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	r.DestroyAttachments(ctx, doc.Attachments())
	if err := r.store.Delete(ctx, doc.GetID()); err != nil {
		return nil, err
	}
	return doc, nil
}

// DestroyAttachments removes remote objects on a best-effort basis.
func (r *Repository[T, P]) DestroyAttachments(ctx context.Context, attachments []domain.Attachment) {
	if r.media == nil {
		return
	}
	log := r.logger.WithContext(ctx)
	for _, a := range attachments {
		if a.PublicID == "" {
			continue
		}
		if err := r.media.Destroy(ctx, a.PublicID, a.ResourceType); err != nil {
			log.Warnf("%s: failed to destroy %s: %s", r.schema.Collection, a.PublicID, err)
		}
	}
}

func (r *Repository[T, P]) mapWriteError(err error) error {
	if errors.Is(err, ErrDuplicate) && r.schema.OnDuplicate != nil {
		return r.schema.OnDuplicate
	}
	return err
}
