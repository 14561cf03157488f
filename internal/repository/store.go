package repository

import (
	"context"
	"errors"

	"socialdesk/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ErrDuplicate is returned by a Store when a unique index rejects a write.
var ErrDuplicate = errors.New("duplicate key")

// Filter matches documents whose fields equal the given values. Keys use the
// stored field names; nested fields are dotted ("fakeAccount.platform").
type Filter map[string]any

type FindOptions struct {
	Skip  int64
	Limit int64
}

type Index struct {
	Name   string
	Keys   []string
	Unique bool
}

// Store is the persistence contract every backend implements. Results are
// always ordered newest first by createdAt.
type Store[T any] interface {
	Migrate(ctx context.Context, indexes ...Index) error
	Insert(ctx context.Context, doc *T) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*T, error)
	FindOne(ctx context.Context, filter Filter) (*T, error)
	Find(ctx context.Context, filter Filter, opts FindOptions) ([]T, error)
	Count(ctx context.Context, filter Filter) (int64, error)
	Replace(ctx context.Context, doc *T) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	Ping(ctx context.Context) error
}

// Entity ties a stored type to its pointer, which carries the Document methods.
type Entity[T any] interface {
	*T
	domain.Document
}
