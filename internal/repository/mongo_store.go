package repository

import (
	"context"
	"errors"
	"fmt"

	desk_errors "socialdesk/pkg/errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var newestFirst = bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}

type MongoStore[T any, P Entity[T]] struct {
	coll *mongo.Collection
}

func NewMongoStore[T any, P Entity[T]](db *mongo.Database, collection string) *MongoStore[T, P] {
	return &MongoStore[T, P]{coll: db.Collection(collection)}
}

func (s *MongoStore[T, P]) Migrate(ctx context.Context, indexes ...Index) error {
	if len(indexes) == 0 {
		return nil
	}
	models := make([]mongo.IndexModel, 0, len(indexes))
	for _, idx := range indexes {
		keys := bson.D{}
		for _, k := range idx.Keys {
			keys = append(keys, bson.E{Key: k, Value: 1})
		}
		opts := options.Index().SetUnique(idx.Unique)
		if idx.Name != "" {
			opts.SetName(idx.Name)
		}
		models = append(models, mongo.IndexModel{Keys: keys, Options: opts})
	}
	if _, err := s.coll.Indexes().CreateMany(ctx, models); err != nil {
		return fmt.Errorf("create indexes on %s: %w", s.coll.Name(), err)
	}
	return nil
}

func (s *MongoStore[T, P]) Insert(ctx context.Context, doc *T) error {
	if _, err := s.coll.InsertOne(ctx, doc); err != nil {
		return mapMongoError(err)
	}
	return nil
}

func (s *MongoStore[T, P]) FindByID(ctx context.Context, id primitive.ObjectID) (*T, error) {
	return s.FindOne(ctx, Filter{"_id": id})
}

func (s *MongoStore[T, P]) FindOne(ctx context.Context, filter Filter) (*T, error) {
	var doc T
	if err := s.coll.FindOne(ctx, bson.M(filter)).Decode(&doc); err != nil {
		return nil, mapMongoError(err)
	}
	return &doc, nil
}

func (s *MongoStore[T, P]) Find(ctx context.Context, filter Filter, opts FindOptions) ([]T, error) {
	findOpts := options.Find().SetSort(newestFirst)
	if opts.Skip > 0 {
		findOpts.SetSkip(opts.Skip)
	}
	if opts.Limit > 0 {
		findOpts.SetLimit(opts.Limit)
	}
	if filter == nil {
		filter = Filter{}
	}
	cursor, err := s.coll.Find(ctx, bson.M(filter), findOpts)
	if err != nil {
		return nil, mapMongoError(err)
	}
	out := []T{}
	if err := cursor.All(ctx, &out); err != nil {
		return nil, mapMongoError(err)
	}
	return out, nil
}

func (s *MongoStore[T, P]) Count(ctx context.Context, filter Filter) (int64, error) {
	if filter == nil {
		filter = Filter{}
	}
	n, err := s.coll.CountDocuments(ctx, bson.M(filter))
	if err != nil {
		return 0, mapMongoError(err)
	}
	return n, nil
}

func (s *MongoStore[T, P]) Replace(ctx context.Context, doc *T) error {
	res, err := s.coll.ReplaceOne(ctx, bson.M{"_id": P(doc).GetID()}, doc)
	if err != nil {
		return mapMongoError(err)
	}
	if res.MatchedCount == 0 {
		return desk_errors.ErrNotFound
	}
	return nil
}

func (s *MongoStore[T, P]) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return mapMongoError(err)
	}
	if res.DeletedCount == 0 {
		return desk_errors.ErrNotFound
	}
	return nil
}

func (s *MongoStore[T, P]) Ping(ctx context.Context) error {
	return s.coll.Database().Client().Ping(ctx, nil)
}

func mapMongoError(err error) error {
	switch {
	case errors.Is(err, mongo.ErrNoDocuments):
		return desk_errors.ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		return fmt.Errorf("%w: %v", ErrDuplicate, err)
	default:
		return err
	}
}
