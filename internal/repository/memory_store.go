package repository

import (
	"bytes"
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	desk_errors "socialdesk/pkg/errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MemoryStore keeps BSON encoded documents in process. It honours unique
// indexes so it can stand in for a real backend in tests and local runs.
type MemoryStore[T any, P Entity[T]] struct {
	mu     sync.RWMutex
	docs   map[primitive.ObjectID]bson.Raw
	unique [][]string
}

func NewMemoryStore[T any, P Entity[T]]() *MemoryStore[T, P] {
	return &MemoryStore[T, P]{docs: make(map[primitive.ObjectID]bson.Raw)}
}

func (s *MemoryStore[T, P]) Migrate(_ context.Context, indexes ...Index) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, idx := range indexes {
		if idx.Unique {
			s.unique = append(s.unique, idx.Keys)
		}
	}
	return nil
}

func (s *MemoryStore[T, P]) Insert(_ context.Context, doc *T) error {
	raw, err := bson.Marshal(doc)
	if err != nil {
		return err
	}
	id := P(doc).GetID()

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.docs[id]; ok {
		return fmt.Errorf("%w: _id %s", ErrDuplicate, id.Hex())
	}
	if err := s.checkUnique(id, raw); err != nil {
		return err
	}
	s.docs[id] = raw
	return nil
}

func (s *MemoryStore[T, P]) FindByID(_ context.Context, id primitive.ObjectID) (*T, error) {
	s.mu.RLock()
	raw, ok := s.docs[id]
	s.mu.RUnlock()
	if !ok {
		return nil, desk_errors.ErrNotFound
	}
	return decodeRaw[T](raw)
}

func (s *MemoryStore[T, P]) FindOne(ctx context.Context, filter Filter) (*T, error) {
	docs, err := s.Find(ctx, filter, FindOptions{Limit: 1})
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, desk_errors.ErrNotFound
	}
	return &docs[0], nil
}

func (s *MemoryStore[T, P]) Find(_ context.Context, filter Filter, opts FindOptions) ([]T, error) {
	s.mu.RLock()
	matched := make([]T, 0)
	for _, raw := range s.docs {
		ok, err := matches(raw, filter)
		if err != nil {
			s.mu.RUnlock()
			return nil, err
		}
		if !ok {
			continue
		}
		doc, err := decodeRaw[T](raw)
		if err != nil {
			s.mu.RUnlock()
			return nil, err
		}
		matched = append(matched, *doc)
	}
	s.mu.RUnlock()

	sort.Slice(matched, func(i, j int) bool {
		a, b := P(&matched[i]), P(&matched[j])
		if !a.GetCreatedAt().Equal(b.GetCreatedAt()) {
			return a.GetCreatedAt().After(b.GetCreatedAt())
		}
		ai, bi := a.GetID(), b.GetID()
		return bytes.Compare(ai[:], bi[:]) > 0
	})

	start := max(opts.Skip, 0)
	if start > int64(len(matched)) {
		start = int64(len(matched))
	}
	end := int64(len(matched))
	if opts.Limit > 0 && opts.Limit < end-start {
		end = start + opts.Limit
	}
	return matched[start:end], nil
}

func (s *MemoryStore[T, P]) Count(_ context.Context, filter Filter) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var n int64
	for _, raw := range s.docs {
		ok, err := matches(raw, filter)
		if err != nil {
			return 0, err
		}
		if ok {
			n++
		}
	}
	return n, nil
}

func (s *MemoryStore[T, P]) Replace(_ context.Context, doc *T) error {
	raw, err := bson.Marshal(doc)
	if err != nil {
		return err
	}
	id := P(doc).GetID()

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.docs[id]; !ok {
		return desk_errors.ErrNotFound
	}
	if err := s.checkUnique(id, raw); err != nil {
		return err
	}
	s.docs[id] = raw
	return nil
}

func (s *MemoryStore[T, P]) Delete(_ context.Context, id primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.docs[id]; !ok {
		return desk_errors.ErrNotFound
	}
	delete(s.docs, id)
	return nil
}

func (s *MemoryStore[T, P]) Ping(context.Context) error {
	return nil
}

// checkUnique must be called with the write lock held.
func (s *MemoryStore[T, P]) checkUnique(id primitive.ObjectID, raw bson.Raw) error {
	for _, keys := range s.unique {
		want, ok := uniqueKey(raw, keys)
		if !ok {
			continue
		}
		for otherID, other := range s.docs {
			if otherID == id {
				continue
			}
			if got, ok := uniqueKey(other, keys); ok && got == want {
				return fmt.Errorf("%w: %s", ErrDuplicate, strings.Join(keys, ","))
			}
		}
	}
	return nil
}

func uniqueKey(raw bson.Raw, keys []string) (string, bool) {
	var b strings.Builder
	for _, k := range keys {
		v, err := raw.LookupErr(strings.Split(k, ".")...)
		if err != nil {
			return "", false
		}
		b.WriteByte(byte(v.Type))
		b.Write(v.Value)
		b.WriteByte(0)
	}
	return b.String(), true
}

func matches(raw bson.Raw, filter Filter) (bool, error) {
	for k, want := range filter {
		got, err := raw.LookupErr(strings.Split(k, ".")...)
		if err != nil {
			return false, nil
		}
		t, data, err := bson.MarshalValue(want)
		if err != nil {
			return false, fmt.Errorf("encode filter %s: %w", k, err)
		}
		if !got.Equal(bson.RawValue{Type: t, Value: data}) {
			return false, nil
		}
	}
	return true, nil
}

func decodeRaw[T any](raw bson.Raw) (*T, error) {
	var doc T
	if err := bson.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	return &doc, nil
}
