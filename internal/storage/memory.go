package storage

import (
	"context"
	"errors"
	"io"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
)

var ErrInjected = errors.New("injected storage failure")

// MemoryProvider keeps objects in process and records every call.
type MemoryProvider struct {
	base string

	mu      sync.Mutex
	objects map[string][]byte
	puts    []string
	deletes []string

	putCount atomic.Int64
	// FailPutAfter makes the nth Put (1 based) and later ones fail when > 0.
	FailPutAfter int64
	// FailDelete makes Delete fail for every key.
	FailDelete bool
	// PutHook runs before each Put, e.g. to delay it.
	PutHook func(key string)
}

func NewMemoryProvider(base string) *MemoryProvider {
	return &MemoryProvider{base: strings.TrimRight(base, "/"), objects: make(map[string][]byte)}
}

func (m *MemoryProvider) Name() string {
	return "memory"
}

func (m *MemoryProvider) Put(ctx context.Context, key string, body io.Reader, _ int64, _ string) (string, error) {
	if m.PutHook != nil {
		m.PutHook(key)
	}
	n := m.putCount.Add(1)
	if m.FailPutAfter > 0 && n >= m.FailPutAfter {
		return "", ErrInjected
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return "", err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[key] = data
	m.puts = append(m.puts, key)
	return m.base + "/" + key, nil
}

func (m *MemoryProvider) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deletes = append(m.deletes, key)
	if m.FailDelete {
		return ErrInjected
	}
	delete(m.objects, key)
	return nil
}

// Puts returns the keys stored so far, sorted.
func (m *MemoryProvider) Puts() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := append([]string(nil), m.puts...)
	sort.Strings(out)
	return out
}

// Deletes returns the keys deleted so far, sorted.
func (m *MemoryProvider) Deletes() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := append([]string(nil), m.deletes...)
	sort.Strings(out)
	return out
}

// Live returns the number of objects currently stored.
func (m *MemoryProvider) Live() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.objects)
}
