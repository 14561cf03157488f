package storage

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestMemoryProviderPutDelete(t *testing.T) {
	p := NewMemoryProvider("https://cdn.test/")
	ctx := context.Background()

	url, err := p.Put(ctx, "blogs/a.png", strings.NewReader("data"), 4, "image/png")
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	if url != "https://cdn.test/blogs/a.png" {
		t.Fatalf("unexpected url %q", url)
	}
	if p.Live() != 1 {
		t.Fatalf("expected 1 object, got %d", p.Live())
	}
	if err := p.Delete(ctx, "blogs/a.png"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if p.Live() != 0 || len(p.Deletes()) != 1 {
		t.Fatalf("delete not recorded")
	}
}

func TestMemoryProviderInjectedFailures(t *testing.T) {
	p := NewMemoryProvider("mem://")
	p.FailPutAfter = 2
	ctx := context.Background()

	if _, err := p.Put(ctx, "a", strings.NewReader("x"), 1, ""); err != nil {
		t.Fatalf("first put should pass: %v", err)
	}
	if _, err := p.Put(ctx, "b", strings.NewReader("x"), 1, ""); !errors.Is(err, ErrInjected) {
		t.Fatalf("second put should fail, got %v", err)
	}
	p.FailDelete = true
	if err := p.Delete(ctx, "a"); !errors.Is(err, ErrInjected) {
		t.Fatalf("delete should fail, got %v", err)
	}
	if p.Live() != 1 {
		t.Fatal("failed delete must keep the object")
	}
}
