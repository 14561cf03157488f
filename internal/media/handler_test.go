package media

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"socialdesk/internal/storage"
	desk_errors "socialdesk/pkg/errors"
	"socialdesk/pkg/logger"
)

var (
	pngBytes = append([]byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"), make([]byte, 64)...)
	pdfBytes = []byte("%PDF-1.4\n1 0 obj\n<< /Type /Catalog >>\nendobj\n")
	txtBytes = []byte("just some plain text, definitely not an image")
)

func part(field, name string, data []byte) Part {
	return Part{
		Field:    field,
		Filename: name,
		Size:     int64(len(data)),
		Open: func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(data)), nil
		},
	}
}

func newHandler(p *storage.MemoryProvider) *Handler {
	return NewHandler(p, DefaultMaxFileSize, time.Second, logger.NewNop())
}

func TestUploadReturnsDescriptors(t *testing.T) {
	provider := storage.NewMemoryProvider("https://cdn.test")
	h := newHandler(provider)

	batch, err := h.Upload(context.Background(), ReportDocuments, []Part{
		part("idImage", "id.png", pngBytes),
		part("screenshots", "a.pdf", pdfBytes),
		part("screenshots", "b.png", pngBytes),
	})
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if batch.Len() != 3 || provider.Live() != 3 {
		t.Fatalf("expected 3 uploads, batch=%d live=%d", batch.Len(), provider.Live())
	}

	id := batch.First("idImage")
	if id == nil {
		t.Fatal("missing idImage descriptor")
	}
	if !strings.HasPrefix(id.PublicID, "reports/") || !strings.HasSuffix(id.PublicID, ".png") {
		t.Fatalf("unexpected public id %q", id.PublicID)
	}
	if id.SecureURL != "https://cdn.test/"+id.PublicID {
		t.Fatalf("unexpected url %q", id.SecureURL)
	}
	if id.MimeType != "image/png" || id.ResourceType != "image" || id.OriginalName != "id.png" {
		t.Fatalf("unexpected descriptor %+v", id)
	}
	if got := len(batch.Field("screenshots")); got != 2 {
		t.Fatalf("expected 2 screenshots, got %d", got)
	}
	if pdf := batch.Field("screenshots"); pdf[0].ResourceType == "" {
		t.Fatal("resource type not set")
	}
}

func TestUploadRejectsWholeRequestBeforeUploading(t *testing.T) {
	provider := storage.NewMemoryProvider("https://cdn.test")
	h := newHandler(provider)

	_, err := h.Upload(context.Background(), IdentityDocuments, []Part{
		part("identityDocuments", "ok.png", pngBytes),
		part("identityDocuments", "notes.txt", txtBytes),
	})
	if !errors.Is(err, desk_errors.ErrUnsupportedMedia) {
		t.Fatalf("expected unsupported media, got %v", err)
	}
	if desk_errors.UserMessage(err) != "Only JPG, PNG, and PDF files are allowed" {
		t.Fatalf("unexpected message %q", desk_errors.UserMessage(err))
	}
	if len(provider.Puts()) != 0 {
		t.Fatalf("nothing should be uploaded, got %v", provider.Puts())
	}
}

func TestUploadRejectsOversizedFile(t *testing.T) {
	provider := storage.NewMemoryProvider("https://cdn.test")
	h := newHandler(provider)

	big := part("image", "big.png", pngBytes)
	big.Size = DefaultMaxFileSize + 1

	_, err := h.Upload(context.Background(), BlogImages, []Part{big})
	if !errors.Is(err, desk_errors.ErrTooLarge) {
		t.Fatalf("expected too large, got %v", err)
	}
	if len(provider.Puts()) != 0 {
		t.Fatal("nothing should be uploaded")
	}
}

func TestBlogImagesRejectPDF(t *testing.T) {
	h := newHandler(storage.NewMemoryProvider("https://cdn.test"))
	_, err := h.Upload(context.Background(), BlogImages, []Part{part("image", "doc.pdf", pdfBytes)})
	if !errors.Is(err, desk_errors.ErrUnsupportedMedia) {
		t.Fatalf("expected unsupported media, got %v", err)
	}
}

func TestFeedbackMediaAcceptsImages(t *testing.T) {
	h := newHandler(storage.NewMemoryProvider("https://cdn.test"))
	batch, err := h.Upload(context.Background(), FeedbackMedia, []Part{part("media", "shot.png", pngBytes)})
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if batch.First("media") == nil {
		t.Fatal("expected media descriptor")
	}
}

func TestFailedUploadRollsBackEverySuccess(t *testing.T) {
	provider := storage.NewMemoryProvider("https://cdn.test")
	provider.FailPutAfter = 3
	h := newHandler(provider)

	parts := []Part{
		part("screenshots", "1.png", pngBytes),
		part("screenshots", "2.png", pngBytes),
		part("screenshots", "3.png", pngBytes),
		part("screenshots", "4.png", pngBytes),
	}
	batch, err := h.Upload(context.Background(), ReportDocuments, parts)
	if !errors.Is(err, desk_errors.ErrUpstream) {
		t.Fatalf("expected upstream error, got %v", err)
	}
	if batch != nil {
		t.Fatal("batch should be nil on failure")
	}
	if provider.Live() != 0 {
		t.Fatalf("orphaned objects left: %d", provider.Live())
	}
	puts, deletes := provider.Puts(), provider.Deletes()
	if len(puts) != len(deletes) {
		t.Fatalf("puts %v deletes %v", puts, deletes)
	}
	for i := range puts {
		if puts[i] != deletes[i] {
			t.Fatalf("puts %v deletes %v", puts, deletes)
		}
	}
}

func TestRollbackDestroysBatch(t *testing.T) {
	provider := storage.NewMemoryProvider("https://cdn.test")
	h := newHandler(provider)

	batch, err := h.Upload(context.Background(), IdentityDocuments, []Part{
		part("identityDocuments", "a.png", pngBytes),
		part("identityDocuments", "b.pdf", pdfBytes),
	})
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	batch.Rollback(context.Background())
	if provider.Live() != 0 {
		t.Fatalf("expected empty store, got %d", provider.Live())
	}
}

func TestDestroySurfacesProviderFailure(t *testing.T) {
	provider := storage.NewMemoryProvider("https://cdn.test")
	provider.FailDelete = true
	h := newHandler(provider)

	err := h.Destroy(context.Background(), "blogs/x.png", "image")
	if !errors.Is(err, desk_errors.ErrUpstream) {
		t.Fatalf("expected upstream error, got %v", err)
	}
	if err := h.Destroy(context.Background(), "", ""); !errors.Is(err, desk_errors.ErrInvalidInput) {
		t.Fatalf("expected invalid input for empty id, got %v", err)
	}
}

func TestEmptyUploadIsNoop(t *testing.T) {
	h := newHandler(storage.NewMemoryProvider("https://cdn.test"))
	batch, err := h.Upload(context.Background(), FeedbackMedia, nil)
	if err != nil || batch.Len() != 0 {
		t.Fatalf("expected empty batch, got %v %v", batch, err)
	}
	if len(batch.All()) != 0 || batch.First("media") != nil {
		t.Fatal("empty batch should expose nothing")
	}
}

func TestResourceType(t *testing.T) {
	cases := map[string]string{
		"video/mp4":       "video",
		"image/jpeg":      "image",
		"application/pdf": "raw",
	}
	for in, want := range cases {
		if got := ResourceType(in); got != want {
			t.Errorf("ResourceType(%q) = %q, want %q", in, got, want)
		}
	}
}
