package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"path"
	"strings"
	"time"

	"socialdesk/internal/domain"
	"socialdesk/internal/storage"
	desk_errors "socialdesk/pkg/errors"
	"socialdesk/pkg/logger"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

const DefaultMaxFileSize = 5 << 20

// Part is one uploaded file, not yet sent to the media host.
type Part struct {
	Field    string
	Filename string
	Size     int64
	Open     func() (io.ReadCloser, error)
}

func FromFileHeader(field string, fh *multipart.FileHeader) Part {
	return Part{
		Field:    field,
		Filename: fh.Filename,
		Size:     fh.Size,
		Open: func() (io.ReadCloser, error) {
			return fh.Open()
		},
	}
}

type Handler struct {
	provider storage.Provider
	maxSize  int64
	timeout  time.Duration
	logger   *logger.Logger
}

func NewHandler(provider storage.Provider, maxSize int64, timeout time.Duration, l *logger.Logger) *Handler {
	if maxSize <= 0 {
		maxSize = DefaultMaxFileSize
	}
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	return &Handler{provider: provider, maxSize: maxSize, timeout: timeout, logger: l}
}

func (h *Handler) Provider() string {
	return h.provider.Name()
}

type checked struct {
	part     Part
	mimeType string
	ext      string
}

// Upload validates every part against policy and only then uploads them
// concurrently. When any upload fails the ones that succeeded are destroyed
// before Upload returns.
func (h *Handler) Upload(ctx context.Context, policy Policy, parts []Part) (*Batch, error) {
	batch := &Batch{handler: h}
	if len(parts) == 0 {
		return batch, nil
	}

	files := make([]checked, 0, len(parts))
	for _, p := range parts {
		c, err := h.check(policy, p)
		if err != nil {
			return nil, err
		}
		files = append(files, c)
	}

	results := make([]*Uploaded, len(files))
	g, gctx := errgroup.WithContext(ctx)
	for i, f := range files {
		g.Go(func() error {
			att, err := h.put(gctx, policy.Folder, f)
			if err != nil {
				return err
			}
			results[i] = &Uploaded{Field: f.part.Field, Attachment: att}
			return nil
		})
	}
	err := g.Wait()

	for _, r := range results {
		if r != nil {
			batch.items = append(batch.items, *r)
		}
	}
	if err != nil {
		batch.Rollback(context.WithoutCancel(ctx))
		return nil, fmt.Errorf("%w: %v", desk_errors.ErrUpstream, err)
	}
	return batch, nil
}

func (h *Handler) check(policy Policy, p Part) (checked, error) {
	if p.Size > h.maxSize {
		return checked{}, &desk_errors.MediaError{
			Kind:     desk_errors.ErrTooLarge,
			Message:  fmt.Sprintf("File too large. Maximum size is %dMB", h.maxSize>>20),
			FileName: p.Filename,
		}
	}
	rc, err := p.Open()
	if err != nil {
		return checked{}, fmt.Errorf("open %s: %w", p.Filename, err)
	}
	mt, err := mimetype.DetectReader(rc)
	rc.Close()
	if err != nil {
		return checked{}, fmt.Errorf("detect %s: %w", p.Filename, err)
	}
	mimeType := strings.TrimSpace(strings.SplitN(mt.String(), ";", 2)[0])
	if !policy.Allows(mimeType) {
		return checked{}, &desk_errors.MediaError{
			Kind:     desk_errors.ErrUnsupportedMedia,
			Message:  policy.Message,
			FileName: p.Filename,
		}
	}
	return checked{part: p, mimeType: mimeType, ext: mt.Extension()}, nil
}

func (h *Handler) put(ctx context.Context, folder string, f checked) (domain.Attachment, error) {
	ctx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	rc, err := f.part.Open()
	if err != nil {
		return domain.Attachment{}, fmt.Errorf("open %s: %w", f.part.Filename, err)
	}
	defer rc.Close()

	key := path.Join(folder, uuid.NewString()+f.ext)
	url, err := h.provider.Put(ctx, key, rc, f.part.Size, f.mimeType)
	if err != nil {
		return domain.Attachment{}, err
	}
	return domain.Attachment{
		SecureURL:    url,
		PublicID:     key,
		OriginalName: f.part.Filename,
		MimeType:     f.mimeType,
		Size:         f.part.Size,
		ResourceType: ResourceType(f.mimeType),
	}, nil
}

// Destroy removes one object from the media host. The resource type is a hint
// kept on the descriptor; providers address objects by public id alone.
func (h *Handler) Destroy(ctx context.Context, publicID, resourceType string) error {
	if publicID == "" {
		return desk_errors.Invalid("public_id is required")
	}
	ctx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()
	if err := h.provider.Delete(ctx, publicID); err != nil {
		return fmt.Errorf("%w: destroy %s (%s): %v", desk_errors.ErrUpstream, publicID, resourceType, err)
	}
	return nil
}

// DestroyAll destroys every attachment, logging failures.
func (h *Handler) DestroyAll(ctx context.Context, atts []domain.Attachment) {
	var errs []error
	for _, a := range atts {
		if err := h.Destroy(ctx, a.PublicID, a.ResourceType); err != nil {
			errs = append(errs, err)
		}
	}
	if err := errors.Join(errs...); err != nil {
		h.logger.WithContext(ctx).Warnf("media cleanup incomplete: %v", err)
	}
}

type Uploaded struct {
	Field      string
	Attachment domain.Attachment
}

// Batch holds the descriptors produced by one Upload call.
type Batch struct {
	handler *Handler
	items   []Uploaded
}

func (b *Batch) Field(name string) []domain.Attachment {
	out := []domain.Attachment{}
	if b == nil {
		return out
	}
	for _, u := range b.items {
		if u.Field == name {
			out = append(out, u.Attachment)
		}
	}
	return out
}

// First returns the first descriptor uploaded for name, or nil.
func (b *Batch) First(name string) *domain.Attachment {
	atts := b.Field(name)
	if len(atts) == 0 {
		return nil
	}
	return &atts[0]
}

func (b *Batch) All() []domain.Attachment {
	out := []domain.Attachment{}
	if b == nil {
		return out
	}
	for _, u := range b.items {
		out = append(out, u.Attachment)
	}
	return out
}

func (b *Batch) Len() int {
	if b == nil {
		return 0
	}
	return len(b.items)
}

// Rollback destroys everything in the batch. Used when the record that would
// own the uploads could not be saved.
func (b *Batch) Rollback(ctx context.Context) {
	if b == nil || len(b.items) == 0 {
		return
	}
	b.handler.DestroyAll(ctx, b.All())
}
