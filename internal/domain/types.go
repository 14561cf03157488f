package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Base holds the fields every stored record carries.
type Base struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

func (b *Base) GetID() primitive.ObjectID {
	return b.ID
}

func (b *Base) SetID(id primitive.ObjectID) {
	b.ID = id
}

func (b *Base) GetCreatedAt() time.Time {
	return b.CreatedAt
}

// Touch sets UpdatedAt, and CreatedAt on first call.
func (b *Base) Touch(now time.Time) {
	now = now.UTC().Truncate(time.Millisecond)
	if b.CreatedAt.IsZero() {
		b.CreatedAt = now
	}
	b.UpdatedAt = now
}

// Document is implemented by every persisted entity.
type Document interface {
	GetID() primitive.ObjectID
	SetID(primitive.ObjectID)
	GetCreatedAt() time.Time
	Touch(now time.Time)
	Attachments() []Attachment
}

// Attachment describes one object held by the media host.
type Attachment struct {
	SecureURL    string `bson:"secure_url" json:"secure_url"`
	PublicID     string `bson:"public_id" json:"public_id"`
	OriginalName string `bson:"original_name,omitempty" json:"original_name,omitempty"`
	MimeType     string `bson:"mime_type,omitempty" json:"mime_type,omitempty"`
	Size         int64  `bson:"size,omitempty" json:"size,omitempty"`
	ResourceType string `bson:"resource_type,omitempty" json:"resource_type,omitempty"`
}

const (
	ResourceImage = "image"
	ResourceVideo = "video"
	ResourceRaw   = "raw"
)

// Valid reports whether the descriptor points at a remote object.
func (a Attachment) Valid() bool {
	return a.SecureURL != "" && a.PublicID != ""
}

func collect(groups ...[]Attachment) []Attachment {
	out := []Attachment{}
	for _, g := range groups {
		for _, a := range g {
			if a.PublicID != "" {
				out = append(out, a)
			}
		}
	}
	return out
}

func single(a *Attachment) []Attachment {
	if a == nil {
		return nil
	}
	return []Attachment{*a}
}
