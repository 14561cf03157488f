package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	desk_errors "socialdesk/pkg/errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
)

const MsgMediaRequired = "يجب إرفاق صورة أو فيديو"

type MediaKind int

const (
	MediaNone MediaKind = iota
	MediaStructured
	MediaRawURL
)

// Media is either nothing, an uploaded descriptor or a bare URL. On the wire
// it is null, an object or a string respectively.
type Media struct {
	Kind       MediaKind
	Attachment Attachment
	URL        string
}

func StructuredMedia(a Attachment) Media {
	return Media{Kind: MediaStructured, Attachment: a}
}

func RawURLMedia(url string) Media {
	if strings.TrimSpace(url) == "" {
		return Media{}
	}
	return Media{Kind: MediaRawURL, URL: strings.TrimSpace(url)}
}

func (m Media) IsZero() bool {
	return m.Kind == MediaNone
}

func (m Media) MarshalJSON() ([]byte, error) {
	switch m.Kind {
	case MediaStructured:
		return json.Marshal(m.Attachment)
	case MediaRawURL:
		return json.Marshal(m.URL)
	default:
		return []byte("null"), nil
	}
}

func (m *Media) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case len(data) == 0 || bytes.Equal(data, []byte("null")):
		*m = Media{}
	case data[0] == '"':
		var url string
		if err := json.Unmarshal(data, &url); err != nil {
			return err
		}
		*m = RawURLMedia(url)
	case data[0] == '{':
		var a Attachment
		if err := json.Unmarshal(data, &a); err != nil {
			return err
		}
		if !a.Valid() {
			return desk_errors.Invalid(MsgMediaRequired)
		}
		*m = StructuredMedia(a)
	default:
		return fmt.Errorf("media: unsupported json value %s", data)
	}
	return nil
}

func (m Media) MarshalBSONValue() (bsontype.Type, []byte, error) {
	switch m.Kind {
	case MediaStructured:
		return bson.MarshalValue(m.Attachment)
	case MediaRawURL:
		return bson.MarshalValue(m.URL)
	default:
		return bson.TypeNull, nil, nil
	}
}

func (m *Media) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	switch t {
	case bson.TypeNull, bson.TypeUndefined:
		*m = Media{}
	case bson.TypeString:
		url, ok := bson.RawValue{Type: t, Value: data}.StringValueOK()
		if !ok {
			return fmt.Errorf("media: malformed string")
		}
		*m = RawURLMedia(url)
	case bson.TypeEmbeddedDocument:
		var a Attachment
		if err := bson.Unmarshal(data, &a); err != nil {
			return err
		}
		if a.PublicID == "" && a.SecureURL == "" {
			*m = Media{}
			return nil
		}
		*m = StructuredMedia(a)
	default:
		return fmt.Errorf("media: unsupported bson type %s", t)
	}
	return nil
}

type Feedback struct {
	Base     `bson:",inline"`
	Name     string `bson:"name" json:"name"`
	Feedback string `bson:"feedback" json:"feedback"`
	Media    Media  `bson:"media" json:"media"`
}

func (f *Feedback) Attachments() []Attachment {
	if f.Media.Kind == MediaStructured {
		return collect([]Attachment{f.Media.Attachment})
	}
	return []Attachment{}
}

type FeedbackInput struct {
	Name     string `json:"name" form:"name"`
	Feedback string `json:"feedback" form:"feedback"`
	Media    Media  `json:"media" form:"-"`
}

func NewFeedback(in FeedbackInput) (*Feedback, error) {
	if err := missing(
		required("name", in.Name),
		required("feedback", in.Feedback),
	); err != nil {
		return nil, err
	}
	if in.Media.IsZero() {
		return nil, desk_errors.Invalid(MsgMediaRequired)
	}
	return &Feedback{
		Name:     strings.TrimSpace(in.Name),
		Feedback: strings.TrimSpace(in.Feedback),
		Media:    in.Media,
	}, nil
}

// FeedbackPatch carries the admin editable fields. Nil means unchanged.
type FeedbackPatch struct {
	Name     *string `json:"name"`
	Feedback *string `json:"feedback"`
	Media    *Media  `json:"media"`
}

func (p FeedbackPatch) Apply(f *Feedback) error {
	if p.Name != nil {
		if strings.TrimSpace(*p.Name) == "" {
			return desk_errors.MissingFields([]string{"name"})
		}
		f.Name = strings.TrimSpace(*p.Name)
	}
	if p.Feedback != nil {
		if strings.TrimSpace(*p.Feedback) == "" {
			return desk_errors.MissingFields([]string{"feedback"})
		}
		f.Feedback = strings.TrimSpace(*p.Feedback)
	}
	if p.Media != nil {
		if p.Media.IsZero() {
			return desk_errors.Invalid(MsgMediaRequired)
		}
		f.Media = *p.Media
	}
	return nil
}
