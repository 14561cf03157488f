package domain

import (
	"bytes"
	"strings"
	"time"

	desk_errors "socialdesk/pkg/errors"

	"github.com/yuin/goldmark"
	goldmarkHTML "github.com/yuin/goldmark/renderer/html"
)

const (
	MsgBlogImageRequired = "يجب إرفاق صورة للتدوينة"
	MsgInvalidBlogDate   = "تاريخ التدوينة غير صحيح"
)

var markdown = goldmark.New(goldmark.WithRendererOptions(goldmarkHTML.WithHardWraps()))

// RenderMarkdown converts blog content to HTML. Raw HTML in the source is
// omitted by the renderer.
func RenderMarkdown(content string) (string, error) {
	if strings.TrimSpace(content) == "" {
		return "", nil
	}
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(content), &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

type Blog struct {
	Base        `bson:",inline"`
	Title       string     `bson:"title" json:"title"`
	Category    string     `bson:"category" json:"category"`
	Excerpt     string     `bson:"excerpt" json:"excerpt"`
	Content     string     `bson:"content,omitempty" json:"content,omitempty"`
	ContentHTML string     `bson:"contentHtml,omitempty" json:"contentHtml,omitempty"`
	Author      string     `bson:"author" json:"author"`
	Image       Attachment `bson:"image" json:"image"`
	Date        time.Time  `bson:"date" json:"date"`
}

func (b *Blog) Attachments() []Attachment {
	return collect([]Attachment{b.Image})
}

type BlogInput struct {
	Title    string      `json:"title" form:"title"`
	Category string      `json:"category" form:"category"`
	Excerpt  string      `json:"excerpt" form:"excerpt"`
	Content  string      `json:"content" form:"content"`
	Author   string      `json:"author" form:"author"`
	Date     string      `json:"date" form:"date"`
	Image    *Attachment `json:"image" form:"-"`
}

func NewBlog(in BlogInput, now time.Time) (*Blog, error) {
	if err := missing(
		required("title", in.Title),
		required("category", in.Category),
		required("excerpt", in.Excerpt),
		required("author", in.Author),
	); err != nil {
		return nil, err
	}
	if in.Image == nil || !in.Image.Valid() {
		return nil, desk_errors.Invalid(MsgBlogImageRequired)
	}
	date := now.UTC()
	if strings.TrimSpace(in.Date) != "" {
		parsed, ok := ParseDate(in.Date)
		if !ok {
			return nil, desk_errors.Invalid(MsgInvalidBlogDate)
		}
		date = parsed
	}
	html, err := RenderMarkdown(in.Content)
	if err != nil {
		return nil, err
	}
	return &Blog{
		Title:       strings.TrimSpace(in.Title),
		Category:    strings.TrimSpace(in.Category),
		Excerpt:     strings.TrimSpace(in.Excerpt),
		Content:     in.Content,
		ContentHTML: html,
		Author:      strings.TrimSpace(in.Author),
		Image:       *in.Image,
		Date:        date,
	}, nil
}

// BlogPatch carries the admin editable fields. Nil means unchanged.
type BlogPatch struct {
	Title    *string     `json:"title"`
	Category *string     `json:"category"`
	Excerpt  *string     `json:"excerpt"`
	Content  *string     `json:"content"`
	Author   *string     `json:"author"`
	Date     *string     `json:"date"`
	Image    *Attachment `json:"image"`
}

func (p BlogPatch) Apply(b *Blog) error {
	var blank []string
	set := func(name string, src *string, dst *string) {
		if src == nil {
			return
		}
		if strings.TrimSpace(*src) == "" {
			blank = append(blank, name)
			return
		}
		*dst = strings.TrimSpace(*src)
	}
	set("title", p.Title, &b.Title)
	set("category", p.Category, &b.Category)
	set("excerpt", p.Excerpt, &b.Excerpt)
	set("author", p.Author, &b.Author)
	if len(blank) > 0 {
		return desk_errors.MissingFields(blank)
	}
	if p.Content != nil {
		html, err := RenderMarkdown(*p.Content)
		if err != nil {
			return err
		}
		b.Content = *p.Content
		b.ContentHTML = html
	}
	if p.Date != nil && strings.TrimSpace(*p.Date) != "" {
		parsed, ok := ParseDate(*p.Date)
		if !ok {
			return desk_errors.Invalid(MsgInvalidBlogDate)
		}
		b.Date = parsed
	}
	if p.Image != nil {
		if !p.Image.Valid() {
			return desk_errors.Invalid(MsgBlogImageRequired)
		}
		b.Image = *p.Image
	}
	return nil
}
