package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"slices"
	"sort"
	"strings"

	"socialdesk/internal/media"
	"socialdesk/internal/services"
	desk_errors "socialdesk/pkg/errors"

	"github.com/gin-gonic/gin"
)

const maxFormMemory = 8 << 20

func isMultipart(c *gin.Context) bool {
	return strings.HasPrefix(c.ContentType(), gin.MIMEMultipartPOSTForm)
}

// bindSubmission decodes a JSON or multipart body into dst. For multipart
// bodies it returns the uploaded files of the accepted fields; a file under
// any other field name rejects the request.
func bindSubmission(c *gin.Context, dst any, fileFields ...string) ([]media.Part, error) {
	if !isMultipart(c) {
		if c.ContentType() == gin.MIMEPOSTForm {
			if err := c.ShouldBind(dst); err != nil {
				return nil, desk_errors.Invalid(msgInvalidBody)
			}
			return nil, nil
		}
		if err := c.ShouldBindJSON(dst); err != nil {
			return nil, bodyError(err)
		}
		return nil, nil
	}

	if err := c.Request.ParseMultipartForm(maxFormMemory); err != nil {
		return nil, bodyError(err)
	}
	form := c.Request.MultipartForm

	raw, err := json.Marshal(formDocument(form.Value))
	if err != nil {
		return nil, desk_errors.Invalid(msgInvalidBody)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return nil, desk_errors.Invalid(msgInvalidBody)
	}
	return formParts(form.File, fileFields)
}

func bodyError(err error) error {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return &desk_errors.MediaError{Kind: desk_errors.ErrTooLarge, Message: msgBodyTooLarge}
	}
	return desk_errors.Invalid(msgInvalidBody)
}

// formDocument turns multipart values into a JSON shaped document. Keys in
// bracket notation ("fakeAccount[username]") build nested objects, and a
// value holding a JSON object is decoded in place.
func formDocument(values map[string][]string) map[string]any {
	doc := map[string]any{}
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	// plain keys first so bracket keys refine a group sent as JSON
	sort.Slice(keys, func(i, j int) bool {
		return len(splitKey(keys[i])) < len(splitKey(keys[j])) ||
			(len(splitKey(keys[i])) == len(splitKey(keys[j])) && keys[i] < keys[j])
	})
	for _, key := range keys {
		vals := values[key]
		if len(vals) == 0 {
			continue
		}
		setPath(doc, splitKey(key), formValue(vals[0]))
	}
	return doc
}

func formValue(v string) any {
	trimmed := strings.TrimSpace(v)
	if strings.HasPrefix(trimmed, "{") {
		var obj map[string]any
		if err := json.Unmarshal([]byte(trimmed), &obj); err == nil {
			return obj
		}
	}
	return v
}

func splitKey(key string) []string {
	head, rest, found := strings.Cut(key, "[")
	if !found {
		return []string{key}
	}
	path := []string{head}
	for _, seg := range strings.Split(rest, "[") {
		path = append(path, strings.TrimSuffix(seg, "]"))
	}
	return path
}

func setPath(doc map[string]any, path []string, value any) {
	for _, seg := range path[:len(path)-1] {
		next, ok := doc[seg].(map[string]any)
		if !ok {
			next = map[string]any{}
			doc[seg] = next
		}
		doc = next
	}
	doc[path[len(path)-1]] = value
}

func formParts(files map[string][]*multipart.FileHeader, accepted []string) ([]media.Part, error) {
	fields := make([]string, 0, len(files))
	for field := range files {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	var parts []media.Part
	for _, field := range fields {
		headers := files[field]
		if !slices.Contains(accepted, field) {
			return nil, desk_errors.Invalid(fmt.Sprintf(msgUnexpectedField, field))
		}
		if limit := services.FieldLimits[field]; limit > 0 && len(headers) > limit {
			return nil, desk_errors.Invalid(fmt.Sprintf(msgTooManyFiles, field, limit))
		}
		for _, fh := range headers {
			parts = append(parts, media.FromFileHeader(field, fh))
		}
	}
	return parts, nil
}

// single returns the only part, or nil when no file was sent.
func single(parts []media.Part) *media.Part {
	if len(parts) == 0 {
		return nil
	}
	return &parts[0]
}
