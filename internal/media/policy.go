package media

import "strings"

// Policy is the allow-list applied to one upload field group.
type Policy struct {
	Folder  string
	Message string
	allow   func(mimeType string) bool
}

func (p Policy) Allows(mimeType string) bool {
	return p.allow != nil && p.allow(mimeType)
}

func exact(types ...string) func(string) bool {
	return func(m string) bool {
		for _, t := range types {
			if m == t {
				return true
			}
		}
		return false
	}
}

var (
	IdentityDocuments = Policy{
		Folder:  "identity-documents",
		Message: "Only JPG, PNG, and PDF files are allowed",
		allow:   exact("image/jpeg", "image/png", "application/pdf"),
	}
	ReportDocuments = Policy{
		Folder:  "reports",
		Message: "Only JPG, PNG, and PDF files are allowed",
		allow:   exact("image/jpeg", "image/png", "application/pdf"),
	}
	BlogImages = Policy{
		Folder:  "blogs",
		Message: "Only JPG and PNG images are allowed",
		allow:   exact("image/jpeg", "image/png"),
	}
	FeedbackMedia = Policy{
		Folder:  "feedback",
		Message: "Only image and video files are allowed",
		allow: func(m string) bool {
			return strings.HasPrefix(m, "image/") || strings.HasPrefix(m, "video/")
		},
	}
)

// ResourceType classifies a MIME type the way the media host groups objects.
func ResourceType(mimeType string) string {
	switch {
	case strings.HasPrefix(mimeType, "video/"):
		return "video"
	case strings.HasPrefix(mimeType, "image/"):
		return "image"
	default:
		return "raw"
	}
}
