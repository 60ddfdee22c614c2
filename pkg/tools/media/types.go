package media

import (
	"context"

	"github.com/hamzaessahbaoui/twitter-mcp/pkg/twitter"
)

// Uploader is the slice of the API capability the media helper needs.
type Uploader interface {
	UploadMedia(ctx context.Context, data []byte, mimeType string, opts twitter.UploadOptions) (string, error)
}

// Kind selects the validation rules applied to a file.
type Kind int

const (
	Image Kind = iota
	Video
)

const (
	// MaxImageBytes is the largest image accepted for upload.
	MaxImageBytes int64 = 5 << 20
	// MaxVideoBytes is the largest video accepted for upload.
	MaxVideoBytes int64 = 512 << 20
	// LongVideoBytes is the size above which a video is uploaded as long-form.
	LongVideoBytes int64 = 15 << 20
)

// rules describe what a Kind accepts.
type rules struct {
	label    string
	maxBytes int64
	mimes    map[string]string // extension -> MIME type
}

var kindRules = map[Kind]rules{
	Image: {
		label:    "Image",
		maxBytes: MaxImageBytes,
		mimes: map[string]string{
			".jpg":  "image/jpeg",
			".jpeg": "image/jpeg",
			".png":  "image/png",
			".gif":  "image/gif",
			".webp": "image/webp",
		},
	},
	Video: {
		label:    "Video",
		maxBytes: MaxVideoBytes,
		mimes: map[string]string{
			".mp4": "video/mp4",
			".mov": "video/quicktime",
		},
	},
}
