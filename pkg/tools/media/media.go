// Package media validates local media files and forwards them to the API's
// upload endpoint.
package media

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/hamzaessahbaoui/twitter-mcp/pkg/twitter"
)

// UploadImage validates the image at path and uploads it, returning the media id.
func UploadImage(ctx context.Context, up Uploader, path string) (string, error) {
	return Upload(ctx, up, Image, path)
}

// UploadVideo validates the video at path and uploads it, returning the media id.
func UploadVideo(ctx context.Context, up Uploader, path string) (string, error) {
	return Upload(ctx, up, Video, path)
}

// Upload checks that path is a regular file within the size ceiling and
// allow-list of kind, then forwards its content with the derived MIME type.
func Upload(ctx context.Context, up Uploader, kind Kind, path string) (string, error) {
	r, ok := kindRules[kind]
	if !ok {
		return "", fmt.Errorf("unknown media kind %d", kind)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", path, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("File not found: %s", abs)
		}
		return "", fmt.Errorf("stat %s: %w", abs, err)
	}
	if !info.Mode().IsRegular() {
		return "", fmt.Errorf("Path is not a file: %s", abs)
	}
	if info.Size() > r.maxBytes {
		return "", fmt.Errorf("%s file too large: %d bytes (max %d MB)", r.label, info.Size(), r.maxBytes>>20)
	}

	ext := strings.ToLower(filepath.Ext(abs))
	mimeType, ok := r.mimes[ext]
	if !ok {
		return "", fmt.Errorf("Unsupported %s format %q (allowed: %s)", strings.ToLower(r.label), ext, allowed(r))
	}

	data, err := os.ReadFile(abs)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", abs, err)
	}

	opts := twitter.UploadOptions{LongVideo: kind == Video && info.Size() > LongVideoBytes}
	return up.UploadMedia(ctx, data, mimeType, opts)
}

func allowed(r rules) string {
	exts := make([]string, 0, len(r.mimes))
	for ext := range r.mimes {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return strings.Join(exts, " ")
}
