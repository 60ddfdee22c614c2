package media_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hamzaessahbaoui/twitter-mcp/pkg/tools/media"
	"github.com/hamzaessahbaoui/twitter-mcp/pkg/twitter"
)

type recordingUploader struct {
	calls    int
	data     []byte
	mimeType string
	opts     twitter.UploadOptions
	err      error
}

func (u *recordingUploader) UploadMedia(_ context.Context, data []byte, mimeType string, opts twitter.UploadOptions) (string, error) {
	u.calls++
	u.data, u.mimeType, u.opts = data, mimeType, opts
	if u.err != nil {
		return "", u.err
	}
	return "media-1", nil
}

func writeFile(t *testing.T, name string, content []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, content, 0o644))
	return path
}

func sizedFile(t *testing.T, name string, size int64) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, f.Truncate(size))
	require.NoError(t, f.Close())
	return path
}

func TestUploadImage(t *testing.T) {
	tests := []struct {
		name     string
		file     string
		wantMIME string
	}{
		{name: "png", file: "a.png", wantMIME: "image/png"},
		{name: "jpeg upper case", file: "a.JPEG", wantMIME: "image/jpeg"},
		{name: "gif", file: "a.gif", wantMIME: "image/gif"},
		{name: "webp", file: "a.webp", wantMIME: "image/webp"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			up := &recordingUploader{}
			path := writeFile(t, tc.file, []byte("pixels"))

			id, err := media.UploadImage(context.Background(), up, path)
			require.NoError(t, err)
			assert.Equal(t, "media-1", id)
			assert.Equal(t, tc.wantMIME, up.mimeType)
			assert.Equal(t, []byte("pixels"), up.data)
			assert.False(t, up.opts.LongVideo)
		})
	}
}

func TestUploadVideo_LongVideoFlag(t *testing.T) {
	tests := []struct {
		name     string
		size     int64
		wantLong bool
	}{
		{name: "short", size: 1024, wantLong: false},
		{name: "at threshold", size: media.LongVideoBytes, wantLong: false},
		{name: "long", size: media.LongVideoBytes + 1, wantLong: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			up := &recordingUploader{}
			path := sizedFile(t, "clip.mov", tc.size)

			_, err := media.UploadVideo(context.Background(), up, path)
			require.NoError(t, err)
			assert.Equal(t, "video/quicktime", up.mimeType)
			assert.Equal(t, tc.wantLong, up.opts.LongVideo)
			assert.Len(t, up.data, int(tc.size))
		})
	}
}

func TestUpload_Rejections(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		upload  func(context.Context, media.Uploader, string) (string, error)
		path    string
		wantMsg string
	}{
		{
			name:    "missing file",
			upload:  media.UploadImage,
			path:    filepath.Join(dir, "nope.png"),
			wantMsg: "File not found: " + filepath.Join(dir, "nope.png"),
		},
		{
			name:    "directory",
			upload:  media.UploadVideo,
			path:    dir,
			wantMsg: "Path is not a file: " + dir,
		},
		{
			name:    "image too large",
			upload:  media.UploadImage,
			path:    sizedFile(t, "big.png", media.MaxImageBytes+1),
			wantMsg: "Image file too large",
		},
		{
			name:    "unsupported image extension",
			upload:  media.UploadImage,
			path:    writeFile(t, "doc.bmp", []byte("x")),
			wantMsg: "Unsupported image format",
		},
		{
			name:    "image extension for video",
			upload:  media.UploadVideo,
			path:    writeFile(t, "clip.png", []byte("x")),
			wantMsg: "Unsupported video format",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			up := &recordingUploader{}
			_, err := tc.upload(context.Background(), up, tc.path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantMsg)
			assert.Zero(t, up.calls, "uploader must not be called")
		})
	}
}

func TestUpload_PropagatesUploaderError(t *testing.T) {
	boom := errors.New("upload refused")
	up := &recordingUploader{err: boom}
	path := writeFile(t, "a.jpg", []byte("x"))

	_, err := media.UploadImage(context.Background(), up, path)
	assert.ErrorIs(t, err, boom)
}

func TestUpload_RelativePath(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "rel.png"), []byte("x"), 0o644))
	t.Chdir(dir)

	up := &recordingUploader{}
	_, err := media.UploadImage(context.Background(), up, "rel.png")
	require.NoError(t, err)
	assert.Equal(t, 1, up.calls)
}
