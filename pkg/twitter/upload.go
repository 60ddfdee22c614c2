package twitter

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const (
	uploadChunkSize = 4 << 20
	maxStatusPolls  = 60
)

type uploadResponse struct {
	MediaIDString  string          `json:"media_id_string"`
	ProcessingInfo *processingInfo `json:"processing_info,omitempty"`
}

type processingInfo struct {
	State          string `json:"state"`
	CheckAfterSecs int    `json:"check_after_secs"`
	Error          *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// UploadMedia runs the chunked INIT/APPEND/FINALIZE upload and waits for
// asynchronous processing to finish before returning the media id.
func (c *Client) UploadMedia(ctx context.Context, data []byte, mimeType string, opts UploadOptions) (string, error) {
	if len(data) == 0 {
		return "", errors.New("twitter: upload: empty media")
	}

	init, err := c.uploadForm(ctx, url.Values{
		"command":        {"INIT"},
		"total_bytes":    {strconv.Itoa(len(data))},
		"media_type":     {mimeType},
		"media_category": {mediaCategory(mimeType, opts)},
	})
	if err != nil {
		return "", err
	}
	mediaID := init.MediaIDString
	if mediaID == "" {
		return "", errors.New("twitter: upload INIT: missing media id")
	}
	c.logger.Debug("media upload started", "media_id", mediaID, "bytes", len(data), "mime_type", mimeType)

	for i, off := 0, 0; off < len(data); i, off = i+1, off+uploadChunkSize {
		end := min(off+uploadChunkSize, len(data))
		if err := c.appendChunk(ctx, mediaID, i, data[off:end]); err != nil {
			return "", err
		}
	}

	fin, err := c.uploadForm(ctx, url.Values{
		"command":  {"FINALIZE"},
		"media_id": {mediaID},
	})
	if err != nil {
		return "", err
	}
	if err := c.awaitProcessing(ctx, mediaID, fin.ProcessingInfo); err != nil {
		return "", err
	}
	return mediaID, nil
}

func (c *Client) awaitProcessing(ctx context.Context, mediaID string, info *processingInfo) error {
	for polls := 0; info != nil; polls++ {
		switch info.State {
		case "succeeded":
			return nil
		case "failed":
			msg := "processing failed"
			if info.Error != nil && info.Error.Message != "" {
				msg = info.Error.Message
			}
			return fmt.Errorf("twitter: media %s: %s", mediaID, msg)
		}
		if polls >= maxStatusPolls {
			return fmt.Errorf("twitter: media %s: processing did not finish", mediaID)
		}

		wait := time.Duration(max(info.CheckAfterSecs, 1)) * time.Second
		if err := c.sleep(ctx, wait); err != nil {
			return err
		}

		q := url.Values{"command": {"STATUS"}, "media_id": {mediaID}}
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.uploadURL+"?"+q.Encode(), nil)
		if err != nil {
			return fmt.Errorf("twitter: upload STATUS: %w", err)
		}
		var status uploadResponse
		if err := c.decodeUpload(req, &status); err != nil {
			return err
		}
		info = status.ProcessingInfo
	}
	return nil
}

func (c *Client) uploadForm(ctx context.Context, form url.Values) (*uploadResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.uploadURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("twitter: upload %s: %w", form.Get("command"), err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	var out uploadResponse
	if err := c.decodeUpload(req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) appendChunk(ctx context.Context, mediaID string, segment int, chunk []byte) error {
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	fields := [][2]string{
		{"command", "APPEND"},
		{"media_id", mediaID},
		{"segment_index", strconv.Itoa(segment)},
	}
	for _, f := range fields {
		if err := w.WriteField(f[0], f[1]); err != nil {
			return fmt.Errorf("twitter: upload APPEND: %w", err)
		}
	}
	part, err := w.CreateFormFile("media", "blob")
	if err != nil {
		return fmt.Errorf("twitter: upload APPEND: %w", err)
	}
	if _, err := part.Write(chunk); err != nil {
		return fmt.Errorf("twitter: upload APPEND: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("twitter: upload APPEND: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.uploadURL, &body)
	if err != nil {
		return fmt.Errorf("twitter: upload APPEND: %w", err)
	}
	req.Header.Set("Content-Type", w.FormDataContentType())
	_, err = c.send(req)
	return err
}

func (c *Client) decodeUpload(req *http.Request, out *uploadResponse) error {
	data, err := c.send(req)
	if err != nil {
		return err
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("twitter: decode upload response: %w", err)
	}
	return nil
}

func mediaCategory(mimeType string, opts UploadOptions) string {
	switch {
	case strings.HasPrefix(mimeType, "video/") && opts.LongVideo:
		return "amplify_video"
	case strings.HasPrefix(mimeType, "video/"):
		return "tweet_video"
	case mimeType == "image/gif":
		return "tweet_gif"
	default:
		return "tweet_image"
	}
}
