package booth

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"
	"time"
)

// Client is the Uploader implementation that talks to the booth API: it
// fetches a fresh origin token, then posts the capture as multipart form
// data. Gateway rejections come back as structured messages and are
// surfaced verbatim.
type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		http:    httpClient,
	}
}

type tokenResponse struct {
	Nonce string `json:"nonce"`
}

type submitResponse struct {
	PhotoID  string `json:"photo_id"`
	Status   string `json:"status"`
	ImageURL string `json:"image_url,omitempty"`
	Error    string `json:"error,omitempty"`
}

func (c *Client) Submit(ctx context.Context, eventID string, image []byte) (UploadOutcome, error) {
	nonce, err := c.fetchToken(ctx, eventID)
	if err != nil {
		return UploadOutcome{}, fmt.Errorf("fetch upload token: %w", err)
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	if err := writer.WriteField("nonce", nonce); err != nil {
		return UploadOutcome{}, fmt.Errorf("write form: %w", err)
	}
	if err := writer.WriteField("event_id", eventID); err != nil {
		return UploadOutcome{}, fmt.Errorf("write form: %w", err)
	}

	part, err := writer.CreatePart(textproto.MIMEHeader{
		"Content-Disposition": {`form-data; name="photo"; filename="photo.jpg"`},
		"Content-Type":        {"image/jpeg"},
	})
	if err != nil {
		return UploadOutcome{}, fmt.Errorf("create form file: %w", err)
	}
	if _, err := part.Write(image); err != nil {
		return UploadOutcome{}, fmt.Errorf("write image: %w", err)
	}
	if err := writer.Close(); err != nil {
		return UploadOutcome{}, fmt.Errorf("close form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/v1/booth/submit", &body)
	if err != nil {
		return UploadOutcome{}, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.http.Do(req)
	if err != nil {
		return UploadOutcome{}, fmt.Errorf("network error: %w", err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return UploadOutcome{}, fmt.Errorf("read response: %w", err)
	}

	var parsed submitResponse
	if err := json.Unmarshal(payload, &parsed); err != nil {
		return UploadOutcome{}, fmt.Errorf("decode response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		if parsed.Error != "" {
			return UploadOutcome{}, errors.New(parsed.Error)
		}
		return UploadOutcome{}, fmt.Errorf("upload failed: status %d", resp.StatusCode)
	}

	return UploadOutcome{
		PhotoID:  parsed.PhotoID,
		Status:   parsed.Status,
		ImageURL: parsed.ImageURL,
	}, nil
}

func (c *Client) fetchToken(ctx context.Context, eventID string) (string, error) {
	endpoint := fmt.Sprintf("%s/api/v1/booth/token?event_id=%s", c.baseURL, url.QueryEscape(eventID))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("token endpoint: status %d", resp.StatusCode)
	}

	var parsed tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", err
	}
	if parsed.Nonce == "" {
		return "", errors.New("empty nonce")
	}
	return parsed.Nonce, nil
}
