package overlay

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"net/http"
	"time"

	"github.com/disintegration/imaging"
)

// ErrEmptyFrame signals a camera that has not produced a real frame yet.
// Callers must surface a retryable error, never submit a blank image.
var ErrEmptyFrame = errors.New("video frame has zero width or height")

const jpegQuality = 90

// FrameBuffer is one decoded frame from the live camera feed.
type FrameBuffer struct {
	Image image.Image
}

func (f *FrameBuffer) Bounds() image.Rectangle {
	if f == nil || f.Image == nil {
		return image.Rectangle{}
	}
	return f.Image.Bounds()
}

// Compositor produces the final submission image: the camera frame with an
// optional still overlay stretched on top of it at full opacity.
type Compositor struct {
	frame image.Image // nil means capture without an overlay
}

func NewCompositor(frame image.Image) *Compositor {
	return &Compositor{frame: frame}
}

func (c *Compositor) HasOverlay() bool {
	return c.frame != nil
}

// Compose encodes the given camera frame as JPEG, drawing the configured
// overlay stretched to the frame's exact dimensions. Output dimensions always
// equal the input frame's dimensions regardless of the overlay's native size.
func (c *Compositor) Compose(frame *FrameBuffer) ([]byte, error) {
	bounds := frame.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if width == 0 || height == 0 {
		return nil, ErrEmptyFrame
	}

	out := imaging.Clone(frame.Image)
	if c.frame != nil {
		scaled := imaging.Resize(c.frame, width, height, imaging.Lanczos)
		out = imaging.Overlay(out, scaled, image.Pt(0, 0), 1.0)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, out, imaging.JPEG, imaging.JPEGQuality(jpegQuality)); err != nil {
		return nil, fmt.Errorf("encode jpeg: %w", err)
	}
	return buf.Bytes(), nil
}

// LoadFrameImage fetches and decodes the overlay still once per session.
// A failure here degrades to capturing without an overlay; the caller logs
// it as a recoverable warning.
func LoadFrameImage(ctx context.Context, client *http.Client, url string) (image.Image, error) {
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build frame request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch frame image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch frame image: status %d", resp.StatusCode)
	}

	img, err := imaging.Decode(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("decode frame image: %w", err)
	}
	return img, nil
}
