package booth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/ajmorris/photo-booth-events/internal/media/overlay"
)

type State string

const (
	StateLive       State = "live"
	StateCaptured   State = "captured"
	StateSubmitting State = "submitting"
)

// Config is the per-block embedded configuration the page hands to a
// session. It is opaque to the upload gateway.
type Config struct {
	BlockID       string
	EventID       string
	FrameImageURL string
}

type UploadOutcome struct {
	PhotoID  string
	Status   string
	ImageURL string
}

// Uploader submits a finished capture to the gateway. Implementations handle
// token acquisition and transport framing.
type Uploader interface {
	Submit(ctx context.Context, eventID string, image []byte) (UploadOutcome, error)
}

var (
	ErrNotLive      = errors.New("capture only valid while live")
	ErrNotCaptured  = errors.New("no captured photo")
	ErrSessionEnded = errors.New("session closed")
)

// Session drives one kiosk capture flow:
// Live -> Captured -> Submitting -> Live (success) or Captured (failure).
type Session struct {
	cfg        Config
	camera     Camera
	uploader   Uploader
	log        zerolog.Logger
	httpClient *http.Client

	confirmDelay time.Duration
	sleep        func(time.Duration)

	stream     Stream
	compositor *overlay.Compositor
	state      State
	captured   []byte
	statusMsg  string
	closed     bool
}

type Option func(*Session)

// WithConfirmDelay overrides the post-upload confirmation pause (2s by
// default, shortened in tests).
func WithConfirmDelay(d time.Duration) Option {
	return func(s *Session) { s.confirmDelay = d }
}

func WithSleep(fn func(time.Duration)) Option {
	return func(s *Session) { s.sleep = fn }
}

func WithHTTPClient(client *http.Client) Option {
	return func(s *Session) { s.httpClient = client }
}

func NewSession(cfg Config, camera Camera, uploader Uploader, log zerolog.Logger, opts ...Option) *Session {
	s := &Session{
		cfg:          cfg,
		camera:       camera,
		uploader:     uploader,
		log:          log,
		confirmDelay: 2 * time.Second,
		sleep:        time.Sleep,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start loads the overlay frame (best-effort) and acquires the camera. A
// frame load failure degrades to capturing without an overlay; a camera
// failure is classified and terminal for the session.
func (s *Session) Start(ctx context.Context) error {
	if s.closed {
		return ErrSessionEnded
	}

	s.compositor = overlay.NewCompositor(nil)
	if s.cfg.FrameImageURL != "" {
		img, err := overlay.LoadFrameImage(ctx, s.httpClient, s.cfg.FrameImageURL)
		if err != nil {
			s.log.Warn().Err(err).Str("frame_url", s.cfg.FrameImageURL).Msg("frame image unavailable, capturing without overlay")
		} else {
			s.compositor = overlay.NewCompositor(img)
		}
	}

	stream, err := s.camera.Acquire(ctx, DefaultConstraints())
	if err != nil {
		devErr := ClassifyDeviceError(err)
		s.statusMsg = devErr.Error()
		return devErr
	}

	s.stream = stream
	s.state = StateLive
	s.statusMsg = ""
	return nil
}

func (s *Session) State() State {
	return s.state
}

func (s *Session) StatusMessage() string {
	return s.statusMsg
}

// Capture freezes the current frame through the compositor. A camera that
// has not warmed up yet (zero-dimension frame) keeps the session live with a
// retryable message and never reaches the gateway.
func (s *Session) Capture() error {
	if s.closed {
		return ErrSessionEnded
	}
	if s.state != StateLive {
		return ErrNotLive
	}

	frame, err := s.stream.Frame()
	if err != nil {
		s.statusMsg = "Failed to capture image."
		return fmt.Errorf("read frame: %w", err)
	}

	data, err := s.compositor.Compose(frame)
	if err != nil {
		if errors.Is(err, overlay.ErrEmptyFrame) {
			s.statusMsg = "Video not ready. Please wait a moment and try again."
		} else {
			s.statusMsg = "Failed to capture image."
		}
		return err
	}

	s.captured = data
	s.state = StateCaptured
	s.statusMsg = ""
	return nil
}

// Retake discards the captured bytes and returns to the live feed.
func (s *Session) Retake() error {
	if s.closed {
		return ErrSessionEnded
	}
	if s.state != StateCaptured {
		return ErrNotCaptured
	}

	s.captured = nil
	s.state = StateLive
	s.statusMsg = ""
	return nil
}

// Upload submits the captured photo. While the upload is in flight the
// session sits in Submitting, which is what keeps a second upload from
// starting. Failure returns to Captured so the same shot can be resent;
// success pauses for the confirmation delay and goes back to Live.
func (s *Session) Upload(ctx context.Context) (UploadOutcome, error) {
	if s.closed {
		return UploadOutcome{}, ErrSessionEnded
	}
	if s.state != StateCaptured {
		return UploadOutcome{}, ErrNotCaptured
	}

	s.state = StateSubmitting
	s.statusMsg = "Uploading..."

	outcome, err := s.uploader.Submit(ctx, s.cfg.EventID, s.captured)
	if err != nil {
		s.state = StateCaptured
		s.statusMsg = err.Error()
		return UploadOutcome{}, err
	}

	s.statusMsg = "Photo uploaded successfully!"
	s.sleep(s.confirmDelay)

	s.captured = nil
	s.state = StateLive
	return outcome, nil
}

// Close releases the camera. This must run on teardown regardless of state;
// it is safe to call more than once.
func (s *Session) Close() {
	if s.closed {
		return
	}
	s.closed = true
	if s.stream != nil {
		s.stream.Stop()
		s.stream = nil
	}
}
