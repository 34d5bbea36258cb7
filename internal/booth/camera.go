package booth

import (
	"context"
	"errors"

	"github.com/ajmorris/photo-booth-events/internal/media/overlay"
)

// Camera abstracts whatever device backend the kiosk runs on. Acquisition is
// attempted once at session start; failures must be classified so the user
// sees a specific message, not a raw driver error.
type Camera interface {
	Acquire(ctx context.Context, constraints Constraints) (Stream, error)
}

// Stream is a live feed. Stop must release the underlying device; leaking it
// is a correctness bug, not a missed optimization.
type Stream interface {
	Frame() (*overlay.FrameBuffer, error)
	Stop()
}

type Constraints struct {
	FacingFront bool
	IdealWidth  int
	IdealHeight int
}

// DefaultConstraints prefers a front-facing camera at 1280x720.
func DefaultConstraints() Constraints {
	return Constraints{
		FacingFront: true,
		IdealWidth:  1280,
		IdealHeight: 720,
	}
}

// Sentinel causes camera backends return from Acquire.
var (
	ErrPermissionDenied = errors.New("camera permission denied")
	ErrNoDevice         = errors.New("no camera device")
	ErrDeviceBusy       = errors.New("camera device busy")
	ErrOverconstrained  = errors.New("camera constraints not satisfiable")
)

type DeviceErrorKind string

const (
	DevicePermissionDenied DeviceErrorKind = "permission_denied"
	DeviceNotFound         DeviceErrorKind = "not_found"
	DeviceBusy             DeviceErrorKind = "busy"
	DeviceOverconstrained  DeviceErrorKind = "overconstrained"
	DeviceOther            DeviceErrorKind = "other"
)

type DeviceError struct {
	Kind  DeviceErrorKind
	Cause error
}

func (e *DeviceError) Error() string {
	switch e.Kind {
	case DevicePermissionDenied:
		return "Camera permission denied. Please allow camera access and refresh the page."
	case DeviceNotFound:
		return "No camera found. Please connect a camera and refresh the page."
	case DeviceBusy:
		return "Camera is already in use by another application."
	case DeviceOverconstrained:
		return "Camera constraints not satisfied. Please try a different camera."
	default:
		if e.Cause != nil {
			return "Failed to access camera: " + e.Cause.Error()
		}
		return "Failed to access camera."
	}
}

func (e *DeviceError) Unwrap() error {
	return e.Cause
}

// ClassifyDeviceError maps an acquisition failure into the fixed kind set.
func ClassifyDeviceError(err error) *DeviceError {
	kind := DeviceOther
	switch {
	case errors.Is(err, ErrPermissionDenied):
		kind = DevicePermissionDenied
	case errors.Is(err, ErrNoDevice):
		kind = DeviceNotFound
	case errors.Is(err, ErrDeviceBusy):
		kind = DeviceBusy
	case errors.Is(err, ErrOverconstrained):
		kind = DeviceOverconstrained
	}
	return &DeviceError{Kind: kind, Cause: err}
}
