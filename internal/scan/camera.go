package scan

import (
	"fmt"
	"image"
	"log/slog"
	"time"
)

// Device is one opened camera delivering frames.
type Device interface {
	Read() (image.Image, error)
	Close() error
}

// Backend opens camera devices by index. Actual frame capture lives outside
// this module; implementations wrap whatever capture stack the platform
// provides.
type Backend interface {
	Name() string
	Open(index int, cfg DeviceConfig) (Device, error)
}

// DeviceConfig carries capture hints. Backends apply what they can and
// ignore the rest.
type DeviceConfig struct {
	Width      int
	Height     int
	FPS        int
	BufferSize int
}

// DefaultDeviceConfig mirrors the capture settings interactive scanning
// has always used.
func DefaultDeviceConfig() DeviceConfig {
	return DeviceConfig{Width: 1280, Height: 720, FPS: 30, BufferSize: 1}
}

// Session is one interactive camera scan.
type Session struct {
	Backends      []Backend
	Index         int
	Config        DeviceConfig
	Timeout       time.Duration
	MinConfidence float64

	// Preview receives every captured frame, plus one final frame with the
	// hit overlay drawn on it. Nil disables previews.
	Preview func(image.Image)

	Log *slog.Logger
}

const (
	defaultTimeout = 30 * time.Second
	warmupFrames   = 5
	decodeStride   = 5
)

// openDevice walks the backend chain. An attempt only counts as open when
// the device also delivers a test frame; backends that open but never
// produce frames are common.
func openDevice(backends []Backend, index int, cfg DeviceConfig, log *slog.Logger) (Device, error) {
	for _, backend := range backends {
		dev, err := backend.Open(index, cfg)
		if err != nil {
			log.Debug("camera backend failed to open", "backend", backend.Name(), "index", index, "error", err)
			continue
		}
		if _, err := dev.Read(); err != nil {
			log.Debug("camera backend opened but delivered no frame", "backend", backend.Name(), "index", index, "error", err)
			_ = dev.Close()
			continue
		}
		log.Debug("camera opened", "backend", backend.Name(), "index", index)
		return dev, nil
	}
	return nil, fmt.Errorf("camera %d unavailable on every backend", index)
}

// Run captures frames until a symbol decodes or the timeout passes. The
// device is released on every return path. A timeout returns empty results
// and no error.
func (s *Session) Run() ([]Result, error) {
	log := s.Log
	if log == nil {
		log = slog.Default()
	}
	timeout := s.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	dev, err := openDevice(s.Backends, s.Index, s.Config, log)
	if err != nil {
		return nil, err
	}
	defer dev.Close()

	for i := 0; i < warmupFrames; i++ {
		if _, err := dev.Read(); err != nil {
			return nil, fmt.Errorf("camera stopped during warm-up: %w", err)
		}
	}

	deadline := time.Now().Add(timeout)
	source := fmt.Sprintf("camera:%d", s.Index)
	for frameNo := 0; time.Now().Before(deadline); frameNo++ {
		frame, err := dev.Read()
		if err != nil {
			log.Warn("camera stream ended", "index", s.Index, "error", err)
			return nil, nil
		}
		if s.Preview != nil {
			s.Preview(frame)
		}
		// Decoding every frame burns CPU for no extra hits; every fifth is
		// plenty at camera frame rates.
		if frameNo%decodeStride != 0 {
			continue
		}

		results := accepted(decodeImage(frame, source), s.MinConfidence)
		if len(results) == 0 {
			continue
		}
		if s.Preview != nil {
			s.Preview(Overlay(frame, results))
		}
		return results, nil
	}

	log.Info("camera scan timed out", "index", s.Index, "timeout", timeout)
	return nil, nil
}

func accepted(results []Result, minConfidence float64) []Result {
	out := results[:0]
	for _, r := range results {
		if r.Confidence >= minConfidence {
			out = append(out, r)
		}
	}
	return out
}
