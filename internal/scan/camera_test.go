package scan

import (
	"errors"
	"image"
	"image/color"
	"image/draw"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qrstudio/qrstudio/internal/model"
	"github.com/qrstudio/qrstudio/internal/render"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func whiteFrame(w, h int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	return img
}

func symbolFrame(t *testing.T, payload string) image.Image {
	t.Helper()
	rec := model.New(payload, model.KindText)
	rec.Size = 10
	img, err := render.Render(rec)
	require.NoError(t, err)
	return img
}

// fakeDevice serves a fixed frame and counts reads and closes.
type fakeDevice struct {
	frame   image.Image
	readErr error
	reads   int
	closed  bool
}

func (d *fakeDevice) Read() (image.Image, error) {
	d.reads++
	if d.readErr != nil {
		return nil, d.readErr
	}
	return d.frame, nil
}

func (d *fakeDevice) Close() error {
	d.closed = true
	return nil
}

type fakeBackend struct {
	name    string
	device  *fakeDevice
	openErr error
	opens   int
}

func (b *fakeBackend) Name() string { return b.name }

func (b *fakeBackend) Open(index int, cfg DeviceConfig) (Device, error) {
	b.opens++
	if b.openErr != nil {
		return nil, b.openErr
	}
	return b.device, nil
}

func TestSessionRun_DecodesFromCamera(t *testing.T) {
	dev := &fakeDevice{frame: symbolFrame(t, "camera payload")}
	backend := &fakeBackend{name: "fake", device: dev}

	var previews []image.Image
	session := &Session{
		Backends: []Backend{backend},
		Timeout:  5 * time.Second,
		Preview:  func(img image.Image) { previews = append(previews, img) },
		Log:      testLogger(),
	}

	results, err := session.Run()
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "camera payload", results[0].Data)
	assert.Equal(t, "camera:0", results[0].Source)

	assert.True(t, dev.closed, "device released after a hit")
	// One preview for the captured frame, one more with the overlay.
	assert.Len(t, previews, 2)
	assert.GreaterOrEqual(t, dev.reads, 1+warmupFrames+1, "open probe plus warm-up plus capture")
}

func TestSessionRun_Timeout(t *testing.T) {
	dev := &fakeDevice{frame: whiteFrame(64, 64)}
	backend := &fakeBackend{name: "fake", device: dev}

	session := &Session{
		Backends: []Backend{backend},
		Timeout:  150 * time.Millisecond,
		Log:      testLogger(),
	}

	results, err := session.Run()
	require.NoError(t, err, "timing out is not an error")
	assert.Empty(t, results)
	assert.True(t, dev.closed)
}

func TestSessionRun_BackendFallbackChain(t *testing.T) {
	working := &fakeDevice{frame: symbolFrame(t, "fallback")}
	noFrames := &fakeDevice{readErr: errors.New("no signal")}

	failsOpen := &fakeBackend{name: "broken", openErr: errors.New("cannot open")}
	opensButSilent := &fakeBackend{name: "silent", device: noFrames}
	good := &fakeBackend{name: "good", device: working}

	session := &Session{
		Backends: []Backend{failsOpen, opensButSilent, good},
		Timeout:  5 * time.Second,
		Log:      testLogger(),
	}

	results, err := session.Run()
	require.NoError(t, err)
	require.Len(t, results, 1)

	assert.Equal(t, 1, failsOpen.opens)
	assert.True(t, noFrames.closed, "a backend that opens but cannot read is released")
}

func TestSessionRun_NoBackendWorks(t *testing.T) {
	session := &Session{
		Backends: []Backend{&fakeBackend{name: "broken", openErr: errors.New("no")}},
		Log:      testLogger(),
	}
	_, err := session.Run()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unavailable")
}

func TestSessionRun_ConfidenceFloorRejectsHit(t *testing.T) {
	dev := &fakeDevice{frame: symbolFrame(t, "low")}
	session := &Session{
		Backends:      []Backend{&fakeBackend{name: "fake", device: dev}},
		Timeout:       150 * time.Millisecond,
		MinConfidence: 1.1, // unreachable on purpose
		Log:           testLogger(),
	}

	results, err := session.Run()
	require.NoError(t, err)
	assert.Empty(t, results, "hits below the floor are discarded and the scan keeps going")
}

func TestEnumerate(t *testing.T) {
	t.Run("no cameras yields the sentinel", func(t *testing.T) {
		backends := []Backend{&fakeBackend{name: "broken", openErr: errors.New("no")}}
		cameras := Enumerate(backends, DefaultDeviceConfig(), testLogger())
		require.Len(t, cameras, 1)
		assert.Equal(t, -1, cameras[0].Index)
		assert.Equal(t, "no camera found", cameras[0].Name)
	})

	t.Run("working camera is listed once per index", func(t *testing.T) {
		dev := &fakeDevice{frame: whiteFrame(8, 8)}
		backends := []Backend{&fakeBackend{name: "fake", device: dev}}
		cameras := Enumerate(backends, DefaultDeviceConfig(), testLogger())
		// The fake answers on every probed index.
		require.Len(t, cameras, probeIndexes)
		assert.Equal(t, 0, cameras[0].Index)
		assert.Equal(t, "Camera 0", cameras[0].Name)
		assert.True(t, dev.closed)
	})
}
