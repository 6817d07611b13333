package scan

import (
	"fmt"
	"log/slog"
)

// CameraInfo describes one usable capture device.
type CameraInfo struct {
	Index int    `json:"index"`
	Name  string `json:"name"`
}

const probeIndexes = 5

// Enumerate probes camera indexes 0 through 4 through the backend chain.
// When nothing answers it returns the single sentinel entry
// {-1, "no camera found"} so callers always have something to display.
func Enumerate(backends []Backend, cfg DeviceConfig, log *slog.Logger) []CameraInfo {
	if log == nil {
		log = slog.Default()
	}
	var found []CameraInfo
	for index := 0; index < probeIndexes; index++ {
		dev, err := openDevice(backends, index, cfg, log)
		if err != nil {
			continue
		}
		_ = dev.Close()
		found = append(found, CameraInfo{Index: index, Name: fmt.Sprintf("Camera %d", index)})
	}
	if len(found) == 0 {
		return []CameraInfo{{Index: -1, Name: "no camera found"}}
	}
	return found
}
