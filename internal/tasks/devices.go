package tasks

import (
	"fmt"

	"botfarm/pkg/models"
)

const defaultMaxSessionDuration = 3600

var deviceTypes = []models.DeviceType{models.DeviceDesktop, models.DeviceMobile}

// DeviceID is the id of the device at zero-based position index.
func DeviceID(index int) string {
	return fmt.Sprintf("device_%d", index+1)
}

// GenerateDevices returns one device per account, alternating desktop and
// mobile. With no accounts a single default desktop device is returned.
func GenerateDevices(count int) []models.Device {
	if count <= 0 {
		count = 1
	}

	devices := make([]models.Device, 0, count)
	for i := 0; i < count; i++ {
		devices = append(devices, models.Device{
			ID:                 DeviceID(i),
			Name:               fmt.Sprintf("Device %d", i+1),
			Type:               deviceTypes[i%len(deviceTypes)],
			Headless:           false,
			ProxyEnabled:       true,
			MaxSessionDuration: defaultMaxSessionDuration,
			SaveSession:        true,
		})
	}

	return devices
}
