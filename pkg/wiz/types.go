package wiz

import (
	"time"
)

// Protocol constants
const (
	// DefaultPort is the well-known UDP port every bulb listens on
	DefaultPort = 38899

	// DefaultTimeout bounds the wait for a unicast reply
	DefaultTimeout = 500 * time.Millisecond

	// DefaultDiscoveryTimeout is the collection window for broadcast discovery
	DefaultDiscoveryTimeout = 2 * time.Second

	// DefaultQuietPeriod is how long a color change must settle before it is sent
	DefaultQuietPeriod = 500 * time.Millisecond

	// BroadcastAddress is the limited broadcast address discovery sends to
	BroadcastAddress = "255.255.255.255"

	// maxDatagram is large enough for any pilot reply
	maxDatagram = 4096
)

// Status defaults substituted for fields a bulb leaves out of its reply
const (
	DefaultBrightness  = 100
	DefaultTemperature = 4400
)

// Protocol method names
const (
	MethodSetPilot = "setPilot"
	MethodGetPilot = "getPilot"
)

// DeviceStatus is the decoded pilot state of a bulb
type DeviceStatus struct {
	On          bool `json:"on"`
	Brightness  int  `json:"brightness"`
	Temperature int  `json:"temperature"`
}

// RGB is a display color with channels normalized to [0,1]
type RGB struct {
	R float64 `json:"r"`
	G float64 `json:"g"`
	B float64 `json:"b"`
}

// RGB8 is a color with 8-bit channels as carried on the wire
type RGB8 struct {
	R int `json:"r"`
	G int `json:"g"`
	B int `json:"b"`
}
