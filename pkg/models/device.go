package models

// DeviceOption is one selectable device target
type DeviceOption struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Vendor string `json:"vendor,omitempty"`
}

// DeviceSelection pairs a device id with its vendor for catalog rows
type DeviceSelection struct {
	ID     string `json:"id"`
	Vendor string `json:"vendor,omitempty"`
}
