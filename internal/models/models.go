package models

import "time"

// ChargingStationType describes a category of charging hardware.
type ChargingStationType struct {
	ID          string    `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	PlugCount   int       `db:"plug_count" json:"plug_count"`
	Efficiency  float64   `db:"efficiency" json:"efficiency"`
	CurrentType string    `db:"current_type" json:"current_type"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// Current type values accepted by ChargingStationType.
const (
	CurrentTypeAC = "AC"
	CurrentTypeDC = "DC"
)

// ChargingStation is a physical charging unit tied to exactly one type.
// The raw foreign key is hidden from JSON responses in favour of the
// embedded type object.
type ChargingStation struct {
	ID              string               `db:"id" json:"id"`
	Name            string               `db:"name" json:"name"`
	DeviceID        string               `db:"device_id" json:"device_id"`
	IPAddress       string               `db:"ip_address" json:"ip_address"`
	FirmwareVersion string               `db:"firmware_version" json:"firmware_version"`
	TypeID          string               `db:"charging_station_type_id" json:"-"`
	Type            *ChargingStationType `json:"charging_station_type,omitempty"`
	CreatedAt       time.Time            `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time            `db:"updated_at" json:"updated_at"`
}

// Connector is a single charging port belonging to one station. At most
// one connector per station may be marked priority.
type Connector struct {
	ID        string           `db:"id" json:"id"`
	Name      string           `db:"name" json:"name"`
	Priority  bool             `db:"priority" json:"priority"`
	StationID string           `db:"charging_station_id" json:"-"`
	Station   *ChargingStation `json:"charging_station,omitempty"`
	CreatedAt time.Time        `db:"created_at" json:"created_at"`
	UpdatedAt time.Time        `db:"updated_at" json:"updated_at"`
}
