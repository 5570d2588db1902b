package service

import "errors"

// Categorized failures surfaced by the resource services. Handlers map
// these onto HTTP statuses; anything else is an unexpected persistence
// failure.
var (
	// ErrInvalidUUID rejects malformed UUID input before any store access.
	ErrInvalidUUID = errors.New("given UUID is invalid")
	// ErrInvalidIP rejects malformed IP addresses.
	ErrInvalidIP = errors.New("given ip_address is invalid")
	// ErrInvalidFields rejects partial updates touching immutable or unknown fields.
	ErrInvalidFields = errors.New("given fields are invalid")
	// ErrTypeNotFound means a referenced charging station type does not exist.
	ErrTypeNotFound = errors.New("charging station type does not exist")
	// ErrStationNotFound means a referenced charging station does not exist.
	ErrStationNotFound = errors.New("charging station does not exist")
	// ErrNotFound means the primary-key lookup or update matched no row.
	ErrNotFound = errors.New("not found")
	// ErrDuplicate means a unique constraint (name or client-supplied id) rejected the write.
	ErrDuplicate = errors.New("unique constraint violation")
	// ErrPriorityTaken means the station already has a priority connector.
	ErrPriorityTaken = errors.New("only one priority connector is possible per charging station")
	// ErrCapacityReached means the station's plug count is exhausted.
	ErrCapacityReached = errors.New("unable to add more connectors to the charging station")
)
