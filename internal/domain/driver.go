package domain

import (
	"time"

	"github.com/google/uuid"
)

const (
	VehicleCar  = "Carro"
	VehicleMoto = "Moto"
)

type DriverProfile struct {
	ID            uuid.UUID `json:"id" db:"id"`
	UserID        string    `json:"user_id" db:"user_id"`
	DriverID      string    `json:"driver_id_99" db:"driver_id_99"`
	CityName      string    `json:"city_name" db:"city_name"`
	DriverName    string    `json:"driver_name,omitempty" db:"driver_name"`
	CurrentStatus string    `json:"current_status" db:"current_status"`
	StarRating    float64   `json:"star_rating" db:"star_rating"`
	AuditPassed   bool      `json:"audit_passed" db:"audit_passed"`
	VehicleType   string    `json:"vehicle_type,omitempty" db:"vehicle_type"`
}

// PlaceholderProfile is shown to a signed-in user who has not imported or
// onboarded yet.
func PlaceholderProfile(userID string) DriverProfile {
	return DriverProfile{
		UserID:        userID,
		DriverID:      "Pendente",
		CityName:      "Aguardando",
		CurrentStatus: "Novo",
	}
}

type ProfileForm struct {
	DriverID    string `json:"driver_id_99"`
	CityName    string `json:"city_name"`
	DriverName  string `json:"driver_name"`
	VehicleType string `json:"vehicle_type"`
}

const (
	TripCompleted = "completed"
	TripOther     = "other"
)

// Trip only lives for one import pass.
type Trip struct {
	TripID     string     `json:"trip_id_99"`
	Status     string     `json:"trip_status"`
	TripDate   time.Time  `json:"trip_date"`
	StartedAt  time.Time  `json:"start_time"`
	EndedAt    *time.Time `json:"end_time,omitempty"`
	DistanceKm *float64   `json:"distance_km"`
	TripType   string     `json:"trip_type"`
	FareGross  float64    `json:"fare_gross"`
	FareNet    float64    `json:"fare_net"`
}

type ImportResult struct {
	ProfileID     uuid.UUID `json:"profile_id"`
	DriverID      string    `json:"driver_id_99"`
	CityName      string    `json:"city_name"`
	TripsImported int       `json:"trips_imported"`
}

// ImportEvent is published once an import has reached the store.
type ImportEvent struct {
	UserID        string    `json:"user_id"`
	ProfileID     uuid.UUID `json:"profile_id"`
	DriverID      string    `json:"driver_id_99"`
	TripsImported int       `json:"trips_imported"`
	ImportedAt    time.Time `json:"imported_at"`
}
