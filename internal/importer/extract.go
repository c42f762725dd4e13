package importer

import (
	"strconv"
	"strings"
	"time"

	"github.com/euRhuanOLiveira/Driverpro/internal/domain"
)

var (
	ProfileSheets = []string{"driver_base", "Base"}
	LedgerSheets  = []string{"order_info", "Corridas"}
)

const (
	defaultCity     = "Não Informada"
	defaultStatus   = "active"
	defaultTripType = "App"
)

var (
	driverIDField   = aliases("Driver ID", "driver_id", "ID do Motorista", "ID")
	cityField       = aliases("City Name", "city_name", "Cidade")
	driverNameField = aliases("Driver Name", "driver_name", "Nome")
	statusField     = aliases("Current Status", "Status Atual")
	ratingField     = aliases("Level/Star rating", "Avaliação")

	tripIDField     = aliases("Order ID", "order_id", "ID da Corrida", "ID")
	tripStatusField = aliases("Order status", "Status")
	// The two-space header is how the 99 export spells it and must stay first.
	distanceField = aliases("Charged  Distance", "Charged Distance", "Distance", "Distância", "Km")
	fareField     = aliases("Total fee", "fare", "Valor total")
	startField    = aliases("Departure Time", "Departure time", "Horário de partida", "Data")
	endField      = aliases("Order complete time", "Complete time", "Horário de chegada")
	dateField     = aliases("Departure Time", "Departure time", "Data")
	tripTypeField = aliases("Payment Type", "Tipo de pagamento")
)

// LocateSheet returns the first sheet found among names.
func LocateSheet(wb *Workbook, names ...string) (*Sheet, error) {
	for _, name := range names {
		if s, ok := wb.Sheet(name); ok {
			return s, nil
		}
	}
	expected := ""
	if len(names) > 0 {
		expected = names[0]
	}
	return nil, &domain.MissingSheetError{Sheet: expected}
}

// ExtractProfile maps the first row of the profile sheet. UserID is left to
// the caller.
func ExtractProfile(rows []Row) (domain.DriverProfile, error) {
	if len(rows) == 0 {
		return domain.DriverProfile{}, domain.ErrEmptyProfileData
	}
	r := rows[0]

	profile := domain.DriverProfile{
		DriverID:      strings.TrimSpace(driverIDField.text(r)),
		CityName:      cityField.text(r),
		DriverName:    driverNameField.text(r),
		CurrentStatus: statusField.text(r),
		StarRating:    ParseLocalizedNumber(ratingField.first(r)),
		AuditPassed:   true,
	}
	if profile.DriverID == "" {
		return domain.DriverProfile{}, domain.ErrMissingDriverID
	}
	if profile.CityName == "" {
		profile.CityName = defaultCity
	}
	if profile.CurrentStatus == "" {
		profile.CurrentStatus = defaultStatus
	}
	return profile, nil
}

// Extractor turns ledger rows into trips. Now and Loc are only consulted for
// rows without a usable date.
type Extractor struct {
	Now func() time.Time
	Loc *time.Location
}

func NewExtractor() *Extractor {
	return &Extractor{Now: time.Now, Loc: time.Local}
}

// Extract runs the whole pass over a workbook.
func (e *Extractor) Extract(wb *Workbook) (domain.DriverProfile, []domain.Trip, error) {
	profileSheet, err := LocateSheet(wb, ProfileSheets...)
	if err != nil {
		return domain.DriverProfile{}, nil, err
	}
	profile, err := ExtractProfile(profileSheet.Rows)
	if err != nil {
		return domain.DriverProfile{}, nil, err
	}

	ledger, err := LocateSheet(wb, LedgerSheets...)
	if err != nil {
		return domain.DriverProfile{}, nil, err
	}
	trips, err := e.ExtractTrips(ledger.Rows)
	if err != nil {
		return domain.DriverProfile{}, nil, err
	}
	return profile, trips, nil
}

// ExtractTrips keeps completed rows only, first occurrence per trip id, in
// ledger order.
func (e *Extractor) ExtractTrips(rows []Row) ([]domain.Trip, error) {
	loc := e.location()
	seen := make(map[string]struct{}, len(rows))
	trips := make([]domain.Trip, 0, len(rows))

	for idx, r := range rows {
		tripID := strings.TrimSpace(tripIDField.text(r))
		if tripID == "" {
			tripID = "AUTO_" + strconv.Itoa(idx)
		}
		if NormalizeStatus(tripStatusField.first(r)) != domain.TripCompleted {
			continue
		}
		if _, dup := seen[tripID]; dup {
			continue
		}
		seen[tripID] = struct{}{}

		trips = append(trips, e.mapTrip(tripID, r, loc))
	}

	if len(trips) == 0 {
		return nil, domain.ErrNoCompletedTrips
	}
	return trips, nil
}

func (e *Extractor) mapTrip(tripID string, r Row, loc *time.Location) domain.Trip {
	now := e.now().In(loc)

	tripDate, ok := parseTime(dateField.first(r), loc)
	if !ok {
		tripDate = now
	}
	// An undated row starts at import time. A start that is present but
	// unreadable is stored as midnight.
	startRaw := startField.first(r)
	startedAt, ok := parseTime(startRaw, loc)
	switch {
	case ok:
	case truthy(startRaw):
		startedAt = dateOf(tripDate)
	default:
		startedAt = tripDate
	}

	trip := domain.Trip{
		TripID:    tripID,
		Status:    domain.TripCompleted,
		TripDate:  dateOf(tripDate),
		StartedAt: startedAt,
		TripType:  tripTypeField.text(r),
	}
	if end, ok := parseTime(endField.first(r), loc); ok {
		trip.EndedAt = &end
	}
	if km, ok := distanceField.firstNumber(r); ok {
		trip.DistanceKm = &km
	}
	if trip.TripType == "" {
		trip.TripType = defaultTripType
	}

	// no fee model: net equals gross
	trip.FareGross = ParseLocalizedNumber(fareField.first(r))
	trip.FareNet = trip.FareGross
	return trip
}

func (e *Extractor) now() time.Time {
	if e.Now == nil {
		return time.Now()
	}
	return e.Now()
}

func (e *Extractor) location() *time.Location {
	if e.Loc == nil {
		return time.Local
	}
	return e.Loc
}
