package domain

import "time"

type DailyMetric struct {
	Date             time.Time `json:"date" db:"date"`
	TotalTrips       int       `json:"total_trips" db:"total_trips"`
	TotalNet         float64   `json:"total_net" db:"total_net"`
	TotalHoursWorked float64   `json:"total_hours_worked" db:"total_hours_worked"`
	AvgNetPerHour    float64   `json:"avg_net_per_hour" db:"avg_net_per_hour"`
	AvgNetPerTrip    float64   `json:"avg_net_per_trip" db:"avg_net_per_trip"`
	AvgNetPerKm      float64   `json:"avg_net_per_km" db:"avg_net_per_km"`
}

type Insight struct {
	Type        string  `json:"insight_type" db:"insight_type"`
	Title       string  `json:"insight_title" db:"insight_title"`
	Description string  `json:"insight_description" db:"insight_description"`
	MetricValue float64 `json:"metric_value" db:"metric_value"`
	MetricUnit  string  `json:"metric_unit" db:"metric_unit"`
}

type CityRanking struct {
	CityName      string  `json:"city_name" db:"city_name"`
	State         string  `json:"state" db:"state"`
	AvgNetPerHour float64 `json:"avg_net_per_hour" db:"avg_net_per_hour"`
	AvgNetPerTrip float64 `json:"avg_net_per_trip" db:"avg_net_per_trip"`
	AvgNetPerKm   float64 `json:"avg_net_per_km" db:"avg_net_per_km"`
	TotalDrivers  int     `json:"total_drivers" db:"total_drivers"`
}

// DefaultCityRanking is the zero benchmark used when the store has no
// ranking row at all.
func DefaultCityRanking(city string) CityRanking {
	if city == "" {
		city = "Geral"
	}
	return CityRanking{CityName: city}
}

type HourlyRanking struct {
	CityName      string  `json:"city_name" db:"city_name"`
	HourStart     int     `json:"hour_start" db:"hour_start"`
	HourEnd       int     `json:"hour_end" db:"hour_end"`
	HourRange     string  `json:"hour_range" db:"hour_range"`
	AvgNetPerHour float64 `json:"avg_net_per_hour" db:"avg_net_per_hour"`
	AvgNetPerTrip float64 `json:"avg_net_per_trip" db:"avg_net_per_trip"`
	TotalTrips    int     `json:"total_trips" db:"total_trips"`
}

type HourlyEarnings struct {
	Hour       int     `json:"hour" db:"hour"`
	Period     string  `json:"period" db:"period"`
	HourLabel  string  `json:"hour_label" db:"hour_label"`
	TotalTrips int     `json:"total_trips" db:"total_trips"`
	TotalNet   float64 `json:"total_net" db:"total_net"`
}

type WeekdayEarnings struct {
	WeekdayIndex int     `json:"weekday_index" db:"weekday_index"`
	WeekdayName  string  `json:"weekday_name" db:"weekday_name"`
	AvgNet       float64 `json:"avg_net" db:"avg_net"`
}

type FuelCostPerKm struct {
	CarCostPerKm  float64 `json:"car_cost_per_km"`
	MotoCostPerKm float64 `json:"moto_cost_per_km"`
}

type TripClassification struct {
	GoodTrips int `json:"good_trips"`
	BadTrips  int `json:"bad_trips"`
}

// DashboardData is everything the read boundary returns for one driver.
// Optional views stay nil when the store has nothing for them.
type DashboardData struct {
	Profile            DriverProfile       `json:"profile"`
	Insights           []Insight           `json:"insights"`
	CityRanking        CityRanking         `json:"city_rankings"`
	HourlyRankings     []HourlyRanking     `json:"hourly_rankings"`
	HourlyEarnings     []HourlyEarnings    `json:"hourly_earnings"`
	DailyMetrics       []DailyMetric       `json:"daily_metrics"`
	FuelCosts          *FuelCostPerKm      `json:"fuel_costs,omitempty"`
	AvgValuePerKm      *float64            `json:"avg_value_km,omitempty"`
	AvgTripDuration    *float64            `json:"avg_duration,omitempty"`
	TripClassification *TripClassification `json:"trip_classification,omitempty"`
	WeekdayEarnings    []WeekdayEarnings   `json:"weekday_earnings"`
}

// EmptyDashboardData is what a driver without a stored profile sees.
func EmptyDashboardData(userID string) *DashboardData {
	return &DashboardData{
		Profile:         PlaceholderProfile(userID),
		Insights:        []Insight{},
		CityRanking:     DefaultCityRanking(""),
		HourlyRankings:  []HourlyRanking{},
		HourlyEarnings:  []HourlyEarnings{},
		DailyMetrics:    []DailyMetric{},
		WeekdayEarnings: []WeekdayEarnings{},
	}
}

type KPISet struct {
	TotalNet         float64 `json:"total_net"`
	TotalTrips       int     `json:"total_trips"`
	AvgNetPerHour    float64 `json:"avg_net_per_hour"`
	AvgNetPerTrip    float64 `json:"avg_net_per_trip"`
	AvgValueKm       float64 `json:"avg_value_km"`
	AvgDuration      float64 `json:"avg_duration"`
	GoodTripsPercent float64 `json:"good_trips_percent"`
	BestHour         string  `json:"best_hour"`
}

type SeriesPoint struct {
	Date          time.Time `json:"date"`
	Label         string    `json:"label"`
	TotalNet      float64   `json:"total_net"`
	AvgNetPerHour float64   `json:"avg_net_per_hour"`
}

type Comparison struct {
	Name   string  `json:"name"`
	Driver float64 `json:"driver"`
	City   float64 `json:"city"`
}

// Dashboard is the payload behind GET /dashboard and the websocket refresh.
type Dashboard struct {
	State      string         `json:"state"`
	Data       *DashboardData `json:"data,omitempty"`
	KPIs       *KPISet        `json:"kpis"`
	Series     []SeriesPoint  `json:"series"`
	Comparison []Comparison   `json:"comparison"`
}

const (
	DashboardReady = "ready"
	DashboardEmpty = "empty"
)

const RefreshMessageType = "dashboard.refresh"

// RefreshMessage is pushed to connected dashboards after an import.
type RefreshMessage struct {
	Type      string      `json:"type"`
	Import    ImportEvent `json:"import"`
	Dashboard *Dashboard  `json:"dashboard"`
}
