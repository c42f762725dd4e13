package repo

import (
	"context"
	"errors"

	"github.com/euRhuanOLiveira/Driverpro/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DashboardRepo reads the views the stored procedures maintain. Optional
// single-row views return nil, nil when empty.
type DashboardRepo struct {
	db *pgxpool.Pool
}

func NewDashboardRepo(db *pgxpool.Pool) *DashboardRepo {
	return &DashboardRepo{db: db}
}

func (r *DashboardRepo) Insights(ctx context.Context, profileID uuid.UUID) ([]domain.Insight, error) {
	rows, err := r.db.Query(ctx, `
		SELECT
			COALESCE(insight_type, '') AS insight_type,
			COALESCE(insight_title, '') AS insight_title,
			COALESCE(insight_description, '') AS insight_description,
			COALESCE(metric_value, 0)::float8 AS metric_value,
			COALESCE(metric_unit, '') AS metric_unit
		FROM driver_insights_view
		WHERE driver_profile_id = $1
	`, profileID)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToStructByName[domain.Insight])
}

const cityRankingColumns = `
	city_name,
	COALESCE(state, '') AS state,
	COALESCE(avg_net_per_hour, 0)::float8 AS avg_net_per_hour,
	COALESCE(avg_net_per_trip, 0)::float8 AS avg_net_per_trip,
	COALESCE(avg_net_per_km, 0)::float8 AS avg_net_per_km,
	COALESCE(total_drivers, 0)::int AS total_drivers`

// CityRanking matches the city name case-insensitively.
func (r *DashboardRepo) CityRanking(ctx context.Context, city string) (*domain.CityRanking, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+cityRankingColumns+`
		FROM city_rankings_view
		WHERE lower(city_name) = lower($1)
		LIMIT 1
	`, city)
	if err != nil {
		return nil, err
	}
	return optionalRow(pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[domain.CityRanking]))
}

// AnyCityRanking is the global fallback row.
func (r *DashboardRepo) AnyCityRanking(ctx context.Context) (*domain.CityRanking, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+cityRankingColumns+`
		FROM city_rankings_view
		LIMIT 1
	`)
	if err != nil {
		return nil, err
	}
	return optionalRow(pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[domain.CityRanking]))
}

func (r *DashboardRepo) HourlyRankings(ctx context.Context) ([]domain.HourlyRanking, error) {
	rows, err := r.db.Query(ctx, `
		SELECT
			COALESCE(city_name, '') AS city_name,
			COALESCE(hour_start, 0)::int AS hour_start,
			COALESCE(hour_end, 0)::int AS hour_end,
			COALESCE(hour_range, '') AS hour_range,
			COALESCE(avg_net_per_hour, 0)::float8 AS avg_net_per_hour,
			COALESCE(avg_net_per_trip, 0)::float8 AS avg_net_per_trip,
			COALESCE(total_trips, 0)::int AS total_trips
		FROM hourly_rankings_view
		ORDER BY hour_range ASC
	`)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToStructByName[domain.HourlyRanking])
}

func (r *DashboardRepo) HourlyEarnings(ctx context.Context, profileID uuid.UUID) ([]domain.HourlyEarnings, error) {
	rows, err := r.db.Query(ctx, `
		SELECT
			COALESCE(hour, 0)::int AS hour,
			COALESCE(period, '') AS period,
			COALESCE(hour_label, '') AS hour_label,
			COALESCE(total_trips, 0)::int AS total_trips,
			COALESCE(total_net, 0)::float8 AS total_net
		FROM driver_hourly_earnings
		WHERE driver_profile_id = $1
		ORDER BY hour ASC
	`, profileID)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToStructByName[domain.HourlyEarnings])
}

// DailyMetrics returns the most recent days first.
func (r *DashboardRepo) DailyMetrics(ctx context.Context, profileID uuid.UUID, limit int) ([]domain.DailyMetric, error) {
	rows, err := r.db.Query(ctx, `
		SELECT
			date,
			COALESCE(total_trips, 0)::int AS total_trips,
			COALESCE(total_net, 0)::float8 AS total_net,
			COALESCE(total_hours_worked, 0)::float8 AS total_hours_worked,
			COALESCE(avg_net_per_hour, 0)::float8 AS avg_net_per_hour,
			COALESCE(avg_net_per_trip, 0)::float8 AS avg_net_per_trip,
			COALESCE(avg_net_per_km, 0)::float8 AS avg_net_per_km
		FROM driver_daily_dashboard
		WHERE driver_profile_id = $1
		ORDER BY date DESC
		LIMIT $2
	`, profileID, limit)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToStructByName[domain.DailyMetric])
}

func (r *DashboardRepo) FuelCosts(ctx context.Context) (*domain.FuelCostPerKm, error) {
	fc := new(domain.FuelCostPerKm)
	err := r.db.QueryRow(ctx, `
		SELECT
			COALESCE(car_cost_per_km, 0)::float8,
			COALESCE(moto_cost_per_km, 0)::float8
		FROM fuel_cost_per_km
		LIMIT 1
	`).Scan(&fc.CarCostPerKm, &fc.MotoCostPerKm)
	return optionalRow(*fc, err)
}

func (r *DashboardRepo) AvgValuePerKm(ctx context.Context, profileID uuid.UUID) (*float64, error) {
	return r.scalar(ctx, `
		SELECT avg_value_per_km::float8
		FROM driver_avg_value_per_km
		WHERE driver_profile_id = $1
		LIMIT 1
	`, profileID)
}

func (r *DashboardRepo) AvgTripDuration(ctx context.Context, profileID uuid.UUID) (*float64, error) {
	return r.scalar(ctx, `
		SELECT avg_trip_duration_minutes::float8
		FROM driver_avg_trip_duration
		WHERE driver_profile_id = $1
		LIMIT 1
	`, profileID)
}

func (r *DashboardRepo) TripClassification(ctx context.Context, profileID uuid.UUID) (*domain.TripClassification, error) {
	c := new(domain.TripClassification)
	err := r.db.QueryRow(ctx, `
		SELECT
			COALESCE(good_trips, 0)::int,
			COALESCE(bad_trips, 0)::int
		FROM driver_trip_value_classification
		WHERE driver_profile_id = $1
		LIMIT 1
	`, profileID).Scan(&c.GoodTrips, &c.BadTrips)
	return optionalRow(*c, err)
}

func (r *DashboardRepo) WeekdayEarnings(ctx context.Context, profileID uuid.UUID) ([]domain.WeekdayEarnings, error) {
	rows, err := r.db.Query(ctx, `
		SELECT
			COALESCE(weekday_index, 0)::int AS weekday_index,
			COALESCE(weekday_name, '') AS weekday_name,
			COALESCE(avg_net, 0)::float8 AS avg_net
		FROM driver_weekday_earnings_view
		WHERE driver_profile_id = $1
		ORDER BY weekday_index ASC
	`, profileID)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToStructByName[domain.WeekdayEarnings])
}

// scalar reads one nullable number; a missing row and a NULL both give nil.
func (r *DashboardRepo) scalar(ctx context.Context, sql string, args ...any) (*float64, error) {
	var v *float64
	err := r.db.QueryRow(ctx, sql, args...).Scan(&v)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return v, err
}

func optionalRow[T any](v T, err error) (*T, error) {
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &v, nil
}
