package repo

import (
	"context"
	"fmt"
	"time"

	"github.com/euRhuanOLiveira/Driverpro/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

type TripRepo struct {
	db *pgxpool.Pool
}

func NewTripRepo(db *pgxpool.Pool) *TripRepo {
	return &TripRepo{db: db}
}

const upsertTripSQL = `
	INSERT INTO trips_99 (
		driver_profile_id, trip_id_99, trip_date, start_time, end_time,
		city_name, fare_gross, fare_net, distance_km, trip_type, trip_status
	) VALUES (
		$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11
	)
	ON CONFLICT (driver_profile_id, trip_id_99) DO UPDATE SET
		trip_date = EXCLUDED.trip_date,
		start_time = EXCLUDED.start_time,
		end_time = EXCLUDED.end_time,
		city_name = EXCLUDED.city_name,
		fare_gross = EXCLUDED.fare_gross,
		fare_net = EXCLUDED.fare_net,
		distance_km = EXCLUDED.distance_km,
		trip_type = EXCLUDED.trip_type,
		trip_status = EXCLUDED.trip_status`

// UpsertTrips writes every trip in one transaction. Re-importing the same
// file updates rows in place.
func (r *TripRepo) UpsertTrips(ctx context.Context, profileID uuid.UUID, city string, trips []domain.Trip) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	batch := &pgx.Batch{}
	for _, t := range trips {
		batch.Queue(upsertTripSQL,
			profileID, t.TripID, t.TripDate, clockTime(&t.StartedAt), clockTime(t.EndedAt),
			city, t.FareGross, t.FareNet, t.DistanceKm, t.TripType, t.Status,
		)
	}

	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("upsert trips: %w", err)
	}
	return tx.Commit(ctx)
}

// clockTime keeps the wall clock only; the table stores time of day. A zero
// time is midnight, nil is NULL.
func clockTime(t *time.Time) pgtype.Time {
	if t == nil {
		return pgtype.Time{}
	}
	h, m, s := t.Clock()
	us := int64(h)*int64(time.Hour/time.Microsecond) +
		int64(m)*int64(time.Minute/time.Microsecond) +
		int64(s)*int64(time.Second/time.Microsecond)
	return pgtype.Time{Microseconds: us, Valid: true}
}

// RecalculateDailyMetrics runs the daily rollup procedure for one profile.
func (r *TripRepo) RecalculateDailyMetrics(ctx context.Context, profileID uuid.UUID) error {
	_, err := r.db.Exec(ctx, `SELECT calculate_driver_daily_metrics_auto(p_driver_profile_id => $1)`, profileID)
	return err
}

func (r *TripRepo) GenerateInsights(ctx context.Context, profileID uuid.UUID) error {
	_, err := r.db.Exec(ctx, `SELECT generate_all_driver_insights(p_driver_profile_id => $1)`, profileID)
	return err
}
