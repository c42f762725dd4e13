package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/euRhuanOLiveira/Driverpro/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrDriverIDTaken = errors.New("driver id is linked to another account")

type ProfileRepo struct {
	db *pgxpool.Pool
}

func NewProfileRepo(db *pgxpool.Pool) *ProfileRepo {
	return &ProfileRepo{db: db}
}

const profileColumns = `
	id, user_id, driver_id_99, city_name,
	COALESCE(driver_name, '') AS driver_name,
	COALESCE(current_status, '') AS current_status,
	COALESCE(star_rating, 0)::float8 AS star_rating,
	COALESCE(audit_passed, false) AS audit_passed,
	COALESCE(vehicle_type, '') AS vehicle_type`

// UpsertProfile inserts or updates the profile keyed by driver_id_99 and
// fills profile.ID. Empty driver name or vehicle type keep the stored value.
// A driver id owned by another user is never taken over.
func (r *ProfileRepo) UpsertProfile(ctx context.Context, profile *domain.DriverProfile) error {
	rows, err := r.db.Query(ctx, `
		INSERT INTO driver_profiles (
			user_id, driver_id_99, city_name, driver_name,
			current_status, star_rating, audit_passed, vehicle_type
		) VALUES (
			$1, $2, $3, NULLIF($4, ''), $5, $6, $7, NULLIF($8, '')
		)
		ON CONFLICT (driver_id_99) DO UPDATE SET
			city_name = EXCLUDED.city_name,
			driver_name = COALESCE(EXCLUDED.driver_name, driver_profiles.driver_name),
			current_status = EXCLUDED.current_status,
			star_rating = EXCLUDED.star_rating,
			audit_passed = EXCLUDED.audit_passed,
			vehicle_type = COALESCE(EXCLUDED.vehicle_type, driver_profiles.vehicle_type)
		WHERE driver_profiles.user_id = EXCLUDED.user_id
		RETURNING `+profileColumns,
		profile.UserID, profile.DriverID, profile.CityName, profile.DriverName,
		profile.CurrentStatus, profile.StarRating, profile.AuditPassed, profile.VehicleType,
	)
	if err != nil {
		return err
	}

	saved, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[domain.DriverProfile])
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrDriverIDTaken
	}
	if err != nil {
		return fmt.Errorf("upsert driver profile: %w", err)
	}

	*profile = saved
	return nil
}

// GetProfileByUser returns domain.ErrProfileNotFound when the user has not
// imported or onboarded yet.
func (r *ProfileRepo) GetProfileByUser(ctx context.Context, userID string) (*domain.DriverProfile, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+profileColumns+`
		FROM driver_profiles
		WHERE user_id = $1
		LIMIT 1
	`, userID)
	if err != nil {
		return nil, err
	}

	profile, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[domain.DriverProfile])
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrProfileNotFound
	}
	if err != nil {
		return nil, err
	}
	return &profile, nil
}
