package service

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/euRhuanOLiveira/Driverpro/internal/domain"
	"github.com/euRhuanOLiveira/Driverpro/internal/metrics"
	"github.com/google/uuid"
)

const dailyWindow = 30

type DashboardReader interface {
	Insights(ctx context.Context, profileID uuid.UUID) ([]domain.Insight, error)
	CityRanking(ctx context.Context, city string) (*domain.CityRanking, error)
	AnyCityRanking(ctx context.Context) (*domain.CityRanking, error)
	HourlyRankings(ctx context.Context) ([]domain.HourlyRanking, error)
	HourlyEarnings(ctx context.Context, profileID uuid.UUID) ([]domain.HourlyEarnings, error)
	DailyMetrics(ctx context.Context, profileID uuid.UUID, limit int) ([]domain.DailyMetric, error)
	FuelCosts(ctx context.Context) (*domain.FuelCostPerKm, error)
	AvgValuePerKm(ctx context.Context, profileID uuid.UUID) (*float64, error)
	AvgTripDuration(ctx context.Context, profileID uuid.UUID) (*float64, error)
	TripClassification(ctx context.Context, profileID uuid.UUID) (*domain.TripClassification, error)
	WeekdayEarnings(ctx context.Context, profileID uuid.UUID) ([]domain.WeekdayEarnings, error)
}

type DashboardService struct {
	slogger  *slog.Logger
	profiles ProfileStore
	reader   DashboardReader
}

func NewDashboardService(slogger *slog.Logger, profiles ProfileStore, reader DashboardReader) *DashboardService {
	return &DashboardService{
		slogger:  slogger,
		profiles: profiles,
		reader:   reader,
	}
}

// Load reads everything for the session's driver and derives the KPIs.
func (s *DashboardService) Load(ctx context.Context, session *domain.Session) (*domain.Dashboard, error) {
	data, err := s.Fetch(ctx, session)
	if err != nil {
		return nil, err
	}

	kpis := metrics.DeriveKPIs(data.DailyMetrics, metrics.OverridesFrom(data), data.HourlyEarnings)
	dash := &domain.Dashboard{
		State:      domain.DashboardReady,
		Data:       data,
		KPIs:       kpis,
		Series:     metrics.DeriveTimeSeries(data.DailyMetrics),
		Comparison: metrics.CompareWithCity(kpis, &data.CityRanking),
	}
	if data.Profile.ID == uuid.Nil {
		dash.State = domain.DashboardEmpty
	}

	session.MarkLoaded()
	return dash, nil
}

// EmptyDashboard is what a failed fetch degrades to.
func EmptyDashboard() *domain.Dashboard {
	return &domain.Dashboard{
		State:      domain.DashboardEmpty,
		Series:     []domain.SeriesPoint{},
		Comparison: []domain.Comparison{},
	}
}

// Fetch runs every read concurrently. A failed read leaves its part empty;
// only a failed profile lookup fails the whole fetch.
func (s *DashboardService) Fetch(ctx context.Context, session *domain.Session) (*domain.DashboardData, error) {
	if !session.Active() {
		return nil, domain.ErrUnauthenticated
	}

	profile, err := s.profiles.GetProfileByUser(ctx, session.UserID)
	if errors.Is(err, domain.ErrProfileNotFound) {
		return domain.EmptyDashboardData(session.UserID), nil
	}
	if err != nil {
		s.slogger.Error("cannot load profile", "action", "load dashboard", "user_id", session.UserID, "error", err)
		return nil, &domain.FetchError{Op: "driver profile", Err: err}
	}

	data := domain.EmptyDashboardData(session.UserID)
	data.Profile = *profile
	id := profile.ID

	s.fanOut(ctx, id, []readTask{
		{"driver_insights_view", func(ctx context.Context) (err error) {
			data.Insights, err = orEmpty(s.reader.Insights(ctx, id))
			return err
		}},
		{"city_rankings_view", func(ctx context.Context) error {
			city, err := s.cityRanking(ctx, profile.CityName)
			data.CityRanking = city
			return err
		}},
		{"hourly_rankings_view", func(ctx context.Context) (err error) {
			data.HourlyRankings, err = orEmpty(s.reader.HourlyRankings(ctx))
			return err
		}},
		{"driver_hourly_earnings", func(ctx context.Context) (err error) {
			data.HourlyEarnings, err = orEmpty(s.reader.HourlyEarnings(ctx, id))
			return err
		}},
		{"driver_daily_dashboard", func(ctx context.Context) (err error) {
			data.DailyMetrics, err = orEmpty(s.reader.DailyMetrics(ctx, id, dailyWindow))
			return err
		}},
		{"fuel_cost_per_km", func(ctx context.Context) (err error) {
			data.FuelCosts, err = s.reader.FuelCosts(ctx)
			return err
		}},
		{"driver_avg_value_per_km", func(ctx context.Context) (err error) {
			data.AvgValuePerKm, err = s.reader.AvgValuePerKm(ctx, id)
			return err
		}},
		{"driver_avg_trip_duration", func(ctx context.Context) (err error) {
			data.AvgTripDuration, err = s.reader.AvgTripDuration(ctx, id)
			return err
		}},
		{"driver_trip_value_classification", func(ctx context.Context) (err error) {
			data.TripClassification, err = s.reader.TripClassification(ctx, id)
			return err
		}},
		{"driver_weekday_earnings_view", func(ctx context.Context) (err error) {
			data.WeekdayEarnings, err = orEmpty(s.reader.WeekdayEarnings(ctx, id))
			return err
		}},
	})

	return data, nil
}

type readTask struct {
	view string
	run  func(ctx context.Context) error
}

// fanOut waits for every task. Each task owns one field of the result.
func (s *DashboardService) fanOut(ctx context.Context, profileID uuid.UUID, tasks []readTask) {
	var wg sync.WaitGroup
	for _, t := range tasks {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := t.run(ctx); err != nil {
				s.slogger.Warn("dashboard read failed", "action", "load dashboard", "view", t.view, "profile_id", profileID, "error", err)
			}
		}()
	}
	wg.Wait()
}

// cityRanking tries the driver's city, then any city, then a zero row.
func (s *DashboardService) cityRanking(ctx context.Context, city string) (domain.CityRanking, error) {
	match, errMatch := s.reader.CityRanking(ctx, city)
	if errMatch == nil && match != nil {
		return *match, nil
	}

	first, errAny := s.reader.AnyCityRanking(ctx)
	if errAny == nil && first != nil {
		return *first, errMatch
	}
	return domain.DefaultCityRanking(city), errors.Join(errMatch, errAny)
}

func orEmpty[T any](rows []T, err error) ([]T, error) {
	if err != nil || rows == nil {
		return []T{}, err
	}
	return rows, nil
}
