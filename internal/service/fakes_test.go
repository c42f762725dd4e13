package service

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/euRhuanOLiveira/Driverpro/internal/domain"
	"github.com/google/uuid"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakeProfiles struct {
	mu       sync.Mutex
	byDriver map[string]domain.DriverProfile
	err      error
	getErr   error
}

func newFakeProfiles() *fakeProfiles {
	return &fakeProfiles{byDriver: map[string]domain.DriverProfile{}}
}

func (f *fakeProfiles) UpsertProfile(_ context.Context, p *domain.DriverProfile) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	if existing, ok := f.byDriver[p.DriverID]; ok {
		p.ID = existing.ID
	} else {
		p.ID = uuid.New()
	}
	f.byDriver[p.DriverID] = *p
	return nil
}

func (f *fakeProfiles) GetProfileByUser(_ context.Context, userID string) (*domain.DriverProfile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	for _, p := range f.byDriver {
		if p.UserID == userID {
			return &p, nil
		}
	}
	return nil, domain.ErrProfileNotFound
}

type tripKey struct {
	profile uuid.UUID
	trip    string
}

type fakeTrips struct {
	mu         sync.Mutex
	rows       map[tripKey]domain.Trip
	upsertErr  error
	rollupErr  error
	insightErr error
	rollups    int
	insights   int

	// when set, UpsertTrips signals started and waits for release
	started chan struct{}
	release chan struct{}
}

func newFakeTrips() *fakeTrips {
	return &fakeTrips{rows: map[tripKey]domain.Trip{}}
}

func (f *fakeTrips) UpsertTrips(_ context.Context, profileID uuid.UUID, _ string, trips []domain.Trip) error {
	if f.started != nil {
		f.started <- struct{}{}
		<-f.release
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.upsertErr != nil {
		return f.upsertErr
	}
	for _, t := range trips {
		f.rows[tripKey{profileID, t.TripID}] = t
	}
	return nil
}

func (f *fakeTrips) RecalculateDailyMetrics(context.Context, uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rollups++
	return f.rollupErr
}

func (f *fakeTrips) GenerateInsights(context.Context, uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.insights++
	return f.insightErr
}

func (f *fakeTrips) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.rows)
}

type fakePublisher struct {
	mu     sync.Mutex
	events []domain.ImportEvent
	err    error
}

func (f *fakePublisher) PublishImportCompleted(_ context.Context, e domain.ImportEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, e)
	return f.err
}

// fakeReader serves fixed values; errs is keyed by method name.
type fakeReader struct {
	calls atomic.Int32

	insights       []domain.Insight
	city           *domain.CityRanking
	anyCity        *domain.CityRanking
	hourlyRankings []domain.HourlyRanking
	hourly         []domain.HourlyEarnings
	daily          []domain.DailyMetric
	dailyLimit     int
	fuel           *domain.FuelCostPerKm
	avgKm          *float64
	avgDuration    *float64
	classification *domain.TripClassification
	weekday        []domain.WeekdayEarnings
	errs           map[string]error
}

func (f *fakeReader) err(name string) error {
	f.calls.Add(1)
	return f.errs[name]
}

func (f *fakeReader) Insights(context.Context, uuid.UUID) ([]domain.Insight, error) {
	if err := f.err("Insights"); err != nil {
		return nil, err
	}
	return f.insights, nil
}

func (f *fakeReader) CityRanking(context.Context, string) (*domain.CityRanking, error) {
	if err := f.err("CityRanking"); err != nil {
		return nil, err
	}
	return f.city, nil
}

func (f *fakeReader) AnyCityRanking(context.Context) (*domain.CityRanking, error) {
	if err := f.err("AnyCityRanking"); err != nil {
		return nil, err
	}
	return f.anyCity, nil
}

func (f *fakeReader) HourlyRankings(context.Context) ([]domain.HourlyRanking, error) {
	if err := f.err("HourlyRankings"); err != nil {
		return nil, err
	}
	return f.hourlyRankings, nil
}

func (f *fakeReader) HourlyEarnings(context.Context, uuid.UUID) ([]domain.HourlyEarnings, error) {
	if err := f.err("HourlyEarnings"); err != nil {
		return nil, err
	}
	return f.hourly, nil
}

func (f *fakeReader) DailyMetrics(_ context.Context, _ uuid.UUID, limit int) ([]domain.DailyMetric, error) {
	f.dailyLimit = limit
	if err := f.err("DailyMetrics"); err != nil {
		return nil, err
	}
	return f.daily, nil
}

func (f *fakeReader) FuelCosts(context.Context) (*domain.FuelCostPerKm, error) {
	if err := f.err("FuelCosts"); err != nil {
		return nil, err
	}
	return f.fuel, nil
}

func (f *fakeReader) AvgValuePerKm(context.Context, uuid.UUID) (*float64, error) {
	if err := f.err("AvgValuePerKm"); err != nil {
		return nil, err
	}
	return f.avgKm, nil
}

func (f *fakeReader) AvgTripDuration(context.Context, uuid.UUID) (*float64, error) {
	if err := f.err("AvgTripDuration"); err != nil {
		return nil, err
	}
	return f.avgDuration, nil
}

func (f *fakeReader) TripClassification(context.Context, uuid.UUID) (*domain.TripClassification, error) {
	if err := f.err("TripClassification"); err != nil {
		return nil, err
	}
	return f.classification, nil
}

func (f *fakeReader) WeekdayEarnings(context.Context, uuid.UUID) ([]domain.WeekdayEarnings, error) {
	if err := f.err("WeekdayEarnings"); err != nil {
		return nil, err
	}
	return f.weekday, nil
}

type fakeGenerator struct {
	answer string
	err    error

	system string
	prompt string
}

func (f *fakeGenerator) Generate(_ context.Context, system, prompt string) (string, error) {
	f.system = system
	f.prompt = prompt
	return f.answer, f.err
}

type fakePusher struct {
	mu   sync.Mutex
	sent map[string][]any
}

func (f *fakePusher) Push(userID string, msg any) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.sent == nil {
		f.sent = map[string][]any{}
	}
	f.sent[userID] = append(f.sent[userID], msg)
	return 1
}
