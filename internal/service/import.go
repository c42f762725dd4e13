package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/euRhuanOLiveira/Driverpro/internal/domain"
	"github.com/euRhuanOLiveira/Driverpro/internal/importer"
	"github.com/google/uuid"
)

type ProfileStore interface {
	UpsertProfile(ctx context.Context, profile *domain.DriverProfile) error
	GetProfileByUser(ctx context.Context, userID string) (*domain.DriverProfile, error)
}

type TripStore interface {
	UpsertTrips(ctx context.Context, profileID uuid.UUID, city string, trips []domain.Trip) error
	RecalculateDailyMetrics(ctx context.Context, profileID uuid.UUID) error
	GenerateInsights(ctx context.Context, profileID uuid.UUID) error
}

type EventPublisher interface {
	PublishImportCompleted(ctx context.Context, event domain.ImportEvent) error
}

type ImportService struct {
	slogger   *slog.Logger
	profiles  ProfileStore
	trips     TripStore
	events    EventPublisher
	extractor *importer.Extractor

	// user id -> struct{} while an upload is being processed
	inFlight sync.Map
}

// NewImportService accepts a nil publisher; imports then complete without
// notifying anyone.
func NewImportService(slogger *slog.Logger, profiles ProfileStore, trips TripStore, events EventPublisher, extractor *importer.Extractor) *ImportService {
	if extractor == nil {
		extractor = importer.NewExtractor()
	}
	return &ImportService{
		slogger:   slogger,
		profiles:  profiles,
		trips:     trips,
		events:    events,
		extractor: extractor,
	}
}

// Import decodes an uploaded workbook, extracts it and stores the result the
// same way ImportWorkbook does.
func (s *ImportService) Import(ctx context.Context, session *domain.Session, file io.Reader, filename string) (*domain.ImportResult, error) {
	if !session.Active() {
		return nil, domain.ErrUnauthenticated
	}
	release, err := s.acquire(session.UserID)
	if err != nil {
		return nil, err
	}
	defer release()

	wb, err := importer.ReadWorkbook(file, filename)
	if err != nil {
		s.slogger.Warn("cannot read workbook", "action", "import", "user_id", session.UserID, "file", filename, "error", err)
		return nil, err
	}
	return s.store(ctx, session, wb)
}

// ImportWorkbook runs extraction and the upsert boundary on an already
// decoded workbook.
func (s *ImportService) ImportWorkbook(ctx context.Context, session *domain.Session, wb *importer.Workbook) (*domain.ImportResult, error) {
	if !session.Active() {
		return nil, domain.ErrUnauthenticated
	}
	release, err := s.acquire(session.UserID)
	if err != nil {
		return nil, err
	}
	defer release()

	return s.store(ctx, session, wb)
}

func (s *ImportService) acquire(userID string) (func(), error) {
	if _, busy := s.inFlight.LoadOrStore(userID, struct{}{}); busy {
		return nil, domain.ErrImportInProgress
	}
	return func() { s.inFlight.Delete(userID) }, nil
}

func (s *ImportService) store(ctx context.Context, session *domain.Session, wb *importer.Workbook) (*domain.ImportResult, error) {
	profile, trips, err := s.extractor.Extract(wb)
	if err != nil {
		s.slogger.Warn("workbook rejected", "action", "import", "user_id", session.UserID, "error", err)
		return nil, err
	}
	profile.UserID = session.UserID

	if err := s.profiles.UpsertProfile(ctx, &profile); err != nil {
		s.slogger.Error("cannot save profile", "action", "import", "user_id", session.UserID, "driver_id", profile.DriverID, "error", err)
		return nil, &domain.ImportError{Stage: "Erro ao salvar perfil", Err: err}
	}

	if err := s.trips.UpsertTrips(ctx, profile.ID, profile.CityName, trips); err != nil {
		s.slogger.Error("cannot save trips", "action", "import", "profile_id", profile.ID, "trips", len(trips), "error", err)
		return nil, &domain.ImportError{Stage: "Erro ao inserir corridas", Err: err}
	}

	// rollup failures are logged only, the trips are already stored
	if err := s.trips.RecalculateDailyMetrics(ctx, profile.ID); err != nil {
		s.slogger.Error("daily metrics rollup failed", "action", "import", "profile_id", profile.ID, "error", err)
	}
	if err := s.trips.GenerateInsights(ctx, profile.ID); err != nil {
		s.slogger.Error("insight generation failed", "action", "import", "profile_id", profile.ID, "error", err)
	}

	result := &domain.ImportResult{
		ProfileID:     profile.ID,
		DriverID:      profile.DriverID,
		CityName:      profile.CityName,
		TripsImported: len(trips),
	}
	s.slogger.Info("import finished", "action", "import", "profile_id", profile.ID, "driver_id", profile.DriverID, "trips", len(trips))

	s.publish(ctx, session, result)
	return result, nil
}

func (s *ImportService) publish(ctx context.Context, session *domain.Session, result *domain.ImportResult) {
	if s.events == nil {
		return
	}
	event := domain.ImportEvent{
		UserID:        session.UserID,
		ProfileID:     result.ProfileID,
		DriverID:      result.DriverID,
		TripsImported: result.TripsImported,
		ImportedAt:    time.Now().UTC(),
	}
	if err := s.events.PublishImportCompleted(ctx, event); err != nil {
		s.slogger.Warn("cannot publish import event", "action", "import", "profile_id", result.ProfileID, "error", err)
	}
}

var validVehicles = map[string]bool{"": true, domain.VehicleCar: true, domain.VehicleMoto: true}

var ErrInvalidProfileForm = errors.New("Preencha o ID 99 e a cidade.")

// CreateProfile is the onboarding path for drivers without an export yet.
func (s *ImportService) CreateProfile(ctx context.Context, session *domain.Session, form domain.ProfileForm) (*domain.DriverProfile, error) {
	if !session.Active() {
		return nil, domain.ErrUnauthenticated
	}

	profile := domain.DriverProfile{
		UserID:        session.UserID,
		DriverID:      strings.TrimSpace(form.DriverID),
		CityName:      strings.TrimSpace(form.CityName),
		DriverName:    strings.TrimSpace(form.DriverName),
		VehicleType:   form.VehicleType,
		CurrentStatus: "Ativo",
		StarRating:    5,
		AuditPassed:   true,
	}
	if profile.DriverID == "" || profile.CityName == "" || !validVehicles[profile.VehicleType] {
		return nil, ErrInvalidProfileForm
	}

	if err := s.profiles.UpsertProfile(ctx, &profile); err != nil {
		s.slogger.Error("cannot create profile", "action", "create profile", "user_id", session.UserID, "error", err)
		return nil, err
	}
	s.slogger.Info("profile created", "action", "create profile", "profile_id", profile.ID)
	return &profile, nil
}
