package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/euRhuanOLiveira/Driverpro/internal/domain"
	"github.com/euRhuanOLiveira/Driverpro/internal/identity"
	"github.com/euRhuanOLiveira/Driverpro/internal/metrics"
	"github.com/euRhuanOLiveira/Driverpro/internal/service"
)

const multipartMemory = 8 << 20

type Authenticator interface {
	SignIn(ctx context.Context, cred identity.Credentials) (*identity.Tokens, error)
	SignUp(ctx context.Context, cred identity.Credentials) (*identity.Tokens, error)
}

type Importer interface {
	Import(ctx context.Context, session *domain.Session, file io.Reader, filename string) (*domain.ImportResult, error)
	CreateProfile(ctx context.Context, session *domain.Session, form domain.ProfileForm) (*domain.DriverProfile, error)
}

type DashboardLoader interface {
	Load(ctx context.Context, session *domain.Session) (*domain.Dashboard, error)
}

type Asker interface {
	Ask(ctx context.Context, session *domain.Session, question string) string
}

type Deps struct {
	Auth        Authenticator
	Imports     Importer
	Dashboards  DashboardLoader
	Assistant   Asker
	MaxUploadMB int64
}

type dashboardServer struct {
	srv http.Server
}

func NewDashboardServer(slogger *slog.Logger, port uint16, sec string, deps Deps) *dashboardServer {
	return &dashboardServer{
		srv: http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: NewHandler(slogger, []byte(sec), deps),
		},
	}
}

func NewHandler(slogger *slog.Logger, secret []byte, deps Deps) http.Handler {
	if deps.MaxUploadMB <= 0 {
		deps.MaxUploadMB = 10
	}
	mux := http.NewServeMux()
	hand := &dashboardHandler{slogger: slogger, deps: deps}
	auth := func(h http.HandlerFunc) http.Handler { return authMiddleware(h, secret) }

	mux.HandleFunc("POST /auth/login", hand.login)
	mux.HandleFunc("POST /auth/register", hand.register)
	mux.HandleFunc("POST /simulations", hand.simulate)
	mux.Handle("POST /profiles", auth(hand.createProfile))
	mux.Handle("POST /imports", auth(hand.importWorkbook))
	mux.Handle("GET /dashboard", auth(hand.dashboard))
	mux.Handle("POST /assistant/questions", auth(hand.ask))
	return logMiddleware(mux, slogger)
}

func (s *dashboardServer) StartServer() error {
	return s.srv.ListenAndServe()
}

func (s *dashboardServer) ShutDownServer(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}

type dashboardHandler struct {
	slogger *slog.Logger
	deps    Deps
}

func (h *dashboardHandler) login(w http.ResponseWriter, r *http.Request) {
	cred := new(identity.Credentials)
	err := json.NewDecoder(r.Body).Decode(cred)
	if err != nil {
		errorWrite(w, http.StatusBadRequest, err)
		return
	}
	err = validateCredentials(cred)
	if err != nil {
		errorWrite(w, http.StatusBadRequest, err)
		return
	}
	tokens, err := h.deps.Auth.SignIn(r.Context(), *cred)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	jsonWrite(w, http.StatusOK, tokens)
}

func (h *dashboardHandler) register(w http.ResponseWriter, r *http.Request) {
	cred := new(identity.Credentials)
	err := json.NewDecoder(r.Body).Decode(cred)
	if err != nil {
		errorWrite(w, http.StatusBadRequest, err)
		return
	}
	err = validateCredentials(cred)
	if err != nil {
		errorWrite(w, http.StatusBadRequest, err)
		return
	}
	tokens, err := h.deps.Auth.SignUp(r.Context(), *cred)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	jsonWrite(w, http.StatusCreated, tokens)
}

func (h *dashboardHandler) simulate(w http.ResponseWriter, r *http.Request) {
	req := new(domain.TripSimulation)
	err := json.NewDecoder(r.Body).Decode(req)
	if err != nil {
		errorWrite(w, http.StatusBadRequest, err)
		return
	}
	res, err := metrics.Simulate(*req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	jsonWrite(w, http.StatusOK, res)
}

func (h *dashboardHandler) createProfile(w http.ResponseWriter, r *http.Request) {
	form := new(domain.ProfileForm)
	err := json.NewDecoder(r.Body).Decode(form)
	if err != nil {
		errorWrite(w, http.StatusBadRequest, err)
		return
	}
	profile, err := h.deps.Imports.CreateProfile(r.Context(), domain.SessionFrom(r.Context()), *form)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	jsonWrite(w, http.StatusCreated, profile)
}

func (h *dashboardHandler) importWorkbook(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.deps.MaxUploadMB<<20)
	err := r.ParseMultipartForm(multipartMemory)
	if err != nil {
		var maxBytes *http.MaxBytesError
		if errors.As(err, &maxBytes) {
			writeServiceError(w, err)
			return
		}
		errorWrite(w, http.StatusBadRequest, err)
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		errorWrite(w, http.StatusBadRequest, fmt.Errorf("file: %w", err))
		return
	}
	defer file.Close()

	res, err := h.deps.Imports.Import(r.Context(), domain.SessionFrom(r.Context()), file, header.Filename)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	jsonWrite(w, http.StatusOK, res)
}

func (h *dashboardHandler) dashboard(w http.ResponseWriter, r *http.Request) {
	dash, err := h.deps.Dashboards.Load(r.Context(), domain.SessionFrom(r.Context()))
	var fetchErr *domain.FetchError
	if errors.As(err, &fetchErr) {
		jsonWrite(w, http.StatusOK, service.EmptyDashboard())
		return
	}
	if err != nil {
		writeServiceError(w, err)
		return
	}
	jsonWrite(w, http.StatusOK, dash)
}

func (h *dashboardHandler) ask(w http.ResponseWriter, r *http.Request) {
	q := new(domain.Question)
	err := json.NewDecoder(r.Body).Decode(q)
	if err != nil {
		errorWrite(w, http.StatusBadRequest, err)
		return
	}
	if strings.TrimSpace(q.Question) == "" {
		errorWrite(w, http.StatusBadRequest, errors.New("question cannot be empty"))
		return
	}
	answer := h.deps.Assistant.Ask(r.Context(), domain.SessionFrom(r.Context()), q.Question)
	jsonWrite(w, http.StatusOK, domain.Answer{Answer: answer})
}
