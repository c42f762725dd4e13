package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/euRhuanOLiveira/Driverpro/internal/domain"
	"github.com/samber/lo"
)

// RecentDailyLimit bounds how many daily rows leave the service.
const RecentDailyLimit = 10

const systemInstruction = `
Você é um assistente especializado em análise financeira para motoristas de aplicativo.

Você NÃO recebe dados brutos.
Você recebe apenas:
- insights calculados
- métricas consolidadas
- rankings médios da cidade e do estado

Regras obrigatórias:
- Nunca invente números.
- Nunca estime valores não fornecidos.
- Use apenas os dados recebidos.
- Seja claro, direto e prático.
- Fale como um consultor experiente, não como professor.
- Bloqueio: Não preveja ganhos futuros ("Se você trabalhar X horas, ganhará Y").
- Bloqueio: Não sugira que o motorista faça jornadas exaustivas (ex: "faça 12 horas").
- Bloqueio: Não afirme que o melhor dia "sempre é sexta". Interprete o passado.

Objetivo:
Ajudar o motorista a ganhar mais dinheiro, trabalhar melhor e entender seus próprios dados.

SQL calcula. IA explica. Motorista decide.
`

const promptTemplate = `
DADOS PARA ANÁLISE (JSON):
%s

PERGUNTA DO MOTORISTA:
"%s"

Instrução adicional: Responda de forma curta (até 5 linhas quando apropriado), acionável e humana.
`

type Generator interface {
	Generate(ctx context.Context, systemInstruction, prompt string) (string, error)
}

type DashboardFetcher interface {
	Fetch(ctx context.Context, session *domain.Session) (*domain.DashboardData, error)
}

type AssistantService struct {
	slogger *slog.Logger
	data    DashboardFetcher
	gen     Generator
}

// NewAssistantService accepts a nil generator; every question then gets the
// failure text.
func NewAssistantService(slogger *slog.Logger, data DashboardFetcher, gen Generator) *AssistantService {
	return &AssistantService{slogger: slogger, data: data, gen: gen}
}

// Ask always returns text for the chat panel. Failures are logged.
func (s *AssistantService) Ask(ctx context.Context, session *domain.Session, question string) string {
	question = strings.TrimSpace(question)
	if question == "" {
		return domain.AssistantEmptyAnswer
	}
	if s.gen == nil {
		s.fail(session, &domain.AssistantError{Err: errors.New("no generator configured")})
		return domain.AssistantFailure
	}

	data, err := s.data.Fetch(ctx, session)
	if err != nil {
		s.fail(session, &domain.AssistantError{Err: err})
		return domain.AssistantFailure
	}

	prompt, err := BuildPrompt(BuildContext(data), question)
	if err != nil {
		s.fail(session, &domain.AssistantError{Err: err})
		return domain.AssistantFailure
	}

	answer, err := s.gen.Generate(ctx, systemInstruction, prompt)
	if err != nil {
		s.fail(session, &domain.AssistantError{Err: err})
		return domain.AssistantFailure
	}
	if strings.TrimSpace(answer) == "" {
		return domain.AssistantEmptyAnswer
	}
	return answer
}

func (s *AssistantService) fail(session *domain.Session, err error) {
	userID := ""
	if session != nil {
		userID = session.UserID
	}
	s.slogger.Error("assistant failed", "action", "ask assistant", "user_id", userID, "error", err)
}

// BuildContext keeps aggregated figures only. Trips never reach this type.
func BuildContext(data *domain.DashboardData) domain.AssistantContext {
	recent := make([]domain.DailyMetric, len(data.DailyMetrics))
	copy(recent, data.DailyMetrics)
	sort.SliceStable(recent, func(i, j int) bool {
		return recent[i].Date.After(recent[j].Date)
	})
	if len(recent) > RecentDailyLimit {
		recent = recent[:RecentDailyLimit]
	}

	return domain.AssistantContext{
		Driver: domain.AssistantDriver{
			DriverID:    data.Profile.DriverID,
			City:        data.Profile.CityName,
			VehicleType: data.Profile.VehicleType,
		},
		Insights: lo.Map(data.Insights, func(i domain.Insight, _ int) domain.AssistantInsight {
			return domain.AssistantInsight{
				Type:        i.Type,
				Title:       i.Title,
				Description: i.Description,
				Value:       i.MetricValue,
				Unit:        i.MetricUnit,
			}
		}),
		CityRanking: domain.AssistantCity{
			City:          data.CityRanking.CityName,
			AvgNetPerHour: data.CityRanking.AvgNetPerHour,
			AvgNetPerTrip: data.CityRanking.AvgNetPerTrip,
			AvgNetPerKm:   data.CityRanking.AvgNetPerKm,
		},
		RecentDaily: lo.Map(recent, func(m domain.DailyMetric, _ int) domain.AssistantDailyMetric {
			return domain.AssistantDailyMetric{
				Date:          m.Date.Format("2006-01-02"),
				TotalNet:      m.TotalNet,
				AvgNetPerHour: m.AvgNetPerHour,
				AvgNetPerTrip: m.AvgNetPerTrip,
			}
		}),
	}
}

func BuildPrompt(payload domain.AssistantContext, question string) (string, error) {
	body, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return "", err
	}
	return fmt.Sprintf(promptTemplate, body, question), nil
}
