package domain

const (
	AssistantEmptyAnswer = "Desculpe, não consegui processar sua solicitação agora."
	AssistantFailure     = "Ocorreu um erro ao consultar o assistente. Verifique sua conexão ou dados."
)

// AssistantContext is the only driver data that leaves the service for the
// text-generation endpoint. It holds aggregates, never trip rows.
type AssistantContext struct {
	Driver      AssistantDriver        `json:"motorista"`
	Insights    []AssistantInsight     `json:"insights_consolidados"`
	CityRanking AssistantCity          `json:"rankings_cidade"`
	RecentDaily []AssistantDailyMetric `json:"metricas_diarias_recentes"`
}

type AssistantDriver struct {
	DriverID    string `json:"id_99"`
	City        string `json:"cidade"`
	VehicleType string `json:"veiculo,omitempty"`
}

type AssistantInsight struct {
	Type        string  `json:"tipo"`
	Title       string  `json:"titulo"`
	Description string  `json:"descricao"`
	Value       float64 `json:"valor"`
	Unit        string  `json:"unidade"`
}

type AssistantCity struct {
	City          string  `json:"cidade"`
	AvgNetPerHour float64 `json:"media_por_hora"`
	AvgNetPerTrip float64 `json:"media_por_corrida"`
	AvgNetPerKm   float64 `json:"media_por_km"`
}

type AssistantDailyMetric struct {
	Date          string  `json:"data"`
	TotalNet      float64 `json:"total_ganho"`
	AvgNetPerHour float64 `json:"media_hora"`
	AvgNetPerTrip float64 `json:"media_corrida"`
}

type Question struct {
	Question string `json:"question"`
}

type Answer struct {
	Answer string `json:"answer"`
}
