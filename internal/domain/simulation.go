package domain

const (
	FuelGasoline = "Gasolina"
	FuelEthanol  = "Álcool"
	FuelCNG      = "GNV"
)

type TripSimulation struct {
	DistanceKm     float64 `json:"distance_km"`
	FuelType       string  `json:"fuel_type"`
	ConsumptionKmL float64 `json:"consumption_kml"`
	FuelPrice      float64 `json:"fuel_price"`
}

type SimulationResult struct {
	FuelCost        float64 `json:"fuel_cost"`
	DepreciationEst float64 `json:"depreciation_est"`
	TotalCost       float64 `json:"total_cost"`
	MinFairPrice    float64 `json:"min_fair_price"`
	NetProfitEst    float64 `json:"net_profit_est"`
}
