package metrics

import (
	"fmt"
	"math"

	"github.com/euRhuanOLiveira/Driverpro/internal/domain"
	"github.com/shopspring/decimal"
)

var (
	depreciationPerKm = decimal.RequireFromString("0.25")
	fairPriceFactor   = decimal.RequireFromString("1.6")
)

var fuelTypes = map[string]struct{}{
	domain.FuelGasoline: {},
	domain.FuelEthanol:  {},
	domain.FuelCNG:      {},
}

// Simulate prices a single trip. The fuel type is only validated; it does
// not change the arithmetic. An empty fuel type means gasoline.
func Simulate(in domain.TripSimulation) (domain.SimulationResult, error) {
	if err := validate(in); err != nil {
		return domain.SimulationResult{}, err
	}

	distance := decimal.NewFromFloat(in.DistanceKm)
	consumption := decimal.NewFromFloat(in.ConsumptionKmL)
	price := decimal.NewFromFloat(in.FuelPrice)

	fuel := distance.Div(consumption).Mul(price)
	depreciation := distance.Mul(depreciationPerKm)
	total := fuel.Add(depreciation)
	minFair := total.Mul(fairPriceFactor)
	profit := minFair.Sub(total)

	return domain.SimulationResult{
		FuelCost:        cents(fuel),
		DepreciationEst: cents(depreciation),
		TotalCost:       cents(total),
		MinFairPrice:    cents(minFair),
		NetProfitEst:    cents(profit),
	}, nil
}

func validate(in domain.TripSimulation) error {
	for _, v := range []float64{in.DistanceKm, in.ConsumptionKmL, in.FuelPrice} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: values must be finite", domain.ErrInvalidSimulation)
		}
	}

	switch {
	case in.ConsumptionKmL <= 0:
		return fmt.Errorf("%w: consumption_kml must be greater than zero", domain.ErrInvalidSimulation)
	case in.DistanceKm < 0:
		return fmt.Errorf("%w: distance_km must not be negative", domain.ErrInvalidSimulation)
	case in.FuelPrice < 0:
		return fmt.Errorf("%w: fuel_price must not be negative", domain.ErrInvalidSimulation)
	}
	if in.FuelType == "" {
		return nil
	}
	if _, ok := fuelTypes[in.FuelType]; !ok {
		return fmt.Errorf("%w: unknown fuel_type %q", domain.ErrInvalidSimulation, in.FuelType)
	}
	return nil
}

func cents(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}
