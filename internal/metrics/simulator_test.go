package metrics

import (
	"errors"
	"math"
	"testing"

	"github.com/euRhuanOLiveira/Driverpro/internal/domain"
)

func TestSimulate(t *testing.T) {
	tests := []struct {
		name string
		in   domain.TripSimulation
		want domain.SimulationResult
	}{
		{
			name: "reference trip",
			in:   domain.TripSimulation{DistanceKm: 10, FuelType: domain.FuelGasoline, ConsumptionKmL: 10, FuelPrice: 5.80},
			want: domain.SimulationResult{FuelCost: 5.80, DepreciationEst: 2.50, TotalCost: 8.30, MinFairPrice: 13.28, NetProfitEst: 4.98},
		},
		{
			name: "ethanol short trip",
			in:   domain.TripSimulation{DistanceKm: 3, FuelType: domain.FuelEthanol, ConsumptionKmL: 8, FuelPrice: 4},
			want: domain.SimulationResult{FuelCost: 1.50, DepreciationEst: 0.75, TotalCost: 2.25, MinFairPrice: 3.60, NetProfitEst: 1.35},
		},
		{
			name: "zero distance",
			in:   domain.TripSimulation{DistanceKm: 0, FuelType: domain.FuelCNG, ConsumptionKmL: 12, FuelPrice: 4.5},
			want: domain.SimulationResult{},
		},
		{
			name: "fuel type omitted",
			in:   domain.TripSimulation{DistanceKm: 10, ConsumptionKmL: 10, FuelPrice: 5.80},
			want: domain.SimulationResult{FuelCost: 5.80, DepreciationEst: 2.50, TotalCost: 8.30, MinFairPrice: 13.28, NetProfitEst: 4.98},
		},
	}

	for _, tt := range tests {
		got, err := Simulate(tt.in)
		if err != nil {
			t.Errorf("%s: unexpected error %v", tt.name, err)
			continue
		}
		if got != tt.want {
			t.Errorf("%s: Simulate = %+v; want %+v", tt.name, got, tt.want)
		}
	}
}

func TestSimulateRejectsInvalidInput(t *testing.T) {
	tests := []struct {
		name string
		in   domain.TripSimulation
	}{
		{"zero consumption", domain.TripSimulation{DistanceKm: 10, ConsumptionKmL: 0, FuelPrice: 5}},
		{"negative consumption", domain.TripSimulation{DistanceKm: 10, ConsumptionKmL: -2, FuelPrice: 5}},
		{"negative distance", domain.TripSimulation{DistanceKm: -1, ConsumptionKmL: 10, FuelPrice: 5}},
		{"negative price", domain.TripSimulation{DistanceKm: 10, ConsumptionKmL: 10, FuelPrice: -5}},
		{"unknown fuel", domain.TripSimulation{DistanceKm: 10, ConsumptionKmL: 10, FuelPrice: 5, FuelType: "Diesel"}},
		{"infinite distance", domain.TripSimulation{DistanceKm: math.Inf(1), ConsumptionKmL: 10, FuelPrice: 5}},
	}

	for _, tt := range tests {
		if _, err := Simulate(tt.in); !errors.Is(err, domain.ErrInvalidSimulation) {
			t.Errorf("%s: err = %v; want ErrInvalidSimulation", tt.name, err)
		}
	}
}

func TestSimulateProfitIsSixtyPercentOfCost(t *testing.T) {
	for _, km := range []float64{1, 7.5, 23, 140} {
		got, err := Simulate(domain.TripSimulation{DistanceKm: km, ConsumptionKmL: 11, FuelPrice: 6.19})
		if err != nil {
			t.Fatalf("Simulate(%v): %v", km, err)
		}
		if math.Abs(got.NetProfitEst-got.TotalCost*0.6) > 0.011 {
			t.Errorf("km=%v: profit %v vs cost %v", km, got.NetProfitEst, got.TotalCost)
		}
	}
}
