package metrics

import (
	"math"
	"testing"
	"time"

	"github.com/euRhuanOLiveira/Driverpro/internal/domain"
)

func day(d int) time.Time {
	return time.Date(2024, 3, d, 0, 0, 0, 0, time.UTC)
}

func ptr(f float64) *float64 { return &f }

func almost(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestDeriveKPIsEmpty(t *testing.T) {
	if got := DeriveKPIs(nil, Overrides{}, nil); got != nil {
		t.Errorf("DeriveKPIs(nil) = %+v; want nil", got)
	}
	if got := DeriveKPIs([]domain.DailyMetric{}, Overrides{}, nil); got != nil {
		t.Errorf("DeriveKPIs([]) = %+v; want nil", got)
	}
}

func TestDeriveKPIsSingleDay(t *testing.T) {
	daily := []domain.DailyMetric{{Date: day(1), TotalNet: 100, TotalTrips: 10, TotalHoursWorked: 5, AvgNetPerKm: 2}}

	k := DeriveKPIs(daily, Overrides{}, nil)
	if k == nil {
		t.Fatal("DeriveKPIs returned nil")
	}

	checks := []struct {
		name string
		got  float64
		want float64
	}{
		{"avgNetPerHour", k.AvgNetPerHour, 20},
		{"avgNetPerTrip", k.AvgNetPerTrip, 10},
		{"avgValueKm", k.AvgValueKm, 2},
		{"avgDuration", k.AvgDuration, 30},
		{"goodTripsPercent", k.GoodTripsPercent, 75},
		{"totalNet", k.TotalNet, 100},
	}
	for _, c := range checks {
		if !almost(c.got, c.want) {
			t.Errorf("%s = %v; want %v", c.name, c.got, c.want)
		}
	}
	if k.BestHour != NoBestHour {
		t.Errorf("bestHour = %q; want N/A", k.BestHour)
	}
}

func TestDeriveKPIsZeroDenominators(t *testing.T) {
	daily := []domain.DailyMetric{{Date: day(1)}, {Date: day(2)}}

	k := DeriveKPIs(daily, Overrides{}, nil)
	if k == nil {
		t.Fatal("rows without activity still produce a KPI set")
	}
	if k.AvgNetPerHour != 0 || k.AvgNetPerTrip != 0 || k.AvgDuration != 0 {
		t.Errorf("zero denominators must give zero, got %+v", k)
	}
	if k.GoodTripsPercent != 0 {
		t.Errorf("goodTripsPercent without trips = %v; want 0", k.GoodTripsPercent)
	}
}

func TestDeriveKPIsOverrides(t *testing.T) {
	daily := []domain.DailyMetric{
		{Date: day(2), TotalNet: 90, TotalTrips: 6, TotalHoursWorked: 3, AvgNetPerKm: 3},
		{Date: day(1), TotalNet: 30, TotalTrips: 2, TotalHoursWorked: 1, AvgNetPerKm: 1},
	}

	tests := []struct {
		name         string
		overrides    Overrides
		wantValueKm  float64
		wantDuration float64
		wantGood     float64
	}{
		{
			name:         "derived",
			wantValueKm:  2,
			wantDuration: 30,
			wantGood:     75,
		},
		{
			name: "precomputed",
			overrides: Overrides{
				AvgValuePerKm:  ptr(2.75),
				AvgDuration:    ptr(18),
				Classification: &domain.TripClassification{GoodTrips: 3, BadTrips: 1},
			},
			wantValueKm:  2.75,
			wantDuration: 18,
			wantGood:     75,
		},
		{
			name: "zero scalars fall back",
			overrides: Overrides{
				AvgValuePerKm:  ptr(0),
				AvgDuration:    ptr(0),
				Classification: &domain.TripClassification{},
			},
			wantValueKm:  2,
			wantDuration: 30,
			wantGood:     75,
		},
		{
			name:         "measured classification",
			overrides:    Overrides{Classification: &domain.TripClassification{GoodTrips: 1, BadTrips: 4}},
			wantValueKm:  2,
			wantDuration: 30,
			wantGood:     20,
		},
	}

	for _, tt := range tests {
		k := DeriveKPIs(daily, tt.overrides, nil)
		if !almost(k.AvgValueKm, tt.wantValueKm) {
			t.Errorf("%s: avgValueKm = %v; want %v", tt.name, k.AvgValueKm, tt.wantValueKm)
		}
		if !almost(k.AvgDuration, tt.wantDuration) {
			t.Errorf("%s: avgDuration = %v; want %v", tt.name, k.AvgDuration, tt.wantDuration)
		}
		if !almost(k.GoodTripsPercent, tt.wantGood) {
			t.Errorf("%s: goodTripsPercent = %v; want %v", tt.name, k.GoodTripsPercent, tt.wantGood)
		}
	}
}

func TestBestHour(t *testing.T) {
	tests := []struct {
		name   string
		hourly []domain.HourlyEarnings
		want   string
	}{
		{"empty", nil, "N/A"},
		{
			name: "maximum",
			hourly: []domain.HourlyEarnings{
				{HourLabel: "06h", TotalNet: 40},
				{HourLabel: "18h", TotalNet: 120},
				{HourLabel: "22h", TotalNet: 80},
			},
			want: "18h",
		},
		{
			name: "tie keeps first",
			hourly: []domain.HourlyEarnings{
				{HourLabel: "07h", TotalNet: 10},
				{HourLabel: "08h", TotalNet: 50},
				{HourLabel: "17h", TotalNet: 50},
			},
			want: "08h",
		},
	}

	for _, tt := range tests {
		if got := BestHour(tt.hourly); got != tt.want {
			t.Errorf("%s: BestHour = %q; want %q", tt.name, got, tt.want)
		}
	}
}

func TestDeriveTimeSeriesSorted(t *testing.T) {
	inputs := [][]domain.DailyMetric{
		{{Date: day(3)}, {Date: day(1)}, {Date: day(2)}},
		{{Date: day(30)}, {Date: day(29)}, {Date: day(28)}, {Date: day(1)}},
		{{Date: day(5)}},
		nil,
	}

	for _, in := range inputs {
		series := DeriveTimeSeries(in)
		if len(series) != len(in) {
			t.Fatalf("series length = %d; want %d", len(series), len(in))
		}
		for i := 1; i < len(series); i++ {
			if series[i].Date.Before(series[i-1].Date) {
				t.Errorf("series not ascending at %d: %v before %v", i, series[i].Date, series[i-1].Date)
			}
		}
	}

	series := DeriveTimeSeries([]domain.DailyMetric{{Date: day(9), TotalNet: 12, AvgNetPerHour: 4}})
	if series[0].Label != "09/03" || series[0].TotalNet != 12 || series[0].AvgNetPerHour != 4 {
		t.Errorf("point = %+v", series[0])
	}
}

func TestDeriveKPIsDoesNotReorderInput(t *testing.T) {
	daily := []domain.DailyMetric{{Date: day(2)}, {Date: day(1)}}
	DeriveKPIs(daily, Overrides{}, nil)
	if !daily[0].Date.Equal(day(2)) {
		t.Error("input slice was reordered")
	}
}

func TestCompareWithCity(t *testing.T) {
	kpis := &domain.KPISet{AvgNetPerHour: 30, AvgNetPerTrip: 12}
	city := &domain.CityRanking{CityName: "Recife", AvgNetPerHour: 25, AvgNetPerTrip: 14}

	got := CompareWithCity(kpis, city)
	want := []domain.Comparison{
		{Name: "Ganho por Hora", Driver: 30, City: 25},
		{Name: "Ganho por Corrida", Driver: 12, City: 14},
	}
	if len(got) != len(want) {
		t.Fatalf("got %d records; want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("record %d = %+v; want %+v", i, got[i], want[i])
		}
	}

	if got := CompareWithCity(nil, city); len(got) != 0 {
		t.Errorf("missing KPIs: got %+v", got)
	}
	if got := CompareWithCity(kpis, nil); len(got) != 0 {
		t.Errorf("missing city: got %+v", got)
	}
}
