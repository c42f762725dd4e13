package metrics

import (
	"sort"

	"github.com/euRhuanOLiveira/Driverpro/internal/domain"
	"github.com/samber/lo"
)

// GoodTripsFallback is shown when trips exist but the store has no
// good/bad classification. It is a placeholder, not a measurement.
const GoodTripsFallback = 75.0

const NoBestHour = "N/A"

// Overrides are the precomputed scalars the store may return. A nil or zero
// value means "derive it from the daily rows".
type Overrides struct {
	AvgValuePerKm  *float64
	AvgDuration    *float64
	Classification *domain.TripClassification
}

func OverridesFrom(data *domain.DashboardData) Overrides {
	if data == nil {
		return Overrides{}
	}
	return Overrides{
		AvgValuePerKm:  data.AvgValuePerKm,
		AvgDuration:    data.AvgTripDuration,
		Classification: data.TripClassification,
	}
}

// SortDaily returns a copy ordered by date, oldest first. Equal dates keep
// their input order.
func SortDaily(daily []domain.DailyMetric) []domain.DailyMetric {
	sorted := make([]domain.DailyMetric, len(daily))
	copy(sorted, daily)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date.Before(sorted[j].Date)
	})
	return sorted
}

// DeriveKPIs returns nil when there is nothing to summarize.
func DeriveKPIs(daily []domain.DailyMetric, overrides Overrides, hourly []domain.HourlyEarnings) *domain.KPISet {
	if len(daily) == 0 {
		return nil
	}
	sorted := SortDaily(daily)

	totalNet := lo.SumBy(sorted, func(m domain.DailyMetric) float64 { return m.TotalNet })
	totalTrips := lo.SumBy(sorted, func(m domain.DailyMetric) int { return m.TotalTrips })
	totalHours := lo.SumBy(sorted, func(m domain.DailyMetric) float64 { return m.TotalHoursWorked })

	kpis := &domain.KPISet{
		TotalNet:   totalNet,
		TotalTrips: totalTrips,
		BestHour:   BestHour(hourly),
	}
	if totalHours > 0 {
		kpis.AvgNetPerHour = totalNet / totalHours
	}
	if totalTrips > 0 {
		kpis.AvgNetPerTrip = totalNet / float64(totalTrips)
	}

	// mean of daily averages, not weighted by trips
	kpis.AvgValueKm = lo.SumBy(sorted, func(m domain.DailyMetric) float64 { return m.AvgNetPerKm }) / float64(len(sorted))
	if v := overrides.AvgValuePerKm; v != nil && *v != 0 {
		kpis.AvgValueKm = *v
	}

	if totalTrips > 0 {
		kpis.AvgDuration = totalHours * 60 / float64(totalTrips)
	}
	if v := overrides.AvgDuration; v != nil && *v != 0 {
		kpis.AvgDuration = *v
	}

	c := overrides.Classification
	switch {
	case c != nil && c.GoodTrips+c.BadTrips > 0:
		kpis.GoodTripsPercent = float64(c.GoodTrips) / float64(c.GoodTrips+c.BadTrips) * 100
	case totalTrips > 0:
		kpis.GoodTripsPercent = GoodTripsFallback
	}

	return kpis
}

// BestHour is the label of the first hour with the highest net.
func BestHour(hourly []domain.HourlyEarnings) string {
	if len(hourly) == 0 {
		return NoBestHour
	}
	best := lo.MaxBy(hourly, func(a, b domain.HourlyEarnings) bool {
		return a.TotalNet > b.TotalNet
	})
	return best.HourLabel
}

// DeriveTimeSeries is the day-over-day chart data, oldest first.
func DeriveTimeSeries(daily []domain.DailyMetric) []domain.SeriesPoint {
	return lo.Map(SortDaily(daily), func(m domain.DailyMetric, _ int) domain.SeriesPoint {
		return domain.SeriesPoint{
			Date:          m.Date,
			Label:         m.Date.Format("02/01"),
			TotalNet:      m.TotalNet,
			AvgNetPerHour: m.AvgNetPerHour,
		}
	})
}

// CompareWithCity pairs the driver's averages with the city benchmark.
func CompareWithCity(kpis *domain.KPISet, city *domain.CityRanking) []domain.Comparison {
	if kpis == nil || city == nil {
		return []domain.Comparison{}
	}
	return []domain.Comparison{
		{Name: "Ganho por Hora", Driver: kpis.AvgNetPerHour, City: city.AvgNetPerHour},
		{Name: "Ganho por Corrida", Driver: kpis.AvgNetPerTrip, City: city.AvgNetPerTrip},
	}
}
