package main

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/euRhuanOLiveira/Driverpro/internal/domain"
)

func TestReport(t *testing.T) {
	km := 12.5
	trips := []domain.Trip{
		{TripID: "T1", TripDate: time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC), FareGross: 1234.5, DistanceKm: &km},
		{TripID: "T2", TripDate: time.Date(2024, 3, 12, 0, 0, 0, 0, time.UTC), FareGross: 20},
	}
	profile := domain.DriverProfile{DriverID: "99-1", CityName: "Recife"}

	var buf bytes.Buffer
	report(&buf, 2048, profile, trips, true)
	out := buf.String()

	for _, want := range []string{
		"arquivo:      2.0 kB",
		"motorista:    99-1 (Recife)",
		"corridas:     2",
		"faturamento:  R$ 1.254,50",
		"distância:    12,5 km em 1 corridas",
		"período:      10/03/2024 a 12/03/2024",
		"  T1 ",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("report is missing %q:\n%s", want, out)
		}
	}
}

func TestCheckRejectsUnknownFormat(t *testing.T) {
	if _, _, err := check(strings.NewReader("a,b"), "export.csv"); err == nil {
		t.Error("csv accepted")
	}
}
