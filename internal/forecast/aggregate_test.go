package forecast

import (
	"testing"
	"time"

	"SaleCast/internal/domain/models"
	domrepo "SaleCast/internal/domain/repository"
)

func dailySales(start time.Time, units ...float64) []models.Sale {
	out := make([]models.Sale, len(units))
	for i, u := range units {
		out[i] = models.Sale{ProductID: "P1", Date: start.AddDate(0, 0, i), Units: u}
	}
	return out
}

func TestAggregateDailyIdentity(t *testing.T) {
	sales := dailySales(day(2024, time.April, 1), 1, 2, 3)
	out := Aggregate(sales, domrepo.Daily)
	if len(out) != 3 {
		t.Fatalf("expected 3 points, got %d", len(out))
	}
	for i, p := range out {
		if !p.Date.Equal(sales[i].Date) || p.Total != sales[i].Units {
			t.Fatalf("point %d altered: %+v", i, p)
		}
	}
}

func TestAggregateMonthlyAcrossTwoMonths(t *testing.T) {
	// 14 consecutive days spanning April and May.
	sales := dailySales(day(2024, time.April, 24), 1, 1, 1, 1, 1, 1, 1, 2, 2, 2, 2, 2, 2, 2)
	out := Aggregate(sales, domrepo.Monthly)
	if len(out) != 2 {
		t.Fatalf("expected 2 monthly buckets, got %d", len(out))
	}
	if !out[0].Date.Equal(day(2024, time.April, 1)) || out[0].Total != 7 {
		t.Fatalf("april bucket: %+v", out[0])
	}
	if !out[1].Date.Equal(day(2024, time.May, 1)) || out[1].Total != 14 {
		t.Fatalf("may bucket: %+v", out[1])
	}
}

func TestAggregateYearly(t *testing.T) {
	sales := []models.Sale{
		{Date: day(2023, time.December, 30), Units: 5},
		{Date: day(2023, time.December, 31), Units: 5},
		{Date: day(2024, time.January, 1), Units: 3},
	}
	out := Aggregate(sales, domrepo.Yearly)
	if len(out) != 2 {
		t.Fatalf("expected 2 yearly buckets, got %d", len(out))
	}
	if !out[0].Date.Equal(day(2023, time.January, 1)) || out[0].Total != 10 {
		t.Fatalf("2023 bucket: %+v", out[0])
	}
	if !out[1].Date.Equal(day(2024, time.January, 1)) || out[1].Total != 3 {
		t.Fatalf("2024 bucket: %+v", out[1])
	}
}

func TestAggregateNoGapFilling(t *testing.T) {
	sales := []models.Sale{
		{Date: day(2024, time.January, 15), Units: 1},
		{Date: day(2024, time.March, 15), Units: 2},
	}
	out := Aggregate(sales, domrepo.Monthly)
	if len(out) != 2 {
		t.Fatalf("gap month must not be synthesized: got %d buckets", len(out))
	}
}
