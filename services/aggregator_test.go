package services

import (
	"context"
	"reflect"
	"testing"

	"vendor-collector/models"
	"vendor-collector/utils"
)

// stubFetcher returns canned records per category.
type stubFetcher struct {
	byCategory map[string][]*models.VendorRecord
}

func (f *stubFetcher) FetchCategory(_ context.Context, category string) []*models.VendorRecord {
	return f.byCategory[category]
}

func vendor(category, name, address, phone string, valid bool) *models.VendorRecord {
	return &models.VendorRecord{
		Category:   category,
		Name:       name,
		Address:    address,
		Phone:      phone,
		PhoneValid: valid,
	}
}

func newTestAggregator(categories []string, byCategory map[string][]*models.VendorRecord) *Aggregator {
	return NewAggregator(&stubFetcher{byCategory: byCategory}, categories, utils.NewLogger())
}

func TestAggregatorDedupFirstWins(t *testing.T) {
	categories := []string{"Event Caterers Bangalore", "Wedding Venues Bangalore"}
	agg := newTestAggregator(categories, map[string][]*models.VendorRecord{
		"Event Caterers Bangalore": {
			vendor("Event Caterers Bangalore", "Ravi Caterers", "MG Road", "+919876543210", true),
		},
		"Wedding Venues Bangalore": {
			// Same identity key, different category: must be dropped.
			vendor("Wedding Venues Bangalore", "Ravi Caterers", "MG Road", "+919876543210", true),
			vendor("Wedding Venues Bangalore", "Palace Grounds", "Jayamahal", "+919876543211", true),
		},
	})

	report := agg.Collect(context.Background())

	if len(report.Vendors) != 2 {
		t.Fatalf("vendors: got %d, want 2", len(report.Vendors))
	}
	if report.Vendors[0].Category != "Event Caterers Bangalore" {
		t.Errorf("first-wins violated: survivor category %q", report.Vendors[0].Category)
	}
	if report.Vendors[1].Name != "Palace Grounds" {
		t.Errorf("order not preserved: got %q", report.Vendors[1].Name)
	}
}

func TestAggregatorIdentityKeyCaseInsensitive(t *testing.T) {
	categories := []string{"A", "B"}
	agg := newTestAggregator(categories, map[string][]*models.VendorRecord{
		"A": {vendor("A", "Ravi Caterers", "MG Road", "+919876543210", true)},
		"B": {vendor("B", "  RAVI CATERERS ", " mg road", "+919876543210", true)},
	})

	report := agg.Collect(context.Background())
	if len(report.Vendors) != 1 {
		t.Fatalf("vendors: got %d, want 1", len(report.Vendors))
	}
}

func TestAggregatorSummariesPreDedup(t *testing.T) {
	categories := []string{"A", "B"}
	agg := newTestAggregator(categories, map[string][]*models.VendorRecord{
		"A": {vendor("A", "Dup", "Addr", "+919876543210", true)},
		"B": {
			vendor("B", "Dup", "Addr", "+919876543210", true),
			vendor("B", "Other", "Elsewhere", "Not Available", false),
		},
	})

	report := agg.Collect(context.Background())

	// Detail sheet loses the duplicate, summaries do not.
	if len(report.Vendors) != 2 {
		t.Fatalf("vendors: got %d, want 2", len(report.Vendors))
	}
	if got := report.Summaries[1].Vendors; got != 2 {
		t.Errorf("category B vendor count: got %d, want 2 (pre-dedup)", got)
	}
	if got := report.Summaries[1].InvalidPhones; got != 1 {
		t.Errorf("category B invalid phones: got %d, want 1", got)
	}
	if report.Summaries[0].Vendors+report.Summaries[1].Vendors <= len(report.Vendors) {
		t.Error("summary totals should exceed deduplicated row count here")
	}
}

func TestAggregatorIdempotent(t *testing.T) {
	categories := []string{"A", "B"}
	data := map[string][]*models.VendorRecord{
		"A": {
			vendor("A", "One", "Addr1", "+919876543210", true),
			vendor("A", "Two", "Addr2", "Not Available", false),
		},
		"B": {vendor("B", "One", "Addr1", "+919876543210", true)},
	}

	agg := newTestAggregator(categories, data)
	first := agg.Collect(context.Background())
	second := agg.Collect(context.Background())

	if !reflect.DeepEqual(first, second) {
		t.Error("Collect is not idempotent over fixed fetch results")
	}
}

func TestAggregatorSingleCategoryCounts(t *testing.T) {
	categories := []string{"Event Caterers Bangalore"}
	agg := newTestAggregator(categories, map[string][]*models.VendorRecord{
		"Event Caterers Bangalore": {
			vendor("Event Caterers Bangalore", "A", "1", "+919876543210", true),
			vendor("Event Caterers Bangalore", "B", "2", "+919876543211", true),
			vendor("Event Caterers Bangalore", "C", "3", "+919876543212", true),
			vendor("Event Caterers Bangalore", "D", "4", "+919876543213", true),
		},
	})

	report := agg.Collect(context.Background())

	if len(report.Vendors) != 4 {
		t.Fatalf("vendors: got %d, want 4", len(report.Vendors))
	}
	if len(report.Summaries) != 1 {
		t.Fatalf("summaries: got %d, want 1", len(report.Summaries))
	}
	s := report.Summaries[0]
	if s.Category != "Event Caterers Bangalore" || s.Vendors != 4 || s.InvalidPhones != 0 {
		t.Errorf("summary: got (%q, %d, %d), want (Event Caterers Bangalore, 4, 0)",
			s.Category, s.Vendors, s.InvalidPhones)
	}
}

func TestSummarizeRatingAggregates(t *testing.T) {
	records := []*models.VendorRecord{
		{Name: "A", Rating: 4.5, Reviews: 100, PhoneValid: true},
		{Name: "B", Rating: 3.5, Reviews: 50, PhoneValid: true},
		{Name: "C", Rating: 0, Reviews: 0, PhoneValid: false}, // unrated, excluded from avg
	}

	s := summarize("X", records)

	if s.AvgRating != 4.0 {
		t.Errorf("AvgRating: got %.2f, want 4.00", s.AvgRating)
	}
	if s.TotalReviews != 150 {
		t.Errorf("TotalReviews: got %d, want 150", s.TotalReviews)
	}
	if s.InvalidPhones != 1 {
		t.Errorf("InvalidPhones: got %d, want 1", s.InvalidPhones)
	}
}
