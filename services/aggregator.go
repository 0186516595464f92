package services

import (
	"context"
	"fmt"
	"strings"

	"vendor-collector/models"
	"vendor-collector/utils"
)

// CategoryFetcher retrieves the vendor records for one category query.
type CategoryFetcher interface {
	FetchCategory(ctx context.Context, category string) []*models.VendorRecord
}

// Aggregator runs the fetcher over the configured category list, merges the
// results, deduplicates by identity key and computes per-category summaries.
type Aggregator struct {
	fetcher    CategoryFetcher
	categories []string
	logger     *utils.Logger
}

// NewAggregator creates an Aggregator over the given ordered category list.
func NewAggregator(fetcher CategoryFetcher, categories []string, logger *utils.Logger) *Aggregator {
	return &Aggregator{fetcher: fetcher, categories: categories, logger: logger}
}

// Collect fetches every category in list order and returns the deduplicated
// vendor collection plus one summary per category.
//
// Dedup keeps the first occurrence of an identity key, so the outcome depends
// on category list order. Summaries count each category's own fetch before
// cross-category dedup; their totals can therefore exceed the deduplicated
// row count. Both behaviors are deliberate and must be preserved.
func (a *Aggregator) Collect(ctx context.Context) *models.Report {
	seen := utils.NewKeySet()
	var vendors []*models.VendorRecord
	summaries := make([]*models.CategorySummary, 0, len(a.categories))

	for _, category := range a.categories {
		a.logger.Info("[aggregator] Searching: %s", category)
		records := a.fetcher.FetchCategory(ctx, category)
		summaries = append(summaries, summarize(category, records))

		kept := 0
		for _, rec := range records {
			if !seen.Add(rec.IdentityKey()) {
				a.logger.Debug("[aggregator] Duplicate vendor skipped: %s", rec.Name)
				continue
			}
			vendors = append(vendors, rec)
			kept++
		}

		a.logger.Info("[aggregator] %s: %d vendors found, %d new after dedup",
			category, len(records), kept)
	}

	a.logger.Info("[aggregator] Total unique vendors this run: %d", len(vendors))
	return &models.Report{Vendors: vendors, Summaries: summaries}
}

// summarize computes one category's counts from its pre-dedup records.
func summarize(category string, records []*models.VendorRecord) *models.CategorySummary {
	s := &models.CategorySummary{Category: category, Vendors: len(records)}

	var ratingSum float64
	rated := 0
	for _, rec := range records {
		if !rec.PhoneValid {
			s.InvalidPhones++
		}
		if rec.Rating > 0 {
			ratingSum += rec.Rating
			rated++
		}
		s.TotalReviews += rec.Reviews
	}
	if rated > 0 {
		s.AvgRating = round2(ratingSum / float64(rated))
	}
	return s
}

// PrintSummary renders the run's per-category results to the console.
func (a *Aggregator) PrintSummary(report *models.Report) {
	sep := strings.Repeat("═", 54)
	thin := strings.Repeat("─", 54)

	fmt.Printf("\n\033[1;35m%s\033[0m\n", sep)
	fmt.Printf("\033[1;35m  📋 VENDOR COLLECTION SUMMARY\033[0m\n")
	fmt.Printf("\033[1;35m%s\033[0m\n\n", sep)

	fmt.Printf("\033[1;33m  Per Category (pre-dedup)\033[0m\n")
	fmt.Printf("  %s\n", thin)

	totalVendors, totalInvalid := 0, 0
	for _, s := range report.Summaries {
		totalVendors += s.Vendors
		totalInvalid += s.InvalidPhones
		fmt.Printf("  %-36s \033[1m%3d\033[0m vendors, \033[1;31m%d\033[0m invalid phones\n",
			truncate(s.Category, 34), s.Vendors, s.InvalidPhones)
	}

	fmt.Println()
	fmt.Printf("\033[1;33m  Totals\033[0m\n")
	fmt.Printf("  %s\n", thin)
	fmt.Printf("  Vendors fetched        : \033[1m%d\033[0m\n", totalVendors)
	fmt.Printf("  Unique after dedup     : \033[1;32m%d\033[0m\n", len(report.Vendors))
	fmt.Printf("  Invalid/missing phones : \033[1;31m%d\033[0m\n", totalInvalid)

	fmt.Printf("\n\033[1;35m%s\033[0m\n\n", sep)
}

func round2(f float64) float64 {
	return float64(int(f*100+0.5)) / 100
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
