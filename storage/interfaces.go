package storage

import "vendor-collector/models"

// ReportWriter renders the aggregated report to an output artifact.
type ReportWriter interface {
	Write(report *models.Report) error
}

// VendorWriter is the interface any vendor persistence backend must satisfy.
type VendorWriter interface {
	Write(vendors []*models.VendorRecord) error
	Close() error
}
