package storage

import "time"

// Entry is one part snapshot in the cache.
type Entry struct {
	// Location info
	ProjectID string
	BoxID     string

	// Part info
	PartID       string
	MPN          string
	IPN          string
	Manufacturer string
	DateCode     string
	Quantity     int
	ReviewStatus string
}

// Change captures a single change event for auditing or printing.
type Change struct {
	OccurredAt time.Time

	ProjectID    string
	BoxID        string
	PartID       string
	MPN          string
	ChangeType   string // added | updated | removed
	ReviewStatus string
}
